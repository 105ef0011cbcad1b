package utils

import (
	"strings"
	"unicode"
)

// ToSnakeCase converts camelCase or PascalCase to snake_case. Names that are
// already snake_case pass through unchanged.
func ToSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
