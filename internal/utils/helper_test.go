package utils

import "testing"

func TestToSnakeCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"userId", "user_id"},
		{"createdAt", "created_at"},
		{"HTMLBody", "h_t_m_l_body"},
		{"already_snake", "already_snake"},
		{"Simple", "simple"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ToSnakeCase(tt.in); got != tt.want {
			t.Errorf("ToSnakeCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
