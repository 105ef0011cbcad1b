package services

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"schemabridge/internal/database"
	"schemabridge/internal/models"
	"schemabridge/internal/repositories"
)

// DiscoveryResult is what a discovery pass reports back, and also the shape
// cached in Redis between passes.
type DiscoveryResult struct {
	Tables       []string `json:"tables"`
	Discovered   []string `json:"discovered"`
	Associations int      `json:"associations"`
	FromCache    bool     `json:"from_cache"`
}

// DiscoveryService reverse-engineers models from a live database: it reads
// the catalog, registers a model per table not already in the registry, and
// optionally infers associations from foreign key metadata.
type DiscoveryService struct {
	schemaRepo *repositories.SchemaRepository
	cache      *repositories.RedisRepository
	log        *logrus.Logger
}

func NewDiscoveryService(schemaRepo *repositories.SchemaRepository, cache *repositories.RedisRepository, log *logrus.Logger) *DiscoveryService {
	return &DiscoveryService{schemaRepo: schemaRepo, cache: cache, log: log}
}

// Discover introspects every live table and registers a model for each one
// that is not already registered. Existing registrations are left untouched,
// so a repeat pass is a no-op for them.
func (s *DiscoveryService) Discover(ctx context.Context, sess *database.Session, associate bool) (*DiscoveryResult, error) {
	tables, err := s.schemaRepo.ListTables(ctx, sess)
	if err != nil {
		return nil, err
	}

	result := &DiscoveryResult{Tables: tables}
	for _, table := range tables {
		if sess.Registry.Has(table) {
			continue
		}
		model, err := s.introspectTable(ctx, sess, table)
		if err != nil {
			return nil, err
		}
		sess.Registry.Register(model)
		result.Discovered = append(result.Discovered, table)
	}

	if associate {
		attached, err := s.AutoAssociate(ctx, sess)
		if err != nil {
			return nil, err
		}
		result.Associations = attached
	}

	s.storeSnapshot(ctx, sess, result)
	return result, nil
}

// CachedResult returns the snapshot of the last discovery pass, or nil when
// none is cached.
func (s *DiscoveryService) CachedResult(ctx context.Context, sess *database.Session) (*DiscoveryResult, error) {
	if s.cache == nil {
		return nil, nil
	}
	raw, err := s.cache.GetSnapshot(ctx, sess.ID)
	if err != nil || raw == nil {
		return nil, err
	}
	var result DiscoveryResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, err
	}
	result.FromCache = true
	return &result, nil
}

func (s *DiscoveryService) introspectTable(ctx context.Context, sess *database.Session, table string) (*models.ModelDefinition, error) {
	native, err := s.schemaRepo.DescribeTable(ctx, sess, table)
	if err != nil {
		return nil, err
	}

	model := &models.ModelDefinition{
		TableName:  table,
		Attributes: make(map[string]*models.ColumnDefinition, len(native)),
		Options:    models.ModelOptions{FreezeTableName: true},
	}
	for _, col := range native {
		def := &models.ColumnDefinition{
			Name:          col.Name,
			LogicalType:   mapNativeType(col.NativeType),
			SQLType:       col.NativeType,
			PrimaryKey:    col.PrimaryKey,
			Nullable:      col.Nullable,
			AutoIncrement: col.AutoIncrement,
		}
		if col.Default != nil {
			def.Default, def.DefaultLiteral = normalizeDefault(*col.Default)
		}
		model.Attributes[col.Name] = def
		model.ColumnOrder = append(model.ColumnOrder, col.Name)
	}
	return model, nil
}

// AutoAssociate scans foreign key metadata and attaches a belongsTo on the
// referencing model plus the inverse hasMany on the referenced model.
// Aliases already taken are left alone, so repeat passes are idempotent.
// Dialects without usable FK metadata are skipped with a warning.
func (s *DiscoveryService) AutoAssociate(ctx context.Context, sess *database.Session) (int, error) {
	attached := 0
	for _, table := range sess.Registry.Names() {
		fks, err := s.schemaRepo.ListForeignKeys(ctx, sess, table)
		if errors.Is(err, repositories.ErrFKIntrospectionUnsupported) {
			s.log.WithField("dialect", sess.Dialect).Warn("foreign key introspection unavailable, skipping auto association")
			return attached, nil
		}
		if err != nil {
			return attached, err
		}

		source := sess.Registry.Get(table)
		for _, fk := range fks {
			target := sess.Registry.Get(fk.RefTable)
			if target == nil {
				continue
			}
			if !source.HasAssociation(fk.RefTable) {
				source.SetAssociation(&models.Association{
					Kind:       models.BelongsTo,
					Type:       models.BelongsTo.String(),
					Source:     table,
					Target:     fk.RefTable,
					ForeignKey: fk.Column,
					TargetKey:  fk.RefColumn,
					As:         fk.RefTable,
					OnDelete:   defaultOnDelete,
					OnUpdate:   defaultOnUpdate,
				})
				attached++
			}
			if !target.HasAssociation(table) {
				target.SetAssociation(&models.Association{
					Kind:       models.HasMany,
					Type:       models.HasMany.String(),
					Source:     fk.RefTable,
					Target:     table,
					ForeignKey: fk.Column,
					TargetKey:  fk.RefColumn,
					As:         table,
					OnDelete:   defaultOnDelete,
					OnUpdate:   defaultOnUpdate,
				})
				attached++
			}
		}
	}
	return attached, nil
}

func (s *DiscoveryService) storeSnapshot(ctx context.Context, sess *database.Session, result *DiscoveryResult) {
	if s.cache == nil {
		return
	}
	if err := s.cache.StoreSnapshot(ctx, sess.ID, result); err != nil {
		s.log.WithError(err).Warn("failed to cache discovery snapshot")
	}
}

// normalizeDefault rewrites catalog default expressions into a portable form.
// Timestamp functions collapse to CURRENT_TIMESTAMP. Recognized expressions
// and plain numbers stay literal; everything else is unwrapped from catalog
// quoting and marked as a plain value so re-rendering quotes it again.
func normalizeDefault(raw string) (*string, bool) {
	upper := strings.ToUpper(raw)
	if strings.Contains(upper, "CURRENT_TIMESTAMP") ||
		strings.Contains(upper, "NOW()") ||
		strings.Contains(upper, "GETDATE()") {
		v := "CURRENT_TIMESTAMP"
		return &v, true
	}

	v := raw
	// Postgres reports defaults with a cast suffix, e.g. 'active'::text.
	if i := strings.Index(v, "::"); i >= 0 {
		v = v[:i]
	}
	if isSQLExpression(v) {
		return &v, true
	}
	if _, err := strconv.ParseFloat(v, 64); err == nil {
		return &v, true
	}
	if len(v) >= 2 && strings.HasPrefix(v, "'") && strings.HasSuffix(v, "'") {
		v = strings.ReplaceAll(v[1:len(v)-1], "''", "'")
	}
	return &v, false
}

// mapNativeType folds a catalog type name back onto a canonical logical
// type. Matching is by substring with the more specific names first.
func mapNativeType(native string) string {
	t := strings.ToLower(native)
	switch {
	case strings.Contains(t, "tinyint(1)"), t == "bit", strings.Contains(t, "bool"):
		return "boolean"
	case strings.Contains(t, "jsonb"):
		return "jsonb"
	case strings.Contains(t, "json"):
		return "json"
	case strings.Contains(t, "uuid"), strings.Contains(t, "uniqueidentifier"):
		return "uuid"
	case strings.HasPrefix(t, "_"), strings.Contains(t, "[]"), strings.HasPrefix(t, "array"):
		return "array"
	case strings.Contains(t, "geography"):
		return "geography"
	case strings.Contains(t, "geometry"), strings.Contains(t, "point"), strings.Contains(t, "polygon"):
		return "geometry"
	case strings.Contains(t, "timestamp"), strings.Contains(t, "datetime"):
		return "datetime"
	case strings.Contains(t, "date"):
		return "date"
	case strings.Contains(t, "time"):
		return "time"
	case strings.Contains(t, "decimal"), strings.Contains(t, "numeric"):
		return "decimal"
	case strings.Contains(t, "money"):
		return "money"
	case strings.Contains(t, "double"):
		return "double"
	case strings.Contains(t, "float"), t == "real":
		return "float"
	case strings.Contains(t, "bigint"), strings.Contains(t, "bigserial"):
		return "bigint"
	case strings.Contains(t, "smallint"):
		return "smallint"
	case strings.Contains(t, "tinyint"):
		return "tinyint"
	case strings.Contains(t, "int"), strings.Contains(t, "serial"):
		return "integer"
	case strings.Contains(t, "blob"), strings.Contains(t, "binary"), strings.Contains(t, "bytea"), t == "image":
		return "binary"
	case strings.Contains(t, "text"), strings.Contains(t, "clob"):
		return "text"
	case strings.Contains(t, "char"):
		return "string"
	default:
		return "string"
	}
}
