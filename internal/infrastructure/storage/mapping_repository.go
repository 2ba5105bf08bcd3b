package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"DevBlogProxy/internal/domain"
	"DevBlogProxy/internal/ports"
)

const (
	mappingTable = "article_slugs"
	upsertBatch  = 200

	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS article_slugs (
		id BIGINT PRIMARY KEY,
		slug TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_article_slugs_slug ON article_slugs (slug)`,
}

// Open connects to a supported driver and verifies the connection.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return db, nil
}

// MappingRepository persists the id/slug index in SQLite or Postgres.
type MappingRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
	now     func() time.Time
}

var _ ports.MappingRepository = (*MappingRepository)(nil)

// NewMappingRepository wires a sql.DB; the driver picks the placeholder style.
func NewMappingRepository(db *sql.DB, driver string) *MappingRepository {
	var format sq.PlaceholderFormat = sq.Question
	if driver == DriverPostgres {
		format = sq.Dollar
	}
	return &MappingRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(format),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Migrate creates the mapping table when missing.
func (r *MappingRepository) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate mapping table: %w", err)
		}
	}
	return nil
}

// UpsertMappings inserts or refreshes slugs in batches inside one transaction.
func (r *MappingRepository) UpsertMappings(ctx context.Context, mappings []domain.SlugMapping) error {
	if r.db == nil || len(mappings) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}

	now := r.now()
	for start := 0; start < len(mappings); start += upsertBatch {
		end := min(start+upsertBatch, len(mappings))

		insert := r.builder.Insert(mappingTable).Columns("id", "slug", "updated_at")
		for _, m := range dedupe(mappings[start:end]) {
			insert = insert.Values(m.ID, m.Slug, now)
		}
		query, args, err := insert.
			Suffix("ON CONFLICT (id) DO UPDATE SET slug = excluded.slug, updated_at = excluded.updated_at").
			ToSql()
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("build upsert: %w", err)
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("upsert mappings: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert: %w", err)
	}
	return nil
}

// SlugByID returns the slug for an article id.
func (r *MappingRepository) SlugByID(ctx context.Context, id int64) (string, error) {
	query, args, err := r.builder.Select("slug").From(mappingTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return "", fmt.Errorf("build select: %w", err)
	}

	var slug string
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&slug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrMappingNotFound
		}
		return "", fmt.Errorf("select slug: %w", err)
	}
	return slug, nil
}

// IDBySlug returns the lowest article id carrying slug.
func (r *MappingRepository) IDBySlug(ctx context.Context, slug string) (int64, error) {
	query, args, err := r.builder.Select("id").From(mappingTable).
		Where(sq.Eq{"slug": slug}).
		OrderBy("id").
		Limit(1).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build select: %w", err)
	}

	var id int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrMappingNotFound
		}
		return 0, fmt.Errorf("select id: %w", err)
	}
	return id, nil
}

// Export returns every mapping ordered by id.
func (r *MappingRepository) Export(ctx context.Context) ([]domain.SlugMapping, error) {
	query, args, err := r.builder.Select("id", "slug").From(mappingTable).OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build export: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query export: %w", err)
	}

	result := make([]domain.SlugMapping, 0)
	for rows.Next() {
		var m domain.SlugMapping
		if err := rows.Scan(&m.ID, &m.Slug); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan mapping: %w", err)
		}
		result = append(result, m)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	return result, nil
}

// ON CONFLICT cannot touch the same row twice in one statement; the last slug wins.
func dedupe(batch []domain.SlugMapping) []domain.SlugMapping {
	index := make(map[int64]int, len(batch))
	out := make([]domain.SlugMapping, 0, len(batch))
	for _, m := range batch {
		if i, ok := index[m.ID]; ok {
			out[i] = m
			continue
		}
		index[m.ID] = len(out)
		out = append(out, m)
	}
	return out
}
