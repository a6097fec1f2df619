package postgres

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Toutiscope/Facturation/internal/infrastructure/postgres/migrations"
)

// Migrate aplica en orden las migraciones embebidas pendientes, cada una en su transacción.
func Migrate(ctx context.Context, db TxBeginner, q Querier, log zerolog.Logger) error {
	return migrate(ctx, db, q, migrations.FS, log)
}

func migrate(ctx context.Context, db TxBeginner, q Querier, fsys fs.FS, log zerolog.Logger) error {
	// ── 1. Tabla de control ───────────────────────────────────────────────────
	_, err := q.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("crear schema_migrations: %w", err)
	}

	var current int
	if err := q.QueryRow(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("leer versión actual: %w", err)
	}

	// ── 2. Migraciones pendientes ─────────────────────────────────────────────
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("leer migraciones: %w", err)
	}
	var files []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".up.sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	for _, name := range files {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= current {
			continue
		}
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("leer migración %s: %w", name, err)
		}
		if err := apply(ctx, db, version, string(content)); err != nil {
			return fmt.Errorf("migración %s: %w", name, err)
		}
		log.Info().Int("version", version).Str("file", name).Msg("migración aplicada")
	}
	return nil
}

func apply(ctx context.Context, db TxBeginner, version int, sql string) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, sql); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, version); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
