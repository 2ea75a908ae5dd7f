// Package migrations embeds the schema and applies it in file-name order.
package migrations

import (
	"context"
	"embed"
	"io/fs"
	"log/slog"
	"sort"

	"parkspot/internal/pkg/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed *.sql
var files embed.FS

const createTrackingTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
    version     TEXT PRIMARY KEY,
    applied_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// advisory lock key shared by every instance applying migrations
const lockKey = 7243001

// Apply runs every embedded migration not yet recorded in schema_migrations.
// Each file commits in its own transaction together with its tracking row.
func Apply(ctx context.Context, pool *pgxpool.Pool) (int, error) {
	names, err := fs.Glob(files, "*.sql")
	if err != nil {
		return 0, errs.Wrap(err, "list migrations")
	}
	sort.Strings(names)

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return 0, errs.Wrap(err, "acquire connection for migrations")
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", lockKey); err != nil {
		return 0, errs.Wrap(err, "take migration lock")
	}
	defer func() {
		_, _ = conn.Exec(context.Background(), "SELECT pg_advisory_unlock($1)", lockKey)
	}()

	if _, err := conn.Exec(ctx, createTrackingTable); err != nil {
		return 0, errs.Wrap(err, "create schema_migrations")
	}

	applied := 0
	for _, name := range names {
		done, err := isApplied(ctx, conn, name)
		if err != nil {
			return applied, err
		}
		if done {
			continue
		}

		sqlText, err := files.ReadFile(name)
		if err != nil {
			return applied, errs.Wrapf(err, "read migration %s", name)
		}

		err = pgx.BeginFunc(ctx, conn, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, string(sqlText)); err != nil {
				return err
			}
			_, err := tx.Exec(ctx, "INSERT INTO schema_migrations (version) VALUES ($1)", name)
			return err
		})
		if err != nil {
			return applied, errs.Wrapf(err, "apply migration %s", name)
		}
		slog.Info("migration applied", "file", name)
		applied++
	}
	return applied, nil
}

func isApplied(ctx context.Context, conn *pgxpool.Conn, name string) (bool, error) {
	var exists bool
	err := conn.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)", name).Scan(&exists)
	if err != nil {
		return false, errs.Wrapf(err, "check migration %s", name)
	}
	return exists, nil
}
