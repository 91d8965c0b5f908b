package postgres

import (
	"context"
	"embed"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/samber/oops"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

// Migrate aplica las migraciones embebidas sobre el pool (goose necesita un *sql.DB).
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	// Sin Close: el *sql.DB comparte las conexiones del pool.
	db := stdlib.OpenDBFromPool(pool)

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return oops.In("postgres").With("operation", "goose dialect").Wrap(err)
	}
	if err := goose.UpContext(ctx, db, migrationsDir); err != nil {
		return oops.In("postgres").With("operation", "migrate up").Wrap(err)
	}
	return nil
}
