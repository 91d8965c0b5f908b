package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"

	"github.com/jhoicas/simple-api/pkg/config"
)

// Reintentos del ping inicial: la base puede tardar en aceptar conexiones (docker compose).
const (
	pingAttempts   = 5
	pingBackoffMin = 500 * time.Millisecond
)

// NewPool crea un pool de conexiones PostgreSQL usando la configuración de la app.
// Si está definido DATABASE_URL se usa tal cual; si no, se construye el DSN desde DB_HOST, DB_PORT, etc.
func NewPool(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	errb := oops.In("postgres").With("host", cfg.Host).With("database", cfg.DBName)

	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, errb.With("operation", "parse DSN").Wrap(err)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, errb.With("operation", "crear pool").Wrap(err)
	}

	backoff := retry.WithMaxRetries(pingAttempts-1, retry.NewExponential(pingBackoffMin))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := pool.Ping(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		pool.Close()
		return nil, errb.With("operation", "ping DB").With("attempts", pingAttempts).Wrap(err)
	}
	return pool, nil
}
