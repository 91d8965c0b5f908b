package main

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/jhoicas/simple-api/internal/infrastructure/postgres"
	"github.com/jhoicas/simple-api/pkg/config"
	"github.com/jhoicas/simple-api/pkg/logger"
)

// NewRootCmd crea el comando raíz de authctl.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "authctl",
		Short: "Operación de simple-api",
		Long: `authctl agrupa las tareas de operación de simple-api contra PostgreSQL:
aplicar migraciones, crear administradores y sembrar usuarios de prueba.
La configuración se lee de las mismas variables de entorno que la API.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewCreateAdminCmd())
	cmd.AddCommand(NewSeedCmd())

	return cmd
}

// env recursos compartidos por los subcomandos.
type env struct {
	cfg  *config.Config
	log  *logger.Logger
	pool *pgxpool.Pool
}

func (e *env) Close() {
	e.pool.Close()
}

// openEnv carga la configuración y abre el pool de PostgreSQL.
func openEnv(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, oops.Code("CONFIG_INVALID").With("operation", "load config").Wrap(err)
	}
	if cfg.DB.Driver != config.DriverPostgres {
		return nil, oops.Code("CONFIG_INVALID").Errorf("authctl requiere DB_DRIVER=%s (actual: %s)", config.DriverPostgres, cfg.DB.Driver)
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").With("operation", "connect to database").Wrap(err)
	}
	return &env{cfg: cfg, log: log, pool: pool}, nil
}
