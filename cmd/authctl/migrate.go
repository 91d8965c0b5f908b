package main

import (
	"context"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/jhoicas/simple-api/internal/infrastructure/postgres"
)

// NewMigrateCmd crea el subcomando migrate.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones pendientes",
		Long:  `Aplica todas las migraciones pendientes del esquema de usuarios en PostgreSQL.`,
		Args:  cobra.NoArgs,
		RunE:  runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cmd.Println("Conectando a la base de datos...")
	e, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	cmd.Println("Aplicando migraciones...")
	if err := postgres.Migrate(ctx, e.pool); err != nil {
		return oops.Code("MIGRATION_FAILED").With("operation", "run migrations").Wrap(err)
	}

	cmd.Println("Migraciones aplicadas")
	return nil
}
