package main

import (
	"context"
	"crypto/rand"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/jhoicas/simple-api/internal/application/auth"
	"github.com/jhoicas/simple-api/internal/infrastructure/postgres"
	"github.com/jhoicas/simple-api/pkg/password"
)

const defaultSeedCount = 10000

// NewSeedCmd crea el subcomando seed-users.
func NewSeedCmd() *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "seed-users",
		Short: "Siembra usuarios aleatorios",
		Long: `Inserta usuarios aleatorios con rol User mediante COPY, en lotes, y reporta el tiempo total.
Todos comparten la contraseña ` + auth.SeedPassword + `.`,
		Args: cobra.NoArgs,
		PreRunE: func(_ *cobra.Command, _ []string) error {
			if count <= 0 {
				return oops.Code("INVALID_COUNT").With("count", count).Errorf("--count debe ser positivo")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd, count)
		},
	}
	cmd.Flags().IntVar(&count, "count", defaultSeedCount, "número de usuarios a insertar")
	return cmd
}

func runSeed(cmd *cobra.Command, count int) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	e, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	// Todos los lotes van en una sola transacción: una siembra fallida no deja filas.
	var report auth.SeedReport
	err = postgres.NewTxRunner(e.pool).Run(ctx, func(users *postgres.UserRepo) error {
		seeder := auth.NewSeeder(users, password.NewHasher(rand.Reader), rand.Reader, e.log)
		var seedErr error
		report, seedErr = seeder.Seed(ctx, count)
		return seedErr
	})
	if err != nil {
		return oops.Code("SEED_FAILED").With("count", count).Wrap(err)
	}

	cmd.Printf("Usuarios insertados: %d/%d en %s\n", report.Inserted, report.Requested, report.Elapsed)
	return nil
}
