package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/simple-api/internal/application/auth"
	"github.com/jhoicas/simple-api/internal/domain/entity"
	"github.com/jhoicas/simple-api/internal/infrastructure/memory"
	"github.com/jhoicas/simple-api/pkg/identity"
	"github.com/jhoicas/simple-api/pkg/password"
)

func TestSeeder_Lotes(t *testing.T) {
	repo := memory.NewUserRepository()
	hasher := password.NewHasher(nil)
	s := auth.NewSeeder(repo, hasher, nil, nil)

	count := auth.SeedBatchSize + 250
	report, err := s.Seed(context.Background(), count)
	require.NoError(t, err)
	assert.Equal(t, count, report.Requested)
	assert.EqualValues(t, count, report.Inserted)
	assert.Equal(t, count, repo.Len())
}

// capturingWriter guarda los lotes recibidos.
type capturingWriter struct {
	users []*entity.User
}

func (w *capturingWriter) InsertMany(_ context.Context, users []*entity.User) (int64, error) {
	w.users = append(w.users, users...)
	return int64(len(users)), nil
}

func TestSeeder_UsuariosUtilizables(t *testing.T) {
	w := &capturingWriter{}
	hasher := password.NewHasher(nil)
	s := auth.NewSeeder(w, hasher, nil, nil)

	_, err := s.Seed(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, w.users, 3)

	for _, u := range w.users {
		assert.True(t, identity.Valid(u.ID))
		assert.Equal(t, entity.RoleUser, u.Role)
		assert.Equal(t, auth.NormalizeEmail(u.Email), u.Email, "el email ya está normalizado")
		require.NotNil(t, u.Birthday)
		ok, err := hasher.Verify(u.PasswordHash, auth.SeedPassword)
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestSeeder_CeroYCancelado(t *testing.T) {
	repo := memory.NewUserRepository()
	s := auth.NewSeeder(repo, password.NewHasher(nil), nil, nil)

	report, err := s.Seed(context.Background(), 0)
	require.NoError(t, err)
	assert.Zero(t, report.Inserted)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Seed(ctx, 10)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, repo.Len())
}
