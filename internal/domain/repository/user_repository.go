package repository

import (
	"context"

	"github.com/jhoicas/simple-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// FindByID y FindByEmail devuelven (nil, nil) cuando no hay registro.
// Insert devuelve domain.ErrDuplicateID si choca la clave primaria y
// domain.ErrDuplicateUser si choca el índice único de email.
type UserRepository interface {
	ExistsByID(ctx context.Context, id string) (bool, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByID(ctx context.Context, id string) (*entity.User, error)
	Insert(ctx context.Context, user *entity.User) error
}

// UserBulkWriter carga masiva de usuarios (seed / benchmark).
type UserBulkWriter interface {
	InsertMany(ctx context.Context, users []*entity.User) (int64, error)
}

// CredentialUpdater reemplaza el registro de contraseña (migración de hashes bcrypt heredados).
type CredentialUpdater interface {
	UpdatePasswordHash(ctx context.Context, id, record string) error
}
