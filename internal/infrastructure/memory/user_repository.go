// Package memory implementa los puertos de persistencia en memoria
// (DB_DRIVER=memory y tests). Respeta las mismas restricciones de unicidad que PostgreSQL.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/simple-api/internal/domain"
	"github.com/jhoicas/simple-api/internal/domain/entity"
	"github.com/jhoicas/simple-api/internal/domain/repository"
)

var (
	_ repository.UserRepository    = (*UserRepo)(nil)
	_ repository.UserBulkWriter    = (*UserRepo)(nil)
	_ repository.CredentialUpdater = (*UserRepo)(nil)
)

// UserRepo almacén en memoria indexado por id y por email.
// El mutex solo protege los mapas; nunca se retiene durante I/O.
type UserRepo struct {
	mu      sync.RWMutex
	byID    map[string]*entity.User
	byEmail map[string]string
}

// NewUserRepository construye un repositorio vacío.
func NewUserRepository() *UserRepo {
	return &UserRepo{
		byID:    make(map[string]*entity.User),
		byEmail: make(map[string]string),
	}
}

// ExistsByID indica si el id ya está ocupado.
func (r *UserRepo) ExistsByID(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byID[id]
	return ok, nil
}

// FindByEmail devuelve una copia del usuario o (nil, nil).
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return nil, nil
	}
	return clone(r.byID[id]), nil
}

// FindByID devuelve una copia del usuario o (nil, nil).
func (r *UserRepo) FindByID(ctx context.Context, id string) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return clone(r.byID[id]), nil
}

// Insert aplica las mismas restricciones que el esquema SQL: id y email únicos.
func (r *UserRepo) Insert(ctx context.Context, user *entity.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insertLocked(user)
}

// InsertMany inserta todos o ninguno.
func (r *UserRepo) InsertMany(ctx context.Context, users []*entity.User) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	seenIDs := make(map[string]struct{}, len(users))
	seenEmails := make(map[string]struct{}, len(users))
	for _, u := range users {
		if _, dup := r.byID[u.ID]; dup {
			return 0, domain.ErrDuplicateID
		}
		if _, dup := seenIDs[u.ID]; dup {
			return 0, domain.ErrDuplicateID
		}
		if _, dup := r.byEmail[u.Email]; dup {
			return 0, domain.ErrDuplicateUser
		}
		if _, dup := seenEmails[u.Email]; dup {
			return 0, domain.ErrDuplicateUser
		}
		seenIDs[u.ID] = struct{}{}
		seenEmails[u.Email] = struct{}{}
	}
	for _, u := range users {
		_ = r.insertLocked(u)
	}
	return int64(len(users)), nil
}

// UpdatePasswordHash reemplaza el registro de contraseña; ErrUserNotFound si no existe.
func (r *UserRepo) UpdatePasswordHash(ctx context.Context, id, record string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = record
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// Len número de usuarios almacenados.
func (r *UserRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

func (r *UserRepo) insertLocked(user *entity.User) error {
	if _, dup := r.byID[user.ID]; dup {
		return domain.ErrDuplicateID
	}
	if _, dup := r.byEmail[user.Email]; dup {
		return domain.ErrDuplicateUser
	}
	r.byID[user.ID] = clone(user)
	r.byEmail[user.Email] = user.ID
	return nil
}

func clone(u *entity.User) *entity.User {
	if u == nil {
		return nil
	}
	c := *u
	if u.Birthday != nil {
		b := *u.Birthday
		c.Birthday = &b
	}
	return &c
}
