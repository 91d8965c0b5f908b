package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/simple-api/internal/domain"
	"github.com/jhoicas/simple-api/internal/domain/entity"
	"github.com/jhoicas/simple-api/internal/domain/repository"
)

var (
	_ repository.UserRepository    = (*UserRepo)(nil)
	_ repository.UserBulkWriter    = (*UserRepo)(nil)
	_ repository.CredentialUpdater = (*UserRepo)(nil)
)

// poolIface subconjunto de *pgxpool.Pool usado por el repositorio (pgxmock.PgxPoolIface también lo cumple).
type poolIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

const userColumns = `id, first_name, last_name, email, password_hash, birthday, phone_number, role, created_at, updated_at`

// copyColumns mismo orden que userColumns, para CopyFrom.
var copyColumns = []string{
	"id", "first_name", "last_name", "email", "password_hash",
	"birthday", "phone_number", "role", "created_at", "updated_at",
}

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	pool poolIface
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(pool poolIface) *UserRepo {
	return &UserRepo{pool: pool}
}

// ExistsByID consulta la clave primaria; lo usa el generador de identificadores.
func (r *UserRepo) ExistsByID(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, persistence(err, "exists user by id", "user_id", id)
	}
	return exists, nil
}

// FindByEmail obtiene un usuario por email normalizado.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := r.scanOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	if err != nil {
		return nil, persistence(err, "get user by email")
	}
	return u, nil
}

// FindByID obtiene un usuario por ID.
func (r *UserRepo) FindByID(ctx context.Context, id string) (*entity.User, error) {
	u, err := r.scanOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		return nil, persistence(err, "get user by id", "user_id", id)
	}
	return u, nil
}

// Insert persiste un nuevo usuario. Las violaciones de unicidad se traducen a
// domain.ErrDuplicateID o domain.ErrDuplicateUser.
func (r *UserRepo) Insert(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.pool.Exec(ctx, query,
		user.ID, user.FirstName, user.LastName, user.Email, user.PasswordHash,
		user.Birthday, user.PhoneNumber, string(user.Role), user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return classifyUserWrite(err, "insert user", user.ID)
	}
	return nil
}

// InsertMany carga masiva con COPY: una sola sentencia, todo o nada.
func (r *UserRepo) InsertMany(ctx context.Context, users []*entity.User) (int64, error) {
	if len(users) == 0 {
		return 0, nil
	}
	rows := pgx.CopyFromSlice(len(users), func(i int) ([]any, error) {
		u := users[i]
		return []any{
			u.ID, u.FirstName, u.LastName, u.Email, u.PasswordHash,
			u.Birthday, u.PhoneNumber, string(u.Role), u.CreatedAt, u.UpdatedAt,
		}, nil
	})
	n, err := r.pool.CopyFrom(ctx, pgx.Identifier{"users"}, copyColumns, rows)
	if err != nil {
		return 0, classifyUserWrite(err, "copy users", "")
	}
	return n, nil
}

// UpdatePasswordHash reemplaza el registro de contraseña de un usuario.
func (r *UserRepo) UpdatePasswordHash(ctx context.Context, id, record string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`,
		id, record, time.Now().UTC())
	if err != nil {
		return persistence(err, "update password hash", "user_id", id)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// scanOne devuelve (nil, nil) si no hay filas.
func (r *UserRepo) scanOne(ctx context.Context, query string, arg any) (*entity.User, error) {
	var (
		u    entity.User
		role string
	)
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash,
		&u.Birthday, &u.PhoneNumber, &role, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	u.Role = entity.Role(role)
	return &u, nil
}
