package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/jhoicas/simple-api/internal/domain"
)

// Nombres de las restricciones de unicidad de la tabla users (ver migrations/).
const (
	constraintUsersPK    = "users_pkey"
	constraintUsersEmail = "users_email_key"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505)
// y devuelve el nombre de la restricción.
func isUniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}

// classifyUserWrite traduce una violación de unicidad al sentinel de dominio;
// cualquier otro error se envuelve como ErrPersistence conservando el detalle.
func classifyUserWrite(err error, operation, userID string) error {
	if constraint, ok := isUniqueViolation(err); ok {
		switch constraint {
		case constraintUsersPK:
			return domain.ErrDuplicateID
		case constraintUsersEmail:
			return domain.ErrDuplicateUser
		}
	}
	return persistence(err, operation, "user_id", userID)
}

// persistence envuelve err con contexto oops y lo marca como ErrPersistence para errors.Is.
func persistence(err error, operation string, kv ...any) error {
	b := oops.In("postgres").With("operation", operation)
	if len(kv) > 0 {
		b = b.With(kv...)
	}
	return fmt.Errorf("%w: %w", domain.ErrPersistence, b.Wrap(err))
}
