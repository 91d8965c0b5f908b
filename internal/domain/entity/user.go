package entity

import "time"

// Role rol de un usuario; viaja como claim en el token.
type Role string

// Roles válidos para User.
const (
	RoleUser  Role = "User"
	RoleAdmin Role = "Admin"
)

// Valid indica si el rol pertenece al conjunto conocido.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User representa una cuenta del sistema.
type User struct {
	ID           string // 28 caracteres alfanuméricos, inmutable
	FirstName    string
	LastName     string
	Email        string // normalizado, único en el store
	PasswordHash string // base64(clave):base64(digest), nunca texto plano
	Birthday     *time.Time
	PhoneNumber  string // E.164 si se informó
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin atajo usado por las rutas protegidas.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
