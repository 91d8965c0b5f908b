package dto

import (
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// BirthdayLayout formato de fecha de nacimiento en la API.
const BirthdayLayout = "2006-01-02"

const passwordSpecials = "@$!%*?&"

// Credentials email + password; compartido por login y registro (composición, no herencia).
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate reglas de forma del payload de credenciales.
func (c Credentials) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Email, validation.Required.Error("el email es obligatorio"), is.Email.Error("email inválido")),
		validation.Field(&c.Password, validation.Required.Error("la contraseña es obligatoria"), validation.By(passwordPolicy)),
	)
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Credentials
}

// Validate en login solo se exige presencia: la política de contraseña es cosa del registro.
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r.Credentials,
		validation.Field(&r.Credentials.Email, validation.Required.Error("el email es obligatorio")),
		validation.Field(&r.Credentials.Password, validation.Required.Error("la contraseña es obligatoria")),
	)
}

// RegisterRequest entrada para registro: credenciales + perfil.
type RegisterRequest struct {
	Credentials
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Birthday    string `json:"birthday"` // YYYY-MM-DD
	PhoneNumber string `json:"phone_number"`
}

// Validate combina las reglas de credenciales y las del perfil.
func (r RegisterRequest) Validate() error {
	errs := validation.Errors{}
	if err := mergeErrors(errs, r.Credentials.Validate()); err != nil {
		return err
	}
	profile := validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Length(0, 100)),
		validation.Field(&r.LastName, validation.Length(0, 100)),
		validation.Field(&r.Birthday, validation.By(birthdayRule)),
		validation.Field(&r.PhoneNumber, validation.Length(0, 32)),
	)
	if err := mergeErrors(errs, profile); err != nil {
		return err
	}
	return errs.Filter()
}

// ParsedBirthday fecha de nacimiento ya validada (nil si no se informó).
func (r RegisterRequest) ParsedBirthday() *time.Time {
	if strings.TrimSpace(r.Birthday) == "" {
		return nil
	}
	t, err := time.Parse(BirthdayLayout, strings.TrimSpace(r.Birthday))
	if err != nil {
		return nil
	}
	return &t
}

// RegisterResponse salida del registro: solo el identificador.
type RegisterResponse struct {
	ID string `json:"id"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID          string     `json:"id"`
	FirstName   string     `json:"first_name,omitempty"`
	LastName    string     `json:"last_name,omitempty"`
	Email       string     `json:"email"`
	Birthday    *time.Time `json:"birthday,omitempty"`
	PhoneNumber string     `json:"phone_number,omitempty"`
	Role        string     `json:"role"`
	CreatedAt   time.Time  `json:"created_at"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// passwordPolicy: mínimo 8 caracteres, una minúscula, una mayúscula, un dígito
// y un carácter especial de @$!%*?&; no se admiten otros símbolos.
func passwordPolicy(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil // Required ya lo cubre
	}
	var lower, upper, digit, special bool
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		default:
			return errors.New("la contraseña solo admite letras, dígitos y @$!%*?&")
		}
	}
	if len(s) < 8 || !lower || !upper || !digit || !special {
		return errors.New("la contraseña debe tener al menos 8 caracteres e incluir una mayúscula, una minúscula, un número y un carácter especial")
	}
	return nil
}

func birthdayRule(value interface{}) error {
	s, _ := value.(string)
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	t, err := time.Parse(BirthdayLayout, s)
	if err != nil {
		return errors.New("fecha inválida, formato YYYY-MM-DD")
	}
	if t.After(time.Now()) {
		return errors.New("la fecha de nacimiento no puede estar en el futuro")
	}
	return nil
}

func mergeErrors(dst validation.Errors, err error) error {
	if err == nil {
		return nil
	}
	var ve validation.Errors
	if !errors.As(err, &ve) {
		return err
	}
	for k, v := range ve {
		dst[k] = v
	}
	return nil
}
