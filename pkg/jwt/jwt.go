package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/jhoicas/simple-api/internal/domain"
)

// DefaultValidity ventana de validez por defecto de un token.
const DefaultValidity = 190 * time.Minute

// Errores de validación. Todos envuelven ErrTokenInvalid: hacia el cliente
// la respuesta es única, el motivo concreto solo va a logs y métricas.
var (
	ErrTokenInvalid   = errors.New("jwt: token inválido")
	ErrTokenMalformed = fmt.Errorf("%w: mal formado", ErrTokenInvalid)
	ErrTokenSignature = fmt.Errorf("%w: firma incorrecta", ErrTokenInvalid)
	ErrTokenExpired   = fmt.Errorf("%w: expirado", ErrTokenInvalid)
	ErrTokenIssuer    = fmt.Errorf("%w: emisor inesperado", ErrTokenInvalid)
	ErrTokenAudience  = fmt.Errorf("%w: audiencia inesperada", ErrTokenInvalid)

	// ErrIncompleteSubject el emisor nunca firma tokens sin user_id o role.
	ErrIncompleteSubject = errors.New("jwt: sujeto sin user_id o role")
)

// Claims incluye los claims estándar JWT más los campos propios de la aplicación.
// Role viaja en el token para que el middleware RBAC decida sin consultar la DB.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"` // "User" | "Admin"
}

// Subject datos de identidad que se firman en el token.
type Subject struct {
	UserID string
	Email  string
	Role   string
}

// Token resultado de una emisión.
type Token struct {
	ID        string
	Value     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Config parámetros de firma y validación.
type Config struct {
	Secret   string
	Issuer   string
	Audience string
	Validity time.Duration
}

// Issuer emite y valida tokens HS256. Sin estado mutable: seguro para uso concurrente.
type Issuer struct {
	key      []byte
	issuer   string
	audience string
	validity time.Duration
	leeway   time.Duration
	now      func() time.Time
}

// Option configura el Issuer.
type Option func(*Issuer)

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) { i.now = now }
}

// WithLeeway tolerancia de reloj al validar exp.
func WithLeeway(d time.Duration) Option {
	return func(i *Issuer) { i.leeway = d }
}

// NewIssuer valida la configuración y construye el emisor.
// Secreto, emisor o audiencia vacíos son un error de configuración.
func NewIssuer(cfg Config, opts ...Option) (*Issuer, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("%w: jwt: secreto vacío", domain.ErrConfiguration)
	}
	// golang-jwt omite la comprobación de iss/aud si el valor esperado está vacío.
	if cfg.Issuer == "" || cfg.Audience == "" {
		return nil, fmt.Errorf("%w: jwt: emisor y audiencia son obligatorios", domain.ErrConfiguration)
	}
	validity := cfg.Validity
	if validity == 0 {
		validity = DefaultValidity
	}
	if validity < 0 {
		return nil, fmt.Errorf("%w: jwt: validez negativa", domain.ErrConfiguration)
	}
	i := &Issuer{
		key:      []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		validity: validity,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// Validity ventana configurada.
func (i *Issuer) Validity() time.Duration { return i.validity }

// Issue genera un token JWT firmado con user_id, email y role.
func (i *Issuer) Issue(s Subject) (Token, error) {
	if s.UserID == "" || s.Role == "" {
		return Token{}, ErrIncompleteSubject
	}
	now := i.now()
	exp := now.Add(i.validity)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    i.issuer,
			Subject:   s.UserID,
			Audience:  jwt.ClaimStrings{i.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		UserID: s.UserID,
		Email:  s.Email,
		Role:   s.Role,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.key)
	if err != nil {
		return Token{}, fmt.Errorf("jwt: firmar: %w", err)
	}
	return Token{
		ID:        claims.ID,
		Value:     signed,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Validate verifica firma, emisor, audiencia y expiración, y devuelve los claims.
// No comprueba que los claims propios estén completos: eso es tarea del ClaimsGuard.
func (i *Issuer) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return i.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.issuer),
		jwt.WithAudience(i.audience),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(i.leeway),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w (%v)", classify(err), err)
	}
	if !token.Valid {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrTokenSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return ErrTokenIssuer
	case errors.Is(err, jwt.ErrTokenInvalidAudience):
		return ErrTokenAudience
	default:
		return ErrTokenMalformed
	}
}

// Reason etiqueta corta del motivo de rechazo, para logs y métricas.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTokenSignature):
		return "signature"
	case errors.Is(err, ErrTokenExpired):
		return "expired"
	case errors.Is(err, ErrTokenIssuer):
		return "issuer"
	case errors.Is(err, ErrTokenAudience):
		return "audience"
	default:
		return "malformed"
	}
}
