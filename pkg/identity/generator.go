// Package identity genera identificadores opacos de 28 caracteres alfanuméricos
// sin colisiones contra el store de usuarios.
package identity

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/jhoicas/simple-api/internal/domain"
)

const (
	// Alphabet 62 símbolos posibles de un identificador.
	Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	// Length longitud fija del identificador.
	Length = 28
	// DefaultMaxAttempts tope de candidatos antes de rendirse.
	DefaultMaxAttempts = 50

	// Bytes >= rejectAbove se descartan para que b % 62 sea uniforme.
	rejectAbove = 256 - 256%len(Alphabet)
)

var errCollision = errors.New("identity: el candidato ya existe")

// ExistenceChecker es lo único que el generador necesita del repositorio.
type ExistenceChecker interface {
	ExistsByID(ctx context.Context, id string) (bool, error)
}

// Generator produce identificadores únicos. La comprobación de existencia es
// orientativa: la restricción de unicidad del store sigue siendo la garantía.
type Generator struct {
	store       ExistenceChecker
	random      io.Reader
	maxAttempts int
	onCollision func()
}

// Option configura el Generator.
type Option func(*Generator)

// WithMaxAttempts cambia el tope de candidatos (mínimo 1).
func WithMaxAttempts(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxAttempts = n
		}
	}
}

// WithCollisionHook registra una función invocada en cada colisión (métricas).
func WithCollisionHook(fn func()) Option {
	return func(g *Generator) { g.onCollision = fn }
}

// NewGenerator construye el generador. Si random es nil se usa crypto/rand.Reader.
func NewGenerator(store ExistenceChecker, random io.Reader, opts ...Option) *Generator {
	if random == nil {
		random = rand.Reader
	}
	g := &Generator{store: store, random: random, maxAttempts: DefaultMaxAttempts}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// MaxAttempts tope configurado.
func (g *Generator) MaxAttempts() int { return g.maxAttempts }

// Generate devuelve un identificador que el store reporta como inexistente.
// Devuelve domain.ErrIdentityExhausted si se supera el tope de intentos.
func (g *Generator) Generate(ctx context.Context) (string, error) {
	var id string
	backoff := retry.WithMaxRetries(uint64(g.maxAttempts-1), retry.BackoffFunc(func() (time.Duration, bool) {
		return 0, false
	}))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		candidate, err := New(g.random)
		if err != nil {
			return err
		}
		exists, err := g.store.ExistsByID(ctx, candidate)
		if err != nil {
			return fmt.Errorf("identity: comprobar existencia: %w", err)
		}
		if exists {
			if g.onCollision != nil {
				g.onCollision()
			}
			return retry.RetryableError(errCollision)
		}
		id = candidate
		return nil
	})
	if errors.Is(err, errCollision) {
		return "", fmt.Errorf("%w: %d intentos", domain.ErrIdentityExhausted, g.maxAttempts)
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

// New extrae un identificador aleatorio de random sin consultar el store.
func New(random io.Reader) (string, error) {
	out := make([]byte, 0, Length)
	buf := make([]byte, Length*2)
	for len(out) < Length {
		if _, err := io.ReadFull(random, buf); err != nil {
			return "", fmt.Errorf("identity: leer fuente aleatoria: %w", err)
		}
		for _, b := range buf {
			if int(b) >= rejectAbove {
				continue
			}
			out = append(out, Alphabet[int(b)%len(Alphabet)])
			if len(out) == Length {
				break
			}
		}
	}
	return string(out), nil
}

// Valid indica si s tiene la forma de un identificador generado.
func Valid(s string) bool {
	if len(s) != Length {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}
