// Package password genera y verifica registros de contraseña con HMAC-SHA256.
//
// Formato del registro: base64(clave) + ":" + base64(HMAC-SHA256(clave, password)).
// La clave aleatoria de cada registro actúa como sal.
package password

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jhoicas/simple-api/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

const (
	// KeySize tamaño de clave nativo de HMAC-SHA256 (tamaño de bloque).
	KeySize = sha256.BlockSize
	// DigestSize longitud del digest HMAC-SHA256.
	DigestSize = sha256.Size

	separator = ":"
)

// ErrEmptyPassword no se hashean contraseñas vacías.
var ErrEmptyPassword = errors.New("password: contraseña vacía")

// Hasher genera y verifica registros. Es seguro para uso concurrente si el
// lector aleatorio también lo es (crypto/rand.Reader lo es).
type Hasher struct {
	random io.Reader
}

// NewHasher construye un Hasher que toma las claves de random.
// Si random es nil se usa crypto/rand.Reader.
func NewHasher(random io.Reader) *Hasher {
	if random == nil {
		random = rand.Reader
	}
	return &Hasher{random: random}
}

// Hash devuelve el registro "clave:digest" de la contraseña.
func (h *Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(h.random, key); err != nil {
		return "", fmt.Errorf("password: leer clave aleatoria: %w", err)
	}
	digest := sum(key, password)
	return base64.StdEncoding.EncodeToString(key) + separator + base64.StdEncoding.EncodeToString(digest), nil
}

// Verify compara candidate con el registro almacenado.
// Devuelve (true, nil) si coincide, (false, nil) si no, y
// (false, domain.ErrCorruptCredential) si el registro está mal formado.
func (h *Hasher) Verify(record, candidate string) (bool, error) {
	if isBcrypt(record) {
		return verifyBcrypt(record, candidate)
	}
	key, digest, err := parse(record)
	if err != nil {
		return false, err
	}
	computed := sum(key, candidate)
	// Comparación en tiempo constante sobre bytes derivados del secreto.
	return subtle.ConstantTimeCompare(computed, digest) == 1, nil
}

// NeedsRehash indica si el registro usa un formato heredado (bcrypt) y debe
// regenerarse en el próximo login correcto.
func (h *Hasher) NeedsRehash(record string) bool {
	return isBcrypt(record)
}

func sum(key []byte, password string) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(password))
	return mac.Sum(nil)
}

func parse(record string) (key, digest []byte, err error) {
	parts := strings.Split(record, separator)
	if len(parts) != 2 {
		return nil, nil, fmt.Errorf("%w: se esperaban 2 partes, hay %d", domain.ErrCorruptCredential, len(parts))
	}
	key, err = base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, nil, fmt.Errorf("%w: clave: %v", domain.ErrCorruptCredential, err)
	}
	if len(key) == 0 {
		return nil, nil, fmt.Errorf("%w: clave vacía", domain.ErrCorruptCredential)
	}
	digest, err = base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, nil, fmt.Errorf("%w: digest: %v", domain.ErrCorruptCredential, err)
	}
	if len(digest) != DigestSize {
		return nil, nil, fmt.Errorf("%w: digest de %d bytes", domain.ErrCorruptCredential, len(digest))
	}
	return key, digest, nil
}

func isBcrypt(record string) bool {
	return strings.HasPrefix(record, "$2a$") ||
		strings.HasPrefix(record, "$2b$") ||
		strings.HasPrefix(record, "$2y$")
}

func verifyBcrypt(record, candidate string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(record), []byte(candidate))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: bcrypt: %v", domain.ErrCorruptCredential, err)
	}
}
