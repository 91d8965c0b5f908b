package password_test

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/simple-api/internal/domain"
	"github.com/jhoicas/simple-api/pkg/password"
)

func TestHash_VerifyRoundTrip(t *testing.T) {
	h := password.NewHasher(rand.Reader)

	for _, pwd := range []string{"Aa1!aaaa", "Password123!", "ñandú-ü-日本語", " espacios al borde "} {
		record, err := h.Hash(pwd)
		require.NoError(t, err)

		ok, err := h.Verify(record, pwd)
		require.NoError(t, err)
		assert.True(t, ok, "la contraseña original debe verificar: %q", pwd)
	}
}

func TestVerify_ContraseñaDistinta(t *testing.T) {
	h := password.NewHasher(nil)
	record, err := h.Hash("Aa1!aaaa")
	require.NoError(t, err)

	for _, other := range []string{"Aa1!aaab", "aa1!aaaa", "", "Aa1!aaaa "} {
		ok, err := h.Verify(record, other)
		require.NoError(t, err)
		assert.False(t, ok, "no debe verificar: %q", other)
	}
}

func TestHash_FormatoDelRegistro(t *testing.T) {
	h := password.NewHasher(rand.Reader)
	record, err := h.Hash("Aa1!aaaa")
	require.NoError(t, err)

	assert.NotEqual(t, "Aa1!aaaa", record)
	parts := strings.Split(record, ":")
	require.Len(t, parts, 2)

	key, err := base64.StdEncoding.DecodeString(parts[0])
	require.NoError(t, err)
	assert.Len(t, key, password.KeySize)

	digest, err := base64.StdEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	assert.Len(t, digest, password.DigestSize)
}

func TestHash_SalDistintaPorRegistro(t *testing.T) {
	h := password.NewHasher(rand.Reader)
	a, err := h.Hash("Aa1!aaaa")
	require.NoError(t, err)
	b, err := h.Hash("Aa1!aaaa")
	require.NoError(t, err)

	assert.NotEqual(t, a, b, "dos hashes de la misma contraseña no deben coincidir")
}

func TestHash_UsaElLectorInyectado(t *testing.T) {
	seed := bytes.Repeat([]byte{0x42}, password.KeySize*2)
	a, err := password.NewHasher(bytes.NewReader(seed)).Hash("Aa1!aaaa")
	require.NoError(t, err)
	b, err := password.NewHasher(bytes.NewReader(seed)).Hash("Aa1!aaaa")
	require.NoError(t, err)

	assert.Equal(t, a, b, "con la misma fuente el registro es determinista")
}

func TestHash_ErrorDeFuenteAleatoria(t *testing.T) {
	h := password.NewHasher(bytes.NewReader([]byte{1, 2, 3}))
	_, err := h.Hash("Aa1!aaaa")
	assert.Error(t, err)
}

func TestHash_ContraseñaVacía(t *testing.T) {
	_, err := password.NewHasher(nil).Hash("")
	assert.ErrorIs(t, err, password.ErrEmptyPassword)
}

func TestVerify_RegistroCorrupto(t *testing.T) {
	h := password.NewHasher(nil)
	validDigest := base64.StdEncoding.EncodeToString(make([]byte, password.DigestSize))
	validKey := base64.StdEncoding.EncodeToString(make([]byte, password.KeySize))

	cases := map[string]string{
		"sin separador":       "abc",
		"tres partes":         validKey + ":" + validDigest + ":x",
		"clave no base64":     "***:" + validDigest,
		"digest no base64":    validKey + ":***",
		"clave vacía":         ":" + validDigest,
		"digest corto":        validKey + ":" + base64.StdEncoding.EncodeToString([]byte("corto")),
		"registro vacío":      "",
		"texto plano antiguo": "Aa1!aaaa",
	}
	for name, record := range cases {
		t.Run(name, func(t *testing.T) {
			ok, err := h.Verify(record, "Aa1!aaaa")
			assert.False(t, ok)
			assert.True(t, errors.Is(err, domain.ErrCorruptCredential), "esperado ErrCorruptCredential, obtenido %v", err)
		})
	}
}

func TestVerify_RegistroBcryptHeredado(t *testing.T) {
	legacy, err := bcrypt.GenerateFromPassword([]byte("Password123!"), bcrypt.MinCost)
	require.NoError(t, err)
	h := password.NewHasher(nil)

	ok, err := h.Verify(string(legacy), "Password123!")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify(string(legacy), "otra")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.True(t, h.NeedsRehash(string(legacy)))

	current, err := h.Hash("Password123!")
	require.NoError(t, err)
	assert.False(t, h.NeedsRehash(current))
}

func TestHasher_UsoConcurrente(t *testing.T) {
	h := password.NewHasher(rand.Reader)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			record, err := h.Hash("Aa1!aaaa")
			if !assert.NoError(t, err) {
				return
			}
			ok, err := h.Verify(record, "Aa1!aaaa")
			assert.NoError(t, err)
			assert.True(t, ok)
		}()
	}
	wg.Wait()
}
