package dto_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/simple-api/internal/application/dto"
	"github.com/jhoicas/simple-api/internal/domain"
)

func validRegister() dto.RegisterRequest {
	return dto.RegisterRequest{
		Credentials: dto.Credentials{Email: "a@b.com", Password: "Aa1!aaaa"},
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Birthday:    "1990-12-10",
		PhoneNumber: "+33 6 12 34 56 78",
	}
}

func TestRegisterRequest_Valido(t *testing.T) {
	require.NoError(t, validRegister().Validate())

	minimal := dto.RegisterRequest{Credentials: dto.Credentials{Email: "a@b.com", Password: "Aa1!aaaa"}}
	assert.NoError(t, minimal.Validate(), "el perfil es opcional")
}

func TestRegisterRequest_PoliticaDeContraseña(t *testing.T) {
	cases := map[string]string{
		"corta":           "Aa1!aaa",
		"sin mayúscula":   "aa1!aaaa",
		"sin minúscula":   "AA1!AAAA",
		"sin número":      "Aa!aaaaa",
		"sin especial":    "Aa1aaaaa",
		"símbolo no apto": "Aa1!aaaa#",
	}
	for name, pwd := range cases {
		t.Run(name, func(t *testing.T) {
			in := validRegister()
			in.Password = pwd
			verr := dto.NewValidationError(in.Validate())
			require.NotNil(t, verr)
			assert.Contains(t, verr.Fields, "password")
		})
	}
}

func TestRegisterRequest_ErroresPorCampo(t *testing.T) {
	in := dto.RegisterRequest{
		Credentials: dto.Credentials{Email: "no-es-email"},
		Birthday:    "10/12/1990",
	}
	verr := dto.NewValidationError(in.Validate())
	require.NotNil(t, verr)
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "password")
	assert.Contains(t, verr.Fields, "birthday")
	assert.True(t, errors.Is(verr, domain.ErrInvalidInput))
}

func TestRegisterRequest_FechaFutura(t *testing.T) {
	in := validRegister()
	in.Birthday = "2999-01-01"
	verr := dto.NewValidationError(in.Validate())
	require.NotNil(t, verr)
	assert.Contains(t, verr.Fields, "birthday")
}

func TestRegisterRequest_ParsedBirthday(t *testing.T) {
	in := validRegister()
	b := in.ParsedBirthday()
	require.NotNil(t, b)
	assert.Equal(t, 1990, b.Year())

	in.Birthday = ""
	assert.Nil(t, in.ParsedBirthday())
}

func TestLoginRequest_SoloPresencia(t *testing.T) {
	ok := dto.LoginRequest{Credentials: dto.Credentials{Email: "a@b.com", Password: "x"}}
	assert.NoError(t, ok.Validate(), "en login no se aplica la política de contraseña")

	verr := dto.NewValidationError(dto.LoginRequest{}.Validate())
	require.NotNil(t, verr)
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "password")
}

func TestValidationError_Mensaje(t *testing.T) {
	verr := &dto.ValidationError{Fields: map[string]string{"b": "dos", "a": "uno"}}
	assert.Equal(t, "a: uno; b: dos", verr.Error())
	assert.Nil(t, dto.NewValidationError(nil))

	single := dto.FieldError("phone_number", "número inválido")
	assert.Equal(t, "phone_number: número inválido", single.Error())
}

func TestTestPayload(t *testing.T) {
	assert.Error(t, dto.TestPayload{}.Validate())
	assert.NoError(t, dto.TestPayload{Data: "x"}.Validate())
}
