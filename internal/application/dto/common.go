package dto

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/jhoicas/simple-api/internal/domain"
)

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// ValidationError errores de forma del payload, campo por campo.
// Se devuelve tal cual al cliente (400) y envuelve domain.ErrInvalidInput.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError construye un ValidationError desde el resultado de ozzo-validation
// o desde un mapa campo → mensaje. Devuelve nil si no hay errores.
func NewValidationError(err error) *ValidationError {
	if err == nil {
		return nil
	}
	var ve validation.Errors
	if errors.As(err, &ve) {
		fields := make(map[string]string, len(ve))
		for k, v := range ve {
			if v != nil {
				fields[k] = v.Error()
			}
		}
		if len(fields) == 0 {
			return nil
		}
		return &ValidationError{Fields: fields}
	}
	return &ValidationError{Fields: map[string]string{"body": err.Error()}}
}

// FieldError atajo para un único campo inválido.
func FieldError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return domain.ErrInvalidInput }

// TestPayload cuerpo de las rutas de prueba de protocolo.
type TestPayload struct {
	Data string `json:"data"`
}

// Validate Data es obligatorio.
func (p TestPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Data, validation.Required.Error("el campo data es obligatorio")),
	)
}
