package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Cada capa los compara con errors.Is; la capa HTTP los traduce a códigos de respuesta.
var (
	ErrUserNotFound = errors.New("usuario no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")

	// ErrDuplicateUser el email ya está registrado (índice único del store).
	ErrDuplicateUser = errors.New("el email ya está registrado")
	// ErrDuplicateID el identificador generado ya existe (clave primaria del store).
	ErrDuplicateID = errors.New("identificador duplicado")
	// ErrIdentityExhausted se agotaron los reintentos del generador de identificadores.
	ErrIdentityExhausted = errors.New("reintentos de generación de identificador agotados")
	// ErrPersistence fallo del store; el detalle queda en los logs, nunca en la respuesta.
	ErrPersistence = errors.New("error de persistencia")
	// ErrConfiguration configuración ausente o inválida (p. ej. secreto JWT vacío).
	ErrConfiguration = errors.New("configuración inválida")
	// ErrCorruptCredential el registro de contraseña almacenado está mal formado.
	ErrCorruptCredential = errors.New("credencial almacenada corrupta")
	// ErrInvalidCredentials email o contraseña incorrectos (respuesta uniforme).
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	// ErrSpoofedClaims petición autenticada con un conjunto de claims incompleto.
	ErrSpoofedClaims = errors.New("claims incompletos en token autenticado")
)
