package auth

import (
	"strings"

	"github.com/jhoicas/simple-api/internal/domain"
)

// SpoofedClaimsMessage respuesta al cliente cuando se rechaza una petición por claims incompletos.
const SpoofedClaimsMessage = "Reported detected spoofed JWT in request header to admins."

// Motivos de rechazo del chequeo de claims.
const (
	ReasonMissingSubject = "missing subject claim"
	ReasonMissingRole    = "missing role claim"
)

// Identity identidad de la petición tal como la dejó el middleware de autenticación.
// Authenticated indica que el token validó firma, emisor, audiencia y expiración.
type Identity struct {
	Authenticated bool
	SubjectID     string
	Email         string
	Role          string
}

// ClaimsDecision resultado del chequeo de claims.
type ClaimsDecision struct {
	Allowed       bool
	Reason        string
	RemoteAddress string
}

// Err domain.ErrSpoofedClaims si la decisión es de rechazo.
func (d ClaimsDecision) Err() error {
	if d.Allowed {
		return nil
	}
	return domain.ErrSpoofedClaims
}

// CheckClaims rechaza una petición autenticada a la que le falta el sujeto o el rol.
// Las peticiones anónimas pasan: las rutas protegidas las rechazan después.
func CheckClaims(id Identity, remoteAddr string) ClaimsDecision {
	if !id.Authenticated {
		return ClaimsDecision{Allowed: true, RemoteAddress: remoteAddr}
	}
	var missing []string
	if strings.TrimSpace(id.SubjectID) == "" {
		missing = append(missing, ReasonMissingSubject)
	}
	if strings.TrimSpace(id.Role) == "" {
		missing = append(missing, ReasonMissingRole)
	}
	if len(missing) == 0 {
		return ClaimsDecision{Allowed: true, RemoteAddress: remoteAddr}
	}
	return ClaimsDecision{
		Allowed:       false,
		Reason:        strings.Join(missing, ", "),
		RemoteAddress: remoteAddr,
	}
}
