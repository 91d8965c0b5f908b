// Package metrics expone contadores Prometheus del núcleo de autenticación.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Resultados de login usados como etiqueta.
const (
	LoginSuccess = "success"
	LoginInvalid = "invalid_credentials"
	LoginCorrupt = "corrupt_credential"
	LoginError   = "error"
)

// Resultados de registro usados como etiqueta.
const (
	RegistrationCreated   = "created"
	RegistrationDuplicate = "duplicate_email"
	RegistrationInvalid   = "invalid"
	RegistrationError     = "error"
)

// AuthMetrics contadores de autenticación. Un valor nil es válido y no registra nada.
type AuthMetrics struct {
	registry        *prometheus.Registry
	Registrations   *prometheus.CounterVec
	Logins          *prometheus.CounterVec
	TokenRejections *prometheus.CounterVec
	SpoofedClaims   prometheus.Counter
	IDCollisions    prometheus.Counter
}

// New crea los contadores sobre un registro propio (más los collectors de proceso y runtime).
func New() *AuthMetrics {
	reg := prometheus.NewRegistry()
	m := &AuthMetrics{
		registry: reg,
		Registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "simple_api_registrations_total",
			Help: "Registros de usuario por resultado",
		}, []string{"result"}),
		Logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "simple_api_logins_total",
			Help: "Intentos de login por resultado",
		}, []string{"result"}),
		TokenRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "simple_api_token_rejections_total",
			Help: "Tokens rechazados por motivo",
		}, []string{"reason"}),
		SpoofedClaims: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "simple_api_spoofed_claims_total",
			Help: "Peticiones autenticadas rechazadas por claims incompletos",
		}),
		IDCollisions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "simple_api_identity_collisions_total",
			Help: "Candidatos de identificador descartados por colisión",
		}),
	}
	reg.MustRegister(
		m.Registrations, m.Logins, m.TokenRejections, m.SpoofedClaims, m.IDCollisions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry registro subyacente.
func (m *AuthMetrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler expone el registro en formato texto de Prometheus.
func (m *AuthMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registration cuenta un registro con su resultado.
func (m *AuthMetrics) Registration(result string) {
	if m == nil {
		return
	}
	m.Registrations.WithLabelValues(result).Inc()
}

// Login cuenta un intento de login con su resultado.
func (m *AuthMetrics) Login(result string) {
	if m == nil {
		return
	}
	m.Logins.WithLabelValues(result).Inc()
}

// TokenRejected cuenta un token rechazado por motivo (expired, signature...).
func (m *AuthMetrics) TokenRejected(reason string) {
	if m == nil {
		return
	}
	m.TokenRejections.WithLabelValues(reason).Inc()
}

// Spoofed cuenta una petición rechazada por el ClaimsGuard.
func (m *AuthMetrics) Spoofed() {
	if m == nil {
		return
	}
	m.SpoofedClaims.Inc()
}

// Collision cuenta un candidato de identificador descartado.
func (m *AuthMetrics) Collision() {
	if m == nil {
		return
	}
	m.IDCollisions.Inc()
}
