package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/simple-api/internal/interfaces/http"
	"github.com/jhoicas/simple-api/internal/infrastructure/metrics"
	pkgjwt "github.com/jhoicas/simple-api/pkg/jwt"
	"github.com/jhoicas/simple-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "AbCdEfGhIjKlMnOpQrStUvWxYz01"
	testIssuer    = "simple-api-test"
	testAudience  = "simple-api-clients"
)

func newIssuer(t *testing.T) *pkgjwt.Issuer {
	t.Helper()
	iss, err := pkgjwt.NewIssuer(pkgjwt.Config{
		Secret:   testJWTSecret,
		Issuer:   testIssuer,
		Audience: testAudience,
		Validity: time.Hour,
	})
	require.NoError(t, err)
	return iss
}

// buildTestApp construye una aplicación Fiber mínima con:
//   - Authenticate + ClaimsGuard como en el router real
//   - RequireRole para autorizar el acceso
//   - Un handler dummy que devuelve 200 si pasa los middlewares
func buildTestApp(t *testing.T, m *metrics.AuthMetrics, log *logger.Logger, allowedRoles ...string) *fiber.App {
	t.Helper()
	if log == nil {
		log = logger.Nop()
	}
	app := fiber.New()
	app.Get("/protected",
		apphttp.Authenticate(newIssuer(t), log, m),
		apphttp.ClaimsGuard(log, m),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":      true,
				"role":    apphttp.GetRole(c),
				"user_id": apphttp.GetUserID(c),
			})
		},
	)
	return app
}

// tokenForRole genera un JWT con el rol indicado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := newIssuer(t).Issue(pkgjwt.Subject{UserID: testUserID, Email: "ada@example.com", Role: role})
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok.Value
}

// forgedToken firma con el secreto correcto un token al que le faltan claims propios.
func forgedToken(t *testing.T, userID, role string) string {
	t.Helper()
	now := time.Now()
	claims := pkgjwt.Claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Issuer:    testIssuer,
			Audience:  gojwt.ClaimStrings{testAudience},
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(time.Hour)),
		},
		UserID: userID,
		Role:   role,
	}
	signed, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

// doRequest lanza una petición GET /protected y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireRole
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: El usuario tiene el rol requerido → debe pasar (HTTP 200).
func TestRequireRole_AdminAccedeRutaAdmin(t *testing.T) {
	app := buildTestApp(t, nil, nil, "Admin")
	resp := doRequest(t, app, tokenForRole(t, "Admin"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode,
		"admin debe poder acceder a ruta restringida a admin")

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"], "la respuesta debe incluir ok:true")
	assert.Equal(t, "Admin", body["role"])
	assert.Equal(t, testUserID, body["user_id"])
}

// Caso 1b: El usuario tiene uno de los roles permitidos (multi-rol) → HTTP 200.
func TestRequireRole_UserAccedeRutaAdminOUser(t *testing.T) {
	app := buildTestApp(t, nil, nil, "Admin", "User")
	resp := doRequest(t, app, tokenForRole(t, "User"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// Caso 2: El usuario tiene un rol diferente al requerido → HTTP 403 Forbidden.
func TestRequireRole_UserBloqueadoEnRutaAdmin(t *testing.T) {
	app := buildTestApp(t, nil, nil, "Admin")
	resp := doRequest(t, app, tokenForRole(t, "User"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode,
		"un User no debe poder acceder a ruta restringida a admin")

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN",
		"la respuesta de error debe incluir el código FORBIDDEN")
}

// Caso 3: Sin header Authorization → HTTP 401 MISSING_TOKEN.
func TestRequireRole_SinAuthHeader_Retorna401(t *testing.T) {
	app := buildTestApp(t, nil, nil, "Admin")
	resp := doRequest(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_TOKEN")
}

// Caso 4: Token inválido / malformado → HTTP 401 INVALID_TOKEN y motivo contado.
func TestRequireRole_TokenInvalido_Retorna401(t *testing.T) {
	m := metrics.New()
	app := buildTestApp(t, m, nil, "Admin")
	resp := doRequest(t, app, "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INVALID_TOKEN")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TokenRejections.WithLabelValues("malformed")))
}

// Caso 4b: El motivo del rechazo llega al log con el nivel por defecto.
func TestAuthenticate_MotivoEnLogNivelInfo(t *testing.T) {
	logs := &bytes.Buffer{}
	log := logger.New(logger.Config{Env: "test", Level: "info", Output: logs})
	app := buildTestApp(t, nil, log, "Admin")
	resp := doRequest(t, app, "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, logs.String(), `"reason":"malformed"`)
	assert.Contains(t, logs.String(), `"level":"warn"`)
}

// Caso 5: Token firmado con otro secreto → 401.
func TestAuthenticate_SecretoIncorrecto(t *testing.T) {
	m := metrics.New()
	app := buildTestApp(t, m, nil, "User")

	other, err := pkgjwt.NewIssuer(pkgjwt.Config{Secret: "otro-secreto", Issuer: testIssuer, Audience: testAudience})
	require.NoError(t, err)
	tok, err := other.Issue(pkgjwt.Subject{UserID: testUserID, Role: "User"})
	require.NoError(t, err)

	resp := doRequest(t, app, "Bearer "+tok.Value)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TokenRejections.WithLabelValues("signature")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests ClaimsGuard: tokens válidos con claims incompletos
// ──────────────────────────────────────────────────────────────────────────────

func TestClaimsGuard_SinRol_Retorna400(t *testing.T) {
	m := metrics.New()
	logs := &bytes.Buffer{}
	log := logger.New(logger.Config{Env: "test", Level: "info", Output: logs})
	app := buildTestApp(t, m, log, "User")

	resp := doRequest(t, app, forgedToken(t, testUserID, ""))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "SPOOFED_CLAIMS")
	assert.Contains(t, string(body), "Reported detected spoofed JWT in request header to admins.")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SpoofedClaims))
	assert.Contains(t, logs.String(), `"security_alert":true`)
	assert.Contains(t, logs.String(), `"reason":"missing role claim"`)
}

func TestClaimsGuard_SinSujeto_Retorna400(t *testing.T) {
	app := buildTestApp(t, nil, nil, "User")
	resp := doRequest(t, app, forgedToken(t, "", "User"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestClaimsGuard_AnonimoPasaAlSiguiente(t *testing.T) {
	app := fiber.New()
	app.Get("/public",
		apphttp.Authenticate(newIssuer(t), logger.Nop(), nil),
		apphttp.ClaimsGuard(logger.Nop(), nil),
		func(c *fiber.Ctx) error { return c.SendString("ok") },
	)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/public", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
