package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/simple-api/internal/domain"
	"github.com/jhoicas/simple-api/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("JWT_SECRET", "super-secreto")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.True(t, cfg.App.IsDevelopment())
	assert.Equal(t, config.DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, 190, cfg.JWT.Expiration)
	assert.Equal(t, 190*time.Minute, cfg.JWT.Validity())
	assert.Equal(t, "simple-api", cfg.JWT.Issuer)
	assert.Equal(t, "simple-api-clients", cfg.JWT.Audience)
	assert.Equal(t, 50, cfg.Identity.MaxAttempts)
	assert.Equal(t, 10*time.Second, cfg.HTTP.RequestTimeout)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, "FR", cfg.Profile.DefaultPhoneRegion)
}

func TestLoad_VariablesDeEntorno(t *testing.T) {
	t.Setenv("JWT_SECRET", "super-secreto")
	t.Setenv("JWT_ISSUER", "emisor")
	t.Setenv("JWT_AUDIENCE", "audiencia")
	t.Setenv("JWT_EXPIRATION_MINUTES", "30")
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("HTTP_REQUEST_TIMEOUT", "2s")
	t.Setenv("IDENTITY_MAX_ATTEMPTS", "7")
	t.Setenv("PROFILE_DEFAULT_PHONE_REGION", "co")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "emisor", cfg.JWT.Issuer)
	assert.Equal(t, "audiencia", cfg.JWT.Audience)
	assert.Equal(t, 30*time.Minute, cfg.JWT.Validity())
	assert.Equal(t, config.DriverMemory, cfg.DB.Driver)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 2*time.Second, cfg.HTTP.RequestTimeout)
	assert.Equal(t, 7, cfg.Identity.MaxAttempts)
	assert.Equal(t, "CO", cfg.Profile.DefaultPhoneRegion)
}

func TestLoad_SinSecretoFallaAlArrancar(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	cfg, err := config.Load()
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestValidate_ReportaTodosLosCampos(t *testing.T) {
	cfg := &config.Config{
		DB:   config.DBConfig{Driver: "mysql"},
		HTTP: config.HTTPConfig{RequestTimeout: time.Second},
	}
	err := cfg.Validate()
	require.ErrorIs(t, err, domain.ErrConfiguration)
	for _, field := range []string{"JWT_SECRET", "JWT_ISSUER", "JWT_AUDIENCE", "JWT_EXPIRATION_MINUTES", "DB_DRIVER", "IDENTITY_MAX_ATTEMPTS"} {
		assert.Contains(t, err.Error(), field)
	}
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "simple_api", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/simple_api?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString())
}
