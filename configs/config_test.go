package config

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnv(t *testing.T) {
	t.Setenv("ROUND_TEST_VALUE", "  nats://example:4222 ")
	assert.Equal(t, "nats://example:4222", Env("ROUND_TEST_VALUE", "x"))

	t.Setenv("ROUND_TEST_VALUE", " ")
	assert.Equal(t, "x", Env("ROUND_TEST_VALUE", "x"))
}

func TestEnvInt(t *testing.T) {
	t.Setenv("RATE_LIMIT", "250")
	assert.Equal(t, 250, EnvInt("RATE_LIMIT", 100))

	t.Setenv("RATE_LIMIT", "lots")
	assert.Equal(t, 100, EnvInt("RATE_LIMIT", 100))

	t.Setenv("RATE_LIMIT", "")
	assert.Equal(t, 100, EnvInt("RATE_LIMIT", 100))
}

func TestAllowedOrigins(t *testing.T) {
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, AllowedOrigins())

	t.Setenv("CORS_ORIGINS", "")
	assert.Equal(t, []string{"http://localhost:5173"}, AllowedOrigins())
}

func TestCustomLoggerMiddleware(t *testing.T) {
	h := CustomLoggerMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/health", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestCreateUniqueInstance(t *testing.T) {
	id := CreateUniqueInstance("test")
	assert.Len(t, id, 36)
	assert.Equal(t, id, GetInstanceId())
}
