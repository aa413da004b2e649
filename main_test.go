package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dskvich/chatgpt-web-chat/pkg/auth"
	"github.com/dskvich/chatgpt-web-chat/pkg/domain"
	"github.com/dskvich/chatgpt-web-chat/pkg/workers"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.HTTPAddr)
	assert.Equal(t, domain.DefaultModel, cfg.DefaultModel)
	assert.Equal(t, float32(domain.DefaultTemperature), cfg.DefaultTemperature)
	assert.Equal(t, domain.DefaultMaxTokens, cfg.DefaultMaxTokens)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, time.Second, cfg.RetryDelay)
	assert.Equal(t, "conversations", cfg.ConversationDir)
	assert.Zero(t, cfg.SessionIdleTTL)
	assert.Empty(t, cfg.APITokens)
	assert.Equal(t, domain.AppInfo{
		Name:    "OpenAI GPT Chatbot",
		Version: "1.0.0",
		Author:  "RSK World",
		Website: "https://rskworld.in",
		Email:   "help@rskworld.in",
		Phone:   "+91 93305 39277",
		Year:    "2026",
	}, cfg.App.Info())
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("DEFAULT_MODEL", "gpt-4o-mini")
	t.Setenv("MAX_RETRIES", "5")
	t.Setenv("RETRY_DELAY", "250ms")
	t.Setenv("SESSION_IDLE_TTL", "30m")
	t.Setenv("API_TOKENS", "one two")
	t.Setenv("APP_NAME", "Helper")

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-mini", cfg.DefaultModel)
	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, 250*time.Millisecond, cfg.RetryDelay)
	assert.Equal(t, 30*time.Minute, cfg.SessionIdleTTL)
	assert.Equal(t, []string{"one", "two"}, cfg.APITokens)
	assert.Equal(t, "Helper", cfg.App.Name)
}

func TestLoadConfig_MissingKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	_, err := loadConfig()
	assert.Error(t, err)
}

func TestSetupWorkers(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("CONVERSATION_DIR", t.TempDir())

	cfg, err := loadConfig()
	require.NoError(t, err)

	group, err := setupWorkers(cfg)
	require.NoError(t, err)
	assert.Len(t, group, 1)

	cfg.SessionIdleTTL = time.Hour
	group, err = setupWorkers(cfg)
	require.NoError(t, err)
	assert.Len(t, group, 2)
	assert.Implements(t, (*workers.Worker)(nil), group[1])
}

type handlerStub struct{}

func (handlerStub) RegisterRoutes(e *echo.Echo, mw ...echo.MiddlewareFunc) {
	e.GET("/health", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.Group("/api", mw...).GET("/ping", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
}

func TestNewServer_AuthGuardsAPI(t *testing.T) {
	e := newServer(handlerStub{}, auth.NewAuthenticator([]string{"secret"}), "session_id")

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
