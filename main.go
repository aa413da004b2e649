package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/dskvich/chatgpt-web-chat/pkg/api/handler"
	"github.com/dskvich/chatgpt-web-chat/pkg/api/middleware"
	"github.com/dskvich/chatgpt-web-chat/pkg/api/response"
	"github.com/dskvich/chatgpt-web-chat/pkg/auth"
	"github.com/dskvich/chatgpt-web-chat/pkg/domain"
	"github.com/dskvich/chatgpt-web-chat/pkg/logger"
	"github.com/dskvich/chatgpt-web-chat/pkg/openai"
	"github.com/dskvich/chatgpt-web-chat/pkg/repository"
	"github.com/dskvich/chatgpt-web-chat/pkg/services"
	"github.com/dskvich/chatgpt-web-chat/pkg/workers"
)

type Config struct {
	OpenAIToken         string        `env:"OPENAI_API_KEY,required,notEmpty"`
	OpenAIBaseURL       string        `env:"OPENAI_BASE_URL"`
	OpenRouterReferrer  string        `env:"OPENROUTER_REFERRER"`
	OpenRouterTitle     string        `env:"OPENROUTER_TITLE"`
	HTTPAddr            string        `env:"HTTP_ADDR" envDefault:":5000"`
	ShutdownTimeout     time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	DefaultModel        string        `env:"DEFAULT_MODEL" envDefault:"gpt-3.5-turbo"`
	DefaultTemperature  float32       `env:"DEFAULT_TEMPERATURE" envDefault:"0.7"`
	DefaultMaxTokens    int           `env:"DEFAULT_MAX_TOKENS" envDefault:"500"`
	DefaultSystemPrompt string        `env:"DEFAULT_SYSTEM_PROMPT"`
	MaxRetries          int           `env:"MAX_RETRIES" envDefault:"3"`
	RetryDelay          time.Duration `env:"RETRY_DELAY" envDefault:"1s"`
	ConversationDir     string        `env:"CONVERSATION_DIR" envDefault:"conversations"`
	SessionIdleTTL      time.Duration `env:"SESSION_IDLE_TTL" envDefault:"0s"`
	SessionSweepSpec    string        `env:"SESSION_SWEEP_SCHEDULE" envDefault:"@every 1m"`
	SessionCookie       string        `env:"SESSION_COOKIE" envDefault:"session_id"`
	APITokens           []string      `env:"API_TOKENS" envSeparator:" "`
	LogLevel            string        `env:"LOG_LEVEL" envDefault:"debug"`
	LogNoColor          bool          `env:"LOG_NO_COLOR" envDefault:"false"`
	App                 AppConfig     `envPrefix:"APP_"`
}

type AppConfig struct {
	Name    string `env:"NAME" envDefault:"OpenAI GPT Chatbot"`
	Version string `env:"VERSION" envDefault:"1.0.0"`
	Author  string `env:"AUTHOR" envDefault:"RSK World"`
	Website string `env:"WEBSITE" envDefault:"https://rskworld.in"`
	Email   string `env:"EMAIL" envDefault:"help@rskworld.in"`
	Phone   string `env:"PHONE" envDefault:"+91 93305 39277"`
	Year    string `env:"YEAR" envDefault:"2026"`
}

func (a AppConfig) Info() domain.AppInfo {
	return domain.AppInfo{
		Name:    a.Name,
		Version: a.Version,
		Author:  a.Author,
		Website: a.Website,
		Email:   a.Email,
		Phone:   a.Phone,
		Year:    a.Year,
	}
}

func main() {
	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, logger.DefaultOptions)))

	if err := runMain(); err != nil {
		slog.Error("shutting down due to error", logger.Err(err))
		os.Exit(1)
	}
	slog.Info("shutdown complete")
}

func runMain() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logOpts := *logger.DefaultOptions
	logOpts.Level = logger.ParseLevel(cfg.LogLevel)
	logOpts.NoColor = cfg.LogNoColor
	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, &logOpts)))

	workerGroup, err := setupWorkers(cfg)
	if err != nil {
		return err
	}

	ctx, cancelFn := context.WithCancel(context.Background())
	defer cancelFn()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
		select {
		case s := <-sigCh:
			slog.Info("shutting down due to signal", "signal", s.String())
			cancelFn()
		case <-ctx.Done():
		}
	}()

	return workerGroup.Start(ctx)
}

// loadConfig reads an optional .env file and then the environment.
func loadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing env config: %w", err)
	}
	return cfg, nil
}

func setupWorkers(cfg Config) (workers.Group, error) {
	var worker workers.Worker
	var workerGroup workers.Group

	info := cfg.App.Info()

	openAIClient, err := openai.NewClient(cfg.OpenAIToken, openai.Options{
		BaseURL:  cfg.OpenAIBaseURL,
		Referrer: cfg.OpenRouterReferrer,
		Title:    cfg.OpenRouterTitle,
	})
	if err != nil {
		return nil, fmt.Errorf("creating open ai client: %w", err)
	}

	catalogRepository := repository.NewCatalogRepository()

	systemPrompt := cfg.DefaultSystemPrompt
	if systemPrompt == "" {
		systemPrompt = catalogRepository.Persona(domain.DefaultPersonaKey).SystemPrompt
	}

	chatRepository := repository.NewChatRepository(repository.ChatDefaults{
		SystemPrompt: systemPrompt,
		Model:        cfg.DefaultModel,
		Retry: domain.RetryPolicy{
			MaxRetries: cfg.MaxRetries,
			Delay:      cfg.RetryDelay,
		},
	})

	conversationStore, err := repository.NewConversationFileRepository(cfg.ConversationDir)
	if err != nil {
		return nil, fmt.Errorf("creating conversation store: %w", err)
	}

	completionService := services.NewCompletionService(openAIClient, chatRepository)
	viewService := services.NewViewService(chatRepository, info)
	chatService := services.NewChatService(chatRepository, catalogRepository, conversationStore, info)

	h := handler.NewHandler(completionService, viewService, chatService, domain.RequestParameters{
		Model:       cfg.DefaultModel,
		Temperature: cfg.DefaultTemperature,
		MaxTokens:   cfg.DefaultMaxTokens,
	})

	server := newServer(h, auth.NewAuthenticator(cfg.APITokens), cfg.SessionCookie)

	if worker, err = workers.NewHTTPServer(server, cfg.HTTPAddr, cfg.ShutdownTimeout); err == nil {
		workerGroup = append(workerGroup, worker)
	} else {
		return nil, err
	}

	if cfg.SessionIdleTTL > 0 {
		if worker, err = workers.NewSessionSweeper(chatRepository, cfg.SessionIdleTTL, cfg.SessionSweepSpec); err == nil {
			workerGroup = append(workerGroup, worker)
		} else {
			return nil, err
		}
	}

	return workerGroup, nil
}

type routeRegistrar interface {
	RegisterRoutes(e *echo.Echo, mw ...echo.MiddlewareFunc)
}

func newServer(h routeRegistrar, authenticator middleware.Authenticator, sessionCookie string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = response.ErrorHandler

	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(middleware.RequestID)
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			slog.DebugContext(c.Request().Context(), "http request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			)
			return nil
		},
	}))

	h.RegisterRoutes(e,
		middleware.Auth(authenticator),
		middleware.Session(sessionCookie),
	)

	return e
}
