package workers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type httpServer struct {
	server          *echo.Echo
	addr            string
	shutdownTimeout time.Duration
}

func NewHTTPServer(server *echo.Echo, addr string, shutdownTimeout time.Duration) (*httpServer, error) {
	if server == nil {
		return nil, errors.New("echo server is nil")
	}

	return &httpServer{
		server:          server,
		addr:            addr,
		shutdownTimeout: shutdownTimeout,
	}, nil
}

func (h *httpServer) Name() string { return "http_server" }

func (h *httpServer) Start(ctx context.Context) error {
	slog.Info("Starting worker", "name", h.Name(), "addr", h.addr)
	defer slog.Info("Worker stopped", "name", h.Name())

	errCh := make(chan error, 1)
	go func() {
		if err := h.server.Start(h.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serving http: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
	defer cancel()

	if err := h.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}

	return nil
}
