package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/yanqian/bikeshare/internal/infra/alertqueue"
	"github.com/yanqian/bikeshare/internal/infra/config"
)

const defaultShutdownTimeout = 10 * time.Second

// App encapsulates the HTTP server and alert consumer lifecycle.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
	server *http.Server
	alerts alertqueue.Queue
}

// NewApp is used by Wire to build the runnable app.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server, alerts alertqueue.Queue) *App {
	return &App{cfg: cfg, logger: logger.With("component", "bootstrap"), server: server, alerts: alerts}
}

// Run starts the HTTP server and blocks until shutdown. Pending alert
// deliveries are drained after the server stops accepting requests.
func (a *App) Run(ctx context.Context) error {
	defer a.alerts.Close()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server starting", "address", a.cfg.HTTP.Address)
		if err := a.server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		timeout := a.cfg.HTTP.ShutdownTimeout
		if timeout <= 0 {
			timeout = defaultShutdownTimeout
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		a.logger.Info("shutdown signal received")
		return a.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
