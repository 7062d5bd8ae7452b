package daemon

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/tjjh89017/readflag/internal/config"
	"github.com/tjjh89017/readflag/internal/server"
)

type Daemon struct {
	config *config.Config
	server *server.Server
	stores io.Closer
	logger zerolog.Logger
}

func New(config *config.Config, server *server.Server, stores io.Closer, logger *zerolog.Logger) *Daemon {
	return &Daemon{
		config: config,
		server: server,
		stores: stores,
		logger: logger.With().Str("component", "daemon").Logger(),
	}
}

// Run serves HTTP until ctx is cancelled or SIGINT/SIGTERM arrives.
func (d *Daemon) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", d.config.Server.Listen)
	if err != nil {
		return err
	}

	return d.Serve(ctx, listener)
}

func (d *Daemon) Serve(ctx context.Context, listener net.Listener) error {
	daemonCtx, cancel := context.WithCancel(ctx)

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)

	defer func() {
		signal.Stop(signalChan)
		close(signalChan)
		cancel()
	}()

	httpServer := &http.Server{
		Handler:           d.server,
		ReadHeaderTimeout: d.config.Server.ReadHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- httpServer.Serve(listener)
	}()

	d.logger.Info().Str("addr", listener.Addr().String()).Msg("daemon started")

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		return errors.Join(err, d.closeStores())
	case <-daemonCtx.Done():
	case <-signalChan:
	}

	d.logger.Info().Msg("shutting down")

	shutdownCtx := context.Background()
	if d.config.Server.ShutdownTimeout > 0 {
		var shutdownCancel context.CancelFunc
		shutdownCtx, shutdownCancel = context.WithTimeout(shutdownCtx, d.config.Server.ShutdownTimeout)
		defer shutdownCancel()
	}

	err := httpServer.Shutdown(shutdownCtx)
	return errors.Join(err, d.closeStores())
}

func (d *Daemon) closeStores() error {
	if err := d.stores.Close(); err != nil {
		d.logger.Error().Err(err).Msg("failed to close stores")
		return err
	}
	return nil
}
