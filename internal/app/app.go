package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/sync/errgroup"

	"ironsight/server"
	"ironsight/server/internal/economy/sqlite"
	servernet "ironsight/server/internal/net"
	"ironsight/server/internal/net/ws"
	"ironsight/server/logging"
	loggingSinks "ironsight/server/logging/sinks"
)

// Config is the process configuration, read from the environment.
type Config struct {
	Addr        string   `env:"IRONSIGHT_ADDR" envDefault:":8080"`
	LedgerPath  string   `env:"IRONSIGHT_LEDGER_PATH" envDefault:"ironsight.db"`
	LogSinks    []string `env:"IRONSIGHT_LOG_SINKS" envDefault:"console"`
	LogBuffer   int      `env:"IRONSIGHT_LOG_BUFFER" envDefault:"512"`
	LogJSONPath string   `env:"IRONSIGHT_LOG_JSON_PATH" envDefault:"events.log"`

	ShutdownGrace time.Duration `env:"IRONSIGHT_SHUTDOWN_GRACE" envDefault:"10s"`
}

// Run assembles the server and blocks until the context is cancelled or the
// listener fails.
func Run(ctx context.Context) error {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	logger := log.Default()

	logConfig := logging.DefaultConfig()
	logConfig.EnabledSinks = cfg.LogSinks
	if cfg.LogBuffer > 0 {
		logConfig.BufferSize = cfg.LogBuffer
	}

	namedSinks := []logging.NamedSink{
		{Name: "console", Sink: loggingSinks.NewConsole(os.Stdout)},
	}
	if logConfig.HasSink("json") {
		file, err := os.OpenFile(cfg.LogJSONPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open json log: %w", err)
		}
		defer file.Close()
		namedSinks = append(namedSinks, logging.NamedSink{Name: "json", Sink: loggingSinks.NewJSON(file, 2*time.Second)})
	}

	router := logging.NewRouter(logConfig, nil, namedSinks)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
		defer cancel()
		if err := router.Close(closeCtx); err != nil {
			logger.Printf("failed to close logging router: %v", err)
		}
	}()

	ledger, err := sqlite.Open(cfg.LedgerPath)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer func() {
		if err := ledger.Close(); err != nil {
			logger.Printf("failed to close ledger: %v", err)
		}
	}()

	hub := ws.NewHub(logger)
	gateway := server.NewGateway(server.GatewayConfig{
		Ledger:    ledger,
		Publisher: router,
		Transport: hub,
	})

	handler := servernet.NewHTTPHandler(gateway, hub, router, servernet.HTTPHandlerConfig{
		Logger: logger,
	})

	srv := &http.Server{Addr: cfg.Addr, Handler: handler}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Printf("server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return group.Wait()
}
