package server

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/apigovau/service-catalogue/internal/api"
	"github.com/apigovau/service-catalogue/internal/cmd/base"
	"github.com/apigovau/service-catalogue/internal/config"
	"github.com/apigovau/service-catalogue/internal/db"
	"github.com/apigovau/service-catalogue/internal/server"
	"github.com/apigovau/service-catalogue/pkg/auth"
	"github.com/apigovau/service-catalogue/pkg/catalogue"
	"github.com/apigovau/service-catalogue/pkg/catalogue/adapters/gormstore"
)

type Command struct {
	*base.Command

	flagConfig string
}

func (c *Command) Synopsis() string {
	return "Run the service catalogue server"
}

func (c *Command) Help() string {
	return `Usage: service-catalogue server -config=<config-file>

  Run the service catalogue HTTP server.

  In a development environment the authorization gate is open and no
  policy service is contacted. In production, every write is authorized
  against the configured policy endpoint.` +
		c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("server", flag.ExitOnError))

	f.StringVar(
		&c.flagConfig, "config", "config.hcl",
		"Path to the configuration file.",
	)

	return f
}

func (c *Command) Run(args []string) int {
	ui := c.UI

	flags := c.Flags()
	if err := flags.Parse(args); err != nil {
		ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	cfg, err := config.NewConfig(c.flagConfig)
	if err != nil {
		ui.Error(fmt.Sprintf("error loading configuration: %v", err))
		return 1
	}

	log := hclog.New(&hclog.LoggerOptions{
		Name:  "catalogue",
		Level: hclog.LevelFromString(cfg.LogLevel),
	})

	gate, err := buildGate(cfg, log)
	if err != nil {
		// A restricted environment without a policy endpoint is fatal: the
		// service must not start and fail per request instead.
		ui.Error(fmt.Sprintf("error building authorization gate: %v", err))
		return 1
	}

	database, err := db.NewDB(cfg.Database, log.Named("db"))
	if err != nil {
		ui.Error(fmt.Sprintf("error initializing database: %v", err))
		return 1
	}

	store := catalogue.NewStore(
		gormstore.NewRepository(database),
		gate,
		cfg.Visibility.PublicSpaces,
		log.Named("store"),
	)

	srv := server.Server{
		Config: cfg,
		DB:     database,
		Store:  store,
		Logger: log,
	}

	mux := http.NewServeMux()
	mux.Handle("/new", api.NewServiceHandler(srv))
	mux.Handle("/index", api.IndexHandler(srv))
	mux.Handle("/backup", api.BackupHandler(srv))
	mux.Handle("/service", api.ServiceHandler(srv))
	mux.Handle("/service/", api.ServiceHandler(srv))
	mux.Handle("/metadata/", api.MetadataHandler(srv))
	mux.Handle("/health", api.HealthHandler())

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server",
			"addr", cfg.Addr,
			"environment", cfg.Environment,
		)
		errCh <- httpServer.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		ui.Error(fmt.Sprintf("server error: %v", err))
		return 1
	case sig := <-sigCh:
		log.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			ui.Error(fmt.Sprintf("error during shutdown: %v", err))
			return 1
		}
	}

	return 0
}

// buildGate selects the authorization mode from configuration, per the
// environment: open for development, policy-delegated for production.
func buildGate(cfg *config.Config, log hclog.Logger) (auth.Gate, error) {
	if cfg.Environment != config.EnvironmentProduction {
		return auth.OpenGate{}, nil
	}
	return auth.NewPolicyGate(
		cfg.Auth.PolicyEndpoint,
		time.Duration(cfg.Auth.TimeoutSeconds)*time.Second,
		log.Named("auth"),
	)
}
