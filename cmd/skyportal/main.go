// Command skyportal is the terminal client: it signs in, browses and edits
// the catalog, and books flights against the configured backend.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Jigar634859/skyportal/config"
	"github.com/Jigar634859/skyportal/internal/bootstrap"
	"github.com/Jigar634859/skyportal/internal/logger"
	"github.com/Jigar634859/skyportal/internal/payment"
	"github.com/Jigar634859/skyportal/internal/session"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	a := &app{out: os.Stdout}
	err := rootCmd(a).ExecuteContext(ctx)
	a.close()
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type app struct {
	configPath string
	backend    string
	logLevel   string
	asJSON     bool

	out      io.Writer
	logger   *zap.Logger
	sessions *session.Store
	svc      *bootstrap.Services
	gateway  payment.Gateway
	closers  []func()
}

func rootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "skyportal",
		Short:         "Search flights, manage the catalog and book seats",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.Context())
		},
	}

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", config.Path(), "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&a.backend, "backend", "", "Backend to use: local or remote (overrides config)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&a.asJSON, "json", false, "Print results as JSON")

	cmd.AddCommand(
		loginCmd(a),
		registerCmd(a),
		logoutCmd(a),
		whoamiCmd(a),
		flightsCmd(a),
		bookCmd(a),
		bookingsCmd(a),
	)
	return cmd
}

func (a *app) setup(ctx context.Context) error {
	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	if a.backend != "" {
		cfg.Backend.Kind = a.backend
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	lg, err := logger.New(a.logLevel, cfg.Log.Env)
	if err != nil {
		return err
	}
	a.logger = lg
	a.closers = append(a.closers, func() { _ = lg.Sync() })

	store, closeStore, err := bootstrap.OpenStore(ctx, cfg, lg)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, closeStore)

	a.sessions = session.NewStore(store)
	if err := a.sessions.Load(ctx); err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	repos, err := bootstrap.NewRepositories(ctx, cfg, store, a.sessions, lg)
	if err != nil {
		return err
	}
	a.svc = bootstrap.NewServices(repos, a.sessions, bootstrap.ServiceDeps{}, lg)
	if a.gateway == nil {
		a.gateway = payment.DemoGateway{}
	}
	return nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// print writes v as JSON when --json is set, otherwise calls text.
func (a *app) print(v any, text func(w io.Writer)) error {
	if a.asJSON {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(a.out)
	return nil
}
