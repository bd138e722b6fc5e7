package main

import (
	"context"
	"net"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/lgbarn/chessd/internal/config"
	"github.com/lgbarn/chessd/internal/httpapi"
	"github.com/lgbarn/chessd/internal/match"
	"github.com/lgbarn/chessd/internal/store"
)

func newServeCmd(opts *options) *cobra.Command {
	var addr, driver, dsn string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and WebSocket game server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := opts.cfg
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if driver != "" {
				cfg.Store.Driver = driver
			}
			if dsn != "" {
				cfg.Store.DSN = dsn
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, opts.log, nil)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, e.g. :8080")
	cmd.Flags().StringVar(&driver, "store", "", "store driver: memory or sqlite")
	cmd.Flags().StringVar(&dsn, "dsn", "", "SQLite database path")
	return cmd
}

// serve runs the server until ctx is cancelled. A nil listener listens on
// the configured address.
func serve(ctx context.Context, cfg *config.Config, log zerolog.Logger, l net.Listener) error {
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Error().Err(err).Msg("close store")
		}
	}()

	games := match.NewManager(st, log)
	router := httpapi.NewRouter(log, games, cfg.Server.PingInterval)
	srv := httpapi.NewServer(cfg.Server, router, log)

	log.Info().Str("store", cfg.Store.Driver).Str("version", programVersion).Msg("chessd starting")
	if l == nil {
		return srv.ListenAndServe(ctx)
	}
	return srv.Serve(ctx, l)
}
