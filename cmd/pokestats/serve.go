package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/rootasjey/pokestats/internal/bootstrap"
	"github.com/rootasjey/pokestats/internal/server"
)

func newServeCommand() *cobra.Command {
	var port int
	command := &cobra.Command{
		Use:   "serve",
		Short: "Serve the API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), port)
		},
	}
	command.Flags().IntVar(&port, "port", 0, "port to listen on, overriding server.port")
	return command
}

func serve(ctx context.Context, port int) error {
	app := bootstrap.New()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loadConfig() > %w", err)
	}
	if port > 0 {
		cfg.Server.Port = port
	}

	c, err := bootstrap.Wire(ctx, cfg, upstream)
	if err != nil {
		return fmt.Errorf("bootstrap.Wire() > %w", err)
	}
	app.AddCloser(c.Close)

	handler := server.NewHandler(c.Resolver, cfg.Server.CORS.AllowedOrigins)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: h2c.NewHandler(handler, &http2.Server{}),
	}
	app.AddShutdownHook(srv.Shutdown)

	return app.Run(ctx, func(ctx context.Context) error {
		slog.Default().Info("starting server",
			slog.String("addr", srv.Addr),
			slog.String("store", cfg.Store.Driver),
			slog.String("version", c.Resolver.Version()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("srv.ListenAndServe() > %w", err)
		}
		return nil
	})
}
