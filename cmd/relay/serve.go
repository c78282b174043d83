package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/HamzaKV/ai-sdk/core/client"
	"github.com/HamzaKV/ai-sdk/core/config"
	"github.com/HamzaKV/ai-sdk/internal/relay"
	"github.com/HamzaKV/ai-sdk/providers/ai/anthropic"
	"github.com/HamzaKV/ai-sdk/providers/ai/openai"
	"github.com/HamzaKV/ai-sdk/providers/observability/slogobs"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(root *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP relay",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			file, err := root.load()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = file.Addr()
			}

			obs := root.observer()
			c, err := buildClient(file, obs)
			if err != nil {
				return err
			}
			return serve(ctx, addr, relay.New(c, obs.Logger()).Router(), obs.Logger())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, then "+config.DefaultAddr+")")
	return cmd
}

func newCallsCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "calls",
		Short: "List the calls the relay would serve",
		RunE: func(cmd *cobra.Command, _ []string) error {
			file, err := root.load()
			if err != nil {
				return err
			}
			c, err := buildClient(file, root.observer())
			if err != nil {
				return err
			}
			for _, key := range c.Keys() {
				fmt.Fprintf(cmd.OutOrStdout(), "POST /v1/%s/%s/%s\n", key.Provider, key.Model, key.Call)
			}
			return nil
		},
	}
}

func buildClient(file *config.File, obs *slogobs.Observer) (*client.Client, error) {
	return client.New(
		client.WithProviders(
			openai.Definition.New(file.ProviderConfig(openai.Name)),
			anthropic.Definition.New(file.ProviderConfig(anthropic.Name)),
		),
		client.WithMiddleware(file.Gates(obs.Logger())...),
		client.WithLogger(obs.Logger()),
		client.WithObserver(obs),
	)
}

func serve(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("relay listening", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("relay shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
