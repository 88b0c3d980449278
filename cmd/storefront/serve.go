package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/api"
	"storefront/internal/app"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the client as a local JSON API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return withClient(cmd, func(_ context.Context, c *app.Client) error {
			home := c.HomeView()
			defer home.Close()
			products := c.ProductsView()

			if err := home.Refresh(ctx); err != nil {
				logger.Warn("Featured products unavailable", zap.Error(err))
			}
			if err := products.Refresh(ctx); err != nil {
				logger.Warn("Catalog unavailable", zap.Error(err))
			}

			handler := api.NewHandler(c, home, products)

			mux := http.NewServeMux()
			mux.Handle("GET /metrics", promhttp.Handler())
			mux.Handle("/api/", handler.Handler())

			server := &http.Server{
				Addr:              fmt.Sprintf(":%s", c.Config.HTTPPort),
				Handler:           mux,
				ReadHeaderTimeout: 5 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("Server listening", zap.String("addr", server.Addr))
				fmt.Fprintf(cmd.OutOrStdout(), "Listening on %s\n", server.Addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("server.Shutdown: %w", err)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
