package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"storefront/internal/catalog"
	"storefront/internal/models"
	"storefront/internal/telemetry"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	port         string
	fixturesPath string
)

var rootCmd = &cobra.Command{
	Use:   "catalog-service",
	Short: "Serve a fixture product catalog on /products and /products/categories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := zap.NewProduction()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer logger.Sync()

		products := catalog.Fixtures
		if fixturesPath != "" {
			if products, err = loadFixtures(fixturesPath); err != nil {
				return err
			}
		}

		mux := http.NewServeMux()
		mux.Handle("GET /metrics", promhttp.Handler())
		mux.Handle("/products", telemetry.Middleware(catalog.FixtureHandler(products)))
		mux.Handle("/products/", telemetry.Middleware(catalog.FixtureHandler(products)))

		addr := fmt.Sprintf(":%s", port)
		logger.Info("Catalog service listening", zap.String("addr", addr), zap.Int("products", len(products)))
		return http.ListenAndServe(addr, mux)
	},
}

func loadFixtures(path string) ([]models.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	return products, nil
}

func init() {
	rootCmd.Flags().StringVar(&port, "port", "8083", "listen port")
	rootCmd.Flags().StringVar(&fixturesPath, "fixtures", "", "JSON file with a product array; defaults to the built-in set")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
