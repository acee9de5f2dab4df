package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"trolley/cmd/trolley/config"
	"trolley/internal/api"
	"trolley/internal/catalog"
	"trolley/internal/logging"
	"trolley/internal/orders"
	"trolley/internal/session"
)

var (
	// Global flags
	verbose bool
	baseURL string

	// Logger for non-interactive subcommands
	logger *zap.Logger
)

// rootCmd launches the interactive storefront when run bare.
var rootCmd = &cobra.Command{
	Use:   "trolley",
	Short: "trolley - a terminal storefront client",
	Long: `trolley is an interactive terminal client for the shop.

Browse the catalog, manage your cart, check out, review products and
track your orders without leaving the terminal.

Run without arguments to open the storefront.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The interactive UI owns the terminal and has its own logging
		if cmd.Use == "trolley" && cmd.CalledAs() == "trolley" {
			return nil
		}

		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShop()
	},
}

// productsCmd prints the catalog without entering the UI.
var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _ := newClient()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		products, err := catalog.NewService(client).Products(ctx)
		if err != nil {
			return err
		}
		logger.Info("catalog fetched", zap.Int("count", len(products)))
		for _, p := range products {
			fmt.Printf("%6d  %-40s  $%.2f  (%d in stock)\n", p.ID, p.Name, p.Price, p.StockQuantity)
		}
		return nil
	},
}

// whoamiCmd probes the saved session.
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session identity",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _ := newClient()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		ids := session.NewStore()
		if id := session.NewProbe(client, ids).Resolve(ctx); id != nil {
			fmt.Printf("%s (id %d)\n", id.Username, id.UserID)
			return nil
		}
		fmt.Println("not signed in")
		return nil
	},
}

// ordersCmd prints order history.
var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List your orders",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _ := newClient()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		history, err := orders.NewService(client, nil).History(ctx)
		if err != nil {
			return err
		}
		if len(history) == 0 {
			fmt.Println("no orders")
			return nil
		}
		for _, o := range history {
			fmt.Printf("#%-6d %-12s %-10s $%.2f\n", o.ID, o.OrderDate, o.Status, o.TotalAmount)
		}
		return nil
	},
}

// newClient builds the API client from config and flags.
func newClient() (*api.Client, config.Config) {
	cfg, err := config.Load()
	if err != nil {
		logging.Get(logging.CategoryBoot).Warn("config load: %v", err)
	}
	url := cfg.BaseURL
	if baseURL != "" {
		url = baseURL
	}
	return api.New(url), cfg
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "shop API base URL (overrides config)")

	rootCmd.AddCommand(productsCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(ordersCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
