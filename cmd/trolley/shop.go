package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"trolley/cmd/trolley/config"
	"trolley/cmd/trolley/ui"
	"trolley/internal/api"
	"trolley/internal/cart"
	"trolley/internal/catalog"
	"trolley/internal/checkout"
	"trolley/internal/insights"
	"trolley/internal/localstore"
	"trolley/internal/logging"
	"trolley/internal/orders"
	"trolley/internal/reviews"
	"trolley/internal/session"
	"trolley/internal/wishlist"
)

// runShop wires the services and runs the interactive storefront.
func runShop() error {
	cfgDir, err := config.ConfigDir()
	if err == nil {
		logging.Initialize(cfgDir)
	}
	defer logging.CloseAll()

	cfg, err := config.Load()
	if err != nil {
		logging.Get(logging.CategoryBoot).Warn("config load: %v", err)
	}
	url := cfg.BaseURL
	if baseURL != "" {
		url = baseURL
	}
	logging.Boot("starting storefront against %s", url)

	client := api.New(url)
	identity := session.NewStore()
	probe := session.NewProbe(client, identity)

	// Anonymous browsing cart, persisted locally so a guest's picks
	// survive a restart. Login wipes it.
	var fallback *localstore.Store
	if cfgDir != "" {
		fallback, err = localstore.Open(filepath.Join(cfgDir, "guest_cart.db"))
		if err != nil {
			logging.Get(logging.CategoryStore).Warn("guest cart store unavailable: %v", err)
			fallback = nil
		}
	}
	if fallback != nil {
		defer fallback.Close()
	}

	cartStore := cart.NewStore(client, identity, fallback)
	orchestrator := checkout.New(client, identity, cartStore)

	var insightSvc *insights.Service
	if cfg.GeminiAPIKey != "" {
		gen, err := insights.NewGeminiGenerator(context.Background(), cfg.GeminiAPIKey, "")
		if err != nil {
			logging.Get(logging.CategoryInsights).Warn("insights disabled: %v", err)
		} else {
			insightSvc = insights.NewService(gen)
		}
	}
	if insightSvc == nil {
		insightSvc = insights.NewService(nil)
	}

	// Event feeds into the UI. Buffered so the immediate Subscribe
	// callback and a burst of confirmations never block the publisher.
	cartCh := make(chan cart.Snapshot, 16)
	cartStore.Subscribe(func(s cart.Snapshot, _ cart.Projection) {
		select {
		case cartCh <- s:
		default:
			logging.Get(logging.CategoryUI).Warn("cart feed full, dropping snapshot")
		}
	})

	themeCh := make(chan ui.Theme, 4)
	var watcher *config.Watcher
	if cfgPath, err := config.ConfigFile(); err == nil {
		watcher, err = config.NewWatcher(cfgPath, func(next config.Config) {
			select {
			case themeCh <- ui.ThemeByName(next.Theme):
			default:
			}
		})
		if err != nil {
			logging.Get(logging.CategoryBoot).Warn("config watcher unavailable: %v", err)
			watcher = nil
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if watcher != nil {
		if err := watcher.Start(ctx); err == nil {
			defer watcher.Stop()
		}
	}

	svc := ui.Services{
		Client:       client,
		Identity:     identity,
		Probe:        probe,
		Cart:         cartStore,
		Checkout:     orchestrator,
		Catalog:      catalog.NewService(client),
		Orders:       orders.NewService(client, cartStore),
		Wishlist:     wishlist.NewService(client),
		Reviews:      reviews.NewService(client),
		Insights:     insightSvc,
		CartChanges:  cartCh,
		ThemeChanges: themeCh,
	}

	app := ui.NewApp(svc, ui.ThemeByName(cfg.Theme))
	program := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}
