package cli

import (
	"bufio"
	"context"
	"os"
	"time"

	"github.com/merchpoint/pos/internal/logging"
	"github.com/merchpoint/pos/internal/pos/config"
	"github.com/merchpoint/pos/internal/pos/remote"
	"github.com/merchpoint/pos/internal/pos/services"
	"github.com/merchpoint/pos/internal/pos/store"
	syncx "github.com/merchpoint/pos/internal/pos/sync"

	_ "modernc.org/sqlite"
)

const pingTimeout = 3 * time.Second

// App ties the local store, the remote client, the sync engine and the
// application services together behind the REPL.
type App struct {
	config   *config.Config
	repos    *store.Repositories
	remote   remote.Client
	engine   *syncx.Engine
	monitor  *syncx.Monitor
	checkout *services.CheckoutService
	catalog  *services.CatalogService
	closeout *services.CloseOutService
	settings *services.SettingsService
	reader   *bufio.Reader
	log      logging.Logger
}

func NewApp(c *config.Config) (*App, error) {

	ctx := context.Background()

	logger := logging.NewTextLogger()

	repos, err := store.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	client := remote.NewHTTPClient(c.RemoteEndpoint, pingTimeout)

	engine := syncx.New(syncx.Options{
		Sales:          repos.Sales,
		Products:       repos.Products,
		Settings:       repos.Settings,
		Metadata:       repos.Metadata,
		Remote:         client,
		Logger:         logger,
		RetryDelay:     c.RetryDelay,
		InterTaskDelay: c.InterTaskDelay,
		DemoMode:       func() bool { return c.DemoMode },
	})

	monitor := syncx.NewMonitor(client, c.OnlineCheckInterval, logger)
	monitor.OnChange(func(ctx context.Context, online bool) {
		engine.SetOnline(ctx, online)
	})

	return &App{
		config:   c,
		repos:    repos,
		remote:   client,
		engine:   engine,
		monitor:  monitor,
		checkout: services.NewCheckoutService(repos.DB(), repos.Sales, repos.Products, engine, logger),
		catalog:  services.NewCatalogService(repos.Products, engine, logger),
		closeout: services.NewCloseOutService(repos.Sales, repos.CloseOuts, logger),
		settings: services.NewSettingsService(repos.Settings, engine, logger),
		reader:   bufio.NewReader(os.Stdin),
		log:      logger,
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.repos.Close()
	defer a.remote.Close()
	a.Root(ctx)
}
