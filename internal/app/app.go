package app

import (
	"context"
	"fmt"
	"os"

	"gorm.io/gorm"

	"github.com/redlinehq/redline-backend/internal/data/db"
	httpserver "github.com/redlinehq/redline-backend/internal/http"
	negotiation "github.com/redlinehq/redline-backend/internal/modules/negotiation"
	"github.com/redlinehq/redline-backend/internal/pkg/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *httpserver.Server
	Cfg      Config
	Clients  Clients
	Repos    Repos
	Services Services
	Usecases negotiation.Usecases
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()

	clients, err := wireClients(log)
	if err != nil {
		log.Sync()
		return nil, err
	}

	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, clients, reposet)
	uc := wireUsecases(log, cfg, clients, reposet, serviceset)
	handlerset := wireHandlers(log, theDB, uc)
	server := wireServer(handlerset)

	return &App{
		Log:      log,
		DB:       theDB,
		Server:   server,
		Cfg:      cfg,
		Clients:  clients,
		Repos:    reposet,
		Services: serviceset,
		Usecases: uc,
	}, nil
}

func (a *App) Run() error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("Starting HTTP server", "addr", a.Cfg.Addr)
	return a.Server.Run(a.Cfg.Addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Clients.Graph != nil {
		a.Clients.Graph.Close(context.Background())
	}
	if a.Clients.PolicyCache != nil {
		a.Clients.PolicyCache.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
