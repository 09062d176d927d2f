package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/aumugisha-umu/seido-backend/internal/db"
	"github.com/aumugisha-umu/seido-backend/internal/pkg/logger"
	"github.com/aumugisha-umu/seido-backend/internal/realtime"
	"github.com/aumugisha-umu/seido-backend/internal/realtime/bus"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services
	Hub      *realtime.Hub

	pushBus bus.Bus
	cancel  context.CancelFunc
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

	hub := realtime.NewHub(log)

	// The redis bus distributes push messages across instances. Without it the
	// hub still delivers locally.
	var push realtime.Publisher = hub
	pushBus, err := bus.NewRedisBus(log)
	if err != nil {
		log.Warn("Redis push bus disabled, using local delivery only", "error", err)
		pushBus = nil
	} else {
		push = pushBus
	}

	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet, push)
	handlerset := wireHandlers(log, serviceset, reposet, hub)
	middleware := wireMiddleware(log, serviceset)
	router := wireRouter(log, handlerset, middleware)

	return &App{
		Log:      log,
		DB:       theDB,
		Router:   router,
		Cfg:      cfg,
		Repos:    reposet,
		Services: serviceset,
		Hub:      hub,
		pushBus:  pushBus,
	}, nil
}

func (a *App) Start() {
	if a == nil || a.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	if a.Services.Effects != nil {
		a.Services.Effects.Start(ctx)
	}

	if a.pushBus != nil {
		err := a.pushBus.StartForwarder(ctx, func(m realtime.Message) {
			_ = a.Hub.Publish(ctx, m)
		})
		if err != nil {
			a.Log.Warn("Redis push forwarder failed to start", "error", err)
		}
	}
}

func (a *App) Run(addr string) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Router.Run(addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.Services.Effects != nil {
		a.Services.Effects.Close()
	}
	if a.pushBus != nil {
		_ = a.pushBus.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
