package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dev-mohitbeniwal/accessledger/audit"
	"github.com/dev-mohitbeniwal/accessledger/config"
	"github.com/dev-mohitbeniwal/accessledger/controller"
	"github.com/dev-mohitbeniwal/accessledger/dao"
	"github.com/dev-mohitbeniwal/accessledger/db"
	logger "github.com/dev-mohitbeniwal/accessledger/logging"
	"github.com/dev-mohitbeniwal/accessledger/router"
	"github.com/dev-mohitbeniwal/accessledger/seed"
	"github.com/dev-mohitbeniwal/accessledger/service"
	"github.com/dev-mohitbeniwal/accessledger/util"
)

type closer func(ctx context.Context) error

func main() {
	// Initialize configuration
	if err := config.InitConfig(); err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}
	cfg := config.GetConfig()

	// Initialize logger
	if err := logger.InitLogger(config.GetString("log.dir")); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg.Storage.Driver)
	if err != nil {
		logger.Fatal("Failed to initialize store", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer func() {
		if err := closeStore(context.Background()); err != nil {
			logger.Error("Error closing store", zap.Error(err))
		}
	}()

	// Initialize Redis
	if err := db.InitRedis(ctx); err != nil {
		logger.Fatal("Failed to initialize Redis", zap.Error(err))
	}
	defer db.CloseRedis()

	// Initialize EventBus
	eventBus := util.NewEventBus()
	eventBus.Start(ctx)
	notificationService := util.NewNotificationService()
	for eventType, handler := range notificationService.Handlers() {
		eventBus.Subscribe(eventType, handler)
	}

	opts := service.Options{
		HistoryPageSize: cfg.History.PageSize,
		HistoryLocation: historyLocation(cfg.History.Timezone),
		ProfileLockTTL:  cfg.Profile.LockTTL,
	}
	if cfg.Elasticsearch.Enabled {
		auditService, err := initAudit(ctx, cfg.Elasticsearch)
		if err != nil {
			logger.Fatal("Failed to initialize audit index", zap.Error(err))
		}
		eventBus.Subscribe(util.EventChangesRecorded, audit.ChangeIndexer(auditService))
		if cfg.History.Backend == "elasticsearch" {
			opts.HistoryReader = auditService
		}
	} else if cfg.History.Backend == "elasticsearch" {
		logger.Warn("History backend elasticsearch requested but elasticsearch is disabled, reading from store")
	}

	services, err := service.InitializeServices(
		store,
		util.NewValidationUtil(),
		util.NewLockService(),
		util.NewCacheService(),
		eventBus,
		opts,
	)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}

	if cfg.Seed.Enabled {
		if err := seed.NewSeeder(services).Seed(ctx); err != nil {
			logger.Fatal("Failed to load seed data", zap.Error(err))
		}
	}

	// Set up Gin
	gin.SetMode(gin.ReleaseMode)
	controllers := controller.InitializeControllers(services)
	handler := router.SetupRouter(controllers, cfg.Auth.JWTSecret, cfg.RateLimit.Requests, cfg.RateLimit.Window)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: handler,
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting server", zap.String("port", cfg.Server.Port), zap.String("storage", cfg.Storage.Driver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
	}

	// Let in-flight notifications and index writes finish.
	eventBus.Wait()
	logger.Info("Server exiting")
}

func openStore(ctx context.Context, driver string) (dao.Store, closer, error) {
	switch driver {
	case "neo4j":
		if err := db.InitNeo4j(ctx); err != nil {
			return nil, nil, err
		}
		store, err := dao.NewNeo4jStore(ctx, db.Neo4jDriver)
		if err != nil {
			db.CloseNeo4j(ctx)
			return nil, nil, err
		}
		return store, store.Close, nil
	case "postgres":
		if err := db.InitPostgres(ctx); err != nil {
			return nil, nil, err
		}
		store, err := dao.NewSQLStore(ctx, db.Postgres)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	case "memory":
		logger.Warn("Using in-memory store, data is lost on restart")
		return dao.NewMemoryStore(), func(context.Context) error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

func initAudit(ctx context.Context, cfg config.ElasticsearchConfiguration) (audit.Service, error) {
	repo, err := audit.NewElasticsearchRepository(cfg.URL, cfg.Index)
	if err != nil {
		return nil, err
	}
	auditService := audit.NewService(repo)
	ensureCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := auditService.EnsureIndex(ensureCtx); err != nil {
		return nil, err
	}
	return auditService, nil
}

func historyLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		logger.Warn("Unknown history timezone, using UTC", zap.String("timezone", name), zap.Error(err))
		return time.UTC
	}
	return loc
}
