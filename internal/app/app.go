// Package app is the composition root shared by the HTTP server and posctl.
// Dependency graph: Service ← State container / Product Store ← DB/Redis
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"minimarket/internal/blobstore"
	"minimarket/internal/catalog"
	"minimarket/internal/config"
	"minimarket/internal/handler"
	"minimarket/internal/infra"
	"minimarket/internal/realtime"
	"minimarket/internal/receipt"
	"minimarket/internal/repository"
	"minimarket/internal/router"
	"minimarket/internal/service"
	"minimarket/internal/state"
	"minimarket/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// App holds the wired dependencies. Close releases the connections.
type App struct {
	Config     *config.Config
	DB         *gorm.DB
	Redis      *redis.Client
	Store      catalog.ProductStore
	Feed       catalog.ChangeFeed
	State      *state.Container
	Mailer     *infra.Mailer
	Dispatcher *worker.Dispatcher
	Services   router.Services
}

// New connects to the Product Store and the blob store, restores the
// persisted state and loads the catalog. In demo mode the Product Store is
// in memory and Redis is optional.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg, Mailer: infra.NewMailer(cfg)}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Warn().Err(err).Str("timezone", cfg.Timezone).Msg("unknown timezone, using local time")
		loc = time.Local
	}

	// ── Product Store ────────────────────────────────────────────────────────
	var auditRepo repository.AuditRepository
	if cfg.IsDemo() {
		mem := catalog.NewMemoryStore(DemoCatalog(time.Now())...)
		a.Store, a.Feed = mem, mem
		auditRepo = repository.NewMemoryAuditRepository()
	} else {
		db, err := infra.NewDatabase(cfg.ProductStoreURL, cfg.ProductStoreKey)
		if err != nil {
			return nil, fmt.Errorf("connect product store: %w", err)
		}
		a.DB = db
		a.Store = repository.NewProductStore(db)
		auditRepo = repository.NewAuditRepository(db)
		if a.Feed, err = newFeed(cfg); err != nil {
			a.Close()
			return nil, err
		}
	}

	// ── Blob store ───────────────────────────────────────────────────────────
	var blob blobstore.Store
	rdb, err := infra.NewRedis(ctx, cfg.RedisURL)
	switch {
	case err == nil:
		a.Redis = rdb
		a.Dispatcher = worker.NewDispatcher(rdb)
		blob = blobstore.NewRedisStore(rdb, "")
	case cfg.IsDemo():
		log.Warn().Err(err).Msg("redis unavailable, state will not survive a restart")
		blob = blobstore.NewMemoryStore()
	default:
		a.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	a.State = state.NewContainer(blob, state.WithKey(cfg.BlobKey))
	if err := a.State.Load(ctx); err != nil {
		a.Close()
		return nil, err
	}

	// ── Services ─────────────────────────────────────────────────────────────
	window := time.Duration(cfg.AlertExpiryDays) * 24 * time.Hour
	renderer := receipt.NewRenderer(receipt.Business{
		Name:    cfg.BusinessName,
		TaxID:   cfg.BusinessTaxID,
		Address: cfg.BusinessAddress,
		Phone:   cfg.BusinessPhone,
	}, loc)

	// A nil *Dispatcher must not become a non-nil interface.
	var queue service.ReceiptQueue
	if a.Dispatcher != nil {
		queue = a.Dispatcher
	}

	audit := service.NewAuditService(auditRepo)
	products := service.NewProductService(a.Store, a.State, audit)
	sales := service.NewSaleService(a.Store, a.State, audit, queue)
	a.Services = router.Services{
		Auth:     service.NewAuthService(a.State, audit, cfg),
		Products: products,
		Cart:     service.NewCartService(a.State, sales),
		Sales:    sales,
		Cash:     service.NewCashService(a.State, audit),
		Reports:  service.NewReportService(a.State, loc, window),
		Alerts:   service.NewAlertService(a.State, window),
		Audit:    audit,
		Receipts: service.NewReceiptService(a.State, renderer, cfg.ReceiptStoragePath),
	}

	n, err := products.Refresh(ctx)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("load products: %w", err)
	}
	log.Info().Int("products", n).Bool("demo", cfg.IsDemo()).Msg("catalog loaded")
	return a, nil
}

func newFeed(cfg *config.Config) (catalog.ChangeFeed, error) {
	switch cfg.FeedDriver {
	case "kafka":
		return realtime.NewKafkaSource(cfg.Brokers(), cfg.KafkaGroup, cfg.KafkaTopic), nil
	case "postgres", "":
		connCfg, err := infra.StoreConfig(cfg.ProductStoreURL, cfg.ProductStoreKey)
		if err != nil {
			return nil, err
		}
		return realtime.NewPostgresSource(connCfg, infra.ProductsChannel), nil
	default:
		return nil, fmt.Errorf("unknown FEED_DRIVER %q", cfg.FeedDriver)
	}
}

// HealthDeps returns what GET /health probes.
func (a *App) HealthDeps() handler.HealthDeps {
	return handler.HealthDeps{DB: a.DB, Redis: a.Redis, Mailer: a.Mailer.Breaker(), State: a.State}
}

// RunSync applies Product Store changes to the state until ctx is cancelled.
func (a *App) RunSync(ctx context.Context) {
	resync := func(ctx context.Context) error {
		_, err := a.Services.Products.Refresh(ctx)
		return err
	}
	if err := realtime.NewSyncer(a.Feed, a.State, realtime.WithResync(resync)).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("realtime sync stopped")
	}
}

// StartWorkers launches the receipt and e-mail workers. It returns nil when
// there is no Redis to consume from.
func (a *App) StartWorkers(ctx context.Context) *worker.Pool {
	if a.Redis == nil {
		log.Warn().Msg("redis unavailable, receipt workers disabled")
		return nil
	}
	pool := worker.NewPool(a.Redis, map[string]worker.Handler{
		worker.QueueReceipts: worker.NewReceiptWorker(a.Services.Receipts, a.Dispatcher, a.Config.BusinessName).Process,
		worker.QueueEmail:    worker.NewEmailWorker(a.Mailer).Process,
	})
	pool.Start(ctx, a.Config.WorkerPoolSize)
	return pool
}

// Close releases the database and Redis connections.
func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("close redis")
		}
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
