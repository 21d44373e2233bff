package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"etfolio/internal/config"
	cronrunner "etfolio/internal/cron"
	"etfolio/internal/db"
	"etfolio/internal/handler"
	"etfolio/internal/logger"
	"etfolio/internal/quote"
	"etfolio/internal/repository"
	filerepository "etfolio/internal/repository/file"
	gormrepository "etfolio/internal/repository/gorm"
	"etfolio/internal/service"
)

func main() {
	cfgPath := os.Getenv("ETFOLIO_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("ETFOLIO_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	var repos repository.Repositories
	var dbConn *db.DB
	switch strings.ToLower(cfg.Storage.Backend) {
	case "postgres":
		dbConn, err = db.Open(cfg.DB)
		if err != nil {
			logger.Fatal("db open failed", zap.Error(err))
		}
		defer db.Close(dbConn)
		if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
			logger.Warn("failed to set timezone", zap.Error(err))
		}
		if err := db.AutoMigrate(dbConn); err != nil {
			logger.Fatal("auto-migrate failed", zap.Error(err))
		}
		repos = gormrepository.New(dbConn.Gorm).Repositories()
		logger.Info("storage backend: postgres")
	case "file":
		store, err := filerepository.New(cfg.Storage.Dir)
		if err != nil {
			logger.Fatal("file store init failed", zap.Error(err))
		}
		repos = store.Repositories()
		logger.Info("storage backend: file", zap.String("dir", cfg.Storage.Dir))
	default:
		logger.Fatal("unknown storage backend", zap.String("backend", cfg.Storage.Backend))
	}

	quoteHTTP := &http.Client{Timeout: cfg.Quote.Timeout}
	yahoo := quote.NewYahooClient(quoteHTTP, cfg.Quote.BaseURL)

	userSvc := &service.UserService{Users: repos.Users}
	etfSvc := &service.EtfService{Etfs: repos.Etfs, Users: userSvc, Logger: logger}
	txSvc := &service.TransactionService{
		Transactions: repos.Transactions,
		Etfs:         repos.Etfs,
		Users:        userSvc,
	}
	assetSvc := &service.AssetService{Assets: repos.Assets, Users: userSvc}
	snapshotSvc := &service.SnapshotService{
		Snapshots: repos.Snapshots,
		Users:     userSvc,
		Etfs:      etfSvc,
		Assets:    assetSvc,
		Logger:    logger,
	}
	priceSvc := &service.PriceService{
		Prices:          repos.Prices,
		Provider:        yahoo,
		Logger:          logger,
		FreshnessWindow: cfg.PriceCache.FreshnessWindow,
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())

	// Health is registered before the principal middleware so probes stay
	// unauthenticated.
	healthHandler := &handler.HealthHandler{AppName: "etfolio", Version: "1.0"}
	if dbConn != nil {
		conn := dbConn
		healthHandler.Ready = func() error { return db.Ping(conn) }
	}
	healthHandler.Register(engine)

	engine.Use(handler.RequirePrincipal())

	etfHandler := &handler.EtfHandler{Service: etfSvc, Snapshots: snapshotSvc, Logger: logger}
	etfHandler.Register(engine)
	txHandler := &handler.TransactionHandler{Service: txSvc, Snapshots: snapshotSvc, Logger: logger}
	txHandler.Register(engine)
	assetHandler := &handler.AssetHandler{Service: assetSvc, Snapshots: snapshotSvc, Logger: logger}
	assetHandler.Register(engine)
	snapshotHandler := &handler.SnapshotHandler{Service: snapshotSvc}
	snapshotHandler.Register(engine)
	priceHandler := &handler.PriceHandler{Service: priceSvc, Etfs: etfSvc}
	priceHandler.Register(engine)

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Cron.Enabled {
		cronRunner := cronrunner.New(logger, ctx)
		_, err := cronRunner.Add(cfg.Cron.PriceRefresh, func(ctx context.Context) {
			etfs, err := etfSvc.ListInternal(ctx)
			if err != nil {
				logger.Warn("cron price refresh: listing etfs failed", zap.Error(err))
				return
			}
			seen := make(map[string]struct{}, len(etfs))
			tickers := make([]string, 0, len(etfs))
			for _, etf := range etfs {
				sym := etf.EffectiveQuoteSymbol()
				if sym == "" {
					continue
				}
				if _, dup := seen[sym]; dup {
					continue
				}
				seen[sym] = struct{}{}
				tickers = append(tickers, sym)
			}
			refreshed := priceSvc.RefreshAll(ctx, tickers)
			logger.Info("cron price refresh ok",
				zap.Int("tickers", len(tickers)),
				zap.Int("refreshed", len(refreshed)))
		})
		if err != nil {
			logger.Warn("cron register price refresh failed", zap.Error(err))
		}
		cronRunner.Start()
		defer cronRunner.Stop()
	}

	errCh := make(chan error, 1)

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization,X-User-Email")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
