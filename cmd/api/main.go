package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hiepsieuhp89/amz-2-admin-sub001/internal/clients/marketplace"
	"github.com/hiepsieuhp89/amz-2-admin-sub001/internal/handlers"
	"github.com/hiepsieuhp89/amz-2-admin-sub001/internal/httpserver"
	"github.com/hiepsieuhp89/amz-2-admin-sub001/internal/platform/config"
	"github.com/hiepsieuhp89/amz-2-admin-sub001/internal/platform/observability"
	"github.com/hiepsieuhp89/amz-2-admin-sub001/internal/platform/pagination"
	"github.com/hiepsieuhp89/amz-2-admin-sub001/internal/services"
)

func main() {
	ctx := context.Background()

	baseLogger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()

	logger := baseLogger.Named("pos-api")
	ctx = observability.WithLogger(ctx, logger)

	cfg, err := config.Load()
	if err != nil {
		if config.IsMissingValue(err) {
			logger.Fatal("missing required configuration", zap.Error(err))
		}
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	client, err := marketplace.NewClient(cfg.Marketplace.BaseURL, &http.Client{Timeout: cfg.Marketplace.Timeout})
	if err != nil {
		logger.Fatal("failed to initialise marketplace client", zap.Error(err))
	}

	geo := services.NewGeoResolver()
	events := observability.EventLogger(logger.Named("services"))

	registry, err := services.NewSessionRegistry(services.SessionRegistryDeps{
		Geo:     geo,
		IdleTTL: cfg.Session.IdleTimeout,
	})
	if err != nil {
		logger.Fatal("failed to initialise session registry", zap.Error(err))
	}
	catalog, err := services.NewCatalogService(services.CatalogServiceDeps{Directory: client, Logger: events})
	if err != nil {
		logger.Fatal("failed to initialise catalog service", zap.Error(err))
	}
	customers, err := services.NewCustomerService(services.CustomerServiceDeps{Book: client, Logger: events})
	if err != nil {
		logger.Fatal("failed to initialise customer service", zap.Error(err))
	}
	orders, err := services.NewOrderService(services.OrderServiceDeps{Placer: client, Logger: events})
	if err != nil {
		logger.Fatal("failed to initialise order service", zap.Error(err))
	}

	cookies, err := httpserver.NewCookieManager(httpserver.CookieConfig{
		CookieName: cfg.Session.CookieName,
		HashKey:    []byte(cfg.Session.HashKey),
		BlockKey:   blockKey(cfg.Session.BlockKey),
		Lifetime:   cfg.Session.Lifetime,
	})
	if err != nil {
		logger.Fatal("failed to initialise session cookies", zap.Error(err))
	}

	authenticator := buildAuthenticator(ctx, logger, cfg)

	pos, err := handlers.NewPOSHandlers(handlers.POSHandlersDeps{
		Sessions:  registry,
		Cookies:   cookies,
		Catalog:   catalog,
		Customers: customers,
		Orders:    orders,
		Geo:       geo,
	})
	if err != nil {
		logger.Fatal("failed to initialise pos handlers", zap.Error(err))
	}

	health := handlers.NewHealthHandlers(
		handlers.WithReadinessProbe("marketplace", func(ctx context.Context) error {
			_, err := catalog.SearchShops(ctx, "", services.ShopFilter{}, pagination.Params{Page: 1, Take: 1})
			if errors.Is(err, services.ErrUnavailable) {
				return err
			}
			return nil
		}),
	)

	router := handlers.NewRouter(
		handlers.WithMiddlewares(
			observability.InjectLoggerMiddleware(logger),
			observability.RequestLoggerMiddleware(),
		),
		handlers.WithHealthHandlers(health),
		handlers.WithGeoRoutes(handlers.NewGeoHandlers(geo).Routes),
		handlers.WithPOSRoutes(pos.Routes),
		handlers.WithPOSMiddlewares(httpserver.RequireAuth(authenticator)),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	sweepCtx, sweepCancel := context.WithCancel(context.Background())
	go sweepSessions(sweepCtx, logger, registry)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverLogger := logger.Named("http").With(zap.String("addr", server.Addr))
	go func() {
		serverLogger.Info("pos console api listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-shutdown
	logger.Info("shutdown signal received; draining requests")
	sweepCancel()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func buildAuthenticator(ctx context.Context, logger *zap.Logger, cfg config.Config) httpserver.Authenticator {
	if cfg.Firebase.ProjectID == "" {
		logger.Warn("FIREBASE_PROJECT_ID not set; using passthrough authenticator")
		return httpserver.PassthroughAuthenticator()
	}
	verifier, err := httpserver.NewFirebaseVerifier(ctx, cfg.Firebase.ProjectID)
	if err != nil {
		logger.Fatal("failed to initialise firebase verifier", zap.Error(err))
	}
	authenticator, err := httpserver.NewFirebaseAuthenticator(verifier)
	if err != nil {
		logger.Fatal("failed to initialise firebase authenticator", zap.Error(err))
	}
	return authenticator
}

func blockKey(raw string) []byte {
	if raw == "" {
		return nil
	}
	return []byte(raw)
}

func sweepSessions(ctx context.Context, logger *zap.Logger, registry *services.SessionRegistry) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if dropped := registry.Sweep(); dropped > 0 {
				logger.Info("swept idle pos sessions", zap.Int("dropped", dropped))
			}
		}
	}
}
