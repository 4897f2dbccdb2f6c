package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"radagast/internal/catalog"
	"radagast/internal/commons"
	"radagast/internal/config"
	"radagast/internal/discovery"
	"radagast/internal/dispatch"
	"radagast/internal/geo"
	"radagast/internal/infrastructure/logger"
	"radagast/internal/infrastructure/mysql"
	"radagast/internal/infrastructure/rediscache"
	"radagast/internal/order"
	"radagast/internal/payment"
	"radagast/internal/rating"
	"radagast/internal/server"
	"radagast/internal/translate"

	"go.uber.org/zap"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	cache := rediscache.New(cfg.Redis.Addr, "radagast")

	registry := dispatch.NewRegistry(zapLogger)
	hub := dispatch.NewHub(registry, zapLogger)

	geocoder := geo.NewHTTPGeocoder(cfg.External.GeocoderBaseURL, cfg.External.Timeout, zapLogger)
	translator := translate.NewHTTPTranslator(cfg.External.TranslatorBaseURL, cfg.External.Timeout, cache, zapLogger)

	orderCtrl := order.NewModule(db, registry, zapLogger)
	catalogCtrl := catalog.NewModule(db, geocoder, registry, zapLogger)
	discoveryCtrl := discovery.NewModule(db, translator, cfg.Discovery.DefaultMaxDistanceKm, zapLogger)
	paymentCtrl := payment.NewModule(db, cache, registry, cfg.Payment.WebhookSecret, cfg.Payment.IntentTTL, zapLogger)
	ratingCtrl := rating.NewModule(db, registry, zapLogger)

	router := server.NewRouter(orderCtrl, catalogCtrl, discoveryCtrl, paymentCtrl, ratingCtrl, hub, zapLogger)

	srv := server.New(cfg.Server.Port, router, zapLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}

func loadConfig() (*config.Config, error) {
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		return commons.LoadConfig(path)
	}
	return config.Load()
}
