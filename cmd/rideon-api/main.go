package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"rideon/internal/auth"
	"rideon/internal/config"
	"rideon/internal/geo"
	rideonhttp "rideon/internal/http"
	"rideon/internal/infra"
	"rideon/internal/logger"
	"rideon/internal/modules/booking"
	"rideon/internal/modules/driver"
	"rideon/internal/modules/pricing"
	"rideon/internal/modules/wallet"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.App.LogPath, cfg.App.Debug)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info("database connected")

	rdb := infra.NewRedis(cfg.Redis.Addr)
	defer rdb.Close()

	resolver := buildResolver(cfg, rdb, log)

	authMgr := auth.NewManager(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	pricingSvc := pricing.NewService(resolver, pricing.DefaultCatalog, pricing.DefaultPromos, log)
	walletSvc := wallet.NewService(wallet.NewStore(db, log), log)
	bookingSvc := booking.NewService(
		booking.NewStore(db),
		driver.NewStore(db),
		pricing.DefaultPromos,
		walletSvc,
		log,
	)

	router := rideonhttp.NewRouter(rideonhttp.Services{
		Pricing:  pricingSvc,
		Bookings: bookingSvc,
		Wallet:   walletSvc,
		Auth:     authMgr,
	}, log, cfg.App.Debug)

	srv := &http.Server{
		Addr:         cfg.App.Addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", cfg.App.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// buildResolver assembles the place-resolution chain: redis-cached
// Google geocoding when an API key is configured, then the offline
// landmark table.
func buildResolver(cfg config.Config, rdb *redis.Client, log *zap.Logger) geo.Resolver {
	chain := geo.Chain{}
	if cfg.Maps.APIKey != "" {
		geocoder, err := geo.NewMapsGeocoder(cfg.Maps.APIKey, cfg.Maps.Region, cfg.Maps.Timeout)
		if err != nil {
			log.Warn("maps geocoder unavailable", zap.Error(err))
		} else {
			chain = append(chain, geo.NewCachedResolver(rdb, geocoder, cfg.Redis.GeoCacheTTL, log))
		}
	} else {
		log.Info("no maps api key configured, using landmark resolution only")
	}
	chain = append(chain, geo.LandmarkResolver{})
	return chain
}
