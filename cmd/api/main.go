package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	_ "storefront/docs"
	"storefront/pkg/api"
	"storefront/pkg/auth"
	"storefront/pkg/booking"
	"storefront/pkg/catalog"
	"storefront/pkg/checkout"
	"storefront/pkg/config"
	"storefront/pkg/logger"
	"storefront/pkg/order"
	ordermem "storefront/pkg/order/memory"
	pg "storefront/pkg/order/postgres"
	"storefront/pkg/otel"
	"storefront/pkg/relay"
	"storefront/pkg/session"
	sessionmem "storefront/pkg/session/memory"
	sessionredis "storefront/pkg/session/redis"
)

const serviceName = "storefront"

// @title Storefront API
// @version 1.0
// @description Session cart, checkout relay and salon bookings
// @host localhost:8443
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.New(os.Stdout, logger.ParseLevel(cfg.Log.Level), serviceName, otel.GetTraceID)
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Error(context.Background(), "startup", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, shutdown, err := otel.InitTracing(log, otel.Config{
		ServiceName: serviceName,
		Host:        cfg.Tracing.Host,
		Probability: cfg.Tracing.Probability,
	})
	if err != nil {
		return err
	}
	defer shutdown(context.Background())

	checks := map[string]api.HealthCheck{}

	var orders order.Repository
	if cfg.Storage.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.Storage.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		repo := pg.New(db)
		if err := repo.Migrate(ctx); err != nil {
			return err
		}
		orders = repo
		checks["postgres"] = db.PingContext
		log.Info(ctx, "orders in postgres")
	} else {
		orders = ordermem.New()
		log.Info(ctx, "orders in memory")
	}

	ttl := session.TTL{Cart: cfg.Session.CartTTL, Contact: cfg.Session.ContactTTL, Login: cfg.Session.LoginTTL}
	var sessions session.Store
	if cfg.Storage.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.Storage.RedisAddr})
		defer client.Close()
		store := sessionredis.New(client, ttl)
		if err := store.Ping(ctx); err != nil {
			log.Warn(ctx, "redis not reachable yet", "addr", cfg.Storage.RedisAddr, "error", err)
		}
		sessions = store
		checks["redis"] = store.Ping
		log.Info(ctx, "sessions in redis", "addr", cfg.Storage.RedisAddr)
	} else {
		sessions = sessionmem.New(ttl)
		log.Info(ctx, "sessions in memory")
	}

	if cfg.Relay.AccessKey == "" {
		log.Warn(ctx, "RELAY_ACCESS_KEY is empty; the relay will reject submissions")
	}
	rc := relay.New(relay.Config{
		URL:       cfg.Relay.URL,
		AccessKey: cfg.Relay.AccessKey,
		FromName:  cfg.Relay.FromName,
		Timeout:   cfg.Relay.Timeout,
	})

	srv := api.New(api.Deps{
		Catalog:       catalog.Default(),
		Sessions:      sessions,
		Auth:          auth.New(sessions, cfg.Auth.Users),
		Checkout:      checkout.New(rc, orders, log, cfg.Pricing.CurrencySymbol),
		Booking:       booking.New(rc, log),
		Orders:        orders,
		FeeRules:      cfg.Pricing.FeeRules(),
		Currency:      cfg.Pricing.CurrencySymbol,
		Log:           log,
		Tracer:        tp.Tracer(serviceName),
		CookieTTL:     cfg.Session.ContactTTL,
		SecureCookies: cfg.Server.UseTLS(),
		HealthChecks:  checks,
	})

	httpSrv := &http.Server{Addr: cfg.Server.Addr, Handler: srv.Router()}
	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "listening", "addr", cfg.Server.Addr, "tls", cfg.Server.UseTLS())
		if cfg.Server.UseTLS() {
			errCh <- httpSrv.ListenAndServeTLS(cfg.Server.TLSCertFile, cfg.Server.TLSKeyFile)
			return
		}
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}
