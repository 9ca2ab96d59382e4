package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"

	"surf-storefront/internal/catalog"
	"surf-storefront/internal/config"
	"surf-storefront/internal/db"
	"surf-storefront/internal/events"
	"surf-storefront/internal/httpserver"
	"surf-storefront/internal/orders"
	"surf-storefront/internal/repository/kv"
	"surf-storefront/internal/repository/orderhistory"
	"surf-storefront/internal/session"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()

	menu, err := catalog.Load(cfg.MenuPath)
	if err != nil {
		logger.Fatalf("load catalog: %v", err)
	}

	var history orders.History
	var dbpool *pgxpool.Pool
	if cfg.DBConnString != "" {
		dbpool, err = db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			logger.Fatalf("connect to db: %v", err)
		}
		defer dbpool.Close()
		history = orderhistory.NewPostgres(dbpool)
	}

	var store kv.Store
	if cfg.RedisURL != "" {
		redisStore, err := kv.NewRedis(cfg.RedisURL, cfg.SessionTTL)
		if err != nil {
			logger.Fatalf("connect to redis: %v", err)
		}
		defer redisStore.Close()
		store = redisStore
	} else {
		store = kv.NewMemory()
	}

	var publisher orders.Publisher = events.Noop{}
	if cfg.AMQPURL != "" {
		amqpPub, err := events.Dial(cfg.AMQPURL)
		if err != nil {
			logger.Fatalf("connect to rabbitmq: %v", err)
		}
		defer amqpPub.Close()
		publisher = amqpPub
	}

	sessionCfg := session.DefaultConfig()
	sessionCfg.TTL = cfg.SessionTTL
	sessions := session.NewManager(sessionCfg, session.Deps{
		KV:        store,
		History:   history,
		Publisher: publisher,
		Logger:    logger,
	})
	defer sessions.Close()

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Catalog:  menu,
		Sessions: sessions,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
