package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"

	"github.com/3dev1ops/gamja-market-backend/internal/adapter/handler"
	"github.com/3dev1ops/gamja-market-backend/internal/adapter/notify"
	"github.com/3dev1ops/gamja-market-backend/internal/adapter/storage"
	"github.com/3dev1ops/gamja-market-backend/internal/config"
	"github.com/3dev1ops/gamja-market-backend/internal/core/service"
	"github.com/3dev1ops/gamja-market-backend/internal/logging"
)

func main() {
	cfg := config.Load()
	log := logging.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// MySQL
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.WithField("error", err.Error()).Fatal("failed to open mysql")
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		log.WithField("error", err.Error()).Fatal("failed to ping mysql")
	}
	log.Info("connected to mysql")

	// Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		PoolSize: cfg.RedisPoolSize,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.WithField("error", err.Error()).Fatal("failed to connect redis")
	}
	log.Info("connected to redis")

	// NATS
	nc, err := nats.Connect(cfg.NATSURL)
	if err != nil {
		log.WithField("error", err.Error()).Fatal("failed to connect nats")
	}
	log.Info("connected to nats")

	ledger := storage.NewMySQLAdapter(db)
	counter := storage.NewRedisAdapter(rdb)
	notifier := notify.NewNATSNotifier(nc)

	bidService := service.NewBidService(ledger, counter, log)
	auctionService := service.NewAuctionService(ledger, notifier, notifier, log)

	httpHandler := handler.NewHTTPHandler(auctionService, bidService, log)
	router := handler.SetupRouter(httpHandler, log)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("http server listening")
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			log.WithField("error", err.Error()).Error("http server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	log.Info("http server stopped")

	nc.Drain()
	rdb.Close()
	db.Close()
	log.Info("connections closed")
}
