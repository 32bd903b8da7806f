// The batch binary runs the lifecycle scheduler on its own, so status
// sweeps keep running independently of the API servers.
package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/nats-io/nats.go"

	"github.com/3dev1ops/gamja-market-backend/internal/adapter/notify"
	"github.com/3dev1ops/gamja-market-backend/internal/adapter/storage"
	"github.com/3dev1ops/gamja-market-backend/internal/config"
	"github.com/3dev1ops/gamja-market-backend/internal/core/scheduler"
	"github.com/3dev1ops/gamja-market-backend/internal/logging"
)

func main() {
	cfg := config.Load()
	log := logging.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.WithField("error", err.Error()).Fatal("failed to open mysql")
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		log.WithField("error", err.Error()).Fatal("failed to ping mysql")
	}
	log.Info("connected to mysql")

	nc, err := nats.Connect(cfg.NATSURL)
	if err != nil {
		log.WithField("error", err.Error()).Fatal("failed to connect nats")
	}
	log.Info("connected to nats")

	ledger := storage.NewMySQLAdapter(db)
	notifier := notify.NewNATSNotifier(nc)

	sched := scheduler.New(ledger, notifier, log, cfg.SweepInterval)

	done := make(chan struct{})
	go func() {
		sched.Run(ctx)
		close(done)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	cancel()
	<-done

	nc.Drain()
	db.Close()
	log.Info("connections closed")
}
