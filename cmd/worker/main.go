// Package main runs the escrow settlement sweeper. It is a plain
// scheduled process with no shared memory with the HTTP server; all
// coordination goes through the database, so running it alongside an
// operator-triggered sweep is safe.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dinedate/internal/config"
	"dinedate/internal/repositories"
	"dinedate/internal/services/notification"
	"dinedate/internal/services/referral"
	"dinedate/internal/services/settlement"
	"dinedate/internal/services/wallet"
)

func main() {
	config.LoadEnv()

	db, err := repositories.Connect(repositories.DefaultDBConfig())
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	walletRepo := repositories.NewWalletRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	userRepo := repositories.NewUserRepository(db)

	var notifier notification.Dispatcher = notification.NewLogDispatcher()
	if url := config.GetEnv("RABBITMQ_URL", ""); url != "" {
		notifier = notification.NewAMQPDispatcher(url)
	}

	ledger := wallet.NewService(walletRepo, wallet.NoopCache{})
	referralService := referral.NewService(userRepo, orderRepo, ledger, notifier)
	worker := settlement.NewService(orderRepo, ledger, referralService, notifier)

	interval := config.GetDurationEnv("SWEEP_INTERVAL", time.Hour)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("settlement worker started, interval %s", interval)
	runSweep(ctx, worker)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			runSweep(ctx, worker)
		case <-ctx.Done():
			log.Println("settlement worker stopping")
			return
		}
	}
}

func runSweep(ctx context.Context, worker settlement.Service) {
	start := time.Now()
	summary := worker.RunSweep(ctx)
	log.Printf("sweep done in %s: processed=%d errors=%d",
		time.Since(start).Round(time.Millisecond), summary.Processed, len(summary.Errors))
	for _, e := range summary.Errors {
		log.Printf("sweep error: %s", e)
	}
}
