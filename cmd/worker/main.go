package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"ticketaggregator/internal/app/bootstrap"
)

// Worker process entrypoint.
// Data flow:
// 1) Load config.
// 2) Build app wiring.
// 3) Start the sync scheduler, outbox worker and idempotency sweeper —
//    no HTTP server, for split-deployment topologies.
func main() {
	log.Println("ticketaggregator worker starting")
	app, err := bootstrap.BuildWorker()
	if err != nil {
		log.Fatalf("bootstrap worker failed: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("worker shutdown close failed: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("ticketaggregator worker stopped with error: %v", err)
	}
}
