// Package main is the ticket aggregator API process.
//
// @title Ticket Aggregator API
// @version 1.0
// @description Event catalogue and ticket registration HTTP API
// @BasePath /
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"ticketaggregator/internal/app/bootstrap"
)

// API process entrypoint.
// Data flow:
// 1) Load config.
// 2) Build app wiring (ports + adapters + use cases).
// 3) Start HTTP server and every background job.
func main() {
	log.Println("ticketaggregator api starting")
	app, err := bootstrap.BuildAPI()
	if err != nil {
		log.Fatalf("bootstrap api failed: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("api shutdown close failed: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("ticketaggregator api stopped with error: %v", err)
	}
}
