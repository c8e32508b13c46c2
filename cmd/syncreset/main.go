// Package main is an operator tool: it force-releases the sync_metadata
// singleton row when a crashed sync process left it stuck in_progress,
// grounded on the catalogue repository's own AcquireLock/ReleaseLock
// locking pattern (internal/platform/db.Connect + gorm).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"ticketaggregator/internal/platform/config"
	"ticketaggregator/internal/platform/db"
)

func main() {
	force := flag.Bool("force", false, "reset the sync_metadata row even without confirmation")
	flag.Parse()

	if !*force {
		fmt.Fprintln(os.Stderr, "refusing to reset sync_metadata without -force")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	gormDB, err := db.Connect(ctx, cfg.DatabaseURL, db.Options{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to unwrap sql.DB: %v\n", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	result := gormDB.WithContext(ctx).Exec(
		`UPDATE sync_metadata SET sync_status = 'failed', updated_at = ? WHERE id = 1 AND sync_status = 'in_progress'`,
		time.Now().UTC(),
	)
	if result.Error != nil {
		fmt.Fprintf(os.Stderr, "failed to reset sync_metadata: %v\n", result.Error)
		os.Exit(1)
	}
	if result.RowsAffected == 0 {
		fmt.Println("sync_metadata was not stuck in_progress; nothing to do")
		return
	}
	fmt.Println("sync_metadata reset to failed; the next scheduled tick will reacquire the lock")
}
