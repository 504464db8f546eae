//go:build ignore

// Connects with the same DB_* variables as the API and reports which of
// the storefront tables exist.
//
//	go run scripts/check_db_connection.go
package main

import (
	"context"
	"fmt"
	"os"

	"bakery-storefront/internal/config"

	"github.com/caarlos0/env/v10"
	"github.com/jackc/pgx/v5"
)

var tables = []string{"profiles", "products", "orders", "order_items", "order_status_events", "store_settings"}

func main() {
	var cfg config.DatabaseConfig
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid environment: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, cfg.ConnectionString())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	var version string
	if err := conn.QueryRow(ctx, "SELECT version()").Scan(&version); err != nil {
		fmt.Fprintf(os.Stderr, "Query failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Connected to %s\n%s\n\n", cfg.Database, version)

	missing := 0
	for _, table := range tables {
		var exists bool
		err := conn.QueryRow(ctx, "SELECT to_regclass($1) IS NOT NULL", "public."+table).Scan(&exists)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to check %s: %v\n", table, err)
			os.Exit(1)
		}
		status := "ok"
		if !exists {
			status = "missing"
			missing++
		}
		fmt.Printf("  %-20s %s\n", table, status)
	}

	if missing > 0 {
		fmt.Printf("\n%d table(s) missing; start the API with DB_AUTO_MIGRATE=true to create them\n", missing)
		os.Exit(1)
	}
}
