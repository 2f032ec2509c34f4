//go:build ignore

package main

import (
	"context"
	"fmt"
	"os"

	"bookstore/internal/config"

	"github.com/jackc/pgx/v5"
)

// Connects with the same DB_* environment as the server and reports row
// counts for the bookstore tables.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, cfg.Database.ConnectionString())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	var dbName string
	err = conn.QueryRow(ctx, "SELECT current_database()").Scan(&dbName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "QueryRow failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully connected to database: %s\n", dbName)

	fmt.Println("\nTables:")
	for _, table := range []string{"books", "carts", "cart_items", "orders", "order_items"} {
		var count int64
		// Table names come from the fixed list above
		err = conn.QueryRow(ctx, "SELECT COUNT(*) FROM "+pgx.Identifier{table}.Sanitize()).Scan(&count)
		if err != nil {
			fmt.Printf("  - %-12s missing (%v)\n", table, err)
			continue
		}
		fmt.Printf("  - %-12s %d rows\n", table, count)
	}
}
