package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/osse101/Critterfield_Go/internal/config"
)

// debug dumps a summary of the economy tables for local troubleshooting
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	driver, dsn := "pgx", cfg.GetDBConnString()
	if cfg.DBDriver == config.DBDriverSQLite {
		driver, dsn = "sqlite", cfg.SQLitePath
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	fmt.Println("--- Consumables by rarity ---")
	dump(ctx, db, `SELECT rarity, COUNT(*), SUM(CASE WHEN exhausted THEN 1 ELSE 0 END)
		FROM consumables GROUP BY rarity ORDER BY rarity`, func(rows *sql.Rows) error {
		var rarity, total, exhausted int64
		if err := rows.Scan(&rarity, &total, &exhausted); err != nil {
			return err
		}
		fmt.Printf("Rarity: %d, Placed: %d, Exhausted: %d\n", rarity, total, exhausted)
		return nil
	})

	fmt.Println("\n--- Creatures by location ---")
	dump(ctx, db, `SELECT location, rarity, COUNT(*) FROM creatures
		GROUP BY location, rarity ORDER BY location, rarity`, func(rows *sql.Rows) error {
		var location string
		var rarity, count int64
		if err := rows.Scan(&location, &rarity, &count); err != nil {
			return err
		}
		fmt.Printf("Location: %s, Rarity: %d, Count: %d\n", location, rarity, count)
		return nil
	})

	fmt.Println("\n--- Top balances ---")
	dump(ctx, db, `SELECT owner_id, balance, last_payout_at FROM owner_balances
		ORDER BY balance DESC LIMIT 10`, func(rows *sql.Rows) error {
		var owner string
		var balance int64
		var lastPayout interface{}
		if err := rows.Scan(&owner, &balance, &lastPayout); err != nil {
			return err
		}
		fmt.Printf("Owner: %s, Balance: %d, LastPayout: %v\n", owner, balance, lastPayout)
		return nil
	})

	fmt.Println("\n--- Ledger totals ---")
	dump(ctx, db, `SELECT source_type, COUNT(*), SUM(amount) FROM economy_ledger
		GROUP BY source_type`, func(rows *sql.Rows) error {
		var source string
		var count, total int64
		if err := rows.Scan(&source, &count, &total); err != nil {
			return err
		}
		fmt.Printf("Source: %s, Entries: %d, Total: %d\n", source, count, total)
		return nil
	})
}

func dump(ctx context.Context, db *sql.DB, query string, scan func(*sql.Rows) error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		log.Printf("Query failed: %v", err)
		return
	}
	defer rows.Close()
	for rows.Next() {
		if err := scan(rows); err != nil {
			log.Printf("Failed to scan row: %v", err)
		}
	}
	if err := rows.Err(); err != nil {
		log.Printf("Row iteration failed: %v", err)
	}
}
