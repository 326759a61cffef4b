// bill-check validates a bill export offline: it runs the same ingest and
// partition pipeline as the server and prints what the dashboard would see,
// without starting anything.
//
// Usage: bill-check <export.csv>
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/JIDAIN/bill/internal/aggregate"
	"github.com/JIDAIN/bill/internal/config"
	"github.com/JIDAIN/bill/internal/core"
	"github.com/JIDAIN/bill/internal/dataset"
	"github.com/JIDAIN/bill/internal/ingest"
	"github.com/JIDAIN/bill/internal/source"
)

func main() {
	_ = godotenv.Load()

	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: bill-check <export.csv>")
		os.Exit(2)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	if err := run(os.Args[1], cfg.Schema()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(path string, schema ingest.Schema) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	records, err := ingest.Load(context.Background(), source.NewCSV(f), schema)
	if err != nil {
		return err
	}

	ds, err := dataset.Partition(records)
	if err != nil {
		return err
	}

	income, expense := ds.Flow(core.Income), ds.Flow(core.Expense)
	fmt.Printf("%s: %d records (%d income, %d expense)\n", path, len(records), len(income), len(expense))
	fmt.Printf("years: %v (latest %d)\n\n", ds.Years(), ds.LatestYear())

	fmt.Println("expense totals by category:")
	for _, entry := range aggregate.GroupAndSum(expense, aggregate.ByCategory) {
		fmt.Printf("  %-24s %12s\n", entry.Key, entry.Sum)
	}

	if len(income) > 0 {
		fmt.Println("\nincome totals by category:")
		for _, entry := range aggregate.GroupAndSum(income, aggregate.ByCategory) {
			fmt.Printf("  %-24s %12s\n", entry.Key, entry.Sum)
		}
	}
	return nil
}
