/*
main.go - Command-line entry point

PURPOSE:
  Operates a leave-engine SQLite database from the command line: seeds a
  leave-type catalog from YAML, prints a user's balance summary and
  request gate, or runs the recurring-holiday generation scheduler.

COMMAND-LINE FLAGS:
  -db          SQLite database path (default: leave.db, ":memory:" works)
  -workspace   Workspace (tenant) identifier
  -catalog     YAML catalog file to load into the database, then exit
  -user        Print the balance summary and request gate for this user
  -gen-year    Materialize recurring holidays for this year, then exit
  -schedule    Run the holiday scheduler with this cron spec until
               SIGINT/SIGTERM (e.g. "0 0 2 * * *")

EXAMPLES:
  # Seed the catalog
  ./leavectl -db=./leave.db -catalog=./catalog.yaml

  # Show balances
  ./leavectl -db=./leave.db -workspace=acme -user=emp-123

  # One-shot holiday generation for 2026
  ./leavectl -db=./leave.db -gen-year=2026

  # Long-running scheduler
  ./leavectl -db=./leave.db -schedule="0 0 2 * * *"

SEE ALSO:
  - factory/catalog.go: YAML schema
  - jobs/holidays.go: Generation job
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/leave-engine/calendar"
	"github.com/warp/leave-engine/factory"
	"github.com/warp/leave-engine/jobs"
	"github.com/warp/leave-engine/leave"
	"github.com/warp/leave-engine/store/sqlite"
)

func main() {
	dbPath := flag.String("db", "leave.db", "SQLite database path")
	workspace := flag.String("workspace", "", "workspace identifier")
	catalogPath := flag.String("catalog", "", "YAML catalog file to load")
	userID := flag.String("user", "", "user to print balances for")
	genYear := flag.Int("gen-year", 0, "materialize recurring holidays for this year")
	schedule := flag.String("schedule", "", "cron spec for the holiday scheduler")
	flag.Parse()

	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	switch {
	case *catalogPath != "":
		loadCatalog(ctx, store, *catalogPath)

	case *genYear != 0:
		gen := &jobs.HolidayGenerator{Store: store}
		n, err := gen.GenerateYear(ctx, *genYear)
		if err != nil {
			log.Fatalf("Holiday generation failed: %v", err)
		}
		log.Printf("Generated %d holiday(s) for %d", n, *genYear)

	case *schedule != "":
		runScheduler(store, *schedule)

	case *userID != "":
		printBalances(ctx, store, *workspace, *userID)

	default:
		flag.Usage()
		os.Exit(2)
	}
}

func loadCatalog(ctx context.Context, store *sqlite.Store, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read catalog file: %v", err)
	}

	catalog, err := factory.ParseCatalogYAML(data)
	if err != nil {
		log.Fatalf("Failed to parse catalog: %v", err)
	}

	for i, lt := range catalog.Types {
		if err := store.SaveLeaveType(ctx, lt, i); err != nil {
			log.Fatalf("Failed to save leave type %s: %v", lt.ID, err)
		}
	}
	log.Printf("Loaded %d leave type(s) into workspace %s", len(catalog.Types), catalog.Workspace)
}

func printBalances(ctx context.Context, store *sqlite.Store, workspace, userID string) {
	engine := leave.NewEngine(store, store, store, store)
	now := calendar.FromTime(time.Now())

	rows, err := engine.BalanceSummary(ctx, workspace, leave.UserID(userID), now)
	if err != nil {
		log.Fatalf("Failed to compute balance summary: %v", err)
	}

	fmt.Printf("Balances for %s as of %s\n", userID, now)
	for _, row := range rows {
		mark := " "
		if row.Eligible {
			mark = "*"
		}
		fmt.Printf("  %s %-20s allowance=%-3d used=%-3d remaining=%-3d paid-equiv=%s\n",
			mark, row.Type.Name, row.Allowance, row.Used, row.Remaining,
			row.PaidDayEquivalent.StringFixed(1))
	}

	gate, err := engine.CanRequestNewLeave(ctx, workspace, leave.UserID(userID), now)
	if err != nil {
		log.Fatalf("Failed to compute request gate: %v", err)
	}
	if gate.CanRequest {
		fmt.Println("New requests: allowed")
	} else {
		fmt.Printf("New requests: blocked (%s)\n", gate.Reason)
	}
}

func runScheduler(store *sqlite.Store, spec string) {
	gen := &jobs.HolidayGenerator{Store: store}
	scheduler, err := jobs.NewScheduler(gen, spec)
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	scheduler.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	scheduler.Stop()
}
