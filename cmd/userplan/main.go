package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"flyergen/internal/domain"
	"flyergen/internal/infra"
	"flyergen/internal/sqlinline"
)

func main() {
	var (
		userFlag  string
		planFlag  string
		cycleFlag int
	)

	flag.StringVar(&userFlag, "user", "", "user ID to update")
	flag.StringVar(&planFlag, "plan", "pro", "plan to assign (free, pro, unlimited)")
	flag.IntVar(&cycleFlag, "cycle-days", 30, "quota cycle length in days for new records")
	flag.Parse()

	userID := strings.TrimSpace(userFlag)
	if userID == "" {
		exitWithError(errors.New("-user is required"))
	}
	rawPlan := strings.TrimSpace(strings.ToLower(planFlag))
	switch rawPlan {
	case "free", "pro", "unlimited":
	default:
		exitWithError(fmt.Errorf("unsupported plan %q", planFlag))
	}
	plan := domain.ParsePlan(rawPlan)
	if cycleFlag <= 0 {
		exitWithError(errors.New("-cycle-days must be positive"))
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("failed to connect database: %w", err))
	}
	defer pool.Close()

	logger := infra.NewLogger("cli").With().Str("cmd", "userplan").Logger()
	runner := infra.NewSQLRunner(pool, logger)

	updateCtx, cancelUpdate := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelUpdate()

	row := runner.QueryRow(updateCtx, sqlinline.QSetUserPlan, userID, string(plan), cycleFlag)

	var (
		updatedID   string
		updatedPlan string
		consumed    int
		cycleStart  time.Time
	)
	if err := row.Scan(&updatedID, &updatedPlan, &consumed, &cycleStart); err != nil {
		exitWithError(fmt.Errorf("failed to update user plan: %w", err))
	}

	fmt.Printf("User %s updated to plan %s\n", updatedID, updatedPlan)
	fmt.Printf("consumed=%d cycle_start=%s\n", consumed, cycleStart.Format(time.RFC3339))
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
