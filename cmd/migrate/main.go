package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appaccounting "github.com/ledgerly/backend/internal/application/accounting"
	"github.com/ledgerly/backend/internal/infrastructure/config"
	"github.com/ledgerly/backend/internal/infrastructure/logger"
	"github.com/ledgerly/backend/internal/infrastructure/persistence"
)

func main() {
	var logLevel string
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	ctx := context.Background()

	switch command {
	case "up":
		if err := persistence.AutoMigrate(db.DB); err != nil {
			log.Fatal("Migration failed", zap.Error(err))
		}
		log.Info("Schema migrated", zap.String("driver", cfg.Database.Driver))

	case "seed-chart":
		if len(args) < 2 {
			log.Fatal("Company ID required. Usage: migrate seed-chart <company-id>")
		}
		companyID, err := uuid.Parse(args[1])
		if err != nil {
			log.Fatal("Invalid company ID", zap.String("arg", args[1]), zap.Error(err))
		}
		if err := seedChart(ctx, db, log, companyID); err != nil {
			log.Fatal("Chart seeding failed",
				zap.String("company_id", companyID.String()), zap.Error(err))
		}
		log.Info("Chart of accounts seeded", zap.String("company_id", companyID.String()))

	default:
		printUsage()
		os.Exit(1)
	}
}

func seedChart(ctx context.Context, db *persistence.Database, log *zap.Logger, companyID uuid.UUID) error {
	accounts := persistence.NewGormAccountRepository(db.DB)
	accountTypes := persistence.NewGormAccountTypeRepository(db.DB)
	journal := persistence.NewGormJournalRepository(db.DB)

	chart := appaccounting.NewChartService(accounts, accountTypes, journal, log)
	return chart.SeedChart(ctx, companyID)
}

func printUsage() {
	fmt.Println(`Usage: migrate [flags] <command>

Commands:
  up                        Create or update the database schema
  seed-chart <company-id>   Install the default chart of accounts for a company

Flags:
  -log-level string   Log level (debug, info, warn, error) (default "info")`)
}
