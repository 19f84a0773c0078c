package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	appaccounting "github.com/ledgerly/backend/internal/application/accounting"
	appasset "github.com/ledgerly/backend/internal/application/asset"
	"github.com/ledgerly/backend/internal/domain/identity"
	"github.com/ledgerly/backend/internal/domain/shared"
	"github.com/ledgerly/backend/internal/infrastructure/config"
	"github.com/ledgerly/backend/internal/infrastructure/logger"
	"github.com/ledgerly/backend/internal/infrastructure/persistence"
)

// depreciate posts one month of depreciation for every active asset of
// every company. It is meant to run from cron shortly after month end,
// for example: depreciate -date 2024-06-30
func main() {
	var (
		logLevel string
		dateArg  string
	)
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.StringVar(&dateArg, "date", "", "Posting date, YYYY-MM-DD (default: last day of the previous month)")
	flag.Parse()

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

	postDate, err := resolveDate(dateArg, time.Now().UTC())
	if err != nil {
		log.Fatal("Invalid posting date", zap.String("arg", dateArg), zap.Error(err))
	}

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

	companies := persistence.NewGormCompanyRepository(db.DB)
	assets := persistence.NewGormAssetRepository(db.DB)
	entries := persistence.NewGormDepreciationEntryRepository(db.DB)
	journal := persistence.NewGormJournalRepository(db.DB)
	guard := appaccounting.NewPeriodGuard(companies, nil)
	uow := persistence.NewGormUnitOfWork(db.DB)

	svc := appasset.NewDepreciationService(assets, entries, journal, guard, uow, log)

	// The batch runner posts as an admin so a close performed between
	// month end and the cron run does not block the final month.
	actor := appaccounting.Actor{Role: identity.RoleAdmin}

	ctx := context.Background()
	// PageSize zero disables pagination so no company is left out.
	all, err := companies.FindAll(ctx, shared.Filter{OrderBy: "created_at", OrderDir: "asc"})
	if err != nil {
		log.Fatal("Failed to list companies", zap.Error(err))
	}

	var posted, failed int
	for i := range all {
		company := &all[i]
		results, err := svc.RunMonthly(ctx, company.ID, actor, postDate)
		if err != nil {
			log.Error("Depreciation run failed",
				zap.String("company_id", company.ID.String()), zap.Error(err))
			failed++
			continue
		}
		for _, r := range results {
			if r.Err != nil {
				log.Warn("Asset skipped",
					zap.String("company_id", company.ID.String()),
					zap.String("asset_id", r.AssetID.String()),
					zap.Error(r.Err))
				failed++
				continue
			}
			posted++
		}
	}

	log.Info("Depreciation run complete",
		zap.Time("post_date", postDate),
		zap.Int("companies", len(all)),
		zap.Int("posted", posted),
		zap.Int("failed", failed))
	if failed > 0 {
		os.Exit(1)
	}
}

// resolveDate parses the -date flag, defaulting to the last day of the
// month before now.
func resolveDate(arg string, now time.Time) (time.Time, error) {
	if arg != "" {
		return time.Parse("2006-01-02", arg)
	}
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return firstOfMonth.AddDate(0, 0, -1), nil
}
