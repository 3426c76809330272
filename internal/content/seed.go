package content

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vijay-prabhu/incomeadvisor/internal/database"
	"github.com/vijay-prabhu/incomeadvisor/internal/logger"
	"github.com/vijay-prabhu/incomeadvisor/internal/scoring"
)

// SeedReport counts what a seed run inserted and skipped
type SeedReport struct {
	Factors       int      `json:"factors"`
	Regions       int      `json:"regions"`
	IncomeMethods int      `json:"income_methods"`
	CareerPaths   int      `json:"career_paths"`
	Skipped       []string `json:"skipped,omitempty"`
	Warnings      []string `json:"warnings,omitempty"`
}

// Seed inserts bundle content into the store in one transaction.
// Each table that already holds rows is left untouched.
func Seed(ctx context.Context, db *database.DB, b *Bundle, log logger.Logger) (*SeedReport, error) {
	if log == nil {
		log = logger.NewNop()
	}
	report := &SeedReport{Warnings: b.JoinWarnings()}
	for _, w := range report.Warnings {
		log.Warn("content join check", map[string]interface{}{"warning": w})
	}

	err := db.Transaction(ctx, func(tx *sql.Tx) error {
		skip := func(table string, count func() (int, error)) (bool, error) {
			n, err := count()
			if err != nil {
				return false, fmt.Errorf("count %s: %w", table, err)
			}
			if n > 0 {
				report.Skipped = append(report.Skipped, table)
				log.Info("table already populated, skipping", map[string]interface{}{"table": table, "rows": n})
				return true, nil
			}
			return false, nil
		}

		rowsIn := func(table string) func() (int, error) {
			return func() (int, error) { return database.CountRows(ctx, tx, table) }
		}
		itemsOf := func(kind scoring.Kind) func() (int, error) {
			return func() (int, error) { return database.CountItems(ctx, tx, kind) }
		}

		skipped, err := skip("factors", rowsIn("factors"))
		if err != nil {
			return err
		}
		if !skipped {
			for _, f := range b.Factors {
				if err := database.InsertFactor(ctx, tx, f); err != nil {
					return fmt.Errorf("insert factor %q: %w", f.Name, err)
				}
				report.Factors++
			}
		}

		skipped, err = skip("regions", rowsIn("regions"))
		if err != nil {
			return err
		}
		if !skipped {
			for _, r := range b.Regions {
				region := &database.Region{Name: r.Name, F10Value: *r.F10Value}
				if err := database.InsertRegion(ctx, tx, region); err != nil {
					return fmt.Errorf("insert region %q: %w", r.Name, err)
				}
				report.Regions++
			}
		}

		for _, kind := range []scoring.Kind{scoring.KindIncomeMethod, scoring.KindCareerPath} {
			skipped, err = skip(string(kind), itemsOf(kind))
			if err != nil {
				return err
			}
			if skipped {
				continue
			}
			for _, it := range b.Items(kind) {
				if err := database.InsertItem(ctx, tx, it); err != nil {
					return err
				}
				if kind == scoring.KindCareerPath {
					report.CareerPaths++
				} else {
					report.IncomeMethods++
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}

	log.Info("content seeded", map[string]interface{}{
		"factors":        report.Factors,
		"regions":        report.Regions,
		"income_methods": report.IncomeMethods,
		"career_paths":   report.CareerPaths,
	})
	return report, nil
}
