package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// Seed populates the database with initial development data: one sample
// site with a scan result, so the policy endpoints render something
// meaningful before any real site registers. No-op if sites exist.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM sites").Scan(&count); err != nil {
		return fmt.Errorf("seed check sites: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	var siteID string
	err := db.QueryRow(`
		INSERT INTO sites (domain, company_name, contact_email, org_number, company_address, plugins)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, "https://www.dev.localhost", "Dev Company Ltd", "dev@localhost",
		"999 999 999", "1 Developer Way", `["contact-form-7","woocommerce"]`,
	).Scan(&siteID)
	if err != nil {
		return fmt.Errorf("seed insert site: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO scan_results (site_id, cookies, scripts)
		VALUES ($1, $2, $3)
	`, siteID,
		`[{"name":"session_id","domain":"dev.localhost","category":"essential","duration":"Session"},
		  {"name":"_ga","domain":".dev.localhost","category":"analytics","duration":"2 years","description":"Google Analytics visitor identifier"}]`,
		`["https://www.googletagmanager.com/gtag/js"]`,
	)
	if err != nil {
		return fmt.Errorf("seed insert scan: %w", err)
	}

	slog.Info("database seeded with sample site", "site_id", siteID)
	return nil
}
