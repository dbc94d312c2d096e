// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"policyhub/internal/models"
)

// ScanStore handles scan-result database operations. Scan results are
// immutable snapshots: they are inserted by the client scanner and never
// updated; rendering consults the most recent one per site only.
type ScanStore struct {
	db *sql.DB
}

// NewScanStore creates a new ScanStore with the given database connection.
func NewScanStore(db *sql.DB) *ScanStore {
	return &ScanStore{db: db}
}

// LatestBySite returns the most recent scan result for a site, or nil
// when the site has never been scanned.
func (s *ScanStore) LatestBySite(ctx context.Context, siteID uuid.UUID) (*models.ScanResult, error) {
	scan := &models.ScanResult{}
	var cookies, scripts []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT id, site_id, cookies, scripts, captured_at
		FROM scan_results
		WHERE site_id = $1
		ORDER BY captured_at DESC
		LIMIT 1
	`, siteID).Scan(&scan.ID, &scan.SiteID, &cookies, &scripts, &scan.CapturedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest scan for site: %w", err)
	}
	if err := json.Unmarshal(cookies, &scan.Cookies); err != nil {
		return nil, fmt.Errorf("decode scan cookies: %w", err)
	}
	if err := json.Unmarshal(scripts, &scan.Scripts); err != nil {
		return nil, fmt.Errorf("decode scan scripts: %w", err)
	}
	return scan, nil
}

// Create inserts a new scan result snapshot. The caller must issue the
// scan invalidation hook for the site afterwards.
func (s *ScanStore) Create(ctx context.Context, scan *models.ScanResult) (*models.ScanResult, error) {
	cookies, err := json.Marshal(scan.Cookies)
	if err != nil {
		return nil, fmt.Errorf("encode scan cookies: %w", err)
	}
	scripts, err := json.Marshal(scan.Scripts)
	if err != nil {
		return nil, fmt.Errorf("encode scan scripts: %w", err)
	}

	result := &models.ScanResult{Cookies: scan.Cookies, Scripts: scan.Scripts}
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO scan_results (site_id, cookies, scripts, captured_at)
		VALUES ($1, $2, $3, COALESCE($4, NOW()))
		RETURNING id, site_id, captured_at
	`, scan.SiteID, cookies, scripts, nullableTime(scan.CapturedAt),
	).Scan(&result.ID, &result.SiteID, &result.CapturedAt)
	if err != nil {
		return nil, fmt.Errorf("create scan result: %w", err)
	}
	return result, nil
}

// nullableTime maps the zero time to NULL so COALESCE can default it to NOW().
func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

// CountBySite returns the number of stored scans for a site.
func (s *ScanStore) CountBySite(ctx context.Context, siteID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM scan_results WHERE site_id = $1`, siteID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count scans: %w", err)
	}
	return count, nil
}
