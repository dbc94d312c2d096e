// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"policyhub/internal/models"
)

// SiteStore handles all site-record database operations. Site records are
// owned by the registration subsystem; the policy engine only reads them,
// but the upsert lives here so the registration contract has a single
// write path that pairs with the site invalidation hook.
type SiteStore struct {
	db *sql.DB
}

// NewSiteStore creates a new SiteStore with the given database connection.
func NewSiteStore(db *sql.DB) *SiteStore {
	return &SiteStore{db: db}
}

// FindByID retrieves a site by its UUID. Returns nil if not found.
func (s *SiteStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Site, error) {
	site := &models.Site{}
	var plugins []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT id, domain, company_name, contact_email, org_number,
		       company_address, plugins, created_at, updated_at
		FROM sites WHERE id = $1
	`, id).Scan(
		&site.ID, &site.Domain, &site.CompanyName, &site.ContactEmail,
		&site.OrgNumber, &site.CompanyAddress, &plugins,
		&site.CreatedAt, &site.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find site by id: %w", err)
	}
	if err := json.Unmarshal(plugins, &site.Plugins); err != nil {
		return nil, fmt.Errorf("decode site plugins: %w", err)
	}
	return site, nil
}

// Upsert inserts or fully replaces a site record. The caller must issue
// the site invalidation hook afterwards.
func (s *SiteStore) Upsert(ctx context.Context, site *models.Site) (*models.Site, error) {
	plugins, err := json.Marshal(site.Plugins)
	if err != nil {
		return nil, fmt.Errorf("encode site plugins: %w", err)
	}

	result := &models.Site{Plugins: site.Plugins}
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO sites (id, domain, company_name, contact_email, org_number, company_address, plugins)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			domain = EXCLUDED.domain,
			company_name = EXCLUDED.company_name,
			contact_email = EXCLUDED.contact_email,
			org_number = EXCLUDED.org_number,
			company_address = EXCLUDED.company_address,
			plugins = EXCLUDED.plugins,
			updated_at = NOW()
		RETURNING id, domain, company_name, contact_email, org_number,
		          company_address, created_at, updated_at
	`, site.ID, site.Domain, site.CompanyName, site.ContactEmail,
		site.OrgNumber, site.CompanyAddress, plugins,
	).Scan(
		&result.ID, &result.Domain, &result.CompanyName, &result.ContactEmail,
		&result.OrgNumber, &result.CompanyAddress,
		&result.CreatedAt, &result.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert site: %w", err)
	}
	return result, nil
}

// Delete removes a site record.
func (s *SiteStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sites WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete site: %w", err)
	}
	return nil
}
