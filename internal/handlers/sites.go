// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"policyhub/internal/models"
	"policyhub/internal/policy"
	"policyhub/internal/store"
)

// Sites groups the endpoints behind the registration and scanning
// collaborator contracts: every mutation here issues its cache
// invalidation hook before the response is written.
type Sites struct {
	sites   *store.SiteStore
	scans   *store.ScanStore
	service *policy.Service
}

// NewSites creates the site/scan handler group.
func NewSites(sites *store.SiteStore, scans *store.ScanStore, service *policy.Service) *Sites {
	return &Sites{sites: sites, scans: scans, service: service}
}

type siteRequest struct {
	Domain         string   `json:"domain"`
	CompanyName    string   `json:"company_name"`
	ContactEmail   string   `json:"contact_email"`
	OrgNumber      string   `json:"org_number"`
	CompanyAddress string   `json:"company_address"`
	Plugins        []string `json:"plugins"`
}

type scanRequest struct {
	Cookies []models.Cookie `json:"cookies"`
	Scripts []string        `json:"scripts"`
}

// SiteUpsert serves PUT /sites/{siteID}: create or replace a site record
// and invalidate its cached record and rendered documents.
func (h *Sites) SiteUpsert(w http.ResponseWriter, r *http.Request) {
	siteID, err := uuid.Parse(chi.URLParam(r, "siteID"))
	if err != nil {
		respondBadRequest(w, "Invalid site ID", policy.CodeInvalidRequest)
		return
	}

	var req siteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondBadRequest(w, "Invalid request body", policy.CodeInvalidRequest)
		return
	}
	if msg := validateSite(req.Domain, req.ContactEmail); msg != "" {
		respondBadRequest(w, msg, policy.CodeInvalidRequest)
		return
	}

	site, err := h.sites.Upsert(r.Context(), &models.Site{
		ID:             siteID,
		Domain:         req.Domain,
		CompanyName:    req.CompanyName,
		ContactEmail:   req.ContactEmail,
		OrgNumber:      req.OrgNumber,
		CompanyAddress: req.CompanyAddress,
		Plugins:        req.Plugins,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	// The mutation is not complete until its invalidation has applied.
	if err := h.service.SiteUpdated(r.Context(), siteID); err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, site)
}

// ScanIngest serves POST /sites/{siteID}/scans: store an immutable scan
// snapshot and invalidate the site's rendered documents.
func (h *Sites) ScanIngest(w http.ResponseWriter, r *http.Request) {
	siteID, err := uuid.Parse(chi.URLParam(r, "siteID"))
	if err != nil {
		respondBadRequest(w, "Invalid site ID", policy.CodeInvalidRequest)
		return
	}

	site, err := h.sites.FindByID(r.Context(), siteID)
	if err != nil {
		respondError(w, err)
		return
	}
	if site == nil {
		respondError(w, policy.ErrSiteNotFound)
		return
	}

	var req scanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondBadRequest(w, "Invalid request body", policy.CodeInvalidRequest)
		return
	}

	scan, err := h.scans.Create(r.Context(), &models.ScanResult{
		SiteID:  siteID,
		Cookies: req.Cookies,
		Scripts: req.Scripts,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.service.ScanIngested(r.Context(), siteID); err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, scan)
}
