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
)

// policyCacheControl tells clients they may cache a rendered document for
// as long as the server-side rendered-output TTL.
const policyCacheControl = "public, max-age=300"

// Policies groups the public read endpoints served by the policy engine.
type Policies struct {
	service *policy.Service
}

// NewPolicies creates the public policy handler group.
func NewPolicies(service *policy.Service) *Policies {
	return &Policies{service: service}
}

// GetSitePolicy serves GET /policy/{siteID}/{policyType}.
func (h *Policies) GetSitePolicy(w http.ResponseWriter, r *http.Request) {
	siteID, err := uuid.Parse(chi.URLParam(r, "siteID"))
	if err != nil {
		respondBadRequest(w, "Invalid site ID", policy.CodeInvalidRequest)
		return
	}

	rendered, err := h.service.GetPolicy(r.Context(), siteID, models.PolicyType(chi.URLParam(r, "policyType")))
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Cache-Control", policyCacheControl)
	respondData(w, http.StatusOK, rendered)
}

// GetDemoPolicy serves GET /demo-policy/{policyType}: a document rendered
// from the fixed demo variable set, with no site behind it.
func (h *Policies) GetDemoPolicy(w http.ResponseWriter, r *http.Request) {
	rendered, err := h.service.GetDemoPolicy(r.Context(), models.PolicyType(chi.URLParam(r, "policyType")))
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Cache-Control", policyCacheControl)
	respondData(w, http.StatusOK, rendered)
}
