// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"policyhub/internal/models"
	"policyhub/internal/policy"
	"policyhub/internal/store"
)

// Admin groups the template-management endpoints. Authentication sits in
// front of these routes in the deployment's gateway; the engine itself
// only owns the invalidation side of the contract.
type Admin struct {
	templates *store.TemplateStore
	service   *policy.Service
}

// NewAdmin creates the admin handler group.
func NewAdmin(templates *store.TemplateStore, service *policy.Service) *Admin {
	return &Admin{templates: templates, service: service}
}

type templateRequest struct {
	Type      models.TemplateType `json:"type"`
	Content   string              `json:"content"`
	CreatedBy string              `json:"created_by"`
}

// TemplatesList serves GET /admin/templates.
func (a *Admin) TemplatesList(w http.ResponseWriter, r *http.Request) {
	templates, err := a.templates.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	if templates == nil {
		templates = []models.Template{}
	}
	respondData(w, http.StatusOK, templates)
}

// TemplateCreate serves POST /admin/templates. New templates start as
// drafts and serve nothing until activated.
func (a *Admin) TemplateCreate(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondBadRequest(w, "Invalid request body", policy.CodeInvalidRequest)
		return
	}
	if msg := validateTemplate(req.Type, req.Content); msg != "" {
		respondBadRequest(w, msg, policy.CodeInvalidRequest)
		return
	}

	tmpl, err := a.templates.Create(r.Context(), req.Type, req.Content, req.CreatedBy)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, tmpl)
}

// TemplateUpdate serves PUT /admin/templates/{id}. Editing bumps the
// version; editing the active template of a type invalidates every
// rendered document depending on it before the call returns.
func (a *Admin) TemplateUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondBadRequest(w, "Invalid template ID", policy.CodeInvalidRequest)
		return
	}

	var req templateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondBadRequest(w, "Invalid request body", policy.CodeInvalidRequest)
		return
	}
	if msg := validateContent(req.Content); msg != "" {
		respondBadRequest(w, msg, policy.CodeInvalidRequest)
		return
	}

	tmpl, err := a.templates.UpdateContent(r.Context(), id, req.Content)
	if err != nil {
		respondError(w, err)
		return
	}
	if tmpl == nil {
		respondError(w, policy.ErrTemplateNotFound)
		return
	}

	if err := a.service.TemplateUpdated(r.Context(), tmpl); err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, tmpl)
}

// TemplateActivate serves POST /admin/templates/{id}/activate. The store
// transition and the cache invalidation both complete before a success
// response is written.
func (a *Admin) TemplateActivate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondBadRequest(w, "Invalid template ID", policy.CodeInvalidRequest)
		return
	}

	tmpl, err := a.service.ActivateTemplate(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, policy.ErrTemplateNotFound)
			return
		}
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, tmpl)
}

// TemplateDelete serves DELETE /admin/templates/{id}. The active template
// of a type is refused; superseded and draft templates may go.
func (a *Admin) TemplateDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondBadRequest(w, "Invalid template ID", policy.CodeInvalidRequest)
		return
	}

	if err := a.templates.Delete(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, store.ErrTemplateActive):
			respondBadRequest(w, "Cannot delete the active template", policy.CodeInvalidRequest)
		case errors.Is(err, sql.ErrNoRows):
			respondError(w, policy.ErrTemplateNotFound)
		default:
			respondError(w, err)
		}
		return
	}
	respondData(w, http.StatusOK, map[string]string{"deleted": id.String()})
}

// CacheFlush serves POST /admin/cache/flush: administrative full
// invalidation of every cache namespace.
func (a *Admin) CacheFlush(w http.ResponseWriter, r *http.Request) {
	if err := a.service.InvalidateAll(r.Context()); err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]string{"status": "flushed"})
}
