// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// TemplateType categorizes policy templates by the document they produce.
type TemplateType string

const (
	TemplateTypeBanner       TemplateType = "banner"
	TemplateTypePolicy       TemplateType = "policy"
	TemplateTypeCookieNotice TemplateType = "cookie_notice"
)

// Valid reports whether t is one of the known template types.
func (t TemplateType) Valid() bool {
	switch t {
	case TemplateTypeBanner, TemplateTypePolicy, TemplateTypeCookieNotice:
		return true
	}
	return false
}

// TemplateStatus is the lifecycle state of a policy template.
// Draft templates are invisible to rendering. At most one template per
// type is Active; activating a template moves the previous Active one to
// Superseded, which is terminal for serving but retained for audit.
type TemplateStatus string

const (
	TemplateStatusDraft      TemplateStatus = "draft"
	TemplateStatusActive     TemplateStatus = "active"
	TemplateStatusSuperseded TemplateStatus = "superseded"
)

// Template is a versioned legal-document template stored in the database.
// Content contains {{TOKEN}} placeholders substituted at render time.
type Template struct {
	ID        uuid.UUID      `json:"id"`
	Type      TemplateType   `json:"type"`
	Content   string         `json:"content"`
	Version   int            `json:"version"`
	Status    TemplateStatus `json:"status"`
	CreatedBy string         `json:"created_by"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// IsActive returns true if this template currently serves its type.
func (t *Template) IsActive() bool {
	return t.Status == TemplateStatusActive
}

// VersionString returns the version as the opaque string surfaced in
// API responses.
func (t *Template) VersionString() string {
	return strconv.Itoa(t.Version)
}
