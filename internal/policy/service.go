// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package policy

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"policyhub/internal/models"
)

// SiteReader provides read access to site records. Implemented by
// store.SiteStore; mocked in tests.
type SiteReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Site, error)
}

// ScanReader provides read access to scan results. The service always
// reads the latest scan fresh — scan freshness matters more than latency.
type ScanReader interface {
	LatestBySite(ctx context.Context, siteID uuid.UUID) (*models.ScanResult, error)
}

// TemplateStore provides the template operations the service needs.
// Activate must atomically move the previous active template of the same
// type to superseded and the target to active.
type TemplateStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Template, error)
	FindActiveByType(ctx context.Context, t models.TemplateType) (*models.Template, error)
	Activate(ctx context.Context, id uuid.UUID) (*models.Template, error)
}

// Cache is the three-namespace cache consumed by the service: template
// records, site records, and rendered documents, each with its own TTL.
// Get/Set failures degrade to recomputation and must not surface;
// invalidation failures must surface, because mutations are not complete
// until their invalidations have been applied.
type Cache interface {
	GetTemplate(ctx context.Context, t models.TemplateType) (*models.Template, bool)
	SetTemplate(ctx context.Context, tmpl *models.Template)
	GetSite(ctx context.Context, id uuid.UUID) (*models.Site, bool)
	SetSite(ctx context.Context, site *models.Site)
	GetRendered(ctx context.Context, siteRef string, p models.PolicyType) ([]byte, bool)
	SetRendered(ctx context.Context, siteRef string, p models.PolicyType, doc []byte)

	TemplateChanged(ctx context.Context, t models.TemplateType) error
	SiteChanged(ctx context.Context, siteID uuid.UUID) error
	ScanIngested(ctx context.Context, siteID uuid.UUID) error
	Flush(ctx context.Context) error
}

// DemoSiteRef is the rendered-output cache key segment for demo renders,
// distinct from any real site ID.
const DemoSiteRef = "demo"

// policyTitles are the fixed display titles per policy type. The title is
// derived from the policy type alone and is not part of template content.
var policyTitles = map[models.PolicyType]string{
	models.PolicyTypeCookie:  "Cookie Policy",
	models.PolicyTypePrivacy: "Privacy Policy",
}

// RenderedPolicy is a fully substituted legal document as returned to
// callers (and as stored in the rendered-output cache).
type RenderedPolicy struct {
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	LastUpdated time.Time `json:"lastUpdated"`
	Version     string    `json:"version"`
}

// Service orchestrates template selection, variable aggregation, token
// rendering, and the cache read/invalidation paths. All methods are safe
// for concurrent use; rendering is a pure function of its inputs, so
// concurrent cache writes for the same key are harmless overwrites.
type Service struct {
	sites     SiteReader
	scans     ScanReader
	templates TemplateStore
	cache     Cache

	// group coalesces concurrent rendered-output cache misses for the
	// same (site, policy type) behind a single in-flight render.
	group singleflight.Group
}

// NewService creates a policy service over the given collaborators.
func NewService(sites SiteReader, scans ScanReader, templates TemplateStore, cache Cache) *Service {
	return &Service{
		sites:     sites,
		scans:     scans,
		templates: templates,
		cache:     cache,
	}
}

// GetPolicy returns the rendered document of the given type for a site.
// The rendered-output cache is consulted first; on a hit nothing else is
// touched. On a miss the template (through the template cache), the site
// record (through the site-data cache), and a fresh latest-scan read feed
// the renderer, and the result is cached before returning.
func (s *Service) GetPolicy(ctx context.Context, siteID uuid.UUID, p models.PolicyType) (*RenderedPolicy, error) {
	if !p.Valid() {
		return nil, ErrInvalidPolicyType
	}

	siteRef := siteID.String()
	if doc, ok := s.cache.GetRendered(ctx, siteRef, p); ok {
		return decodeRendered(doc)
	}

	v, err, _ := s.group.Do(siteRef+":"+string(p), func() (any, error) {
		return s.renderForSite(ctx, siteID, p)
	})
	if err != nil {
		return nil, err
	}
	return v.(*RenderedPolicy), nil
}

// GetDemoPolicy renders the given document type over the fixed demo
// variable set. It bypasses site and scan lookups entirely and caches
// under its own key, distinct from any real site.
func (s *Service) GetDemoPolicy(ctx context.Context, p models.PolicyType) (*RenderedPolicy, error) {
	if !p.Valid() {
		return nil, ErrInvalidPolicyType
	}

	if doc, ok := s.cache.GetRendered(ctx, DemoSiteRef, p); ok {
		return decodeRendered(doc)
	}

	v, err, _ := s.group.Do(DemoSiteRef+":"+string(p), func() (any, error) {
		tmpl, err := s.resolveTemplate(ctx, p.TemplateType())
		if err != nil {
			return nil, err
		}

		vars := demoVariables()
		vars["LAST_UPDATED_DATE"] = FormatDate(tmpl.lastUpdated)

		return s.renderAndCache(ctx, DemoSiteRef, p, tmpl, vars)
	})
	if err != nil {
		return nil, err
	}
	return v.(*RenderedPolicy), nil
}

// ActivateTemplate publishes a template: the previous active template of
// its type moves to superseded and the target becomes active in one
// transaction, then the template cache for the type and every rendered
// document depending on it — across all sites and the demo keys — are
// invalidated before the call returns. The invalidation is synchronous
// and must not be deferred: activation is not complete until it succeeds.
func (s *Service) ActivateTemplate(ctx context.Context, id uuid.UUID) (*models.Template, error) {
	tmpl, err := s.templates.Activate(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.TemplateChanged(ctx, tmpl.Type); err != nil {
		return nil, fmt.Errorf("invalidate after activation: %w", err)
	}

	slog.Info("template activated",
		"id", tmpl.ID,
		"type", tmpl.Type,
		"version", tmpl.Version,
	)
	return tmpl, nil
}

// TemplateUpdated is the invalidation hook for template content edits.
// Editing a draft changes nothing that is cached; editing the active
// template of a type invalidates like an activation.
func (s *Service) TemplateUpdated(ctx context.Context, tmpl *models.Template) error {
	if !tmpl.IsActive() {
		return nil
	}
	return s.cache.TemplateChanged(ctx, tmpl.Type)
}

// SiteUpdated is the invalidation hook the registration subsystem calls
// after mutating a site record.
func (s *Service) SiteUpdated(ctx context.Context, siteID uuid.UUID) error {
	return s.cache.SiteChanged(ctx, siteID)
}

// ScanIngested is the invalidation hook the client scanner calls after
// storing a new scan result for a site.
func (s *Service) ScanIngested(ctx context.Context, siteID uuid.UUID) error {
	return s.cache.ScanIngested(ctx, siteID)
}

// InvalidateAll clears every cache namespace. Administrative recovery
// only; absence of cache entries is always safe.
func (s *Service) InvalidateAll(ctx context.Context) error {
	return s.cache.Flush(ctx)
}

// resolvedTemplate is a serving template: either the active stored record
// for a type or the built-in default.
type resolvedTemplate struct {
	content     string
	version     string
	lastUpdated time.Time
}

// resolveTemplate returns the active template for a type through the
// template cache, falling back to the built-in default when no active
// template exists. ErrTemplateNotFound is only possible for types without
// a default.
func (s *Service) resolveTemplate(ctx context.Context, t models.TemplateType) (*resolvedTemplate, error) {
	if tmpl, ok := s.cache.GetTemplate(ctx, t); ok {
		return &resolvedTemplate{content: tmpl.Content, version: tmpl.VersionString(), lastUpdated: tmpl.UpdatedAt}, nil
	}

	tmpl, err := s.templates.FindActiveByType(ctx, t)
	if err != nil {
		return nil, renderError(err)
	}
	if tmpl != nil {
		s.cache.SetTemplate(ctx, tmpl)
		return &resolvedTemplate{content: tmpl.Content, version: tmpl.VersionString(), lastUpdated: tmpl.UpdatedAt}, nil
	}

	content, ok := defaultTemplates[t]
	if !ok {
		return nil, ErrTemplateNotFound
	}
	// Built-in content has no stored timestamp; it is "updated" now.
	return &resolvedTemplate{content: content, version: "default", lastUpdated: time.Now()}, nil
}

// renderForSite performs the full aggregate-render-cache sequence for one
// (site, policy type) pair.
func (s *Service) renderForSite(ctx context.Context, siteID uuid.UUID, p models.PolicyType) (*RenderedPolicy, error) {
	site, ok := s.cache.GetSite(ctx, siteID)
	if !ok {
		var err error
		site, err = s.sites.FindByID(ctx, siteID)
		if err != nil {
			return nil, renderError(err)
		}
		if site == nil {
			return nil, ErrSiteNotFound
		}
		s.cache.SetSite(ctx, site)
	}

	tmpl, err := s.resolveTemplate(ctx, p.TemplateType())
	if err != nil {
		return nil, err
	}

	// Always a fresh read: a new scan must show up on the next render
	// without waiting out a TTL.
	scan, err := s.scans.LatestBySite(ctx, siteID)
	if err != nil {
		return nil, renderError(err)
	}

	vars := buildVariables(site, scan, tmpl.lastUpdated)
	return s.renderAndCache(ctx, siteID.String(), p, tmpl, vars)
}

// renderAndCache substitutes tokens, warns about any left unresolved, and
// writes the rendered-output cache entry.
func (s *Service) renderAndCache(ctx context.Context, siteRef string, p models.PolicyType, tmpl *resolvedTemplate, vars map[string]string) (*RenderedPolicy, error) {
	content, unresolved := Render(tmpl.content, vars)
	if len(unresolved) > 0 {
		// Deliberate fail-open: the tokens ship verbatim so missing
		// configuration is visible on the page, but operators get a
		// signal to alert on.
		slog.Warn("render left tokens unresolved",
			"site", siteRef,
			"policy_type", p,
			"tokens", unresolved,
		)
	}

	rendered := &RenderedPolicy{
		Title:       policyTitles[p],
		Content:     content,
		LastUpdated: tmpl.lastUpdated,
		Version:     tmpl.version,
	}

	doc, err := json.Marshal(rendered)
	if err != nil {
		return nil, renderError(err)
	}
	s.cache.SetRendered(ctx, siteRef, p, doc)

	return rendered, nil
}

// decodeRendered unmarshals a cached rendered document. A corrupt entry
// is unexpected but must not take the endpoint down.
func decodeRendered(doc []byte) (*RenderedPolicy, error) {
	var rendered RenderedPolicy
	if err := json.Unmarshal(doc, &rendered); err != nil {
		return nil, renderError(fmt.Errorf("decode cached policy: %w", err))
	}
	return &rendered, nil
}
