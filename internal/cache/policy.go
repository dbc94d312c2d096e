// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// policy.go provides the three-namespace Valkey cache behind the policy
// engine: template records, site records, and fully rendered documents,
// each with its own TTL. Invalidation is expressed as dependency edges
// (a template change invalidates every rendered document of its type; a
// site change invalidates that site's record and documents) so callers
// state what changed rather than which keys to delete.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"policyhub/internal/models"
)

const (
	templateKeyPrefix = "template:"
	siteKeyPrefix     = "site:"
	renderedKeyPrefix = "policy:"

	// Default TTLs per namespace. No entry is authoritative; absence
	// always falls back to recomputation from the stores.
	DefaultTemplateTTL = 30 * time.Minute
	DefaultSiteTTL     = 10 * time.Minute
	DefaultRenderedTTL = 5 * time.Minute
)

// PolicyCache is the Valkey-backed cache for the policy engine. Read and
// write errors degrade to cache misses and are logged; invalidation
// errors are returned, since a mutation is not complete until its
// invalidations have been applied.
type PolicyCache struct {
	client      *redis.Client
	templateTTL time.Duration
	siteTTL     time.Duration
	renderedTTL time.Duration
}

// NewPolicyCache creates a policy cache over the given Valkey client.
// Zero TTLs fall back to the namespace defaults.
func NewPolicyCache(client *redis.Client, templateTTL, siteTTL, renderedTTL time.Duration) *PolicyCache {
	if templateTTL == 0 {
		templateTTL = DefaultTemplateTTL
	}
	if siteTTL == 0 {
		siteTTL = DefaultSiteTTL
	}
	if renderedTTL == 0 {
		renderedTTL = DefaultRenderedTTL
	}
	return &PolicyCache{
		client:      client,
		templateTTL: templateTTL,
		siteTTL:     siteTTL,
		renderedTTL: renderedTTL,
	}
}

// GetTemplate retrieves the cached active template for a type.
func (c *PolicyCache) GetTemplate(ctx context.Context, t models.TemplateType) (*models.Template, bool) {
	var tmpl models.Template
	if !c.getJSON(ctx, templateKeyPrefix+string(t), &tmpl) {
		return nil, false
	}
	return &tmpl, true
}

// SetTemplate caches the active template for its type.
func (c *PolicyCache) SetTemplate(ctx context.Context, tmpl *models.Template) {
	c.setJSON(ctx, templateKeyPrefix+string(tmpl.Type), tmpl, c.templateTTL)
}

// GetSite retrieves a cached site record.
func (c *PolicyCache) GetSite(ctx context.Context, id uuid.UUID) (*models.Site, bool) {
	var site models.Site
	if !c.getJSON(ctx, siteKeyPrefix+id.String(), &site) {
		return nil, false
	}
	return &site, true
}

// SetSite caches a site record.
func (c *PolicyCache) SetSite(ctx context.Context, site *models.Site) {
	c.setJSON(ctx, siteKeyPrefix+site.ID.String(), site, c.siteTTL)
}

// GetRendered retrieves a cached rendered document. siteRef is a site ID
// or the demo marker.
func (c *PolicyCache) GetRendered(ctx context.Context, siteRef string, p models.PolicyType) ([]byte, bool) {
	val, err := c.client.Get(ctx, renderedKey(siteRef, p)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("rendered cache get error", "site", siteRef, "policy_type", p, "error", err)
		return nil, false
	}
	return val, true
}

// SetRendered caches a rendered document. Concurrent writers for the same
// key produce identical values, so last-write-wins is safe.
func (c *PolicyCache) SetRendered(ctx context.Context, siteRef string, p models.PolicyType, doc []byte) {
	if err := c.client.Set(ctx, renderedKey(siteRef, p), doc, c.renderedTTL).Err(); err != nil {
		slog.Warn("rendered cache set error", "site", siteRef, "policy_type", p, "error", err)
	}
}

// TemplateChanged invalidates everything that depends on the template of
// the given type: the cached template record and every rendered document
// of the mapped policy type, across all sites and the demo key. Template
// changes are shared by every site, so the broad sweep is deliberate.
func (c *PolicyCache) TemplateChanged(ctx context.Context, t models.TemplateType) error {
	if err := c.client.Del(ctx, templateKeyPrefix+string(t)).Err(); err != nil {
		return fmt.Errorf("invalidate template %s: %w", t, err)
	}

	p, ok := models.PolicyTypeForTemplate(t)
	if !ok {
		// Banner templates render no public document.
		return nil
	}
	return c.deletePattern(ctx, renderedKeyPrefix+"*:"+string(p))
}

// SiteChanged invalidates a site's cached record and all of its rendered
// documents.
func (c *PolicyCache) SiteChanged(ctx context.Context, siteID uuid.UUID) error {
	if err := c.client.Del(ctx, siteKeyPrefix+siteID.String()).Err(); err != nil {
		return fmt.Errorf("invalidate site %s: %w", siteID, err)
	}
	return c.deletePattern(ctx, renderedKeyPrefix+siteID.String()+":*")
}

// ScanIngested invalidates a site's rendered documents after a new scan.
// The site record itself is untouched — scans do not change it.
func (c *PolicyCache) ScanIngested(ctx context.Context, siteID uuid.UUID) error {
	return c.deletePattern(ctx, renderedKeyPrefix+siteID.String()+":*")
}

// Flush clears all three namespaces. Administrative recovery only.
func (c *PolicyCache) Flush(ctx context.Context) error {
	for _, pattern := range []string{templateKeyPrefix + "*", siteKeyPrefix + "*", renderedKeyPrefix + "*"} {
		if err := c.deletePattern(ctx, pattern); err != nil {
			return err
		}
	}
	slog.Info("policy cache fully cleared")
	return nil
}

// deletePattern removes all keys matching a glob pattern by cursor scan.
func (c *PolicyCache) deletePattern(ctx context.Context, pattern string) error {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return fmt.Errorf("scan %s: %w", pattern, err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("delete %s: %w", pattern, err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Debug("cache invalidated", "pattern", pattern, "deleted", deleted)
	}
	return nil
}

func (c *PolicyCache) getJSON(ctx context.Context, key string, dst any) bool {
	val, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false
	}
	if err != nil {
		slog.Warn("cache get error", "key", key, "error", err)
		return false
	}
	if err := json.Unmarshal(val, dst); err != nil {
		slog.Warn("cache decode error", "key", key, "error", err)
		return false
	}
	return true
}

func (c *PolicyCache) setJSON(ctx context.Context, key string, src any, ttl time.Duration) {
	val, err := json.Marshal(src)
	if err != nil {
		slog.Warn("cache encode error", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, val, ttl).Err(); err != nil {
		slog.Warn("cache set error", "key", key, "error", err)
	}
}

func renderedKey(siteRef string, p models.PolicyType) string {
	return renderedKeyPrefix + siteRef + ":" + string(p)
}
