// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler integration
// tests. Tests are skipped when PostgreSQL or Valkey are unavailable.
package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"policyhub/internal/cache"
	"policyhub/internal/database"
	"policyhub/internal/policy"
	"policyhub/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "policyhub")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "policyhub")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		for _, pattern := range []string{"template:*", "site:*", "policy:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB            *sql.DB
	Valkey        *redis.Client
	SiteStore     *store.SiteStore
	ScanStore     *store.ScanStore
	TemplateStore *store.TemplateStore
	Cache         *cache.PolicyCache
	Service       *policy.Service
	Router        http.Handler
}

// newTestEnv creates a complete test environment with the full route tree.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	vk := testValkeyClient(t)

	siteStore := store.NewSiteStore(db)
	scanStore := store.NewScanStore(db)
	templateStore := store.NewTemplateStore(db)
	policyCache := cache.NewPolicyCache(vk, time.Minute, time.Minute, time.Minute)
	service := policy.NewService(siteStore, scanStore, templateStore, policyCache)

	r := newTestRouter(
		NewPolicies(service),
		NewSites(siteStore, scanStore, service),
		NewAdmin(templateStore, service),
	)

	env := &testEnv{
		DB:            db,
		Valkey:        vk,
		SiteStore:     siteStore,
		ScanStore:     scanStore,
		TemplateStore: templateStore,
		Cache:         policyCache,
		Service:       service,
		Router:        r,
	}

	t.Cleanup(func() {
		db.Exec("DELETE FROM policy_templates WHERE created_by = $1", handlerTestCreatedBy)
		db.Exec("DELETE FROM sites WHERE domain LIKE 'https://handler-test%'")
	})
	return env
}

const handlerTestCreatedBy = "handler-test@example.com"

// newTestRouter mirrors the production route tree without the middleware
// stack. Importing the router package here would be an import cycle, since
// it imports this package.
func newTestRouter(policies *Policies, sites *Sites, admin *Admin) chi.Router {
	r := chi.NewRouter()

	r.Get("/policy/{siteID}/{policyType}", policies.GetSitePolicy)
	r.Get("/demo-policy/{policyType}", policies.GetDemoPolicy)

	r.Put("/sites/{siteID}", sites.SiteUpsert)
	r.Post("/sites/{siteID}/scans", sites.ScanIngest)

	r.Route("/admin", func(r chi.Router) {
		r.Route("/templates", func(r chi.Router) {
			r.Get("/", admin.TemplatesList)
			r.Post("/", admin.TemplateCreate)
			r.Put("/{id}", admin.TemplateUpdate)
			r.Delete("/{id}", admin.TemplateDelete)
			r.Post("/{id}/activate", admin.TemplateActivate)
		})
		r.Post("/cache/flush", admin.CacheFlush)
	})

	return r
}

// createTestSite registers a site through the HTTP contract and returns
// its ID.
func createTestSite(t *testing.T, env *testEnv) uuid.UUID {
	t.Helper()

	siteID := uuid.New()
	rec := doJSON(t, env, http.MethodPut, "/sites/"+siteID.String(), map[string]any{
		"domain":        "https://handler-test.example.com",
		"company_name":  "Handler Test AS",
		"contact_email": "post@handler-test.example.com",
		"plugins":       []string{"contact-form-7"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("site upsert: status %d, body %s", rec.Code, rec.Body.String())
	}
	return siteID
}

// doJSON performs a request with a JSON body against the test router.
func doJSON(t *testing.T, env *testEnv, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)
	return rec
}

func doGet(t *testing.T, env *testEnv, path string) *httptest.ResponseRecorder {
	t.Helper()
	return doJSON(t, env, http.MethodGet, path, nil)
}

// decodeData unmarshals the data field of a success envelope into dst.
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v (body %s)", err, rec.Body.String())
	}
	if !envelope.Success {
		t.Fatalf("expected success envelope, got %s", rec.Body.String())
	}
	if err := json.Unmarshal(envelope.Data, dst); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

// decodeError unmarshals an error envelope.
func decodeError(t *testing.T, rec *httptest.ResponseRecorder) (message string, code int) {
	t.Helper()

	var envelope struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
		Code    int    `json:"code"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error envelope: %v (body %s)", err, rec.Body.String())
	}
	if envelope.Success {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}
	return envelope.Error, envelope.Code
}

// renderedDoc mirrors the rendered policy JSON shape.
type renderedDoc struct {
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	LastUpdated time.Time `json:"lastUpdated"`
	Version     string    `json:"version"`
}
