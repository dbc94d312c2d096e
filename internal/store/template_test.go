// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/google/uuid"

	"policyhub/internal/models"
)

const testCreatedBy = "store-test@example.com"

func TestTemplateCreate(t *testing.T) {
	db := testDB(t)
	store := NewTemplateStore(db)
	ctx := context.Background()
	t.Cleanup(func() { cleanTemplates(t, db, testCreatedBy) })

	tmpl, err := store.Create(ctx, models.TemplateTypeCookieNotice, "Cookies for {{COMPANY_NAME}}", testCreatedBy)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if tmpl.ID == uuid.Nil {
		t.Error("expected generated ID")
	}
	if tmpl.Status != models.TemplateStatusDraft {
		t.Errorf("status: got %q, want draft", tmpl.Status)
	}
	if tmpl.Version != 1 {
		t.Errorf("version: got %d, want 1", tmpl.Version)
	}

	// New drafts never serve traffic.
	active, err := store.FindActiveByType(ctx, models.TemplateTypeCookieNotice)
	if err != nil {
		t.Fatalf("FindActiveByType: %v", err)
	}
	if active != nil && active.ID == tmpl.ID {
		t.Error("draft reported as active")
	}
}

func TestTemplateFindByID(t *testing.T) {
	db := testDB(t)
	store := NewTemplateStore(db)
	ctx := context.Background()
	t.Cleanup(func() { cleanTemplates(t, db, testCreatedBy) })

	created, err := store.Create(ctx, models.TemplateTypePolicy, "Privacy text", testCreatedBy)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	found, err := store.FindByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found == nil || found.ID != created.ID || found.Content != "Privacy text" {
		t.Errorf("got %+v, want created template", found)
	}

	// Unknown ID is nil, not an error.
	missing, err := store.FindByID(ctx, uuid.New())
	if err != nil {
		t.Fatalf("FindByID unknown: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown ID, got %+v", missing)
	}
}

func TestTemplateUpdateContent(t *testing.T) {
	db := testDB(t)
	store := NewTemplateStore(db)
	ctx := context.Background()
	t.Cleanup(func() { cleanTemplates(t, db, testCreatedBy) })

	created, err := store.Create(ctx, models.TemplateTypePolicy, "v1 text", testCreatedBy)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := store.UpdateContent(ctx, created.ID, "v2 text")
	if err != nil {
		t.Fatalf("UpdateContent: %v", err)
	}
	if updated.Content != "v2 text" {
		t.Errorf("content: got %q", updated.Content)
	}
	if updated.Version != created.Version+1 {
		t.Errorf("version: got %d, want %d", updated.Version, created.Version+1)
	}

	// Updating a missing template returns nil.
	missing, err := store.UpdateContent(ctx, uuid.New(), "text")
	if err != nil {
		t.Fatalf("UpdateContent unknown: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown ID, got %+v", missing)
	}
}

func TestTemplateActivate(t *testing.T) {
	db := testDB(t)
	store := NewTemplateStore(db)
	ctx := context.Background()
	t.Cleanup(func() { cleanTemplates(t, db, testCreatedBy) })

	first, err := store.Create(ctx, models.TemplateTypeBanner, "banner v1", testCreatedBy)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	second, err := store.Create(ctx, models.TemplateTypeBanner, "banner v2", testCreatedBy)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	activated, err := store.Activate(ctx, first.ID)
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if activated.Status != models.TemplateStatusActive {
		t.Errorf("status: got %q, want active", activated.Status)
	}

	// Activating the replacement supersedes the first.
	if _, err := store.Activate(ctx, second.ID); err != nil {
		t.Fatalf("Activate second: %v", err)
	}

	prev, err := store.FindByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if prev.Status != models.TemplateStatusSuperseded {
		t.Errorf("previous status: got %q, want superseded", prev.Status)
	}

	active, err := store.FindActiveByType(ctx, models.TemplateTypeBanner)
	if err != nil {
		t.Fatalf("FindActiveByType: %v", err)
	}
	if active == nil || active.ID != second.ID {
		t.Errorf("active: got %+v, want second template", active)
	}

	// Re-activating the already active template is a no-op success.
	if _, err := store.Activate(ctx, second.ID); err != nil {
		t.Fatalf("re-Activate: %v", err)
	}

	// Activating a missing template fails.
	if _, err := store.Activate(ctx, uuid.New()); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("activate unknown: got %v, want ErrNoRows", err)
	}
}

func TestTemplateDelete(t *testing.T) {
	db := testDB(t)
	store := NewTemplateStore(db)
	ctx := context.Background()
	t.Cleanup(func() { cleanTemplates(t, db, testCreatedBy) })

	draft, err := store.Create(ctx, models.TemplateTypeBanner, "deletable draft", testCreatedBy)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.Delete(ctx, draft.ID); err != nil {
		t.Fatalf("Delete draft: %v", err)
	}

	// The active template of a type cannot be deleted.
	active, err := store.Create(ctx, models.TemplateTypeBanner, "active banner", testCreatedBy)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := store.Activate(ctx, active.ID); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if err := store.Delete(ctx, active.ID); !errors.Is(err, ErrTemplateActive) {
		t.Errorf("delete active: got %v, want ErrTemplateActive", err)
	}

	// Deleting a missing template reports not found.
	if err := store.Delete(ctx, uuid.New()); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("delete unknown: got %v, want ErrNoRows", err)
	}
}

func TestTemplateList(t *testing.T) {
	db := testDB(t)
	store := NewTemplateStore(db)
	ctx := context.Background()
	t.Cleanup(func() { cleanTemplates(t, db, testCreatedBy) })

	if _, err := store.Create(ctx, models.TemplateTypePolicy, "list me", testCreatedBy); err != nil {
		t.Fatalf("Create: %v", err)
	}

	templates, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var found bool
	for _, tmpl := range templates {
		if tmpl.CreatedBy == testCreatedBy && tmpl.Content == "list me" {
			found = true
		}
	}
	if !found {
		t.Error("created template missing from List")
	}
}
