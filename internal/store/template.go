// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store contains the PostgreSQL persistence layer: one store
// struct per table over a shared *sql.DB pool.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"policyhub/internal/models"
)

// ErrTemplateActive is returned when deleting a template that currently
// serves its type. Active templates must be superseded first.
var ErrTemplateActive = errors.New("template is active")

// TemplateStore handles all policy-template database operations.
type TemplateStore struct {
	db *sql.DB
}

// NewTemplateStore creates a new TemplateStore with the given database connection.
func NewTemplateStore(db *sql.DB) *TemplateStore {
	return &TemplateStore{db: db}
}

const templateColumns = `id, type, content, version, status, created_by, created_at, updated_at`

func scanTemplate(row interface{ Scan(...any) error }) (*models.Template, error) {
	t := &models.Template{}
	err := row.Scan(
		&t.ID, &t.Type, &t.Content, &t.Version, &t.Status,
		&t.CreatedBy, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// List returns all templates ordered by type, then newest first.
func (s *TemplateStore) List(ctx context.Context) ([]models.Template, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+templateColumns+`
		FROM policy_templates
		ORDER BY type, created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var templates []models.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, *t)
	}
	return templates, rows.Err()
}

// FindByID retrieves a template by its UUID. Returns nil if not found.
func (s *TemplateStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Template, error) {
	t, err := scanTemplate(s.db.QueryRowContext(ctx, `
		SELECT `+templateColumns+`
		FROM policy_templates WHERE id = $1
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find template by id: %w", err)
	}
	return t, nil
}

// FindActiveByType returns the active template for the given type, or nil
// when none exists. At most one active per type is enforced by a partial
// unique index; the updated_at tie-break is defensive only.
func (s *TemplateStore) FindActiveByType(ctx context.Context, tmplType models.TemplateType) (*models.Template, error) {
	t, err := scanTemplate(s.db.QueryRowContext(ctx, `
		SELECT `+templateColumns+`
		FROM policy_templates
		WHERE type = $1 AND status = 'active'
		ORDER BY updated_at DESC
		LIMIT 1
	`, tmplType))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find active template: %w", err)
	}
	return t, nil
}

// Create inserts a new draft template. Drafts never serve traffic until
// activated.
func (s *TemplateStore) Create(ctx context.Context, tmplType models.TemplateType, content, createdBy string) (*models.Template, error) {
	t, err := scanTemplate(s.db.QueryRowContext(ctx, `
		INSERT INTO policy_templates (type, content, version, status, created_by)
		VALUES ($1, $2, 1, 'draft', $3)
		RETURNING `+templateColumns+`
	`, tmplType, content, createdBy))
	if err != nil {
		return nil, fmt.Errorf("create template: %w", err)
	}
	return t, nil
}

// UpdateContent replaces a template's content and bumps its version.
// Returns nil if the template does not exist.
func (s *TemplateStore) UpdateContent(ctx context.Context, id uuid.UUID, content string) (*models.Template, error) {
	t, err := scanTemplate(s.db.QueryRowContext(ctx, `
		UPDATE policy_templates SET
			content = $1, version = version + 1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+templateColumns+`
	`, content, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update template: %w", err)
	}
	return t, nil
}

// Activate publishes a template: the current active template of the same
// type moves to superseded and the target becomes active, in a single
// transaction so no request can observe two active templates or none
// mid-transition. Returns the activated template.
func (s *TemplateStore) Activate(ctx context.Context, id uuid.UUID) (*models.Template, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var tmplType models.TemplateType
	err = tx.QueryRowContext(ctx, `SELECT type FROM policy_templates WHERE id = $1`, id).Scan(&tmplType)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("activate template: %w", sql.ErrNoRows)
	}
	if err != nil {
		return nil, fmt.Errorf("get template type: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE policy_templates SET status = 'superseded', updated_at = NOW()
		WHERE type = $1 AND status = 'active' AND id <> $2
	`, tmplType, id)
	if err != nil {
		return nil, fmt.Errorf("supersede active template: %w", err)
	}

	t, err := scanTemplate(tx.QueryRowContext(ctx, `
		UPDATE policy_templates SET status = 'active', updated_at = NOW()
		WHERE id = $1
		RETURNING `+templateColumns+`
	`, id))
	if err != nil {
		return nil, fmt.Errorf("activate template: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit activation: %w", err)
	}
	return t, nil
}

// Delete removes a template. The active template of a type cannot be
// deleted — it must be superseded by activating a replacement first.
func (s *TemplateStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM policy_templates WHERE id = $1 AND status <> 'active'
	`, id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		// Distinguish active from missing for the caller's error message.
		existing, findErr := s.FindByID(ctx, id)
		if findErr == nil && existing != nil {
			return ErrTemplateActive
		}
		return sql.ErrNoRows
	}
	return nil
}

// Count returns the total number of templates.
func (s *TemplateStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM policy_templates`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count templates: %w", err)
	}
	return count, nil
}
