// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"sitegen/internal/models"
)

const templateColumns = `id, name, wrapper, header, footer, status, is_active, created_at, updated_at`

// TemplateStore handles site templates.
type TemplateStore struct {
	db *sql.DB
}

// NewTemplateStore creates a new TemplateStore with the given database connection.
func NewTemplateStore(db *sql.DB) *TemplateStore {
	return &TemplateStore{db: db}
}

func scanTemplate(row rowScanner) (*models.Template, error) {
	t := &models.Template{}
	if err := row.Scan(
		&t.ID, &t.Name, &t.Wrapper, &t.Header, &t.Footer, &t.Status,
		&t.IsActive, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return t, nil
}

// List returns all templates ordered by name.
func (s *TemplateStore) List(ctx context.Context) ([]models.Template, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+templateColumns+` FROM templates ORDER BY name`)
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
	t, err := scanTemplate(s.db.QueryRowContext(ctx,
		`SELECT `+templateColumns+` FROM templates WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find template by id: %w", err)
	}
	return t, nil
}

// FindActive returns the active template. Returns nil if none is active.
func (s *TemplateStore) FindActive(ctx context.Context) (*models.Template, error) {
	t, err := scanTemplate(s.db.QueryRowContext(ctx,
		`SELECT `+templateColumns+` FROM templates WHERE is_active = TRUE LIMIT 1`))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find active template: %w", err)
	}
	return t, nil
}

// Create inserts a new template. Does NOT activate it automatically.
func (s *TemplateStore) Create(ctx context.Context, t *models.Template) (*models.Template, error) {
	status := t.Status
	if status == "" {
		status = models.TemplateStatusDraft
	}
	wrapper := t.Wrapper
	if wrapper == "" {
		wrapper = models.SlotMarker
	}

	result, err := scanTemplate(s.db.QueryRowContext(ctx, `
		INSERT INTO templates (name, wrapper, header, footer, status, is_active)
		VALUES ($1, $2, $3, $4, $5, FALSE)
		RETURNING `+templateColumns,
		t.Name, wrapper, t.Header, t.Footer, status,
	))
	if err != nil {
		return nil, fmt.Errorf("create template: %w", err)
	}
	return result, nil
}

// Activate makes a template the active one, deactivating any other.
// Uses a transaction for atomicity.
func (s *TemplateStore) Activate(ctx context.Context, id uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE templates SET is_active = FALSE, updated_at = NOW() WHERE is_active AND id <> $1`, id,
	); err != nil {
		return fmt.Errorf("deactivate templates: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE templates SET is_active = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("activate template: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}
