// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"sitegen/internal/models"
)

const snippetColumns = `id, template_id, project_id, name, location, order_index,
	is_enabled, page_ids, code, created_at, updated_at`

// SnippetStore handles code snippets owned by templates or projects.
type SnippetStore struct {
	db *sql.DB
}

// NewSnippetStore creates a new SnippetStore with the given database connection.
func NewSnippetStore(db *sql.DB) *SnippetStore {
	return &SnippetStore{db: db}
}

func scanSnippet(row rowScanner) (*models.CodeSnippet, error) {
	sn := &models.CodeSnippet{}
	var pageIDs []byte
	if err := row.Scan(
		&sn.ID, &sn.TemplateID, &sn.ProjectID, &sn.Name, &sn.Location, &sn.OrderIndex,
		&sn.IsEnabled, &pageIDs, &sn.Code, &sn.CreatedAt, &sn.UpdatedAt,
	); err != nil {
		return nil, err
	}
	sn.PageIDs = decodePageIDs(sn.ID, pageIDs)
	return sn, nil
}

// decodePageIDs reads the page_ids column. Unreadable values target every
// page, matching an empty list.
func decodePageIDs(snippetID uuid.UUID, raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		slog.Warn("snippet page_ids unreadable, applying to all pages", "snippet_id", snippetID, "error", err)
		return nil
	}
	return ids
}

func (s *SnippetStore) list(ctx context.Context, op, owner string, id uuid.UUID) ([]models.CodeSnippet, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+snippetColumns+` FROM code_snippets
		WHERE `+owner+` = $1
		ORDER BY order_index, created_at
	`, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var snippets []models.CodeSnippet
	for rows.Next() {
		sn, err := scanSnippet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan snippet: %w", err)
		}
		snippets = append(snippets, *sn)
	}
	return snippets, rows.Err()
}

// ListByTemplate returns a template's snippets, enabled or not.
func (s *SnippetStore) ListByTemplate(ctx context.Context, templateID uuid.UUID) ([]models.CodeSnippet, error) {
	return s.list(ctx, "list template snippets", "template_id", templateID)
}

// ListByProject returns a project's snippets, enabled or not.
func (s *SnippetStore) ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.CodeSnippet, error) {
	return s.list(ctx, "list project snippets", "project_id", projectID)
}

// Create inserts a snippet. Exactly one of TemplateID and ProjectID must
// be set.
func (s *SnippetStore) Create(ctx context.Context, sn *models.CodeSnippet) (*models.CodeSnippet, error) {
	if (sn.TemplateID == nil) == (sn.ProjectID == nil) {
		return nil, fmt.Errorf("create snippet: exactly one of template or project owner is required")
	}
	if !sn.Location.Valid() {
		return nil, fmt.Errorf("create snippet: invalid location %q", sn.Location)
	}

	pageIDs := sn.PageIDs
	if pageIDs == nil {
		pageIDs = []string{}
	}
	encoded, err := json.Marshal(pageIDs)
	if err != nil {
		return nil, fmt.Errorf("encode page ids: %w", err)
	}

	result, err := scanSnippet(s.db.QueryRowContext(ctx, `
		INSERT INTO code_snippets (template_id, project_id, name, location, order_index, is_enabled, page_ids, code)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+snippetColumns,
		sn.TemplateID, sn.ProjectID, sn.Name, sn.Location, sn.OrderIndex, sn.IsEnabled, string(encoded), sn.Code,
	))
	if err != nil {
		return nil, fmt.Errorf("create snippet: %w", err)
	}
	return result, nil
}
