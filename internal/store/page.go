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

const pageColumns = `id, project_id, path, version, status, sections, created_at, updated_at`

// PageStore handles page versions. A (project, path) pair has at most one
// draft and one published row. New drafts and publishes supersede the
// previous row inside one transaction holding the project's row lock.
type PageStore struct {
	db *sql.DB
}

// NewPageStore creates a new PageStore with the given database connection.
func NewPageStore(db *sql.DB) *PageStore {
	return &PageStore{db: db}
}

func scanPage(row rowScanner) (*models.Page, error) {
	p := &models.Page{}
	var sections []byte
	if err := row.Scan(
		&p.ID, &p.ProjectID, &p.Path, &p.Version, &p.Status, &sections,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	p.Sections = sections
	return p, nil
}

// FindByID retrieves a page version by its UUID. Returns nil if not found.
func (s *PageStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Page, error) {
	p, err := scanPage(s.db.QueryRowContext(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find page by id: %w", err)
	}
	return p, nil
}

// FindByPathAndStatus returns the project's page at path in the given
// status. Returns nil if not found.
func (s *PageStore) FindByPathAndStatus(ctx context.Context, projectID uuid.UUID, path string, status models.PageStatus) (*models.Page, error) {
	p, err := scanPage(s.db.QueryRowContext(ctx, `
		SELECT `+pageColumns+` FROM pages
		WHERE project_id = $1 AND path = $2 AND status = $3
		ORDER BY version DESC
		LIMIT 1
	`, projectID, path, status))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find page by path: %w", err)
	}
	return p, nil
}

// HasPublished reports whether the project has at least one published page.
func (s *PageStore) HasPublished(ctx context.Context, projectID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM pages WHERE project_id = $1 AND status = 'published')`,
		projectID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check published pages: %w", err)
	}
	return exists, nil
}

// ListVersions returns every version of a path, newest first.
func (s *PageStore) ListVersions(ctx context.Context, projectID uuid.UUID, path string) ([]models.Page, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+pageColumns+` FROM pages
		WHERE project_id = $1 AND path = $2
		ORDER BY version DESC
	`, projectID, path)
	if err != nil {
		return nil, fmt.Errorf("list page versions: %w", err)
	}
	defer rows.Close()

	var pages []models.Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan page: %w", err)
		}
		pages = append(pages, *p)
	}
	return pages, rows.Err()
}

// CreateDraft stores sections as a new draft version of path. The
// previous draft, if any, becomes inactive. Returns ErrNotFound when the
// project does not exist.
func (s *PageStore) CreateDraft(ctx context.Context, projectID uuid.UUID, path string, sections []byte) (*models.Page, error) {
	return s.createVersion(ctx, projectID, path, sections, models.PageStatusDraft)
}

// CreatePublished stores sections as a new version of path and makes it
// the live one in the same transaction. The previous draft and published
// versions both become inactive. Returns ErrNotFound when the project
// does not exist.
func (s *PageStore) CreatePublished(ctx context.Context, projectID uuid.UUID, path string, sections []byte) (*models.Page, error) {
	return s.createVersion(ctx, projectID, path, sections, models.PageStatusPublished)
}

func (s *PageStore) createVersion(ctx context.Context, projectID uuid.UUID, path string, sections []byte, status models.PageStatus) (*models.Page, error) {
	if path == "" {
		path = models.HomePath
	}
	if len(sections) == 0 {
		sections = []byte("[]")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := lockProject(ctx, tx, projectID); err != nil {
		return nil, err
	}

	var version int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) + 1 FROM pages WHERE project_id = $1 AND path = $2`,
		projectID, path,
	).Scan(&version)
	if err != nil {
		return nil, fmt.Errorf("next page version: %w", err)
	}

	retire := `UPDATE pages SET status = 'inactive', updated_at = NOW()
		WHERE project_id = $1 AND path = $2 AND status = 'draft'`
	if status == models.PageStatusPublished {
		retire = `UPDATE pages SET status = 'inactive', updated_at = NOW()
		WHERE project_id = $1 AND path = $2 AND status IN ('draft', 'published')`
	}
	if _, err := tx.ExecContext(ctx, retire, projectID, path); err != nil {
		return nil, fmt.Errorf("retire previous versions: %w", err)
	}

	page, err := scanPage(tx.QueryRowContext(ctx, `
		INSERT INTO pages (project_id, path, version, status, sections)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+pageColumns,
		projectID, path, version, string(status), string(sections),
	))
	if err != nil {
		return nil, fmt.Errorf("insert %s page: %w", status, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit %s page: %w", status, err)
	}
	return page, nil
}

// Publish makes a page version the live one for its path. The previously
// published version becomes inactive. Returns ErrNotFound when the page
// does not exist.
func (s *PageStore) Publish(ctx context.Context, pageID uuid.UUID) (*models.Page, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var projectID uuid.UUID
	var path string
	err = tx.QueryRowContext(ctx, `SELECT project_id, path FROM pages WHERE id = $1`, pageID).Scan(&projectID, &path)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find page: %w", err)
	}

	if err := lockProject(ctx, tx, projectID); err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE pages SET status = 'inactive', updated_at = NOW()
		WHERE project_id = $1 AND path = $2 AND status = 'published' AND id <> $3
	`, projectID, path, pageID); err != nil {
		return nil, fmt.Errorf("retire published page: %w", err)
	}

	page, err := scanPage(tx.QueryRowContext(ctx, `
		UPDATE pages SET status = 'published', updated_at = NOW()
		WHERE id = $1
		RETURNING `+pageColumns,
		pageID,
	))
	if err != nil {
		return nil, fmt.Errorf("publish page: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit publish: %w", err)
	}
	return page, nil
}

// lockProject takes the project's row lock for the rest of tx, which
// serializes version changes across all of the project's pages.
func lockProject(ctx context.Context, tx *sql.Tx, projectID uuid.UUID) error {
	var id uuid.UUID
	err := tx.QueryRowContext(ctx, `SELECT id FROM projects WHERE id = $1 FOR UPDATE`, projectID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("lock project: %w", err)
	}
	return nil
}
