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
	"sitegen/internal/slug"
)

// hostnameAttempts bounds retries when a generated hostname collides.
const hostnameAttempts = 5

const projectColumns = `id, user_id, generated_hostname, custom_domain, custom_domain_alt,
	domain_verified_at, status, selected_place_id, selected_website_url, template_id,
	wrapper, header, footer, step_gbp_scrape, step_website_scrape, step_image_analysis,
	created_at, updated_at`

// ProjectStore handles project lookups and pipeline status changes.
type ProjectStore struct {
	db *sql.DB
}

// NewProjectStore creates a new ProjectStore with the given database connection.
func NewProjectStore(db *sql.DB) *ProjectStore {
	return &ProjectStore{db: db}
}

func scanProject(row rowScanner) (*models.Project, error) {
	p := &models.Project{}
	var gbp, website, images []byte
	if err := row.Scan(
		&p.ID, &p.UserID, &p.GeneratedHostname, &p.CustomDomain, &p.CustomDomainAlt,
		&p.DomainVerifiedAt, &p.Status, &p.SelectedPlaceID, &p.SelectedWebsiteURL, &p.TemplateID,
		&p.Wrapper, &p.Header, &p.Footer, &gbp, &website, &images,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	p.StepGBPScrape = gbp
	p.StepWebsiteScrape = website
	p.StepImageAnalysis = images
	return p, nil
}

func (s *ProjectStore) findOne(ctx context.Context, op, where string, args ...any) (*models.Project, error) {
	p, err := scanProject(s.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE `+where+` LIMIT 1`, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// FindByID retrieves a project by its UUID. Returns nil if not found.
func (s *ProjectStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return s.findOne(ctx, "find project by id", `id = $1`, id)
}

// FindByHostname retrieves a project by its generated hostname label.
func (s *ProjectStore) FindByHostname(ctx context.Context, hostname string) (*models.Project, error) {
	return s.findOne(ctx, "find project by hostname", `generated_hostname = $1`, hostname)
}

// FindByCustomDomain retrieves the project serving domain as its primary
// or alternate custom domain. Projects whose domain has not been verified
// are never returned.
func (s *ProjectStore) FindByCustomDomain(ctx context.Context, domain string) (*models.Project, error) {
	return s.findOne(ctx, "find project by custom domain",
		`(custom_domain = $1 OR custom_domain_alt = $1) AND domain_verified_at IS NOT NULL`, domain)
}

// Create inserts a new project. When GeneratedHostname is empty one is
// derived from the business name with a random suffix, retrying on
// collisions. Status defaults to CREATED.
func (s *ProjectStore) Create(ctx context.Context, p *models.Project) (*models.Project, error) {
	status := p.Status
	if status == "" {
		status = models.ProjectStatusCreated
	}
	if !status.Valid() {
		return nil, fmt.Errorf("create project: %w", models.ErrUnknownStatus)
	}

	for attempt := 1; ; attempt++ {
		hostname := p.GeneratedHostname
		if hostname == "" {
			hostname = slug.Hostname(p.BusinessName(), slug.RandomSuffix())
		}

		result, err := scanProject(s.db.QueryRowContext(ctx, `
			INSERT INTO projects (user_id, generated_hostname, custom_domain, custom_domain_alt,
				domain_verified_at, status, selected_place_id, selected_website_url, template_id,
				wrapper, header, footer, step_gbp_scrape, step_website_scrape, step_image_analysis)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
			RETURNING `+projectColumns,
			p.UserID, hostname, p.CustomDomain, p.CustomDomainAlt,
			p.DomainVerifiedAt, status, p.SelectedPlaceID, p.SelectedWebsiteURL, p.TemplateID,
			p.EffectiveWrapper(), p.Header, p.Footer,
			nullJSON(p.StepGBPScrape), nullJSON(p.StepWebsiteScrape), nullJSON(p.StepImageAnalysis),
		))
		if err == nil {
			return result, nil
		}
		if p.GeneratedHostname == "" && attempt < hostnameAttempts &&
			isUniqueViolation(err, "projects_generated_hostname_key") {
			continue
		}
		return nil, fmt.Errorf("create project: %w", err)
	}
}

// UpdateStatus advances a project's pipeline status. The change is
// checked against the stored status under a row lock, so concurrent
// pipeline steps can never move a project backwards.
func (s *ProjectStore) UpdateStatus(ctx context.Context, id uuid.UUID, next models.ProjectStatus) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var current models.ProjectStatus
	err = tx.QueryRowContext(ctx, `SELECT status FROM projects WHERE id = $1 FOR UPDATE`, id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("lock project: %w", err)
	}

	if err := current.CanAdvanceTo(next); err != nil {
		return fmt.Errorf("update status %s -> %s: %w", current, next, err)
	}
	if current == next {
		return nil
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE projects SET status = $1, updated_at = NOW() WHERE id = $2`, next, id,
	); err != nil {
		return fmt.Errorf("update project status: %w", err)
	}
	return tx.Commit()
}

// nullJSON maps an empty raw message to SQL NULL.
func nullJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}
