// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ProjectStatus tracks how far the external generation pipeline has
// advanced a project. Values only ever move forward.
type ProjectStatus string

const (
	ProjectStatusCreated        ProjectStatus = "CREATED"
	ProjectStatusGBPSelected    ProjectStatus = "GBP_SELECTED"
	ProjectStatusGBPScraped     ProjectStatus = "GBP_SCRAPED"
	ProjectStatusWebsiteScraped ProjectStatus = "WEBSITE_SCRAPED"
	ProjectStatusImagesAnalyzed ProjectStatus = "IMAGES_ANALYZED"
	ProjectStatusHTMLGenerated  ProjectStatus = "HTML_GENERATED"
	ProjectStatusReady          ProjectStatus = "READY"
)

// projectStatusOrder lists every status in pipeline order.
var projectStatusOrder = []ProjectStatus{
	ProjectStatusCreated,
	ProjectStatusGBPSelected,
	ProjectStatusGBPScraped,
	ProjectStatusWebsiteScraped,
	ProjectStatusImagesAnalyzed,
	ProjectStatusHTMLGenerated,
	ProjectStatusReady,
}

// ErrStatusRegression is returned when a status change would move a
// project backwards through the pipeline.
var ErrStatusRegression = errors.New("project status cannot move backwards")

// ErrUnknownStatus is returned for values outside the ProjectStatus enum.
var ErrUnknownStatus = errors.New("unknown project status")

// ProjectStatuses returns all statuses in pipeline order.
func ProjectStatuses() []ProjectStatus {
	out := make([]ProjectStatus, len(projectStatusOrder))
	copy(out, projectStatusOrder)
	return out
}

// Rank returns the zero-based position of the status in the pipeline,
// or -1 if the status is unknown.
func (s ProjectStatus) Rank() int {
	for i, st := range projectStatusOrder {
		if st == s {
			return i
		}
	}
	return -1
}

// Valid reports whether s is a member of the enum.
func (s ProjectStatus) Valid() bool {
	return s.Rank() >= 0
}

// Servable reports whether a project in this status serves its generated
// pages unconditionally.
func (s ProjectStatus) Servable() bool {
	return s == ProjectStatusHTMLGenerated || s == ProjectStatusReady
}

// Label returns a human-readable form of the status ("WEBSITE SCRAPED").
func (s ProjectStatus) Label() string {
	return strings.ReplaceAll(string(s), "_", " ")
}

// CanAdvanceTo checks a transition from s to next. Staying in the same
// status is allowed so pipeline retries are idempotent.
func (s ProjectStatus) CanAdvanceTo(next ProjectStatus) error {
	if !next.Valid() {
		return ErrUnknownStatus
	}
	if next.Rank() < s.Rank() {
		return ErrStatusRegression
	}
	return nil
}

// SlotMarker is the literal token in a wrapper where composed page
// content is substituted.
const SlotMarker = "{{slot}}"

// Project is one generated website. Wrapper, Header and Footer hold the
// raw HTML produced by the pipeline; the Step* fields keep each pipeline
// step's JSON output verbatim.
type Project struct {
	ID                 uuid.UUID       `json:"id"`
	UserID             string          `json:"user_id"`
	GeneratedHostname  string          `json:"generated_hostname"`
	CustomDomain       *string         `json:"custom_domain,omitempty"`
	CustomDomainAlt    *string         `json:"custom_domain_alt,omitempty"`
	DomainVerifiedAt   *time.Time      `json:"domain_verified_at,omitempty"`
	Status             ProjectStatus   `json:"status"`
	SelectedPlaceID    *string         `json:"selected_place_id,omitempty"`
	SelectedWebsiteURL *string         `json:"selected_website_url,omitempty"`
	TemplateID         *uuid.UUID      `json:"template_id,omitempty"`
	Wrapper            string          `json:"wrapper"`
	Header             string          `json:"header"`
	Footer             string          `json:"footer"`
	StepGBPScrape      json.RawMessage `json:"step_gbp_scrape,omitempty"`
	StepWebsiteScrape  json.RawMessage `json:"step_website_scrape,omitempty"`
	StepImageAnalysis  json.RawMessage `json:"step_image_analysis,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// EffectiveWrapper returns the wrapper used for composition. An empty
// wrapper behaves as a bare slot.
func (p *Project) EffectiveWrapper() string {
	if p.Wrapper == "" {
		return SlotMarker
	}
	return p.Wrapper
}

// DomainVerified reports whether the project's custom domains may be served.
func (p *Project) DomainVerified() bool {
	return p.DomainVerifiedAt != nil
}

// BusinessName returns the "name" field of the Google Business Profile
// scrape, or "" when the step has not run or has no name.
func (p *Project) BusinessName() string {
	if len(p.StepGBPScrape) == 0 {
		return ""
	}
	var gbp struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(p.StepGBPScrape, &gbp); err != nil {
		return ""
	}
	return strings.TrimSpace(gbp.Name)
}
