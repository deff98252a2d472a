// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"sitegen/internal/models"
	"sitegen/internal/store"
)

// SeedHostname is the generated hostname of the demo project.
const SeedHostname = "acme-clinic-4821"

const seedWrapper = `<!doctype html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Acme Clinic</title>
</head>
<body>
{{slot}}
</body>
</html>`

const seedHeader = `<header class="alloro-tpl" data-component="header"><nav><a href="/">Acme Clinic</a> <a href="/contact">Contact</a></nav></header>`

const seedFooter = `<footer class="alloro-tpl" data-component="footer"><p>Acme Clinic, 12 Main Street</p></footer>`

var seedPages = []struct {
	path     string
	sections string
}{
	{
		path: models.HomePath,
		sections: `[
			{"name":"hero","content":"<section class=\"alloro-tpl\" data-component=\"hero\"><h1>Welcome</h1><p>Family care since 1998.</p></section>"},
			{"name":"promo","content":"<section class=\"alloro-tpl\" data-component=\"promo\" data-alloro-hidden=\"true\"><p>Winter offer</p></section>"}
		]`,
	},
	{
		path: "/contact",
		sections: `{"sections":[
			{"name":"form","content":"<section class=\"alloro-tpl\" data-component=\"contact\"><form data-form-name=\"Contact\"><input name=\"Name\"><input type=\"email\" name=\"Email\"><textarea name=\"Message\"></textarea><button type=\"submit\">Send</button></form></section>"}
		]}`,
	},
}

// Seed populates the database with a demo site reachable at
// acme-clinic-4821.sites.<domain>. It does nothing when the demo project
// already exists.
func Seed(ctx context.Context, db *sql.DB) error {
	projects := store.NewProjectStore(db)
	existing, err := projects.FindByHostname(ctx, SeedHostname)
	if err != nil {
		return fmt.Errorf("seed check project: %w", err)
	}
	if existing != nil {
		slog.Info("database already seeded, skipping")
		return nil
	}

	templates := store.NewTemplateStore(db)
	tmpl, err := templates.Create(ctx, &models.Template{
		Name:    "Clinic",
		Wrapper: seedWrapper,
		Header:  seedHeader,
		Footer:  seedFooter,
		Status:  models.TemplateStatusPublished,
	})
	if err != nil {
		return fmt.Errorf("seed template: %w", err)
	}
	if err := templates.Activate(ctx, tmpl.ID); err != nil {
		return fmt.Errorf("seed activate template: %w", err)
	}

	snippets := store.NewSnippetStore(db)
	if _, err := snippets.Create(ctx, &models.CodeSnippet{
		TemplateID: &tmpl.ID,
		Name:       "base-styles",
		Location:   models.SnippetHeadEnd,
		IsEnabled:  true,
		Code:       `<style>body{font-family:system-ui,sans-serif;margin:0}</style>`,
	}); err != nil {
		return fmt.Errorf("seed snippet: %w", err)
	}

	verified := time.Now()
	project, err := projects.Create(ctx, &models.Project{
		UserID:            "seed",
		GeneratedHostname: SeedHostname,
		Status:            models.ProjectStatusReady,
		TemplateID:        &tmpl.ID,
		Wrapper:           seedWrapper,
		Header:            seedHeader,
		Footer:            seedFooter,
		StepGBPScrape:     []byte(`{"name":"Acme Clinic"}`),
		DomainVerifiedAt:  &verified,
	})
	if err != nil {
		return fmt.Errorf("seed project: %w", err)
	}

	pages := store.NewPageStore(db)
	for _, sp := range seedPages {
		if _, err := pages.CreatePublished(ctx, project.ID, sp.path, []byte(sp.sections)); err != nil {
			return fmt.Errorf("seed page %s: %w", sp.path, err)
		}
	}

	slog.Info("database seeded with demo site",
		"hostname", SeedHostname,
		"project_id", project.ID,
		"pages", len(seedPages),
	)
	return nil
}
