package store

import (
	"context"
	"fmt"

	"github.com/kongyujesse/portfolio-backend/internal/domain"
)

const projectColumns = `id, title, description, short_description, image, images, technologies, category, live_url, github_url, featured, sort_order, status, created_at, updated_at`

func scanProject(row scanner) (domain.Project, error) {
	var project domain.Project
	err := row.Scan(
		&project.ID, &project.Title, &project.Description, &project.ShortDescription, &project.Image,
		&project.Images, &project.Technologies, &project.Category, &project.LiveURL, &project.GithubURL,
		&project.Featured, &project.Order, &project.Status, &project.CreatedAt, &project.UpdatedAt,
	)
	return project, err
}

func (repository *Postgres) ListProjects(ctx context.Context, filter domain.ProjectFilter) ([]domain.Project, error) {
	var conditions []string
	var args []any
	if filter.Category != "" && filter.Category != "all" {
		conditions = append(conditions, "category = $?")
		args = append(args, filter.Category)
	}
	if filter.Featured != nil {
		conditions = append(conditions, "featured = $?")
		args = append(args, *filter.Featured)
	}
	if filter.Status != "" {
		conditions = append(conditions, "status = $?")
		args = append(args, filter.Status)
	}

	query := fmt.Sprintf(`SELECT %s FROM projects%s ORDER BY sort_order ASC, created_at DESC`, projectColumns, whereClause(conditions))
	rows, err := repository.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanProject)
}

func (repository *Postgres) GetProject(ctx context.Context, id string) (domain.Project, error) {
	row := repository.db.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	project, err := scanProject(row)
	if err != nil {
		return domain.Project{}, notFound(err)
	}
	return project, nil
}

func (repository *Postgres) CreateProject(ctx context.Context, project domain.Project) (domain.Project, error) {
	query := `
		INSERT INTO projects (id, title, description, short_description, image, images, technologies, category, live_url, github_url, featured, sort_order, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
		RETURNING ` + projectColumns

	row := repository.db.QueryRow(ctx, query,
		newID(), project.Title, project.Description, project.ShortDescription, project.Image,
		nonNil(project.Images), nonNil(project.Technologies), project.Category, project.LiveURL, project.GithubURL,
		project.Featured, project.Order, project.Status,
	)
	return scanProject(row)
}

func (repository *Postgres) UpdateProject(ctx context.Context, id string, project domain.Project) (domain.Project, error) {
	query := `
		UPDATE projects
		SET title = $2, description = $3, short_description = $4, image = $5, images = $6, technologies = $7,
			category = $8, live_url = $9, github_url = $10, featured = $11, sort_order = $12, status = $13, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + projectColumns

	row := repository.db.QueryRow(ctx, query,
		id, project.Title, project.Description, project.ShortDescription, project.Image,
		nonNil(project.Images), nonNil(project.Technologies), project.Category, project.LiveURL, project.GithubURL,
		project.Featured, project.Order, project.Status,
	)
	updated, err := scanProject(row)
	if err != nil {
		return domain.Project{}, notFound(err)
	}
	return updated, nil
}

func (repository *Postgres) DeleteProject(ctx context.Context, id string) error {
	return execOne(ctx, repository.db, `DELETE FROM projects WHERE id = $1`, id)
}

func (repository *Postgres) ReorderProjects(ctx context.Context, ids []string) error {
	tx, err := repository.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for index, id := range ids {
		if _, err := tx.Exec(ctx, `UPDATE projects SET sort_order = $2, updated_at = NOW() WHERE id = $1`, id, index); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
