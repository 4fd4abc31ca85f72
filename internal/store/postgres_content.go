package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/kongyujesse/portfolio-backend/internal/domain"
)

const (
	skillColumns       = `id, name, category, level, logo, sort_order, featured, created_at, updated_at`
	certificateColumns = `id, name, issuer, issue_date, credential_url, image, description, skills, featured, sort_order, created_at, updated_at`
	resumeColumns      = `id, title, file_name, file_url, file_size, version, description, is_active, created_at, updated_at`
)

func scanSkill(row scanner) (domain.Skill, error) {
	var skill domain.Skill
	err := row.Scan(&skill.ID, &skill.Name, &skill.Category, &skill.Level, &skill.Logo, &skill.Order, &skill.Featured, &skill.CreatedAt, &skill.UpdatedAt)
	return skill, err
}

func (repository *Postgres) ListSkills(ctx context.Context, filter domain.SkillFilter) ([]domain.Skill, error) {
	var conditions []string
	var args []any
	if filter.Category != "" {
		conditions = append(conditions, "category = $?")
		args = append(args, filter.Category)
	}
	if filter.Featured != nil {
		conditions = append(conditions, "featured = $?")
		args = append(args, *filter.Featured)
	}

	query := fmt.Sprintf(`SELECT %s FROM skills%s ORDER BY sort_order ASC, category ASC`, skillColumns, whereClause(conditions))
	rows, err := repository.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanSkill)
}

func (repository *Postgres) ReplaceSkills(ctx context.Context, skills []domain.Skill) ([]domain.Skill, error) {
	tx, err := repository.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM skills`); err != nil {
		return nil, err
	}

	result := make([]domain.Skill, 0, len(skills))
	for index, skill := range skills {
		row := tx.QueryRow(ctx, `
			INSERT INTO skills (id, name, category, level, logo, sort_order, featured, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
			RETURNING `+skillColumns,
			newID(), skill.Name, skill.Category, skill.Level, skill.Logo, index, skill.Featured,
		)
		created, err := scanSkill(row)
		if err != nil {
			return nil, err
		}
		result = append(result, created)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return result, nil
}

func (repository *Postgres) CreateSkill(ctx context.Context, skill domain.Skill) (domain.Skill, error) {
	row := repository.db.QueryRow(ctx, `
		INSERT INTO skills (id, name, category, level, logo, sort_order, featured, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING `+skillColumns,
		newID(), skill.Name, skill.Category, skill.Level, skill.Logo, skill.Order, skill.Featured,
	)
	return scanSkill(row)
}

func scanCertificate(row scanner) (domain.Certificate, error) {
	var certificate domain.Certificate
	err := row.Scan(
		&certificate.ID, &certificate.Name, &certificate.Issuer, &certificate.IssueDate, &certificate.CredentialURL,
		&certificate.Image, &certificate.Description, &certificate.Skills, &certificate.Featured, &certificate.Order,
		&certificate.CreatedAt, &certificate.UpdatedAt,
	)
	return certificate, err
}

func (repository *Postgres) ListCertificates(ctx context.Context, featured *bool) ([]domain.Certificate, error) {
	var conditions []string
	var args []any
	if featured != nil {
		conditions = append(conditions, "featured = $?")
		args = append(args, *featured)
	}

	query := fmt.Sprintf(`SELECT %s FROM certificates%s ORDER BY sort_order ASC, issue_date DESC`, certificateColumns, whereClause(conditions))
	rows, err := repository.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanCertificate)
}

func (repository *Postgres) CreateCertificate(ctx context.Context, certificate domain.Certificate) (domain.Certificate, error) {
	row := repository.db.QueryRow(ctx, `
		INSERT INTO certificates (id, name, issuer, issue_date, credential_url, image, description, skills, featured, sort_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING `+certificateColumns,
		newID(), certificate.Name, certificate.Issuer, certificate.IssueDate, certificate.CredentialURL,
		certificate.Image, certificate.Description, nonNil(certificate.Skills), certificate.Featured, certificate.Order,
	)
	return scanCertificate(row)
}

func (repository *Postgres) UpdateCertificate(ctx context.Context, id string, certificate domain.Certificate) (domain.Certificate, error) {
	row := repository.db.QueryRow(ctx, `
		UPDATE certificates
		SET name = $2, issuer = $3, issue_date = $4, credential_url = $5, image = $6, description = $7,
			skills = $8, featured = $9, sort_order = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING `+certificateColumns,
		id, certificate.Name, certificate.Issuer, certificate.IssueDate, certificate.CredentialURL,
		certificate.Image, certificate.Description, nonNil(certificate.Skills), certificate.Featured, certificate.Order,
	)
	updated, err := scanCertificate(row)
	if err != nil {
		return domain.Certificate{}, notFound(err)
	}
	return updated, nil
}

func (repository *Postgres) DeleteCertificate(ctx context.Context, id string) error {
	return execOne(ctx, repository.db, `DELETE FROM certificates WHERE id = $1`, id)
}

func (repository *Postgres) GetAbout(ctx context.Context) (domain.About, bool, error) {
	var about domain.About
	var stats, services []byte
	err := repository.db.QueryRow(ctx, `SELECT title, description, bio, image, resume, stats, services, updated_at FROM about WHERE singleton`).
		Scan(&about.Title, &about.Description, &about.Bio, &about.Image, &about.Resume, &stats, &services, &about.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.About{}, false, nil
		}
		return domain.About{}, false, err
	}
	if err := json.Unmarshal(stats, &about.Stats); err != nil {
		return domain.About{}, false, fmt.Errorf("decode about stats: %w", err)
	}
	if err := json.Unmarshal(services, &about.Services); err != nil {
		return domain.About{}, false, fmt.Errorf("decode about services: %w", err)
	}
	return about, true, nil
}

func (repository *Postgres) SaveAbout(ctx context.Context, about domain.About) (domain.About, error) {
	if about.Stats == nil {
		about.Stats = []domain.Stat{}
	}
	if about.Services == nil {
		about.Services = []domain.Service{}
	}
	stats, err := json.Marshal(about.Stats)
	if err != nil {
		return domain.About{}, err
	}
	services, err := json.Marshal(about.Services)
	if err != nil {
		return domain.About{}, err
	}

	query := `
		INSERT INTO about (singleton, title, description, bio, image, resume, stats, services, updated_at)
		VALUES (TRUE, $1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (singleton)
		DO UPDATE SET title = EXCLUDED.title, description = EXCLUDED.description, bio = EXCLUDED.bio, image = EXCLUDED.image,
			resume = EXCLUDED.resume, stats = EXCLUDED.stats, services = EXCLUDED.services, updated_at = NOW()
		RETURNING updated_at
	`
	if err := repository.db.QueryRow(ctx, query, about.Title, about.Description, about.Bio, about.Image, about.Resume, stats, services).Scan(&about.UpdatedAt); err != nil {
		return domain.About{}, err
	}
	return about, nil
}

func scanResume(row scanner) (domain.Resume, error) {
	var resume domain.Resume
	err := row.Scan(&resume.ID, &resume.Title, &resume.FileName, &resume.FileURL, &resume.FileSize, &resume.Version, &resume.Description, &resume.IsActive, &resume.CreatedAt, &resume.UpdatedAt)
	return resume, err
}

func (repository *Postgres) GetActiveResume(ctx context.Context) (domain.Resume, error) {
	resume, err := scanResume(repository.db.QueryRow(ctx, `SELECT `+resumeColumns+` FROM resumes WHERE is_active LIMIT 1`))
	if err != nil {
		return domain.Resume{}, notFound(err)
	}
	return resume, nil
}

func (repository *Postgres) GetResume(ctx context.Context, id string) (domain.Resume, error) {
	resume, err := scanResume(repository.db.QueryRow(ctx, `SELECT `+resumeColumns+` FROM resumes WHERE id = $1`, id))
	if err != nil {
		return domain.Resume{}, notFound(err)
	}
	return resume, nil
}

func (repository *Postgres) ListResumes(ctx context.Context) ([]domain.Resume, error) {
	rows, err := repository.db.Query(ctx, `SELECT `+resumeColumns+` FROM resumes ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanResume)
}

func (repository *Postgres) CreateResume(ctx context.Context, resume domain.Resume) (domain.Resume, error) {
	row := repository.db.QueryRow(ctx, `
		INSERT INTO resumes (id, title, file_name, file_url, file_size, version, description, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING `+resumeColumns,
		newID(), resume.Title, resume.FileName, resume.FileURL, resume.FileSize, resume.Version, resume.Description, resume.IsActive,
	)
	return scanResume(row)
}

func (repository *Postgres) ActivateResume(ctx context.Context, id string) (domain.Resume, error) {
	tx, err := repository.db.Begin(ctx)
	if err != nil {
		return domain.Resume{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `UPDATE resumes SET is_active = FALSE, updated_at = NOW() WHERE is_active`); err != nil {
		return domain.Resume{}, err
	}
	resume, err := scanResume(tx.QueryRow(ctx, `UPDATE resumes SET is_active = TRUE, updated_at = NOW() WHERE id = $1 RETURNING `+resumeColumns, id))
	if err != nil {
		return domain.Resume{}, notFound(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Resume{}, err
	}
	return resume, nil
}

func (repository *Postgres) DeleteResume(ctx context.Context, id string) error {
	return execOne(ctx, repository.db, `DELETE FROM resumes WHERE id = $1`, id)
}
