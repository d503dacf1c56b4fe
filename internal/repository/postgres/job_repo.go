package postgres

import (
	"context"
	"fmt"
	"strings"

	"talenthub-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

const jobColumns = `
	j.id, j.title, j.description, j.requirements, j.location, j.type,
	j.salary_min, j.salary_max, j.salary_currency,
	j.company_name, j.company_industry, j.company_size, j.company_website, j.company_location,
	j.status, j.created_by, j.tags, j.experience_level, j.created_at, j.updated_at,
	(SELECT COUNT(*) FROM applications a WHERE a.job_id = j.id) AS application_count`

// jobSearchVector must match what users can search: title, description, requirements and tags.
const jobSearchVector = `to_tsvector('english', j.title || ' ' || j.description || ' ' ||
	array_to_string(j.requirements, ' ') || ' ' || array_to_string(j.tags, ' '))`

type jobRepo struct {
	db *pgxpool.Pool
}

func NewJobRepository(db *pgxpool.Pool) domain.JobRepository {
	return &jobRepo{db: db}
}

func scanJob(row pgx.Row) (*domain.Job, error) {
	var job domain.Job
	err := row.Scan(
		&job.ID, &job.Title, &job.Description, pq.Array(&job.Requirements), &job.Location, &job.Type,
		&job.Salary.Min, &job.Salary.Max, &job.Salary.Currency,
		&job.Company.Name, &job.Company.Industry, &job.Company.Size, &job.Company.Website, &job.Company.Location,
		&job.Status, &job.CreatedBy, pq.Array(&job.Tags), &job.ExperienceLevel, &job.CreatedAt, &job.UpdatedAt,
		&job.ApplicationCount,
	)
	if err != nil {
		return nil, mapNoRows(err)
	}
	job.Requirements = nonNil(job.Requirements)
	job.Tags = nonNil(job.Tags)
	return &job, nil
}

func (r *jobRepo) Create(ctx context.Context, job *domain.Job) error {
	query := `
		INSERT INTO jobs (
			title, description, requirements, location, type,
			salary_min, salary_max, salary_currency,
			company_name, company_industry, company_size, company_website, company_location,
			status, created_by, tags, experience_level
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		job.Title, job.Description, pq.Array(nonNil(job.Requirements)), job.Location, string(job.Type),
		job.Salary.Min, job.Salary.Max, job.Salary.Currency,
		job.Company.Name, job.Company.Industry, job.Company.Size, job.Company.Website, job.Company.Location,
		string(job.Status), job.CreatedBy, pq.Array(nonNil(job.Tags)), string(job.ExperienceLevel),
	).Scan(&job.ID, &job.CreatedAt, &job.UpdatedAt)
	return err
}

func (r *jobRepo) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs j WHERE j.id = $1`
	return scanJob(r.db.QueryRow(ctx, query, id))
}

// List returns one page of jobs, newest first, plus the total matching count.
func (r *jobRepo) List(ctx context.Context, f domain.JobFilter) ([]domain.Job, int64, error) {
	var (
		conds []string
		args  []interface{}
	)
	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.Status != "" {
		add("j.status = $%d", string(f.Status))
	}
	if f.Type != "" {
		add("j.type = $%d", string(f.Type))
	}
	if f.CreatedBy != "" {
		add("j.created_by = $%d", f.CreatedBy)
	}
	if loc := strings.TrimSpace(f.Location); loc != "" {
		add("j.location ILIKE $%d", "%"+escapeLike(loc)+"%")
	}
	if q := strings.TrimSpace(f.Search); q != "" {
		add(jobSearchVector+" @@ plainto_tsquery('english', $%d)", q)
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM jobs j`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (f.Page - 1) * f.Limit
	query := fmt.Sprintf(`SELECT %s FROM jobs j%s ORDER BY j.created_at DESC, j.id DESC LIMIT $%d OFFSET $%d`,
		jobColumns, where, len(args)+1, len(args)+2)

	rows, err := r.db.Query(ctx, query, append(args, f.Limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	jobs := []domain.Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, 0, err
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return jobs, total, nil
}

func (r *jobRepo) Update(ctx context.Context, job *domain.Job) error {
	query := `
		UPDATE jobs SET
			title = $2, description = $3, requirements = $4, location = $5, type = $6,
			salary_min = $7, salary_max = $8, salary_currency = $9,
			company_name = $10, company_industry = $11, company_size = $12,
			company_website = $13, company_location = $14,
			status = $15, tags = $16, experience_level = $17, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		job.ID, job.Title, job.Description, pq.Array(nonNil(job.Requirements)), job.Location, string(job.Type),
		job.Salary.Min, job.Salary.Max, job.Salary.Currency,
		job.Company.Name, job.Company.Industry, job.Company.Size, job.Company.Website, job.Company.Location,
		string(job.Status), pq.Array(nonNil(job.Tags)), string(job.ExperienceLevel),
	).Scan(&job.UpdatedAt)
	return mapNoRows(err)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
