package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"talenthub-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

const applicationSelect = `
	SELECT
		a.id, a.job_id, a.user_id, a.status,
		a.full_name, a.email, a.phone, a.location, a.experience, a.skills,
		a.expected_salary, a.availability, a.cover_letter,
		a.resume_file_name, a.resume_url, a.resume_storage_key, a.resume_size, a.resume_type,
		a.interview_notes, a.applied_at, a.updated_at,
		j.title, j.company_name, j.location, j.type, j.status, j.created_by,
		u.name, u.email, u.image
	FROM applications a
	JOIN jobs j ON j.id = a.job_id
	JOIN users u ON u.id = a.user_id`

type applicationRepo struct {
	db *pgxpool.Pool
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *pgxpool.Pool) domain.ApplicationRepository {
	return &applicationRepo{db: db}
}

func scanApplication(row pgx.Row) (*domain.Application, error) {
	var (
		app    domain.Application
		job    domain.JobSummary
		user   domain.ApplicantSummary
		rName  *string
		rURL   *string
		rKey   *string
		rSize  *int64
		rType  *string
		skills []string
	)
	err := row.Scan(
		&app.ID, &app.JobID, &app.UserID, &app.Status,
		&app.Applicant.FullName, &app.Applicant.Email, &app.Applicant.Phone, &app.Applicant.Location,
		&app.Applicant.Experience, pq.Array(&skills),
		&app.Applicant.ExpectedSalary, &app.Applicant.Availability, &app.CoverLetter,
		&rName, &rURL, &rKey, &rSize, &rType,
		&app.InterviewNotes, &app.AppliedAt, &app.UpdatedAt,
		&job.Title, &job.Company, &job.Location, &job.Type, &job.Status, &job.OwnerID,
		&user.Name, &user.Email, &user.Image,
	)
	if err != nil {
		return nil, mapNoRows(err)
	}

	app.Applicant.Skills = nonNil(skills)
	if rURL != nil && rKey != nil {
		app.Resume = &domain.Resume{URL: *rURL, StorageKey: *rKey}
		if rName != nil {
			app.Resume.FileName = *rName
		}
		if rSize != nil {
			app.Resume.Size = *rSize
		}
		if rType != nil {
			app.Resume.Type = *rType
		}
	}

	job.ID = app.JobID
	user.ID = app.UserID
	app.Job = &job
	app.User = &user
	return &app, nil
}

// Create inserts a new application. The (job_id, user_id) unique index is the duplicate guard.
func (r *applicationRepo) Create(ctx context.Context, app *domain.Application) error {
	query := `
		INSERT INTO applications (
			job_id, user_id, status,
			full_name, email, phone, location, experience, skills, expected_salary, availability,
			cover_letter, resume_file_name, resume_url, resume_storage_key, resume_size, resume_type
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id, applied_at, updated_at`

	if app.Status == "" {
		app.Status = domain.ApplicationStatusApplied
	}

	var rName, rURL, rKey, rType *string
	var rSize *int64
	if app.Resume != nil {
		rName, rURL, rKey, rType = &app.Resume.FileName, &app.Resume.URL, &app.Resume.StorageKey, &app.Resume.Type
		rSize = &app.Resume.Size
	}

	a := app.Applicant
	err := r.db.QueryRow(ctx, query,
		app.JobID, app.UserID, string(app.Status),
		a.FullName, a.Email, a.Phone, a.Location, a.Experience, pq.Array(nonNil(a.Skills)), a.ExpectedSalary, string(a.Availability),
		app.CoverLetter, rName, rURL, rKey, rSize, rType,
	).Scan(&app.ID, &app.AppliedAt, &app.UpdatedAt)
	if isUniqueViolation(err) {
		return domain.ErrDuplicate
	}
	return err
}

// GetByID retrieves an application with its job summary and applicant account
func (r *applicationRepo) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	return scanApplication(r.db.QueryRow(ctx, applicationSelect+` WHERE a.id = $1`, id))
}

func (r *applicationRepo) List(ctx context.Context, f domain.ApplicationFilter) ([]domain.Application, int64, error) {
	var (
		conds []string
		args  []interface{}
	)
	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.JobID != "" {
		add("a.job_id = $%d", f.JobID)
	}
	if f.UserID != "" {
		add("a.user_id = $%d", f.UserID)
	}
	if f.EmployerID != "" {
		add("j.created_by = $%d", f.EmployerID)
	}
	if f.Status != "" {
		add("a.status = $%d", string(f.Status))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM applications a JOIN jobs j ON j.id = a.job_id` + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := applicationSelect + where + fmt.Sprintf(` ORDER BY a.applied_at DESC, a.id DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	rows, err := r.db.Query(ctx, query, append(args, f.Limit, (f.Page-1)*f.Limit)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	apps := []domain.Application{}
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, 0, err
		}
		apps = append(apps, *app)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return apps, total, nil
}

func (r *applicationRepo) Exists(ctx context.Context, jobID, userID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM applications WHERE job_id = $1 AND user_id = $2)`,
		jobID, userID,
	).Scan(&exists)
	return exists, err
}

// UpdateStatus is a compare-and-set on status. Notes are replaced only when non-nil.
func (r *applicationRepo) UpdateStatus(ctx context.Context, id string, from, to domain.ApplicationStatus, notes *string) (*domain.Application, error) {
	query := `
		UPDATE applications
		SET status = $3, interview_notes = COALESCE($4::text, interview_notes), updated_at = now()
		WHERE id = $1 AND status = $2`

	tag, err := r.db.Exec(ctx, query, id, string(from), string(to), notes)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		// Either the row is gone or someone else moved it first
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			if errors.Is(getErr, domain.ErrNotFound) {
				return nil, domain.ErrNotFound
			}
			return nil, getErr
		}
		return nil, domain.ErrConflict
	}

	return r.GetByID(ctx, id)
}

func (r *applicationRepo) IDsByJob(ctx context.Context, jobID string) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM applications WHERE job_id = $1 ORDER BY applied_at`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
