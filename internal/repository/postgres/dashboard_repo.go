package postgres

import (
	"context"
	"time"

	"talenthub-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type dashboardRepo struct {
	db *pgxpool.Pool
}

func NewDashboardRepository(db *pgxpool.Pool) domain.DashboardRepository {
	return &dashboardRepo{db: db}
}

// countBy runs a two-column (key, count) grouping query into a map.
func countBy[K ~string](ctx context.Context, db *pgxpool.Pool, query string, args ...interface{}) (map[K]int64, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[K]int64)
	for rows.Next() {
		var (
			key   string
			count int64
		)
		if err := rows.Scan(&key, &count); err != nil {
			return nil, err
		}
		out[K(key)] = count
	}
	return out, rows.Err()
}

func (r *dashboardRepo) monthly(ctx context.Context, query string, args ...interface{}) ([]domain.MonthCount, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.MonthCount{}
	for rows.Next() {
		var mc domain.MonthCount
		if err := rows.Scan(&mc.Month, &mc.Count); err != nil {
			return nil, err
		}
		mc.Month = mc.Month.UTC()
		out = append(out, mc)
	}
	return out, rows.Err()
}

func (r *dashboardRepo) CountUsersByRole(ctx context.Context) (map[domain.Role]int64, error) {
	return countBy[domain.Role](ctx, r.db, `SELECT role, COUNT(*) FROM users GROUP BY role`)
}

func (r *dashboardRepo) CountJobsByStatus(ctx context.Context, createdBy string) (map[domain.JobStatus]int64, error) {
	query := `
		SELECT status, COUNT(*) FROM jobs
		WHERE ($1::text = '' OR created_by = $1::text)
		GROUP BY status`
	return countBy[domain.JobStatus](ctx, r.db, query, createdBy)
}

func (r *dashboardRepo) CountApplicationsByStatus(ctx context.Context, scope domain.ApplicationScope) (map[domain.ApplicationStatus]int64, error) {
	query := `
		SELECT a.status, COUNT(*) FROM applications a
		JOIN jobs j ON j.id = a.job_id
		WHERE ($1::text = '' OR a.user_id = $1::text)
		  AND ($2::text = '' OR j.created_by = $2::text)
		GROUP BY a.status`
	return countBy[domain.ApplicationStatus](ctx, r.db, query, scope.UserID, scope.EmployerID)
}

// Buckets are UTC calendar months.
func (r *dashboardRepo) JobsByMonth(ctx context.Context, since time.Time) ([]domain.MonthCount, error) {
	query := `
		SELECT date_trunc('month', created_at AT TIME ZONE 'UTC') AS month, COUNT(*)
		FROM jobs
		WHERE created_at >= $1
		GROUP BY month
		ORDER BY month`
	return r.monthly(ctx, query, since)
}

func (r *dashboardRepo) ApplicationsByMonth(ctx context.Context, scope domain.ApplicationScope, since time.Time) ([]domain.MonthCount, error) {
	query := `
		SELECT date_trunc('month', a.applied_at AT TIME ZONE 'UTC') AS month, COUNT(*)
		FROM applications a
		JOIN jobs j ON j.id = a.job_id
		WHERE a.applied_at >= $1
		  AND ($2::text = '' OR a.user_id = $2::text)
		  AND ($3::text = '' OR j.created_by = $3::text)
		GROUP BY month
		ORDER BY month`
	return r.monthly(ctx, query, since, scope.UserID, scope.EmployerID)
}

// TopCompanies ranks companies by job count, ties broken by name.
func (r *dashboardRepo) TopCompanies(ctx context.Context, limit int) ([]domain.CompanyJobCount, error) {
	query := `
		SELECT company_name, COUNT(*) AS job_count, MAX(company_industry)
		FROM jobs
		WHERE company_name <> ''
		GROUP BY company_name
		ORDER BY job_count DESC, company_name ASC
		LIMIT $1`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.CompanyJobCount{}
	for rows.Next() {
		var c domain.CompanyJobCount
		if err := rows.Scan(&c.Name, &c.JobCount, &c.Industry); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
