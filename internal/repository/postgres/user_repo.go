package postgres

import (
	"context"
	"errors"

	"talenthub-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, email, name, image, role, onboarding_completed,
	company_industry, company_size, company_website, company_location,
	created_at, updated_at`

type userRepo struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) domain.UserRepository {
	return &userRepo{db: db}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Email, &u.Name, &u.Image, &u.Role, &u.OnboardingCompleted,
		&u.CompanyProfile.Industry, &u.CompanyProfile.Size, &u.CompanyProfile.Website, &u.CompanyProfile.Location,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return &u, nil
}

// Upsert keeps a stored name once set, since employers edit it as the company name.
func (r *userRepo) Upsert(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (id, email, name, image)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			name = CASE WHEN users.name = '' THEN EXCLUDED.name ELSE users.name END,
			image = CASE WHEN EXCLUDED.image <> '' THEN EXCLUDED.image ELSE users.image END,
			updated_at = now()
		RETURNING ` + userColumns

	stored, err := scanUser(r.db.QueryRow(ctx, query, u.ID, u.Email, u.Name, u.Image))
	if err != nil {
		return err
	}
	*u = *stored
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

// AssignRole is a one-time transition guarded by role = ''.
func (r *userRepo) AssignRole(ctx context.Context, id string, role domain.Role) (*domain.User, error) {
	query := `
		UPDATE users SET role = $2, onboarding_completed = TRUE, updated_at = now()
		WHERE id = $1 AND role = ''
		RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRow(ctx, query, id, string(role)))
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	// Zero rows: either the user is gone or a role was already chosen
	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, domain.ErrConflict
}

func (r *userRepo) UpdateCompanyProfile(ctx context.Context, id, name string, p domain.CompanyProfile) (*domain.User, error) {
	query := `
		UPDATE users SET
			name = $2, company_industry = $3, company_size = $4,
			company_website = $5, company_location = $6, updated_at = now()
		WHERE id = $1
		RETURNING ` + userColumns

	return scanUser(r.db.QueryRow(ctx, query, id, name, p.Industry, p.Size, p.Website, p.Location))
}
