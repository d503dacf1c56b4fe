package usecase

import (
	"context"

	"talenthub-backend/internal/authz"
	"talenthub-backend/internal/domain"
	"talenthub-backend/internal/notify"
	"talenthub-backend/pkg/apperror"
	"talenthub-backend/pkg/sanitize"
)

type companyProfileUsecase struct {
	userRepo  domain.UserRepository
	emitter   domain.NotificationEmitter
	templates notify.Templates
}

func NewCompanyProfileUsecase(userRepo domain.UserRepository, emitter domain.NotificationEmitter, templates notify.Templates) domain.CompanyProfileUsecase {
	return &companyProfileUsecase{userRepo: userRepo, emitter: emitter, templates: templates}
}

func (u *companyProfileUsecase) Get(ctx context.Context, s *domain.Session) (*domain.CompanyProfileView, error) {
	if err := authz.RequireRole(s, domain.RoleEmployer); err != nil {
		return nil, err
	}
	user, err := u.userRepo.GetByID(ctx, s.UserID)
	if err != nil {
		return nil, repoError(err, "User not found")
	}
	return &domain.CompanyProfileView{Name: user.Name, CompanyProfile: user.CompanyProfile}, nil
}

// Update replaces the employer's company details. The name is stored as
// the user's display name.
func (u *companyProfileUsecase) Update(ctx context.Context, s *domain.Session, req domain.UpdateCompanyProfileRequest) (*domain.CompanyProfileView, error) {
	// 1. Employers only
	if err := authz.RequireRole(s, domain.RoleEmployer); err != nil {
		return nil, err
	}

	// 2. Clean input
	name := sanitize.Text(req.Name)
	if name == "" {
		return nil, apperror.BadRequest("Company name is required")
	}
	profile := domain.CompanyProfile{
		Industry: sanitize.Text(req.Industry),
		Size:     sanitize.Text(req.Size),
		Website:  sanitize.Text(req.Website),
		Location: sanitize.Text(req.Location),
	}

	// 3. Persist
	user, err := u.userRepo.UpdateCompanyProfile(ctx, s.UserID, name, profile)
	if err != nil {
		return nil, repoError(err, "User not found")
	}

	// 4. Best-effort notice
	u.emitter.Emit(ctx, u.templates.CompanyProfileUpdated(s.UserID))

	return &domain.CompanyProfileView{Name: user.Name, CompanyProfile: user.CompanyProfile}, nil
}
