package usecase

import (
	"context"
	"errors"

	"talenthub-backend/internal/authz"
	"talenthub-backend/internal/domain"
	"talenthub-backend/pkg/apperror"
	"talenthub-backend/pkg/security"
)

type onboardingUsecase struct {
	userRepo domain.UserRepository
	audit    *security.SecurityLogger
}

func NewOnboardingUsecase(userRepo domain.UserRepository, audit *security.SecurityLogger) domain.OnboardingUsecase {
	return &onboardingUsecase{userRepo: userRepo, audit: audit}
}

// ChooseRole records the one-time role choice made during onboarding.
func (u *onboardingUsecase) ChooseRole(ctx context.Context, s *domain.Session, role domain.Role) (*domain.User, error) {
	// 1. Only sessions without a role may choose one
	if err := authz.RequireUnassigned(s); err != nil {
		return nil, err
	}

	// 2. Admin is never self-assigned
	if !role.Selectable() {
		return nil, apperror.BadRequest("Invalid role. Must be 'user' or 'employer'")
	}

	// 3. The repository guards the write with role = ''
	user, err := u.userRepo.AssignRole(ctx, s.UserID, role)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, apperror.Conflict("Role has already been selected")
		}
		return nil, repoError(err, "User not found")
	}

	u.audit.Log(ctx, security.SecurityEvent{
		Event:     security.EventRoleAssigned,
		UserID:    s.UserID,
		Role:      string(role),
		RequestID: requestID(ctx),
	})

	return user, nil
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(domain.KeyRequestID).(string)
	return id
}
