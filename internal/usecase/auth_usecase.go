package usecase

import (
	"context"
	"errors"

	"talenthub-backend/internal/domain"
	"talenthub-backend/pkg/apperror"
)

type authUsecase struct {
	userRepo domain.UserRepository
}

func NewAuthUsecase(userRepo domain.UserRepository) domain.AuthUsecase {
	return &authUsecase{userRepo: userRepo}
}

// ResolveSession syncs the token subject into the local user store and
// builds the request session. The role always comes from the store, never
// from the token.
func (u *authUsecase) ResolveSession(ctx context.Context, identity domain.Identity) (*domain.Session, error) {
	if identity.Subject == "" {
		return nil, apperror.Unauthorized("Invalid session")
	}

	// 1. Returning user (happy path)
	user, err := u.userRepo.GetByID(ctx, identity.Subject)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		// 2. First sign-in: create with an unassigned role
		user = &domain.User{
			ID:    identity.Subject,
			Email: identity.Email,
			Name:  identity.Name,
			Image: identity.Image,
		}
		if err := u.userRepo.Upsert(ctx, user); err != nil {
			return nil, apperror.Internal(err)
		}
	case err != nil:
		return nil, apperror.Internal(err)
	case needsRefresh(user, identity):
		// 3. Provider-side email or avatar changed
		refreshed := &domain.User{
			ID:    identity.Subject,
			Email: identity.Email,
			Name:  identity.Name,
			Image: identity.Image,
		}
		if err := u.userRepo.Upsert(ctx, refreshed); err != nil {
			return nil, apperror.Internal(err)
		}
		user = refreshed
	}

	return &domain.Session{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   user.Role,
	}, nil
}

func needsRefresh(u *domain.User, id domain.Identity) bool {
	return (id.Email != "" && id.Email != u.Email) || (id.Image != "" && id.Image != u.Image)
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, s *domain.Session) (*domain.User, error) {
	if !s.IsAuthenticated() {
		return nil, apperror.Unauthorized("Unauthorized")
	}
	user, err := u.userRepo.GetByID(ctx, s.UserID)
	if err != nil {
		return nil, repoError(err, "User not found")
	}
	return user, nil
}
