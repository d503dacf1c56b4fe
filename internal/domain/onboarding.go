package domain

import "context"

// ChooseRoleRequest is the one-time onboarding choice.
type ChooseRoleRequest struct {
	Role Role `json:"role" binding:"required,oneof=user employer"`
}

type OnboardingUsecase interface {
	ChooseRole(ctx context.Context, s *Session, role Role) (*User, error)
}
