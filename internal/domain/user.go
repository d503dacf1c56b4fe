package domain

import (
	"context"
	"time"
)

// Role is the coarse capability tag on a user. The empty role means the
// user signed in but has not finished onboarding yet.
type Role string

const (
	RoleUnassigned Role = ""
	RoleTalent     Role = "user"
	RoleEmployer   Role = "employer"
	RoleAdmin      Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUnassigned, RoleTalent, RoleEmployer, RoleAdmin:
		return true
	}
	return false
}

// Selectable reports whether r may be picked during onboarding.
// Admins are provisioned out of band.
func (r Role) Selectable() bool {
	return r == RoleTalent || r == RoleEmployer
}

type CompanyProfile struct {
	Industry string `json:"industry"`
	Size     string `json:"size"`
	Website  string `json:"website"`
	Location string `json:"location"`
}

type User struct {
	ID                  string         `json:"id"` // identity provider subject
	Email               string         `json:"email"`
	Name                string         `json:"name"`
	Image               string         `json:"image,omitempty"`
	Role                Role           `json:"role"`
	OnboardingCompleted bool           `json:"onboardingCompleted"`
	CompanyProfile      CompanyProfile `json:"companyProfile"`
	CreatedAt           time.Time      `json:"createdAt"`
	UpdatedAt           time.Time      `json:"updatedAt"`
}

// Identity is what a verified session token tells us about its subject.
type Identity struct {
	Subject string
	Email   string
	Name    string
	Image   string
}

type UserRepository interface {
	// Upsert inserts the user or refreshes email, name and image.
	// The stored role is never touched and is returned on u.
	Upsert(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	// AssignRole sets the role only while it is still unassigned.
	// Returns ErrConflict when a role was already chosen.
	AssignRole(ctx context.Context, id string, role Role) (*User, error)
	UpdateCompanyProfile(ctx context.Context, id, name string, profile CompanyProfile) (*User, error)
}

type AuthUsecase interface {
	// ResolveSession upserts the token subject and returns a session
	// whose role is read from the user store.
	ResolveSession(ctx context.Context, identity Identity) (*Session, error)
	GetCurrentUser(ctx context.Context, s *Session) (*User, error)
}
