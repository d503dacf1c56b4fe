// Package authz holds the per-operation authorization checks. Every check
// is a pure function of the caller's session and the resource owner.
package authz

import (
	"talenthub-backend/internal/domain"
	"talenthub-backend/pkg/apperror"
)

const msgUnauthenticated = "Unauthorized"

// RequireSession fails with 401 when the request has no valid session.
func RequireSession(s *domain.Session) error {
	if !s.IsAuthenticated() {
		return apperror.Unauthorized(msgUnauthenticated)
	}
	return nil
}

// RequireRole fails with 401 without a session and 403 when the session's
// role is not one of roles. An unassigned role never passes.
func RequireRole(s *domain.Session, roles ...domain.Role) error {
	if err := RequireSession(s); err != nil {
		return err
	}
	if s.Role == domain.RoleUnassigned {
		return apperror.Forbidden("Complete onboarding to choose a role first")
	}
	for _, r := range roles {
		if s.Role == r {
			return nil
		}
	}
	return apperror.Forbidden(forbiddenMessage(roles))
}

// RequireUnassigned allows only sessions that have not chosen a role yet.
func RequireUnassigned(s *domain.Session) error {
	if err := RequireSession(s); err != nil {
		return err
	}
	if s.Role != domain.RoleUnassigned {
		return apperror.Conflict("Role has already been selected")
	}
	return nil
}

// RequireJobOwner allows only the employer who created the job.
func RequireJobOwner(s *domain.Session, job *domain.Job) error {
	if err := RequireRole(s, domain.RoleEmployer); err != nil {
		return err
	}
	if job == nil || job.CreatedBy != s.UserID {
		return apperror.Forbidden("You can only manage your own job postings")
	}
	return nil
}

// CanReadApplication decides per-record read access: the applicant, or the
// employer who owns the parent job. Admins only see aggregates.
func CanReadApplication(s *domain.Session, app *domain.Application) error {
	if err := RequireRole(s, domain.RoleTalent, domain.RoleEmployer); err != nil {
		return err
	}
	switch s.Role {
	case domain.RoleTalent:
		if app.UserID == s.UserID {
			return nil
		}
	case domain.RoleEmployer:
		if app.Job != nil && app.Job.OwnerID == s.UserID {
			return nil
		}
	}
	return apperror.Forbidden("You do not have access to this application")
}

// CanTransitionApplication allows only the owner of the parent job.
func CanTransitionApplication(s *domain.Session, app *domain.Application) error {
	if err := RequireRole(s, domain.RoleEmployer); err != nil {
		return err
	}
	if app.Job == nil || app.Job.OwnerID != s.UserID {
		return apperror.Forbidden("Only the employer who posted this job can update its applications")
	}
	return nil
}

// ScopeApplicationFilter pins a list query to what the caller may see and
// rejects attempts to widen it.
func ScopeApplicationFilter(s *domain.Session, f domain.ApplicationFilter) (domain.ApplicationFilter, error) {
	if err := RequireRole(s, domain.RoleTalent, domain.RoleEmployer); err != nil {
		return f, err
	}
	switch s.Role {
	case domain.RoleTalent:
		if f.UserID != "" && f.UserID != s.UserID {
			return f, apperror.Forbidden("You can only view your own applications")
		}
		f.UserID = s.UserID
		f.EmployerID = ""
	case domain.RoleEmployer:
		f.EmployerID = s.UserID
	}
	return f, nil
}

func forbiddenMessage(roles []domain.Role) string {
	if len(roles) == 1 {
		switch roles[0] {
		case domain.RoleEmployer:
			return "Only employers can perform this action"
		case domain.RoleTalent:
			return "Only job seekers can perform this action"
		case domain.RoleAdmin:
			return "Admin access required"
		}
	}
	return "You do not have permission to perform this action"
}
