package authz_test

import (
	"net/http"
	"testing"

	"talenthub-backend/internal/authz"
	"talenthub-backend/internal/domain"
	"talenthub-backend/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	talent   = &domain.Session{UserID: "u1", Role: domain.RoleTalent}
	other    = &domain.Session{UserID: "u2", Role: domain.RoleTalent}
	employer = &domain.Session{UserID: "e1", Role: domain.RoleEmployer}
	rival    = &domain.Session{UserID: "e2", Role: domain.RoleEmployer}
	admin    = &domain.Session{UserID: "a1", Role: domain.RoleAdmin}
	fresh    = &domain.Session{UserID: "n1", Role: domain.RoleUnassigned}
)

func sampleApplication() *domain.Application {
	return &domain.Application{
		ID:     "app1",
		JobID:  "job1",
		UserID: "u1",
		Job:    &domain.JobSummary{ID: "job1", OwnerID: "e1"},
	}
}

func TestRequireRole(t *testing.T) {
	t.Run("Should return 401 without session", func(t *testing.T) {
		err := authz.RequireRole(nil, domain.RoleEmployer)
		assert.Equal(t, http.StatusUnauthorized, apperror.CodeOf(err))
	})

	t.Run("Should return 403 on wrong role", func(t *testing.T) {
		err := authz.RequireRole(talent, domain.RoleEmployer)
		assert.Equal(t, http.StatusForbidden, apperror.CodeOf(err))
	})

	t.Run("Should reject unassigned role for every gated operation", func(t *testing.T) {
		for _, r := range []domain.Role{domain.RoleTalent, domain.RoleEmployer, domain.RoleAdmin} {
			err := authz.RequireRole(fresh, r)
			assert.Equal(t, http.StatusForbidden, apperror.CodeOf(err))
		}
	})

	t.Run("Should pass on matching role", func(t *testing.T) {
		assert.NoError(t, authz.RequireRole(admin, domain.RoleAdmin))
		assert.NoError(t, authz.RequireRole(employer, domain.RoleTalent, domain.RoleEmployer))
	})
}

func TestRequireUnassigned(t *testing.T) {
	assert.NoError(t, authz.RequireUnassigned(fresh))
	assert.Equal(t, http.StatusConflict, apperror.CodeOf(authz.RequireUnassigned(talent)))
	assert.Equal(t, http.StatusUnauthorized, apperror.CodeOf(authz.RequireUnassigned(nil)))
}

func TestRequireJobOwner(t *testing.T) {
	job := &domain.Job{ID: "job1", CreatedBy: "e1"}

	assert.NoError(t, authz.RequireJobOwner(employer, job))
	assert.Equal(t, http.StatusForbidden, apperror.CodeOf(authz.RequireJobOwner(rival, job)))
	assert.Equal(t, http.StatusForbidden, apperror.CodeOf(authz.RequireJobOwner(admin, job)))
	assert.Equal(t, http.StatusUnauthorized, apperror.CodeOf(authz.RequireJobOwner(nil, job)))
}

func TestCanReadApplication(t *testing.T) {
	app := sampleApplication()

	assert.NoError(t, authz.CanReadApplication(talent, app))
	assert.NoError(t, authz.CanReadApplication(employer, app))

	for name, s := range map[string]*domain.Session{"other talent": other, "rival employer": rival, "admin": admin} {
		t.Run("Should forbid "+name, func(t *testing.T) {
			assert.Equal(t, http.StatusForbidden, apperror.CodeOf(authz.CanReadApplication(s, app)))
		})
	}
}

func TestCanTransitionApplication(t *testing.T) {
	app := sampleApplication()

	assert.NoError(t, authz.CanTransitionApplication(employer, app))
	assert.Equal(t, http.StatusForbidden, apperror.CodeOf(authz.CanTransitionApplication(rival, app)))
	assert.Equal(t, http.StatusForbidden, apperror.CodeOf(authz.CanTransitionApplication(talent, app)))
}

func TestScopeApplicationFilter(t *testing.T) {
	t.Run("Should pin talent to own applications", func(t *testing.T) {
		f, err := authz.ScopeApplicationFilter(talent, domain.ApplicationFilter{EmployerID: "e1"})
		require.NoError(t, err)
		assert.Equal(t, "u1", f.UserID)
		assert.Empty(t, f.EmployerID)
	})

	t.Run("Should forbid talent asking for another user", func(t *testing.T) {
		_, err := authz.ScopeApplicationFilter(talent, domain.ApplicationFilter{UserID: "u2"})
		assert.Equal(t, http.StatusForbidden, apperror.CodeOf(err))
	})

	t.Run("Should pin employer to own jobs", func(t *testing.T) {
		f, err := authz.ScopeApplicationFilter(employer, domain.ApplicationFilter{EmployerID: "e2", JobID: "job9"})
		require.NoError(t, err)
		assert.Equal(t, "e1", f.EmployerID)
		assert.Equal(t, "job9", f.JobID)
	})

	t.Run("Should forbid admin per-record listing", func(t *testing.T) {
		_, err := authz.ScopeApplicationFilter(admin, domain.ApplicationFilter{})
		assert.Equal(t, http.StatusForbidden, apperror.CodeOf(err))
	})
}
