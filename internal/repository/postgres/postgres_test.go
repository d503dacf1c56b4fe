package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"talenthub-backend/internal/domain"
	"talenthub-backend/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off\_now\\`, escapeLike(`50% off_now\`))
	assert.Equal(t, "Berlin", escapeLike("Berlin"))
}

func TestErrorMapping(t *testing.T) {
	assert.ErrorIs(t, mapNoRows(pgx.ErrNoRows), domain.ErrNotFound)

	other := errors.New("boom")
	assert.Equal(t, other, mapNoRows(other))

	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(nil))
}

func TestNonNil(t *testing.T) {
	assert.NotNil(t, nonNil(nil))
	assert.Equal(t, []string{"a"}, nonNil([]string{"a"}))
}

// testPool connects to TEST_DATABASE_URL and applies migrations.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	require.NoError(t, database.RunMigrations(url))

	pool, err := database.NewPostgresConnection(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func seedUser(t *testing.T, repo domain.UserRepository, role domain.Role) *domain.User {
	t.Helper()
	ctx := context.Background()
	u := &domain.User{ID: "user-" + uuid.NewString(), Email: uuid.NewString() + "@example.com", Name: "Test"}
	require.NoError(t, repo.Upsert(ctx, u))
	if role != domain.RoleUnassigned {
		var err error
		u, err = repo.AssignRole(ctx, u.ID, role)
		require.NoError(t, err)
	}
	return u
}

func TestIntegration_ApplicationLifecycle(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	users := NewUserRepository(pool)
	jobs := NewJobRepository(pool)
	apps := NewApplicationRepository(pool)

	employer := seedUser(t, users, domain.RoleEmployer)
	talent := seedUser(t, users, domain.RoleTalent)

	_, err := users.AssignRole(ctx, employer.ID, domain.RoleTalent)
	assert.ErrorIs(t, err, domain.ErrConflict)

	job := &domain.Job{
		Title: "Go Engineer", Description: "Build services", Location: "Remote",
		Type: domain.JobTypeFullTime, Status: domain.JobStatusActive, CreatedBy: employer.ID,
		ExperienceLevel: domain.ExperienceMid, Salary: domain.Salary{Currency: domain.DefaultCurrency},
		Company: domain.CompanySnapshot{Name: "Acme"},
	}
	require.NoError(t, jobs.Create(ctx, job))

	app := &domain.Application{
		JobID: job.ID, UserID: talent.ID,
		Applicant: domain.ApplicantInfo{
			FullName: "Tal Ent", Email: talent.Email, Phone: "+15550100",
			Location: "Berlin", Experience: "5 years", Availability: domain.AvailabilityImmediate,
		},
	}
	require.NoError(t, apps.Create(ctx, app))

	dup := *app
	dup.ID = ""
	assert.ErrorIs(t, apps.Create(ctx, &dup), domain.ErrDuplicate)

	got, err := jobs.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.ApplicationCount)

	moved, err := apps.UpdateStatus(ctx, app.ID, domain.ApplicationStatusApplied, domain.ApplicationStatusShortlisted, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationStatusShortlisted, moved.Status)
	assert.Equal(t, employer.ID, moved.Job.OwnerID)

	// Stale from-status loses the race
	_, err = apps.UpdateStatus(ctx, app.ID, domain.ApplicationStatusApplied, domain.ApplicationStatusRejected, nil)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestIntegration_NotificationDedupeAndExpiry(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	user := seedUser(t, NewUserRepository(pool), domain.RoleEmployer)
	repo := NewNotificationRepository(pool)
	jobID := uuid.NewString()

	n := &domain.Notification{
		UserID: user.ID, Type: domain.NotificationJobPosted, Title: "Job Posted Successfully",
		Message: "posted", Data: domain.NotificationData{JobID: jobID},
		Priority: domain.PriorityMedium, Category: domain.CategoryJob,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, repo.Create(ctx, n))

	again := *n
	assert.ErrorIs(t, repo.Create(ctx, &again), domain.ErrDuplicate)

	expired := &domain.Notification{
		UserID: user.ID, Type: domain.NotificationWelcome, Title: "old", Message: "old",
		Priority: domain.PriorityLow, Category: domain.CategorySystem,
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, repo.Create(ctx, expired))

	list, err := repo.List(ctx, domain.NotificationFilter{UserID: user.ID, Limit: 10}, time.Now())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, jobID, list[0].Data.JobID)

	removed, err := repo.DeleteExpired(ctx, time.Now())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, removed, int64(1))
}
