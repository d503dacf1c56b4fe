package usecase_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"talenthub-backend/internal/domain"
	"talenthub-backend/internal/notify"
	"talenthub-backend/internal/usecase"
	"talenthub-backend/pkg/apperror"
	"talenthub-backend/pkg/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var fixedNow = time.Date(2026, time.May, 20, 12, 0, 0, 0, time.UTC)

func testTemplates() notify.Templates {
	return notify.Templates{TTL: notify.DefaultTTL, Now: func() time.Time { return fixedNow }}
}

func newApplicationUC(apps *MockApplicationRepo, jobs *MockJobRepo, em *MockEmitter) domain.ApplicationUsecase {
	return usecase.NewApplicationUsecase(usecase.ApplicationDeps{
		Applications: apps,
		Jobs:         jobs,
		Emitter:      em,
		Templates:    testTemplates(),
		Lifecycle:    domain.Lifecycle{EnforceGraph: true},
	})
}

func activeJob() *domain.Job {
	return &domain.Job{
		ID:        "J",
		Title:     "Backend Engineer",
		Location:  "Remote",
		Type:      domain.JobTypeFullTime,
		Status:    domain.JobStatusActive,
		CreatedBy: "e1",
		Company:   domain.CompanySnapshot{Name: "Acme"},
	}
}

func submitReq() domain.SubmitApplicationRequest {
	return domain.SubmitApplicationRequest{
		JobID: "J",
		Applicant: domain.ApplicantInfo{
			FullName:   "Una Lee",
			Email:      "Una@Example.com ",
			Phone:      "+1 555 0100",
			Location:   "Lisbon",
			Experience: "5 years of Go",
			Skills:     []string{"go", " ", "sql"},
		},
	}
}

func appOnJob(id, userID string, status domain.ApplicationStatus) *domain.Application {
	return &domain.Application{
		ID:     id,
		JobID:  "J",
		UserID: userID,
		Status: status,
		Job:    &domain.JobSummary{ID: "J", Title: "Backend Engineer", Company: "Acme", OwnerID: "e1"},
	}
}

func TestSubmit_DoubleSubmitIsConflict(t *testing.T) {
	apps, jobs, em := new(MockApplicationRepo), new(MockJobRepo), &MockEmitter{}
	uc := newApplicationUC(apps, jobs, em)
	ctx := context.Background()

	jobs.On("GetByID", mock.Anything, "J").Return(activeJob(), nil)
	apps.On("Exists", mock.Anything, "J", "u1").Return(false, nil)
	apps.On("Create", mock.Anything, mock.AnythingOfType("*domain.Application")).Return(nil).Once()
	apps.On("Create", mock.Anything, mock.AnythingOfType("*domain.Application")).Return(domain.ErrDuplicate).Once()

	first, err := uc.Submit(ctx, talentU1, submitReq())
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationStatusApplied, first.Status)

	// The unique index rejects the second insert even though the pre-check passed
	_, err = uc.Submit(ctx, talentU1, submitReq())
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperror.CodeOf(err))
	assert.Equal(t, "You have already applied for this job", err.Error())

	assert.Len(t, em.Sent(), 1)
	apps.AssertNumberOfCalls(t, "Create", 2)
}

func TestSubmit_PreCheckConflict(t *testing.T) {
	apps, jobs, em := new(MockApplicationRepo), new(MockJobRepo), &MockEmitter{}
	uc := newApplicationUC(apps, jobs, em)

	jobs.On("GetByID", mock.Anything, "J").Return(activeJob(), nil)
	apps.On("Exists", mock.Anything, "J", "u1").Return(true, nil)

	_, err := uc.Submit(context.Background(), talentU1, submitReq())
	assert.Equal(t, http.StatusConflict, apperror.CodeOf(err))
	apps.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.Empty(t, em.Sent())
}

func TestSubmit_NonActiveJobIsValidationError(t *testing.T) {
	for _, status := range []domain.JobStatus{domain.JobStatusPaused, domain.JobStatusClosed} {
		t.Run(string(status), func(t *testing.T) {
			apps, jobs, em := new(MockApplicationRepo), new(MockJobRepo), &MockEmitter{}
			uc := newApplicationUC(apps, jobs, em)

			job := activeJob()
			job.Status = status
			jobs.On("GetByID", mock.Anything, "J").Return(job, nil)

			_, err := uc.Submit(context.Background(), talentU1, submitReq())
			assert.Equal(t, http.StatusBadRequest, apperror.CodeOf(err))
			apps.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			assert.Empty(t, em.Sent())
		})
	}
}

func TestSubmit_RoleGate(t *testing.T) {
	apps, jobs, em := new(MockApplicationRepo), new(MockJobRepo), &MockEmitter{}
	uc := newApplicationUC(apps, jobs, em)
	ctx := context.Background()

	_, err := uc.Submit(ctx, nil, submitReq())
	assert.Equal(t, http.StatusUnauthorized, apperror.CodeOf(err))

	for _, s := range []*domain.Session{employerE1, adminA, newcomer} {
		_, err := uc.Submit(ctx, s, submitReq())
		assert.Equal(t, http.StatusForbidden, apperror.CodeOf(err), "role %q", s.Role)
	}
	jobs.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestSubmit_MissingJob(t *testing.T) {
	apps, jobs, em := new(MockApplicationRepo), new(MockJobRepo), &MockEmitter{}
	uc := newApplicationUC(apps, jobs, em)
	jobs.On("GetByID", mock.Anything, "J").Return(nil, domain.ErrNotFound)

	_, err := uc.Submit(context.Background(), talentU1, submitReq())
	assert.Equal(t, http.StatusNotFound, apperror.CodeOf(err))
}

func TestSubmit_ResumeMustBelongToCaller(t *testing.T) {
	apps, jobs, em := new(MockApplicationRepo), new(MockJobRepo), &MockEmitter{}
	uc := newApplicationUC(apps, jobs, em)

	req := submitReq()
	req.Resume = &domain.Resume{
		FileName:   "cv.pdf",
		URL:        "https://cdn.example.com/resumes/u2/x.pdf",
		StorageKey: "resumes/u2/x.pdf",
		Size:       1024,
		Type:       "application/pdf",
	}
	_, err := uc.Submit(context.Background(), talentU1, req)
	assert.Equal(t, http.StatusBadRequest, apperror.CodeOf(err))

	req.Resume.Type = "image/png"
	_, err = uc.Submit(context.Background(), talentU1, req)
	assert.Equal(t, http.StatusBadRequest, apperror.CodeOf(err))
}

func TestSubmit_CleansApplicant(t *testing.T) {
	apps, jobs, em := new(MockApplicationRepo), new(MockJobRepo), &MockEmitter{}
	uc := newApplicationUC(apps, jobs, em)

	jobs.On("GetByID", mock.Anything, "J").Return(activeJob(), nil)
	apps.On("Exists", mock.Anything, "J", "u1").Return(false, nil)
	apps.On("Create", mock.Anything, mock.MatchedBy(func(a *domain.Application) bool {
		return a.Applicant.Email == "una@example.com" &&
			len(a.Applicant.Skills) == 2 &&
			a.UserID == "u1" &&
			a.Status == domain.ApplicationStatusApplied
	})).Return(nil)

	_, err := uc.Submit(context.Background(), talentU1, submitReq())
	require.NoError(t, err)
	apps.AssertExpectations(t)
}

func TestSubmit_DefaultsAvailability(t *testing.T) {
	apps, jobs, em := new(MockApplicationRepo), new(MockJobRepo), &MockEmitter{}
	uc := newApplicationUC(apps, jobs, em)

	var stored *domain.Application
	jobs.On("GetByID", mock.Anything, "J").Return(activeJob(), nil)
	apps.On("Exists", mock.Anything, "J", "u1").Return(false, nil)
	apps.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*domain.Application) }).
		Return(nil)

	req := submitReq()
	req.Applicant.Availability = ""
	app, err := uc.Submit(context.Background(), talentU1, req)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, domain.AvailabilityImmediate, stored.Applicant.Availability)
	assert.Equal(t, domain.AvailabilityImmediate, app.Applicant.Availability)
}

func TestSubmit_KeepsGivenAvailability(t *testing.T) {
	apps, jobs, em := new(MockApplicationRepo), new(MockJobRepo), &MockEmitter{}
	uc := newApplicationUC(apps, jobs, em)

	jobs.On("GetByID", mock.Anything, "J").Return(activeJob(), nil)
	apps.On("Exists", mock.Anything, "J", "u1").Return(false, nil)
	apps.On("Create", mock.Anything, mock.MatchedBy(func(a *domain.Application) bool {
		return a.Applicant.Availability == domain.AvailabilityOneMonth
	})).Return(nil)

	req := submitReq()
	req.Applicant.Availability = domain.AvailabilityOneMonth
	_, err := uc.Submit(context.Background(), talentU1, req)
	require.NoError(t, err)
	apps.AssertExpectations(t)
}

func TestTransition_NonOwnerForbiddenNotAuditedHere(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	apps, jobs, em := new(MockApplicationRepo), new(MockJobRepo), &MockEmitter{}
	uc := usecase.NewApplicationUsecase(usecase.ApplicationDeps{
		Applications: apps,
		Jobs:         jobs,
		Emitter:      em,
		Templates:    testTemplates(),
		Lifecycle:    domain.Lifecycle{EnforceGraph: true},
		Audit:        security.NewSecurityLoggerWith(zap.New(core), "talenthub", "test"),
	})

	apps.On("GetByID", mock.Anything, "A").Return(appOnJob("A", "u1", domain.ApplicationStatusApplied), nil)

	status := domain.ApplicationStatusShortlisted
	_, err := uc.Transition(context.Background(), employerE2, "A", domain.TransitionRequest{Status: &status})
	assert.Equal(t, http.StatusForbidden, apperror.CodeOf(err))
	// the HTTP error handler records the denial once
	assert.Equal(t, 0, logs.Len())
}

func TestTransition_NonOwnerForbidden(t *testing.T) {
	apps, jobs, em := new(MockApplicationRepo), new(MockJobRepo), &MockEmitter{}
	uc := newApplicationUC(apps, jobs, em)

	apps.On("GetByID", mock.Anything, "A").Return(appOnJob("A", "u1", domain.ApplicationStatusApplied), nil)

	status := domain.ApplicationStatusShortlisted
	_, err := uc.Transition(context.Background(), employerE2, "A", domain.TransitionRequest{Status: &status})
	assert.Equal(t, http.StatusForbidden, apperror.CodeOf(err))
	apps.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, em.Sent())
}

func TestTransition_TalentCannotTransition(t *testing.T) {
	apps, jobs, em := new(MockApplicationRepo), new(MockJobRepo), &MockEmitter{}
	uc := newApplicationUC(apps, jobs, em)

	status := domain.ApplicationStatusHired
	_, err := uc.Transition(context.Background(), talentU1, "A", domain.TransitionRequest{Status: &status})
	assert.Equal(t, http.StatusForbidden, apperror.CodeOf(err))
	apps.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestTransition_GraphEnforced(t *testing.T) {
	apps, jobs, em := new(MockApplicationRepo), new(MockJobRepo), &MockEmitter{}
	uc := newApplicationUC(apps, jobs, em)

	apps.On("GetByID", mock.Anything, "A").Return(appOnJob("A", "u1", domain.ApplicationStatusApplied), nil)

	status := domain.ApplicationStatusHired
	_, err := uc.Transition(context.Background(), employerE1, "A", domain.TransitionRequest{Status: &status})
	assert.Equal(t, http.StatusBadRequest, apperror.CodeOf(err))
	apps.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTransition_AnyToAnyWhenGraphOff(t *testing.T) {
	apps, jobs, em := new(MockApplicationRepo), new(MockJobRepo), &MockEmitter{}
	uc := usecase.NewApplicationUsecase(usecase.ApplicationDeps{
		Applications: apps, Jobs: jobs, Emitter: em, Templates: testTemplates(),
		Lifecycle: domain.Lifecycle{EnforceGraph: false},
	})

	apps.On("GetByID", mock.Anything, "A").Return(appOnJob("A", "u1", domain.ApplicationStatusApplied), nil)
	apps.On("UpdateStatus", mock.Anything, "A", domain.ApplicationStatusApplied, domain.ApplicationStatusHired, (*string)(nil)).
		Return(appOnJob("A", "u1", domain.ApplicationStatusHired), nil)

	status := domain.ApplicationStatusHired
	_, err := uc.Transition(context.Background(), employerE1, "A", domain.TransitionRequest{Status: &status})
	require.NoError(t, err)

	sent := em.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, domain.PriorityUrgent, sent[0].Priority)
	assert.Equal(t, domain.NotificationApplicationHired, sent[0].Type)
}

func TestTransition_ConcurrentChangeIsConflict(t *testing.T) {
	apps, jobs, em := new(MockApplicationRepo), new(MockJobRepo), &MockEmitter{}
	uc := newApplicationUC(apps, jobs, em)

	apps.On("GetByID", mock.Anything, "A").Return(appOnJob("A", "u1", domain.ApplicationStatusApplied), nil)
	apps.On("UpdateStatus", mock.Anything, "A", domain.ApplicationStatusApplied, domain.ApplicationStatusRejected, (*string)(nil)).
		Return(nil, domain.ErrConflict)

	status := domain.ApplicationStatusRejected
	_, err := uc.Transition(context.Background(), employerE1, "A", domain.TransitionRequest{Status: &status})
	assert.Equal(t, http.StatusConflict, apperror.CodeOf(err))
	assert.Empty(t, em.Sent())
}

func TestTransition_NotesOnlyEmitsNothing(t *testing.T) {
	apps, jobs, em := new(MockApplicationRepo), new(MockJobRepo), &MockEmitter{}
	uc := newApplicationUC(apps, jobs, em)

	current := appOnJob("A", "u1", domain.ApplicationStatusInterviewed)
	apps.On("GetByID", mock.Anything, "A").Return(current, nil)
	apps.On("UpdateStatus", mock.Anything, "A", domain.ApplicationStatusInterviewed, domain.ApplicationStatusInterviewed,
		mock.MatchedBy(func(n *string) bool { return n != nil && *n == "Strong on SQL" })).
		Return(current, nil)

	notes := "  Strong on <b>SQL</b> "
	_, err := uc.Transition(context.Background(), employerE1, "A", domain.TransitionRequest{InterviewNotes: &notes})
	require.NoError(t, err)
	assert.Empty(t, em.Sent())
}

func TestTransition_EmptyRequest(t *testing.T) {
	apps, jobs, em := new(MockApplicationRepo), new(MockJobRepo), &MockEmitter{}
	uc := newApplicationUC(apps, jobs, em)

	_, err := uc.Transition(context.Background(), employerE1, "A", domain.TransitionRequest{})
	assert.Equal(t, http.StatusBadRequest, apperror.CodeOf(err))

	bogus := domain.ApplicationStatus("archived")
	_, err = uc.Transition(context.Background(), employerE1, "A", domain.TransitionRequest{Status: &bogus})
	assert.Equal(t, http.StatusBadRequest, apperror.CodeOf(err))
}

func TestGet_TalentIsolation(t *testing.T) {
	apps, jobs, em := new(MockApplicationRepo), new(MockJobRepo), &MockEmitter{}
	uc := newApplicationUC(apps, jobs, em)
	apps.On("GetByID", mock.Anything, "A").Return(appOnJob("A", "u1", domain.ApplicationStatusApplied), nil)

	got, err := uc.Get(context.Background(), talentU1, "A")
	require.NoError(t, err)
	assert.Equal(t, "A", got.ID)

	_, err = uc.Get(context.Background(), talentU2, "A")
	assert.Equal(t, http.StatusForbidden, apperror.CodeOf(err))

	_, err = uc.Get(context.Background(), employerE2, "A")
	assert.Equal(t, http.StatusForbidden, apperror.CodeOf(err))

	_, err = uc.Get(context.Background(), employerE1, "A")
	assert.NoError(t, err)

	_, err = uc.Get(context.Background(), adminA, "A")
	assert.Equal(t, http.StatusForbidden, apperror.CodeOf(err))
}

func TestList_TalentIsolation(t *testing.T) {
	apps, jobs, em := new(MockApplicationRepo), new(MockJobRepo), &MockEmitter{}
	uc := newApplicationUC(apps, jobs, em)

	// Whatever the caller asks for, the repository only ever sees u2's scope
	apps.On("List", mock.Anything, mock.MatchedBy(func(f domain.ApplicationFilter) bool {
		return f.UserID == "u2" && f.EmployerID == ""
	})).Return([]domain.Application{}, int64(0), nil)

	res, err := uc.List(context.Background(), talentU2, domain.ApplicationFilter{JobID: "J"})
	require.NoError(t, err)
	assert.NotNil(t, res.Data)
	assert.Equal(t, 1, res.Page)
	assert.Equal(t, 10, res.Limit)

	_, err = uc.List(context.Background(), talentU2, domain.ApplicationFilter{UserID: "u1"})
	assert.Equal(t, http.StatusForbidden, apperror.CodeOf(err))

	_, err = uc.List(context.Background(), talentU2, domain.ApplicationFilter{EmployerID: "e1"})
	require.NoError(t, err)

	apps.AssertExpectations(t)
}

func TestList_EmployerScopedToOwnJobs(t *testing.T) {
	apps, jobs, em := new(MockApplicationRepo), new(MockJobRepo), &MockEmitter{}
	uc := newApplicationUC(apps, jobs, em)

	apps.On("List", mock.Anything, mock.MatchedBy(func(f domain.ApplicationFilter) bool {
		return f.EmployerID == "e2" && f.Limit == 100
	})).Return(nil, int64(0), nil)

	res, err := uc.List(context.Background(), employerE2, domain.ApplicationFilter{EmployerID: "e1", Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, []domain.Application{}, res.Data)
}

// Scenario: employer E1 posts J, talent U1 applies, E2 tries to shortlist
// and is refused, then E1 shortlists and U1 is notified.
func TestScenario_ApplyAndShortlist(t *testing.T) {
	apps, jobs, users, em := new(MockApplicationRepo), new(MockJobRepo), new(MockUserRepo), &MockEmitter{}
	appUC := newApplicationUC(apps, jobs, em)
	jobUC := usecase.NewJobUsecase(jobs, apps, users, em, testTemplates())
	ctx := context.Background()

	jobs.On("GetByID", mock.Anything, "J").Return(activeJob(), nil)
	apps.On("Exists", mock.Anything, "J", "u1").Return(false, nil)
	apps.On("Create", mock.Anything, mock.AnythingOfType("*domain.Application")).
		Run(func(args mock.Arguments) {
			a := args.Get(1).(*domain.Application)
			a.ID = "A"
			a.AppliedAt = fixedNow
		}).Return(nil)
	apps.On("IDsByJob", mock.Anything, "J").Return([]string{"A"}, nil)

	// 1. U1 applies
	a, err := appUC.Submit(ctx, talentU1, submitReq())
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationStatusApplied, a.Status)
	assert.False(t, a.AppliedAt.IsZero())

	received := em.Sent()
	require.Len(t, received, 1)
	assert.Equal(t, "e1", received[0].UserID)
	assert.Equal(t, domain.NotificationJobApplicationReceived, received[0].Type)

	// 2. The owner sees A among the job's applications
	job, err := jobUC.GetJob(ctx, employerE1, "J")
	require.NoError(t, err)
	assert.Contains(t, job.Applications, "A")

	// 3. E2 is not the owner
	stored := appOnJob("A", "u1", domain.ApplicationStatusApplied)
	apps.On("GetByID", mock.Anything, "A").Return(stored, nil)
	shortlisted := domain.ApplicationStatusShortlisted
	_, err = appUC.Transition(ctx, employerE2, "A", domain.TransitionRequest{Status: &shortlisted})
	assert.Equal(t, http.StatusForbidden, apperror.CodeOf(err))

	// 4. E1 shortlists
	apps.On("UpdateStatus", mock.Anything, "A", domain.ApplicationStatusApplied, domain.ApplicationStatusShortlisted, (*string)(nil)).
		Return(appOnJob("A", "u1", domain.ApplicationStatusShortlisted), nil)
	updated, err := appUC.Transition(ctx, employerE1, "A", domain.TransitionRequest{Status: &shortlisted})
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationStatusShortlisted, updated.Status)

	sent := em.Sent()
	require.Len(t, sent, 2)
	n := sent[1]
	assert.Equal(t, "u1", n.UserID)
	assert.Equal(t, domain.CategoryApplication, n.Category)
	assert.Equal(t, domain.NotificationApplicationShortlisted, n.Type)
	assert.Equal(t, "applied", n.Data.OldStatus)
	assert.Equal(t, "shortlisted", n.Data.NewStatus)
	assert.Equal(t, "A", n.Data.ApplicationID)
	assert.Contains(t, n.Message, "Backend Engineer")
	assert.Contains(t, n.Message, "Acme")
	apps.AssertNumberOfCalls(t, "UpdateStatus", 1)
}
