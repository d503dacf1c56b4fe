package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"talenthub-backend/internal/authz"
	"talenthub-backend/internal/domain"
	"talenthub-backend/internal/notify"
	"talenthub-backend/pkg/apperror"
	"talenthub-backend/pkg/metrics"
	"talenthub-backend/pkg/obs"
	"talenthub-backend/pkg/sanitize"
	"talenthub-backend/pkg/security"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer(obs.TracerName)

const (
	msgAlreadyApplied = "You have already applied for this job"
	msgAppNotFound    = "Application not found"
)

type applicationUsecase struct {
	appRepo   domain.ApplicationRepository
	jobRepo   domain.JobRepository
	emitter   domain.NotificationEmitter
	templates notify.Templates
	lifecycle domain.Lifecycle
	metrics   metrics.MetricsCollector
	audit     *security.SecurityLogger
}

// ApplicationDeps groups the collaborators of the application usecase.
type ApplicationDeps struct {
	Applications domain.ApplicationRepository
	Jobs         domain.JobRepository
	Emitter      domain.NotificationEmitter
	Templates    notify.Templates
	Lifecycle    domain.Lifecycle
	Metrics      metrics.MetricsCollector
	Audit        *security.SecurityLogger
}

// NewApplicationUsecase creates a new application usecase
func NewApplicationUsecase(d ApplicationDeps) domain.ApplicationUsecase {
	m := d.Metrics
	if m == nil {
		m = metrics.Nop{}
	}
	return &applicationUsecase{
		appRepo:   d.Applications,
		jobRepo:   d.Jobs,
		emitter:   d.Emitter,
		templates: d.Templates,
		lifecycle: d.Lifecycle,
		metrics:   m,
		audit:     d.Audit,
	}
}

// Submit files a talent user's application against an active job.
func (uc *applicationUsecase) Submit(ctx context.Context, s *domain.Session, req domain.SubmitApplicationRequest) (*domain.Application, error) {
	ctx, span := tracer.Start(ctx, "application.Submit")
	defer span.End()

	// 1. Job seekers only
	if err := authz.RequireRole(s, domain.RoleTalent); err != nil {
		return nil, err
	}

	// 2. Resume must be one this user uploaded
	if req.Resume != nil {
		if err := security.ValidateResume(req.Resume.FileName, req.Resume.Type, req.Resume.Size); err != nil {
			return nil, apperror.New(http.StatusBadRequest, "Invalid resume: "+err.Error(), err)
		}
		if !strings.HasPrefix(req.Resume.StorageKey, resumePrefix(s.UserID)) {
			return nil, apperror.BadRequest("Resume was not uploaded by this account")
		}
	}

	// 3. Validate job exists and is active
	job, err := uc.jobRepo.GetByID(ctx, req.JobID)
	if err != nil {
		return nil, repoError(err, "Job not found")
	}
	if job.Status != domain.JobStatusActive {
		return nil, apperror.BadRequest("This job is not accepting applications")
	}

	// 4. Friendly early exit; the unique index below is authoritative
	exists, err := uc.appRepo.Exists(ctx, job.ID, s.UserID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if exists {
		return nil, apperror.Conflict(msgAlreadyApplied)
	}

	// 5. Create application
	app := &domain.Application{
		JobID:       job.ID,
		UserID:      s.UserID,
		Status:      domain.ApplicationStatusApplied,
		Applicant:   cleanApplicant(req.Applicant),
		CoverLetter: sanitize.Text(req.CoverLetter),
		Resume:      req.Resume,
	}
	if err := uc.appRepo.Create(ctx, app); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperror.Conflict(msgAlreadyApplied)
		}
		return nil, apperror.Internal(err)
	}
	app.Job = &domain.JobSummary{
		ID:       job.ID,
		Title:    job.Title,
		Company:  job.Company.Name,
		Location: job.Location,
		Type:     job.Type,
		Status:   job.Status,
		OwnerID:  job.CreatedBy,
	}
	span.SetAttributes(attribute.String("application.id", app.ID), attribute.String("job.id", job.ID))
	uc.metrics.RecordApplicationSubmitted()

	// 6. Tell the employer
	uc.emitter.Emit(ctx, uc.templates.ApplicationReceived(app, job))

	return app, nil
}

// List returns the applications the caller may see, newest first.
func (uc *applicationUsecase) List(ctx context.Context, s *domain.Session, filter domain.ApplicationFilter) (*domain.PaginatedResult[domain.Application], error) {
	filter, err := authz.ScopeApplicationFilter(s, filter)
	if err != nil {
		return nil, err
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperror.BadRequest("Invalid application status filter")
	}
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)

	apps, total, err := uc.appRepo.List(ctx, filter)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if apps == nil {
		apps = []domain.Application{}
	}
	return &domain.PaginatedResult[domain.Application]{Data: apps, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (uc *applicationUsecase) Get(ctx context.Context, s *domain.Session, id string) (*domain.Application, error) {
	// Role check first so unauthorized callers learn nothing about existence
	if err := authz.RequireRole(s, domain.RoleTalent, domain.RoleEmployer); err != nil {
		return nil, err
	}
	app, err := uc.appRepo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, msgAppNotFound)
	}
	if err := authz.CanReadApplication(s, app); err != nil {
		return nil, err
	}
	return app, nil
}

// Transition moves an application along its lifecycle and/or edits the
// interview notes. The write is a compare-and-set on the status read here.
func (uc *applicationUsecase) Transition(ctx context.Context, s *domain.Session, id string, req domain.TransitionRequest) (*domain.Application, error) {
	ctx, span := tracer.Start(ctx, "application.Transition")
	defer span.End()

	// 1. Employers only
	if err := authz.RequireRole(s, domain.RoleEmployer); err != nil {
		return nil, err
	}
	if req.Status == nil && req.InterviewNotes == nil {
		return nil, apperror.BadRequest("Nothing to update: provide status or interviewNotes")
	}
	if req.Status != nil && !req.Status.Valid() {
		return nil, apperror.BadRequest("Invalid status")
	}

	// 2. Load and check ownership of the parent job
	app, err := uc.appRepo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, msgAppNotFound)
	}
	if err := authz.CanTransitionApplication(s, app); err != nil {
		return nil, err
	}

	// 3. Check the move against the lifecycle
	from := app.Status
	to := from
	if req.Status != nil {
		to = *req.Status
	}
	if !uc.lifecycle.CanTransition(from, to) {
		return nil, apperror.BadRequest(fmt.Sprintf("Cannot move an application from %s to %s", from, to))
	}

	var notes *string
	if req.InterviewNotes != nil {
		cleaned := sanitize.Text(*req.InterviewNotes)
		notes = &cleaned
	}

	// 4. Compare-and-set
	updated, err := uc.appRepo.UpdateStatus(ctx, app.ID, from, to, notes)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, apperror.New(http.StatusConflict, "Application status was changed by another request. Reload and try again.", err)
		}
		return nil, repoError(err, msgAppNotFound)
	}
	if from == to {
		return updated, nil
	}

	// 5. Record and notify the applicant
	span.SetAttributes(attribute.String("application.from", string(from)), attribute.String("application.to", string(to)))
	uc.metrics.RecordTransition(string(from), string(to))
	uc.audit.Log(ctx, security.SecurityEvent{
		Event:     security.EventStatusTransition,
		UserID:    s.UserID,
		Role:      string(s.Role),
		RequestID: requestID(ctx),
		Details:   map[string]interface{}{"application_id": app.ID, "from": string(from), "to": string(to)},
	})

	title, company := "", ""
	if app.Job != nil {
		title, company = app.Job.Title, app.Job.Company
	}
	uc.emitter.Emit(ctx, uc.templates.StatusChanged(updated, title, company, from, to))

	return updated, nil
}

func cleanApplicant(in domain.ApplicantInfo) domain.ApplicantInfo {
	out := in
	out.FullName = sanitize.Text(in.FullName)
	out.Email = strings.ToLower(strings.TrimSpace(in.Email))
	out.Phone = strings.TrimSpace(in.Phone)
	out.Location = sanitize.Text(in.Location)
	out.Experience = sanitize.Text(in.Experience)
	out.Skills = sanitize.Strings(in.Skills)
	if out.Availability == "" {
		out.Availability = domain.AvailabilityImmediate
	}
	return out
}

func resumePrefix(userID string) string {
	return "resumes/" + userID + "/"
}
