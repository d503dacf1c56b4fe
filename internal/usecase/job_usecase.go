package usecase

import (
	"context"

	"talenthub-backend/internal/authz"
	"talenthub-backend/internal/domain"
	"talenthub-backend/internal/notify"
	"talenthub-backend/pkg/apperror"
	"talenthub-backend/pkg/sanitize"
)

const msgSalaryInverted = "Minimum salary cannot be greater than maximum salary"

type jobUsecase struct {
	jobRepo   domain.JobRepository
	appRepo   domain.ApplicationRepository
	userRepo  domain.UserRepository
	emitter   domain.NotificationEmitter
	templates notify.Templates
}

// NewJobUsecase creates a new job usecase
func NewJobUsecase(
	jobRepo domain.JobRepository,
	appRepo domain.ApplicationRepository,
	userRepo domain.UserRepository,
	emitter domain.NotificationEmitter,
	templates notify.Templates,
) domain.JobUsecase {
	return &jobUsecase{
		jobRepo:   jobRepo,
		appRepo:   appRepo,
		userRepo:  userRepo,
		emitter:   emitter,
		templates: templates,
	}
}

// CreateJob publishes a new active posting owned by the calling employer.
func (u *jobUsecase) CreateJob(ctx context.Context, s *domain.Session, req domain.CreateJobRequest) (*domain.Job, error) {
	// 1. Employers only
	if err := authz.RequireRole(s, domain.RoleEmployer); err != nil {
		return nil, err
	}

	// 2. Validate content
	title := sanitize.Text(req.Title)
	description := sanitize.Text(req.Description)
	location := sanitize.Text(req.Location)
	if title == "" || description == "" || location == "" {
		return nil, apperror.BadRequest("Title, description, and location are required")
	}
	salary := domain.Salary{Currency: domain.DefaultCurrency}
	if req.Salary != nil {
		salary = normalizeSalary(*req.Salary)
	}
	if salary.Inverted() {
		return nil, apperror.BadRequest(msgSalaryInverted)
	}

	// 3. Company snapshot defaults to the employer's profile
	owner, err := u.userRepo.GetByID(ctx, s.UserID)
	if err != nil {
		return nil, repoError(err, "User not found")
	}
	company := companySnapshot(req.Company, profileSnapshot(owner))
	if company.Name == "" {
		return nil, apperror.BadRequest("Company name is required")
	}

	// 4. Persist
	job := &domain.Job{
		Title:           title,
		Description:     description,
		Requirements:    sanitize.Strings(req.Requirements),
		Location:        location,
		Type:            req.Type,
		Salary:          salary,
		Company:         company,
		Status:          domain.JobStatusActive,
		CreatedBy:       s.UserID,
		Tags:            sanitize.Strings(req.Tags),
		ExperienceLevel: req.ExperienceLevel,
	}
	if job.Type == "" {
		job.Type = domain.JobTypeFullTime
	}
	if job.ExperienceLevel == "" {
		job.ExperienceLevel = domain.ExperienceMid
	}
	if err := u.jobRepo.Create(ctx, job); err != nil {
		return nil, apperror.Internal(err)
	}
	job.Applications = []string{}

	// 5. Notify the owner
	u.emitter.Emit(ctx, u.templates.JobPosted(job))

	return job, nil
}

// GetJob is public. Only the owner sees the application ids.
func (u *jobUsecase) GetJob(ctx context.Context, s *domain.Session, id string) (*domain.Job, error) {
	job, err := u.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "Job not found")
	}

	if s.IsAuthenticated() && s.Role == domain.RoleEmployer && job.CreatedBy == s.UserID {
		ids, err := u.appRepo.IDsByJob(ctx, job.ID)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		job.Applications = ids
	}
	return job, nil
}

func (u *jobUsecase) ListJobs(ctx context.Context, filter domain.JobFilter) (*domain.PaginatedResult[domain.Job], error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperror.BadRequest("Invalid job status filter")
	}
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, apperror.BadRequest("Invalid job type filter")
	}
	filter.Page, filter.Limit = normalizePage(filter.Page, filter.Limit)

	jobs, total, err := u.jobRepo.List(ctx, filter)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &domain.PaginatedResult[domain.Job]{Data: nonNilJobs(jobs), Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// ListEmployerJobs returns every posting of the caller, any status.
func (u *jobUsecase) ListEmployerJobs(ctx context.Context, s *domain.Session, page, limit int) (*domain.PaginatedResult[domain.Job], error) {
	if err := authz.RequireRole(s, domain.RoleEmployer); err != nil {
		return nil, err
	}
	page, limit = normalizePage(page, limit)

	jobs, total, err := u.jobRepo.List(ctx, domain.JobFilter{CreatedBy: s.UserID, Page: page, Limit: limit})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &domain.PaginatedResult[domain.Job]{Data: nonNilJobs(jobs), Total: total, Page: page, Limit: limit}, nil
}

// UpdateJob applies a partial update. Only the owner may edit a posting.
func (u *jobUsecase) UpdateJob(ctx context.Context, s *domain.Session, id string, req domain.UpdateJobRequest) (*domain.Job, error) {
	// 1. Employers only, checked before the lookup
	if err := authz.RequireRole(s, domain.RoleEmployer); err != nil {
		return nil, err
	}

	// 2. Load and check ownership
	job, err := u.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "Job not found")
	}
	if err := authz.RequireJobOwner(s, job); err != nil {
		return nil, err
	}
	previous := job.Status

	// 3. Merge
	if req.Title != nil {
		if job.Title = sanitize.Text(*req.Title); job.Title == "" {
			return nil, apperror.BadRequest("Title cannot be empty")
		}
	}
	if req.Description != nil {
		if job.Description = sanitize.Text(*req.Description); job.Description == "" {
			return nil, apperror.BadRequest("Description cannot be empty")
		}
	}
	if req.Location != nil {
		if job.Location = sanitize.Text(*req.Location); job.Location == "" {
			return nil, apperror.BadRequest("Location cannot be empty")
		}
	}
	if req.Requirements != nil {
		job.Requirements = sanitize.Strings(req.Requirements)
	}
	if req.Tags != nil {
		job.Tags = sanitize.Strings(req.Tags)
	}
	if req.Type != nil {
		job.Type = *req.Type
	}
	if req.ExperienceLevel != nil {
		job.ExperienceLevel = *req.ExperienceLevel
	}
	if req.Status != nil {
		job.Status = *req.Status
	}
	if req.Salary != nil {
		job.Salary = normalizeSalary(*req.Salary)
	}
	if req.Company != nil {
		job.Company = companySnapshot(req.Company, job.Company)
	}
	if job.Salary.Inverted() {
		return nil, apperror.BadRequest(msgSalaryInverted)
	}

	// 4. Persist
	if err := u.jobRepo.Update(ctx, job); err != nil {
		return nil, repoError(err, "Job not found")
	}

	// 5. Closing a posting notifies the owner once
	if previous != domain.JobStatusClosed && job.Status == domain.JobStatusClosed {
		u.emitter.Emit(ctx, u.templates.JobClosed(job))
	}

	return job, nil
}

func normalizeSalary(s domain.Salary) domain.Salary {
	if s.Currency == "" {
		s.Currency = domain.DefaultCurrency
	}
	return s
}

func profileSnapshot(owner *domain.User) domain.CompanySnapshot {
	return domain.CompanySnapshot{
		Name:     owner.Name,
		Industry: owner.CompanyProfile.Industry,
		Size:     owner.CompanyProfile.Size,
		Website:  owner.CompanyProfile.Website,
		Location: owner.CompanyProfile.Location,
	}
}

// companySnapshot cleans in and fills its blank fields from fallback.
func companySnapshot(in *domain.CompanySnapshot, fallback domain.CompanySnapshot) domain.CompanySnapshot {
	if in == nil {
		return fallback
	}
	return domain.CompanySnapshot{
		Name:     orDefault(sanitize.Text(in.Name), fallback.Name),
		Industry: orDefault(sanitize.Text(in.Industry), fallback.Industry),
		Size:     orDefault(sanitize.Text(in.Size), fallback.Size),
		Website:  orDefault(sanitize.Text(in.Website), fallback.Website),
		Location: orDefault(sanitize.Text(in.Location), fallback.Location),
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func nonNilJobs(jobs []domain.Job) []domain.Job {
	if jobs == nil {
		return []domain.Job{}
	}
	return jobs
}
