package domain

import (
	"context"
	"time"
)

type JobType string

const (
	JobTypeFullTime   JobType = "full-time"
	JobTypePartTime   JobType = "part-time"
	JobTypeContract   JobType = "contract"
	JobTypeInternship JobType = "internship"
)

func (t JobType) Valid() bool {
	switch t {
	case JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship:
		return true
	}
	return false
}

type ExperienceLevel string

const (
	ExperienceEntry  ExperienceLevel = "entry"
	ExperienceJunior ExperienceLevel = "junior"
	ExperienceMid    ExperienceLevel = "mid"
	ExperienceSenior ExperienceLevel = "senior"
	ExperienceLead   ExperienceLevel = "lead"
)

func (l ExperienceLevel) Valid() bool {
	switch l {
	case ExperienceEntry, ExperienceJunior, ExperienceMid, ExperienceSenior, ExperienceLead:
		return true
	}
	return false
}

type JobStatus string

const (
	JobStatusActive JobStatus = "active"
	JobStatusPaused JobStatus = "paused"
	JobStatusClosed JobStatus = "closed"
)

func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusActive, JobStatusPaused, JobStatusClosed:
		return true
	}
	return false
}

const DefaultCurrency = "USD"

type Salary struct {
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
	Currency string   `json:"currency"`
}

// Inverted reports whether both bounds are set and min exceeds max.
func (s Salary) Inverted() bool {
	return s.Min != nil && s.Max != nil && *s.Min > *s.Max
}

// CompanySnapshot is copied onto the job at creation time.
type CompanySnapshot struct {
	Name     string `json:"name"`
	Industry string `json:"industry"`
	Size     string `json:"size"`
	Website  string `json:"website"`
	Location string `json:"location"`
}

type Job struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Requirements    []string        `json:"requirements"`
	Location        string          `json:"location"`
	Type            JobType         `json:"type"`
	Salary          Salary          `json:"salary"`
	Company         CompanySnapshot `json:"company"`
	Status          JobStatus       `json:"status"`
	CreatedBy       string          `json:"createdBy"`
	Tags            []string        `json:"tags"`
	ExperienceLevel ExperienceLevel `json:"experienceLevel"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`

	// Derived from the applications table, never stored on the job row
	ApplicationCount int64    `json:"applicationCount"`
	Applications     []string `json:"applications,omitempty"` // owner only
}

// CreateJobRequest carries the employer's input for a new posting.
type CreateJobRequest struct {
	Title           string           `json:"title" binding:"required,max=200"`
	Description     string           `json:"description" binding:"required,max=20000"`
	Requirements    []string         `json:"requirements" binding:"max=50,dive,max=500"`
	Location        string           `json:"location" binding:"required,max=200"`
	Type            JobType          `json:"type" binding:"omitempty,job_type"`
	Salary          *Salary          `json:"salary"`
	Company         *CompanySnapshot `json:"company"`
	Tags            []string         `json:"tags" binding:"max=30,dive,max=50"`
	ExperienceLevel ExperienceLevel  `json:"experienceLevel" binding:"omitempty,experience_level"`
}

// UpdateJobRequest is a partial update; nil fields are left untouched.
type UpdateJobRequest struct {
	Title           *string          `json:"title" binding:"omitempty,min=1,max=200"`
	Description     *string          `json:"description" binding:"omitempty,min=1,max=20000"`
	Requirements    []string         `json:"requirements" binding:"max=50,dive,max=500"`
	Location        *string          `json:"location" binding:"omitempty,min=1,max=200"`
	Type            *JobType         `json:"type" binding:"omitempty,job_type"`
	Salary          *Salary          `json:"salary"`
	Company         *CompanySnapshot `json:"company"`
	Status          *JobStatus       `json:"status" binding:"omitempty,job_status"`
	Tags            []string         `json:"tags" binding:"max=30,dive,max=50"`
	ExperienceLevel *ExperienceLevel `json:"experienceLevel" binding:"omitempty,experience_level"`
}

type JobFilter struct {
	Status    JobStatus
	Type      JobType
	Location  string // case-insensitive substring
	Search    string // full-text over title, description, requirements, tags
	CreatedBy string
	Page      int
	Limit     int
}

type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	// GetByID fills ApplicationCount but not Applications.
	GetByID(ctx context.Context, id string) (*Job, error)
	List(ctx context.Context, filter JobFilter) ([]Job, int64, error)
	Update(ctx context.Context, job *Job) error
}

type JobUsecase interface {
	CreateJob(ctx context.Context, s *Session, req CreateJobRequest) (*Job, error)
	GetJob(ctx context.Context, s *Session, id string) (*Job, error)
	ListJobs(ctx context.Context, filter JobFilter) (*PaginatedResult[Job], error)
	ListEmployerJobs(ctx context.Context, s *Session, page, limit int) (*PaginatedResult[Job], error)
	UpdateJob(ctx context.Context, s *Session, id string, req UpdateJobRequest) (*Job, error)
}
