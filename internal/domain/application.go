package domain

import (
	"context"
	"strings"
	"time"
)

type ApplicationStatus string

// Application status constants
const (
	ApplicationStatusApplied     ApplicationStatus = "applied"
	ApplicationStatusShortlisted ApplicationStatus = "shortlisted"
	ApplicationStatusInterviewed ApplicationStatus = "interviewed"
	ApplicationStatusRejected    ApplicationStatus = "rejected"
	ApplicationStatusHired       ApplicationStatus = "hired"
)

// ApplicationStatuses lists every status in workflow order.
var ApplicationStatuses = []ApplicationStatus{
	ApplicationStatusApplied,
	ApplicationStatusShortlisted,
	ApplicationStatusInterviewed,
	ApplicationStatusRejected,
	ApplicationStatusHired,
}

func (s ApplicationStatus) Valid() bool {
	for _, v := range ApplicationStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Label is the capitalized display form, e.g. "Shortlisted".
func (s ApplicationStatus) Label() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

type Availability string

const (
	AvailabilityImmediate Availability = "immediate"
	AvailabilityTwoWeeks  Availability = "2-weeks"
	AvailabilityOneMonth  Availability = "1-month"
	AvailabilityThreeMo   Availability = "3-months"
)

func (a Availability) Valid() bool {
	switch a {
	case AvailabilityImmediate, AvailabilityTwoWeeks, AvailabilityOneMonth, AvailabilityThreeMo:
		return true
	}
	return false
}

// ApplicantInfo is the applicant's self-description, snapshotted on submit.
type ApplicantInfo struct {
	FullName       string       `json:"fullName" binding:"required,max=200,no_emoji"`
	Email          string       `json:"email" binding:"required,email,max=254"`
	Phone          string       `json:"phone" binding:"required,valid_phone"`
	Location       string       `json:"location" binding:"required,max=200"`
	Experience     string       `json:"experience" binding:"required,max=5000"`
	Skills         []string     `json:"skills" binding:"max=50,dive,max=100"`
	ExpectedSalary *float64     `json:"expectedSalary,omitempty" binding:"omitempty,gte=0"`
	Availability   Availability `json:"availability" binding:"omitempty,availability"`
}

// Resume points at an object the client already uploaded to storage.
type Resume struct {
	FileName   string `json:"fileName" binding:"required,max=255"`
	URL        string `json:"url" binding:"required,url,max=2048"`
	StorageKey string `json:"storageKey" binding:"required,max=512"`
	Size       int64  `json:"size" binding:"required,gt=0"`
	Type       string `json:"type" binding:"required,max=150"`
}

// JobSummary is the slice of the parent job shown with an application.
type JobSummary struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Company  string    `json:"company"`
	Location string    `json:"location"`
	Type     JobType   `json:"type"`
	Status   JobStatus `json:"status"`
	OwnerID  string    `json:"-"`
}

type ApplicantSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image,omitempty"`
}

// Application represents one talent user's submission against one job
type Application struct {
	ID             string            `json:"id"`
	JobID          string            `json:"jobId"`
	UserID         string            `json:"userId"`
	Status         ApplicationStatus `json:"status"`
	Applicant      ApplicantInfo     `json:"applicant"`
	CoverLetter    string            `json:"coverLetter,omitempty"`
	Resume         *Resume           `json:"resume,omitempty"`
	InterviewNotes string            `json:"interviewNotes,omitempty"`
	AppliedAt      time.Time         `json:"appliedAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`

	// Joined data for read responses
	Job  *JobSummary       `json:"job,omitempty"`
	User *ApplicantSummary `json:"user,omitempty"`
}

type SubmitApplicationRequest struct {
	JobID       string        `json:"jobId" binding:"required,uuid"`
	Applicant   ApplicantInfo `json:"applicant" binding:"required"`
	CoverLetter string        `json:"coverLetter" binding:"max=10000"`
	Resume      *Resume       `json:"resume"`
}

// TransitionRequest moves an application and/or edits interview notes.
type TransitionRequest struct {
	Status         *ApplicationStatus `json:"status" binding:"omitempty,app_status"`
	InterviewNotes *string            `json:"interviewNotes" binding:"omitempty,max=10000"`
}

type ApplicationFilter struct {
	JobID      string
	UserID     string // applicant
	EmployerID string // owner of the parent job
	Status     ApplicationStatus
	Page       int
	Limit      int
}

// ApplicationScope narrows aggregate queries. Empty fields mean "all".
type ApplicationScope struct {
	UserID     string
	EmployerID string
}

// ApplicationRepository defines data access methods for applications
type ApplicationRepository interface {
	// Create returns ErrDuplicate when (job, user) already has an application.
	Create(ctx context.Context, app *Application) error
	GetByID(ctx context.Context, id string) (*Application, error)
	List(ctx context.Context, filter ApplicationFilter) ([]Application, int64, error)
	Exists(ctx context.Context, jobID, userID string) (bool, error)
	// UpdateStatus writes the new status only if the row still holds from.
	// Returns ErrConflict when it does not.
	UpdateStatus(ctx context.Context, id string, from, to ApplicationStatus, notes *string) (*Application, error)
	IDsByJob(ctx context.Context, jobID string) ([]string, error)
}

// ApplicationUsecase defines business logic for applications
type ApplicationUsecase interface {
	Submit(ctx context.Context, s *Session, req SubmitApplicationRequest) (*Application, error)
	List(ctx context.Context, s *Session, filter ApplicationFilter) (*PaginatedResult[Application], error)
	Get(ctx context.Context, s *Session, id string) (*Application, error)
	Transition(ctx context.Context, s *Session, id string, req TransitionRequest) (*Application, error)
}

// ExportFile is a rendered spreadsheet ready to stream.
type ExportFile struct {
	Content     []byte
	FileName    string
	ContentType string
}

type ExportUsecase interface {
	ExportJobApplications(ctx context.Context, s *Session, jobID, format string) (*ExportFile, error)
}
