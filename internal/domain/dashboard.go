package domain

import (
	"context"
	"time"
)

// MonthCount is one bucket of a month-grouped count. Month is the first
// instant of the month in UTC.
type MonthCount struct {
	Month time.Time
	Count int64
}

type EmployerStats struct {
	ActiveJobs        int64 `json:"activeJobs"`
	TotalApplications int64 `json:"totalApplications"`
	Interviews        int64 `json:"interviews"`
	Hired             int64 `json:"hired"`
	Shortlisted       int64 `json:"shortlisted"`
	Rejected          int64 `json:"rejected"`
}

type EmployerTrends struct {
	ApplicationsThisMonth int64   `json:"applicationsThisMonth"`
	ApplicationsLastMonth int64   `json:"applicationsLastMonth"`
	ApplicationTrend      float64 `json:"applicationTrend"` // percent, one decimal
}

type EmployerJobsSummary struct {
	Total    int64               `json:"total"`
	ByStatus map[JobStatus]int64 `json:"byStatus"`
	Recent   []Job               `json:"recent"`
}

type EmployerApplicationsSummary struct {
	Total    int64                       `json:"total"`
	ByStatus map[ApplicationStatus]int64 `json:"byStatus"`
	Recent   []Application               `json:"recent"`
}

type EmployerDashboard struct {
	Stats        EmployerStats               `json:"stats"`
	Trends       EmployerTrends              `json:"trends"`
	Jobs         EmployerJobsSummary         `json:"jobs"`
	Applications EmployerApplicationsSummary `json:"applications"`
}

type TalentStats struct {
	TotalApplications        int64 `json:"totalApplications"`
	CurrentMonthApplications int64 `json:"currentMonthApplications"`
	ApplicationsChange       int64 `json:"applicationsChange"` // rounded percent
	ProfileViews             int64 `json:"profileViews"`
	Rating                   int64 `json:"rating"`
}

type StatusCount struct {
	Status ApplicationStatus `json:"status"`
	Count  int64             `json:"count"`
}

type MonthlyPoint struct {
	Month string `json:"month"` // "2026-05"
	Count int64  `json:"count"`
}

type TalentDashboard struct {
	Stats                TalentStats    `json:"stats"`
	ApplicationsByStatus []StatusCount  `json:"applicationsByStatus"`
	RecentApplications   []Application  `json:"recentApplications"`
	RecommendedJobs      []Job          `json:"recommendedJobs"`
	MonthlyData          []MonthlyPoint `json:"monthlyData"`
}

// DashboardRepository runs the aggregate queries behind every dashboard.
type DashboardRepository interface {
	CountUsersByRole(ctx context.Context) (map[Role]int64, error)
	// CountJobsByStatus counts all jobs, or only createdBy's when set.
	CountJobsByStatus(ctx context.Context, createdBy string) (map[JobStatus]int64, error)
	CountApplicationsByStatus(ctx context.Context, scope ApplicationScope) (map[ApplicationStatus]int64, error)
	// Month-grouped counts for rows created at or after since.
	JobsByMonth(ctx context.Context, since time.Time) ([]MonthCount, error)
	ApplicationsByMonth(ctx context.Context, scope ApplicationScope, since time.Time) ([]MonthCount, error)
	TopCompanies(ctx context.Context, limit int) ([]CompanyJobCount, error)
}

type EmployerDashboardUsecase interface {
	GetDashboard(ctx context.Context, s *Session) (*EmployerDashboard, error)
}

type TalentDashboardUsecase interface {
	GetDashboard(ctx context.Context, s *Session) (*TalentDashboard, error)
}
