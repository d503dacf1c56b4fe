package domain

import "context"

// AdminStats contains platform-wide totals
type AdminStats struct {
	TotalJobs         int64 `json:"totalJobs"`
	ActiveJobs        int64 `json:"activeJobs"`
	TotalApplications int64 `json:"totalApplications"`
	TotalUsers        int64 `json:"totalUsers"`
	TotalEmployers    int64 `json:"totalEmployers"`
	TotalTalents      int64 `json:"totalTalents"`
}

type JobTrendPoint struct {
	Month string `json:"month"` // "Jan 2026"
	Jobs  int64  `json:"jobs"`
}

type ApplicationTrendPoint struct {
	Month        string `json:"month"`
	Applications int64  `json:"applications"`
}

type StatusSlice struct {
	Name  string `json:"name"` // "Applied", "Shortlisted", ...
	Value int64  `json:"value"`
}

type CompanyJobCount struct {
	Name     string `json:"name"`
	JobCount int64  `json:"jobCount"`
	Industry string `json:"industry"`
}

// AdminDashboard is aggregate-only: it never exposes per-record
// applicant data beyond the recent lists.
type AdminDashboard struct {
	Stats                      AdminStats              `json:"stats"`
	JobTrends                  []JobTrendPoint         `json:"jobTrends"`
	ApplicationTrends          []ApplicationTrendPoint `json:"applicationTrends"`
	ApplicationStatusBreakdown []StatusSlice           `json:"applicationStatusBreakdown"`
	TopCompanies               []CompanyJobCount       `json:"topCompanies"`
	RecentJobs                 []Job                   `json:"recentJobs"`
	RecentApplications         []Application           `json:"recentApplications"`
}

// PaginatedResult for list responses
type PaginatedResult[T any] struct {
	Data  []T   `json:"data"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// Pages returns the number of pages needed for Total at Limit per page.
func (p *PaginatedResult[T]) Pages() int {
	if p.Limit <= 0 {
		return 0
	}
	return int((p.Total + int64(p.Limit) - 1) / int64(p.Limit))
}

type AdminUsecase interface {
	GetDashboard(ctx context.Context, s *Session) (*AdminDashboard, error)
}
