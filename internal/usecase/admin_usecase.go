package usecase

import (
	"context"
	"sort"
	"time"

	"talenthub-backend/internal/authz"
	"talenthub-backend/internal/domain"
	"talenthub-backend/pkg/apperror"
)

const (
	topCompaniesLimit = 10
	adminRecentLimit  = 10
)

type adminUsecase struct {
	dashRepo domain.DashboardRepository
	jobRepo  domain.JobRepository
	appRepo  domain.ApplicationRepository
	now      func() time.Time
}

// NewAdminUsecase creates the platform dashboard usecase. now is the
// clock used for month buckets.
func NewAdminUsecase(dashRepo domain.DashboardRepository, jobRepo domain.JobRepository, appRepo domain.ApplicationRepository, now func() time.Time) domain.AdminUsecase {
	if now == nil {
		now = time.Now
	}
	return &adminUsecase{dashRepo: dashRepo, jobRepo: jobRepo, appRepo: appRepo, now: now}
}

// GetDashboard aggregates platform-wide stats. An empty store yields zero
// counts and empty arrays.
func (u *adminUsecase) GetDashboard(ctx context.Context, s *domain.Session) (*domain.AdminDashboard, error) {
	// 1. Admin only
	if err := authz.RequireRole(s, domain.RoleAdmin); err != nil {
		return nil, err
	}
	window := monthWindow(u.now(), trendMonths)

	// 2. Totals
	users, err := u.dashRepo.CountUsersByRole(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	jobs, err := u.dashRepo.CountJobsByStatus(ctx, "")
	if err != nil {
		return nil, apperror.Internal(err)
	}
	apps, err := u.dashRepo.CountApplicationsByStatus(ctx, domain.ApplicationScope{})
	if err != nil {
		return nil, apperror.Internal(err)
	}

	// 3. Six-month trends
	jobMonths, err := u.dashRepo.JobsByMonth(ctx, window[0])
	if err != nil {
		return nil, apperror.Internal(err)
	}
	appMonths, err := u.dashRepo.ApplicationsByMonth(ctx, domain.ApplicationScope{}, window[0])
	if err != nil {
		return nil, apperror.Internal(err)
	}
	jobBuckets := bucket(window, jobMonths)
	appBuckets := bucket(window, appMonths)
	jobTrends := make([]domain.JobTrendPoint, len(window))
	appTrends := make([]domain.ApplicationTrendPoint, len(window))
	for i, m := range window {
		label := m.Format("Jan 2006")
		jobTrends[i] = domain.JobTrendPoint{Month: label, Jobs: jobBuckets[i]}
		appTrends[i] = domain.ApplicationTrendPoint{Month: label, Applications: appBuckets[i]}
	}

	// 4. Top companies and recent activity
	companies, err := u.dashRepo.TopCompanies(ctx, topCompaniesLimit)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if companies == nil {
		companies = []domain.CompanyJobCount{}
	}
	recentJobs, _, err := u.jobRepo.List(ctx, domain.JobFilter{Page: 1, Limit: adminRecentLimit})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	recentApps, _, err := u.appRepo.List(ctx, domain.ApplicationFilter{Page: 1, Limit: adminRecentLimit})
	if err != nil {
		return nil, apperror.Internal(err)
	}

	return &domain.AdminDashboard{
		Stats: domain.AdminStats{
			TotalJobs:         sum(jobs),
			ActiveJobs:        jobs[domain.JobStatusActive],
			TotalApplications: sum(apps),
			TotalUsers:        sum(users),
			TotalEmployers:    users[domain.RoleEmployer],
			TotalTalents:      users[domain.RoleTalent],
		},
		JobTrends:                  jobTrends,
		ApplicationTrends:          appTrends,
		ApplicationStatusBreakdown: statusBreakdown(apps),
		TopCompanies:               companies,
		RecentJobs:                 nonNilJobs(recentJobs),
		RecentApplications:         nonNilApps(recentApps),
	}, nil
}

// statusBreakdown sorts by count descending, then name ascending. Zero
// counts are omitted.
func statusBreakdown(counts map[domain.ApplicationStatus]int64) []domain.StatusSlice {
	out := make([]domain.StatusSlice, 0, len(counts))
	for st, c := range counts {
		if c > 0 {
			out = append(out, domain.StatusSlice{Name: st.Label(), Value: c})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Name < out[j].Name
	})
	return out
}
