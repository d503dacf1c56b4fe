package usecase

import (
	"context"
	"math"
	"time"

	"talenthub-backend/internal/authz"
	"talenthub-backend/internal/domain"
	"talenthub-backend/pkg/apperror"
)

const trendMonths = 6

// monthWindow returns the first instant, in UTC, of each of the last n
// months ending with the month containing now. Oldest first.
func monthWindow(now time.Time, n int) []time.Time {
	now = now.UTC()
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	out := make([]time.Time, n)
	for i := 0; i < n; i++ {
		out[i] = current.AddDate(0, i-(n-1), 0)
	}
	return out
}

// bucket zero-fills counts onto the window.
func bucket(window []time.Time, counts []domain.MonthCount) []int64 {
	byMonth := make(map[time.Time]int64, len(counts))
	for _, c := range counts {
		m := c.Month.UTC()
		byMonth[time.Date(m.Year(), m.Month(), 1, 0, 0, 0, 0, time.UTC)] += c.Count
	}
	out := make([]int64, len(window))
	for i, m := range window {
		out[i] = byMonth[m]
	}
	return out
}

func sum[K comparable](m map[K]int64) int64 {
	var total int64
	for _, v := range m {
		total += v
	}
	return total
}

// percentChange is 0 when there is no baseline.
func percentChange(current, previous int64) float64 {
	if previous <= 0 {
		return 0
	}
	return float64(current-previous) / float64(previous) * 100
}

func nonNilApps(apps []domain.Application) []domain.Application {
	if apps == nil {
		return []domain.Application{}
	}
	return apps
}

type employerDashboardUsecase struct {
	dashRepo domain.DashboardRepository
	jobRepo  domain.JobRepository
	appRepo  domain.ApplicationRepository
	now      func() time.Time
}

func NewEmployerDashboardUsecase(dashRepo domain.DashboardRepository, jobRepo domain.JobRepository, appRepo domain.ApplicationRepository, now func() time.Time) domain.EmployerDashboardUsecase {
	if now == nil {
		now = time.Now
	}
	return &employerDashboardUsecase{dashRepo: dashRepo, jobRepo: jobRepo, appRepo: appRepo, now: now}
}

func (u *employerDashboardUsecase) GetDashboard(ctx context.Context, s *domain.Session) (*domain.EmployerDashboard, error) {
	if err := authz.RequireRole(s, domain.RoleEmployer); err != nil {
		return nil, err
	}
	scope := domain.ApplicationScope{EmployerID: s.UserID}
	window := monthWindow(u.now(), 2)

	// 1. Counts
	jobCounts, err := u.dashRepo.CountJobsByStatus(ctx, s.UserID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	appCounts, err := u.dashRepo.CountApplicationsByStatus(ctx, scope)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	monthly, err := u.dashRepo.ApplicationsByMonth(ctx, scope, window[0])
	if err != nil {
		return nil, apperror.Internal(err)
	}
	months := bucket(window, monthly)
	lastMonth, thisMonth := months[0], months[1]

	// 2. Recent lists
	jobs, _, err := u.jobRepo.List(ctx, domain.JobFilter{CreatedBy: s.UserID, Page: 1, Limit: 5})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	apps, _, err := u.appRepo.List(ctx, domain.ApplicationFilter{EmployerID: s.UserID, Page: 1, Limit: 5})
	if err != nil {
		return nil, apperror.Internal(err)
	}

	totalApps := sum(appCounts)
	return &domain.EmployerDashboard{
		Stats: domain.EmployerStats{
			ActiveJobs:        jobCounts[domain.JobStatusActive],
			TotalApplications: totalApps,
			Interviews:        appCounts[domain.ApplicationStatusInterviewed],
			Hired:             appCounts[domain.ApplicationStatusHired],
			Shortlisted:       appCounts[domain.ApplicationStatusShortlisted],
			Rejected:          appCounts[domain.ApplicationStatusRejected],
		},
		Trends: domain.EmployerTrends{
			ApplicationsThisMonth: thisMonth,
			ApplicationsLastMonth: lastMonth,
			ApplicationTrend:      math.Round(percentChange(thisMonth, lastMonth)*10) / 10,
		},
		Jobs: domain.EmployerJobsSummary{
			Total:    sum(jobCounts),
			ByStatus: fillJobStatuses(jobCounts),
			Recent:   nonNilJobs(jobs),
		},
		Applications: domain.EmployerApplicationsSummary{
			Total:    totalApps,
			ByStatus: fillAppStatuses(appCounts),
			Recent:   nonNilApps(apps),
		},
	}, nil
}

func fillJobStatuses(in map[domain.JobStatus]int64) map[domain.JobStatus]int64 {
	out := map[domain.JobStatus]int64{
		domain.JobStatusActive: 0,
		domain.JobStatusPaused: 0,
		domain.JobStatusClosed: 0,
	}
	for k, v := range in {
		out[k] = v
	}
	return out
}

func fillAppStatuses(in map[domain.ApplicationStatus]int64) map[domain.ApplicationStatus]int64 {
	out := make(map[domain.ApplicationStatus]int64, len(domain.ApplicationStatuses))
	for _, st := range domain.ApplicationStatuses {
		out[st] = in[st]
	}
	return out
}

type talentDashboardUsecase struct {
	dashRepo domain.DashboardRepository
	jobRepo  domain.JobRepository
	appRepo  domain.ApplicationRepository
	now      func() time.Time
}

func NewTalentDashboardUsecase(dashRepo domain.DashboardRepository, jobRepo domain.JobRepository, appRepo domain.ApplicationRepository, now func() time.Time) domain.TalentDashboardUsecase {
	if now == nil {
		now = time.Now
	}
	return &talentDashboardUsecase{dashRepo: dashRepo, jobRepo: jobRepo, appRepo: appRepo, now: now}
}

func (u *talentDashboardUsecase) GetDashboard(ctx context.Context, s *domain.Session) (*domain.TalentDashboard, error) {
	if err := authz.RequireRole(s, domain.RoleTalent); err != nil {
		return nil, err
	}
	scope := domain.ApplicationScope{UserID: s.UserID}
	window := monthWindow(u.now(), trendMonths)

	// 1. Counts
	counts, err := u.dashRepo.CountApplicationsByStatus(ctx, scope)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	monthly, err := u.dashRepo.ApplicationsByMonth(ctx, scope, window[0])
	if err != nil {
		return nil, apperror.Internal(err)
	}
	months := bucket(window, monthly)
	current, previous := months[len(months)-1], months[len(months)-2]

	// 2. Lists
	recent, _, err := u.appRepo.List(ctx, domain.ApplicationFilter{UserID: s.UserID, Page: 1, Limit: 5})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	recommended, _, err := u.jobRepo.List(ctx, domain.JobFilter{Status: domain.JobStatusActive, Page: 1, Limit: 6})
	if err != nil {
		return nil, apperror.Internal(err)
	}

	byStatus := make([]domain.StatusCount, 0, len(counts))
	for _, st := range domain.ApplicationStatuses {
		if c := counts[st]; c > 0 {
			byStatus = append(byStatus, domain.StatusCount{Status: st, Count: c})
		}
	}
	points := make([]domain.MonthlyPoint, len(window))
	for i, m := range window {
		points[i] = domain.MonthlyPoint{Month: m.Format("2006-01"), Count: months[i]}
	}

	return &domain.TalentDashboard{
		Stats: domain.TalentStats{
			TotalApplications:        sum(counts),
			CurrentMonthApplications: current,
			ApplicationsChange:       int64(math.Round(percentChange(current, previous))),
		},
		ApplicationsByStatus: byStatus,
		RecentApplications:   nonNilApps(recent),
		RecommendedJobs:      nonNilJobs(recommended),
		MonthlyData:          points,
	}, nil
}
