package usecase_test

import (
	"context"
	"sync"
	"time"

	"talenthub-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

// Mock Repositories
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Upsert(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) AssignRole(ctx context.Context, id string, role domain.Role) (*domain.User, error) {
	args := m.Called(ctx, id, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepo) UpdateCompanyProfile(ctx context.Context, id, name string, p domain.CompanyProfile) (*domain.User, error) {
	args := m.Called(ctx, id, name, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockJobRepo struct {
	mock.Mock
}

func (m *MockJobRepo) Create(ctx context.Context, job *domain.Job) error {
	return m.Called(ctx, job).Error(0)
}

func (m *MockJobRepo) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Job), args.Error(1)
}

func (m *MockJobRepo) List(ctx context.Context, f domain.JobFilter) ([]domain.Job, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Job), args.Get(1).(int64), args.Error(2)
}

func (m *MockJobRepo) Update(ctx context.Context, job *domain.Job) error {
	return m.Called(ctx, job).Error(0)
}

type MockApplicationRepo struct {
	mock.Mock
}

func (m *MockApplicationRepo) Create(ctx context.Context, app *domain.Application) error {
	return m.Called(ctx, app).Error(0)
}

func (m *MockApplicationRepo) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockApplicationRepo) List(ctx context.Context, f domain.ApplicationFilter) ([]domain.Application, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Application), args.Get(1).(int64), args.Error(2)
}

func (m *MockApplicationRepo) Exists(ctx context.Context, jobID, userID string) (bool, error) {
	args := m.Called(ctx, jobID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockApplicationRepo) UpdateStatus(ctx context.Context, id string, from, to domain.ApplicationStatus, notes *string) (*domain.Application, error) {
	args := m.Called(ctx, id, from, to, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *MockApplicationRepo) IDsByJob(ctx context.Context, jobID string) ([]string, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *MockNotificationRepo) List(ctx context.Context, f domain.NotificationFilter, now time.Time) ([]domain.Notification, error) {
	args := m.Called(ctx, f, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *MockNotificationRepo) CountUnread(ctx context.Context, userID string, c domain.NotificationCategory, now time.Time) (int64, error) {
	args := m.Called(ctx, userID, c, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepo) MarkRead(ctx context.Context, id, userID string) (*domain.Notification, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Notification), args.Error(1)
}

func (m *MockNotificationRepo) MarkAllRead(ctx context.Context, userID string, c domain.NotificationCategory) (int64, error) {
	args := m.Called(ctx, userID, c)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepo) Delete(ctx context.Context, id, userID string) error {
	return m.Called(ctx, id, userID).Error(0)
}

func (m *MockNotificationRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type MockDashboardRepo struct {
	mock.Mock
}

func (m *MockDashboardRepo) CountUsersByRole(ctx context.Context) (map[domain.Role]int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[domain.Role]int64), args.Error(1)
}

func (m *MockDashboardRepo) CountJobsByStatus(ctx context.Context, createdBy string) (map[domain.JobStatus]int64, error) {
	args := m.Called(ctx, createdBy)
	return args.Get(0).(map[domain.JobStatus]int64), args.Error(1)
}

func (m *MockDashboardRepo) CountApplicationsByStatus(ctx context.Context, scope domain.ApplicationScope) (map[domain.ApplicationStatus]int64, error) {
	args := m.Called(ctx, scope)
	return args.Get(0).(map[domain.ApplicationStatus]int64), args.Error(1)
}

func (m *MockDashboardRepo) JobsByMonth(ctx context.Context, since time.Time) ([]domain.MonthCount, error) {
	args := m.Called(ctx, since)
	return args.Get(0).([]domain.MonthCount), args.Error(1)
}

func (m *MockDashboardRepo) ApplicationsByMonth(ctx context.Context, scope domain.ApplicationScope, since time.Time) ([]domain.MonthCount, error) {
	args := m.Called(ctx, scope, since)
	return args.Get(0).([]domain.MonthCount), args.Error(1)
}

func (m *MockDashboardRepo) TopCompanies(ctx context.Context, limit int) ([]domain.CompanyJobCount, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.CompanyJobCount), args.Error(1)
}

// MockEmitter records every notification it is asked to send.
type MockEmitter struct {
	mu   sync.Mutex
	sent []*domain.Notification
}

func (m *MockEmitter) Emit(_ context.Context, n *domain.Notification) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, n)
}

func (m *MockEmitter) Sent() []*domain.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.Notification(nil), m.sent...)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) PresignPut(ctx context.Context, key, contentType string, size int64) (string, time.Time, error) {
	args := m.Called(ctx, key, contentType, size)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockStorage) PublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

type MockLimiter struct {
	mock.Mock
}

func (m *MockLimiter) AllowUpload(ctx context.Context, ip, userID string) (bool, int, error) {
	args := m.Called(ctx, ip, userID)
	return args.Bool(0), args.Int(1), args.Error(2)
}

// Sessions used across tests
var (
	talentU1   = &domain.Session{UserID: "u1", Name: "Una", Role: domain.RoleTalent}
	talentU2   = &domain.Session{UserID: "u2", Name: "Ugo", Role: domain.RoleTalent}
	employerE1 = &domain.Session{UserID: "e1", Name: "Acme", Role: domain.RoleEmployer}
	employerE2 = &domain.Session{UserID: "e2", Name: "Globex", Role: domain.RoleEmployer}
	adminA     = &domain.Session{UserID: "a1", Role: domain.RoleAdmin}
	newcomer   = &domain.Session{UserID: "n1", Role: domain.RoleUnassigned}
)
