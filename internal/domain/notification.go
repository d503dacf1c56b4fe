package domain

import (
	"context"
	"time"
)

type NotificationType string

const (
	NotificationJobPosted                   NotificationType = "job_posted"
	NotificationJobApplicationReceived      NotificationType = "job_application_received"
	NotificationJobApplicationStatusChanged NotificationType = "job_application_status_changed"
	NotificationJobExpired                  NotificationType = "job_expired"
	NotificationJobClosed                   NotificationType = "job_closed"
	NotificationApplicationSubmitted        NotificationType = "application_submitted"
	NotificationApplicationShortlisted      NotificationType = "application_shortlisted"
	NotificationApplicationInterviewed      NotificationType = "application_interviewed"
	NotificationApplicationHired            NotificationType = "application_hired"
	NotificationApplicationRejected         NotificationType = "application_rejected"
	NotificationApplicationReconsidered     NotificationType = "application_reconsidered"
	NotificationProfileUpdated              NotificationType = "profile_updated"
	NotificationCompanyProfileUpdated       NotificationType = "company_profile_updated"
	NotificationWelcome                     NotificationType = "welcome"
	NotificationAccountVerified             NotificationType = "account_verified"
	NotificationPasswordReset               NotificationType = "password_reset"
	NotificationNewMessage                  NotificationType = "new_message"
	NotificationReminderInterview           NotificationType = "reminder_interview"
	NotificationReminderJobExpiry           NotificationType = "reminder_job_expiry"
)

var notificationTypes = map[NotificationType]bool{
	NotificationJobPosted: true, NotificationJobApplicationReceived: true,
	NotificationJobApplicationStatusChanged: true, NotificationJobExpired: true,
	NotificationJobClosed: true, NotificationApplicationSubmitted: true,
	NotificationApplicationShortlisted: true, NotificationApplicationInterviewed: true,
	NotificationApplicationHired: true, NotificationApplicationRejected: true,
	NotificationApplicationReconsidered: true, NotificationProfileUpdated: true,
	NotificationCompanyProfileUpdated: true, NotificationWelcome: true,
	NotificationAccountVerified: true, NotificationPasswordReset: true,
	NotificationNewMessage: true, NotificationReminderInterview: true,
	NotificationReminderJobExpiry: true,
}

func (t NotificationType) Valid() bool {
	return notificationTypes[t]
}

type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "low"
	PriorityMedium NotificationPriority = "medium"
	PriorityHigh   NotificationPriority = "high"
	PriorityUrgent NotificationPriority = "urgent"
)

type NotificationCategory string

const (
	CategoryJob         NotificationCategory = "job"
	CategoryApplication NotificationCategory = "application"
	CategoryProfile     NotificationCategory = "profile"
	CategorySystem      NotificationCategory = "system"
	CategoryMessage     NotificationCategory = "message"
)

func (c NotificationCategory) Valid() bool {
	switch c {
	case CategoryJob, CategoryApplication, CategoryProfile, CategorySystem, CategoryMessage:
		return true
	}
	return false
}

type NotificationData struct {
	JobID         string     `json:"jobId,omitempty"`
	ApplicationID string     `json:"applicationId,omitempty"`
	UserID        string     `json:"userId,omitempty"`
	CompanyID     string     `json:"companyId,omitempty"`
	OldStatus     string     `json:"oldStatus,omitempty"`
	NewStatus     string     `json:"newStatus,omitempty"`
	ScheduledDate *time.Time `json:"scheduledDate,omitempty"`
	MessageID     string     `json:"messageId,omitempty"`
}

// Notification is an informational record addressed to one user.
type Notification struct {
	ID        string               `json:"id"`
	UserID    string               `json:"userId"`
	Type      NotificationType     `json:"type"`
	Title     string               `json:"title"`
	Message   string               `json:"message"`
	Data      NotificationData     `json:"data"`
	IsRead    bool                 `json:"isRead"`
	Priority  NotificationPriority `json:"priority"`
	Category  NotificationCategory `json:"category"`
	ExpiresAt time.Time            `json:"expiresAt"`
	CreatedAt time.Time            `json:"createdAt"`
}

type NotificationFilter struct {
	UserID     string
	Limit      int
	Skip       int
	UnreadOnly bool
	Category   NotificationCategory
}

type NotificationRepository interface {
	// Create returns ErrDuplicate when a per-job notification already exists.
	Create(ctx context.Context, n *Notification) error
	// List and CountUnread never return notifications expired before now.
	List(ctx context.Context, filter NotificationFilter, now time.Time) ([]Notification, error)
	CountUnread(ctx context.Context, userID string, category NotificationCategory, now time.Time) (int64, error)
	MarkRead(ctx context.Context, id, userID string) (*Notification, error)
	MarkAllRead(ctx context.Context, userID string, category NotificationCategory) (int64, error)
	Delete(ctx context.Context, id, userID string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// NotificationEmitter dispatches a notification without blocking the caller.
// Delivery is best-effort and failures never reach the caller.
type NotificationEmitter interface {
	Emit(ctx context.Context, n *Notification)
}

type NotificationList struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int64          `json:"unreadCount"`
}

type NotificationUsecase interface {
	List(ctx context.Context, s *Session, filter NotificationFilter) (*NotificationList, error)
	MarkAsRead(ctx context.Context, s *Session, id string) (*Notification, error)
	MarkAllAsRead(ctx context.Context, s *Session, category NotificationCategory) (int64, error)
	Delete(ctx context.Context, s *Session, id string) error
	SendWelcome(ctx context.Context, s *Session) (*Notification, error)
}
