package notify

import (
	"fmt"
	"time"

	"talenthub-backend/internal/domain"
)

// DefaultTTL is how long a notification stays visible.
const DefaultTTL = 90 * 24 * time.Hour

// Templates renders every notification the platform sends.
type Templates struct {
	TTL time.Duration
	Now func() time.Time
}

func NewTemplates(ttl time.Duration) Templates {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return Templates{TTL: ttl, Now: time.Now}
}

func (t Templates) base(userID string, typ domain.NotificationType, category domain.NotificationCategory, priority domain.NotificationPriority) *domain.Notification {
	now := time.Now
	if t.Now != nil {
		now = t.Now
	}
	ttl := t.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &domain.Notification{
		UserID:    userID,
		Type:      typ,
		Category:  category,
		Priority:  priority,
		ExpiresAt: now().UTC().Add(ttl),
	}
}

func (t Templates) JobPosted(job *domain.Job) *domain.Notification {
	n := t.base(job.CreatedBy, domain.NotificationJobPosted, domain.CategoryJob, domain.PriorityMedium)
	n.Title = "Job Posted Successfully"
	n.Message = fmt.Sprintf("Your job posting \"%s\" has been published and is now visible to candidates.", job.Title)
	n.Data = domain.NotificationData{JobID: job.ID}
	return n
}

func (t Templates) JobClosed(job *domain.Job) *domain.Notification {
	n := t.base(job.CreatedBy, domain.NotificationJobClosed, domain.CategoryJob, domain.PriorityMedium)
	n.Title = "Job Closed"
	n.Message = fmt.Sprintf("Your job posting \"%s\" has been closed and no longer accepts applications.", job.Title)
	n.Data = domain.NotificationData{JobID: job.ID}
	return n
}

// ApplicationReceived goes to the job owner.
func (t Templates) ApplicationReceived(app *domain.Application, job *domain.Job) *domain.Notification {
	n := t.base(job.CreatedBy, domain.NotificationJobApplicationReceived, domain.CategoryApplication, domain.PriorityHigh)
	n.Title = "New Job Application"
	n.Message = fmt.Sprintf("%s has applied for your \"%s\" position.", app.Applicant.FullName, job.Title)
	n.Data = domain.NotificationData{JobID: job.ID, ApplicationID: app.ID, UserID: job.CreatedBy}
	return n
}

// StatusChanged goes to the applicant. A rejected application moved back
// to applied is reported as reconsidered; other moves without a dedicated
// type fall back to the generic status change.
func (t Templates) StatusChanged(app *domain.Application, jobTitle, company string, from, to domain.ApplicationStatus) *domain.Notification {
	typ := domain.NotificationType("application_" + string(to))
	label := to.Label()
	if domain.IsReconsider(from, to) {
		typ = domain.NotificationApplicationReconsidered
		label = "Reconsidered"
	}
	if !typ.Valid() {
		typ = domain.NotificationJobApplicationStatusChanged
	}

	priority := domain.PriorityHigh
	if to == domain.ApplicationStatusHired {
		priority = domain.PriorityUrgent
	}

	n := t.base(app.UserID, typ, domain.CategoryApplication, priority)
	n.Title = "Application " + label
	n.Message = statusMessage(jobTitle, company, from, to)
	n.Data = domain.NotificationData{
		ApplicationID: app.ID,
		JobID:         app.JobID,
		OldStatus:     string(from),
		NewStatus:     string(to),
	}
	return n
}

func statusMessage(job, company string, from, to domain.ApplicationStatus) string {
	if domain.IsReconsider(from, to) {
		return fmt.Sprintf("Good news! Your application for \"%s\" at %s is being reconsidered.", job, company)
	}
	switch to {
	case domain.ApplicationStatusShortlisted:
		return fmt.Sprintf("Congratulations! You've been shortlisted for \"%s\" at %s.", job, company)
	case domain.ApplicationStatusInterviewed:
		return fmt.Sprintf("Great news! You've been selected for an interview for \"%s\" at %s.", job, company)
	case domain.ApplicationStatusHired:
		return fmt.Sprintf("🎉 You've been hired for \"%s\" at %s! Welcome to the team!", job, company)
	case domain.ApplicationStatusRejected:
		return fmt.Sprintf("Thank you for your interest in \"%s\" at %s. Unfortunately, we won't be moving forward with your application at this time.", job, company)
	}
	return fmt.Sprintf("Your application status for \"%s\" at %s has changed from %s to %s.", job, company, from, to)
}

func (t Templates) CompanyProfileUpdated(userID string) *domain.Notification {
	n := t.base(userID, domain.NotificationCompanyProfileUpdated, domain.CategoryProfile, domain.PriorityLow)
	n.Title = "Company Profile Updated"
	n.Message = "Your company profile has been successfully updated."
	return n
}

func (t Templates) Welcome(userID, name string) *domain.Notification {
	if name == "" {
		name = "there"
	}
	n := t.base(userID, domain.NotificationWelcome, domain.CategorySystem, domain.PriorityMedium)
	n.Title = "Welcome to Talent Hub! 🎉"
	n.Message = fmt.Sprintf("Hi %s, welcome to Talent Hub! We're excited to have you on board. Start exploring jobs or posting positions to get started.", name)
	return n
}
