package usecase

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"talenthub-backend/internal/authz"
	"talenthub-backend/internal/domain"
	"talenthub-backend/pkg/apperror"
	"talenthub-backend/pkg/metrics"
	"talenthub-backend/pkg/security"

	"github.com/google/uuid"
)

// UploadLimiter caps how often one client may request upload URLs.
type UploadLimiter interface {
	AllowUpload(ctx context.Context, ip, userID string) (bool, int, error)
}

type uploadUsecase struct {
	storage domain.ObjectStorage
	limiter UploadLimiter
	metrics metrics.MetricsCollector
	audit   *security.SecurityLogger
}

func NewUploadUsecase(storage domain.ObjectStorage, limiter UploadLimiter, m metrics.MetricsCollector, audit *security.SecurityLogger) domain.UploadUsecase {
	if m == nil {
		m = metrics.Nop{}
	}
	return &uploadUsecase{storage: storage, limiter: limiter, metrics: m, audit: audit}
}

// PrepareResumeUpload validates the declared file and returns a presigned
// PUT target under the caller's own key prefix.
func (u *uploadUsecase) PrepareResumeUpload(ctx context.Context, s *domain.Session, clientIP string, req domain.ResumeUploadRequest) (*domain.ResumeUploadTarget, error) {
	// 1. Job seekers only
	if err := authz.RequireRole(s, domain.RoleTalent); err != nil {
		return nil, err
	}
	if u.storage == nil {
		return nil, apperror.Unavailable("File uploads are not configured")
	}

	// 2. Rate limit
	if u.limiter != nil {
		allowed, retryAfter, err := u.limiter.AllowUpload(ctx, clientIP, s.UserID)
		if err != nil {
			return nil, apperror.Unavailable("Upload service temporarily unavailable")
		}
		if !allowed {
			u.metrics.RecordRateLimited("upload")
			u.audit.Log(ctx, security.SecurityEvent{
				Event:     security.EventRateLimitTriggered,
				UserID:    s.UserID,
				IP:        clientIP,
				RequestID: requestID(ctx),
				Details:   map[string]interface{}{"scope": "upload", "retry_after": retryAfter},
			})
			return nil, apperror.New(http.StatusTooManyRequests, fmt.Sprintf("Too many uploads. Try again in %d seconds", retryAfter), nil)
		}
	}

	// 3. Validate declared metadata
	if err := security.ValidateResume(req.FileName, req.ContentType, req.Size); err != nil {
		u.audit.Log(ctx, security.SecurityEvent{
			Event:     security.EventUploadRejected,
			UserID:    s.UserID,
			IP:        clientIP,
			RequestID: requestID(ctx),
			Details:   map[string]interface{}{"reason": err.Error()},
		})
		return nil, apperror.New(http.StatusBadRequest, "Invalid resume: "+err.Error(), err)
	}

	// 4. Presign
	name := security.SanitizeFileName(req.FileName)
	key := resumePrefix(s.UserID) + uuid.NewString() + strings.ToLower(filepath.Ext(name))
	url, expiresAt, err := u.storage.PresignPut(ctx, key, req.ContentType, req.Size)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	return &domain.ResumeUploadTarget{
		UploadURL:  url,
		Method:     http.MethodPut,
		ExpiresAt:  expiresAt,
		StorageKey: key,
		FileURL:    u.storage.PublicURL(key),
		FileName:   name,
		Size:       req.Size,
		Type:       req.ContentType,
	}, nil
}
