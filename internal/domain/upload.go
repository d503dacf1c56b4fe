package domain

import (
	"context"
	"time"
)

type ResumeUploadRequest struct {
	FileName    string `json:"fileName" binding:"required,max=255"`
	ContentType string `json:"contentType" binding:"required,max=150"`
	Size        int64  `json:"size" binding:"required,gt=0"`
}

// ResumeUploadTarget tells the client where to PUT the file. The returned
// fields are what the client later sends back as the application resume.
type ResumeUploadTarget struct {
	UploadURL  string    `json:"uploadUrl"`
	Method     string    `json:"method"`
	ExpiresAt  time.Time `json:"expiresAt"`
	StorageKey string    `json:"storageKey"`
	FileURL    string    `json:"fileUrl"`
	FileName   string    `json:"fileName"`
	Size       int64     `json:"size"`
	Type       string    `json:"type"`
}

// ObjectStorage presigns direct uploads. The service never handles file bytes.
type ObjectStorage interface {
	PresignPut(ctx context.Context, key, contentType string, size int64) (url string, expiresAt time.Time, err error)
	PublicURL(key string) string
}

type UploadUsecase interface {
	PrepareResumeUpload(ctx context.Context, s *Session, clientIP string, req ResumeUploadRequest) (*ResumeUploadTarget, error)
}
