package usecase_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"talenthub-backend/internal/domain"
	"talenthub-backend/internal/usecase"
	"talenthub-backend/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func exportedApp() domain.Application {
	a := *appOnJob("A", "u1", domain.ApplicationStatusShortlisted)
	a.Applicant = domain.ApplicantInfo{FullName: "Una Lee", Email: "una@example.com", Skills: []string{"go", "sql"}}
	a.AppliedAt = fixedNow
	return a
}

func TestExport_OwnerOnly(t *testing.T) {
	apps, jobs := new(MockApplicationRepo), new(MockJobRepo)
	uc := usecase.NewExportUsecase(apps, jobs)
	jobs.On("GetByID", mock.Anything, "J").Return(activeJob(), nil)

	_, err := uc.ExportJobApplications(context.Background(), employerE2, "J", "csv")
	assert.Equal(t, http.StatusForbidden, apperror.CodeOf(err))

	_, err = uc.ExportJobApplications(context.Background(), talentU1, "J", "csv")
	assert.Equal(t, http.StatusForbidden, apperror.CodeOf(err))
	apps.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestExport_CSV(t *testing.T) {
	apps, jobs := new(MockApplicationRepo), new(MockJobRepo)
	uc := usecase.NewExportUsecase(apps, jobs)
	jobs.On("GetByID", mock.Anything, "J").Return(activeJob(), nil)
	apps.On("List", mock.Anything, domain.ApplicationFilter{JobID: "J", EmployerID: "e1", Page: 1, Limit: 100}).
		Return([]domain.Application{exportedApp()}, int64(1), nil)

	file, err := uc.ExportJobApplications(context.Background(), employerE1, "J", "CSV")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.True(t, strings.HasSuffix(file.FileName, ".csv"))

	rows, err := csv.NewReader(bytes.NewReader(file.Content)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "FULL NAME", rows[0][1])
	assert.Equal(t, "Una Lee", rows[1][1])
	assert.Equal(t, "go, sql", rows[1][5])
	assert.Equal(t, "Shortlisted", rows[1][8])
}

func TestExport_CSVEscapesFormulas(t *testing.T) {
	apps, jobs := new(MockApplicationRepo), new(MockJobRepo)
	uc := usecase.NewExportUsecase(apps, jobs)
	a := exportedApp()
	a.Applicant.FullName = `=HYPERLINK("http://evil.example","Una")`
	a.Applicant.Location = "@SUM(1+1)"
	a.Applicant.Phone = "+1 555 0100"
	a.Applicant.Email = "una@example.com"
	jobs.On("GetByID", mock.Anything, "J").Return(activeJob(), nil)
	apps.On("List", mock.Anything, mock.Anything).Return([]domain.Application{a}, int64(1), nil)

	file, err := uc.ExportJobApplications(context.Background(), employerE1, "J", "csv")
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(file.Content)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, `'=HYPERLINK("http://evil.example","Una")`, rows[1][1])
	assert.Equal(t, "una@example.com", rows[1][2])
	assert.Equal(t, "'+1 555 0100", rows[1][3])
	assert.Equal(t, "'@SUM(1+1)", rows[1][4])
	assert.Equal(t, "FULL NAME", rows[0][1])
}

func TestExport_XLSX(t *testing.T) {
	apps, jobs := new(MockApplicationRepo), new(MockJobRepo)
	uc := usecase.NewExportUsecase(apps, jobs)
	jobs.On("GetByID", mock.Anything, "J").Return(activeJob(), nil)
	apps.On("List", mock.Anything, mock.Anything).Return([]domain.Application{exportedApp()}, int64(1), nil)

	file, err := uc.ExportJobApplications(context.Background(), employerE1, "J", "")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(file.Content))
	require.NoError(t, err)
	defer f.Close()
	name, err := f.GetCellValue("Applications", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Una Lee", name)
}

func TestExport_UnknownFormat(t *testing.T) {
	apps, jobs := new(MockApplicationRepo), new(MockJobRepo)
	uc := usecase.NewExportUsecase(apps, jobs)
	jobs.On("GetByID", mock.Anything, "J").Return(activeJob(), nil)

	_, err := uc.ExportJobApplications(context.Background(), employerE1, "J", "pdf")
	assert.Equal(t, http.StatusBadRequest, apperror.CodeOf(err))
}

func resumeReq() domain.ResumeUploadRequest {
	return domain.ResumeUploadRequest{FileName: "My CV.pdf", ContentType: "application/pdf", Size: 2048}
}

func TestPrepareResumeUpload(t *testing.T) {
	store, lim := new(MockStorage), new(MockLimiter)
	uc := usecase.NewUploadUsecase(store, lim, nil, nil)
	expires := fixedNow.Add(15 * time.Minute)

	lim.On("AllowUpload", mock.Anything, "10.0.0.1", "u1").Return(true, 0, nil)
	store.On("PresignPut", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "resumes/u1/") && strings.HasSuffix(key, ".pdf")
	}), "application/pdf", int64(2048)).Return("https://s3.example.com/signed", expires, nil)

	target, err := uc.PrepareResumeUpload(context.Background(), talentU1, "10.0.0.1", resumeReq())
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, target.Method)
	assert.Equal(t, "My_CV.pdf", target.FileName)
	assert.Equal(t, "https://cdn.example.com/"+target.StorageKey, target.FileURL)
	assert.Equal(t, expires, target.ExpiresAt)
}

func TestPrepareResumeUpload_Rejections(t *testing.T) {
	ctx := context.Background()

	t.Run("employer", func(t *testing.T) {
		uc := usecase.NewUploadUsecase(new(MockStorage), new(MockLimiter), nil, nil)
		_, err := uc.PrepareResumeUpload(ctx, employerE1, "ip", resumeReq())
		assert.Equal(t, http.StatusForbidden, apperror.CodeOf(err))
	})

	t.Run("rate limited", func(t *testing.T) {
		lim := new(MockLimiter)
		lim.On("AllowUpload", mock.Anything, "ip", "u1").Return(false, 60, nil)
		uc := usecase.NewUploadUsecase(new(MockStorage), lim, nil, nil)
		_, err := uc.PrepareResumeUpload(ctx, talentU1, "ip", resumeReq())
		assert.Equal(t, http.StatusTooManyRequests, apperror.CodeOf(err))
	})

	t.Run("limiter down", func(t *testing.T) {
		lim := new(MockLimiter)
		lim.On("AllowUpload", mock.Anything, "ip", "u1").Return(false, 60, errors.New("redis down"))
		uc := usecase.NewUploadUsecase(new(MockStorage), lim, nil, nil)
		_, err := uc.PrepareResumeUpload(ctx, talentU1, "ip", resumeReq())
		assert.Equal(t, http.StatusServiceUnavailable, apperror.CodeOf(err))
	})

	t.Run("wrong type", func(t *testing.T) {
		lim := new(MockLimiter)
		lim.On("AllowUpload", mock.Anything, "ip", "u1").Return(true, 0, nil)
		store := new(MockStorage)
		uc := usecase.NewUploadUsecase(store, lim, nil, nil)
		req := resumeReq()
		req.FileName = "cv.exe"
		_, err := uc.PrepareResumeUpload(ctx, talentU1, "ip", req)
		assert.Equal(t, http.StatusBadRequest, apperror.CodeOf(err))
		store.AssertNotCalled(t, "PresignPut", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("storage not configured", func(t *testing.T) {
		uc := usecase.NewUploadUsecase(nil, nil, nil, nil)
		_, err := uc.PrepareResumeUpload(ctx, talentU1, "ip", resumeReq())
		assert.Equal(t, http.StatusServiceUnavailable, apperror.CodeOf(err))
	})
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthCheck(t *testing.T) {
	uc := usecase.NewHealthUsecase(map[string]usecase.Pinger{
		"database": pingFunc(func(context.Context) error { return nil }),
		"redis":    pingFunc(func(context.Context) error { return errors.New("refused") }),
	})
	got := uc.Check(context.Background())
	assert.Equal(t, "degraded", got["status"])
	assert.Equal(t, "up", got["database"])
	assert.Equal(t, "down", got["redis"])

	assert.Equal(t, map[string]string{"status": "ok"}, usecase.NewHealthUsecase(nil).Check(context.Background()))
}
