package domain

import "context"

// CompanyProfileView is what employers read and write about their company.
// Name is the employer's display name and doubles as the company name.
type CompanyProfileView struct {
	Name           string         `json:"name"`
	CompanyProfile CompanyProfile `json:"companyProfile"`
}

type UpdateCompanyProfileRequest struct {
	Name     string `json:"name" binding:"required,max=200,no_emoji"`
	Industry string `json:"industry" binding:"max=100"`
	Size     string `json:"size" binding:"max=50"`
	Website  string `json:"website" binding:"omitempty,url,max=300"`
	Location string `json:"location" binding:"max=200"`
}

type CompanyProfileUsecase interface {
	Get(ctx context.Context, s *Session) (*CompanyProfileView, error)
	Update(ctx context.Context, s *Session, req UpdateCompanyProfileRequest) (*CompanyProfileView, error)
}
