package services

import (
	"context"

	"github.com/mbaylon/interntrack/internal/app/models"
	"github.com/mbaylon/interntrack/internal/app/repositories"
)

// CompanyService exposes the read-only partner company listings
type CompanyService struct {
	companyRepo *repositories.CompanyRepository
	programRepo *repositories.ProgramRepository
}

// NewCompanyService creates a new company service instance
func NewCompanyService(companyRepo *repositories.CompanyRepository, programRepo *repositories.ProgramRepository) *CompanyService {
	return &CompanyService{
		companyRepo: companyRepo,
		programRepo: programRepo,
	}
}

// GetCompanies lists partner companies, optionally filtered by a search term
func (s *CompanyService) GetCompanies(ctx context.Context, search string) ([]models.Company, error) {
	return s.companyRepo.GetAll(ctx, search)
}

// GetCompany retrieves one company
func (s *CompanyService) GetCompany(ctx context.Context, id int64) (*models.Company, error) {
	return s.companyRepo.GetByID(ctx, id)
}

// GetPrograms lists the academic program catalog
func (s *CompanyService) GetPrograms(ctx context.Context) ([]models.Program, error) {
	return s.programRepo.GetAllPrograms(ctx)
}
