package dto

import "github.com/mbaylon/interntrack/internal/app/models"

// CompanyResponse represents a partner company in API responses
type CompanyResponse struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Industry      string  `json:"industry,omitempty"`
	Address       string  `json:"address,omitempty"`
	ContactPerson string  `json:"contactPerson,omitempty"`
	ContactEmail  string  `json:"contactEmail,omitempty"`
	Website       *string `json:"website,omitempty"`
	MOAURL        *string `json:"moaUrl,omitempty"`
}

// ProgramResponse represents an academic program
type ProgramResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// FromCompany converts a company model to its response form
func FromCompany(company *models.Company) CompanyResponse {
	return CompanyResponse{
		ID:            company.ID,
		Name:          company.Name,
		Industry:      company.Industry,
		Address:       company.Address,
		ContactPerson: company.ContactPerson,
		ContactEmail:  company.ContactEmail,
		Website:       company.Website,
		MOAURL:        company.MOAURL,
	}
}

// FromProgram converts a program model to its response form
func FromProgram(program *models.Program) ProgramResponse {
	return ProgramResponse{
		ID:   program.ID,
		Name: program.Name,
		Code: program.Code,
	}
}
