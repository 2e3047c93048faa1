package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mbaylon/interntrack/internal/app/models/dto"
	"github.com/mbaylon/interntrack/internal/app/services"
	"github.com/mbaylon/interntrack/internal/middleware"
)

// CompanyController handles partner company and program catalog reads
type CompanyController struct {
	companyService *services.CompanyService
}

// NewCompanyController creates a new CompanyController
func NewCompanyController(companyService *services.CompanyService) *CompanyController {
	return &CompanyController{companyService: companyService}
}

// GetCompanies lists partner companies
// @Summary List companies
// @Description Lists partner companies, optionally filtered by a name or industry search
// @Tags companies
// @Produce json
// @Security BearerAuth
// @Param search query string false "Substring match on name or industry"
// @Success 200 {object} dto.APIResponse{data=[]dto.CompanyResponse} "Companies"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /companies [get]
func (c *CompanyController) GetCompanies(ctx *gin.Context) {
	companies, err := c.companyService.GetCompanies(ctx, ctx.Query("search"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	responses := make([]dto.CompanyResponse, 0, len(companies))
	for i := range companies {
		responses = append(responses, dto.FromCompany(&companies[i]))
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: responses, Timestamp: time.Now()})
}

// GetCompany retrieves one partner company
// @Summary Get company by ID
// @Description Retrieves one partner company
// @Tags companies
// @Produce json
// @Security BearerAuth
// @Param id path int true "Company ID"
// @Success 200 {object} dto.APIResponse{data=dto.CompanyResponse} "Company"
// @Failure 400 {object} dto.ErrorResponse "Invalid company ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Company not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /companies/{id} [get]
func (c *CompanyController) GetCompany(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	company, err := c.companyService.GetCompany(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: dto.FromCompany(company), Timestamp: time.Now()})
}

// GetPrograms lists the program catalog
// @Summary List programs
// @Description Lists the academic program catalog used for program-head scoping
// @Tags companies
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.ProgramResponse} "Programs"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /programs [get]
func (c *CompanyController) GetPrograms(ctx *gin.Context) {
	programs, err := c.companyService.GetPrograms(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	responses := make([]dto.ProgramResponse, 0, len(programs))
	for i := range programs {
		responses = append(responses, dto.FromProgram(&programs[i]))
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: responses, Timestamp: time.Now()})
}
