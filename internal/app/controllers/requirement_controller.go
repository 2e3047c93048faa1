package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mbaylon/interntrack/internal/app/models/dto"
	"github.com/mbaylon/interntrack/internal/app/services"
	"github.com/mbaylon/interntrack/internal/middleware"
)

// RequirementController handles requirement document review
type RequirementController struct {
	requirementService *services.RequirementService
	programs           ProgramLister
}

// NewRequirementController creates a new RequirementController
func NewRequirementController(requirementService *services.RequirementService, programs ProgramLister) *RequirementController {
	return &RequirementController{
		requirementService: requirementService,
		programs:           programs,
	}
}

// GetStudentRequirements lists a student's requirement documents
// @Summary Get student requirements
// @Description Returns the student's requirement documents with their review status
// @Tags requirements
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.RequirementResponse} "Requirements"
// @Failure 400 {object} dto.ErrorResponse "Invalid student ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Student not found or out of scope"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id}/requirements [get]
func (c *RequirementController) GetStudentRequirements(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	scope, err := requestScope(ctx, c.programs)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	requirements, err := c.requirementService.GetStudentRequirements(ctx, scope, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	responses := make([]dto.RequirementResponse, 0, len(requirements))
	for i := range requirements {
		responses = append(responses, dto.FromRequirement(&requirements[i], fileMeta))
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: responses, Timestamp: time.Now()})
}

// UpdateRequirementStatus reviews one requirement document
// @Summary Update requirement status
// @Description Sets the review status of one requirement to accepted, denied or pending
// @Tags requirements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param name path string true "Requirement name"
// @Param request body dto.UpdateRequirementStatusRequest true "New status"
// @Success 200 {object} dto.APIResponse{data=dto.RequirementResponse} "Requirement updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid status value"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Student or requirement not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id}/requirements/{name} [put]
func (c *RequirementController) UpdateRequirementStatus(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	name := ctx.Param("name")
	if name == "" {
		badRequest(ctx, "Invalid requirement name", "Requirement name must not be empty")
		return
	}

	var req dto.UpdateRequirementStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid status data", err.Error())
		return
	}

	scope, err := requestScope(ctx, c.programs)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	reviewerID, _ := actorID(ctx)
	requirement, err := c.requirementService.UpdateStatus(ctx, scope, id, name, req.Status, reviewerID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.FromRequirement(requirement, fileMeta),
		Timestamp: time.Now(),
	})
}

// DownloadRequirementFile serves one attached requirement file
// @Summary Download requirement file
// @Description Serves one requirement attachment, decoding inline payloads and redirecting to stored files
// @Tags requirements
// @Produce octet-stream
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param name path string true "Requirement name"
// @Param index path int true "0-based file index"
// @Success 200 {file} binary "File content"
// @Failure 302 "Redirect to the stored file"
// @Failure 400 {object} dto.ErrorResponse "Invalid parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "File not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id}/requirements/{name}/files/{index} [get]
func (c *RequirementController) DownloadRequirementFile(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}
	name := ctx.Param("name")
	index, err := strconv.Atoi(ctx.Param("index"))
	if err != nil || index < 0 {
		badRequest(ctx, "Invalid file index", "File index must be a non-negative number")
		return
	}

	scope, err := requestScope(ctx, c.programs)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	file, err := c.requirementService.ResolveFile(ctx, scope, id, name, index)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if file.RedirectURL != "" {
		ctx.Redirect(http.StatusFound, file.RedirectURL)
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="`+file.Name+`"`)
	ctx.Data(http.StatusOK, file.ContentType, file.Data)
}
