package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mbaylon/interntrack/internal/app/models/dto"
	"github.com/mbaylon/interntrack/internal/app/roster"
	"github.com/mbaylon/interntrack/internal/app/services"
	"github.com/mbaylon/interntrack/internal/middleware"
)

const maxImportSize = 10 << 20

// AdminController handles bulk import/export, avatar migration and the audit log
type AdminController struct {
	importService  *services.ImportService
	exportService  *services.ExportService
	avatarService  *services.AvatarService
	studentService *services.StudentService
	auditService   *services.AuditService
	programs       ProgramLister
}

// NewAdminController creates a new AdminController
func NewAdminController(
	importService *services.ImportService,
	exportService *services.ExportService,
	avatarService *services.AvatarService,
	studentService *services.StudentService,
	auditService *services.AuditService,
	programs ProgramLister,
) *AdminController {
	return &AdminController{
		importService:  importService,
		exportService:  exportService,
		avatarService:  avatarService,
		studentService: studentService,
		auditService:   auditService,
		programs:       programs,
	}
}

// ImportStudents bulk-imports students from a CSV upload
// @Summary Import students from CSV
// @Description Imports students from an uploaded CSV file. Duplicate student numbers are skipped and reported; malformed rows are reported without stopping the batch.
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "CSV file with a header row"
// @Success 200 {object} dto.APIResponse{data=dto.ImportReport} "Import report"
// @Failure 400 {object} dto.ErrorResponse "Missing file or unusable header"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/students/import [post]
func (c *AdminController) ImportStudents(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		badRequest(ctx, "Missing CSV file", "Upload the CSV under the \"file\" form field")
		return
	}
	if fileHeader.Size > maxImportSize {
		badRequest(ctx, "File too large", fmt.Sprintf("CSV uploads are limited to %d bytes", maxImportSize))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer file.Close()

	userID, _ := actorID(ctx)
	report, err := c.importService.ImportCSV(ctx, file, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: report, Timestamp: time.Now()})
}

// ExportStudentsCSV exports the visible roster as CSV
// @Summary Export students as CSV
// @Description Streams the caller's visible roster as a CSV download
// @Tags admin
// @Produce text/csv
// @Security BearerAuth
// @Param search query string false "Substring filter applied before export"
// @Param hired query bool false "Filter on the hire flag"
// @Success 200 {file} binary "CSV content"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/students/export/csv [get]
func (c *AdminController) ExportStudentsCSV(ctx *gin.Context) {
	scope, filters, err := c.exportContext(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="students.csv"`)
	ctx.Header("Content-Type", "text/csv")
	if err := c.exportService.ExportCSV(ctx, scope, filters, c.studentService.RequiredDocuments(), ctx.Writer); err != nil {
		middleware.HandleAPIError(ctx, err)
	}
}

// ExportStudentsXLSX exports the visible roster as an Excel workbook
// @Summary Export students as XLSX
// @Description Streams the caller's visible roster as an Excel download
// @Tags admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param search query string false "Substring filter applied before export"
// @Param hired query bool false "Filter on the hire flag"
// @Success 200 {file} binary "XLSX content"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/students/export/xlsx [get]
func (c *AdminController) ExportStudentsXLSX(ctx *gin.Context) {
	scope, filters, err := c.exportContext(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="students.xlsx"`)
	ctx.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := c.exportService.ExportXLSX(ctx, scope, filters, c.studentService.RequiredDocuments(), ctx.Writer); err != nil {
		middleware.HandleAPIError(ctx, err)
	}
}

// MigrateAvatars moves every remaining inline avatar into blob storage
// @Summary Migrate inline avatars
// @Description Moves every inline data-URL avatar into blob storage and rewrites the photo reference. Failures are reported per record.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.AvatarMigrationReport} "Migration report"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/avatars/migrate [post]
func (c *AdminController) MigrateAvatars(ctx *gin.Context) {
	report, err := c.avatarService.MigrateAll(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: report, Timestamp: time.Now()})
}

// MigrateStudentAvatar migrates one student's inline avatar
// @Summary Migrate one avatar
// @Description Moves one student's inline avatar into blob storage
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Avatar migrated"
// @Failure 400 {object} dto.ErrorResponse "Student has no inline avatar"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/avatars/migrate/{id} [post]
func (c *AdminController) MigrateStudentAvatar(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	url, err := c.avatarService.MigrateOne(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Avatar migrated to " + url},
		Timestamp: time.Now(),
	})
}

// GetAuditLog lists recent audit entries
// @Summary Audit log
// @Description Lists the most recent audit entries, newest first. Admin only.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum entries to return (default 50, max 500)"
// @Success 200 {object} dto.APIResponse{data=[]models.AuditEntry} "Audit entries"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/audit [get]
func (c *AdminController) GetAuditLog(ctx *gin.Context) {
	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}

	entries, err := c.auditService.Recent(ctx, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: entries, Timestamp: time.Now()})
}

func (c *AdminController) exportContext(ctx *gin.Context) (roster.Scope, roster.Filters, error) {
	scope, err := requestScope(ctx, c.programs)
	if err != nil {
		return roster.Scope{}, roster.Filters{}, err
	}

	filters := roster.Filters{Search: ctx.Query("search")}
	if raw, present := ctx.GetQuery("hired"); present {
		if hired, err := strconv.ParseBool(raw); err == nil {
			filters.Hired = &hired
		}
	}
	if raw, present := ctx.GetQuery("openToRelocation"); present {
		if open, err := strconv.ParseBool(raw); err == nil {
			filters.OpenToRelocation = &open
		}
	}
	return scope, filters, nil
}
