package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mbaylon/interntrack/internal/app/models"
	"github.com/mbaylon/interntrack/internal/app/models/dto"
	"github.com/mbaylon/interntrack/internal/app/roster"
	"github.com/mbaylon/interntrack/internal/app/services"
	"github.com/mbaylon/interntrack/internal/middleware"
	"github.com/mbaylon/interntrack/internal/pkg/filekind"
	"github.com/mbaylon/interntrack/internal/pkg/helpers"
)

// StudentController handles student roster operations
type StudentController struct {
	studentService *services.StudentService
	programs       ProgramLister
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService *services.StudentService, programs ProgramLister) *StudentController {
	return &StudentController{
		studentService: studentService,
		programs:       programs,
	}
}

// ListStudents returns one roster page
// @Summary List students
// @Description Returns the filtered, sorted and paginated roster visible to the caller
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param search query string false "Substring match on name, program, email, contact number or student number"
// @Param hired query bool false "Filter on the hire flag"
// @Param openToRelocation query bool false "Filter on the relocation flag"
// @Param allApproved query bool false "Keep only students with every required document accepted"
// @Param sortBy query string false "Sort key" Enums(name, studentNo, program, section, email, contactNumber, hired, requirements, createdAt)
// @Param sortDesc query bool false "Sort descending"
// @Param page query int false "1-based page number"
// @Param size query int false "Page size (max 100)"
// @Success 200 {object} dto.APIResponse{data=dto.StudentListResponse} "Roster page"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Failure 503 {object} dto.ErrorResponse "Backend unavailable"
// @Router /students [get]
func (c *StudentController) ListStudents(ctx *gin.Context) {
	var req dto.ListStudentsRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		badRequest(ctx, "Invalid query parameters", err.Error())
		return
	}

	scope, err := requestScope(ctx, c.programs)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	result, err := c.studentService.List(ctx, scope, roster.Query{
		Filters: roster.Filters{
			Search:           req.Search,
			Hired:            req.Hired,
			OpenToRelocation: req.OpenToRelocation,
			AllApproved:      req.AllApproved,
		},
		SortKey:  req.SortBy,
		SortDesc: req.SortDesc,
		Page:     page,
		PageSize: size,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      c.toListResponse(result),
		Timestamp: time.Now(),
	})
}

// GetStudent retrieves one student
// @Summary Get student by ID
// @Description Retrieves one student record if the caller's scope covers it
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse} "Student"
// @Failure 400 {object} dto.ErrorResponse "Invalid student ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Student not found or out of scope"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id} [get]
func (c *StudentController) GetStudent(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	scope, err := requestScope(ctx, c.programs)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	student, err := c.studentService.GetByID(ctx, scope, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      c.toResponse(student),
		Timestamp: time.Now(),
	})
}

// CreateStudent adds a student record
// @Summary Create student
// @Description Creates a new student record; the student number must be unique
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateStudentRequest true "Student information"
// @Success 201 {object} dto.APIResponse{data=dto.StudentResponse} "Student created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 409 {object} dto.ErrorResponse "Student number already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students [post]
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid student data", err.Error())
		return
	}

	userID, _ := actorID(ctx)
	student, err := c.studentService.Create(ctx, &req, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      c.toResponse(student),
		Timestamp: time.Now(),
	})
}

// UpdateStudent applies a partial update
// @Summary Update student
// @Description Applies a partial update to a student inside the caller's scope
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param request body dto.UpdateStudentRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse} "Student updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Student not found or out of scope"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id} [put]
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	var req dto.UpdateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid student data", err.Error())
		return
	}

	scope, err := requestScope(ctx, c.programs)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	userID, _ := actorID(ctx)
	student, err := c.studentService.Update(ctx, scope, id, &req, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      c.toResponse(student),
		Timestamp: time.Now(),
	})
}

// DeleteStudent removes a student record
// @Summary Delete student
// @Description Removes a student; the full record is archived before removal
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 204 "Student deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid student ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Student not found or out of scope"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id} [delete]
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	scope, err := requestScope(ctx, c.programs)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	userID, _ := actorID(ctx)
	if err := c.studentService.Delete(ctx, scope, id, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// BatchDeleteStudents removes several students at once
// @Summary Batch delete students
// @Description Removes the named students sequentially. Each record is archived before removal; failures are reported per record without stopping the batch.
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BatchDeleteStudentsRequest true "Student IDs to remove"
// @Success 200 {object} dto.APIResponse{data=dto.BatchDeleteReport} "Batch report"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/batch-delete [post]
func (c *StudentController) BatchDeleteStudents(ctx *gin.Context) {
	var req dto.BatchDeleteStudentsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid batch delete data", err.Error())
		return
	}

	scope, err := requestScope(ctx, c.programs)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	userID, _ := actorID(ctx)
	report := c.studentService.DeleteMany(ctx, scope, req.IDs, userID)
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: report, Timestamp: time.Now()})
}

// ListDeletedStudents returns archived deletion snapshots
// @Summary List deleted students
// @Description Lists archived copies of removed student records. Admin only.
// @Tags students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.DeletedStudentResponse} "Archived records"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/deleted [get]
func (c *StudentController) ListDeletedStudents(ctx *gin.Context) {
	records, err := c.studentService.ListDeleted(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	responses := make([]dto.DeletedStudentResponse, 0, len(records))
	for i := range records {
		responses = append(responses, deletedResponse(&records[i]))
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: responses, Timestamp: time.Now()})
}

func (c *StudentController) toResponse(student *models.Student) dto.StudentResponse {
	return dto.FromStudent(student, c.studentService.RequiredDocuments(), fileMeta)
}

func (c *StudentController) toListResponse(page *roster.Page) dto.StudentListResponse {
	students := make([]dto.StudentResponse, 0, len(page.Students))
	for i := range page.Students {
		students = append(students, c.toResponse(&page.Students[i]))
	}
	return dto.StudentListResponse{
		Students:   students,
		Pagination: helpers.NewPaginationInfo(int64(page.TotalItems), page.Page, page.PageSize),
	}
}

func fileMeta(url string) (string, bool) {
	category := filekind.Detect(url)
	return string(category), category.Previewable()
}

func deletedResponse(record *models.DeletedStudent) dto.DeletedStudentResponse {
	response := dto.DeletedStudentResponse{
		ID:        record.ID,
		StudentNo: record.StudentNo,
		DeletedAt: record.DeletedAt,
	}
	var snapshot models.Student
	if err := json.Unmarshal(record.Snapshot, &snapshot); err == nil {
		response.FullName = snapshot.FullName()
		response.Program = snapshot.Program
		response.Section = snapshot.Section
	}
	return response
}

// pathID parses the :id path parameter, writing the error response itself
func pathID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(ctx, "Invalid student ID", "Student ID must be a positive number")
		return 0, false
	}
	return id, true
}
