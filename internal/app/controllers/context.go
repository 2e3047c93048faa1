package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mbaylon/interntrack/internal/app/models"
	"github.com/mbaylon/interntrack/internal/app/models/dto"
	"github.com/mbaylon/interntrack/internal/app/roster"
)

// ProgramLister supplies the program-code mapping needed to build a scope
type ProgramLister interface {
	GetAllPrograms(ctx context.Context) ([]models.Program, error)
}

// actorID reads the authenticated user ID set by the auth middleware
func actorID(c *gin.Context) (int64, bool) {
	value, exists := c.Get("userID")
	if !exists {
		return 0, false
	}
	id, ok := value.(int64)
	return id, ok
}

// requestScope builds the caller's visibility scope from the claims the auth
// middleware stored on the context
func requestScope(c *gin.Context, programs ProgramLister) (roster.Scope, error) {
	role := models.RoleType(c.GetString("role"))

	var catalog []models.Program
	if role == models.RoleProgramHead && programs != nil {
		var err error
		catalog, err = programs.GetAllPrograms(c.Request.Context())
		if err != nil {
			return roster.Scope{}, err
		}
	}

	return roster.ScopeFor(role, contextStrings(c, "sections"), contextStrings(c, "programs"), catalog), nil
}

func contextStrings(c *gin.Context, key string) []string {
	value, exists := c.Get(key)
	if !exists {
		return nil
	}
	if s, ok := value.([]string); ok {
		return s
	}
	return nil
}

// badRequest writes a standard validation error response
func badRequest(c *gin.Context, message, details string) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, message)
	if details != "" {
		errorDetail = errorDetail.WithDetails(details)
	}
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
}
