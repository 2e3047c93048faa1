package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mbaylon/interntrack/internal/app/models/dto"
	"github.com/mbaylon/interntrack/internal/app/services"
	"github.com/mbaylon/interntrack/internal/middleware"
	"github.com/mbaylon/interntrack/internal/pkg/helpers"
)

// NotificationController handles notification operations
type NotificationController struct {
	notificationService *services.NotificationService
	programs            ProgramLister
}

// NewNotificationController creates a new NotificationController
func NewNotificationController(notificationService *services.NotificationService, programs ProgramLister) *NotificationController {
	return &NotificationController{
		notificationService: notificationService,
		programs:            programs,
	}
}

// CreateNotification publishes a notification
// @Summary Create notification
// @Description Publishes a notification targeted at everyone, selected students or one section
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateNotificationRequest true "Notification content and target"
// @Success 201 {object} dto.APIResponse{data=dto.NotificationResponse} "Notification created"
// @Failure 400 {object} dto.ErrorResponse "Invalid message or target"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Section outside the caller's scope"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /notifications [post]
func (c *NotificationController) CreateNotification(ctx *gin.Context) {
	var req dto.CreateNotificationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Invalid notification data", err.Error())
		return
	}

	scope, err := requestScope(ctx, c.programs)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	userID, _ := actorID(ctx)
	notification, err := c.notificationService.Create(ctx, scope, &req, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      dto.FromNotification(notification),
		Timestamp: time.Now(),
	})
}

// ListNotifications returns notifications newest first
// @Summary List notifications
// @Description Returns a page of notifications, newest first
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param page query int false "1-based page number"
// @Param size query int false "Page size (max 100)"
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse} "Notifications"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /notifications [get]
func (c *NotificationController) ListNotifications(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	notifications, total, err := c.notificationService.List(ctx, offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	responses := make([]dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		responses = append(responses, dto.FromNotification(&notifications[i]))
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.PaginatedResponse{
			Items:      responses,
			Pagination: helpers.NewPaginationInfo(total, page, size),
		},
		Timestamp: time.Now(),
	})
}

// DeleteNotification removes a notification
// @Summary Delete notification
// @Description Removes one notification by ID
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 204 "Notification deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid notification ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Notification not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /notifications/{id} [delete]
func (c *NotificationController) DeleteNotification(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	if err := c.notificationService.Delete(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
