package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mbaylon/interntrack/internal/app/models"
	"github.com/mbaylon/interntrack/internal/app/models/dto"
	"github.com/mbaylon/interntrack/internal/app/roster"
	"github.com/mbaylon/interntrack/internal/pkg/apperrors"
	"github.com/mbaylon/interntrack/internal/pkg/events"
	"github.com/mbaylon/interntrack/internal/pkg/live"
	"github.com/mbaylon/interntrack/internal/pkg/metrics"
)

// NotificationStore is the persistence surface for notifications
type NotificationStore interface {
	CreateWithPrune(ctx context.Context, notification *models.Notification, retention int) error
	GetByID(ctx context.Context, id int64) (*models.Notification, error)
	GetAll(ctx context.Context, offset uint64, limit int) ([]models.Notification, int64, error)
	Delete(ctx context.Context, id int64) error
}

// NotificationStudentStore resolves targeted students for event scoping
type NotificationStudentStore interface {
	GetByID(ctx context.Context, id int64) (*models.Student, error)
}

// NotificationService composes and dispatches notifications
type NotificationService struct {
	notifications NotificationStore
	students      NotificationStudentStore
	feed          FeedPublisher
	broker        events.Publisher
	retention     int
	logger        zerolog.Logger
}

// NewNotificationService creates a new notification service instance
func NewNotificationService(
	notifications NotificationStore,
	students NotificationStudentStore,
	feed FeedPublisher,
	broker events.Publisher,
	retention int,
	logger zerolog.Logger,
) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		students:      students,
		feed:          feed,
		broker:        broker,
		retention:     retention,
		logger:        logger,
	}
}

// Create validates and dispatches a notification. Coordinators may only
// target sections they are assigned to; admins target anything.
func (s *NotificationService) Create(ctx context.Context, scope roster.Scope, req *dto.CreateNotificationRequest, actorID int64) (*models.Notification, error) {
	target, err := buildTarget(req)
	if err != nil {
		return nil, err
	}
	if err := target.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidTarget, err.Error())
	}

	if target.Kind == models.TargetSection && !scope.AllowsSection(target.Section) {
		return nil, apperrors.NewForbiddenError(fmt.Sprintf("section %s is outside your assignment", target.Section))
	}

	notification := &models.Notification{
		Message:   strings.TrimSpace(req.Message),
		Target:    target,
		CreatedBy: &actorID,
	}
	if notification.Message == "" {
		return nil, apperrors.NewBadRequestError("notification message is required")
	}

	if err := s.notifications.CreateWithPrune(ctx, notification, s.retention); err != nil {
		return nil, err
	}
	metrics.NotificationsCreated.Inc()

	s.publishFeedEvents(ctx, notification, target)

	if err := s.broker.Publish(ctx, "notification.created", notification); err != nil {
		// Broker delivery is best-effort; the notification is persisted
		s.logger.Warn().Err(err).Int64("notificationID", notification.ID).Msg("Failed to publish notification event")
	}

	s.logger.Info().Int64("notificationID", notification.ID).
		Str("targetKind", string(target.Kind)).Msg("Notification dispatched")
	return notification, nil
}

// publishFeedEvents scopes the live event to the notification's audience.
// Student-targeted notifications resolve each student's grouping and publish
// one event per distinct section, so only staff covering those students
// receive a push. Unresolvable IDs are skipped; the record is still listed.
func (s *NotificationService) publishFeedEvents(ctx context.Context, notification *models.Notification, target models.NotificationTarget) {
	payload := dto.FromNotification(notification)

	if target.Kind != models.TargetStudents {
		s.feed.Publish(&live.Event{
			Type:    live.EventNotificationCreated,
			Section: target.Section,
			Payload: payload,
		})
		return
	}

	type grouping struct{ section, program string }
	seen := make(map[grouping]bool)
	for _, id := range target.StudentIDs {
		student, err := s.students.GetByID(ctx, id)
		if err != nil {
			continue
		}
		seen[grouping{student.Section, student.Program}] = true
	}
	for g := range seen {
		s.feed.Publish(&live.Event{
			Type:    live.EventNotificationCreated,
			Section: g.section,
			Program: g.program,
			Payload: payload,
		})
	}
}

// List returns notifications newest first
func (s *NotificationService) List(ctx context.Context, offset uint64, limit int) ([]models.Notification, int64, error) {
	return s.notifications.GetAll(ctx, offset, limit)
}

// Delete removes a notification
func (s *NotificationService) Delete(ctx context.Context, id int64) error {
	return s.notifications.Delete(ctx, id)
}

func buildTarget(req *dto.CreateNotificationRequest) (models.NotificationTarget, error) {
	switch models.NotificationTargetKind(strings.ToUpper(strings.TrimSpace(req.TargetKind))) {
	case models.TargetAll:
		return models.AllTarget(), nil
	case models.TargetStudents:
		return models.StudentsTarget(req.StudentIDs), nil
	case models.TargetSection:
		return models.SectionTarget(strings.TrimSpace(req.Section)), nil
	default:
		return models.NotificationTarget{}, fmt.Errorf("%w: unknown kind %q", apperrors.ErrInvalidTarget, req.TargetKind)
	}
}
