package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/educollab-analytics/internal/dto"
	"github.com/noah-isme/educollab-analytics/internal/events"
	"github.com/noah-isme/educollab-analytics/internal/repository"
)

// ActivityService logs and lists user activity events.
type ActivityService interface {
	RecordActivity(ctx context.Context, userID uint, payload dto.ActivityCreateRequest) (dto.ActivityCreatedResponse, error)
	ListUserActivities(ctx context.Context, userID uint, limit int) ([]dto.ActivityResponse, error)
}

type activityService struct {
	repo      repository.ActivityRepository
	publisher events.Publisher
	validator *validator.Validate
	logger    zerolog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// NewActivityService constructs the activity service. A nil publisher disables event
// forwarding.
func NewActivityService(repo repository.ActivityRepository, publisher events.Publisher, validate *validator.Validate, logger zerolog.Logger) ActivityService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &activityService{
		repo:      repo,
		publisher: publisher,
		validator: validate,
		logger:    logger.With().Str("component", "activity_service").Logger(),
		tracer:    otel.Tracer("github.com/noah-isme/educollab-analytics/internal/service/activity"),
		now:       time.Now,
	}
}

// RecordActivity stores an activity without checking that the user exists.
func (s *activityService) RecordActivity(ctx context.Context, userID uint, payload dto.ActivityCreateRequest) (dto.ActivityCreatedResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ActivityCreatedResponse{}, err
	}

	spanCtx, span := s.tracer.Start(ctx, "activity.record", trace.WithAttributes(
		attribute.Int64("activity.user_id", int64(userID)),
		attribute.String("activity.type", *payload.ActivityType),
	))
	defer span.End()

	event, err := s.repo.Create(spanCtx, int64(userID), *payload.ActivityType, payload.Details, payload.CourseID)
	if err != nil {
		span.RecordError(err)
		return dto.ActivityCreatedResponse{}, err
	}

	response := dto.NewActivityResponse(event)
	if err := s.publisher.Publish(spanCtx, events.Envelope{
		Kind:       events.KindActivity,
		ID:         response.ID,
		OccurredAt: s.now().UTC(),
		Payload:    response,
	}); err != nil {
		s.logger.Warn().Err(err).Str("activity_id", response.ID).Msg("failed to publish activity event")
	}

	s.logger.Debug().Uint("user_id", userID).Str("activity_type", event.ActivityType).Msg("activity recorded")
	return dto.ActivityCreatedResponse{ActivityID: response.ID}, nil
}

func (s *activityService) ListUserActivities(ctx context.Context, userID uint, limit int) ([]dto.ActivityResponse, error) {
	if limit <= 0 {
		limit = repository.DefaultActivityLimit
	}

	spanCtx, span := s.tracer.Start(ctx, "activity.list", trace.WithAttributes(
		attribute.Int64("activity.user_id", int64(userID)),
		attribute.Int("activity.limit", limit),
	))
	defer span.End()

	activities, err := s.repo.ListByUser(spanCtx, int64(userID), int64(limit))
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return dto.NewActivityResponseSlice(activities), nil
}
