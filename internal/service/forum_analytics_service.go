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
	"github.com/noah-isme/educollab-analytics/internal/models"
	"github.com/noah-isme/educollab-analytics/internal/repository"
)

// ForumAnalyticsService records forum interactions and aggregates them.
type ForumAnalyticsService interface {
	RecordInteraction(ctx context.Context, payload dto.ForumInteractionRequest) (dto.InteractionCreatedResponse, error)
	ListPostInteractions(ctx context.Context, postID uint) ([]dto.ForumInteractionResponse, error)
	GetUserForumStats(ctx context.Context, userID uint) (models.ForumStats, error)
}

type forumAnalyticsService struct {
	users        repository.UserRepository
	posts        repository.ForumPostRepository
	interactions repository.ForumInteractionRepository
	publisher    events.Publisher
	validator    *validator.Validate
	logger       zerolog.Logger
	tracer       trace.Tracer
	now          func() time.Time
}

// NewForumAnalyticsService constructs the forum analytics service.
func NewForumAnalyticsService(users repository.UserRepository, posts repository.ForumPostRepository, interactions repository.ForumInteractionRepository, publisher events.Publisher, validate *validator.Validate, logger zerolog.Logger) ForumAnalyticsService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &forumAnalyticsService{
		users:        users,
		posts:        posts,
		interactions: interactions,
		publisher:    publisher,
		validator:    validate,
		logger:       logger.With().Str("component", "forum_analytics_service").Logger(),
		tracer:       otel.Tracer("github.com/noah-isme/educollab-analytics/internal/service/forum_analytics"),
		now:          time.Now,
	}
}

// RecordInteraction checks the user before the post, so a request naming two
// unknown ids reports the user.
func (s *forumAnalyticsService) RecordInteraction(ctx context.Context, payload dto.ForumInteractionRequest) (dto.InteractionCreatedResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.InteractionCreatedResponse{}, err
	}
	userID, postID := *payload.UserID, *payload.PostID
	interactionType := *payload.InteractionType

	spanCtx, span := s.tracer.Start(ctx, "forum_analytics.record", trace.WithAttributes(
		attribute.Int64("forum.user_id", int64(userID)),
		attribute.Int64("forum.post_id", int64(postID)),
		attribute.String("forum.interaction_type", interactionType),
	))
	defer span.End()

	if _, err := lookupUser(spanCtx, s.users, userID); err != nil {
		return dto.InteractionCreatedResponse{}, err
	}
	if _, err := lookupPost(spanCtx, s.posts, postID); err != nil {
		return dto.InteractionCreatedResponse{}, err
	}

	interaction, err := s.interactions.Record(spanCtx, int64(userID), int64(postID), interactionType, payload.Details)
	if err != nil {
		span.RecordError(err)
		return dto.InteractionCreatedResponse{}, err
	}

	response := dto.NewForumInteractionResponse(interaction)
	if err := s.publisher.Publish(spanCtx, events.Envelope{
		Kind:       events.KindForumInteraction,
		ID:         response.ID,
		OccurredAt: s.now().UTC(),
		Payload:    response,
	}); err != nil {
		s.logger.Warn().Err(err).Str("interaction_id", response.ID).Msg("failed to publish forum interaction event")
	}

	return dto.InteractionCreatedResponse{InteractionID: response.ID}, nil
}

func (s *forumAnalyticsService) ListPostInteractions(ctx context.Context, postID uint) ([]dto.ForumInteractionResponse, error) {
	spanCtx, span := s.tracer.Start(ctx, "forum_analytics.list_post", trace.WithAttributes(attribute.Int64("forum.post_id", int64(postID))))
	defer span.End()

	if _, err := lookupPost(spanCtx, s.posts, postID); err != nil {
		return nil, err
	}

	interactions, err := s.interactions.ListByPost(spanCtx, int64(postID))
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return dto.NewForumInteractionResponseSlice(interactions), nil
}

func (s *forumAnalyticsService) GetUserForumStats(ctx context.Context, userID uint) (models.ForumStats, error) {
	spanCtx, span := s.tracer.Start(ctx, "forum_analytics.user_stats", trace.WithAttributes(attribute.Int64("forum.user_id", int64(userID))))
	defer span.End()

	if _, err := lookupUser(spanCtx, s.users, userID); err != nil {
		return models.ForumStats{}, err
	}

	stats, err := s.interactions.StatsByUser(spanCtx, int64(userID))
	if err != nil {
		span.RecordError(err)
		return models.ForumStats{}, err
	}
	return stats, nil
}
