package service

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/educollab-analytics/internal/dto"
	"github.com/noah-isme/educollab-analytics/internal/repository"
)

// DashboardRecentActivities is the number of activities shown on the dashboard.
const DashboardRecentActivities = 10

// DashboardService builds the combined per-user dashboard.
type DashboardService interface {
	GetUserDashboard(ctx context.Context, userID uint) (dto.DashboardResponse, error)
}

type dashboardService struct {
	users        repository.UserRepository
	enrollments  repository.EnrollmentRepository
	notes        repository.NoteRepository
	posts        repository.ForumPostRepository
	activities   repository.ActivityRepository
	interactions repository.ForumInteractionRepository
	logger       zerolog.Logger
	tracer       trace.Tracer
}

// DashboardDependencies groups the repositories the dashboard reads from.
type DashboardDependencies struct {
	Users        repository.UserRepository
	Enrollments  repository.EnrollmentRepository
	Notes        repository.NoteRepository
	Posts        repository.ForumPostRepository
	Activities   repository.ActivityRepository
	Interactions repository.ForumInteractionRepository
}

// NewDashboardService constructs the dashboard aggregator.
func NewDashboardService(deps DashboardDependencies, logger zerolog.Logger) DashboardService {
	return &dashboardService{
		users:        deps.Users,
		enrollments:  deps.Enrollments,
		notes:        deps.Notes,
		posts:        deps.Posts,
		activities:   deps.Activities,
		interactions: deps.Interactions,
		logger:       logger.With().Str("component", "dashboard_service").Logger(),
		tracer:       otel.Tracer("github.com/noah-isme/educollab-analytics/internal/service/dashboard"),
	}
}

// GetUserDashboard resolves the user first; an unknown user never reaches the
// document store.
func (s *dashboardService) GetUserDashboard(ctx context.Context, userID uint) (dto.DashboardResponse, error) {
	spanCtx, span := s.tracer.Start(ctx, "dashboard.get", trace.WithAttributes(attribute.Int64("dashboard.user_id", int64(userID))))
	defer span.End()

	user, err := lookupUser(spanCtx, s.users, userID)
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	enrollments, err := s.enrollments.ListActiveByUser(spanCtx, userID)
	if err != nil {
		span.RecordError(err)
		return dto.DashboardResponse{}, err
	}
	notes, err := s.notes.ListActiveByAuthor(spanCtx, userID)
	if err != nil {
		span.RecordError(err)
		return dto.DashboardResponse{}, err
	}
	posts, err := s.posts.ListActiveByAuthor(spanCtx, userID)
	if err != nil {
		span.RecordError(err)
		return dto.DashboardResponse{}, err
	}

	activities, err := s.activities.ListByUser(spanCtx, int64(userID), DashboardRecentActivities)
	if err != nil {
		span.RecordError(err)
		return dto.DashboardResponse{}, err
	}
	stats, err := s.interactions.StatsByUser(spanCtx, int64(userID))
	if err != nil {
		span.RecordError(err)
		return dto.DashboardResponse{}, err
	}

	s.logger.Debug().
		Uint("user_id", userID).
		Int("enrollments", len(enrollments)).
		Int("activities", len(activities)).
		Msg("dashboard assembled")

	return dto.DashboardResponse{
		UserInfo: dto.NewDashboardUserInfo(user),
		SQLData: dto.DashboardSQLData{
			EnrollmentsCount: len(enrollments),
			NotesCount:       len(notes),
			ForumPostsCount:  len(posts),
			Enrollments:      dto.NewDashboardEnrollments(enrollments),
		},
		DocumentData: dto.DashboardDocumentData{
			RecentActivities: dto.NewActivityResponseSlice(activities),
			ForumStats:       stats,
		},
	}, nil
}
