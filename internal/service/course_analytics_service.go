package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/educollab-analytics/internal/dto"
	"github.com/noah-isme/educollab-analytics/internal/locker"
	"github.com/noah-isme/educollab-analytics/internal/repository"
)

// CourseAnalyticsService reads and updates per-course metrics.
type CourseAnalyticsService interface {
	GetCourseAnalytics(ctx context.Context, courseID uint) (dto.CourseAnalyticsResponse, error)
	UpdateCourseStat(ctx context.Context, courseID uint, payload dto.CourseStatRequest) error
}

type courseAnalyticsService struct {
	courses   repository.CourseRepository
	metrics   repository.CourseMetricsRepository
	lock      locker.Locker
	validator *validator.Validate
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewCourseAnalyticsService constructs the course analytics service. When lock is
// non-nil, updates to the same course are serialized through it.
func NewCourseAnalyticsService(courses repository.CourseRepository, metrics repository.CourseMetricsRepository, lock locker.Locker, validate *validator.Validate, logger zerolog.Logger) CourseAnalyticsService {
	return &courseAnalyticsService{
		courses:   courses,
		metrics:   metrics,
		lock:      lock,
		validator: validate,
		logger:    logger.With().Str("component", "course_analytics_service").Logger(),
		tracer:    otel.Tracer("github.com/noah-isme/educollab-analytics/internal/service/course_analytics"),
	}
}

func (s *courseAnalyticsService) GetCourseAnalytics(ctx context.Context, courseID uint) (dto.CourseAnalyticsResponse, error) {
	spanCtx, span := s.tracer.Start(ctx, "course_analytics.get", trace.WithAttributes(attribute.Int64("course.id", int64(courseID))))
	defer span.End()

	if _, err := lookupCourse(spanCtx, s.courses, courseID); err != nil {
		return dto.CourseAnalyticsResponse{}, err
	}

	metrics, err := s.metrics.Get(spanCtx, int64(courseID))
	if err != nil {
		span.RecordError(err)
		return dto.CourseAnalyticsResponse{}, err
	}
	return dto.NewCourseAnalyticsResponse(int64(courseID), metrics), nil
}

func (s *courseAnalyticsService) UpdateCourseStat(ctx context.Context, courseID uint, payload dto.CourseStatRequest) error {
	if err := s.validator.Struct(payload); err != nil {
		return err
	}
	value, err := payload.DecodedValue()
	if err != nil {
		return fmt.Errorf("decode metric value: %w", err)
	}
	metric := *payload.Metric

	spanCtx, span := s.tracer.Start(ctx, "course_analytics.update", trace.WithAttributes(
		attribute.Int64("course.id", int64(courseID)),
		attribute.String("course.metric", metric),
	))
	defer span.End()

	if _, err := lookupCourse(spanCtx, s.courses, courseID); err != nil {
		return err
	}

	if s.lock != nil {
		unlock, err := s.lock.Lock(spanCtx, fmt.Sprintf("course_metrics:%d", courseID))
		if err != nil {
			span.RecordError(err)
			return fmt.Errorf("lock course metrics: %w", err)
		}
		defer unlock()
	}

	if err := s.metrics.UpdateStat(spanCtx, int64(courseID), metric, value); err != nil {
		span.RecordError(err)
		return err
	}

	s.logger.Debug().Uint("course_id", courseID).Str("metric", metric).Msg("course metric updated")
	return nil
}
