package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/noah-isme/educollab-analytics/internal/docstore"
	"github.com/noah-isme/educollab-analytics/internal/models"
)

// CourseMetricsRepository maintains one metrics document per course.
type CourseMetricsRepository interface {
	UpdateStat(ctx context.Context, courseID int64, metric string, value interface{}) error
	Get(ctx context.Context, courseID int64) (*models.CourseMetrics, error)
}

type courseMetricsRepository struct {
	store docstore.Backend
	now   func() time.Time
}

// NewCourseMetricsRepository constructs a document-backed course metrics repository.
func NewCourseMetricsRepository(store docstore.Backend) CourseMetricsRepository {
	return &courseMetricsRepository{store: store, now: utcNow}
}

// UpdateStat sets metrics.<metric> on the course document, creating the document
// when none exists. The lookup and the write are separate calls: two callers that
// both miss the lookup will each insert a document.
func (r *courseMetricsRepository) UpdateStat(ctx context.Context, courseID int64, metric string, value interface{}) error {
	coll := r.store.Collection(models.CollectionCourseAnalytics)
	filter := docstore.Filter{"course_id": courseID}
	now := r.now()

	_, err := coll.FindOne(ctx, filter)
	switch {
	case err == nil:
		update := docstore.Update{Set: docstore.Document{
			"metrics." + metric: value,
			"updated_at":        now,
		}}
		if _, err := coll.UpdateOne(ctx, filter, update); err != nil {
			return fmt.Errorf("update course metrics: %w", err)
		}
		return nil
	case errors.Is(err, docstore.ErrNoDocuments):
		doc, err := docstore.Encode(models.CourseMetrics{
			CourseID:  courseID,
			Metrics:   map[string]interface{}{metric: value},
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return err
		}
		if _, err := coll.InsertOne(ctx, doc); err != nil {
			return fmt.Errorf("insert course metrics: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("find course metrics: %w", err)
	}
}

// Get returns nil without error when the course has no metrics yet.
func (r *courseMetricsRepository) Get(ctx context.Context, courseID int64) (*models.CourseMetrics, error) {
	doc, err := r.store.Collection(models.CollectionCourseAnalytics).FindOne(ctx, docstore.Filter{"course_id": courseID})
	if errors.Is(err, docstore.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find course metrics: %w", err)
	}

	var metrics models.CourseMetrics
	if err := docstore.Decode(doc, &metrics); err != nil {
		return nil, err
	}
	if metrics.Metrics == nil {
		metrics.Metrics = map[string]interface{}{}
	}
	return &metrics, nil
}
