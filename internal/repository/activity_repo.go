package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/noah-isme/educollab-analytics/internal/docstore"
	"github.com/noah-isme/educollab-analytics/internal/models"
)

// DefaultActivityLimit caps activity listings when the caller gives no limit.
const DefaultActivityLimit = 50

// ActivityRepository stores user activity events in the document store.
type ActivityRepository interface {
	Create(ctx context.Context, userID int64, activityType string, details map[string]interface{}, courseID *int64) (models.ActivityEvent, error)
	ListByUser(ctx context.Context, userID int64, limit int64) ([]models.ActivityEvent, error)
}

type activityRepository struct {
	store docstore.Backend
	now   func() time.Time
}

// NewActivityRepository constructs a document-backed activity repository.
func NewActivityRepository(store docstore.Backend) ActivityRepository {
	return &activityRepository{store: store, now: utcNow}
}

func (r *activityRepository) Create(ctx context.Context, userID int64, activityType string, details map[string]interface{}, courseID *int64) (models.ActivityEvent, error) {
	if details == nil {
		details = map[string]interface{}{}
	}
	now := r.now()
	event := models.ActivityEvent{
		UserID:       userID,
		ActivityType: activityType,
		Details:      details,
		CourseID:     courseID,
		Timestamp:    now,
		CreatedAt:    now,
	}

	doc, err := docstore.Encode(event)
	if err != nil {
		return models.ActivityEvent{}, err
	}

	result, err := r.store.Collection(models.CollectionUserActivities).InsertOne(ctx, doc)
	if err != nil {
		return models.ActivityEvent{}, fmt.Errorf("insert activity: %w", err)
	}

	event.ID = result.InsertedID
	return event, nil
}

// ListByUser returns up to limit events in whatever order the backend yields them.
func (r *activityRepository) ListByUser(ctx context.Context, userID int64, limit int64) ([]models.ActivityEvent, error) {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}

	docs, err := r.store.Collection(models.CollectionUserActivities).Find(ctx, docstore.Filter{"user_id": userID}, limit)
	if err != nil {
		return nil, fmt.Errorf("find activities: %w", err)
	}

	return decodeAll[models.ActivityEvent](docs)
}

func decodeAll[T any](docs []docstore.Document) ([]T, error) {
	items := make([]T, 0, len(docs))
	for _, doc := range docs {
		var item T
		if err := docstore.Decode(doc, &item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func utcNow() time.Time {
	return time.Now().UTC()
}
