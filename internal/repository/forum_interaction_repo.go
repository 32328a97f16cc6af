package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/noah-isme/educollab-analytics/internal/docstore"
	"github.com/noah-isme/educollab-analytics/internal/models"
)

// ForumInteractionRepository stores append-only forum interaction events.
type ForumInteractionRepository interface {
	Record(ctx context.Context, userID, postID int64, interactionType string, details map[string]interface{}) (models.ForumInteraction, error)
	ListByPost(ctx context.Context, postID int64) ([]models.ForumInteraction, error)
	StatsByUser(ctx context.Context, userID int64) (models.ForumStats, error)
}

type forumInteractionRepository struct {
	store docstore.Backend
	now   func() time.Time
}

// NewForumInteractionRepository constructs a document-backed interaction repository.
func NewForumInteractionRepository(store docstore.Backend) ForumInteractionRepository {
	return &forumInteractionRepository{store: store, now: utcNow}
}

func (r *forumInteractionRepository) Record(ctx context.Context, userID, postID int64, interactionType string, details map[string]interface{}) (models.ForumInteraction, error) {
	if details == nil {
		details = map[string]interface{}{}
	}
	now := r.now()
	interaction := models.ForumInteraction{
		UserID:          userID,
		PostID:          postID,
		InteractionType: interactionType,
		Details:         details,
		Timestamp:       now,
		CreatedAt:       now,
	}

	doc, err := docstore.Encode(interaction)
	if err != nil {
		return models.ForumInteraction{}, err
	}

	result, err := r.store.Collection(models.CollectionForumInteractions).InsertOne(ctx, doc)
	if err != nil {
		return models.ForumInteraction{}, fmt.Errorf("insert forum interaction: %w", err)
	}

	interaction.ID = result.InsertedID
	return interaction, nil
}

func (r *forumInteractionRepository) ListByPost(ctx context.Context, postID int64) ([]models.ForumInteraction, error) {
	docs, err := r.store.Collection(models.CollectionForumInteractions).Find(ctx, docstore.Filter{"post_id": postID}, 0)
	if err != nil {
		return nil, fmt.Errorf("find post interactions: %w", err)
	}
	return decodeAll[models.ForumInteraction](docs)
}

// StatsByUser scans every interaction of the user on each call.
func (r *forumInteractionRepository) StatsByUser(ctx context.Context, userID int64) (models.ForumStats, error) {
	docs, err := r.store.Collection(models.CollectionForumInteractions).Find(ctx, docstore.Filter{"user_id": userID}, 0)
	if err != nil {
		return models.ForumStats{}, fmt.Errorf("find user interactions: %w", err)
	}

	stats := models.ForumStats{TotalInteractions: len(docs)}
	for _, doc := range docs {
		kind, _ := doc["interaction_type"].(string)
		switch kind {
		case models.InteractionView:
			stats.Views++
		case models.InteractionVote:
			stats.Votes++
		case models.InteractionComment:
			stats.Comments++
		case models.InteractionShare:
			stats.Shares++
		}
	}
	return stats, nil
}
