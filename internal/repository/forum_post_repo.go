package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/educollab-analytics/internal/models"
)

// ForumPostRepository provides read access to forum posts.
type ForumPostRepository interface {
	GetByID(ctx context.Context, id uint) (models.ForumPost, error)
	ListActiveByAuthor(ctx context.Context, authorID uint) ([]models.ForumPost, error)
}

type forumPostRepository struct {
	db *gorm.DB
}

// NewForumPostRepository constructs a forum post repository.
func NewForumPostRepository(db *gorm.DB) ForumPostRepository {
	return &forumPostRepository{db: db}
}

func (r *forumPostRepository) GetByID(ctx context.Context, id uint) (models.ForumPost, error) {
	var post models.ForumPost
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return models.ForumPost{}, err
	}
	return post, nil
}

func (r *forumPostRepository) ListActiveByAuthor(ctx context.Context, authorID uint) ([]models.ForumPost, error) {
	var posts []models.ForumPost
	if err := r.db.WithContext(ctx).
		Where("author_id = ? AND is_active = ?", authorID, true).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}
