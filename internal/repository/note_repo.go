package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/educollab-analytics/internal/models"
)

// NoteRepository lists study notes.
type NoteRepository interface {
	ListActiveByAuthor(ctx context.Context, authorID uint) ([]models.Note, error)
}

type noteRepository struct {
	db *gorm.DB
}

// NewNoteRepository constructs a note repository.
func NewNoteRepository(db *gorm.DB) NoteRepository {
	return &noteRepository{db: db}
}

func (r *noteRepository) ListActiveByAuthor(ctx context.Context, authorID uint) ([]models.Note, error) {
	var notes []models.Note
	if err := r.db.WithContext(ctx).
		Where("author_id = ? AND is_active = ?", authorID, true).
		Find(&notes).Error; err != nil {
		return nil, err
	}

	return notes, nil
}
