package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/noah-isme/educollab-analytics/internal/models"
	"github.com/noah-isme/educollab-analytics/internal/repository"
)

var (
	// ErrUserNotFound indicates the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrCourseNotFound indicates the referenced course does not exist.
	ErrCourseNotFound = errors.New("course not found")
	// ErrPostNotFound indicates the referenced forum post does not exist.
	ErrPostNotFound = errors.New("post not found")
)

func lookupUser(ctx context.Context, users repository.UserRepository, id uint) (models.User, error) {
	user, err := users.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

func lookupCourse(ctx context.Context, courses repository.CourseRepository, id uint) (models.Course, error) {
	course, err := courses.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Course{}, ErrCourseNotFound
	}
	return course, err
}

func lookupPost(ctx context.Context, posts repository.ForumPostRepository, id uint) (models.ForumPost, error) {
	post, err := posts.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ForumPost{}, ErrPostNotFound
	}
	return post, err
}
