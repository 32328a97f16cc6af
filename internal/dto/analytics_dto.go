package dto

import (
	"time"

	"github.com/goccy/go-json"

	"github.com/noah-isme/educollab-analytics/internal/docstore"
	"github.com/noah-isme/educollab-analytics/internal/models"
)

// ActivityCreateRequest is the payload for logging a user activity. The activity
// type must be present but may hold any string, including an empty one.
type ActivityCreateRequest struct {
	ActivityType *string                `json:"activity_type" validate:"required"`
	Details      map[string]interface{} `json:"details"`
	CourseID     *int64                 `json:"course_id"`
}

// ActivityCreatedResponse carries the identifier of a stored activity.
type ActivityCreatedResponse struct {
	ActivityID string `json:"activity_id"`
}

// ActivityResponse is the serialized representation of an activity event.
type ActivityResponse struct {
	ID           string                 `json:"_id"`
	UserID       int64                  `json:"user_id"`
	ActivityType string                 `json:"activity_type"`
	Details      map[string]interface{} `json:"details"`
	CourseID     *int64                 `json:"course_id"`
	Timestamp    time.Time              `json:"timestamp"`
	CreatedAt    time.Time              `json:"created_at"`
}

// NewActivityResponse converts a stored event into a DTO.
func NewActivityResponse(event models.ActivityEvent) ActivityResponse {
	return ActivityResponse{
		ID:           docstore.IDString(event.ID),
		UserID:       event.UserID,
		ActivityType: event.ActivityType,
		Details:      nonNilDetails(event.Details),
		CourseID:     event.CourseID,
		Timestamp:    event.Timestamp,
		CreatedAt:    event.CreatedAt,
	}
}

// NewActivityResponseSlice converts events into DTOs.
func NewActivityResponseSlice(events []models.ActivityEvent) []ActivityResponse {
	out := make([]ActivityResponse, 0, len(events))
	for _, event := range events {
		out = append(out, NewActivityResponse(event))
	}
	return out
}

// CourseStatRequest sets a single named course metric. Value may be any JSON
// value, including null, but must be present. Metric must be non-empty since it
// becomes a field name in the metrics document.
type CourseStatRequest struct {
	Metric *string         `json:"metric" validate:"required,min=1"`
	Value  json.RawMessage `json:"value" validate:"required"`
}

// DecodedValue returns the metric value as a generic JSON value.
func (r CourseStatRequest) DecodedValue() (interface{}, error) {
	var value interface{}
	if len(r.Value) == 0 {
		return nil, nil
	}
	if err := json.Unmarshal(r.Value, &value); err != nil {
		return nil, err
	}
	return value, nil
}

// CourseAnalyticsResponse is the metrics document of a course. Courses without
// recorded metrics only carry course_id and an empty metrics object.
type CourseAnalyticsResponse struct {
	ID        string                 `json:"_id,omitempty"`
	CourseID  int64                  `json:"course_id"`
	Metrics   map[string]interface{} `json:"metrics"`
	CreatedAt *time.Time             `json:"created_at,omitempty"`
	UpdatedAt *time.Time             `json:"updated_at,omitempty"`
}

// NewCourseAnalyticsResponse converts stored metrics into a DTO. A nil document
// yields the empty default for courseID.
func NewCourseAnalyticsResponse(courseID int64, metrics *models.CourseMetrics) CourseAnalyticsResponse {
	if metrics == nil {
		return CourseAnalyticsResponse{CourseID: courseID, Metrics: map[string]interface{}{}}
	}
	createdAt := metrics.CreatedAt
	updatedAt := metrics.UpdatedAt
	return CourseAnalyticsResponse{
		ID:        docstore.IDString(metrics.ID),
		CourseID:  metrics.CourseID,
		Metrics:   nonNilDetails(metrics.Metrics),
		CreatedAt: &createdAt,
		UpdatedAt: &updatedAt,
	}
}

// ForumInteractionRequest records a user's interaction with a forum post.
type ForumInteractionRequest struct {
	UserID          *uint                  `json:"user_id" validate:"required"`
	PostID          *uint                  `json:"post_id" validate:"required"`
	InteractionType *string                `json:"interaction_type" validate:"required"`
	Details         map[string]interface{} `json:"details"`
}

// InteractionCreatedResponse carries the identifier of a stored interaction.
type InteractionCreatedResponse struct {
	InteractionID string `json:"interaction_id"`
}

// ForumInteractionResponse is the serialized representation of an interaction.
type ForumInteractionResponse struct {
	ID              string                 `json:"_id"`
	UserID          int64                  `json:"user_id"`
	PostID          int64                  `json:"post_id"`
	InteractionType string                 `json:"interaction_type"`
	Details         map[string]interface{} `json:"details"`
	Timestamp       time.Time              `json:"timestamp"`
	CreatedAt       time.Time              `json:"created_at"`
}

// NewForumInteractionResponse converts a stored interaction into a DTO.
func NewForumInteractionResponse(interaction models.ForumInteraction) ForumInteractionResponse {
	return ForumInteractionResponse{
		ID:              docstore.IDString(interaction.ID),
		UserID:          interaction.UserID,
		PostID:          interaction.PostID,
		InteractionType: interaction.InteractionType,
		Details:         nonNilDetails(interaction.Details),
		Timestamp:       interaction.Timestamp,
		CreatedAt:       interaction.CreatedAt,
	}
}

// NewForumInteractionResponseSlice converts interactions into DTOs.
func NewForumInteractionResponseSlice(interactions []models.ForumInteraction) []ForumInteractionResponse {
	out := make([]ForumInteractionResponse, 0, len(interactions))
	for _, interaction := range interactions {
		out = append(out, NewForumInteractionResponse(interaction))
	}
	return out
}

// DashboardResponse combines relational and document-store data for one user.
type DashboardResponse struct {
	UserInfo     DashboardUserInfo     `json:"user_info"`
	SQLData      DashboardSQLData      `json:"sql_data"`
	DocumentData DashboardDocumentData `json:"mongodb_data"`
}

// DashboardUserInfo is the profile section of the dashboard.
type DashboardUserInfo struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Level    int    `json:"level"`
}

// DashboardSQLData summarises relational records owned by the user.
type DashboardSQLData struct {
	EnrollmentsCount int                   `json:"enrollments_count"`
	NotesCount       int                   `json:"notes_count"`
	ForumPostsCount  int                   `json:"forum_posts_count"`
	Enrollments      []DashboardEnrollment `json:"enrollments"`
}

// DashboardEnrollment is a compact enrollment entry.
type DashboardEnrollment struct {
	ID                 uint       `json:"id"`
	CourseID           uint       `json:"course_id"`
	ProgressPercentage float64    `json:"progress_percentage"`
	EnrolledAt         *time.Time `json:"enrolled_at"`
}

// DashboardDocumentData holds the activity feed and forum engagement.
type DashboardDocumentData struct {
	RecentActivities []ActivityResponse `json:"recent_activities"`
	ForumStats       models.ForumStats  `json:"forum_stats"`
}

// NewDashboardUserInfo converts a user into the dashboard profile section.
func NewDashboardUserInfo(user models.User) DashboardUserInfo {
	return DashboardUserInfo{
		ID:       user.ID,
		Name:     user.Name,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
		Level:    user.Level,
	}
}

// NewDashboardEnrollments converts enrollments into dashboard entries.
func NewDashboardEnrollments(enrollments []models.Enrollment) []DashboardEnrollment {
	out := make([]DashboardEnrollment, 0, len(enrollments))
	for _, enrollment := range enrollments {
		out = append(out, DashboardEnrollment{
			ID:                 enrollment.ID,
			CourseID:           enrollment.CourseID,
			ProgressPercentage: enrollment.ProgressPercentage,
			EnrolledAt:         enrollment.EnrolledAt,
		})
	}
	return out
}

func nonNilDetails(details map[string]interface{}) map[string]interface{} {
	if details == nil {
		return map[string]interface{}{}
	}
	return details
}
