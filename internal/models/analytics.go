package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document store collections.
const (
	CollectionUserActivities    = "user_activities"
	CollectionCourseAnalytics   = "course_analytics"
	CollectionForumInteractions = "forum_interactions"
)

// Known activity types. Other values are stored as given.
const (
	ActivityLogin        = "login"
	ActivityCourseAccess = "course_access"
	ActivityNoteCreated  = "note_created"
	ActivityForumPost    = "forum_post"
)

// Forum interaction types counted by the forum stats.
const (
	InteractionView    = "view"
	InteractionVote    = "vote"
	InteractionComment = "comment"
	InteractionShare   = "share"
)

// ActivityEvent records a single user action. Events are append-only.
type ActivityEvent struct {
	ID           primitive.ObjectID     `bson:"_id,omitempty"`
	UserID       int64                  `bson:"user_id"`
	ActivityType string                 `bson:"activity_type"`
	Details      map[string]interface{} `bson:"details"`
	CourseID     *int64                 `bson:"course_id"`
	Timestamp    time.Time              `bson:"timestamp"`
	CreatedAt    time.Time              `bson:"created_at"`
}

// CourseMetrics holds named metric values for one course.
type CourseMetrics struct {
	ID        primitive.ObjectID     `bson:"_id,omitempty"`
	CourseID  int64                  `bson:"course_id"`
	Metrics   map[string]interface{} `bson:"metrics"`
	CreatedAt time.Time              `bson:"created_at"`
	UpdatedAt time.Time              `bson:"updated_at"`
}

// ForumInteraction records how a user engaged with a forum post.
type ForumInteraction struct {
	ID              primitive.ObjectID     `bson:"_id,omitempty"`
	UserID          int64                  `bson:"user_id"`
	PostID          int64                  `bson:"post_id"`
	InteractionType string                 `bson:"interaction_type"`
	Details         map[string]interface{} `bson:"details"`
	Timestamp       time.Time              `bson:"timestamp"`
	CreatedAt       time.Time              `bson:"created_at"`
}

// ForumStats aggregates a user's interactions by type.
type ForumStats struct {
	TotalInteractions int `json:"total_interactions"`
	Views             int `json:"views"`
	Votes             int `json:"votes"`
	Comments          int `json:"comments"`
	Shares            int `json:"shares"`
}
