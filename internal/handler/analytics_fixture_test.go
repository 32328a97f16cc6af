package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/noah-isme/educollab-analytics/internal/docstore"
	"github.com/noah-isme/educollab-analytics/internal/handler"
	"github.com/noah-isme/educollab-analytics/internal/models"
	"github.com/noah-isme/educollab-analytics/internal/repository"
	"github.com/noah-isme/educollab-analytics/internal/service"
	"github.com/noah-isme/educollab-analytics/internal/utils"
)

type analyticsApp struct {
	app   *fiber.App
	db    *gorm.DB
	store *docstore.MemoryBackend
}

func newAnalyticsApp(t *testing.T) *analyticsApp {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Course{}, &models.Enrollment{}, &models.Note{}, &models.ForumPost{}))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	store := docstore.NewMemoryBackend()
	validate := utils.NewValidator()
	log := zerolog.Nop()

	users := repository.NewUserRepository(db)
	posts := repository.NewForumPostRepository(db)
	activities := repository.NewActivityRepository(store)
	interactions := repository.NewForumInteractionRepository(store)

	app := fiber.New()
	group := app.Group("/analytics")
	handler.NewActivityHandler(service.NewActivityService(activities, nil, validate, log), log).Register(group)
	handler.NewCourseAnalyticsHandler(service.NewCourseAnalyticsService(
		repository.NewCourseRepository(db), repository.NewCourseMetricsRepository(store), nil, validate, log,
	), log).Register(group)
	handler.NewForumAnalyticsHandler(service.NewForumAnalyticsService(users, posts, interactions, nil, validate, log), log).Register(group)
	handler.NewDashboardHandler(service.NewDashboardService(service.DashboardDependencies{
		Users:        users,
		Enrollments:  repository.NewEnrollmentRepository(db),
		Notes:        repository.NewNoteRepository(db),
		Posts:        posts,
		Activities:   activities,
		Interactions: interactions,
	}, log), log).Register(group)

	return &analyticsApp{app: app, db: db, store: store}
}

func (a *analyticsApp) seedUser(t *testing.T, id uint) {
	t.Helper()
	require.NoError(t, a.db.Create(&models.User{
		ID:       id,
		Name:     fmt.Sprintf("User %d", id),
		Username: fmt.Sprintf("user%d", id),
		Email:    fmt.Sprintf("user%d@example.com", id),
		Role:     "student",
	}).Error)
}

func (a *analyticsApp) seedCourse(t *testing.T, id uint) {
	t.Helper()
	require.NoError(t, a.db.Create(&models.Course{ID: id, Title: "Algorithms"}).Error)
}

func (a *analyticsApp) seedPost(t *testing.T, id, authorID uint) {
	t.Helper()
	require.NoError(t, a.db.Create(&models.ForumPost{ID: id, AuthorID: authorID, Title: "Help", IsActive: true}).Error)
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Total   *int            `json:"total"`
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var payload envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return resp.StatusCode, payload
}

func decodeData(t *testing.T, payload envelope, target interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(payload.Data, target))
}
