package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/noah-isme/educollab-analytics/internal/docstore"
	"github.com/noah-isme/educollab-analytics/internal/events"
	"github.com/noah-isme/educollab-analytics/internal/models"
	"github.com/noah-isme/educollab-analytics/internal/utils"
)

type analyticsFixture struct {
	db    *gorm.DB
	store *spyBackend
}

func newAnalyticsFixture(t *testing.T) *analyticsFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Course{}, &models.Enrollment{}, &models.Note{}, &models.ForumPost{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return &analyticsFixture{db: db, store: &spyBackend{MemoryBackend: docstore.NewMemoryBackend()}}
}

func (f *analyticsFixture) seedUser(t *testing.T, id uint) models.User {
	t.Helper()
	user := models.User{
		ID:       id,
		Name:     fmt.Sprintf("User %d", id),
		Username: fmt.Sprintf("user%d", id),
		Email:    fmt.Sprintf("user%d@example.com", id),
		Role:     "student",
		Level:    2,
	}
	require.NoError(t, f.db.Create(&user).Error)
	return user
}

func (f *analyticsFixture) seedCourse(t *testing.T, id uint) {
	t.Helper()
	require.NoError(t, f.db.Create(&models.Course{ID: id, Title: fmt.Sprintf("Course %d", id)}).Error)
}

func (f *analyticsFixture) seedPost(t *testing.T, id, authorID uint) {
	t.Helper()
	require.NoError(t, f.db.Create(&models.ForumPost{ID: id, AuthorID: authorID, Title: "Question", IsActive: true}).Error)
}

// spyBackend counts collection handles requested from the document store.
type spyBackend struct {
	*docstore.MemoryBackend
	mu    sync.Mutex
	calls int
}

func (s *spyBackend) Collection(name string) docstore.Collection {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.MemoryBackend.Collection(name)
}

func (s *spyBackend) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type recordingPublisher struct {
	mu        sync.Mutex
	envelopes []events.Envelope
	err       error
}

func (p *recordingPublisher) Publish(_ context.Context, envelope events.Envelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.envelopes = append(p.envelopes, envelope)
	return nil
}

func (p *recordingPublisher) Envelopes() []events.Envelope {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Envelope(nil), p.envelopes...)
}

func quietLogger() zerolog.Logger {
	return zerolog.Nop()
}

var testValidator = utils.NewValidator()

func fixedNow() time.Time {
	return time.Date(2024, 5, 2, 9, 30, 0, 0, time.UTC)
}

func uintPtr(v uint) *uint {
	return &v
}

func stringPtr(v string) *string {
	return &v
}
