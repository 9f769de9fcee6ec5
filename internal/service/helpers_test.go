package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"go-portfolio-api/internal/config"
	"go-portfolio-api/internal/events"
	"go-portfolio-api/internal/mail"
	"go-portfolio-api/internal/media"
	"go-portfolio-api/internal/model"
	"go-portfolio-api/pkg/database"
)

type mockUploader struct {
	mock.Mock
}

func (m *mockUploader) Upload(ctx context.Context, file media.File, opts media.UploadOptions) (*media.UploadResult, error) {
	args := m.Called(ctx, file, opts)
	if res := args.Get(0); res != nil {
		return res.(*media.UploadResult), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) Send(ctx context.Context, msg mail.Message) error {
	return m.Called(ctx, msg).Error(0)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordingPublisher) types() []events.Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Type, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

// memoryCache is a ProductCache that counts invalidations.
type memoryCache struct {
	mu            sync.Mutex
	products      []model.ProductResponse
	present       bool
	invalidations int
}

func (c *memoryCache) Get(context.Context) ([]model.ProductResponse, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.products, c.present, nil
}

func (c *memoryCache) Set(_ context.Context, p []model.ProductResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products, c.present = p, true
	return nil
}

func (c *memoryCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products, c.present = nil, false
	c.invalidations++
	return nil
}

func testMediaConfig() config.MediaConfig {
	return config.MediaConfig{
		Folder:        "Portfolio React",
		UploadTimeout: time.Second,
		MaxUploadSize: 1024,
	}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()
	u := &model.User{Name: email, Email: email}
	require.NoError(t, u.SetPassword("secret123"))
	require.NoError(t, db.Create(u).Error)
	return u
}

var nopLogger = zerolog.Nop()
