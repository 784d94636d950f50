package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ShareIt-Platform/service-sharing/internal/common/database"
	"github.com/ShareIt-Platform/service-sharing/internal/repository"
)

// Whole-second UTC instants keep SQLite's text timestamps ordered.
var t0 = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, eventType, key string, data interface{}) error {
	args := m.Called(ctx, eventType, key, data)
	return args.Error(0)
}

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

type env struct {
	ctx       context.Context
	clock     *testClock
	publisher *mockPublisher
	bookings  *BookingService
	items     *ItemService
	users     *UserService
	requests  *RequestService
	db        *gorm.DB
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(
		&repository.UserModel{},
		&repository.ItemRequestModel{},
		&repository.ItemModel{},
		&repository.BookingModel{},
		&repository.CommentModel{},
	))

	clock := &testClock{now: t0}
	publisher := &mockPublisher{}
	publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	userRepo := repository.NewGormUserRepository(db)
	itemRepo := repository.NewGormItemRepository(db)
	bookingRepo := repository.NewGormBookingRepository(db)
	commentRepo := repository.NewGormCommentRepository(db)
	requestRepo := repository.NewGormItemRequestRepository(db)
	tx := database.NewTransactor(db)
	log := zap.NewNop()

	bookings := NewBookingService(bookingRepo, itemRepo, userRepo, tx, publisher, log, WithClock(clock.Now))
	return &env{
		ctx:       context.Background(),
		clock:     clock,
		publisher: publisher,
		bookings:  bookings,
		items:     NewItemService(itemRepo, commentRepo, requestRepo, userRepo, bookings, bookings, tx, log, WithClock(clock.Now)),
		requests:  NewRequestService(requestRepo, itemRepo, userRepo, tx, log, WithClock(clock.Now)),
		users:     NewUserService(userRepo, bookingRepo, tx, log),
		db:        db,
	}
}

func (e *env) user(t *testing.T, name string) int64 {
	t.Helper()
	u, err := e.users.CreateUser(e.ctx, CreateUserRequest{Name: name, Email: name + "@example.com"})
	require.NoError(t, err)
	return u.ID
}

func (e *env) item(t *testing.T, ownerID int64, name string, available bool) int64 {
	t.Helper()
	it, err := e.items.CreateItem(e.ctx, ownerID, CreateItemRequest{Name: name, Description: name + " for rent", Available: &available})
	require.NoError(t, err)
	return it.ID
}

func (e *env) book(t *testing.T, actorID, itemID int64, start, end time.Time) int64 {
	t.Helper()
	b, err := e.bookings.RequestBooking(e.ctx, actorID, CreateBookingRequest{ItemID: itemID, Start: start, End: end})
	require.NoError(t, err)
	return b.ID
}
