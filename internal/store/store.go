package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"laundry-booking-backend/internal/model"
)

// Store defines the interface for all database operations.
type Store interface {
	// Users
	CreateUser(ctx context.Context, u NewUser) (*model.User, error)
	GetUser(ctx context.Context, id int64) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*UserWithComplexes, error)
	UpdateUser(ctx context.Context, id int64, upd UserUpdate) (*model.User, error)
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
	DeleteUser(ctx context.Context, id int64) error
	ListUsersByRoom(ctx context.Context, roomID int64) ([]model.User, error)

	// Complexes
	CreateComplex(ctx context.Context, c NewComplex) (*model.ApartmentComplex, error)
	GetComplex(ctx context.Context, id int64) (*model.ApartmentComplex, error)
	AddResident(ctx context.Context, userID, complexID int64) error
	AddAdmin(ctx context.Context, userID, complexID int64) error

	// Laundry rooms
	CreateRoom(ctx context.Context, r NewRoom) (*model.LaundryRoom, error)
	GetRoom(ctx context.Context, id int64) (*model.LaundryRoom, error)
	RoomForUser(ctx context.Context, userID int64) (*model.LaundryRoom, error)
	AccessibleRooms(ctx context.Context, userID int64) ([]RoomWithMachines, error)
	TimeslotsForRoom(ctx context.Context, roomID int64) ([]model.Timeslot, error)
	CanManageRoom(ctx context.Context, userID, roomID int64) (bool, error)

	// Bookings
	CreateBooking(ctx context.Context, b NewBooking) (*BookingView, error)
	GetBooking(ctx context.Context, id int64) (*BookingView, error)
	BookingsForUser(ctx context.Context, userID int64) ([]BookingView, error)
	BookingsForRoom(ctx context.Context, roomID int64) ([]BookingView, error)
	BookingsForMachine(ctx context.Context, machineID int64) ([]BookingView, error)
	BookingsForRoomOnDate(ctx context.Context, roomID int64, date string) ([]BookingView, error)
	UpcomingBookings(ctx context.Context, roomID int64, today string) ([]BookingView, error)
	DeleteBooking(ctx context.Context, id int64) error

	// Settings
	GetSettings(ctx context.Context, roomID int64) (*SettingsView, error)
	SaveSettings(ctx context.Context, roomID int64, in SettingsInput) (*SettingsResult, error)

	Ping(ctx context.Context) error
	DB() *gorm.DB
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db  *gorm.DB
	now func() time.Time
}

// Option customises a gormStore.
type Option func(*gormStore)

// WithClock overrides the time source used to stamp bookings.
func WithClock(now func() time.Time) Option {
	return func(s *gormStore) { s.now = now }
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB, opts ...Option) Store {
	s := &gormStore{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DB exposes the underlying connection for handlers that query the ORM directly.
func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// Ping checks that the database answers.
func (s *gormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
