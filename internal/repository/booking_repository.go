package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ShareIt-Platform/service-sharing/internal/common/database"
	"github.com/ShareIt-Platform/service-sharing/internal/common/domain"
	bookingDomain "github.com/ShareIt-Platform/service-sharing/internal/domain/booking"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	ItemID    int64     `gorm:"not null;index"`
	BookerID  int64     `gorm:"not null;index"`
	StartDate time.Time `gorm:"column:start_date;not null;index"`
	EndDate   time.Time `gorm:"column:end_date;not null"`
	Status    string    `gorm:"not null;size:20;index"`
	Version   int64     `gorm:"not null;default:1"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of BookingRepository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id int64) (*bookingDomain.Booking, error) {
	return r.first(database.Conn(ctx, r.db).Where("id = ?", id), id)
}

// FindByIDForUpdate retrieves a booking under a row lock. SQLite has no row
// locks and relies on its single writer instead.
func (r *GormBookingRepository) FindByIDForUpdate(ctx context.Context, id int64) (*bookingDomain.Booking, error) {
	q := database.Conn(ctx, r.db)
	if q.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return r.first(q.Where("id = ?", id), id)
}

func (r *GormBookingRepository) first(q *gorm.DB, id int64) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := q.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, bookingDomain.BookingNotFoundFor(id)
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByRenter lists bookings made by renterID.
func (r *GormBookingRepository) FindByRenter(ctx context.Context, renterID int64, q bookingDomain.ListQuery) ([]*bookingDomain.Booking, error) {
	tx := database.Conn(ctx, r.db).
		Model(&BookingModel{}).
		Where("bookings.booker_id = ?", renterID)
	return r.list(tx, q)
}

// FindByOwner lists bookings on items owned by ownerID.
func (r *GormBookingRepository) FindByOwner(ctx context.Context, ownerID int64, q bookingDomain.ListQuery) ([]*bookingDomain.Booking, error) {
	tx := database.Conn(ctx, r.db).
		Model(&BookingModel{}).
		Select("bookings.*").
		Joins("JOIN items ON items.id = bookings.item_id").
		Where("items.owner_id = ?", ownerID)
	return r.list(tx, q)
}

func (r *GormBookingRepository) list(tx *gorm.DB, q bookingDomain.ListQuery) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := tx.
		Scopes(filterScope(q.Filter, q.Now)).
		Order("bookings.start_date DESC").
		Order("bookings.id DESC").
		Offset(q.Page.Offset()).
		Limit(q.Page.Limit()).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return toDomainBookings(models)
}

// filterScope restricts a bookings query to one filter class at now.
func filterScope(f bookingDomain.Filter, now time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch f {
		case bookingDomain.FilterCurrent:
			return db.Where("bookings.start_date <= ? AND bookings.end_date > ?", now, now)
		case bookingDomain.FilterPast:
			return db.Where("bookings.end_date < ?", now)
		case bookingDomain.FilterFuture:
			return db.Where("bookings.start_date > ?", now)
		case bookingDomain.FilterWaiting:
			return db.Where("bookings.status = ?", string(bookingDomain.StatusWaiting))
		case bookingDomain.FilterRejected:
			return db.Where("bookings.status = ?", string(bookingDomain.StatusRejected))
		default:
			return db
		}
	}
}

// FindLastForItem returns the latest non-rejected booking of itemID that started before now.
func (r *GormBookingRepository) FindLastForItem(ctx context.Context, itemID int64, now time.Time) (*bookingDomain.Booking, error) {
	q := database.Conn(ctx, r.db).
		Where("item_id = ? AND status <> ? AND start_date < ?", itemID, string(bookingDomain.StatusRejected), now).
		Order("start_date DESC").
		Order("id DESC")
	return r.optional(q)
}

// FindNextForItem returns the earliest non-rejected booking of itemID starting after now.
func (r *GormBookingRepository) FindNextForItem(ctx context.Context, itemID int64, now time.Time) (*bookingDomain.Booking, error) {
	q := database.Conn(ctx, r.db).
		Where("item_id = ? AND status <> ? AND start_date > ?", itemID, string(bookingDomain.StatusRejected), now).
		Order("start_date ASC").
		Order("id ASC")
	return r.optional(q)
}

func (r *GormBookingRepository) optional(q *gorm.DB) (*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := q.Limit(1).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find nearest booking: %w", err)
	}
	if len(models) == 0 {
		return nil, nil
	}
	return toDomainBooking(&models[0])
}

// ExistsCompletedByBooker reports whether bookerID has an approved booking that ended before now.
func (r *GormBookingRepository) ExistsCompletedByBooker(ctx context.Context, bookerID int64, now time.Time) (bool, error) {
	var ids []int64
	if err := database.Conn(ctx, r.db).
		Model(&BookingModel{}).
		Where("booker_id = ? AND status = ? AND end_date < ?", bookerID, string(bookingDomain.StatusApproved), now).
		Limit(1).
		Pluck("id", &ids).Error; err != nil {
		return false, fmt.Errorf("failed to check completed bookings: %w", err)
	}
	return len(ids) > 0, nil
}

// ExistsForItem reports whether any booking references itemID.
func (r *GormBookingRepository) ExistsForItem(ctx context.Context, itemID int64) (bool, error) {
	return r.exists(database.Conn(ctx, r.db).Where("item_id = ?", itemID))
}

// ExistsForUser reports whether userID booked anything or owns an item that was booked.
func (r *GormBookingRepository) ExistsForUser(ctx context.Context, userID int64) (bool, error) {
	owned := database.Conn(ctx, r.db).Model(&ItemModel{}).Select("id").Where("owner_id = ?", userID)
	return r.exists(database.Conn(ctx, r.db).Where("booker_id = ? OR item_id IN (?)", userID, owned))
}

func (r *GormBookingRepository) exists(q *gorm.DB) (bool, error) {
	var ids []int64
	if err := q.Model(&BookingModel{}).Limit(1).Pluck("id", &ids).Error; err != nil {
		return false, fmt.Errorf("failed to check bookings: %w", err)
	}
	return len(ids) > 0, nil
}

// Save persists a new booking and assigns its id.
func (r *GormBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)
	if err := database.Conn(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	bk.AssignID(model.ID)
	return nil
}

// Update persists changes to an existing booking with optimistic locking.
func (r *GormBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	// IncrementVersion has been called, so the stored row carries the previous version.
	expectedVersion := bk.Version() - 1
	result := database.Conn(ctx, r.db).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", bk.ID(), expectedVersion).
		Updates(map[string]interface{}{
			"status":     string(bk.Status()),
			"version":    bk.Version(),
			"updated_at": bk.UpdatedAt(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified by another transaction")
	}

	return nil
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) *BookingModel {
	return &BookingModel{
		ID:        bk.ID(),
		ItemID:    bk.ItemID(),
		BookerID:  bk.RenterID(),
		StartDate: bk.Start(),
		EndDate:   bk.End(),
		Status:    string(bk.Status()),
		Version:   bk.Version(),
		CreatedAt: bk.CreatedAt(),
		UpdatedAt: bk.UpdatedAt(),
	}
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	status, err := bookingDomain.ParseBookingStatus(m.Status)
	if err != nil {
		return nil, err
	}

	return bookingDomain.ReconstructBooking(
		m.ID,
		m.ItemID,
		m.BookerID,
		m.StartDate,
		m.EndDate,
		status,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func toDomainBookings(models []BookingModel) ([]*bookingDomain.Booking, error) {
	bookings := make([]*bookingDomain.Booking, len(models))
	for i := range models {
		bk, err := toDomainBooking(&models[i])
		if err != nil {
			return nil, err
		}
		bookings[i] = bk
	}
	return bookings, nil
}
