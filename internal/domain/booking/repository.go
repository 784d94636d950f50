package booking

import (
	"context"
	"time"
)

// BookingRepository defines the persistence contract for booking aggregates.
type BookingRepository interface {
	// FindByID retrieves a booking by its identifier.
	FindByID(ctx context.Context, id int64) (*Booking, error)

	// FindByIDForUpdate retrieves a booking and locks its row until the
	// surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id int64) (*Booking, error)

	// FindByRenter lists bookings made by renterID.
	FindByRenter(ctx context.Context, renterID int64, q ListQuery) ([]*Booking, error)

	// FindByOwner lists bookings on items owned by ownerID.
	FindByOwner(ctx context.Context, ownerID int64, q ListQuery) ([]*Booking, error)

	// FindLastForItem returns the non-rejected booking of itemID with the latest
	// start before now, or nil.
	FindLastForItem(ctx context.Context, itemID int64, now time.Time) (*Booking, error)

	// FindNextForItem returns the non-rejected booking of itemID with the earliest
	// start after now, or nil.
	FindNextForItem(ctx context.Context, itemID int64, now time.Time) (*Booking, error)

	// ExistsCompletedByBooker reports whether bookerID has an approved booking that ended before now.
	ExistsCompletedByBooker(ctx context.Context, bookerID int64, now time.Time) (bool, error)

	// ExistsForItem reports whether any booking references itemID.
	ExistsForItem(ctx context.Context, itemID int64) (bool, error)

	// ExistsForUser reports whether userID booked anything or owns an item that was booked.
	ExistsForUser(ctx context.Context, userID int64) (bool, error)

	// Save persists a new booking and assigns its id.
	Save(ctx context.Context, booking *Booking) error

	// Update persists changes to an existing booking with optimistic locking.
	Update(ctx context.Context, booking *Booking) error
}
