package booking

import (
	"time"

	"github.com/ShareIt-Platform/service-sharing/internal/common/domain"
)

// Booking is the aggregate root for the booking domain.
type Booking struct {
	id       int64
	itemID   int64
	renterID int64
	period   Period
	status   BookingStatus

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewBooking creates a new Booking in WAITING. The id is assigned when the booking is saved.
func NewBooking(itemID, renterID int64, period Period, now time.Time) (*Booking, error) {
	if itemID <= 0 {
		return nil, domain.NewValidationError("item ID is required")
	}
	if renterID <= 0 {
		return nil, domain.NewValidationError("booker ID is required")
	}
	if period.start.IsZero() {
		return nil, ErrInvalidTimeRange
	}

	now = now.UTC()
	return &Booking{
		itemID:    itemID,
		renterID:  renterID,
		period:    period,
		status:    StatusWaiting,
		version:   1,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id int64,
	itemID int64,
	renterID int64,
	start time.Time,
	end time.Time,
	status BookingStatus,
	version int64,
	createdAt time.Time,
	updatedAt time.Time,
) *Booking {
	return &Booking{
		id:        id,
		itemID:    itemID,
		renterID:  renterID,
		period:    Period{start: start.UTC(), end: end.UTC()},
		status:    status,
		version:   version,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// --- Getters ---

// ID returns the booking's identifier, zero until saved.
func (b *Booking) ID() int64 { return b.id }

// ItemID returns the booked item's ID.
func (b *Booking) ItemID() int64 { return b.itemID }

// RenterID returns the booker's user ID.
func (b *Booking) RenterID() int64 { return b.renterID }

// Period returns the booked interval.
func (b *Booking) Period() Period { return b.period }

// Start returns the start of the booked interval.
func (b *Booking) Start() time.Time { return b.period.start }

// End returns the end of the booked interval.
func (b *Booking) End() time.Time { return b.period.end }

// Status returns the current booking status.
func (b *Booking) Status() BookingStatus { return b.status }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// --- Behavior ---

// AssignID records the identifier given by the store on insert.
func (b *Booking) AssignID(id int64) {
	b.id = id
}

// Decide approves or rejects a WAITING booking. Any other status fails with
// ErrAlreadyDecided and leaves the booking unchanged.
func (b *Booking) Decide(approve bool, now time.Time) error {
	target := StatusRejected
	if approve {
		target = StatusApproved
	}
	if !b.status.CanTransitionTo(target) {
		return ErrAlreadyDecided
	}
	b.status = target
	b.updatedAt = now.UTC()
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
}

// IsCompletedAt reports whether b is an approved booking that ended before now.
func (b *Booking) IsCompletedAt(now time.Time) bool {
	return b.status == StatusApproved && b.period.EndedBefore(now)
}
