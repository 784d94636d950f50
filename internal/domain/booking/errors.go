package booking

import (
	"fmt"

	"github.com/ShareIt-Platform/service-sharing/internal/common/domain"
)

// Booking errors. Each is matched with errors.Is by code, so the *For
// constructors below compare equal to the sentinel they refine.
var (
	ErrInvalidTimeRange     = domain.New(domain.KindValidation, "INVALID_TIME_RANGE", "Error with booking time")
	ErrActorNotFound        = domain.New(domain.KindNotFound, "USER_NOT_FOUND", "User not found")
	ErrItemNotFound         = domain.New(domain.KindNotFound, "ITEM_NOT_FOUND", "Item not found")
	ErrItemUnavailable      = domain.New(domain.KindValidation, "ITEM_UNAVAILABLE", "Item not available for booking")
	ErrSelfBookingForbidden = domain.New(domain.KindForbidden, "SELF_BOOKING_FORBIDDEN", "You can't book your own item")
	ErrBookingNotFound      = domain.New(domain.KindNotFound, "BOOKING_NOT_FOUND", "Booking not found")
	ErrNotAuthorized        = domain.New(domain.KindForbidden, "NOT_AUTHORIZED", "You don't have access for this booking")
	ErrAlreadyDecided       = domain.New(domain.KindInvalidState, "ALREADY_DECIDED", "Booking has already been decided")
	ErrUnsupportedFilter    = domain.New(domain.KindValidation, "UNSUPPORTED_STATE", "Unknown state: UNSUPPORTED_STATUS")
	ErrNoEligibleBooking    = domain.New(domain.KindValidation, "NO_ELIGIBLE_BOOKING", "User has no completed booking of this item")
)

// ActorNotFoundFor returns ErrActorNotFound naming the user id.
func ActorNotFoundFor(userID int64) error {
	return refine(ErrActorNotFound, fmt.Sprintf("User not found: %d", userID))
}

// ItemNotFoundFor returns ErrItemNotFound naming the item id.
func ItemNotFoundFor(itemID int64) error {
	return refine(ErrItemNotFound, fmt.Sprintf("Item not found: %d", itemID))
}

// BookingNotFoundFor returns ErrBookingNotFound naming the booking id.
func BookingNotFoundFor(bookingID int64) error {
	return refine(ErrBookingNotFound, fmt.Sprintf("Booking not found: %d", bookingID))
}

func refine(base *domain.AppError, message string) *domain.AppError {
	return domain.New(base.Kind, base.Code, message)
}
