package events

import "time"

// TopicBookingEvents is the default topic for booking lifecycle events.
const TopicBookingEvents = "booking.events"

// Event types published on the booking topic.
const (
	BookingRequested = "booking.requested"
	BookingApproved  = "booking.approved"
	BookingRejected  = "booking.rejected"
)

// BookingRequestedEvent is emitted when a booking is created in WAITING.
type BookingRequestedEvent struct {
	BookingID  int64     `json:"bookingId"`
	ItemID     int64     `json:"itemId"`
	BookerID   int64     `json:"bookerId"`
	OwnerID    int64     `json:"ownerId"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	OccurredAt time.Time `json:"occurredAt"`
}

// BookingDecidedEvent is emitted when an owner approves or rejects a booking.
type BookingDecidedEvent struct {
	BookingID  int64     `json:"bookingId"`
	ItemID     int64     `json:"itemId"`
	BookerID   int64     `json:"bookerId"`
	OwnerID    int64     `json:"ownerId"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurredAt"`
}
