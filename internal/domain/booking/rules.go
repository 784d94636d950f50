package booking

// ItemRef is what the booking rules need to know about an item.
type ItemRef struct {
	ID        int64
	OwnerID   int64
	Available bool
}

// CheckBookable applies the item-level rules of a booking request after the
// actor and item have been found: the item must be available and must not
// belong to the actor.
func CheckBookable(actorID int64, item ItemRef) error {
	if !item.Available {
		return ErrItemUnavailable
	}
	if item.OwnerID == actorID {
		return ErrSelfBookingForbidden
	}
	return nil
}

// CheckDecision verifies that actorID owns the item before a decision is applied.
func CheckDecision(actorID int64, item ItemRef) error {
	if item.OwnerID != actorID {
		return ErrNotAuthorized
	}
	return nil
}

// CanView reports whether actorID may read b: the booker and the item owner can.
func CanView(b *Booking, actorID int64, item ItemRef) bool {
	return b.renterID == actorID || item.OwnerID == actorID
}
