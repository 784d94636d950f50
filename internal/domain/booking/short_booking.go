package booking

// ShortBooking is the compact reference to a booking shown on an item card.
type ShortBooking struct {
	ID       int64 `json:"id"`
	BookerID int64 `json:"bookerId"`
}

// Short returns the compact reference of b.
func (b *Booking) Short() *ShortBooking {
	return &ShortBooking{ID: b.id, BookerID: b.renterID}
}
