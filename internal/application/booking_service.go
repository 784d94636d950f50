package application

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/ShareIt-Platform/service-sharing/internal/common/datetime"
	"github.com/ShareIt-Platform/service-sharing/internal/common/domain"
	"github.com/ShareIt-Platform/service-sharing/internal/common/metrics"
	bookingDomain "github.com/ShareIt-Platform/service-sharing/internal/domain/booking"
	itemDomain "github.com/ShareIt-Platform/service-sharing/internal/domain/item"
	userDomain "github.com/ShareIt-Platform/service-sharing/internal/domain/user"
	"github.com/ShareIt-Platform/service-sharing/internal/events"
)

// CreateBookingRequest holds the data needed to create a new booking.
type CreateBookingRequest struct {
	ItemID int64     `json:"itemId" binding:"required"`
	Start  time.Time `json:"start" binding:"required"`
	End    time.Time `json:"end" binding:"required"`
}

// UnmarshalJSON accepts zone-less start and end values as UTC.
func (r *CreateBookingRequest) UnmarshalJSON(data []byte) error {
	var raw struct {
		ItemID int64              `json:"itemId"`
		Start  *datetime.DateTime `json:"start"`
		End    *datetime.DateTime `json:"end"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.ItemID = raw.ItemID
	if raw.Start != nil {
		r.Start = raw.Start.Time
	}
	if raw.End != nil {
		r.End = raw.End.Time
	}
	return nil
}

// UserRefDTO is the short form of a user embedded in other responses.
type UserRefDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ItemRefDTO is the short form of an item embedded in other responses.
type ItemRefDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID     int64      `json:"id"`
	ItemID int64      `json:"itemId"`
	Start  time.Time  `json:"start"`
	End    time.Time  `json:"end"`
	Status string     `json:"status"`
	Item   ItemRefDTO `json:"item"`
	Booker UserRefDTO `json:"booker"`
}

// BookingService is the application service orchestrating booking use cases.
type BookingService struct {
	bookings  bookingDomain.BookingRepository
	items     itemDomain.ItemRepository
	users     userDomain.UserRepository
	tx        Transactor
	publisher events.Publisher
	logger    *zap.Logger
	now       Clock
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	bookings bookingDomain.BookingRepository,
	items itemDomain.ItemRepository,
	users userDomain.UserRepository,
	tx Transactor,
	publisher events.Publisher,
	logger *zap.Logger,
	opts ...Option,
) *BookingService {
	o := buildOptions(opts)
	return &BookingService{
		bookings:  bookings,
		items:     items,
		users:     users,
		tx:        tx,
		publisher: publisher,
		logger:    logger,
		now:       o.clock,
	}
}

// RequestBooking creates a WAITING booking of an item for the acting user.
// Checks run in order and the first failure is returned: time range, actor,
// item, availability, self-booking.
func (s *BookingService) RequestBooking(ctx context.Context, actorID int64, req CreateBookingRequest) (*BookingDTO, error) {
	period, err := bookingDomain.NewPeriod(req.Start, req.End)
	if err != nil {
		return nil, err
	}

	var (
		bk     *bookingDomain.Booking
		item   *itemDomain.Item
		booker *userDomain.User
	)
	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		if booker, err = s.users.FindByID(ctx, actorID); err != nil {
			return err
		}
		if item, err = s.items.FindByID(ctx, req.ItemID); err != nil {
			return err
		}
		if err := bookingDomain.CheckBookable(actorID, itemRef(item)); err != nil {
			return err
		}
		if bk, err = bookingDomain.NewBooking(item.ID(), actorID, period, s.now()); err != nil {
			return err
		}
		return s.bookings.Save(ctx, bk)
	})
	if err != nil {
		return nil, err
	}

	metrics.IncBookingRequested()
	s.logger.Info("booking requested",
		zap.Int64("booking_id", bk.ID()),
		zap.Int64("item_id", item.ID()),
		zap.Int64("booker_id", actorID),
	)
	s.publishEvent(ctx, events.BookingRequested, bk.ID(), events.BookingRequestedEvent{
		BookingID:  bk.ID(),
		ItemID:     item.ID(),
		BookerID:   actorID,
		OwnerID:    item.OwnerID(),
		Start:      bk.Start(),
		End:        bk.End(),
		OccurredAt: s.now(),
	})

	result := toBookingDTO(bk, item, booker)
	return &result, nil
}

// DecideBooking lets the item owner approve or reject a WAITING booking.
func (s *BookingService) DecideBooking(ctx context.Context, bookingID, actorID int64, approve bool) (*BookingDTO, error) {
	var (
		bk     *bookingDomain.Booking
		item   *itemDomain.Item
		booker *userDomain.User
	)
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		var err error
		if bk, err = s.bookings.FindByIDForUpdate(ctx, bookingID); err != nil {
			return err
		}
		if item, err = s.items.FindByID(ctx, bk.ItemID()); err != nil {
			return err
		}
		if err := bookingDomain.CheckDecision(actorID, itemRef(item)); err != nil {
			return err
		}
		if err := bk.Decide(approve, s.now()); err != nil {
			return err
		}
		bk.IncrementVersion()
		if err := s.bookings.Update(ctx, bk); err != nil {
			if domain.KindOf(err) == domain.KindConflict {
				// Only the status changes after creation, so a newer version means
				// another decision won.
				return bookingDomain.ErrAlreadyDecided
			}
			return err
		}
		booker, err = s.users.FindByID(ctx, bk.RenterID())
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.IncBookingDecision(bk.Status().String())
	s.logger.Info("booking decided",
		zap.Int64("booking_id", bk.ID()),
		zap.String("status", bk.Status().String()),
		zap.Int64("owner_id", actorID),
	)
	eventType := events.BookingRejected
	if bk.Status() == bookingDomain.StatusApproved {
		eventType = events.BookingApproved
	}
	s.publishEvent(ctx, eventType, bk.ID(), events.BookingDecidedEvent{
		BookingID:  bk.ID(),
		ItemID:     item.ID(),
		BookerID:   bk.RenterID(),
		OwnerID:    item.OwnerID(),
		Status:     bk.Status().String(),
		OccurredAt: s.now(),
	})

	result := toBookingDTO(bk, item, booker)
	return &result, nil
}

// GetBooking returns a booking to its booker or to the owner of its item.
func (s *BookingService) GetBooking(ctx context.Context, bookingID, actorID int64) (*BookingDTO, error) {
	var result BookingDTO
	err := s.tx.InReadTx(ctx, func(ctx context.Context) error {
		bk, err := s.bookings.FindByID(ctx, bookingID)
		if err != nil {
			return err
		}
		item, err := s.items.FindByID(ctx, bk.ItemID())
		if err != nil {
			return err
		}
		if !bookingDomain.CanView(bk, actorID, itemRef(item)) {
			return bookingDomain.BookingNotFoundFor(bookingID)
		}
		booker, err := s.users.FindByID(ctx, bk.RenterID())
		if err != nil {
			return err
		}
		result = toBookingDTO(bk, item, booker)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ListByRenter lists the actor's own bookings in one filter class.
func (s *BookingService) ListByRenter(ctx context.Context, actorID int64, state string, from, size int) ([]BookingDTO, error) {
	return s.list(ctx, actorID, state, from, size, s.bookings.FindByRenter)
}

// ListByOwner lists bookings on the actor's items in one filter class.
func (s *BookingService) ListByOwner(ctx context.Context, actorID int64, state string, from, size int) ([]BookingDTO, error) {
	return s.list(ctx, actorID, state, from, size, s.bookings.FindByOwner)
}

type listFunc func(ctx context.Context, actorID int64, q bookingDomain.ListQuery) ([]*bookingDomain.Booking, error)

func (s *BookingService) list(ctx context.Context, actorID int64, state string, from, size int, find listFunc) ([]BookingDTO, error) {
	var result []BookingDTO
	err := s.tx.InReadTx(ctx, func(ctx context.Context) error {
		if _, err := s.users.FindByID(ctx, actorID); err != nil {
			return err
		}
		q, err := bookingDomain.NewListQuery(state, from, size, s.now())
		if err != nil {
			return err
		}
		bookings, err := find(ctx, actorID, q)
		if err != nil {
			return err
		}
		result, err = s.resolve(ctx, bookings)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ResolveNearest returns the last and next non-rejected bookings of an item
// relative to now. Both are nil unless actorID owns the item.
func (s *BookingService) ResolveNearest(ctx context.Context, item *itemDomain.Item, actorID int64, now time.Time) (last, next *bookingDomain.ShortBooking, err error) {
	if !item.IsOwnedBy(actorID) {
		return nil, nil, nil
	}
	lastBk, err := s.bookings.FindLastForItem(ctx, item.ID(), now)
	if err != nil {
		return nil, nil, err
	}
	nextBk, err := s.bookings.FindNextForItem(ctx, item.ID(), now)
	if err != nil {
		return nil, nil, err
	}
	if lastBk != nil {
		last = lastBk.Short()
	}
	if nextBk != nil {
		next = nextBk.Short()
	}
	return last, next, nil
}

// HasCompletedBooking reports whether renterID has an approved booking that ended before now.
func (s *BookingService) HasCompletedBooking(ctx context.Context, renterID int64, now time.Time) (bool, error) {
	return s.bookings.ExistsCompletedByBooker(ctx, renterID, now)
}

// HasBookings reports whether itemID has any booking, whatever its status.
func (s *BookingService) HasBookings(ctx context.Context, itemID int64) (bool, error) {
	return s.bookings.ExistsForItem(ctx, itemID)
}

// resolve loads the item and booker of each booking, once per distinct id.
func (s *BookingService) resolve(ctx context.Context, bookings []*bookingDomain.Booking) ([]BookingDTO, error) {
	items := make(map[int64]*itemDomain.Item)
	users := make(map[int64]*userDomain.User)

	result := make([]BookingDTO, 0, len(bookings))
	for _, bk := range bookings {
		item, ok := items[bk.ItemID()]
		if !ok {
			var err error
			if item, err = s.items.FindByID(ctx, bk.ItemID()); err != nil {
				return nil, err
			}
			items[bk.ItemID()] = item
		}
		booker, ok := users[bk.RenterID()]
		if !ok {
			var err error
			if booker, err = s.users.FindByID(ctx, bk.RenterID()); err != nil {
				return nil, err
			}
			users[bk.RenterID()] = booker
		}
		result = append(result, toBookingDTO(bk, item, booker))
	}
	return result, nil
}

// --- Helpers ---

func itemRef(item *itemDomain.Item) bookingDomain.ItemRef {
	return bookingDomain.ItemRef{
		ID:        item.ID(),
		OwnerID:   item.OwnerID(),
		Available: item.Available(),
	}
}

func toBookingDTO(bk *bookingDomain.Booking, item *itemDomain.Item, booker *userDomain.User) BookingDTO {
	return BookingDTO{
		ID:     bk.ID(),
		ItemID: bk.ItemID(),
		Start:  bk.Start(),
		End:    bk.End(),
		Status: bk.Status().String(),
		Item:   ItemRefDTO{ID: item.ID(), Name: item.Name()},
		Booker: UserRefDTO{ID: booker.ID(), Name: booker.Name()},
	}
}

func (s *BookingService) publishEvent(ctx context.Context, eventType string, bookingID int64, data interface{}) {
	if err := s.publisher.Publish(ctx, eventType, strconv.FormatInt(bookingID, 10), data); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("event_type", eventType),
			zap.Int64("booking_id", bookingID),
			zap.Error(err),
		)
	}
}
