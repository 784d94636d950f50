package application

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ShareIt-Platform/service-sharing/internal/common/domain"
	bookingDomain "github.com/ShareIt-Platform/service-sharing/internal/domain/booking"
	itemDomain "github.com/ShareIt-Platform/service-sharing/internal/domain/item"
	requestDomain "github.com/ShareIt-Platform/service-sharing/internal/domain/request"
	userDomain "github.com/ShareIt-Platform/service-sharing/internal/domain/user"
)

// CreateItemRequest holds the data needed to list a new item.
type CreateItemRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	Available   *bool  `json:"available" binding:"required"`
	RequestID   *int64 `json:"requestId"`
}

// UpdateItemRequest carries a partial item update; nil fields are left unchanged.
type UpdateItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

// CreateCommentRequest holds the text of a new comment.
type CreateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// ItemDTO is the response representation of an item.
type ItemDTO struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Available   bool         `json:"available"`
	OwnerID     int64        `json:"ownerId"`
	RequestID   *int64       `json:"requestId,omitempty"`
	Comments    []CommentDTO `json:"comments"`
}

// ItemWithBookingsDTO is an item as its owner sees it, with the nearest bookings.
type ItemWithBookingsDTO struct {
	ItemDTO
	LastBooking *bookingDomain.ShortBooking `json:"lastBooking"`
	NextBooking *bookingDomain.ShortBooking `json:"nextBooking"`
}

// CommentDTO is the response representation of a comment.
type CommentDTO struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"authorName"`
	Created    time.Time `json:"created"`
}

// NearestResolver finds the bookings around now for an item card.
type NearestResolver interface {
	ResolveNearest(ctx context.Context, item *itemDomain.Item, actorID int64, now time.Time) (last, next *bookingDomain.ShortBooking, err error)
}

// BookingChecker answers the booking questions item use cases depend on.
type BookingChecker interface {
	// HasCompletedBooking decides whether a user may comment.
	HasCompletedBooking(ctx context.Context, renterID int64, now time.Time) (bool, error)
	// HasBookings reports whether an item has any booking history.
	HasBookings(ctx context.Context, itemID int64) (bool, error)
}

// ItemService orchestrates item and comment use cases.
type ItemService struct {
	items    itemDomain.ItemRepository
	comments itemDomain.CommentRepository
	requests requestDomain.Repository
	users    userDomain.UserRepository
	nearest  NearestResolver
	checker  BookingChecker
	tx       Transactor
	logger   *zap.Logger
	now      Clock
}

// NewItemService creates a new ItemService.
func NewItemService(
	items itemDomain.ItemRepository,
	comments itemDomain.CommentRepository,
	requests requestDomain.Repository,
	users userDomain.UserRepository,
	nearest NearestResolver,
	checker BookingChecker,
	tx Transactor,
	logger *zap.Logger,
	opts ...Option,
) *ItemService {
	o := buildOptions(opts)
	return &ItemService{
		items:    items,
		comments: comments,
		requests: requests,
		users:    users,
		nearest:  nearest,
		checker:  checker,
		tx:       tx,
		logger:   logger,
		now:      o.clock,
	}
}

// CreateItem lists a new item owned by the actor. A request id, when given,
// must name an existing item request.
func (s *ItemService) CreateItem(ctx context.Context, actorID int64, req CreateItemRequest) (*ItemDTO, error) {
	if req.Available == nil {
		return nil, domain.NewValidationError("available is required")
	}
	var it *itemDomain.Item
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		if _, err := s.users.FindByID(ctx, actorID); err != nil {
			return err
		}
		if req.RequestID != nil {
			if _, err := s.requests.FindByID(ctx, *req.RequestID); err != nil {
				return err
			}
		}
		var err error
		if it, err = itemDomain.NewItem(actorID, req.Name, req.Description, *req.Available, req.RequestID); err != nil {
			return err
		}
		return s.items.Save(ctx, it)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("item created", zap.Int64("item_id", it.ID()), zap.Int64("owner_id", actorID))
	result := toItemDTO(it, nil)
	return &result, nil
}

// UpdateItem applies a partial update. Only the owner may change an item.
func (s *ItemService) UpdateItem(ctx context.Context, actorID, itemID int64, req UpdateItemRequest) (*ItemDTO, error) {
	var it *itemDomain.Item
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		if _, err := s.users.FindByID(ctx, actorID); err != nil {
			return err
		}
		var err error
		if it, err = s.items.FindByID(ctx, itemID); err != nil {
			return err
		}
		if err := it.Patch(actorID, req.Name, req.Description, req.Available); err != nil {
			return err
		}
		it.IncrementVersion()
		return s.items.Update(ctx, it)
	})
	if err != nil {
		return nil, err
	}

	result := toItemDTO(it, nil)
	return &result, nil
}

// GetItem returns an item with its comments; the owner also sees the nearest bookings.
func (s *ItemService) GetItem(ctx context.Context, actorID, itemID int64) (*ItemWithBookingsDTO, error) {
	var result ItemWithBookingsDTO
	err := s.tx.InReadTx(ctx, func(ctx context.Context) error {
		it, err := s.items.FindByID(ctx, itemID)
		if err != nil {
			return err
		}
		comments, err := s.comments.FindByItem(ctx, it.ID())
		if err != nil {
			return err
		}
		result, err = s.decorate(ctx, it, actorID, comments, s.now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ListOwnerItems lists the actor's items ordered by id, each decorated like GetItem.
func (s *ItemService) ListOwnerItems(ctx context.Context, actorID int64, from, size int) ([]ItemWithBookingsDTO, error) {
	page, err := domain.NewPageRequest(from, size)
	if err != nil {
		return nil, err
	}

	result := []ItemWithBookingsDTO{}
	err = s.tx.InReadTx(ctx, func(ctx context.Context) error {
		now := s.now()
		items, err := s.items.FindByOwner(ctx, actorID, page)
		if err != nil {
			return err
		}
		comments, err := s.comments.FindByItems(ctx, itemIDs(items))
		if err != nil {
			return err
		}
		for _, it := range items {
			dto, err := s.decorate(ctx, it, actorID, comments[it.ID()], now)
			if err != nil {
				return err
			}
			result = append(result, dto)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SearchItems finds available items by text in the name or description. Blank text matches nothing.
func (s *ItemService) SearchItems(ctx context.Context, text string, from, size int) ([]ItemDTO, error) {
	page, err := domain.NewPageRequest(from, size)
	if err != nil {
		return nil, err
	}
	result := []ItemDTO{}
	if strings.TrimSpace(text) == "" {
		return result, nil
	}

	err = s.tx.InReadTx(ctx, func(ctx context.Context) error {
		items, err := s.items.Search(ctx, text, page)
		if err != nil {
			return err
		}
		comments, err := s.comments.FindByItems(ctx, itemIDs(items))
		if err != nil {
			return err
		}
		for _, it := range items {
			result = append(result, toItemDTO(it, comments[it.ID()]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteItem removes an item. Only the owner may delete it, and only while
// no booking references it.
func (s *ItemService) DeleteItem(ctx context.Context, actorID, itemID int64) error {
	return s.tx.InTx(ctx, func(ctx context.Context) error {
		it, err := s.items.FindByID(ctx, itemID)
		if err != nil {
			return err
		}
		if !it.IsOwnedBy(actorID) {
			return itemDomain.ErrItemAccessDenied
		}
		booked, err := s.checker.HasBookings(ctx, itemID)
		if err != nil {
			return err
		}
		if booked {
			return itemDomain.ErrItemHasBookings
		}
		return s.items.Delete(ctx, itemID)
	})
}

// AddComment stores feedback from a user who has completed a booking.
func (s *ItemService) AddComment(ctx context.Context, actorID, itemID int64, req CreateCommentRequest) (*CommentDTO, error) {
	var c *itemDomain.Comment
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		now := s.now()
		ok, err := s.checker.HasCompletedBooking(ctx, actorID, now)
		if err != nil {
			return err
		}
		if !ok {
			return bookingDomain.ErrNoEligibleBooking
		}
		author, err := s.users.FindByID(ctx, actorID)
		if err != nil {
			return err
		}
		it, err := s.items.FindByID(ctx, itemID)
		if err != nil {
			return err
		}
		if c, err = itemDomain.NewComment(it.ID(), author.ID(), author.Name(), req.Text, now); err != nil {
			return err
		}
		return s.comments.Save(ctx, c)
	})
	if err != nil {
		return nil, err
	}

	result := toCommentDTO(c)
	return &result, nil
}

func (s *ItemService) decorate(ctx context.Context, it *itemDomain.Item, actorID int64, comments []*itemDomain.Comment, now time.Time) (ItemWithBookingsDTO, error) {
	last, next, err := s.nearest.ResolveNearest(ctx, it, actorID, now)
	if err != nil {
		return ItemWithBookingsDTO{}, err
	}
	return ItemWithBookingsDTO{
		ItemDTO:     toItemDTO(it, comments),
		LastBooking: last,
		NextBooking: next,
	}, nil
}

// --- Helpers ---

func itemIDs(items []*itemDomain.Item) []int64 {
	ids := make([]int64, len(items))
	for i, it := range items {
		ids[i] = it.ID()
	}
	return ids
}

func toItemDTO(it *itemDomain.Item, comments []*itemDomain.Comment) ItemDTO {
	dtos := make([]CommentDTO, 0, len(comments))
	for _, c := range comments {
		dtos = append(dtos, toCommentDTO(c))
	}
	return ItemDTO{
		ID:          it.ID(),
		Name:        it.Name(),
		Description: it.Description(),
		Available:   it.Available(),
		OwnerID:     it.OwnerID(),
		RequestID:   it.RequestID(),
		Comments:    dtos,
	}
}

func toCommentDTO(c *itemDomain.Comment) CommentDTO {
	return CommentDTO{
		ID:         c.ID(),
		Text:       c.Text(),
		AuthorName: c.AuthorName(),
		Created:    c.Created(),
	}
}
