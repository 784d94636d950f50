package item

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ShareIt-Platform/service-sharing/internal/common/domain"
)

var (
	ErrItemNotFound     = domain.New(domain.KindNotFound, "ITEM_NOT_FOUND", "Item not found")
	ErrItemAccessDenied = domain.New(domain.KindForbidden, "ITEM_ACCESS_DENIED", "You don't have access to patch this item")
	ErrItemHasBookings  = domain.New(domain.KindConflict, "ITEM_HAS_BOOKINGS", "Item has bookings and can't be deleted")
)

// NotFoundFor returns ErrItemNotFound naming the item id.
func NotFoundFor(id int64) error {
	return domain.New(ErrItemNotFound.Kind, ErrItemNotFound.Code, fmt.Sprintf("Item not found: %d", id))
}

// Item is a thing an owner lends out.
type Item struct {
	id          int64
	ownerID     int64
	name        string
	description string
	available   bool
	requestID   *int64
	version     int64
	createdAt   time.Time
	updatedAt   time.Time
}

// NewItem creates a new item with validated fields.
func NewItem(ownerID int64, name, description string, available bool, requestID *int64) (*Item, error) {
	if ownerID <= 0 {
		return nil, domain.NewValidationError("owner ID is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("name is required")
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, domain.NewValidationError("description is required")
	}

	now := time.Now().UTC()
	return &Item{
		ownerID:     ownerID,
		name:        name,
		description: description,
		available:   available,
		requestID:   requestID,
		version:     1,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// Reconstruct rebuilds an Item from persistence data (no validation).
func Reconstruct(
	id, ownerID int64,
	name, description string,
	available bool,
	requestID *int64,
	version int64,
	createdAt, updatedAt time.Time,
) *Item {
	return &Item{
		id:          id,
		ownerID:     ownerID,
		name:        name,
		description: description,
		available:   available,
		requestID:   requestID,
		version:     version,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// --- Getters ---

func (i *Item) ID() int64            { return i.id }
func (i *Item) OwnerID() int64       { return i.ownerID }
func (i *Item) Name() string         { return i.name }
func (i *Item) Description() string  { return i.description }
func (i *Item) Available() bool      { return i.available }
func (i *Item) RequestID() *int64    { return i.requestID }
func (i *Item) Version() int64       { return i.version }
func (i *Item) CreatedAt() time.Time { return i.createdAt }
func (i *Item) UpdatedAt() time.Time { return i.updatedAt }

// AssignID records the identifier given by the store on insert.
func (i *Item) AssignID(id int64) { i.id = id }

// IsOwnedBy reports whether userID owns the item.
func (i *Item) IsOwnedBy(userID int64) bool { return i.ownerID == userID }

// Patch applies the non-nil fields on behalf of actorID, who must be the owner.
func (i *Item) Patch(actorID int64, name, description *string, available *bool) error {
	if !i.IsOwnedBy(actorID) {
		return ErrItemAccessDenied
	}
	if name != nil {
		n := strings.TrimSpace(*name)
		if n == "" {
			return domain.NewValidationError("name must not be blank")
		}
		i.name = n
	}
	if description != nil {
		d := strings.TrimSpace(*description)
		if d == "" {
			return domain.NewValidationError("description must not be blank")
		}
		i.description = d
	}
	if available != nil {
		i.available = *available
	}
	i.updatedAt = time.Now().UTC()
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (i *Item) IncrementVersion() { i.version++ }

// ItemRepository defines persistence operations for items.
type ItemRepository interface {
	FindByID(ctx context.Context, id int64) (*Item, error)
	FindByOwner(ctx context.Context, ownerID int64, page domain.PageRequest) ([]*Item, error)
	// Search matches available items whose name or description contains text, ignoring case.
	Search(ctx context.Context, text string, page domain.PageRequest) ([]*Item, error)
	// FindByRequests groups the items answering each request id, ordered by id.
	FindByRequests(ctx context.Context, requestIDs []int64) (map[int64][]*Item, error)
	Save(ctx context.Context, item *Item) error
	Update(ctx context.Context, item *Item) error
	Delete(ctx context.Context, id int64) error
}
