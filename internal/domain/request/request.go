package request

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ShareIt-Platform/service-sharing/internal/common/domain"
)

var ErrRequestNotFound = domain.New(domain.KindNotFound, "REQUEST_NOT_FOUND", "Item request not found")

// NotFoundFor returns ErrRequestNotFound naming the request id.
func NotFoundFor(id int64) error {
	return domain.New(ErrRequestNotFound.Kind, ErrRequestNotFound.Code, fmt.Sprintf("Item request not found: %d", id))
}

// ItemRequest is a user's description of something they would like to borrow.
// Owners answer it by listing an item that carries the request id.
type ItemRequest struct {
	id          int64
	requesterID int64
	description string
	created     time.Time
}

// NewItemRequest creates a request posted by requesterID at created.
func NewItemRequest(requesterID int64, description string, created time.Time) (*ItemRequest, error) {
	if requesterID <= 0 {
		return nil, domain.NewValidationError("requester ID is required")
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, domain.NewValidationError("description is required")
	}
	return &ItemRequest{
		requesterID: requesterID,
		description: description,
		created:     created.UTC(),
	}, nil
}

// Reconstruct rebuilds an ItemRequest from persistence data (no validation).
func Reconstruct(id, requesterID int64, description string, created time.Time) *ItemRequest {
	return &ItemRequest{
		id:          id,
		requesterID: requesterID,
		description: description,
		created:     created,
	}
}

func (r *ItemRequest) ID() int64           { return r.id }
func (r *ItemRequest) RequesterID() int64  { return r.requesterID }
func (r *ItemRequest) Description() string { return r.description }
func (r *ItemRequest) Created() time.Time  { return r.created }
func (r *ItemRequest) AssignID(id int64)   { r.id = id }

// Repository defines persistence operations for item requests. Listings are
// ordered oldest first.
type Repository interface {
	FindByID(ctx context.Context, id int64) (*ItemRequest, error)
	FindByRequester(ctx context.Context, requesterID int64) ([]*ItemRequest, error)
	// FindOthers lists requests posted by anyone except requesterID.
	FindOthers(ctx context.Context, requesterID int64, page domain.PageRequest) ([]*ItemRequest, error)
	Save(ctx context.Context, r *ItemRequest) error
}
