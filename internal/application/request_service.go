package application

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ShareIt-Platform/service-sharing/internal/common/domain"
	itemDomain "github.com/ShareIt-Platform/service-sharing/internal/domain/item"
	requestDomain "github.com/ShareIt-Platform/service-sharing/internal/domain/request"
	userDomain "github.com/ShareIt-Platform/service-sharing/internal/domain/user"
)

// CreateItemRequestRequest holds the description of a wanted item.
type CreateItemRequestRequest struct {
	Description string `json:"description" binding:"required"`
}

// ItemRequestDTO is the response representation of an item request with the
// items listed in answer to it.
type ItemRequestDTO struct {
	ID          int64            `json:"id"`
	Description string           `json:"description"`
	Created     time.Time        `json:"created"`
	Items       []RequestItemDTO `json:"items"`
}

// RequestItemDTO is an item as shown under the request it answers.
type RequestItemDTO struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	OwnerID     int64  `json:"ownerId"`
	RequestID   int64  `json:"requestId"`
}

// RequestService orchestrates item request use cases.
type RequestService struct {
	requests requestDomain.Repository
	items    itemDomain.ItemRepository
	users    userDomain.UserRepository
	tx       Transactor
	logger   *zap.Logger
	now      Clock
}

// NewRequestService creates a new RequestService.
func NewRequestService(
	requests requestDomain.Repository,
	items itemDomain.ItemRepository,
	users userDomain.UserRepository,
	tx Transactor,
	logger *zap.Logger,
	opts ...Option,
) *RequestService {
	o := buildOptions(opts)
	return &RequestService{
		requests: requests,
		items:    items,
		users:    users,
		tx:       tx,
		logger:   logger,
		now:      o.clock,
	}
}

// CreateRequest posts a new request on behalf of the actor.
func (s *RequestService) CreateRequest(ctx context.Context, actorID int64, req CreateItemRequestRequest) (*ItemRequestDTO, error) {
	var r *requestDomain.ItemRequest
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		if _, err := s.users.FindByID(ctx, actorID); err != nil {
			return err
		}
		var err error
		if r, err = requestDomain.NewItemRequest(actorID, req.Description, s.now()); err != nil {
			return err
		}
		return s.requests.Save(ctx, r)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("item request created", zap.Int64("request_id", r.ID()), zap.Int64("requester_id", actorID))
	result := toItemRequestDTO(r, nil)
	return &result, nil
}

// ListOwnRequests lists the actor's requests, oldest first.
func (s *RequestService) ListOwnRequests(ctx context.Context, actorID int64) ([]ItemRequestDTO, error) {
	return s.list(ctx, actorID, func(ctx context.Context) ([]*requestDomain.ItemRequest, error) {
		return s.requests.FindByRequester(ctx, actorID)
	})
}

// ListOtherRequests pages through requests posted by other users, oldest first.
func (s *RequestService) ListOtherRequests(ctx context.Context, actorID int64, from, size int) ([]ItemRequestDTO, error) {
	page, err := domain.NewPageRequest(from, size)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, actorID, func(ctx context.Context) ([]*requestDomain.ItemRequest, error) {
		return s.requests.FindOthers(ctx, actorID, page)
	})
}

// GetRequest returns any request with its answers. Every known user may read it.
func (s *RequestService) GetRequest(ctx context.Context, actorID, requestID int64) (*ItemRequestDTO, error) {
	result, err := s.list(ctx, actorID, func(ctx context.Context) ([]*requestDomain.ItemRequest, error) {
		r, err := s.requests.FindByID(ctx, requestID)
		if err != nil {
			return nil, err
		}
		return []*requestDomain.ItemRequest{r}, nil
	})
	if err != nil {
		return nil, err
	}
	return &result[0], nil
}

func (s *RequestService) list(ctx context.Context, actorID int64, find func(ctx context.Context) ([]*requestDomain.ItemRequest, error)) ([]ItemRequestDTO, error) {
	result := []ItemRequestDTO{}
	err := s.tx.InReadTx(ctx, func(ctx context.Context) error {
		if _, err := s.users.FindByID(ctx, actorID); err != nil {
			return err
		}
		requests, err := find(ctx)
		if err != nil {
			return err
		}
		ids := make([]int64, len(requests))
		for i, r := range requests {
			ids[i] = r.ID()
		}
		answers, err := s.items.FindByRequests(ctx, ids)
		if err != nil {
			return err
		}
		for _, r := range requests {
			result = append(result, toItemRequestDTO(r, answers[r.ID()]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func toItemRequestDTO(r *requestDomain.ItemRequest, items []*itemDomain.Item) ItemRequestDTO {
	dtos := make([]RequestItemDTO, 0, len(items))
	for _, it := range items {
		dtos = append(dtos, RequestItemDTO{
			ID:          it.ID(),
			Name:        it.Name(),
			Description: it.Description(),
			Available:   it.Available(),
			OwnerID:     it.OwnerID(),
			RequestID:   r.ID(),
		})
	}
	return ItemRequestDTO{
		ID:          r.ID(),
		Description: r.Description(),
		Created:     r.Created(),
		Items:       dtos,
	}
}
