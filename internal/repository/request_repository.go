package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/ShareIt-Platform/service-sharing/internal/common/database"
	"github.com/ShareIt-Platform/service-sharing/internal/common/domain"
	requestDomain "github.com/ShareIt-Platform/service-sharing/internal/domain/request"
)

// ItemRequestModel is the GORM model for the item_requests table.
type ItemRequestModel struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	RequesterID int64     `gorm:"not null;index"`
	Description string    `gorm:"type:varchar(1000);not null"`
	Created     time.Time `gorm:"not null;index"`
}

func (ItemRequestModel) TableName() string { return "item_requests" }

// GormItemRequestRepository implements request.Repository using GORM.
type GormItemRequestRepository struct {
	db *gorm.DB
}

func NewGormItemRequestRepository(db *gorm.DB) *GormItemRequestRepository {
	return &GormItemRequestRepository{db: db}
}

func (r *GormItemRequestRepository) FindByID(ctx context.Context, id int64) (*requestDomain.ItemRequest, error) {
	var model ItemRequestModel
	if err := database.Conn(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, requestDomain.NotFoundFor(id)
		}
		return nil, fmt.Errorf("failed to find item request: %w", err)
	}
	return toRequestDomain(&model), nil
}

func (r *GormItemRequestRepository) FindByRequester(ctx context.Context, requesterID int64) ([]*requestDomain.ItemRequest, error) {
	var models []ItemRequestModel
	if err := database.Conn(ctx, r.db).
		Where("requester_id = ?", requesterID).
		Order("created ASC").
		Order("id ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list own item requests: %w", err)
	}
	return toRequestDomains(models), nil
}

func (r *GormItemRequestRepository) FindOthers(ctx context.Context, requesterID int64, page domain.PageRequest) ([]*requestDomain.ItemRequest, error) {
	var models []ItemRequestModel
	if err := database.Conn(ctx, r.db).
		Where("requester_id <> ?", requesterID).
		Order("created ASC").
		Order("id ASC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list item requests: %w", err)
	}
	return toRequestDomains(models), nil
}

func (r *GormItemRequestRepository) Save(ctx context.Context, req *requestDomain.ItemRequest) error {
	model := &ItemRequestModel{
		RequesterID: req.RequesterID(),
		Description: req.Description(),
		Created:     req.Created(),
	}
	if err := database.Conn(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save item request: %w", err)
	}
	req.AssignID(model.ID)
	return nil
}

func toRequestDomain(m *ItemRequestModel) *requestDomain.ItemRequest {
	return requestDomain.Reconstruct(m.ID, m.RequesterID, m.Description, m.Created)
}

func toRequestDomains(models []ItemRequestModel) []*requestDomain.ItemRequest {
	out := make([]*requestDomain.ItemRequest, len(models))
	for i := range models {
		out[i] = toRequestDomain(&models[i])
	}
	return out
}
