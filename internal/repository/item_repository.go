package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/ShareIt-Platform/service-sharing/internal/common/database"
	"github.com/ShareIt-Platform/service-sharing/internal/common/domain"
	itemDomain "github.com/ShareIt-Platform/service-sharing/internal/domain/item"
)

// ItemModel is the GORM model for the items table.
type ItemModel struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	OwnerID     int64     `gorm:"not null;index"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:varchar(1000);not null"`
	Available   bool      `gorm:"not null"`
	RequestID   *int64    `gorm:"index"`
	Version     int64     `gorm:"not null;default:1"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (ItemModel) TableName() string { return "items" }

// GormItemRepository implements ItemRepository using GORM.
type GormItemRepository struct {
	db *gorm.DB
}

func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

func (r *GormItemRepository) FindByID(ctx context.Context, id int64) (*itemDomain.Item, error) {
	var model ItemModel
	if err := database.Conn(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, itemDomain.NotFoundFor(id)
		}
		return nil, fmt.Errorf("failed to find item: %w", err)
	}
	return toItemDomain(&model), nil
}

func (r *GormItemRepository) FindByOwner(ctx context.Context, ownerID int64, page domain.PageRequest) ([]*itemDomain.Item, error) {
	var models []ItemModel
	if err := database.Conn(ctx, r.db).
		Where("owner_id = ?", ownerID).
		Order("id ASC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list owner items: %w", err)
	}
	return toItemDomains(models), nil
}

func (r *GormItemRepository) Search(ctx context.Context, text string, page domain.PageRequest) ([]*itemDomain.Item, error) {
	pattern := "%" + escapeLike(strings.ToLower(text)) + "%"
	var models []ItemModel
	if err := database.Conn(ctx, r.db).
		Where("available = ?", true).
		Where(`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\'`, pattern, pattern).
		Order("id ASC").
		Offset(page.Offset()).
		Limit(page.Limit()).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to search items: %w", err)
	}
	return toItemDomains(models), nil
}

func (r *GormItemRepository) FindByRequests(ctx context.Context, requestIDs []int64) (map[int64][]*itemDomain.Item, error) {
	result := make(map[int64][]*itemDomain.Item, len(requestIDs))
	if len(requestIDs) == 0 {
		return result, nil
	}
	var models []ItemModel
	if err := database.Conn(ctx, r.db).
		Where("request_id IN ?", requestIDs).
		Order("id ASC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find items for requests: %w", err)
	}
	for i := range models {
		it := toItemDomain(&models[i])
		result[*it.RequestID()] = append(result[*it.RequestID()], it)
	}
	return result, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (r *GormItemRepository) Save(ctx context.Context, it *itemDomain.Item) error {
	model := toItemModel(it)
	if err := database.Conn(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save item: %w", err)
	}
	it.AssignID(model.ID)
	return nil
}

func (r *GormItemRepository) Update(ctx context.Context, it *itemDomain.Item) error {
	result := database.Conn(ctx, r.db).
		Model(&ItemModel{}).
		Where("id = ? AND version = ?", it.ID(), it.Version()-1).
		Updates(map[string]interface{}{
			"name":        it.Name(),
			"description": it.Description(),
			"available":   it.Available(),
			"version":     it.Version(),
			"updated_at":  it.UpdatedAt(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("item was modified by another transaction")
	}
	return nil
}

func (r *GormItemRepository) Delete(ctx context.Context, id int64) error {
	result := database.Conn(ctx, r.db).Delete(&ItemModel{}, id)
	if errors.Is(result.Error, gorm.ErrForeignKeyViolated) {
		return itemDomain.ErrItemHasBookings
	}
	if result.Error != nil {
		return fmt.Errorf("failed to delete item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return itemDomain.NotFoundFor(id)
	}
	return nil
}

func toItemModel(it *itemDomain.Item) *ItemModel {
	return &ItemModel{
		ID:          it.ID(),
		OwnerID:     it.OwnerID(),
		Name:        it.Name(),
		Description: it.Description(),
		Available:   it.Available(),
		RequestID:   it.RequestID(),
		Version:     it.Version(),
		CreatedAt:   it.CreatedAt(),
		UpdatedAt:   it.UpdatedAt(),
	}
}

func toItemDomain(m *ItemModel) *itemDomain.Item {
	return itemDomain.Reconstruct(m.ID, m.OwnerID, m.Name, m.Description, m.Available, m.RequestID, m.Version, m.CreatedAt, m.UpdatedAt)
}

func toItemDomains(models []ItemModel) []*itemDomain.Item {
	items := make([]*itemDomain.Item, len(models))
	for i := range models {
		items[i] = toItemDomain(&models[i])
	}
	return items
}
