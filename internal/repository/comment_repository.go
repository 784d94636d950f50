package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/ShareIt-Platform/service-sharing/internal/common/database"
	itemDomain "github.com/ShareIt-Platform/service-sharing/internal/domain/item"
)

// CommentModel is the GORM model for the comments table.
type CommentModel struct {
	ID       int64     `gorm:"primaryKey;autoIncrement"`
	ItemID   int64     `gorm:"not null;index"`
	AuthorID int64     `gorm:"not null;index"`
	Text     string    `gorm:"type:varchar(2000);not null"`
	Created  time.Time `gorm:"not null"`
}

func (CommentModel) TableName() string { return "comments" }

// commentRow is a comment joined with its author's name.
type commentRow struct {
	CommentModel
	AuthorName string
}

// GormCommentRepository implements CommentRepository using GORM.
type GormCommentRepository struct {
	db *gorm.DB
}

func NewGormCommentRepository(db *gorm.DB) *GormCommentRepository {
	return &GormCommentRepository{db: db}
}

func (r *GormCommentRepository) FindByItem(ctx context.Context, itemID int64) ([]*itemDomain.Comment, error) {
	byItem, err := r.FindByItems(ctx, []int64{itemID})
	if err != nil {
		return nil, err
	}
	if comments := byItem[itemID]; comments != nil {
		return comments, nil
	}
	return []*itemDomain.Comment{}, nil
}

// FindByItems loads the comments of several items in one query, oldest first.
func (r *GormCommentRepository) FindByItems(ctx context.Context, itemIDs []int64) (map[int64][]*itemDomain.Comment, error) {
	result := make(map[int64][]*itemDomain.Comment, len(itemIDs))
	if len(itemIDs) == 0 {
		return result, nil
	}

	var rows []commentRow
	if err := database.Conn(ctx, r.db).
		Table("comments").
		Select("comments.*, users.name AS author_name").
		Joins("JOIN users ON users.id = comments.author_id").
		Where("comments.item_id IN ?", itemIDs).
		Order("comments.created ASC").
		Order("comments.id ASC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to find comments: %w", err)
	}

	for _, row := range rows {
		result[row.ItemID] = append(result[row.ItemID], itemDomain.ReconstructComment(
			row.ID, row.ItemID, row.AuthorID, row.AuthorName, row.Text, row.Created,
		))
	}
	return result, nil
}

func (r *GormCommentRepository) Save(ctx context.Context, c *itemDomain.Comment) error {
	model := &CommentModel{
		ItemID:   c.ItemID(),
		AuthorID: c.AuthorID(),
		Text:     c.Text(),
		Created:  c.Created(),
	}
	if err := database.Conn(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save comment: %w", err)
	}
	c.AssignID(model.ID)
	return nil
}
