package item

import (
	"context"
	"strings"
	"time"

	"github.com/ShareIt-Platform/service-sharing/internal/common/domain"
)

// Comment is feedback left on an item by a past booker.
type Comment struct {
	id         int64
	itemID     int64
	authorID   int64
	authorName string
	text       string
	created    time.Time
}

// NewComment creates a new comment.
func NewComment(itemID, authorID int64, authorName, text string, created time.Time) (*Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.NewValidationError("comment text is required")
	}
	return &Comment{
		itemID:     itemID,
		authorID:   authorID,
		authorName: authorName,
		text:       text,
		created:    created.UTC(),
	}, nil
}

// ReconstructComment rebuilds a Comment from persistence.
func ReconstructComment(id, itemID, authorID int64, authorName, text string, created time.Time) *Comment {
	return &Comment{
		id:         id,
		itemID:     itemID,
		authorID:   authorID,
		authorName: authorName,
		text:       text,
		created:    created,
	}
}

func (c *Comment) ID() int64          { return c.id }
func (c *Comment) ItemID() int64      { return c.itemID }
func (c *Comment) AuthorID() int64    { return c.authorID }
func (c *Comment) AuthorName() string { return c.authorName }
func (c *Comment) Text() string       { return c.text }
func (c *Comment) Created() time.Time { return c.created }

// AssignID records the identifier given by the store on insert.
func (c *Comment) AssignID(id int64) { c.id = id }

// CommentRepository defines persistence operations for comments.
type CommentRepository interface {
	FindByItem(ctx context.Context, itemID int64) ([]*Comment, error)
	FindByItems(ctx context.Context, itemIDs []int64) (map[int64][]*Comment, error)
	Save(ctx context.Context, comment *Comment) error
}
