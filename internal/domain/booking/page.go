package booking

import (
	"time"

	"github.com/ShareIt-Platform/service-sharing/internal/common/domain"
)

// ListQuery is a filtered, paginated listing evaluated at a single instant.
// Results are ordered by start descending, then id descending.
type ListQuery struct {
	Filter Filter
	Now    time.Time
	Page   domain.PageRequest
}

// NewListQuery parses the raw state and paging parameters of a listing request.
func NewListQuery(state string, from, size int, now time.Time) (ListQuery, error) {
	filter, err := ParseFilter(state)
	if err != nil {
		return ListQuery{}, err
	}
	page, err := domain.NewPageRequest(from, size)
	if err != nil {
		return ListQuery{}, err
	}
	return ListQuery{Filter: filter, Now: now.UTC(), Page: page}, nil
}
