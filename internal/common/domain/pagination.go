package domain

// PageRequest is a zero-based page index with a fixed page size.
type PageRequest struct {
	Index int
	Size  int
}

// NewPageRequest translates an item offset into the page that contains it.
// The offset is not honoured exactly: from=7,size=5 yields page 1 (items 5..9).
func NewPageRequest(from, size int) (PageRequest, error) {
	if from < 0 {
		return PageRequest{}, NewValidationError("from must not be negative")
	}
	if size < 1 {
		return PageRequest{}, NewValidationError("size must be positive")
	}
	index := 0
	if from > 0 {
		index = from / size
	}
	return PageRequest{Index: index, Size: size}, nil
}

// Offset returns the number of rows to skip for this page.
func (p PageRequest) Offset() int {
	return p.Index * p.Size
}

// Limit returns the page size.
func (p PageRequest) Limit() int {
	return p.Size
}
