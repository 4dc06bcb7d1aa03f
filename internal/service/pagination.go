package service

// Listing limits.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// clampPage bounds limit to (0, MaxPageSize] and offset to >= 0.
func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
