package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	// DefaultLimit is applied when the limit query parameter is absent or
	// unparseable.
	DefaultLimit = 20
	// MaxLimit caps the page size a client may request.
	MaxLimit = 100
)

// Pagination describes the window a list response covers.
type Pagination struct {
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

// PagedResponse is the uniform envelope for list endpoints.
type PagedResponse[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// NewPagedResponse wraps a page of data. Total is the filter-applied count
// independent of limit/offset.
func NewPagedResponse[T any](data []T, total int64, limit, offset int) PagedResponse[T] {
	if data == nil {
		data = []T{}
	}
	return PagedResponse[T]{
		Data:       data,
		Pagination: Pagination{Total: total, Limit: limit, Offset: offset},
	}
}

// ParsePageParams reads limit/offset from the query string. Non-numeric values
// fall back to the defaults rather than erroring; limit is clamped to
// [1, MaxLimit] and offset floored at 0.
func ParsePageParams(c *gin.Context) (limit, offset int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultLimit)))
	if err != nil || limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	offset, err = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	return limit, offset
}
