package pagination

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	// DefaultPageSize defines the fallback number of items returned when the client omits take.
	DefaultPageSize = 20
	// DefaultMaxPageSize caps the supported take to prevent unbounded queries.
	DefaultMaxPageSize = 100
)

var (
	ErrInvalidPage     = errors.New("pagination: invalid page")
	ErrInvalidPageSize = errors.New("pagination: invalid take")
)

// Params bundles the 1-based page number and page size extracted from a request.
//
// Every listing in this API is 1-based: page 1 is the first page. Widgets that
// count from zero convert before building the query string, never here.
type Params struct {
	Page int
	Take int
}

// Options control how Parse behaves for a given handler layer.
type Options struct {
	DefaultPageSize int
	MaxPageSize     int
}

// Meta is the pagination envelope the marketplace API attaches to every list response.
type Meta struct {
	Page            int  `json:"page"`
	Take            int  `json:"take"`
	ItemCount       int  `json:"itemCount"`
	PageCount       int  `json:"pageCount"`
	HasPreviousPage bool `json:"hasPreviousPage"`
	HasNextPage     bool `json:"hasNextPage"`
}

// FromRequest parses the supported query parameters from the supplied request.
func FromRequest(r *http.Request, opts Options) (Params, error) {
	if r == nil {
		return Params{}, errors.New("pagination: nil request")
	}
	return Parse(r.URL.Query(), opts)
}

// Parse consumes the provided query values and returns the normalised Params representation.
func Parse(values url.Values, opts Options) (Params, error) {
	if values == nil {
		values = url.Values{}
	}

	defaultSize := opts.DefaultPageSize
	if defaultSize <= 0 {
		defaultSize = DefaultPageSize
	}
	maxSize := opts.MaxPageSize
	if maxSize <= 0 {
		maxSize = DefaultMaxPageSize
	}

	page := 1
	if raw := strings.TrimSpace(values.Get("page")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return Params{}, ErrInvalidPage
		}
		page = parsed
	}

	take := defaultSize
	if raw := strings.TrimSpace(values.Get("take")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return Params{}, ErrInvalidPageSize
		}
		if parsed > maxSize {
			return Params{}, ErrInvalidPageSize
		}
		take = parsed
	}

	return Params{Page: page, Take: take}, nil
}

// Offset converts the 1-based page into a slice offset.
func (p Params) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Take
}

// BuildMeta derives the meta envelope for a result set of itemCount items.
func BuildMeta(params Params, itemCount int) Meta {
	take := params.Take
	if take <= 0 {
		take = DefaultPageSize
	}
	pageCount := 0
	if itemCount > 0 {
		pageCount = (itemCount + take - 1) / take
	}
	page := params.Page
	if page < 1 {
		page = 1
	}
	return Meta{
		Page:            page,
		Take:            take,
		ItemCount:       itemCount,
		PageCount:       pageCount,
		HasPreviousPage: page > 1,
		HasNextPage:     page < pageCount,
	}
}

// Slice returns the window of a full result set corresponding to the params.
func Slice[T any](items []T, params Params) []T {
	offset := params.Offset()
	if offset >= len(items) {
		return []T{}
	}
	end := offset + params.Take
	if params.Take <= 0 || end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
