package pagination

import "errors"

const (
	DefaultPage    = 1
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// The sentinel texts double as the client-facing error messages.
var (
	ErrInvalidPage    = errors.New("Page number must be greater than 0")
	ErrInvalidPerPage = errors.New("Per page must be between 1 and 100")
)

// Params is a validated page request translated into LIMIT/OFFSET form.
type Params struct {
	Page    int
	PerPage int
	Offset  int
	Limit   int
}

// Parse validates page and perPage and derives the query window.
// The page check runs first, so when both values are invalid the page
// error wins.
func Parse(page, perPage int) (Params, error) {
	if page < 1 {
		return Params{}, ErrInvalidPage
	}
	if perPage < 1 || perPage > MaxPerPage {
		return Params{}, ErrInvalidPerPage
	}
	return Params{
		Page:    page,
		PerPage: perPage,
		Offset:  (page - 1) * perPage,
		Limit:   perPage,
	}, nil
}

// Envelope is the pagination metadata attached to every list response.
type Envelope struct {
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	TotalCount int  `json:"total_count"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// NewEnvelope computes the envelope for a total count obtained over the
// same predicate as the page query. With totalCount 0 the arithmetic
// yields total_pages 0 and has_next false while has_prev still tracks
// page > 1; a page beyond total_pages is a valid empty page, not an
// error.
func NewEnvelope(params Params, totalCount int) Envelope {
	totalPages := (totalCount + params.PerPage - 1) / params.PerPage
	return Envelope{
		Page:       params.Page,
		PerPage:    params.PerPage,
		TotalCount: totalCount,
		TotalPages: totalPages,
		HasNext:    params.Page < totalPages,
		HasPrev:    params.Page > 1,
	}
}
