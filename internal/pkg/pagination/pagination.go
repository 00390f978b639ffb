package pagination

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Params represents pagination parameters
type Params struct {
	Page   int `json:"page"`
	Limit  int `json:"limit"`
	Offset int `json:"-"`
}

// Meta represents pagination metadata
type Meta struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalRecords int64 `json:"totalRecords"`
	Limit        int   `json:"limit"`
	HasNextPage  bool  `json:"hasNextPage"`
	HasPrevPage  bool  `json:"hasPrevPage"`
}

// DefaultLimit is the default number of items per page
const DefaultLimit = 10

// MaxLimit is the maximum number of items per page
const MaxLimit = 100

// MaxPage bounds the requested page so the offset cannot overflow
const MaxPage = 100_000

// New normalizes a requested page against the given defaults.
// A non-positive page becomes 1 and pages past MaxPage are clamped. A
// non-positive limit becomes defaultLimit and anything above maxLimit is
// clamped, with MaxLimit standing in for a non-positive maxLimit.
func New(page, limit, defaultLimit, maxLimit int) Params {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if maxLimit < 1 {
		maxLimit = MaxLimit
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	return Params{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// GetParams extracts raw pagination parameters from request.
// Services normalize them with their own defaults.
func GetParams(c *fiber.Ctx) Params {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "0"))

	return Params{
		Page:  page,
		Limit: limit,
	}
}

// GetMeta calculates pagination metadata
func GetMeta(params Params, total int64) Meta {
	var totalPages int64
	if params.Limit > 0 {
		limit := int64(params.Limit)
		totalPages = (total + limit - 1) / limit
	}

	return Meta{
		CurrentPage:  params.Page,
		TotalPages:   int(totalPages),
		TotalRecords: total,
		Limit:        params.Limit,
		HasNextPage:  int64(params.Page)*int64(params.Limit) < total,
		HasPrevPage:  params.Page > 1,
	}
}
