package pagination

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
	MinLimit     = 1

	SortAsc  = "asc"
	SortDesc = "desc"
)

// Params holds validated pagination parameters
type Params struct {
	Page   int
	Limit  int
	Offset int
}

// ListParams is a page of a sortable, filterable list such as the order grid
type ListParams struct {
	Params
	OrderBy   string
	SortOrder string
	Filters   map[string]string
}

// Parse extracts and validates page/limit from query parameters
func Parse(c *gin.Context) Params {
	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(DefaultPage)))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultLimit)))

	if page < 1 {
		page = DefaultPage
	}
	if limit < MinLimit {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Params{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// ParseList reads page/limit plus order_by, sort_order and filters[name]=value.
// Blank filter values are dropped; an unknown sort_order falls back to asc.
func ParseList(c *gin.Context) ListParams {
	sortOrder := strings.ToLower(strings.TrimSpace(c.Query("sort_order")))
	if sortOrder != SortDesc {
		sortOrder = SortAsc
	}

	filters := map[string]string{}
	for name, value := range c.QueryMap("filters") {
		if value = strings.TrimSpace(value); value != "" {
			filters[name] = value
		}
	}

	return ListParams{
		Params:    Parse(c),
		OrderBy:   strings.TrimSpace(c.Query("order_by")),
		SortOrder: sortOrder,
		Filters:   filters,
	}
}
