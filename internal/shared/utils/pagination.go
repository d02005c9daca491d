package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/meetscribe/meetscribe/internal/shared/constants"
)

// Pagination holds normalized listing parameters.
type Pagination struct {
	Page    int
	PerPage int
}

// ValidatePagination normalizes page and per-page values: page defaults to 1,
// per_page defaults to DefaultPageSize and is capped at MaxPageSize.
func ValidatePagination(page, perPage int) Pagination {
	if page < 1 {
		page = constants.DefaultPage
	}
	if perPage < 1 {
		perPage = constants.DefaultPageSize
	}
	if perPage > constants.MaxPageSize {
		perPage = constants.MaxPageSize
	}
	return Pagination{Page: page, PerPage: perPage}
}

// ParsePagination reads page/per_page from the query string with defaults.
func ParsePagination(c *gin.Context) Pagination {
	return ValidatePagination(
		parseQueryInt(c, "page", constants.DefaultPage),
		parseQueryInt(c, "per_page", constants.DefaultPageSize),
	)
}

func parseQueryInt(c *gin.Context, key string, defaultVal int) int {
	if val := c.Query(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n >= 1 {
			return n
		}
	}
	return defaultVal
}
