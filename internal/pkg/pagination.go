package pkg

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/simp-lee/routekit/internal/domain"
)

const (
	defaultPage     = 1
	defaultPageSize = 20
	maxPageSize     = 100
)

// ParsePageRequest extracts page and page_size from the query string,
// clamping them to sane bounds.
func ParsePageRequest(c *gin.Context) domain.PageRequest {
	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(defaultPage)))
	if page < 1 {
		page = defaultPage
	}

	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	return domain.PageRequest{Page: page, PageSize: pageSize}
}

// Paginate returns a GORM scope that applies LIMIT and OFFSET based on the page request.
func Paginate(req domain.PageRequest) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		offset := (req.Page - 1) * req.PageSize
		return db.Offset(offset).Limit(req.PageSize)
	}
}

// NewPageResult creates a PageResult with computed TotalPages.
func NewPageResult[T any](items []T, total int64, req domain.PageRequest) *domain.PageResult[T] {
	totalPages := 0
	if req.PageSize > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(req.PageSize)))
	}
	if items == nil {
		items = []T{}
	}
	return &domain.PageResult[T]{
		Items:      items,
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: totalPages,
	}
}
