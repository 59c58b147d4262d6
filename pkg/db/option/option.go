package option

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/lodgeops/lodgeops/pkg/db/pagination"
)

// Option mutates a gorm statement before execution.
type Option interface {
	Apply(*gorm.DB) *gorm.DB
}

type paginationOption struct {
	page pagination.Pagination
}

// ApplyPagination limits the statement to one row beyond the page size
// so callers can detect whether another page exists, and seeks past the
// cursor when a page token is present.
func ApplyPagination(page pagination.Pagination) Option {
	return paginationOption{page: page}
}

func (o paginationOption) Apply(stmt *gorm.DB) *gorm.DB {
	limit := o.page.PageSize
	if limit <= 0 {
		limit = 10
	}
	stmt = stmt.Limit(limit + 1)

	token := strings.TrimSpace(o.page.PageToken)
	if token == "" {
		return stmt
	}
	cursor, err := pagination.DecodeCursor(token)
	if err != nil || cursor == nil {
		return stmt
	}
	createdAt, err := time.Parse(time.RFC3339, cursor.CreatedAt)
	if err != nil {
		return stmt
	}
	// Listings order by created_at desc, id desc.
	return stmt.Where("(created_at, id) < (?, ?)", createdAt, cursor.ID)
}

type sortOption struct {
	column string
	desc   bool
}

// WithSortBy orders by a whitelisted column.
func WithSortBy(column string, desc bool) Option {
	return sortOption{column: column, desc: desc}
}

func (o sortOption) Apply(stmt *gorm.DB) *gorm.DB {
	column := strings.TrimSpace(o.column)
	if column == "" {
		return stmt
	}
	if o.desc {
		return stmt.Order(column + " desc")
	}
	return stmt.Order(column + " asc")
}
