package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PaginationParams selects one page of a list
type PaginationParams struct {
	Page     int `form:"page" json:"page"`
	PageSize int `form:"page_size" json:"page_size"`
}

// Normalize applies the defaults and the page size limit
func (p PaginationParams) Normalize() PaginationParams {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// PaginatedResult is one page of rows together with the total that matched
type PaginatedResult[T any] struct {
	Results    []T   `json:"results"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// paginate counts and fetches one page of query. The count runs on the same
// conditions as the fetch, before any preload is attached.
func paginate[T any](ctx context.Context, query *gorm.DB, params PaginationParams, order string, preload ...string) (*PaginatedResult[T], error) {
	params = params.Normalize()

	var total int64
	if err := query.Session(&gorm.Session{}).WithContext(ctx).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count rows: %w", err)
	}

	rows := make([]T, 0, params.PageSize)
	find := query.Session(&gorm.Session{}).WithContext(ctx)
	for _, p := range preload {
		find = find.Preload(p)
	}
	if order != "" {
		find = find.Order(order)
	}
	if err := find.Offset(params.Offset()).Limit(params.PageSize).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list rows: %w", err)
	}

	totalPages := int((total + int64(params.PageSize) - 1) / int64(params.PageSize))
	return &PaginatedResult[T]{
		Results:    rows,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	}, nil
}
