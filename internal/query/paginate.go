package query

import "github.com/DeafMist/dept-site/backend/internal/models"

// DefaultLimit applies when a caller passes a non-positive limit.
const DefaultLimit = 10

// Paginate slices data into a 1-indexed page. Pages past the end are empty.
func Paginate[T any](data []T, page, limit int) models.Page[T] {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	total := len(data)
	items := []T{}
	start := (page - 1) * limit
	if start < total {
		end := min(start+limit, total)
		items = append(items, data[start:end]...)
	}
	return models.Page[T]{
		Items: items,
		Pagination: models.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: (total + limit - 1) / limit,
		},
	}
}

// PaginateData wraps Paginate in a successful envelope.
func PaginateData[T any](data []T, page, limit int) models.PaginatedResponse[T] {
	return models.PaginatedResponse[T]{Data: Paginate(data, page, limit), Success: true}
}
