package models

// ApiResponse is the envelope every loader call returns. Callers must check
// Success before trusting Data.
type ApiResponse[T any] struct {
	Data    T      `json:"data"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Pagination describes a page of a larger result set.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// Page holds the items of one page.
type Page[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// PaginatedResponse is the envelope for paged listings.
type PaginatedResponse[T any] struct {
	Data    Page[T] `json:"data"`
	Success bool    `json:"success"`
	Message string  `json:"message,omitempty"`
	Error   string  `json:"error,omitempty"`
}

// OK wraps data into a successful envelope.
func OK[T any](data T, message string) ApiResponse[T] {
	return ApiResponse[T]{Data: data, Success: true, Message: message}
}

// Fail builds a failed envelope carrying the zero value of T.
func Fail[T any](err error) ApiResponse[T] {
	var zero T
	return ApiResponse[T]{Data: zero, Success: false, Error: err.Error()}
}
