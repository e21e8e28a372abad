package models

// Meta describes the position of a Page within the whole collection.
type Meta struct {
	Total       int `json:"total"`
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	Limit       int `json:"limit"`
}

// Page is the envelope every list endpoint responds with.
type Page[T any] struct {
	Data []T  `json:"data"`
	Meta Meta `json:"meta"`
}
