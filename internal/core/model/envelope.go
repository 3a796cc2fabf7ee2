package model

// Response is the {success, message, data} envelope every endpoint returns.
// Data is only meaningful when Success is true.
type Response[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// ResponseWithMeta is the paginated variant of Response.
type ResponseWithMeta[T any] struct {
	Response[T]
	Meta Meta `json:"meta"`
}

// Empty is the payload type of endpoints that answer with "data": null.
type Empty = *struct{}
