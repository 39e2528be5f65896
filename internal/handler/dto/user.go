// Package dto provides Data Transfer Objects for API responses.
package dto

import "github.com/raftlab/userdir/internal/model"

// UserResponse wraps a single user.
type UserResponse struct {
	Data model.User `json:"data"`
}

// UserListResponse wraps the full directory listing.
type UserListResponse struct {
	Data  []model.User `json:"data"`
	Total int          `json:"total"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
