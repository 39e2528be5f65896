package model

import (
	"encoding/json"
	"errors"
)

// ErrMissingData is returned when an upstream envelope has no data field.
var ErrMissingData = errors.New("response has no data field")

// APIUser is a user as the upstream API encodes it.
type APIUser struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Avatar    string `json:"avatar"`
}

// ToUser maps the wire shape to the domain User.
func (a APIUser) ToUser() User {
	return User{
		ID:        a.ID,
		Email:     a.Email,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Avatar:    a.Avatar,
	}
}

// APIUserResponse is the envelope returned by GET /users/{id}.
type APIUserResponse struct {
	Data *APIUser `json:"data"`
}

// DecodeAPIUserResponse parses a single-user envelope.
// A missing or null data field is an error.
func DecodeAPIUserResponse(body []byte) (User, error) {
	var resp APIUserResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return User{}, err
	}
	if resp.Data == nil {
		return User{}, ErrMissingData
	}
	return resp.Data.ToUser(), nil
}

// APIUserListResponse is one page of GET /users?page={n}.
type APIUserListResponse struct {
	Page       int       `json:"page"`
	PerPage    int       `json:"per_page"`
	Total      int       `json:"total"`
	TotalPages int       `json:"total_pages"`
	Data       []APIUser `json:"data"`
}

// Users maps the page entries in server order.
func (r APIUserListResponse) Users() []User {
	users := make([]User, 0, len(r.Data))
	for _, u := range r.Data {
		users = append(users, u.ToUser())
	}
	return users
}

// HasMore reports whether a page after current exists.
func (r APIUserListResponse) HasMore(current int) bool {
	return current < r.TotalPages
}

// DecodeAPIUserListResponse parses one page envelope.
// A missing or null data field is an error.
func DecodeAPIUserListResponse(body []byte) (APIUserListResponse, error) {
	var resp APIUserListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return APIUserListResponse{}, err
	}
	if resp.Data == nil {
		return APIUserListResponse{}, ErrMissingData
	}
	return resp, nil
}
