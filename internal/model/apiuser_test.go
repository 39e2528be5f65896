package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeAPIUserResponse(t *testing.T) {
	t.Parallel()

	body := []byte(`{
		"data": {
			"id": 1,
			"email": "ravi.bhushan@reqres.in",
			"first_name": "Ravi",
			"last_name": "Bhushan",
			"avatar": "https://reqres.in/img/faces/1-image.jpg"
		}
	}`)

	user, err := DecodeAPIUserResponse(body)
	require.NoError(t, err)

	assert.Equal(t, User{
		ID:        1,
		Email:     "ravi.bhushan@reqres.in",
		FirstName: "Ravi",
		LastName:  "Bhushan",
		Avatar:    "https://reqres.in/img/faces/1-image.jpg",
	}, user)
}

func TestDecodeAPIUserResponse_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"missing data", `{"support": {}}`},
		{"null data", `{"data": null}`},
		{"wrong type", `{"data": {"id": "one"}}`},
		{"not json", `<html></html>`},
		{"empty", ``},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := DecodeAPIUserResponse([]byte(tt.body))
			assert.Error(t, err)
		})
	}
}

func TestDecodeAPIUserListResponse(t *testing.T) {
	t.Parallel()

	body := []byte(`{
		"page": 1,
		"per_page": 2,
		"total": 4,
		"total_pages": 2,
		"data": [
			{"id": 1, "email": "george@reqres.in", "first_name": "George", "last_name": "Bluth", "avatar": "img1.jpg"},
			{"id": 2, "email": "janet@reqres.in", "first_name": "Janet", "last_name": "Weaver", "avatar": "img2.jpg"}
		]
	}`)

	page, err := DecodeAPIUserListResponse(body)
	require.NoError(t, err)

	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 2, page.PerPage)
	assert.Equal(t, 4, page.Total)
	assert.Equal(t, 2, page.TotalPages)

	users := page.Users()
	require.Len(t, users, 2)
	assert.Equal(t, "George", users[0].FirstName)
	assert.Equal(t, "Weaver", users[1].LastName)

	assert.True(t, page.HasMore(1))
	assert.False(t, page.HasMore(2))
}

func TestDecodeAPIUserListResponse_MissingData(t *testing.T) {
	t.Parallel()

	_, err := DecodeAPIUserListResponse([]byte(`{"page": 1, "total_pages": 1}`))
	assert.ErrorIs(t, err, ErrMissingData)
}

func TestAPIUserListResponse_HasMore_ZeroPages(t *testing.T) {
	t.Parallel()

	page := APIUserListResponse{TotalPages: 0, Data: []APIUser{}}
	assert.False(t, page.HasMore(1))
	assert.Empty(t, page.Users())
}

func TestUser_String(t *testing.T) {
	t.Parallel()

	u := User{ID: 2, Email: "janet.weaver@reqres.in", FirstName: "Janet", LastName: "Weaver"}
	assert.Equal(t, "User: Janet Weaver, Email: janet.weaver@reqres.in", u.String())
}
