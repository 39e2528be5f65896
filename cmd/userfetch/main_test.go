package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raftlab/userdir/internal/model"
	"github.com/raftlab/userdir/internal/testutil"
)

type stubDirectory struct {
	users   []model.User
	userErr error
	listErr error
}

func (s stubDirectory) GetUserByID(_ context.Context, id int) (model.User, error) {
	if s.userErr != nil {
		return model.User{}, s.userErr
	}
	return s.users[id-1], nil
}

func (s stubDirectory) GetAllUsers(context.Context) ([]model.User, error) {
	return s.users, s.listErr
}

func TestRun_PrintsUsers(t *testing.T) {
	var out bytes.Buffer

	err := run(context.Background(), &out, stubDirectory{users: testutil.ReqresUsers()})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, []string{
		"Fetching single user with ID 2...",
		"User: Janet Weaver, Email: janet.weaver@reqres.in",
		"",
		"Fetching all users...",
		"User: George Bluth, Email: george.bluth@reqres.in",
		"User: Janet Weaver, Email: janet.weaver@reqres.in",
		"User: Emma Wong, Email: emma.wong@reqres.in",
		"User: Eve Holt, Email: eve.holt@reqres.in",
	}, lines)
}

func TestRun_StopsOnFirstError(t *testing.T) {
	var out bytes.Buffer
	boom := errors.New("user fetch failed: 404 Not Found")

	err := run(context.Background(), &out, stubDirectory{userErr: boom})
	assert.ErrorIs(t, err, boom)
	assert.NotContains(t, out.String(), "Fetching all users")
}

func TestRun_ListError(t *testing.T) {
	var out bytes.Buffer
	boom := errors.New("page fetch failed: 500 Internal Server Error")

	err := run(context.Background(), &out, stubDirectory{users: testutil.ReqresUsers(), listErr: boom})
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, out.String(), "User: Janet Weaver")
}
