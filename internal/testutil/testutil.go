// Package testutil holds helpers shared by package tests.
package testutil

import (
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/raftlab/userdir/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

// UniqueID generates a unique ID for tests.
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestUser creates a user with reqres-style defaults.
func NewTestUser(id int, first, last string) model.User {
	return model.User{
		ID:        id,
		Email:     fmt.Sprintf("%s.%s@reqres.in", strings.ToLower(first), strings.ToLower(last)),
		FirstName: first,
		LastName:  last,
		Avatar:    fmt.Sprintf("https://reqres.in/img/faces/%d-image.jpg", id),
	}
}

// ReqresUsers returns the four users used across pagination tests:
// George, Janet on page 1 and Emma, Eve on page 2.
func ReqresUsers() []model.User {
	return []model.User{
		NewTestUser(1, "George", "Bluth"),
		NewTestUser(2, "Janet", "Weaver"),
		NewTestUser(3, "Emma", "Wong"),
		NewTestUser(4, "Eve", "Holt"),
	}
}
