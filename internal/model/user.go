// Package model defines domain entities and the upstream wire shapes they are
// decoded from.
package model

import "fmt"

// User is a member of the external user directory.
type User struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Avatar    string `json:"avatar"`
}

// FullName joins the first and last name.
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// String renders the user the way the console prints it.
func (u User) String() string {
	return fmt.Sprintf("User: %s, Email: %s", u.FullName(), u.Email)
}
