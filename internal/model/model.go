package model

import (
	"fmt"
	"time"
)

// User is an account that owns contacts. Users are provisioned outside of the HTTP API and are
// identified on each request by their API token.
type User struct {
	Id        int64     `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	ApiToken  string    `db:"api_token"`
	CreatedAt time.Time `db:"created_at"`
}

// Contact is the data structure for a person that we know. Every contact belongs to exactly one
// user, the owner, which is fixed when the contact is created.
type Contact struct {
	Id        int64     `db:"id"`
	OwnerId   int64     `db:"user_id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Birthday  time.Time `db:"birthday"`
	Company   string    `db:"company"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Path returns the URL path under which the contact can be retrieved.
func (c Contact) Path() string {
	return fmt.Sprintf("/contacts/%d", c.Id)
}

// ContactFields are the user editable values of a contact after validation and normalization.
type ContactFields struct {
	Name     string
	Email    string
	Birthday time.Time
	Company  string
}
