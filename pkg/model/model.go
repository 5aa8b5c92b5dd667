package model

// Contact is the public JSON representation of a contact as returned by the REST API.
type Contact struct {
	ContactId   int64  `json:"contact_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Birthday    string `json:"birthday"`
	Company     string `json:"company"`
	LastUpdated string `json:"last_updated"`
}

// ContactInput is the request body for creating or updating a contact. The birthday is expected
// in the MM/DD/YYYY format. The validate tags are evaluated by the validation package. The
// maximum lengths match the VARCHAR(255) columns.
type ContactInput struct {
	Name     string `json:"name"     form:"name"     validate:"required,max=255"`
	Email    string `json:"email"    form:"email"    validate:"required,email,max=255"`
	Birthday string `json:"birthday" form:"birthday" validate:"required,calendardate"`
	Company  string `json:"company"  form:"company"  validate:"required,max=255"`
}

// Links holds the hypermedia links of a response envelope.
type Links struct {
	Self  string `json:"self,omitempty"`
	First string `json:"first,omitempty"`
	Last  string `json:"last,omitempty"`
	Prev  string `json:"prev,omitempty"`
	Next  string `json:"next,omitempty"`
}

// Meta describes the page of a paginated collection.
type Meta struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
}

// ContactEnvelope wraps a single contact.
type ContactEnvelope struct {
	Data  Contact `json:"data"`
	Links Links   `json:"links"`
}

// ContactCollection wraps a list of contacts. Links and Meta are only set for paginated lists.
type ContactCollection struct {
	Data  []Contact `json:"data"`
	Links *Links    `json:"links,omitempty"`
	Meta  *Meta     `json:"meta,omitempty"`
}

// ErrorResponse is the body of all error responses. Errors is only set when validation failed
// and maps each failing field to its messages.
type ErrorResponse struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}
