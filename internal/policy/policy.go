// Package policy decides which user may perform which action on a contact.
package policy

import (
	"errors"

	"gitlab.com/dirk.krummacker/contact-book/internal/model"
)

// Action names an operation on contacts.
type Action string

const (
	ViewAny Action = "viewAny"
	View    Action = "view"
	Create  Action = "create"
	Update  Action = "update"
	Delete  Action = "delete"
)

// ErrForbidden is returned by Authorize when the user may not perform the action.
var ErrForbidden = errors.New("this action is unauthorized")

// rule reports whether user may act on contact. The contact is nil for actions that do not
// target an existing contact.
type rule func(user model.User, contact *model.Contact) bool

// capabilities maps every known action to its rule. Unknown actions are always denied.
var capabilities = map[Action]rule{
	ViewAny: isAuthenticated,
	Create:  isAuthenticated,
	View:    isOwner,
	Update:  isOwner,
	Delete:  isOwner,
}

func isAuthenticated(user model.User, _ *model.Contact) bool {
	return user.Id != 0
}

func isOwner(user model.User, contact *model.Contact) bool {
	return isAuthenticated(user, contact) && contact != nil && contact.OwnerId == user.Id
}

// Allows returns true if user may perform action on contact.
func Allows(user model.User, action Action, contact *model.Contact) bool {
	allowed, known := capabilities[action]
	return known && allowed(user, contact)
}

// Authorize returns ErrForbidden unless user may perform action on contact.
func Authorize(user model.User, action Action, contact *model.Contact) error {
	if !Allows(user, action, contact) {
		return ErrForbidden
	}
	return nil
}
