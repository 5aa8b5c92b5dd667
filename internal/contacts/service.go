// Package contacts implements the operations on the contacts of a user. Every operation receives
// the acting user explicitly, checks the policy and validates input before the store is touched.
package contacts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gitlab.com/dirk.krummacker/contact-book/internal/model"
	"gitlab.com/dirk.krummacker/contact-book/internal/policy"
	"gitlab.com/dirk.krummacker/contact-book/internal/store"
	"gitlab.com/dirk.krummacker/contact-book/internal/validation"
	api "gitlab.com/dirk.krummacker/contact-book/pkg/model"
)

var (
	// ErrNotFound is returned when no contact has the requested id.
	ErrNotFound = store.ErrNotFound

	// ErrForbidden is returned when the acting user may not perform the operation.
	ErrForbidden = policy.ErrForbidden

	// ErrInvalidPage is returned for page numbers below one.
	ErrInvalidPage = errors.New("invalid page number")
)

// Store is the persistence needed by the Service. It is implemented by *store.Store.
type Store interface {
	CountByOwner(ctx context.Context, ownerId int64) (int, error)
	ListByOwner(ctx context.Context, ownerId int64, limit int, offset int) ([]model.Contact, error)
	ListBirthdaysByOwner(ctx context.Context, ownerId int64, month time.Month) ([]model.Contact, error)
	FindByID(ctx context.Context, id int64) (model.Contact, error)
	Insert(ctx context.Context, contact *model.Contact) error
	Update(ctx context.Context, contact *model.Contact) error
	Delete(ctx context.Context, id int64) error
}

// Page is one page of a user's contacts.
type Page struct {
	Contacts []model.Contact
	Number   int
	Size     int
	Total    int
}

// LastPage returns the number of the last page. An empty list still has one (empty) page.
func (p Page) LastPage() int {
	if p.Total == 0 {
		return 1
	}
	return (p.Total + p.Size - 1) / p.Size
}

// Service implements the contact operations.
type Service struct {
	store    Store
	pageSize int
	now      func() time.Time
	logger   *slog.Logger
}

// NewService creates the contact operations on top of the store. Lists are split into pages of
// pageSize contacts.
func NewService(log *slog.Logger, store Store, pageSize int) *Service {
	if log == nil {
		log = slog.Default()
	}
	if pageSize < 1 {
		pageSize = 15
	}
	return &Service{
		store:    store,
		pageSize: pageSize,
		now:      time.Now,
		logger:   log.With(slog.String("component", "contacts")),
	}
}

// List returns the given page of the contacts owned by user, sorted by id. Pages start at one.
// Pages after the last one are empty and are not queried.
func (s *Service) List(ctx context.Context, user model.User, page int) (Page, error) {
	if err := policy.Authorize(user, policy.ViewAny, nil); err != nil {
		return Page{}, err
	}
	if page < 1 {
		return Page{}, ErrInvalidPage
	}
	total, err := s.store.CountByOwner(ctx, user.Id)
	if err != nil {
		return Page{}, err
	}
	result := Page{Contacts: []model.Contact{}, Number: page, Size: s.pageSize, Total: total}
	if page > result.LastPage() {
		return result, nil
	}
	contacts, err := s.store.ListByOwner(ctx, user.Id, s.pageSize, (page-1)*s.pageSize)
	if err != nil {
		return Page{}, err
	}
	result.Contacts = contacts
	return result, nil
}

// Birthdays returns the contacts owned by user who have their birthday in the current month.
func (s *Service) Birthdays(ctx context.Context, user model.User) ([]model.Contact, error) {
	if err := policy.Authorize(user, policy.ViewAny, nil); err != nil {
		return nil, err
	}
	return s.store.ListBirthdaysByOwner(ctx, user.Id, s.now().Month())
}

// Create validates the input and stores a new contact owned by user.
func (s *Service) Create(ctx context.Context, user model.User, input api.ContactInput) (model.Contact, error) {
	if err := policy.Authorize(user, policy.Create, nil); err != nil {
		return model.Contact{}, err
	}
	fields, err := validation.Contact(input)
	if err != nil {
		return model.Contact{}, err
	}
	contact := model.Contact{OwnerId: user.Id}
	apply(&contact, fields)
	if err := s.store.Insert(ctx, &contact); err != nil {
		return model.Contact{}, err
	}
	s.logger.Info("contact created", slog.Int64("contact_id", contact.Id), slog.Int64("user_id", user.Id))
	return contact, nil
}

// Get returns the contact with the given id if user owns it.
func (s *Service) Get(ctx context.Context, user model.User, id int64) (model.Contact, error) {
	return s.authorized(ctx, user, policy.View, id)
}

// Update replaces name, email, birthday and company of the contact with the given id if user
// owns it and the input is valid.
func (s *Service) Update(ctx context.Context, user model.User, id int64, input api.ContactInput) (model.Contact, error) {
	contact, err := s.authorized(ctx, user, policy.Update, id)
	if err != nil {
		return model.Contact{}, err
	}
	fields, err := validation.Contact(input)
	if err != nil {
		return model.Contact{}, err
	}
	apply(&contact, fields)
	if err := s.store.Update(ctx, &contact); err != nil {
		return model.Contact{}, err
	}
	s.logger.Info("contact updated", slog.Int64("contact_id", contact.Id), slog.Int64("user_id", user.Id))
	return contact, nil
}

// Delete permanently removes the contact with the given id if user owns it.
func (s *Service) Delete(ctx context.Context, user model.User, id int64) error {
	if _, err := s.authorized(ctx, user, policy.Delete, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("contact deleted", slog.Int64("contact_id", id), slog.Int64("user_id", user.Id))
	return nil
}

// authorized loads the contact and checks that user may perform action on it.
func (s *Service) authorized(ctx context.Context, user model.User, action policy.Action, id int64) (model.Contact, error) {
	contact, err := s.store.FindByID(ctx, id)
	if err != nil {
		return model.Contact{}, err
	}
	if err := policy.Authorize(user, action, &contact); err != nil {
		s.logger.Debug("access denied",
			slog.String("action", string(action)),
			slog.Int64("contact_id", id),
			slog.Int64("user_id", user.Id))
		return model.Contact{}, fmt.Errorf("%s contact %d: %w", action, id, err)
	}
	return contact, nil
}

func apply(contact *model.Contact, fields model.ContactFields) {
	contact.Name = fields.Name
	contact.Email = fields.Email
	contact.Birthday = fields.Birthday
	contact.Company = fields.Company
}
