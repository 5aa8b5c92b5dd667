// Package store persists users and their contacts in MySQL.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"gitlab.com/dirk.krummacker/contact-book/internal/config"
	"gitlab.com/dirk.krummacker/contact-book/internal/model"
)

var (
	// ErrNotFound is returned when no contact has the requested id.
	ErrNotFound = errors.New("contact not found")

	// ErrUserNotFound is returned when no user has the requested API token.
	ErrUserNotFound = errors.New("user not found")
)

const contactColumns = "id, user_id, name, email, birthday, company, created_at, updated_at"

const userColumns = "id, name, email, api_token, created_at"

// Store is the MySQL backed persistence of contacts and users. Every write touches exactly one
// row, so no transactions are needed.
type Store struct {
	db *sqlx.DB

	// insert is a prepared statement for creating a contact.
	insert *sqlx.NamedStmt

	// update is a prepared statement for replacing the editable fields of a contact.
	update *sqlx.NamedStmt

	// selectWhereId is a prepared statement for selecting the contact with a given id.
	selectWhereId *sqlx.Stmt

	// deleteWhereId is a prepared statement for deleting the contact with a given id.
	deleteWhereId *sqlx.Stmt

	// selectUserWhereToken is a prepared statement for authenticating requests.
	selectUserWhereToken *sqlx.Stmt

	// now returns the timestamps written to created_at and updated_at.
	now func() time.Time
}

// CreateDatabase opens a MySQL database handle with the specified connection parameters.
func CreateDatabase(cfg config.MySQLConfig) (*sql.DB, error) {
	sqlDB, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return sqlDB, nil
}

// New wraps the specified sql database and prepares all statements. The database argument can
// be a real database for production use or a mock database within unit tests.
func New(sqlDB *sql.DB) (*Store, error) {
	s := &Store{
		db:  sqlx.NewDb(sqlDB, "mysql"),
		now: func() time.Time { return time.Now().UTC().Truncate(time.Second) },
	}
	var err error

	// Prepared statements offer a significant speed increase if executed many times.
	s.insert, err = s.db.PrepareNamed(`
		INSERT INTO contacts (user_id, name, email, birthday, company, created_at, updated_at)
		VALUES (:user_id, :name, :email, :birthday, :company, :created_at, :updated_at)
	`)
	if err != nil {
		return nil, fmt.Errorf("prepare insert: %w", err)
	}
	s.update, err = s.db.PrepareNamed(`
		UPDATE contacts
		SET name = :name, email = :email, birthday = :birthday, company = :company,
			updated_at = :updated_at
		WHERE id = :id
	`)
	if err != nil {
		return nil, fmt.Errorf("prepare update: %w", err)
	}
	s.selectWhereId, err = s.db.Preparex(`
		SELECT ` + contactColumns + ` FROM contacts WHERE id = ?
	`)
	if err != nil {
		return nil, fmt.Errorf("prepare select: %w", err)
	}
	s.deleteWhereId, err = s.db.Preparex(`
		DELETE FROM contacts WHERE id = ?
	`)
	if err != nil {
		return nil, fmt.Errorf("prepare delete: %w", err)
	}
	s.selectUserWhereToken, err = s.db.Preparex(`
		SELECT ` + userColumns + ` FROM users WHERE api_token = ?
	`)
	if err != nil {
		return nil, fmt.Errorf("prepare user select: %w", err)
	}
	return s, nil
}

// Close releases the prepared statements and the database handle.
func (s *Store) Close() error {
	return errors.Join(
		s.insert.Close(),
		s.update.Close(),
		s.selectWhereId.Close(),
		s.deleteWhereId.Close(),
		s.selectUserWhereToken.Close(),
		s.db.Close(),
	)
}

// CountByOwner returns the number of contacts owned by the user.
func (s *Store) CountByOwner(ctx context.Context, ownerId int64) (int, error) {
	var total int
	err := s.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM contacts WHERE user_id = ?`, ownerId)
	if err != nil {
		return 0, fmt.Errorf("count contacts: %w", err)
	}
	return total, nil
}

// ListByOwner returns at most limit contacts owned by the user, sorted by id and skipping the
// first offset ones.
func (s *Store) ListByOwner(ctx context.Context, ownerId int64, limit int, offset int) ([]model.Contact, error) {
	contacts := []model.Contact{}
	err := s.db.SelectContext(ctx, &contacts, `
		SELECT `+contactColumns+`
		FROM contacts
		WHERE user_id = ?
		ORDER BY id
		LIMIT ?
		OFFSET ?`, ownerId, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return contacts, nil
}

// ListBirthdaysByOwner returns the contacts of the user whose birthday is in the given month,
// regardless of the year.
func (s *Store) ListBirthdaysByOwner(ctx context.Context, ownerId int64, month time.Month) ([]model.Contact, error) {
	contacts := []model.Contact{}
	err := s.db.SelectContext(ctx, &contacts, `
		SELECT `+contactColumns+`
		FROM contacts
		WHERE user_id = ?
			AND MONTH(birthday) = ?
		ORDER BY id`, ownerId, int(month))
	if err != nil {
		return nil, fmt.Errorf("list birthdays: %w", err)
	}
	return contacts, nil
}

// FindByID returns the contact with the given id, or ErrNotFound.
func (s *Store) FindByID(ctx context.Context, id int64) (model.Contact, error) {
	var contact model.Contact
	err := s.selectWhereId.GetContext(ctx, &contact, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Contact{}, ErrNotFound
	}
	if err != nil {
		return model.Contact{}, fmt.Errorf("find contact %d: %w", id, err)
	}
	return contact, nil
}

// Insert creates the contact. The id and both timestamps are assigned to the argument.
func (s *Store) Insert(ctx context.Context, contact *model.Contact) error {
	now := s.now()
	contact.CreatedAt = now
	contact.UpdatedAt = now
	result, err := s.insert.ExecContext(ctx, contact)
	if err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	contact.Id = id
	return nil
}

// Update replaces name, email, birthday and company of the contact and refreshes its
// modification timestamp. Owner and creation timestamp are never written. ErrNotFound is
// returned if the contact does not exist (anymore).
func (s *Store) Update(ctx context.Context, contact *model.Contact) error {
	contact.UpdatedAt = s.now()
	result, err := s.update.ExecContext(ctx, contact)
	if err != nil {
		return fmt.Errorf("update contact %d: %w", contact.Id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update contact %d: %w", contact.Id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the contact permanently. ErrNotFound is returned if it does not exist.
func (s *Store) Delete(ctx context.Context, id int64) error {
	result, err := s.deleteWhereId.ExecContext(ctx, id)
	if err != nil {
		return fmt.Errorf("delete contact %d: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete contact %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UserByToken returns the user with the given API token, or ErrUserNotFound.
func (s *Store) UserByToken(ctx context.Context, token string) (model.User, error) {
	if token == "" {
		return model.User{}, ErrUserNotFound
	}
	var user model.User
	err := s.selectUserWhereToken.GetContext(ctx, &user, token)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by token: %w", err)
	}
	return user, nil
}

// CreateUser inserts the user and assigns its id and creation timestamp.
func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	user.CreatedAt = s.now()
	result, err := s.db.NamedExecContext(ctx, `
		INSERT INTO users (name, email, api_token, created_at)
		VALUES (:name, :email, :api_token, :created_at)
	`, user)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	user.Id = id
	return nil
}
