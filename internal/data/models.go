// internal/data/models.go
package data

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/lib/pq"
)

// Sentinel errors returned by the model layer. Handlers match on these
// with errors.Is to pick the right HTTP response.
var (
	// ErrRecordNotFound is returned when a query finds no matching row.
	ErrRecordNotFound = errors.New("record not found")

	// ErrDuplicateEmail is returned when an insert or update would
	// violate the email uniqueness constraint.
	ErrDuplicateEmail = errors.New("duplicate email")

	// ErrDuplicateISBN is returned when a book insert or update would
	// violate the ISBN uniqueness constraint.
	ErrDuplicateISBN = errors.New("duplicate isbn")

	// ErrDuplicatePhone is returned when a publisher insert or update
	// would violate the phone uniqueness constraint.
	ErrDuplicatePhone = errors.New("duplicate phone")
)

// AuthorStore describes the persistence operations the author handlers need.
type AuthorStore interface {
	Insert(author *Author) error
	Get(id string) (*Author, error)
	GetByEmail(email string) (*Author, error)
	GetAll(filters AuthorFilters, page Filters) ([]*Author, Metadata, error)
	Update(author *Author) error
	Delete(id string) error
}

// BookStore describes the persistence operations the book handlers need.
// Get and GetAll return books with the referenced author and publisher
// expanded (a read-time join); the reference checks used by the delete
// guards on authors and publishers live here too.
type BookStore interface {
	Insert(book *Book) error
	Get(id string) (*Book, error)
	GetByISBN(isbn string) (*Book, error)
	GetAll(filters BookFilters, page Filters) ([]*Book, Metadata, error)
	Update(book *Book) error
	Delete(id string) error
	ExistsForAuthor(authorID string) (bool, error)
	ExistsForPublisher(publisherID string) (bool, error)
}

// PublisherStore describes the persistence operations the publisher handlers need.
type PublisherStore interface {
	Insert(publisher *Publisher) error
	Get(id string) (*Publisher, error)
	GetByEmail(email string) (*Publisher, error)
	GetByPhone(phone string) (*Publisher, error)
	GetAll(filters PublisherFilters, page Filters) ([]*Publisher, Metadata, error)
	Update(publisher *Publisher) error
	Delete(id string) error
}

// Models is a top-level container that groups all entity stores together.
// It is passed around the application via applicationDependencies so every
// handler has access to the storage layer without importing sql directly.
type Models struct {
	Authors    AuthorStore
	Books      BookStore
	Publishers PublisherStore
}

// NewModels constructs a Models value backed by the given PostgreSQL
// connection pool. Call this once during application startup.
func NewModels(db *sql.DB) Models {
	return Models{
		Authors:    AuthorModel{DB: db},
		Books:      BookModel{DB: db},
		Publishers: PublisherModel{DB: db},
	}
}

// translateUnique maps a PostgreSQL unique-violation (error code 23505)
// onto the sentinel error for the offending column. The unique indexes in
// the storage layer are the real guarantee; the service-level pre-checks
// are only a friendlier fast path, so a racing write still surfaces as
// the same conflict.
func translateUnique(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		switch {
		case strings.Contains(pqErr.Constraint, "email"):
			return ErrDuplicateEmail
		case strings.Contains(pqErr.Constraint, "isbn"):
			return ErrDuplicateISBN
		case strings.Contains(pqErr.Constraint, "phone"):
			return ErrDuplicatePhone
		}
	}
	return err
}
