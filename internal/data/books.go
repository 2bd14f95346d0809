// internal/data/books.go
package data

import (
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/aoideee/library-catalog-api/internal/validator"
)

// Book represents a single book record. AuthorID and PublisherID are
// non-owning references to an Author and a Publisher; their validity is
// checked by the handlers at write time, not enforced by the store.
// On reads the referenced records are expanded into Author/Publisher.
type Book struct {
	ID          string     `json:"id"` // Unique identifier assigned by the store
	Title       string     `json:"title"`
	AuthorID    string     `json:"authorId"`
	Price       float64    `json:"price"`
	ISBN        string     `json:"isbn"` // Unique across books
	Language    string     `json:"language"`
	Pages       int        `json:"pages"`
	PublisherID string     `json:"publisherId"`
	Author      *Author    `json:"author,omitempty"`    // Expanded on reads
	Publisher   *Publisher `json:"publisher,omitempty"` // Expanded on reads
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// CreateBookInput holds the fields a client must supply when creating a
// new book. All seven fields are required.
type CreateBookInput struct {
	Title       string  `json:"title"`
	AuthorID    string  `json:"authorId"`
	Price       float64 `json:"price"`
	ISBN        string  `json:"isbn"`
	Language    string  `json:"language"`
	Pages       int     `json:"pages"`
	PublisherID string  `json:"publisherId"`
}

// UpdateBookInput holds the fields a client may supply when partially
// updating a book. Only non-nil fields are applied.
type UpdateBookInput struct {
	Title       *string  `json:"title"`
	AuthorID    *string  `json:"authorId"`
	Price       *float64 `json:"price"`
	ISBN        *string  `json:"isbn"`
	Language    *string  `json:"language"`
	Pages       *int     `json:"pages"`
	PublisherID *string  `json:"publisherId"`
}

// BookFilters holds the optional list filters for books. Title and
// Language are case-insensitive substring matches; AuthorID and
// PublisherID are exact matches. Supplied filters are AND-combined.
type BookFilters struct {
	Title       string
	Language    string
	AuthorID    string
	PublisherID string
}

// BookSortSafeList enumerates the JSON field names accepted as sortBy
// values on the books list endpoint.
var BookSortSafeList = []string{"title", "price", "isbn", "language", "pages", "createdAt"}

// bookSortColumns maps sortBy field names onto (aliased) database columns.
var bookSortColumns = map[string]string{
	"title":     "b.title",
	"price":     "b.price",
	"isbn":      "b.isbn",
	"language":  "b.language",
	"pages":     "b.pages",
	"createdAt": "b.created_at",
}

// ValidateCreateBook checks that all required book fields are present
// and that the numeric fields are in range.
func ValidateCreateBook(v *validator.Validator, input CreateBookInput) {
	v.Check(input.Title != "", "title", "must be provided")
	v.Check(input.AuthorID != "", "authorId", "must be provided")
	v.Check(input.ISBN != "", "isbn", "must be provided")
	v.Check(input.Language != "", "language", "must be provided")
	v.Check(input.PublisherID != "", "publisherId", "must be provided")
	v.Check(input.Price > 0, "price", "must be a positive number")
	v.Check(input.Pages >= 1, "pages", "must be at least 1")
}

// ValidateUpdateBook checks the supplied fields of a partial book
// update. Absent (nil) fields are not validated.
func ValidateUpdateBook(v *validator.Validator, input UpdateBookInput) {
	if input.Title != nil {
		v.Check(*input.Title != "", "title", "must not be empty")
	}
	if input.AuthorID != nil {
		v.Check(*input.AuthorID != "", "authorId", "must not be empty")
	}
	if input.ISBN != nil {
		v.Check(*input.ISBN != "", "isbn", "must not be empty")
	}
	if input.Language != nil {
		v.Check(*input.Language != "", "language", "must not be empty")
	}
	if input.PublisherID != nil {
		v.Check(*input.PublisherID != "", "publisherId", "must not be empty")
	}
	if input.Price != nil {
		v.Check(*input.Price > 0, "price", "must be a positive number")
	}
	if input.Pages != nil {
		v.Check(*input.Pages >= 1, "pages", "must be at least 1")
	}
}

// BookModel wraps a *sql.DB connection and provides methods for
// creating, reading, updating, and deleting book records.
type BookModel struct {
	DB *sql.DB // Shared database connection pool
}

// Insert adds a new book record, assigning it a fresh id.
// Returns ErrDuplicateISBN if the ISBN is already taken.
func (m BookModel) Insert(book *Book) error {
	book.ID = uuid.NewString()

	query := `
		INSERT INTO books (id, title, author_id, price, isbn, language, pages, publisher_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	err := m.DB.QueryRow(
		query,
		book.ID,
		book.Title,
		book.AuthorID,
		book.Price,
		book.ISBN,
		book.Language,
		book.Pages,
		book.PublisherID,
	).Scan(&book.CreatedAt, &book.UpdatedAt)
	if err != nil {
		return translateUnique(err)
	}

	return nil
}

// bookColumns is the full aliased select list shared by the expanded
// book queries: book fields, then author fields, then publisher fields.
// The scan order in scanExpandedBook must match.
var bookColumns = []any{
	goqu.I("b.id"), goqu.I("b.title"), goqu.I("b.author_id"), goqu.I("b.price"),
	goqu.I("b.isbn"), goqu.I("b.language"), goqu.I("b.pages"), goqu.I("b.publisher_id"),
	goqu.I("b.created_at"), goqu.I("b.updated_at"),
	goqu.I("a.id"), goqu.I("a.name"), goqu.I("a.country"), goqu.I("a.birth_date"),
	goqu.I("a.email"), goqu.I("a.created_at"), goqu.I("a.updated_at"),
	goqu.I("p.id"), goqu.I("p.name"), goqu.I("p.phone"), goqu.I("p.address"),
	goqu.I("p.email"), goqu.I("p.created_at"), goqu.I("p.updated_at"),
}

// expandedDataset returns the books dataset joined to authors and
// publishers. Inner joins are safe because deleting a referenced author
// or publisher is blocked while any book points at it.
func expandedDataset() *goqu.SelectDataset {
	return goqu.Dialect("postgres").
		From(goqu.T("books").As("b")).
		Join(goqu.T("authors").As("a"), goqu.On(goqu.I("a.id").Eq(goqu.I("b.author_id")))).
		Join(goqu.T("publishers").As("p"), goqu.On(goqu.I("p.id").Eq(goqu.I("b.publisher_id")))).
		Select(bookColumns...)
}

// scanExpandedBook scans one joined row into a Book with its Author and
// Publisher populated.
func scanExpandedBook(scan func(dest ...any) error) (*Book, error) {
	var (
		book      Book
		author    Author
		publisher Publisher
	)
	err := scan(
		&book.ID, &book.Title, &book.AuthorID, &book.Price,
		&book.ISBN, &book.Language, &book.Pages, &book.PublisherID,
		&book.CreatedAt, &book.UpdatedAt,
		&author.ID, &author.Name, &author.Country, &author.BirthDate,
		&author.Email, &author.CreatedAt, &author.UpdatedAt,
		&publisher.ID, &publisher.Name, &publisher.Phone, &publisher.Address,
		&publisher.Email, &publisher.CreatedAt, &publisher.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	book.Author = &author
	book.Publisher = &publisher
	return &book, nil
}

// Get retrieves a single book by id with its author and publisher
// expanded. Returns ErrRecordNotFound if no book with the id exists.
func (m BookModel) Get(id string) (*Book, error) {
	querySQL, args, err := expandedDataset().
		Where(goqu.I("b.id").Eq(id)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, err
	}

	book, err := scanExpandedBook(m.DB.QueryRow(querySQL, args...).Scan)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return book, nil
}

// GetByISBN retrieves the book holding the given ISBN, if any, without
// expansion. Returns ErrRecordNotFound when the ISBN is unused.
func (m BookModel) GetByISBN(isbn string) (*Book, error) {
	query := `
		SELECT id, title, author_id, price, isbn, language, pages, publisher_id, created_at, updated_at
		FROM books
		WHERE isbn = $1`

	var book Book
	err := m.DB.QueryRow(query, isbn).Scan(
		&book.ID,
		&book.Title,
		&book.AuthorID,
		&book.Price,
		&book.ISBN,
		&book.Language,
		&book.Pages,
		&book.PublisherID,
		&book.CreatedAt,
		&book.UpdatedAt,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &book, nil
}

// GetAll retrieves a filtered, sorted, paginated list of books with
// their authors and publishers expanded, plus pagination Metadata.
func (m BookModel) GetAll(filters BookFilters, page Filters) ([]*Book, Metadata, error) {
	where := bookWhere(filters)

	ds := expandedDataset().
		Where(where...).
		Order(orderExpressions(bookSortColumns, page, "b.id")...).
		Limit(uint(page.limit())).
		Offset(uint(page.offset()))

	querySQL, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, Metadata{}, err
	}

	rows, err := m.DB.Query(querySQL, args...)
	if err != nil {
		return nil, Metadata{}, err
	}
	defer rows.Close()

	books := []*Book{}
	for rows.Next() {
		book, err := scanExpandedBook(rows.Scan)
		if err != nil {
			return nil, Metadata{}, err
		}
		books = append(books, book)
	}
	if err = rows.Err(); err != nil {
		return nil, Metadata{}, err
	}

	total, err := m.count(where)
	if err != nil {
		return nil, Metadata{}, err
	}

	return books, calculateMetadata(total, page.Page, page.Limit), nil
}

// bookWhere builds the optional filter expressions for the books list.
func bookWhere(filters BookFilters) []goqu.Expression {
	where := make([]goqu.Expression, 0, 4)
	if filters.Title != "" {
		where = append(where, goqu.I("b.title").ILike("%"+filters.Title+"%"))
	}
	if filters.Language != "" {
		where = append(where, goqu.I("b.language").ILike("%"+filters.Language+"%"))
	}
	if filters.AuthorID != "" {
		where = append(where, goqu.I("b.author_id").Eq(filters.AuthorID))
	}
	if filters.PublisherID != "" {
		where = append(where, goqu.I("b.publisher_id").Eq(filters.PublisherID))
	}
	return where
}

// count returns the size of the filtered book set. The count runs over
// the bare books table; the filters only touch book columns, so the
// joins are unnecessary here.
func (m BookModel) count(where []goqu.Expression) (int, error) {
	countSQL, args, err := goqu.Dialect("postgres").
		From(goqu.T("books").As("b")).
		Select(goqu.COUNT(goqu.Star())).
		Where(where...).
		Prepared(true).
		ToSQL()
	if err != nil {
		return 0, err
	}

	var total int
	if err := m.DB.QueryRow(countSQL, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// Update saves the modified fields of book back to the database.
// Returns ErrRecordNotFound if the record has disappeared, or
// ErrDuplicateISBN on an ISBN collision.
func (m BookModel) Update(book *Book) error {
	query := `
		UPDATE books
		SET title = $1, author_id = $2, price = $3, isbn = $4,
		    language = $5, pages = $6, publisher_id = $7, updated_at = CURRENT_TIMESTAMP
		WHERE id = $8
		RETURNING updated_at`

	err := m.DB.QueryRow(
		query,
		book.Title,
		book.AuthorID,
		book.Price,
		book.ISBN,
		book.Language,
		book.Pages,
		book.PublisherID,
		book.ID,
	).Scan(&book.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrRecordNotFound
		default:
			return translateUnique(err)
		}
	}
	return nil
}

// Delete removes the book with the given id. Book deletion is
// unconditional; nothing references a book.
func (m BookModel) Delete(id string) error {
	query := `DELETE FROM books WHERE id = $1`

	result, err := m.DB.Exec(query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// ExistsForAuthor reports whether any book references the given author.
// Backs the referential-integrity guard on author deletion.
func (m BookModel) ExistsForAuthor(authorID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM books WHERE author_id = $1)`

	var exists bool
	err := m.DB.QueryRow(query, authorID).Scan(&exists)
	return exists, err
}

// ExistsForPublisher reports whether any book references the given
// publisher. Backs the referential-integrity guard on publisher deletion.
func (m BookModel) ExistsForPublisher(publisherID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM books WHERE publisher_id = $1)`

	var exists bool
	err := m.DB.QueryRow(query, publisherID).Scan(&exists)
	return exists, err
}
