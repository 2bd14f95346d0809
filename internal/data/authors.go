// Package data provides the entity types and storage models for the
// library catalog: authors, books, and publishers.
package data

import (
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // register the postgres dialect
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"

	"github.com/aoideee/library-catalog-api/internal/validator"
)

// Author represents a single author record.
// Email is unique across all authors.
type Author struct {
	ID        string    `json:"id"` // Unique identifier assigned by the store
	Name      string    `json:"name"`
	Country   string    `json:"country"`
	BirthDate time.Time `json:"birthDate"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateAuthorInput holds the fields a client must supply when creating
// a new author. All fields are required.
type CreateAuthorInput struct {
	Name      string    `json:"name"`
	Country   string    `json:"country"`
	BirthDate time.Time `json:"birthDate"`
	Email     string    `json:"email"`
}

// UpdateAuthorInput holds the fields a client may supply when partially
// updating an author. Every field is a pointer so we can distinguish
// between "not provided" (nil) and "intentionally set". Only non-nil
// fields are applied.
type UpdateAuthorInput struct {
	Name      *string    `json:"name"`
	Country   *string    `json:"country"`
	BirthDate *time.Time `json:"birthDate"`
	Email     *string    `json:"email"`
}

// AuthorFilters holds the optional list filters for authors. Each
// non-empty field is a case-insensitive substring match; supplied
// filters are AND-combined.
type AuthorFilters struct {
	Name    string
	Country string
	Email   string
}

// AuthorSortSafeList enumerates the JSON field names accepted as sortBy
// values on the authors list endpoint.
var AuthorSortSafeList = []string{"name", "country", "email", "birthDate", "createdAt"}

// authorSortColumns maps sortBy field names onto database columns.
var authorSortColumns = map[string]string{
	"name":      "name",
	"country":   "country",
	"email":     "email",
	"birthDate": "birth_date",
	"createdAt": "created_at",
}

// ValidateCreateAuthor checks that all required author fields are
// present and that the email has a plausible shape.
func ValidateCreateAuthor(v *validator.Validator, input CreateAuthorInput) {
	v.Check(input.Name != "", "name", "must be provided")
	v.Check(input.Country != "", "country", "must be provided")
	v.Check(!input.BirthDate.IsZero(), "birthDate", "must be provided")
	v.Check(input.Email != "", "email", "must be provided")
	if input.Email != "" {
		v.Check(validator.Matches(input.Email, validator.EmailRX), "email", "must be a valid email address")
	}
}

// ValidateUpdateAuthor checks the supplied fields of a partial author
// update. Absent (nil) fields are not validated.
func ValidateUpdateAuthor(v *validator.Validator, input UpdateAuthorInput) {
	if input.Name != nil {
		v.Check(*input.Name != "", "name", "must not be empty")
	}
	if input.Country != nil {
		v.Check(*input.Country != "", "country", "must not be empty")
	}
	if input.BirthDate != nil {
		v.Check(!input.BirthDate.IsZero(), "birthDate", "must not be empty")
	}
	if input.Email != nil {
		v.Check(validator.Matches(*input.Email, validator.EmailRX), "email", "must be a valid email address")
	}
}

// AuthorModel wraps a *sql.DB connection and provides methods for
// creating, reading, updating, and deleting author records.
type AuthorModel struct {
	DB *sql.DB // Shared database connection pool
}

// Insert adds a new author record, assigning it a fresh id. The
// database-assigned timestamps are written back into the struct.
// Returns ErrDuplicateEmail if the email is already taken.
func (m AuthorModel) Insert(author *Author) error {
	author.ID = uuid.NewString()

	query := `
		INSERT INTO authors (id, name, country, birth_date, email)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	err := m.DB.QueryRow(
		query,
		author.ID,
		author.Name,
		author.Country,
		author.BirthDate,
		author.Email,
	).Scan(&author.CreatedAt, &author.UpdatedAt)
	if err != nil {
		return translateUnique(err)
	}

	return nil
}

// Get retrieves a single author by id.
// Returns ErrRecordNotFound if no author with the given id exists.
func (m AuthorModel) Get(id string) (*Author, error) {
	query := `
		SELECT id, name, country, birth_date, email, created_at, updated_at
		FROM authors
		WHERE id = $1`

	var author Author
	err := m.DB.QueryRow(query, id).Scan(
		&author.ID,
		&author.Name,
		&author.Country,
		&author.BirthDate,
		&author.Email,
		&author.CreatedAt,
		&author.UpdatedAt,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &author, nil
}

// GetByEmail retrieves the author holding the given email, if any.
// Returns ErrRecordNotFound when the email is unused.
func (m AuthorModel) GetByEmail(email string) (*Author, error) {
	query := `
		SELECT id, name, country, birth_date, email, created_at, updated_at
		FROM authors
		WHERE email = $1`

	var author Author
	err := m.DB.QueryRow(query, email).Scan(
		&author.ID,
		&author.Name,
		&author.Country,
		&author.BirthDate,
		&author.Email,
		&author.CreatedAt,
		&author.UpdatedAt,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &author, nil
}

// GetAll retrieves a filtered, sorted, paginated list of authors
// together with pagination Metadata. The SELECT and its companion
// COUNT are built dynamically with goqu because every filter is
// optional; the count runs over the whole filtered set.
func (m AuthorModel) GetAll(filters AuthorFilters, page Filters) ([]*Author, Metadata, error) {
	where := make([]goqu.Expression, 0, 3)
	if filters.Name != "" {
		where = append(where, goqu.C("name").ILike("%"+filters.Name+"%"))
	}
	if filters.Country != "" {
		where = append(where, goqu.C("country").ILike("%"+filters.Country+"%"))
	}
	if filters.Email != "" {
		where = append(where, goqu.C("email").ILike("%"+filters.Email+"%"))
	}

	ds := goqu.Dialect("postgres").
		From("authors").
		Select("id", "name", "country", "birth_date", "email", "created_at", "updated_at").
		Where(where...).
		Order(orderExpressions(authorSortColumns, page, "id")...).
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

	authors := []*Author{}
	for rows.Next() {
		var author Author
		err := rows.Scan(
			&author.ID,
			&author.Name,
			&author.Country,
			&author.BirthDate,
			&author.Email,
			&author.CreatedAt,
			&author.UpdatedAt,
		)
		if err != nil {
			return nil, Metadata{}, err
		}
		authors = append(authors, &author)
	}
	if err = rows.Err(); err != nil {
		return nil, Metadata{}, err
	}

	total, err := m.count(where)
	if err != nil {
		return nil, Metadata{}, err
	}

	return authors, calculateMetadata(total, page.Page, page.Limit), nil
}

// count returns the size of the filtered author set.
func (m AuthorModel) count(where []goqu.Expression) (int, error) {
	countSQL, args, err := goqu.Dialect("postgres").
		From("authors").
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

// Update saves the modified fields of author back to the database and
// refreshes the updated_at timestamp. Returns ErrRecordNotFound if the
// record has disappeared, or ErrDuplicateEmail on an email collision.
func (m AuthorModel) Update(author *Author) error {
	query := `
		UPDATE authors
		SET name = $1, country = $2, birth_date = $3, email = $4, updated_at = CURRENT_TIMESTAMP
		WHERE id = $5
		RETURNING updated_at`

	err := m.DB.QueryRow(
		query,
		author.Name,
		author.Country,
		author.BirthDate,
		author.Email,
		author.ID,
	).Scan(&author.UpdatedAt)
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

// Delete removes the author with the given id.
// Returns ErrRecordNotFound if no matching record exists.
func (m AuthorModel) Delete(id string) error {
	query := `DELETE FROM authors WHERE id = $1`

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

// orderExpressions builds the ORDER BY list for a list query: the
// safelisted sort column in the requested direction, with the given
// tiebreak column, or insertion order when no sort was requested.
func orderExpressions(columns map[string]string, page Filters, tiebreak string) []exp.OrderedExpression {
	column, ok := columns[page.SortBy]
	if !ok {
		column = columns["createdAt"]
	}
	primary := goqu.I(column).Asc()
	if page.SortBy != "" && page.descending() {
		primary = goqu.I(column).Desc()
	}
	return []exp.OrderedExpression{primary, goqu.I(tiebreak).Asc()}
}
