// internal/data/publishers.go
package data

import (
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/aoideee/library-catalog-api/internal/validator"
)

// Publisher represents a single publisher record.
// Email and phone are each unique across all publishers.
type Publisher struct {
	ID        string    `json:"id"` // Unique identifier assigned by the store
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreatePublisherInput holds the fields a client must supply when
// creating a new publisher. All fields are required.
type CreatePublisherInput struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Email   string `json:"email"`
}

// UpdatePublisherInput holds the fields a client may supply when
// partially updating a publisher. Only non-nil fields are applied.
type UpdatePublisherInput struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	Email   *string `json:"email"`
}

// PublisherFilters holds the optional list filters for publishers.
// Each non-empty field is a case-insensitive substring match; supplied
// filters are AND-combined.
type PublisherFilters struct {
	Name    string
	Address string
	Email   string
}

// PublisherSortSafeList enumerates the JSON field names accepted as
// sortBy values on the publishers list endpoint.
var PublisherSortSafeList = []string{"name", "phone", "address", "email", "createdAt"}

// publisherSortColumns maps sortBy field names onto database columns.
var publisherSortColumns = map[string]string{
	"name":      "name",
	"phone":     "phone",
	"address":   "address",
	"email":     "email",
	"createdAt": "created_at",
}

// ValidateCreatePublisher checks that all required publisher fields are
// present and that the email has a plausible shape.
func ValidateCreatePublisher(v *validator.Validator, input CreatePublisherInput) {
	v.Check(input.Name != "", "name", "must be provided")
	v.Check(input.Phone != "", "phone", "must be provided")
	v.Check(input.Address != "", "address", "must be provided")
	v.Check(input.Email != "", "email", "must be provided")
	if input.Email != "" {
		v.Check(validator.Matches(input.Email, validator.EmailRX), "email", "must be a valid email address")
	}
}

// ValidateUpdatePublisher checks the supplied fields of a partial
// publisher update. Absent (nil) fields are not validated.
func ValidateUpdatePublisher(v *validator.Validator, input UpdatePublisherInput) {
	if input.Name != nil {
		v.Check(*input.Name != "", "name", "must not be empty")
	}
	if input.Phone != nil {
		v.Check(*input.Phone != "", "phone", "must not be empty")
	}
	if input.Address != nil {
		v.Check(*input.Address != "", "address", "must not be empty")
	}
	if input.Email != nil {
		v.Check(validator.Matches(*input.Email, validator.EmailRX), "email", "must be a valid email address")
	}
}

// PublisherModel wraps a *sql.DB connection and provides methods for
// creating, reading, updating, and deleting publisher records.
type PublisherModel struct {
	DB *sql.DB // Shared database connection pool
}

// Insert adds a new publisher record, assigning it a fresh id.
// Returns ErrDuplicateEmail or ErrDuplicatePhone on a collision.
func (m PublisherModel) Insert(publisher *Publisher) error {
	publisher.ID = uuid.NewString()

	query := `
		INSERT INTO publishers (id, name, phone, address, email)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	err := m.DB.QueryRow(
		query,
		publisher.ID,
		publisher.Name,
		publisher.Phone,
		publisher.Address,
		publisher.Email,
	).Scan(&publisher.CreatedAt, &publisher.UpdatedAt)
	if err != nil {
		return translateUnique(err)
	}

	return nil
}

// Get retrieves a single publisher by id.
// Returns ErrRecordNotFound if no publisher with the given id exists.
func (m PublisherModel) Get(id string) (*Publisher, error) {
	query := `
		SELECT id, name, phone, address, email, created_at, updated_at
		FROM publishers
		WHERE id = $1`

	return m.getOne(query, id)
}

// GetByEmail retrieves the publisher holding the given email, if any.
func (m PublisherModel) GetByEmail(email string) (*Publisher, error) {
	query := `
		SELECT id, name, phone, address, email, created_at, updated_at
		FROM publishers
		WHERE email = $1`

	return m.getOne(query, email)
}

// GetByPhone retrieves the publisher holding the given phone, if any.
func (m PublisherModel) GetByPhone(phone string) (*Publisher, error) {
	query := `
		SELECT id, name, phone, address, email, created_at, updated_at
		FROM publishers
		WHERE phone = $1`

	return m.getOne(query, phone)
}

// getOne runs a single-row publisher query, mapping sql.ErrNoRows to
// ErrRecordNotFound.
func (m PublisherModel) getOne(query string, arg any) (*Publisher, error) {
	var publisher Publisher
	err := m.DB.QueryRow(query, arg).Scan(
		&publisher.ID,
		&publisher.Name,
		&publisher.Phone,
		&publisher.Address,
		&publisher.Email,
		&publisher.CreatedAt,
		&publisher.UpdatedAt,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &publisher, nil
}

// GetAll retrieves a filtered, sorted, paginated list of publishers
// together with pagination Metadata.
func (m PublisherModel) GetAll(filters PublisherFilters, page Filters) ([]*Publisher, Metadata, error) {
	where := make([]goqu.Expression, 0, 3)
	if filters.Name != "" {
		where = append(where, goqu.C("name").ILike("%"+filters.Name+"%"))
	}
	if filters.Address != "" {
		where = append(where, goqu.C("address").ILike("%"+filters.Address+"%"))
	}
	if filters.Email != "" {
		where = append(where, goqu.C("email").ILike("%"+filters.Email+"%"))
	}

	ds := goqu.Dialect("postgres").
		From("publishers").
		Select("id", "name", "phone", "address", "email", "created_at", "updated_at").
		Where(where...).
		Order(orderExpressions(publisherSortColumns, page, "id")...).
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

	publishers := []*Publisher{}
	for rows.Next() {
		var publisher Publisher
		err := rows.Scan(
			&publisher.ID,
			&publisher.Name,
			&publisher.Phone,
			&publisher.Address,
			&publisher.Email,
			&publisher.CreatedAt,
			&publisher.UpdatedAt,
		)
		if err != nil {
			return nil, Metadata{}, err
		}
		publishers = append(publishers, &publisher)
	}
	if err = rows.Err(); err != nil {
		return nil, Metadata{}, err
	}

	total, err := m.count(where)
	if err != nil {
		return nil, Metadata{}, err
	}

	return publishers, calculateMetadata(total, page.Page, page.Limit), nil
}

// count returns the size of the filtered publisher set.
func (m PublisherModel) count(where []goqu.Expression) (int, error) {
	countSQL, args, err := goqu.Dialect("postgres").
		From("publishers").
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

// Update saves the modified fields of publisher back to the database.
// Returns ErrRecordNotFound if the record has disappeared, or a
// duplicate sentinel on an email/phone collision.
func (m PublisherModel) Update(publisher *Publisher) error {
	query := `
		UPDATE publishers
		SET name = $1, phone = $2, address = $3, email = $4, updated_at = CURRENT_TIMESTAMP
		WHERE id = $5
		RETURNING updated_at`

	err := m.DB.QueryRow(
		query,
		publisher.Name,
		publisher.Phone,
		publisher.Address,
		publisher.Email,
		publisher.ID,
	).Scan(&publisher.UpdatedAt)
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

// Delete removes the publisher with the given id.
// Returns ErrRecordNotFound if no matching record exists.
func (m PublisherModel) Delete(id string) error {
	query := `DELETE FROM publishers WHERE id = $1`

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
