// internal/data/memory.go
// Map-backed implementations of the entity stores with the same
// semantics as the PostgreSQL models: duplicate-field sentinels,
// case-insensitive substring filters, safelisted sorting, pagination,
// and book expansion. Used by the handler test suite and handy as a
// throwaway development store.
package data

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore holds all three collections behind one mutex so the
// cross-entity checks (uniqueness, reference probes) are atomic.
type MemoryStore struct {
	mu         sync.RWMutex
	authors    map[string]Author
	books      map[string]Book
	publishers map[string]Publisher
}

// NewMemoryModels constructs a Models value backed by a fresh in-memory
// store shared by all three entity views.
func NewMemoryModels() Models {
	store := &MemoryStore{
		authors:    make(map[string]Author),
		books:      make(map[string]Book),
		publishers: make(map[string]Publisher),
	}
	return Models{
		Authors:    &memoryAuthors{store},
		Books:      &memoryBooks{store},
		Publishers: &memoryPublishers{store},
	}
}

// containsFold reports whether substr occurs in s, ignoring case.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// pageBounds clips the pagination window to the item count.
func pageBounds(total int, page Filters) (start, end int) {
	start = page.offset()
	if start > total {
		start = total
	}
	end = start + page.limit()
	if end > total {
		end = total
	}
	return start, end
}

type memoryAuthors struct {
	store *MemoryStore
}

func (m *memoryAuthors) Insert(author *Author) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	for _, existing := range m.store.authors {
		if existing.Email == author.Email {
			return ErrDuplicateEmail
		}
	}

	now := time.Now().UTC()
	author.ID = uuid.NewString()
	author.CreatedAt = now
	author.UpdatedAt = now
	m.store.authors[author.ID] = *author
	return nil
}

func (m *memoryAuthors) Get(id string) (*Author, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()

	author, ok := m.store.authors[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return &author, nil
}

func (m *memoryAuthors) GetByEmail(email string) (*Author, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()

	for _, author := range m.store.authors {
		if author.Email == email {
			match := author
			return &match, nil
		}
	}
	return nil, ErrRecordNotFound
}

func (m *memoryAuthors) GetAll(filters AuthorFilters, page Filters) ([]*Author, Metadata, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()

	matched := make([]Author, 0, len(m.store.authors))
	for _, author := range m.store.authors {
		if filters.Name != "" && !containsFold(author.Name, filters.Name) {
			continue
		}
		if filters.Country != "" && !containsFold(author.Country, filters.Country) {
			continue
		}
		if filters.Email != "" && !containsFold(author.Email, filters.Email) {
			continue
		}
		matched = append(matched, author)
	}

	desc := page.SortBy != "" && page.descending()
	sort.Slice(matched, func(i, j int) bool {
		c := compareAuthors(matched[i], matched[j], page.SortBy)
		if c == 0 {
			return matched[i].ID < matched[j].ID
		}
		if desc {
			return c > 0
		}
		return c < 0
	})

	total := len(matched)
	start, end := pageBounds(total, page)

	authors := make([]*Author, 0, end-start)
	for i := start; i < end; i++ {
		author := matched[i]
		authors = append(authors, &author)
	}
	return authors, calculateMetadata(total, page.Page, page.Limit), nil
}

func (m *memoryAuthors) Update(author *Author) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	existing, ok := m.store.authors[author.ID]
	if !ok {
		return ErrRecordNotFound
	}
	for _, other := range m.store.authors {
		if other.ID != author.ID && other.Email == author.Email {
			return ErrDuplicateEmail
		}
	}

	author.CreatedAt = existing.CreatedAt
	author.UpdatedAt = time.Now().UTC()
	m.store.authors[author.ID] = *author
	return nil
}

func (m *memoryAuthors) Delete(id string) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	if _, ok := m.store.authors[id]; !ok {
		return ErrRecordNotFound
	}
	delete(m.store.authors, id)
	return nil
}

// compareAuthors orders two authors by the given sortBy field,
// returning -1, 0, or 1. Unknown or empty fields fall back to creation
// time, mirroring the SQL models' insertion-order default.
func compareAuthors(a, b Author, sortBy string) int {
	switch sortBy {
	case "name":
		return strings.Compare(a.Name, b.Name)
	case "country":
		return strings.Compare(a.Country, b.Country)
	case "email":
		return strings.Compare(a.Email, b.Email)
	case "birthDate":
		return a.BirthDate.Compare(b.BirthDate)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

type memoryBooks struct {
	store *MemoryStore
}

func (m *memoryBooks) Insert(book *Book) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	for _, existing := range m.store.books {
		if existing.ISBN == book.ISBN {
			return ErrDuplicateISBN
		}
	}

	now := time.Now().UTC()
	book.ID = uuid.NewString()
	book.CreatedAt = now
	book.UpdatedAt = now

	stored := *book
	stored.Author = nil
	stored.Publisher = nil
	m.store.books[book.ID] = stored
	return nil
}

// expand attaches copies of the referenced author and publisher to a
// book. Callers must hold at least the read lock.
func (m *memoryBooks) expand(book Book) *Book {
	if author, ok := m.store.authors[book.AuthorID]; ok {
		book.Author = &author
	}
	if publisher, ok := m.store.publishers[book.PublisherID]; ok {
		book.Publisher = &publisher
	}
	return &book
}

func (m *memoryBooks) Get(id string) (*Book, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()

	book, ok := m.store.books[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return m.expand(book), nil
}

func (m *memoryBooks) GetByISBN(isbn string) (*Book, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()

	for _, book := range m.store.books {
		if book.ISBN == isbn {
			match := book
			return &match, nil
		}
	}
	return nil, ErrRecordNotFound
}

func (m *memoryBooks) GetAll(filters BookFilters, page Filters) ([]*Book, Metadata, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()

	matched := make([]Book, 0, len(m.store.books))
	for _, book := range m.store.books {
		if filters.Title != "" && !containsFold(book.Title, filters.Title) {
			continue
		}
		if filters.Language != "" && !containsFold(book.Language, filters.Language) {
			continue
		}
		if filters.AuthorID != "" && book.AuthorID != filters.AuthorID {
			continue
		}
		if filters.PublisherID != "" && book.PublisherID != filters.PublisherID {
			continue
		}
		matched = append(matched, book)
	}

	desc := page.SortBy != "" && page.descending()
	sort.Slice(matched, func(i, j int) bool {
		c := compareBooks(matched[i], matched[j], page.SortBy)
		if c == 0 {
			return matched[i].ID < matched[j].ID
		}
		if desc {
			return c > 0
		}
		return c < 0
	})

	total := len(matched)
	start, end := pageBounds(total, page)

	books := make([]*Book, 0, end-start)
	for i := start; i < end; i++ {
		books = append(books, m.expand(matched[i]))
	}
	return books, calculateMetadata(total, page.Page, page.Limit), nil
}

func (m *memoryBooks) Update(book *Book) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	existing, ok := m.store.books[book.ID]
	if !ok {
		return ErrRecordNotFound
	}
	for _, other := range m.store.books {
		if other.ID != book.ID && other.ISBN == book.ISBN {
			return ErrDuplicateISBN
		}
	}

	book.CreatedAt = existing.CreatedAt
	book.UpdatedAt = time.Now().UTC()

	stored := *book
	stored.Author = nil
	stored.Publisher = nil
	m.store.books[book.ID] = stored
	return nil
}

func (m *memoryBooks) Delete(id string) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	if _, ok := m.store.books[id]; !ok {
		return ErrRecordNotFound
	}
	delete(m.store.books, id)
	return nil
}

func (m *memoryBooks) ExistsForAuthor(authorID string) (bool, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()

	for _, book := range m.store.books {
		if book.AuthorID == authorID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryBooks) ExistsForPublisher(publisherID string) (bool, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()

	for _, book := range m.store.books {
		if book.PublisherID == publisherID {
			return true, nil
		}
	}
	return false, nil
}

// compareBooks orders two books by the given sortBy field.
func compareBooks(a, b Book, sortBy string) int {
	switch sortBy {
	case "title":
		return strings.Compare(a.Title, b.Title)
	case "price":
		switch {
		case a.Price < b.Price:
			return -1
		case a.Price > b.Price:
			return 1
		default:
			return 0
		}
	case "isbn":
		return strings.Compare(a.ISBN, b.ISBN)
	case "language":
		return strings.Compare(a.Language, b.Language)
	case "pages":
		switch {
		case a.Pages < b.Pages:
			return -1
		case a.Pages > b.Pages:
			return 1
		default:
			return 0
		}
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

type memoryPublishers struct {
	store *MemoryStore
}

func (m *memoryPublishers) Insert(publisher *Publisher) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	for _, existing := range m.store.publishers {
		if existing.Email == publisher.Email {
			return ErrDuplicateEmail
		}
		if existing.Phone == publisher.Phone {
			return ErrDuplicatePhone
		}
	}

	now := time.Now().UTC()
	publisher.ID = uuid.NewString()
	publisher.CreatedAt = now
	publisher.UpdatedAt = now
	m.store.publishers[publisher.ID] = *publisher
	return nil
}

func (m *memoryPublishers) Get(id string) (*Publisher, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()

	publisher, ok := m.store.publishers[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return &publisher, nil
}

func (m *memoryPublishers) GetByEmail(email string) (*Publisher, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()

	for _, publisher := range m.store.publishers {
		if publisher.Email == email {
			match := publisher
			return &match, nil
		}
	}
	return nil, ErrRecordNotFound
}

func (m *memoryPublishers) GetByPhone(phone string) (*Publisher, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()

	for _, publisher := range m.store.publishers {
		if publisher.Phone == phone {
			match := publisher
			return &match, nil
		}
	}
	return nil, ErrRecordNotFound
}

func (m *memoryPublishers) GetAll(filters PublisherFilters, page Filters) ([]*Publisher, Metadata, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()

	matched := make([]Publisher, 0, len(m.store.publishers))
	for _, publisher := range m.store.publishers {
		if filters.Name != "" && !containsFold(publisher.Name, filters.Name) {
			continue
		}
		if filters.Address != "" && !containsFold(publisher.Address, filters.Address) {
			continue
		}
		if filters.Email != "" && !containsFold(publisher.Email, filters.Email) {
			continue
		}
		matched = append(matched, publisher)
	}

	desc := page.SortBy != "" && page.descending()
	sort.Slice(matched, func(i, j int) bool {
		c := comparePublishers(matched[i], matched[j], page.SortBy)
		if c == 0 {
			return matched[i].ID < matched[j].ID
		}
		if desc {
			return c > 0
		}
		return c < 0
	})

	total := len(matched)
	start, end := pageBounds(total, page)

	publishers := make([]*Publisher, 0, end-start)
	for i := start; i < end; i++ {
		publisher := matched[i]
		publishers = append(publishers, &publisher)
	}
	return publishers, calculateMetadata(total, page.Page, page.Limit), nil
}

func (m *memoryPublishers) Update(publisher *Publisher) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	existing, ok := m.store.publishers[publisher.ID]
	if !ok {
		return ErrRecordNotFound
	}
	for _, other := range m.store.publishers {
		if other.ID == publisher.ID {
			continue
		}
		if other.Email == publisher.Email {
			return ErrDuplicateEmail
		}
		if other.Phone == publisher.Phone {
			return ErrDuplicatePhone
		}
	}

	publisher.CreatedAt = existing.CreatedAt
	publisher.UpdatedAt = time.Now().UTC()
	m.store.publishers[publisher.ID] = *publisher
	return nil
}

func (m *memoryPublishers) Delete(id string) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	if _, ok := m.store.publishers[id]; !ok {
		return ErrRecordNotFound
	}
	delete(m.store.publishers, id)
	return nil
}

// comparePublishers orders two publishers by the given sortBy field.
func comparePublishers(a, b Publisher, sortBy string) int {
	switch sortBy {
	case "name":
		return strings.Compare(a.Name, b.Name)
	case "phone":
		return strings.Compare(a.Phone, b.Phone)
	case "address":
		return strings.Compare(a.Address, b.Address)
	case "email":
		return strings.Compare(a.Email, b.Email)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}
