// cmd/api/books_test.go
package main

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aoideee/library-catalog-api/internal/data"
)

type bookEnvelope struct {
	Book data.Book `json:"book"`
}

type bookListEnvelope struct {
	Books       []data.Book `json:"books"`
	TotalBooks  int         `json:"totalBooks"`
	CurrentPage int         `json:"currentPage"`
	TotalPages  int         `json:"totalPages"`
}

func TestCreateBookRoundTrip(t *testing.T) {
	ts := newTestServer(t)

	author := ts.mustCreateAuthor(t, "J.R.R. Tolkien", "United Kingdom", "tolkien@example.com")
	publisher := ts.mustCreatePublisher(t, "Allen & Unwin", "+44-20-9000", "unwin@example.com")

	created := ts.mustCreateBook(t, "The Hobbit", "978-0048231887", author.ID, publisher.ID)
	assert.Equal(t, "The Hobbit", created.Title)
	assert.Equal(t, author.ID, created.AuthorID)
	assert.Equal(t, publisher.ID, created.PublisherID)

	// A single read returns the expanded author and publisher records.
	var got bookEnvelope
	status := ts.doJSON(t, http.MethodGet, "/v1/books/"+created.ID, nil, &got)
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, got.Book.Author)
	require.NotNil(t, got.Book.Publisher)
	assert.Equal(t, "J.R.R. Tolkien", got.Book.Author.Name)
	assert.Equal(t, "Allen & Unwin", got.Book.Publisher.Name)
}

func TestCreateBookValidation(t *testing.T) {
	ts := newTestServer(t)

	var errBody errorBody
	status := ts.doJSON(t, http.MethodPost, "/v1/books", map[string]any{
		"title": "Incomplete",
		"pages": 0,
	}, &errBody)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, http.StatusBadRequest, errBody.Status)
}

func TestCreateBookUnknownReferences(t *testing.T) {
	ts := newTestServer(t)

	author := ts.mustCreateAuthor(t, "Real Author", "Canada", "real.author@example.com")
	publisher := ts.mustCreatePublisher(t, "Real House", "+1-416-1000", "real.house@example.com")

	// The error names which reference is missing.
	var errBody errorBody
	status := ts.doJSON(t, http.MethodPost, "/v1/books", map[string]any{
		"title":       "Orphaned",
		"authorId":    "no-such-author",
		"price":       12.50,
		"isbn":        "978-1111111111",
		"language":    "English",
		"pages":       200,
		"publisherId": publisher.ID,
	}, &errBody)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Author not found", errBody.messageString(t))

	status = ts.doJSON(t, http.MethodPost, "/v1/books", map[string]any{
		"title":       "Orphaned",
		"authorId":    author.ID,
		"price":       12.50,
		"isbn":        "978-1111111111",
		"language":    "English",
		"pages":       200,
		"publisherId": "no-such-publisher",
	}, &errBody)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Publisher not found", errBody.messageString(t))
}

func TestCreateBookDuplicateISBN(t *testing.T) {
	ts := newTestServer(t)

	author := ts.mustCreateAuthor(t, "Prolific Author", "France", "prolific@example.com")
	publisher := ts.mustCreatePublisher(t, "Gallimard", "+33-1-2000", "gallimard@example.com")
	ts.mustCreateBook(t, "First Edition", "978-2222222222", author.ID, publisher.ID)

	var errBody errorBody
	status := ts.doJSON(t, http.MethodPost, "/v1/books", map[string]any{
		"title":       "Second Edition",
		"authorId":    author.ID,
		"price":       15.00,
		"isbn":        "978-2222222222",
		"language":    "French",
		"pages":       180,
		"publisherId": publisher.ID,
	}, &errBody)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Book already exists, try update", errBody.messageString(t))
}

func TestShowBookNotFound(t *testing.T) {
	ts := newTestServer(t)

	var errBody errorBody
	status := ts.doJSON(t, http.MethodGet, "/v1/books/no-such-id", nil, &errBody)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Book not found", errBody.messageString(t))
}

func TestUpdateBookPartial(t *testing.T) {
	ts := newTestServer(t)

	author := ts.mustCreateAuthor(t, "Update Author", "Japan", "update.author@example.com")
	publisher := ts.mustCreatePublisher(t, "Kodansha", "+81-3-3000", "kodansha@example.com")
	book := ts.mustCreateBook(t, "Original Title", "978-3333333333", author.ID, publisher.ID)

	// Only price changes; every other field keeps its value.
	var got bookEnvelope
	status := ts.doJSON(t, http.MethodPatch, "/v1/books/"+book.ID, map[string]any{
		"price": 24.99,
	}, &got)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 24.99, got.Book.Price)
	assert.Equal(t, "Original Title", got.Book.Title)
	assert.Equal(t, book.ISBN, got.Book.ISBN)
	assert.Equal(t, author.ID, got.Book.AuthorID)
}

func TestUpdateBookISBNConflicts(t *testing.T) {
	ts := newTestServer(t)

	author := ts.mustCreateAuthor(t, "Shared Author", "Italy", "shared@example.com")
	publisher := ts.mustCreatePublisher(t, "Einaudi", "+39-011-4000", "einaudi@example.com")
	first := ts.mustCreateBook(t, "First Book", "978-4444444444", author.ID, publisher.ID)
	second := ts.mustCreateBook(t, "Second Book", "978-5555555555", author.ID, publisher.ID)

	// Moving onto another book's ISBN is a conflict.
	var errBody errorBody
	status := ts.doJSON(t, http.MethodPatch, "/v1/books/"+second.ID, map[string]any{
		"isbn": first.ISBN,
	}, &errBody)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Book already exists", errBody.messageString(t))

	// Re-submitting the book's own ISBN is not.
	var got bookEnvelope
	status = ts.doJSON(t, http.MethodPatch, "/v1/books/"+second.ID, map[string]any{
		"isbn": second.ISBN,
	}, &got)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, second.ISBN, got.Book.ISBN)
}

func TestUpdateBookUnknownReference(t *testing.T) {
	ts := newTestServer(t)

	author := ts.mustCreateAuthor(t, "Anchor Author", "Spain", "anchor@example.com")
	publisher := ts.mustCreatePublisher(t, "Anagrama", "+34-93-5000", "anagrama@example.com")
	book := ts.mustCreateBook(t, "Anchored", "978-6666666666", author.ID, publisher.ID)

	var errBody errorBody
	status := ts.doJSON(t, http.MethodPatch, "/v1/books/"+book.ID, map[string]any{
		"authorId": "no-such-author",
	}, &errBody)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Author not found", errBody.messageString(t))
}

func TestDeleteBook(t *testing.T) {
	ts := newTestServer(t)

	author := ts.mustCreateAuthor(t, "Ephemeral Author", "Norway", "ephemeral@example.com")
	publisher := ts.mustCreatePublisher(t, "Gyldendal", "+47-22-6000", "gyldendal@example.com")
	book := ts.mustCreateBook(t, "Short-Lived", "978-7777777777", author.ID, publisher.ID)

	// Books delete unconditionally and echo the removed record.
	var deleted struct {
		Message string    `json:"message"`
		Data    data.Book `json:"data"`
	}
	status := ts.doJSON(t, http.MethodDelete, "/v1/books/"+book.ID, nil, &deleted)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Deleted successfully", deleted.Message)
	assert.Equal(t, book.ID, deleted.Data.ID)

	status = ts.doJSON(t, http.MethodGet, "/v1/books/"+book.ID, nil, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestListBooksFiltering(t *testing.T) {
	ts := newTestServer(t)

	rowling := ts.mustCreateAuthor(t, "J.K. Rowling", "United Kingdom", "rowling@example.com")
	pratchett := ts.mustCreateAuthor(t, "Terry Pratchett", "United Kingdom", "pratchett@example.com")
	publisher := ts.mustCreatePublisher(t, "Bloomsbury", "+44-20-7000", "bloomsbury@example.com")

	ts.mustCreateBook(t, "Harry Potter and the Philosopher's Stone", "978-0747532699", rowling.ID, publisher.ID)
	ts.mustCreateBook(t, "Harry Potter and the Chamber of Secrets", "978-0747538493", rowling.ID, publisher.ID)
	ts.mustCreateBook(t, "Good Omens", "978-0552137034", pratchett.ID, publisher.ID)

	// Case-insensitive substring match on title.
	var got bookListEnvelope
	status := ts.doJSON(t, http.MethodGet, "/v1/books?title=harry", nil, &got)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2, got.TotalBooks)
	require.Len(t, got.Books, 2)

	// Exact match on the author reference.
	status = ts.doJSON(t, http.MethodGet, "/v1/books?authorId="+pratchett.ID, nil, &got)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, got.Books, 1)
	assert.Equal(t, "Good Omens", got.Books[0].Title)
}

func TestListBooksExpanded(t *testing.T) {
	ts := newTestServer(t)

	author := ts.mustCreateAuthor(t, "Listed Author", "Brazil", "listed@example.com")
	publisher := ts.mustCreatePublisher(t, "Companhia das Letras", "+55-11-8000", "letras@example.com")
	ts.mustCreateBook(t, "Listed Book", "978-8888888888", author.ID, publisher.ID)

	// Every listed book carries its expanded references.
	var got bookListEnvelope
	status := ts.doJSON(t, http.MethodGet, "/v1/books", nil, &got)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, got.Books, 1)
	require.NotNil(t, got.Books[0].Author)
	require.NotNil(t, got.Books[0].Publisher)
	assert.Equal(t, "Listed Author", got.Books[0].Author.Name)
	assert.Equal(t, "Companhia das Letras", got.Books[0].Publisher.Name)
}

func TestListBooksSortByPrice(t *testing.T) {
	ts := newTestServer(t)

	author := ts.mustCreateAuthor(t, "Priced Author", "Chile", "priced@example.com")
	publisher := ts.mustCreatePublisher(t, "Planeta", "+56-2-9000", "planeta@example.com")

	prices := map[string]float64{"Cheap": 5.00, "Middling": 15.00, "Dear": 45.00}
	titles := []string{"Middling", "Dear", "Cheap"}
	isbns := []string{"978-9999999990", "978-9999999991", "978-9999999992"}
	for i, title := range titles {
		var got bookEnvelope
		status := ts.doJSON(t, http.MethodPost, "/v1/books", map[string]any{
			"title":       title,
			"authorId":    author.ID,
			"price":       prices[title],
			"isbn":        isbns[i],
			"language":    "Spanish",
			"pages":       100,
			"publisherId": publisher.ID,
		}, &got)
		require.Equal(t, http.StatusCreated, status)
	}

	var got bookListEnvelope
	status := ts.doJSON(t, http.MethodGet, "/v1/books?sortBy=price&sortOrder=desc", nil, &got)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, got.Books, 3)
	assert.Equal(t, "Dear", got.Books[0].Title)
	assert.Equal(t, "Middling", got.Books[1].Title)
	assert.Equal(t, "Cheap", got.Books[2].Title)
}
