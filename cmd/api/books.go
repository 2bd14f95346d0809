// cmd/api/books.go
// This file contains all HTTP request handlers for the books resource.
// Books hold references to an author and a publisher; both references
// are checked against the store on every create and on any update that
// touches them.
package main

import (
	"errors"
	"net/http"

	"github.com/aoideee/library-catalog-api/internal/data"
	"github.com/aoideee/library-catalog-api/internal/validator"
)

// createBookHandler handles POST /v1/books.
// All seven fields are required. The checks run in order: ISBN
// uniqueness, author existence, publisher existence. Writes happen only
// after every check passes, so a failed check leaves no partial state.
func (app *applicationDependencies) createBookHandler(w http.ResponseWriter, r *http.Request) {
	var input data.CreateBookInput

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	data.ValidateCreateBook(v, input)
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	// Fast-path ISBN uniqueness check.
	_, err = app.models.Books.GetByISBN(input.ISBN)
	switch {
	case err == nil:
		app.conflictResponse(w, r, "Book already exists, try update")
		return
	case errors.Is(err, data.ErrRecordNotFound):
		// ISBN is free, carry on.
	default:
		app.serverErrorResponse(w, r, err)
		return
	}

	// The author reference must resolve.
	_, err = app.models.Authors.Get(input.AuthorID)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundMessageResponse(w, r, "Author not found")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	// The publisher reference must resolve.
	_, err = app.models.Publishers.Get(input.PublisherID)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundMessageResponse(w, r, "Publisher not found")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	book := &data.Book{
		Title:       input.Title,
		AuthorID:    input.AuthorID,
		Price:       input.Price,
		ISBN:        input.ISBN,
		Language:    input.Language,
		Pages:       input.Pages,
		PublisherID: input.PublisherID,
	}

	err = app.models.Books.Insert(book)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrDuplicateISBN):
			app.conflictResponse(w, r, "Book already exists, try update")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"book": book}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// showBookHandler handles GET /v1/books/:id.
// The response carries the referenced author and publisher expanded
// into the record (a read-time join; nothing is written).
func (app *applicationDependencies) showBookHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	book, err := app.models.Books.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundMessageResponse(w, r, "Book not found")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"book": book}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// updateBookHandler handles PATCH /v1/books/:id.
// Partial update; the effective ISBN (new or retained) must not collide
// with a different book, and any supplied author/publisher reference is
// re-validated for existence.
func (app *applicationDependencies) updateBookHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	book, err := app.models.Books.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundMessageResponse(w, r, "Book not found")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	var input data.UpdateBookInput
	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	data.ValidateUpdateBook(v, input)
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	// The ISBN after the update (supplied or retained) must not belong
	// to a different book. The current record is excluded from the check.
	isbn := book.ISBN
	if input.ISBN != nil {
		isbn = *input.ISBN
	}
	other, err := app.models.Books.GetByISBN(isbn)
	switch {
	case err == nil && other.ID != book.ID:
		app.conflictResponse(w, r, "Book already exists")
		return
	case err != nil && !errors.Is(err, data.ErrRecordNotFound):
		app.serverErrorResponse(w, r, err)
		return
	}

	// A supplied author reference must resolve.
	if input.AuthorID != nil {
		_, err = app.models.Authors.Get(*input.AuthorID)
		if err != nil {
			switch {
			case errors.Is(err, data.ErrRecordNotFound):
				app.notFoundMessageResponse(w, r, "Author not found")
			default:
				app.serverErrorResponse(w, r, err)
			}
			return
		}
	}

	// A supplied publisher reference must resolve.
	if input.PublisherID != nil {
		_, err = app.models.Publishers.Get(*input.PublisherID)
		if err != nil {
			switch {
			case errors.Is(err, data.ErrRecordNotFound):
				app.notFoundMessageResponse(w, r, "Publisher not found")
			default:
				app.serverErrorResponse(w, r, err)
			}
			return
		}
	}

	// Apply only the fields that were actually provided in the request body.
	if input.Title != nil {
		book.Title = *input.Title
	}
	if input.AuthorID != nil {
		book.AuthorID = *input.AuthorID
	}
	if input.Price != nil {
		book.Price = *input.Price
	}
	if input.ISBN != nil {
		book.ISBN = *input.ISBN
	}
	if input.Language != nil {
		book.Language = *input.Language
	}
	if input.Pages != nil {
		book.Pages = *input.Pages
	}
	if input.PublisherID != nil {
		book.PublisherID = *input.PublisherID
	}

	err = app.models.Books.Update(book)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrDuplicateISBN):
			app.conflictResponse(w, r, "Book already exists")
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundMessageResponse(w, r, "Book not found")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	// The update response is the bare record; the expansion from the
	// earlier Get may no longer match the (possibly reassigned) references.
	book.Author = nil
	book.Publisher = nil

	err = app.writeJSON(w, http.StatusOK, envelope{"book": book}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// deleteBookHandler handles DELETE /v1/books/:id.
// Book deletion is unconditional; nothing references a book.
// On success the removed record is echoed back.
func (app *applicationDependencies) deleteBookHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	book, err := app.models.Books.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundMessageResponse(w, r, "Book not found")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.models.Books.Delete(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundMessageResponse(w, r, "Book not found")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	book.Author = nil
	book.Publisher = nil

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "Deleted successfully", "data": book}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// listBooksHandler handles GET /v1/books.
// Supported query parameters: title, language (case-insensitive
// substring filters), authorId, publisherId (exact match), page, limit,
// sortBy, sortOrder. Results carry their author and publisher expanded.
func (app *applicationDependencies) listBooksHandler(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	v := validator.New()

	filters := data.BookFilters{
		Title:       app.readString(qs, "title", ""),
		Language:    app.readString(qs, "language", ""),
		AuthorID:    app.readString(qs, "authorId", ""),
		PublisherID: app.readString(qs, "publisherId", ""),
	}
	page := app.readFilters(qs, v, data.BookSortSafeList)
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	books, metadata, err := app.models.Books.GetAll(filters, page)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{
		"books":       books,
		"totalBooks":  metadata.TotalRecords,
		"currentPage": metadata.CurrentPage,
		"totalPages":  metadata.TotalPages,
	}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
