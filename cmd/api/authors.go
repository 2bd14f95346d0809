// cmd/api/authors.go
// This file contains all HTTP request handlers for the authors resource.
// Each handler follows the same sequence: validate the input, look up
// related records, mutate, respond.
package main

import (
	"errors"
	"net/http"

	"github.com/aoideee/library-catalog-api/internal/data"
	"github.com/aoideee/library-catalog-api/internal/validator"
)

// createAuthorHandler handles POST /v1/authors.
// All four fields are required and the email must look like an email.
// Creating an author whose email is already taken is a conflict.
func (app *applicationDependencies) createAuthorHandler(w http.ResponseWriter, r *http.Request) {
	var input data.CreateAuthorInput

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	data.ValidateCreateAuthor(v, input)
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	// Fast-path uniqueness check. The unique index in the storage layer
	// is the real guarantee; this just produces a friendlier error.
	_, err = app.models.Authors.GetByEmail(input.Email)
	switch {
	case err == nil:
		app.conflictResponse(w, r, "Author already exists")
		return
	case errors.Is(err, data.ErrRecordNotFound):
		// Email is free, carry on.
	default:
		app.serverErrorResponse(w, r, err)
		return
	}

	author := &data.Author{
		Name:      input.Name,
		Country:   input.Country,
		BirthDate: input.BirthDate,
		Email:     input.Email,
	}

	err = app.models.Authors.Insert(author)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrDuplicateEmail):
			app.conflictResponse(w, r, "Author already exists")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"author": author}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// showAuthorHandler handles GET /v1/authors/:id.
func (app *applicationDependencies) showAuthorHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	author, err := app.models.Authors.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundMessageResponse(w, r, "Author not found")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"author": author}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// updateAuthorHandler handles PATCH /v1/authors/:id.
// The body is a partial update: absent fields keep their prior value,
// present fields (including explicit empty values) are validated and
// applied. Changing the email to one held by a different author is a
// conflict; re-submitting the author's own email is not.
func (app *applicationDependencies) updateAuthorHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	author, err := app.models.Authors.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundMessageResponse(w, r, "Author not found")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	var input data.UpdateAuthorInput
	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	data.ValidateUpdateAuthor(v, input)
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	// If a new email was supplied, make sure a different author does not
	// already hold it.
	if input.Email != nil {
		existing, err := app.models.Authors.GetByEmail(*input.Email)
		switch {
		case err == nil && existing.ID != author.ID:
			app.conflictResponse(w, r, "Email already taken")
			return
		case err != nil && !errors.Is(err, data.ErrRecordNotFound):
			app.serverErrorResponse(w, r, err)
			return
		}
	}

	// Apply only the fields that were actually provided in the request body.
	if input.Name != nil {
		author.Name = *input.Name
	}
	if input.Country != nil {
		author.Country = *input.Country
	}
	if input.BirthDate != nil {
		author.BirthDate = *input.BirthDate
	}
	if input.Email != nil {
		author.Email = *input.Email
	}

	err = app.models.Authors.Update(author)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrDuplicateEmail):
			app.conflictResponse(w, r, "Email already taken")
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundMessageResponse(w, r, "Author not found")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"author": author}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// deleteAuthorHandler handles DELETE /v1/authors/:id.
// An author that still has books referencing it cannot be deleted.
// On success the removed record is echoed back.
func (app *applicationDependencies) deleteAuthorHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	author, err := app.models.Authors.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundMessageResponse(w, r, "Author not found")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	// Referential-integrity guard: block the delete while any book still
	// references this author.
	hasBooks, err := app.models.Books.ExistsForAuthor(id)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	if hasBooks {
		app.conflictResponse(w, r, "Author has books")
		return
	}

	err = app.models.Authors.Delete(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundMessageResponse(w, r, "Author not found")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "Deleted successfully", "data": author}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// listAuthorsHandler handles GET /v1/authors.
// Supported query parameters: name, country, email (case-insensitive
// substring filters, AND-combined), page, limit, sortBy, sortOrder.
// An empty page is a normal 200 response with an empty collection.
func (app *applicationDependencies) listAuthorsHandler(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	v := validator.New()

	filters := data.AuthorFilters{
		Name:    app.readString(qs, "name", ""),
		Country: app.readString(qs, "country", ""),
		Email:   app.readString(qs, "email", ""),
	}
	page := app.readFilters(qs, v, data.AuthorSortSafeList)
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	authors, metadata, err := app.models.Authors.GetAll(filters, page)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{
		"authors":      authors,
		"totalAuthors": metadata.TotalRecords,
		"currentPage":  metadata.CurrentPage,
		"totalPages":   metadata.TotalPages,
	}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
