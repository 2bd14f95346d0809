// cmd/api/publishers.go
// This file contains all HTTP request handlers for the publishers resource.
package main

import (
	"errors"
	"net/http"

	"github.com/aoideee/library-catalog-api/internal/data"
	"github.com/aoideee/library-catalog-api/internal/validator"
)

// createPublisherHandler handles POST /v1/publishers.
// All four fields are required and the email must look like an email.
// Creating a publisher whose email or phone is already taken is a conflict.
func (app *applicationDependencies) createPublisherHandler(w http.ResponseWriter, r *http.Request) {
	var input data.CreatePublisherInput

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	data.ValidateCreatePublisher(v, input)
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	// Fast-path uniqueness check on the email.
	_, err = app.models.Publishers.GetByEmail(input.Email)
	switch {
	case err == nil:
		app.conflictResponse(w, r, "Publisher already exists")
		return
	case errors.Is(err, data.ErrRecordNotFound):
		// Email is free, carry on.
	default:
		app.serverErrorResponse(w, r, err)
		return
	}

	publisher := &data.Publisher{
		Name:    input.Name,
		Phone:   input.Phone,
		Address: input.Address,
		Email:   input.Email,
	}

	err = app.models.Publishers.Insert(publisher)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrDuplicateEmail):
			app.conflictResponse(w, r, "Publisher already exists")
		case errors.Is(err, data.ErrDuplicatePhone):
			app.conflictResponse(w, r, "Phone already taken")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"publisher": publisher}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// showPublisherHandler handles GET /v1/publishers/:id.
func (app *applicationDependencies) showPublisherHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	publisher, err := app.models.Publishers.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundMessageResponse(w, r, "Publisher not found")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"publisher": publisher}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// updatePublisherHandler handles PATCH /v1/publishers/:id.
// Partial update. A supplied email is checked against other publishers
// first; the phone check runs only once the email check has passed.
func (app *applicationDependencies) updatePublisherHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	publisher, err := app.models.Publishers.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundMessageResponse(w, r, "Publisher not found")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	var input data.UpdatePublisherInput
	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	data.ValidateUpdatePublisher(v, input)
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	// If a new email was supplied, make sure a different publisher does
	// not already hold it.
	if input.Email != nil {
		existing, err := app.models.Publishers.GetByEmail(*input.Email)
		switch {
		case err == nil && existing.ID != publisher.ID:
			app.conflictResponse(w, r, "Email already taken")
			return
		case err != nil && !errors.Is(err, data.ErrRecordNotFound):
			app.serverErrorResponse(w, r, err)
			return
		}
	}

	// Same for a supplied phone, after the email check has passed.
	if input.Phone != nil {
		existing, err := app.models.Publishers.GetByPhone(*input.Phone)
		switch {
		case err == nil && existing.ID != publisher.ID:
			app.conflictResponse(w, r, "Phone already taken")
			return
		case err != nil && !errors.Is(err, data.ErrRecordNotFound):
			app.serverErrorResponse(w, r, err)
			return
		}
	}

	// Apply only the fields that were actually provided in the request body.
	if input.Name != nil {
		publisher.Name = *input.Name
	}
	if input.Phone != nil {
		publisher.Phone = *input.Phone
	}
	if input.Address != nil {
		publisher.Address = *input.Address
	}
	if input.Email != nil {
		publisher.Email = *input.Email
	}

	err = app.models.Publishers.Update(publisher)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrDuplicateEmail):
			app.conflictResponse(w, r, "Email already taken")
		case errors.Is(err, data.ErrDuplicatePhone):
			app.conflictResponse(w, r, "Phone already taken")
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundMessageResponse(w, r, "Publisher not found")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"publisher": publisher}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// deletePublisherHandler handles DELETE /v1/publishers/:id.
// A publisher that still has books referencing it cannot be deleted.
// On success the removed record is echoed back.
func (app *applicationDependencies) deletePublisherHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	publisher, err := app.models.Publishers.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundMessageResponse(w, r, "Publisher not found")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	// Referential-integrity guard: block the delete while any book still
	// references this publisher.
	hasBooks, err := app.models.Books.ExistsForPublisher(id)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	if hasBooks {
		app.conflictResponse(w, r, "Publisher has books, cannot delete")
		return
	}

	err = app.models.Publishers.Delete(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.notFoundMessageResponse(w, r, "Publisher not found")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "Deleted successfully", "data": publisher}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// listPublishersHandler handles GET /v1/publishers.
// Supported query parameters: name, address, email (case-insensitive
// substring filters, AND-combined), page, limit, sortBy, sortOrder.
func (app *applicationDependencies) listPublishersHandler(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	v := validator.New()

	filters := data.PublisherFilters{
		Name:    app.readString(qs, "name", ""),
		Address: app.readString(qs, "address", ""),
		Email:   app.readString(qs, "email", ""),
	}
	page := app.readFilters(qs, v, data.PublisherSortSafeList)
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	publishers, metadata, err := app.models.Publishers.GetAll(filters, page)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{
		"publishers":      publishers,
		"totalPublishers": metadata.TotalRecords,
		"currentPage":     metadata.CurrentPage,
		"totalPages":      metadata.TotalPages,
	}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
