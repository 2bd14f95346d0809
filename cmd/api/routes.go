// cmd/api/routes.go
package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// routes registers all HTTP endpoints and returns the configured router wrapped
// in the recoverPanic and rateLimit middlewares.
//
// Middleware chain (outermost → innermost):
//
//	recoverPanic → rateLimit → router
//
// Current endpoints:
//
//	GET    /v1/healthcheck       - service status
//
//	POST   /v1/authors           - create a new author
//	GET    /v1/authors           - list authors (filter/sort/paginate)
//	GET    /v1/authors/:id       - retrieve a single author by ID
//	PATCH  /v1/authors/:id       - partially update an existing author
//	DELETE /v1/authors/:id       - delete an author (blocked while books reference it)
//
//	POST   /v1/books             - create a new book
//	GET    /v1/books             - list books (filter/sort/paginate, expanded)
//	GET    /v1/books/:id         - retrieve a single book by ID (expanded)
//	PATCH  /v1/books/:id         - partially update an existing book
//	DELETE /v1/books/:id         - delete a book
//
//	POST   /v1/publishers        - create a new publisher
//	GET    /v1/publishers        - list publishers (filter/sort/paginate)
//	GET    /v1/publishers/:id    - retrieve a single publisher by ID
//	PATCH  /v1/publishers/:id    - partially update an existing publisher
//	DELETE /v1/publishers/:id    - delete a publisher (blocked while books reference it)
func (app *applicationDependencies) routes() http.Handler {
	router := httprouter.New()

	// Override the default httprouter error handlers to return JSON responses.
	router.NotFound = http.HandlerFunc(app.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedResponse)

	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", app.healthcheckHandler)

	// Author CRUD routes
	router.HandlerFunc(http.MethodPost, "/v1/authors", app.createAuthorHandler)
	router.HandlerFunc(http.MethodGet, "/v1/authors", app.listAuthorsHandler)
	router.HandlerFunc(http.MethodGet, "/v1/authors/:id", app.showAuthorHandler)
	router.HandlerFunc(http.MethodPatch, "/v1/authors/:id", app.updateAuthorHandler)
	router.HandlerFunc(http.MethodDelete, "/v1/authors/:id", app.deleteAuthorHandler)

	// Book CRUD routes
	router.HandlerFunc(http.MethodPost, "/v1/books", app.createBookHandler)
	router.HandlerFunc(http.MethodGet, "/v1/books", app.listBooksHandler)
	router.HandlerFunc(http.MethodGet, "/v1/books/:id", app.showBookHandler)
	router.HandlerFunc(http.MethodPatch, "/v1/books/:id", app.updateBookHandler)
	router.HandlerFunc(http.MethodDelete, "/v1/books/:id", app.deleteBookHandler)

	// Publisher CRUD routes
	router.HandlerFunc(http.MethodPost, "/v1/publishers", app.createPublisherHandler)
	router.HandlerFunc(http.MethodGet, "/v1/publishers", app.listPublishersHandler)
	router.HandlerFunc(http.MethodGet, "/v1/publishers/:id", app.showPublisherHandler)
	router.HandlerFunc(http.MethodPatch, "/v1/publishers/:id", app.updatePublisherHandler)
	router.HandlerFunc(http.MethodDelete, "/v1/publishers/:id", app.deletePublisherHandler)

	// Wrap with middleware: recoverPanic is outermost so it catches panics
	// from rateLimit and router alike.
	return app.recoverPanic(app.rateLimit(router))
}
