// cmd/api/publishers_test.go
package main

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aoideee/library-catalog-api/internal/data"
)

type publisherEnvelope struct {
	Publisher data.Publisher `json:"publisher"`
}

type publisherListEnvelope struct {
	Publishers      []data.Publisher `json:"publishers"`
	TotalPublishers int              `json:"totalPublishers"`
	CurrentPage     int              `json:"currentPage"`
	TotalPages      int              `json:"totalPages"`
}

func TestCreatePublisherRoundTrip(t *testing.T) {
	ts := newTestServer(t)

	created := ts.mustCreatePublisher(t, "Faber & Faber", "+44-20-7465", "faber@example.com")
	assert.Equal(t, "Faber & Faber", created.Name)
	assert.Equal(t, "+44-20-7465", created.Phone)
	assert.Equal(t, "faber@example.com", created.Email)

	var got publisherEnvelope
	status := ts.doJSON(t, http.MethodGet, "/v1/publishers/"+created.ID, nil, &got)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, created.ID, got.Publisher.ID)
	assert.Equal(t, created.Name, got.Publisher.Name)
}

func TestCreatePublisherValidation(t *testing.T) {
	ts := newTestServer(t)

	var errBody errorBody
	status := ts.doJSON(t, http.MethodPost, "/v1/publishers", map[string]any{
		"name":  "No Contact Details",
		"email": "broken",
	}, &errBody)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, http.StatusBadRequest, errBody.Status)
}

func TestCreatePublisherDuplicateEmail(t *testing.T) {
	ts := newTestServer(t)

	ts.mustCreatePublisher(t, "Original House", "+1-212-1000", "house@example.com")

	var errBody errorBody
	status := ts.doJSON(t, http.MethodPost, "/v1/publishers", map[string]any{
		"name":    "Copycat House",
		"phone":   "+1-212-2000",
		"address": "2 Different Street",
		"email":   "house@example.com",
	}, &errBody)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Publisher already exists", errBody.messageString(t))
}

func TestCreatePublisherDuplicatePhone(t *testing.T) {
	ts := newTestServer(t)

	ts.mustCreatePublisher(t, "First Line", "+1-212-3000", "firstline@example.com")

	var errBody errorBody
	status := ts.doJSON(t, http.MethodPost, "/v1/publishers", map[string]any{
		"name":    "Second Line",
		"phone":   "+1-212-3000",
		"address": "3 Shared Exchange",
		"email":   "secondline@example.com",
	}, &errBody)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Phone already taken", errBody.messageString(t))
}

func TestShowPublisherNotFound(t *testing.T) {
	ts := newTestServer(t)

	var errBody errorBody
	status := ts.doJSON(t, http.MethodGet, "/v1/publishers/no-such-id", nil, &errBody)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Publisher not found", errBody.messageString(t))
}

func TestUpdatePublisherPartial(t *testing.T) {
	ts := newTestServer(t)

	created := ts.mustCreatePublisher(t, "Movable Press", "+49-30-4000", "movable@example.com")

	var got publisherEnvelope
	status := ts.doJSON(t, http.MethodPatch, "/v1/publishers/"+created.ID, map[string]any{
		"address": "99 New Quarter",
	}, &got)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "99 New Quarter", got.Publisher.Address)
	assert.Equal(t, "Movable Press", got.Publisher.Name)
	assert.Equal(t, "movable@example.com", got.Publisher.Email)
}

func TestUpdatePublisherContactConflicts(t *testing.T) {
	ts := newTestServer(t)

	first := ts.mustCreatePublisher(t, "Holder House", "+31-20-5000", "holder@example.com")
	second := ts.mustCreatePublisher(t, "Claimant House", "+31-20-6000", "claimant@example.com")

	// Another publisher's email is rejected, and when both contact
	// fields collide the email conflict is the one reported.
	var errBody errorBody
	status := ts.doJSON(t, http.MethodPatch, "/v1/publishers/"+second.ID, map[string]any{
		"email": first.Email,
		"phone": first.Phone,
	}, &errBody)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Email already taken", errBody.messageString(t))

	// A lone phone collision reports the phone.
	status = ts.doJSON(t, http.MethodPatch, "/v1/publishers/"+second.ID, map[string]any{
		"phone": first.Phone,
	}, &errBody)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Phone already taken", errBody.messageString(t))

	// Re-submitting the publisher's own contact details is fine.
	var got publisherEnvelope
	status = ts.doJSON(t, http.MethodPatch, "/v1/publishers/"+second.ID, map[string]any{
		"email": second.Email,
		"phone": second.Phone,
	}, &got)
	assert.Equal(t, http.StatusOK, status)
}

func TestDeletePublisherGuardedByBooks(t *testing.T) {
	ts := newTestServer(t)

	author := ts.mustCreateAuthor(t, "Guarding Author", "Portugal", "guarding@example.com")
	publisher := ts.mustCreatePublisher(t, "Guarded House", "+351-21-7000", "guarded@example.com")
	book := ts.mustCreateBook(t, "Guard Book", "978-1010101010", author.ID, publisher.ID)

	var errBody errorBody
	status := ts.doJSON(t, http.MethodDelete, "/v1/publishers/"+publisher.ID, nil, &errBody)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Publisher has books, cannot delete", errBody.messageString(t))

	status = ts.doJSON(t, http.MethodDelete, "/v1/books/"+book.ID, nil, nil)
	require.Equal(t, http.StatusOK, status)

	var deleted struct {
		Message string         `json:"message"`
		Data    data.Publisher `json:"data"`
	}
	status = ts.doJSON(t, http.MethodDelete, "/v1/publishers/"+publisher.ID, nil, &deleted)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Deleted successfully", deleted.Message)
	assert.Equal(t, publisher.ID, deleted.Data.ID)
}

func TestListPublishersFilteringAndPaging(t *testing.T) {
	ts := newTestServer(t)

	ts.mustCreatePublisher(t, "North Press", "+46-8-1001", "north@example.com")
	ts.mustCreatePublisher(t, "South Press", "+46-8-1002", "south@example.com")
	ts.mustCreatePublisher(t, "Eastern Books", "+46-8-1003", "eastern@example.com")

	// Substring filter on name.
	var got publisherListEnvelope
	status := ts.doJSON(t, http.MethodGet, "/v1/publishers?name=press", nil, &got)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2, got.TotalPublishers)
	require.Len(t, got.Publishers, 2)

	// Pagination metadata over the filtered set.
	status = ts.doJSON(t, http.MethodGet, "/v1/publishers?name=press&limit=1&page=2&sortBy=name", nil, &got)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2, got.TotalPublishers)
	assert.Equal(t, 2, got.CurrentPage)
	assert.Equal(t, 2, got.TotalPages)
	require.Len(t, got.Publishers, 1)
	assert.Equal(t, "South Press", got.Publishers[0].Name)
}
