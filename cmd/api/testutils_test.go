// cmd/api/testutils_test.go
// Shared scaffolding for the handler tests. Each test gets a fresh
// application wired to the in-memory models and served via httptest.
package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aoideee/library-catalog-api/internal/data"
)

// errorBody matches the uniform error wire shape. Message is raw JSON
// because validation failures carry a map instead of a string.
type errorBody struct {
	Message json.RawMessage `json:"message"`
	Status  int             `json:"status"`
}

// messageString decodes the message field as a plain string, failing
// the test if it is a map.
func (e errorBody) messageString(t *testing.T) string {
	t.Helper()
	var s string
	require.NoError(t, json.Unmarshal(e.Message, &s))
	return s
}

type testServer struct {
	*httptest.Server
}

// newTestServer builds an application backed by the in-memory models,
// with the rate limiter disabled so bursty tests are not throttled, and
// serves its full route tree.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	var cfg serverConfig
	cfg.environment = "test"
	cfg.limiter.enabled = false

	app := &applicationDependencies{
		config: cfg,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		models: data.NewMemoryModels(),
	}

	ts := httptest.NewServer(app.routes())
	t.Cleanup(ts.Close)

	return &testServer{ts}
}

// doJSON performs a request with an optional JSON body, decodes the
// response into dst when dst is non-nil, and returns the status code.
func (ts *testServer) doJSON(t *testing.T, method, urlPath string, body any, dst any) int {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		js, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(js)
	}

	req, err := http.NewRequest(method, ts.URL+urlPath, reqBody)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	if dst != nil {
		require.NoError(t, json.NewDecoder(res.Body).Decode(dst))
	}

	return res.StatusCode
}

// mustCreateAuthor creates an author through the API and returns it.
func (ts *testServer) mustCreateAuthor(t *testing.T, name, country, email string) data.Author {
	t.Helper()

	var got struct {
		Author data.Author `json:"author"`
	}
	status := ts.doJSON(t, http.MethodPost, "/v1/authors", map[string]any{
		"name":      name,
		"country":   country,
		"birthDate": "1960-05-01T00:00:00Z",
		"email":     email,
	}, &got)
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, got.Author.ID)

	return got.Author
}

// mustCreatePublisher creates a publisher through the API and returns it.
func (ts *testServer) mustCreatePublisher(t *testing.T, name, phone, email string) data.Publisher {
	t.Helper()

	var got struct {
		Publisher data.Publisher `json:"publisher"`
	}
	status := ts.doJSON(t, http.MethodPost, "/v1/publishers", map[string]any{
		"name":    name,
		"phone":   phone,
		"address": "1 Printing House Square",
		"email":   email,
	}, &got)
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, got.Publisher.ID)

	return got.Publisher
}

// mustCreateBook creates a book through the API and returns it.
func (ts *testServer) mustCreateBook(t *testing.T, title, isbn, authorID, publisherID string) data.Book {
	t.Helper()

	var got struct {
		Book data.Book `json:"book"`
	}
	status := ts.doJSON(t, http.MethodPost, "/v1/books", map[string]any{
		"title":       title,
		"authorId":    authorID,
		"price":       19.99,
		"isbn":        isbn,
		"language":    "English",
		"pages":       320,
		"publisherId": publisherID,
	}, &got)
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, got.Book.ID)

	return got.Book
}
