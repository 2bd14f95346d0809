// internal/data/filters.go
package data

import (
	"math"

	"github.com/aoideee/library-catalog-api/internal/validator"
)

// Filters holds the pagination and sorting parameters shared by every
// list endpoint. SortBy carries the JSON field name supplied by the
// client; each store maps it onto its own column or struct field.
type Filters struct {
	Page         int      // Current page number (1-indexed, default 1)
	Limit        int      // Number of records per page (default 10)
	SortBy       string   // JSON field name to sort by; empty means insertion order
	SortOrder    string   // "asc" (default) or "desc"
	SortSafeList []string // Allowed SortBy values for this entity
}

// ValidateFilters checks the pagination and sorting parameters,
// recording any problems on v. Unknown sort fields are rejected here
// rather than being passed through to the storage layer.
func ValidateFilters(v *validator.Validator, f Filters) {
	v.Check(f.Page > 0, "page", "must be greater than zero")
	v.Check(f.Page <= 10_000_000, "page", "must be a maximum of 10 million")
	v.Check(f.Limit > 0, "limit", "must be greater than zero")
	v.Check(f.Limit <= 100, "limit", "must be a maximum of 100")
	if f.SortBy != "" {
		v.Check(validator.In(f.SortBy, f.SortSafeList...), "sortBy", "invalid sort field")
	}
	v.Check(validator.In(f.SortOrder, "asc", "desc"), "sortOrder", "must be asc or desc")
}

// descending reports whether the results should be sorted in
// descending order.
func (f Filters) descending() bool { return f.SortOrder == "desc" }

// limit returns the page size.
func (f Filters) limit() int { return f.Limit }

// offset returns the number of records to skip, derived from Page and Limit.
func (f Filters) offset() int { return (f.Page - 1) * f.Limit }

// Metadata contains pagination information returned alongside list results.
type Metadata struct {
	CurrentPage  int `json:"currentPage"`
	TotalPages   int `json:"totalPages"`
	TotalRecords int `json:"totalRecords"`
}

// calculateMetadata computes page metadata from the total record count of
// the filtered set. The count reflects the whole filtered set, not the
// returned page, so an out-of-range page still reports the real totals.
func calculateMetadata(totalRecords, page, limit int) Metadata {
	return Metadata{
		CurrentPage:  page,
		TotalPages:   int(math.Ceil(float64(totalRecords) / float64(limit))),
		TotalRecords: totalRecords,
	}
}
