// Package pagination parses limit/offset query parameters.
package pagination

import (
	"fmt"
	"net/http"
	"strconv"

	"twilio-gateway/internal/common/errors"
)

// Params represents pagination parameters
type Params struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// DefaultLimit is the page size used when none is given
const DefaultLimit = 50

// MaxLimit is the largest page a client may request
const MaxLimit = 200

// ParseParams reads limit and offset from the query string. Out-of-range
// values are validation errors.
func ParseParams(r *http.Request) (Params, error) {
	p := Params{Limit: DefaultLimit}
	q := r.URL.Query()

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > MaxLimit {
			return Params{}, errors.ValidationError(fmt.Sprintf("limit must be between 1 and %d", MaxLimit))
		}
		p.Limit = n
	}

	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Params{}, errors.ValidationError("offset must be a non-negative number")
		}
		p.Offset = n
	}

	return p, nil
}

// TotalPages calculates the total number of pages
func TotalPages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := (total + limit - 1) / limit
	if pages < 1 {
		return 1
	}
	return pages
}
