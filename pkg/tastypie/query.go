package tastypie

import (
	"net/url"
	"strconv"
	"strings"
)

// QueryParams represents the query parameters tastypie list endpoints
// understand. Filters use Django field lookups, e.g. "title__icontains".
type QueryParams struct {
	Limit   int
	Offset  int
	OrderBy string
	Format  string
	Filters map[string][]string
}

// NewQueryParams creates a new QueryParams instance.
func NewQueryParams() *QueryParams {
	return &QueryParams{
		Filters: make(map[string][]string),
	}
}

// WithLimit sets the page size.
func (q *QueryParams) WithLimit(limit int) *QueryParams {
	q.Limit = limit

	return q
}

// WithOffset sets the list offset.
func (q *QueryParams) WithOffset(offset int) *QueryParams {
	q.Offset = offset

	return q
}

// WithOrderBy sets the ordering field. Prefix with "-" for descending.
func (q *QueryParams) WithOrderBy(orderBy string) *QueryParams {
	q.OrderBy = orderBy

	return q
}

// WithFormat sets the response format, e.g. "json".
func (q *QueryParams) WithFormat(format string) *QueryParams {
	q.Format = format

	return q
}

// WithFilter appends values to a field lookup filter.
func (q *QueryParams) WithFilter(field string, values ...string) *QueryParams {
	if q.Filters == nil {
		q.Filters = make(map[string][]string)
	}

	q.Filters[field] = append(q.Filters[field], values...)

	return q
}

// ToValues converts the params to url.Values. Multi-valued filters are
// comma-joined, the form Django's __in lookups accept.
func (q *QueryParams) ToValues() url.Values {
	values := url.Values{}

	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}

	if q.Offset > 0 {
		values.Set("offset", strconv.Itoa(q.Offset))
	}

	if q.OrderBy != "" {
		values.Set("order_by", q.OrderBy)
	}

	if q.Format != "" {
		values.Set("format", q.Format)
	}

	for field, filterValues := range q.Filters {
		if len(filterValues) > 0 {
			values.Set(field, strings.Join(filterValues, ","))
		}
	}

	return values
}
