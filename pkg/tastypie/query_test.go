package tastypie_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fivetwenty-io/restkit/pkg/tastypie"
)

func TestQueryParams_ToValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		params   *tastypie.QueryParams
		expected url.Values
	}{
		{
			name:     "empty params",
			params:   tastypie.NewQueryParams(),
			expected: url.Values{},
		},
		{
			name: "with pagination",
			params: &tastypie.QueryParams{
				Limit:  20,
				Offset: 40,
			},
			expected: url.Values{
				"limit":  []string{"20"},
				"offset": []string{"40"},
			},
		},
		{
			name: "with ordering",
			params: &tastypie.QueryParams{
				OrderBy: "-created_at",
			},
			expected: url.Values{
				"order_by": []string{"-created_at"},
			},
		},
		{
			name: "with format",
			params: &tastypie.QueryParams{
				Format: "json",
			},
			expected: url.Values{
				"format": []string{"json"},
			},
		},
		{
			name: "with field lookups",
			params: &tastypie.QueryParams{
				Filters: map[string][]string{
					"title__icontains": {"beach"},
					"id__in":           {"1", "3", "5"},
				},
			},
			expected: url.Values{
				"title__icontains": []string{"beach"},
				"id__in":           []string{"1,3,5"},
			},
		},
		{
			name: "with all options",
			params: &tastypie.QueryParams{
				Limit:   10,
				Offset:  20,
				OrderBy: "title",
				Format:  "json",
				Filters: map[string][]string{
					"user__username": {"admin"},
				},
			},
			expected: url.Values{
				"limit":          []string{"10"},
				"offset":         []string{"20"},
				"order_by":       []string{"title"},
				"format":         []string{"json"},
				"user__username": []string{"admin"},
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := tt.params.ToValues()
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestQueryParams_Builders(t *testing.T) {
	t.Parallel()
	t.Run("chaining methods", func(t *testing.T) {
		t.Parallel()

		params := tastypie.NewQueryParams().
			WithLimit(50).
			WithOffset(100).
			WithOrderBy("-updated_at").
			WithFormat("json").
			WithFilter("state", "published").
			WithFilter("id__in", "1", "2")

		values := params.ToValues()

		assert.Equal(t, "50", values.Get("limit"))
		assert.Equal(t, "100", values.Get("offset"))
		assert.Equal(t, "-updated_at", values.Get("order_by"))
		assert.Equal(t, "json", values.Get("format"))
		assert.Equal(t, "published", values.Get("state"))
		assert.Equal(t, "1,2", values.Get("id__in"))
	})

	t.Run("WithFilter appends", func(t *testing.T) {
		t.Parallel()

		params := tastypie.NewQueryParams().
			WithFilter("id__in", "1").
			WithFilter("id__in", "2", "3")

		assert.Equal(t, []string{"1", "2", "3"}, params.Filters["id__in"])
	})
}

func TestNewQueryParams(t *testing.T) {
	t.Parallel()

	params := tastypie.NewQueryParams()

	assert.NotNil(t, params)
	assert.NotNil(t, params.Filters)
	assert.Equal(t, 0, params.Limit)
	assert.Equal(t, 0, params.Offset)
	assert.Empty(t, params.OrderBy)
}
