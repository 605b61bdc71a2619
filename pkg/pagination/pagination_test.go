package pagination

import (
	"fmt"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  Params
	}{
		{"defaults", "", Params{Limit: DefaultLimit, Order: OrderDesc}},
		{"explicit limit", "limit=50", Params{Limit: 50, Order: OrderDesc}},
		{"limit clamped to max", "limit=500", Params{Limit: MaxLimit, Order: OrderDesc}},
		{"zero limit falls back", "limit=0", Params{Limit: DefaultLimit, Order: OrderDesc}},
		{"garbage limit falls back", "limit=abc", Params{Limit: DefaultLimit, Order: OrderDesc}},
		{"asc order", "order=asc", Params{Limit: DefaultLimit, Order: OrderAsc}},
		{"unknown order falls back to desc", "order=sideways", Params{Limit: DefaultLimit, Order: OrderDesc}},
		{"cursor passthrough", "cursor=abc123", Params{Limit: DefaultLimit, Order: OrderDesc, Cursor: "abc123"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, FromQuery(q))
		})
	}
}

func TestComparator(t *testing.T) {
	assert.Equal(t, ">", Params{Order: OrderAsc}.Comparator())
	assert.Equal(t, "<", Params{Order: OrderDesc}.Comparator())
	assert.Equal(t, "ASC", Params{Order: OrderAsc}.SortDirection())
	assert.Equal(t, "DESC", Params{Order: OrderDesc}.SortDirection())
}

func TestPageOf(t *testing.T) {
	ids := make([]string, 25)
	for i := range ids {
		ids[i] = fmt.Sprintf("id%02d", i)
	}

	t.Run("full page has more", func(t *testing.T) {
		page := PageOf(ids[:20], 20)
		assert.True(t, page.HasMore)
		assert.Equal(t, "id19", page.NextCursor)
	})

	t.Run("short page is exhausted", func(t *testing.T) {
		page := PageOf(ids[20:], 20)
		assert.False(t, page.HasMore)
		assert.Equal(t, "id24", page.NextCursor)
	})

	t.Run("empty page", func(t *testing.T) {
		page := PageOf(nil, 20)
		assert.False(t, page.HasMore)
		assert.Empty(t, page.NextCursor)
	})
}
