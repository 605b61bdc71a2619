// Package pagination defines the cursor paging convention shared by member,
// content and comment listings.
//
// Rows are keyed by time-ordered ids (see pkg/id), so a page boundary is a
// plain id comparison: desc pages filter id < cursor, asc pages filter
// id > cursor. The cursor of a response is the id of its last item.
package pagination

import "net/url"

// Order is the listing direction.
type Order string

const (
	// OrderAsc returns oldest items first.
	OrderAsc Order = "asc"
	// OrderDesc returns newest items first.
	OrderDesc Order = "desc"
)

const (
	// DefaultLimit is used when the caller does not specify a limit.
	DefaultLimit = 20
	// MaxLimit caps the page size.
	MaxLimit = 100
)

// Params carries the paging inputs of a listing call.
type Params struct {
	Limit  int
	Order  Order
	Cursor string
}

// FromQuery parses paging params from a URL query, applying defaults and
// clamping the limit.
func FromQuery(q url.Values) Params {
	p := Params{
		Limit:  DefaultLimit,
		Order:  OrderDesc,
		Cursor: q.Get("cursor"),
	}
	if q.Get("order") == string(OrderAsc) {
		p.Order = OrderAsc
	}
	if raw := q.Get("limit"); raw != "" {
		limit := 0
		for _, c := range raw {
			if c < '0' || c > '9' {
				limit = 0
				break
			}
			limit = limit*10 + int(c-'0')
			if limit > MaxLimit {
				break
			}
		}
		if limit > 0 {
			p.Limit = limit
		}
	}
	return p.Normalize()
}

// Normalize returns p with the limit clamped to [1, MaxLimit] and the order
// defaulted to desc.
func (p Params) Normalize() Params {
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Order != OrderAsc {
		p.Order = OrderDesc
	}
	return p
}

// Comparator returns the SQL comparison operator matching the order, for use
// in an id-cursor filter.
func (p Params) Comparator() string {
	if p.Order == OrderAsc {
		return ">"
	}
	return "<"
}

// SortDirection returns the SQL sort keyword matching the order.
func (p Params) SortDirection() string {
	if p.Order == OrderAsc {
		return "ASC"
	}
	return "DESC"
}

// Page describes the paging outcome of a listing call.
type Page struct {
	NextCursor string
	HasMore    bool
}

// PageOf builds the Page for a result slice of ids. A short page (fewer ids
// than the limit) signals exhaustion; NextCursor is still set so callers can
// page defensively.
func PageOf(ids []string, limit int) Page {
	page := Page{HasMore: len(ids) >= limit}
	if len(ids) > 0 {
		page.NextCursor = ids[len(ids)-1]
	}
	return page
}
