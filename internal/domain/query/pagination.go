// Package query holds shared query options passed from handlers to
// repositories.
package query

// Pagination carries limit/offset or cursor options. A nil field means the
// caller did not ask for it; repositories apply their own defaults. Order is
// the cursor direction token, "asc" or "desc": a descending walk pages
// toward older rows, so After bounds from above.
type Pagination struct {
	Limit  *int
	Offset *int
	Order  string
	After  *uint
}

// LimitOr returns the requested limit or fallback when unset.
func (p *Pagination) LimitOr(fallback int) int {
	if p == nil || p.Limit == nil {
		return fallback
	}
	return *p.Limit
}

// OrderOr returns the requested sort order or fallback when unset.
func (p *Pagination) OrderOr(fallback string) string {
	if p == nil || p.Order == "" {
		return fallback
	}
	return p.Order
}
