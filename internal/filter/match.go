package filter

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"apartment-search/internal/model"
)

// Match evaluates the plan's clauses against one record with the same
// semantics the rendered SQL has. NULL columns never match.
func (p Plan) Match(l *model.Listing) bool {
	for _, cl := range p.Clauses {
		if !cl.match(l) {
			return false
		}
	}
	return true
}

func (cl Clause) match(l *model.Listing) bool {
	switch cl.Kind {
	case Contains:
		needle := strings.ToLower(cl.Value)
		for _, col := range cl.Columns {
			if v := l.Column(col); v != nil && strings.Contains(strings.ToLower(*v), needle) {
				return true
			}
		}
	case Equals:
		v := l.Column(cl.Columns[0])
		return v != nil && *v == cl.Value
	case NumericPrefix:
		v := l.Column(cl.Columns[0])
		return v != nil && LeadingDigits(*v) == cl.Value
	}
	return false
}

// LeadingDigits returns the run of ASCII digits at the start of s.
func LeadingDigits(s string) string {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return s[:i]
}

// Apply filters, sorts and windows rows. It returns the page and the total
// number of matches before windowing.
func (p Plan) Apply(rows []model.Listing) ([]model.Listing, int) {
	matched := make([]model.Listing, 0, len(rows))
	for i := range rows {
		if p.Match(&rows[i]) {
			matched = append(matched, rows[i])
		}
	}
	slices.SortStableFunc(matched, p.compare)

	total := len(matched)
	if p.Offset >= total {
		return []model.Listing{}, total
	}
	end := min(total, p.Offset+p.Limit)
	return matched[p.Offset:end], total
}

func (p Plan) compare(a, b model.Listing) int {
	desc := p.Sort.Direction == Desc
	var c int
	if p.Sort.Column == ColAvailableDate {
		c = compareNullable(a.AvailableDate, b.AvailableDate, time.Time.Compare, desc)
	} else {
		c = compareNullable(a.Column(p.Sort.Column), b.Column(p.Sort.Column), strings.Compare, desc)
	}
	if c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

func compareNullable[T any](a, b *T, compare func(T, T) int, desc bool) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	c := compare(*a, *b)
	if desc {
		c = -c
	}
	return c
}
