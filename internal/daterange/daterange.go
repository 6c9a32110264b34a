// Package daterange normalizes user supplied date range filters and turns
// them into display labels and parameterized SQL predicates.
//
// Malformed input is never an error here: a date that does not parse is
// treated as absent, and a range missing either end matches everything.
package daterange

import (
	"net/url"
	"regexp"
	"strings"
	"time"
)

const (
	// DateLayout is the only accepted input format.
	DateLayout = "2006-01-02"

	// DefaultDisplayLayout renders dates as "Mar 1, 2025".
	DefaultDisplayLayout = "Jan 2, 2006"

	// DefaultMonthsBack is how many whole months before the current one
	// the default range reaches back.
	DefaultMonthsBack = 3

	// AllDates is the label of a range without both ends.
	AllDates = "All dates"

	endOfDay = " 23:59:59"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Range is an inclusive calendar date range. Valid is true only when both
// ends are present, and then From is never after To.
type Range struct {
	From  *time.Time
	To    *time.Time
	Valid bool
}

// New builds a Range from optional ends, swapping them when reversed.
func New(from, to *time.Time) Range {
	if from != nil && to != nil && from.After(*to) {
		from, to = to, from
	}
	return Range{
		From:  from,
		To:    to,
		Valid: from != nil && to != nil,
	}
}

// Default returns the range from the first day of the month monthsBack
// months before now up to the last day of now's month.
func Default(now time.Time, monthsBack int) Range {
	if monthsBack < 0 {
		monthsBack = 0
	}
	from := time.Date(now.Year(), now.Month()-time.Month(monthsBack), 1, 0, 0, 0, 0, time.UTC)
	// day 0 of the next month is the last day of this one
	to := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, time.UTC)
	return New(&from, &to)
}

// Year returns the range covering one calendar year.
func Year(year int) Range {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	return New(&from, &to)
}

// ParseDate parses a strict YYYY-MM-DD date. The value must round-trip
// exactly, so "2024-02-30", "2024-2-3" and " 2024-02-03" are rejected.
func ParseDate(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, raw)
	if err != nil || t.Format(DateLayout) != raw {
		return time.Time{}, false
	}
	return t, true
}

// Parse normalizes two raw date strings into a Range.
func Parse(fromRaw, toRaw string) Range {
	var from, to *time.Time
	if t, ok := ParseDate(fromRaw); ok {
		from = &t
	}
	if t, ok := ParseDate(toRaw); ok {
		to = &t
	}
	return New(from, to)
}

// FromForm reads the "<name>_from" and "<name>_to" fields of a submitted form.
func FromForm(values url.Values, name string) Range {
	return Parse(values.Get(name+"_from"), values.Get(name+"_to"))
}

// Strings formats both ends with layout. Missing ends are returned as "".
func (r Range) Strings(layout string) (from, to string) {
	if layout == "" {
		layout = DateLayout
	}
	if r.From != nil {
		from = r.From.Format(layout)
	}
	if r.To != nil {
		to = r.To.Format(layout)
	}
	return from, to
}

// Display renders the range for humans.
func Display(r Range, layout string) string {
	if layout == "" {
		layout = DefaultDisplayLayout
	}
	if !r.Valid {
		return AllDates
	}
	from, to := r.Strings(layout)
	if r.From.Equal(*r.To) {
		return from
	}
	return from + " - " + to
}

// Predicate is a SQL boolean expression with its bound arguments.
// The zero value is the empty predicate, which filters nothing.
type Predicate struct {
	Clause string
	Args   []any
}

// IsEmpty reports whether the predicate filters nothing.
func (p Predicate) IsEmpty() bool {
	return p.Clause == ""
}

// Where returns " WHERE <clause>", or "" for the empty predicate.
func (p Predicate) Where() string {
	if p.IsEmpty() {
		return ""
	}
	return " WHERE " + p.Clause
}

// And returns " AND <clause>", or "" for the empty predicate.
func (p Predicate) And() string {
	if p.IsEmpty() {
		return ""
	}
	return " AND " + p.Clause
}

// SQLPredicate returns an inclusive filter on column for r. The upper
// bound is extended to the end of the day so datetime columns match too.
// It returns the empty predicate when r is not valid or column is not a
// plain identifier.
func SQLPredicate(r Range, column string) Predicate {
	if !r.Valid || !identifierPattern.MatchString(column) {
		return Predicate{}
	}

	from, to := r.Strings(DateLayout)
	var parts []string
	var args []any
	if from != "" {
		parts = append(parts, column+" >= ?")
		args = append(args, from)
	}
	if to != "" {
		parts = append(parts, column+" <= ?")
		args = append(args, to+endOfDay)
	}

	return Predicate{
		Clause: "(" + strings.Join(parts, " AND ") + ")",
		Args:   args,
	}
}
