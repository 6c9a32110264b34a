package request

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/psw4/psw-backend/internal/daterange"
)

// Pagination defaults for the dividend log.
const (
	DefaultPerPage = 50
	MaxPerPage     = 100
)

// DividendQuery holds the parsed query string of the dividend endpoints.
type DividendQuery struct {
	Range   daterange.Range
	Page    int
	PerPage int
	Limit   int
	Strict  bool
}

// PaymentDateField is the form name of the dividend log date filter. Its
// "_from" and "_to" fields are accepted when "from" and "to" are absent.
const PaymentDateField = "payment_date"

// ParseDateRange reads "from" and "to", falling back to "payment_date_from"
// and "payment_date_to". Malformed or missing values are treated as absent,
// which leaves the range unfiltered.
func ParseDateRange(values url.Values) daterange.Range {
	if !hasRangeParams(values) {
		return daterange.FromForm(values, PaymentDateField)
	}
	return daterange.Parse(values.Get("from"), values.Get("to"))
}

// ParseDateRangeOrDefault is ParseDateRange, except that a query without
// any date parameter gets the default range ending this month.
func ParseDateRangeOrDefault(values url.Values, now time.Time, monthsBack int) daterange.Range {
	if !hasRangeParams(values) && !hasFormRangeParams(values) {
		return daterange.Default(now, monthsBack)
	}
	return ParseDateRange(values)
}

func hasRangeParams(values url.Values) bool {
	return values.Get("from") != "" || values.Get("to") != ""
}

func hasFormRangeParams(values url.Values) bool {
	return values.Get(PaymentDateField+"_from") != "" || values.Get(PaymentDateField+"_to") != ""
}

// ParseDividendQuery extracts the date range, pagination and flags.
//
// Validation rules:
//   - page: positive integer (defaults to 1)
//   - per_page: between 1 and MaxPerPage (defaults to DefaultPerPage)
//   - limit: non-negative integer (defaults to 0, no limit)
//   - strict: boolean (defaults to false)
//
// Date values never fail parsing; see ParseDateRange.
func ParseDividendQuery(values url.Values, dateRange daterange.Range) (DividendQuery, error) {
	q := DividendQuery{
		Range:   dateRange,
		Page:    1,
		PerPage: DefaultPerPage,
	}

	if v := values.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			return DividendQuery{}, fmt.Errorf("invalid page: must be a positive number")
		}
		q.Page = page
	}

	if v := values.Get("per_page"); v != "" {
		perPage, err := strconv.Atoi(v)
		if err != nil {
			return DividendQuery{}, fmt.Errorf("invalid per_page: must be a number")
		}
		if perPage < 1 || perPage > MaxPerPage {
			return DividendQuery{}, fmt.Errorf("invalid per_page: must be between 1 and %d", MaxPerPage)
		}
		q.PerPage = perPage
	}

	if v := values.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			return DividendQuery{}, fmt.Errorf("invalid limit: must be a non-negative number")
		}
		q.Limit = limit
	}

	if v := values.Get("strict"); v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			return DividendQuery{}, fmt.Errorf("invalid strict: must be true or false")
		}
		q.Strict = strict
	}

	return q, nil
}
