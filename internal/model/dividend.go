package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DividendPayment represents one row of the dividend log.
// Monetary amounts are kept as decimals; they are only rounded when
// copied into a response type.
type DividendPayment struct {
	ID                  int64
	ISIN                string
	PaymentDate         time.Time
	SharesHeld          decimal.Decimal
	DividendAmountLocal decimal.Decimal
	TaxAmountLocal      decimal.Decimal
	CurrencyLocal       string
	DividendAmountSEK   decimal.Decimal
	TaxAmountSEK        decimal.Decimal
	ExchangeRateUsed    decimal.Decimal
}

// EnrichedDividendPayment is a dividend log row joined with masterlist data.
type EnrichedDividendPayment struct {
	ID                  int64     `json:"id"`
	ISIN                string    `json:"isin"`
	CompanyName         string    `json:"company_name"`    // "Unknown Company" when not in the masterlist
	Ticker              string    `json:"ticker"`          // "N/A" when not in the masterlist
	Currency            string    `json:"currency"`        // Reporting currency of the company
	PaymentDate         time.Time `json:"payment_date"`    // Date the dividend was paid
	SharesHeld          float64   `json:"shares_held"`     // Shares held on the payment date
	DividendAmountLocal float64   `json:"dividend_amount_local"`
	TaxAmountLocal      float64   `json:"tax_amount_local"`
	CurrencyLocal       string    `json:"currency_local"`  // Currency the dividend was paid in
	DividendAmountSEK   float64   `json:"dividend_amount_sek"`
	TaxAmountSEK        float64   `json:"tax_amount_sek"`
	NetAmountSEK        float64   `json:"net_amount_sek"`  // dividend_amount_sek - tax_amount_sek
	ExchangeRateUsed    float64   `json:"exchange_rate_used"`
}

// DividendStatistics is the dashboard summary of received dividends.
// Year-to-date figures are bounded by the calendar year of the payment date.
type DividendStatistics struct {
	YTDTotal             float64 `json:"ytd_total"`
	YTDCount             int     `json:"ytd_count"`
	AllTimeTotal         float64 `json:"all_time_total"`
	AllTimeCount         int     `json:"all_time_count"`
	AverageMonthly       float64 `json:"average_monthly"`         // ytd_total / current month number
	HighestMonthly       float64 `json:"highest_monthly"`         // Largest single month total this year
	CurrentAnnualRunRate float64 `json:"current_annual_run_rate"` // ytd_total extrapolated to a full year
}

// StatisticsResult carries the statistics together with the error that
// forced them to zero, if any. Value is always usable.
type StatisticsResult struct {
	Value   DividendStatistics
	RunRate decimal.Decimal // Value.CurrentAnnualRunRate before rounding
	Err     error
}

// MonthlyDividend is one month of the current year breakdown.
// Months up to the current one carry actual figures, later months an
// estimate averaged over the previous years in the log.
type MonthlyDividend struct {
	Month           int      `json:"month"`      // 1-12
	MonthName       string   `json:"month_name"` // "January", "February", ...
	ActualAmount    *float64 `json:"actual_amount"`
	EstimatedAmount float64  `json:"estimated_amount"`
	PaymentCount    int      `json:"payment_count"`
	IsActual        bool     `json:"is_actual"`
}

// QuarterSummary aggregates three months of the monthly breakdown.
type QuarterSummary struct {
	Quarter         string  `json:"quarter"` // "Q1" .. "Q4"
	ActualAmount    float64 `json:"actual_amount"`
	EstimatedAmount float64 `json:"estimated_amount"`
	PaymentCount    int     `json:"payment_count"`
	IsComplete      bool    `json:"is_complete"`
}

// MonthSum is a per month aggregate of the dividend log.
type MonthSum struct {
	Year     int
	Month    int
	Payments int
	Total    decimal.Decimal
}

// AnnualEstimate projects the current year's dividend income.
type AnnualEstimate struct {
	Year                int     `json:"year"`
	CurrentYearEstimate float64 `json:"current_year_estimate"`
	YTDActual           float64 `json:"ytd_actual"`
	RemainingEstimate   float64 `json:"remaining_estimate"`
	PreviousYearActual  float64 `json:"previous_year_actual"`
	GrowthPercent       float64 `json:"growth_percent"` // Estimate vs previous year, 0 without a previous year
}

// DividendEstimate bundles the estimate views.
type DividendEstimate struct {
	Annual    AnnualEstimate    `json:"annual"`
	Monthly   []MonthlyDividend `json:"monthly"`
	Quarterly []QuarterSummary  `json:"quarterly"`
}

// CompanyDividendTotal is the total received from one company in a range.
type CompanyDividendTotal struct {
	ISIN        string  `json:"isin"`
	CompanyName string  `json:"company_name"`
	Ticker      string  `json:"ticker"`
	Payments    int     `json:"payments"`
	TotalSEK    float64 `json:"total_sek"`
}

// CompanyDividendSum is the repository level aggregate behind CompanyDividendTotal.
type CompanyDividendSum struct {
	ISIN     string
	Payments int
	TotalSEK decimal.Decimal
}

// DividendLogSummary holds aggregate figures for a filtered dividend log.
type DividendLogSummary struct {
	DateRange       string     `json:"date_range"` // Human readable range label
	TotalPayments   int        `json:"total_payments"`
	UniqueCompanies int        `json:"unique_companies"`
	TotalSEK        float64    `json:"total_sek"`
	AverageSEK      float64    `json:"average_sek"`
	MinSEK          float64    `json:"min_sek"`
	MaxSEK          float64    `json:"max_sek"`
	TotalTaxSEK     float64    `json:"total_tax_sek"`
	CurrenciesCount int        `json:"currencies_count"`
	EarliestDate    *time.Time `json:"earliest_date,omitempty"`
	LatestDate      *time.Time `json:"latest_date,omitempty"`
}

// DividendLogPage is one page of the enriched dividend log.
type DividendLogPage struct {
	Payments   []EnrichedDividendPayment `json:"payments"`
	DateRange  string                    `json:"date_range"`
	Page       int                       `json:"page"`
	PerPage    int                       `json:"per_page"`
	TotalCount int                       `json:"total_count"`
	TotalPages int                       `json:"total_pages"`
}
