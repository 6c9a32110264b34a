package model

// PortfolioSummary is the dashboard headline for the whole portfolio.
type PortfolioSummary struct {
	EstimatedPortfolioValue float64            `json:"estimated_portfolio_value"` // Derived from the run rate and an assumed yield
	CurrentYield            float64            `json:"current_yield"`             // Percent
	TotalCompanies          int                `json:"total_companies"`           // Distinct ISINs in the dividend log
	Statistics              DividendStatistics `json:"statistics"`
	Display                 SummaryDisplay     `json:"display"`
	Degraded                bool               `json:"degraded"` // true when figures were zeroed after a data error
}

// SummaryDisplay holds pre-formatted SEK strings for the dashboard cards.
type SummaryDisplay struct {
	EstimatedPortfolioValue string `json:"estimated_portfolio_value"`
	YTDTotal                string `json:"ytd_total"`
	AllTimeTotal            string `json:"all_time_total"`
	AverageMonthly          string `json:"average_monthly"`
	CurrentAnnualRunRate    string `json:"current_annual_run_rate"`
}

// AllocationBucket is one slice of an allocation breakdown.
type AllocationBucket struct {
	Label      string  `json:"label"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

// Allocation is the portfolio breakdown by country and by currency.
// Degraded is set when the amounts were zeroed by a data error.
type Allocation struct {
	ByCountry  []AllocationBucket `json:"by_country"`
	ByCurrency []AllocationBucket `json:"by_currency"`
	Degraded   bool               `json:"degraded"`
}
