package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/psw4/psw-backend/internal/daterange"
	"github.com/psw4/psw-backend/internal/model"
	"github.com/shopspring/decimal"
)

// CompanyBuilder provides a fluent interface for creating masterlist records.
//
// Example usage:
//
//	// Simple creation with defaults
//	company := testutil.NewCompany().Build(t, dbs.Foundation)
//
//	// Customized company
//	company := testutil.NewCompany().
//	    WithISIN("SE0000108656").
//	    WithName("Ericsson B").
//	    WithTicker("ERIC B").
//	    Build(t, dbs.Foundation)
type CompanyBuilder struct {
	ISIN         string
	Name         string
	Ticker       string
	Country      string
	Currency     string
	Market       string
	ShareType    string
	Delisted     bool
	DelistedDate *time.Time
}

// NewCompany creates a CompanyBuilder with sensible defaults.
func NewCompany() *CompanyBuilder {
	return &CompanyBuilder{
		ISIN:      MakeISIN("SE"),
		Name:      MakeCompanyName("Test Company"),
		Ticker:    MakeTicker("TST"),
		Country:   "Sweden",
		Currency:  "SEK",
		Market:    "Large Cap Stockholm",
		ShareType: "Common",
	}
}

// WithISIN sets a custom ISIN.
func (b *CompanyBuilder) WithISIN(isin string) *CompanyBuilder {
	b.ISIN = isin
	return b
}

// WithName sets a custom name.
func (b *CompanyBuilder) WithName(name string) *CompanyBuilder {
	b.Name = name
	return b
}

// WithTicker sets a custom ticker.
func (b *CompanyBuilder) WithTicker(ticker string) *CompanyBuilder {
	b.Ticker = ticker
	return b
}

// WithCountry sets the country and currency.
func (b *CompanyBuilder) WithCountry(country, currency string) *CompanyBuilder {
	b.Country = country
	b.Currency = currency
	return b
}

// WithDelisted marks the company as delisted on the given date (YYYY-MM-DD).
func (b *CompanyBuilder) WithDelisted(date string) *CompanyBuilder {
	d, _ := daterange.ParseDate(date)
	b.Delisted = true
	b.DelistedDate = &d
	return b
}

// Build inserts the company into the foundation database.
func (b *CompanyBuilder) Build(t *testing.T, db *sql.DB) model.Company {
	t.Helper()

	var delistedDate any
	if b.DelistedDate != nil {
		delistedDate = b.DelistedDate.Format(daterange.DateLayout)
	}

	query := `
		INSERT INTO masterlist (isin, name, ticker, country, currency, market, share_type, delisted, delisted_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ISIN, b.Name, b.Ticker, b.Country, b.Currency, b.Market, b.ShareType, b.Delisted, delistedDate)
	if err != nil {
		t.Fatalf("Failed to create test company: %v", err)
	}

	return model.Company{
		ISIN:         b.ISIN,
		Name:         b.Name,
		Ticker:       b.Ticker,
		Country:      b.Country,
		Currency:     b.Currency,
		Market:       b.Market,
		ShareType:    b.ShareType,
		Delisted:     b.Delisted,
		DelistedDate: b.DelistedDate,
	}
}

// DividendBuilder provides a fluent interface for creating dividend log rows.
//
// Example usage:
//
//	testutil.NewDividendPayment("SE0000108656").
//	    OnDate("2025-02-15").
//	    WithAmountSEK(100).
//	    Build(t, dbs.Portfolio)
type DividendBuilder struct {
	ISIN                string
	PaymentDate         string
	SharesHeld          float64
	DividendAmountLocal float64
	TaxAmountLocal      float64
	CurrencyLocal       string
	DividendAmountSEK   float64
	TaxAmountSEK        float64
	ExchangeRateUsed    float64
}

// NewDividendPayment creates a DividendBuilder paid today in SEK.
func NewDividendPayment(isin string) *DividendBuilder {
	return &DividendBuilder{
		ISIN:                isin,
		PaymentDate:         time.Now().Format(daterange.DateLayout),
		SharesHeld:          100,
		DividendAmountLocal: 100,
		CurrencyLocal:       "SEK",
		DividendAmountSEK:   100,
		ExchangeRateUsed:    1,
	}
}

// OnDate sets the payment date (YYYY-MM-DD).
func (b *DividendBuilder) OnDate(date string) *DividendBuilder {
	b.PaymentDate = date
	return b
}

// WithAmountSEK sets the converted amount. The local amount follows it
// for SEK payments.
func (b *DividendBuilder) WithAmountSEK(amount float64) *DividendBuilder {
	b.DividendAmountSEK = amount
	if b.CurrencyLocal == "SEK" {
		b.DividendAmountLocal = amount
	}
	return b
}

// WithTaxSEK sets the withheld tax in SEK.
func (b *DividendBuilder) WithTaxSEK(tax float64) *DividendBuilder {
	b.TaxAmountSEK = tax
	if b.CurrencyLocal == "SEK" {
		b.TaxAmountLocal = tax
	}
	return b
}

// InCurrency sets the payment currency, the local amount and the rate used.
func (b *DividendBuilder) InCurrency(currency string, localAmount, rate float64) *DividendBuilder {
	b.CurrencyLocal = currency
	b.DividendAmountLocal = localAmount
	b.ExchangeRateUsed = rate
	return b
}

// WithShares sets the number of shares held.
func (b *DividendBuilder) WithShares(shares float64) *DividendBuilder {
	b.SharesHeld = shares
	return b
}

// Build inserts the row into the portfolio database.
func (b *DividendBuilder) Build(t *testing.T, db *sql.DB) model.DividendPayment {
	t.Helper()

	query := `
		INSERT INTO log_dividends (isin, payment_date, shares_held, dividend_amount_local, tax_amount_local,
			currency_local, dividend_amount_sek, tax_amount_sek, exchange_rate_used)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	res, err := db.Exec(query, b.ISIN, b.PaymentDate, b.SharesHeld, b.DividendAmountLocal, b.TaxAmountLocal,
		b.CurrencyLocal, b.DividendAmountSEK, b.TaxAmountSEK, b.ExchangeRateUsed)
	if err != nil {
		t.Fatalf("Failed to create test dividend: %v", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("Failed to read dividend id: %v", err)
	}

	paymentDate, ok := daterange.ParseDate(b.PaymentDate)
	if !ok {
		t.Fatalf("Invalid test payment date %q", b.PaymentDate)
	}

	return model.DividendPayment{
		ID:                  id,
		ISIN:                b.ISIN,
		PaymentDate:         paymentDate,
		SharesHeld:          decimal.NewFromFloat(b.SharesHeld),
		DividendAmountLocal: decimal.NewFromFloat(b.DividendAmountLocal),
		TaxAmountLocal:      decimal.NewFromFloat(b.TaxAmountLocal),
		CurrencyLocal:       b.CurrencyLocal,
		DividendAmountSEK:   decimal.NewFromFloat(b.DividendAmountSEK),
		TaxAmountSEK:        decimal.NewFromFloat(b.TaxAmountSEK),
		ExchangeRateUsed:    decimal.NewFromFloat(b.ExchangeRateUsed),
	}
}
