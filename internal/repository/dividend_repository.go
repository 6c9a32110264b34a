package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/psw4/psw-backend/internal/daterange"
	"github.com/psw4/psw-backend/internal/model"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const dividendColumns = `id, isin, payment_date, shares_held, dividend_amount_local, tax_amount_local,
	currency_local, dividend_amount_sek, tax_amount_sek, exchange_rate_used`

// DividendRepository reads the dividend log in the portfolio database.
// Date filters arrive as daterange predicates on payment_date.
type DividendRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewDividendRepository creates a DividendRepository.
func NewDividendRepository(db *sql.DB, log zerolog.Logger) *DividendRepository {
	return &DividendRepository{
		db:  db,
		log: log.With().Str("repository", "dividend").Logger(),
	}
}

// Totals returns the row count and the sum of dividend_amount_sek for the
// rows matching filter.
func (r *DividendRepository) Totals(ctx context.Context, filter daterange.Predicate) (int, decimal.Decimal, error) {
	query := `SELECT COUNT(*), COALESCE(SUM(dividend_amount_sek), 0) FROM log_dividends` + filter.Where()

	var count int
	var total decimal.Decimal
	if err := r.db.QueryRowContext(ctx, query, filter.Args...).Scan(&count, &total); err != nil {
		return 0, decimal.Zero, fmt.Errorf("failed to query dividend totals: %w", err)
	}
	return count, total, nil
}

// MonthlySums returns per month totals of the rows matching filter,
// ordered by year and month. Months without payments are absent.
func (r *DividendRepository) MonthlySums(ctx context.Context, filter daterange.Predicate) ([]model.MonthSum, error) {
	query := `
		SELECT CAST(strftime('%Y', payment_date) AS INTEGER) AS y,
		       CAST(strftime('%m', payment_date) AS INTEGER) AS m,
		       COUNT(*),
		       COALESCE(SUM(dividend_amount_sek), 0)
		FROM log_dividends` + filter.Where() + `
		GROUP BY y, m
		ORDER BY y ASC, m ASC`

	rows, err := r.db.QueryContext(ctx, query, filter.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly dividend sums: %w", err)
	}
	defer rows.Close()

	sums := []model.MonthSum{}
	for rows.Next() {
		var s model.MonthSum
		if err := rows.Scan(&s.Year, &s.Month, &s.Payments, &s.Total); err != nil {
			return nil, fmt.Errorf("failed to scan monthly dividend sum: %w", err)
		}
		sums = append(sums, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating monthly dividend sums: %w", err)
	}
	return sums, nil
}

// CountDistinctISINs returns how many companies appear in the log.
func (r *DividendRepository) CountDistinctISINs(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT isin) FROM log_dividends`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count dividend companies: %w", err)
	}
	return count, nil
}

// Payments returns the rows matching filter, newest first. A limit of
// zero or less returns every row.
func (r *DividendRepository) Payments(ctx context.Context, filter daterange.Predicate, limit, offset int) ([]model.DividendPayment, error) {
	query := `SELECT ` + dividendColumns + ` FROM log_dividends` + filter.Where() + ` ORDER BY payment_date DESC, id DESC`
	args := append([]any{}, filter.Args...)
	if limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query dividend log: %w", err)
	}
	defer rows.Close()

	payments := []model.DividendPayment{}
	for rows.Next() {
		var p model.DividendPayment
		var paymentDate string

		if err := rows.Scan(
			&p.ID,
			&p.ISIN,
			&paymentDate,
			&p.SharesHeld,
			&p.DividendAmountLocal,
			&p.TaxAmountLocal,
			&p.CurrencyLocal,
			&p.DividendAmountSEK,
			&p.TaxAmountSEK,
			&p.ExchangeRateUsed,
		); err != nil {
			return nil, fmt.Errorf("failed to scan dividend log row: %w", err)
		}

		p.PaymentDate, err = ParseTime(paymentDate)
		if err != nil {
			return nil, fmt.Errorf("failed to parse payment_date of dividend %d: %w", p.ID, err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dividend log rows: %w", err)
	}

	r.log.Debug().Int("rows", len(payments)).Msg("dividend log queried")
	return payments, nil
}

// SumsByISIN returns per company totals for the rows matching filter,
// largest total first.
func (r *DividendRepository) SumsByISIN(ctx context.Context, filter daterange.Predicate, limit int) ([]model.CompanyDividendSum, error) {
	query := `
		SELECT isin, COUNT(*), COALESCE(SUM(dividend_amount_sek), 0) AS total
		FROM log_dividends` + filter.Where() + `
		GROUP BY isin
		ORDER BY total DESC, isin ASC`
	args := append([]any{}, filter.Args...)
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query dividend sums by company: %w", err)
	}
	defer rows.Close()

	sums := []model.CompanyDividendSum{}
	for rows.Next() {
		var s model.CompanyDividendSum
		if err := rows.Scan(&s.ISIN, &s.Payments, &s.TotalSEK); err != nil {
			return nil, fmt.Errorf("failed to scan dividend sum by company: %w", err)
		}
		sums = append(sums, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dividend sums by company: %w", err)
	}
	return sums, nil
}

// LogAggregate holds the raw aggregates behind a dividend log summary.
type LogAggregate struct {
	TotalPayments   int
	UniqueCompanies int
	Total           decimal.Decimal
	Min             decimal.Decimal
	Max             decimal.Decimal
	TotalTax        decimal.Decimal
	CurrenciesCount int
	Earliest        *time.Time
	Latest          *time.Time
}

// Aggregate computes summary figures over the rows matching filter.
func (r *DividendRepository) Aggregate(ctx context.Context, filter daterange.Predicate) (LogAggregate, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(DISTINCT isin),
		       COALESCE(SUM(dividend_amount_sek), 0),
		       COALESCE(MIN(dividend_amount_sek), 0),
		       COALESCE(MAX(dividend_amount_sek), 0),
		       COALESCE(SUM(tax_amount_sek), 0),
		       COUNT(DISTINCT currency_local),
		       MIN(payment_date),
		       MAX(payment_date)
		FROM log_dividends` + filter.Where()

	var agg LogAggregate
	var earliest, latest sql.NullString
	err := r.db.QueryRowContext(ctx, query, filter.Args...).Scan(
		&agg.TotalPayments,
		&agg.UniqueCompanies,
		&agg.Total,
		&agg.Min,
		&agg.Max,
		&agg.TotalTax,
		&agg.CurrenciesCount,
		&earliest,
		&latest,
	)
	if err != nil {
		return LogAggregate{}, fmt.Errorf("failed to query dividend log summary: %w", err)
	}

	if agg.Earliest, err = parseNullTime(earliest); err != nil {
		return LogAggregate{}, err
	}
	if agg.Latest, err = parseNullTime(latest); err != nil {
		return LogAggregate{}, err
	}
	return agg, nil
}
