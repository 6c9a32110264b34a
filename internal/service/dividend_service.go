package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/psw4/psw-backend/internal/apperrors"
	"github.com/psw4/psw-backend/internal/daterange"
	"github.com/psw4/psw-backend/internal/model"
	"github.com/psw4/psw-backend/internal/money"
	"github.com/psw4/psw-backend/internal/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// paymentDateColumn is the column every date range filter applies to.
const paymentDateColumn = "payment_date"

// DividendService aggregates the dividend log into statistics, breakdowns
// and estimates.
//
// Aggregation is global: the Principal passed in identifies the caller but
// does not scope the figures, because the dividend log has no owner column yet.
type DividendService struct {
	dividendRepo   *repository.DividendRepository
	companyService *CompanyService
	log            zerolog.Logger
	displayLayout  string
	now            func() time.Time
}

// NewDividendService creates a DividendService. displayLayout is the Go time
// layout used for human readable range labels.
func NewDividendService(
	dividendRepo *repository.DividendRepository,
	companyService *CompanyService,
	displayLayout string,
	log zerolog.Logger,
) *DividendService {
	return &DividendService{
		dividendRepo:   dividendRepo,
		companyService: companyService,
		log:            log.With().Str("service", "dividend").Logger(),
		displayLayout:  displayLayout,
		now:            time.Now,
	}
}

// WithClock replaces the source of "today". Used by tests to pin the date.
func (s *DividendService) WithClock(now func() time.Time) *DividendService {
	s.now = now
	return s
}

// Today returns the service's current time.
func (s *DividendService) Today() time.Time {
	return s.now()
}

// Statistics computes the dashboard statistics. A data access error is
// logged and yields all-zero figures with Err set, so callers can render
// the zero values or propagate the error.
func (s *DividendService) Statistics(ctx context.Context, principal model.Principal) model.StatisticsResult {
	figures, err := s.statistics(ctx, s.now())
	if err != nil {
		s.log.Error().Err(err).Str("user_id", principal.UserID).Msg("dividend statistics unavailable, returning zero values")
		return model.StatisticsResult{
			Value: model.DividendStatistics{},
			Err:   fmt.Errorf("%w: %w", apperrors.ErrFailedToComputeStatistics, err),
		}
	}
	return model.StatisticsResult{Value: figures.stats, RunRate: figures.runRate}
}

// statisticsFigures keeps the exact decimals next to the rounded API values
// so derived figures are not computed from rounded floats.
type statisticsFigures struct {
	stats    model.DividendStatistics
	ytdTotal decimal.Decimal
	runRate  decimal.Decimal
}

func (s *DividendService) statistics(ctx context.Context, now time.Time) (statisticsFigures, error) {
	yearFilter := daterange.SQLPredicate(daterange.Year(now.Year()), paymentDateColumn)

	ytdCount, ytdTotal, err := s.dividendRepo.Totals(ctx, yearFilter)
	if err != nil {
		return statisticsFigures{}, err
	}

	allTimeCount, allTimeTotal, err := s.dividendRepo.Totals(ctx, daterange.Predicate{})
	if err != nil {
		return statisticsFigures{}, err
	}

	months, err := s.dividendRepo.MonthlySums(ctx, yearFilter)
	if err != nil {
		return statisticsFigures{}, err
	}

	runRate := annualRunRate(ytdTotal, now)
	return statisticsFigures{
		stats: model.DividendStatistics{
			YTDTotal:             money.Round(ytdTotal),
			YTDCount:             ytdCount,
			AllTimeTotal:         money.Round(allTimeTotal),
			AllTimeCount:         allTimeCount,
			AverageMonthly:       money.Round(averageMonthly(ytdTotal, now)),
			HighestMonthly:       money.Round(highestMonthly(months)),
			CurrentAnnualRunRate: money.Round(runRate),
		},
		ytdTotal: ytdTotal,
		runRate:  runRate,
	}, nil
}

// averageMonthly divides by the current month number, not 12, so the value
// is a running average over the months elapsed so far.
func averageMonthly(ytdTotal decimal.Decimal, now time.Time) decimal.Decimal {
	return ytdTotal.Div(decimal.NewFromInt(int64(now.Month())))
}

// highestMonthly returns the largest month total. Months arrive in
// ascending order and a tie keeps the earlier month.
func highestMonthly(months []model.MonthSum) decimal.Decimal {
	highest := decimal.Zero
	for _, m := range months {
		if m.Total.GreaterThan(highest) {
			highest = m.Total
		}
	}
	return highest
}

// annualRunRate extrapolates ytdTotal linearly over the whole year:
// (ytd / day_of_year) * days_in_year. Seasonality is ignored.
func annualRunRate(ytdTotal decimal.Decimal, now time.Time) decimal.Decimal {
	dayOfYear := decimal.NewFromInt(int64(now.YearDay()))
	return ytdTotal.Mul(decimal.NewFromInt(int64(daysInYear(now.Year())))).Div(dayOfYear)
}

func daysInYear(year int) int {
	if time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC).YearDay() == 366 {
		return 366
	}
	return 365
}

// Payments returns the enriched dividend log for r, newest first.
func (s *DividendService) Payments(ctx context.Context, r daterange.Range) ([]model.EnrichedDividendPayment, error) {
	payments, err := s.dividendRepo.Payments(ctx, daterange.SQLPredicate(r, paymentDateColumn), 0, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveDividends, err)
	}
	return s.enrich(ctx, payments), nil
}

// Logs returns one page of the enriched dividend log for r.
func (s *DividendService) Logs(ctx context.Context, r daterange.Range, page, perPage int) (model.DividendLogPage, error) {
	if page < 1 || perPage < 1 {
		return model.DividendLogPage{}, apperrors.ErrInvalidPagination
	}
	filter := daterange.SQLPredicate(r, paymentDateColumn)

	total, _, err := s.dividendRepo.Totals(ctx, filter)
	if err != nil {
		return model.DividendLogPage{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveDividends, err)
	}

	payments, err := s.dividendRepo.Payments(ctx, filter, perPage, (page-1)*perPage)
	if err != nil {
		return model.DividendLogPage{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveDividends, err)
	}

	return model.DividendLogPage{
		Payments:   s.enrich(ctx, payments),
		DateRange:  daterange.Display(r, s.displayLayout),
		Page:       page,
		PerPage:    perPage,
		TotalCount: total,
		TotalPages: int(math.Ceil(float64(total) / float64(perPage))),
	}, nil
}

// LogSummary returns aggregate figures for the dividend log within r.
func (s *DividendService) LogSummary(ctx context.Context, r daterange.Range) (model.DividendLogSummary, error) {
	agg, err := s.dividendRepo.Aggregate(ctx, daterange.SQLPredicate(r, paymentDateColumn))
	if err != nil {
		return model.DividendLogSummary{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveDividends, err)
	}

	summary := model.DividendLogSummary{
		DateRange:       daterange.Display(r, s.displayLayout),
		TotalPayments:   agg.TotalPayments,
		UniqueCompanies: agg.UniqueCompanies,
		TotalSEK:        money.Round(agg.Total),
		MinSEK:          money.Round(agg.Min),
		MaxSEK:          money.Round(agg.Max),
		TotalTaxSEK:     money.Round(agg.TotalTax),
		CurrenciesCount: agg.CurrenciesCount,
		EarliestDate:    agg.Earliest,
		LatestDate:      agg.Latest,
	}
	if agg.TotalPayments > 0 {
		summary.AverageSEK = money.Round(agg.Total.Div(decimal.NewFromInt(int64(agg.TotalPayments))))
	}
	return summary, nil
}

// CompanyBreakdown returns per company totals within r, largest first.
// A limit of zero or less returns every company.
func (s *DividendService) CompanyBreakdown(ctx context.Context, r daterange.Range, limit int) ([]model.CompanyDividendTotal, error) {
	sums, err := s.dividendRepo.SumsByISIN(ctx, daterange.SQLPredicate(r, paymentDateColumn), limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveDividends, err)
	}

	isins := make([]string, len(sums))
	for i, sum := range sums {
		isins[i] = sum.ISIN
	}
	companies := s.companyService.LookupMany(ctx, isins)

	totals := make([]model.CompanyDividendTotal, len(sums))
	for i, sum := range sums {
		info := companyOrPlaceholder(companies, sum.ISIN)
		totals[i] = model.CompanyDividendTotal{
			ISIN:        sum.ISIN,
			CompanyName: info.Name,
			Ticker:      info.Ticker,
			Payments:    sum.Payments,
			TotalSEK:    money.Round(sum.TotalSEK),
		}
	}
	return totals, nil
}

// CountCompanies returns the number of distinct ISINs in the dividend log.
func (s *DividendService) CountCompanies(ctx context.Context) (int, error) {
	return s.dividendRepo.CountDistinctISINs(ctx)
}

// enrich attaches masterlist data to each row with one batched lookup.
func (s *DividendService) enrich(ctx context.Context, payments []model.DividendPayment) []model.EnrichedDividendPayment {
	isins := make([]string, len(payments))
	for i, p := range payments {
		isins[i] = p.ISIN
	}
	companies := s.companyService.LookupMany(ctx, isins)

	enriched := make([]model.EnrichedDividendPayment, len(payments))
	for i, p := range payments {
		info := companyOrPlaceholder(companies, p.ISIN)
		enriched[i] = model.EnrichedDividendPayment{
			ID:                  p.ID,
			ISIN:                p.ISIN,
			CompanyName:         info.Name,
			Ticker:              info.Ticker,
			Currency:            info.Currency,
			PaymentDate:         p.PaymentDate,
			SharesHeld:          money.Round(p.SharesHeld),
			DividendAmountLocal: money.Round(p.DividendAmountLocal),
			TaxAmountLocal:      money.Round(p.TaxAmountLocal),
			CurrencyLocal:       p.CurrencyLocal,
			DividendAmountSEK:   money.Round(p.DividendAmountSEK),
			TaxAmountSEK:        money.Round(p.TaxAmountSEK),
			NetAmountSEK:        money.Round(p.DividendAmountSEK.Sub(p.TaxAmountSEK)),
			ExchangeRateUsed:    p.ExchangeRateUsed.InexactFloat64(),
		}
	}
	return enriched
}

func companyOrPlaceholder(companies map[string]model.CompanyInfo, isin string) model.CompanyInfo {
	if info, ok := companies[isin]; ok {
		return info
	}
	return UnknownCompany
}
