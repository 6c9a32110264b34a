package service

import (
	"context"

	"github.com/psw4/psw-backend/internal/model"
	"github.com/psw4/psw-backend/internal/money"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// AssumedYieldPercent is the dividend yield used to back out a portfolio
// value from dividend income. It is a placeholder until holdings and market
// prices are available; the resulting value is an estimate, not a valuation.
const AssumedYieldPercent = 4.5

// Allocation labels for the single bucket the dividend log supports.
const (
	defaultCountry  = "Sweden"
	defaultCurrency = money.SEK
)

// PortfolioService builds dashboard level figures on top of the dividend
// statistics.
type PortfolioService struct {
	dividendService *DividendService
	log             zerolog.Logger
}

// NewPortfolioService creates a PortfolioService.
func NewPortfolioService(dividendService *DividendService, log zerolog.Logger) *PortfolioService {
	return &PortfolioService{
		dividendService: dividendService,
		log:             log.With().Str("service", "portfolio").Logger(),
	}
}

// Summary returns the dashboard headline. Data errors degrade the figures
// to zero and set Degraded; the error is returned alongside for callers
// that prefer to fail.
func (s *PortfolioService) Summary(ctx context.Context, principal model.Principal) (model.PortfolioSummary, error) {
	result := s.dividendService.Statistics(ctx, principal)
	stats := result.Value

	companies, err := s.dividendService.CountCompanies(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to count companies, reporting zero")
		companies = 0
		if result.Err == nil {
			result.Err = err
		}
	}

	runRate := result.RunRate
	value := EstimatedPortfolioValue(runRate)

	return model.PortfolioSummary{
		EstimatedPortfolioValue: money.Round(value),
		CurrentYield:            money.Round(CurrentYield(runRate, value)),
		TotalCompanies:          companies,
		Statistics:              stats,
		Display: model.SummaryDisplay{
			EstimatedPortfolioValue: money.FormatSEK(value),
			YTDTotal:                money.FormatSEK(decimal.NewFromFloat(stats.YTDTotal)),
			AllTimeTotal:            money.FormatSEK(decimal.NewFromFloat(stats.AllTimeTotal)),
			AverageMonthly:          money.FormatSEK(decimal.NewFromFloat(stats.AverageMonthly)),
			CurrentAnnualRunRate:    money.FormatSEK(runRate),
		},
		Degraded: result.Err != nil,
	}, result.Err
}

// EstimatedPortfolioValue is (run_rate / AssumedYieldPercent) * 100.
func EstimatedPortfolioValue(runRate decimal.Decimal) decimal.Decimal {
	return runRate.Div(decimal.NewFromFloat(AssumedYieldPercent)).Mul(decimal.NewFromInt(100))
}

// CurrentYield is (run_rate / value) * 100, or zero without a value.
//
// The value itself comes from EstimatedPortfolioValue, so this always
// returns AssumedYieldPercent for a positive run rate. It is kept as is
// until it is settled whether the yield should instead use a real holdings
// valuation.
func CurrentYield(runRate, value decimal.Decimal) decimal.Decimal {
	if !value.IsPositive() {
		return decimal.Zero
	}
	return runRate.Div(value).Mul(decimal.NewFromInt(100))
}

// Allocation breaks the dividend total down by country and currency.
// Like Summary it degrades to zero amounts on a data error and returns the
// error alongside.
//
// Known limitation: the dividend log carries no country data, so both
// breakdowns are a single Sweden / SEK bucket holding 100% of the total.
func (s *PortfolioService) Allocation(ctx context.Context, principal model.Principal) (model.Allocation, error) {
	result := s.dividendService.Statistics(ctx, principal)
	total := result.Value.AllTimeTotal

	return model.Allocation{
		ByCountry: []model.AllocationBucket{
			{Label: defaultCountry, Amount: total, Percentage: 100},
		},
		ByCurrency: []model.AllocationBucket{
			{Label: defaultCurrency, Amount: total, Percentage: 100},
		},
		Degraded: result.Err != nil,
	}, result.Err
}
