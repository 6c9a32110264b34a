package service

import (
	"context"
	"fmt"
	"time"

	"github.com/psw4/psw-backend/internal/apperrors"
	"github.com/psw4/psw-backend/internal/daterange"
	"github.com/psw4/psw-backend/internal/model"
	"github.com/psw4/psw-backend/internal/money"
	"github.com/shopspring/decimal"
)

var quarters = []struct {
	name   string
	months [3]int
}{
	{"Q1", [3]int{1, 2, 3}},
	{"Q2", [3]int{4, 5, 6}},
	{"Q3", [3]int{7, 8, 9}},
	{"Q4", [3]int{10, 11, 12}},
}

// Estimate projects the current year's dividend income: an annual run rate
// estimate, a monthly breakdown and its quarterly roll-up.
func (s *DividendService) Estimate(ctx context.Context, principal model.Principal) (model.DividendEstimate, error) {
	now := s.now()

	annual, err := s.annualEstimate(ctx, now)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", principal.UserID).Msg("annual estimate failed")
		return model.DividendEstimate{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToComputeStatistics, err)
	}

	monthly, err := s.monthlyBreakdown(ctx, now)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", principal.UserID).Msg("monthly breakdown failed")
		return model.DividendEstimate{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToComputeStatistics, err)
	}

	return model.DividendEstimate{
		Annual:    annual,
		Monthly:   monthly,
		Quarterly: quarterlySummary(monthly, int(now.Month())),
	}, nil
}

func (s *DividendService) annualEstimate(ctx context.Context, now time.Time) (model.AnnualEstimate, error) {
	figures, err := s.statistics(ctx, now)
	if err != nil {
		return model.AnnualEstimate{}, err
	}

	previousFilter := daterange.SQLPredicate(daterange.Year(now.Year()-1), paymentDateColumn)
	_, previous, err := s.dividendRepo.Totals(ctx, previousFilter)
	if err != nil {
		return model.AnnualEstimate{}, err
	}

	estimate := model.AnnualEstimate{
		Year:                now.Year(),
		CurrentYearEstimate: figures.stats.CurrentAnnualRunRate,
		YTDActual:           figures.stats.YTDTotal,
		RemainingEstimate:   money.Round(decimal.Max(decimal.Zero, figures.runRate.Sub(figures.ytdTotal))),
		PreviousYearActual:  money.Round(previous),
	}
	if previous.IsPositive() {
		growth := figures.runRate.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100))
		estimate.GrowthPercent = money.Round(growth)
	}
	return estimate, nil
}

// monthlyBreakdown returns twelve months of the current year. Months up to
// now are actual, zero when nothing was paid. Later months are estimated as
// the average of that month over the earlier years present in the log.
func (s *DividendService) monthlyBreakdown(ctx context.Context, now time.Time) ([]model.MonthlyDividend, error) {
	history, err := s.dividendRepo.MonthlySums(ctx, daterange.Predicate{})
	if err != nil {
		return nil, err
	}

	currentYear := now.Year()
	currentMonth := int(now.Month())

	actual := make(map[int]model.MonthSum)
	pastTotals := make(map[int]decimal.Decimal)
	pastCounts := make(map[int]int)
	pastYears := make(map[int]bool)
	for _, m := range history {
		switch {
		case m.Year == currentYear:
			actual[m.Month] = m
		case m.Year < currentYear:
			pastYears[m.Year] = true
			pastTotals[m.Month] = pastTotals[m.Month].Add(m.Total)
			pastCounts[m.Month] += m.Payments
		}
	}

	months := make([]model.MonthlyDividend, 12)
	for i := range months {
		month := i + 1
		entry := model.MonthlyDividend{
			Month:     month,
			MonthName: time.Month(month).String(),
		}

		if month <= currentMonth {
			sum := actual[month]
			amount := money.Round(sum.Total)
			entry.ActualAmount = &amount
			entry.EstimatedAmount = amount
			entry.PaymentCount = sum.Payments
			entry.IsActual = true
		} else if n := len(pastYears); n > 0 {
			entry.EstimatedAmount = money.Round(pastTotals[month].Div(decimal.NewFromInt(int64(n))))
			entry.PaymentCount = (pastCounts[month] + n/2) / n
		}
		months[i] = entry
	}
	return months, nil
}

func quarterlySummary(months []model.MonthlyDividend, currentMonth int) []model.QuarterSummary {
	byMonth := make(map[int]model.MonthlyDividend, len(months))
	for _, m := range months {
		byMonth[m.Month] = m
	}

	summary := make([]model.QuarterSummary, 0, len(quarters))
	for _, q := range quarters {
		var actual, estimated []decimal.Decimal
		count := 0
		for _, month := range q.months {
			m := byMonth[month]
			if m.ActualAmount != nil {
				actual = append(actual, decimal.NewFromFloat(*m.ActualAmount))
			}
			estimated = append(estimated, decimal.NewFromFloat(m.EstimatedAmount))
			count += m.PaymentCount
		}
		summary = append(summary, model.QuarterSummary{
			Quarter:         q.name,
			ActualAmount:    money.Round(money.Sum(actual...)),
			EstimatedAmount: money.Round(money.Sum(estimated...)),
			PaymentCount:    count,
			IsComplete:      q.months[2] <= currentMonth,
		})
	}
	return summary
}
