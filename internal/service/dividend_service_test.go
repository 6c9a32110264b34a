package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/psw4/psw-backend/internal/apperrors"
	"github.com/psw4/psw-backend/internal/daterange"
	"github.com/psw4/psw-backend/internal/model"
	"github.com/psw4/psw-backend/internal/service"
	"github.com/psw4/psw-backend/internal/testutil"
)

func mustRange(t *testing.T, from, to string) daterange.Range {
	t.Helper()
	r := daterange.Parse(from, to)
	if !r.Valid {
		t.Fatalf("Invalid test range %s..%s", from, to)
	}
	return r
}

// TestDividendService_Statistics tests the dashboard statistics.
//
// WHY: These figures drive every dashboard card. The year-to-date bounds,
// the running monthly average and the run rate extrapolation must match
// the documented formulas exactly.
func TestDividendService_Statistics(t *testing.T) {
	ctx := context.Background()
	isin := testutil.MakeISIN("SE")

	t.Run("returns zeros for an empty log", func(t *testing.T) {
		dbs := testutil.SetupTestDBs(t)
		svc := testutil.NewTestDividendService(t, dbs, testutil.FixedClock("2025-03-01"))

		result := svc.Statistics(ctx, testutil.TestPrincipal)

		if result.Err != nil {
			t.Fatalf("Expected no error, got %v", result.Err)
		}
		if result.Value != (model.DividendStatistics{}) {
			t.Errorf("Expected zero statistics, got %+v", result.Value)
		}
	})

	t.Run("computes year to date figures", func(t *testing.T) {
		dbs := testutil.SetupTestDBs(t)
		svc := testutil.NewTestDividendService(t, dbs, testutil.FixedClock("2025-03-01"))

		testutil.NewDividendPayment(isin).OnDate("2025-01-15").WithAmountSEK(100).Build(t, dbs.Portfolio)
		testutil.NewDividendPayment(isin).OnDate("2025-02-10").WithAmountSEK(200).Build(t, dbs.Portfolio)

		stats := svc.Statistics(ctx, testutil.TestPrincipal).Value

		if stats.YTDTotal != 300 {
			t.Errorf("Expected ytd_total 300, got %v", stats.YTDTotal)
		}
		if stats.YTDCount != 2 {
			t.Errorf("Expected ytd_count 2, got %d", stats.YTDCount)
		}
		if stats.AverageMonthly != 100 {
			t.Errorf("Expected average_monthly 100, got %v", stats.AverageMonthly)
		}
		if stats.HighestMonthly != 200 {
			t.Errorf("Expected highest_monthly 200, got %v", stats.HighestMonthly)
		}
		// 300 / 60 days * 365
		if stats.CurrentAnnualRunRate != 1825 {
			t.Errorf("Expected current_annual_run_rate 1825, got %v", stats.CurrentAnnualRunRate)
		}
	})

	t.Run("all time includes earlier years", func(t *testing.T) {
		dbs := testutil.SetupTestDBs(t)
		svc := testutil.NewTestDividendService(t, dbs, testutil.FixedClock("2025-03-01"))

		testutil.NewDividendPayment(isin).OnDate("2023-05-02").WithAmountSEK(40).Build(t, dbs.Portfolio)
		testutil.NewDividendPayment(isin).OnDate("2024-12-31").WithAmountSEK(60).Build(t, dbs.Portfolio)
		testutil.NewDividendPayment(isin).OnDate("2025-01-01").WithAmountSEK(10).Build(t, dbs.Portfolio)

		stats := svc.Statistics(ctx, testutil.TestPrincipal).Value

		if stats.AllTimeTotal != 110 {
			t.Errorf("Expected all_time_total 110, got %v", stats.AllTimeTotal)
		}
		if stats.AllTimeCount != 3 {
			t.Errorf("Expected all_time_count 3, got %d", stats.AllTimeCount)
		}
		if stats.YTDTotal != 10 {
			t.Errorf("Expected ytd_total 10, got %v", stats.YTDTotal)
		}
		if stats.YTDCount != 1 {
			t.Errorf("Expected ytd_count 1, got %d", stats.YTDCount)
		}
	})

	t.Run("run rate on the first day of the year", func(t *testing.T) {
		dbs := testutil.SetupTestDBs(t)
		svc := testutil.NewTestDividendService(t, dbs, testutil.FixedClock("2025-01-01"))

		testutil.NewDividendPayment(isin).OnDate("2025-01-01").WithAmountSEK(365).Build(t, dbs.Portfolio)

		stats := svc.Statistics(ctx, testutil.TestPrincipal).Value

		if stats.CurrentAnnualRunRate != 133225 {
			t.Errorf("Expected current_annual_run_rate 133225, got %v", stats.CurrentAnnualRunRate)
		}
		if stats.AverageMonthly != 365 {
			t.Errorf("Expected average_monthly 365, got %v", stats.AverageMonthly)
		}
	})

	t.Run("run rate equals ytd on the last day of the year", func(t *testing.T) {
		dbs := testutil.SetupTestDBs(t)
		svc := testutil.NewTestDividendService(t, dbs, testutil.FixedClock("2025-12-31"))

		testutil.NewDividendPayment(isin).OnDate("2025-06-30").WithAmountSEK(1234.5).Build(t, dbs.Portfolio)

		stats := svc.Statistics(ctx, testutil.TestPrincipal).Value

		if stats.CurrentAnnualRunRate != stats.YTDTotal {
			t.Errorf("Expected run rate %v to equal ytd, got %v", stats.YTDTotal, stats.CurrentAnnualRunRate)
		}
	})

	t.Run("payment on December 31 counts for that year", func(t *testing.T) {
		dbs := testutil.SetupTestDBs(t)
		svc := testutil.NewTestDividendService(t, dbs, testutil.FixedClock("2025-12-31"))

		testutil.NewDividendPayment(isin).OnDate("2025-12-31").WithAmountSEK(50).Build(t, dbs.Portfolio)
		testutil.NewDividendPayment(isin).OnDate("2026-01-01").WithAmountSEK(70).Build(t, dbs.Portfolio)

		stats := svc.Statistics(ctx, testutil.TestPrincipal).Value

		if stats.YTDTotal != 50 || stats.YTDCount != 1 {
			t.Errorf("Expected ytd 50 over 1 payment, got %v over %d", stats.YTDTotal, stats.YTDCount)
		}
	})

	t.Run("returns zeros with error when the database fails", func(t *testing.T) {
		dbs := testutil.SetupTestDBs(t)
		svc := testutil.NewTestDividendService(t, dbs, testutil.FixedClock("2025-03-01"))
		testutil.CloseDB(t, dbs.Portfolio)

		result := svc.Statistics(ctx, testutil.TestPrincipal)

		if !errors.Is(result.Err, apperrors.ErrFailedToComputeStatistics) {
			t.Errorf("Expected ErrFailedToComputeStatistics, got %v", result.Err)
		}
		if result.Value != (model.DividendStatistics{}) {
			t.Errorf("Expected zero statistics, got %+v", result.Value)
		}
	})
}

// TestDividendService_Payments tests enrichment of the dividend log.
//
// WHY: Rows whose ISIN is missing from the masterlist must still be shown,
// with placeholder company data instead of an error.
func TestDividendService_Payments(t *testing.T) {
	ctx := context.Background()

	t.Run("enriches known and unknown companies", func(t *testing.T) {
		dbs := testutil.SetupTestDBs(t)
		svc := testutil.NewTestDividendService(t, dbs, testutil.FixedClock("2025-03-01"))

		known := testutil.NewCompany().WithName("Ericsson B").WithTicker("ERIC B").Build(t, dbs.Foundation)
		unknownISIN := testutil.MakeISIN("US")

		testutil.NewDividendPayment(known.ISIN).OnDate("2025-01-10").WithAmountSEK(120).WithTaxSEK(36).Build(t, dbs.Portfolio)
		testutil.NewDividendPayment(unknownISIN).OnDate("2025-02-10").InCurrency("USD", 10, 10.5).WithAmountSEK(105).Build(t, dbs.Portfolio)

		payments, err := svc.Payments(ctx, daterange.Range{})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(payments) != 2 {
			t.Fatalf("Expected 2 payments, got %d", len(payments))
		}

		// newest first
		unknown, ericsson := payments[0], payments[1]

		if unknown.CompanyName != service.UnknownCompanyName || unknown.Ticker != service.UnknownTicker {
			t.Errorf("Expected placeholder company, got %q / %q", unknown.CompanyName, unknown.Ticker)
		}
		if unknown.Currency != "SEK" {
			t.Errorf("Expected currency SEK, got %s", unknown.Currency)
		}
		if unknown.CurrencyLocal != "USD" {
			t.Errorf("Expected local currency USD, got %s", unknown.CurrencyLocal)
		}

		if ericsson.CompanyName != "Ericsson B" || ericsson.Ticker != "ERIC B" {
			t.Errorf("Expected Ericsson B / ERIC B, got %q / %q", ericsson.CompanyName, ericsson.Ticker)
		}
		if ericsson.NetAmountSEK != 84 {
			t.Errorf("Expected net amount 84, got %v", ericsson.NetAmountSEK)
		}
	})

	t.Run("filters by date range inclusively", func(t *testing.T) {
		dbs := testutil.SetupTestDBs(t)
		svc := testutil.NewTestDividendService(t, dbs, testutil.FixedClock("2025-03-01"))
		isin := testutil.MakeISIN("SE")

		testutil.NewDividendPayment(isin).OnDate("2024-12-31").Build(t, dbs.Portfolio)
		testutil.NewDividendPayment(isin).OnDate("2025-01-01").Build(t, dbs.Portfolio)
		testutil.NewDividendPayment(isin).OnDate("2025-01-31").Build(t, dbs.Portfolio)
		testutil.NewDividendPayment(isin).OnDate("2025-02-01").Build(t, dbs.Portfolio)

		payments, err := svc.Payments(ctx, mustRange(t, "2025-01-01", "2025-01-31"))
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(payments) != 2 {
			t.Errorf("Expected 2 payments, got %d", len(payments))
		}
	})
}

func TestDividendService_Logs(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) *service.DividendService {
		t.Helper()
		dbs := testutil.SetupTestDBs(t)
		isin := testutil.MakeISIN("SE")
		for _, date := range []string{"2025-01-05", "2025-01-20", "2025-02-05", "2025-02-20", "2025-03-05"} {
			testutil.NewDividendPayment(isin).OnDate(date).Build(t, dbs.Portfolio)
		}
		return testutil.NewTestDividendService(t, dbs, testutil.FixedClock("2025-03-10"))
	}

	t.Run("paginates newest first", func(t *testing.T) {
		svc := setup(t)
		r := mustRange(t, "2025-01-01", "2025-03-31")

		page, err := svc.Logs(ctx, r, 1, 2)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if page.TotalCount != 5 {
			t.Errorf("Expected total_count 5, got %d", page.TotalCount)
		}
		if page.TotalPages != 3 {
			t.Errorf("Expected total_pages 3, got %d", page.TotalPages)
		}
		if len(page.Payments) != 2 {
			t.Fatalf("Expected 2 payments, got %d", len(page.Payments))
		}
		if got := page.Payments[0].PaymentDate.Format(daterange.DateLayout); got != "2025-03-05" {
			t.Errorf("Expected newest payment first, got %s", got)
		}
		if page.DateRange != "Jan 1, 2025 - Mar 31, 2025" {
			t.Errorf("Expected date range label, got %q", page.DateRange)
		}

		last, err := svc.Logs(ctx, r, 3, 2)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(last.Payments) != 1 {
			t.Errorf("Expected 1 payment on the last page, got %d", len(last.Payments))
		}
	})

	t.Run("labels an unfiltered log", func(t *testing.T) {
		svc := setup(t)

		page, err := svc.Logs(ctx, daterange.Range{}, 1, 50)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if page.DateRange != daterange.AllDates {
			t.Errorf("Expected %q, got %q", daterange.AllDates, page.DateRange)
		}
	})

	t.Run("rejects invalid pagination", func(t *testing.T) {
		svc := setup(t)

		if _, err := svc.Logs(ctx, daterange.Range{}, 0, 10); !errors.Is(err, apperrors.ErrInvalidPagination) {
			t.Errorf("Expected ErrInvalidPagination, got %v", err)
		}
	})
}

func TestDividendService_LogSummary(t *testing.T) {
	ctx := context.Background()
	dbs := testutil.SetupTestDBs(t)
	svc := testutil.NewTestDividendService(t, dbs, testutil.FixedClock("2025-03-10"))

	first, second := testutil.MakeISIN("SE"), testutil.MakeISIN("US")
	testutil.NewDividendPayment(first).OnDate("2025-01-10").WithAmountSEK(100).WithTaxSEK(15).Build(t, dbs.Portfolio)
	testutil.NewDividendPayment(second).OnDate("2025-02-10").InCurrency("USD", 20, 10).WithAmountSEK(200).WithTaxSEK(30).Build(t, dbs.Portfolio)
	testutil.NewDividendPayment(second).OnDate("2024-06-10").WithAmountSEK(999).Build(t, dbs.Portfolio)

	summary, err := svc.LogSummary(ctx, mustRange(t, "2025-01-01", "2025-03-31"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if summary.TotalPayments != 2 {
		t.Errorf("Expected 2 payments, got %d", summary.TotalPayments)
	}
	if summary.UniqueCompanies != 2 {
		t.Errorf("Expected 2 companies, got %d", summary.UniqueCompanies)
	}
	if summary.TotalSEK != 300 || summary.AverageSEK != 150 {
		t.Errorf("Expected total 300 and average 150, got %v and %v", summary.TotalSEK, summary.AverageSEK)
	}
	if summary.MinSEK != 100 || summary.MaxSEK != 200 {
		t.Errorf("Expected min 100 and max 200, got %v and %v", summary.MinSEK, summary.MaxSEK)
	}
	if summary.TotalTaxSEK != 45 {
		t.Errorf("Expected tax 45, got %v", summary.TotalTaxSEK)
	}
	if summary.CurrenciesCount != 2 {
		t.Errorf("Expected 2 currencies, got %d", summary.CurrenciesCount)
	}
	if summary.EarliestDate == nil || summary.EarliestDate.Format(daterange.DateLayout) != "2025-01-10" {
		t.Errorf("Expected earliest date 2025-01-10, got %v", summary.EarliestDate)
	}
	if summary.LatestDate == nil || summary.LatestDate.Format(daterange.DateLayout) != "2025-02-10" {
		t.Errorf("Expected latest date 2025-02-10, got %v", summary.LatestDate)
	}
}

func TestDividendService_CompanyBreakdown(t *testing.T) {
	ctx := context.Background()
	dbs := testutil.SetupTestDBs(t)
	svc := testutil.NewTestDividendService(t, dbs, testutil.FixedClock("2025-03-10"))

	big := testutil.NewCompany().WithName("Big Payer").Build(t, dbs.Foundation)
	small := testutil.MakeISIN("NO")

	testutil.NewDividendPayment(big.ISIN).OnDate("2025-01-10").WithAmountSEK(500).Build(t, dbs.Portfolio)
	testutil.NewDividendPayment(big.ISIN).OnDate("2025-02-10").WithAmountSEK(500).Build(t, dbs.Portfolio)
	testutil.NewDividendPayment(small).OnDate("2025-02-11").WithAmountSEK(75).Build(t, dbs.Portfolio)

	t.Run("orders by total descending", func(t *testing.T) {
		totals, err := svc.CompanyBreakdown(ctx, daterange.Range{}, 0)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(totals) != 2 {
			t.Fatalf("Expected 2 companies, got %d", len(totals))
		}
		if totals[0].CompanyName != "Big Payer" || totals[0].TotalSEK != 1000 || totals[0].Payments != 2 {
			t.Errorf("Expected Big Payer with 1000 over 2 payments, got %+v", totals[0])
		}
		if totals[1].CompanyName != service.UnknownCompanyName {
			t.Errorf("Expected placeholder name, got %q", totals[1].CompanyName)
		}
	})

	t.Run("honours the limit", func(t *testing.T) {
		totals, err := svc.CompanyBreakdown(ctx, daterange.Range{}, 1)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(totals) != 1 {
			t.Errorf("Expected 1 company, got %d", len(totals))
		}
	})
}

// TestDividendService_Estimate tests the current year projection.
//
// WHY: Past months must show what was actually paid while future months
// fall back to the historical average, and quarters roll both up.
func TestDividendService_Estimate(t *testing.T) {
	ctx := context.Background()
	dbs := testutil.SetupTestDBs(t)
	svc := testutil.NewTestDividendService(t, dbs, testutil.FixedClock("2025-03-15"))
	isin := testutil.MakeISIN("SE")

	testutil.NewDividendPayment(isin).OnDate("2023-06-15").WithAmountSEK(100).Build(t, dbs.Portfolio)
	testutil.NewDividendPayment(isin).OnDate("2024-06-15").WithAmountSEK(300).Build(t, dbs.Portfolio)
	testutil.NewDividendPayment(isin).OnDate("2024-12-15").WithAmountSEK(200).Build(t, dbs.Portfolio)
	testutil.NewDividendPayment(isin).OnDate("2025-01-15").WithAmountSEK(100).Build(t, dbs.Portfolio)
	testutil.NewDividendPayment(isin).OnDate("2025-03-01").WithAmountSEK(50).Build(t, dbs.Portfolio)

	estimate, err := svc.Estimate(ctx, testutil.TestPrincipal)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	t.Run("annual", func(t *testing.T) {
		a := estimate.Annual
		if a.Year != 2025 {
			t.Errorf("Expected year 2025, got %d", a.Year)
		}
		if a.YTDActual != 150 {
			t.Errorf("Expected ytd 150, got %v", a.YTDActual)
		}
		// 150 / 74 days * 365
		if a.CurrentYearEstimate != 739.86 {
			t.Errorf("Expected estimate 739.86, got %v", a.CurrentYearEstimate)
		}
		if a.RemainingEstimate != 589.86 {
			t.Errorf("Expected remaining 589.86, got %v", a.RemainingEstimate)
		}
		if a.PreviousYearActual != 500 {
			t.Errorf("Expected previous year 500, got %v", a.PreviousYearActual)
		}
		if a.GrowthPercent != 47.97 {
			t.Errorf("Expected growth 47.97, got %v", a.GrowthPercent)
		}
	})

	t.Run("monthly", func(t *testing.T) {
		if len(estimate.Monthly) != 12 {
			t.Fatalf("Expected 12 months, got %d", len(estimate.Monthly))
		}

		feb := estimate.Monthly[1]
		if !feb.IsActual || feb.ActualAmount == nil || *feb.ActualAmount != 0 {
			t.Errorf("Expected February actual zero, got %+v", feb)
		}

		march := estimate.Monthly[2]
		if march.MonthName != "March" || *march.ActualAmount != 50 || march.PaymentCount != 1 {
			t.Errorf("Expected March actual 50 over 1 payment, got %+v", march)
		}

		june := estimate.Monthly[5]
		if june.IsActual || june.ActualAmount != nil {
			t.Errorf("Expected June to be an estimate, got %+v", june)
		}
		if june.EstimatedAmount != 200 {
			t.Errorf("Expected June estimate 200, got %v", june.EstimatedAmount)
		}

		if estimate.Monthly[11].EstimatedAmount != 100 {
			t.Errorf("Expected December estimate 100, got %v", estimate.Monthly[11].EstimatedAmount)
		}
		if estimate.Monthly[6].EstimatedAmount != 0 {
			t.Errorf("Expected July estimate 0, got %v", estimate.Monthly[6].EstimatedAmount)
		}
	})

	t.Run("quarterly", func(t *testing.T) {
		if len(estimate.Quarterly) != 4 {
			t.Fatalf("Expected 4 quarters, got %d", len(estimate.Quarterly))
		}

		q1 := estimate.Quarterly[0]
		if q1.Quarter != "Q1" || q1.ActualAmount != 150 || !q1.IsComplete || q1.PaymentCount != 2 {
			t.Errorf("Expected complete Q1 with 150 over 2 payments, got %+v", q1)
		}

		q2 := estimate.Quarterly[1]
		if q2.IsComplete || q2.ActualAmount != 0 || q2.EstimatedAmount != 200 {
			t.Errorf("Expected open Q2 estimated at 200, got %+v", q2)
		}
	})
}

func TestDividendService_Estimate_NoHistory(t *testing.T) {
	dbs := testutil.SetupTestDBs(t)
	svc := testutil.NewTestDividendService(t, dbs, testutil.FixedClock("2025-03-15"))

	estimate, err := svc.Estimate(context.Background(), testutil.TestPrincipal)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if estimate.Annual.GrowthPercent != 0 {
		t.Errorf("Expected growth 0 without a previous year, got %v", estimate.Annual.GrowthPercent)
	}
	for _, m := range estimate.Monthly[3:] {
		if m.EstimatedAmount != 0 {
			t.Errorf("Expected zero estimate for %s, got %v", m.MonthName, m.EstimatedAmount)
		}
	}
}

func TestDividendService_Today(t *testing.T) {
	dbs := testutil.SetupTestDBs(t)
	svc := testutil.NewTestDividendService(t, dbs, testutil.FixedClock("2025-03-15"))

	if got := svc.Today().Format(daterange.DateLayout); got != "2025-03-15" {
		t.Errorf("Expected 2025-03-15, got %s", got)
	}
}
