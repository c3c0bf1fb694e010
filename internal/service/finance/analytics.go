package finance

import (
	"time"

	"github.com/mamadbah2/flock/internal/domain/models"
)

// Analytics is the chart bundle of the analytics view.
type Analytics struct {
	Months            int              `json:"months"`
	Monthly           []MonthPoint     `json:"monthly"`
	RevenueCategories []CategoryAmount `json:"revenue_categories"`
	ExpenseCategories []CategoryAmount `json:"expense_categories"`
	Quarterly         []QuarterPoint   `json:"quarterly"`
	CashFlow          []DayPoint       `json:"cash_flow"`
	Yearly            []YearPoint      `json:"yearly"`
	KPIs              KPIs             `json:"kpis"`
	Totals            Figures          `json:"totals"`
}

// BuildAnalytics computes every analytics series from one snapshot of both
// collections. Totals cover the months of the monthly trend.
func BuildAnalytics(revenue, expenses []models.Transaction, months int, now time.Time) Analytics {
	if months <= 0 {
		months = DefaultTrendMonths
	}
	monthly := MonthlyTrend(revenue, expenses, months, now)

	var totals Figures
	for _, p := range monthly {
		totals.Revenue += p.Revenue
		totals.Expenses += p.Expenses
	}
	totals.Profit = totals.Revenue - totals.Expenses

	return Analytics{
		Months:            months,
		Monthly:           monthly,
		RevenueCategories: CategoryBreakdown(revenue),
		ExpenseCategories: CategoryBreakdown(expenses),
		Quarterly:         QuarterlyProfit(revenue, expenses, now),
		CashFlow:          DailyCashFlow(revenue, expenses, now),
		Yearly:            YearOverYear(revenue, expenses, now),
		KPIs:              TrendKPIs(monthly),
		Totals:            totals,
	}
}
