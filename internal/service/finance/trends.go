package finance

import (
	"fmt"
	"time"

	"github.com/mamadbah2/flock/internal/domain/models"
)

const (
	// DefaultTrendMonths is used when a caller asks for a non-positive window.
	DefaultTrendMonths = 6
	// MaxTrendMonths caps the monthly trend window.
	MaxTrendMonths = 24
	cashFlowDays       = 31
	quarters           = 4

	monthLabelLayout = "Jan 06"
	dayLabelLayout   = "Jan 2"
)

// MonthPoint is one calendar month of the monthly trend.
type MonthPoint struct {
	Month string `json:"month"`
	Figures
}

// MonthlyTrend buckets both collections into the n calendar months ending at
// now's month, oldest first. Every month is emitted, empty ones as zero.
// Windows longer than MaxTrendMonths are cut to the cap.
func MonthlyTrend(revenue, expenses []models.Transaction, n int, now time.Time) []MonthPoint {
	if n <= 0 {
		n = DefaultTrendMonths
	}
	if n > MaxTrendMonths {
		n = MaxTrendMonths
	}
	points := make([]MonthPoint, 0, n)
	for i := n - 1; i >= 0; i-- {
		month := firstOfMonth(now, -i)
		inMonth := func(d models.Date) bool { return d.Key() == month.Key() }
		points = append(points, MonthPoint{
			Month:   month.Format(monthLabelLayout),
			Figures: newFigures(sumWhere(revenue, inMonth), sumWhere(expenses, inMonth)),
		})
	}
	return points
}

// QuarterPoint is one three-month span of the quarterly analysis.
type QuarterPoint struct {
	Quarter string `json:"quarter"`
	Figures
	Margin float64 `json:"margin"`
}

// QuarterlyProfit splits the year ending at now into four three-month spans.
// The last span starts on the first of now's month; labels Q1..Q4 are
// positional, oldest first.
func QuarterlyProfit(revenue, expenses []models.Transaction, now time.Time) []QuarterPoint {
	points := make([]QuarterPoint, 0, quarters)
	for i := quarters - 1; i >= 0; i-- {
		start := firstOfMonth(now, -3*i)
		end := models.NewDate(start.AddDate(0, 3, -1))
		inSpan := func(d models.Date) bool { return !d.Before(start) && !d.After(end) }

		figures := newFigures(sumWhere(revenue, inSpan), sumWhere(expenses, inSpan))
		var margin float64
		if figures.Revenue > 0 {
			margin = figures.Profit / figures.Revenue * 100
		}
		points = append(points, QuarterPoint{
			Quarter: fmt.Sprintf("Q%d", quarters-i),
			Figures: figures,
			Margin:  margin,
		})
	}
	return points
}

// DayPoint is one day of the cash flow series.
type DayPoint struct {
	Date    string  `json:"date"`
	Inflow  float64 `json:"inflow"`
	Outflow float64 `json:"outflow"`
	Net     float64 `json:"net"`
}

// DailyCashFlow emits the 31 days ending today, oldest first.
func DailyCashFlow(revenue, expenses []models.Transaction, now time.Time) []DayPoint {
	today := models.NewDate(now)
	points := make([]DayPoint, 0, cashFlowDays)
	for i := cashFlowDays - 1; i >= 0; i-- {
		day := models.NewDate(today.AddDate(0, 0, -i))
		onDay := func(d models.Date) bool { return d.SameDay(day) }
		inflow, outflow := sumWhere(revenue, onDay), sumWhere(expenses, onDay)
		points = append(points, DayPoint{
			Date:    day.Format(dayLabelLayout),
			Inflow:  inflow,
			Outflow: outflow,
			Net:     inflow - outflow,
		})
	}
	return points
}

// YearPoint is the totals of one calendar year.
type YearPoint struct {
	Year int `json:"year"`
	Figures
}

// YearOverYear returns the previous and the current calendar year, in that
// order.
func YearOverYear(revenue, expenses []models.Transaction, now time.Time) []YearPoint {
	points := make([]YearPoint, 0, 2)
	for _, year := range []int{now.Year() - 1, now.Year()} {
		inYear := func(d models.Date) bool { return d.Year() == year }
		points = append(points, YearPoint{
			Year:    year,
			Figures: newFigures(sumWhere(revenue, inYear), sumWhere(expenses, inYear)),
		})
	}
	return points
}

// firstOfMonth returns the first day of the month offset months away from t.
func firstOfMonth(t time.Time, offset int) models.Date {
	return models.Date{Time: time.Date(t.Year(), t.Month()+time.Month(offset), 1, 0, 0, 0, 0, time.UTC)}
}
