package finance

import (
	"math"
	"sort"

	"github.com/mamadbah2/flock/internal/domain/models"
)

// Figures is a revenue/expenses/profit triple. Profit is always
// Revenue - Expenses.
type Figures struct {
	Revenue  float64 `json:"revenue"`
	Expenses float64 `json:"expenses"`
	Profit   float64 `json:"profit"`
}

func newFigures(revenue, expenses float64) Figures {
	return Figures{Revenue: revenue, Expenses: expenses, Profit: revenue - expenses}
}

// Totals sums both collections.
func Totals(revenue, expenses []models.Transaction) Figures {
	return newFigures(sum(revenue), sum(expenses))
}

// CategoryAmount is one slice of a category breakdown.
type CategoryAmount struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// CategoryBreakdown sums amounts per category, largest first. Equal amounts
// keep the order in which their category was first seen.
func CategoryBreakdown(txs []models.Transaction) []CategoryAmount {
	index := make(map[string]int)
	out := make([]CategoryAmount, 0)
	for _, tx := range txs {
		i, ok := index[tx.Category]
		if !ok {
			i = len(out)
			index[tx.Category] = i
			out = append(out, CategoryAmount{Category: tx.Category})
		}
		out[i].Amount += tx.Amount
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount > out[j].Amount
	})
	return out
}

// Growth is the percentage change from previous to current. A zero previous
// value yields 0.
func Growth(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / math.Abs(previous) * 100
}

// KPIs are the growth figures shown on the analytics cards.
type KPIs struct {
	RevenueGrowth float64 `json:"revenue_growth"`
	ExpenseGrowth float64 `json:"expense_growth"`
	ProfitGrowth  float64 `json:"profit_growth"`
}

// TrendKPIs compares the last two points of a monthly trend.
func TrendKPIs(trend []MonthPoint) KPIs {
	if len(trend) < 2 {
		return KPIs{}
	}
	current, previous := trend[len(trend)-1], trend[len(trend)-2]
	return KPIs{
		RevenueGrowth: Growth(current.Revenue, previous.Revenue),
		ExpenseGrowth: Growth(current.Expenses, previous.Expenses),
		ProfitGrowth:  Growth(current.Profit, previous.Profit),
	}
}

func sum(txs []models.Transaction) float64 {
	var total float64
	for _, tx := range txs {
		total += tx.Amount
	}
	return total
}

func sumWhere(txs []models.Transaction, keep func(models.Date) bool) float64 {
	var total float64
	for _, tx := range txs {
		if tx.Date.IsZero() {
			continue
		}
		if keep(tx.Date) {
			total += tx.Amount
		}
	}
	return total
}
