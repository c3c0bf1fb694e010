package reporting

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/flock/internal/domain/models"
	"github.com/mamadbah2/flock/internal/service/finance"
	"github.com/mamadbah2/flock/internal/service/flock"
	"github.com/mamadbah2/flock/internal/service/health"
)

// FinancialSummary is the finance tab of the reports view.
type FinancialSummary struct {
	finance.Figures
	ProfitMargin      float64                  `json:"profit_margin"`
	RevenueByCategory []finance.CategoryAmount `json:"revenue_by_category"`
	ExpenseByCategory []finance.CategoryAmount `json:"expense_by_category"`
}

// HealthSummary is the health tab of the reports view.
type HealthSummary struct {
	TotalAlerts           int     `json:"total_alerts"`
	HealthScore           float64 `json:"health_score"`
	VaccinationCompliance int     `json:"vaccination_compliance"`
}

// Summary backs the reports view.
type Summary struct {
	DateRange finance.Window   `json:"date_range"`
	Flock     flock.Stats      `json:"flock"`
	Financial FinancialSummary `json:"financial"`
	Health    HealthSummary    `json:"health"`
}

// Summarize computes the reports view for a window. Revenue categories use
// the sale's transaction type, falling back to "Other".
func Summarize(snap Snapshot, window finance.Window, now time.Time) Summary {
	stats := flock.Summarize(snap.Sheep, now)
	revenue := finance.FilterWindow(snap.Revenue(), window, now)
	costs := finance.FilterWindow(snap.Costs(), window, now)
	figures := finance.Totals(revenue, costs)

	var margin float64
	if figures.Revenue > 0 {
		margin = round1(figures.Profit / figures.Revenue * 100)
	}

	alerts := 0
	for _, a := range health.Alerts(snap.HealthRecords, snap.Sheep) {
		if window.Contains(models.NewDate(a.CreatedAt), now) {
			alerts++
		}
	}

	return Summary{
		DateRange: window,
		Flock:     stats,
		Financial: FinancialSummary{
			Figures:           figures,
			ProfitMargin:      margin,
			RevenueByCategory: finance.CategoryBreakdown(categorized(revenue, func(tx models.Transaction) string { return tx.TransactionType })),
			ExpenseByCategory: finance.CategoryBreakdown(categorized(costs, func(tx models.Transaction) string { return tx.Category })),
		},
		Health: HealthSummary{
			TotalAlerts:           alerts,
			HealthScore:           stats.HealthyShare(),
			VaccinationCompliance: stats.VaccinationCompliance,
		},
	}
}

func categorized(txs []models.Transaction, label func(models.Transaction) string) []models.Transaction {
	out := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		tx.Category = label(tx)
		if tx.Category == "" {
			tx.Category = "Other"
		}
		out = append(out, tx)
	}
	return out
}

// OverviewStats are the dashboard cards.
type OverviewStats struct {
	TotalSheep      int     `json:"total_sheep"`
	HealthyCount    int     `json:"healthy_count"`
	SickCount       int     `json:"sick_count"`
	TotalValue      float64 `json:"total_value"`
	MonthlyRevenue  float64 `json:"monthly_revenue"`
	MonthlyExpenses float64 `json:"monthly_expenses"`
}

// Overview computes the dashboard cards. Revenue and expenses cover the
// current month.
func Overview(snap Snapshot, now time.Time) OverviewStats {
	stats := flock.Summarize(snap.Sheep, now)
	figures := finance.Totals(
		finance.FilterWindow(snap.Revenue(), finance.WindowCurrentMonth, now),
		finance.FilterWindow(snap.Costs(), finance.WindowCurrentMonth, now),
	)
	return OverviewStats{
		TotalSheep:      stats.Total,
		HealthyCount:    stats.Healthy,
		SickCount:       stats.Sick,
		TotalValue:      stats.TotalValue,
		MonthlyRevenue:  figures.Revenue,
		MonthlyExpenses: figures.Expenses,
	}
}

// Report loads what kind needs and builds its rows.
func (s *Service) Report(ctx context.Context, kind Kind, window finance.Window) ([]models.Row, error) {
	snap, err := s.Load(ctx, kind.Needs(window))
	if err != nil {
		return nil, fmt.Errorf("load %s report: %w", kind, err)
	}
	return BuildReport(kind, Aggregates{Snapshot: snap, Window: window, Now: s.now()})
}

// SaveSnapshot builds the overview row for window and persists it.
func (s *Service) SaveSnapshot(ctx context.Context, window finance.Window, generatedBy string) (models.ReportSnapshot, error) {
	rows, err := s.Report(ctx, KindOverview, window)
	if err != nil {
		return models.ReportSnapshot{}, err
	}
	if s.store.Snapshots == nil {
		return models.ReportSnapshot{}, fmt.Errorf("snapshot table not configured")
	}

	snapshot := models.ReportSnapshot{
		ID:          uuid.NewString(),
		Kind:        string(KindOverview),
		DateRange:   string(window),
		Row:         rows[0],
		GeneratedBy: generatedBy,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.store.Snapshots.Insert(ctx, snapshot); err != nil {
		return models.ReportSnapshot{}, fmt.Errorf("save report snapshot: %w", err)
	}

	s.logger.Info("report snapshot saved",
		zap.String("id", snapshot.ID),
		zap.String("date_range", snapshot.DateRange),
		zap.String("generated_by", generatedBy),
	)
	return snapshot, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
