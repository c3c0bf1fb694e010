package reporting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/flock/internal/domain/models"
	"github.com/mamadbah2/flock/internal/repository"
	"github.com/mamadbah2/flock/internal/repository/memory"
	"github.com/mamadbah2/flock/internal/service/finance"
)

var now = time.Date(2024, time.March, 28, 15, 30, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func at(day string) time.Time {
	return models.MustDate(day).Time
}

func fixtureStore() repository.Store {
	born := ptr(models.MustDate("2022-03-01"))
	sheep := []models.Sheep{
		{ID: "s1", EarTag: "T-001", Breed: "Dorper", Gender: "female", BirthDate: born, Weight: ptr(50.0),
			HealthStatus: models.HealthHealthy, VaccinationStatus: models.VaccinationUpToDate,
			EstimatedValue: ptr(100.0), CreatedBy: "u1", CreatedAt: at("2024-01-01")},
		{ID: "s2", EarTag: "T-002", Breed: "Merino", Gender: "male", BirthDate: born, Weight: ptr(50.0),
			HealthStatus: models.HealthSick, VaccinationStatus: models.VaccinationOverdue,
			EstimatedValue: ptr(200.0), CreatedBy: "u1", CreatedAt: at("2024-01-02")},
		{ID: "s3", EarTag: "T-003", Breed: "Dorper", Gender: "female", BirthDate: born, Weight: ptr(50.0),
			HealthStatus: models.HealthPregnant, VaccinationStatus: models.VaccinationUpToDate,
			CreatedBy: "u2", CreatedAt: at("2024-01-03")},
	}
	sales := []models.Sale{
		{ID: "r1", TransactionType: "sale", Amount: 1200, BuyerSeller: "Market", Date: models.MustDate("2024-03-20")},
		{ID: "r2", Amount: 200, BuyerSeller: "Neighbour", Date: models.MustDate("2024-03-05")},
		{ID: "r3", TransactionType: "wool", Amount: 300, Date: models.MustDate("2024-02-10")},
	}
	expenses := []models.Expense{
		{ID: "e1", Category: "feed", Amount: 500, Date: models.MustDate("2024-03-15")},
		{ID: "e2", Category: "labour", Amount: 100, Date: models.MustDate("2023-12-01")},
	}
	ledger := []models.LedgerRecord{
		{ID: "l1", Type: models.LedgerDebt, Amount: 1000, PaidAmount: 400, Status: models.LedgerPartial,
			DueDate: ptr(models.MustDate("2024-03-01")), CreatedAt: at("2024-03-01")},
		{ID: "l2", Type: models.LedgerCredit, Amount: 250, Status: models.LedgerPending, CreatedAt: at("2024-02-01")},
		{ID: "l3", Type: models.LedgerDebt, Amount: 100, PaidAmount: 100, Status: models.LedgerPaid, CreatedAt: at("2024-01-01")},
	}
	records := []models.HealthRecord{
		{ID: "h1", SheepID: "s2", RecordType: models.RecordIllness, Description: "Coughing", CreatedAt: at("2024-03-25")},
		{ID: "h2", SheepID: "s1", RecordType: models.RecordCheckup, Description: "Routine", CreatedAt: at("2024-02-01")},
		{ID: "h3", SheepID: "s3", RecordType: models.RecordVaccination, Description: "CDT", CreatedAt: at("2024-03-26")},
	}

	store := memory.NewStore()
	store.Sheep = memory.NewTable(repository.TableSheep, sheep...)
	store.Sales = memory.NewTable(repository.TableSales, sales...)
	store.Expenses = memory.NewTable(repository.TableExpenses, expenses...)
	store.Ledger = memory.NewTable(repository.TableLedger, ledger...)
	store.HealthRecords = memory.NewTable(repository.TableHealthRecords, records...)
	return store
}

func newTestService(store repository.Store) *Service {
	svc := NewService(store, nil)
	svc.now = func() time.Time { return now }
	return svc
}

type failingTable[T repository.Record] struct{}

func (failingTable[T]) List(context.Context, repository.Query) ([]T, error) {
	return nil, errors.New("connection refused")
}
func (failingTable[T]) Insert(context.Context, T) error         { return errors.New("connection refused") }
func (failingTable[T]) Update(context.Context, string, T) error { return errors.New("connection refused") }
func (failingTable[T]) Delete(context.Context, string) error    { return errors.New("connection refused") }

func TestLoad(t *testing.T) {
	svc := newTestService(fixtureStore())

	snap, err := svc.Load(context.Background(), Everything(finance.WindowCurrentMonth))
	require.NoError(t, err)

	assert.Len(t, snap.Sheep, 3)
	assert.Equal(t, "s3", snap.Sheep[0].ID, "newest sheep first")
	require.Len(t, snap.Sales, 2, "sales outside the window are not fetched")
	assert.Equal(t, "r1", snap.Sales[0].ID)
	assert.Len(t, snap.Expenses, 1)
	assert.Len(t, snap.Ledger, 3)
	require.Len(t, snap.HealthRecords, 2, "only illness and checkup records are fetched")
	assert.Equal(t, "h1", snap.HealthRecords[0].ID)
}

func TestLoadScopesAndLimitsSheep(t *testing.T) {
	svc := newTestService(fixtureStore())

	snap, err := svc.Load(context.Background(), Needs{Sheep: true, Owner: "u1"})
	require.NoError(t, err)
	assert.Len(t, snap.Sheep, 2)
	assert.Nil(t, snap.Sales, "collections not asked for stay unloaded")

	snap, err = svc.Load(context.Background(), Needs{Sheep: true, SheepLimit: 1})
	require.NoError(t, err)
	assert.Len(t, snap.Sheep, 1)
}

func TestLoadTreatsFailedFetchAsEmpty(t *testing.T) {
	store := fixtureStore()
	store.Sales = failingTable[models.Sale]{}
	store.Ledger = nil
	svc := newTestService(store)

	snap, err := svc.Load(context.Background(), Everything(finance.WindowAll))
	require.NoError(t, err)
	assert.Empty(t, snap.Sales)
	assert.NotNil(t, snap.Sales)
	assert.Empty(t, snap.Ledger)
	assert.Len(t, snap.Expenses, 2)

	row := OverviewRow(Aggregates{Snapshot: snap, Window: finance.WindowAll, Now: now})
	revenue, _ := row.Get("total_revenue")
	assert.Equal(t, 0.0, revenue)
}

func TestLoadReturnsCancellation(t *testing.T) {
	svc := newTestService(fixtureStore())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Load(ctx, Everything(finance.WindowAll))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		got, err := ParseKind(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParseKind("inventory")
	assert.ErrorIs(t, err, ErrUnknownReportKind)

	_, err = BuildReport(Kind("inventory"), Aggregates{})
	assert.ErrorIs(t, err, ErrUnknownReportKind)
}

func TestOverviewReport(t *testing.T) {
	svc := newTestService(fixtureStore())

	rows, err := svc.Report(context.Background(), KindOverview, finance.WindowCurrentMonth)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	row := rows[0]

	assert.Equal(t, []string{
		"report_type", "total_sheep", "healthy_sheep", "sick_sheep", "pregnant_sheep",
		"average_health_score", "health_score", "total_revenue", "total_expenses", "net_profit",
		"total_debt", "total_credit", "net_position", "generated_date", "date_range",
	}, row.Keys())

	want := map[string]any{
		"report_type":          OverviewReportType,
		"total_sheep":          3,
		"healthy_sheep":        1,
		"sick_sheep":           1,
		"pregnant_sheep":       1,
		"average_health_score": 76.7,
		"health_score":         33.3,
		"total_revenue":        1400.0,
		"total_expenses":       500.0,
		"net_profit":           900.0,
		"total_debt":           600.0,
		"total_credit":         250.0,
		"net_position":         -350.0,
		"generated_date":       "2024-03-28",
		"date_range":           "current_month",
	}
	for key, value := range want {
		got, ok := row.Get(key)
		require.True(t, ok, key)
		assert.Equal(t, value, got, key)
	}
}

func TestOverviewRowEmpty(t *testing.T) {
	row := OverviewRow(Aggregates{Window: finance.WindowLastYear, Now: now})

	for _, key := range []string{"total_sheep", "healthy_sheep"} {
		got, _ := row.Get(key)
		assert.Equal(t, 0, got, key)
	}
	score, _ := row.Get("health_score")
	assert.Equal(t, 100.0, score)
	profit, _ := row.Get("net_profit")
	assert.Equal(t, 0.0, profit)
}

func TestFinancialReport(t *testing.T) {
	svc := newTestService(fixtureStore())

	rows, err := svc.Report(context.Background(), KindFinancial, finance.WindowCurrentMonth)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	cells := func(row models.Row) []any {
		typ, _ := row.Get("type")
		category, _ := row.Get("category")
		amount, _ := row.Get("amount")
		return []any{typ, category, amount}
	}
	assert.Equal(t, []any{"Revenue", "sale", 1200.0}, cells(rows[0]))
	assert.Equal(t, []any{"Revenue", "Sale", 200.0}, cells(rows[1]))
	assert.Equal(t, []any{"Expense", "feed", 500.0}, cells(rows[2]))
}

func TestFinancialReportFiltersUnboundedSnapshot(t *testing.T) {
	snap := Snapshot{
		Sales: []models.Sale{
			{ID: "r1", Amount: 1200, Date: models.MustDate("2024-03-20")},
			{ID: "r3", Amount: 300, Date: models.MustDate("2024-02-10")},
		},
	}
	rows, err := BuildReport(KindFinancial, Aggregates{Snapshot: snap, Window: finance.WindowLastMonth, Now: now})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	id, _ := rows[0].Get("id")
	assert.Equal(t, "r3", id)
}

func TestSheepReport(t *testing.T) {
	svc := newTestService(fixtureStore())

	rows, err := svc.Report(context.Background(), KindSheep, finance.WindowCurrentMonth)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	value, ok := rows[0].Get("estimated_value")
	require.True(t, ok)
	assert.Nil(t, value, "unknown value stays empty")

	tag, _ := rows[2].Get("ear_tag")
	assert.Equal(t, "T-001", tag)
}

func TestHealthReport(t *testing.T) {
	svc := newTestService(fixtureStore())

	rows, err := svc.Report(context.Background(), KindHealth, finance.WindowCurrentMonth)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	severity, _ := rows[0].Get("severity")
	tag, _ := rows[0].Get("ear_tag")
	assert.Equal(t, "high", severity)
	assert.Equal(t, "T-002", tag)
}

func TestDebtsReport(t *testing.T) {
	svc := newTestService(fixtureStore())

	rows, err := svc.Report(context.Background(), KindDebts, finance.WindowAll)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	first := rows[0]
	id, _ := first.Get("id")
	outstanding, _ := first.Get("outstanding")
	overdue, _ := first.Get("overdue")
	assert.Equal(t, "l1", id)
	assert.Equal(t, 600.0, outstanding)
	assert.Equal(t, true, overdue)
}

func TestSummarize(t *testing.T) {
	svc := newTestService(fixtureStore())
	snap, err := svc.Load(context.Background(), Everything(finance.WindowCurrentMonth))
	require.NoError(t, err)

	summary := Summarize(snap, finance.WindowCurrentMonth, now)

	assert.Equal(t, 3, summary.Flock.Total)
	assert.Equal(t, 300.0, summary.Flock.TotalValue)
	assert.Equal(t, finance.Figures{Revenue: 1400, Expenses: 500, Profit: 900}, summary.Financial.Figures)
	assert.Equal(t, 64.3, summary.Financial.ProfitMargin)
	assert.Equal(t, []finance.CategoryAmount{{Category: "sale", Amount: 1200}, {Category: "Other", Amount: 200}},
		summary.Financial.RevenueByCategory)
	assert.Equal(t, []finance.CategoryAmount{{Category: "feed", Amount: 500}}, summary.Financial.ExpenseByCategory)
	assert.Equal(t, HealthSummary{TotalAlerts: 1, HealthScore: 33.3, VaccinationCompliance: 2}, summary.Health)
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(Snapshot{}, finance.WindowCurrentYear, now)

	assert.Zero(t, summary.Financial.ProfitMargin)
	assert.Equal(t, 100.0, summary.Health.HealthScore)
	assert.Empty(t, summary.Financial.RevenueByCategory)
}

func TestOverview(t *testing.T) {
	svc := newTestService(fixtureStore())
	snap, err := svc.Load(context.Background(), Everything(finance.WindowAll))
	require.NoError(t, err)

	assert.Equal(t, OverviewStats{
		TotalSheep:      3,
		HealthyCount:    1,
		SickCount:       1,
		TotalValue:      300,
		MonthlyRevenue:  1400,
		MonthlyExpenses: 500,
	}, Overview(snap, now))
}

func TestSaveSnapshot(t *testing.T) {
	store := fixtureStore()
	svc := newTestService(store)

	saved, err := svc.SaveSnapshot(context.Background(), finance.WindowCurrentMonth, "scheduler")
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, "current_month", saved.DateRange)
	assert.Equal(t, now, saved.CreatedAt)

	stored, err := store.Snapshots.List(context.Background(), repository.Query{})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, saved.ID, stored[0].ID)
	reportType, _ := stored[0].Row.Get("report_type")
	assert.Equal(t, OverviewReportType, reportType)
}
