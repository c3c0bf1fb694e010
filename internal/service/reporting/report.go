package reporting

import (
	"errors"
	"fmt"
	"time"

	"github.com/mamadbah2/flock/internal/domain/models"
	"github.com/mamadbah2/flock/internal/service/finance"
	"github.com/mamadbah2/flock/internal/service/flock"
	"github.com/mamadbah2/flock/internal/service/health"
	"github.com/mamadbah2/flock/internal/service/ledger"
)

// ErrUnknownReportKind is returned for a report kind outside Kinds.
var ErrUnknownReportKind = errors.New("unknown report kind")

// Kind names a downloadable report.
type Kind string

const (
	KindOverview  Kind = "overview"
	KindSheep     Kind = "sheep"
	KindFinancial Kind = "financial"
	KindHealth    Kind = "health"
	KindDebts     Kind = "debts"
)

// Kinds lists every report kind.
var Kinds = []Kind{KindOverview, KindSheep, KindFinancial, KindHealth, KindDebts}

// OverviewReportType is the report_type cell of the overview row.
const OverviewReportType = "Flock Overview"

// ParseKind validates a report kind.
func ParseKind(raw string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == raw {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownReportKind, raw)
}

// Needs returns the collections a report kind is built from.
func (k Kind) Needs(window finance.Window) Needs {
	switch k {
	case KindSheep:
		return Needs{Sheep: true}
	case KindFinancial:
		return Needs{Sales: true, Expenses: true, Window: window}
	case KindHealth:
		return Needs{Sheep: true, HealthRecords: true}
	case KindDebts:
		return Needs{Ledger: true}
	default:
		return Everything(window)
	}
}

// Aggregates is the input of BuildReport.
type Aggregates struct {
	Snapshot Snapshot
	Window   finance.Window
	Now      time.Time
}

// BuildReport lays a report kind out as flat rows. The overview is one
// synthetic row; the other kinds pass the underlying entities through.
func BuildReport(kind Kind, agg Aggregates) ([]models.Row, error) {
	switch kind {
	case KindOverview:
		return []models.Row{OverviewRow(agg)}, nil
	case KindSheep:
		return sheepRows(agg.Snapshot.Sheep), nil
	case KindFinancial:
		return financialRows(agg), nil
	case KindHealth:
		return healthRows(health.Alerts(agg.Snapshot.HealthRecords, agg.Snapshot.Sheep)), nil
	case KindDebts:
		return debtRows(agg.Snapshot.Ledger, agg.Now), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownReportKind, kind)
	}
}

// OverviewRow combines flock, health, finance and ledger totals into one row.
// Finance figures only cover the window.
func OverviewRow(agg Aggregates) models.Row {
	snap := agg.Snapshot
	stats := flock.Summarize(snap.Sheep, agg.Now)
	scores := health.Summarize(health.AssessAll(snap.Sheep, agg.Now))
	figures := finance.Totals(
		finance.FilterWindow(snap.Revenue(), agg.Window, agg.Now),
		finance.FilterWindow(snap.Costs(), agg.Window, agg.Now),
	)
	debts := ledger.Outstanding(snap.Ledger)

	return models.NewRow(
		models.Field{Key: "report_type", Value: OverviewReportType},
		models.Field{Key: "total_sheep", Value: stats.Total},
		models.Field{Key: "healthy_sheep", Value: stats.Healthy},
		models.Field{Key: "sick_sheep", Value: stats.Sick},
		models.Field{Key: "pregnant_sheep", Value: stats.Pregnant},
		models.Field{Key: "average_health_score", Value: round1(scores.AverageScore)},
		models.Field{Key: "health_score", Value: stats.HealthyShare()},
		models.Field{Key: "total_revenue", Value: figures.Revenue},
		models.Field{Key: "total_expenses", Value: figures.Expenses},
		models.Field{Key: "net_profit", Value: figures.Profit},
		models.Field{Key: "total_debt", Value: debts.TotalDebt},
		models.Field{Key: "total_credit", Value: debts.TotalCredit},
		models.Field{Key: "net_position", Value: debts.NetPosition},
		models.Field{Key: "generated_date", Value: models.NewDate(agg.Now).String()},
		models.Field{Key: "date_range", Value: string(agg.Window)},
	)
}

func sheepRows(sheep []models.Sheep) []models.Row {
	rows := make([]models.Row, 0, len(sheep))
	for _, s := range sheep {
		rows = append(rows, models.NewRow(
			models.Field{Key: "id", Value: s.ID},
			models.Field{Key: "ear_tag", Value: s.EarTag},
			models.Field{Key: "breed", Value: s.Breed},
			models.Field{Key: "birth_date", Value: optionalDate(s.BirthDate)},
			models.Field{Key: "gender", Value: s.Gender},
			models.Field{Key: "weight", Value: optionalFloat(s.Weight)},
			models.Field{Key: "health_status", Value: string(s.HealthStatus)},
			models.Field{Key: "vaccination_status", Value: string(s.VaccinationStatus)},
			models.Field{Key: "estimated_value", Value: optionalFloat(s.EstimatedValue)},
			models.Field{Key: "notes", Value: s.Notes},
			models.Field{Key: "created_at", Value: s.CreatedAt},
		))
	}
	return rows
}

// financialRows lists revenue first, then expenses, both limited to the window.
func financialRows(agg Aggregates) []models.Row {
	revenue := finance.FilterWindow(agg.Snapshot.Revenue(), agg.Window, agg.Now)
	costs := finance.FilterWindow(agg.Snapshot.Costs(), agg.Window, agg.Now)

	rows := make([]models.Row, 0, len(revenue)+len(costs))
	for _, tx := range revenue {
		category := tx.TransactionType
		if category == "" {
			category = "Sale"
		}
		rows = append(rows, transactionRow(tx, "Revenue", category))
	}
	for _, tx := range costs {
		rows = append(rows, transactionRow(tx, "Expense", tx.Category))
	}
	return rows
}

func transactionRow(tx models.Transaction, label, category string) models.Row {
	return models.NewRow(
		models.Field{Key: "id", Value: tx.ID},
		models.Field{Key: "type", Value: label},
		models.Field{Key: "category", Value: category},
		models.Field{Key: "amount", Value: tx.Amount},
		models.Field{Key: "description", Value: tx.Description},
		models.Field{Key: "date", Value: tx.Date},
		models.Field{Key: "created_at", Value: tx.CreatedAt},
	)
}

func healthRows(alerts []models.HealthAlert) []models.Row {
	rows := make([]models.Row, 0, len(alerts))
	for _, a := range alerts {
		rows = append(rows, models.NewRow(
			models.Field{Key: "id", Value: a.ID},
			models.Field{Key: "sheep_id", Value: a.SheepID},
			models.Field{Key: "ear_tag", Value: a.EarTag},
			models.Field{Key: "breed", Value: a.Breed},
			models.Field{Key: "alert_type", Value: a.AlertType},
			models.Field{Key: "severity", Value: string(a.Severity)},
			models.Field{Key: "message", Value: a.Message},
			models.Field{Key: "created_at", Value: a.CreatedAt},
		))
	}
	return rows
}

func debtRows(records []models.LedgerRecord, now time.Time) []models.Row {
	rows := make([]models.Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, models.NewRow(
			models.Field{Key: "id", Value: r.ID},
			models.Field{Key: "type", Value: string(r.Type)},
			models.Field{Key: "counterparty", Value: r.Counterparty},
			models.Field{Key: "amount", Value: r.Amount},
			models.Field{Key: "paid_amount", Value: r.PaidAmount},
			models.Field{Key: "outstanding", Value: r.Outstanding()},
			models.Field{Key: "status", Value: string(r.Status)},
			models.Field{Key: "due_date", Value: optionalDate(r.DueDate)},
			models.Field{Key: "overdue", Value: ledger.IsOverdue(r, now)},
			models.Field{Key: "description", Value: r.Description},
			models.Field{Key: "reference", Value: r.Reference},
			models.Field{Key: "created_at", Value: r.CreatedAt},
		))
	}
	return rows
}

func optionalFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func optionalDate(d *models.Date) any {
	if d == nil || d.IsZero() {
		return nil
	}
	return *d
}
