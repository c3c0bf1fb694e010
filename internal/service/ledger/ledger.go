package ledger

import (
	"fmt"
	"time"

	"github.com/mamadbah2/flock/internal/domain/models"
)

const (
	activityMonths = 6

	labelOutstandingDebts   = "Outstanding Debts"
	labelOutstandingCredits = "Outstanding Credits"
)

// Totals are the outstanding balances of a ledger.
type Totals struct {
	TotalDebt   float64 `json:"total_debt"`
	TotalCredit float64 `json:"total_credit"`
	NetPosition float64 `json:"net_position"`
}

// Outstanding sums the unpaid remainder of every record not marked paid.
// NetPosition is credits minus debts.
func Outstanding(records []models.LedgerRecord) Totals {
	var totals Totals
	for _, r := range records {
		if r.Status == models.LedgerPaid {
			continue
		}
		switch r.Type {
		case models.LedgerDebt:
			totals.TotalDebt += r.Outstanding()
		case models.LedgerCredit:
			totals.TotalCredit += r.Outstanding()
		}
	}
	totals.NetPosition = totals.TotalCredit - totals.TotalDebt
	return totals
}

// Slice is one entry of the outstanding pie chart.
type Slice struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Breakdown charts outstanding debts against credits, omitting zero entries.
func Breakdown(totals Totals) []Slice {
	out := make([]Slice, 0, 2)
	for _, s := range []Slice{
		{Label: labelOutstandingDebts, Value: totals.TotalDebt},
		{Label: labelOutstandingCredits, Value: totals.TotalCredit},
	} {
		if s.Value != 0 {
			out = append(out, s)
		}
	}
	return out
}

// MonthActivity is the face value of debts and credits opened in a month.
type MonthActivity struct {
	Month   string  `json:"month"`
	Debts   float64 `json:"debts"`
	Credits float64 `json:"credits"`
}

// MonthlyActivity buckets records by the month they were created in, over the
// six months ending at now's month, in now's location. Amounts are face
// values, not balances.
func MonthlyActivity(records []models.LedgerRecord, now time.Time) []MonthActivity {
	out := make([]MonthActivity, 0, activityMonths)
	for i := activityMonths - 1; i >= 0; i-- {
		month := time.Date(now.Year(), now.Month()-time.Month(i), 1, 0, 0, 0, 0, now.Location())
		point := MonthActivity{Month: month.Format("Jan 06")}
		for _, r := range records {
			if r.CreatedAt.IsZero() || r.CreatedAt.In(now.Location()).Format("2006-01") != month.Format("2006-01") {
				continue
			}
			switch r.Type {
			case models.LedgerDebt:
				point.Debts += r.Amount
			case models.LedgerCredit:
				point.Credits += r.Amount
			}
		}
		out = append(out, point)
	}
	return out
}

// IsOverdue reports whether an unpaid record's due date lies before today.
func IsOverdue(r models.LedgerRecord, now time.Time) bool {
	if r.DueDate == nil || r.DueDate.IsZero() || r.Status == models.LedgerPaid {
		return false
	}
	return r.DueDate.Before(models.NewDate(now))
}

// Filter selects the records shown by the ledger list.
type Filter string

const (
	FilterAll     Filter = "all"
	FilterDebts   Filter = "debts"
	FilterCredits Filter = "credits"
	FilterPending Filter = "pending"
	FilterOverdue Filter = "overdue"
)

// ParseFilter validates a filter name. An empty name selects FilterAll.
func ParseFilter(raw string) (Filter, error) {
	switch f := Filter(raw); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterDebts, FilterCredits, FilterPending, FilterOverdue:
		return f, nil
	default:
		return "", fmt.Errorf("unknown ledger filter %q", raw)
	}
}

// Apply keeps the records matching f, preserving order.
func Apply(records []models.LedgerRecord, f Filter, now time.Time) []models.LedgerRecord {
	out := make([]models.LedgerRecord, 0, len(records))
	for _, r := range records {
		if f.matches(r, now) {
			out = append(out, r)
		}
	}
	return out
}

func (f Filter) matches(r models.LedgerRecord, now time.Time) bool {
	switch f {
	case FilterDebts:
		return r.Type == models.LedgerDebt
	case FilterCredits:
		return r.Type == models.LedgerCredit
	case FilterPending:
		return r.Status == models.LedgerPending
	case FilterOverdue:
		return IsOverdue(r, now)
	default:
		return true
	}
}

// LinkFromTransaction drafts a pending ledger record for a finance
// transaction, referencing it by origin table and id.
func LinkFromTransaction(tx models.Transaction, kind models.LedgerType, createdBy string) (models.LedgerRecord, error) {
	if !kind.Valid() {
		return models.LedgerRecord{}, fmt.Errorf("invalid ledger type %q", kind)
	}
	description := tx.Description
	if description == "" {
		description = "Financial transaction"
	}
	counterparty := tx.Description
	if counterparty == "" {
		counterparty = "Supplier"
		if kind == models.LedgerCredit {
			counterparty = "Customer"
		}
	}
	return models.LedgerRecord{
		Type:         kind,
		Amount:       tx.Amount,
		Counterparty: counterparty,
		Description:  fmt.Sprintf("Linked to %s: %s", tx.Kind, description),
		Status:       models.LedgerPending,
		Reference:    fmt.Sprintf("Finance Record: %s/%s", tx.Origin, tx.ID),
		CreatedBy:    createdBy,
	}, nil
}
