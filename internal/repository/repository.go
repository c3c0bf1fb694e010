package repository

import (
	"context"
	"errors"

	"github.com/mamadbah2/flock/internal/domain/models"
)

// ErrNotFound is returned when an update or delete targets a missing id.
var ErrNotFound = errors.New("record not found")

// Table names shared by every backend.
const (
	TableSheep         = "sheep"
	TableSales         = models.TableSales
	TableExpenses      = models.TableExpenses
	TableLedger        = models.TableLedger
	TableHealthRecords = "health_records"
	TableUsers         = "users"
	TableSnapshots     = "report_snapshots"
)

// Record is implemented by every stored entity.
type Record interface {
	RecordID() string
}

// Table is the read/write capability the dashboard needs from one table.
type Table[T Record] interface {
	List(ctx context.Context, q Query) ([]T, error)
	Insert(ctx context.Context, record T) error
	Update(ctx context.Context, id string, record T) error
	Delete(ctx context.Context, id string) error
}

// Store groups the tables of the dashboard.
type Store struct {
	Sheep         Table[models.Sheep]
	Sales         Table[models.Sale]
	Expenses      Table[models.Expense]
	Ledger        Table[models.LedgerRecord]
	HealthRecords Table[models.HealthRecord]
	Users         Table[models.User]
	Snapshots     Table[models.ReportSnapshot]
}
