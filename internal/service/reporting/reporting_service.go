package reporting

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mamadbah2/flock/internal/domain/models"
	"github.com/mamadbah2/flock/internal/repository"
	"github.com/mamadbah2/flock/internal/service/finance"
	"github.com/mamadbah2/flock/internal/service/health"
)

// Service loads dashboard collections and assembles reports from them.
type Service struct {
	store  repository.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a new reporting service instance.
func NewService(store repository.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger.Named("svc.reporting"), now: time.Now}
}

// Now returns the service clock.
func (s *Service) Now() time.Time {
	return s.now()
}

// Needs selects the collections a view depends on.
type Needs struct {
	Sheep         bool
	Sales         bool
	Expenses      bool
	Ledger        bool
	HealthRecords bool

	// Window restricts sales and expenses by date. Empty loads everything.
	Window finance.Window
	// Owner scopes the sheep list to one creator when set.
	Owner string
	// SheepLimit caps the sheep list when positive.
	SheepLimit int
}

// Everything is the needs of the report and overview views.
func Everything(window finance.Window) Needs {
	return Needs{Sheep: true, Sales: true, Expenses: true, Ledger: true, HealthRecords: true, Window: window}
}

// Snapshot is one consistent read of the collections a view needs.
type Snapshot struct {
	Sheep         []models.Sheep
	Sales         []models.Sale
	Expenses      []models.Expense
	Ledger        []models.LedgerRecord
	HealthRecords []models.HealthRecord
}

// Revenue relabels the sales into transactions.
func (s Snapshot) Revenue() []models.Transaction {
	return models.SalesAsTransactions(s.Sales)
}

// Costs relabels the expenses into transactions.
func (s Snapshot) Costs() []models.Transaction {
	return models.ExpensesAsTransactions(s.Expenses)
}

// Load fetches the requested collections concurrently and waits for all of
// them. A failed fetch is logged and yields an empty collection; only a
// cancelled context is returned as an error.
func (s *Service) Load(ctx context.Context, needs Needs) (Snapshot, error) {
	var snap Snapshot
	g, gctx := errgroup.WithContext(ctx)

	if needs.Sheep {
		q := repository.Query{}.Order("created_at", true)
		if needs.Owner != "" {
			q = q.Eq("created_by", needs.Owner)
		}
		if needs.SheepLimit > 0 {
			q = q.Take(needs.SheepLimit)
		}
		g.Go(fetch(gctx, s.logger, repository.TableSheep, s.store.Sheep, q, &snap.Sheep))
	}
	if needs.Sales {
		q := s.datedQuery(needs.Window)
		g.Go(fetch(gctx, s.logger, repository.TableSales, s.store.Sales, q, &snap.Sales))
	}
	if needs.Expenses {
		q := s.datedQuery(needs.Window)
		g.Go(fetch(gctx, s.logger, repository.TableExpenses, s.store.Expenses, q, &snap.Expenses))
	}
	if needs.Ledger {
		q := repository.Query{}.Order("created_at", true)
		g.Go(fetch(gctx, s.logger, repository.TableLedger, s.store.Ledger, q, &snap.Ledger))
	}
	if needs.HealthRecords {
		types := make([]string, 0, len(health.AlertRecordTypes))
		for _, t := range health.AlertRecordTypes {
			types = append(types, string(t))
		}
		q := repository.Query{}.In("record_type", types...).Order("created_at", true).Take(health.MaxAlerts)
		g.Go(fetch(gctx, s.logger, repository.TableHealthRecords, s.store.HealthRecords, q, &snap.HealthRecords))
	}

	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

func (s *Service) datedQuery(window finance.Window) repository.Query {
	q := repository.Query{}.Order("date", true)
	if from, to, ok := window.Bounds(s.now()); ok {
		q = q.Gte("date", from).Lte("date", to)
	}
	return q
}

// fetch lists one table into dst. Store errors degrade to an empty
// collection so aggregations still run.
func fetch[T repository.Record](ctx context.Context, logger *zap.Logger, name string, table repository.Table[T], q repository.Query, dst *[]T) func() error {
	return func() error {
		*dst = []T{}
		if table == nil {
			logger.Warn("table not configured, using empty collection", zap.String("table", name))
			return nil
		}
		rows, err := table.List(ctx, q)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			logger.Warn("fetch failed, using empty collection", zap.String("table", name), zap.Error(err))
			return nil
		}
		*dst = rows
		return nil
	}
}
