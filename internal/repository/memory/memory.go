package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/mamadbah2/flock/internal/domain/models"
	"github.com/mamadbah2/flock/internal/repository"
)

// Table keeps records of one table in process. Filters and ordering work on
// the JSON column names, the same names PostgREST and MongoDB queries use.
type Table[T repository.Record] struct {
	mu   sync.RWMutex
	name string
	rows []T
}

// NewTable builds a table holding seed.
func NewTable[T repository.Record](name string, seed ...T) *Table[T] {
	rows := make([]T, len(seed))
	copy(rows, seed)
	return &Table[T]{name: name, rows: rows}
}

// NewStore returns an empty in-process store.
func NewStore() repository.Store {
	return repository.Store{
		Sheep:         NewTable[models.Sheep](repository.TableSheep),
		Sales:         NewTable[models.Sale](repository.TableSales),
		Expenses:      NewTable[models.Expense](repository.TableExpenses),
		Ledger:        NewTable[models.LedgerRecord](repository.TableLedger),
		HealthRecords: NewTable[models.HealthRecord](repository.TableHealthRecords),
		Users:         NewTable[models.User](repository.TableUsers),
		Snapshots:     NewTable[models.ReportSnapshot](repository.TableSnapshots),
	}
}

// List implements repository.Table.
func (t *Table[T]) List(ctx context.Context, q repository.Query) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t.mu.RLock()
	defer t.mu.RUnlock()

	type candidate struct {
		row T
		doc map[string]any
	}
	matched := make([]candidate, 0, len(t.rows))
	for _, row := range t.rows {
		doc, err := columns(row)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", t.name, err)
		}
		ok, err := matches(doc, q.Filters)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", t.name, err)
		}
		if ok {
			matched = append(matched, candidate{row: row, doc: doc})
		}
	}

	if q.OrderBy != "" {
		sort.SliceStable(matched, func(i, j int) bool {
			c := compare(matched[i].doc[q.OrderBy], matched[j].doc[q.OrderBy])
			if q.Descending {
				return c > 0
			}
			return c < 0
		})
	}
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}

	out := make([]T, 0, len(matched))
	for _, c := range matched {
		out = append(out, c.row)
	}
	return out, nil
}

// Insert implements repository.Table.
func (t *Table[T]) Insert(ctx context.Context, record T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id := record.RecordID()
	if id == "" {
		return fmt.Errorf("insert into %s: record has no id", t.name)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.indexOf(id) >= 0 {
		return fmt.Errorf("insert into %s: duplicate id %q", t.name, id)
	}
	t.rows = append(t.rows, record)
	return nil
}

// Update implements repository.Table.
func (t *Table[T]) Update(ctx context.Context, id string, record T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	i := t.indexOf(id)
	if i < 0 {
		return fmt.Errorf("update %s %q: %w", t.name, id, repository.ErrNotFound)
	}
	t.rows[i] = record
	return nil
}

// Delete implements repository.Table.
func (t *Table[T]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	i := t.indexOf(id)
	if i < 0 {
		return fmt.Errorf("delete %s %q: %w", t.name, id, repository.ErrNotFound)
	}
	t.rows = append(t.rows[:i], t.rows[i+1:]...)
	return nil
}

func (t *Table[T]) indexOf(id string) int {
	for i, row := range t.rows {
		if row.RecordID() == id {
			return i
		}
	}
	return -1
}

// columns flattens a record into its JSON columns.
func columns(record any) (map[string]any, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// scalar brings a filter value into the shape columns produces.
func scalar(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func matches(doc map[string]any, filters []repository.Filter) (bool, error) {
	for _, f := range filters {
		got := doc[f.Field]
		if f.Op == repository.OpIn {
			values, ok := f.Value.([]string)
			if !ok {
				return false, fmt.Errorf("in filter on %s needs []string, got %T", f.Field, f.Value)
			}
			if !containsString(values, fmt.Sprint(got)) {
				return false, nil
			}
			continue
		}

		want, err := scalar(f.Value)
		if err != nil {
			return false, fmt.Errorf("filter on %s: %w", f.Field, err)
		}
		c := compare(got, want)
		switch f.Op {
		case repository.OpEq:
			if c != 0 {
				return false, nil
			}
		case repository.OpGte:
			if got == nil || c < 0 {
				return false, nil
			}
		case repository.OpLte:
			if got == nil || c > 0 {
				return false, nil
			}
		default:
			return false, fmt.Errorf("unsupported operator %q", f.Op)
		}
	}
	return true, nil
}

// compare orders two JSON scalars; nil sorts first.
func compare(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	if x, ok := a.(float64); ok {
		if y, ok := b.(float64); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func containsString(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
