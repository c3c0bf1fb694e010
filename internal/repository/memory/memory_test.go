package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/flock/internal/domain/models"
	"github.com/mamadbah2/flock/internal/repository"
)

func expenses() *Table[models.Expense] {
	return NewTable(repository.TableExpenses,
		models.Expense{ID: "e1", Category: "feed", Amount: 500, Date: models.MustDate("2024-03-15"), CreatedBy: "u1"},
		models.Expense{ID: "e2", Category: "medical", Amount: 80, Date: models.MustDate("2024-02-01"), CreatedBy: "u2"},
		models.Expense{ID: "e3", Category: "feed", Amount: 120, Date: models.MustDate("2024-03-31"), CreatedBy: "u1"},
	)
}

func ids(rows []models.Expense) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ID)
	}
	return out
}

func TestTableList(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name  string
		query repository.Query
		want  []string
	}{
		{name: "all", query: repository.Query{}, want: []string{"e1", "e2", "e3"}},
		{name: "eq", query: repository.Query{}.Eq("created_by", "u1"), want: []string{"e1", "e3"}},
		{name: "in", query: repository.Query{}.In("category", "medical", "labour"), want: []string{"e2"}},
		{
			name:  "date range inclusive",
			query: repository.Query{}.Gte("date", models.MustDate("2024-03-01")).Lte("date", models.MustDate("2024-03-31")),
			want:  []string{"e1", "e3"},
		},
		{name: "numeric bound", query: repository.Query{}.Gte("amount", 100), want: []string{"e1", "e3"}},
		{name: "order descending", query: repository.Query{}.Order("date", true), want: []string{"e3", "e1", "e2"}},
		{name: "order by amount with limit", query: repository.Query{}.Order("amount", false).Take(2), want: []string{"e2", "e3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := expenses().List(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestTableWrites(t *testing.T) {
	ctx := context.Background()
	table := expenses()

	require.NoError(t, table.Insert(ctx, models.Expense{ID: "e4", Category: "labour", Amount: 40}))
	assert.Error(t, table.Insert(ctx, models.Expense{ID: "e4"}))
	assert.Error(t, table.Insert(ctx, models.Expense{}))

	require.NoError(t, table.Update(ctx, "e4", models.Expense{ID: "e4", Category: "labour", Amount: 45}))
	got, err := table.List(ctx, repository.Query{}.Eq("id", "e4"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 45.0, got[0].Amount)

	require.NoError(t, table.Delete(ctx, "e4"))
	assert.ErrorIs(t, table.Delete(ctx, "e4"), repository.ErrNotFound)
	assert.ErrorIs(t, table.Update(ctx, "missing", models.Expense{}), repository.ErrNotFound)
}

func TestTableRespectsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := expenses().List(ctx, repository.Query{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewStoreUsesCanonicalRoles(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	require.NoError(t, store.Users.Insert(ctx, models.User{ID: "u1", Role: models.RoleStaff, CreatedAt: time.Now()}))
	got, err := store.Users.List(ctx, repository.Query{}.Eq("role", "staff"))
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
