package supabase

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/flock/internal/config"
	"github.com/mamadbah2/flock/internal/domain/models"
	"github.com/mamadbah2/flock/internal/repository"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(config.SupabaseConfig{URL: server.URL + "/", ServiceKey: "service-key", Schema: "farm"})
}

func TestQueryParams(t *testing.T) {
	q := repository.Query{}.
		Eq("created_by", "u1").
		Gte("date", models.MustDate("2024-03-01")).
		Lte("date", models.MustDate("2024-03-31")).
		In("record_type", "illness", "checkup").
		Order("date", true).
		Take(200)

	params, err := queryParams(q)
	require.NoError(t, err)

	assert.Equal(t, "*", params.Get("select"))
	assert.Equal(t, []string{"eq.u1"}, params["created_by"])
	assert.Equal(t, []string{"gte.2024-03-01", "lte.2024-03-31"}, params["date"])
	assert.Equal(t, []string{`in.("illness","checkup")`}, params["record_type"])
	assert.Equal(t, "date.desc", params.Get("order"))
	assert.Equal(t, "200", params.Get("limit"))
}

func TestTableList(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/rest/v1/expenses", r.URL.Path)
		assert.Equal(t, "service-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer service-key", r.Header.Get("Authorization"))
		assert.Equal(t, "farm", r.Header.Get("Accept-Profile"))
		assert.Equal(t, "eq.feed", r.URL.Query().Get("category"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"id":"e1","category":"feed","amount":500,"date":"2024-03-15","created_by":"u1","created_at":"2024-03-15T10:00:00Z"}]`)
	})

	got, err := NewTable[models.Expense](client, repository.TableExpenses).
		List(context.Background(), repository.Query{}.Eq("category", "feed"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 500.0, got[0].Amount)
	assert.Equal(t, "2024-03-15", got[0].Date.String())
}

func TestTableInsert(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "return=minimal", r.Header.Get("Prefer"))

		var body []map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body, 1)
		assert.Equal(t, "s1", body[0]["id"])
		w.WriteHeader(http.StatusCreated)
	})

	err := NewTable[models.Sheep](client, repository.TableSheep).
		Insert(context.Background(), models.Sheep{ID: "s1", EarTag: "T1"})
	require.NoError(t, err)
}

func TestTableUpdateNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "eq.missing", r.URL.Query().Get("id"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[]`)
	})

	err := NewTable[models.LedgerRecord](client, repository.TableLedger).
		Update(context.Background(), "missing", models.LedgerRecord{ID: "missing"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTableDelete(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"id":"u1","role":"farmer"}]`)
	})

	err := NewTable[models.User](client, repository.TableUsers).Delete(context.Background(), "u1")
	assert.NoError(t, err)
}

func TestTableSurfacesAPIErrors(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"code":"42703","message":"column sheep.colour does not exist"}`)
	})

	_, err := NewTable[models.Sheep](client, repository.TableSheep).
		List(context.Background(), repository.Query{}.Eq("colour", "black"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "column sheep.colour does not exist")
}
