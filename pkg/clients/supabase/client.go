package supabase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/flock/internal/config"
	"github.com/mamadbah2/flock/internal/domain/models"
	"github.com/mamadbah2/flock/internal/repository"
)

// Client talks to the PostgREST endpoint of a Supabase project.
type Client struct {
	httpClient *resty.Client
}

// NewClient builds a PostgREST client using the provided configuration values.
func NewClient(cfg config.SupabaseConfig) *Client {
	base := strings.TrimSuffix(cfg.URL, "/")
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	schema := cfg.Schema
	if schema == "" {
		schema = "public"
	}

	restyClient := resty.New()
	restyClient.
		SetBaseURL(fmt.Sprintf("%s/rest/v1", base)).
		SetHeader("apikey", cfg.ServiceKey).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.ServiceKey)).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept-Profile", schema).
		SetHeader("Content-Profile", schema).
		SetTimeout(timeout)

	return &Client{httpClient: restyClient}
}

// Store exposes every dashboard table through this client.
func (c *Client) Store() repository.Store {
	return repository.Store{
		Sheep:         NewTable[models.Sheep](c, repository.TableSheep),
		Sales:         NewTable[models.Sale](c, repository.TableSales),
		Expenses:      NewTable[models.Expense](c, repository.TableExpenses),
		Ledger:        NewTable[models.LedgerRecord](c, repository.TableLedger),
		HealthRecords: NewTable[models.HealthRecord](c, repository.TableHealthRecords),
		Users:         NewTable[models.User](c, repository.TableUsers),
		Snapshots:     NewTable[models.ReportSnapshot](c, repository.TableSnapshots),
	}
}

// apiError represents a PostgREST error payload.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func checkResponse(resp *resty.Response, apiErr *apiError, action string) error {
	if resp.StatusCode() < http.StatusBadRequest {
		return nil
	}
	message := apiErr.Message
	if message == "" {
		message = resp.Status()
	}
	return fmt.Errorf("%s: postgrest error: status=%d, code=%s, message=%s", action, resp.StatusCode(), apiErr.Code, message)
}

// Table implements repository.Table over one PostgREST table.
type Table[T repository.Record] struct {
	client *Client
	name   string
}

// NewTable binds a table name to the client.
func NewTable[T repository.Record](c *Client, name string) *Table[T] {
	return &Table[T]{client: c, name: name}
}

// List implements repository.Table.
func (t *Table[T]) List(ctx context.Context, q repository.Query) ([]T, error) {
	params, err := queryParams(q)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.name, err)
	}

	var result []T
	apiErr := new(apiError)
	resp, err := t.client.httpClient.R().
		SetContext(ctx).
		SetQueryParamsFromValues(params).
		SetResult(&result).
		SetError(apiErr).
		Get(t.name)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.name, err)
	}
	if err := checkResponse(resp, apiErr, "list "+t.name); err != nil {
		return nil, err
	}
	if result == nil {
		result = []T{}
	}
	return result, nil
}

// Insert implements repository.Table.
func (t *Table[T]) Insert(ctx context.Context, record T) error {
	apiErr := new(apiError)
	resp, err := t.client.httpClient.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=minimal").
		SetBody([]T{record}).
		SetError(apiErr).
		Post(t.name)
	if err != nil {
		return fmt.Errorf("insert into %s: %w", t.name, err)
	}
	return checkResponse(resp, apiErr, "insert into "+t.name)
}

// Update implements repository.Table.
func (t *Table[T]) Update(ctx context.Context, id string, record T) error {
	var result []T
	apiErr := new(apiError)
	resp, err := t.client.httpClient.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=representation").
		SetQueryParam("id", "eq."+id).
		SetBody(record).
		SetResult(&result).
		SetError(apiErr).
		Patch(t.name)
	if err != nil {
		return fmt.Errorf("update %s %q: %w", t.name, id, err)
	}
	if err := checkResponse(resp, apiErr, "update "+t.name); err != nil {
		return err
	}
	if len(result) == 0 {
		return fmt.Errorf("update %s %q: %w", t.name, id, repository.ErrNotFound)
	}
	return nil
}

// Delete implements repository.Table.
func (t *Table[T]) Delete(ctx context.Context, id string) error {
	var result []T
	apiErr := new(apiError)
	resp, err := t.client.httpClient.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=representation").
		SetQueryParam("id", "eq."+id).
		SetResult(&result).
		SetError(apiErr).
		Delete(t.name)
	if err != nil {
		return fmt.Errorf("delete %s %q: %w", t.name, id, err)
	}
	if err := checkResponse(resp, apiErr, "delete "+t.name); err != nil {
		return err
	}
	if len(result) == 0 {
		return fmt.Errorf("delete %s %q: %w", t.name, id, repository.ErrNotFound)
	}
	return nil
}

// queryParams renders a query in PostgREST's horizontal filtering syntax.
func queryParams(q repository.Query) (url.Values, error) {
	params := url.Values{}
	params.Set("select", "*")
	for _, f := range q.Filters {
		switch f.Op {
		case repository.OpIn:
			values, ok := f.Value.([]string)
			if !ok {
				return nil, fmt.Errorf("in filter on %s needs []string, got %T", f.Field, f.Value)
			}
			quoted := make([]string, 0, len(values))
			for _, v := range values {
				quoted = append(quoted, strconv.Quote(v))
			}
			params.Add(f.Field, fmt.Sprintf("in.(%s)", strings.Join(quoted, ",")))
		case repository.OpEq, repository.OpGte, repository.OpLte:
			params.Add(f.Field, fmt.Sprintf("%s.%s", f.Op, formatValue(f.Value)))
		default:
			return nil, fmt.Errorf("unsupported filter operator %q", f.Op)
		}
	}
	if q.OrderBy != "" {
		direction := "asc"
		if q.Descending {
			direction = "desc"
		}
		params.Set("order", fmt.Sprintf("%s.%s", q.OrderBy, direction))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	return params, nil
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case models.Date:
		return val.String()
	case time.Time:
		return val.UTC().Format(time.RFC3339)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
