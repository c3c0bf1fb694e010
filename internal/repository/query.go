package repository

// Op is a comparison supported by every backend.
type Op string

const (
	OpEq  Op = "eq"
	OpIn  Op = "in"
	OpGte Op = "gte"
	OpLte Op = "lte"
)

// Filter restricts one column. In filters carry a []string value.
type Filter struct {
	Field string
	Op    Op
	Value any
}

// Query is a list request: conjunctive filters, one sort column and a limit.
// A zero Limit means no limit.
type Query struct {
	Filters    []Filter
	OrderBy    string
	Descending bool
	Limit      int
}

// Eq adds an equality filter.
func (q Query) Eq(field string, value any) Query {
	return q.where(field, OpEq, value)
}

// In adds a membership filter.
func (q Query) In(field string, values ...string) Query {
	return q.where(field, OpIn, values)
}

// Gte adds an inclusive lower bound.
func (q Query) Gte(field string, value any) Query {
	return q.where(field, OpGte, value)
}

// Lte adds an inclusive upper bound.
func (q Query) Lte(field string, value any) Query {
	return q.where(field, OpLte, value)
}

// Order sorts by field.
func (q Query) Order(field string, descending bool) Query {
	q.OrderBy, q.Descending = field, descending
	return q
}

// Take caps the number of records returned.
func (q Query) Take(limit int) Query {
	q.Limit = limit
	return q
}

func (q Query) where(field string, op Op, value any) Query {
	filters := make([]Filter, len(q.Filters), len(q.Filters)+1)
	copy(filters, q.Filters)
	q.Filters = append(filters, Filter{Field: field, Op: op, Value: value})
	return q
}
