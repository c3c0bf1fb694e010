package models

import (
	"fmt"
	"time"
)

// Table names of the two finance sources. They double as the origin tag on a
// materialized Transaction.
const (
	TableSales    = "sales_records"
	TableExpenses = "expenses"
)

// SaleCategory is the category every revenue entry is relabelled with.
const SaleCategory = "sale"

// ExpenseCategories lists the categories offered by the expense forms. Other
// values are accepted as free-form text.
var ExpenseCategories = []string{"feed", "medical", "equipment", "maintenance", "labour", "other"}

// TransactionKind tells revenue and expense entries apart.
type TransactionKind string

const (
	KindRevenue TransactionKind = "revenue"
	KindExpense TransactionKind = "expense"
)

// Sale is a row of the sales stream.
type Sale struct {
	ID              string    `json:"id" bson:"_id"`
	SheepID         *string   `json:"sheep_id" bson:"sheep_id"`
	TransactionType string    `json:"transaction_type" bson:"transaction_type"`
	Amount          float64   `json:"amount" bson:"amount"`
	BuyerSeller     string    `json:"buyer_seller" bson:"buyer_seller"`
	Date            Date      `json:"date" bson:"date"`
	CreatedBy       string    `json:"created_by" bson:"created_by"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"`
}

// Expense is a row of the expenses table.
type Expense struct {
	ID          string    `json:"id" bson:"_id"`
	Category    string    `json:"category" bson:"category"`
	Amount      float64   `json:"amount" bson:"amount"`
	Description string    `json:"description" bson:"description"`
	Date        Date      `json:"date" bson:"date"`
	CreatedBy   string    `json:"created_by" bson:"created_by"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

// Transaction is the shared shape revenue and expenses are aggregated in.
// Origin records which table the row was read from so it can be written back
// to, or deleted from, exactly that table.
type Transaction struct {
	ID              string          `json:"id"`
	Kind            TransactionKind `json:"type"`
	Origin          string          `json:"origin"`
	Category        string          `json:"category"`
	TransactionType string          `json:"transaction_type,omitempty"`
	Amount          float64         `json:"amount"`
	Description     string          `json:"description"`
	Date            Date            `json:"date"`
	CreatedBy       string          `json:"created_by"`
	CreatedAt       time.Time       `json:"created_at"`
}

// AsTransaction relabels a sale into the shared shape.
func (s Sale) AsTransaction() Transaction {
	return Transaction{
		ID:              s.ID,
		Kind:            KindRevenue,
		Origin:          TableSales,
		Category:        SaleCategory,
		TransactionType: s.TransactionType,
		Amount:          s.Amount,
		Description:     s.BuyerSeller,
		Date:            s.Date,
		CreatedBy:       s.CreatedBy,
		CreatedAt:       s.CreatedAt,
	}
}

// AsTransaction relabels an expense into the shared shape.
func (e Expense) AsTransaction() Transaction {
	return Transaction{
		ID:          e.ID,
		Kind:        KindExpense,
		Origin:      TableExpenses,
		Category:    e.Category,
		Amount:      e.Amount,
		Description: e.Description,
		Date:        e.Date,
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
	}
}

// SalesAsTransactions relabels a sales collection.
func SalesAsTransactions(sales []Sale) []Transaction {
	out := make([]Transaction, 0, len(sales))
	for _, s := range sales {
		out = append(out, s.AsTransaction())
	}
	return out
}

// ExpensesAsTransactions relabels an expense collection.
func ExpensesAsTransactions(expenses []Expense) []Transaction {
	out := make([]Transaction, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, e.AsTransaction())
	}
	return out
}

// OriginForKind maps a transaction kind to the table it is stored in.
func OriginForKind(kind TransactionKind) (string, error) {
	switch kind {
	case KindRevenue:
		return TableSales, nil
	case KindExpense:
		return TableExpenses, nil
	default:
		return "", fmt.Errorf("unknown transaction type %q", kind)
	}
}

// ValidOrigin reports whether origin names one of the finance tables.
func ValidOrigin(origin string) bool {
	return origin == TableSales || origin == TableExpenses
}

// RecordID implements repository.Record.
func (s Sale) RecordID() string { return s.ID }

// RecordID implements repository.Record.
func (e Expense) RecordID() string { return e.ID }
