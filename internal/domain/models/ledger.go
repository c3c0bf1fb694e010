package models

import "time"

// TableLedger is the debt/credit table.
const TableLedger = "debts_credits"

// LedgerType is the side of a ledger record.
type LedgerType string

const (
	LedgerDebt   LedgerType = "debt"
	LedgerCredit LedgerType = "credit"
)

// Valid reports whether the type is debt or credit.
func (t LedgerType) Valid() bool {
	return t == LedgerDebt || t == LedgerCredit
}

// LedgerStatus is the settlement state of a ledger record.
type LedgerStatus string

const (
	LedgerPending LedgerStatus = "pending"
	LedgerPartial LedgerStatus = "partial"
	LedgerPaid    LedgerStatus = "paid"
)

// Valid reports whether the status is one of the enumerated values.
func (s LedgerStatus) Valid() bool {
	switch s {
	case LedgerPending, LedgerPartial, LedgerPaid:
		return true
	}
	return false
}

// LedgerRecord is a debt owed by the farm or a credit owed to it.
// PaidAmount is expected to stay within [0, Amount] but is stored as entered.
type LedgerRecord struct {
	ID           string       `json:"id" bson:"_id"`
	Type         LedgerType   `json:"type" bson:"type"`
	Amount       float64      `json:"amount" bson:"amount"`
	PaidAmount   float64      `json:"paid_amount" bson:"paid_amount"`
	Counterparty string       `json:"counterparty" bson:"counterparty"`
	Description  string       `json:"description" bson:"description"`
	DueDate      *Date        `json:"due_date" bson:"due_date"`
	Status       LedgerStatus `json:"status" bson:"status"`
	Reference    string       `json:"reference,omitempty" bson:"reference,omitempty"`
	CreatedBy    string       `json:"created_by" bson:"created_by"`
	CreatedAt    time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" bson:"updated_at"`
}

// Outstanding is the unpaid remainder of the record.
func (r LedgerRecord) Outstanding() float64 {
	return r.Amount - r.PaidAmount
}

// RecordID implements repository.Record.
func (r LedgerRecord) RecordID() string { return r.ID }
