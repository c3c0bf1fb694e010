package models

import "time"

// HealthRecordType classifies a health record entry.
type HealthRecordType string

const (
	RecordIllness     HealthRecordType = "illness"
	RecordCheckup     HealthRecordType = "checkup"
	RecordVaccination HealthRecordType = "vaccination"
	RecordTreatment   HealthRecordType = "treatment"
)

// Valid reports whether the record type is known.
func (t HealthRecordType) Valid() bool {
	switch t {
	case RecordIllness, RecordCheckup, RecordVaccination, RecordTreatment:
		return true
	}
	return false
}

// HealthRecord is a veterinary log entry for one animal.
type HealthRecord struct {
	ID          string           `json:"id" bson:"_id"`
	SheepID     string           `json:"sheep_id" bson:"sheep_id"`
	RecordType  HealthRecordType `json:"record_type" bson:"record_type"`
	Description string           `json:"description" bson:"description"`
	CreatedBy   string           `json:"created_by" bson:"created_by"`
	CreatedAt   time.Time        `json:"created_at" bson:"created_at"`
}

// Severity grades a health alert.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// HealthAlert is derived from illness and checkup records; it is never stored.
type HealthAlert struct {
	ID        string    `json:"id"`
	SheepID   string    `json:"sheep_id"`
	EarTag    string    `json:"ear_tag"`
	Breed     string    `json:"breed"`
	AlertType string    `json:"alert_type"`
	Severity  Severity  `json:"severity"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// RecordID implements repository.Record.
func (r HealthRecord) RecordID() string { return r.ID }
