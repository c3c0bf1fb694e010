package models

import (
	"fmt"
	"math"
	"time"
)

// HealthStatus enumerates the recorded condition of an animal.
type HealthStatus string

const (
	HealthHealthy    HealthStatus = "healthy"
	HealthSick       HealthStatus = "sick"
	HealthRecovering HealthStatus = "recovering"
	HealthPregnant   HealthStatus = "pregnant"
)

// Valid reports whether the status is one of the enumerated values.
func (s HealthStatus) Valid() bool {
	switch s {
	case HealthHealthy, HealthSick, HealthRecovering, HealthPregnant:
		return true
	}
	return false
}

// VaccinationStatus enumerates how current an animal's vaccinations are.
type VaccinationStatus string

const (
	VaccinationUpToDate VaccinationStatus = "up_to_date"
	VaccinationDue      VaccinationStatus = "due"
	VaccinationOverdue  VaccinationStatus = "overdue"
)

// Valid reports whether the status is one of the enumerated values.
func (s VaccinationStatus) Valid() bool {
	switch s {
	case VaccinationUpToDate, VaccinationDue, VaccinationOverdue:
		return true
	}
	return false
}

// Sheep is one animal of the flock. Weight, birth date and estimated value are
// optional; nil means the field was never recorded.
type Sheep struct {
	ID                string            `json:"id" bson:"_id"`
	EarTag            string            `json:"ear_tag" bson:"ear_tag"`
	Breed             string            `json:"breed" bson:"breed"`
	BirthDate         *Date             `json:"birth_date" bson:"birth_date"`
	Gender            string            `json:"gender" bson:"gender"`
	Weight            *float64          `json:"weight" bson:"weight"`
	HealthStatus      HealthStatus      `json:"health_status" bson:"health_status"`
	VaccinationStatus VaccinationStatus `json:"vaccination_status" bson:"vaccination_status"`
	EstimatedValue    *float64          `json:"estimated_value" bson:"estimated_value"`
	Notes             string            `json:"notes" bson:"notes"`
	MotherID          *string           `json:"mother_id" bson:"mother_id"`
	FatherID          *string           `json:"father_id" bson:"father_id"`
	CreatedBy         string            `json:"created_by" bson:"created_by"`
	CreatedAt         time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at" bson:"updated_at"`
}

// Validate checks the enumerated fields.
func (s Sheep) Validate() error {
	if s.EarTag == "" {
		return fmt.Errorf("ear tag must be provided")
	}
	if !s.HealthStatus.Valid() {
		return fmt.Errorf("invalid health status %q", s.HealthStatus)
	}
	if !s.VaccinationStatus.Valid() {
		return fmt.Errorf("invalid vaccination status %q", s.VaccinationStatus)
	}
	return nil
}

// AgeMonths returns the animal's age in months (days / 30.44, floored) and
// whether a birth date is known.
func (s Sheep) AgeMonths(now time.Time) (int, bool) {
	if s.BirthDate == nil || s.BirthDate.IsZero() {
		return 0, false
	}
	days := now.Sub(s.BirthDate.Time).Hours() / 24
	return int(math.Floor(days / 30.44)), true
}

// LastUpdated returns UpdatedAt, or CreatedAt when the record was never edited.
func (s Sheep) LastUpdated() time.Time {
	if !s.UpdatedAt.IsZero() {
		return s.UpdatedAt
	}
	return s.CreatedAt
}

// RecordID implements repository.Record.
func (s Sheep) RecordID() string { return s.ID }
