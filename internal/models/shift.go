package models

import "time"

// ShiftStatus is the lifecycle state of a driver shift.
type ShiftStatus string

const (
	ShiftOpen   ShiftStatus = "OPEN"
	ShiftClosed ShiftStatus = "CLOSED"
)

// ChecklistResult maps checklist item names to pass/fail.
type ChecklistResult map[string]bool

// FailedItems returns the names of checklist items that did not pass.
func (c ChecklistResult) FailedItems() []string {
	var failed []string
	for name, ok := range c {
		if !ok {
			failed = append(failed, name)
		}
	}
	return failed
}

// DamageReport describes damage found during a shift checklist.
type DamageReport struct {
	Kind        string   `bson:"kind" json:"kind"`
	Severity    string   `bson:"severity" json:"severity"`
	Description string   `bson:"description" json:"description"`
	Photos      []string `bson:"photos,omitempty" json:"photos,omitempty"`
}

// Shift is a driver's vehicle-usage session bounded by a start and end
// checklist/odometer reading. A vehicle has at most one OPEN shift at a time.
type Shift struct {
	ID            string          `bson:"_id,omitempty" json:"id"`
	VehicleID     string          `bson:"vehicle_id" json:"vehicle_id"`
	Driver        string          `bson:"driver" json:"driver"`
	StartedAt     time.Time       `bson:"started_at" json:"started_at"`
	EndedAt       *time.Time      `bson:"ended_at,omitempty" json:"ended_at,omitempty"`
	StartOdometer int             `bson:"start_odometer" json:"start_odometer"`
	EndOdometer   *int            `bson:"end_odometer,omitempty" json:"end_odometer,omitempty"`
	Checklist     ChecklistResult `bson:"checklist,omitempty" json:"checklist,omitempty"`
	Damage        *DamageReport   `bson:"damage,omitempty" json:"damage,omitempty"`
	SignatureURL  string          `bson:"signature_url,omitempty" json:"signature_url,omitempty"`
	Status        ShiftStatus     `bson:"status" json:"status"`
}
