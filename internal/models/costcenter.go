package models

import (
	"strings"
)

// CostCenter is a budget-owning organizational unit that vehicles, service
// orders and fuel entries are attributed to.
type CostCenter struct {
	RowID   string  `bson:"_id,omitempty" json:"row_id,omitempty"`
	ID      string  `bson:"center_id" json:"id"`
	Name    string  `bson:"name" json:"name"`
	Company string  `bson:"company" json:"company"`
	Budget  float64 `bson:"budget" json:"budget"`
	Color   string  `bson:"color" json:"color"`
}

// CostCenterRef is the parsed form of the loose cost-center reference string
// carried by vehicles, orders, fuel entries and users ("12 - Fleet A").
// It is produced once at mapping time so every join in the system uses the
// same parse instead of re-splitting raw labels ad hoc.
type CostCenterRef struct {
	ID    string `bson:"id" json:"id"`       // leading token, "" when unset
	Label string `bson:"label" json:"label"` // raw reference string
}

// ParseCostCenterRef splits a raw cost-center reference into its leading
// token and keeps the original label. The token is the substring before the
// first space; a reference with no space is all token. No trimming is
// applied beyond the single split.
func ParseCostCenterRef(raw string) CostCenterRef {
	if raw == "" {
		return CostCenterRef{}
	}
	if i := strings.IndexByte(raw, ' '); i >= 0 {
		return CostCenterRef{ID: raw[:i], Label: raw}
	}
	return CostCenterRef{ID: raw, Label: raw}
}

// LeadingToken returns the canonical identifier used for visibility checks.
func (r CostCenterRef) LeadingToken() string {
	return r.ID
}

// IsZero reports whether the reference is unset.
func (r CostCenterRef) IsZero() bool {
	return r.Label == ""
}

// Matches reports whether this reference attributes spend to the given cost
// center. The match is deliberately loose to tolerate the historical label
// forms found in the data: an exact id, an "<id> - <name>" label, or a label
// that merely contains the id or the center name. Aggregation must be
// inclusive; visibility uses the stricter LeadingToken comparison instead.
func (r CostCenterRef) Matches(c CostCenter) bool {
	if r.Label == "" || c.ID == "" {
		return false
	}
	if r.Label == c.ID {
		return true
	}
	if strings.HasPrefix(r.Label, c.ID+" ") {
		return true
	}
	if strings.Contains(r.Label, c.ID) {
		return true
	}
	return c.Name != "" && strings.Contains(r.Label, c.Name)
}
