// Package visibility derives the per-user visible subset of the fleet
// collections. Visibility is conservative: it compares exact cost-center
// leading tokens, unlike the inclusive loose match used for aggregation.
package visibility

import (
	"github.com/frotaops/fleet-manager/internal/models"
)

// Collections bundles the scoped entity sets the filter operates on.
type Collections struct {
	Orders      []models.ServiceOrder `json:"orders"`
	Vehicles    []models.Vehicle      `json:"vehicles"`
	FuelEntries []models.FuelEntry    `json:"fuel_entries"`
	Shifts      []models.Shift        `json:"shifts"`
	CostCenters []models.CostCenter   `json:"cost_centers"`
}

// Scope returns the subset of the collections visible to the user.
//
// No user or an ADMIN sees everything. A non-ADMIN user is scoped to their
// assigned cost-center leading token; with no token assigned they see
// nothing at all. Fail-closed: a token matching no center yields empty
// collections, never full visibility. Comparison is case-sensitive exact
// token equality.
func Scope(user *models.User, all Collections) Collections {
	if user == nil || user.IsAdmin() {
		return all
	}
	token := user.CostCenter.LeadingToken()
	scoped := Collections{
		Orders:      []models.ServiceOrder{},
		Vehicles:    []models.Vehicle{},
		FuelEntries: []models.FuelEntry{},
		Shifts:      []models.Shift{},
		CostCenters: []models.CostCenter{},
	}
	if token == "" {
		return scoped
	}
	for _, o := range all.Orders {
		if o.CostCenter.LeadingToken() == token {
			scoped.Orders = append(scoped.Orders, o)
		}
	}
	visibleVehicles := make(map[string]bool)
	for _, v := range all.Vehicles {
		if v.CostCenter.LeadingToken() == token {
			scoped.Vehicles = append(scoped.Vehicles, v)
			visibleVehicles[v.ID] = true
		}
	}
	for _, e := range all.FuelEntries {
		if e.CostCenter.LeadingToken() == token {
			scoped.FuelEntries = append(scoped.FuelEntries, e)
		}
	}
	// Shifts carry no cost center of their own; they follow their vehicle.
	for _, s := range all.Shifts {
		if visibleVehicles[s.VehicleID] {
			scoped.Shifts = append(scoped.Shifts, s)
		}
	}
	for _, c := range all.CostCenters {
		if c.ID == token {
			scoped.CostCenters = append(scoped.CostCenters, c)
		}
	}
	return scoped
}
