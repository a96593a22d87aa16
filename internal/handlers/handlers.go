// Package handlers wires the HTTP API. Reads go through the in-memory store
// scoped by the visibility filter; writes go to the gateway first and then
// refresh the touched collection, so a failed remote call leaves local state
// at its last-known-good value.
package handlers

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/frotaops/fleet-manager/internal/db"
	"github.com/frotaops/fleet-manager/internal/insight"
	"github.com/frotaops/fleet-manager/internal/middleware"
	"github.com/frotaops/fleet-manager/internal/store"
	"github.com/frotaops/fleet-manager/internal/visibility"
)

// FleetHandler serves the fleet entity endpoints.
type FleetHandler struct {
	gateway db.Gateway
	store   *store.Store
	insight *insight.Client
}

// NewFleetHandler creates a fleet handler.
func NewFleetHandler(gateway db.Gateway, st *store.Store, ic *insight.Client) *FleetHandler {
	return &FleetHandler{
		gateway: gateway,
		store:   st,
		insight: ic,
	}
}

// scoped returns the collections visible to the requesting user.
func (h *FleetHandler) scoped(r *http.Request) visibility.Collections {
	user := middleware.ScopedUserFromContext(r.Context())
	return visibility.Scope(user, h.store.Snapshot())
}

// withinScope reports whether the target row is visible to the caller.
// Write paths treat out-of-scope rows as absent rather than forbidden, so
// they never confirm that a row exists outside the caller's cost center.
func (h *FleetHandler) withinScope(r *http.Request, table, id string) bool {
	scoped := h.scoped(r)
	switch table {
	case db.TableVehicles:
		for _, v := range scoped.Vehicles {
			if v.ID == id {
				return true
			}
		}
	case db.TableServiceOrders:
		for _, o := range scoped.Orders {
			if o.ID == id {
				return true
			}
		}
	case db.TableFuelEntries:
		for _, e := range scoped.FuelEntries {
			if e.ID == id {
				return true
			}
		}
	case db.TableCostCenters:
		for _, c := range scoped.CostCenters {
			if c.RowID == id {
				return true
			}
		}
	case db.TableShifts:
		for _, s := range scoped.Shifts {
			if s.ID == id {
				return true
			}
		}
	}
	return false
}

// refresh reloads one collection after a successful write. The write already
// succeeded remotely, so a refresh failure only delays the local view.
func (h *FleetHandler) refresh(r *http.Request, table string) {
	if err := h.store.RefreshTable(r.Context(), h.gateway, table); err != nil {
		log.WithError(err).WithField("table", table).Error("Failed to refresh collection")
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func readJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return false
	}
	return true
}
