package handlers

import (
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/frotaops/fleet-manager/internal/costcenter"
	"github.com/frotaops/fleet-manager/internal/db"
)

// CostCenterRequest is the payload for creating a cost center.
type CostCenterRequest struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Company string  `json:"company"`
	Budget  float64 `json:"budget"`
	Color   string  `json:"color"`
}

// CostCenters serves GET and POST on /api/cost-centers. The list response
// carries the consumption summaries computed over the caller's visible
// scope, so a non-ADMIN user sees totals for their own center only.
func (h *FleetHandler) CostCenters(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		scoped := h.scoped(r)
		summaries := costcenter.Summarize(scoped.CostCenters, scoped.Orders, scoped.FuelEntries)
		writeJSON(w, http.StatusOK, summaries)
	case http.MethodPost:
		h.createCostCenter(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *FleetHandler) createCostCenter(w http.ResponseWriter, r *http.Request) {
	var req CostCenterRequest
	if !readJSON(w, r, &req) {
		return
	}
	if req.ID == "" || req.Name == "" {
		http.Error(w, "Id and name are required", http.StatusBadRequest)
		return
	}
	if req.Budget < 0 {
		http.Error(w, "Budget must be non-negative", http.StatusBadRequest)
		return
	}
	// Center ids must stay unique among active centers.
	for _, c := range h.store.Snapshot().CostCenters {
		if c.ID == req.ID {
			http.Error(w, "Cost center id already exists", http.StatusConflict)
			return
		}
	}
	row := bson.M{
		"center_id": req.ID,
		"name":      req.Name,
		"company":   req.Company,
		"budget":    req.Budget,
		"color":     req.Color,
	}
	id, err := h.gateway.Table(db.TableCostCenters).InsertRow(r.Context(), row)
	if err != nil {
		http.Error(w, "Failed to create cost center", http.StatusInternalServerError)
		return
	}
	h.refresh(r, db.TableCostCenters)
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// CostCenterByID serves PUT (patch) and DELETE on /api/cost-centers/{rowID}.
func (h *FleetHandler) CostCenterByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/cost-centers/")
	if id == "" || strings.Contains(id, "/") {
		http.Error(w, "Cost center id required", http.StatusBadRequest)
		return
	}
	if !h.withinScope(r, db.TableCostCenters, id) {
		http.Error(w, "Cost center not found", http.StatusNotFound)
		return
	}
	switch r.Method {
	case http.MethodPut:
		var req struct {
			Name    *string  `json:"name"`
			Company *string  `json:"company"`
			Budget  *float64 `json:"budget"`
			Color   *string  `json:"color"`
		}
		if !readJSON(w, r, &req) {
			return
		}
		patch := bson.M{}
		if req.Name != nil {
			patch["name"] = *req.Name
		}
		if req.Company != nil {
			patch["company"] = *req.Company
		}
		if req.Budget != nil {
			patch["budget"] = *req.Budget
		}
		if req.Color != nil {
			patch["color"] = *req.Color
		}
		if len(patch) == 0 {
			http.Error(w, "Empty patch", http.StatusBadRequest)
			return
		}
		if err := h.gateway.Table(db.TableCostCenters).UpdateRow(r.Context(), id, patch); err != nil {
			http.Error(w, "Failed to update cost center", http.StatusInternalServerError)
			return
		}
		h.refresh(r, db.TableCostCenters)
		w.WriteHeader(http.StatusNoContent)
	case http.MethodDelete:
		if err := h.gateway.Table(db.TableCostCenters).DeleteRow(r.Context(), id); err != nil {
			http.Error(w, "Failed to delete cost center", http.StatusInternalServerError)
			return
		}
		h.refresh(r, db.TableCostCenters)
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
