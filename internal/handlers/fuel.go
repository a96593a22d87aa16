package handlers

import (
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/frotaops/fleet-manager/internal/db"
)

// FuelRequest is the payload for recording a fuel entry. The unit price is
// never stored; it is derived from total/quantity at mapping time.
type FuelRequest struct {
	Plate      string  `json:"plate"`
	Driver     string  `json:"driver"`
	Date       string  `json:"date"`
	CostCenter string  `json:"cost_center"`
	ItemType   string  `json:"item_type"`
	Quantity   float64 `json:"quantity"`
	TotalValue float64 `json:"total_value"`
	InvoiceURL string  `json:"invoice_url"`
}

// FuelEntries serves GET (scoped list) and POST (create) on /api/fuel.
func (h *FleetHandler) FuelEntries(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.scoped(r).FuelEntries)
	case http.MethodPost:
		h.createFuelEntry(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *FleetHandler) createFuelEntry(w http.ResponseWriter, r *http.Request) {
	var req FuelRequest
	if !readJSON(w, r, &req) {
		return
	}
	if req.Plate == "" {
		http.Error(w, "Plate is required", http.StatusBadRequest)
		return
	}
	if req.Quantity < 0 || req.TotalValue < 0 {
		http.Error(w, "Quantity and total must be non-negative", http.StatusBadRequest)
		return
	}
	date := req.Date
	if date == "" {
		date = time.Now().Format("2006-01-02 15:04:05")
	}
	row := bson.M{
		"plate":       strings.ToUpper(req.Plate),
		"driver":      req.Driver,
		"date":        date,
		"cost_center": req.CostCenter,
		"item_type":   req.ItemType,
		"quantity":    req.Quantity,
		"total_value": req.TotalValue,
	}
	if req.InvoiceURL != "" {
		row["invoice_url"] = req.InvoiceURL
	}
	id, err := h.gateway.Table(db.TableFuelEntries).InsertRow(r.Context(), row)
	if err != nil {
		http.Error(w, "Failed to record fuel entry", http.StatusInternalServerError)
		return
	}
	h.refresh(r, db.TableFuelEntries)
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// FuelEntryByID serves DELETE on /api/fuel/{id}.
func (h *FleetHandler) FuelEntryByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/fuel/")
	if id == "" || strings.Contains(id, "/") {
		http.Error(w, "Fuel entry id required", http.StatusBadRequest)
		return
	}
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !h.withinScope(r, db.TableFuelEntries, id) {
		http.Error(w, "Fuel entry not found", http.StatusNotFound)
		return
	}
	if err := h.gateway.Table(db.TableFuelEntries).DeleteRow(r.Context(), id); err != nil {
		http.Error(w, "Failed to delete fuel entry", http.StatusInternalServerError)
		return
	}
	h.refresh(r, db.TableFuelEntries)
	w.WriteHeader(http.StatusNoContent)
}
