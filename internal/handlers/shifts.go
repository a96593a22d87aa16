package handlers

import (
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/frotaops/fleet-manager/internal/db"
	"github.com/frotaops/fleet-manager/internal/models"
)

// OpenShiftRequest is the payload for starting a shift.
type OpenShiftRequest struct {
	VehicleID     string                 `json:"vehicle_id"`
	Driver        string                 `json:"driver"`
	StartOdometer int                    `json:"start_odometer"`
	Checklist     models.ChecklistResult `json:"checklist"`
}

// CloseShiftRequest is the payload for ending a shift.
type CloseShiftRequest struct {
	EndOdometer  int                    `json:"end_odometer"`
	Checklist    models.ChecklistResult `json:"checklist"`
	Damage       *models.DamageReport   `json:"damage"`
	SignatureURL string                 `json:"signature_url"`
}

// Shifts serves GET (scoped list) and POST (open) on /api/shifts.
func (h *FleetHandler) Shifts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.scoped(r).Shifts)
	case http.MethodPost:
		h.openShift(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// openShift starts a shift. A vehicle may have at most one OPEN shift at a
// time.
func (h *FleetHandler) openShift(w http.ResponseWriter, r *http.Request) {
	var req OpenShiftRequest
	if !readJSON(w, r, &req) {
		return
	}
	if req.VehicleID == "" || req.Driver == "" {
		http.Error(w, "Vehicle and driver are required", http.StatusBadRequest)
		return
	}
	vehicle, ok := h.store.VehicleByID(req.VehicleID)
	if !ok || !h.withinScope(r, db.TableVehicles, req.VehicleID) {
		http.Error(w, "Vehicle not found", http.StatusNotFound)
		return
	}
	if _, open := h.store.OpenShiftForVehicle(req.VehicleID); open {
		http.Error(w, "Vehicle already has an open shift", http.StatusConflict)
		return
	}
	if req.StartOdometer < vehicle.Odometer {
		http.Error(w, "Start odometer below vehicle odometer", http.StatusBadRequest)
		return
	}
	row := bson.M{
		"vehicle_id":     req.VehicleID,
		"driver":         req.Driver,
		"started_at":     time.Now(),
		"start_odometer": req.StartOdometer,
		"status":         string(models.ShiftOpen),
	}
	if req.Checklist != nil {
		row["checklist"] = checklistRow(req.Checklist)
	}
	id, err := h.gateway.Table(db.TableShifts).InsertRow(r.Context(), row)
	if err != nil {
		http.Error(w, "Failed to open shift", http.StatusInternalServerError)
		return
	}
	// Shift start moves the vehicle odometer forward.
	if req.StartOdometer > vehicle.Odometer {
		if err := h.gateway.Table(db.TableVehicles).UpdateRow(r.Context(), vehicle.ID, bson.M{"odometer": req.StartOdometer}); err == nil {
			h.refresh(r, db.TableVehicles)
		}
	}
	h.refresh(r, db.TableShifts)
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// ShiftClose serves POST on /api/shifts/{id}/close.
func (h *FleetHandler) ShiftClose(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/api/shifts/")
	id := strings.TrimSuffix(rest, "/close")
	if id == "" || id == rest || strings.Contains(id, "/") {
		http.Error(w, "Shift id required", http.StatusBadRequest)
		return
	}
	var req CloseShiftRequest
	if !readJSON(w, r, &req) {
		return
	}
	shift, ok := h.findShift(r, id)
	if !ok {
		http.Error(w, "Shift not found", http.StatusNotFound)
		return
	}
	if shift.Status != models.ShiftOpen {
		http.Error(w, "Shift is not open", http.StatusConflict)
		return
	}
	if req.EndOdometer < shift.StartOdometer {
		http.Error(w, "End odometer below start odometer", http.StatusBadRequest)
		return
	}
	patch := bson.M{
		"status":       string(models.ShiftClosed),
		"ended_at":     time.Now(),
		"end_odometer": req.EndOdometer,
	}
	if req.Checklist != nil {
		patch["checklist"] = checklistRow(req.Checklist)
	}
	if req.Damage != nil {
		patch["damage"] = bson.M{
			"kind":        req.Damage.Kind,
			"severity":    req.Damage.Severity,
			"description": req.Damage.Description,
			"photos":      req.Damage.Photos,
		}
	}
	if req.SignatureURL != "" {
		patch["signature_url"] = req.SignatureURL
	}
	if err := h.gateway.Table(db.TableShifts).UpdateRow(r.Context(), id, patch); err != nil {
		http.Error(w, "Failed to close shift", http.StatusInternalServerError)
		return
	}
	// Shift end records the vehicle odometer.
	if vehicle, ok := h.store.VehicleByID(shift.VehicleID); ok && req.EndOdometer > vehicle.Odometer {
		if err := h.gateway.Table(db.TableVehicles).UpdateRow(r.Context(), vehicle.ID, bson.M{"odometer": req.EndOdometer}); err == nil {
			h.refresh(r, db.TableVehicles)
		}
	}
	h.refresh(r, db.TableShifts)
	w.WriteHeader(http.StatusNoContent)
}

// findShift resolves a shift id within the caller's visible scope, so a user
// cannot close a shift on a vehicle outside their cost center.
func (h *FleetHandler) findShift(r *http.Request, id string) (models.Shift, bool) {
	for _, s := range h.scoped(r).Shifts {
		if s.ID == id {
			return s, true
		}
	}
	return models.Shift{}, false
}

func checklistRow(c models.ChecklistResult) bson.M {
	row := bson.M{}
	for name, passed := range c {
		row[name] = passed
	}
	return row
}
