package handlers

import (
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/frotaops/fleet-manager/internal/db"
	"github.com/frotaops/fleet-manager/internal/models"
)

// VehicleRequest is the payload for creating a vehicle.
type VehicleRequest struct {
	Plate            string `json:"plate"`
	Model            string `json:"model"`
	Type             string `json:"type"`
	Status           string `json:"status"`
	Odometer         int    `json:"odometer"`
	LastPreventiveKM *int   `json:"last_preventive_km"`
	CostCenter       string `json:"cost_center"`
}

// Vehicles serves GET (scoped list) and POST (create) on /api/vehicles.
func (h *FleetHandler) Vehicles(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.scoped(r).Vehicles)
	case http.MethodPost:
		h.createVehicle(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *FleetHandler) createVehicle(w http.ResponseWriter, r *http.Request) {
	var req VehicleRequest
	if !readJSON(w, r, &req) {
		return
	}
	if req.Plate == "" {
		http.Error(w, "Plate is required", http.StatusBadRequest)
		return
	}
	if req.Odometer < 0 {
		http.Error(w, "Odometer must be non-negative", http.StatusBadRequest)
		return
	}
	row := bson.M{
		"plate":       strings.ToUpper(req.Plate),
		"model":       req.Model,
		"type":        req.Type,
		"status":      req.Status,
		"odometer":    req.Odometer,
		"cost_center": req.CostCenter,
	}
	if req.Status == "" {
		row["status"] = string(models.VehicleActive)
	}
	if req.LastPreventiveKM != nil {
		row["last_preventive_km"] = *req.LastPreventiveKM
	}
	id, err := h.gateway.Table(db.TableVehicles).InsertRow(r.Context(), row)
	if err != nil {
		http.Error(w, "Failed to create vehicle", http.StatusInternalServerError)
		return
	}
	h.refresh(r, db.TableVehicles)
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// VehicleByID serves PUT (patch) and DELETE on /api/vehicles/{id}.
func (h *FleetHandler) VehicleByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/vehicles/")
	if id == "" || strings.Contains(id, "/") {
		http.Error(w, "Vehicle id required", http.StatusBadRequest)
		return
	}
	if !h.withinScope(r, db.TableVehicles, id) {
		http.Error(w, "Vehicle not found", http.StatusNotFound)
		return
	}
	switch r.Method {
	case http.MethodPut:
		var req struct {
			Model            *string `json:"model"`
			Type             *string `json:"type"`
			Status           *string `json:"status"`
			Odometer         *int    `json:"odometer"`
			LastPreventiveKM *int    `json:"last_preventive_km"`
			CostCenter       *string `json:"cost_center"`
		}
		if !readJSON(w, r, &req) {
			return
		}
		patch := bson.M{}
		if req.Model != nil {
			patch["model"] = *req.Model
		}
		if req.Type != nil {
			patch["type"] = *req.Type
		}
		if req.Status != nil {
			patch["status"] = *req.Status
		}
		if req.Odometer != nil {
			patch["odometer"] = *req.Odometer
		}
		if req.LastPreventiveKM != nil {
			patch["last_preventive_km"] = *req.LastPreventiveKM
		}
		if req.CostCenter != nil {
			patch["cost_center"] = *req.CostCenter
		}
		if len(patch) == 0 {
			http.Error(w, "Empty patch", http.StatusBadRequest)
			return
		}
		if err := h.gateway.Table(db.TableVehicles).UpdateRow(r.Context(), id, patch); err != nil {
			http.Error(w, "Failed to update vehicle", http.StatusInternalServerError)
			return
		}
		h.refresh(r, db.TableVehicles)
		w.WriteHeader(http.StatusNoContent)
	case http.MethodDelete:
		if err := h.gateway.Table(db.TableVehicles).DeleteRow(r.Context(), id); err != nil {
			http.Error(w, "Failed to delete vehicle", http.StatusInternalServerError)
			return
		}
		h.refresh(r, db.TableVehicles)
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Tires serves GET and POST on /api/tires.
func (h *FleetHandler) Tires(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.store.Tires())
	case http.MethodPost:
		var req struct {
			Plate       string `json:"plate"`
			Position    string `json:"position"`
			Brand       string `json:"brand"`
			FireNumber  string `json:"fire_number"`
			InstalledKM int    `json:"installed_km"`
			Status      string `json:"status"`
		}
		if !readJSON(w, r, &req) {
			return
		}
		if req.Plate == "" {
			http.Error(w, "Plate is required", http.StatusBadRequest)
			return
		}
		row := bson.M{
			"plate":        strings.ToUpper(req.Plate),
			"position":     req.Position,
			"brand":        req.Brand,
			"fire_number":  req.FireNumber,
			"installed_km": req.InstalledKM,
			"status":       req.Status,
		}
		id, err := h.gateway.Table(db.TableTireRegistrations).InsertRow(r.Context(), row)
		if err != nil {
			http.Error(w, "Failed to register tire", http.StatusInternalServerError)
			return
		}
		h.refresh(r, db.TableTireRegistrations)
		writeJSON(w, http.StatusCreated, map[string]string{"id": id})
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
