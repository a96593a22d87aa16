package handlers

import (
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/frotaops/fleet-manager/internal/db"
)

// SupplierRequest is the payload for creating a supplier.
type SupplierRequest struct {
	Name     string `json:"name"`
	Document string `json:"document"`
	Category string `json:"category"`
	Contact  string `json:"contact"`
	Email    string `json:"email"`
	Status   string `json:"status"`
}

// Suppliers serves GET and POST on /api/suppliers. Suppliers are not
// cost-center scoped; any authenticated user sees the full list.
func (h *FleetHandler) Suppliers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.store.Suppliers())
	case http.MethodPost:
		var req SupplierRequest
		if !readJSON(w, r, &req) {
			return
		}
		if req.Name == "" {
			http.Error(w, "Name is required", http.StatusBadRequest)
			return
		}
		row := bson.M{
			"name":     req.Name,
			"document": req.Document,
			"category": req.Category,
			"contact":  req.Contact,
			"email":    req.Email,
			"status":   req.Status,
		}
		id, err := h.gateway.Table(db.TableSuppliers).InsertRow(r.Context(), row)
		if err != nil {
			http.Error(w, "Failed to create supplier", http.StatusInternalServerError)
			return
		}
		h.refresh(r, db.TableSuppliers)
		writeJSON(w, http.StatusCreated, map[string]string{"id": id})
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// SupplierByID serves PUT (patch) and DELETE on /api/suppliers/{id}.
func (h *FleetHandler) SupplierByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/suppliers/")
	if id == "" || strings.Contains(id, "/") {
		http.Error(w, "Supplier id required", http.StatusBadRequest)
		return
	}
	switch r.Method {
	case http.MethodPut:
		var req struct {
			Name     *string `json:"name"`
			Document *string `json:"document"`
			Category *string `json:"category"`
			Contact  *string `json:"contact"`
			Email    *string `json:"email"`
			Status   *string `json:"status"`
		}
		if !readJSON(w, r, &req) {
			return
		}
		patch := bson.M{}
		if req.Name != nil {
			patch["name"] = *req.Name
		}
		if req.Document != nil {
			patch["document"] = *req.Document
		}
		if req.Category != nil {
			patch["category"] = *req.Category
		}
		if req.Contact != nil {
			patch["contact"] = *req.Contact
		}
		if req.Email != nil {
			patch["email"] = *req.Email
		}
		if req.Status != nil {
			patch["status"] = *req.Status
		}
		if len(patch) == 0 {
			http.Error(w, "Empty patch", http.StatusBadRequest)
			return
		}
		if err := h.gateway.Table(db.TableSuppliers).UpdateRow(r.Context(), id, patch); err != nil {
			http.Error(w, "Failed to update supplier", http.StatusInternalServerError)
			return
		}
		h.refresh(r, db.TableSuppliers)
		w.WriteHeader(http.StatusNoContent)
	case http.MethodDelete:
		if err := h.gateway.Table(db.TableSuppliers).DeleteRow(r.Context(), id); err != nil {
			http.Error(w, "Failed to delete supplier", http.StatusInternalServerError)
			return
		}
		h.refresh(r, db.TableSuppliers)
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
