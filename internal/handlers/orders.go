package handlers

import (
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/frotaops/fleet-manager/internal/db"
	"github.com/frotaops/fleet-manager/internal/models"
)

// OrderRequest is the payload for creating a service order.
type OrderRequest struct {
	Plate       string  `json:"plate"`
	Description string  `json:"description"`
	TaskType    string  `json:"task_type"`
	Priority    string  `json:"priority"`
	Mechanic    string  `json:"mechanic"`
	CostCenter  string  `json:"cost_center"`
	CostValue   float64 `json:"cost_value"`
	InvoiceURL  string  `json:"invoice_url"`
	QuoteID     string  `json:"quote_id"`
}

// Orders serves GET (scoped list) and POST (create) on /api/orders.
func (h *FleetHandler) Orders(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.scoped(r).Orders)
	case http.MethodPost:
		h.createOrder(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *FleetHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req OrderRequest
	if !readJSON(w, r, &req) {
		return
	}
	if req.Plate == "" {
		http.Error(w, "Plate is required", http.StatusBadRequest)
		return
	}
	now := time.Now()
	row := bson.M{
		"plate":       strings.ToUpper(req.Plate),
		"description": req.Description,
		"task_type":   req.TaskType,
		"status":      "Aberta",
		"priority":    req.Priority,
		"mechanic":    req.Mechanic,
		"cost_center": req.CostCenter,
		"opened_at":   now.Format("2006-01-02 15:04:05"),
		"paid":        false,
		"cost_value":  req.CostValue,
		"created_at":  now,
	}
	if req.Priority == "" {
		row["priority"] = models.PriorityBaixa
	}
	if req.InvoiceURL != "" {
		row["invoice_url"] = req.InvoiceURL
	}
	if req.QuoteID != "" {
		row["quote_id"] = req.QuoteID
	}
	id, err := h.gateway.Table(db.TableServiceOrders).InsertRow(r.Context(), row)
	if err != nil {
		http.Error(w, "Failed to create service order", http.StatusInternalServerError)
		return
	}
	h.refresh(r, db.TableServiceOrders)
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// OrderByID serves PUT (patch) and DELETE on /api/orders/{id}. Setting
// status to "Finalizada" also resets priority to "Baixa": finishing an order
// clears its urgency.
func (h *FleetHandler) OrderByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/orders/")
	if id == "" || strings.Contains(id, "/") {
		http.Error(w, "Order id required", http.StatusBadRequest)
		return
	}
	if !h.withinScope(r, db.TableServiceOrders, id) {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}
	switch r.Method {
	case http.MethodPut:
		var req struct {
			Description *string  `json:"description"`
			TaskType    *string  `json:"task_type"`
			Status      *string  `json:"status"`
			Priority    *string  `json:"priority"`
			Mechanic    *string  `json:"mechanic"`
			CostCenter  *string  `json:"cost_center"`
			Paid        *bool    `json:"paid"`
			CostValue   *float64 `json:"cost_value"`
			InvoiceURL  *string  `json:"invoice_url"`
			QuoteID     *string  `json:"quote_id"`
		}
		if !readJSON(w, r, &req) {
			return
		}
		patch := bson.M{}
		if req.Description != nil {
			patch["description"] = *req.Description
		}
		if req.TaskType != nil {
			patch["task_type"] = *req.TaskType
		}
		if req.Status != nil {
			patch["status"] = *req.Status
			if *req.Status == models.OrderFinished {
				patch["priority"] = models.PriorityBaixa
			}
		}
		if req.Priority != nil && patch["priority"] == nil {
			patch["priority"] = *req.Priority
		}
		if req.Mechanic != nil {
			patch["mechanic"] = *req.Mechanic
		}
		if req.CostCenter != nil {
			patch["cost_center"] = *req.CostCenter
		}
		if req.Paid != nil {
			patch["paid"] = *req.Paid
		}
		if req.CostValue != nil {
			patch["cost_value"] = *req.CostValue
		}
		if req.InvoiceURL != nil {
			patch["invoice_url"] = *req.InvoiceURL
		}
		if req.QuoteID != nil {
			patch["quote_id"] = *req.QuoteID
		}
		if len(patch) == 0 {
			http.Error(w, "Empty patch", http.StatusBadRequest)
			return
		}
		if err := h.gateway.Table(db.TableServiceOrders).UpdateRow(r.Context(), id, patch); err != nil {
			http.Error(w, "Failed to update service order", http.StatusInternalServerError)
			return
		}
		h.refresh(r, db.TableServiceOrders)
		w.WriteHeader(http.StatusNoContent)
	case http.MethodDelete:
		if err := h.gateway.Table(db.TableServiceOrders).DeleteRow(r.Context(), id); err != nil {
			http.Error(w, "Failed to delete service order", http.StatusInternalServerError)
			return
		}
		h.refresh(r, db.TableServiceOrders)
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Quotes serves GET and POST on /api/quotes.
func (h *FleetHandler) Quotes(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.store.Quotes())
	case http.MethodPost:
		var req struct {
			OrderID  string  `json:"order_id"`
			Supplier string  `json:"supplier"`
			Amount   float64 `json:"amount"`
			Status   string  `json:"status"`
		}
		if !readJSON(w, r, &req) {
			return
		}
		if req.OrderID == "" {
			http.Error(w, "Order id is required", http.StatusBadRequest)
			return
		}
		row := bson.M{
			"order_id":   req.OrderID,
			"supplier":   req.Supplier,
			"amount":     req.Amount,
			"status":     req.Status,
			"created_at": time.Now().Format("2006-01-02 15:04:05"),
		}
		id, err := h.gateway.Table(db.TableServiceQuotes).InsertRow(r.Context(), row)
		if err != nil {
			http.Error(w, "Failed to create quote", http.StatusInternalServerError)
			return
		}
		h.refresh(r, db.TableServiceQuotes)
		writeJSON(w, http.StatusCreated, map[string]string{"id": id})
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
