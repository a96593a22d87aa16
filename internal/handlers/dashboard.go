package handlers

import (
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/frotaops/fleet-manager/internal/costcenter"
	"github.com/frotaops/fleet-manager/internal/insight"
	"github.com/frotaops/fleet-manager/internal/models"
	"github.com/frotaops/fleet-manager/internal/visibility"
)

// DefaultPreventiveLimitKM is the km-since-service distance at which a
// vehicle is flagged for preventive maintenance.
const DefaultPreventiveLimitKM = 10000

// preventiveLimit reads PREVENTIVE_LIMIT_KM, falling back to the default.
func preventiveLimit() int {
	if v := os.Getenv("PREVENTIVE_LIMIT_KM"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil && limit > 0 {
			return limit
		}
	}
	return DefaultPreventiveLimitKM
}

// DashboardSummary is the response of /api/dashboard/summary.
type DashboardSummary struct {
	Facts     insight.Facts            `json:"facts"`
	Summaries []costcenter.Summary     `json:"summaries"`
	CashFlow  []costcenter.MonthBucket `json:"cash_flow"`
}

// Summary serves GET /api/dashboard/summary: the consumption summaries and
// cash-flow series over the caller's visible scope.
func (h *FleetHandler) Summary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	scoped := h.scoped(r)
	summaries := costcenter.Summarize(scoped.CostCenters, scoped.Orders, scoped.FuelEntries)
	cashFlow := costcenter.CashFlow(scoped.Orders, scoped.FuelEntries, time.Now())
	writeJSON(w, http.StatusOK, DashboardSummary{
		Facts:     buildFacts(scoped, summaries, cashFlow),
		Summaries: summaries,
		CashFlow:  cashFlow,
	})
}

// Insight serves GET /api/dashboard/insight: the narrative fleet overview.
func (h *FleetHandler) Insight(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	scoped := h.scoped(r)
	summaries := costcenter.Summarize(scoped.CostCenters, scoped.Orders, scoped.FuelEntries)
	cashFlow := costcenter.CashFlow(scoped.Orders, scoped.FuelEntries, time.Now())
	facts := buildFacts(scoped, summaries, cashFlow)
	writeJSON(w, http.StatusOK, map[string]string{
		"text": h.insight.Summarize(r.Context(), facts),
	})
}

// MaintenanceAlert is one vehicle due for preventive service.
type MaintenanceAlert struct {
	Plate          string `json:"plate"`
	KMSinceService int    `json:"km_since_service"`
	Body           string `json:"body"`
}

// MaintenanceAlerts serves GET /api/dashboard/maintenance-alerts: the
// vehicles past the preventive limit, each with an alert email body.
func (h *FleetHandler) MaintenanceAlerts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	scoped := h.scoped(r)
	summaries := costcenter.Summarize(scoped.CostCenters, scoped.Orders, scoped.FuelEntries)
	cashFlow := costcenter.CashFlow(scoped.Orders, scoped.FuelEntries, time.Now())
	facts := buildFacts(scoped, summaries, cashFlow)

	limit := preventiveLimit()
	alerts := []MaintenanceAlert{}
	for _, v := range scoped.Vehicles {
		km := v.KMSinceService()
		if km < limit {
			continue
		}
		alerts = append(alerts, MaintenanceAlert{
			Plate:          v.Plate,
			KMSinceService: km,
			Body:           h.insight.MaintenanceAlertBody(r.Context(), v.Plate, km, facts),
		})
	}
	writeJSON(w, http.StatusOK, alerts)
}

func buildFacts(scoped visibility.Collections, summaries []costcenter.Summary, cashFlow []costcenter.MonthBucket) insight.Facts {
	facts := insight.Facts{
		Vehicles:        len(scoped.Vehicles),
		PreventiveLimit: preventiveLimit(),
	}
	for _, v := range scoped.Vehicles {
		if v.Status == models.VehicleActive {
			facts.ActiveVehicles++
		}
		if v.KMSinceService() >= facts.PreventiveLimit {
			facts.MaintenanceDue++
		}
	}
	for _, o := range scoped.Orders {
		if !o.IsFinished() {
			facts.OpenOrders++
		}
	}
	var top float64
	for _, s := range summaries {
		if s.Warning {
			facts.CentersOnAlert++
		}
		facts.FuelSpend += s.FuelTotal
		if s.Consumed > top {
			top = s.Consumed
			facts.TopCostCenter = s.Center.Name
		}
	}
	if n := len(cashFlow); n > 0 {
		facts.MonthlySpend = cashFlow[n-1].Total
	}
	return facts
}
