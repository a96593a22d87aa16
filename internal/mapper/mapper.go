// Package mapper converts raw gateway rows (loosely typed, snake_case
// documents) into the application's typed entities, applying the defaulting
// rules the rest of the system relies on. All conversions are pure; a
// malformed row is skipped, never propagated as an error.
package mapper

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/frotaops/fleet-manager/internal/models"
)

// DefaultOrderDescription is used when a service order row carries none.
const DefaultOrderDescription = "Sem descrição"

// rowID extracts the row identifier as an opaque string.
func rowID(row bson.M) string {
	switch v := row["_id"].(type) {
	case primitive.ObjectID:
		return v.Hex()
	case string:
		return v
	default:
		return ""
	}
}

func str(row bson.M, key string) string {
	if v, ok := row[key].(string); ok {
		return v
	}
	return ""
}

// num pulls a numeric field regardless of how the store decoded it.
// Non-numeric or absent values yield 0.
func num(row bson.M, key string) float64 {
	switch v := row[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}

func boolean(row bson.M, key string) bool {
	v, _ := row[key].(bool)
	return v
}

func timestamp(row bson.M, key string) (time.Time, bool) {
	switch v := row[key].(type) {
	case time.Time:
		return v, true
	case primitive.DateTime:
		return v.Time(), true
	default:
		return time.Time{}, false
	}
}

// Vehicle maps a vehicles row. A row without a plate is malformed.
// An absent last_preventive_km maps to nil, not zero: "never serviced" must
// stay distinguishable even though km-since-service treats both alike.
func Vehicle(row bson.M) (models.Vehicle, bool) {
	plate := str(row, "plate")
	if plate == "" {
		return models.Vehicle{}, false
	}
	v := models.Vehicle{
		ID:         rowID(row),
		Plate:      plate,
		Model:      str(row, "model"),
		Type:       str(row, "type"),
		Status:     models.VehicleStatus(str(row, "status")),
		Odometer:   int(num(row, "odometer")),
		CostCenter: models.ParseCostCenterRef(str(row, "cost_center")),
	}
	if v.Status == "" {
		v.Status = models.VehicleActive
	}
	if _, ok := row["last_preventive_km"]; ok {
		km := int(num(row, "last_preventive_km"))
		v.LastPreventiveKM = &km
	}
	return v, true
}

// Vehicles maps a slice of rows, dropping malformed ones.
func Vehicles(rows []bson.M) []models.Vehicle {
	out := make([]models.Vehicle, 0, len(rows))
	for _, row := range rows {
		if v, ok := Vehicle(row); ok {
			out = append(out, v)
		}
	}
	return out
}

// ServiceOrder maps a service_orders row. A row without a plate is
// malformed. Derived fields: Time is the creation timestamp formatted in
// 24-hour local time; an absent cost center falls back to the "Geral"
// sentinel; an absent or non-numeric cost value becomes 0.
func ServiceOrder(row bson.M) (models.ServiceOrder, bool) {
	plate := str(row, "plate")
	if plate == "" {
		return models.ServiceOrder{}, false
	}
	o := models.ServiceOrder{
		ID:          rowID(row),
		Plate:       plate,
		Description: str(row, "description"),
		TaskType:    str(row, "task_type"),
		Status:      str(row, "status"),
		Priority:    str(row, "priority"),
		Mechanic:    str(row, "mechanic"),
		OpenedAt:    str(row, "opened_at"),
		Paid:        boolean(row, "paid"),
		CostValue:   num(row, "cost_value"),
		InvoiceURL:  str(row, "invoice_url"),
		QuoteID:     str(row, "quote_id"),
	}
	if o.Description == "" {
		o.Description = DefaultOrderDescription
	}
	cc := str(row, "cost_center")
	if cc == "" {
		cc = models.DefaultCostCenterLabel
	}
	o.CostCenter = models.ParseCostCenterRef(cc)
	if created, ok := timestamp(row, "created_at"); ok {
		o.Time = created.Local().Format("15:04")
		if o.OpenedAt == "" {
			o.OpenedAt = created.Local().Format("2006-01-02 15:04:05")
		}
	}
	return o, true
}

// ServiceOrders maps a slice of rows, dropping malformed ones.
func ServiceOrders(rows []bson.M) []models.ServiceOrder {
	out := make([]models.ServiceOrder, 0, len(rows))
	for _, row := range rows {
		if o, ok := ServiceOrder(row); ok {
			out = append(out, o)
		}
	}
	return out
}

// FuelEntry maps a fuel_entries row. The unit price is not stored remotely;
// it is derived here as total/quantity. A zero quantity yields a non-finite
// price rather than an error; sums downstream use TotalValue only.
func FuelEntry(row bson.M) (models.FuelEntry, bool) {
	plate := str(row, "plate")
	if plate == "" {
		return models.FuelEntry{}, false
	}
	e := models.FuelEntry{
		ID:         rowID(row),
		Plate:      plate,
		Driver:     str(row, "driver"),
		Date:       str(row, "date"),
		CostCenter: models.ParseCostCenterRef(str(row, "cost_center")),
		ItemType:   str(row, "item_type"),
		Quantity:   num(row, "quantity"),
		TotalValue: num(row, "total_value"),
		InvoiceURL: str(row, "invoice_url"),
	}
	e.UnitPrice = e.TotalValue / e.Quantity
	return e, true
}

// FuelEntries maps a slice of rows, dropping malformed ones.
func FuelEntries(rows []bson.M) []models.FuelEntry {
	out := make([]models.FuelEntry, 0, len(rows))
	for _, row := range rows {
		if e, ok := FuelEntry(row); ok {
			out = append(out, e)
		}
	}
	return out
}

// Shift maps a shifts row. Field renaming plus decoding of the checklist
// and damage payloads into their tagged types; no derived values.
func Shift(row bson.M) (models.Shift, bool) {
	vehicleID := str(row, "vehicle_id")
	if vehicleID == "" {
		return models.Shift{}, false
	}
	s := models.Shift{
		ID:            rowID(row),
		VehicleID:     vehicleID,
		Driver:        str(row, "driver"),
		StartOdometer: int(num(row, "start_odometer")),
		SignatureURL:  str(row, "signature_url"),
		Status:        models.ShiftStatus(str(row, "status")),
	}
	if s.Status == "" {
		s.Status = models.ShiftOpen
	}
	if t, ok := timestamp(row, "started_at"); ok {
		s.StartedAt = t
	}
	if t, ok := timestamp(row, "ended_at"); ok {
		s.EndedAt = &t
	}
	if _, ok := row["end_odometer"]; ok {
		km := int(num(row, "end_odometer"))
		s.EndOdometer = &km
	}
	if raw, ok := row["checklist"].(bson.M); ok {
		checklist := make(models.ChecklistResult, len(raw))
		for name, v := range raw {
			passed, _ := v.(bool)
			checklist[name] = passed
		}
		s.Checklist = checklist
	}
	if raw, ok := row["damage"].(bson.M); ok {
		damage := models.DamageReport{
			Kind:        str(raw, "kind"),
			Severity:    str(raw, "severity"),
			Description: str(raw, "description"),
		}
		if photos, ok := raw["photos"].(bson.A); ok {
			for _, p := range photos {
				if url, ok := p.(string); ok {
					damage.Photos = append(damage.Photos, url)
				}
			}
		}
		s.Damage = &damage
	}
	return s, true
}

// Shifts maps a slice of rows, dropping malformed ones.
func Shifts(rows []bson.M) []models.Shift {
	out := make([]models.Shift, 0, len(rows))
	for _, row := range rows {
		if s, ok := Shift(row); ok {
			out = append(out, s)
		}
	}
	return out
}

// CostCenter maps a cost_centers row. A row without an id token is malformed.
func CostCenter(row bson.M) (models.CostCenter, bool) {
	id := str(row, "center_id")
	if id == "" {
		return models.CostCenter{}, false
	}
	return models.CostCenter{
		RowID:   rowID(row),
		ID:      id,
		Name:    str(row, "name"),
		Company: str(row, "company"),
		Budget:  num(row, "budget"),
		Color:   str(row, "color"),
	}, true
}

// CostCenters maps a slice of rows, dropping malformed ones.
func CostCenters(rows []bson.M) []models.CostCenter {
	out := make([]models.CostCenter, 0, len(rows))
	for _, row := range rows {
		if c, ok := CostCenter(row); ok {
			out = append(out, c)
		}
	}
	return out
}

// Supplier maps a suppliers row.
func Supplier(row bson.M) (models.Supplier, bool) {
	name := str(row, "name")
	if name == "" {
		return models.Supplier{}, false
	}
	return models.Supplier{
		ID:       rowID(row),
		Name:     name,
		Document: str(row, "document"),
		Category: str(row, "category"),
		Contact:  str(row, "contact"),
		Email:    str(row, "email"),
		Status:   str(row, "status"),
	}, true
}

// Suppliers maps a slice of rows, dropping malformed ones.
func Suppliers(rows []bson.M) []models.Supplier {
	out := make([]models.Supplier, 0, len(rows))
	for _, row := range rows {
		if s, ok := Supplier(row); ok {
			out = append(out, s)
		}
	}
	return out
}

// ServiceQuote maps a service_quotes row.
func ServiceQuote(row bson.M) (models.ServiceQuote, bool) {
	orderID := str(row, "order_id")
	if orderID == "" {
		return models.ServiceQuote{}, false
	}
	return models.ServiceQuote{
		ID:        rowID(row),
		OrderID:   orderID,
		Supplier:  str(row, "supplier"),
		Amount:    num(row, "amount"),
		Status:    str(row, "status"),
		CreatedAt: str(row, "created_at"),
	}, true
}

// ServiceQuotes maps a slice of rows, dropping malformed ones.
func ServiceQuotes(rows []bson.M) []models.ServiceQuote {
	out := make([]models.ServiceQuote, 0, len(rows))
	for _, row := range rows {
		if q, ok := ServiceQuote(row); ok {
			out = append(out, q)
		}
	}
	return out
}

// TireRegistration maps a tire_registrations row.
func TireRegistration(row bson.M) (models.TireRegistration, bool) {
	plate := str(row, "plate")
	if plate == "" {
		return models.TireRegistration{}, false
	}
	return models.TireRegistration{
		ID:          rowID(row),
		Plate:       plate,
		Position:    str(row, "position"),
		Brand:       str(row, "brand"),
		FireNumber:  str(row, "fire_number"),
		InstalledKM: int(num(row, "installed_km")),
		Status:      str(row, "status"),
	}, true
}

// TireRegistrations maps a slice of rows, dropping malformed ones.
func TireRegistrations(rows []bson.M) []models.TireRegistration {
	out := make([]models.TireRegistration, 0, len(rows))
	for _, row := range rows {
		if t, ok := TireRegistration(row); ok {
			out = append(out, t)
		}
	}
	return out
}
