// Package store holds the in-memory entity collections the service reads
// from. Each collection is replaced wholesale on refresh; the gateway-sync
// routine is the only writer, everything else reads snapshots.
package store

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/frotaops/fleet-manager/internal/db"
	"github.com/frotaops/fleet-manager/internal/mapper"
	"github.com/frotaops/fleet-manager/internal/models"
	"github.com/frotaops/fleet-manager/internal/visibility"
)

// Store is the application state. Zero value is usable.
type Store struct {
	mu sync.RWMutex

	vehicles    []models.Vehicle
	costCenters []models.CostCenter
	orders      []models.ServiceOrder
	fuelEntries []models.FuelEntry
	shifts      []models.Shift
	suppliers   []models.Supplier
	quotes      []models.ServiceQuote
	tires       []models.TireRegistration
}

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// Snapshot returns the current scoped collections. Slices are shared with
// the store; callers must treat them as read-only.
func (s *Store) Snapshot() visibility.Collections {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return visibility.Collections{
		Orders:      s.orders,
		Vehicles:    s.vehicles,
		FuelEntries: s.fuelEntries,
		Shifts:      s.shifts,
		CostCenters: s.costCenters,
	}
}

// Suppliers returns the current supplier collection.
func (s *Store) Suppliers() []models.Supplier {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.suppliers
}

// Quotes returns the current service-quote collection.
func (s *Store) Quotes() []models.ServiceQuote {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.quotes
}

// Tires returns the current tire-registration collection.
func (s *Store) Tires() []models.TireRegistration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tires
}

// ReplaceVehicles swaps the vehicle collection.
func (s *Store) ReplaceVehicles(vehicles []models.Vehicle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vehicles = vehicles
}

// ReplaceCostCenters swaps the cost-center collection.
func (s *Store) ReplaceCostCenters(centers []models.CostCenter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.costCenters = centers
}

// ReplaceOrders swaps the service-order collection.
func (s *Store) ReplaceOrders(orders []models.ServiceOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = orders
}

// ReplaceFuelEntries swaps the fuel-entry collection.
func (s *Store) ReplaceFuelEntries(entries []models.FuelEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fuelEntries = entries
}

// ReplaceShifts swaps the shift collection.
func (s *Store) ReplaceShifts(shifts []models.Shift) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shifts = shifts
}

// ReplaceSuppliers swaps the supplier collection.
func (s *Store) ReplaceSuppliers(suppliers []models.Supplier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suppliers = suppliers
}

// ReplaceQuotes swaps the service-quote collection.
func (s *Store) ReplaceQuotes(quotes []models.ServiceQuote) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quotes = quotes
}

// ReplaceTires swaps the tire-registration collection.
func (s *Store) ReplaceTires(tires []models.TireRegistration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tires = tires
}

// VehicleByPlate finds a vehicle by its plate.
func (s *Store) VehicleByPlate(plate string) (models.Vehicle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, v := range s.vehicles {
		if v.Plate == plate {
			return v, true
		}
	}
	return models.Vehicle{}, false
}

// VehicleByID finds a vehicle by its row id.
func (s *Store) VehicleByID(id string) (models.Vehicle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, v := range s.vehicles {
		if v.ID == id {
			return v, true
		}
	}
	return models.Vehicle{}, false
}

// OpenShiftForVehicle returns the vehicle's OPEN shift, if any. At most one
// exists at a time.
func (s *Store) OpenShiftForVehicle(vehicleID string) (models.Shift, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sh := range s.shifts {
		if sh.VehicleID == vehicleID && sh.Status == models.ShiftOpen {
			return sh, true
		}
	}
	return models.Shift{}, false
}

// ApplyOdometer updates a vehicle's odometer in place. Readings below the
// current odometer are ignored: the odometer is monotonically
// non-decreasing under normal operation. Returns the updated vehicle and
// whether anything changed.
func (s *Store) ApplyOdometer(plate string, km int) (models.Vehicle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, v := range s.vehicles {
		if v.Plate != plate {
			continue
		}
		if km < v.Odometer {
			return v, false
		}
		s.vehicles[i].Odometer = km
		return s.vehicles[i], true
	}
	return models.Vehicle{}, false
}

// Refresh reloads every collection from the gateway, replacing each one
// wholesale. A failed table read aborts the refresh and leaves all local
// state at its last-known-good value.
func (s *Store) Refresh(ctx context.Context, g db.Gateway) error {
	type load struct {
		table string
		apply func([]bson.M)
	}
	loads := []load{
		{db.TableVehicles, func(rows []bson.M) { s.ReplaceVehicles(mapper.Vehicles(rows)) }},
		{db.TableCostCenters, func(rows []bson.M) { s.ReplaceCostCenters(mapper.CostCenters(rows)) }},
		{db.TableServiceOrders, func(rows []bson.M) { s.ReplaceOrders(mapper.ServiceOrders(rows)) }},
		{db.TableFuelEntries, func(rows []bson.M) { s.ReplaceFuelEntries(mapper.FuelEntries(rows)) }},
		{db.TableShifts, func(rows []bson.M) { s.ReplaceShifts(mapper.Shifts(rows)) }},
		{db.TableSuppliers, func(rows []bson.M) { s.ReplaceSuppliers(mapper.Suppliers(rows)) }},
		{db.TableServiceQuotes, func(rows []bson.M) { s.ReplaceQuotes(mapper.ServiceQuotes(rows)) }},
		{db.TableTireRegistrations, func(rows []bson.M) { s.ReplaceTires(mapper.TireRegistrations(rows)) }},
	}
	for _, l := range loads {
		rows, err := g.Table(l.table).FindRows(ctx, bson.M{})
		if err != nil {
			return fmt.Errorf("refresh %s: %w", l.table, err)
		}
		l.apply(rows)
	}
	return nil
}

// RefreshTable reloads a single collection from the gateway.
func (s *Store) RefreshTable(ctx context.Context, g db.Gateway, table string) error {
	rows, err := g.Table(table).FindRows(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("refresh %s: %w", table, err)
	}
	switch table {
	case db.TableVehicles:
		s.ReplaceVehicles(mapper.Vehicles(rows))
	case db.TableCostCenters:
		s.ReplaceCostCenters(mapper.CostCenters(rows))
	case db.TableServiceOrders:
		s.ReplaceOrders(mapper.ServiceOrders(rows))
	case db.TableFuelEntries:
		s.ReplaceFuelEntries(mapper.FuelEntries(rows))
	case db.TableShifts:
		s.ReplaceShifts(mapper.Shifts(rows))
	case db.TableSuppliers:
		s.ReplaceSuppliers(mapper.Suppliers(rows))
	case db.TableServiceQuotes:
		s.ReplaceQuotes(mapper.ServiceQuotes(rows))
	case db.TableTireRegistrations:
		s.ReplaceTires(mapper.TireRegistrations(rows))
	default:
		return fmt.Errorf("unknown table %q", table)
	}
	return nil
}
