package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
)

// Table names for the resources the hosted data service exposes.
const (
	TableVehicles          = "vehicles"
	TableCostCenters       = "cost_centers"
	TableServiceOrders     = "service_orders"
	TableFuelEntries       = "fuel_entries"
	TableShifts            = "shifts"
	TableSuppliers         = "suppliers"
	TableAppUsers          = "app_users"
	TableServiceQuotes     = "service_quotes"
	TableTireRegistrations = "tire_registrations"
)

// RowCollection is the table-oriented access a single resource exposes.
// Rows round-trip as loosely typed snake_case documents; the mapper package
// turns them into typed entities.
type RowCollection interface {
	FindRows(ctx context.Context, filter interface{}) ([]bson.M, error)
	InsertRow(ctx context.Context, row bson.M) (string, error)
	UpdateRow(ctx context.Context, id string, patch bson.M) error
	DeleteRow(ctx context.Context, id string) error
}

// Gateway hands out row collections by table name. It is the sole
// persistence boundary of the service.
type Gateway interface {
	Table(name string) RowCollection
}
