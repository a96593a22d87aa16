package models

// FuelEntry records a refuelling (or other consumable purchase) against a
// vehicle. UnitPrice is not stored remotely; it is derived at mapping time
// as TotalValue / Quantity and may be non-finite when quantity is zero.
// Aggregation always sums TotalValue, never the derived price.
type FuelEntry struct {
	ID         string        `bson:"_id,omitempty" json:"id"`
	Plate      string        `bson:"plate" json:"plate"`
	Driver     string        `bson:"driver" json:"driver"`
	Date       string        `bson:"date" json:"date"` // raw timestamp string
	CostCenter CostCenterRef `bson:"cost_center" json:"cost_center"`
	ItemType   string        `bson:"item_type" json:"item_type"`
	Quantity   float64       `bson:"quantity" json:"quantity"` // liters
	UnitPrice  float64       `bson:"unit_price" json:"unit_price"`
	TotalValue float64       `bson:"total_value" json:"total_value"`
	InvoiceURL string        `bson:"invoice_url,omitempty" json:"invoice_url,omitempty"`
}
