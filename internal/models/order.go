package models

// Task types for service orders.
const (
	TaskPreventiva = "Preventiva"
	TaskCorretiva  = "Corretiva"
	TaskPreditiva  = "Preditiva"
)

// Order priorities.
const (
	PriorityBaixa   = "Baixa"
	PriorityMedia   = "Média"
	PriorityAlta    = "Alta"
	PriorityCritica = "Crítica"
)

// OrderFinished is the sentinel terminal status for service orders. Status
// is otherwise free-form and user-driven.
const OrderFinished = "Finalizada"

// DefaultCostCenterLabel is assigned to orders with no cost-center reference.
const DefaultCostCenterLabel = "Geral"

// ServiceOrder is a maintenance work item against a vehicle.
type ServiceOrder struct {
	ID          string        `bson:"_id,omitempty" json:"id"`
	Plate       string        `bson:"plate" json:"plate"`
	Description string        `bson:"description" json:"description"`
	TaskType    string        `bson:"task_type" json:"task_type"`
	Status      string        `bson:"status" json:"status"`
	Priority    string        `bson:"priority" json:"priority"`
	Mechanic    string        `bson:"mechanic" json:"mechanic"`
	CostCenter  CostCenterRef `bson:"cost_center" json:"cost_center"`
	OpenedAt    string        `bson:"opened_at" json:"opened_at"` // raw timestamp, may be "2024-05-02 14:30:00"
	Time        string        `bson:"time" json:"time"`           // HH:MM display, derived at mapping
	Paid        bool          `bson:"paid" json:"paid"`
	CostValue   float64       `bson:"cost_value" json:"cost_value"`
	InvoiceURL  string        `bson:"invoice_url,omitempty" json:"invoice_url,omitempty"`
	QuoteID     string        `bson:"quote_id,omitempty" json:"quote_id,omitempty"`
}

// IsFinished reports whether the order reached its terminal state.
func (o ServiceOrder) IsFinished() bool {
	return o.Status == OrderFinished
}

// ServiceQuote is a supplier quote attached to a service order.
type ServiceQuote struct {
	ID        string  `bson:"_id,omitempty" json:"id"`
	OrderID   string  `bson:"order_id" json:"order_id"`
	Supplier  string  `bson:"supplier" json:"supplier"`
	Amount    float64 `bson:"amount" json:"amount"`
	Status    string  `bson:"status" json:"status"`
	CreatedAt string  `bson:"created_at" json:"created_at"`
}
