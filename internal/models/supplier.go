package models

// Supplier categories.
const (
	SupplierPecas       = "PEÇAS"
	SupplierServicos    = "SERVIÇOS"
	SupplierCombustivel = "COMBUSTÍVEL"
	SupplierPneus       = "PNEUS"
)

// Supplier is a parts/service/fuel vendor.
type Supplier struct {
	ID       string `bson:"_id,omitempty" json:"id"`
	Name     string `bson:"name" json:"name"`
	Document string `bson:"document" json:"document"` // tax id
	Category string `bson:"category" json:"category"`
	Contact  string `bson:"contact" json:"contact"`
	Email    string `bson:"email" json:"email"`
	Status   string `bson:"status" json:"status"`
}
