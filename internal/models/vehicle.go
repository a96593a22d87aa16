package models

// VehicleStatus is the operational state of a fleet vehicle.
type VehicleStatus string

const (
	VehicleActive      VehicleStatus = "ACTIVE"
	VehicleMaintenance VehicleStatus = "MAINTENANCE"
	VehicleInactive    VehicleStatus = "INACTIVE"
)

// Vehicle represents a fleet vehicle.
type Vehicle struct {
	ID               string        `bson:"_id,omitempty" json:"id"`
	Plate            string        `bson:"plate" json:"plate"`
	Model            string        `bson:"model" json:"model"`
	Type             string        `bson:"type" json:"type"` // "Moto", "Carro Leve", "Ambulância", ...
	Status           VehicleStatus `bson:"status" json:"status"`
	Odometer         int           `bson:"odometer" json:"odometer"`
	LastPreventiveKM *int          `bson:"last_preventive_km,omitempty" json:"last_preventive_km,omitempty"`
	CostCenter       CostCenterRef `bson:"cost_center" json:"cost_center"`
}

// KMSinceService returns how far the vehicle has run since its last
// preventive service. A vehicle that was never serviced (nil) is treated the
// same as one serviced at km 0: the full odometer counts.
func (v Vehicle) KMSinceService() int {
	if v.LastPreventiveKM == nil {
		return v.Odometer
	}
	return v.Odometer - *v.LastPreventiveKM
}

// TireRegistration tracks a tire mounted on a vehicle.
type TireRegistration struct {
	ID          string `bson:"_id,omitempty" json:"id"`
	Plate       string `bson:"plate" json:"plate"`
	Position    string `bson:"position" json:"position"`
	Brand       string `bson:"brand" json:"brand"`
	FireNumber  string `bson:"fire_number" json:"fire_number"`
	InstalledKM int    `bson:"installed_km" json:"installed_km"`
	Status      string `bson:"status" json:"status"`
}
