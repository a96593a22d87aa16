package visibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frotaops/fleet-manager/internal/models"
)

func fixture() Collections {
	return Collections{
		Orders: []models.ServiceOrder{
			{ID: "o1", CostCenter: models.ParseCostCenterRef("12 - Fleet A")},
			{ID: "o2", CostCenter: models.ParseCostCenterRef("120 - Other")},
			{ID: "o3", CostCenter: models.ParseCostCenterRef("99 - Elsewhere")},
		},
		Vehicles: []models.Vehicle{
			{ID: "v1", Plate: "AAA1A11", CostCenter: models.ParseCostCenterRef("12 - Fleet A")},
			{ID: "v2", Plate: "BBB2B22", CostCenter: models.ParseCostCenterRef("120 - Other")},
		},
		FuelEntries: []models.FuelEntry{
			{ID: "f1", CostCenter: models.ParseCostCenterRef("12 - Fleet A")},
			{ID: "f2", CostCenter: models.ParseCostCenterRef("99 - Elsewhere")},
		},
		Shifts: []models.Shift{
			{ID: "s1", VehicleID: "v1", Status: models.ShiftOpen},
			{ID: "s2", VehicleID: "v2", Status: models.ShiftClosed},
		},
		CostCenters: []models.CostCenter{
			{ID: "12", Name: "Fleet A"},
			{ID: "120", Name: "Other"},
		},
	}
}

func gestor(costCenter string) *models.User {
	return &models.User{
		Role:       models.RoleGestor,
		CostCenter: models.ParseCostCenterRef(costCenter),
	}
}

func TestScope_NoUserSeesEverything(t *testing.T) {
	all := fixture()
	scoped := Scope(nil, all)
	assert.Equal(t, all, scoped)
}

func TestScope_AdminSeesEverything(t *testing.T) {
	all := fixture()
	admin := &models.User{Role: models.RoleAdmin} // no cost center assigned
	scoped := Scope(admin, all)
	assert.Equal(t, all, scoped)
}

func TestScope_FailClosedWithoutToken(t *testing.T) {
	scoped := Scope(gestor(""), fixture())

	assert.Empty(t, scoped.Orders)
	assert.Empty(t, scoped.Vehicles)
	assert.Empty(t, scoped.FuelEntries)
	assert.Empty(t, scoped.Shifts)
	assert.Empty(t, scoped.CostCenters)
}

func TestScope_ExactTokenNotPrefix(t *testing.T) {
	scoped := Scope(gestor("12 - Fleet A"), fixture())

	// "12" must match "12 - Fleet A" but never "120 - Other".
	require.Len(t, scoped.Orders, 1)
	assert.Equal(t, "o1", scoped.Orders[0].ID)

	require.Len(t, scoped.Vehicles, 1)
	assert.Equal(t, "v1", scoped.Vehicles[0].ID)

	require.Len(t, scoped.FuelEntries, 1)
	assert.Equal(t, "f1", scoped.FuelEntries[0].ID)

	require.Len(t, scoped.CostCenters, 1)
	assert.Equal(t, "12", scoped.CostCenters[0].ID)
}

func TestScope_ShiftsFollowVehicles(t *testing.T) {
	scoped := Scope(gestor("12 - Fleet A"), fixture())

	require.Len(t, scoped.Shifts, 1)
	assert.Equal(t, "s1", scoped.Shifts[0].ID)
}

func TestScope_UnknownTokenYieldsEmpty(t *testing.T) {
	scoped := Scope(gestor("777 - Ghost"), fixture())

	assert.Empty(t, scoped.Orders)
	assert.Empty(t, scoped.Vehicles)
	assert.Empty(t, scoped.FuelEntries)
	assert.Empty(t, scoped.Shifts)
	assert.Empty(t, scoped.CostCenters)
}

func TestScope_CaseSensitiveTokens(t *testing.T) {
	all := Collections{
		Orders: []models.ServiceOrder{
			{ID: "o1", CostCenter: models.ParseCostCenterRef("ab - Mixed")},
		},
	}
	scoped := Scope(gestor("AB - Mixed"), all)
	assert.Empty(t, scoped.Orders)
}
