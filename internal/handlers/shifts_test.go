package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frotaops/fleet-manager/internal/db"
	"github.com/frotaops/fleet-manager/internal/models"
)

func openShiftRequest(t *testing.T, h *FleetHandler, req OpenShiftRequest) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)
	return do(h.Shifts, httptest.NewRequest("POST", "/api/shifts", bytes.NewBuffer(body)))
}

func TestOpenShift(t *testing.T) {
	g := seedGateway()
	h := newTestHandler(g)

	w := openShiftRequest(t, h, OpenShiftRequest{
		VehicleID:     "v1",
		Driver:        "Carlos Silva",
		StartOdometer: 50010,
		Checklist:     models.ChecklistResult{"pneus": true},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	shift, ok := h.store.OpenShiftForVehicle("v1")
	require.True(t, ok)
	assert.Equal(t, "Carlos Silva", shift.Driver)
	assert.Equal(t, 50010, shift.StartOdometer)

	// Shift start moved the vehicle odometer forward.
	vehicle, _ := h.store.VehicleByID("v1")
	assert.Equal(t, 50010, vehicle.Odometer)
}

func TestOpenShift_OnePerVehicle(t *testing.T) {
	h := newTestHandler(seedGateway())

	first := openShiftRequest(t, h, OpenShiftRequest{VehicleID: "v1", Driver: "Carlos Silva", StartOdometer: 50000})
	require.Equal(t, http.StatusCreated, first.Code)

	second := openShiftRequest(t, h, OpenShiftRequest{VehicleID: "v1", Driver: "Ana Souza", StartOdometer: 50000})
	assert.Equal(t, http.StatusConflict, second.Code)

	// A different vehicle is unaffected.
	other := openShiftRequest(t, h, OpenShiftRequest{VehicleID: "v2", Driver: "Ana Souza", StartOdometer: 30000})
	assert.Equal(t, http.StatusCreated, other.Code)
}

func TestOpenShift_UnknownVehicle(t *testing.T) {
	h := newTestHandler(seedGateway())

	w := openShiftRequest(t, h, OpenShiftRequest{VehicleID: "ghost", Driver: "Carlos Silva", StartOdometer: 100})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOpenShift_RejectsOdometerRollback(t *testing.T) {
	h := newTestHandler(seedGateway())

	w := openShiftRequest(t, h, OpenShiftRequest{VehicleID: "v1", Driver: "Carlos Silva", StartOdometer: 49999})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCloseShift(t *testing.T) {
	g := seedGateway()
	h := newTestHandler(g)

	created := openShiftRequest(t, h, OpenShiftRequest{VehicleID: "v1", Driver: "Carlos Silva", StartOdometer: 50000})
	require.Equal(t, http.StatusCreated, created.Code)
	var out map[string]string
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &out))
	shiftID := out["id"]

	body, _ := json.Marshal(CloseShiftRequest{
		EndOdometer: 50250,
		Checklist:   models.ChecklistResult{"pneus": true, "freios": false},
		Damage: &models.DamageReport{
			Kind:        "lataria",
			Severity:    "leve",
			Description: "risco na porta",
		},
		SignatureURL: "http://example.com/sig.png",
	})
	w := do(h.ShiftClose, httptest.NewRequest("POST", "/api/shifts/"+shiftID+"/close", bytes.NewBuffer(body)))
	require.Equal(t, http.StatusNoContent, w.Code)

	// Closed: no open shift remains, end readings recorded.
	_, open := h.store.OpenShiftForVehicle("v1")
	assert.False(t, open)

	row := g.row(db.TableShifts, shiftID)
	assert.Equal(t, string(models.ShiftClosed), row["status"])
	assert.Equal(t, 50250, row["end_odometer"])
	assert.NotNil(t, row["ended_at"])

	vehicle, _ := h.store.VehicleByID("v1")
	assert.Equal(t, 50250, vehicle.Odometer)
}

func TestCloseShift_Validation(t *testing.T) {
	h := newTestHandler(seedGateway())

	created := openShiftRequest(t, h, OpenShiftRequest{VehicleID: "v1", Driver: "Carlos Silva", StartOdometer: 50000})
	require.Equal(t, http.StatusCreated, created.Code)
	var out map[string]string
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &out))
	shiftID := out["id"]

	t.Run("end odometer below start", func(t *testing.T) {
		body, _ := json.Marshal(CloseShiftRequest{EndOdometer: 49000})
		w := do(h.ShiftClose, httptest.NewRequest("POST", "/api/shifts/"+shiftID+"/close", bytes.NewBuffer(body)))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown shift", func(t *testing.T) {
		body, _ := json.Marshal(CloseShiftRequest{EndOdometer: 51000})
		w := do(h.ShiftClose, httptest.NewRequest("POST", "/api/shifts/ghost/close", bytes.NewBuffer(body)))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("closing twice conflicts", func(t *testing.T) {
		body, _ := json.Marshal(CloseShiftRequest{EndOdometer: 51000})
		w := do(h.ShiftClose, httptest.NewRequest("POST", "/api/shifts/"+shiftID+"/close", bytes.NewBuffer(body)))
		require.Equal(t, http.StatusNoContent, w.Code)

		body, _ = json.Marshal(CloseShiftRequest{EndOdometer: 52000})
		w = do(h.ShiftClose, httptest.NewRequest("POST", "/api/shifts/"+shiftID+"/close", bytes.NewBuffer(body)))
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestCloseShift_OutOfScopeReadsAsAbsent(t *testing.T) {
	h := newTestHandler(seedGateway())

	created := openShiftRequest(t, h, OpenShiftRequest{VehicleID: "v2", Driver: "Ana Souza", StartOdometer: 30000})
	require.Equal(t, http.StatusCreated, created.Code)
	var out map[string]string
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &out))
	shiftID := out["id"]

	// A driver from another center cannot reach the shift.
	body, _ := json.Marshal(CloseShiftRequest{EndOdometer: 30100})
	req := asUser(httptest.NewRequest("POST", "/api/shifts/"+shiftID+"/close", bytes.NewBuffer(body)), models.RoleMotorista, "12 - Fleet A")
	assert.Equal(t, http.StatusNotFound, do(h.ShiftClose, req).Code)

	// The vehicle's own center can.
	body, _ = json.Marshal(CloseShiftRequest{EndOdometer: 30100})
	req = asUser(httptest.NewRequest("POST", "/api/shifts/"+shiftID+"/close", bytes.NewBuffer(body)), models.RoleMotorista, "120 - Other")
	assert.Equal(t, http.StatusNoContent, do(h.ShiftClose, req).Code)
}

func TestOpenShift_OutOfScopeVehicleReadsAsAbsent(t *testing.T) {
	h := newTestHandler(seedGateway())

	body, _ := json.Marshal(OpenShiftRequest{VehicleID: "v2", Driver: "Carlos Silva", StartOdometer: 30000})
	req := asUser(httptest.NewRequest("POST", "/api/shifts", bytes.NewBuffer(body)), models.RoleMotorista, "12 - Fleet A")
	assert.Equal(t, http.StatusNotFound, do(h.Shifts, req).Code)
}

func TestShifts_ListFollowsVehicleVisibility(t *testing.T) {
	h := newTestHandler(seedGateway())

	w := openShiftRequest(t, h, OpenShiftRequest{VehicleID: "v1", Driver: "Carlos Silva", StartOdometer: 50000})
	require.Equal(t, http.StatusCreated, w.Code)
	w = openShiftRequest(t, h, OpenShiftRequest{VehicleID: "v2", Driver: "Ana Souza", StartOdometer: 30000})
	require.Equal(t, http.StatusCreated, w.Code)

	req := asUser(httptest.NewRequest("GET", "/api/shifts", nil), models.RoleMotorista, "12 - Fleet A")
	listed := do(h.Shifts, req)
	require.Equal(t, http.StatusOK, listed.Code)

	var shifts []models.Shift
	require.NoError(t, json.Unmarshal(listed.Body.Bytes(), &shifts))
	require.Len(t, shifts, 1)
	assert.Equal(t, "v1", shifts[0].VehicleID)
}
