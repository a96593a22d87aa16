package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/frotaops/fleet-manager/internal/db"
	"github.com/frotaops/fleet-manager/internal/insight"
	"github.com/frotaops/fleet-manager/internal/middleware"
	"github.com/frotaops/fleet-manager/internal/models"
	"github.com/frotaops/fleet-manager/internal/store"
)

// memGateway is an in-memory gateway for handler tests.
type memGateway struct {
	rows map[string][]bson.M
}

func newMemGateway() *memGateway {
	return &memGateway{rows: make(map[string][]bson.M)}
}

func (g *memGateway) Table(name string) db.RowCollection {
	return &memRows{gateway: g, table: name}
}

func (g *memGateway) row(table, id string) bson.M {
	for _, row := range g.rows[table] {
		if row["_id"] == id {
			return row
		}
	}
	return nil
}

type memRows struct {
	gateway *memGateway
	table   string
}

func (c *memRows) FindRows(ctx context.Context, filter interface{}) ([]bson.M, error) {
	return c.gateway.rows[c.table], nil
}

func (c *memRows) InsertRow(ctx context.Context, row bson.M) (string, error) {
	id := fmt.Sprintf("%s-%d", c.table, len(c.gateway.rows[c.table])+1)
	row["_id"] = id
	c.gateway.rows[c.table] = append(c.gateway.rows[c.table], row)
	return id, nil
}

func (c *memRows) UpdateRow(ctx context.Context, id string, patch bson.M) error {
	if row := c.gateway.row(c.table, id); row != nil {
		for k, v := range patch {
			row[k] = v
		}
		return nil
	}
	return errors.New("row not found")
}

func (c *memRows) DeleteRow(ctx context.Context, id string) error {
	rows := c.gateway.rows[c.table]
	for i, row := range rows {
		if row["_id"] == id {
			c.gateway.rows[c.table] = append(rows[:i], rows[i+1:]...)
			return nil
		}
	}
	return errors.New("row not found")
}

// newTestHandler builds a fleet handler over an in-memory gateway with the
// store synced to it.
func newTestHandler(g *memGateway) *FleetHandler {
	st := store.New()
	_ = st.Refresh(context.Background(), g)
	return NewFleetHandler(g, st, insight.NewWithURL("", ""))
}

// asUser attaches claims to the request, the way the auth middleware would.
func asUser(r *http.Request, role models.Role, costCenter string) *http.Request {
	claims := &models.Claims{
		UserID:     "test-user",
		Email:      "test@frotaops.com",
		Role:       role,
		CostCenter: costCenter,
	}
	return r.WithContext(context.WithValue(r.Context(), middleware.UserContextKey, claims))
}

func do(h http.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h(w, r)
	return w
}
