// Package insight relays aggregated fleet metrics to a third-party
// text-generation service. The service is strictly optional: any failure or
// missing configuration degrades to a deterministic fallback narrative so
// callers never see an error.
package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
)

// Facts are the aggregated metrics sent to the text-generation service.
type Facts struct {
	Vehicles        int     `json:"vehicles"`
	ActiveVehicles  int     `json:"active_vehicles"`
	OpenOrders      int     `json:"open_orders"`
	MonthlySpend    float64 `json:"monthly_spend"`
	TopCostCenter   string  `json:"top_cost_center"`
	CentersOnAlert  int     `json:"centers_on_alert"`
	FuelSpend       float64 `json:"fuel_spend"`
	MaintenanceDue  int     `json:"maintenance_due"`
	PreventiveLimit int     `json:"preventive_limit_km"`
}

// Client calls the text-generation API.
type Client struct {
	url    string
	apiKey string
	http   *http.Client
}

// New builds a client from INSIGHT_API_URL and INSIGHT_API_KEY. An empty
// URL leaves the client in fallback-only mode.
func New() *Client {
	return &Client{
		url:    os.Getenv("INSIGHT_API_URL"),
		apiKey: os.Getenv("INSIGHT_API_KEY"),
		http:   &http.Client{Timeout: 15 * time.Second},
	}
}

// NewWithURL builds a client against an explicit endpoint.
func NewWithURL(url, apiKey string) *Client {
	return &Client{
		url:    url,
		apiKey: apiKey,
		http:   &http.Client{Timeout: 15 * time.Second},
	}
}

type generateRequest struct {
	Prompt string `json:"prompt"`
	Facts  Facts  `json:"facts"`
}

type generateResponse struct {
	Text string `json:"text"`
}

// Summarize returns a narrative fleet insight for the given facts. Never
// fails: a misconfigured or unreachable service yields Fallback(facts).
func (c *Client) Summarize(ctx context.Context, facts Facts) string {
	text, err := c.generate(ctx, "fleet overview", facts)
	if err != nil {
		log.WithError(err).Warn("insight service unavailable, using fallback")
		return Fallback(facts)
	}
	return text
}

// MaintenanceAlertBody returns the body for a preventive-maintenance alert
// about one vehicle. Same degradation contract as Summarize.
func (c *Client) MaintenanceAlertBody(ctx context.Context, plate string, kmSince int, facts Facts) string {
	text, err := c.generate(ctx, fmt.Sprintf("maintenance alert for %s (%d km since service)", plate, kmSince), facts)
	if err != nil {
		log.WithError(err).Warn("insight service unavailable, using fallback alert body")
		return FallbackAlert(plate, kmSince)
	}
	return text
}

func (c *Client) generate(ctx context.Context, prompt string, facts Facts) (string, error) {
	if c.url == "" {
		return "", fmt.Errorf("insight API not configured")
	}
	body, err := json.Marshal(generateRequest{Prompt: prompt, Facts: facts})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("insight API returned %s", resp.Status)
	}
	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.Text == "" {
		return "", fmt.Errorf("insight API returned empty text")
	}
	return out.Text, nil
}

// Fallback builds the deterministic narrative used when the service is
// unavailable.
func Fallback(f Facts) string {
	return fmt.Sprintf(
		"Fleet status: %d vehicles (%d active), %d open service orders. "+
			"Monthly spend R$ %.2f, fuel R$ %.2f. %d cost center(s) above the budget alert threshold. "+
			"Top spender: %s. %d vehicle(s) due for preventive maintenance.",
		f.Vehicles, f.ActiveVehicles, f.OpenOrders,
		f.MonthlySpend, f.FuelSpend, f.CentersOnAlert,
		f.TopCostCenter, f.MaintenanceDue,
	)
}

// FallbackAlert builds the deterministic preventive-maintenance alert body.
func FallbackAlert(plate string, kmSince int) string {
	return fmt.Sprintf(
		"Vehicle %s has run %d km since its last preventive service and should be scheduled for maintenance.",
		plate, kmSince,
	)
}
