// Package costcenter computes per-cost-center budget consumption and the
// trailing cash-flow series. All functions are pure over their input
// collections and safe to recompute on every request.
package costcenter

import (
	"math"
	"strings"
	"time"

	"github.com/frotaops/fleet-manager/internal/models"
)

// WarningThreshold is the consumption percentage at which a cost center is
// flagged. The threshold is inclusive: exactly 90% warns.
const WarningThreshold = 90

// Summary holds the derived metrics for one cost center.
type Summary struct {
	Center           models.CostCenter `json:"center"`
	MaintenanceTotal float64           `json:"maintenance_total"`
	FuelTotal        float64           `json:"fuel_total"`
	Consumed         float64           `json:"consumed"`
	Available        float64           `json:"available"` // negative means deficit
	Progress         int               `json:"progress"`  // clamped to [0,100] for display
	RawProgress      int               `json:"raw_progress"`
	Warning          bool              `json:"warning"`
}

// Summarize computes a Summary per cost center. Inputs are whatever scope
// the caller already filtered to; the engine is scope-agnostic and must be
// re-run after any visibility filtering.
//
// A zero budget never divides: progress is 0 and the warning fires whenever
// anything was consumed at all.
func Summarize(centers []models.CostCenter, orders []models.ServiceOrder, fuel []models.FuelEntry) []Summary {
	out := make([]Summary, 0, len(centers))
	for _, c := range centers {
		s := Summary{Center: c}
		for _, o := range orders {
			if o.CostCenter.Matches(c) {
				s.MaintenanceTotal += o.CostValue
			}
		}
		for _, e := range fuel {
			if e.CostCenter.Matches(c) {
				s.FuelTotal += e.TotalValue
			}
		}
		s.Consumed = s.MaintenanceTotal + s.FuelTotal
		s.Available = c.Budget - s.Consumed
		if c.Budget > 0 {
			s.RawProgress = int(math.Round(100 * s.Consumed / c.Budget))
			s.Warning = s.RawProgress >= WarningThreshold
		} else {
			s.RawProgress = 0
			s.Warning = s.Consumed > 0
		}
		s.Progress = s.RawProgress
		if s.Progress > 100 {
			s.Progress = 100
		}
		if s.Progress < 0 {
			s.Progress = 0
		}
		out = append(out, s)
	}
	return out
}

// MonthBucket is one calendar month of combined fleet spend.
type MonthBucket struct {
	Label       string     `json:"label"` // short month name
	Year        int        `json:"year"`
	Month       time.Month `json:"month"`
	Maintenance float64    `json:"maintenance"`
	Fuel        float64    `json:"fuel"`
	Total       float64    `json:"total"`
}

// CashFlow builds six trailing calendar-month buckets ending at the month of
// now. Order cost lands in the maintenance bucket of its opened-at month,
// fuel spend in the fuel bucket of its date's month. Spend outside the
// window is excluded entirely; an unparsable date skips the record. Empty
// buckets stay zero.
func CashFlow(orders []models.ServiceOrder, fuel []models.FuelEntry, now time.Time) []MonthBucket {
	buckets := make([]MonthBucket, 6)
	index := make(map[string]int, 6)
	// Anchor on the first of the month: stepping months from day 29-31
	// normalizes into the wrong month.
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	for i := 0; i < 6; i++ {
		m := first.AddDate(0, i-5, 0)
		buckets[i] = MonthBucket{
			Label: m.Month().String()[:3],
			Year:  m.Year(),
			Month: m.Month(),
		}
		index[monthKey(m)] = i
	}
	for _, o := range orders {
		when, ok := ParseWhen(o.OpenedAt)
		if !ok {
			continue
		}
		if i, ok := index[monthKey(when)]; ok {
			buckets[i].Maintenance += o.CostValue
		}
	}
	for _, e := range fuel {
		when, ok := ParseWhen(e.Date)
		if !ok {
			continue
		}
		if i, ok := index[monthKey(when)]; ok {
			buckets[i].Fuel += e.TotalValue
		}
	}
	for i := range buckets {
		buckets[i].Total = buckets[i].Maintenance + buckets[i].Fuel
	}
	return buckets
}

func monthKey(t time.Time) string {
	return t.Format("2006-01")
}

// ParseWhen parses the timestamp strings carried by orders and fuel entries.
// A space-separated date-time is normalized to its ISO form first. Returns
// false for anything that still fails to parse.
func ParseWhen(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	normalized := strings.Replace(raw, " ", "T", 1)
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, normalized); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
