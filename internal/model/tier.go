package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Tier classification tier of an evaluated delivery, ordered from worst to best.
type Tier int

const (
	TierNone Tier = iota
	TierInsatisfatorio
	TierRegular
	TierBom
	TierOtimo
)

// Score thresholds, inclusive lower bounds.
const (
	ThresholdOtimo   = 0.90
	ThresholdBom     = 0.70
	ThresholdRegular = 0.50
)

// Tiers all valid tiers in ascending quality order.
func Tiers() []Tier {
	return []Tier{TierInsatisfatorio, TierRegular, TierBom, TierOtimo}
}

// Classify maps a composite score to its tier. It is the only place the thresholds are applied.
func Classify(score float64) Tier {
	switch {
	case score >= ThresholdOtimo:
		return TierOtimo
	case score >= ThresholdBom:
		return TierBom
	case score >= ThresholdRegular:
		return TierRegular
	default:
		return TierInsatisfatorio
	}
}

// Valid reports whether t is one of the four tiers.
func (t Tier) Valid() bool {
	return t >= TierInsatisfatorio && t <= TierOtimo
}

// String display label
func (t Tier) String() string {
	switch t {
	case TierOtimo:
		return "Ótimo"
	case TierBom:
		return "Bom"
	case TierRegular:
		return "Regular"
	case TierInsatisfatorio:
		return "Insatisfatório"
	default:
		return ""
	}
}

// Key ascii identifier used in JSON tallies and query strings
func (t Tier) Key() string {
	switch t {
	case TierOtimo:
		return "otimo"
	case TierBom:
		return "bom"
	case TierRegular:
		return "regular"
	case TierInsatisfatorio:
		return "insatisfatorio"
	default:
		return ""
	}
}

// ParseTier accepts display labels, keys and the free-text variants found in legacy reports.
func ParseTier(s string) (Tier, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ótimo", "otimo", "excelente":
		return TierOtimo, true
	case "bom":
		return TierBom, true
	case "regular":
		return TierRegular, true
	case "insatisfatório", "insatisfatorio", "ruim", "péssimo", "pessimo":
		return TierInsatisfatorio, true
	}
	return TierNone, false
}

func (t Tier) MarshalJSON() ([]byte, error) {
	if !t.Valid() {
		return []byte("null"), nil
	}
	return json.Marshal(t.String())
}

func (t *Tier) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*t = TierNone
		return nil
	}
	v, ok := ParseTier(s)
	if !ok {
		return fmt.Errorf("unknown tier %q", s)
	}
	*t = v
	return nil
}

// Value stores the display label, matching the classificacao column.
func (t Tier) Value() (driver.Value, error) {
	if !t.Valid() {
		return nil, nil
	}
	return t.String(), nil
}

func (t *Tier) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = TierNone
		return nil
	case string:
		return t.scanText(v)
	case []byte:
		return t.scanText(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Tier", src)
	}
}

func (t *Tier) scanText(s string) error {
	if s == "" {
		*t = TierNone
		return nil
	}
	v, ok := ParseTier(s)
	if !ok {
		return fmt.Errorf("unknown tier %q", s)
	}
	*t = v
	return nil
}

// TierCounts occurrences per tier
type TierCounts struct {
	Otimo          int `json:"otimo"`
	Bom            int `json:"bom"`
	Regular        int `json:"regular"`
	Insatisfatorio int `json:"insatisfatorio"`
}

// Add counts one occurrence of t; invalid tiers are ignored.
func (c *TierCounts) Add(t Tier) {
	c.AddN(t, 1)
}

// AddN counts n occurrences of t.
func (c *TierCounts) AddN(t Tier, n int) {
	switch t {
	case TierOtimo:
		c.Otimo += n
	case TierBom:
		c.Bom += n
	case TierRegular:
		c.Regular += n
	case TierInsatisfatorio:
		c.Insatisfatorio += n
	}
}

// Get count of t
func (c TierCounts) Get(t Tier) int {
	switch t {
	case TierOtimo:
		return c.Otimo
	case TierBom:
		return c.Bom
	case TierRegular:
		return c.Regular
	case TierInsatisfatorio:
		return c.Insatisfatorio
	}
	return 0
}

// Total sum over all tiers
func (c TierCounts) Total() int {
	return c.Otimo + c.Bom + c.Regular + c.Insatisfatorio
}

// Dominant tier with the highest count; on equal counts the better tier wins.
// Returns false when every count is zero.
func (c TierCounts) Dominant() (Tier, bool) {
	best, bestCount := TierNone, 0
	for _, t := range Tiers() {
		if n := c.Get(t); n > 0 && n >= bestCount {
			best, bestCount = t, n
		}
	}
	return best, best != TierNone
}

// Folded three-column form used by the consolidated report, where
// insatisfatório deliveries are counted under regular.
func (c TierCounts) Folded() TierCounts {
	return TierCounts{Otimo: c.Otimo, Bom: c.Bom, Regular: c.Regular + c.Insatisfatorio}
}
