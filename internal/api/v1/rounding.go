package v1

import (
	"github.com/shopspring/decimal"

	"github.com/GuilhermeSoares009/supplier-eval-system/internal/model"
)

// roundRatio rounds a ratio to four places (two decimals as a percentage).
func roundRatio(v float64) float64 {
	return decimal.NewFromFloat(v).Round(4).InexactFloat64()
}

// tierShare fraction of each tier in counts, keyed by tier key, rounded for display.
func tierShare(counts model.TierCounts) map[string]float64 {
	out := make(map[string]float64, len(model.Tiers()))
	total := counts.Total()
	for _, t := range model.Tiers() {
		if total == 0 {
			out[t.Key()] = 0
			continue
		}
		share := decimal.NewFromInt(int64(counts.Get(t))).Div(decimal.NewFromInt(int64(total)))
		out[t.Key()] = share.Round(4).InexactFloat64()
	}
	return out
}
