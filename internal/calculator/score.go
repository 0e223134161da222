package calculator

import "github.com/GuilhermeSoares009/supplier-eval-system/internal/model"

// Inputs the six values a delivery is scored on
type Inputs struct {
	TotalItems     int
	ItemsFulfilled int
	// Criteria packaging, temperature, lead time, validity, carrier; each 0 or 1
	Criteria [5]int
}

// Result scoring outcome
type Result struct {
	Accuracy float64    `json:"acuracidade"`
	Score    float64    `json:"notaTotal"`
	Tier     model.Tier `json:"classificacao"`
}

// Accuracy fulfilled/total clamped to [0,1]; zero when nothing was ordered.
func Accuracy(fulfilled, total int) float64 {
	if total <= 0 {
		return 0
	}
	return clamp01(float64(fulfilled) / float64(total))
}

// Composite arithmetic mean of accuracy and the five criteria, clamped to [0,1].
func Composite(accuracy float64, criteria [5]int) float64 {
	sum := accuracy
	for _, c := range criteria {
		sum += float64(c)
	}
	return clamp01(sum / 6)
}

// Evaluate scores a delivery. Pure; the same inputs always give the same bits.
func Evaluate(in Inputs) Result {
	acc := Accuracy(in.ItemsFulfilled, in.TotalItems)
	score := Composite(acc, in.Criteria)
	return Result{Accuracy: acc, Score: score, Tier: model.Classify(score)}
}

// EvaluateRecord scores the stored fields of r.
func EvaluateRecord(r model.Record) Result {
	return Evaluate(Inputs{
		TotalItems:     r.TotalItems,
		ItemsFulfilled: r.ItemsFulfilled,
		Criteria:       r.Criteria(),
	})
}

// Stale reports whether the derived fields of r differ from a fresh evaluation.
func Stale(r model.Record) (Result, bool) {
	fresh := EvaluateRecord(r)
	return fresh, fresh.Accuracy != r.Accuracy || fresh.Score != r.Score || fresh.Tier != r.Tier
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
