package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GuilhermeSoares009/supplier-eval-system/internal/model"
	"github.com/GuilhermeSoares009/supplier-eval-system/internal/parser"
)

func TestDiffSummaries(t *testing.T) {
	t.Parallel()

	manual := parser.SummaryIndex{
		"01": {
			"ACME": {Otimo: 1},
			"BETA": {Bom: 2},
		},
	}
	generated := parser.SummaryIndex{
		"01": {
			"BETA":  {Bom: 3},
			"GAMMA": {Otimo: 1},
		},
	}

	diff := DiffSummaries(manual, generated)
	d, ok := diff["01"]
	require.True(t, ok)
	assert.Equal(t, DiffTotals{Manual: 2, Generated: 2, Missing: 1, Extra: 1, CountDiffs: 1}, d.Totals)
	assert.Contains(t, d.Missing, "ACME")
	assert.Contains(t, d.Extra, "GAMMA")
	assert.Equal(t, CountDiff{Manual: model.TierCounts{Bom: 2}, Generated: model.TierCounts{Bom: 3}}, d.CountDiffs["BETA"])
}

func TestSummaryIndexOf_Folded(t *testing.T) {
	t.Parallel()

	rows := []SummaryRow{{Supplier: "ACME"}}
	rows[0].Months[1] = &model.TierCounts{Otimo: 1, Regular: 1, Insatisfatorio: 2}

	idx := SummaryIndexOf(rows, true)
	assert.Equal(t, model.TierCounts{Otimo: 1, Regular: 3}, idx["02"]["ACME"])

	idx = SummaryIndexOf(rows, false)
	assert.Equal(t, model.TierCounts{Otimo: 1, Regular: 1, Insatisfatorio: 2}, idx["02"]["ACME"])
}
