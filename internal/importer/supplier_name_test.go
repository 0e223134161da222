package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GuilhermeSoares009/supplier-eval-system/internal/model"
)

func TestSupplierName(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"  Fornecedor   São João ": "FORNECEDOR SAO JOAO",
		"acme ltda":                "ACME LTDA",
		"":                         "",
		"TOTAL":                    "",
		"Março":                    "",
		"Ótimo":                    "",
		"insatisfatório":           "",
		"Não Conforme":             "",
	}
	for in, want := range cases {
		assert.Equal(t, want, SupplierName(in), "input %q", in)
	}
	assert.Equal(t, "MARCO", NormalizeSupplierName("Março"))
}

func TestAliasTable(t *testing.T) {
	t.Parallel()
	table := NewAliasTable([]model.Alias{
		{Alias: "siemens healthcare", Canonical: "Siemens"},
		{Alias: "ACME", Canonical: "acme"},
		{Alias: "", Canonical: "X"},
	})

	assert.Equal(t, 1, table.Len())
	assert.Equal(t, "SIEMENS", table.Resolve("SIEMENS HEALTHCARE"))
	assert.Equal(t, "ACME", table.Resolve("ACME"))
	assert.Equal(t, "OUTRO", table.Resolve("OUTRO"))
}
