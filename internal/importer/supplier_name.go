package importer

import (
	"strings"

	"github.com/GuilhermeSoares009/supplier-eval-system/internal/model"
	"github.com/GuilhermeSoares009/supplier-eval-system/internal/parser"
)

// Cells that land in the supplier column of hand-made reports but are not suppliers.
var placeholderNames = func() map[string]struct{} {
	out := map[string]struct{}{
		"CONFORME": {}, "NAO CONFORME": {}, "TOTAL": {}, "FORNECEDOR": {},
	}
	for _, m := range parser.MonthNames {
		out[m] = struct{}{}
	}
	for _, t := range model.Tiers() {
		out[NormalizeSupplierName(t.String())] = struct{}{}
	}
	return out
}()

// NormalizeSupplierName canonical spelling: upper case, no accents, single spaces.
func NormalizeSupplierName(raw string) string {
	return strings.Join(strings.Fields(strings.ToUpper(parser.Transliterate(raw))), " ")
}

// SupplierName normalized supplier of a cell, empty for blanks and placeholders.
func SupplierName(raw string) string {
	name := NormalizeSupplierName(raw)
	if _, skip := placeholderNames[name]; skip {
		return ""
	}
	return name
}

// AliasTable read-only alias lookup, built once per batch.
type AliasTable struct {
	m map[string]string
}

// NewAliasTable normalizes both sides of every alias. Self-references are dropped.
func NewAliasTable(aliases []model.Alias) AliasTable {
	m := make(map[string]string, len(aliases))
	for _, a := range aliases {
		alias, canonical := NormalizeSupplierName(a.Alias), NormalizeSupplierName(a.Canonical)
		if alias == "" || canonical == "" || alias == canonical {
			continue
		}
		m[alias] = canonical
	}
	return AliasTable{m: m}
}

// Resolve canonical name for name, or name itself when it has no alias.
func (t AliasTable) Resolve(name string) string {
	if canonical, ok := t.m[name]; ok {
		return canonical
	}
	return name
}

// Len number of aliases
func (t AliasTable) Len() int { return len(t.m) }
