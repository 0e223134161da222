package parser

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Transliterate strips combining marks, so "Ótimo" becomes "Otimo".
func Transliterate(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

var ordinalReplacer = strings.NewReplacer("º", "o", "°", "o", "ª", "a")

// NormalizeLabel lowercases, folds accents and ordinal marks, and reduces every
// run of non-alphanumeric characters to one space.
func NormalizeLabel(s string) string {
	s = strings.Join(strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	}), " ")
	s = Transliterate(ordinalReplacer.Replace(s))

	var b strings.Builder
	b.Grow(len(s))
	pendingSpace := false
	for _, r := range s {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteRune(r)
			pendingSpace = false
			continue
		}
		pendingSpace = true
	}
	return b.String()
}

// Words set of label tokens with digits removed
type Words map[string]struct{}

// WordSet normalizes label and splits it into a deduplicated token set.
func WordSet(label string) Words {
	w := Words{}
	for _, tok := range strings.Fields(NormalizeLabel(label)) {
		tok = strings.Map(func(r rune) rune {
			if unicode.IsDigit(r) {
				return -1
			}
			return r
		}, tok)
		if tok != "" {
			w[tok] = struct{}{}
		}
	}
	return w
}

// Has reports whether every word is present.
func (w Words) Has(words ...string) bool {
	for _, word := range words {
		if _, ok := w[word]; !ok {
			return false
		}
	}
	return true
}

// Any reports whether at least one word is present.
func (w Words) Any(words ...string) bool {
	for _, word := range words {
		if _, ok := w[word]; ok {
			return true
		}
	}
	return false
}

// Matcher recognizes a header label as a canonical field.
type Matcher interface {
	Match(label string) (Field, bool)
}

type fieldRule struct {
	Field Field
	Match func(w Words, normalized string) bool
}

var numberWords = []string{"numero", "n", "no", "nro", "num"}

// Rule order decides ties inside one cell: items fulfilled before invoice so
// "Itens atendidos na NF" is not read as the invoice column, validity before
// lead time so "Prazo de validade" is validity. A label that starts with
// "atendimento" is the carrier column even when it mentions "prazo".
var defaultRules = []fieldRule{
	{FieldReceiptDate, func(w Words, _ string) bool {
		return w.Has("data", "recebimento") || w.Has("data", "receb")
	}},
	{FieldSupplier, func(w Words, _ string) bool {
		return w.Has("fornecedor")
	}},
	{FieldItemsFulfilled, func(w Words, _ string) bool {
		return w.Has("itens") && w.Any("atendidos", "entregues") && w.Any("nota", "nf")
	}},
	{FieldTotalItems, func(w Words, _ string) bool {
		if !w.Has("itens") || w.Any("atendidos", "entregues") {
			return false
		}
		return w.Any("total", "qtd", "qtde", "qt", "quant", "quantidade", "pedido")
	}},
	{FieldOrderNumber, func(w Words, _ string) bool {
		return w.Has("pedido") && w.Any(numberWords...)
	}},
	{FieldInvoiceNumber, func(w Words, normalized string) bool {
		if w.Any("nf", "nfe") {
			return true
		}
		if w.Has("nota", "fiscal") && w.Any(numberWords...) {
			return true
		}
		return strings.Contains(" "+normalized+" ", " da nota fiscal ")
	}},
	{FieldPackaging, func(w Words, _ string) bool { return w.Has("embalagem") }},
	{FieldTemperature, func(w Words, _ string) bool { return w.Has("temperatura") }},
	{FieldValidity, func(w Words, _ string) bool { return w.Has("validade") }},
	{FieldLeadTime, func(w Words, normalized string) bool {
		return w.Has("prazo") && !startsWithWord(normalized, "atendimento")
	}},
	{FieldCarrier, func(w Words, _ string) bool { return w.Any("atendimento", "transportadora") }},
	{FieldPoints, func(w Words, _ string) bool { return w.Any("pontos", "pontuacao", "pt", "pts") }},
}

func startsWithWord(normalized, word string) bool {
	return normalized == word || strings.HasPrefix(normalized, word+" ")
}

// WordSetMatcher matches labels by word-set containment.
type WordSetMatcher struct {
	rules []fieldRule
}

// NewWordSetMatcher matcher with the RIR field rules
func NewWordSetMatcher() *WordSetMatcher {
	return &WordSetMatcher{rules: defaultRules}
}

// Match returns the first field whose rule accepts label.
func (m *WordSetMatcher) Match(label string) (Field, bool) {
	normalized := NormalizeLabel(label)
	if normalized == "" {
		return 0, false
	}
	w := WordSet(label)
	for _, r := range m.rules {
		if r.Match(w, normalized) {
			return r.Field, true
		}
	}
	return 0, false
}
