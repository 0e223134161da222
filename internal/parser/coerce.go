package parser

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/xuri/excelize/v2"
)

// BinaryPolicy how criterion cells other than 0 and 1 are treated
type BinaryPolicy int

const (
	// BinaryLenient rounds any other non-negative value to 1 when >= 1, else 0.
	BinaryLenient BinaryPolicy = iota
	// BinaryStrict rejects anything that is not exactly 0 or 1.
	BinaryStrict
)

// ParseBinaryPolicy "strict" selects BinaryStrict, anything else is lenient.
func ParseBinaryPolicy(s string) BinaryPolicy {
	if strings.EqualFold(strings.TrimSpace(s), "strict") {
		return BinaryStrict
	}
	return BinaryLenient
}

// Largest serial excelize can represent (9999-12-31).
const maxExcelSerial = 2958465

// Smallest serial accepted from text (1950-01-01). Shorter numbers in a date
// cell are years or typos, not dates.
const minTextSerial = 18264

var dayFirstLayouts = []string{
	"2/1/2006",
	"2/1/2006 15:04",
	"2/1/2006 15:04:05",
}

var generalDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.RFC3339,
	"2006/01/02",
	"2006/01/02 15:04",
	"2006/01/02 15:04:05",
	"2-1-2006",
	"2-1-2006 15:04",
	"2-1-2006 15:04:05",
	"2.1.2006",
	"2.1.2006 15:04",
	"2.1.2006 15:04:05",
	"2/1/06",
	"2/1/06 15:04",
	"2-1-06",
	"2.1.06",
	"02-Jan-2006",
	"2 Jan 2006",
	"Jan 2, 2006",
}

// ParseDate converts a cell into a date. Numbers are spreadsheet serials, and
// so are numeric strings from 1950 on; other strings try day/month/year first,
// then the general layouts. It never fails loudly: an unreadable value yields
// false.
func ParseDate(v any) (time.Time, bool) {
	switch x := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return x, !x.IsZero()
	case float64:
		return serialToDate(x)
	case int:
		return serialToDate(float64(x))
	case int64:
		return serialToDate(float64(x))
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return time.Time{}, false
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			if f < minTextSerial {
				return time.Time{}, false
			}
			return serialToDate(f)
		}
		for _, layout := range dayFirstLayouts {
			if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
				return t, true
			}
		}
		for _, layout := range generalDateLayouts {
			if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

func serialToDate(f float64) (time.Time, bool) {
	if f <= 0 || f > maxExcelSerial || math.IsNaN(f) {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(f, false)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseInt reads an integer count. Strings keep only their digits; a value with
// no digits is missing (false), which callers must not confuse with zero.
func ParseInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, false
		}
		return int(x), true
	case string:
		digits := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' {
				return r
			}
			return -1
		}, x)
		if digits == "" {
			return 0, false
		}
		n, err := strconv.Atoi(digits)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// ParseBinary reads a 0/1 criterion under the given policy.
func ParseBinary(v any, policy BinaryPolicy) (int, bool) {
	f, ok := binaryNumber(v)
	if !ok {
		return 0, false
	}
	switch {
	case f == 0:
		return 0, true
	case f == 1:
		return 1, true
	case policy == BinaryStrict:
		return 0, false
	case f >= 1:
		return 1, true
	default:
		return 0, true
	}
}

func binaryNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), x >= 0
	case int64:
		return float64(x), x >= 0
	case float64:
		return x, x >= 0 && !math.IsNaN(x)
	case string:
		var b strings.Builder
		sep := false
		for _, r := range x {
			switch {
			case unicode.IsDigit(r) && r < unicode.MaxASCII:
				b.WriteRune(r)
			case (r == '.' || r == ',') && !sep:
				b.WriteByte('.')
				sep = true
			}
		}
		s := b.String()
		if strings.Trim(s, ".") == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// ParseScore reads a fractional score. Strings with a percent sign, or whose
// value exceeds 1, are percentages.
func ParseScore(v any) float64 {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0
		}
		return x
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case string:
		isPercent := strings.Contains(x, "%")
		s := strings.NewReplacer("%", "", " ", "").Replace(x)
		s = strings.ReplaceAll(s, ",", ".")
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		if isPercent || f > 1 {
			return f / 100
		}
		return f
	}
	return 0
}

// CellText textual form of an identifier cell; integral numbers print without decimals.
func CellText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1e15 {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case time.Time:
		return x.Format("2006-01-02")
	}
	return ""
}
