package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var monthAbbrev = map[string]time.Month{
	"JAN": time.January, "FEV": time.February, "MAR": time.March,
	"ABR": time.April, "MAI": time.May, "JUN": time.June,
	"JUL": time.July, "AGO": time.August, "SET": time.September,
	"OUT": time.October, "NOV": time.November, "DEZ": time.December,
}

// MonthNames Portuguese month names in calendar order, upper case without accents
var MonthNames = [12]string{
	"JANEIRO", "FEVEREIRO", "MARCO", "ABRIL", "MAIO", "JUNHO",
	"JULHO", "AGOSTO", "SETEMBRO", "OUTUBRO", "NOVEMBRO", "DEZEMBRO",
}

var (
	sheetMonthYearRe = regexp.MustCompile(`(?i)(JAN|FEV|MAR|ABR|MAI|JUN|JUL|AGO|SET|OUT|NOV|DEZ)[^0-9]*(\d{2,4})`)
	fileMonthYearRe  = regexp.MustCompile(`(?i)(JAN|FEV|MAR|ABR|MAI|JUN|JUL|AGO|SET|OUT|NOV|DEZ)[\s\-_]*(\d{2,4})`)
	fourDigitYearRe  = regexp.MustCompile(`(\d{4})`)
)

// MonthFromName infers the first day of the month a report covers from its
// sheet and file names. Checked in order:
//   - sheet "MAR 25" or "Março/2025"
//   - sheet starting with a month ("FEV", "Janeiro") plus a 4-digit year in the file name
//   - file "RIR - JAN 25.csv"
func MonthFromName(fileName, sheetName string) (time.Time, bool) {
	if m := sheetMonthYearRe.FindStringSubmatch(Transliterate(sheetName)); m != nil {
		if t, ok := monthOf(m[1], m[2]); ok {
			return t, true
		}
	}

	prefix := strings.ToUpper(Transliterate(strings.TrimSpace(sheetName)))
	if len(prefix) >= 3 {
		if month, ok := monthAbbrev[prefix[:3]]; ok {
			if m := fourDigitYearRe.FindStringSubmatch(fileName); m != nil {
				year, _ := strconv.Atoi(m[1])
				return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC), true
			}
		}
	}

	if m := fileMonthYearRe.FindStringSubmatch(fileName); m != nil {
		return monthOf(m[1], m[2])
	}
	return time.Time{}, false
}

func monthOf(abbrev, yearText string) (time.Time, bool) {
	month, ok := monthAbbrev[strings.ToUpper(abbrev)]
	if !ok {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(yearText)
	if err != nil {
		return time.Time{}, false
	}
	if year < 100 {
		year += 2000
	}
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC), true
}
