package workbook

import (
	"bytes"
	"encoding/csv"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// readCSV yields a single sheet named after the file. Files that are not valid
// UTF-8 are decoded as Windows-1252, the encoding spreadsheet tools use when
// saving CSV on Portuguese locales.
func readCSV(name string, r io.Reader) ([]Sheet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		decoded, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
		if err != nil {
			return nil, err
		}
		data = decoded
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	sheetName := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	return []Sheet{newStringGrid(sheetName, rows)}, nil
}

// sniffDelimiter picks the candidate separator that appears most often in the
// first lines; comma wins when nothing else is present.
func sniffDelimiter(data []byte) rune {
	lines := strings.SplitN(string(data), "\n", 31)
	if len(lines) > 30 {
		lines = lines[:30]
	}
	best, bestCount := ',', 0
	for _, d := range []rune{',', ';', '\t', '|'} {
		n := 0
		for _, line := range lines {
			n += strings.Count(line, string(d))
		}
		if n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}
