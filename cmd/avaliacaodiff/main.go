// Command avaliacaodiff compares a hand-maintained consolidated report with the
// tallies computed from the database and prints the differences as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/GuilhermeSoares009/supplier-eval-system/internal/calculator"
	"github.com/GuilhermeSoares009/supplier-eval-system/internal/config"
	"github.com/GuilhermeSoares009/supplier-eval-system/internal/model"
	"github.com/GuilhermeSoares009/supplier-eval-system/internal/parser"
	"github.com/GuilhermeSoares009/supplier-eval-system/internal/store"
	"github.com/GuilhermeSoares009/supplier-eval-system/internal/workbook"
)

var (
	manualPath = flag.String("manual", "", "planilha de avaliação mantida manualmente (.xlsx/.xls)")
	year       = flag.Int("ano", time.Now().Year(), "ano de referência")
	outPath    = flag.String("out", "", "arquivo JSON de saída (padrão: stdout)")
	dbPath     = flag.String("db", "", "banco SQLite (padrão: o da configuração)")
)

func main() {
	flag.Parse()
	if *manualPath == "" {
		fmt.Fprintln(os.Stderr, "uso: avaliacaodiff -manual <arquivo> [-ano 2026] [-out diff.json] [-db avaliacao.db]")
		os.Exit(2)
	}
	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "avaliacaodiff: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	manual, err := readManual(*manualPath)
	if err != nil {
		return err
	}

	path := *dbPath
	if path == "" {
		cfg, _, err := config.LoadConfigWithInfo()
		if err != nil {
			return err
		}
		path = config.DBPath(cfg)
	}
	st, err := store.New(path)
	if err != nil {
		return err
	}
	defer st.Close()

	records, err := st.ListRecordsByYear(ctx, *year)
	if err != nil {
		return err
	}
	generated := calculator.SummaryIndexOf(calculator.MonthlySummary(records, *year), true)
	diff := calculator.DiffSummaries(manual, generated)

	var w io.Writer = os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(diff)
}

// readManual parses every sheet of the manual workbook and merges the months found
func readManual(path string) (parser.SummaryIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	wb, err := workbook.Open(filepath.Base(path), f)
	if err != nil {
		return nil, err
	}
	idx := parser.SummaryIndex{}
	for _, sheet := range wb.Sheets {
		report, err := parser.ParseSummaryReport(sheet, parser.ManualSummaryLayout)
		if err != nil {
			// sheets without month blocks (notes, charts) are not part of the report
			continue
		}
		for month, suppliers := range report.Index {
			if idx[month] == nil {
				idx[month] = map[string]model.TierCounts{}
			}
			for name, counts := range suppliers {
				merged := idx[month][name]
				for _, t := range model.Tiers() {
					merged.AddN(t, counts.Get(t))
				}
				idx[month][name] = merged
			}
		}
	}
	if len(idx) == 0 {
		return nil, fmt.Errorf("%s: nenhum bloco mensal encontrado", path)
	}
	return idx, nil
}
