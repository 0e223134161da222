package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GuilhermeSoares009/supplier-eval-system/internal/calculator"
	"github.com/GuilhermeSoares009/supplier-eval-system/internal/model"
	"github.com/GuilhermeSoares009/supplier-eval-system/internal/parser"
	"github.com/GuilhermeSoares009/supplier-eval-system/internal/store"
	"github.com/GuilhermeSoares009/supplier-eval-system/internal/workbook"
)

// Upload one file of a batch
type Upload struct {
	Name     string
	Size     int64
	MimeType string
	Data     io.Reader
}

// Options import behavior
type Options struct {
	// Locator header detection strategy; nil means heuristic.
	Locator parser.Locator
	Binary  parser.BinaryPolicy
}

// Coordinator runs import batches
type Coordinator struct {
	store  *store.Store
	logger *zap.Logger
	opts   Options
}

// NewCoordinator creates a coordinator
func NewCoordinator(st *store.Store, logger *zap.Logger, opts Options) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Locator == nil {
		opts.Locator = parser.NewHeuristicLocator()
	}
	return &Coordinator{store: st, logger: logger, opts: opts}
}

// batch state of one Import call
type batch struct {
	id      string
	aliases AliasTable
	logger  *zap.Logger
	result  model.ImportResult
	pending []model.Record // validated rows waiting for the batch transaction
	sheets  []model.SheetMeta
}

// Import reads every upload, validates and scores the rows, and writes them in
// a single transaction: either every valid row of the batch is stored or none.
// Row problems are counted as ignored with a reason; unreadable headers abort
// the batch with a *StructuralError; anything else is returned as is.
func (c *Coordinator) Import(ctx context.Context, uploads []Upload) (result *model.ImportResult, err error) {
	if len(uploads) == 0 {
		return nil, &StructuralError{Err: ErrNoFiles}
	}

	b := &batch{id: uuid.NewString()}
	b.logger = c.logger.With(zap.String("batch_id", b.id))
	b.result = model.ImportResult{BatchID: b.id, Months: []string{}, Rejections: []model.Rejection{}}
	start := time.Now()

	names := make([]string, len(uploads))
	for i, u := range uploads {
		names[i] = u.Name
	}
	logID, err := c.store.CreateImportLog(ctx, b.id, strings.Join(names, ", "))
	if err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("import batch %s: panic: %v", b.id, r)
			result = nil
		}
		c.finish(ctx, logID, b, err, time.Since(start))
	}()

	aliases, err := c.store.ListAliases(ctx)
	if err != nil {
		return nil, err
	}
	b.aliases = NewAliasTable(aliases)

	for _, u := range uploads {
		if err := c.readUpload(b, u); err != nil {
			return nil, err
		}
	}
	if err := c.commit(ctx, b); err != nil {
		return nil, err
	}

	sort.Strings(b.result.Months)
	out := b.result
	return &out, nil
}

func (c *Coordinator) readUpload(b *batch, u Upload) error {
	log := b.logger.With(zap.String("file", u.Name), zap.Int64("size", u.Size), zap.String("mime", u.MimeType))

	wb, err := workbook.Open(u.Name, u.Data)
	if err != nil {
		log.Error("failed to read upload", zap.Error(err))
		if errors.Is(err, workbook.ErrUnsupportedFormat) {
			return &StructuralError{File: u.Name, Err: err}
		}
		return err
	}

	found := false
	for _, sheet := range wb.Sheets {
		layout, err := c.opts.Locator.Locate(sheet)
		if errors.Is(err, parser.ErrHeaderNotFound) {
			log.Info("sheet skipped, header not found", zap.String("sheet", sheet.Name()))
			b.sheets = append(b.sheets, model.SheetMeta{
				SourceFile: u.Name, SheetName: sheet.Name(), TotalRows: sheet.MaxRow(),
				Status: "skipped", ErrorMessage: err.Error(),
			})
			continue
		}
		if err != nil {
			log.Warn("required columns missing", zap.String("sheet", sheet.Name()), zap.Error(err))
			b.sheets = append(b.sheets, model.SheetMeta{
				SourceFile: u.Name, SheetName: sheet.Name(), Strategy: layout.Strategy, HeaderRow: layout.HeaderRow,
				TotalRows: sheet.MaxRow(), ColumnMappingJSON: store.BuildColumnMappingJSON(layout.Columns.Keys()),
				Status: "failed", ErrorMessage: err.Error(),
			})
			return &StructuralError{File: u.Name, Sheet: sheet.Name(), Err: err}
		}
		found = true
		c.readSheet(b, wb.FileName, sheet, layout)
	}
	if !found {
		log.Warn("no sheet with a recognizable header")
		return &StructuralError{File: u.Name, Err: parser.ErrHeaderNotFound}
	}
	return nil
}

func (c *Coordinator) readSheet(b *batch, fileName string, sheet workbook.Sheet, layout parser.Layout) {
	meta := model.SheetMeta{
		SourceFile:        fileName,
		SheetName:         sheet.Name(),
		Strategy:          layout.Strategy,
		HeaderRow:         layout.HeaderRow,
		TotalRows:         sheet.MaxRow(),
		ColumnMappingJSON: store.BuildColumnMappingJSON(layout.Columns.Keys()),
		Status:            "imported",
	}

	for _, row := range parser.Extract(sheet, layout) {
		rec, rej := c.normalize(fileName, sheet.Name(), layout, row, b.aliases)
		if rej != nil {
			b.result.Ignored++
			b.result.Rejections = append(b.result.Rejections, *rej)
			meta.IgnoredRows++
			b.logger.Info("row ignored",
				zap.String("file", rej.File),
				zap.String("sheet", rej.Sheet),
				zap.Int("row", rej.Row),
				zap.String("field", rej.Field),
				zap.String("reason", string(rej.Reason)),
				zap.String("detail", rej.Message),
			)
			continue
		}
		checkDeclaredScore(b.logger, fileName, sheet.Name(), row, rec)
		b.pending = append(b.pending, rec)
		meta.ImportedRows++
	}
	b.sheets = append(b.sheets, meta)
}

// scoreTolerance sheets print the score as a whole percentage
const scoreTolerance = 0.01

// checkDeclaredScore logs a row whose own score column disagrees with the
// computed score. The computed score is always the one stored.
func checkDeclaredScore(log *zap.Logger, file, sheet string, row parser.RawRow, rec model.Record) bool {
	v := row.Get(parser.FieldPoints)
	if v == nil {
		return false
	}
	if text, ok := v.(string); ok && !strings.ContainsAny(text, "0123456789") {
		return false
	}
	declared := parser.ParseScore(v)
	if math.Abs(declared-rec.Score) <= scoreTolerance {
		return false
	}
	log.Warn("declared score differs from computed score",
		zap.String("file", file),
		zap.String("sheet", sheet),
		zap.Int("row", row.Number),
		zap.String("supplier", rec.Supplier),
		zap.Float64("declared", declared),
		zap.Float64("computed", rec.Score),
	)
	return true
}

// normalize turns a raw row into a scored record or a rejection.
func (c *Coordinator) normalize(file, sheet string, layout parser.Layout, row parser.RawRow, aliases AliasTable) (model.Record, *model.Rejection) {
	reject := func(reason model.RejectReason, field parser.Field, msg string) (model.Record, *model.Rejection) {
		return model.Record{}, &model.Rejection{
			File: file, Sheet: sheet, Row: row.Number,
			Field: field.Key(), Reason: reason, Message: msg,
		}
	}

	supplier := SupplierName(parser.CellText(row.Get(parser.FieldSupplier)))
	if supplier == "" {
		return reject(model.RejectMissingSupplier, parser.FieldSupplier, "fornecedor ausente")
	}
	supplier = aliases.Resolve(supplier)

	date, ok := parser.ParseDate(row.Get(parser.FieldReceiptDate))
	if !ok && layout.NameDateFallback {
		date, ok = parser.MonthFromName(file, sheet)
	}
	if !ok {
		return reject(model.RejectInvalidDate, parser.FieldReceiptDate,
			fmt.Sprintf("data de recebimento inválida: %q", parser.CellText(row.Get(parser.FieldReceiptDate))))
	}
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	total, ok := parser.ParseInt(row.Get(parser.FieldTotalItems))
	if !ok || total == 0 {
		return reject(model.RejectMissingTotalItems, parser.FieldTotalItems, "total de itens ausente ou zero")
	}
	fulfilled, _ := parser.ParseInt(row.Get(parser.FieldItemsFulfilled))

	var criteria [5]int
	for i, f := range parser.CriteriaFields() {
		v, ok := parser.ParseBinary(row.Get(f), c.opts.Binary)
		if !ok {
			return reject(model.RejectInvalidCriterion, f,
				fmt.Sprintf("critério %s não binário: %q", f.Label(), parser.CellText(row.Get(f))))
		}
		criteria[i] = v
	}

	scored := calculator.Evaluate(calculator.Inputs{TotalItems: total, ItemsFulfilled: fulfilled, Criteria: criteria})
	return model.Record{
		Supplier:       supplier,
		OrderNumber:    parser.CellText(row.Get(parser.FieldOrderNumber)),
		InvoiceNumber:  parser.CellText(row.Get(parser.FieldInvoiceNumber)),
		TotalItems:     total,
		ItemsFulfilled: fulfilled,
		Packaging:      criteria[0],
		Temperature:    criteria[1],
		LeadTime:       criteria[2],
		Validity:       criteria[3],
		Carrier:        criteria[4],
		Accuracy:       scored.Accuracy,
		Score:          scored.Score,
		Tier:           scored.Tier,
		ReceiptDate:    date,
		ReferenceMonth: model.ReferenceMonth(date),
	}, nil
}

// commit writes every pending record in one transaction.
func (c *Coordinator) commit(ctx context.Context, b *batch) error {
	months := map[string]struct{}{}
	err := c.store.InTx(ctx, func(tx *store.Tx) error {
		supplierIDs := map[string]int64{}
		for _, rec := range b.pending {
			id, ok := supplierIDs[rec.Supplier]
			if !ok {
				var err error
				if id, err = tx.GetOrCreateSupplier(ctx, rec.Supplier); err != nil {
					return err
				}
				supplierIDs[rec.Supplier] = id
			}
			rec.SupplierID = id

			_, created, err := tx.UpsertRecord(ctx, rec)
			if err != nil {
				return err
			}
			if created {
				b.result.Imported++
			} else {
				b.result.Updated++
			}
			months[rec.ReferenceMonth] = struct{}{}
		}
		return nil
	})
	if err != nil {
		b.result.Imported, b.result.Updated = 0, 0
		return err
	}
	for m := range months {
		b.result.Months = append(b.result.Months, m)
	}
	return nil
}

// finish persists the batch log and sheet metadata. Failures here are logged
// only; they never change the outcome of the import.
func (c *Coordinator) finish(ctx context.Context, logID int64, b *batch, err error, elapsed time.Duration) {
	status, msg := "success", ""
	if err != nil {
		status, msg = "failed", err.Error()
		b.logger.Error("import batch failed", zap.Error(err), zap.Duration("elapsed", elapsed))
	} else {
		b.logger.Info("import batch done",
			zap.Int("imported", b.result.Imported),
			zap.Int("updated", b.result.Updated),
			zap.Int("ignored", b.result.Ignored),
			zap.Strings("months", b.result.Months),
			zap.Duration("elapsed", elapsed),
		)
	}

	if ferr := c.store.FinishImportLog(ctx, logID, b.result, status, msg); ferr != nil {
		b.logger.Warn("failed to finish import log", zap.Error(ferr))
	}
	for _, meta := range b.sheets {
		meta.ImportLogID = logID
		if err != nil && meta.Status == "imported" {
			meta.Status = "rolled_back"
		}
		if ferr := c.store.InsertSheetMeta(ctx, meta); ferr != nil {
			b.logger.Warn("failed to record sheet metadata", zap.String("sheet", meta.SheetName), zap.Error(ferr))
		}
	}
}
