package store

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GuilhermeSoares009/supplier-eval-system/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := New(filepath.Join(t.TempDir(), "rir.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func sampleRecord(supplierID int64, date string) model.Record {
	d, _ := time.Parse(dateLayout, date)
	return model.Record{
		SupplierID:     supplierID,
		OrderNumber:    "123",
		InvoiceNumber:  "456",
		TotalItems:     10,
		ItemsFulfilled: 10,
		Packaging:      1, Temperature: 1, LeadTime: 1, Validity: 1, Carrier: 1,
		Accuracy:       1,
		Score:          1,
		Tier:           model.TierOtimo,
		ReceiptDate:    d,
		ReferenceMonth: model.ReferenceMonth(d),
	}
}

func TestUpsertRecord_InsertThenUpdate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)

	var created []bool
	for i := 0; i < 2; i++ {
		err := st.InTx(ctx, func(tx *Tx) error {
			id, err := tx.GetOrCreateSupplier(ctx, "FORNECEDOR A")
			if err != nil {
				return err
			}
			rec := sampleRecord(id, "2026-01-23")
			rec.ItemsFulfilled = 10 - i
			_, c, err := tx.UpsertRecord(ctx, rec)
			created = append(created, c)
			return err
		})
		require.NoError(t, err)
	}

	assert.Equal(t, []bool{true, false}, created)
	n, err := st.CountRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	records, err := st.ListRecordsByMonth(ctx, "2026-01")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "FORNECEDOR A", records[0].Supplier)
	assert.Equal(t, 9, records[0].ItemsFulfilled)
	assert.Equal(t, model.TierOtimo, records[0].Tier)
	assert.Equal(t, "2026-01-23", records[0].ReceiptDate.Format(dateLayout))
}

func TestInTx_RollsBackOnError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)

	boom := errors.New("boom")
	err := st.InTx(ctx, func(tx *Tx) error {
		id, err := tx.GetOrCreateSupplier(ctx, "ACME")
		if err != nil {
			return err
		}
		if _, _, err := tx.UpsertRecord(ctx, sampleRecord(id, "2026-02-01")); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	n, err := st.CountRecords(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	n, err = st.CountSuppliers(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestGetOrCreateSupplier_Concurrent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)

	var wg sync.WaitGroup
	ids := make([]int64, 8)
	errs := make([]error, 8)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = st.InTx(ctx, func(tx *Tx) error {
				id, err := tx.GetOrCreateSupplier(ctx, "ROCHE")
				ids[i] = id
				return err
			})
		}(i)
	}
	wg.Wait()

	for i := range ids {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
	n, err := st.CountSuppliers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestReset_RestartsSequences(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)

	seed := func() int64 {
		var id int64
		require.NoError(t, st.InTx(ctx, func(tx *Tx) error {
			var err error
			if _, err = tx.GetOrCreateSupplier(ctx, "A"); err != nil {
				return err
			}
			id, err = tx.GetOrCreateSupplier(ctx, "B")
			if err != nil {
				return err
			}
			_, _, err = tx.UpsertRecord(ctx, sampleRecord(id, "2026-03-03"))
			return err
		}))
		return id
	}

	assert.Equal(t, int64(2), seed())
	require.NoError(t, st.UpsertAlias(ctx, model.Alias{Alias: "B LTDA", Canonical: "B"}))
	require.NoError(t, st.Reset(ctx))

	n, err := st.CountRecords(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	n, err = st.CountSuppliers(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.Equal(t, int64(2), seed(), "ids restart after reset")

	aliases, err := st.ListAliases(ctx)
	require.NoError(t, err)
	assert.Len(t, aliases, 1)
}

func TestListRecordsByYearAndMonths(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)

	require.NoError(t, st.InTx(ctx, func(tx *Tx) error {
		id, err := tx.GetOrCreateSupplier(ctx, "ACME")
		if err != nil {
			return err
		}
		for _, d := range []string{"2025-12-31", "2026-02-10", "2026-01-05", "2026-01-05"} {
			rec := sampleRecord(id, d)
			if _, _, err := tx.UpsertRecord(ctx, rec); err != nil {
				return err
			}
		}
		return nil
	}))

	records, err := st.ListRecordsByYear(ctx, 2026)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2026-01", records[0].ReferenceMonth)
	assert.Equal(t, "2026-02", records[1].ReferenceMonth)

	months, err := st.ListMonths(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-12", "2026-01", "2026-02"}, months)
}

func TestImportLogAndSheetMeta(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	st := newTestStore(t)

	latest, err := st.LatestImportLog(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest)

	id, err := st.CreateImportLog(ctx, "batch-1", "rir.xlsx")
	require.NoError(t, err)
	require.NoError(t, st.InsertSheetMeta(ctx, model.SheetMeta{
		ImportLogID:       id,
		SourceFile:        "rir.xlsx",
		SheetName:         "JAN",
		Strategy:          "heuristic",
		HeaderRow:         5,
		TotalRows:         3,
		ImportedRows:      2,
		IgnoredRows:       1,
		ColumnMappingJSON: BuildColumnMappingJSON(map[int]string{1: "data_recebimento"}),
		Status:            "imported",
	}))
	require.NoError(t, st.FinishImportLog(ctx, id, model.ImportResult{Imported: 2, Ignored: 1}, "success", ""))

	latest, err = st.LatestImportLog(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "batch-1", latest.BatchID)
	assert.Equal(t, 2, latest.Imported)
	assert.NotNil(t, latest.CompletedAt)

	metas, err := st.ListSheetMeta(ctx, id)
	require.NoError(t, err)
	require.Len(t, metas, 1)
	assert.Equal(t, `{"1":"data_recebimento"}`, metas[0].ColumnMappingJSON)
}
