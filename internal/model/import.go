package model

import "time"

// RejectReason reason code of a row dropped during import
type RejectReason string

const (
	RejectMissingSupplier   RejectReason = "fornecedor_ausente"
	RejectInvalidDate       RejectReason = "data_invalida"
	RejectMissingTotalItems RejectReason = "total_itens_ausente"
	RejectInvalidCriterion  RejectReason = "criterio_invalido"
)

// Rejection a row that was counted as ignored
type Rejection struct {
	File    string       `json:"arquivo"`
	Sheet   string       `json:"planilha"`
	Row     int          `json:"linha"`
	Field   string       `json:"campo,omitempty"`
	Reason  RejectReason `json:"motivo"`
	Message string       `json:"mensagem"`
}

// ImportResult outcome of one import batch
type ImportResult struct {
	BatchID    string      `json:"lote"`
	Imported   int         `json:"importados"`
	Updated    int         `json:"atualizados"`
	Ignored    int         `json:"ignorados"`
	Months     []string    `json:"meses"`
	Rejections []Rejection `json:"rejeicoes"`
}

// SheetMeta per-sheet detection record kept for diagnosis
type SheetMeta struct {
	ID                int64     `json:"id"`
	ImportLogID       int64     `json:"importLogId"`
	SourceFile        string    `json:"sourceFile"`
	SheetName         string    `json:"sheetName"`
	Strategy          string    `json:"strategy"`
	HeaderRow         int       `json:"headerRow"`
	TotalRows         int       `json:"totalRows"`
	ImportedRows      int       `json:"importedRows"`
	IgnoredRows       int       `json:"ignoredRows"`
	ColumnMappingJSON string    `json:"columnMappingJson"`
	Status            string    `json:"status"`
	ErrorMessage      string    `json:"errorMessage"`
	CreatedAt         time.Time `json:"createdAt"`
}

// ImportLog one import batch as persisted
type ImportLog struct {
	ID           int64      `json:"id"`
	BatchID      string     `json:"batchId"`
	Files        string     `json:"files"`
	Imported     int        `json:"imported"`
	Updated      int        `json:"updated"`
	Ignored      int        `json:"ignored"`
	Status       string     `json:"status"`
	ErrorMessage string     `json:"errorMessage"`
	StartedAt    time.Time  `json:"startedAt"`
	CompletedAt  *time.Time `json:"completedAt"`
}
