package importer

import (
	"errors"
	"fmt"

	"github.com/GuilhermeSoares009/supplier-eval-system/internal/parser"
)

// ErrNoFiles batch without uploads
var ErrNoFiles = errors.New("nenhum arquivo enviado")

// StructuralError an upload that cannot be read as an RIR report. The whole
// batch is rolled back; the caller is expected to fix the file and retry.
type StructuralError struct {
	File  string
	Sheet string
	Err   error
}

func (e *StructuralError) Error() string {
	switch {
	case e.File == "":
		return e.Err.Error()
	case e.Sheet == "":
		return fmt.Sprintf("%s: %v", e.File, e.Err)
	default:
		return fmt.Sprintf("%s (%s): %v", e.File, e.Sheet, e.Err)
	}
}

func (e *StructuralError) Unwrap() error { return e.Err }

// MissingFields labels of the required columns that were not found, if that is the cause.
func (e *StructuralError) MissingFields() []string {
	var missing *parser.MissingColumnsError
	if errors.As(e.Err, &missing) {
		return missing.Labels()
	}
	return nil
}
