package alignment

import "fmt"

// Record names the input stream an offending record came from
type Record string

const (
	RecordHorizontal Record = "horizontal"
	RecordVertical   Record = "vertical"
)

// StructuralError reports input that violates the alignment invariants: station gaps or overlaps,
// non-increasing vertical stations, non-positive lengths. It aborts the conversion.
type StructuralError struct {
	Record Record
	Index  int
	Reason string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("structural error in %s record %d: %s", e.Record, e.Index, e.Reason)
}

func structuralf(record Record, index int, format string, args ...any) *StructuralError {
	return &StructuralError{Record: record, Index: index, Reason: fmt.Sprintf(format, args...)}
}
