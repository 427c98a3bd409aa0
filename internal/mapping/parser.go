package mapping

import (
	"strings"

	"icdmap/pkg/contracts/domain"
)

// Column positions of a cross-reference row
const (
	colSequenceID = iota
	colSourceCode
	colSourceUpdate
	colSourceDescriptor
	colTargetCode
	colTargetUpdate
	colAdditiveMap
	colTargetDescriptor

	// MinFields is the number of columns a data row needs to be usable.
	MinFields
)

// fieldCutset is stripped from both ends of every field.
const fieldCutset = " \t\r\n\""

// ParseRecord turns one delimited row into a MappingRecord.
// It reports false when the row has fewer than MinFields columns; such rows are skipped
// without error. Codes and descriptors are otherwise accepted as-is.
func ParseRecord(fields []string) (domain.MappingRecord, bool) {
	if len(fields) < MinFields {
		return domain.MappingRecord{}, false
	}

	return domain.MappingRecord{
		SequenceID:       clean(fields[colSequenceID]),
		SourceCode:       clean(fields[colSourceCode]),
		SourceUpdate:     optional(fields[colSourceUpdate]),
		SourceDescriptor: clean(fields[colSourceDescriptor]),
		TargetCode:       clean(fields[colTargetCode]),
		TargetUpdate:     optional(fields[colTargetUpdate]),
		AdditiveMap:      optional(fields[colAdditiveMap]),
		TargetDescriptor: clean(fields[colTargetDescriptor]),
	}, true
}

func clean(s string) string {
	return strings.Trim(s, fieldCutset)
}

// optional returns nil for a field that is blank after cleaning
func optional(s string) *string {
	v := clean(s)
	if v == "" {
		return nil
	}
	return &v
}
