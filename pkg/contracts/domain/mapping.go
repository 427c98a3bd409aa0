package domain

import (
	"time"
)

// MappingRecord is one parsed row of an ICD-10 to ICD-10-AM cross-reference table.
// Optional fields are nil when the source column was empty.
type MappingRecord struct {
	SequenceID       string  `json:"sequence_id"`
	SourceCode       string  `json:"source_code"`
	SourceDescriptor string  `json:"source_descriptor"`
	TargetCode       string  `json:"target_code"`
	TargetDescriptor string  `json:"target_descriptor"`
	SourceUpdate     *string `json:"source_update,omitempty"`
	TargetUpdate     *string `json:"target_update,omitempty"`
	AdditiveMap      *string `json:"additive_map,omitempty"`
}

// Entry projects the record onto the fields kept under its source code.
func (r MappingRecord) Entry() MappingEntry {
	return MappingEntry{
		SequenceID:       r.SequenceID,
		SourceDescriptor: r.SourceDescriptor,
		TargetCode:       r.TargetCode,
		TargetDescriptor: r.TargetDescriptor,
		SourceUpdate:     r.SourceUpdate,
		TargetUpdate:     r.TargetUpdate,
		AdditiveMap:      r.AdditiveMap,
	}
}

// MappingEntry is a single cross-reference stored under an ICD-10 code
type MappingEntry struct {
	SequenceID       string  `json:"sequence_id"`
	SourceDescriptor string  `json:"source_descriptor"`
	TargetCode       string  `json:"target_code"`
	TargetDescriptor string  `json:"target_descriptor"`
	SourceUpdate     *string `json:"source_update,omitempty"`
	TargetUpdate     *string `json:"target_update,omitempty"`
	AdditiveMap      *string `json:"additive_map,omitempty"`
}

// CodeEntry is an ICD-10-AM code with its descriptor
type CodeEntry struct {
	Code       string `json:"code"`
	Descriptor string `json:"descriptor"`
}

// FailureKind classifies why a file did not contribute to a run
type FailureKind string

const (
	FailureKindOpen     FailureKind = "open"
	FailureKindDecode   FailureKind = "decode"
	FailureKindParse    FailureKind = "parse"
	FailureKindCanceled FailureKind = "canceled"
)

// FileFailure records a file that was skipped during a run
type FileFailure struct {
	File   string      `json:"file"`
	Kind   FailureKind `json:"kind"`
	Reason string      `json:"reason"`
}

// FileSummary records a file that was processed successfully
type FileSummary struct {
	File         string `json:"file"`
	Encoding     string `json:"encoding"`
	Views        string `json:"views"`
	RowsRead     int    `json:"rows_read"`
	RowsAccepted int    `json:"rows_accepted"`
	RowsSkipped  int    `json:"rows_skipped"`
	RowsNoTarget int    `json:"rows_no_target"`
}

// RunResult summarizes one pass over an input directory.
type RunResult struct {
	RunID        string        `json:"run_id"`
	TraceID      string        `json:"trace_id,omitempty"`
	Directory    string        `json:"directory"`
	FilesSeen    int           `json:"files_seen"`
	Processed    []FileSummary `json:"processed"`
	Failures     []FileFailure `json:"failures,omitempty"`
	RowsRead     int           `json:"rows_read"`
	RowsAccepted int           `json:"rows_accepted"`
	RowsSkipped  int           `json:"rows_skipped"`
	RowsNoTarget int           `json:"rows_no_target"`
	StartedAt    time.Time     `json:"started_at"`
	Duration     time.Duration `json:"duration"`
}

// FilesProcessed returns the number of files that contributed to the aggregate
func (r *RunResult) FilesProcessed() int {
	return len(r.Processed)
}

// FilesFailed returns the number of files that were skipped
func (r *RunResult) FilesFailed() int {
	return len(r.Failures)
}
