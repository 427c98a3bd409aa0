// Package exporter renders an aggregate into the run's output artifacts.
//
// Workbooks are written with excelize as a single streamed sheet with a bold header row:
//
//   - the mapping workbook: one row per entry, in first-seen ICD-10 code order
//   - the code-list workbook: every ICD-10-AM code/descriptor pair, sorted by code
//   - the unique-codes workbook: one row per distinct ICD-10-AM code
//
// The mapping report is a grouped plain-text rendering of the full mapping, and the
// annotated TSV is a commented, tab-separated export of a code list.
//
// Every artifact is written to a temporary file and renamed into place, and workbook
// document properties are fixed, so unchanged input produces identical files.
package exporter
