package exporter

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"icdmap/pkg/contracts/domain"
)

// ErrMissingColumn is returned when a workbook lacks a required header
var ErrMissingColumn = errors.New("missing column")

// ReadCodeListWorkbook reads code/descriptor pairs from the first sheet of a code-list or
// unique-codes workbook, locating both columns by header name.
func ReadCodeListWorkbook(r io.Reader) ([]domain.CodeEntry, error) {
	rows, err := readFirstSheet(r)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	cols, err := locate(rows[0], HeaderTargetCode)
	if err != nil {
		return nil, err
	}
	descCol, err := locateAny(rows[0], HeaderTargetDescriptor, HeaderDescriptor)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.CodeEntry, 0, len(rows)-1)
	for _, row := range rows[1:] {
		entries = append(entries, domain.CodeEntry{
			Code:       cell(row, cols[HeaderTargetCode]),
			Descriptor: cell(row, descCol),
		})
	}
	return entries, nil
}

// ReadMappingWorkbook reads the full mapping workbook back into records. Blank optional
// cells come back nil; the sequence ID is not stored in the workbook and stays empty.
func ReadMappingWorkbook(r io.Reader) ([]domain.MappingRecord, error) {
	rows, err := readFirstSheet(r)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	cols, err := locate(rows[0], mappingHeaders...)
	if err != nil {
		return nil, err
	}

	records := make([]domain.MappingRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, domain.MappingRecord{
			SourceCode:       cell(row, cols[HeaderSourceCode]),
			SourceDescriptor: cell(row, cols[HeaderSourceDescriptor]),
			TargetCode:       cell(row, cols[HeaderTargetCode]),
			TargetDescriptor: cell(row, cols[HeaderTargetDescriptor]),
			SourceUpdate:     optionalValue(cell(row, cols[HeaderWHOUpdate])),
			TargetUpdate:     optionalValue(cell(row, cols[HeaderAUSUpdate])),
			AdditiveMap:      optionalValue(cell(row, cols[HeaderAdditiveMap])),
		})
	}
	return records, nil
}

func readFirstSheet(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

// locate maps each wanted header to its column index
func locate(header []string, wanted ...string) (map[string]int, error) {
	cols := make(map[string]int, len(wanted))
	for _, name := range wanted {
		idx := indexOf(header, name)
		if idx < 0 {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
		}
		cols[name] = idx
	}
	return cols, nil
}

// locateAny returns the column of the first header found
func locateAny(header []string, candidates ...string) (int, error) {
	for _, name := range candidates {
		if idx := indexOf(header, name); idx >= 0 {
			return idx, nil
		}
	}
	return -1, fmt.Errorf("%w: one of %s", ErrMissingColumn, strings.Join(candidates, ", "))
}

func indexOf(header []string, name string) int {
	for i, h := range header {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}

// cell returns the value at idx; GetRows drops trailing empty cells
func cell(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

func optionalValue(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
