package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"icdmap/internal/mapping"
	"icdmap/pkg/contracts/domain"
)

// SheetName is the single sheet every workbook is written to
const SheetName = "Sheet1"

// Column headers of the three workbooks
const (
	HeaderSourceCode       = "ICD-10 Code"
	HeaderSourceDescriptor = "ICD-10 Descriptor"
	HeaderTargetCode       = "ICD-10-AM Code"
	HeaderTargetDescriptor = "ICD-10-AM Descriptor"
	HeaderWHOUpdate        = "WHO Update"
	HeaderAUSUpdate        = "AUS Update"
	HeaderAdditiveMap      = "Additive Map"
	HeaderDescriptor       = "Descriptor"
)

var (
	mappingHeaders = []string{
		HeaderSourceCode,
		HeaderSourceDescriptor,
		HeaderTargetCode,
		HeaderTargetDescriptor,
		HeaderWHOUpdate,
		HeaderAUSUpdate,
		HeaderAdditiveMap,
	}
	codeListHeaders    = []string{HeaderTargetCode, HeaderTargetDescriptor}
	uniqueCodesHeaders = []string{HeaderTargetCode, HeaderDescriptor}
)

// docProps are fixed so that unchanged input yields byte-identical workbooks
var docProps = &excelize.DocProperties{
	Creator:        "icdmap",
	LastModifiedBy: "icdmap",
	Title:          "ICD-10 to ICD-10-AM",
	Created:        "2000-01-01T00:00:00Z",
	Modified:       "2000-01-01T00:00:00Z",
}

// WriteMappingWorkbook writes one row per mapping entry, grouped by ICD-10 code in
// first-seen order. Absent update flags and additive maps are left blank.
func WriteMappingWorkbook(w io.Writer, agg *mapping.Aggregator) error {
	return writeWorkbook(w, mappingHeaders, []float64{14, 40, 16, 60, 12, 12, 14}, func(emit func([]interface{}) error) error {
		for _, code := range agg.SourceCodes() {
			entries, _ := agg.Mapping(code)
			for _, e := range entries {
				row := []interface{}{
					code,
					e.SourceDescriptor,
					e.TargetCode,
					e.TargetDescriptor,
					optionalCell(e.SourceUpdate),
					optionalCell(e.TargetUpdate),
					optionalCell(e.AdditiveMap),
				}
				if err := emit(row); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// WriteCodeListWorkbook writes the flat code list, duplicates included, stable-sorted by code
func WriteCodeListWorkbook(w io.Writer, agg *mapping.Aggregator) error {
	return writeCodeEntries(w, codeListHeaders, agg.SortedFlatList())
}

// WriteUniqueCodesWorkbook writes each distinct ICD-10-AM code once, sorted by code
func WriteUniqueCodesWorkbook(w io.Writer, agg *mapping.Aggregator) error {
	return writeCodeEntries(w, uniqueCodesHeaders, agg.UniqueCodes())
}

func writeCodeEntries(w io.Writer, headers []string, entries []domain.CodeEntry) error {
	return writeWorkbook(w, headers, []float64{16, 80}, func(emit func([]interface{}) error) error {
		for _, e := range entries {
			if err := emit([]interface{}{e.Code, e.Descriptor}); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeWorkbook streams a header row and the rows produced by fill into a new workbook
func writeWorkbook(w io.Writer, headers []string, widths []float64, fill func(emit func([]interface{}) error) error) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetDocProps(docProps); err != nil {
		return fmt.Errorf("failed to set document properties: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}

	for i, width := range widths {
		if err := sw.SetColWidth(i+1, i+1, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	headerRow := make([]interface{}, len(headers))
	for i, h := range headers {
		headerRow[i] = excelize.Cell{StyleID: headerStyle, Value: h}
	}
	if err := sw.SetRow("A1", headerRow); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	rowNum := 1
	emit := func(values []interface{}) error {
		rowNum++
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", rowNum, err)
		}
		return nil
	}

	if err := fill(emit); err != nil {
		return err
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush worksheet: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func optionalCell(v *string) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
