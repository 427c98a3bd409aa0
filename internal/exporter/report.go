package exporter

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"icdmap/internal/mapping"
	"icdmap/pkg/contracts/domain"
)

const reportTitle = "ICD-10 to ICD-10-AM Mapping Report"

var (
	reportRule    = strings.Repeat("=", 50)
	reportDivider = strings.Repeat("-", 50)
)

// WriteMappingReport writes the grouped plain-text report: one block per ICD-10 code in
// lexicographic order, described by the descriptor of its first entry, listing every
// mapped ICD-10-AM code and, where present, its additive map.
func WriteMappingReport(w io.Writer, agg *mapping.Aggregator) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "%s\n%s\n\n", reportTitle, reportRule)

	for _, code := range agg.SortedSourceCodes() {
		entries, _ := agg.Mapping(code)
		if len(entries) == 0 {
			continue
		}

		fmt.Fprintf(bw, "ICD-10 Code: %s\n", code)
		fmt.Fprintf(bw, "Description: %s\n", entries[0].SourceDescriptor)
		bw.WriteString("\nMapped ICD-10-AM Codes:\n")

		for _, e := range entries {
			fmt.Fprintf(bw, "- %s: %s\n", e.TargetCode, e.TargetDescriptor)
			if e.AdditiveMap != nil {
				fmt.Fprintf(bw, "  Additive Map: %s\n", *e.AdditiveMap)
			}
		}

		fmt.Fprintf(bw, "\n%s\n\n", reportDivider)
	}

	return bw.Flush()
}

// tsvPreamble is the comment block heading the annotated code list
var tsvPreamble = []string{
	"# ICD-10-AM Code Categories",
	"# Format: Each line contains tab-separated values",
	"# Fields: ICD-10-AM_Code\tICD-10-AM_Descriptor",
	"#",
	"# Activity Categories:",
	"# Act=0: Sports activities",
	"# Act=1: Leisure activities",
	"# Act=2: Working for income",
	"# Act=3: Other types of work",
	"# Act=4: Vital activities (resting, sleeping, eating)",
	"# Act=8: Other specified activities",
	"# Act=9: Unspecified activities",
	"#",
	"# Code Ranges:",
	"# A00-V99: Various medical conditions",
	"# W00-X29: External causes",
	"# X30-X99: Environmental and accidental causes",
	"# Y00-Z99: External causes and factors",
	"#",
	"# BEGIN DATA",
}

// WriteAnnotatedTSV writes the legend header followed by one code<TAB>descriptor line per entry
func WriteAnnotatedTSV(w io.Writer, entries []domain.CodeEntry) error {
	bw := bufio.NewWriter(w)

	for _, line := range tsvPreamble {
		bw.WriteString(line)
		bw.WriteByte('\n')
	}

	for _, e := range entries {
		bw.WriteString(e.Code)
		bw.WriteByte('\t')
		bw.WriteString(e.Descriptor)
		bw.WriteByte('\n')
	}

	return bw.Flush()
}
