// Package ingest reads the delimited-text cross-reference tables.
//
// Each input file has exactly one header line followed by comma-separated,
// minimally quoted data rows. Files are decoded with an EncodingPolicy: an
// ordered list of decoders where the first one that accepts the whole file
// wins. When none does, the error wraps errors.ErrEncodingExhausted.
//
//	reader := ingest.NewReader(ingest.FallbackPolicy())
//	table, err := reader.ReadFile("data/chapter1.txt")
//	if err != nil {
//	    // file-level failure, skip this file
//	}
//	for _, fields := range table.Rows {
//	    ...
//	}
package ingest
