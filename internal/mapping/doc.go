// Package mapping turns ICD-10 to ICD-10-AM cross-reference rows into aggregate views.
//
// The package has two pieces:
//
// ParseRecord: converts the fields of one delimited row into a domain.MappingRecord,
// rejecting rows with fewer than eight columns.
//
// Aggregator: folds records into up to three views selected by Mode:
//
//	ModeFull    ICD-10 code -> every mapping entry, in first-seen order
//	ModeList    every ICD-10-AM code/descriptor pair, duplicates kept
//	ModeUnique  ICD-10-AM code -> descriptor of the last record seen
//
// Nothing here touches the file system. Callers read rows, feed them through
// ParseRecord and Add, then hand the Aggregator to the exporter package.
//
// Example usage:
//
//	agg := mapping.NewAggregator(mapping.ModeAll)
//	for _, fields := range rows {
//	    if rec, ok := mapping.ParseRecord(fields); ok {
//	        agg.Add(rec)
//	    }
//	}
//	entries, _ := agg.Mapping("A00")
package mapping
