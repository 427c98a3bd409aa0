// Package processor runs a directory of ICD-10 to ICD-10-AM cross-reference tables
// through the record parser and into a single aggregate.
//
// Each file is read, decoded and parsed into its own partial aggregate, which is merged
// into the run's aggregate only if the whole file succeeded. A file that cannot be
// opened, decoded or parsed is reported through the Observer, logged, counted and
// skipped; the run carries on with the next file. Only an unreadable input directory
// or a canceled context stops a run early.
package processor
