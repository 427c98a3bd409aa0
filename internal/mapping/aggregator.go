package mapping

import (
	"fmt"
	"sort"
	"strings"

	"icdmap/pkg/contracts/domain"
)

// Mode selects which aggregate views an Aggregator maintains
type Mode uint8

const (
	// ModeFull keeps every record grouped by ICD-10 code
	ModeFull Mode = 1 << iota
	// ModeList keeps every ICD-10-AM code/descriptor pair, duplicates included
	ModeList
	// ModeUnique keeps one descriptor per ICD-10-AM code, last write wins
	ModeUnique

	ModeAll = ModeFull | ModeList | ModeUnique
)

// ParseMode converts a mode name to a Mode
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "full":
		return ModeFull, nil
	case "list":
		return ModeList, nil
	case "unique":
		return ModeUnique, nil
	case "all":
		return ModeAll, nil
	default:
		return 0, fmt.Errorf("unknown mode %q (want full, list, unique or all)", name)
	}
}

// Has reports whether every view in other is enabled
func (m Mode) Has(other Mode) bool {
	return m&other == other
}

func (m Mode) String() string {
	var names []string
	if m.Has(ModeFull) {
		names = append(names, "full")
	}
	if m.Has(ModeList) {
		names = append(names, "list")
	}
	if m.Has(ModeUnique) {
		names = append(names, "unique")
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "+")
}

// Aggregator folds a stream of MappingRecords into the enabled views.
// It is not safe for concurrent use; build one per file or per run and Merge in order.
type Aggregator struct {
	mode Mode

	mappings   map[string][]domain.MappingEntry
	sourceKeys []string

	codes []domain.CodeEntry

	unique map[string]string
}

// NewAggregator creates an empty aggregate for the given views
func NewAggregator(mode Mode) *Aggregator {
	return &Aggregator{
		mode:     mode,
		mappings: make(map[string][]domain.MappingEntry),
		unique:   make(map[string]string),
	}
}

// Mode returns the enabled views
func (a *Aggregator) Mode() Mode {
	return a.mode
}

// Add feeds a record to every enabled view.
func (a *Aggregator) Add(rec domain.MappingRecord) {
	if a.mode.Has(ModeFull) {
		a.AddToFullMapping(rec)
	}
	if a.mode.Has(ModeList) {
		a.AddToFlatList(rec)
	}
	if a.mode.Has(ModeUnique) {
		a.AddToUniqueIndex(rec)
	}
}

// AddToFullMapping appends the record under its source code. An empty source code is a valid key.
func (a *Aggregator) AddToFullMapping(rec domain.MappingRecord) {
	if _, ok := a.mappings[rec.SourceCode]; !ok {
		a.sourceKeys = append(a.sourceKeys, rec.SourceCode)
	}
	a.mappings[rec.SourceCode] = append(a.mappings[rec.SourceCode], rec.Entry())
}

// AddToFlatList appends the target code pair when the record has a target code
func (a *Aggregator) AddToFlatList(rec domain.MappingRecord) {
	if rec.TargetCode == "" {
		return
	}
	a.codes = append(a.codes, domain.CodeEntry{Code: rec.TargetCode, Descriptor: rec.TargetDescriptor})
}

// AddToUniqueIndex stores the target descriptor, replacing any earlier one for the same code
func (a *Aggregator) AddToUniqueIndex(rec domain.MappingRecord) {
	if rec.TargetCode == "" {
		return
	}
	a.unique[rec.TargetCode] = rec.TargetDescriptor
}

// Merge folds other into a as though its records had been added after a's.
// Views not enabled on a are ignored.
func (a *Aggregator) Merge(other *Aggregator) {
	if other == nil {
		return
	}
	if a.mode.Has(ModeFull) {
		for _, key := range other.sourceKeys {
			if _, ok := a.mappings[key]; !ok {
				a.sourceKeys = append(a.sourceKeys, key)
			}
			a.mappings[key] = append(a.mappings[key], other.mappings[key]...)
		}
	}
	if a.mode.Has(ModeList) {
		a.codes = append(a.codes, other.codes...)
	}
	if a.mode.Has(ModeUnique) {
		// other.unique already holds the last write per code within its own stream
		for code, desc := range other.unique {
			a.unique[code] = desc
		}
	}
}

// Mapping returns the entries recorded for an ICD-10 code in first-seen order.
func (a *Aggregator) Mapping(sourceCode string) ([]domain.MappingEntry, bool) {
	entries, ok := a.mappings[sourceCode]
	if !ok {
		return nil, false
	}
	out := make([]domain.MappingEntry, len(entries))
	copy(out, entries)
	return out, true
}

// SourceCodes returns the ICD-10 codes in first-seen order
func (a *Aggregator) SourceCodes() []string {
	out := make([]string, len(a.sourceKeys))
	copy(out, a.sourceKeys)
	return out
}

// SortedSourceCodes returns the ICD-10 codes in lexicographic order
func (a *Aggregator) SortedSourceCodes() []string {
	out := a.SourceCodes()
	sort.Strings(out)
	return out
}

// FlatList returns the ICD-10-AM code pairs in insertion order
func (a *Aggregator) FlatList() []domain.CodeEntry {
	out := make([]domain.CodeEntry, len(a.codes))
	copy(out, a.codes)
	return out
}

// SortedFlatList returns the code pairs stably sorted by code, so duplicates keep their insertion order.
func (a *Aggregator) SortedFlatList() []domain.CodeEntry {
	out := a.FlatList()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Descriptor returns the last descriptor recorded for an ICD-10-AM code
func (a *Aggregator) Descriptor(targetCode string) (string, bool) {
	desc, ok := a.unique[targetCode]
	return desc, ok
}

// UniqueCodes returns one entry per ICD-10-AM code sorted by code
func (a *Aggregator) UniqueCodes() []domain.CodeEntry {
	out := make([]domain.CodeEntry, 0, len(a.unique))
	for code, desc := range a.unique {
		out = append(out, domain.CodeEntry{Code: code, Descriptor: desc})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// MappingCount returns the total number of entries in the full mapping
func (a *Aggregator) MappingCount() int {
	n := 0
	for _, entries := range a.mappings {
		n += len(entries)
	}
	return n
}

// ListLen returns the number of code pairs in the flat list
func (a *Aggregator) ListLen() int {
	return len(a.codes)
}

// UniqueLen returns the number of distinct ICD-10-AM codes
func (a *Aggregator) UniqueLen() int {
	return len(a.unique)
}
