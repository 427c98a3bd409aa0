// Package shared holds code used across icdmap's packages that belongs to none of them.
//
// The testutil subpackage provides:
//
//   - fixture builders for cross-reference tables (MappingTable, MappingRow, WriteMappingFile)
//   - a buffered slog handler with assertions for checking structured log output
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    dir := t.TempDir()
//	    testutil.WriteMappingFile(t, dir, "a.txt",
//	        testutil.MappingRow("1", "A00", "Cholera", "A00.0", "Cholera classical"))
//	    logger, logs := testutil.NewTestLogger(t)
//	    ...
//	}
package shared
