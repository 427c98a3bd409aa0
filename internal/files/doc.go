// Package files provides file system operations and discovery utilities
// for icdmap.
//
// This package contains two main components:
//
// Discovery: Finds the input files of a mapping directory. Files are returned in
// the directory's listing order unless name sorting is requested, which matters
// because later files win when the same code appears twice.
//
// Manager: Writes output artifacts atomically. Relative paths resolve against the
// output directory.
//
// Example usage:
//
//	discovery := files.NewDiscovery(".txt", false)
//	inputs, err := discovery.FindTextFiles(paths.DataDir)
//
//	manager := files.NewManager(paths)
//	err = manager.WriteAtomic(config.MappingReportTXT, func(w io.Writer) error {
//	    return exporter.WriteMappingReport(w, agg)
//	})
package files
