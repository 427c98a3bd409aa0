package processor

import (
	"fmt"
	"io"

	"icdmap/pkg/contracts/domain"
)

// ConsoleObserver prints one operator line per file
type ConsoleObserver struct {
	W io.Writer
}

// FileProcessed prints the success line for a file
func (c ConsoleObserver) FileProcessed(summary domain.FileSummary) {
	fmt.Fprintf(c.W, "Successfully processed %s\n", summary.File)
}

// FileFailed prints the failure line for a file
func (c ConsoleObserver) FileFailed(failure domain.FileFailure) {
	fmt.Fprintf(c.W, "Error processing %s: %s\n", failure.File, failure.Reason)
}
