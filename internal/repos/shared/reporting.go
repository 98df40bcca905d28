package shared

import (
	"fmt"
	"io"
	"os"
)

// Reporter emits progress lines from checkout services to an output sink.
type Reporter interface {
	Printf(format string, args ...any)
}

type writerReporter struct {
	destination io.Writer
}

// NewWriterReporter constructs a Reporter writing to the provided destination,
// falling back to standard output when no usable writer is supplied.
func NewWriterReporter(destination io.Writer) Reporter {
	if destination == nil || destination == io.Discard {
		destination = os.Stdout
	}
	return writerReporter{destination: destination}
}

func (reporter writerReporter) Printf(format string, args ...any) {
	if reporter.destination == nil {
		return
	}
	fmt.Fprintf(reporter.destination, format, args...)
}
