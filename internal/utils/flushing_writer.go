package utils

import (
	"io"
	"sync"
)

// flusher matches buffered writers exposing an explicit Flush.
type flusher interface {
	Flush() error
}

// FlushingWriter forwards writes to an underlying writer and flushes it after
// every write when the writer supports flushing, so fleet progress lines
// become visible as each checkout finishes.
type FlushingWriter struct {
	destination io.Writer
	mutex       sync.Mutex
}

// NewFlushingWriter wraps the provided writer; nil and already-wrapped writers
// pass through unchanged.
func NewFlushingWriter(writer io.Writer) io.Writer {
	if writer == nil {
		return nil
	}
	if _, alreadyWrapped := writer.(*FlushingWriter); alreadyWrapped {
		return writer
	}
	return &FlushingWriter{destination: writer}
}

// Write delegates to the underlying writer and flushes it when possible.
func (writer *FlushingWriter) Write(data []byte) (int, error) {
	if writer == nil || writer.destination == nil {
		return 0, nil
	}

	writer.mutex.Lock()
	defer writer.mutex.Unlock()

	bytesWritten, writeError := writer.destination.Write(data)
	if writeError != nil {
		return bytesWritten, writeError
	}

	if flushableDestination, supportsFlush := writer.destination.(flusher); supportsFlush {
		if flushError := flushableDestination.Flush(); flushError != nil {
			return bytesWritten, flushError
		}
	}

	return bytesWritten, nil
}
