package exec

import (
	"bytes"
	"io"
	"sync"
)

// multiWriter fans writes out to several writers, stopping at the first failure.
type multiWriter struct {
	writers []io.Writer
	mu      sync.Mutex
}

func newMultiWriter(writers ...io.Writer) *multiWriter {
	return &multiWriter{writers: writers}
}

// Write writes p to every underlying writer.
func (mw *multiWriter) Write(p []byte) (n int, err error) {
	mw.mu.Lock()
	defer mw.mu.Unlock()

	for _, w := range mw.writers {
		n, err = w.Write(p)
		if err != nil {
			return n, err
		}
		if n != len(p) {
			return n, io.ErrShortWrite
		}
	}
	return len(p), nil
}

// outputCapture captures one stream while optionally streaming it elsewhere.
type outputCapture struct {
	mu          sync.Mutex
	buffer      bytes.Buffer
	passthrough io.Writer
}

// newOutputCapture creates a capture. A nil passthrough only captures.
func newOutputCapture(passthrough io.Writer) *outputCapture {
	return &outputCapture{passthrough: passthrough}
}

// Writer returns the io.Writer the process should write to.
func (oc *outputCapture) Writer() io.Writer {
	if oc.passthrough != nil {
		return newMultiWriter(lockedWriter{oc}, oc.passthrough)
	}
	return lockedWriter{oc}
}

// String returns the captured output.
func (oc *outputCapture) String() string {
	oc.mu.Lock()
	defer oc.mu.Unlock()
	return oc.buffer.String()
}

type lockedWriter struct {
	oc *outputCapture
}

func (w lockedWriter) Write(p []byte) (int, error) {
	w.oc.mu.Lock()
	defer w.oc.mu.Unlock()
	return w.oc.buffer.Write(p)
}

// combinedWriter collects stdout and stderr into a single stream.
type combinedWriter struct {
	mu     sync.Mutex
	buffer bytes.Buffer
}

func newCombinedWriter() *combinedWriter {
	return &combinedWriter{}
}

func (cw *combinedWriter) Write(p []byte) (n int, err error) {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	return cw.buffer.Write(p)
}

func (cw *combinedWriter) String() string {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	return cw.buffer.String()
}
