package worker

import "bytes"

// Accumulator collects the output a worker writes to its stdout. Each
// chunk is appended in arrival order. The buffer is not bounded: a worker
// that writes without limit makes the shim grow without limit.
//
// An Accumulator is owned by a single invocation and must not be shared.
type Accumulator struct {
	buf    bytes.Buffer
	chunks int
}

// Write appends a chunk to the buffer. It never fails.
func (a *Accumulator) Write(p []byte) (int, error) {
	a.chunks++
	return a.buf.Write(p)
}

// Bytes returns a copy of the accumulated output.
func (a *Accumulator) Bytes() []byte {
	return bytes.Clone(a.buf.Bytes())
}

// String returns the accumulated output decoded as UTF-8 text.
func (a *Accumulator) String() string {
	return a.buf.String()
}

// Len returns the number of accumulated bytes.
func (a *Accumulator) Len() int {
	return a.buf.Len()
}

// Chunks returns the number of chunks received.
func (a *Accumulator) Chunks() int {
	return a.chunks
}
