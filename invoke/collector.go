package invoke

import (
	"bytes"
	"sync"
)

// MaxCaptureBytes caps how much of a stream is kept in memory. Output
// beyond the cap rolls off the front; totals stay accurate.
const MaxCaptureBytes = 256 * 1024

// Collector is an io.Writer that keeps the last max bytes written plus
// total byte and line counts, so a runaway tool cannot exhaust memory.
// It is safe for concurrent use (stdout and stderr copy in parallel
// when the streams share a collector).
type Collector struct {
	mu         sync.Mutex
	buf        []byte
	max        int
	total      int64
	totalLines int
	trimmed    bool
}

// NewCollector creates a collector bounded to max bytes.
func NewCollector(max int) *Collector {
	return &Collector{max: max}
}

// Write implements io.Writer. It never fails.
func (c *Collector) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.total += int64(len(p))
	c.totalLines += bytes.Count(p, []byte{'\n'})
	c.buf = append(c.buf, p...)

	if len(c.buf) > c.max {
		// Copy to release the old backing array.
		kept := make([]byte, c.max)
		copy(kept, c.buf[len(c.buf)-c.max:])
		c.buf = kept
		c.trimmed = true
	}
	return len(p), nil
}

// String returns the retained tail of the stream.
func (c *Collector) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return string(c.buf)
}

// Total returns the total number of bytes written, including any that
// rolled off the buffer.
func (c *Collector) Total() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// Trimmed reports whether any output rolled off the front.
func (c *Collector) Trimmed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.trimmed
}
