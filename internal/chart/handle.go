package chart

import (
	"bytes"
	"fmt"
	"io"
	"sync"
)

// Handle owns the latest chart of a page as encoded PNG. The pixel buffer
// of a chart lives only for the duration of Replace.
type Handle struct {
	mu      sync.Mutex
	png     []byte
	version uint64
}

// Replace encodes c, closes it and installs the result in place of the
// previous chart. On error the handle keeps its previous chart.
func (h *Handle) Replace(c *Chart) error {
	defer c.Close()

	var buf bytes.Buffer
	if err := c.EncodePNG(&buf); err != nil {
		return fmt.Errorf("chart: encode: %w", err)
	}

	h.mu.Lock()
	h.png = buf.Bytes()
	h.version++
	h.mu.Unlock()
	return nil
}

// Version increases on every Replace. Pages use it to bust image caches.
func (h *Handle) Version() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.version
}

// Size returns the encoded size of the current chart in bytes, 0 when
// empty.
func (h *Handle) Size() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.png)
}

// WritePNG writes the current chart.
func (h *Handle) WritePNG(w io.Writer) error {
	h.mu.Lock()
	data := h.png
	h.mu.Unlock()
	if data == nil {
		return ErrNoChart
	}
	_, err := w.Write(data)
	return err
}

// Close drops the current chart.
func (h *Handle) Close() {
	h.mu.Lock()
	h.png = nil
	h.mu.Unlock()
}
