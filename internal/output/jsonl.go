package output

import (
	"bufio"
	"encoding/json"
	"io"
	"sync"

	"github.com/selimozcann/longurl/internal/model"
)

// JSONLWriter appends resolution results to a JSON Lines stream, one Record
// per line, as they finish. The first write error sticks: later calls are
// no-ops and Close reports it.
type JSONLWriter struct {
	mu  sync.Mutex
	bw  *bufio.Writer
	enc *json.Encoder
	n   int
	err error
}

// NewJSONLWriter buffers records for w until Close.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	return &JSONLWriter{bw: bw, enc: enc}
}

// Add records the outcome of resolving target.
func (j *JSONLWriter) Add(target string, c model.Chain, err error) error {
	return j.Write(BuildRecord(target, c, err))
}

// Write appends a prepared record.
func (j *JSONLWriter) Write(rec Record) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.err != nil {
		return j.err
	}
	if j.err = j.enc.Encode(rec); j.err == nil {
		j.n++
	}
	return j.err
}

// Count is the number of records written so far.
func (j *JSONLWriter) Count() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.n
}

// Close flushes buffered lines and returns the first error seen.
func (j *JSONLWriter) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.err == nil {
		j.err = j.bw.Flush()
	}
	return j.err
}
