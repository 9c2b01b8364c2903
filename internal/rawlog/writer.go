// Package rawlog records capture sessions to disk and reads them back.
// A log file is the magic "RSCAPT01" followed by length-prefixed records,
// each a CBOR frameset payload (the rsnet wire encoding) stamped with the
// write time.
package rawlog

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const Magic = "RSCAPT01"

// recordHeader is 8 bytes of unix-nano timestamp plus 4 bytes of payload
// length, little-endian.
const recordHeaderSize = 12

// Writer appends framesets to a capture log. Safe for concurrent use.
type Writer struct {
	mu   sync.Mutex
	f    *os.File
	w    *bufio.Writer
	path string
}

// Create opens a new capture log under dir, named after the serial and the
// current time.
func Create(dir string, serial string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.rscap", timestamp, serial))
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w := bufio.NewWriterSize(f, 1024*1024)
	if _, err := w.WriteString(Magic); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return nil, err
	}
	return &Writer{f: f, w: w, path: path}, nil
}

// Path returns the log file path.
func (r *Writer) Path() string { return r.path }

// Record appends one frameset payload.
func (r *Writer) Record(payload []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.w == nil {
		return fmt.Errorf("rawlog: writer is closed")
	}
	var header [recordHeaderSize]byte
	binary.LittleEndian.PutUint64(header[:8], uint64(time.Now().UnixNano()))
	binary.LittleEndian.PutUint32(header[8:12], uint32(len(payload)))
	if _, err := r.w.Write(header[:]); err != nil {
		return err
	}
	if _, err := r.w.Write(payload); err != nil {
		return err
	}
	return r.w.Flush()
}

// Close flushes and closes the log.
func (r *Writer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.w == nil {
		return nil
	}
	if err := r.w.Flush(); err != nil {
		_ = r.f.Close()
		r.w = nil
		return err
	}
	err := r.f.Close()
	r.w = nil
	return err
}
