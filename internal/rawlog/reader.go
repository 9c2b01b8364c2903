package rawlog

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"time"
)

// Record is one log entry: the frameset payload and the time it was
// written.
type Record struct {
	Time    time.Time
	Payload []byte
}

// Reader iterates the records of a capture log. A truncated final record
// (a crash mid-write) ends iteration without an error.
type Reader struct {
	f *os.File
}

// Open opens a capture log and verifies its magic.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	header := make([]byte, len(Magic))
	if _, err := io.ReadFull(f, header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("rawlog: read magic: %w", err)
	}
	if string(header) != Magic {
		_ = f.Close()
		return nil, fmt.Errorf("rawlog: unexpected magic %q", string(header))
	}
	return &Reader{f: f}, nil
}

// Next returns the next record, or io.EOF at the end of the log.
func (r *Reader) Next() (Record, error) {
	var header [recordHeaderSize]byte
	if _, err := io.ReadFull(r.f, header[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return Record{}, io.EOF
		}
		return Record{}, err
	}
	ts := int64(binary.LittleEndian.Uint64(header[:8]))
	size := binary.LittleEndian.Uint32(header[8:12])
	payload := make([]byte, size)
	if _, err := io.ReadFull(r.f, payload); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return Record{}, io.EOF
		}
		return Record{}, err
	}
	return Record{Time: time.Unix(0, ts), Payload: payload}, nil
}

// Close closes the log.
func (r *Reader) Close() error {
	return r.f.Close()
}
