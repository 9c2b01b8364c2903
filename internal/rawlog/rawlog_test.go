package rawlog

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	w, err := Create(dir, "923322071713")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.HasSuffix(w.Path(), "_923322071713.rscap") {
		t.Fatalf("unexpected log name %q", w.Path())
	}

	payloads := [][]byte{
		[]byte("first frameset"),
		{},
		bytes.Repeat([]byte{0xab}, 4096),
	}
	for _, p := range payloads {
		if err := w.Record(p); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	r, err := Open(w.Path())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer r.Close()

	for i, want := range payloads {
		rec, err := r.Next()
		if err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
		if !bytes.Equal(rec.Payload, want) {
			t.Fatalf("record %d payload mismatch: %d bytes, want %d", i, len(rec.Payload), len(want))
		}
		if rec.Time.IsZero() {
			t.Fatalf("record %d has no timestamp", i)
		}
	}
	if _, err := r.Next(); err != io.EOF {
		t.Fatalf("Next past end = %v, want io.EOF", err)
	}
}

func TestTruncatedTailEndsCleanly(t *testing.T) {
	dir := t.TempDir()
	w, err := Create(dir, "0001")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := w.Record([]byte("complete")); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := w.Record([]byte("doomed record")); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Chop into the last record's payload, as a crash mid-write would.
	info, err := os.Stat(w.Path())
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if err := os.Truncate(w.Path(), info.Size()-5); err != nil {
		t.Fatalf("truncate: %v", err)
	}

	r, err := Open(w.Path())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer r.Close()

	rec, err := r.Next()
	if err != nil {
		t.Fatalf("first record: %v", err)
	}
	if string(rec.Payload) != "complete" {
		t.Fatalf("first record payload %q", rec.Payload)
	}
	if _, err := r.Next(); err != io.EOF {
		t.Fatalf("truncated record = %v, want io.EOF", err)
	}
}

func TestOpenRejectsBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-a-log.rscap")
	if err := os.WriteFile(path, []byte("HELLO999 trailing"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Open(path); err == nil {
		t.Fatal("Open accepted a file with the wrong magic")
	}

	short := filepath.Join(t.TempDir(), "short.rscap")
	if err := os.WriteFile(short, []byte("RS"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Open(short); err == nil {
		t.Fatal("Open accepted a file shorter than the magic")
	}
}

func TestRecordAfterCloseFails(t *testing.T) {
	w, err := Create(t.TempDir(), "0001")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := w.Record([]byte("late")); err == nil {
		t.Fatal("Record succeeded on a closed writer")
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestDumpTotals(t *testing.T) {
	dir := t.TempDir()
	w, err := Create(dir, "0001")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	payloads := [][]byte{
		[]byte("one"),
		[]byte("twenty-two"),
		bytes.Repeat([]byte{0x7f}, 100),
	}
	for _, p := range payloads {
		if err := w.Record(p); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	var seen []int
	sum, err := Dump(w.Path(), func(index int, rec Record) error {
		seen = append(seen, index)
		if len(rec.Payload) != len(payloads[index]) {
			t.Fatalf("record %d payload %d bytes, want %d", index, len(rec.Payload), len(payloads[index]))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	if sum.Records != 3 {
		t.Fatalf("records %d, want 3", sum.Records)
	}
	if want := int64(3 + 10 + 100); sum.Bytes != want {
		t.Fatalf("bytes %d, want %d", sum.Bytes, want)
	}
	if sum.First.IsZero() || sum.Last.Before(sum.First) {
		t.Fatalf("timestamps out of order: first=%v last=%v", sum.First, sum.Last)
	}
	if sum.Duration() < 0 {
		t.Fatalf("negative duration %v", sum.Duration())
	}
	if len(seen) != 3 || seen[0] != 0 || seen[2] != 2 {
		t.Fatalf("callback indexes %v", seen)
	}

	// Nil callback just counts.
	sum2, err := Dump(w.Path(), nil)
	if err != nil {
		t.Fatalf("dump without callback: %v", err)
	}
	if sum2.Records != sum.Records || sum2.Bytes != sum.Bytes {
		t.Fatalf("nil-callback totals %+v, want %+v", sum2, sum)
	}
}

func TestDumpStopsOnCallbackError(t *testing.T) {
	w, err := Create(t.TempDir(), "0001")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for i := 0; i < 4; i++ {
		if err := w.Record([]byte("rec")); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	stop := errors.New("enough")
	calls := 0
	sum, err := Dump(w.Path(), func(index int, rec Record) error {
		calls++
		if index == 1 {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) {
		t.Fatalf("dump error %v, want %v", err, stop)
	}
	if calls != 2 {
		t.Fatalf("callback ran %d times, want 2", calls)
	}
	if sum.Records != 1 {
		t.Fatalf("partial records %d, want 1", sum.Records)
	}
}
