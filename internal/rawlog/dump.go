package rawlog

import (
	"io"
	"time"
)

// Summary totals the contents of a capture log.
type Summary struct {
	Records int
	Bytes   int64
	First   time.Time
	Last    time.Time
}

// Duration returns the time spanned by the log's records.
func (s Summary) Duration() time.Duration {
	if s.Records < 2 {
		return 0
	}
	return s.Last.Sub(s.First)
}

// Dump walks every record of the log at path, handing each to fn along
// with its index, and returns the totals. A nil fn just counts. The walk
// stops on the first fn error.
func Dump(path string, fn func(index int, rec Record) error) (Summary, error) {
	r, err := Open(path)
	if err != nil {
		return Summary{}, err
	}
	defer r.Close()

	var sum Summary
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return sum, nil
		}
		if err != nil {
			return sum, err
		}
		if fn != nil {
			if err := fn(sum.Records, rec); err != nil {
				return sum, err
			}
		}
		if sum.Records == 0 || rec.Time.Before(sum.First) {
			sum.First = rec.Time
		}
		if rec.Time.After(sum.Last) {
			sum.Last = rec.Time
		}
		sum.Records++
		sum.Bytes += int64(len(rec.Payload))
	}
}
