// Package framestats computes frame-interval statistics for a capture run:
// effective framerate, interval spread and jitter. The bench tool and the
// framerate tests use it to judge delivery pacing.
package framestats

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Collector accumulates frameset arrival times.
type Collector struct {
	arrivals []time.Time
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Add records one arrival.
func (c *Collector) Add(t time.Time) {
	c.arrivals = append(c.arrivals, t)
}

// Count returns the number of recorded arrivals.
func (c *Collector) Count() int {
	return len(c.arrivals)
}

// Stats summarises the recorded intervals.
type Stats struct {
	Framesets    int
	Elapsed      time.Duration
	MeanInterval time.Duration
	StdDev       time.Duration
	MinInterval  time.Duration
	MaxInterval  time.Duration
	EffectiveFPS float64
}

func (s Stats) String() string {
	return fmt.Sprintf("%d framesets in %v (%.2f fps, interval %v ± %v, min %v, max %v)",
		s.Framesets, s.Elapsed.Round(time.Millisecond), s.EffectiveFPS,
		s.MeanInterval.Round(time.Microsecond), s.StdDev.Round(time.Microsecond),
		s.MinInterval.Round(time.Microsecond), s.MaxInterval.Round(time.Microsecond))
}

// Summarise computes interval statistics over the recorded arrivals. At
// least two arrivals are required.
func (c *Collector) Summarise() (Stats, error) {
	if len(c.arrivals) < 2 {
		return Stats{}, fmt.Errorf("framestats: need at least 2 arrivals, have %d", len(c.arrivals))
	}

	intervals := make([]float64, 0, len(c.arrivals)-1)
	minI := time.Duration(1<<63 - 1)
	maxI := time.Duration(0)
	for i := 1; i < len(c.arrivals); i++ {
		d := c.arrivals[i].Sub(c.arrivals[i-1])
		if d < minI {
			minI = d
		}
		if d > maxI {
			maxI = d
		}
		intervals = append(intervals, d.Seconds())
	}

	mean := stat.Mean(intervals, nil)
	std := 0.0
	if len(intervals) > 1 {
		std = stat.StdDev(intervals, nil)
	}
	elapsed := c.arrivals[len(c.arrivals)-1].Sub(c.arrivals[0])

	s := Stats{
		Framesets:    len(c.arrivals),
		Elapsed:      elapsed,
		MeanInterval: time.Duration(mean * float64(time.Second)),
		StdDev:       time.Duration(std * float64(time.Second)),
		MinInterval:  minI,
		MaxInterval:  maxI,
	}
	if elapsed > 0 {
		s.EffectiveFPS = float64(len(c.arrivals)-1) / elapsed.Seconds()
	}
	return s, nil
}
