package framestats

import (
	"math"
	"testing"
	"time"
)

func TestSummariseRegularIntervals(t *testing.T) {
	c := NewCollector()
	base := time.Unix(1700000000, 0)
	for i := 0; i < 31; i++ {
		c.Add(base.Add(time.Duration(i) * 33333 * time.Microsecond))
	}
	if c.Count() != 31 {
		t.Fatalf("Count() = %d, want 31", c.Count())
	}

	s, err := c.Summarise()
	if err != nil {
		t.Fatalf("summarise: %v", err)
	}
	if s.Framesets != 31 {
		t.Fatalf("framesets %d, want 31", s.Framesets)
	}
	want := 33333 * time.Microsecond
	if diff := (s.MeanInterval - want).Abs(); diff > time.Microsecond {
		t.Fatalf("mean interval %v, want %v", s.MeanInterval, want)
	}
	if s.MinInterval != want || s.MaxInterval != want {
		t.Fatalf("min/max %v/%v, want %v", s.MinInterval, s.MaxInterval, want)
	}
	if s.StdDev > time.Microsecond {
		t.Fatalf("regular intervals report jitter %v", s.StdDev)
	}
	if math.Abs(s.EffectiveFPS-30.0003) > 0.01 {
		t.Fatalf("effective fps %v, want ~30", s.EffectiveFPS)
	}
}

func TestSummariseJitter(t *testing.T) {
	c := NewCollector()
	base := time.Unix(1700000000, 0)
	c.Add(base)
	c.Add(base.Add(20 * time.Millisecond))
	c.Add(base.Add(60 * time.Millisecond))

	s, err := c.Summarise()
	if err != nil {
		t.Fatalf("summarise: %v", err)
	}
	if s.MinInterval != 20*time.Millisecond {
		t.Fatalf("min interval %v", s.MinInterval)
	}
	if s.MaxInterval != 40*time.Millisecond {
		t.Fatalf("max interval %v", s.MaxInterval)
	}
	if diff := (s.MeanInterval - 30*time.Millisecond).Abs(); diff > time.Microsecond {
		t.Fatalf("mean interval %v", s.MeanInterval)
	}
	if s.StdDev == 0 {
		t.Fatal("uneven intervals report zero jitter")
	}
	if s.String() == "" {
		t.Fatal("empty summary string")
	}
}

func TestSummariseTwoArrivals(t *testing.T) {
	c := NewCollector()
	base := time.Unix(1700000000, 0)
	c.Add(base)
	c.Add(base.Add(time.Second))

	s, err := c.Summarise()
	if err != nil {
		t.Fatalf("summarise: %v", err)
	}
	// One interval: spread is undefined, reported as zero.
	if s.StdDev != 0 {
		t.Fatalf("single interval jitter %v, want 0", s.StdDev)
	}
	if s.EffectiveFPS != 1 {
		t.Fatalf("effective fps %v, want 1", s.EffectiveFPS)
	}
}

func TestSummariseNeedsTwoArrivals(t *testing.T) {
	c := NewCollector()
	if _, err := c.Summarise(); err == nil {
		t.Fatal("Summarise succeeded with no arrivals")
	}
	c.Add(time.Now())
	if _, err := c.Summarise(); err == nil {
		t.Fatal("Summarise succeeded with one arrival")
	}
}
