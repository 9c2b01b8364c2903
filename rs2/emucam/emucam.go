// Package emucam provides a software camera backend for rs2. It models two
// device families closely enough for the integration suite to exercise the
// wrapper without hardware: a D435i (D400 product line, stereo depth plus
// two infrared imagers) and an L515 (L500 product line, lidar depth).
//
// Frame delivery is clock-driven at the resolved framerate, including the
// observable warts of the real devices: a delayed first frameset, dropped
// framesets during the startup phase, and sensor options that are accepted
// but silently held at their default.
package emucam

import (
	"fmt"
	"sync"
	"time"

	"github.com/rerun-io/realsense-go/rs2"
)

// Backend exposes a fixed set of emulated cameras to rs2.
type Backend struct {
	cams []*Camera
}

// NewBackend creates a backend enumerating the given cameras.
func NewBackend(cams ...*Camera) *Backend {
	return &Backend{cams: cams}
}

// Devices implements rs2.Backend.
func (b *Backend) Devices() ([]rs2.DeviceBackend, error) {
	out := make([]rs2.DeviceBackend, len(b.cams))
	for i, cam := range b.cams {
		out[i] = cam
	}
	return out, nil
}

// Camera is one emulated device.
type Camera struct {
	info    map[rs2.CameraInfo]string
	sensors []*Sensor

	startupDelay time.Duration
	warmupTicks  int
	queueSize    int
	clock        Clock

	mu       sync.Mutex
	sessions map[*session]struct{}
}

// Option adjusts an emulated camera at construction time.
type Option func(*Camera)

// WithUSB2 downgrades the camera to a USB 2 link: the high-rate modes and
// the second infrared imager disappear and the USB descriptor reports 2.1.
func WithUSB2() Option {
	return func(c *Camera) {
		c.info[rs2.InfoUsbTypeDescriptor] = "2.1"
		for _, s := range c.sensors {
			s.restrictToUSB2()
		}
	}
}

// WithStartupDelay overrides the latency before the first frameset.
func WithStartupDelay(d time.Duration) Option {
	return func(c *Camera) { c.startupDelay = d }
}

// WithWarmupTicks overrides the number of initial framerate ticks during
// which framesets may be dropped.
func WithWarmupTicks(n int) Option {
	return func(c *Camera) { c.warmupTicks = n }
}

// WithClock substitutes the clock driving frame delivery, so tests can step
// framesets without waiting on real time.
func WithClock(clock Clock) Option {
	return func(c *Camera) { c.clock = clock }
}

// Info implements rs2.DeviceBackend.
func (c *Camera) Info(info rs2.CameraInfo) (string, bool) {
	v, ok := c.info[info]
	return v, ok
}

// Sensors implements rs2.DeviceBackend.
func (c *Camera) Sensors() []rs2.SensorBackend {
	out := make([]rs2.SensorBackend, len(c.sensors))
	for i, s := range c.sensors {
		out[i] = s
	}
	return out
}

// Open implements rs2.DeviceBackend.
func (c *Camera) Open(streams []rs2.StreamProfile) (rs2.StreamSession, error) {
	if len(streams) == 0 {
		return nil, fmt.Errorf("emucam: open with no streams")
	}
	for _, p := range streams {
		if _, err := c.depthUnitsFor(p); err != nil {
			return nil, err
		}
	}
	c.applyMeteringModes(streams)
	s := newSession(c, streams)
	c.mu.Lock()
	if c.sessions == nil {
		c.sessions = make(map[*session]struct{})
	}
	c.sessions[s] = struct{}{}
	c.mu.Unlock()
	return s, nil
}

// Reset implements rs2.DeviceBackend by dropping every open session.
func (c *Camera) Reset() error {
	c.mu.Lock()
	sessions := make([]*session, 0, len(c.sessions))
	for s := range c.sessions {
		sessions = append(sessions, s)
	}
	c.mu.Unlock()
	for _, s := range sessions {
		_ = s.Close()
	}
	return nil
}

// applyMeteringModes points each sensor's metering region at the widest
// video mode being opened on it, matching firmware behaviour where ROI
// coordinates follow the active stream resolution.
func (c *Camera) applyMeteringModes(streams []rs2.StreamProfile) {
	for _, s := range c.sensors {
		var best rs2.StreamProfile
		found := false
		for _, p := range streams {
			if !p.IsVideo() || !s.owns(p) {
				continue
			}
			if !found || p.Width > best.Width {
				best, found = p, true
			}
		}
		if found {
			s.setMeteringMode(best.Width, best.Height)
		}
	}
}

func (c *Camera) dropSession(s *session) {
	c.mu.Lock()
	delete(c.sessions, s)
	c.mu.Unlock()
}

// depthUnitsFor returns the depth scale of the sensor owning the profile,
// or 0 for non-depth streams.
func (c *Camera) depthUnitsFor(p rs2.StreamProfile) (float32, error) {
	for _, s := range c.sensors {
		for _, sp := range s.profiles {
			if sp.UID == p.UID {
				if p.Kind != rs2.StreamDepth {
					return 0, nil
				}
				return s.depthUnits(), nil
			}
		}
	}
	return 0, fmt.Errorf("emucam: profile %s not advertised by device", p)
}
