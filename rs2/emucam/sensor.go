package emucam

import (
	"fmt"
	"sync"

	"github.com/rerun-io/realsense-go/rs2"
)

type optionState struct {
	rng      rs2.OptionRange
	value    float32
	readOnly bool

	// ignored marks options the firmware registers as supported and
	// accepts writes for, while silently keeping the default. The L500's
	// global time option behaves this way.
	ignored bool
}

// Sensor is one emulated sensor: an option table, stream profiles, and an
// optional auto-exposure metering region.
type Sensor struct {
	name     string
	ext      rs2.Extension
	profiles []rs2.StreamProfile

	mu   sync.Mutex
	opts map[rs2.Option]*optionState

	roiSupported bool
	roi          rs2.ROI
	roiWidth     int
	roiHeight    int

	usb2Filter func(rs2.StreamProfile) bool
}

// Name implements rs2.SensorBackend.
func (s *Sensor) Name() string { return s.name }

// Extension implements rs2.SensorBackend.
func (s *Sensor) Extension() rs2.Extension { return s.ext }

// Profiles implements rs2.SensorBackend.
func (s *Sensor) Profiles() []rs2.StreamProfile {
	out := make([]rs2.StreamProfile, len(s.profiles))
	copy(out, s.profiles)
	return out
}

// SupportsOption implements rs2.SensorBackend.
func (s *Sensor) SupportsOption(opt rs2.Option) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.opts[opt]
	return ok
}

// IsOptionReadOnly implements rs2.SensorBackend.
func (s *Sensor) IsOptionReadOnly(opt rs2.Option) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.opts[opt]
	return ok && st.readOnly
}

// Option implements rs2.SensorBackend.
func (s *Sensor) Option(opt rs2.Option) (float32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.opts[opt]
	if !ok {
		return 0, fmt.Errorf("%w: %s on %s", rs2.ErrOptionUnsupported, opt, s.name)
	}
	return st.value, nil
}

// SetOption implements rs2.SensorBackend. Writes to an ignored option
// succeed without changing the stored value.
func (s *Sensor) SetOption(opt rs2.Option, value float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.opts[opt]
	if !ok {
		return fmt.Errorf("%w: %s on %s", rs2.ErrOptionUnsupported, opt, s.name)
	}
	if st.readOnly {
		return fmt.Errorf("%w: %s on %s", rs2.ErrOptionReadOnly, opt, s.name)
	}
	if !st.rng.Contains(value) {
		return fmt.Errorf("%w: %s=%v outside [%v, %v]",
			rs2.ErrOptionOutOfRange, opt, value, st.rng.Min, st.rng.Max)
	}
	if st.ignored {
		return nil
	}
	st.value = value
	return nil
}

// OptionRange implements rs2.SensorBackend.
func (s *Sensor) OptionRange(opt rs2.Option) (rs2.OptionRange, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.opts[opt]
	if !ok {
		return rs2.OptionRange{}, fmt.Errorf("%w: %s on %s", rs2.ErrOptionUnsupported, opt, s.name)
	}
	return st.rng, nil
}

// RegionOfInterest implements rs2.SensorBackend.
func (s *Sensor) RegionOfInterest() (rs2.ROI, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.roiSupported {
		return rs2.ROI{}, false, nil
	}
	return s.roi, true, nil
}

// SetRegionOfInterest implements rs2.SensorBackend, validating the
// rectangle against the sensor's metering resolution.
func (s *Sensor) SetRegionOfInterest(roi rs2.ROI) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.roiSupported {
		return fmt.Errorf("%w: %s", rs2.ErrRoiUnsupported, s.name)
	}
	if err := roi.Validate(s.roiWidth, s.roiHeight); err != nil {
		return err
	}
	s.roi = roi
	return nil
}

func (s *Sensor) depthUnits() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.opts[rs2.OptionDepthUnits]; ok {
		return st.value
	}
	return 0.001
}

func (s *Sensor) owns(p rs2.StreamProfile) bool {
	for _, sp := range s.profiles {
		if sp.UID == p.UID {
			return true
		}
	}
	return false
}

// setMeteringMode retargets the metering region at a newly opened video
// mode. The region resets to the full image of that mode.
func (s *Sensor) setMeteringMode(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.roiSupported {
		return
	}
	s.roiWidth = width
	s.roiHeight = height
	s.roi = rs2.FullROI(width, height)
}

func (s *Sensor) restrictToUSB2() {
	if s.usb2Filter == nil {
		return
	}
	kept := s.profiles[:0]
	for _, p := range s.profiles {
		if s.usb2Filter(p) {
			kept = append(kept, p)
		}
	}
	s.profiles = kept
}

func (s *Sensor) setOptionState(opt rs2.Option, rng rs2.OptionRange, readOnly, ignored bool) {
	if s.opts == nil {
		s.opts = make(map[rs2.Option]*optionState)
	}
	s.opts[opt] = &optionState{rng: rng, value: rng.Default, readOnly: readOnly, ignored: ignored}
}

func (s *Sensor) enableROI(width, height int) {
	s.roiSupported = true
	s.roiWidth = width
	s.roiHeight = height
	s.roi = rs2.FullROI(width, height)
}
