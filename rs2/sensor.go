package rs2

// Sensor is one sensor of a device: an option surface, an optional
// auto-exposure metering region, and a set of stream profiles.
type Sensor struct {
	backend SensorBackend
}

// Name returns the sensor's human-readable name.
func (s *Sensor) Name() string { return s.backend.Name() }

// Extension reports the specialised interface the sensor implements.
func (s *Sensor) Extension() Extension { return s.backend.Extension() }

// StreamProfiles returns the streams the sensor can produce.
func (s *Sensor) StreamProfiles() []StreamProfile { return s.backend.Profiles() }

// SupportsOption reports whether the sensor exposes the option. Note that a
// supported option is not necessarily honoured: some firmware accepts a
// write and silently keeps the default (see the connectivity tests).
func (s *Sensor) SupportsOption(opt Option) bool { return s.backend.SupportsOption(opt) }

// IsOptionReadOnly reports whether the option rejects writes.
func (s *Sensor) IsOptionReadOnly(opt Option) bool { return s.backend.IsOptionReadOnly(opt) }

// Option returns the current value of the option.
func (s *Sensor) Option(opt Option) (float32, error) { return s.backend.Option(opt) }

// SetOption writes the option.
func (s *Sensor) SetOption(opt Option, value float32) error {
	return s.backend.SetOption(opt, value)
}

// OptionRange returns the accepted range and default of the option.
func (s *Sensor) OptionRange(opt Option) (OptionRange, error) {
	return s.backend.OptionRange(opt)
}

// RegionOfInterest returns the auto-exposure metering region.
func (s *Sensor) RegionOfInterest() (ROI, error) {
	roi, supported, err := s.backend.RegionOfInterest()
	if err != nil {
		return ROI{}, err
	}
	if !supported {
		return ROI{}, ErrRoiUnsupported
	}
	return roi, nil
}

// SetRegionOfInterest sets the auto-exposure metering region.
func (s *Sensor) SetRegionOfInterest(roi ROI) error {
	return s.backend.SetRegionOfInterest(roi)
}
