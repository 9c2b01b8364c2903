package rs2

import (
	"context"
	"sync"
)

// Backend enumerates attached cameras. Implementations decide where the
// cameras live: emucam keeps them in-process, rsnet reaches one over the
// network, and a cgo binding against the vendor SDK would slot in here too.
type Backend interface {
	Devices() ([]DeviceBackend, error)
}

// DeviceBackend is one camera as seen by a Backend.
type DeviceBackend interface {
	// Info returns a device description field, and whether the device
	// provides it.
	Info(info CameraInfo) (string, bool)

	// Sensors lists the device's sensors in a stable order.
	Sensors() []SensorBackend

	// Open starts delivery of the given streams. The profiles are a
	// subset of those advertised by the device's sensors.
	Open(streams []StreamProfile) (StreamSession, error)

	// Reset performs a hardware reset, dropping open sessions.
	Reset() error
}

// SensorBackend is the option/ROI/profile surface of one sensor.
type SensorBackend interface {
	Name() string
	Extension() Extension
	Profiles() []StreamProfile

	SupportsOption(opt Option) bool
	IsOptionReadOnly(opt Option) bool
	Option(opt Option) (float32, error)
	SetOption(opt Option, value float32) error
	OptionRange(opt Option) (OptionRange, error)

	// RegionOfInterest returns the metering region; supported is false
	// for sensors without auto-exposure ROI control.
	RegionOfInterest() (roi ROI, supported bool, err error)
	SetRegionOfInterest(roi ROI) error
}

// StreamSession delivers synchronized framesets for one started pipeline.
type StreamSession interface {
	// Wait blocks for the next frameset. It returns ctx.Err() when the
	// context expires first and ErrPipelineStopped after Close.
	Wait(ctx context.Context) (*Frameset, error)
	Close() error
}

var (
	defaultBackendMu sync.RWMutex
	defaultBackend   Backend
)

// RegisterBackend installs the process-wide backend used by NewContext(nil).
func RegisterBackend(b Backend) {
	defaultBackendMu.Lock()
	defaultBackend = b
	defaultBackendMu.Unlock()
}

func registeredBackend() Backend {
	defaultBackendMu.RLock()
	defer defaultBackendMu.RUnlock()
	return defaultBackend
}
