package rs2

import "errors"

var (
	// ErrNoDevice is returned when no attached device matches a query or a
	// config's serial filter.
	ErrNoDevice = errors.New("rs2: no matching device")

	// ErrCannotResolve is returned when a config's stream requests cannot
	// all be satisfied by the selected device.
	ErrCannotResolve = errors.New("rs2: config cannot be resolved")

	// ErrOptionUnsupported is returned for options the sensor does not
	// expose at all.
	ErrOptionUnsupported = errors.New("rs2: option not supported")

	// ErrOptionReadOnly is returned when writing a read-only option.
	ErrOptionReadOnly = errors.New("rs2: option is read-only")

	// ErrOptionOutOfRange is returned when an option value falls outside
	// the sensor's advertised range.
	ErrOptionOutOfRange = errors.New("rs2: option value out of range")

	// ErrRoiUnsupported is returned by ROI accessors on sensors without
	// auto-exposure metering support.
	ErrRoiUnsupported = errors.New("rs2: region of interest not supported")

	// ErrInvalidRoi is returned for rectangles violating min <= max within
	// the image bounds.
	ErrInvalidRoi = errors.New("rs2: invalid region of interest")

	// ErrTimeout is returned by Wait when no frameset arrives in time.
	ErrTimeout = errors.New("rs2: frame wait timed out")

	// ErrPipelineStopped is returned by Wait after Stop, or when the
	// backend session has gone away.
	ErrPipelineStopped = errors.New("rs2: pipeline stopped")

	// ErrNoIntrinsics is returned for profiles without video intrinsics.
	ErrNoIntrinsics = errors.New("rs2: stream profile has no intrinsics")

	// ErrUnknownEnum is returned when parsing an unrecognised enum value.
	ErrUnknownEnum = errors.New("rs2: unknown enum value")
)
