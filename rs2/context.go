package rs2

import "fmt"

// Context is the entry point to the wrapper. It holds the backend used for
// device enumeration and stream delivery.
type Context struct {
	backend Backend
}

// NewContext creates a context over the given backend. Passing nil selects
// the backend installed with RegisterBackend.
func NewContext(backend Backend) (*Context, error) {
	if backend == nil {
		backend = registeredBackend()
	}
	if backend == nil {
		return nil, fmt.Errorf("rs2: no backend registered")
	}
	return &Context{backend: backend}, nil
}

// QueryDevices returns the attached devices whose product line is in the
// given set. With no arguments every device is returned.
func (c *Context) QueryDevices(lines ...ProductLine) ([]*Device, error) {
	raw, err := c.backend.Devices()
	if err != nil {
		return nil, fmt.Errorf("rs2: query devices: %w", err)
	}

	var mask ProductLine
	for _, line := range lines {
		mask |= line
	}
	if mask == 0 {
		mask = ProductLineAny
	}

	var devices []*Device
	for _, db := range raw {
		dev := newDevice(db)
		line, err := dev.productLine()
		if err != nil {
			// Devices that don't report a product line only match
			// unfiltered queries.
			if mask == ProductLineAny {
				devices = append(devices, dev)
			}
			continue
		}
		if line&mask != 0 {
			devices = append(devices, dev)
		}
	}
	return devices, nil
}
