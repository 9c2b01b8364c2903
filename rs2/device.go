package rs2

import "fmt"

// Device is one enumerated camera.
type Device struct {
	backend DeviceBackend
}

func newDevice(db DeviceBackend) *Device {
	return &Device{backend: db}
}

// SupportsInfo reports whether the device provides the given field.
func (d *Device) SupportsInfo(info CameraInfo) bool {
	_, ok := d.backend.Info(info)
	return ok
}

// Info returns a device description field such as the serial number or the
// USB type descriptor.
func (d *Device) Info(info CameraInfo) (string, error) {
	v, ok := d.backend.Info(info)
	if !ok {
		return "", fmt.Errorf("rs2: device info %s not supported", info)
	}
	return v, nil
}

// Sensors returns the device's sensors.
func (d *Device) Sensors() []*Sensor {
	raw := d.backend.Sensors()
	sensors := make([]*Sensor, 0, len(raw))
	for _, sb := range raw {
		sensors = append(sensors, &Sensor{backend: sb})
	}
	return sensors
}

// HardwareReset resets the device, invalidating open sessions.
func (d *Device) HardwareReset() error {
	return d.backend.Reset()
}

func (d *Device) productLine() (ProductLine, error) {
	s, ok := d.backend.Info(InfoProductLine)
	if !ok {
		return 0, fmt.Errorf("rs2: device reports no product line")
	}
	return ParseProductLine(s)
}

// streamProfiles returns every profile the device advertises.
func (d *Device) streamProfiles() []StreamProfile {
	var all []StreamProfile
	for _, sb := range d.backend.Sensors() {
		all = append(all, sb.Profiles()...)
	}
	return all
}
