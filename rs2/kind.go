// Package rs2 wraps a depth-camera stream stack behind the familiar
// RealSense object model: a Context enumerates Devices, a Config describes
// the streams to capture, a Pipeline resolves the Config against a Device
// and delivers synchronized Framesets.
//
// The package never talks to hardware directly. All delivery goes through a
// Backend (see backend.go); the emucam package provides a software camera
// and rsnet a network transport.
package rs2

import "fmt"

// StreamKind identifies the data type carried by a stream.
type StreamKind int

const (
	StreamAny StreamKind = iota
	StreamDepth
	StreamColor
	StreamInfrared
	StreamFisheye
	StreamGyro
	StreamAccel
	StreamPose
	StreamConfidence
)

func (k StreamKind) String() string {
	switch k {
	case StreamAny:
		return "any"
	case StreamDepth:
		return "depth"
	case StreamColor:
		return "color"
	case StreamInfrared:
		return "infrared"
	case StreamFisheye:
		return "fisheye"
	case StreamGyro:
		return "gyro"
	case StreamAccel:
		return "accel"
	case StreamPose:
		return "pose"
	case StreamConfidence:
		return "confidence"
	}
	return fmt.Sprintf("stream(%d)", int(k))
}

// Format describes the pixel (or sample) layout of a stream.
type Format int

const (
	FormatAny Format = iota
	FormatZ16
	FormatRgb8
	FormatRgba8
	FormatBgr8
	FormatBgra8
	FormatY8
	FormatY16
	FormatYuyv
	FormatXyz32f
	FormatMotionXyz32f
	FormatDistance
)

func (f Format) String() string {
	switch f {
	case FormatAny:
		return "any"
	case FormatZ16:
		return "z16"
	case FormatRgb8:
		return "rgb8"
	case FormatRgba8:
		return "rgba8"
	case FormatBgr8:
		return "bgr8"
	case FormatBgra8:
		return "bgra8"
	case FormatY8:
		return "y8"
	case FormatY16:
		return "y16"
	case FormatYuyv:
		return "yuyv"
	case FormatXyz32f:
		return "xyz32f"
	case FormatMotionXyz32f:
		return "motion_xyz32f"
	case FormatDistance:
		return "distance"
	}
	return fmt.Sprintf("format(%d)", int(f))
}

// BitsPerPixel returns the storage size of one pixel, or 0 when the format
// has no fixed per-pixel size.
func (f Format) BitsPerPixel() int {
	switch f {
	case FormatZ16, FormatY16, FormatYuyv:
		return 16
	case FormatY8:
		return 8
	case FormatRgb8, FormatBgr8:
		return 24
	case FormatRgba8, FormatBgra8:
		return 32
	case FormatXyz32f, FormatDistance:
		return 32
	}
	return 0
}

// CameraInfo selects a device description field.
type CameraInfo int

const (
	InfoName CameraInfo = iota
	InfoSerialNumber
	InfoFirmwareVersion
	InfoPhysicalPort
	InfoProductID
	InfoProductLine
	InfoUsbTypeDescriptor
)

func (i CameraInfo) String() string {
	switch i {
	case InfoName:
		return "name"
	case InfoSerialNumber:
		return "serial_number"
	case InfoFirmwareVersion:
		return "firmware_version"
	case InfoPhysicalPort:
		return "physical_port"
	case InfoProductID:
		return "product_id"
	case InfoProductLine:
		return "product_line"
	case InfoUsbTypeDescriptor:
		return "usb_type_descriptor"
	}
	return fmt.Sprintf("camera_info(%d)", int(i))
}

// ProductLine is a bit set of camera families, usable as a query filter.
type ProductLine uint

const (
	ProductLineD400 ProductLine = 1 << iota
	ProductLineSR300
	ProductLineL500
	ProductLineT200
	ProductLineDepth = ProductLineD400 | ProductLineSR300 | ProductLineL500
	ProductLineAny   = ^ProductLine(0)
)

func (p ProductLine) String() string {
	switch p {
	case ProductLineD400:
		return "D400"
	case ProductLineSR300:
		return "SR300"
	case ProductLineL500:
		return "L500"
	case ProductLineT200:
		return "T200"
	case ProductLineAny:
		return "any"
	}
	return fmt.Sprintf("product_line(%#x)", uint(p))
}

// ParseProductLine maps the device-info spelling back to a ProductLine.
func ParseProductLine(s string) (ProductLine, error) {
	switch s {
	case "D400":
		return ProductLineD400, nil
	case "SR300":
		return ProductLineSR300, nil
	case "L500":
		return ProductLineL500, nil
	case "T200":
		return ProductLineT200, nil
	}
	return 0, fmt.Errorf("%w: product line %q", ErrUnknownEnum, s)
}

// Extension identifies the specialised interface a sensor implements.
type Extension int

const (
	ExtensionUnknown Extension = iota
	ExtensionColorSensor
	ExtensionDepthSensor
	ExtensionDepthStereoSensor
	ExtensionL500DepthSensor
	ExtensionMotionSensor
)

func (e Extension) String() string {
	switch e {
	case ExtensionColorSensor:
		return "color_sensor"
	case ExtensionDepthSensor:
		return "depth_sensor"
	case ExtensionDepthStereoSensor:
		return "depth_stereo_sensor"
	case ExtensionL500DepthSensor:
		return "l500_depth_sensor"
	case ExtensionMotionSensor:
		return "motion_sensor"
	}
	return "unknown"
}

// TimestampDomain reports which clock stamped a frame.
type TimestampDomain int

const (
	TimestampHardwareClock TimestampDomain = iota
	TimestampSystemTime
	TimestampGlobalTime
)

func (d TimestampDomain) String() string {
	switch d {
	case TimestampHardwareClock:
		return "hardware_clock"
	case TimestampSystemTime:
		return "system_time"
	case TimestampGlobalTime:
		return "global_time"
	}
	return fmt.Sprintf("timestamp_domain(%d)", int(d))
}
