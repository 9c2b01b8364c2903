package rs2

import "fmt"

// Option identifies a sensor control.
type Option int

const (
	OptionEnableAutoExposure Option = iota
	OptionExposure
	OptionGain
	OptionLaserPower
	OptionEmitterEnabled
	OptionDepthUnits
	OptionGlobalTimeEnabled
	OptionFramesQueueSize
	OptionBrightness
	OptionContrast
	OptionSaturation
	OptionSharpness
	OptionWhiteBalance
	OptionEnableAutoWhiteBalance
)

func (o Option) String() string {
	switch o {
	case OptionEnableAutoExposure:
		return "enable_auto_exposure"
	case OptionExposure:
		return "exposure"
	case OptionGain:
		return "gain"
	case OptionLaserPower:
		return "laser_power"
	case OptionEmitterEnabled:
		return "emitter_enabled"
	case OptionDepthUnits:
		return "depth_units"
	case OptionGlobalTimeEnabled:
		return "global_time_enabled"
	case OptionFramesQueueSize:
		return "frames_queue_size"
	case OptionBrightness:
		return "brightness"
	case OptionContrast:
		return "contrast"
	case OptionSaturation:
		return "saturation"
	case OptionSharpness:
		return "sharpness"
	case OptionWhiteBalance:
		return "white_balance"
	case OptionEnableAutoWhiteBalance:
		return "enable_auto_white_balance"
	}
	return fmt.Sprintf("option(%d)", int(o))
}

// OptionRange describes the accepted values of an option.
type OptionRange struct {
	Min     float32
	Max     float32
	Step    float32
	Default float32
}

// Contains reports whether v lies within the range.
func (r OptionRange) Contains(v float32) bool {
	return v >= r.Min && v <= r.Max
}
