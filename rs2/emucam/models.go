package emucam

import (
	"time"

	"github.com/rerun-io/realsense-go/rs2"
)

// Default startup behaviour. The physical D400 takes north of a second to
// deliver its first frameset and drops a handful during warmup; the
// emulation keeps the shape at a test-friendly scale.
const (
	defaultStartupDelay = 300 * time.Millisecond
	defaultWarmupTicks  = 4
	defaultQueueSize    = 16
)

type resolution struct {
	w, h int
}

// profileSet builds the cartesian profile list for one stream. The first
// resolution/framerate pair of the default format becomes the device
// default, and resolutions are listed default-first so open-ended requests
// resolve to it.
type profileSet struct {
	kind        rs2.StreamKind
	index       int
	formats     []rs2.Format
	resolutions []resolution
	framerates  []int
	defaultFmt  rs2.Format
	defaultFps  int
}

func (ps profileSet) build(uid *int) []rs2.StreamProfile {
	var out []rs2.StreamProfile
	for _, f := range ps.formats {
		for ri, res := range ps.resolutions {
			for _, fps := range ps.framerates {
				*uid++
				out = append(out, rs2.StreamProfile{
					Kind:      ps.kind,
					Index:     ps.index,
					Format:    f,
					Width:     res.w,
					Height:    res.h,
					Framerate: fps,
					UID:       *uid,
					Default:   f == ps.defaultFmt && ri == 0 && fps == ps.defaultFps,
				})
			}
		}
	}
	return out
}

// NewD435i builds an emulated D435i: an RGB camera and a stereo module
// carrying the depth stream plus two infrared imagers, on a USB 3.2 link.
func NewD435i(serial string, opts ...Option) *Camera {
	uid := 0

	color := &Sensor{name: "RGB Camera", ext: rs2.ExtensionColorSensor}
	color.profiles = profileSet{
		kind:        rs2.StreamColor,
		formats:     []rs2.Format{rs2.FormatRgb8, rs2.FormatRgba8, rs2.FormatBgr8, rs2.FormatYuyv},
		resolutions: []resolution{{640, 480}, {424, 240}, {1280, 720}, {1920, 1080}},
		framerates:  []int{6, 15, 30, 60, 90},
		defaultFmt:  rs2.FormatRgb8,
		defaultFps:  30,
	}.build(&uid)
	color.usb2Filter = func(p rs2.StreamProfile) bool {
		return p.Width <= 640 && p.Framerate <= 30
	}
	color.setOptionState(rs2.OptionEnableAutoExposure, rs2.OptionRange{Min: 0, Max: 1, Step: 1, Default: 1}, false, false)
	color.setOptionState(rs2.OptionExposure, rs2.OptionRange{Min: 1, Max: 10000, Step: 1, Default: 166}, false, false)
	color.setOptionState(rs2.OptionGain, rs2.OptionRange{Min: 0, Max: 128, Step: 1, Default: 64}, false, false)
	color.setOptionState(rs2.OptionBrightness, rs2.OptionRange{Min: -64, Max: 64, Step: 1, Default: 0}, false, false)
	color.setOptionState(rs2.OptionContrast, rs2.OptionRange{Min: 0, Max: 100, Step: 1, Default: 50}, false, false)
	color.setOptionState(rs2.OptionSaturation, rs2.OptionRange{Min: 0, Max: 100, Step: 1, Default: 64}, false, false)
	color.setOptionState(rs2.OptionSharpness, rs2.OptionRange{Min: 0, Max: 100, Step: 1, Default: 50}, false, false)
	color.setOptionState(rs2.OptionWhiteBalance, rs2.OptionRange{Min: 2800, Max: 6500, Step: 10, Default: 4600}, false, false)
	color.setOptionState(rs2.OptionEnableAutoWhiteBalance, rs2.OptionRange{Min: 0, Max: 1, Step: 1, Default: 1}, false, false)
	color.setOptionState(rs2.OptionGlobalTimeEnabled, rs2.OptionRange{Min: 0, Max: 1, Step: 1, Default: 0}, false, false)
	color.setOptionState(rs2.OptionFramesQueueSize, rs2.OptionRange{Min: 0, Max: 32, Step: 1, Default: 16}, false, false)
	color.enableROI(640, 480)

	stereo := &Sensor{name: "Stereo Module", ext: rs2.ExtensionDepthStereoSensor}
	depthRes := []resolution{{848, 480}, {640, 480}, {424, 240}, {1280, 720}}
	stereo.profiles = profileSet{
		kind:        rs2.StreamDepth,
		formats:     []rs2.Format{rs2.FormatZ16},
		resolutions: depthRes,
		framerates:  []int{6, 15, 30, 60, 90},
		defaultFmt:  rs2.FormatZ16,
		defaultFps:  30,
	}.build(&uid)
	for index := 1; index <= 2; index++ {
		stereo.profiles = append(stereo.profiles, profileSet{
			kind:        rs2.StreamInfrared,
			index:       index,
			formats:     []rs2.Format{rs2.FormatY8},
			resolutions: depthRes,
			framerates:  []int{6, 15, 30, 60, 90},
		}.build(&uid)...)
	}
	stereo.usb2Filter = func(p rs2.StreamProfile) bool {
		if p.Kind == rs2.StreamInfrared && p.Index == 2 {
			return false
		}
		return p.Width <= 640 && p.Framerate <= 30
	}
	stereo.setOptionState(rs2.OptionEnableAutoExposure, rs2.OptionRange{Min: 0, Max: 1, Step: 1, Default: 1}, false, false)
	stereo.setOptionState(rs2.OptionExposure, rs2.OptionRange{Min: 1, Max: 165000, Step: 1, Default: 8500}, false, false)
	stereo.setOptionState(rs2.OptionGain, rs2.OptionRange{Min: 16, Max: 248, Step: 1, Default: 16}, false, false)
	stereo.setOptionState(rs2.OptionLaserPower, rs2.OptionRange{Min: 0, Max: 360, Step: 30, Default: 150}, false, false)
	stereo.setOptionState(rs2.OptionEmitterEnabled, rs2.OptionRange{Min: 0, Max: 2, Step: 1, Default: 1}, false, false)
	stereo.setOptionState(rs2.OptionDepthUnits, rs2.OptionRange{Min: 0.0001, Max: 0.01, Step: 0.000001, Default: 0.001}, false, false)
	stereo.setOptionState(rs2.OptionGlobalTimeEnabled, rs2.OptionRange{Min: 0, Max: 1, Step: 1, Default: 0}, false, false)
	stereo.setOptionState(rs2.OptionFramesQueueSize, rs2.OptionRange{Min: 0, Max: 32, Step: 1, Default: 16}, false, false)
	stereo.enableROI(848, 480)

	cam := &Camera{
		info: map[rs2.CameraInfo]string{
			rs2.InfoName:              "Intel RealSense D435I",
			rs2.InfoSerialNumber:      serial,
			rs2.InfoFirmwareVersion:   "5.13.0.50",
			rs2.InfoPhysicalPort:      "/sys/devices/emu/usb3/3-2",
			rs2.InfoProductID:         "0B3A",
			rs2.InfoProductLine:       "D400",
			rs2.InfoUsbTypeDescriptor: "3.2",
		},
		sensors:      []*Sensor{color, stereo},
		startupDelay: defaultStartupDelay,
		warmupTicks:  defaultWarmupTicks,
		queueSize:    defaultQueueSize,
		clock:        wallClock{},
	}
	for _, opt := range opts {
		opt(cam)
	}
	return cam
}

// NewL515 builds an emulated L515 lidar camera. Its depth sensor carries
// one infrared stream, and the global time option on both sensors is
// supported but silently ignored, matching the known L500 firmware quirk.
func NewL515(serial string, opts ...Option) *Camera {
	uid := 1000

	color := &Sensor{name: "RGB Camera", ext: rs2.ExtensionColorSensor}
	color.profiles = profileSet{
		kind:        rs2.StreamColor,
		formats:     []rs2.Format{rs2.FormatYuyv, rs2.FormatRgb8, rs2.FormatRgba8},
		resolutions: []resolution{{640, 480}, {1280, 720}, {1920, 1080}},
		framerates:  []int{6, 15, 30, 60},
		defaultFmt:  rs2.FormatYuyv,
		defaultFps:  30,
	}.build(&uid)
	color.setOptionState(rs2.OptionEnableAutoExposure, rs2.OptionRange{Min: 0, Max: 1, Step: 1, Default: 1}, false, false)
	color.setOptionState(rs2.OptionExposure, rs2.OptionRange{Min: 1, Max: 10000, Step: 1, Default: 166}, false, false)
	color.setOptionState(rs2.OptionGain, rs2.OptionRange{Min: 0, Max: 128, Step: 1, Default: 64}, false, false)
	color.setOptionState(rs2.OptionGlobalTimeEnabled, rs2.OptionRange{Min: 0, Max: 1, Step: 1, Default: 0}, false, true)
	color.setOptionState(rs2.OptionFramesQueueSize, rs2.OptionRange{Min: 0, Max: 32, Step: 1, Default: 16}, false, false)
	color.enableROI(640, 480)

	depth := &Sensor{name: "L500 Depth Sensor", ext: rs2.ExtensionL500DepthSensor}
	depthRes := []resolution{{640, 480}, {320, 240}, {1024, 768}}
	depth.profiles = profileSet{
		kind:        rs2.StreamDepth,
		formats:     []rs2.Format{rs2.FormatZ16},
		resolutions: depthRes,
		framerates:  []int{30},
		defaultFmt:  rs2.FormatZ16,
		defaultFps:  30,
	}.build(&uid)
	depth.profiles = append(depth.profiles, profileSet{
		kind:        rs2.StreamInfrared,
		index:       1,
		formats:     []rs2.Format{rs2.FormatY8},
		resolutions: depthRes,
		framerates:  []int{30},
	}.build(&uid)...)
	depth.setOptionState(rs2.OptionDepthUnits, rs2.OptionRange{Min: 0.00025, Max: 0.00025, Step: 0, Default: 0.00025}, true, false)
	depth.setOptionState(rs2.OptionLaserPower, rs2.OptionRange{Min: 0, Max: 100, Step: 1, Default: 100}, false, false)
	depth.setOptionState(rs2.OptionGlobalTimeEnabled, rs2.OptionRange{Min: 0, Max: 1, Step: 1, Default: 0}, false, true)
	depth.setOptionState(rs2.OptionFramesQueueSize, rs2.OptionRange{Min: 0, Max: 32, Step: 1, Default: 16}, false, false)

	cam := &Camera{
		info: map[rs2.CameraInfo]string{
			rs2.InfoName:              "Intel RealSense L515",
			rs2.InfoSerialNumber:      serial,
			rs2.InfoFirmwareVersion:   "1.5.8.1",
			rs2.InfoPhysicalPort:      "/sys/devices/emu/usb3/3-4",
			rs2.InfoProductID:         "0B64",
			rs2.InfoProductLine:       "L500",
			rs2.InfoUsbTypeDescriptor: "3.2",
		},
		sensors:      []*Sensor{color, depth},
		startupDelay: defaultStartupDelay,
		warmupTicks:  defaultWarmupTicks,
		queueSize:    defaultQueueSize,
		clock:        wallClock{},
	}
	for _, opt := range opts {
		opt(cam)
	}
	return cam
}
