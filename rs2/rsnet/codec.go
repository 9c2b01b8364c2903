// Package rsnet carries rs2 framesets over the network: a Publisher pushes
// CBOR-encoded framesets on a ZeroMQ socket and a Client turns the feed
// back into an rs2.Backend. The publisher also serves a small HTTP status
// API for liveness polling.
package rsnet

import (
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/rerun-io/realsense-go/rs2"
)

// Wire message types.
const (
	msgHello    = "hello"
	msgFrameset = "frameset"
	msgBye      = "bye"
)

type envelope struct {
	Type string `cbor:"type"`
}

// HelloMessage announces the published device: its description fields and
// a snapshot of every sensor's profiles and options.
type HelloMessage struct {
	Type    string         `cbor:"type"`
	Serial  string         `cbor:"serial"`
	Infos   map[int]string `cbor:"infos"`
	Sensors []SensorInfo   `cbor:"sensors"`
}

// SensorInfo is the wire form of one sensor.
type SensorInfo struct {
	Name      string        `cbor:"name"`
	Extension int           `cbor:"extension"`
	Profiles  []ProfileInfo `cbor:"profiles"`
	Options   []OptionInfo  `cbor:"options"`
	RoiValid  bool          `cbor:"roi_valid"`
	Roi       RoiInfo       `cbor:"roi"`
}

// ProfileInfo is the wire form of one stream profile.
type ProfileInfo struct {
	Kind      int  `cbor:"kind"`
	Index     int  `cbor:"index"`
	Format    int  `cbor:"format"`
	Width     int  `cbor:"width"`
	Height    int  `cbor:"height"`
	Framerate int  `cbor:"framerate"`
	UID       int  `cbor:"uid"`
	Default   bool `cbor:"default"`
}

// OptionInfo is the wire form of one sensor option and its value at
// publish time.
type OptionInfo struct {
	Option   int     `cbor:"option"`
	Min      float32 `cbor:"min"`
	Max      float32 `cbor:"max"`
	Step     float32 `cbor:"step"`
	Default  float32 `cbor:"default"`
	Value    float32 `cbor:"value"`
	ReadOnly bool    `cbor:"read_only"`
}

// RoiInfo is the wire form of a metering region.
type RoiInfo struct {
	MinX int `cbor:"min_x"`
	MinY int `cbor:"min_y"`
	MaxX int `cbor:"max_x"`
	MaxY int `cbor:"max_y"`
}

// FramesetMessage is one synchronized frameset on the wire.
type FramesetMessage struct {
	Type   string      `cbor:"type"`
	Frames []FrameInfo `cbor:"frames"`
}

// FrameInfo is the wire form of one frame, profile inlined.
type FrameInfo struct {
	Profile     ProfileInfo `cbor:"profile"`
	Number      uint64      `cbor:"number"`
	TimestampNs int64       `cbor:"timestamp_ns"`
	DepthUnits  float32     `cbor:"depth_units"`
	Data        []byte      `cbor:"data"`
}

func profileInfo(p rs2.StreamProfile) ProfileInfo {
	return ProfileInfo{
		Kind:      int(p.Kind),
		Index:     p.Index,
		Format:    int(p.Format),
		Width:     p.Width,
		Height:    p.Height,
		Framerate: p.Framerate,
		UID:       p.UID,
		Default:   p.Default,
	}
}

func (p ProfileInfo) profile() rs2.StreamProfile {
	return rs2.StreamProfile{
		Kind:      rs2.StreamKind(p.Kind),
		Index:     p.Index,
		Format:    rs2.Format(p.Format),
		Width:     p.Width,
		Height:    p.Height,
		Framerate: p.Framerate,
		UID:       p.UID,
		Default:   p.Default,
	}
}

// MarshalFrameset encodes a frameset for the wire or the capture log.
func MarshalFrameset(fs *rs2.Frameset) ([]byte, error) {
	msg := FramesetMessage{Type: msgFrameset}
	for _, f := range fs.Frames() {
		info := FrameInfo{
			Profile:     profileInfo(f.Profile()),
			Number:      f.FrameNumber(),
			TimestampNs: f.Timestamp().UnixNano(),
			Data:        f.Data(),
		}
		if df, ok := f.(*rs2.DepthFrame); ok {
			info.DepthUnits = df.DepthUnits()
		}
		msg.Frames = append(msg.Frames, info)
	}
	return cbor.Marshal(msg)
}

// UnmarshalFrameset decodes a frameset payload.
func UnmarshalFrameset(payload []byte) (*rs2.Frameset, error) {
	var msg FramesetMessage
	if err := cbor.Unmarshal(payload, &msg); err != nil {
		return nil, fmt.Errorf("rsnet: decode frameset: %w", err)
	}
	if msg.Type != msgFrameset {
		return nil, fmt.Errorf("rsnet: unexpected message type %q", msg.Type)
	}
	frames := make([]rs2.Frame, 0, len(msg.Frames))
	for _, info := range msg.Frames {
		frames = append(frames, info.frame())
	}
	return rs2.NewFrameset(frames...), nil
}

func (info FrameInfo) frame() rs2.Frame {
	profile := info.Profile.profile()
	ts := time.Unix(0, info.TimestampNs)
	switch profile.Kind {
	case rs2.StreamDepth:
		return rs2.NewDepthFrame(profile, info.Number, ts, info.DepthUnits, info.Data)
	case rs2.StreamColor:
		return rs2.NewColorFrame(profile, info.Number, ts, info.Data)
	default:
		return rs2.NewInfraredFrame(profile, info.Number, ts, info.Data)
	}
}

func marshalHello(dev *rs2.Device) ([]byte, error) {
	msg := HelloMessage{Type: msgHello, Infos: make(map[int]string)}
	for _, info := range []rs2.CameraInfo{
		rs2.InfoName, rs2.InfoSerialNumber, rs2.InfoFirmwareVersion,
		rs2.InfoPhysicalPort, rs2.InfoProductID, rs2.InfoProductLine,
		rs2.InfoUsbTypeDescriptor,
	} {
		if v, err := dev.Info(info); err == nil {
			msg.Infos[int(info)] = v
		}
	}
	msg.Serial = msg.Infos[int(rs2.InfoSerialNumber)]

	for _, sensor := range dev.Sensors() {
		si := SensorInfo{
			Name:      sensor.Name(),
			Extension: int(sensor.Extension()),
		}
		for _, p := range sensor.StreamProfiles() {
			si.Profiles = append(si.Profiles, profileInfo(p))
		}
		for opt := rs2.Option(0); opt <= rs2.OptionEnableAutoWhiteBalance; opt++ {
			if !sensor.SupportsOption(opt) {
				continue
			}
			rng, err := sensor.OptionRange(opt)
			if err != nil {
				continue
			}
			value, err := sensor.Option(opt)
			if err != nil {
				continue
			}
			si.Options = append(si.Options, OptionInfo{
				Option:   int(opt),
				Min:      rng.Min,
				Max:      rng.Max,
				Step:     rng.Step,
				Default:  rng.Default,
				Value:    value,
				ReadOnly: sensor.IsOptionReadOnly(opt),
			})
		}
		if roi, err := sensor.RegionOfInterest(); err == nil {
			si.RoiValid = true
			si.Roi = RoiInfo{MinX: roi.MinX, MinY: roi.MinY, MaxX: roi.MaxX, MaxY: roi.MaxY}
		}
		msg.Sensors = append(msg.Sensors, si)
	}
	return cbor.Marshal(msg)
}

func unmarshalHello(payload []byte) (*HelloMessage, error) {
	var msg HelloMessage
	if err := cbor.Unmarshal(payload, &msg); err != nil {
		return nil, fmt.Errorf("rsnet: decode hello: %w", err)
	}
	if msg.Type != msgHello {
		return nil, fmt.Errorf("rsnet: unexpected message type %q", msg.Type)
	}
	return &msg, nil
}

func messageType(payload []byte) string {
	var env envelope
	if err := cbor.Unmarshal(payload, &env); err != nil {
		return ""
	}
	return env.Type
}
