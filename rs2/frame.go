package rs2

import (
	"encoding/binary"
	"fmt"
	"time"
)

// Frame is one captured frame of any stream kind.
type Frame interface {
	FrameNumber() uint64
	Timestamp() time.Time
	TimestampDomain() TimestampDomain
	Profile() StreamProfile
	Data() []byte
}

// VideoFrame is the common implementation behind color, depth and infrared
// frames.
type VideoFrame struct {
	profile StreamProfile
	number  uint64
	ts      time.Time
	domain  TimestampDomain
	data    []byte
}

func (f *VideoFrame) FrameNumber() uint64              { return f.number }
func (f *VideoFrame) Timestamp() time.Time             { return f.ts }
func (f *VideoFrame) TimestampDomain() TimestampDomain { return f.domain }
func (f *VideoFrame) Profile() StreamProfile           { return f.profile }
func (f *VideoFrame) Data() []byte                     { return f.data }
func (f *VideoFrame) Width() int                       { return f.profile.Width }
func (f *VideoFrame) Height() int                      { return f.profile.Height }
func (f *VideoFrame) BitsPerPixel() int                { return f.profile.Format.BitsPerPixel() }

// Stride returns the number of bytes per image row.
func (f *VideoFrame) Stride() int {
	return f.profile.Width * f.BitsPerPixel() / 8
}

// ColorFrame is a frame from a color stream.
type ColorFrame struct{ VideoFrame }

// InfraredFrame is a frame from an infrared imager.
type InfraredFrame struct{ VideoFrame }

// DepthFrame is a frame from a depth stream in Z16 format.
type DepthFrame struct {
	VideoFrame
	depthUnits float32
}

// DepthUnits returns the scale from raw Z16 values to meters.
func (f *DepthFrame) DepthUnits() float32 { return f.depthUnits }

// Distance returns the depth at pixel (x, y) in meters.
func (f *DepthFrame) Distance(x, y int) (float32, error) {
	if x < 0 || y < 0 || x >= f.Width() || y >= f.Height() {
		return 0, fmt.Errorf("rs2: pixel (%d,%d) outside %dx%d depth frame", x, y, f.Width(), f.Height())
	}
	off := (y*f.Width() + x) * 2
	raw := binary.LittleEndian.Uint16(f.data[off : off+2])
	return float32(raw) * f.depthUnits, nil
}

// NewColorFrame builds a color frame; used by backends.
func NewColorFrame(profile StreamProfile, number uint64, ts time.Time, data []byte) *ColorFrame {
	return &ColorFrame{VideoFrame{profile: profile, number: number, ts: ts, data: data}}
}

// NewInfraredFrame builds an infrared frame; used by backends.
func NewInfraredFrame(profile StreamProfile, number uint64, ts time.Time, data []byte) *InfraredFrame {
	return &InfraredFrame{VideoFrame{profile: profile, number: number, ts: ts, data: data}}
}

// NewDepthFrame builds a depth frame; used by backends.
func NewDepthFrame(profile StreamProfile, number uint64, ts time.Time, depthUnits float32, data []byte) *DepthFrame {
	return &DepthFrame{
		VideoFrame: VideoFrame{profile: profile, number: number, ts: ts, data: data},
		depthUnits: depthUnits,
	}
}

// Frameset is the collection of synchronized frames returned by one
// pipeline wait.
type Frameset struct {
	frames []Frame
}

// NewFrameset builds a frameset; used by backends.
func NewFrameset(frames ...Frame) *Frameset {
	return &Frameset{frames: frames}
}

// Count returns the number of frames in the set.
func (fs *Frameset) Count() int { return len(fs.frames) }

// Frames returns all frames in the set.
func (fs *Frameset) Frames() []Frame { return fs.frames }

// ColorFrames returns the color frames in the set.
func (fs *Frameset) ColorFrames() []*ColorFrame {
	var out []*ColorFrame
	for _, f := range fs.frames {
		if cf, ok := f.(*ColorFrame); ok {
			out = append(out, cf)
		}
	}
	return out
}

// DepthFrames returns the depth frames in the set.
func (fs *Frameset) DepthFrames() []*DepthFrame {
	var out []*DepthFrame
	for _, f := range fs.frames {
		if df, ok := f.(*DepthFrame); ok {
			out = append(out, df)
		}
	}
	return out
}

// InfraredFrames returns the infrared frames in the set.
func (fs *Frameset) InfraredFrames() []*InfraredFrame {
	var out []*InfraredFrame
	for _, f := range fs.frames {
		if irf, ok := f.(*InfraredFrame); ok {
			out = append(out, irf)
		}
	}
	return out
}
