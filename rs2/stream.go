package rs2

import "fmt"

// StreamProfile describes one stream a sensor can produce: its kind, index
// (imagers with several physical units, e.g. the two stereo infrared
// cameras, are distinguished by index starting at 1), pixel format,
// resolution and framerate.
type StreamProfile struct {
	Kind      StreamKind
	Index     int
	Format    Format
	Width     int
	Height    int
	Framerate int

	// UID uniquely identifies the stream within its device.
	UID int

	// Default marks the profile the device picks when a request leaves
	// resolution, format or framerate open.
	Default bool
}

func (p StreamProfile) String() string {
	if p.Index > 0 {
		return fmt.Sprintf("%s[%d] %dx%d %s @%dfps", p.Kind, p.Index, p.Width, p.Height, p.Format, p.Framerate)
	}
	return fmt.Sprintf("%s %dx%d %s @%dfps", p.Kind, p.Width, p.Height, p.Format, p.Framerate)
}

// IsVideo reports whether the profile carries image data.
func (p StreamProfile) IsVideo() bool {
	switch p.Kind {
	case StreamDepth, StreamColor, StreamInfrared, StreamFisheye, StreamConfidence:
		return true
	}
	return false
}

// Intrinsics returns the projection parameters of a video profile. The
// emulated devices report an ideal pinhole model centred on the image.
func (p StreamProfile) Intrinsics() (Intrinsics, error) {
	if !p.IsVideo() || p.Width <= 0 || p.Height <= 0 {
		return Intrinsics{}, fmt.Errorf("%w: %s", ErrNoIntrinsics, p)
	}
	focal := float32(p.Width) * 0.92
	return Intrinsics{
		Width:  p.Width,
		Height: p.Height,
		PPX:    float32(p.Width) / 2,
		PPY:    float32(p.Height) / 2,
		FX:     focal,
		FY:     focal,
		Model:  DistortionNone,
	}, nil
}

// Intrinsics holds the pinhole projection parameters of a video stream.
type Intrinsics struct {
	Width  int
	Height int
	PPX    float32
	PPY    float32
	FX     float32
	FY     float32
	Model  Distortion
	Coeffs [5]float32
}

// Distortion identifies a lens distortion model.
type Distortion int

const (
	DistortionNone Distortion = iota
	DistortionBrownConrady
	DistortionInverseBrownConrady
)
