package rs2

import "fmt"

// streamRequest is one EnableStream call. Zero width, height or framerate
// and FormatAny leave the choice to the device; index 0 matches any imager.
type streamRequest struct {
	kind      StreamKind
	index     int
	width     int
	height    int
	format    Format
	framerate int
}

func (r streamRequest) String() string {
	return fmt.Sprintf("%s[%d] %dx%d %s @%dfps", r.kind, r.index, r.width, r.height, r.format, r.framerate)
}

// Config collects the stream requests a pipeline should resolve. Methods
// mirror the SDK's config builder and report invalid requests eagerly.
type Config struct {
	serial    string
	enableAll bool
	requests  []streamRequest
}

// NewConfig returns an empty config. Starting a pipeline with an empty
// config selects the device's default streams.
func NewConfig() *Config {
	return &Config{}
}

// EnableDeviceFromSerial restricts resolution to the device with the given
// serial number.
func (c *Config) EnableDeviceFromSerial(serial string) error {
	if serial == "" {
		return fmt.Errorf("rs2: empty serial number")
	}
	c.serial = serial
	return nil
}

// DisableAllStreams drops every stream request made so far.
func (c *Config) DisableAllStreams() error {
	c.requests = nil
	c.enableAll = false
	return nil
}

// EnableAllStreams requests every default profile of the device on top of
// any explicit requests.
func (c *Config) EnableAllStreams() error {
	c.enableAll = true
	return nil
}

// EnableStream requests one stream. Width, height and framerate may be 0
// and format may be FormatAny to accept the device default. Index 0 matches
// any imager of the kind; infrared imagers are numbered from 1.
func (c *Config) EnableStream(kind StreamKind, index, width, height int, format Format, framerate int) error {
	if kind == StreamAny {
		return fmt.Errorf("rs2: enable stream: kind must be specific")
	}
	if index < 0 || width < 0 || height < 0 || framerate < 0 {
		return fmt.Errorf("rs2: enable stream %s: negative parameter", kind)
	}
	if (width == 0) != (height == 0) {
		return fmt.Errorf("rs2: enable stream %s: width and height must be given together", kind)
	}
	c.requests = append(c.requests, streamRequest{
		kind:      kind,
		index:     index,
		width:     width,
		height:    height,
		format:    format,
		framerate: framerate,
	})
	return nil
}

// DisableStream removes previous requests for the given kind and index.
// Index 0 removes every request of the kind.
func (c *Config) DisableStream(kind StreamKind, index int) error {
	kept := c.requests[:0]
	for _, r := range c.requests {
		if r.kind == kind && (index == 0 || r.index == index) {
			continue
		}
		kept = append(kept, r)
	}
	c.requests = kept
	return nil
}
