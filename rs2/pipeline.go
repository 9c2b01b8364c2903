package rs2

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultWaitTimeout is used by ActivePipeline.Wait when no timeout is
// given. It matches the vendor SDK default.
const DefaultWaitTimeout = 5 * time.Second

// InactivePipeline is a pipeline that has not been started. Resolution can
// be probed with CanResolve/Resolve before committing to Start.
type InactivePipeline struct {
	ctx *Context
}

// NewInactivePipeline creates a pipeline bound to the context's backend.
func NewInactivePipeline(ctx *Context) (*InactivePipeline, error) {
	if ctx == nil {
		return nil, fmt.Errorf("rs2: nil context")
	}
	return &InactivePipeline{ctx: ctx}, nil
}

// CanResolve reports whether the config's requests can all be satisfied.
func (p *InactivePipeline) CanResolve(cfg *Config) bool {
	_, err := p.Resolve(cfg)
	return err == nil
}

// Resolve matches the config against the attached devices and returns the
// profile the pipeline would stream with.
func (p *InactivePipeline) Resolve(cfg *Config) (*PipelineProfile, error) {
	if cfg == nil {
		cfg = NewConfig()
	}
	device, err := p.selectDevice(cfg)
	if err != nil {
		return nil, err
	}
	streams, err := matchStreams(device, cfg)
	if err != nil {
		return nil, err
	}
	return &PipelineProfile{device: device, streams: streams}, nil
}

// Start resolves the config and begins streaming. A nil config selects the
// device defaults.
func (p *InactivePipeline) Start(cfg *Config) (*ActivePipeline, error) {
	profile, err := p.Resolve(cfg)
	if err != nil {
		return nil, err
	}
	session, err := profile.device.backend.Open(profile.streams)
	if err != nil {
		return nil, fmt.Errorf("rs2: start pipeline: %w", err)
	}
	return &ActivePipeline{ctx: p.ctx, profile: profile, session: session}, nil
}

func (p *InactivePipeline) selectDevice(cfg *Config) (*Device, error) {
	devices, err := p.ctx.QueryDevices()
	if err != nil {
		return nil, err
	}
	if cfg.serial == "" {
		if len(devices) == 0 {
			return nil, ErrNoDevice
		}
		return devices[0], nil
	}
	for _, dev := range devices {
		serial, err := dev.Info(InfoSerialNumber)
		if err == nil && serial == cfg.serial {
			return dev, nil
		}
	}
	return nil, fmt.Errorf("%w: serial %q", ErrNoDevice, cfg.serial)
}

// matchStreams resolves each request to a concrete profile. Every matched
// profile is consumed: two open-index infrared requests resolve to the two
// distinct imagers.
func matchStreams(device *Device, cfg *Config) ([]StreamProfile, error) {
	available := device.streamProfiles()
	used := make(map[int]bool, len(available))

	matched := make([]StreamProfile, 0, len(cfg.requests))
	for _, req := range cfg.requests {
		profile, ok := matchOne(available, used, req)
		if !ok {
			return nil, fmt.Errorf("%w: no profile for %s", ErrCannotResolve, req)
		}
		matched = append(matched, profile)
	}

	if len(cfg.requests) == 0 || cfg.enableAll {
		for _, p := range available {
			if p.Default && !used[p.UID] {
				used[p.UID] = true
				matched = append(matched, p)
			}
		}
		if len(matched) == 0 {
			return nil, fmt.Errorf("%w: device advertises no default streams", ErrCannotResolve)
		}
	}
	return matched, nil
}

func matchOne(available []StreamProfile, used map[int]bool, req streamRequest) (StreamProfile, bool) {
	best := -1
	for i, p := range available {
		if used[p.UID] {
			continue
		}
		if p.Kind != req.kind {
			continue
		}
		if req.index != 0 && p.Index != req.index {
			continue
		}
		if req.format != FormatAny && p.Format != req.format {
			continue
		}
		if req.width != 0 && (p.Width != req.width || p.Height != req.height) {
			continue
		}
		if req.framerate != 0 && p.Framerate != req.framerate {
			continue
		}
		if best < 0 {
			best = i
			continue
		}
		// Prefer the device default among equally valid candidates.
		if p.Default && !available[best].Default {
			best = i
		}
	}
	if best < 0 {
		return StreamProfile{}, false
	}
	used[available[best].UID] = true
	return available[best], true
}

// PipelineProfile is the resolved device and stream set of a pipeline.
type PipelineProfile struct {
	device  *Device
	streams []StreamProfile
}

// Device returns the resolved device.
func (p *PipelineProfile) Device() *Device { return p.device }

// Streams returns the resolved stream profiles.
func (p *PipelineProfile) Streams() []StreamProfile { return p.streams }

// ActivePipeline is a started pipeline delivering framesets.
type ActivePipeline struct {
	ctx     *Context
	profile *PipelineProfile
	session StreamSession
	stopped bool
}

// Profile returns the resolved profile the pipeline streams with.
func (p *ActivePipeline) Profile() *PipelineProfile { return p.profile }

// Wait blocks for the next frameset. A non-positive timeout selects
// DefaultWaitTimeout. The returned error matches ErrTimeout via errors.Is
// when the deadline expires.
func (p *ActivePipeline) Wait(timeout time.Duration) (*Frameset, error) {
	if timeout <= 0 {
		timeout = DefaultWaitTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return p.WaitContext(ctx)
}

// WaitContext blocks for the next frameset until the context is done.
func (p *ActivePipeline) WaitContext(ctx context.Context) (*Frameset, error) {
	if p.stopped {
		return nil, ErrPipelineStopped
	}
	fs, err := p.session.Wait(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, err
	}
	return fs, nil
}

// Poll returns a frameset only if one is already pending.
func (p *ActivePipeline) Poll() (*Frameset, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	fs, err := p.WaitContext(ctx)
	if err != nil {
		return nil, false
	}
	return fs, true
}

// Stop ends streaming and returns the pipeline to the inactive state.
func (p *ActivePipeline) Stop() *InactivePipeline {
	if !p.stopped {
		p.stopped = true
		_ = p.session.Close()
	}
	return &InactivePipeline{ctx: p.ctx}
}
