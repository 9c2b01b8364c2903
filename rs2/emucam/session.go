package emucam

import (
	"context"
	"encoding/binary"
	"sync"
	"time"

	"github.com/rerun-io/realsense-go/rs2"
)

// session generates framesets for one started pipeline. A single goroutine
// ticks at the highest requested framerate and assembles one frame per
// enabled stream each tick, the way the device's internal syncer lines up
// its imagers.
type session struct {
	cam     *Camera
	streams []streamState

	out    chan *rs2.Frameset
	cancel context.CancelFunc

	closeOnce sync.Once
	done      chan struct{}
}

type streamState struct {
	profile    rs2.StreamProfile
	depthUnits float32
	payload    []byte
	number     uint64
}

func newSession(cam *Camera, streams []rs2.StreamProfile) *session {
	states := make([]streamState, len(streams))
	for i, p := range streams {
		units, _ := cam.depthUnitsFor(p)
		states[i] = streamState{
			profile:    p,
			depthUnits: units,
			payload:    synthesize(p),
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &session{
		cam:     cam,
		streams: states,
		out:     make(chan *rs2.Frameset, cam.queueSize),
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	go s.run(ctx)
	return s
}

func (s *session) run(ctx context.Context) {
	defer close(s.done)
	defer close(s.out)

	fps := 30
	for _, st := range s.streams {
		if st.profile.Framerate > fps {
			fps = st.profile.Framerate
		}
	}
	interval := time.Duration(float64(time.Second) / float64(fps))

	// First-frame latency before the imagers settle.
	select {
	case <-ctx.Done():
		return
	case <-s.cam.clock.After(s.cam.startupDelay):
	}

	ticker := s.cam.clock.NewTicker(interval)
	defer ticker.Stop()

	tick := 0
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.Chan():
			tick++
			for i := range s.streams {
				s.streams[i].number++
			}
			// During warmup the device keeps counting but loses
			// every other frameset.
			if tick <= s.cam.warmupTicks && tick%2 == 1 {
				continue
			}
			frames := make([]rs2.Frame, len(s.streams))
			for i, st := range s.streams {
				frames[i] = buildFrame(st, now)
			}
			select {
			case s.out <- rs2.NewFrameset(frames...):
			default:
				// Consumer behind: the frameset is lost but the
				// counters keep advancing, like real firmware.
			}
		}
	}
}

func buildFrame(st streamState, now time.Time) rs2.Frame {
	switch st.profile.Kind {
	case rs2.StreamDepth:
		return rs2.NewDepthFrame(st.profile, st.number, now, st.depthUnits, st.payload)
	case rs2.StreamColor:
		return rs2.NewColorFrame(st.profile, st.number, now, st.payload)
	default:
		return rs2.NewInfraredFrame(st.profile, st.number, now, st.payload)
	}
}

// Wait implements rs2.StreamSession.
func (s *session) Wait(ctx context.Context) (*rs2.Frameset, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case fs, ok := <-s.out:
		if !ok {
			return nil, rs2.ErrPipelineStopped
		}
		return fs, nil
	}
}

// Close implements rs2.StreamSession.
func (s *session) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()
		<-s.done
		s.cam.dropSession(s)
	})
	return nil
}

// synthesize builds one static test pattern for a stream. Depth frames get
// a left-to-right gradient in Z16, color a channel ramp, infrared a gray
// gradient. The buffer is shared across framesets; consumers treat frame
// data as read-only.
func synthesize(p rs2.StreamProfile) []byte {
	if !p.IsVideo() {
		return nil
	}
	stride := p.Width * p.Format.BitsPerPixel() / 8
	buf := make([]byte, stride*p.Height)
	switch p.Format {
	case rs2.FormatZ16, rs2.FormatY16:
		for y := 0; y < p.Height; y++ {
			row := buf[y*stride:]
			for x := 0; x < p.Width; x++ {
				// raw units scale with x so Distance varies
				// across the image.
				binary.LittleEndian.PutUint16(row[x*2:], uint16(500+x))
			}
		}
	default:
		bpp := p.Format.BitsPerPixel() / 8
		for y := 0; y < p.Height; y++ {
			row := buf[y*stride:]
			for x := 0; x < p.Width; x++ {
				for c := 0; c < bpp; c++ {
					row[x*bpp+c] = byte((x + y + c*85) & 0xff)
				}
			}
		}
	}
	return buf
}
