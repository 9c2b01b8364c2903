package emucam

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rerun-io/realsense-go/rs2"
)

func findProfile(cam *Camera, kind rs2.StreamKind, index int) (rs2.StreamProfile, bool) {
	for _, s := range cam.sensors {
		for _, p := range s.profiles {
			if p.Kind == kind && p.Index == index {
				return p, true
			}
		}
	}
	return rs2.StreamProfile{}, false
}

func TestD435iProfileCatalogue(t *testing.T) {
	cam := NewD435i("0001")

	if got := cam.info[rs2.InfoUsbTypeDescriptor]; got != "3.2" {
		t.Fatalf("usb descriptor %q, want 3.2", got)
	}
	if cam.startupDelay != 300*time.Millisecond {
		t.Fatalf("startup delay %v, want 300ms", cam.startupDelay)
	}
	if len(cam.sensors) != 2 {
		t.Fatalf("D435i has %d sensors, want 2", len(cam.sensors))
	}

	var depthDefaults, colorDefaults int
	uids := make(map[int]bool)
	for _, s := range cam.sensors {
		for _, p := range s.profiles {
			if uids[p.UID] {
				t.Fatalf("duplicate stream UID %d", p.UID)
			}
			uids[p.UID] = true
			if p.Default {
				switch p.Kind {
				case rs2.StreamDepth:
					depthDefaults++
					if p.Width != 848 || p.Height != 480 || p.Framerate != 30 {
						t.Fatalf("depth default is %s", p)
					}
				case rs2.StreamColor:
					colorDefaults++
					if p.Width != 640 || p.Height != 480 || p.Format != rs2.FormatRgb8 {
						t.Fatalf("color default is %s", p)
					}
				}
			}
		}
	}
	if depthDefaults != 1 || colorDefaults != 1 {
		t.Fatalf("defaults: depth=%d color=%d, want one each", depthDefaults, colorDefaults)
	}

	if _, ok := findProfile(cam, rs2.StreamInfrared, 2); !ok {
		t.Fatal("second infrared imager missing on USB3")
	}
}

func TestUSB2TrimsCatalogue(t *testing.T) {
	cam := NewD435i("0001", WithUSB2())

	if got := cam.info[rs2.InfoUsbTypeDescriptor]; got != "2.1" {
		t.Fatalf("usb descriptor %q, want 2.1", got)
	}
	if _, ok := findProfile(cam, rs2.StreamInfrared, 2); ok {
		t.Fatal("second infrared imager still advertised on USB2")
	}
	for _, s := range cam.sensors {
		for _, p := range s.profiles {
			if p.Width > 640 {
				t.Fatalf("wide mode %s survived the USB2 trim", p)
			}
			if p.Framerate > 30 {
				t.Fatalf("fast mode %s survived the USB2 trim", p)
			}
		}
	}
}

func TestOpenRejectsForeignProfile(t *testing.T) {
	cam := NewD435i("0001")
	_, err := cam.Open([]rs2.StreamProfile{{Kind: rs2.StreamDepth, Format: rs2.FormatZ16, UID: 99999}})
	if err == nil {
		t.Fatal("Open accepted a profile the device does not advertise")
	}
	if _, err := cam.Open(nil); err == nil {
		t.Fatal("Open accepted an empty stream list")
	}
}

func TestSessionWarmupNumbering(t *testing.T) {
	cam := NewD435i("0001", WithStartupDelay(10*time.Millisecond), WithWarmupTicks(4))

	depth, ok := findProfile(cam, rs2.StreamDepth, 0)
	if !ok {
		t.Fatal("no default depth profile")
	}
	session, err := cam.Open([]rs2.StreamProfile{depth})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer session.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var numbers []uint64
	for len(numbers) < 6 {
		fs, err := session.Wait(ctx)
		if err != nil {
			t.Fatalf("wait: %v", err)
		}
		frames := fs.DepthFrames()
		if len(frames) != 1 {
			t.Fatalf("frameset carries %d depth frames, want 1", len(frames))
		}
		numbers = append(numbers, frames[0].FrameNumber())
	}

	// Odd warmup ticks are shed while the counter keeps running, so the
	// first delivered numbers are 2 and 4; from there delivery is gapless.
	if numbers[0] != 2 || numbers[1] != 4 {
		t.Fatalf("warmup numbers %v, want to start 2, 4", numbers[:2])
	}
	for i := 2; i < len(numbers); i++ {
		if numbers[i] != numbers[i-1]+1 {
			t.Fatalf("post-warmup gap: %v", numbers)
		}
	}
}

func TestCloseEndsSession(t *testing.T) {
	cam := NewD435i("0001", WithStartupDelay(5*time.Millisecond))

	depth, ok := findProfile(cam, rs2.StreamDepth, 0)
	if !ok {
		t.Fatal("no default depth profile")
	}
	session, err := cam.Open([]rs2.StreamProfile{depth})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := session.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	for {
		_, err = session.Wait(ctx)
		if err != nil {
			break
		}
	}
	if !errors.Is(err, rs2.ErrPipelineStopped) {
		t.Fatalf("wait after close = %v, want ErrPipelineStopped", err)
	}

	cam.mu.Lock()
	open := len(cam.sessions)
	cam.mu.Unlock()
	if open != 0 {
		t.Fatalf("%d sessions still registered after close", open)
	}

	// Close is idempotent.
	if err := session.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestL515OptionTable(t *testing.T) {
	cam := NewL515("F000")

	var depth *Sensor
	for _, s := range cam.sensors {
		if s.ext == rs2.ExtensionL500DepthSensor {
			depth = s
		}
	}
	if depth == nil {
		t.Fatal("L515 has no lidar depth sensor")
	}

	if !depth.IsOptionReadOnly(rs2.OptionDepthUnits) {
		t.Fatal("lidar depth units should be read only")
	}
	if units := depth.depthUnits(); units != 0.00025 {
		t.Fatalf("depth units %v, want 0.00025", units)
	}

	if err := depth.SetOption(rs2.OptionGlobalTimeEnabled, 1); err != nil {
		t.Fatalf("global time write rejected: %v", err)
	}
	v, err := depth.Option(rs2.OptionGlobalTimeEnabled)
	if err != nil {
		t.Fatalf("global time read: %v", err)
	}
	if v != 0 {
		t.Fatalf("ignored option stored %v, want default 0", v)
	}
}

// stepClock hands out channels the test feeds by hand, so framesets arrive
// exactly when the test says so.
type stepClock struct {
	startup chan time.Time
	ticks   chan time.Time
}

func (c *stepClock) After(time.Duration) <-chan time.Time { return c.startup }
func (c *stepClock) NewTicker(time.Duration) Ticker       { return stepTicker{c.ticks} }

type stepTicker struct{ c chan time.Time }

func (t stepTicker) Chan() <-chan time.Time { return t.c }
func (t stepTicker) Stop()                  {}

func TestManualClockDrivesDelivery(t *testing.T) {
	clk := &stepClock{
		startup: make(chan time.Time),
		ticks:   make(chan time.Time),
	}
	cam := NewD435i("0001", WithClock(clk), WithWarmupTicks(0))

	depth, ok := findProfile(cam, rs2.StreamDepth, 0)
	if !ok {
		t.Fatal("no default depth profile")
	}
	session, err := cam.Open([]rs2.StreamProfile{depth})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer session.Close()

	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	clk.startup <- base

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for i := 1; i <= 3; i++ {
		stamp := base.Add(time.Duration(i) * 33 * time.Millisecond)
		clk.ticks <- stamp

		fs, err := session.Wait(ctx)
		if err != nil {
			t.Fatalf("wait %d: %v", i, err)
		}
		frames := fs.DepthFrames()
		if len(frames) != 1 {
			t.Fatalf("frameset %d carries %d depth frames, want 1", i, len(frames))
		}
		if got := frames[0].FrameNumber(); got != uint64(i) {
			t.Fatalf("frame number %d, want %d", got, i)
		}
		if !frames[0].Timestamp().Equal(stamp) {
			t.Fatalf("timestamp %v, want %v", frames[0].Timestamp(), stamp)
		}
	}
}
