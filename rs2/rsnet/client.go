package rsnet

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/pebbe/zmq4"

	"github.com/rerun-io/realsense-go/rs2"
)

// ErrRemoteControl is returned for sensor writes on a client device: the
// frameset feed is one-way, so remote options and ROI are a read-only
// snapshot taken at publish time.
var ErrRemoteControl = errors.New("rsnet: sensor controls are read-only over the stream transport")

// Client subscribes to a Publisher and presents the remote camera as an
// rs2.Backend.
type Client struct {
	endpoint string
	hello    *HelloMessage

	framesets chan *rs2.Frameset
	cancel    context.CancelFunc
	done      chan struct{}
}

// Dial connects to a publisher endpoint such as "tcp://cam-host:31100" and
// blocks until the hello message arrives or the context is done.
func Dial(ctx context.Context, endpoint string) (*Client, error) {
	socket, err := zmq4.NewSocket(zmq4.PULL)
	if err != nil {
		return nil, fmt.Errorf("rsnet: create socket: %w", err)
	}
	if err := socket.Connect(endpoint); err != nil {
		_ = socket.Close()
		return nil, fmt.Errorf("rsnet: connect %s: %w", endpoint, err)
	}
	if err := socket.SetRcvtimeo(500 * time.Millisecond); err != nil {
		_ = socket.Close()
		return nil, err
	}

	var hello *HelloMessage
	for hello == nil {
		if err := ctx.Err(); err != nil {
			_ = socket.Close()
			return nil, err
		}
		payload, err := socket.RecvBytes(0)
		if err != nil {
			continue
		}
		if messageType(payload) != msgHello {
			continue
		}
		hello, err = unmarshalHello(payload)
		if err != nil {
			_ = socket.Close()
			return nil, err
		}
	}

	runCtx, cancel := context.WithCancel(context.Background())
	c := &Client{
		endpoint:  endpoint,
		hello:     hello,
		framesets: make(chan *rs2.Frameset, 128),
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	go c.recv(runCtx, socket)
	return c, nil
}

func (c *Client) recv(ctx context.Context, socket *zmq4.Socket) {
	defer close(c.done)
	defer close(c.framesets)
	defer socket.Close()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		payload, err := socket.RecvBytes(0)
		if err != nil {
			continue
		}
		switch messageType(payload) {
		case msgFrameset:
			fs, err := UnmarshalFrameset(payload)
			if err != nil {
				log.Printf("rsnet: dropping frameset: %v", err)
				continue
			}
			select {
			case c.framesets <- fs:
			default:
				// Consumer behind; the feed keeps up instead.
			}
		case msgBye:
			return
		case msgHello:
			// Publisher restarted; keep the original snapshot.
		}
	}
}

// Close tears the subscription down.
func (c *Client) Close() error {
	c.cancel()
	<-c.done
	return nil
}

// Devices implements rs2.Backend. A client always exposes exactly the one
// published device.
func (c *Client) Devices() ([]rs2.DeviceBackend, error) {
	return []rs2.DeviceBackend{&remoteDevice{client: c}}, nil
}

type remoteDevice struct {
	client *Client
}

func (d *remoteDevice) Info(info rs2.CameraInfo) (string, bool) {
	v, ok := d.client.hello.Infos[int(info)]
	return v, ok
}

func (d *remoteDevice) Sensors() []rs2.SensorBackend {
	sensors := make([]rs2.SensorBackend, 0, len(d.client.hello.Sensors))
	for i := range d.client.hello.Sensors {
		sensors = append(sensors, &remoteSensor{info: &d.client.hello.Sensors[i]})
	}
	return sensors
}

func (d *remoteDevice) Open(streams []rs2.StreamProfile) (rs2.StreamSession, error) {
	wanted := make(map[int]bool, len(streams))
	for _, p := range streams {
		wanted[p.UID] = true
	}
	return &remoteSession{client: d.client, wanted: wanted}, nil
}

func (d *remoteDevice) Reset() error {
	return fmt.Errorf("rsnet: hardware reset not available remotely")
}

type remoteSession struct {
	client *Client
	wanted map[int]bool
	closed bool
}

func (s *remoteSession) Wait(ctx context.Context) (*rs2.Frameset, error) {
	if s.closed {
		return nil, rs2.ErrPipelineStopped
	}
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case fs, ok := <-s.client.framesets:
			if !ok {
				return nil, rs2.ErrPipelineStopped
			}
			if filtered := s.filter(fs); filtered != nil {
				return filtered, nil
			}
		}
	}
}

// filter keeps only the frames belonging to the opened streams.
func (s *remoteSession) filter(fs *rs2.Frameset) *rs2.Frameset {
	var frames []rs2.Frame
	for _, f := range fs.Frames() {
		if s.wanted[f.Profile().UID] {
			frames = append(frames, f)
		}
	}
	if len(frames) == 0 {
		return nil
	}
	return rs2.NewFrameset(frames...)
}

func (s *remoteSession) Close() error {
	s.closed = true
	return nil
}

type remoteSensor struct {
	info *SensorInfo
}

func (s *remoteSensor) Name() string             { return s.info.Name }
func (s *remoteSensor) Extension() rs2.Extension { return rs2.Extension(s.info.Extension) }

func (s *remoteSensor) Profiles() []rs2.StreamProfile {
	out := make([]rs2.StreamProfile, 0, len(s.info.Profiles))
	for _, p := range s.info.Profiles {
		out = append(out, p.profile())
	}
	return out
}

func (s *remoteSensor) option(opt rs2.Option) (OptionInfo, bool) {
	for _, o := range s.info.Options {
		if o.Option == int(opt) {
			return o, true
		}
	}
	return OptionInfo{}, false
}

func (s *remoteSensor) SupportsOption(opt rs2.Option) bool {
	_, ok := s.option(opt)
	return ok
}

func (s *remoteSensor) IsOptionReadOnly(rs2.Option) bool {
	// Everything is read-only on this side of the wire.
	return true
}

func (s *remoteSensor) Option(opt rs2.Option) (float32, error) {
	o, ok := s.option(opt)
	if !ok {
		return 0, fmt.Errorf("%w: %s on %s", rs2.ErrOptionUnsupported, opt, s.info.Name)
	}
	return o.Value, nil
}

func (s *remoteSensor) SetOption(opt rs2.Option, _ float32) error {
	if _, ok := s.option(opt); !ok {
		return fmt.Errorf("%w: %s on %s", rs2.ErrOptionUnsupported, opt, s.info.Name)
	}
	return ErrRemoteControl
}

func (s *remoteSensor) OptionRange(opt rs2.Option) (rs2.OptionRange, error) {
	o, ok := s.option(opt)
	if !ok {
		return rs2.OptionRange{}, fmt.Errorf("%w: %s on %s", rs2.ErrOptionUnsupported, opt, s.info.Name)
	}
	return rs2.OptionRange{Min: o.Min, Max: o.Max, Step: o.Step, Default: o.Default}, nil
}

func (s *remoteSensor) RegionOfInterest() (rs2.ROI, bool, error) {
	if !s.info.RoiValid {
		return rs2.ROI{}, false, nil
	}
	r := s.info.Roi
	return rs2.ROI{MinX: r.MinX, MinY: r.MinY, MaxX: r.MaxX, MaxY: r.MaxY}, true, nil
}

func (s *remoteSensor) SetRegionOfInterest(rs2.ROI) error {
	return ErrRemoteControl
}
