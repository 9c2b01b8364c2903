package rsnet

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/pebbe/zmq4"

	"github.com/rerun-io/realsense-go/rs2"
)

// Publisher pushes the framesets of a running pipeline on a ZeroMQ PUSH
// socket. A hello message announcing the device goes out first so late
// subscribers can rebuild the device model.
type Publisher struct {
	endpoint string
	pipeline *rs2.ActivePipeline

	framesets atomic.Uint64
	started   time.Time
}

// NewPublisher wraps a started pipeline for publishing on a zmq endpoint
// such as "tcp://*:31100".
func NewPublisher(endpoint string, pipeline *rs2.ActivePipeline) *Publisher {
	return &Publisher{endpoint: endpoint, pipeline: pipeline, started: time.Now()}
}

// Run binds the socket and publishes until the context is done or the
// pipeline stops. It sends a bye message on the way out.
func (p *Publisher) Run(ctx context.Context) error {
	socket, err := zmq4.NewSocket(zmq4.PUSH)
	if err != nil {
		return fmt.Errorf("rsnet: create socket: %w", err)
	}
	defer socket.Close()
	if err := socket.Bind(p.endpoint); err != nil {
		return fmt.Errorf("rsnet: bind %s: %w", p.endpoint, err)
	}

	hello, err := marshalHello(p.pipeline.Profile().Device())
	if err != nil {
		return err
	}
	if _, err := socket.SendBytes(hello, 0); err != nil {
		return fmt.Errorf("rsnet: send hello: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			bye, _ := cbor.Marshal(envelope{Type: msgBye})
			_, _ = socket.SendBytes(bye, zmq4.DONTWAIT)
			return nil
		default:
		}

		fs, err := p.pipeline.WaitContext(ctx)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			if err == rs2.ErrPipelineStopped {
				bye, _ := cbor.Marshal(envelope{Type: msgBye})
				_, _ = socket.SendBytes(bye, zmq4.DONTWAIT)
				return nil
			}
			log.Printf("rsnet: wait failed: %v", err)
			continue
		}

		payload, err := MarshalFrameset(fs)
		if err != nil {
			log.Printf("rsnet: encode frameset: %v", err)
			continue
		}
		if _, err := socket.SendBytes(payload, 0); err != nil {
			return fmt.Errorf("rsnet: send frameset: %w", err)
		}
		p.framesets.Add(1)
	}
}

// FramesetsPublished returns the number of framesets sent so far.
func (p *Publisher) FramesetsPublished() uint64 {
	return p.framesets.Load()
}
