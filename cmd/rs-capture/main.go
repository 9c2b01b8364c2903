// rs-capture starts a camera pipeline and either consumes it locally
// (capture log, session index, live preview) or publishes it on the
// network for a remote rs-capture to consume.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/rerun-io/realsense-go/internal/capturedb"
	"github.com/rerun-io/realsense-go/internal/framestats"
	"github.com/rerun-io/realsense-go/internal/preview"
	"github.com/rerun-io/realsense-go/internal/rawlog"
	"github.com/rerun-io/realsense-go/rs2"
	"github.com/rerun-io/realsense-go/rs2/emucam"
	"github.com/rerun-io/realsense-go/rs2/rsnet"
)

type metrics struct {
	framesets    atomic.Uint64
	frames       atomic.Uint64
	waitTimeouts atomic.Uint64
	recordErrors atomic.Uint64
}

func (m *metrics) snapshot() map[string]any {
	return map[string]any{
		"framesets_total":     m.framesets.Load(),
		"frames_total":        m.frames.Load(),
		"wait_timeouts_total": m.waitTimeouts.Load(),
		"record_errs_total":   m.recordErrors.Load(),
	}
}

func main() {
	var (
		endpoint   = flag.String("endpoint", "", "Remote publisher endpoint (e.g. tcp://host:31100); empty runs the emulated camera")
		emulate    = flag.String("emulate", "d435i", "Emulated model when no endpoint is given: d435i or l515")
		serial     = flag.String("serial", "923322071713", "Device serial to capture from")
		usb2       = flag.Bool("usb2", false, "Emulate a USB 2 link")
		width      = flag.Int("width", 0, "Requested stream width (0 = device default)")
		height     = flag.Int("height", 0, "Requested stream height (0 = device default)")
		fps        = flag.Int("fps", 30, "Requested framerate")
		noDepth    = flag.Bool("no-depth", false, "Skip the depth stream")
		noColor    = flag.Bool("no-color", false, "Skip the color stream")
		infrared   = flag.Bool("infrared", false, "Also capture the infrared stream(s)")
		port       = flag.Int("port", 8877, "HTTP port of the preview UI")
		record     = flag.Bool("record", false, "Record framesets to a capture log")
		recordDir  = flag.String("record-dir", "captures", "Directory for capture logs")
		dbPath     = flag.String("db", "captures/index.db", "Session index database (empty disables indexing)")
		publish    = flag.String("publish", "", "Publish framesets on this zmq endpoint instead of capturing locally")
		statusAddr = flag.String("status-addr", ":8878", "HTTP address of the publisher status API")
		duration   = flag.Duration("duration", 0, "Stop after this long (0 = run until interrupted)")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	backend, cleanup, err := buildBackend(ctx, *endpoint, *emulate, *serial, *usb2)
	if err != nil {
		log.Fatalf("backend: %v", err)
	}
	defer cleanup()

	rsCtx, err := rs2.NewContext(backend)
	if err != nil {
		log.Fatalf("context: %v", err)
	}

	cfg := rs2.NewConfig()
	if err := cfg.EnableDeviceFromSerial(*serial); err != nil {
		log.Fatalf("config: %v", err)
	}
	if !*noDepth {
		must(cfg.EnableStream(rs2.StreamDepth, 0, *width, *height, rs2.FormatZ16, *fps))
	}
	if !*noColor {
		must(cfg.EnableStream(rs2.StreamColor, 0, *width, *height, rs2.FormatAny, *fps))
	}
	if *infrared {
		must(cfg.EnableStream(rs2.StreamInfrared, 1, *width, *height, rs2.FormatY8, *fps))
	}

	pipe, err := rs2.NewInactivePipeline(rsCtx)
	if err != nil {
		log.Fatalf("pipeline: %v", err)
	}
	if !pipe.CanResolve(cfg) {
		log.Fatalf("cannot resolve requested streams on device %s", *serial)
	}
	active, err := pipe.Start(cfg)
	if err != nil {
		log.Fatalf("start: %v", err)
	}
	defer active.Stop()

	for _, p := range active.Profile().Streams() {
		log.Printf("streaming %s", p)
	}

	if *publish != "" {
		runPublisher(ctx, *publish, *statusAddr, active)
		return
	}
	runCapture(ctx, active, *port, *record, *recordDir, *dbPath)
}

func buildBackend(ctx context.Context, endpoint, emulate, serial string, usb2 bool) (rs2.Backend, func(), error) {
	if endpoint != "" {
		client, err := rsnet.Dial(ctx, endpoint)
		if err != nil {
			return nil, nil, err
		}
		return client, func() { _ = client.Close() }, nil
	}

	var opts []emucam.Option
	if usb2 {
		opts = append(opts, emucam.WithUSB2())
	}
	var cam *emucam.Camera
	switch emulate {
	case "l515":
		cam = emucam.NewL515(serial, opts...)
	default:
		cam = emucam.NewD435i(serial, opts...)
	}
	return emucam.NewBackend(cam), func() {}, nil
}

func runPublisher(ctx context.Context, endpoint, statusAddr string, active *rs2.ActivePipeline) {
	pub := rsnet.NewPublisher(endpoint, active)
	go func() {
		if err := pub.ServeStatus(ctx, statusAddr); err != nil {
			log.Printf("status api: %v", err)
		}
	}()
	log.Printf("publishing on %s (status at %s)", endpoint, statusAddr)
	if err := pub.Run(ctx); err != nil {
		log.Fatalf("publish: %v", err)
	}
	log.Printf("published %d framesets", pub.FramesetsPublished())
}

func runCapture(ctx context.Context, active *rs2.ActivePipeline, port int, record bool, recordDir, dbPath string) {
	var m metrics
	serial, _ := active.Profile().Device().Info(rs2.InfoSerialNumber)
	productLine, _ := active.Profile().Device().Info(rs2.InfoProductLine)

	var writer *rawlog.Writer
	var db *capturedb.DB
	var sessionID string
	started := time.Now()

	if record {
		var err error
		writer, err = rawlog.Create(recordDir, serial)
		if err != nil {
			log.Fatalf("capture log: %v", err)
		}
		defer writer.Close()
		log.Printf("recording to %s", writer.Path())

		if dbPath != "" {
			db, err = capturedb.Open(dbPath)
			if err != nil {
				log.Fatalf("session index: %v", err)
			}
			defer db.Close()
			sessionID, err = db.InsertSession(serial, productLine, writer.Path(), started, active.Profile().Streams())
			if err != nil {
				log.Fatalf("session index: %v", err)
			}
			log.Printf("session %s", sessionID)
		}
	}

	updates := make(chan preview.Update, 16)
	go func() {
		err := preview.Run(ctx, port, active.Profile(), updates, m.snapshot)
		if err != nil {
			log.Printf("preview: %v", err)
		}
	}()
	log.Printf("preview at http://localhost:%d", port)

	collector := framestats.NewCollector()
	for ctx.Err() == nil {
		fs, err := active.WaitContext(ctx)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			if err == rs2.ErrTimeout {
				m.waitTimeouts.Add(1)
				continue
			}
			log.Printf("wait: %v", err)
			break
		}
		m.framesets.Add(1)
		m.frames.Add(uint64(fs.Count()))
		collector.Add(time.Now())

		if writer != nil {
			payload, err := rsnet.MarshalFrameset(fs)
			if err == nil {
				err = writer.Record(payload)
			}
			if err != nil {
				m.recordErrors.Add(1)
			}
		}

		select {
		case updates <- preview.Summarise(fs):
		default:
		}
	}

	if db != nil && sessionID != "" {
		err := db.CloseSession(sessionID, time.Now(),
			int64(m.framesets.Load()), int64(m.frames.Load()))
		if err != nil {
			log.Printf("session index: %v", err)
		}
	}
	if stats, err := collector.Summarise(); err == nil {
		log.Printf("%s", stats)
	}
}

func must(err error) {
	if err != nil {
		log.Fatalf("config: %v", err)
	}
}
