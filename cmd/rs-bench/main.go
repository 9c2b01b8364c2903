// rs-bench measures delivery pacing of a pipeline: it runs for a fixed
// time and reports effective framerate and interval jitter.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rerun-io/realsense-go/internal/framestats"
	"github.com/rerun-io/realsense-go/rs2"
	"github.com/rerun-io/realsense-go/rs2/emucam"
	"github.com/rerun-io/realsense-go/rs2/rsnet"
)

func main() {
	var (
		endpoint = flag.String("endpoint", "", "Remote publisher endpoint; empty benches the emulated camera")
		emulate  = flag.String("emulate", "d435i", "Emulated model: d435i or l515")
		serial   = flag.String("serial", "923322071713", "Device serial")
		fps      = flag.Int("fps", 30, "Requested framerate")
		seconds  = flag.Int("seconds", 5, "Measurement duration")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var backend rs2.Backend
	if *endpoint != "" {
		client, err := rsnet.Dial(ctx, *endpoint)
		if err != nil {
			log.Fatalf("dial: %v", err)
		}
		defer client.Close()
		backend = client
	} else {
		switch *emulate {
		case "l515":
			backend = emucam.NewBackend(emucam.NewL515(*serial))
		default:
			backend = emucam.NewBackend(emucam.NewD435i(*serial))
		}
	}

	rsCtx, err := rs2.NewContext(backend)
	if err != nil {
		log.Fatalf("context: %v", err)
	}

	cfg := rs2.NewConfig()
	if err := cfg.EnableStream(rs2.StreamDepth, 0, 0, 0, rs2.FormatZ16, *fps); err != nil {
		log.Fatalf("config: %v", err)
	}

	pipe, err := rs2.NewInactivePipeline(rsCtx)
	if err != nil {
		log.Fatalf("pipeline: %v", err)
	}
	active, err := pipe.Start(cfg)
	if err != nil {
		log.Fatalf("start: %v", err)
	}
	defer active.Stop()

	collector := framestats.NewCollector()
	deadline := time.Now().Add(time.Duration(*seconds) * time.Second)
	for time.Now().Before(deadline) && ctx.Err() == nil {
		if _, err := active.Wait(0); err != nil {
			if ctx.Err() != nil {
				break
			}
			log.Fatalf("wait: %v", err)
		}
		collector.Add(time.Now())
	}

	stats, err := collector.Summarise()
	if err != nil {
		log.Fatalf("no framesets received: %v", err)
	}
	fmt.Println(stats)
}
