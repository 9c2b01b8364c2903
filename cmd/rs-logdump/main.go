// rs-logdump summarises a capture log written by rs-capture.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/rerun-io/realsense-go/internal/rawlog"
	"github.com/rerun-io/realsense-go/rs2/rsnet"
)

func main() {
	var (
		path    = flag.String("path", "", "Path to a .rscap capture log")
		limit   = flag.Int("limit", 5, "Number of framesets to print in full (0 = summary only)")
		csvOut  = flag.Bool("csv", false, "Print per-frameset rows as CSV")
		csvDest = flag.String("csv-out", "", "Write CSV to this file instead of stdout")
	)
	flag.Parse()

	if *path == "" {
		log.Fatal("path is required")
	}

	out := os.Stdout
	if *csvOut && *csvDest != "" {
		f, err := os.Create(*csvDest)
		if err != nil {
			log.Fatalf("create %s: %v", *csvDest, err)
		}
		defer f.Close()
		out = f
	}
	if *csvOut {
		fmt.Fprintln(out, "frameset,recorded_ns,stream,frame_number,bytes")
	}

	frames := 0
	sum, err := rawlog.Dump(*path, func(index int, rec rawlog.Record) error {
		fs, err := rsnet.UnmarshalFrameset(rec.Payload)
		if err != nil {
			log.Printf("frameset %d: %v", index, err)
			return nil
		}
		frames += fs.Count()

		if *csvOut {
			for _, f := range fs.Frames() {
				fmt.Fprintf(out, "%d,%d,%s,%d,%d\n",
					index, rec.Time.UnixNano(), f.Profile(), f.FrameNumber(), len(f.Data()))
			}
			return nil
		}
		if *limit == 0 || index < *limit {
			fmt.Printf("frameset %d at %s (%d frames)\n", index, rec.Time.Format("15:04:05.000"), fs.Count())
			for _, f := range fs.Frames() {
				fmt.Printf("  %s  #%d  %d bytes\n", f.Profile(), f.FrameNumber(), len(f.Data()))
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("read capture log: %v", err)
	}

	fmt.Printf("%s: %d framesets, %d frames, %d payload bytes\n",
		*path, sum.Records, frames, sum.Bytes)
}
