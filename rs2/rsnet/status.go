package rsnet

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rerun-io/realsense-go/rs2"
)

// Status is the publisher state as reported by its HTTP endpoint.
type Status struct {
	Serial        string  `json:"serial"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Framesets     uint64  `json:"framesets_published"`
}

// StatusHandler returns an http.Handler serving the publisher's liveness
// and counters under /healthz and /status.
func (p *Publisher) StatusHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/status", func(w http.ResponseWriter, _ *http.Request) {
		serial, _ := p.pipeline.Profile().Device().Info(rs2.InfoSerialNumber)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Status{
			Serial:        serial,
			UptimeSeconds: time.Since(p.started).Seconds(),
			Framesets:     p.framesets.Load(),
		})
	})
	return mux
}

// ServeStatus runs the status API on addr until the context is done.
func (p *Publisher) ServeStatus(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           p.StatusHandler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()
	err := server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// PollStatus fetches the publisher status at the given interval and hands
// each result to update. It returns when the context is done.
func PollStatus(ctx context.Context, baseURL string, interval time.Duration, update func(Status, error)) {
	if baseURL == "" || update == nil {
		return
	}
	baseURL = strings.TrimRight(baseURL, "/")
	client := &http.Client{
		Timeout: 900 * time.Millisecond,
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		update(fetchStatus(ctx, client, baseURL+"/status"))

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func fetchStatus(ctx context.Context, client *http.Client, endpoint string) (Status, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Status{}, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return Status{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Status{}, &StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Status{}, err
	}
	var status Status
	if err := json.Unmarshal(body, &status); err != nil {
		return Status{}, err
	}
	return status, nil
}

// StatusError reports a non-OK HTTP response from the status endpoint.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return "rsnet: status endpoint returned " + http.StatusText(e.Code)
}
