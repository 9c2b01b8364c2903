package rs2

import "testing"

func TestEnableStreamValidation(t *testing.T) {
	cfg := NewConfig()

	if err := cfg.EnableStream(StreamAny, 0, 0, 0, FormatAny, 0); err == nil {
		t.Fatal("EnableStream accepted the any kind")
	}
	if err := cfg.EnableStream(StreamDepth, -1, 0, 0, FormatZ16, 30); err == nil {
		t.Fatal("EnableStream accepted a negative index")
	}
	if err := cfg.EnableStream(StreamDepth, 0, 640, 0, FormatZ16, 30); err == nil {
		t.Fatal("EnableStream accepted width without height")
	}
	if err := cfg.EnableStream(StreamDepth, 0, 0, 480, FormatZ16, 30); err == nil {
		t.Fatal("EnableStream accepted height without width")
	}
	if err := cfg.EnableStream(StreamDepth, 0, 0, 0, FormatAny, 0); err != nil {
		t.Fatalf("open-ended request rejected: %v", err)
	}
	if len(cfg.requests) != 1 {
		t.Fatalf("%d requests recorded, want 1", len(cfg.requests))
	}
}

func TestDisableStreams(t *testing.T) {
	cfg := NewConfig()
	for _, index := range []int{1, 2} {
		if err := cfg.EnableStream(StreamInfrared, index, 0, 0, FormatY8, 30); err != nil {
			t.Fatalf("enable infrared %d: %v", index, err)
		}
	}
	if err := cfg.EnableStream(StreamDepth, 0, 0, 0, FormatZ16, 30); err != nil {
		t.Fatalf("enable depth: %v", err)
	}

	if err := cfg.DisableStream(StreamInfrared, 2); err != nil {
		t.Fatalf("disable infrared 2: %v", err)
	}
	if len(cfg.requests) != 2 {
		t.Fatalf("%d requests after disabling one imager, want 2", len(cfg.requests))
	}

	if err := cfg.DisableStream(StreamInfrared, 0); err != nil {
		t.Fatalf("disable infrared: %v", err)
	}
	if len(cfg.requests) != 1 || cfg.requests[0].kind != StreamDepth {
		t.Fatalf("requests after disabling infrared: %+v", cfg.requests)
	}

	if err := cfg.DisableAllStreams(); err != nil {
		t.Fatalf("disable all: %v", err)
	}
	if len(cfg.requests) != 0 {
		t.Fatalf("%d requests after DisableAllStreams", len(cfg.requests))
	}
}

func TestEnableDeviceFromSerialRejectsEmpty(t *testing.T) {
	cfg := NewConfig()
	if err := cfg.EnableDeviceFromSerial(""); err == nil {
		t.Fatal("EnableDeviceFromSerial accepted an empty serial")
	}
}
