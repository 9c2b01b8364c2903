package rs2

import (
	"errors"
	"testing"
)

func TestROIValidate(t *testing.T) {
	valid := []ROI{
		{0, 0, 639, 479},
		{80, 60, 559, 419},
		{100, 100, 100, 100},
	}
	for _, roi := range valid {
		if err := roi.Validate(640, 480); err != nil {
			t.Fatalf("Validate(%+v) = %v, want nil", roi, err)
		}
	}

	invalid := []ROI{
		{-1, 0, 100, 100},
		{0, -1, 100, 100},
		{0, 0, 640, 479},
		{0, 0, 639, 480},
		{200, 0, 100, 100},
		{0, 200, 100, 100},
	}
	for _, roi := range invalid {
		err := roi.Validate(640, 480)
		if !errors.Is(err, ErrInvalidRoi) {
			t.Fatalf("Validate(%+v) = %v, want ErrInvalidRoi", roi, err)
		}
	}
}

func TestFullROI(t *testing.T) {
	roi := FullROI(640, 480)
	if err := roi.Validate(640, 480); err != nil {
		t.Fatalf("full region invalid: %v", err)
	}
	if roi.MaxX != 639 || roi.MaxY != 479 {
		t.Fatalf("FullROI(640, 480) = %+v", roi)
	}
}

func TestOptionRangeContains(t *testing.T) {
	rng := OptionRange{Min: 0, Max: 360, Step: 30, Default: 150}
	for _, v := range []float32{0, 30, 150, 360} {
		if !rng.Contains(v) {
			t.Fatalf("Contains(%v) = false, want true", v)
		}
	}
	for _, v := range []float32{-30, 390} {
		if rng.Contains(v) {
			t.Fatalf("Contains(%v) = true, want false", v)
		}
	}
}
