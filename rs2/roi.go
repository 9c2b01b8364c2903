package rs2

import "fmt"

// ROI is the rectangular auto-exposure metering region of a sensor, in
// pixel coordinates of the sensor's active video mode. Both corners are
// inclusive.
type ROI struct {
	MinX int
	MinY int
	MaxX int
	MaxY int
}

// Validate checks the rectangle against an image of the given size.
func (r ROI) Validate(width, height int) error {
	if r.MinX < 0 || r.MinY < 0 {
		return fmt.Errorf("%w: negative corner (%d,%d)", ErrInvalidRoi, r.MinX, r.MinY)
	}
	if r.MinX > r.MaxX || r.MinY > r.MaxY {
		return fmt.Errorf("%w: min corner (%d,%d) beyond max corner (%d,%d)",
			ErrInvalidRoi, r.MinX, r.MinY, r.MaxX, r.MaxY)
	}
	if r.MaxX >= width || r.MaxY >= height {
		return fmt.Errorf("%w: max corner (%d,%d) outside %dx%d image",
			ErrInvalidRoi, r.MaxX, r.MaxY, width, height)
	}
	return nil
}

// FullROI returns the rectangle covering a whole image.
func FullROI(width, height int) ROI {
	return ROI{MinX: 0, MinY: 0, MaxX: width - 1, MaxY: height - 1}
}
