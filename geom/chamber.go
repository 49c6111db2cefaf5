package geom

import (
	"fmt"
	"math"
)

// NumSegments is the number of walls bounding a Chamber.
const NumSegments = 8

// Segment indices. The aperture is the gap on the line x = MainWidth between
// LowerPartial and UpperPartial.
const (
	MainLeft = iota
	MainBottom
	MainTop
	LowerPartial
	UpperPartial
	MinorBottom
	MinorTop
	MinorRight
)

var segmentNames = [NumSegments]string{
	"MainLeft", "MainBottom", "MainTop", "LowerPartial",
	"UpperPartial", "MinorBottom", "MinorTop", "MinorRight",
}

// SegmentName returns a human readable name for the segment index k.
func SegmentName(k int) string {
	if k < 0 || k >= NumSegments {
		return fmt.Sprintf("Segment(%d)", k)
	}
	return segmentNames[k]
}

// Chamber is the union of the main rectangle [0, MainWidth] x [0, MainHeight]
// and the minor rectangle [MainWidth, MainWidth + MinorWidth] x
// [Offset, Offset + MinorHeight]. The two share the aperture
// (Offset, Offset + MinorHeight) on the line x = MainWidth.
type Chamber struct {
	MainWidth, MainHeight   float64
	MinorWidth, MinorHeight float64
	Offset                  float64

	Segments [NumSegments]Segment
}

// CenteredOffset returns the offset which places the minor rectangle
// halfway up the main rectangle.
func CenteredOffset(mainHeight, minorHeight float64) float64 {
	return (mainHeight - minorHeight) / 2
}

// NewChamber creates a chamber. A negative offset centers the minor
// rectangle against the main one.
func NewChamber(
	mainWidth, mainHeight, minorWidth, minorHeight, offset float64,
) (*Chamber, error) {
	if offset < 0 {
		offset = CenteredOffset(mainHeight, minorHeight)
	}

	c := &Chamber{
		MainWidth: mainWidth, MainHeight: mainHeight,
		MinorWidth: minorWidth, MinorHeight: minorHeight,
		Offset: offset,
	}
	if err := c.check(); err != nil {
		return nil, err
	}

	W, H := mainWidth, mainHeight
	lo, hi := offset, offset+minorHeight
	right := W + minorWidth

	c.Segments = [NumSegments]Segment{
		MainLeft:     {Axis: X, Coord: 0, Start: 0, End: H, Normal: +1},
		MainBottom:   {Axis: Y, Coord: 0, Start: 0, End: W, Normal: +1},
		MainTop:      {Axis: Y, Coord: H, Start: 0, End: W, Normal: -1},
		LowerPartial: {Axis: X, Coord: W, Start: 0, End: lo, Normal: -1},
		UpperPartial: {Axis: X, Coord: W, Start: hi, End: H, Normal: -1},
		MinorBottom:  {Axis: Y, Coord: lo, Start: W, End: right, Normal: +1},
		MinorTop:     {Axis: Y, Coord: hi, Start: W, End: right, Normal: -1},
		MinorRight:   {Axis: X, Coord: right, Start: lo, End: hi, Normal: -1},
	}

	return c, nil
}

func (c *Chamber) check() error {
	switch {
	case !(c.MainWidth > 0) || !(c.MainHeight > 0):
		return fmt.Errorf(
			"Main chamber must have positive dimensions, but is %g x %g.",
			c.MainWidth, c.MainHeight,
		)
	case !(c.MinorWidth > 0):
		return fmt.Errorf(
			"Minor chamber must have a positive width, but is %g.",
			c.MinorWidth,
		)
	case !(c.MinorHeight > 0):
		return fmt.Errorf(
			"Aperture width must be positive, but is %g.", c.MinorHeight,
		)
	case c.Offset+c.MinorHeight > c.MainHeight*(1+1e-12):
		return fmt.Errorf(
			"Minor chamber [%g, %g] does not fit against a main chamber "+
				"of height %g.", c.Offset, c.Offset+c.MinorHeight, c.MainHeight,
		)
	}
	return nil
}

// CheckRadius returns an error if discs of radius r cannot move freely in
// both chambers.
func (c *Chamber) CheckRadius(r float64) error {
	if !(r > 0) {
		return fmt.Errorf("Particle radius must be positive, but is %g.", r)
	}
	dims := []struct {
		name string
		val  float64
	}{
		{"MainWidth", c.MainWidth}, {"MainHeight", c.MainHeight},
		{"MinorWidth", c.MinorWidth}, {"MinorHeight", c.MinorHeight},
	}
	for _, d := range dims {
		if r >= d.val/2 {
			return fmt.Errorf(
				"Particle radius %g is at least half of %s = %g.",
				r, d.name, d.val,
			)
		}
	}
	return nil
}

// Aperture returns the interval of the line x = MainWidth which connects the
// chambers.
func (c *Chamber) Aperture() (lo, hi float64) {
	return c.Offset, c.Offset + c.MinorHeight
}

// InMinor returns true if the point p lies in the minor chamber.
func (c *Chamber) InMinor(p Vec) bool { return p[0] > c.MainWidth }

// Inside returns true if the point p lies in the closed union of the two
// rectangles.
func (c *Chamber) Inside(p Vec) bool {
	lo, hi := c.Aperture()
	inMain := p[0] >= 0 && p[0] <= c.MainWidth &&
		p[1] >= 0 && p[1] <= c.MainHeight
	inMinor := p[0] >= c.MainWidth && p[0] <= c.MainWidth+c.MinorWidth &&
		p[1] >= lo && p[1] <= hi
	return inMain || inMinor
}

// Clearance returns the distance from p to the nearest wall, as measured by
// Segment.Distance, and the index of that wall.
func (c *Chamber) Clearance(p Vec) (float64, int) {
	best, idx := math.Inf(+1), -1
	for k := range c.Segments {
		if d := c.Segments[k].Distance(p); d < best {
			best, idx = d, k
		}
	}
	return best, idx
}

// Contains returns true if a disc of radius r centered at p fits inside the
// chamber, allowing a relative tolerance of Slack.
func (c *Chamber) Contains(p Vec, r float64) bool {
	if !c.Inside(p) {
		return false
	}
	d, _ := c.Clearance(p)
	return d >= r*(1-Slack)
}
