/*package geom contains the boundary model of the two-chamber box: the fixed
set of axis-aligned wall segments and the time it takes a moving disc to
reach each of them.
*/
package geom

import (
	"math"
)

// Vec is a two dimensional vector. (Duh!)
type Vec [2]float64

func (v Vec) Add(u Vec) Vec       { return Vec{v[0] + u[0], v[1] + u[1]} }
func (v Vec) Sub(u Vec) Vec       { return Vec{v[0] - u[0], v[1] - u[1]} }
func (v Vec) Scale(a float64) Vec { return Vec{a * v[0], a * v[1]} }
func (v Vec) Dot(u Vec) float64   { return v[0]*u[0] + v[1]*u[1] }
func (v Vec) Norm2() float64      { return v.Dot(v) }
func (v Vec) Norm() float64       { return math.Sqrt(v.Norm2()) }

// Axis identifies one of the two coordinate axes.
type Axis int

const (
	X Axis = iota
	Y
)

func (a Axis) String() string {
	switch a {
	case X:
		return "X"
	case Y:
		return "Y"
	}
	return "Axis(?)"
}

// Other returns the axis that runs along a wall whose normal is a.
func (a Axis) Other() Axis { return 1 - a }

var (
	// Never is the time returned for events which will not happen.
	Never = math.Inf(+1)

	// Slack is the penetration depth, in units of the particle radius, that
	// is still accepted as contact. Rounding after a free flight can leave a
	// disc a few ulps inside a wall; such a disc still collides immediately
	// instead of tunneling through.
	Slack = 1e-9
)

// Segment is an immutable axis-aligned wall. The wall lies on the line
// {p : p[Axis] = Coord} between Start and End along the other axis. Normal is
// +1 or -1 and points from the wall into the gas.
type Segment struct {
	Axis       Axis
	Coord      float64
	Start, End float64
	Normal     float64
}

// Time returns the time until a disc of radius r centered at p and moving with
// velocity v touches the segment, or Never.
//
// The disc must be moving against Normal. Contact happens when the leading
// edge of the disc reaches Coord; at that moment the center's tangential
// coordinate must lie within [Start - r, End + r]. The padding treats the
// ends of a wall stub as squared off, so a disc passing the edge of an
// aperture never clips the stub's end point. The interval is widened by
// Slack so a disc aimed exactly at a corner cannot slip between two walls.
func (s *Segment) Time(p, v Vec, r float64) float64 {
	a, t := s.Axis, s.Axis.Other()

	approach := -v[a] * s.Normal
	if approach <= 0 {
		return Never
	}

	gap := (p[a]-s.Coord)*s.Normal - r
	if gap < 0 {
		if gap < -Slack*r {
			return Never
		}
		gap = 0
	}
	dt := gap / approach

	tan, pad := p[t]+v[t]*dt, r*(1+Slack)
	if tan < s.Start-pad || tan > s.End+pad {
		return Never
	}
	return dt
}

// Distance returns the distance between the point p and the segment in the
// maximum norm. A disc of radius r overlaps the region Time guards against
// exactly when Distance is less than r, so stub ends count as square corners.
func (s *Segment) Distance(p Vec) float64 {
	a, t := s.Axis, s.Axis.Other()
	dn := math.Abs(p[a] - s.Coord)
	dt := 0.0
	if p[t] < s.Start {
		dt = s.Start - p[t]
	} else if p[t] > s.End {
		dt = p[t] - s.End
	}
	return math.Max(dn, dt)
}

// Reflect returns v after a perfectly elastic bounce off the segment.
func (s *Segment) Reflect(v Vec) Vec {
	v[s.Axis] = -v[s.Axis]
	return v
}

// Length returns the extent of the segment along its axis.
func (s *Segment) Length() float64 { return s.End - s.Start }
