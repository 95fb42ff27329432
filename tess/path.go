// Package tess converts a frame's sorted shape commands into
// triangle meshes with feathered (vertex-alpha) antialiasing, grouped
// into draw calls by clip rect and texture.
package tess

import (
	"github.com/chewxy/math32"
	"github.com/hubastard/canopy/gmath"
)

// path is a reusable point buffer for one outline, with the outward
// normal per point. Owned by the tessellator, cleared per shape.
type path struct {
	points  []gmath.Vec2
	normals []gmath.Vec2
}

func (p *path) clear() {
	p.points = p.points[:0]
	p.normals = p.normals[:0]
}

func (p *path) add(pt gmath.Vec2) {
	p.points = append(p.points, pt)
}

// addRect appends the four corners clockwise (Y down).
func (p *path) addRect(r gmath.Rect) {
	p.add(r.LeftTop())
	p.add(r.RightTop())
	p.add(r.RightBottom())
	p.add(r.LeftBottom())
}

// addRoundedRect approximates each corner with a quarter arc. The
// radius is clamped to half the shorter side so opposite corners
// never cross.
func (p *path) addRoundedRect(r gmath.Rect, radius float32) {
	cr := gmath.Clamp(radius, 0, math32.Min(r.Width(), r.Height())*0.5)
	if cr <= 0 {
		p.addRect(r)
		return
	}
	p.addArc(gmath.V2(r.Min.X+cr, r.Min.Y+cr), cr, math32.Pi, math32.Pi*1.5)
	p.addArc(gmath.V2(r.Max.X-cr, r.Min.Y+cr), cr, math32.Pi*1.5, math32.Pi*2)
	p.addArc(gmath.V2(r.Max.X-cr, r.Max.Y-cr), cr, 0, math32.Pi*0.5)
	p.addArc(gmath.V2(r.Min.X+cr, r.Max.Y-cr), cr, math32.Pi*0.5, math32.Pi)
}

// addArc appends points along a circular arc from a0 to a1 radians,
// both endpoints included. Angle 0 points +X, angles grow toward +Y.
func (p *path) addArc(center gmath.Vec2, radius, a0, a1 float32) {
	n := arcSegments(radius, (a1-a0)/(2*math32.Pi))
	for i := 0; i <= n; i++ {
		a := a0 + (a1-a0)*float32(i)/float32(n)
		p.add(center.Add(gmath.V2(math32.Cos(a)*radius, math32.Sin(a)*radius)))
	}
}

// addCircle appends a full circle outline, last point not repeating
// the first.
func (p *path) addCircle(center gmath.Vec2, radius float32) {
	n := arcSegments(radius, 1)
	for i := 0; i < n; i++ {
		a := 2 * math32.Pi * float32(i) / float32(n)
		p.add(center.Add(gmath.V2(math32.Cos(a)*radius, math32.Sin(a)*radius)))
	}
}

// arcSegments picks a segment count so the chord error stays small at
// any radius without over-tessellating big circles.
func arcSegments(radius, fraction float32) int {
	n := int(math32.Ceil(fraction * gmath.Clamp(radius*1.5, 8, 64)))
	if n < 2 {
		n = 2
	}
	return n
}

// computeNormals fills p.normals with the outward normal of each
// point: the average of the adjacent edge normals. closed joins the
// last point back to the first; for an open path the end points use
// their single edge's normal.
func (p *path) computeNormals(closed bool) {
	n := len(p.points)
	p.normals = p.normals[:0]
	if n < 2 {
		p.normals = append(p.normals, gmath.V2(0, -1))
		return
	}
	edgeNormal := func(i int) gmath.Vec2 {
		a := p.points[i]
		b := p.points[(i+1)%n]
		return b.Sub(a).Normalized().Rot90()
	}
	for i := 0; i < n; i++ {
		havePrev := closed || i > 0
		haveNext := closed || i < n-1
		var nm gmath.Vec2
		switch {
		case havePrev && haveNext:
			nm = edgeNormal((i - 1 + n) % n).Add(edgeNormal(i)).Normalized()
		case haveNext:
			nm = edgeNormal(i)
		default:
			nm = edgeNormal(i - 1)
		}
		if nm == (gmath.Vec2{}) {
			// Degenerate join (edge doubling back); any unit vector
			// keeps the feather ring finite.
			nm = gmath.V2(0, -1)
		}
		p.normals = append(p.normals, nm)
	}
}

// isConvex reports whether the closed polygon turns the same way at
// every vertex. Convex outlines fan-triangulate; anything else goes
// through ear clipping.
func isConvex(pts []gmath.Vec2) bool {
	n := len(pts)
	if n < 4 {
		return true
	}
	var sign float32
	for i := 0; i < n; i++ {
		a := pts[i]
		b := pts[(i+1)%n]
		c := pts[(i+2)%n]
		ab := b.Sub(a)
		bc := c.Sub(b)
		cross := ab.X*bc.Y - ab.Y*bc.X
		if cross != 0 {
			if sign == 0 {
				sign = cross
			} else if (cross > 0) != (sign > 0) {
				return false
			}
		}
	}
	return true
}

func finitePoints(pts []gmath.Vec2) bool {
	for _, pt := range pts {
		if !pt.IsFinite() {
			return false
		}
	}
	return true
}
