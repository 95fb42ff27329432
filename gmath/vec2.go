// Package gmath provides the float32 vector and rectangle math used
// throughout the GUI core. Coordinates are in logical (point) units;
// the tessellator applies the pixels-per-point scale at the very end.
package gmath

import "github.com/chewxy/math32"

// Vec2 is a 2D position or extent.
type Vec2 struct {
	X, Y float32
}

func V2(x, y float32) Vec2 { return Vec2{x, y} }

// Splat returns a vector with both components set to v.
func Splat(v float32) Vec2 { return Vec2{v, v} }

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float32) Vec2 { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Mul(o Vec2) Vec2      { return Vec2{v.X * o.X, v.Y * o.Y} }
func (v Vec2) Neg() Vec2            { return Vec2{-v.X, -v.Y} }

func (v Vec2) Dot(o Vec2) float32 { return v.X*o.X + v.Y*o.Y }

func (v Vec2) Length() float32   { return math32.Hypot(v.X, v.Y) }
func (v Vec2) LengthSq() float32 { return v.X*v.X + v.Y*v.Y }

// Normalized returns v scaled to unit length, or the zero vector if v
// is too short to normalize safely.
func (v Vec2) Normalized() Vec2 {
	l := v.Length()
	if l <= 0 {
		return Vec2{}
	}
	return v.Scale(1 / l)
}

// Rot90 rotates v a quarter turn clockwise in a Y-down coordinate
// system. Used for stroke normals.
func (v Vec2) Rot90() Vec2 { return Vec2{v.Y, -v.X} }

func (v Vec2) Min(o Vec2) Vec2 {
	return Vec2{math32.Min(v.X, o.X), math32.Min(v.Y, o.Y)}
}

func (v Vec2) Max(o Vec2) Vec2 {
	return Vec2{math32.Max(v.X, o.X), math32.Max(v.Y, o.Y)}
}

// Clamp limits each component of v to [lo, hi].
func (v Vec2) Clamp(lo, hi Vec2) Vec2 { return v.Max(lo).Min(hi) }

// Floor rounds both components toward negative infinity.
func (v Vec2) Floor() Vec2 { return Vec2{math32.Floor(v.X), math32.Floor(v.Y)} }

// Round rounds both components to the nearest integer.
func (v Vec2) Round() Vec2 { return Vec2{math32.Round(v.X), math32.Round(v.Y)} }

// IsFinite reports whether both components are finite numbers.
func (v Vec2) IsFinite() bool { return isFinite(v.X) && isFinite(v.Y) }

func isFinite(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}

// Lerp interpolates between a and b by t in [0,1].
func Lerp(a, b Vec2, t float32) Vec2 {
	return Vec2{a.X + (b.X-a.X)*t, a.Y + (b.Y-a.Y)*t}
}

// Clamp limits f to [lo, hi].
func Clamp(f, lo, hi float32) float32 {
	return math32.Max(lo, math32.Min(hi, f))
}
