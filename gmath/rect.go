package gmath

import "github.com/chewxy/math32"

// Rect is an axis-aligned rectangle stored as a min/max point pair.
// A rect with Max < Min on either axis is negative (empty).
type Rect struct {
	Min, Max Vec2
}

// RectMinMax builds a rect from two corner points.
func RectMinMax(min, max Vec2) Rect { return Rect{min, max} }

// RectMinSize builds a rect from a top-left corner and a size.
func RectMinSize(min, size Vec2) Rect { return Rect{min, min.Add(size)} }

// RectCenterSize builds a rect centered on c.
func RectCenterSize(c, size Vec2) Rect {
	h := size.Scale(0.5)
	return Rect{c.Sub(h), c.Add(h)}
}

// Everything is the rect that contains all finite points.
func Everything() Rect {
	const inf = math32.MaxFloat32
	return Rect{Vec2{-inf, -inf}, Vec2{inf, inf}}
}

// Nothing is a rect that contains no point. Union with a point or
// rect grows it; use it as the identity when accumulating bounds.
func Nothing() Rect {
	const inf = math32.MaxFloat32
	return Rect{Vec2{inf, inf}, Vec2{-inf, -inf}}
}

func (r Rect) Size() Vec2      { return r.Max.Sub(r.Min) }
func (r Rect) Width() float32  { return r.Max.X - r.Min.X }
func (r Rect) Height() float32 { return r.Max.Y - r.Min.Y }
func (r Rect) Center() Vec2    { return Lerp(r.Min, r.Max, 0.5) }
func (r Rect) Area() float32   { return r.Width() * r.Height() }

func (r Rect) LeftTop() Vec2     { return r.Min }
func (r Rect) RightTop() Vec2    { return Vec2{r.Max.X, r.Min.Y} }
func (r Rect) LeftBottom() Vec2  { return Vec2{r.Min.X, r.Max.Y} }
func (r Rect) RightBottom() Vec2 { return r.Max }

// Contains reports whether p lies inside r (inclusive edges).
func (r Rect) Contains(p Vec2) bool {
	return r.Min.X <= p.X && p.X <= r.Max.X && r.Min.Y <= p.Y && p.Y <= r.Max.Y
}

// ContainsRect reports whether o lies entirely inside r.
func (r Rect) ContainsRect(o Rect) bool {
	return r.Contains(o.Min) && r.Contains(o.Max)
}

// Intersect returns the overlap of r and o. Clip scopes always
// intersect with their parent, never union, so a child region can only
// shrink its ancestor's visible area.
func (r Rect) Intersect(o Rect) Rect {
	return Rect{r.Min.Max(o.Min), r.Max.Min(o.Max)}
}

// Intersects reports whether r and o share any area.
func (r Rect) Intersects(o Rect) bool {
	return r.Min.X <= o.Max.X && o.Min.X <= r.Max.X &&
		r.Min.Y <= o.Max.Y && o.Min.Y <= r.Max.Y
}

// Union returns the smallest rect containing both r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{r.Min.Min(o.Min), r.Max.Max(o.Max)}
}

// ExtendWith grows r to include p.
func (r Rect) ExtendWith(p Vec2) Rect {
	return Rect{r.Min.Min(p), r.Max.Max(p)}
}

// Expand grows the rect by f on every side (shrinks if negative).
func (r Rect) Expand(f float32) Rect { return r.Expand2(Splat(f)) }

func (r Rect) Expand2(v Vec2) Rect {
	return Rect{r.Min.Sub(v), r.Max.Add(v)}
}

// Translate moves the rect by d.
func (r Rect) Translate(d Vec2) Rect {
	return Rect{r.Min.Add(d), r.Max.Add(d)}
}

// Clamp returns p limited to lie within r.
func (r Rect) Clamp(p Vec2) Vec2 { return p.Clamp(r.Min, r.Max) }

// IsEmpty reports whether the rect has no positive area.
func (r Rect) IsEmpty() bool {
	return r.Max.X <= r.Min.X || r.Max.Y <= r.Min.Y
}

// IsFinite reports whether all four coordinates are finite.
func (r Rect) IsFinite() bool { return r.Min.IsFinite() && r.Max.IsFinite() }

// DistanceSqToPos returns the squared distance from p to the rect
// (zero when p is inside).
func (r Rect) DistanceSqToPos(p Vec2) float32 {
	d := r.Clamp(p).Sub(p)
	return d.LengthSq()
}
