package interaction

import "math"

// Scale bounds of the view transform.
const (
	MinScale = 0.1
	MaxScale = 10.0
)

// wheelFactor converts a pixel wheel delta into a zoom exponent.
const wheelFactor = 0.002

// Transform maps world coordinates to screen coordinates:
// screen = world*K + (X, Y).
type Transform struct {
	X, Y float64
	K    float64
}

// Identity is the transform with no translation and unit scale.
var Identity = Transform{K: 1}

// Apply maps a world point to the screen.
func (t Transform) Apply(x, y float64) (float64, float64) {
	return x*t.K + t.X, y*t.K + t.Y
}

// Invert maps a screen point to the world.
func (t Transform) Invert(sx, sy float64) (float64, float64) {
	return (sx - t.X) / t.K, (sy - t.Y) / t.K
}

// IsIdentity reports whether t leaves points unchanged.
func (t Transform) IsIdentity() bool { return t == Identity }

// Zoom owns the current view transform.
type Zoom struct {
	t          Transform
	minK, maxK float64
	listeners  map[int]func(Transform)
	order      []int
	next       int
}

// NewZoom returns an identity zoom with the default scale extent.
func NewZoom() *Zoom {
	return &Zoom{t: Identity, minK: MinScale, maxK: MaxScale, listeners: map[int]func(Transform){}}
}

// ScaleExtent returns the allowed scale range.
func (z *Zoom) ScaleExtent() (lo, hi float64) { return z.minK, z.maxK }

// SetScaleExtent changes the allowed scale range and re-clamps.
func (z *Zoom) SetScaleExtent(lo, hi float64) {
	z.minK, z.maxK = lo, hi
	z.SetTransform(z.t)
}

// Transform returns the current transform.
func (z *Zoom) Transform() Transform { return z.t }

// SetTransform replaces the transform, clamping its scale.
func (z *Zoom) SetTransform(t Transform) {
	if t.K <= 0 || math.IsNaN(t.K) {
		t.K = 1
	}
	t.K = min(z.maxK, max(z.minK, t.K))
	if t == z.t {
		return
	}
	z.t = t
	z.emit()
}

// ScaleBy multiplies the scale by k, keeping the world point under the
// screen point (px, py) fixed.
func (z *Zoom) ScaleBy(k, px, py float64) {
	z.ScaleTo(z.t.K*k, px, py)
}

// ScaleTo sets the scale, keeping the world point under (px, py) fixed.
func (z *Zoom) ScaleTo(k, px, py float64) {
	k = min(z.maxK, max(z.minK, k))
	wx, wy := z.t.Invert(px, py)
	z.SetTransform(Transform{X: px - wx*k, Y: py - wy*k, K: k})
}

// Wheel zooms for a wheel event with vertical delta dy at (px, py).
// Negative dy zooms in.
func (z *Zoom) Wheel(dy, px, py float64) {
	z.ScaleBy(math.Pow(2, -dy*wheelFactor), px, py)
}

// PanBy translates the view by a screen-space offset.
func (z *Zoom) PanBy(dx, dy float64) {
	t := z.t
	t.X += dx
	t.Y += dy
	z.SetTransform(t)
}

// Reset returns to the identity transform.
func (z *Zoom) Reset() { z.SetTransform(Identity) }

// OnZoom registers fn to run after every change. The returned function
// unregisters it.
func (z *Zoom) OnZoom(fn func(Transform)) (cancel func()) {
	z.next++
	id := z.next
	z.listeners[id] = fn
	z.order = append(z.order, id)
	return func() {
		delete(z.listeners, id)
		for i, o := range z.order {
			if o == id {
				z.order = append(z.order[:i:i], z.order[i+1:]...)
				break
			}
		}
	}
}

func (z *Zoom) emit() {
	for _, id := range append([]int(nil), z.order...) {
		if fn, ok := z.listeners[id]; ok {
			fn(z.t)
		}
	}
}
