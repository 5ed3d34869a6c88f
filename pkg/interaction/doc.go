// Package interaction implements the pan/zoom view transform and per-node
// drag-to-pin behavior.
//
// [Zoom] holds the affine [Transform] applied to the whole scene, with the
// scale clamped to [MinScale, MaxScale]. Hosts convert wheel and pan input
// into [Zoom.Wheel] and [Zoom.PanBy] calls; listeners registered with
// [Zoom.OnZoom] see every change.
//
// [Drag] tracks in-progress drag gestures keyed by pointer. The first
// gesture to start reheats the simulation by raising its alpha target; each
// gesture pins its node under the pointer; the last gesture to end lowers
// the target again so the layout cools.
package interaction
