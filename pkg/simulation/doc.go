// Package simulation implements a velocity Verlet force-directed layout.
//
// A [Simulation] owns a set of [Node] values and advances their positions one
// step at a time. Each step cools the global energy term alpha toward its
// target, lets every registered [Force] add to node velocities, and then
// integrates: velocities are damped and added to positions. Pinned nodes are
// held at their pin and have their velocity zeroed.
//
// # Forces
//
// Forces run in registration order. The layout used by forcegraph registers
// three, in this order:
//
//   - [LinkForce]: springs between linked nodes, stiffer for low-degree ends
//   - [ManyBody]: pairwise repulsion approximated with a Barnes–Hut quadtree
//   - [Center]: rigid translation of the centroid toward a target point
//
// # Timer
//
// When constructed with [WithScheduler] the simulation registers a frame
// callback and steps once per frame, notifying [Simulation.OnTick]
// listeners after every step. Once alpha drops below alphaMin, or a safety
// cap on steps is reached while cooling, the callback is removed and
// [Simulation.OnEnd] listeners fire. [Simulation.Stop] removes the callback
// without firing end; [Simulation.Restart] adds it back.
//
// Without a scheduler the simulation only moves when [Simulation.Tick] is
// called, which never notifies listeners.
//
// # Determinism
//
// Initial placement is a phyllotaxis spiral in node order, and coincident
// points are separated with a tiny jitter drawn from a seeded generator, so
// the same input and seed always produce the same layout.
package simulation
