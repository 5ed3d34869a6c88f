// Package visualization owns the lifecycle of one interactive force graph.
//
// A [Controller] binds a drawing surface once with [Controller.Init] and
// then accepts any number of [Controller.Render] calls. Each render tears
// down the previous simulation and scene completely before building new
// ones, so ticks from a stale simulation can never touch a newer scene.
// [Controller.Clear] does the same teardown without building anything, and
// [Controller.UpdateDimensions] re-reads the container size and re-renders
// the current dataset.
//
// All methods must be called from the goroutine driving the controller's
// [eventloop.Scheduler]; other goroutines hand calls over with Post.
//
// # Hosts
//
// The controller draws through the [Host] and [Container] interfaces. The
// terminal viewer implements them on top of bubbletea; [Headless] is an
// in-memory implementation used by the batch renderer and tests.
//
// # Errors
//
// Render never panics. It returns an *errors.Error whose code tells the
// caller what went wrong:
//
//   - PRECONDITION_FAILED: Init was not called, or the dataset is nil or
//     lacks a nodes or links collection. Nothing was changed.
//   - INVALID_DATASET, INVALID_INPUT: ids or options were rejected. Nothing
//     was changed.
//   - CONSTRUCTION_FAILED: building the new scene failed after the old one
//     was torn down. The controller is left cleared.
//
// Links whose endpoints are missing are not errors: they are dropped, logged
// as warnings and counted in [Controller.Dropped].
//
// [eventloop.Scheduler]: github.com/matzehuels/forcegraph/pkg/eventloop.Scheduler
package visualization
