// Package scene maps simulation state and visual options to drawable
// elements.
//
// [Build] creates one [LinkElement] per bound link, one [NodeElement] per
// node and the fixed [Legend]. Colors, radii and label text are decided once
// at build time by the lookup functions in style.go; [Scene.Sync] runs on
// every simulation tick and only copies coordinates from the live
// simulation nodes. Renderers in pkg/render read a Scene and never touch the
// simulation.
package scene
