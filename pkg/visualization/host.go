package visualization

import (
	"github.com/matzehuels/forcegraph/pkg/scene"
)

// Host resolves container selectors.
type Host interface {
	// Container returns the container for selector, or nil when there is
	// none.
	Container(selector string) Container
}

// Container is a drawing surface.
type Container interface {
	// Size returns the current viewport size.
	Size() (width, height float64)
	// OnResize registers fn to run whenever the size changes.
	OnResize(fn func()) (cancel func())
	// Present draws s. It is called after every render and every tick.
	Present(s *scene.Scene)
	// Erase removes everything drawn.
	Erase()
}
