package visualization

import (
	"sync"

	"github.com/matzehuels/forcegraph/pkg/scene"
)

// Headless is an in-memory Host with named containers. It records what
// was presented instead of drawing it.
type Headless struct {
	mu         sync.Mutex
	containers map[string]*HeadlessContainer
}

// NewHeadless returns a host without containers.
func NewHeadless() *Headless {
	return &Headless{containers: make(map[string]*HeadlessContainer)}
}

// Add creates (or replaces) the container for selector.
func (h *Headless) Add(selector string, width, height float64) *HeadlessContainer {
	h.mu.Lock()
	defer h.mu.Unlock()
	c := &HeadlessContainer{width: width, height: height, handlers: make(map[int]func())}
	h.containers[selector] = c
	return c
}

// Container implements Host.
func (h *Headless) Container(selector string) Container {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.containers[selector]; ok {
		return c
	}
	return nil
}

// HeadlessContainer is a Container that keeps the last presented scene.
type HeadlessContainer struct {
	width, height float64

	handlers map[int]func()
	nextID   int

	last     *scene.Scene
	presents int
	erases   int
}

// Size implements Container.
func (c *HeadlessContainer) Size() (float64, float64) { return c.width, c.height }

// OnResize implements Container.
func (c *HeadlessContainer) OnResize(fn func()) func() {
	c.nextID++
	id := c.nextID
	c.handlers[id] = fn
	return func() { delete(c.handlers, id) }
}

// Present implements Container.
func (c *HeadlessContainer) Present(s *scene.Scene) {
	c.last = s
	c.presents++
}

// Erase implements Container.
func (c *HeadlessContainer) Erase() {
	c.last = nil
	c.erases++
}

// Resize changes the size and notifies resize handlers.
func (c *HeadlessContainer) Resize(width, height float64) {
	c.width, c.height = width, height
	for _, fn := range c.handlers {
		fn()
	}
}

// Last returns the most recently presented scene, or nil after Erase.
func (c *HeadlessContainer) Last() *scene.Scene { return c.last }

// Presents returns how many times Present was called.
func (c *HeadlessContainer) Presents() int { return c.presents }

// Erases returns how many times Erase was called.
func (c *HeadlessContainer) Erases() int { return c.erases }

// ResizeHandlers returns the number of registered resize handlers.
func (c *HeadlessContainer) ResizeHandlers() int { return len(c.handlers) }
