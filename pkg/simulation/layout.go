package simulation

// Parameters of the movie graph layout.
const (
	LayoutLinkDistance   = 100.0
	LayoutChargeStrength = -300.0
)

// Force names registered by NewLayout, in application order.
const (
	ForceLink   = "link"
	ForceCharge = "charge"
	ForceCenter = "center"
)

// NewLayout creates the standard simulation: links at distance 100, charge
// -300 and centering on (cx, cy).
func NewLayout(nodes []*Node, links []*Link, cx, cy float64, opts ...Option) *Simulation {
	sim := New(nodes, opts...)
	sim.AddForce(ForceLink, NewLinkForce(links).Distance(LayoutLinkDistance))
	sim.AddForce(ForceCharge, NewManyBody().Strength(LayoutChargeStrength))
	sim.AddForce(ForceCenter, NewCenter(cx, cy))
	return sim
}
