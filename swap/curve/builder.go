package curve

// Builder owns a mutable copy of a curve while its last node is being solved.
//
// Root-finding closures call SetLastNode repeatedly; once a node is accepted the
// caller takes an immutable snapshot with Curve. A Builder must not be shared
// between goroutines.
type Builder struct {
	c Curve
}

// NewBuilder validates knots and nodes like New and returns a builder over copies of them.
func NewBuilder(knots, nodes []float64) (*Builder, error) {
	c, err := New(knots, nodes)
	if err != nil {
		return nil, err
	}
	return &Builder{c: *c}, nil
}

// SetLastNode replaces the final node and its cumulative log factor.
func (b *Builder) SetLastNode(v float64) {
	last := len(b.c.nodes) - 1
	b.c.nodes[last] = v
	b.c.zeros[last] = v * b.c.knots[last]
}

// Value returns the factor at t for the current node buffer.
func (b *Builder) Value(t float64) float64 {
	return b.c.Value(t)
}

// DValueDNode returns node sensitivities for the current node buffer.
func (b *Builder) DValueDNode(t float64) Sensitivity {
	return b.c.DValueDNode(t)
}

// Nodes returns a copy of the current node buffer.
func (b *Builder) Nodes() []float64 {
	return b.c.Nodes()
}

// Curve freezes the current state into an independent Curve.
func (b *Builder) Curve() *Curve {
	return &Curve{
		knots: b.c.Knots(),
		nodes: b.c.Nodes(),
		zeros: append([]float64(nil), b.c.zeros...),
	}
}
