package cart

// Projection is the view-ready aggregate every cart consumer renders from:
// the badge count and the money subtotal. It is recomputed from scratch on
// every store change and pushed to all subscribers, so no view fragment can
// hold a projection staler than the last mutation.
type Projection struct {
	ItemCount int
	Subtotal  float64
}

// Project derives the aggregates from a snapshot. Pure: no side effects, no
// network, safe to call from anywhere.
func Project(s Snapshot) Projection {
	var p Projection
	for _, line := range s.Lines {
		p.ItemCount += line.Quantity
		p.Subtotal += line.UnitPrice * float64(line.Quantity)
	}
	return p
}
