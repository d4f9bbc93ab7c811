package graph

// Evaluate computes every node reachable from roots in dependency order.
//
// Each node is evaluated once, however many roots share it. A root that is
// not in the store, or whose operands are missing, gets no entry; callers
// treat an absent value as "skip" rather than zero.
func Evaluate(s *Store, roots []NodeID) map[NodeID]float64 {
	values := make(map[NodeID]float64, len(roots))
	failed := make(map[NodeID]bool)

	type frame struct {
		id       NodeID
		expanded bool
	}

	for _, root := range roots {
		stack := []frame{{id: root}}
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if _, done := values[top.id]; done || failed[top.id] {
				continue
			}
			n, err := s.Get(top.id)
			if err != nil {
				failed[top.id] = true
				continue
			}
			if n.Kind == KindLeaf {
				values[n.ID] = n.Value
				continue
			}

			if !top.expanded {
				// Revisit after both operands have been pushed and resolved.
				stack = append(stack, frame{id: n.ID, expanded: true}, frame{id: n.Right}, frame{id: n.Left})
				continue
			}

			left, okL := values[n.Left]
			right, okR := values[n.Right]
			if !okL || !okR {
				failed[n.ID] = true
				continue
			}
			switch n.Op {
			case OpAdd:
				values[n.ID] = left + right
			case OpMul:
				values[n.ID] = left * right
			default:
				failed[n.ID] = true
			}
		}
	}
	return values
}
