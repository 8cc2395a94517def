package entity

// transitions maps a state to the states reachable from it in one step.
type transitions[S comparable] map[S][]S

func (t transitions[S]) allows(from, to S) bool {
	for _, next := range t[from] {
		if next == to {
			return true
		}
	}
	return false
}

// sources lists the states that may move to target, in declaration order of order.
func (t transitions[S]) sources(target S, order []S) []S {
	var out []S
	for _, from := range order {
		if t.allows(from, target) {
			out = append(out, from)
		}
	}
	return out
}
