package model

// Transitions is a state machine table: for each state, the actions it accepts
// and the state each action leads to. A state with no entry is terminal.
type Transitions[S ~string, A ~string] map[S]map[A]S

// Next returns the state reached by applying action in from.
func (t Transitions[S, A]) Next(from S, action A) (S, bool) {
	next, ok := t[from][action]
	return next, ok
}

// Allowed returns a copy of the actions accepted in state s.
func (t Transitions[S, A]) Allowed(s S) map[A]S {
	out := make(map[A]S, len(t[s]))
	for a, next := range t[s] {
		out[a] = next
	}
	return out
}

// IsTerminal reports whether no action is accepted in state s.
func (t Transitions[S, A]) IsTerminal(s S) bool {
	return len(t[s]) == 0
}

// Sources returns every state from which action is accepted.
func (t Transitions[S, A]) Sources(action A) []S {
	var out []S
	for s, actions := range t {
		if _, ok := actions[action]; ok {
			out = append(out, s)
		}
	}
	return out
}

// SameID compares two entity references. Zero ids belong to unpopulated
// references and never match anything, including each other.
func SameID(a, b int64) bool {
	return a != 0 && a == b
}
