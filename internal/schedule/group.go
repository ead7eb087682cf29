package schedule

import "time"

// Group ties a set of callbacks to one owner generation.
//
// CancelAll cancels every pending token and bumps the generation, so a
// callback that somehow survives cancellation (for example one already
// popped by RunDue while its owner was torn down in an earlier callback)
// sees a generation mismatch and does nothing.
type Group struct {
	s          *Scheduler
	generation uint64
	tokens     map[Token]struct{}
}

// NewGroup creates an empty group on s.
func (s *Scheduler) NewGroup() *Group {
	return &Group{
		s:      s,
		tokens: make(map[Token]struct{}),
	}
}

// Generation returns the current owner generation.
func (g *Group) Generation() uint64 {
	return g.generation
}

// After schedules fn for the current generation.
func (g *Group) After(d time.Duration, fn func()) Token {
	gen := g.generation
	var tok Token
	tok = g.s.After(d, func() {
		delete(g.tokens, tok)
		if gen != g.generation {
			return
		}
		fn()
	})
	g.tokens[tok] = struct{}{}
	return tok
}

// Cancel cancels one token owned by the group.
func (g *Group) Cancel(tok Token) bool {
	if _, ok := g.tokens[tok]; !ok {
		return false
	}
	delete(g.tokens, tok)
	return g.s.Cancel(tok)
}

// CancelAll cancels every pending token and starts a new generation.
func (g *Group) CancelAll() {
	for tok := range g.tokens {
		g.s.Cancel(tok)
	}
	clear(g.tokens)
	g.generation++
}

// Pending returns the number of live tokens in the group.
func (g *Group) Pending() int {
	return len(g.tokens)
}
