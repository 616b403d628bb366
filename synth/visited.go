package synth

import "github.com/erraggy/typeschema/source"

// frame is one class descent on the visited stack.
type frame struct {
	id source.DeclID
	// args is the instantiation signature the declaration was entered with.
	args    string
	refName string
	depth   int
	// lowlink is the shallowest stack depth referenced from this frame's
	// subtree. A frame whose lowlink is below its own depth produced a
	// node that depends on its ancestors and must not be cached.
	lowlink int
	// deps holds every declaration expanded in this frame's subtree.
	deps map[source.DeclID]struct{}
	// warnings raised anywhere in this frame's subtree.
	warnings []Warning
	// referenced is set when a $ref to this frame was emitted.
	referenced bool
}

func (f *frame) cacheable() bool { return f.lowlink >= f.depth }

func (f *frame) depList() []source.DeclID {
	out := make([]source.DeclID, 0, len(f.deps))
	for id := range f.deps {
		out = append(out, id)
	}
	return out
}

// visitedStack holds the declarations currently being synthesized: exactly
// the ancestors of the current recursion point. It lives for one top-level
// transform and is empty again when that transform returns.
type visitedStack struct {
	frames []*frame
}

func (s *visitedStack) depth() int { return len(s.frames) }

// find returns the frame for id, or nil when id is not an ancestor.
func (s *visitedStack) find(id source.DeclID) *frame {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i].id == id {
			return s.frames[i]
		}
	}
	return nil
}

// findCycle returns the ancestor that a descent into id with the given
// instantiation signature closes a cycle on: one with the same signature, or
// one whose signature is shorter, since growing arguments never bottom out.
// Descents with shrinking or equally sized but unseen arguments expand. Their
// signatures are drawn from a bounded set, so the recursion terminates.
func (s *visitedStack) findCycle(id source.DeclID, args string) *frame {
	for i := len(s.frames) - 1; i >= 0; i-- {
		f := s.frames[i]
		if f.id == id && (f.args == args || len(args) > len(f.args)) {
			return f
		}
	}
	return nil
}

// containsAny reports whether any of ids is an ancestor.
func (s *visitedStack) containsAny(ids []source.DeclID) bool {
	for _, id := range ids {
		if s.find(id) != nil {
			return true
		}
	}
	return false
}

func (s *visitedStack) push(id source.DeclID, args, refName string) *frame {
	d := len(s.frames)
	f := &frame{
		id:      id,
		args:    args,
		refName: refName,
		depth:   d,
		lowlink: d,
		deps:    map[source.DeclID]struct{}{id: {}},
	}
	s.frames = append(s.frames, f)
	return f
}

// pop removes the top frame and folds its lowlink and deps into the parent.
func (s *visitedStack) pop() *frame {
	f := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	if n := len(s.frames); n > 0 {
		parent := s.frames[n-1]
		parent.lowlink = min(parent.lowlink, f.lowlink)
		for id := range f.deps {
			parent.deps[id] = struct{}{}
		}
	}
	return f
}

// noteRef records that the current top frame's subtree references target.
func (s *visitedStack) noteRef(target *frame) {
	target.referenced = true
	if n := len(s.frames); n > 0 {
		top := s.frames[n-1]
		top.lowlink = min(top.lowlink, target.depth)
	}
}

// noteDeps records declarations expanded by a reused cache entry.
func (s *visitedStack) noteDeps(ids []source.DeclID) {
	if n := len(s.frames); n > 0 {
		top := s.frames[n-1]
		for _, id := range ids {
			top.deps[id] = struct{}{}
		}
	}
}

// record attributes w to every frame on the stack.
func (s *visitedStack) record(w Warning) {
	for _, f := range s.frames {
		f.warnings = append(f.warnings, w)
	}
}

// poison marks every frame on the stack as uncacheable.
func (s *visitedStack) poison() {
	for _, f := range s.frames {
		f.lowlink = -1
	}
}
