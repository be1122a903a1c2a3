// Package session holds the generation state a front end works on: the
// current patch, the module locks and a bounded undo/redo history.
package session

import (
	"sync"

	"github.com/freakgen/freakgen"
	"github.com/freakgen/freakgen/generate"
)

// DefaultDepth is the number of patches the undo history keeps by default.
const DefaultDepth = 3

// Session is safe for concurrent use.
type Session struct {
	mu        sync.Mutex
	rand      generate.Rand
	current   freakgen.Patch
	locks     freakgen.LockSet
	undoStack []freakgen.Patch
	redoStack []freakgen.Patch
	depth     int
}

// New returns an empty session drawing randomness from r and keeping depth
// patches of undo history.
func New(r generate.Rand, depth int) *Session {
	return &Session{rand: r, depth: max(depth, 0)}
}

// Generate replaces the current patch with a freshly generated one, keeping
// locked modules. The previous patch, if any, goes onto the undo stack and
// the redo stack is cleared. The returned error reports request fields that
// had to be normalized; the patch is valid either way.
func (s *Session) Generate(style freakgen.Style, intensity freakgen.Intensity, engine string) (freakgen.Patch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, err := generate.Request{Style: style, Intensity: intensity, Engine: engine, Locks: s.locks}.Normalize()
	if !s.current.Empty() {
		prev := s.current
		req.Previous = &prev
		s.undoStack = trim(append(s.undoStack, s.current), s.depth)
	}
	s.redoStack = s.redoStack[:0]
	s.current = generate.Patch(s.rand, req)
	return s.current.Copy(), err
}

// Current returns the current patch. ok is false before the first
// generation or load.
func (s *Session) Current() (p freakgen.Patch, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Copy(), !s.current.Empty()
}

// Load makes p the current patch without touching the history.
func (s *Session) Load(p freakgen.Patch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = p.Copy()
}

// Undo steps back to the previous patch. ok is false when there is nothing
// to undo.
func (s *Session) Undo() (p freakgen.Patch, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.undoStack) == 0 {
		return freakgen.Patch{}, false
	}
	s.redoStack = trim(append(s.redoStack, s.current), s.depth)
	s.current = s.undoStack[len(s.undoStack)-1]
	s.undoStack = s.undoStack[:len(s.undoStack)-1]
	return s.current.Copy(), true
}

// Redo steps forward to the last undone patch. ok is false when there is
// nothing to redo.
func (s *Session) Redo() (p freakgen.Patch, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.redoStack) == 0 {
		return freakgen.Patch{}, false
	}
	s.undoStack = trim(append(s.undoStack, s.current), s.depth)
	s.current = s.redoStack[len(s.redoStack)-1]
	s.redoStack = s.redoStack[:len(s.redoStack)-1]
	return s.current.Copy(), true
}

// History returns how many patches can be undone and redone.
func (s *Session) History() (undo, redo int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.undoStack), len(s.redoStack)
}

// Depth returns the history depth.
func (s *Session) Depth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.depth
}

// SetDepth changes the history depth, dropping the oldest entries of both
// stacks that no longer fit.
func (s *Session) SetDepth(depth int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.depth = max(depth, 0)
	s.undoStack = trim(s.undoStack, s.depth)
	s.redoStack = trim(s.redoStack, s.depth)
}

// Locks returns the current lock set.
func (s *Session) Locks() freakgen.LockSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locks
}

// SetLocks replaces the whole lock set.
func (s *Session) SetLocks(l freakgen.LockSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locks = l
}

// ToggleLock flips the lock of one module and returns the new lock set.
func (s *Session) ToggleLock(m freakgen.Module) freakgen.LockSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locks = s.locks.Toggle(m)
	return s.locks
}

// trim keeps the newest depth entries of stack.
func trim(stack []freakgen.Patch, depth int) []freakgen.Patch {
	if len(stack) <= depth {
		return stack
	}
	n := copy(stack, stack[len(stack)-depth:])
	clear(stack[n:])
	return stack[:n]
}
