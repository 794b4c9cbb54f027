package service

// CompletionTracker records which sources have already been seen in a
// terminal state during a single polling session. It is owned by exactly one
// polling loop and must be cleared when the session ends so state never leaks
// across jobs or customers.
type CompletionTracker struct {
	seen map[string]struct{}
}

// NewCompletionTracker creates an empty tracker.
func NewCompletionTracker() *CompletionTracker {
	return &CompletionTracker{seen: make(map[string]struct{})}
}

// MarkSeen records a source as seen and reports whether it was newly added.
func (t *CompletionTracker) MarkSeen(source string) bool {
	if _, ok := t.seen[source]; ok {
		return false
	}
	t.seen[source] = struct{}{}
	return true
}

// Has reports whether a source has already been seen.
func (t *CompletionTracker) Has(source string) bool {
	_, ok := t.seen[source]
	return ok
}

// Seen returns the sources tracked so far.
func (t *CompletionTracker) Seen() []string {
	out := make([]string, 0, len(t.seen))
	for s := range t.seen {
		out = append(out, s)
	}
	return out
}

// Clear resets the tracker for reuse.
func (t *CompletionTracker) Clear() {
	t.seen = make(map[string]struct{})
}
