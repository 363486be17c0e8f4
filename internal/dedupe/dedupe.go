// Package dedupe tracks natural keys seen within a load scope so that
// repeated keys are caught before the store's upsert silently overwrites
// them.
package dedupe

// Scope is the set of dedup keys seen so far in one logical load operation.
// A scope covers a single file, or several files when they are processed as
// one batch (a full sales load, for example). Scopes live only for the
// duration of that operation; the store's unique constraint is the backstop
// across process restarts.
//
// A Scope is owned by exactly one run and is not safe for concurrent use.
type Scope struct {
	seen map[string]struct{}
}

// NewScope returns an empty dedup scope.
func NewScope() *Scope {
	return &Scope{seen: make(map[string]struct{})}
}

// Admit records the key and reports whether it was seen for the first time.
// The first occurrence of a key wins; every later occurrence is the caller's
// cue to quarantine the record instead of loading it.
func (s *Scope) Admit(key string) bool {
	if _, dup := s.seen[key]; dup {
		return false
	}
	s.seen[key] = struct{}{}
	return true
}

// Len returns the number of distinct keys admitted so far.
func (s *Scope) Len() int {
	return len(s.seen)
}
