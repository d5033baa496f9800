package match

// pairKey identifies an unordered pair of object ids. The smaller id is
// always stored first, so {a, b} and {b, a} map to the same key.
type pairKey struct {
	lo int64
	hi int64
}

func newPairKey(a, b int64) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{lo: a, hi: b}
}

// PairSet tracks which unordered pairs of records a run has already
// compared. It only grows; a run never forgets a pair.
type PairSet struct {
	seen map[pairKey]struct{}
}

// NewPairSet returns an empty pair set.
func NewPairSet() *PairSet {
	return &PairSet{seen: make(map[pairKey]struct{})}
}

// Contains reports whether {a, b} has been marked, in either order.
func (s *PairSet) Contains(a, b int64) bool {
	_, ok := s.seen[newPairKey(a, b)]
	return ok
}

// Mark records {a, b} as compared.
func (s *PairSet) Mark(a, b int64) {
	s.seen[newPairKey(a, b)] = struct{}{}
}

// Len returns the number of distinct pairs marked.
func (s *PairSet) Len() int {
	return len(s.seen)
}
