package match

import "testing"

func TestPairSetSymmetric(t *testing.T) {
	s := NewPairSet()
	if s.Contains(1, 2) {
		t.Fatal("empty set should not contain (1, 2)")
	}

	s.Mark(1, 2)
	if !s.Contains(1, 2) {
		t.Error("set should contain (1, 2) after Mark(1, 2)")
	}
	if !s.Contains(2, 1) {
		t.Error("set should contain (2, 1) after Mark(1, 2)")
	}
	if s.Contains(1, 3) {
		t.Error("set should not contain unmarked pair (1, 3)")
	}
}

func TestPairSetMarkIdempotent(t *testing.T) {
	s := NewPairSet()
	s.Mark(5, 9)
	s.Mark(9, 5)
	s.Mark(5, 9)
	if got := s.Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}
}

func TestPairSetLen(t *testing.T) {
	s := NewPairSet()
	s.Mark(1, 2)
	s.Mark(2, 3)
	s.Mark(3, 1)
	if got := s.Len(); got != 3 {
		t.Errorf("Len() = %d, want 3", got)
	}
}

func TestPairSetSelfPair(t *testing.T) {
	s := NewPairSet()
	s.Mark(7, 7)
	if !s.Contains(7, 7) {
		t.Error("set should contain (7, 7) after marking it")
	}
	if got := s.Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}
}
