package iteratable

import "testing"

func TestSetAddContains(t *testing.T) {
	s := NewSet(0)
	if s.Add(1) != true {
		t.Fatal("expected first Add to report new element")
	}
	if s.Add(1) != false {
		t.Fatal("expected duplicate Add to report false")
	}
	if !s.Contains(1) {
		t.Fatal("expected set to contain 1")
	}
	if s.Size() != 1 {
		t.Fatalf("expected size 1, got %d", s.Size())
	}
}

func TestSetGrowsDuringIteration(t *testing.T) {
	s := NewSet(0)
	s.Add(1)
	seen := []int{}
	s.IterateOnce()
	for s.Next() {
		v := s.Item().(int)
		seen = append(seen, v)
		if v < 3 {
			s.Add(v + 1)
		}
	}
	want := []int{1, 2, 3}
	if len(seen) != len(want) {
		t.Fatalf("expected %v, got %v", want, seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, seen)
		}
	}
}

func TestSetRemoveDuringIteration(t *testing.T) {
	s := NewSet(0)
	s.Add(1)
	s.Add(2)
	s.Add(3)
	s.IterateOnce()
	for s.Next() {
		if s.Item().(int) == 2 {
			s.Remove(2)
		}
	}
	if s.Contains(2) {
		t.Fatal("expected 2 to be removed")
	}
	if s.Size() != 2 {
		t.Fatalf("expected size 2, got %d", s.Size())
	}
}

func TestSetSubsetUnion(t *testing.T) {
	s := NewSet(0)
	s.Add(1)
	s.Add(2)
	s.Add(3)
	evens := s.Copy().Subset(func(v interface{}) bool { return v.(int)%2 == 0 })
	if evens.Size() != 1 || !evens.Contains(2) {
		t.Fatalf("expected {2}, got %v", evens.Values())
	}
	odds := NewSet(0)
	odds.Add(1)
	odds.Add(3)
	evens.Union(odds)
	if evens.Size() != 3 {
		t.Fatalf("expected union size 3, got %d", evens.Size())
	}
}

func TestSetFirstMatch(t *testing.T) {
	s := NewSet(0)
	s.Add(1)
	s.Add(2)
	s.Add(3)
	m := s.FirstMatch(func(v interface{}) bool { return v.(int) > 1 })
	if m.(int) != 2 {
		t.Fatalf("expected 2, got %v", m)
	}
	if s.FirstMatch(func(v interface{}) bool { return v.(int) > 10 }) != nil {
		t.Fatal("expected no match")
	}
}
