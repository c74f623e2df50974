package tree

import "testing"

func TestNewSizes(t *testing.T) {
	cases := []struct {
		levels int
		want   int
	}{
		{0, 1},
		{1, 5},
		{2, 21},
		{3, 85},
	}
	for _, c := range cases {
		tr, err := New(c.levels)
		if err != nil {
			t.Fatalf("New(%d): %v", c.levels, err)
		}
		if len(tr.Nodes) != c.want {
			t.Errorf("levels=%d: len(Nodes) = %d, want %d", c.levels, len(tr.Nodes), c.want)
		}
	}
}

func TestIsLeaf(t *testing.T) {
	tr, err := New(1)
	if err != nil {
		t.Fatal(err)
	}
	if tr.IsLeaf(0) {
		t.Error("root should not be a leaf at levels=1")
	}
	for i := 1; i <= 4; i++ {
		if !tr.IsLeaf(i) {
			t.Errorf("index %d should be a leaf", i)
		}
	}
}

func TestParentChildRoundTrip(t *testing.T) {
	for i := 1; i <= 4; i++ {
		if Parent(i) != 0 {
			t.Errorf("Parent(%d) = %d, want 0", i, Parent(i))
		}
	}
	for k := 1; k <= 4; k++ {
		if Parent(Child(3, k)) != 3 {
			t.Errorf("Parent(Child(3,%d)) = %d, want 3", k, Parent(Child(3, k)))
		}
	}
}

func TestSide(t *testing.T) {
	tr, _ := New(3)
	if tr.Side() != 8 {
		t.Errorf("Side() = %d, want 8", tr.Side())
	}
}

func TestNewInvalidDimensions(t *testing.T) {
	if _, err := New(-1); err != ErrInvalidDimensions {
		t.Errorf("New(-1) err = %v, want ErrInvalidDimensions", err)
	}
}
