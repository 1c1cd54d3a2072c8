package merkle

import "testing"

func TestMaxHeight(t *testing.T) {
	tests := []struct {
		n    uint32
		want uint32
	}{
		{0, 0},
		{1, 0},
		{2, 1},
		{3, 2},
		{4, 2},
		{5, 3},
		{8, 3},
		{9, 4},
	}
	for _, tt := range tests {
		if got := maxHeight(tt.n); got != tt.want {
			t.Errorf("maxHeight(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestTreeWidth(t *testing.T) {
	// n=3: root width 1, level-1 width 2, leaf width 3.
	maxH := maxHeight(3)
	tests := []struct {
		h    uint32
		want uint32
	}{
		{0, 1},
		{1, 2},
		{2, 3},
	}
	for _, tt := range tests {
		if got := treeWidth(3, maxH, tt.h); got != tt.want {
			t.Errorf("treeWidth(3, %d) = %d, want %d", tt.h, got, tt.want)
		}
	}
}
