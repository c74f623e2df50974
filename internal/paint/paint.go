// Package paint rasterizes a decoded quadtree back into pixels by
// preorder traversal, the mirror image of the builder's postorder
// aggregation.
package paint

import "github.com/deepteams/quadtree/internal/tree"

// Paint writes t's pixels into a freshly allocated row-major raster of
// side t.Side(). Traversal stops at the first uniform node on each path
// (equivalent to stopping at leaves, since every pixel under a uniform
// node shares its mean) and fills that node's whole quadrant with one
// value.
func Paint(t *tree.Tree) []byte {
	side := t.Side()
	raster := make([]byte, side*side)
	walk(t, raster, side, 0, 0, 0, side)
	return raster
}

func walk(t *tree.Tree, raster []byte, stride, idx, x, y, size int) {
	n := &t.Nodes[idx]
	if n.Uniform || t.IsLeaf(idx) {
		fill(raster, stride, x, y, size, n.Mean)
		return
	}

	half := size / 2
	childX := [4]int{x, x + half, x + half, x}
	childY := [4]int{y, y, y + half, y + half}
	for k := 0; k < 4; k++ {
		walk(t, raster, stride, tree.Child(idx, k+1), childX[k], childY[k], half)
	}
}

func fill(raster []byte, stride, x, y, size int, v uint8) {
	for row := y; row < y+size; row++ {
		base := row * stride
		for col := x; col < x+size; col++ {
			raster[base+col] = v
		}
	}
}
