// Package grid renders the visual segmentation grid that exposes a
// quadtree's decomposition: a white canvas with a one-pixel border drawn
// around every uniform subtree.
package grid

import "github.com/deepteams/quadtree/internal/tree"

// BorderValue is the grayscale value used to draw subtree borders.
const BorderValue = 190

// White is the background value of the rendered canvas.
const White = 255

// Render draws t's segmentation grid into a freshly allocated raster of
// side t.Side(). Every uniform internal node gets a one-pixel border along
// its top and left edges (skipped at the image boundary) and traversal does
// not descend past it. Leaves never get a border, so leaves inside a
// non-uniform region are left unbordered.
func Render(t *tree.Tree) []byte {
	side := t.Side()
	raster := make([]byte, side*side)
	for i := range raster {
		raster[i] = White
	}
	walk(t, raster, side, 0, 0, 0, side)
	return raster
}

func walk(t *tree.Tree, raster []byte, stride, idx, x, y, size int) {
	n := &t.Nodes[idx]
	if t.IsLeaf(idx) {
		// Leaves are always Uniform by definition, but a border marks an
		// aggregated internal subtree, not a single pixel, so a leaf never
		// draws one even when it sits in an otherwise non-uniform region.
		return
	}
	if n.Uniform {
		drawBorder(raster, stride, x, y, size)
		return
	}

	half := size / 2
	childX := [4]int{x, x + half, x + half, x}
	childY := [4]int{y, y, y + half, y + half}
	for k := 0; k < 4; k++ {
		walk(t, raster, stride, tree.Child(idx, k+1), childX[k], childY[k], half)
	}
}

func drawBorder(raster []byte, stride, x, y, size int) {
	if y > 0 {
		base := y * stride
		for col := x; col < x+size; col++ {
			raster[base+col] = BorderValue
		}
	}
	if x > 0 {
		for row := y; row < y+size; row++ {
			raster[row*stride+x] = BorderValue
		}
	}
}
