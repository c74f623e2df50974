// Package builder constructs a quadtree from a grayscale raster by
// recursive postorder aggregation, computing each internal node's mean,
// interpolation remainder, uniformity, and variance.
package builder

import (
	"errors"
	"math"
	"math/bits"

	"github.com/deepteams/quadtree/internal/tree"
)

var (
	// ErrInvalidDimensions is returned when the raster side is not a
	// positive power of two, or does not match width*width.
	ErrInvalidDimensions = errors.New("builder: invalid dimensions")
	// ErrInvalidPixel is returned when a raster byte exceeds maxVal.
	ErrInvalidPixel = errors.New("builder: invalid pixel value")
)

// Build constructs a complete quadtree from raster, a row-major grayscale
// buffer of side width x width. width must be a power of two and
// len(raster) must equal width*width. Every byte must be in [0, maxVal].
func Build(raster []byte, width int, maxVal uint8) (*tree.Tree, error) {
	levels, err := levelsFromWidth(width)
	if err != nil {
		return nil, err
	}
	if len(raster) != width*width {
		return nil, ErrInvalidDimensions
	}
	for _, px := range raster {
		if px > maxVal {
			return nil, ErrInvalidPixel
		}
	}

	t, err := tree.New(levels)
	if err != nil {
		return nil, err
	}

	b := &builder{raster: raster, width: width, t: t}
	b.build(0, 0, 0, width)

	nonLeaf := len(t.Nodes) - (1 << uint(2*levels))
	if nonLeaf > 0 {
		t.MeanVariance = b.varianceSum / float64(nonLeaf)
	}
	t.MaxVariance = b.maxVariance
	return t, nil
}

// levelsFromWidth validates that width is a positive power of two and
// returns log2(width).
func levelsFromWidth(width int) (int, error) {
	if width <= 0 || bits.OnesCount(uint(width)) != 1 {
		return 0, ErrInvalidDimensions
	}
	return bits.TrailingZeros(uint(width)), nil
}

type builder struct {
	raster      []byte
	width       int
	t           *tree.Tree
	varianceSum float64
	maxVariance float64
}

// build fills node idx, covering the size x size quadrant whose top-left
// corner is (x, y), via postorder recursion. Quadrants are visited
// clockwise: TL, TR, BR, BL, matching the heap child order.
func (b *builder) build(idx, x, y, size int) {
	n := &b.t.Nodes[idx]

	if size == 1 {
		n.Mean = b.raster[y*b.width+x]
		n.Uniform = true
		n.Epsilon = 0
		n.Variance = 0
		return
	}

	half := size / 2
	childX := [4]int{x, x + half, x + half, x}
	childY := [4]int{y, y, y + half, y + half}

	var childMeans [4]int
	var childVars [4]float64
	allUniform := true
	for k := 0; k < 4; k++ {
		ci := tree.Child(idx, k+1)
		b.build(ci, childX[k], childY[k], half)
		c := &b.t.Nodes[ci]
		childMeans[k] = int(c.Mean)
		childVars[k] = c.Variance
		if !c.Uniform {
			allUniform = false
		}
	}

	sum := childMeans[0] + childMeans[1] + childMeans[2] + childMeans[3]
	n.Mean = uint8(sum / 4)
	n.Epsilon = uint8(sum % 4)

	var varSum float64
	for k := 0; k < 4; k++ {
		diff := float64(int(n.Mean) - childMeans[k])
		varSum += childVars[k]*childVars[k] + diff*diff
	}
	n.Variance = math.Sqrt(varSum) / 4

	sameMean := childMeans[0] == childMeans[1] && childMeans[1] == childMeans[2] && childMeans[2] == childMeans[3]
	n.Uniform = allUniform && sameMean
	if n.Uniform {
		n.Epsilon = 0
	}

	b.varianceSum += n.Variance
	if n.Variance > b.maxVariance {
		b.maxVariance = n.Variance
	}
}
