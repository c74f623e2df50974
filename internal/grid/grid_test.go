package grid

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deepteams/quadtree/internal/builder"
)

func TestRenderUniformRasterHasNoInteriorBorders(t *testing.T) {
	raster := make([]byte, 16)
	for i := range raster {
		raster[i] = 5
	}
	tr, err := builder.Build(raster, 4, 255)
	require.NoError(t, err)
	g := Render(tr)
	// The whole image is one uniform subtree rooted at (0,0): no border
	// is ever drawn because x>0/y>0 never holds at the root.
	for _, v := range g {
		require.EqualValues(t, White, v)
	}
}

func TestRenderNonUniformCheckerHasNoBorders(t *testing.T) {
	raster := []byte{0, 255, 255, 0}
	tr, err := builder.Build(raster, 2, 255)
	require.NoError(t, err)
	g := Render(tr)
	for _, v := range g {
		require.EqualValues(t, White, v)
	}
}

func TestRenderDrawsBorderForInteriorUniformBlock(t *testing.T) {
	// Four 2x2 uniform quadrants with distinct values -> each non-root
	// quadrant except the top-left gets a border on its top/left edge.
	raster := []byte{
		1, 1, 2, 2,
		1, 1, 2, 2,
		3, 3, 4, 4,
		3, 3, 4, 4,
	}
	tr, err := builder.Build(raster, 4, 255)
	require.NoError(t, err)
	g := Render(tr)

	// Top-right quadrant's left edge (x=2) should be bordered.
	require.EqualValues(t, BorderValue, g[0*4+2])
	// Bottom-left quadrant's top edge (y=2) should be bordered.
	require.EqualValues(t, BorderValue, g[2*4+0])
	// Root's own top-left corner is never bordered (x=0,y=0 boundary).
	require.EqualValues(t, White, g[0*4+0])
}
