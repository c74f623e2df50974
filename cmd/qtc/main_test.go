package main

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNearestPowerOfTwo(t *testing.T) {
	cases := map[int]int{1: 1, 2: 2, 3: 4, 5: 8, 8: 8, 9: 16, 100: 128}
	for in, want := range cases {
		require.Equal(t, want, nearestPowerOfTwo(in), "n=%d", in)
	}
}

func TestSquareifyCropsToSquare(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 10, 6))
	out := squareify(src)
	b := out.Bounds()
	require.Equal(t, b.Dx(), b.Dy())
}

func TestSquareifyResizesToPowerOfTwo(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 10, 10))
	out := squareify(src)
	side := out.Bounds().Dx()
	require.Equal(t, nearestPowerOfTwo(10), side)
}

func TestSquareifyAlreadyPowerOfTwo(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 8, 8))
	out := squareify(src)
	require.Equal(t, image.Rect(0, 0, 8, 8), out.Bounds())
}
