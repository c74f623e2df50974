package quadtree

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math/bits"
	"time"

	"github.com/deepteams/quadtree/internal/builder"
	"github.com/deepteams/quadtree/internal/codec"
	"github.com/deepteams/quadtree/internal/filter"
	"github.com/deepteams/quadtree/internal/grid"
	"github.com/deepteams/quadtree/internal/paint"
	"github.com/deepteams/quadtree/internal/qtc"
	"github.com/deepteams/quadtree/internal/tree"
)

func init() {
	image.RegisterFormat("qtc", Magic, Decode, DecodeConfig)
}

// Magic is the byte sequence image.RegisterFormat sniffs to recognize a
// Q1 container.
const Magic = "Q1\n"

// EncoderOptions controls quadtree encoding parameters.
type EncoderOptions struct {
	// Alpha enables the variance-driven lossy filter when > 0. Alpha <= 0
	// (the zero value) encodes losslessly.
	Alpha float64

	// Verbose, when set, is honored by collaborators (e.g. the CLI) to
	// print progress; the core itself never writes to stderr.
	Verbose bool
}

// Encode converts img to grayscale, builds its quadtree (optionally
// filtering it per opts.Alpha), serializes it, and writes a complete Q1
// container to w. img's bounds must be square with a power-of-two side.
func Encode(w io.Writer, img image.Image, opts *EncoderOptions) error {
	if opts == nil {
		opts = &EncoderOptions{}
	}

	raster, width, err := toGraySquare(img)
	if err != nil {
		return fmt.Errorf("quadtree: %w", err)
	}

	t, err := builder.Build(raster, width, 255)
	if err != nil {
		return fmt.Errorf("quadtree: %w", err)
	}

	if opts.Alpha > 0 {
		if err := filter.Apply(t, opts.Alpha); err != nil {
			return fmt.Errorf("quadtree: %w", err)
		}
	}

	payload := codec.Encode(t)
	if err := qtc.Write(w, payload, time.Now(), width); err != nil {
		return fmt.Errorf("quadtree: writing container: %w", err)
	}
	return nil
}

// Decode reads a complete Q1 container from r and returns the decoded
// image as an *image.Gray.
func Decode(r io.Reader) (image.Image, error) {
	t, err := decodeTree(r)
	if err != nil {
		return nil, err
	}
	return rasterToGray(paint.Paint(t), t.Side()), nil
}

// DecodeConfig returns the color model and dimensions of a Q1 image
// without painting pixels.
func DecodeConfig(r io.Reader) (image.Config, error) {
	t, err := decodeTree(r)
	if err != nil {
		return image.Config{}, err
	}
	side := t.Side()
	return image.Config{ColorModel: color.GrayModel, Width: side, Height: side}, nil
}

// RenderGrid builds img's quadtree (optionally filtering it per
// opts.Alpha) and returns its segmentation-grid visualization as an
// *image.Gray.
func RenderGrid(img image.Image, opts *EncoderOptions) (image.Image, error) {
	if opts == nil {
		opts = &EncoderOptions{}
	}
	raster, width, err := toGraySquare(img)
	if err != nil {
		return nil, fmt.Errorf("quadtree: %w", err)
	}
	t, err := builder.Build(raster, width, 255)
	if err != nil {
		return nil, fmt.Errorf("quadtree: %w", err)
	}
	if opts.Alpha > 0 {
		if err := filter.Apply(t, opts.Alpha); err != nil {
			return nil, fmt.Errorf("quadtree: %w", err)
		}
	}
	return rasterToGray(grid.Render(t), t.Side()), nil
}

// decodeTree reads and parses a Q1 container into a tree, the shared
// first stage of Decode and DecodeConfig.
func decodeTree(r io.Reader) (*tree.Tree, error) {
	payload, err := qtc.Read(r)
	if err != nil {
		return nil, fmt.Errorf("quadtree: reading container: %w", err)
	}
	t, err := codec.Decode(payload)
	if err != nil {
		return nil, fmt.Errorf("quadtree: %w", err)
	}
	return t, nil
}

// toGraySquare converts img to a row-major grayscale raster. img's bounds
// must already be square with a power-of-two side; this package does not
// resize (see cmd/qtc for a collaborator that does, via golang.org/x/image).
func toGraySquare(img image.Image) ([]byte, int, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w != h || w <= 0 || bits.OnesCount(uint(w)) != 1 {
		return nil, 0, ErrInvalidDimensions
	}

	raster := make([]byte, w*h)
	gray, ok := img.(*image.Gray)
	if ok && gray.Rect == b {
		copy(raster, gray.Pix)
		return raster, w, nil
	}

	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			raster[i] = color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y
			i++
		}
	}
	return raster, w, nil
}

// rasterToGray wraps a row-major byte raster as an *image.Gray.
func rasterToGray(raster []byte, side int) *image.Gray {
	return &image.Gray{
		Pix:    raster,
		Stride: side,
		Rect:   image.Rect(0, 0, side, side),
	}
}
