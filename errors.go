package quadtree

import (
	"errors"

	"github.com/deepteams/quadtree/internal/builder"
	"github.com/deepteams/quadtree/internal/codec"
	"github.com/deepteams/quadtree/internal/filter"
)

// Error kinds surfaced by the core, matching the internal packages'
// sentinels one for one so callers can errors.Is against a single
// top-level set regardless of which stage produced the failure.
var (
	// ErrInvalidDimensions means the input raster's side is not a
	// positive power of two, or does not match the declared width.
	ErrInvalidDimensions = builder.ErrInvalidDimensions
	// ErrInvalidPixel means the raster contains a value outside [0, maxVal].
	ErrInvalidPixel = builder.ErrInvalidPixel
	// ErrInvalidAlpha means Alpha <= 0 was passed while filtering was requested.
	ErrInvalidAlpha = filter.ErrInvalidAlpha
	// ErrUnderflow means the decoder requested more bits than the
	// bitstream contained.
	ErrUnderflow = codec.ErrUnderflow
	// ErrMalformedHeader means the declared depth is inconsistent with
	// the available payload.
	ErrMalformedHeader = codec.ErrMalformedHeader
	// ErrAllocationFailure is returned if a host allocation fails while
	// building a tree; Go's runtime surfaces this as a panic rather than
	// an error in practice, so this sentinel exists for API completeness
	// and is never returned by this package directly.
	ErrAllocationFailure = errors.New("quadtree: allocation failure")
)
