// Package codec serializes and deserializes a quadtree to and from the
// opaque bit sequence described by the wire format: a one-byte depth
// header followed by a preorder body whose per-node field widths depend
// on parent context (a uniform parent's children are omitted entirely,
// and the fourth child of any non-uniform parent omits its mean because
// it is recomputed by interpolation).
package codec

import (
	"errors"

	"github.com/deepteams/quadtree/internal/bitio"
	"github.com/deepteams/quadtree/internal/tree"
)

// ErrMalformedHeader is returned when the decoded depth byte implies a
// node count inconsistent with the available payload.
var ErrMalformedHeader = errors.New("codec: malformed header")

// ErrUnderflow is returned when the bitstream runs out of bits before the
// decoder has filled every node implied by the header.
var ErrUnderflow = bitio.ErrUnderflow

// Encode serializes t into a complete byte sequence: one header byte
// holding t.Levels, followed by the bit-packed preorder body, padded to a
// byte boundary.
func Encode(t *tree.Tree) []byte {
	out := make([]byte, 1, 1+len(t.Nodes)/4+1)
	out[0] = byte(t.Levels)

	body := bitio.NewPooled(len(t.Nodes)/4 + 1)
	defer body.Release()
	encodeNode(body, t, 0)
	body.Finish()

	return append(out, body.Bytes()...)
}

// encodeNode writes node idx's fields (if any, per its parent context)
// then recurses into its children in heap order.
func encodeNode(w *bitio.Buffer, t *tree.Tree, idx int) {
	n := &t.Nodes[idx]

	switch {
	case idx == 0 && t.IsLeaf(0):
		// A single-node tree (levels=0): the root is a leaf with nothing
		// below it, so it follows the plain leaf rule (mean only) rather
		// than the root rule, which exists to bootstrap a non-trivial
		// tree's epsilon/uniform state.
		w.Push(uint32(n.Mean), 8)

	case idx == 0:
		w.Push(uint32(n.Mean), 8)
		w.Push(uint32(n.Epsilon), 2)
		if n.Epsilon == 0 {
			w.Push(boolBit(n.Uniform), 1)
		}

	case t.Nodes[tree.Parent(idx)].Uniform:
		// Nothing emitted: this node's fields are implied by the parent.

	case idx%4 == 0:
		// Fourth child of a non-uniform parent: mean is reconstructed at
		// decode time by interpolation, so it is never written.
		if !t.IsLeaf(idx) {
			w.Push(uint32(n.Epsilon), 2)
			if n.Epsilon == 0 {
				w.Push(boolBit(n.Uniform), 1)
			}
		}

	default:
		w.Push(uint32(n.Mean), 8)
		if !t.IsLeaf(idx) {
			w.Push(uint32(n.Epsilon), 2)
			if n.Epsilon == 0 {
				w.Push(boolBit(n.Uniform), 1)
			}
		}
	}

	if t.Nodes[idx].Uniform || t.IsLeaf(idx) {
		return
	}
	for k := 1; k <= 4; k++ {
		encodeNode(w, t, tree.Child(idx, k))
	}
}

func boolBit(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// Decode inverts Encode: it reads the depth header byte, allocates an
// empty tree of that depth, and fills it by replaying the same
// parent-context rules used during encoding.
func Decode(data []byte) (*tree.Tree, error) {
	if len(data) < 1 {
		return nil, ErrMalformedHeader
	}
	levels := int(data[0])
	if levels > 20 {
		// Guards against absurd allocations from corrupted headers; no
		// real raster this codec handles needs more than ~10 levels.
		return nil, ErrMalformedHeader
	}
	t, err := tree.New(levels)
	if err != nil {
		return nil, ErrMalformedHeader
	}
	if bodyBits := len(data[1:]) * 8; bodyBits < minBodyBits(levels) {
		// The root alone can never be fully described in fewer bits than
		// this, regardless of how much of the rest of the tree collapses
		// into it, so a shortfall here means the header lied about the
		// payload, not that the stream was merely truncated mid-tree.
		return nil, ErrMalformedHeader
	}

	r := bitio.NewFromBytes(data[1:])
	if err := decodeNode(r, t, 0); err != nil {
		return nil, err
	}
	return t, nil
}

// minBodyBits returns the fewest body bits any valid encoding of a tree of
// the given depth could ever use: a leaf root (levels == 0) emits only its
// 8-bit mean, while any deeper tree's root unconditionally emits mean(8)
// and epsilon(2) before the stream can say whether it collapses further.
func minBodyBits(levels int) int {
	if levels == 0 {
		return 8
	}
	return 10
}

func decodeNode(r *bitio.Buffer, t *tree.Tree, idx int) error {
	n := &t.Nodes[idx]

	switch {
	case idx == 0 && t.IsLeaf(0):
		mean, err := r.Pull(8)
		if err != nil {
			return err
		}
		n.Mean = uint8(mean)
		n.Epsilon = 0
		n.Uniform = true
		return nil

	case idx == 0:
		mean, err := r.Pull(8)
		if err != nil {
			return err
		}
		eps, err := r.Pull(2)
		if err != nil {
			return err
		}
		n.Mean = uint8(mean)
		n.Epsilon = uint8(eps)
		if eps == 0 {
			u, err := r.Pull(1)
			if err != nil {
				return err
			}
			n.Uniform = u != 0
		} else {
			n.Uniform = false
		}

	case t.Nodes[tree.Parent(idx)].Uniform:
		p := &t.Nodes[tree.Parent(idx)]
		n.Mean = p.Mean
		n.Epsilon = 0
		n.Uniform = true

	case idx%4 == 0:
		p := &t.Nodes[tree.Parent(idx)]
		sibSum := int(t.Nodes[idx-1].Mean) + int(t.Nodes[idx-2].Mean) + int(t.Nodes[idx-3].Mean)
		mean := 4*int(p.Mean) + int(p.Epsilon) - sibSum
		n.Mean = uint8(mean)
		if t.IsLeaf(idx) {
			n.Epsilon = 0
			n.Uniform = true
		} else {
			eps, err := r.Pull(2)
			if err != nil {
				return err
			}
			n.Epsilon = uint8(eps)
			if eps == 0 {
				u, err := r.Pull(1)
				if err != nil {
					return err
				}
				n.Uniform = u != 0
			} else {
				n.Uniform = false
			}
		}

	default:
		mean, err := r.Pull(8)
		if err != nil {
			return err
		}
		n.Mean = uint8(mean)
		if t.IsLeaf(idx) {
			n.Epsilon = 0
			n.Uniform = true
		} else {
			eps, err := r.Pull(2)
			if err != nil {
				return err
			}
			n.Epsilon = uint8(eps)
			if eps == 0 {
				u, err := r.Pull(1)
				if err != nil {
					return err
				}
				n.Uniform = u != 0
			} else {
				n.Uniform = false
			}
		}
	}

	if n.Uniform || t.IsLeaf(idx) {
		return nil
	}
	for k := 1; k <= 4; k++ {
		if err := decodeNode(r, t, tree.Child(idx, k)); err != nil {
			return err
		}
	}
	return nil
}
