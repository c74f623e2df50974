package pgm

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestP5RoundTrip(t *testing.T) {
	img := &Image{Width: 2, Height: 2, MaxVal: 255, Pix: []byte{10, 20, 30, 40}}
	var buf bytes.Buffer
	require.NoError(t, EncodeP5(&buf, img))

	got, err := Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, img, got)
}

func TestP2RoundTrip(t *testing.T) {
	img := &Image{Width: 2, Height: 2, MaxVal: 255, Pix: []byte{10, 20, 30, 40}}
	var buf bytes.Buffer
	require.NoError(t, EncodeP2(&buf, img))

	got, err := Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, img, got)
}

func TestP2WithComments(t *testing.T) {
	raw := "P2\n# a comment\n2 2\n# another\n255\n10 20\n30 40\n"
	got, err := Decode(bytes.NewBufferString(raw))
	require.NoError(t, err)
	require.Equal(t, &Image{Width: 2, Height: 2, MaxVal: 255, Pix: []byte{10, 20, 30, 40}}, got)
}

func TestDecodeInvalidMagic(t *testing.T) {
	_, err := Decode(bytes.NewBufferString("P3\n2 2\n255\n"))
	require.ErrorIs(t, err, ErrInvalidMagic)
}

func TestDecodeTruncated(t *testing.T) {
	_, err := Decode(bytes.NewBufferString("P5\n2 2\n255\n\x0a"))
	require.ErrorIs(t, err, ErrTruncated)
}
