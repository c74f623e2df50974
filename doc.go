// Package quadtree implements a lossless and lossy grayscale image codec
// based on a complete quadtree decomposition of square, power-of-two-sided
// images.
//
// The package registers itself with the standard library's image package
// under the "qtc" format name, so image.Decode transparently recognizes
// Q1 containers.
//
// Basic usage for encoding:
//
//	err := quadtree.Encode(w, img, &quadtree.EncoderOptions{Alpha: 2.0})
//
// Basic usage for decoding:
//
//	img, err := quadtree.Decode(r)
package quadtree
