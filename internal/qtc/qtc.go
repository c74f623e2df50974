// Package qtc implements the Q1 container format: a text-line header
// (magic, a compression-date comment, a compression-rate comment)
// followed by the core's opaque bit payload.
package qtc

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"
)

// Magic is the Q1 container's magic line.
const Magic = "Q1"

// Common errors.
var (
	ErrInvalidMagic = errors.New("qtc: invalid magic")
	ErrTruncated    = errors.New("qtc: truncated container")
)

// Write emits a complete Q1 container: the magic line, a compression-date
// comment, a compression-rate comment, then the raw payload (the codec's
// header byte plus bit-packed body). The rate is computed here by
// CompressionRate from payload and width, as a percentage of body bits over
// the uncompressed raster size; the levels header byte itself is framing,
// not coded payload, and is excluded from that ratio.
func Write(w io.Writer, payload []byte, now time.Time, width int) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "%s\n", Magic); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(bw, "# Compression date : %s\n", now.Format(time.ANSIC)); err != nil {
		return err
	}
	rate := CompressionRate(payload, width)
	if _, err := fmt.Fprintf(bw, "# Compression rate %.2f%%\n", rate); err != nil {
		return err
	}
	if _, err := bw.Write(payload); err != nil {
		return err
	}
	return bw.Flush()
}

// CompressionRate reports the payload's size as a percentage of the
// uncompressed raster size (width*width bytes), excluding the one-byte
// levels header from the numerator.
func CompressionRate(payload []byte, width int) float64 {
	if width <= 0 || len(payload) == 0 {
		return 0
	}
	bodyBits := (len(payload) - 1) * 8
	total := width * width * 8
	return float64(bodyBits) / float64(total) * 100
}

// Read parses a Q1 container, skipping any number of leading comment
// lines, and returns the raw payload that follows them. Each line is
// tokenized fresh (never reusing a stale buffer across lines, unlike the
// defect noted for the PGM P2 reader this format's collaborator works
// around).
func Read(r io.Reader) ([]byte, error) {
	br := bufio.NewReader(r)

	magic, err := readLine(br)
	if err != nil {
		return nil, ErrTruncated
	}
	if magic != Magic {
		return nil, ErrInvalidMagic
	}

	for {
		peek, err := br.Peek(1)
		if err != nil {
			return nil, ErrTruncated
		}
		if peek[0] != '#' {
			break
		}
		if _, err := readLine(br); err != nil {
			return nil, ErrTruncated
		}
	}

	rest, err := io.ReadAll(br)
	if err != nil {
		return nil, err
	}
	return rest, nil
}

// readLine reads one newline-terminated line, stripped of its trailing
// newline, from a fresh read rather than a reused scan buffer.
func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return string(bytes.TrimRight([]byte(line), "\n")), nil
}
