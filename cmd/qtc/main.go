// Command qtc encodes and decodes grayscale images using the quadtree
// codec.
//
// Usage:
//
//	qtc enc [options] -i <input> -o <output.qtc>   raster → Q1 container
//	qtc dec [options] -i <input.qtc> -o <output>    Q1 container → raster
//	qtc grid [options] -i <input> -o <output>       segmentation grid → raster
//	qtc info -i <input.qtc>                         display Q1 metadata
//
// Use "-" as input to read from stdin, "-o -" to write to stdout. enc and
// grid read a file named .pgm or .ppm directly as PGM (P2/P5 only), or any
// format the standard library or golang.org/x/image can decode (PNG, JPEG,
// GIF, BMP, TIFF), which is center-cropped to a square and resized up to
// the smallest power-of-two side not below the crop's side.
package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math/bits"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"

	"github.com/deepteams/quadtree"
	"github.com/deepteams/quadtree/internal/pgm"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "enc":
		err = runEnc(os.Args[2:])
	case "dec":
		err = runDec(os.Args[2:])
	case "grid":
		err = runGrid(os.Args[2:])
	case "info":
		err = runInfo(os.Args[2:])
	case "-h", "-help", "--help", "help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "qtc: unknown command %q\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "qtc: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage:
  qtc enc [-a alpha] [-g] [-v] -i <input> -o <output.qtc>
  qtc dec [-v] -i <input.qtc> -o <output>
  qtc grid [-a alpha] -i <input> -o <output>
  qtc info -i <input.qtc>

Use "-" as input to read from stdin, "-o -" to write to stdout.
`)
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// loadGray reads path as a grayscale image, accepting .pgm/.ppm directly
// and falling back to any registered image.Decode format otherwise.
// Non-PGM input is center-cropped to a square and resized up to the
// smallest power-of-two side not below it using golang.org/x/image/draw.
func loadGray(path string) (image.Image, error) {
	in, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".pgm" || ext == ".ppm" {
		img, err := pgm.Decode(in)
		if err != nil {
			return nil, fmt.Errorf("decoding PGM: %w", err)
		}
		return &image.Gray{Pix: img.Pix, Stride: img.Width, Rect: image.Rect(0, 0, img.Width, img.Height)}, nil
	}

	img, _, err := image.Decode(in)
	if err != nil {
		return nil, fmt.Errorf("decoding input: %w", err)
	}
	return squareify(img), nil
}

// squareify center-crops img to a square and resizes it up to the smallest
// power-of-two side not below the crop's side using a high-quality
// resampler, since the core codec
// only accepts power-of-two square rasters.
func squareify(img image.Image) image.Image {
	b := img.Bounds()
	side := b.Dx()
	if b.Dy() < side {
		side = b.Dy()
	}
	cx := b.Min.X + (b.Dx()-side)/2
	cy := b.Min.Y + (b.Dy()-side)/2
	cropped := image.NewGray(image.Rect(0, 0, side, side))
	draw.Draw(cropped, cropped.Bounds(), img, image.Pt(cx, cy), draw.Src)

	target := nearestPowerOfTwo(side)
	if target == side {
		return cropped
	}
	out := image.NewGray(image.Rect(0, 0, target, target))
	draw.CatmullRom.Scale(out, out.Bounds(), cropped, cropped.Bounds(), draw.Over, nil)
	return out
}

func nearestPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	if bits.OnesCount(uint(n)) == 1 {
		return n
	}
	return 1 << uint(bits.Len(uint(n)))
}

func runEnc(args []string) error {
	fs := flag.NewFlagSet("enc", flag.ContinueOnError)
	alpha := fs.Float64("a", 0, "lossy filter strength, must be > 0 (omit for lossless)")
	grid := fs.Bool("g", false, "also emit the segmentation grid alongside the output")
	input := fs.String("i", "", "input image path")
	output := fs.String("o", "", `output path ("-" for stdout)`)
	verbose := fs.Bool("v", false, "verbose")
	if err := fs.Parse(args); err != nil {
		return err
	}
	alphaSet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "a" {
			alphaSet = true
		}
	})
	if alphaSet && *alpha <= 0 {
		return fmt.Errorf("enc: %w", quadtree.ErrInvalidAlpha)
	}
	if *input == "" || *output == "" {
		return fmt.Errorf("enc: -i and -o are required")
	}

	img, err := loadGray(*input)
	if err != nil {
		return fmt.Errorf("enc: %w", err)
	}

	out, err := openOutput(*output)
	if err != nil {
		return err
	}
	defer out.Close()

	opts := &quadtree.EncoderOptions{Alpha: *alpha, Verbose: *verbose}
	if err := quadtree.Encode(out, img, opts); err != nil {
		return fmt.Errorf("enc: %w", err)
	}
	if *verbose {
		fmt.Fprintf(os.Stderr, "Encoded %s -> %s (alpha=%.2f)\n", *input, *output, *alpha)
	}

	if *grid && *output != "-" {
		rendered, err := quadtree.RenderGrid(img, opts)
		if err != nil {
			return fmt.Errorf("enc: rendering grid: %w", err)
		}
		gridPath := strings.TrimSuffix(*output, filepath.Ext(*output)) + ".grid.pgm"
		gf, err := os.Create(gridPath)
		if err != nil {
			return fmt.Errorf("enc: %w", err)
		}
		defer gf.Close()
		if err := writePGM(gf, rendered); err != nil {
			return fmt.Errorf("enc: writing grid: %w", err)
		}
	}
	return nil
}

func runDec(args []string) error {
	fs := flag.NewFlagSet("dec", flag.ContinueOnError)
	input := fs.String("i", "", "input .qtc path")
	output := fs.String("o", "", `output PGM path ("-" for stdout)`)
	verbose := fs.Bool("v", false, "verbose")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *input == "" || *output == "" {
		return fmt.Errorf("dec: -i and -o are required")
	}

	in, err := openInput(*input)
	if err != nil {
		return err
	}
	defer in.Close()

	img, err := quadtree.Decode(in)
	if err != nil {
		return fmt.Errorf("dec: %w", err)
	}

	out, err := openOutput(*output)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := writePGM(out, img); err != nil {
		return fmt.Errorf("dec: %w", err)
	}
	if *verbose {
		fmt.Fprintf(os.Stderr, "Decoded %s -> %s\n", *input, *output)
	}
	return nil
}

func runGrid(args []string) error {
	fs := flag.NewFlagSet("grid", flag.ContinueOnError)
	alpha := fs.Float64("a", 0, "lossy filter strength before rendering (0 = none)")
	input := fs.String("i", "", "input image path")
	output := fs.String("o", "", `output PGM path ("-" for stdout)`)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *input == "" || *output == "" {
		return fmt.Errorf("grid: -i and -o are required")
	}

	img, err := loadGray(*input)
	if err != nil {
		return fmt.Errorf("grid: %w", err)
	}

	rendered, err := quadtree.RenderGrid(img, &quadtree.EncoderOptions{Alpha: *alpha})
	if err != nil {
		return fmt.Errorf("grid: %w", err)
	}

	out, err := openOutput(*output)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := writePGM(out, rendered); err != nil {
		return fmt.Errorf("grid: %w", err)
	}
	return nil
}

func runInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	input := fs.String("i", "", "input .qtc path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *input == "" {
		return fmt.Errorf("info: -i is required")
	}

	in, err := openInput(*input)
	if err != nil {
		return err
	}
	defer in.Close()

	cfg, err := quadtree.DecodeConfig(in)
	if err != nil {
		return fmt.Errorf("info: %w", err)
	}

	fmt.Printf("File:       %s\n", *input)
	fmt.Printf("Dimensions: %d x %d\n", cfg.Width, cfg.Height)
	if *input != "-" {
		if fi, err := os.Stat(*input); err == nil {
			fmt.Printf("File size:  %d bytes\n", fi.Size())
		}
	}
	return nil
}

// writePGM writes img as a binary P5 PGM image.
func writePGM(w io.Writer, img image.Image) error {
	b := img.Bounds()
	out := &pgm.Image{Width: b.Dx(), Height: b.Dy(), MaxVal: 255, Pix: make([]byte, b.Dx()*b.Dy())}
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, _, _, _ := img.At(x, y).RGBA()
			out.Pix[i] = byte(r >> 8)
			i++
		}
	}
	return pgm.EncodeP5(w, out)
}
