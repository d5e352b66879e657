// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package palette extracts a small color palette from an image.
//
// Images are scaled down to a thumbnail, quantized with median cut, and the
// resulting colors rendered as lowercase hex strings. The palette is also
// written as JSON next to the source image.
package palette

import (
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"

	// Registered decoders for the supported formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"

	"github.com/pdiddy/anvil/pkg/types"
)

// Defaults for palette extraction.
const (
	DefaultColors        = 5
	DefaultThumbnailSize = 150
)

// Extract reads the image at path and returns its palette as hex colors.
func Extract(path string, cfg types.PaletteConfig) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding image %s: %w", path, err)
	}

	return FromImage(img, cfg), nil
}

// FromImage computes the palette of an already decoded image.
func FromImage(img image.Image, cfg types.PaletteConfig) []string {
	colors := cfg.Colors
	if colors <= 0 {
		colors = DefaultColors
	}
	size := cfg.ThumbnailSize
	if size <= 0 {
		size = DefaultThumbnailSize
	}

	small := thumbnail(img, size)
	pixels := collectPixels(small)
	if len(pixels) == 0 {
		return pad(nil, nil, colors)
	}

	boxes := medianCut(pixels, colors)
	hex := make([]string, 0, colors)
	for _, box := range boxes {
		avg := average(box)
		hex = append(hex, fmt.Sprintf("#%02x%02x%02x", avg.r, avg.g, avg.b))
	}

	// Short palettes are padded: the first sampled pixel's color, then black.
	return pad(hex, pixels, colors)
}

// OutputPath returns the sibling JSON path for an image:
// dir/<stem>_palette.json.
func OutputPath(imagePath string) string {
	base := filepath.Base(imagePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(imagePath), stem+"_palette.json")
}

// Save writes the palette as indented JSON next to the source image and
// returns the output path.
func Save(imagePath string, colors []string) (string, error) {
	data, err := json.MarshalIndent(colors, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding palette: %w", err)
	}
	out := OutputPath(imagePath)
	if err := os.WriteFile(out, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("saving palette: %w", err)
	}
	return out, nil
}

type pixel struct {
	r, g, b int
}

// thumbnail scales img to fit within a size×size box, preserving aspect
// ratio. Images already inside the box are returned unchanged.
func thumbnail(img image.Image, size int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= size && h <= size {
		return img
	}

	scale := float64(size) / float64(w)
	if h > w {
		scale = float64(size) / float64(h)
	}
	dw, dh := int(float64(w)*scale), int(float64(h)*scale)
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

func collectPixels(img image.Image) []pixel {
	b := img.Bounds()
	pixels := make([]pixel, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			pixels = append(pixels, pixel{int(r >> 8), int(g >> 8), int(bl >> 8)})
		}
	}
	return pixels
}

// medianCut splits the pixel set into up to n boxes by repeatedly halving
// the box with the widest channel range at its median.
func medianCut(pixels []pixel, n int) [][]pixel {
	boxes := [][]pixel{pixels}

	for len(boxes) < n {
		idx, channel := widestBox(boxes)
		if idx < 0 {
			break
		}

		box := boxes[idx]
		sort.Slice(box, func(i, j int) bool {
			return channelValue(box[i], channel) < channelValue(box[j], channel)
		})

		mid := len(box) / 2
		boxes[idx] = box[:mid]
		boxes = append(boxes, box[mid:])
	}

	return boxes
}

// widestBox returns the index of the splittable box with the largest
// channel range and which channel to split on, or (-1, 0) when no box can
// be split further.
func widestBox(boxes [][]pixel) (int, int) {
	bestIdx, bestChannel, bestRange := -1, 0, 0
	for i, box := range boxes {
		if len(box) < 2 {
			continue
		}
		for ch := 0; ch < 3; ch++ {
			lo, hi := 255, 0
			for _, p := range box {
				v := channelValue(p, ch)
				if v < lo {
					lo = v
				}
				if v > hi {
					hi = v
				}
			}
			if hi-lo > bestRange {
				bestIdx, bestChannel, bestRange = i, ch, hi-lo
			}
		}
	}
	if bestRange == 0 {
		return -1, 0
	}
	return bestIdx, bestChannel
}

func channelValue(p pixel, channel int) int {
	switch channel {
	case 0:
		return p.r
	case 1:
		return p.g
	default:
		return p.b
	}
}

func average(box []pixel) pixel {
	if len(box) == 0 {
		return pixel{}
	}
	var r, g, b int
	for _, p := range box {
		r += p.r
		g += p.g
		b += p.b
	}
	n := len(box)
	return pixel{r / n, g / n, b / n}
}

// pad extends a short palette to n entries: first with the dominant sampled
// color, then with black.
func pad(hex []string, pixels []pixel, n int) []string {
	if len(hex) < n && len(pixels) > 0 {
		p := pixels[0]
		hex = append(hex, fmt.Sprintf("#%02x%02x%02x", p.r, p.g, p.b))
	}
	for len(hex) < n {
		hex = append(hex, "#000000")
	}
	return hex[:n]
}
