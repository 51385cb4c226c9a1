package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sort"

	_ "image/gif"
	_ "image/jpeg"
)

// Adaptive threshold parameters: local mean over a windowSize×windowSize
// neighbourhood, offset by thresholdC, mirroring the preprocessing the
// recognition accuracy was tuned against.
const (
	windowSize = 11
	thresholdC = 2
)

// Preprocess prepares a fetched image for recognition: grayscale conversion,
// adaptive thresholding against the local mean, and a 3×3 median pass to
// drop salt-and-pepper noise. Output is PNG regardless of input format.
func Preprocess(raw []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	gray := toGray(src)
	bin := adaptiveThreshold(gray)
	den := medianDenoise(bin)

	var out bytes.Buffer
	if err := png.Encode(&out, den); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return out.Bytes(), nil
}

func toGray(src image.Image) *image.Gray {
	b := src.Bounds()
	g := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g.Set(x, y, color.GrayModel.Convert(src.At(x, y)))
		}
	}
	return g
}

// adaptiveThreshold binarizes against the mean of the surrounding window,
// computed in O(1) per pixel with an integral image.
func adaptiveThreshold(g *image.Gray) *image.Gray {
	b := g.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(b)

	integral := make([]uint64, (w+1)*(h+1))
	for y := 0; y < h; y++ {
		var rowSum uint64
		for x := 0; x < w; x++ {
			rowSum += uint64(g.GrayAt(b.Min.X+x, b.Min.Y+y).Y)
			integral[(y+1)*(w+1)+x+1] = integral[y*(w+1)+x+1] + rowSum
		}
	}

	half := windowSize / 2
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			x0, y0 := max(0, x-half), max(0, y-half)
			x1, y1 := min(w-1, x+half), min(h-1, y+half)
			count := uint64((x1 - x0 + 1) * (y1 - y0 + 1))
			sum := integral[(y1+1)*(w+1)+x1+1] - integral[y0*(w+1)+x1+1] -
				integral[(y1+1)*(w+1)+x0] + integral[y0*(w+1)+x0]
			mean := sum / count
			v := uint8(0)
			if uint64(g.GrayAt(b.Min.X+x, b.Min.Y+y).Y)+thresholdC >= mean {
				v = 255
			}
			out.SetGray(b.Min.X+x, b.Min.Y+y, color.Gray{Y: v})
		}
	}
	return out
}

// medianDenoise replaces each pixel with the median of its 3×3 neighbourhood.
func medianDenoise(g *image.Gray) *image.Gray {
	b := g.Bounds()
	out := image.NewGray(b)
	var window [9]uint8
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			n := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					px, py := x+dx, y+dy
					if px < b.Min.X || px >= b.Max.X || py < b.Min.Y || py >= b.Max.Y {
						continue
					}
					window[n] = g.GrayAt(px, py).Y
					n++
				}
			}
			s := window[:n]
			sort.Slice(s, func(i, j int) bool { return s[i] < s[j] })
			out.SetGray(x, y, color.Gray{Y: s[n/2]})
		}
	}
	return out
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
