package ocr

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"
)

const sampleTSV = "level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n" +
	"1\t1\t0\t0\t0\t0\t0\t0\t100\t100\t-1\t\n" +
	"5\t1\t1\t1\t1\t1\t5\t5\t30\t10\t91.5\tÁrea\n" +
	"5\t1\t1\t1\t1\t2\t40\t5\t30\t10\t88.5\ttotal\n" +
	"5\t1\t1\t1\t2\t1\t5\t20\t40\t10\t96.0\t120,00\n" +
	"5\t1\t1\t1\t2\t2\t50\t20\t20\t10\t84.0\tm²\n"

func TestParseTSV(t *testing.T) {
	res := parseTSV(sampleTSV)

	if res.Text != "Área total\n120,00 m²" {
		t.Errorf("text = %q", res.Text)
	}
	if len(res.Words) != 4 {
		t.Fatalf("words = %d", len(res.Words))
	}
	if res.Words[0].Text != "Área" || res.Words[0].Confidence != 91.5 {
		t.Errorf("first word = %+v", res.Words[0])
	}
	want := (91.5 + 88.5 + 96.0 + 84.0) / 4
	if math.Abs(res.MeanConfidence-want) > 1e-9 {
		t.Errorf("mean confidence = %v, want %v", res.MeanConfidence, want)
	}
}

func TestParseTSVSkipsLayoutRows(t *testing.T) {
	res := parseTSV("header\n1\t1\t1\t1\t1\t0\t0\t0\t9\t9\t-1\t\n")
	if len(res.Words) != 0 || res.Text != "" || res.MeanConfidence != 0 {
		t.Errorf("layout-only TSV produced %+v", res)
	}
}

func TestParseTSVToleratesShortRows(t *testing.T) {
	res := parseTSV("header\ngarbage\n\n")
	if len(res.Words) != 0 {
		t.Errorf("words = %v", res.Words)
	}
}

// checkerboard renders black text-like pixels on white for preprocessing.
func checkerboard(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBA{255, 255, 255, 255}
			if (x/4+y/4)%2 == 0 {
				c = color.RGBA{30, 30, 30, 255}
			}
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

func TestPreprocessProducesBinaryPNG(t *testing.T) {
	out, err := Preprocess(checkerboard(32, 32))
	if err != nil {
		t.Fatalf("Preprocess: %v", err)
	}

	img, format, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if format != "png" {
		t.Errorf("format = %q", format)
	}
	if img.Bounds().Dx() != 32 || img.Bounds().Dy() != 32 {
		t.Errorf("bounds = %v", img.Bounds())
	}
	for y := 0; y < 32; y += 7 {
		for x := 0; x < 32; x += 7 {
			g := color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y
			if g != 0 && g != 255 {
				t.Fatalf("pixel (%d,%d) = %d, not binarized", x, y, g)
			}
		}
	}
}

func TestPreprocessRejectsGarbage(t *testing.T) {
	if _, err := Preprocess([]byte("not an image")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestTesseractDefaults(t *testing.T) {
	tess := &Tesseract{}
	if tess.binary() != "tesseract" {
		t.Errorf("binary = %q", tess.binary())
	}
	if tess.language() != "por" {
		t.Errorf("language = %q", tess.language())
	}
}
