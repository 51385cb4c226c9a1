// Package ocr defines the text-recognition collaborator used by the media
// sub-pipeline and ships a tesseract CLI adapter for it. Recognition quality
// depends on the preprocessing step in this package: auction sites serve
// floorplans and scanned registry documents as low-contrast JPEGs.
package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// Word is one recognized token with the engine's confidence for it.
type Word struct {
	Text       string
	Confidence float64
}

// Result is the raw recognition output: full text plus per-word confidence.
type Result struct {
	Text           string
	Words          []Word
	MeanConfidence float64
}

// Recognizer turns preprocessed image bytes into text. Implementations must
// be side-effect-free so results can be cached per extraction call.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte) (Result, error)
}

// Tesseract shells out to the tesseract binary with TSV output. The binary
// and trained language data are the deployment's concern; Available reports
// whether the adapter can run at all.
type Tesseract struct {
	// Binary is the executable path. Empty means "tesseract" on PATH.
	Binary string
	// Language is the trained data set. Empty means "por".
	Language string
}

func (t *Tesseract) binary() string {
	if t.Binary != "" {
		return t.Binary
	}
	return "tesseract"
}

func (t *Tesseract) language() string {
	if t.Language != "" {
		return t.Language
	}
	return "por"
}

// Available reports whether the tesseract binary can be found.
func (t *Tesseract) Available() bool {
	_, err := exec.LookPath(t.binary())
	return err == nil
}

// Recognize runs tesseract in TSV mode and parses per-word confidences.
func (t *Tesseract) Recognize(ctx context.Context, image []byte) (Result, error) {
	dir, err := os.MkdirTemp("", "goleilao-ocr-*")
	if err != nil {
		return Result{}, fmt.Errorf("ocr temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	in := filepath.Join(dir, "input.png")
	if err := os.WriteFile(in, image, 0o600); err != nil {
		return Result{}, fmt.Errorf("ocr temp file: %w", err)
	}

	cmd := exec.CommandContext(ctx, t.binary(), in, "stdout", "--oem", "3", "--psm", "6", "-l", t.language(), "tsv")
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return Result{}, fmt.Errorf("tesseract: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return parseTSV(out.String()), nil
}

// parseTSV reads tesseract's TSV: one row per element, word rows carry a
// non-negative confidence in column 11 and the token in column 12. Rows with
// confidence -1 are layout elements and are skipped.
func parseTSV(tsv string) Result {
	var res Result
	var text strings.Builder
	var confSum float64
	lastLine := ""

	for i, row := range strings.Split(tsv, "\n") {
		if i == 0 {
			continue // header
		}
		cols := strings.Split(row, "\t")
		if len(cols) < 12 {
			continue
		}
		conf, err := strconv.ParseFloat(cols[10], 64)
		if err != nil || conf < 0 {
			continue
		}
		token := strings.TrimSpace(cols[11])
		if token == "" {
			continue
		}
		// block/par/line triple identifies the text line
		lineKey := cols[2] + "." + cols[3] + "." + cols[4]
		if text.Len() > 0 {
			if lineKey != lastLine {
				text.WriteString("\n")
			} else {
				text.WriteString(" ")
			}
		}
		lastLine = lineKey
		text.WriteString(token)
		res.Words = append(res.Words, Word{Text: token, Confidence: conf})
		confSum += conf
	}
	res.Text = text.String()
	if len(res.Words) > 0 {
		res.MeanConfidence = confSum / float64(len(res.Words))
	}
	return res
}
