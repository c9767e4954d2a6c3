// Package meme flattens a photo and its two caption lines into a single
// exportable JPEG.
package meme

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/google/uuid"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
)

// Compose draws the caption over the photo, top and bottom, uppercased in
// bold white with a black outline, and writes the flattened result to a temp
// JPEG. The caller owns (and should eventually remove) the returned file.
func Compose(imagePath, top, bottom string) (string, error) {
	src, err := gg.LoadImage(imagePath)
	if err != nil {
		return "", fmt.Errorf("meme: load %s: %w", filepath.Base(imagePath), err)
	}

	bounds := src.Bounds()
	w := float64(bounds.Dx())
	h := float64(bounds.Dy())

	dc := gg.NewContext(bounds.Dx(), bounds.Dy())
	dc.DrawImage(src, 0, 0)

	size := h / 10
	if size < 18 {
		size = 18
	}
	face, err := captionFace(size)
	if err != nil {
		return "", err
	}
	dc.SetFontFace(face)

	margin := size / 3
	wrapWidth := w * 0.92
	if top != "" {
		drawOutlined(dc, strings.ToUpper(top), w/2, margin, 0, wrapWidth, size)
	}
	if bottom != "" {
		drawOutlined(dc, strings.ToUpper(bottom), w/2, h-margin, 1, wrapWidth, size)
	}

	out := filepath.Join(os.TempDir(), "memecam-meme-"+uuid.NewString()+".jpg")
	if err := imaging.Save(dc.Image(), out, imaging.JPEGQuality(90)); err != nil {
		return "", fmt.Errorf("meme: save composite: %w", err)
	}
	return out, nil
}

// drawOutlined fakes a stroke by stamping the text in black at small offsets
// before filling it in white.
func drawOutlined(dc *gg.Context, text string, x, y, ay, width, size float64) {
	o := size / 15
	if o < 1 {
		o = 1
	}
	dc.SetRGB(0, 0, 0)
	for _, dx := range []float64{-o, 0, o} {
		for _, dy := range []float64{-o, 0, o} {
			if dx == 0 && dy == 0 {
				continue
			}
			dc.DrawStringWrapped(text, x+dx, y+dy, 0.5, ay, width, 1.1, gg.AlignCenter)
		}
	}
	dc.SetRGB(1, 1, 1)
	dc.DrawStringWrapped(text, x, y, 0.5, ay, width, 1.1, gg.AlignCenter)
}

func captionFace(size float64) (font.Face, error) {
	parsed, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("meme: parse font: %w", err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("meme: build font face: %w", err)
	}
	return face, nil
}
