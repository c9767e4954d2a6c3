package meme

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
)

func darkFixture(t *testing.T, w, h int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "photo.jpg")
	img := imaging.New(w, h, color.NRGBA{R: 10, G: 10, B: 10, A: 255})
	if err := imaging.Save(img, path); err != nil {
		t.Fatalf("save fixture: %v", err)
	}
	return path
}

func TestComposeKeepsDimensionsAndDrawsText(t *testing.T) {
	src := darkFixture(t, 400, 300)
	out, err := Compose(src, "When Monday hits", "But you already planned your nap")
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	t.Cleanup(func() { os.Remove(out) })

	img, err := imaging.Open(out)
	if err != nil {
		t.Fatalf("open composite: %v", err)
	}
	if img.Bounds().Dx() != 400 || img.Bounds().Dy() != 300 {
		t.Fatalf("composite bounds = %v, want 400x300", img.Bounds())
	}

	// White caption text on a near-black photo: both caption bands must
	// contain bright pixels, the middle untouched band must not.
	if !hasBrightPixel(img, 0, 80) {
		t.Error("no caption drawn in the top band")
	}
	if !hasBrightPixel(img, 220, 300) {
		t.Error("no caption drawn in the bottom band")
	}
	if hasBrightPixel(img, 130, 170) {
		t.Error("middle of the photo should be untouched")
	}
}

func TestComposeMissingSource(t *testing.T) {
	if _, err := Compose(filepath.Join(t.TempDir(), "missing.jpg"), "a", "b"); err == nil {
		t.Fatal("expected error for missing source image")
	}
}

func hasBrightPixel(img image.Image, y0, y1 int) bool {
	bounds := img.Bounds()
	for y := y0; y < y1 && y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.R > 200 && c.G > 200 && c.B > 200 {
				return true
			}
		}
	}
	return false
}
