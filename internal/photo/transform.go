// Package photo prepares captured images: mirror correction for front-sensor
// shots and bounded-size JPEG recompression for upload.
package photo

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// FlipMirror writes a horizontally flipped copy of the image to a temp file
// and returns its path. Front-sensor captures are mirrored like the preview;
// flipping restores the scene orientation.
func FlipMirror(path string) (string, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return "", fmt.Errorf("photo: open %s: %w", filepath.Base(path), err)
	}
	out := tempJPEG()
	if err := imaging.Save(imaging.FlipH(img), out, imaging.JPEGQuality(92)); err != nil {
		return "", fmt.Errorf("photo: save flipped image: %w", err)
	}
	return out, nil
}

// EncodeForUpload re-encodes the image as a JPEG no wider than maxWidth at
// the given quality and returns the raw bytes.
func EncodeForUpload(path string, maxWidth, quality int) ([]byte, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("photo: open %s: %w", filepath.Base(path), err)
	}
	if maxWidth > 0 && img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}
	if quality <= 0 {
		quality = 80
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("photo: encode: %w", err)
	}
	return buf.Bytes(), nil
}

func tempJPEG() string {
	return filepath.Join(os.TempDir(), "memecam-"+uuid.NewString()+".jpg")
}
