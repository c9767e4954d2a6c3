// Package gallery exports finished memes to the user's picture library.
package gallery

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Store is a writable picture library.
type Store interface {
	// Probe reports whether the library can be written to.
	Probe() error
	// Save copies the image file into the library and returns the
	// destination path.
	Save(ctx context.Context, srcPath string) (string, error)
}

// Local writes memes into a directory on disk.
type Local struct {
	dir string
	log *logrus.Logger
}

func NewLocal(dir string, log *logrus.Logger) *Local {
	return &Local{dir: dir, log: log}
}

func (l *Local) Probe() error {
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return fmt.Errorf("gallery: create %s: %w", l.dir, err)
	}
	probe, err := os.CreateTemp(l.dir, ".probe-*")
	if err != nil {
		return fmt.Errorf("gallery: %s not writable: %w", l.dir, err)
	}
	name := probe.Name()
	probe.Close()
	return os.Remove(name)
}

func (l *Local) Save(ctx context.Context, srcPath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	src, err := os.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("gallery: open source: %w", err)
	}
	defer src.Close()

	name := fmt.Sprintf("meme-%s-%s.jpg", time.Now().Format("20060102-150405"), uuid.NewString()[:8])
	dest := filepath.Join(l.dir, name)
	out, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("gallery: create %s: %w", name, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		os.Remove(dest)
		return "", fmt.Errorf("gallery: write %s: %w", name, err)
	}
	l.log.WithField("file", name).Info("meme saved")
	return dest, nil
}
