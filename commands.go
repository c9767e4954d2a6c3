package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"memecam/internal/camera"
	"memecam/internal/gallery"
	"memecam/internal/meme"
	"memecam/internal/photo"
)

// ---------------------------------------------------------------------------
// Async commands
// ---------------------------------------------------------------------------
//
// Everything that touches hardware, disk, or the network runs as a tea.Cmd
// and reports back with a typed message. The Update loop stays single
// threaded; loading indicators cover the gaps.

func probeCmd(cam camera.Device, store gallery.Store) tea.Cmd {
	return func() tea.Msg {
		return permissionMsg{
			camErr:     cam.Probe(),
			galleryErr: store.Probe(),
		}
	}
}

// captureCmd shoots a photo. Front-sensor frames come back mirrored like the
// preview, so they are flipped before being adopted.
func captureCmd(cam camera.Device, opts camera.Options, gen int, log *logrus.Logger) tea.Cmd {
	return func() tea.Msg {
		path, err := cam.Capture(context.Background(), opts)
		if err == nil && opts.Facing == camera.FacingFront {
			flipped, flipErr := photo.FlipMirror(path)
			os.Remove(path)
			if flipErr != nil {
				err = flipErr
				path = ""
			} else {
				path = flipped
			}
		}
		if err != nil {
			log.WithError(err).Warn("capture failed")
		} else {
			log.WithField("path", path).Info("captured")
		}
		return captureDoneMsg{gen: gen, path: path, err: err}
	}
}

// captionCmd downsizes and recompresses the photo, then asks the provider
// for a two-part caption.
func (m model) captionCmd(gen int) tea.Cmd {
	imagePath := m.imagePath
	maxWidth := m.cfg.Caption.MaxWidth
	quality := m.cfg.Caption.JPEGQuality
	client := m.captions
	log := m.log
	return func() tea.Msg {
		data, err := photo.EncodeForUpload(imagePath, maxWidth, quality)
		if err != nil {
			return captionDoneMsg{gen: gen, err: err}
		}
		cap, err := client.Generate(context.Background(), data)
		if err != nil {
			log.WithError(err).Warn("caption failed")
		}
		return captionDoneMsg{gen: gen, cap: cap, err: err}
	}
}

// saveCmd flattens the photo with its caption overlay and writes the result
// into the gallery. The intermediate composite is a temp file and is removed
// once the gallery copy exists.
func (m model) saveCmd(gen int) tea.Cmd {
	imagePath := m.imagePath
	cap := m.meme
	store := m.store
	log := m.log
	return func() tea.Msg {
		composite, err := meme.Compose(imagePath, cap.Top, cap.Bottom)
		if err != nil {
			log.WithError(err).Warn("composite failed")
			return saveDoneMsg{gen: gen, err: err}
		}
		dest, err := store.Save(context.Background(), composite)
		os.Remove(composite)
		if err != nil {
			log.WithError(err).Warn("gallery write failed")
		}
		return saveDoneMsg{gen: gen, dest: dest, err: err}
	}
}

func loadImagesCmd(dir string) tea.Cmd {
	return func() tea.Msg {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return imagesLoadedMsg{err: err}
		}
		var items []list.Item
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			switch strings.ToLower(filepath.Ext(entry.Name())) {
			case ".jpg", ".jpeg", ".png":
				items = append(items, imageItem{name: entry.Name()})
			}
		}
		return imagesLoadedMsg{items: items}
	}
}

func noticeCmd(seq int) tea.Cmd {
	return tea.Tick(2500*time.Millisecond, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}
