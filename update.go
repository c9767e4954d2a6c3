package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"memecam/internal/camera"
	"memecam/internal/caption"
)

const cameraReadyStatus = "Ready. Press space to shoot or g to import."

// ---------------------------------------------------------------------------
// Bubble Tea interface: Init / Update
// ---------------------------------------------------------------------------

func (m model) Init() tea.Cmd {
	return probeCmd(m.cam, m.store)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case permissionMsg:
		return m.handlePermissions(msg)
	case captureDoneMsg:
		return m.handleCaptureDone(msg)
	case captionDoneMsg:
		return m.handleCaptionDone(msg)
	case saveDoneMsg:
		return m.handleSaveDone(msg)
	case imagesLoadedMsg:
		return m.handleImagesLoaded(msg)
	case noticeExpiredMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeList()
		return m, nil
	case tea.KeyMsg:
		if m.showPicker {
			return m.updatePicker(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

// ---------------------------------------------------------------------------
// Message handlers
// ---------------------------------------------------------------------------

func (m model) handlePermissions(msg permissionMsg) (tea.Model, tea.Cmd) {
	m.probing = false
	m.camErr = msg.camErr
	m.galleryErr = msg.galleryErr
	if !m.permissionsGranted() {
		m.setError("Access missing. Press r to check again.")
		return m, nil
	}
	if m.state == stateGate {
		next, err := transition(m.state, eventPermissionsGranted)
		if err != nil {
			m.setError(err.Error())
			return m, nil
		}
		m.state = next
		m.setStatus(cameraReadyStatus)
	}
	return m, nil
}

func (m model) handleCaptureDone(msg captureDoneMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.generation {
		if msg.err == nil && msg.path != "" {
			os.Remove(msg.path)
		}
		m.log.WithFields(logrus.Fields{"got": msg.gen, "want": m.generation}).
			Debug("dropping stale capture result")
		return m, nil
	}
	if msg.err != nil {
		m.setError(fmt.Sprintf("Capture failed: %v", msg.err))
		return m, nil
	}
	next, err := transition(m.state, eventCaptured)
	if err != nil {
		m.setError(err.Error())
		return m, nil
	}
	m.state = next
	m.clearCapture()
	m.imagePath = msg.path
	m.captioning = true
	m.setStatus("Generating caption...")
	return m, m.captionCmd(msg.gen)
}

func (m model) handleCaptionDone(msg captionDoneMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.generation {
		m.log.WithFields(logrus.Fields{"got": msg.gen, "want": m.generation}).
			Debug("dropping stale caption result")
		return m, nil
	}
	m.captioning = false
	if msg.err != nil {
		if errors.Is(msg.err, caption.ErrQuotaExceeded) {
			m.setError("Caption quota exceeded, try again later. Press r to retry.")
		} else {
			m.setError("Failed to generate a caption. Press r to retry.")
		}
		return m, nil
	}
	next, err := transition(m.state, eventCaptioned)
	if err != nil {
		m.setError(err.Error())
		return m, nil
	}
	m.state = next
	m.meme = msg.cap
	m.hasCaption = true
	m.setStatus("Caption ready. Press s to save, n for a new photo.")
	return m, nil
}

func (m model) handleSaveDone(msg saveDoneMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.generation {
		return m, nil
	}
	m.saving = false
	if msg.err != nil {
		m.setError(fmt.Sprintf("Save failed: %v. Press s to retry.", msg.err))
		return m, nil
	}
	next, err := transition(m.state, eventSaved)
	if err != nil {
		m.setError(err.Error())
		return m, nil
	}
	m.state = next
	m.clearCapture()
	m.newCycle()
	m.notice = "Saved " + filepath.Base(msg.dest)
	m.noticeSeq++
	m.setStatus(cameraReadyStatus)
	return m, noticeCmd(m.noticeSeq)
}

func (m model) handleImagesLoaded(msg imagesLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.setError(fmt.Sprintf("Cannot list pictures: %v", msg.err))
		m.showPicker = false
		return m, nil
	}
	m.imageList.SetItems(msg.items)
	m.pickerReady = true
	return m, nil
}

// ---------------------------------------------------------------------------
// Key-input handlers
// ---------------------------------------------------------------------------

func (m model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	}

	switch m.state {
	case stateGate:
		return m.updateGate(msg)
	case stateCamera:
		return m.updateCamera(msg)
	case statePreview, stateEditing:
		return m.updatePreview(msg)
	}
	return m, nil
}

func (m model) updateGate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "r" && !m.probing {
		m.probing = true
		m.setStatus("Checking camera and gallery access...")
		return m, probeCmd(m.cam, m.store)
	}
	return m, nil
}

func (m model) updateCamera(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case " ", "enter":
		gen := m.newCycle()
		m.setStatus("Capturing...")
		opts := camera.Options{Facing: m.facing, Torch: m.torch, Quality: m.cfg.Camera.Quality}
		return m, captureCmd(m.cam, opts, gen, m.log)
	case "g":
		m.showPicker = true
		m.pickerReady = false
		m.imageList.Select(0)
		return m, loadImagesCmd(m.cfg.Library.PicturesDir)
	case "f":
		if m.facing == camera.FacingBack {
			m.facing = camera.FacingFront
		} else {
			m.facing = camera.FacingBack
		}
		m.setStatus("Camera: " + m.facing.String())
		return m, nil
	case "t":
		m.torch = !m.torch
		if m.torch {
			m.setStatus("Torch on")
		} else {
			m.setStatus("Torch off")
		}
		return m, nil
	case "s":
		// The transition table rejects this instead of the view masking it.
		if _, err := transition(m.state, eventSaved); err != nil {
			m.setError("Nothing to save yet.")
		}
		return m, nil
	}
	return m, nil
}

func (m model) updatePreview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "n":
		next, err := transition(m.state, eventNewPhoto)
		if err != nil {
			m.setError(err.Error())
			return m, nil
		}
		m.state = next
		m.newCycle()
		m.clearCapture()
		m.setStatus(cameraReadyStatus)
		return m, nil
	case "r":
		if m.captioning || m.hasCaption || m.imagePath == "" {
			return m, nil
		}
		gen := m.newCycle()
		m.captioning = true
		m.setStatus("Generating caption...")
		return m, m.captionCmd(gen)
	case "s":
		if m.saving {
			return m, nil
		}
		if _, err := transition(m.state, eventSaved); err != nil {
			m.setError("No caption yet, nothing to save.")
			return m, nil
		}
		m.saving = true
		m.setStatus("Saving meme...")
		return m, m.saveCmd(m.generation)
	}
	return m, nil
}
