package main

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"memecam/internal/camera"
	"memecam/internal/caption"
	"memecam/internal/config"
	"memecam/internal/gallery"
)

const appName = "MemeCam"

// ---------------------------------------------------------------------------
// Bubble Tea messages
// ---------------------------------------------------------------------------
//
// Every result message for a capture cycle carries the generation token it
// was issued under. The model bumps its generation whenever a new capture,
// import, retry, or "new photo" supersedes outstanding work; stale results
// are discarded instead of being applied to whatever state is current.

type permissionMsg struct {
	camErr     error
	galleryErr error
}

type captureDoneMsg struct {
	gen  int
	path string
	err  error
}

type captionDoneMsg struct {
	gen int
	cap caption.Caption
	err error
}

type saveDoneMsg struct {
	gen  int
	dest string
	err  error
}

type imagesLoadedMsg struct {
	items []list.Item
	err   error
}

type noticeExpiredMsg struct {
	seq int
}

// ---------------------------------------------------------------------------
// Model
// ---------------------------------------------------------------------------

type model struct {
	cfg      config.Config
	cam      camera.Device
	captions caption.Client
	store    gallery.Store
	log      *logrus.Logger

	state      screenState
	generation int

	facing camera.Facing
	torch  bool

	imagePath  string
	meme       caption.Caption
	hasCaption bool

	captioning bool
	saving     bool

	camErr     error
	galleryErr error
	probing    bool

	status    string
	statusErr bool
	notice    string
	noticeSeq int

	showPicker  bool
	pickerReady bool
	imageList   list.Model

	keys   keyMap
	width  int
	height int
}

func newModel(cfg config.Config, cam camera.Device, captions caption.Client, store gallery.Store, log *logrus.Logger) model {
	listModel := list.New([]list.Item{}, imageItemDelegate{}, 0, 0)
	listModel.Title = "Import from " + cfg.Library.PicturesDir
	listModel.Styles.Title = titleStyle
	listModel.Styles.NoItems = lipgloss.NewStyle()
	listModel.SetShowStatusBar(false)
	listModel.SetFilteringEnabled(false)
	listModel.SetShowHelp(false)
	listModel.DisableQuitKeybindings()

	return model{
		cfg:       cfg,
		cam:       cam,
		captions:  captions,
		store:     store,
		log:       log,
		state:     stateGate,
		facing:    camera.FacingBack,
		probing:   true,
		status:    "Checking camera and gallery access...",
		imageList: listModel,
		keys:      newKeyMap(),
	}
}

// newCycle supersedes any in-flight async work for the previous image.
func (m *model) newCycle() int {
	m.generation++
	return m.generation
}

func (m *model) setError(text string) {
	m.status = text
	m.statusErr = true
}

func (m *model) setStatus(text string) {
	m.status = text
	m.statusErr = false
}

func (m *model) clearCapture() {
	m.imagePath = ""
	m.meme = caption.Caption{}
	m.hasCaption = false
	m.captioning = false
	m.saving = false
}

func (m model) permissionsGranted() bool {
	return m.camErr == nil && m.galleryErr == nil
}
