package main

import (
	"context"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/disintegration/imaging"

	"memecam/internal/camera"
	"memecam/internal/caption"
	"memecam/internal/config"
	"memecam/internal/logger"
)

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

type fakeCamera struct {
	path     string
	err      error
	probeErr error
	calls    int
}

func (f *fakeCamera) Probe() error { return f.probeErr }
func (f *fakeCamera) Capture(_ context.Context, _ camera.Options) (string, error) {
	f.calls++
	return f.path, f.err
}

type fakeCaptioner struct {
	cap       caption.Caption
	err       error
	calls     int
	lastBytes int
}

func (f *fakeCaptioner) Generate(_ context.Context, jpeg []byte) (caption.Caption, error) {
	f.calls++
	f.lastBytes = len(jpeg)
	if f.err != nil {
		return caption.Caption{}, f.err
	}
	return f.cap, nil
}

type fakeStore struct {
	err      error
	probeErr error
	saves    int
}

func (f *fakeStore) Probe() error { return f.probeErr }
func (f *fakeStore) Save(_ context.Context, _ string) (string, error) {
	f.saves++
	if f.err != nil {
		return "", f.err
	}
	return "/gallery/meme-test.jpg", nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func applyMsg(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	got, ok := next.(model)
	if !ok {
		t.Fatalf("Update returned %T, want model", next)
	}
	return got, cmd
}

func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command, got nil")
	}
	return cmd()
}

// writeTestJPEG writes a small solid-color photo fixture.
func writeTestJPEG(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	img := imaging.New(64, 48, color.NRGBA{R: 40, G: 40, B: 40, A: 255})
	if err := imaging.Save(img, path); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

type testEnv struct {
	cam      *fakeCamera
	captions *fakeCaptioner
	store    *fakeStore
	photo    string
}

// testModel returns a model past the permission gate, in CAMERA.
func testModel(t *testing.T) (model, *testEnv) {
	t.Helper()
	dir := t.TempDir()
	env := &testEnv{
		cam:      &fakeCamera{},
		captions: &fakeCaptioner{},
		store:    &fakeStore{},
		photo:    writeTestJPEG(t, dir, "shot.jpg"),
	}
	env.cam.path = env.photo

	cfg := config.Config{
		Caption: config.CaptionConfig{MaxWidth: 512, JPEGQuality: 80},
		Library: config.LibraryConfig{PicturesDir: dir, GalleryDir: filepath.Join(dir, "gallery")},
	}
	m := newModel(cfg, env.cam, env.captions, env.store, logger.Nop())
	m, _ = applyMsg(t, m, permissionMsg{})
	if m.state != stateCamera {
		t.Fatalf("state after grant = %s, want camera", m.state)
	}
	return m, env
}

// captureToPreview drives a successful capture and returns the model in
// PREVIEW with the caption request outstanding.
func captureToPreview(t *testing.T, m model) (model, tea.Cmd) {
	t.Helper()
	m, cmd := applyMsg(t, m, keyMsg(" "))
	msg := runCmd(t, cmd)
	done, ok := msg.(captureDoneMsg)
	if !ok {
		t.Fatalf("capture command returned %T", msg)
	}
	if done.err != nil {
		t.Fatalf("capture failed: %v", done.err)
	}
	m, captionCmd := applyMsg(t, m, done)
	if m.state != statePreview {
		t.Fatalf("state = %s, want preview", m.state)
	}
	if m.imagePath == "" {
		t.Fatal("image path not set before caption generation")
	}
	if captionCmd == nil {
		t.Fatal("caption generation should start immediately after capture")
	}
	return m, captionCmd
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestPermissionGateBlocksUntilGranted(t *testing.T) {
	cfg := config.Config{}
	env := &fakeCamera{probeErr: errors.New("no device")}
	m := newModel(cfg, env, &fakeCaptioner{}, &fakeStore{}, logger.Nop())

	m, _ = applyMsg(t, m, permissionMsg{camErr: env.probeErr})
	if m.state != stateGate {
		t.Fatalf("state = %s, want gate while camera access is missing", m.state)
	}
	if !m.statusErr {
		t.Fatal("expected error status on the gate")
	}

	m, cmd := applyMsg(t, m, keyMsg("r"))
	if cmd == nil {
		t.Fatal("retry should issue a new probe")
	}
	m, _ = applyMsg(t, m, permissionMsg{})
	if m.state != stateCamera {
		t.Fatalf("state = %s, want camera after both probes pass", m.state)
	}
}

func TestCaptureMovesToPreviewAndStartsCaption(t *testing.T) {
	m, env := testModel(t)
	env.captions.cap = caption.Caption{Top: "When Monday hits", Bottom: "But you already planned your nap"}

	m, captionCmd := captureToPreview(t, m)
	if !m.captioning {
		t.Fatal("captioning flag not set")
	}

	m, _ = applyMsg(t, m, runCmd(t, captionCmd))
	if m.state != stateEditing {
		t.Fatalf("state = %s, want editing after caption success", m.state)
	}
	if m.meme.Top != "When Monday hits" || m.meme.Bottom != "But you already planned your nap" {
		t.Fatalf("caption = %+v", m.meme)
	}
	if env.captions.lastBytes == 0 {
		t.Fatal("caption request carried no image payload")
	}
}

func TestCaptureFailureStaysInCamera(t *testing.T) {
	m, env := testModel(t)
	env.cam.err = errors.New("device busy")

	m, cmd := applyMsg(t, m, keyMsg(" "))
	m, next := applyMsg(t, m, runCmd(t, cmd))
	if m.state != stateCamera {
		t.Fatalf("state = %s, want camera after capture failure", m.state)
	}
	if !m.statusErr {
		t.Fatal("expected error status")
	}
	if next != nil {
		t.Fatal("no caption request should start after a failed capture")
	}
}

func TestCaptionWithoutDelimiterSetsNoCaption(t *testing.T) {
	m, env := testModel(t)
	env.captions.err = caption.ErrMalformedResponse

	m, captionCmd := captureToPreview(t, m)
	m, _ = applyMsg(t, m, runCmd(t, captionCmd))
	if m.hasCaption {
		t.Fatal("caption must not be set on a malformed response")
	}
	if m.state != statePreview {
		t.Fatalf("state = %s, want preview with error banner", m.state)
	}
	if !m.statusErr {
		t.Fatal("expected error banner")
	}
}

func TestQuotaErrorShowsDistinctMessageAndRetryReusesImage(t *testing.T) {
	m, env := testModel(t)
	env.captions.err = caption.ErrQuotaExceeded

	m, captionCmd := captureToPreview(t, m)
	m, _ = applyMsg(t, m, runCmd(t, captionCmd))
	if want := "try again later"; !containsFold(m.status, want) {
		t.Fatalf("status %q should mention %q", m.status, want)
	}

	imageBefore := m.imagePath
	env.captions.err = nil
	env.captions.cap = caption.Caption{Top: "A", Bottom: "B"}
	m, retryCmd := applyMsg(t, m, keyMsg("r"))
	if !m.captioning {
		t.Fatal("retry should restart captioning")
	}
	if m.imagePath != imageBefore {
		t.Fatal("retry must reuse the same captured image")
	}
	m, _ = applyMsg(t, m, runCmd(t, retryCmd))
	if env.captions.calls != 2 {
		t.Fatalf("caption calls = %d, want 2", env.captions.calls)
	}
	if m.state != stateEditing || !m.hasCaption {
		t.Fatalf("retry did not recover: state=%s hasCaption=%v", m.state, m.hasCaption)
	}
}

func TestStaleCaptionResultDiscarded(t *testing.T) {
	m, env := testModel(t)
	env.captions.err = errors.New("slow network")

	m, captionCmd := captureToPreview(t, m)
	staleGen := m.generation
	m, _ = applyMsg(t, m, runCmd(t, captionCmd))

	// Retry supersedes the failed request; a late result from the old
	// generation must not be applied.
	m, _ = applyMsg(t, m, keyMsg("r"))
	m, _ = applyMsg(t, m, captionDoneMsg{
		gen: staleGen,
		cap: caption.Caption{Top: "stale", Bottom: "stale"},
	})
	if m.hasCaption {
		t.Fatal("stale caption result was applied")
	}
	if m.state != statePreview {
		t.Fatalf("state = %s, want preview", m.state)
	}
}

func TestSaveIsSingleFlight(t *testing.T) {
	m, env := testModel(t)
	env.captions.cap = caption.Caption{Top: "top", Bottom: "bottom"}
	m, captionCmd := captureToPreview(t, m)
	m, _ = applyMsg(t, m, runCmd(t, captionCmd))

	m, saveCmd := applyMsg(t, m, keyMsg("s"))
	if saveCmd == nil {
		t.Fatal("save should start from editing")
	}
	if !m.saving {
		t.Fatal("saving guard not set")
	}

	m, second := applyMsg(t, m, keyMsg("s"))
	if second != nil {
		t.Fatal("second save while one is in flight must be a no-op")
	}

	m, _ = applyMsg(t, m, runCmd(t, saveCmd))
	if env.store.saves != 1 {
		t.Fatalf("gallery writes = %d, want exactly 1", env.store.saves)
	}
	if m.state != stateCamera {
		t.Fatalf("state = %s, want camera after save", m.state)
	}
	if m.notice == "" {
		t.Fatal("expected a confirmation notice")
	}
	if m.imagePath != "" || m.hasCaption {
		t.Fatal("capture state should be discarded after save")
	}
}

func TestNewPhotoDuringSaveReleasesGuard(t *testing.T) {
	m, env := testModel(t)
	env.captions.cap = caption.Caption{Top: "top", Bottom: "bottom"}
	m, captionCmd := captureToPreview(t, m)
	m, _ = applyMsg(t, m, runCmd(t, captionCmd))

	m, _ = applyMsg(t, m, keyMsg("s"))
	staleGen := m.generation
	m, _ = applyMsg(t, m, keyMsg("n"))
	if m.saving {
		t.Fatal("new photo should release the saving guard")
	}

	// The superseded save finishing late must stay discarded.
	m, _ = applyMsg(t, m, saveDoneMsg{gen: staleGen, dest: "/gallery/meme-old.jpg"})
	if m.state != stateCamera || m.notice != "" {
		t.Fatal("stale save result must not be applied")
	}

	// The next meme must still be saveable.
	m, captionCmd = captureToPreview(t, m)
	m, _ = applyMsg(t, m, runCmd(t, captionCmd))
	m, saveCmd := applyMsg(t, m, keyMsg("s"))
	if saveCmd == nil {
		t.Fatal("save should start for the new meme")
	}
	m, _ = applyMsg(t, m, runCmd(t, saveCmd))
	if env.store.saves != 1 {
		t.Fatalf("gallery writes = %d, want 1", env.store.saves)
	}
	if m.state != stateCamera {
		t.Fatalf("state = %s, want camera after save", m.state)
	}
}

func TestStaleCaptureDiscardRemovesTempImage(t *testing.T) {
	m, _ := testModel(t)
	m, _ = applyMsg(t, m, keyMsg(" "))
	m, _ = applyMsg(t, m, keyMsg(" ")) // second shot supersedes the first

	stray := writeTestJPEG(t, t.TempDir(), "late.jpg")
	m, _ = applyMsg(t, m, captureDoneMsg{gen: m.generation - 1, path: stray})
	if m.imagePath != "" {
		t.Fatal("stale capture must not be adopted")
	}
	if _, err := os.Stat(stray); !os.IsNotExist(err) {
		t.Fatal("superseded capture file should be removed")
	}
	// The newer shot is still in flight; its status line must survive.
	if !containsFold(m.status, "capturing") {
		t.Fatalf("status %q should still report the in-flight capture", m.status)
	}
}

func TestFrontCaptureFlipFailureRemovesOriginal(t *testing.T) {
	bogus := filepath.Join(t.TempDir(), "not-an-image.jpg")
	if err := os.WriteFile(bogus, []byte("not a jpeg"), 0o644); err != nil {
		t.Fatal(err)
	}
	cam := &fakeCamera{path: bogus}

	msg := captureCmd(cam, camera.Options{Facing: camera.FacingFront}, 1, logger.Nop())()
	done, ok := msg.(captureDoneMsg)
	if !ok {
		t.Fatalf("capture command returned %T", msg)
	}
	if done.err == nil {
		t.Fatal("expected an error when the mirror flip fails")
	}
	if _, err := os.Stat(bogus); !os.IsNotExist(err) {
		t.Fatal("unflippable capture file should be removed")
	}
}

func TestSaveFailureStaysRecoverable(t *testing.T) {
	m, env := testModel(t)
	env.captions.cap = caption.Caption{Top: "top", Bottom: "bottom"}
	env.store.err = errors.New("disk full")
	m, captionCmd := captureToPreview(t, m)
	m, _ = applyMsg(t, m, runCmd(t, captionCmd))

	m, saveCmd := applyMsg(t, m, keyMsg("s"))
	m, _ = applyMsg(t, m, runCmd(t, saveCmd))
	if m.state != stateEditing {
		t.Fatalf("state = %s, want editing after save failure", m.state)
	}
	if m.saving {
		t.Fatal("saving guard should be released")
	}
	if !m.statusErr {
		t.Fatal("expected error status")
	}

	// manual retry is still possible
	env.store.err = nil
	m, saveCmd = applyMsg(t, m, keyMsg("s"))
	if saveCmd == nil {
		t.Fatal("retrying save should issue a new command")
	}
}

func TestSaveFromCameraRejected(t *testing.T) {
	m, env := testModel(t)
	m, cmd := applyMsg(t, m, keyMsg("s"))
	if cmd != nil {
		t.Fatal("save from camera must not issue a command")
	}
	if m.state != stateCamera {
		t.Fatalf("state = %s, want camera", m.state)
	}
	if !m.statusErr {
		t.Fatal("expected rejection message")
	}
	if env.store.saves != 0 {
		t.Fatal("no gallery write may happen")
	}
}

func TestNewPhotoDiscardsImageAndCaption(t *testing.T) {
	m, env := testModel(t)
	env.captions.cap = caption.Caption{Top: "a", Bottom: "b"}
	m, captionCmd := captureToPreview(t, m)
	m, _ = applyMsg(t, m, runCmd(t, captionCmd))

	m, _ = applyMsg(t, m, keyMsg("n"))
	if m.state != stateCamera {
		t.Fatalf("state = %s, want camera", m.state)
	}
	if m.imagePath != "" {
		t.Fatal("image reference not cleared")
	}
	if m.hasCaption || m.meme.Top != "" {
		t.Fatal("caption not cleared")
	}
}

func TestFacingAndTorchToggles(t *testing.T) {
	m, _ := testModel(t)
	m, _ = applyMsg(t, m, keyMsg("f"))
	if m.facing != camera.FacingFront {
		t.Fatalf("facing = %s, want front", m.facing)
	}
	m, _ = applyMsg(t, m, keyMsg("t"))
	if !m.torch {
		t.Fatal("torch should be on")
	}
	m, _ = applyMsg(t, m, keyMsg("f"))
	m, _ = applyMsg(t, m, keyMsg("t"))
	if m.facing != camera.FacingBack || m.torch {
		t.Fatal("toggles should flip back")
	}
}

func TestNoticeExpires(t *testing.T) {
	m, _ := testModel(t)
	m.notice = "Saved meme-x.jpg"
	m.noticeSeq = 3

	m, _ = applyMsg(t, m, noticeExpiredMsg{seq: 2})
	if m.notice == "" {
		t.Fatal("old expiry must not clear a newer notice")
	}
	m, _ = applyMsg(t, m, noticeExpiredMsg{seq: 3})
	if m.notice != "" {
		t.Fatal("notice should be cleared")
	}
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
