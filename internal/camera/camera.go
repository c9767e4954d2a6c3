package camera

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Facing selects which sensor a capture uses.
type Facing int

const (
	FacingBack Facing = iota
	FacingFront
)

func (f Facing) String() string {
	if f == FacingFront {
		return "front"
	}
	return "back"
}

// Options are per-capture hints.
type Options struct {
	Facing  Facing
	Torch   bool
	Quality int
}

// Device is an abstract still camera, regardless of how it's controlled.
type Device interface {
	// Probe reports whether the device is usable at all.
	Probe() error
	// Capture takes a single photo and returns the path of the image file.
	Capture(ctx context.Context, opts Options) (string, error)
}

// ExecDevice drives an external capture command (fswebcam, libcamera-still,
// ...). The command template is substituted per capture: {device}, {output},
// {quality}, {torch}.
type ExecDevice struct {
	command     string
	backDevice  string
	frontDevice string
	log         *logrus.Logger
}

func NewExecDevice(command, backDevice, frontDevice string, log *logrus.Logger) *ExecDevice {
	return &ExecDevice{
		command:     command,
		backDevice:  backDevice,
		frontDevice: frontDevice,
		log:         log,
	}
}

// Probe checks that the configured device nodes exist. The front device is
// optional; capture falls back to the back sensor when it is unset.
func (d *ExecDevice) Probe() error {
	if strings.TrimSpace(d.command) == "" {
		return fmt.Errorf("camera: no capture command configured")
	}
	if d.backDevice == "" {
		return fmt.Errorf("camera: no back device configured")
	}
	if _, err := os.Stat(d.backDevice); err != nil {
		return fmt.Errorf("camera: back device %s: %w", d.backDevice, err)
	}
	if d.frontDevice != "" {
		if _, err := os.Stat(d.frontDevice); err != nil {
			return fmt.Errorf("camera: front device %s: %w", d.frontDevice, err)
		}
	}
	return nil
}

func (d *ExecDevice) device(f Facing) string {
	if f == FacingFront && d.frontDevice != "" {
		return d.frontDevice
	}
	return d.backDevice
}

func (d *ExecDevice) Capture(ctx context.Context, opts Options) (string, error) {
	output := filepath.Join(os.TempDir(), "memecam-capture-"+uuid.NewString()+".jpg")
	device := d.device(opts.Facing)

	torch := "off"
	if opts.Torch {
		torch = "on"
	}
	quality := opts.Quality
	if quality <= 0 {
		quality = 90
	}

	replacer := strings.NewReplacer(
		"{device}", device,
		"{output}", output,
		"{quality}", strconv.Itoa(quality),
		"{torch}", torch,
	)
	argv := strings.Fields(replacer.Replace(d.command))
	if len(argv) == 0 {
		return "", fmt.Errorf("camera: empty capture command")
	}

	d.log.WithFields(logrus.Fields{
		"facing": opts.Facing.String(),
		"torch":  torch,
		"device": device,
	}).Debug("capture")

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("camera: %s failed: %w (%s)", argv[0], err, firstLine(out))
	}

	info, err := os.Stat(output)
	if err != nil {
		return "", fmt.Errorf("camera: capture produced no image: %w", err)
	}
	if info.Size() == 0 {
		return "", fmt.Errorf("camera: capture produced an empty image")
	}
	return output, nil
}

func firstLine(out []byte) string {
	s := strings.TrimSpace(string(out))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if s == "" {
		return "no output"
	}
	return s
}
