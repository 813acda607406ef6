package decoder

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/five82/sugarscan/internal/config"
	"github.com/five82/sugarscan/internal/logtail"
)

const (
	sysfsVideoRoot = "/sys/class/video4linux"
	devRoot        = "/dev"
	stderrLines    = 20
	waitDelay      = 2 * time.Second
)

// FFmpegCamera reads raw grayscale frames from a V4L2 device through an
// ffmpeg subprocess.
type FFmpegCamera struct {
	binary string
	device string
	facing string
	fps    int
	width  int
	height int

	sysfsRoot string
	devRoot   string
}

var _ FrameSource = (*FFmpegCamera)(nil)

// NewFFmpegCamera builds a camera from the [camera] config table. An empty
// device is resolved on each Open.
func NewFFmpegCamera(cfg config.Camera) *FFmpegCamera {
	return &FFmpegCamera{
		binary:    cfg.FFmpeg,
		device:    cfg.Device,
		facing:    cfg.Facing,
		fps:       cfg.FPS,
		width:     cfg.Width,
		height:    cfg.Height,
		sysfsRoot: sysfsVideoRoot,
		devRoot:   devRoot,
	}
}

// Args returns the ffmpeg arguments used to capture from device.
func (c *FFmpegCamera) Args(device string) []string {
	filter := fmt.Sprintf("fps=%d,scale=%d:%d,format=gray", c.fps, c.width, c.height)
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-f", "v4l2",
		"-i", device,
		"-vf", filter,
		"-f", "rawvideo",
		"-pix_fmt", "gray",
		"-",
	}
}

// Open starts ffmpeg and waits for the first frame.
func (c *FFmpegCamera) Open(ctx context.Context) (Stream, error) {
	if c.width <= 0 || c.height <= 0 || c.fps <= 0 {
		return nil, fmt.Errorf("invalid capture size %dx%d@%d", c.width, c.height, c.fps)
	}
	device := c.device
	if device == "" {
		selected, err := selectDevice(c.sysfsRoot, c.devRoot, c.facing)
		if err != nil {
			return nil, err
		}
		device = selected
	}

	binary, err := exec.LookPath(c.binary)
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found: %w", err)
	}

	stderr := logtail.NewRing(stderrLines)
	cmd := exec.Command(binary, c.Args(device)...)
	cmd.Stderr = stderr
	cmd.WaitDelay = waitDelay
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	s := &ffmpegStream{
		cmd:    cmd,
		stdout: stdout,
		stderr: stderr,
		width:  c.width,
		height: c.height,
	}

	type firstFrame struct {
		img *image.Gray
		err error
	}
	ready := make(chan firstFrame, 1)
	go func() {
		img, err := s.read()
		ready <- firstFrame{img: img, err: err}
	}()

	select {
	case <-ctx.Done():
		_ = s.Close()
		return nil, fmt.Errorf("no frame from %s: %w", device, ctx.Err())
	case first := <-ready:
		if first.err != nil {
			// Reaping ffmpeg flushes its stderr into the ring.
			_ = s.Close()
			return nil, s.withStderr(first.err)
		}
		s.first = first.img
		return s, nil
	}
}

type ffmpegStream struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr *logtail.Ring
	width  int
	height int

	first *image.Gray

	closeOnce sync.Once
	closeErr  error
}

func (s *ffmpegStream) Frame() (image.Image, error) {
	if s.first != nil {
		img := s.first
		s.first = nil
		return img, nil
	}
	img, err := s.read()
	if err != nil {
		return nil, s.withStderr(err)
	}
	return img, nil
}

func (s *ffmpegStream) read() (*image.Gray, error) {
	buf := make([]byte, s.width*s.height)
	if _, err := io.ReadFull(s.stdout, buf); err != nil {
		return nil, fmt.Errorf("read frame: %w", err)
	}
	return &image.Gray{
		Pix:    buf,
		Stride: s.width,
		Rect:   image.Rect(0, 0, s.width, s.height),
	}, nil
}

func (s *ffmpegStream) withStderr(err error) error {
	if last := s.stderr.Last(); last != "" {
		return fmt.Errorf("%w (ffmpeg: %s)", err, last)
	}
	return err
}

// Close kills ffmpeg and reaps it. An already exited process is not an error.
func (s *ffmpegStream) Close() error {
	s.closeOnce.Do(func() {
		if s.cmd.Process == nil {
			return
		}
		if err := s.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			s.closeErr = fmt.Errorf("failed to kill ffmpeg: %w", err)
		}
		// Wait reports the kill itself as an error; only the reap matters.
		_ = s.cmd.Wait()
	})
	return s.closeErr
}

type videoDevice struct {
	index int
	node  string
	name  string
}

var (
	environmentHints = []string{"rear", "back", "environment", "world"}
	userHints        = []string{"front", "user", "facetime", "integrated"}
)

// selectDevice picks the capture node best matching facing ("environment" or
// "user") from the V4L2 devices under sysfsRoot.
func selectDevice(sysfsRoot, devDir, facing string) (string, error) {
	names, err := filepath.Glob(filepath.Join(sysfsRoot, "video*", "name"))
	if err != nil {
		return "", fmt.Errorf("list video devices: %w", err)
	}

	var devices []videoDevice
	for _, nameFile := range names {
		dir := filepath.Dir(nameFile)
		base := filepath.Base(dir)
		index, err := strconv.Atoi(strings.TrimPrefix(base, "video"))
		if err != nil {
			continue
		}
		// Metadata nodes share the camera's name but have a non-zero index.
		if raw, err := os.ReadFile(filepath.Join(dir, "index")); err == nil {
			if strings.TrimSpace(string(raw)) != "0" {
				continue
			}
		}
		raw, err := os.ReadFile(nameFile)
		if err != nil {
			continue
		}
		devices = append(devices, videoDevice{
			index: index,
			node:  filepath.Join(devDir, base),
			name:  strings.TrimSpace(string(raw)),
		})
	}
	if len(devices) == 0 {
		return "", errors.New("no video capture devices found")
	}
	sort.Slice(devices, func(i, j int) bool { return devices[i].index < devices[j].index })

	hints := environmentHints
	if facing == "user" {
		hints = userHints
	}
	for _, dev := range devices {
		lower := strings.ToLower(dev.name)
		for _, hint := range hints {
			if strings.Contains(lower, hint) {
				return dev.node, nil
			}
		}
	}
	return devices[0].node, nil
}
