package mpv

import (
	"crypto/rand"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/librarium-app/librarium/engine"
	"github.com/librarium-app/librarium/log"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
)

// Engine spawns one detached mpv process per open handle and drives it over
// its JSON-IPC socket. Handles start paused so the session controller decides
// when playback begins, after any position restore.
type Engine struct{}

// New verifies that the mpv binary is reachable. A missing binary is a
// degradation, not a fatal condition: the caller disables playback and the
// application keeps running.
func New() (*Engine, error) {
	if _, err := exec.LookPath("mpv"); err != nil {
		return nil, fmt.Errorf("mpv binary not found: %w", err)
	}
	return &Engine{}, nil
}

// Open starts mpv for the given local file and waits for its IPC socket.
func (e *Engine) Open(path string) (engine.MediaHandle, error) {
	safePath, err := sanitizeMediaTarget(path)
	if err != nil {
		return nil, fmt.Errorf("invalid media target: %w", err)
	}

	// Generate a random socket path using os.TempDir() for cross-platform support
	// (macOS $TMPDIR is /var/folders/... not /tmp/).
	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return nil, fmt.Errorf("generate socket name: %w", err)
	}
	socketPath := filepath.Join(os.TempDir(), fmt.Sprintf("librarium-%x.sock", randomBytes))

	cmd := exec.Command("mpv", mpvArgs(socketPath, safePath)...)

	// Detach from the parent process group so shell signals don't cascade.
	cmd.SysProcAttr = sysProcAttr()
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.Stdin = nil

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start mpv: %w", err)
	}

	h := &handle{
		socketPath: socketPath,
		cmd:        cmd,
		exited:     make(chan struct{}),
	}

	// Reap the process in the background to prevent zombies.
	go func() {
		_ = cmd.Wait()
		close(h.exited)
	}()

	if err := h.waitForSocket(); err != nil {
		select {
		case <-h.exited:
		default:
			log.Warnf("killing mpv: socket never became ready")
			_ = cmd.Process.Kill()
		}
		return nil, fmt.Errorf("mpv socket not ready: %w", err)
	}

	return h, nil
}

// mpvArgs builds the mpv command line for one media file. Pass ONLY what the
// handle needs; respect the user's mpv.conf otherwise. keep-open holds the
// file loaded at end-of-media so eof-reached and the position properties stay
// queryable instead of the player dropping back to idle.
func mpvArgs(socketPath, mediaPath string) []string {
	return []string{
		"--no-terminal",
		"--really-quiet",
		fmt.Sprintf("--input-ipc-server=%s", socketPath),
		fmt.Sprintf("--force-media-title=%s", sanitizeTitle(filepath.Base(mediaPath))),
		"--force-window=yes",
		"--idle=yes",
		"--keep-open=yes",
		"--pause=yes",
		mediaPath,
	}
}

// handle is a live mpv process bound to one media file.
type handle struct {
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{}
	ipcMu      sync.Mutex // protects socket writes
	releaseOne sync.Once
}

// waitForSocket polls until the mpv IPC socket is accepting connections.
func (h *handle) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-h.exited:
			return fmt.Errorf("mpv exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", h.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", h.socketPath, socketWaitRetries)
}

func (h *handle) Play() error {
	return h.set("pause", false)
}

func (h *handle) Pause() error {
	return h.set("pause", true)
}

func (h *handle) Stop() {
	_, _ = h.sendCommand([]interface{}{"stop"})
}

// Seek moves playback to the given absolute position.
func (h *handle) Seek(ms int64) error {
	_, err := h.sendCommand([]interface{}{"seek", float64(ms) / 1000.0, "absolute"})
	return err
}

func (h *handle) SetRate(multiplier float64) error {
	return h.set("speed", multiplier)
}

// Position returns the current playback position in milliseconds, or 0 when unavailable.
func (h *handle) Position() int64 {
	seconds, err := h.getFloatProperty("time-pos")
	if err != nil {
		return 0
	}
	return int64(seconds * 1000)
}

// Duration returns the media duration in milliseconds; 0 means not yet known.
// mpv reports the duration only once demuxing has progressed far enough.
func (h *handle) Duration() int64 {
	seconds, err := h.getFloatProperty("duration")
	if err != nil {
		return 0
	}
	return int64(seconds * 1000)
}

func (h *handle) State() engine.State {
	select {
	case <-h.exited:
		return engine.StateStopped
	default:
	}

	if eof, err := h.getBoolProperty("eof-reached"); err == nil && eof {
		return engine.StateEnded
	}
	if idle, err := h.getBoolProperty("idle-active"); err == nil && idle {
		return engine.StateStopped
	}

	paused, err := h.getBoolProperty("pause")
	if err != nil {
		return engine.StateError
	}
	if paused {
		return engine.StatePaused
	}
	return engine.StatePlaying
}

func (h *handle) Seekable() bool {
	seekable, err := h.getBoolProperty("seekable")
	return err == nil && seekable
}

// Release shuts down the mpv process and cleans up the socket. Idempotent.
func (h *handle) Release() {
	h.releaseOne.Do(func() {
		// Try graceful quit via IPC first.
		_, _ = h.sendCommand([]interface{}{"quit"})

		select {
		case <-h.exited:
		case <-time.After(3 * time.Second):
			_ = killProcess(h.cmd)
		}

		_ = os.Remove(h.socketPath)
	})
}

func (h *handle) set(property string, value interface{}) error {
	_, err := h.sendCommand([]interface{}{"set_property", property, value})
	return err
}

// getFloatProperty is a helper to retrieve a float64 mpv property via IPC.
func (h *handle) getFloatProperty(name string) (float64, error) {
	data, err := h.sendCommand([]interface{}{"get_property", name})
	if err != nil {
		return 0, err
	}
	if data == nil {
		return 0, fmt.Errorf("property %s: nil response", name)
	}
	val, ok := data.(float64)
	if !ok {
		return 0, fmt.Errorf("property %s: expected float64, got %T", name, data)
	}
	return val, nil
}

func (h *handle) getBoolProperty(name string) (bool, error) {
	data, err := h.sendCommand([]interface{}{"get_property", name})
	if err != nil {
		return false, err
	}
	val, ok := data.(bool)
	if !ok {
		return false, fmt.Errorf("property %s: expected bool, got %T", name, data)
	}
	return val, nil
}

// sanitizeMediaTarget validates that a path is safe to pass to mpv.
// Prevents flag injection from untrusted library content.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty path")
	}
	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in path")
	}
	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("path must not start with '-' (looks like a flag)")
	}
	return filepath.Clean(l), nil
}

// sanitizeTitle cleans up the window title for mpv.
func sanitizeTitle(title string) string {
	t := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ", "\x00", "").Replace(title)
	return strings.TrimSpace(t)
}
