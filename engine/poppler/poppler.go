// Package poppler implements the document engine contract on top of the
// poppler command line utilities (pdfinfo, pdftoppm).
package poppler

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/librarium-app/librarium/engine"
)

// renderDPI is the base resolution for a 1.0 zoom render.
const renderDPI = 72

// Engine shells out to poppler utilities to inspect and rasterize PDF files.
type Engine struct {
	pdfinfo  string
	pdftoppm string
}

// New verifies that the poppler binaries are reachable. A missing binary is a
// degradation, not a fatal condition: the caller disables document viewing
// and the application keeps running.
func New() (*Engine, error) {
	pdfinfo, err := exec.LookPath("pdfinfo")
	if err != nil {
		return nil, fmt.Errorf("pdfinfo binary not found: %w", err)
	}
	pdftoppm, err := exec.LookPath("pdftoppm")
	if err != nil {
		return nil, fmt.Errorf("pdftoppm binary not found: %w", err)
	}
	return &Engine{pdfinfo: pdfinfo, pdftoppm: pdftoppm}, nil
}

// Open inspects the document and prepares a handle for page rendering.
func (e *Engine) Open(path string) (engine.DocumentHandle, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve document path: %w", err)
	}

	pages, err := e.pageCount(abs)
	if err != nil {
		return nil, fmt.Errorf("inspect %s: %w", abs, err)
	}

	tempDir, err := os.MkdirTemp("", "librarium-pdf-*")
	if err != nil {
		return nil, fmt.Errorf("create render dir: %w", err)
	}

	return &handle{
		engine:  e,
		path:    abs,
		pages:   pages,
		tempDir: tempDir,
	}, nil
}

// pageCount parses the "Pages:" line from pdfinfo output.
func (e *Engine) pageCount(path string) (int, error) {
	var out bytes.Buffer
	cmd := exec.Command(e.pdfinfo, path)
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("pdfinfo: %w", err)
	}

	for _, line := range strings.Split(out.String(), "\n") {
		if !strings.HasPrefix(line, "Pages:") {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "Pages:")))
		if err != nil {
			return 0, fmt.Errorf("parse page count: %w", err)
		}
		if n <= 0 {
			return 0, fmt.Errorf("document reports %d pages", n)
		}
		return n, nil
	}

	return 0, fmt.Errorf("pdfinfo output has no page count")
}

// handle is an inspected PDF ready for per-page rasterization.
type handle struct {
	engine  *Engine
	path    string
	pages   int
	tempDir string

	mu     sync.Mutex
	closed bool
	serial int
}

func (h *handle) PageCount() int {
	return h.pages
}

// RenderPage rasterizes one zero-based page at the given zoom factor.
func (h *handle) RenderPage(index int, zoom float64) (image.Image, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, fmt.Errorf("render %s: document closed", h.path)
	}
	if index < 0 || index >= h.pages {
		return nil, fmt.Errorf("render %s: page %d out of range [0, %d)", h.path, index, h.pages)
	}
	if zoom <= 0 {
		return nil, fmt.Errorf("render %s: zoom %g must be positive", h.path, zoom)
	}

	h.serial++
	prefix := filepath.Join(h.tempDir, fmt.Sprintf("page-%d", h.serial))

	// pdftoppm numbers pages from 1.
	page := strconv.Itoa(index + 1)
	dpi := strconv.Itoa(int(float64(renderDPI) * zoom))

	cmd := exec.Command(h.engine.pdftoppm,
		"-png",
		"-f", page,
		"-l", page,
		"-r", dpi,
		"-singlefile",
		h.path,
		prefix,
	)
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("pdftoppm: %w", err)
	}

	out := prefix + ".png"
	f, err := os.Open(out)
	if err != nil {
		return nil, fmt.Errorf("open rendered page: %w", err)
	}
	defer f.Close()
	defer os.Remove(out)

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode rendered page: %w", err)
	}
	return img, nil
}

// Close removes the render scratch directory. Idempotent.
func (h *handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true
	return os.RemoveAll(h.tempDir)
}
