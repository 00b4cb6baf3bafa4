// Package library implements discovery and identification of playable resources under a library root.
package library

import (
	"path/filepath"
	"strings"
)

// Kind classifies a resource by the engine that handles it.
// The kind is resolved once from the file extension and carried through the session,
// so transport logic never re-inspects paths.
type Kind int

const (
	KindUnknown Kind = iota
	KindAudio
	KindVideo
	KindDocument
)

func (k Kind) String() string {
	switch k {
	case KindAudio:
		return "audio"
	case KindVideo:
		return "video"
	case KindDocument:
		return "document"
	default:
		return "unknown"
	}
}

// AudioVisual reports whether the kind is handled by the media engine rather than the document engine.
func (k Kind) AudioVisual() bool {
	return k == KindAudio || k == KindVideo
}

// Recognized file extensions per kind, lowercase with leading dot.
var (
	videoExtensions    = []string{".mp4", ".mkv", ".avi", ".mov", ".wmv"}
	audioExtensions    = []string{".mp3", ".wav", ".ogg", ".flac", ".aac"}
	documentExtensions = []string{".pdf"}
)

// KindOf resolves the resource kind from a path's extension. Unrecognized extensions yield KindUnknown.
func KindOf(path string) Kind {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case contains(videoExtensions, ext):
		return KindVideo
	case contains(audioExtensions, ext):
		return KindAudio
	case contains(documentExtensions, ext):
		return KindDocument
	default:
		return KindUnknown
	}
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// Resource is a single playable library entry.
type Resource struct {
	// Path is the resource identity: an absolute, cleaned path compared byte-exact.
	// Identical files always yield identical identities across restarts; no case
	// folding is applied, so the store never conflates distinct paths on
	// case-sensitive filesystems.
	Path string

	// Name is the display name (base filename) used for sorting and filtering.
	Name string

	Kind Kind
}

// NewResource canonicalizes a path into a Resource. The kind may be KindUnknown.
func NewResource(path string) Resource {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}
	return Resource{
		Path: abs,
		Name: filepath.Base(abs),
		Kind: KindOf(abs),
	}
}

func (r Resource) String() string {
	return r.Name
}
