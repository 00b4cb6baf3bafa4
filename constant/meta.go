// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Librarium is the canonical application identifier used for filesystem paths and CLI branding.
	Librarium = "librarium"

	// Version is the current application semantic version string.
	Version = "0.1.0"

	// TimestampsFilename is the name of the progress store file kept inside the library root.
	TimestampsFilename = "timestamps.json"

	// DefaultLibraryDirName is the directory created under the user's home when no library path is configured.
	DefaultLibraryDirName = "Librarium"
)
