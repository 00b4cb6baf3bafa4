// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"github.com/librarium-app/librarium/key"
	"github.com/librarium-app/librarium/where"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

// Appearance modes accepted by the presentation surface.
const (
	AppearanceLight  = "Light"
	AppearanceDark   = "Dark"
	AppearanceSystem = "System"
)

// Notes font size boundaries, inclusive.
const (
	MinNotesFontSize = 6
	MaxNotesFontSize = 72
)

func init() {
	// register validates and adds a new configuration field to the global registry.
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		Default[k] = Field{Key: k, Value: v, Description: desc}
		EnvExposed = append(EnvExposed, k)
	}

	register(key.LibraryPath, where.DefaultLibrary(), "Root directory of the media library.\nScanned recursively for audio, video and PDF files")
	register(key.AppearanceMode, AppearanceSystem, "Appearance mode of the presentation surface.\nAvailable options are: Light, Dark, System")
	register(key.NotesFontSize, 12, "Font size used by the notes panel. From 6 to 72")
	register(key.PlayerTrailingMargin, 2000, "Milliseconds before end-of-media at which an item counts as finished.\nFinished items restart from the beginning on re-open")
	register(key.PlayerSaveInterval, 5000, "Milliseconds between periodic progress flushes to the timestamp store")
	register(key.PlayerRefreshInterval, 500, "Milliseconds between presentation-facing progress refreshes")
	register(key.PlayerRates, []string{"0.5", "0.75", "1.0", "1.25", "1.5", "1.75", "2.0", "2.5", "3.0"}, "Playback rate multipliers offered by the transport controls")
	register(key.ViewerZoomSteps, []string{"0.5", "0.75", "1.0", "1.25", "1.5", "1.75", "2.0", "2.5", "3.0", "4.0"}, "Ascending zoom multipliers stepped through by the document viewer")
	register(key.SearchShowQuerySuggestions, true, "Show query suggestions when searching the library")
	register(key.TUISearchPromptString, "> ", "Search prompt string to use")
	register(key.TUIShowPaths, true, "Show file paths under list items")
	register(key.IconsVariant, "plain", "Icon variant used by list items and indicators.\nAvailable options are: emoji, nerd, plain")
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
}
