// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Library Settings - these keys locate and present the user's media library.
const (
	LibraryPath    = "library.path"
	AppearanceMode = "library.appearance_mode"
	NotesFontSize  = "library.notes_font_size"
)

// Media Playback - these keys govern the transport behavior of the audio-visual engine.
const (
	PlayerTrailingMargin  = "player.trailing_margin"
	PlayerSaveInterval    = "player.save_interval"
	PlayerRefreshInterval = "player.refresh_interval"
	PlayerRates           = "player.rates"
)

// Document Viewing - these keys configure the paged-document rendering pipeline.
const (
	ViewerZoomSteps = "viewer.zoom_steps"
)

// Search Interaction - these keys define the UI/UX parameters for library discovery.
const (
	SearchShowQuerySuggestions = "search.show_query_suggestions"
)

// Terminal User Interface (TUI) - these keys define the interactive environment's styling and logic.
const (
	TUISearchPromptString = "tui.search_prompt"
	TUIShowPaths          = "tui.show_paths"
)

// Icons - these keys select the glyph set used by list items and indicators.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored = "cli.colored"
)
