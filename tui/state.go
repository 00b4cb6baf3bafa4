// Package tui provides the primary terminal user interface implementation.
package tui

type state int

const (
	libraryState state = iota
	searchState
	playerState
	documentState
	notesState
	errorState
)
