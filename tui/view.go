// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/librarium-app/librarium/color"
	"github.com/librarium-app/librarium/icon"
	"github.com/librarium-app/librarium/style"
	"github.com/muesli/reflow/wrap"
)

var (
	listExtraPaddingStyle = lipgloss.NewStyle().Padding(1, 2, 1, 0)
	paddingStyle          = lipgloss.NewStyle().Padding(1, 2)
)

func (b *statefulBubble) View() string {
	switch b.state {
	case libraryState:
		return b.viewLibrary()
	case searchState:
		return b.viewSearch()
	case playerState:
		return b.viewPlayer()
	case documentState:
		return b.viewDocument()
	case notesState:
		return b.viewNotes()
	case errorState:
		return b.viewError()
	default:
		return "Unknown state"
	}
}

func (b *statefulBubble) viewLibrary() string {
	return listExtraPaddingStyle.Render(b.libraryC.View())
}

func (b *statefulBubble) viewSearch() string {
	lines := []string{
		style.Title("Search Library"),
		"",
		b.inputC.View(),
	}

	if suggestion, ok := b.searchSuggestion.Get(); ok {
		lines = append(lines, "", style.Faint(icon.Get(icon.Search)+" "+suggestion+" (tab to accept)"))
	}

	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewPlayer() string {
	av := b.projected.AudioVisual
	if av == nil {
		return b.renderLines(true, []string{style.Title("Now Playing"), "", style.Faint("nothing playing")})
	}

	transport := icon.Get(icon.Play)
	if !av.Playing {
		transport = icon.Get(icon.Pause)
	}

	lines := []string{
		style.Title("Now Playing"),
		"",
		style.Truncate(b.width)(fmt.Sprintf("%s %s", transport, style.Fg(color.Purple)(av.Title))),
		"",
		b.progressC.ViewAs(av.Fraction),
		"",
		fmt.Sprintf("%s / %s  %s  %s", av.Elapsed, av.Total, style.Faint(av.State), style.Fg(style.AccentColor)(av.Rate)),
	}

	return b.appendStatus(lines)
}

func (b *statefulBubble) viewDocument() string {
	doc := b.projected.PagedDocument
	if doc == nil {
		return b.renderLines(true, []string{style.Title("Document"), "", style.Faint("nothing open")})
	}

	lines := []string{
		style.Title("Document"),
		"",
		style.Truncate(b.width)(fmt.Sprintf("%s %s", icon.Get(icon.Document), style.Fg(color.Purple)(doc.Title))),
		"",
		fmt.Sprintf("page %s  %s", style.Bold(doc.PageLabel), style.Fg(style.AccentColor)(doc.ZoomLabel)),
		"",
		style.Faint("rendering in the viewer window"),
	}

	return b.appendStatus(lines)
}

func (b *statefulBubble) viewNotes() string {
	lines := []string{
		style.Title("Notes"),
		"",
		style.Fg(color.Purple)(icon.Get(icon.Note) + " " + b.pad.Title()),
		"",
		b.notesC.View(),
	}

	return b.appendStatus(lines)
}

func (b *statefulBubble) viewError() string {
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	body := ""
	if b.lastError != nil {
		body = errorStyle.Render(b.lastError.Error())
	}
	return b.renderLines(
		true,
		[]string{
			style.ErrorTitle("Error"),
			"",
			wrap.String(body, b.width),
		},
	)
}

func (b *statefulBubble) appendStatus(lines []string) string {
	if b.statusMessage != "" {
		lines = append(lines, "", style.Fg(style.WarningColor)(b.statusMessage))
	}
	return b.renderLines(true, lines)
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	h := len(lines)
	l := strings.Join(lines, "\n")
	if addHelp {
		if b.height > h {
			l += strings.Repeat("\n", b.height-h)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}
