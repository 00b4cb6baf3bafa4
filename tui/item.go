// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/librarium-app/librarium/icon"
	"github.com/librarium-app/librarium/key"
	"github.com/librarium-app/librarium/library"
	"github.com/librarium-app/librarium/style"
	"github.com/librarium-app/librarium/timestamp"
	"github.com/librarium-app/librarium/util"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// listItem wraps a library resource and its stored progress for terminal display.
type listItem struct {
	resource library.Resource
	progress mo.Option[timestamp.Record]
}

func (t *listItem) kindIcon() string {
	switch t.resource.Kind {
	case library.KindAudio:
		return icon.Get(icon.Audio)
	case library.KindVideo:
		return icon.Get(icon.Video)
	case library.KindDocument:
		return icon.Get(icon.Document)
	default:
		return ""
	}
}

// Title retrieves the primary display text for the list item.
func (t *listItem) Title() string {
	sb := strings.Builder{}

	if mark := t.kindIcon(); mark != "" {
		sb.WriteString(mark)
		sb.WriteString(" ")
	}
	sb.WriteString(t.resource.Name)

	if rec, ok := t.progress.Get(); ok && rec.Finished {
		sb.WriteString(" ")
		sb.WriteString(style.Fg(style.SuccessColor)(icon.Get(icon.Finished)))
	}

	return sb.String()
}

// Description retrieves the secondary progress metadata for the list item.
func (t *listItem) Description() string {
	var parts []string

	if rec, ok := t.progress.Get(); ok {
		switch {
		case t.resource.Kind == library.KindDocument:
			parts = append(parts, fmt.Sprintf("page %d", rec.Page+1))
			if rec.Zoom > 0 && rec.Zoom != 1.0 {
				parts = append(parts, fmt.Sprintf("%d%%", int(rec.Zoom*100+0.5)))
			}
			if !rec.LastOpened.IsZero() {
				parts = append(parts, style.Faint(util.FormatRelative(rec.LastOpened, time.Now())))
			}
		case rec.Finished:
			parts = append(parts, style.Fg(style.SuccessColor)("finished"))
			if !rec.LastPlayed.IsZero() {
				parts = append(parts, style.Faint(util.FormatRelative(rec.LastPlayed, time.Now())))
			}
		case rec.Resumable():
			parts = append(parts, fmt.Sprintf("%s / %s", util.FormatClock(rec.Position), util.FormatClock(rec.Duration)))
			parts = append(parts, style.Fg(style.WarningColor)(fmt.Sprintf("%.0f%%", rec.Fraction()*100)))
			if !rec.LastPlayed.IsZero() {
				parts = append(parts, style.Faint(util.FormatRelative(rec.LastPlayed, time.Now())))
			}
		}
	}

	if len(parts) == 0 {
		parts = append(parts, style.Faint("not started"))
	}

	description := strings.Join(parts, " • ")

	if viper.GetBool(key.TUIShowPaths) {
		description += "\n" + style.Faint(t.resource.Path)
	}

	return description
}

// FilterValue returns the string used for real-time list filtering and searching.
func (t *listItem) FilterValue() string {
	return t.resource.Name
}
