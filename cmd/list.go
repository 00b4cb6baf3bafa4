// Package cmd implements the command-line interface for librarium.
package cmd

import (
	"encoding/json"
	"os"
	"time"

	"github.com/librarium-app/librarium/key"
	"github.com/librarium-app/librarium/library"
	"github.com/librarium-app/librarium/log"
	"github.com/librarium-app/librarium/query"
	"github.com/librarium-app/librarium/timestamp"
	"github.com/librarium-app/librarium/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.SetOut(os.Stdout)

	listCmd.Flags().StringP("query", "q", "", "Filter resources by display name substring")
	listCmd.Flags().BoolP("json", "j", false, "Format the command output as a JSON array")
	listCmd.Flags().StringP("output", "o", "", "Specify a file path to write the command output")

	lo.Must0(listCmd.RegisterFlagCompletionFunc("query", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return query.SuggestMany(toComplete), cobra.ShellCompDirectiveNoFileComp
	}))
}

// listedResource is the scriptable projection of one library entry and its progress.
type listedResource struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Kind string `json:"kind"`

	Position   int64      `json:"position,omitempty"`
	Duration   int64      `json:"duration,omitempty"`
	Finished   bool       `json:"finished,omitempty"`
	LastPlayed *time.Time `json:"last_played,omitempty"`

	Page       int        `json:"pdf_page,omitempty"`
	Zoom       float64    `json:"pdf_zoom,omitempty"`
	LastOpened *time.Time `json:"last_opened,omitempty"`
}

// listCmd executes the application in non-interactive, scriptable listing mode.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List library resources and their stored progress without entering the TUI",
	Run: func(cmd *cobra.Command, args []string) {
		root := viper.GetString(key.LibraryPath)

		resources, err := library.Scan(root)
		handleErr(err)

		if q := lo.Must(cmd.Flags().GetString("query")); q != "" {
			resources = library.Filter(resources, q)
		}

		records, err := timestamp.New(where.Timestamps(root)).Load()
		if err != nil {
			log.Warnf("listing without stored progress: %s", err)
		}

		listed := lo.Map(resources, func(res library.Resource, _ int) listedResource {
			out := listedResource{
				Name: res.Name,
				Path: res.Path,
				Kind: res.Kind.String(),
			}

			rec, ok := records[res.Path]
			if !ok {
				return out
			}

			if res.Kind.AudioVisual() {
				out.Position = rec.Position
				out.Duration = rec.Duration
				out.Finished = rec.Finished
				if !rec.LastPlayed.IsZero() {
					out.LastPlayed = &rec.LastPlayed
				}
			} else {
				out.Page = rec.Page
				out.Zoom = rec.Zoom
				if !rec.LastOpened.IsZero() {
					out.LastOpened = &rec.LastOpened
				}
			}
			return out
		})

		writer := cmd.OutOrStdout()
		if output := lo.Must(cmd.Flags().GetString("output")); output != "" {
			f, err := os.Create(output)
			handleErr(err)
			defer f.Close()
			writer = f
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			encoder := json.NewEncoder(writer)
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(listed))
			return
		}

		for _, entry := range listed {
			cmd.Printf("%-10s %s\n", entry.Kind, entry.Path)
		}
	},
}
