// Package cmd implements the command-line interface for librarium.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/librarium-app/librarium/config"
	"github.com/librarium-app/librarium/constant"
	"github.com/librarium-app/librarium/engine"
	"github.com/librarium-app/librarium/engine/mpv"
	"github.com/librarium-app/librarium/engine/poppler"
	"github.com/librarium-app/librarium/filesystem"
	"github.com/librarium-app/librarium/icon"
	"github.com/librarium-app/librarium/key"
	"github.com/librarium-app/librarium/log"
	"github.com/librarium-app/librarium/notes"
	"github.com/librarium-app/librarium/session"
	"github.com/librarium-app/librarium/style"
	"github.com/librarium-app/librarium/syncer"
	"github.com/librarium-app/librarium/timestamp"
	"github.com/librarium-app/librarium/tui"
	"github.com/librarium-app/librarium/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., emoji, nerd, plain)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().StringP("library", "L", "", "Override the library root directory for this run")
	lo.Must0(viper.BindPFlag(key.LibraryPath, rootCmd.PersistentFlags().Lookup("library")))
}

// rootCmd defines the entry point for the librarium application.
var rootCmd = &cobra.Command{
	Use:   constant.Librarium,
	Short: "A resumable library for your audio, video and document files",
	Long: style.New().Italic(true).Render(
		"Librarium scans a folder of audio, video and PDF files and always reopens\n" +
			"each of them exactly where you left off."),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		handleErr(runApplication())
	},
}

// runApplication wires the engines, the session controller, the synchronizer
// and the TUI, and keeps the TUI loop alive while a quit is cancelled.
func runApplication() error {
	media, docs := buildEngines()

	root := viper.GetString(key.LibraryPath)
	store := timestamp.New(where.Timestamps(root))

	controller := session.New(media, docs, store, session.Options{
		TrailingMargin: viper.GetInt64(key.PlayerTrailingMargin),
		ZoomSteps:      config.ZoomSteps(),
		Rates:          config.Rates(),
	})

	pad := notes.NewPad()
	if notesPath := where.Notes(root); lo.Must(filesystem.API().Exists(notesPath)) {
		if err := pad.Open(notesPath); err != nil {
			log.Warnf("open notes: %s", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	flushEvery := time.Duration(viper.GetInt(key.PlayerSaveInterval)) * time.Millisecond
	refreshEvery := time.Duration(viper.GetInt(key.PlayerRefreshInterval)) * time.Millisecond
	go syncer.New(controller, flushEvery, refreshEvery, nil).Run(ctx)

	for {
		if err := tui.Run(&tui.Options{Controller: controller, Pad: pad}); err != nil {
			return err
		}

		proceed, err := resolveUnsavedNotes(pad)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), err)
			continue
		}
		if proceed {
			break
		}
		// Cancel resumes the application.
	}

	cancel()
	if err := controller.Shutdown(); err != nil {
		return err
	}
	return config.Write()
}

// buildEngines resolves the external binaries. A missing binary degrades the
// matching resource kind instead of aborting startup.
func buildEngines() (engine.Media, engine.Document) {
	var media engine.Media
	if m, err := mpv.New(); err != nil {
		fmt.Fprintf(os.Stderr, "%s audio-visual playback disabled: %s\n", icon.Get(icon.Fail), err)
	} else {
		media = m
	}

	var docs engine.Document
	if d, err := poppler.New(); err != nil {
		fmt.Fprintf(os.Stderr, "%s document viewing disabled: %s\n", icon.Get(icon.Fail), err)
	} else {
		docs = d
	}

	return media, docs
}

// resolveUnsavedNotes runs the save/discard/cancel prompt for a dirty pad.
// It reports whether shutdown may proceed.
func resolveUnsavedNotes(pad *notes.Pad) (bool, error) {
	if !pad.Dirty() {
		return true, nil
	}

	const (
		choiceSave    = "Save"
		choiceDiscard = "Discard"
		choiceCancel  = "Cancel"
	)

	var answer string
	prompt := &survey.Select{
		Message: "You have unsaved notes. Save them before quitting?",
		Options: []string{choiceSave, choiceDiscard, choiceCancel},
		Default: choiceSave,
	}
	if err := survey.AskOne(prompt, &answer); err != nil {
		// An interrupted prompt behaves like cancel.
		return false, nil
	}

	switch answer {
	case choiceSave:
		// An untitled pad gets the library's default notes file.
		if err := pad.SaveDefault(where.Notes(viper.GetString(key.LibraryPath))); err != nil {
			return false, err
		}
		return true, nil
	case choiceDiscard:
		return pad.Resolve(notes.DecisionDiscard)
	default:
		return pad.Resolve(notes.DecisionCancel)
	}
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
