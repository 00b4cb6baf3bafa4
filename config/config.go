// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/librarium-app/librarium/constant"
	"github.com/librarium-app/librarium/filesystem"
	"github.com/librarium-app/librarium/key"
	"github.com/librarium-app/librarium/log"
	"github.com/librarium-app/librarium/where"
	"github.com/spf13/viper"
)

// EnvKeyReplacer is a strings.Replacer used to normalize configuration keys into environment variable naming conventions.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Setup initializes the global configuration state, including defaults, environment bindings and localized file resolution.
// After reading, out-of-range values are corrected to their defaults and persisted back immediately.
func Setup() error {
	viper.SetConfigName(constant.Librarium)
	viper.SetConfigType("toml")
	viper.SetFs(filesystem.API())
	viper.AddConfigPath(where.Config())

	// Synchronize environment variable bindings.
	viper.SetEnvPrefix(constant.Librarium)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, env := range EnvExposed {
		viper.MustBindEnv(env)
	}

	// Initialize factory default values.
	viper.SetTypeByDefaultValue(true)
	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}

	return validate()
}

// validate corrects invalid settings to their defaults and writes the corrections back.
// The library root directory is created when missing so a fresh install starts usable.
func validate() error {
	corrected := false

	mode := viper.GetString(key.AppearanceMode)
	if mode != "" {
		mode = strings.ToUpper(mode[:1]) + strings.ToLower(mode[1:])
	}
	switch mode {
	case AppearanceLight, AppearanceDark, AppearanceSystem:
		if mode != viper.GetString(key.AppearanceMode) {
			viper.Set(key.AppearanceMode, mode)
			corrected = true
		}
	default:
		log.Warnf("invalid appearance mode %q, using default", viper.GetString(key.AppearanceMode))
		viper.Set(key.AppearanceMode, AppearanceSystem)
		corrected = true
	}

	if size := viper.GetInt(key.NotesFontSize); size < MinNotesFontSize || size > MaxNotesFontSize {
		log.Warnf("notes font size %d out of range, using default", size)
		viper.Set(key.NotesFontSize, Default[key.NotesFontSize].Value)
		corrected = true
	}

	root := viper.GetString(key.LibraryPath)
	if isDir, _ := filesystem.API().IsDir(root); !isDir {
		if root == where.DefaultLibrary() || root == "" {
			if err := filesystem.API().MkdirAll(where.DefaultLibrary(), 0755); err != nil {
				return err
			}
			if root == "" {
				viper.Set(key.LibraryPath, where.DefaultLibrary())
				corrected = true
			}
		} else {
			log.Warnf("library path %q is not a directory, falling back to default", root)
			if err := filesystem.API().MkdirAll(where.DefaultLibrary(), 0755); err != nil {
				return err
			}
			viper.Set(key.LibraryPath, where.DefaultLibrary())
			corrected = true
		}
	}

	if corrected {
		return Write()
	}
	return nil
}

// Write persists the current configuration state to the settings file.
func Write() error {
	return viper.WriteConfigAs(filepath.Join(where.Config(), constant.Librarium+".toml"))
}

// ZoomSteps returns the ascending document zoom multipliers, falling back to the registered defaults on malformed values.
func ZoomSteps() []float64 {
	return floatSlice(key.ViewerZoomSteps)
}

// Rates returns the playback rate multipliers offered by the transport controls.
func Rates() []float64 {
	return floatSlice(key.PlayerRates)
}

func floatSlice(k string) []float64 {
	parse := func(raw []string) ([]float64, bool) {
		values := make([]float64, 0, len(raw))
		for _, s := range raw {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil || v <= 0 {
				return nil, false
			}
			values = append(values, v)
		}
		return values, len(values) > 0
	}

	if values, ok := parse(viper.GetStringSlice(k)); ok {
		return values
	}

	log.Warnf("malformed float list for %s, using defaults", k)
	values, _ := parse(Default[k].Value.([]string))
	return values
}
