// Package config loads editor settings from an optional JSON file.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// FileName is the configuration file looked up in the config directory.
const FileName = "plan-editor.json"

// EditorConfig holds interaction defaults.
type EditorConfig struct {
	Snap      float64 `json:"snap" mapstructure:"snap"`
	HitRadius float64 `json:"hitRadius" mapstructure:"hitRadius"`
}

// HistoryConfig bounds the undo stack. Zero means unbounded.
type HistoryConfig struct {
	Limit int `json:"limit" mapstructure:"limit"`
}

// ExportConfig holds export sizes and default file names.
type ExportConfig struct {
	DefaultWidth  int    `json:"defaultWidth" mapstructure:"defaultWidth"`
	DefaultHeight int    `json:"defaultHeight" mapstructure:"defaultHeight"`
	JSONName      string `json:"jsonName" mapstructure:"jsonName"`
	PNGName       string `json:"pngName" mapstructure:"pngName"`
	SVGName       string `json:"svgName" mapstructure:"svgName"`
}

// Config is the typed view of all settings.
type Config struct {
	LogLevel string        `json:"logLevel" mapstructure:"logLevel"`
	Editor   EditorConfig  `json:"editor" mapstructure:"editor"`
	History  HistoryConfig `json:"history" mapstructure:"history"`
	Export   ExportConfig  `json:"export" mapstructure:"export"`
}

// SetDefaults registers the default values.
func SetDefaults() {
	viper.SetDefault("logLevel", "info")

	viper.SetDefault("editor.snap", 10)
	viper.SetDefault("editor.hitRadius", 20)

	viper.SetDefault("history.limit", 0)

	viper.SetDefault("export.defaultWidth", 1600)
	viper.SetDefault("export.defaultHeight", 900)
	viper.SetDefault("export.jsonName", "plan-electrique.json")
	viper.SetDefault("export.pngName", "plan-electrique.png")
	viper.SetDefault("export.svgName", "plan-electrique.svg")
}

// Load sets defaults and reads the config file from configDir. A missing
// file is not an error; a file that cannot be parsed is.
func Load(configDir string) error {
	SetDefaults()

	viper.SetConfigName(FileName)
	viper.SetConfigType("json")
	viper.AddConfigPath(configDir)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// Settings returns the current settings.
func Settings() (Config, error) {
	var c Config
	if err := viper.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("error decoding config: %w", err)
	}
	if c.Editor.Snap < 0 {
		c.Editor.Snap = 0
	}
	return c, nil
}

// Used reports the config file that was read, if any.
func Used() string {
	return viper.ConfigFileUsed()
}
