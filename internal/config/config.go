// Package config loads the tincture configuration file.
//
// Configuration comes from a single YAML file named by --config, or
// tincture.yaml in the working directory when it exists. Zero values fall
// back to defaults; TINCTURE_LOG_LEVEL overrides logging.level.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultFile is read when no path is given and the file exists.
	DefaultFile = "tincture.yaml"
	// EnvLogLevel overrides Logging.Level.
	EnvLogLevel = "TINCTURE_LOG_LEVEL"
)

var ErrInvalid = errors.New("config: invalid")

// Config is the complete configuration.
type Config struct {
	Editor   EditorConfig   `yaml:"editor"`
	Resize   ResizeConfig   `yaml:"resize"`
	Display  DisplayConfig  `yaml:"display"`
	Autosave AutosaveConfig `yaml:"autosave"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// EditorConfig configures document loading and history.
type EditorConfig struct {
	// Sanitize strips unsupported markup before parsing.
	Sanitize bool `yaml:"sanitize"`
	// HistoryLimit bounds the undo stack.
	HistoryLimit int `yaml:"history_limit" validate:"gte=1"`
}

// ResizeConfig bounds image resizing.
type ResizeConfig struct {
	MinWidth int `yaml:"min_width" validate:"gte=1"`
	// MaxWidth of zero leaves the width unbounded.
	MaxWidth int `yaml:"max_width" validate:"gte=0"`
	// HandleSize is the hit area of a corner handle in pixels. Zero picks
	// a size that covers the neighbouring terminal cells.
	HandleSize float64 `yaml:"handle_size" validate:"gte=0"`
}

// DisplayConfig maps document pixels to terminal cells.
type DisplayConfig struct {
	CellWidth          float64 `yaml:"cell_width" validate:"gt=0"`
	CellHeight         float64 `yaml:"cell_height" validate:"gt=0"`
	DefaultImageWidth  float64 `yaml:"default_image_width" validate:"gt=0"`
	DefaultImageHeight float64 `yaml:"default_image_height" validate:"gt=0"`
	// FPS paces resize previews.
	FPS        int  `yaml:"fps" validate:"gte=1,lte=240"`
	HideStatus bool `yaml:"hide_status"`
}

// AutosaveConfig debounces writes while editing.
type AutosaveConfig struct {
	Enabled bool          `yaml:"enabled"`
	Delay   time.Duration `yaml:"delay" validate:"gte=0"`
	// Reload picks up changes made to the file by other programs while
	// there are no unsaved edits.
	Reload bool `yaml:"reload"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level string `yaml:"level" validate:"zaplevel"`
	// File enables rotated file output. The terminal editor never logs to
	// the terminal.
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `yaml:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `yaml:"max_age_days" validate:"gte=0"`
	Compress   bool   `yaml:"compress"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Editor: EditorConfig{HistoryLimit: 100},
		Resize: ResizeConfig{MinWidth: 50},
		Display: DisplayConfig{
			CellWidth:          8,
			CellHeight:         16,
			DefaultImageWidth:  240,
			DefaultImageHeight: 135,
			FPS:                60,
		},
		Autosave: AutosaveConfig{Enabled: true, Delay: time.Second, Reload: true},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Load reads path. An empty path reads DefaultFile when it exists and
// returns the defaults otherwise.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	f, err := os.Open(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			cfg.applyEnv()
			return cfg, cfg.Validate()
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a configuration document over the defaults. Unknown keys
// are rejected.
func Parse(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.applyDefaults()
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	def := Default()
	if c.Editor.HistoryLimit <= 0 {
		c.Editor.HistoryLimit = def.Editor.HistoryLimit
	}
	if c.Resize.MinWidth <= 0 {
		c.Resize.MinWidth = def.Resize.MinWidth
	}
	d := &c.Display
	if d.CellWidth <= 0 {
		d.CellWidth = def.Display.CellWidth
	}
	if d.CellHeight <= 0 {
		d.CellHeight = def.Display.CellHeight
	}
	if d.DefaultImageWidth <= 0 || d.DefaultImageHeight <= 0 {
		d.DefaultImageWidth, d.DefaultImageHeight = def.Display.DefaultImageWidth, def.Display.DefaultImageHeight
	}
	if d.FPS <= 0 {
		d.FPS = def.Display.FPS
	}
	if c.Autosave.Delay <= 0 {
		c.Autosave.Delay = def.Autosave.Delay
	}
	if c.Logging.Level == "" {
		c.Logging.Level = def.Logging.Level
	}
}

func (c *Config) applyEnv() {
	if lvl := strings.TrimSpace(os.Getenv(EnvLogLevel)); lvl != "" {
		c.Logging.Level = lvl
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their YAML keys.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		return name
	})
	_ = v.RegisterValidation("zaplevel", func(fl validator.FieldLevel) bool {
		_, err := zapcore.ParseLevel(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate reports the first inconsistent setting.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fields validator.ValidationErrors
		if errors.As(err, &fields) && len(fields) > 0 {
			fe := fields[0]
			_, key, _ := strings.Cut(fe.Namespace(), ".")
			rule := fe.Tag()
			if fe.Param() != "" {
				rule += "=" + fe.Param()
			}
			return fmt.Errorf("%w: %s %v fails %s", ErrInvalid, key, fe.Value(), rule)
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.Resize.MaxWidth > 0 && c.Resize.MaxWidth < c.Resize.MinWidth {
		return fmt.Errorf("%w: resize.max_width %d is below min_width %d", ErrInvalid, c.Resize.MaxWidth, c.Resize.MinWidth)
	}
	return nil
}

// FrameInterval is the preview frame period derived from Display.FPS.
func (d DisplayConfig) FrameInterval() time.Duration {
	if d.FPS <= 0 {
		return 0
	}
	return time.Second / time.Duration(d.FPS)
}
