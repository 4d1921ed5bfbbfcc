package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Window size constants
const (
	defaultWidth  = 1200
	defaultHeight = 900
	minWidth      = 400
	minHeight     = 300
)

const (
	configFileName = ".spread.json"
	envPrefix      = "SPREAD"
)

// State backends
const (
	BackendBadger = "badger"
	BackendJSON   = "json"
	BackendMemory = "memory"
)

// Directory key modes
const (
	KeyModeName = "name" // state keyed by directory name
	KeyModePath = "path" // state keyed by full location
)

// ConfigLoadResult contains the result of loading configuration
type ConfigLoadResult struct {
	Config   Config
	HasError bool
	Warnings []string
	Status   string // "OK", "Default", "Warning", "Error"
}

// StateConfig selects where reading positions are kept
type StateConfig struct {
	Backend string `mapstructure:"backend" json:"backend" validate:"oneof=badger json memory"`
	// Path is a directory for badger and a file for json; empty uses the default location
	Path    string `mapstructure:"path" json:"path"`
	KeyMode string `mapstructure:"key_mode" json:"key_mode" validate:"oneof=name path"`
}

// LoggingConfig mirrors the console/file split of the logger
type LoggingConfig struct {
	Level     string `mapstructure:"level" json:"level" validate:"oneof=none normal debug"`
	File      string `mapstructure:"file" json:"file"`
	FileLevel string `mapstructure:"file_level" json:"file_level" validate:"oneof=none normal debug"`
}

type Config struct {
	WindowWidth         int                 `mapstructure:"window_width" json:"window_width" validate:"gte=400"`
	WindowHeight        int                 `mapstructure:"window_height" json:"window_height" validate:"gte=300"`
	Fullscreen          bool                `mapstructure:"fullscreen" json:"fullscreen"`
	Direction           string              `mapstructure:"direction" json:"direction" validate:"oneof=LTR RTL"`
	Parity              string              `mapstructure:"parity" json:"parity" validate:"oneof=EVEN ODD"`
	PagesPerView        int                 `mapstructure:"pages_per_view" json:"pages_per_view" validate:"oneof=1 2"`
	ParityMode          string              `mapstructure:"parity_mode" json:"parity_mode" validate:"oneof=toggle shift"`
	Persistence         bool                `mapstructure:"persistence" json:"persistence"`
	CoverAlwaysAdvances bool                `mapstructure:"cover_always_advances" json:"cover_always_advances"`
	AutoLayout          bool                `mapstructure:"auto_layout" json:"auto_layout"`
	SortMethod          string              `mapstructure:"sort_method" json:"sort_method" validate:"oneof=locale natural simple entry"`
	Locale              string              `mapstructure:"locale" json:"locale"`
	CacheSize           int                 `mapstructure:"cache_size" json:"cache_size" validate:"gte=1,lte=64"`
	HelpFontSize        float64             `mapstructure:"help_font_size" json:"help_font_size" validate:"gt=12"`
	LibraryPath         string              `mapstructure:"library_path" json:"library_path"`
	State               StateConfig         `mapstructure:"state" json:"state"`
	Logging             LoggingConfig       `mapstructure:"logging" json:"logging"`
	Keybindings         map[string][]string `mapstructure:"keybindings" json:"keybindings"`
	Mouse               MouseSettings       `mapstructure:"mouse" json:"mouse"`
}

// DefaultConfig returns the configuration used when no file is present
func DefaultConfig() Config {
	return Config{
		WindowWidth:         defaultWidth,
		WindowHeight:        defaultHeight,
		Direction:           string(DirectionRTL),
		Parity:              string(ParityEven),
		PagesPerView:        2,
		ParityMode:          string(ParityModeToggle),
		Persistence:         true,
		CoverAlwaysAdvances: true,
		AutoLayout:          true,
		SortMethod:          SortLocale,
		Locale:              "",
		CacheSize:           16,
		HelpFontSize:        24.0,
		State: StateConfig{
			Backend: BackendBadger,
			KeyMode: KeyModeName,
		},
		Logging: LoggingConfig{
			Level:     "normal",
			FileLevel: "none",
		},
		Keybindings: GetDefaultKeybindings(),
		Mouse:       GetDefaultMouseSettings(),
	}
}

// ReadingDefaults converts the configured preferences into an initial ReadingState
func (c *Config) ReadingDefaults() ReadingState {
	st := DefaultReadingState()
	if d, err := ParseDirection(c.Direction); err == nil {
		st.Direction = d
	}
	if p, err := ParseParity(c.Parity); err == nil {
		st.Parity = p
	}
	if c.PagesPerView == 1 || c.PagesPerView == 2 {
		st.PagesPerView = c.PagesPerView
	}
	return st
}

func getConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "spread.json"
	}
	return filepath.Join(homeDir, configFileName)
}

// getDataDir is where the state store lives unless configured otherwise
func getDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "spread")
	}
	return ".spread"
}

// StatePath returns the configured state location or the backend default
func (c *Config) StatePath() string {
	if c.State.Path != "" {
		return c.State.Path
	}
	switch c.State.Backend {
	case BackendJSON:
		return filepath.Join(getDataDir(), "state.json")
	default:
		return filepath.Join(getDataDir(), "state")
	}
}

func setDefaults(v *viper.Viper, def Config) {
	v.SetDefault("window_width", def.WindowWidth)
	v.SetDefault("window_height", def.WindowHeight)
	v.SetDefault("fullscreen", def.Fullscreen)
	v.SetDefault("direction", def.Direction)
	v.SetDefault("parity", def.Parity)
	v.SetDefault("pages_per_view", def.PagesPerView)
	v.SetDefault("parity_mode", def.ParityMode)
	v.SetDefault("persistence", def.Persistence)
	v.SetDefault("cover_always_advances", def.CoverAlwaysAdvances)
	v.SetDefault("auto_layout", def.AutoLayout)
	v.SetDefault("sort_method", def.SortMethod)
	v.SetDefault("locale", def.Locale)
	v.SetDefault("cache_size", def.CacheSize)
	v.SetDefault("help_font_size", def.HelpFontSize)
	v.SetDefault("library_path", def.LibraryPath)
	v.SetDefault("state.backend", def.State.Backend)
	v.SetDefault("state.path", def.State.Path)
	v.SetDefault("state.key_mode", def.State.KeyMode)
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.file", def.Logging.File)
	v.SetDefault("logging.file_level", def.Logging.FileLevel)
	v.SetDefault("mouse.wheel_sensitivity", def.Mouse.WheelSensitivity)
	v.SetDefault("mouse.double_click_time", def.Mouse.DoubleClickTime)
	v.SetDefault("mouse.enable_mouse", def.Mouse.EnableMouse)
	v.SetDefault("mouse.wheel_inverted", def.Mouse.WheelInverted)
}

func newViper(configPath string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("json")
	// SPREAD_STATE_BACKEND=json overrides state.backend
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

func loadConfigFromPath(configPath string) ConfigLoadResult {
	defaults := DefaultConfig()
	result := ConfigLoadResult{
		Config:   defaults,
		HasError: false,
		Warnings: []string{},
		Status:   "OK",
	}

	v := newViper(configPath)
	setDefaults(v, defaults)

	if err := v.ReadInConfig(); err != nil {
		if !isNotFound(err) {
			// Invalid config file - keep defaults
			result.HasError = true
			result.Status = "Error"
			result.Warnings = append(result.Warnings, fmt.Sprintf("Invalid config file: %v", err))
			return result
		}
		// Config file not found is not an error - defaults and environment still apply
		result.Status = "Default"
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		result.HasError = true
		result.Status = "Error"
		result.Warnings = append(result.Warnings, fmt.Sprintf("Invalid config values: %v", err))
		return result
	}

	// Directions and parities are accepted in any case
	config.Direction = strings.ToUpper(config.Direction)
	config.Parity = strings.ToUpper(config.Parity)

	// Out of range values fall back to their defaults one by one
	for _, warning := range resetInvalidFields(&config, &defaults) {
		result.Warnings = append(result.Warnings, warning)
		result.Status = "Warning"
	}

	// Keybindings - ensure defaults exist for missing actions
	if config.Keybindings == nil {
		config.Keybindings = GetDefaultKeybindings()
	} else {
		for action, defaultKeys := range GetDefaultKeybindings() {
			if _, exists := config.Keybindings[action]; !exists {
				config.Keybindings[action] = defaultKeys
			}
		}
		if err := validateKeybindings(config.Keybindings); err != nil {
			config.Keybindings = GetDefaultKeybindings()
			result.Status = "Warning"
			result.Warnings = append(result.Warnings, fmt.Sprintf("Keybinding errors: %v", err))
		}
	}

	result.Config = config
	return result
}

var configValidator = validator.New()

// resetInvalidFields validates config and replaces every failing field with
// the value it has in def. It returns one warning per replaced field.
func resetInvalidFields(config, def *Config) []string {
	err := configValidator.Struct(config)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	var warnings []string
	for _, fe := range verrs {
		// StructNamespace is "Config.State.Backend"; drop the root type name
		path := strings.Split(fe.StructNamespace(), ".")[1:]
		dst := fieldByPath(reflect.ValueOf(config).Elem(), path)
		src := fieldByPath(reflect.ValueOf(def).Elem(), path)
		if !dst.IsValid() || !src.IsValid() || !dst.CanSet() {
			continue
		}
		dst.Set(src)
		warnings = append(warnings, fmt.Sprintf("%s: invalid value %v (%s), using %v",
			strings.Join(path, "."), fe.Value(), fe.Tag(), src.Interface()))
	}
	return warnings
}

func fieldByPath(v reflect.Value, path []string) reflect.Value {
	for _, name := range path {
		if v.Kind() != reflect.Struct {
			return reflect.Value{}
		}
		v = v.FieldByName(name)
	}
	return v
}

// validateKeybindings validates the keybindings configuration
func validateKeybindings(keybindings map[string][]string) error {
	// Check for valid key formats and detect conflicts
	keyToAction := make(map[string]string)
	validKeys := getKeyMapping()

	for action, keys := range keybindings {
		for _, keyStr := range keys {
			if err := validateKeyString(keyStr, validKeys); err != nil {
				return fmt.Errorf("invalid key '%s' for action '%s': %w", keyStr, action, err)
			}
			if existingAction, exists := keyToAction[keyStr]; exists {
				return fmt.Errorf("key conflict: '%s' is bound to both '%s' and '%s'", keyStr, existingAction, action)
			}
			keyToAction[keyStr] = action
		}
	}

	return nil
}

// validateKeyString validates a single key string format
func validateKeyString[K any](keyStr string, validKeys map[string]K) error {
	if keyStr == "" {
		return fmt.Errorf("empty key string")
	}
	parts := strings.Split(keyStr, "+")

	// Last part should be the actual key
	keyName := parts[len(parts)-1]
	if _, ok := validKeys[keyName]; !ok {
		return fmt.Errorf("unknown key: %s", keyName)
	}

	for _, part := range parts[:len(parts)-1] {
		modifier := strings.ToLower(part)
		if modifier != "shift" && modifier != "ctrl" && modifier != "alt" {
			return fmt.Errorf("unknown modifier: %s", part)
		}
	}

	return nil
}

// saveWindowSize writes the window size back into the config file, keeping
// everything else the user put there.
func saveWindowSize(configPath string, width, height int, log *zap.Logger) {
	// Don't save if size is too small
	if width < minWidth || height < minHeight {
		log.Warn("Not saving config with invalid window size", zap.Int("width", width), zap.Int("height", height))
		return
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil && !isNotFound(err) {
		log.Warn("Not saving window size, config file unreadable", zap.String("path", configPath), zap.Error(err))
		return
	}
	v.Set("window_width", width)
	v.Set("window_height", height)

	if err := v.WriteConfigAs(configPath); err != nil {
		log.Error("Failed to save config", zap.String("path", configPath), zap.Error(err))
	}
}
