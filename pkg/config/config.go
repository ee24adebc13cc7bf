/*
Package config manages TOML config for the autocomplete hosts.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/bastiangx/autocomplete/internal/utils"
	"github.com/charmbracelet/log"
)

// FileName is the config file looked up under the user's config dir.
const FileName = "config.toml"

// Config holds the entire config structure
type Config struct {
	App    AppConfig    `toml:"app"`
	Widget WidgetConfig `toml:"widget"`
	Data   DataConfig   `toml:"data"`
	Theme  ThemeConfig  `toml:"theme"`
}

// AppConfig has options for the host page around the widget.
type AppConfig struct {
	Title string `toml:"title"`
}

// WidgetConfig has options for the input box and dropdown.
type WidgetConfig struct {
	Placeholder string `toml:"placeholder"`
	Width       int    `toml:"width"`
}

// DataConfig points at the candidate list.
type DataConfig struct {
	Path   string `toml:"path"`
	Unique bool   `toml:"unique"`
}

// ThemeConfig holds lipgloss colors, as hex strings or ANSI numbers.
type ThemeConfig struct {
	Match  string `toml:"match"`
	Error  string `toml:"error"`
	Muted  string `toml:"muted"`
	Border string `toml:"border"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Title: "AutoComplete Component",
		},
		Widget: WidgetConfig{
			Placeholder: "Search...",
			Width:       40,
		},
		Data: DataConfig{
			Path:   "",
			Unique: false,
		},
		Theme: ThemeConfig{
			Match:  "#eb6f92",
			Error:  "#eb6f92",
			Muted:  "#6e6a86",
			Border: "#31748f",
		},
	}
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/autocomplete/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string, resolver *utils.PathResolver) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}

	if resolver == nil {
		return DefaultConfig(), "", nil
	}
	defaultPath, err := resolver.GetConfigPath(FileName)
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file. Values missing from the file keep
// their defaults; a file that does not decode cleanly is salvaged section
// by section.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	config.normalize()
	return config, nil
}

// tryPartialParse attempts to parse a TOML file
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "app"); ok {
		if val, ok := utils.ExtractString(section, "title"); ok {
			config.App.Title = val
		}
	}
	if section, ok := utils.ExtractSection(tempConfig, "widget"); ok {
		if val, ok := utils.ExtractString(section, "placeholder"); ok {
			config.Widget.Placeholder = val
		}
		if val, ok := utils.ExtractInt64(section, "width"); ok {
			config.Widget.Width = val
		}
	}
	if section, ok := utils.ExtractSection(tempConfig, "data"); ok {
		if val, ok := utils.ExtractString(section, "path"); ok {
			config.Data.Path = val
		}
		if val, ok := utils.ExtractBool(section, "unique"); ok {
			config.Data.Unique = val
		}
	}
	if section, ok := utils.ExtractSection(tempConfig, "theme"); ok {
		extractThemeConfig(section, &config.Theme)
	}
	config.normalize()
	return config, nil
}

// extractThemeConfig extracts theme colors from a map
func extractThemeConfig(data map[string]any, theme *ThemeConfig) {
	if val, ok := utils.ExtractString(data, "match"); ok {
		theme.Match = val
	}
	if val, ok := utils.ExtractString(data, "error"); ok {
		theme.Error = val
	}
	if val, ok := utils.ExtractString(data, "muted"); ok {
		theme.Muted = val
	}
	if val, ok := utils.ExtractString(data, "border"); ok {
		theme.Border = val
	}
}

// normalize clamps values the widget cannot render.
func (c *Config) normalize() {
	if c.Widget.Width < 10 {
		log.Warnf("Widget width %d is too small, using 10", c.Widget.Width)
		c.Widget.Width = 10
	}
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	return utils.GetAbsolutePath(configPath)
}
