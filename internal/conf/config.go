package conf

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultSource is where the settings of the gitcfg command are read from.
var DefaultSource = ConfigSource{
	Path:      "/etc/gitcfg/config.toml",
	DropInDir: "/etc/gitcfg/config.toml.d/",
}

// defaultConfig contains the embedded default settings. They are the base
// layer before the main file and drop-in files are applied.
//
//go:embed default.toml
var defaultConfig string

// Config represents the settings of the gitcfg command.
type Config struct {
	LogLevel slog.Level
	// Files are layered before any file given on the command line, lowest
	// precedence first.
	Files []string
	// HomeDir replaces the user's home directory when expanding "~/".
	HomeDir string
}

// Defaults returns the embedded default settings.
func Defaults() (Config, error) {
	config := Config{}
	dto, err := parseConfigDTO(defaultConfig)
	if err != nil {
		return config, fmt.Errorf("failed to parse embedded defaults: %w", err)
	}
	if err := config.Update(dto); err != nil {
		return config, fmt.Errorf("invalid embedded defaults: %w", err)
	}
	return config, nil
}

// Update applies non-nil values from a configDTO.
func (c *Config) Update(dto configDTO) error {
	if dto.LogLevel != nil {
		level, err := ParseLevel(*dto.LogLevel)
		if err != nil {
			return err
		}
		c.LogLevel = level
	}
	if dto.Files != nil {
		c.Files = append([]string(nil), (*dto.Files)...)
	}
	if dto.HomeDir != nil {
		c.HomeDir = *dto.HomeDir
	}
	return nil
}

// ParseLevel parses DEBUG, INFO, WARN or ERROR, ignoring case.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO":
		return slog.LevelInfo, nil
	case "WARN":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// ConfigSource orchestrates loading settings from multiple sources.
// See the Read method.
type ConfigSource struct {
	Path      string
	DropInDir string
}

// Read loads and returns the settings by merging all layers:
// 1. Embedded defaults
// 2. Main settings file
// 3. Drop-in files
func (cs *ConfigSource) Read() (Config, error) {
	resolved, err := Defaults()
	if err != nil {
		slog.Error("failed to parse embedded defaults", "error", err)
		return resolved, err
	}

	data, err := os.ReadFile(cs.Path)
	if err != nil {
		if !os.IsNotExist(err) {
			return resolved, fmt.Errorf("failed to load %s: %w", cs.Path, err)
		}
	} else {
		mainDTO, err := parseConfigDTO(string(data))
		if err != nil {
			// An existing but malformed file is an error, not something to
			// silently skip.
			return resolved, fmt.Errorf("failed to parse %s: %w", cs.Path, err)
		}
		if err := resolved.Update(mainDTO); err != nil {
			return resolved, fmt.Errorf("invalid settings in %s: %w", cs.Path, err)
		}
	}

	paths, err := cs.findDropInFiles()
	if err != nil {
		slog.Error("failed to load drop-in files", "error", err, "dir", cs.DropInDir)
		return resolved, err
	}
	for _, path := range paths {
		dto, err := readConfigDTO(path)
		if err != nil {
			return resolved, err
		}
		if err := resolved.Update(dto); err != nil {
			return resolved, fmt.Errorf("invalid settings in %s: %w", path, err)
		}
	}

	return resolved, nil
}

type configDTO struct {
	LogLevel *string   `toml:"log-level"`
	Files    *[]string `toml:"files"`
	HomeDir  *string   `toml:"home-dir"`
}

// parseConfigDTO parses a TOML string into a configDTO.
func parseConfigDTO(data string) (configDTO, error) {
	var dto configDTO

	if err := toml.Unmarshal([]byte(data), &dto); err != nil {
		return dto, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return dto, nil
}

func readConfigDTO(path string) (configDTO, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return configDTO{}, err
	}
	dto, err := parseConfigDTO(string(data))
	if err != nil {
		return dto, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return dto, nil
}

// findDropInFiles finds and returns sorted paths to drop-in settings files.
// Returns nil if the drop-in directory doesn't exist (not an error).
func (cs *ConfigSource) findDropInFiles() ([]string, error) {
	if _, err := os.Stat(cs.DropInDir); os.IsNotExist(err) {
		return nil, nil
	}

	entries, err := os.ReadDir(cs.DropInDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read drop-in directory %s: %w", cs.DropInDir, err)
	}

	var filenames []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(entry.Name(), ".toml") {
			filenames = append(filenames, filepath.Join(cs.DropInDir, entry.Name()))
		}
	}

	sort.Strings(filenames)

	return filenames, nil
}
