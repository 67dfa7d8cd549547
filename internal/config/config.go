package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// Config represents the application configuration
type Config struct {
	Archive ArchiveConfig `json:"archive"`
	Search  SearchConfig  `json:"search"`
	Index   IndexConfig   `json:"index"`
	Watcher WatcherConfig `json:"watcher"`
}

// ArchiveConfig represents archive tool settings
type ArchiveConfig struct {
	// PreferTools switches zip/tar/gzip/bzip2 operations from the built-in
	// codecs to the external command-line tools below.
	PreferTools bool   `json:"preferTools"`
	ZipTool     string `json:"zipTool"`
	UnzipTool   string `json:"unzipTool"`
	TarTool     string `json:"tarTool"`
	GzipTool    string `json:"gzipTool"`
	Bzip2Tool   string `json:"bzip2Tool"`
	// SevenZipTool is optional; 7z operations are unsupported when empty.
	SevenZipTool string `json:"sevenZipTool"`
}

// SearchConfig represents default search settings
type SearchConfig struct {
	MaxResults      int      `json:"maxResults"`      // 0 means unbounded
	IncludeHidden   bool     `json:"includeHidden"`   // Whether hidden entries are eligible
	FileSizeLimit   int64    `json:"fileSizeLimit"`   // Per-file byte cap for content scans
	ExcludePatterns []string `json:"excludePatterns"` // Doublestar glob patterns
}

// IndexConfig represents content index settings
type IndexConfig struct {
	Path        string   `json:"path"`        // SQLite database location
	Extensions  []string `json:"extensions"`  // Extensions whose content is indexed
	MaxFileSize int64    `json:"maxFileSize"` // Content indexing byte cap
}

// WatcherConfig represents directory watcher settings
type WatcherConfig struct {
	IntervalSeconds int `json:"intervalSeconds"`
}

// Interval returns the polling interval as a duration.
func (w WatcherConfig) Interval() time.Duration {
	return time.Duration(w.IntervalSeconds) * time.Second
}

// Manager provides configuration management functionality
type Manager struct {
	configPath string
}

// NewManager creates a new configuration manager
func NewManager() *Manager {
	return &Manager{
		configPath: getConfigPath(),
	}
}

// Load loads configuration from file and merges with defaults
func (m *Manager) Load() (*Config, error) {
	// Start with default configuration
	config := getDefaultConfig()

	data, err := os.ReadFile(m.configPath)
	if err != nil {
		log.Printf("Config file not found, using defaults: %v", err)
		return config, nil
	}

	// Parse config file into a temporary config
	var fileConfig Config
	if err := json.Unmarshal(data, &fileConfig); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	// Merge file config with defaults
	mergeConfigs(config, &fileConfig)
	return config, nil
}

// Save saves configuration to file
func (m *Manager) Save(config *Config) error {
	// Create the config directory if it doesn't exist
	configDir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(m.configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// Default returns the built-in default configuration.
func Default() *Config {
	return getDefaultConfig()
}

// getDefaultConfig returns the default configuration
func getDefaultConfig() *Config {
	return &Config{
		Archive: ArchiveConfig{
			PreferTools:  false,
			ZipTool:      "/usr/bin/zip",
			UnzipTool:    "/usr/bin/unzip",
			TarTool:      "/usr/bin/tar",
			GzipTool:     "/usr/bin/gzip",
			Bzip2Tool:    "/usr/bin/bzip2",
			SevenZipTool: "",
		},
		Search: SearchConfig{
			MaxResults:      0,
			IncludeHidden:   false,
			FileSizeLimit:   10 * 1024 * 1024,
			ExcludePatterns: []string{},
		},
		Index: IndexConfig{
			Path: filepath.Join(filepath.Dir(getConfigPath()), "index.db"),
			Extensions: []string{
				".txt", ".md", ".go", ".py", ".js", ".json",
				".yaml", ".yml", ".toml", ".xml", ".html", ".css",
				".csv", ".log", ".sh", ".c", ".h",
			},
			MaxFileSize: 1024 * 1024,
		},
		Watcher: WatcherConfig{
			IntervalSeconds: 2,
		},
	}
}

// getConfigPath returns the path to the configuration file following OS conventions
func getConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		// Windows: %APPDATA%\farc\config.json
		appData := os.Getenv("APPDATA")
		if appData == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "config.json"
			}
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		configDir = filepath.Join(appData, "farc")

	case "darwin":
		// macOS: ~/Library/Application Support/farc/config.json
		home, err := os.UserHomeDir()
		if err != nil {
			return "config.json"
		}
		configDir = filepath.Join(home, "Library", "Application Support", "farc")

	default:
		// Linux/Unix: $XDG_CONFIG_HOME/farc/config.json or ~/.config/farc/config.json
		xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfigHome == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "config.json"
			}
			xdgConfigHome = filepath.Join(home, ".config")
		}
		configDir = filepath.Join(xdgConfigHome, "farc")
	}

	return filepath.Join(configDir, "config.json")
}

// mergeConfigs merges file config values into default config
func mergeConfigs(defaultConfig *Config, fileConfig *Config) {
	// Merge Archive config
	// Note: for bool values, we can't distinguish between false and unset, so we always use file value
	defaultConfig.Archive.PreferTools = fileConfig.Archive.PreferTools
	if fileConfig.Archive.ZipTool != "" {
		defaultConfig.Archive.ZipTool = fileConfig.Archive.ZipTool
	}
	if fileConfig.Archive.UnzipTool != "" {
		defaultConfig.Archive.UnzipTool = fileConfig.Archive.UnzipTool
	}
	if fileConfig.Archive.TarTool != "" {
		defaultConfig.Archive.TarTool = fileConfig.Archive.TarTool
	}
	if fileConfig.Archive.GzipTool != "" {
		defaultConfig.Archive.GzipTool = fileConfig.Archive.GzipTool
	}
	if fileConfig.Archive.Bzip2Tool != "" {
		defaultConfig.Archive.Bzip2Tool = fileConfig.Archive.Bzip2Tool
	}
	if fileConfig.Archive.SevenZipTool != "" {
		defaultConfig.Archive.SevenZipTool = fileConfig.Archive.SevenZipTool
	}

	// Merge Search config
	if fileConfig.Search.MaxResults != 0 {
		defaultConfig.Search.MaxResults = fileConfig.Search.MaxResults
	}
	defaultConfig.Search.IncludeHidden = fileConfig.Search.IncludeHidden
	if fileConfig.Search.FileSizeLimit != 0 {
		defaultConfig.Search.FileSizeLimit = fileConfig.Search.FileSizeLimit
	}
	if fileConfig.Search.ExcludePatterns != nil {
		defaultConfig.Search.ExcludePatterns = fileConfig.Search.ExcludePatterns
	}

	// Merge Index config
	if fileConfig.Index.Path != "" {
		defaultConfig.Index.Path = fileConfig.Index.Path
	}
	if fileConfig.Index.Extensions != nil {
		defaultConfig.Index.Extensions = fileConfig.Index.Extensions
	}
	if fileConfig.Index.MaxFileSize != 0 {
		defaultConfig.Index.MaxFileSize = fileConfig.Index.MaxFileSize
	}

	// Merge Watcher config
	if fileConfig.Watcher.IntervalSeconds != 0 {
		defaultConfig.Watcher.IntervalSeconds = fileConfig.Watcher.IntervalSeconds
	}
}
