package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "editcore"

// DataDir returns the directory for saved field state. EDITCORE_DATA_DIR
// overrides the platform default.
//
// Platform paths:
//   - macOS:   ~/Library/Application Support/editcore/
//   - Linux:   ~/.local/share/editcore/
//   - Windows: %APPDATA%\editcore\
func DataDir() string {
	if dir := os.Getenv("EDITCORE_DATA_DIR"); dir != "" {
		return dir
	}
	switch runtime.GOOS {
	case "darwin":
		return macOSDataDir()
	case "linux":
		return xdgDir("XDG_DATA_HOME", ".local", "share")
	case "windows":
		return windowsDataDir()
	default:
		return fallbackDir()
	}
}

// ConfigDir returns the directory searched for config files.
// EDITCORE_CONFIG_DIR overrides the platform default.
//
// Platform paths:
//   - macOS:   ~/Library/Application Support/editcore/
//   - Linux:   ~/.config/editcore/
//   - Windows: %APPDATA%\editcore\
func ConfigDir() string {
	if dir := os.Getenv("EDITCORE_CONFIG_DIR"); dir != "" {
		return dir
	}
	switch runtime.GOOS {
	case "darwin":
		return macOSDataDir() // macOS uses same dir for config and data
	case "linux":
		return xdgDir("XDG_CONFIG_HOME", ".config")
	case "windows":
		return windowsDataDir()
	default:
		return fallbackDir()
	}
}

func macOSDataDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, "Library", "Application Support", appName)
}

// xdgDir follows the XDG Base Directory Specification: env if set,
// otherwise the home-relative fallback.
func xdgDir(env string, fallback ...string) string {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(append(append([]string{home}, fallback...), appName)...)
}

func windowsDataDir() string {
	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, appName)
	}
	return fallbackDir()
}

func fallbackDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, "."+appName)
}

// SupportedConfigFormats returns the recognized config file extensions.
func SupportedConfigFormats() []string {
	return []string{
		"toml",
		"json",
		"yaml",
		"yml",
	}
}

// FindConfigFile searches for a config file in standard locations.
// Returns the path to the first found config file, or empty string if none found.
func FindConfigFile() string {
	// Search order:
	// 1. Current directory
	// 2. Config directory
	searchDirs := []string{
		".",
		ConfigDir(),
	}

	for _, dir := range searchDirs {
		for _, ext := range SupportedConfigFormats() {
			path := filepath.Join(dir, "config."+ext)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}

	return ""
}
