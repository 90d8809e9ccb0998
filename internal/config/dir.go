// Package config provides the configuration directory and user defaults for slashkit.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// FileName is the defaults file inside Dir.
const FileName = "config.yaml"

// Dir returns the slashkit configuration directory.
//
// Resolution:
//   - $SLASHKIT_CONFIG_HOME if set (explicit override)
//   - $XDG_CONFIG_HOME/slashkit if set (respects XDG on any platform)
//   - %AppData%/slashkit on Windows
//   - ~/.config/slashkit on macOS and Linux
func Dir() string {
	if dir := os.Getenv("SLASHKIT_CONFIG_HOME"); dir != "" {
		return dir
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "slashkit")
	}

	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "slashkit")
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "slashkit")
}

// Path returns the default location of the defaults file, or "" when no
// config directory can be determined.
func Path() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, FileName)
}
