// Package paths resolves the configuration and data directories of crate.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName names the per-user directories.
const AppName = "crate"

// Environment variable overrides.
const (
	EnvConfigDir = "CRATE_CONFIG_DIR"
	EnvDataDir   = "CRATE_DATA_DIR"
)

// platformDir is swapped in tests.
var platformDir = struct {
	goos          string
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	goos:          runtime.GOOS,
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// userDir returns $<xdgVar>/crate on linux, falling back to ~/<linuxRel>/crate,
// and the OS user config dir elsewhere.
func userDir(xdgVar string, linuxRel ...string) (string, error) {
	if platformDir.goos != "linux" {
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, AppName), nil
	}
	if xdg := os.Getenv(xdgVar); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append(append([]string{home}, linuxRel...), AppName)...), nil
}

// DefaultConfigDir returns the platform configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/crate (fallback ~/.config/crate)
// macOS:   ~/Library/Application Support/crate
// Windows: %APPDATA%/crate
func DefaultConfigDir() (string, error) {
	return userDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the platform data directory.
//
// Linux:   $XDG_DATA_HOME/crate (fallback ~/.local/share/crate)
// macOS and Windows: same as the config directory.
func DefaultDataDir() (string, error) {
	return userDir("XDG_DATA_HOME", ".local", "share")
}

// ResolveConfigDir applies flag > CRATE_CONFIG_DIR > DefaultConfigDir.
func ResolveConfigDir(flag string) (string, error) {
	return resolve(DefaultConfigDir, flag, os.Getenv(EnvConfigDir))
}

// ResolveDataDir applies flag > CRATE_DATA_DIR > config file value >
// DefaultDataDir, the same order viper gives the other settings.
func ResolveDataDir(flag, configValue string) (string, error) {
	return resolve(DefaultDataDir, flag, os.Getenv(EnvDataDir), configValue)
}

// resolve returns the first non-empty candidate as an absolute path, or def.
func resolve(def func() (string, error), candidates ...string) (string, error) {
	for _, c := range candidates {
		if c != "" {
			return filepath.Abs(c)
		}
	}
	return def()
}
