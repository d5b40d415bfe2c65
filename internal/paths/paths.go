// Package paths resolves the configuration and data directories used by the
// heroes CLI and the local API server.
package paths

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/mitchellh/go-homedir"
)

// AppName is the directory name used under platform config and data roots.
const AppName = "herostore"

// CWD-relative directory names.
const (
	DefaultConfigDirName = ".herostore"
	DefaultDataDirName   = ".herostore-db"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "HEROES_CONFIG_DIR"
	EnvDataDir   = "HEROES_DATA_DIR"
)

// ConfigFileName is the name of the YAML configuration file inside the
// config directory.
const ConfigFileName = "config.yaml"

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	goos          string
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	goos:          runtime.GOOS,
	homeDir:       homedir.Dir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/herostore (fallback ~/.config/herostore)
// macOS:   ~/Library/Application Support/herostore
// Windows: %APPDATA%/herostore
func DefaultConfigDir() (string, error) {
	return platformRoot("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the platform-specific default data directory.
//
// Linux:   $XDG_DATA_HOME/herostore (fallback ~/.local/share/herostore)
// macOS and Windows share the configuration root.
func DefaultDataDir() (string, error) {
	return platformRoot("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func platformRoot(xdgEnv, homeFallback string) (string, error) {
	if platformDir.goos != "linux" {
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, AppName), nil
	}
	if xdg := os.Getenv(xdgEnv); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, homeFallback, AppName), nil
}

// ResolveConfigDir returns the configuration directory following the precedence
// chain: flag > HEROES_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return absPath(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return absPath(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > configYAMLValue > HEROES_DATA_DIR env > $(CWD)/.herostore-db.
func ResolveDataDir(flag, configYAMLValue string) (string, error) {
	for _, candidate := range []string{flag, configYAMLValue, os.Getenv(EnvDataDir)} {
		if candidate != "" {
			return absPath(candidate)
		}
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}

// absPath expands a leading ~ and makes p absolute.
func absPath(p string) (string, error) {
	expanded, err := homedir.Expand(p)
	if err != nil {
		return "", err
	}
	return filepath.Abs(expanded)
}

// ConfigFile returns the path of config.yaml inside configDir.
func ConfigFile(configDir string) string {
	return filepath.Join(configDir, ConfigFileName)
}
