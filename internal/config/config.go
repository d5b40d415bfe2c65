// Package config loads heroes settings from config.yaml and HEROES_*
// environment variables using Viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/herostore/internal/paths"
	"github.com/mesh-intelligence/herostore/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	envPrefix      = "HEROES"
)

// Config keys.
const (
	KeyBackend        = "backend"
	KeyDataDir        = "data_dir"
	KeyAPIURL         = "api_url"
	KeyTimeout        = "timeout"
	KeyCollections    = "collections"
	KeyListen         = "listen"
	KeyLogLevel       = "log_level"
	KeyLogFormat      = "log_format"
	KeyStrictOrdering = "strict_ordering"
	KeySeedFile       = "seed_file"
)

// Defaults.
const (
	DefaultBackend = types.BackendHTTP
	DefaultAPIURL  = "http://localhost:7626/api"
	DefaultListen  = ":7626"
	DefaultTimeout = 10 * time.Second
)

// Settings is the typed view of a loaded configuration.
type Settings struct {
	Store          types.Config
	Listen         string
	LogLevel       string
	LogFormat      string
	StrictOrdering bool
	SeedFile       string
}

// fileContents is the structure written to a fresh config.yaml.
type fileContents struct {
	Backend     string   `yaml:"backend"`
	APIURL      string   `yaml:"api_url"`
	Listen      string   `yaml:"listen"`
	Timeout     string   `yaml:"timeout"`
	Collections []string `yaml:"collections"`
	LogLevel    string   `yaml:"log_level"`
	DataDir     string   `yaml:"data_dir,omitempty"`
}

// New returns a Viper instance with defaults and env bindings but no file.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyBackend, DefaultBackend)
	v.SetDefault(KeyAPIURL, DefaultAPIURL)
	v.SetDefault(KeyListen, DefaultListen)
	v.SetDefault(KeyTimeout, DefaultTimeout)
	v.SetDefault(KeyCollections, types.DefaultCollections)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "cli")
	v.SetDefault(KeyStrictOrdering, false)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads config.yaml from configDir. A missing file is not an error.
func Load(configDir string) (*viper.Viper, error) {
	v := New()
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// Decode converts v into Settings. dataDir, when non-empty, overrides the
// data_dir key.
func Decode(v *viper.Viper, dataDir string) (Settings, error) {
	if dataDir == "" {
		dataDir = v.GetString(KeyDataDir)
	}
	s := Settings{
		Store: types.Config{
			Backend:     v.GetString(KeyBackend),
			DataDir:     dataDir,
			APIURL:      v.GetString(KeyAPIURL),
			Timeout:     v.GetDuration(KeyTimeout),
			Collections: v.GetStringSlice(KeyCollections),
		},
		Listen:         v.GetString(KeyListen),
		LogLevel:       v.GetString(KeyLogLevel),
		LogFormat:      v.GetString(KeyLogFormat),
		StrictOrdering: v.GetBool(KeyStrictOrdering),
		SeedFile:       v.GetString(KeySeedFile),
	}
	if err := s.Store.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// WriteDefault creates configDir and a default config.yaml inside it. An
// existing file is left alone. It reports whether a file was written.
func WriteDefault(configDir, dataDir string) (bool, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return false, fmt.Errorf("create config dir: %w", err)
	}

	path := paths.ConfigFile(configDir)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	data, err := yaml.Marshal(&fileContents{
		Backend:     DefaultBackend,
		APIURL:      DefaultAPIURL,
		Listen:      DefaultListen,
		Timeout:     DefaultTimeout.String(),
		Collections: types.DefaultCollections,
		LogLevel:    "info",
		DataDir:     dataDir,
	})
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}
