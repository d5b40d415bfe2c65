package paths

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withPlatform overrides platform detection for the duration of a test.
func withPlatform(t *testing.T, goos string, home, userConfig func() (string, error)) {
	t.Helper()
	saved := platformDir
	t.Cleanup(func() { platformDir = saved })
	platformDir.goos = goos
	if home != nil {
		platformDir.homeDir = home
	}
	if userConfig != nil {
		platformDir.userConfigDir = userConfig
	}
}

func fixed(dir string) func() (string, error) {
	return func() (string, error) { return dir, nil }
}

func TestDefaultConfigDir(t *testing.T) {
	t.Run("linux uses XDG_CONFIG_HOME when set", func(t *testing.T) {
		withPlatform(t, "linux", fixed("/home/u"), nil)
		t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")
		got, err := DefaultConfigDir()
		require.NoError(t, err)
		assert.Equal(t, "/tmp/xdg-config/herostore", got)
	})

	t.Run("linux falls back to ~/.config", func(t *testing.T) {
		withPlatform(t, "linux", fixed("/home/u"), nil)
		t.Setenv("XDG_CONFIG_HOME", "")
		got, err := DefaultConfigDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/home/u", ".config", "herostore"), got)
	})

	t.Run("darwin uses the user config dir", func(t *testing.T) {
		withPlatform(t, "darwin", nil, fixed("/Users/u/Library/Application Support"))
		got, err := DefaultConfigDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/Users/u/Library/Application Support", "herostore"), got)
	})

	t.Run("home lookup failure is returned", func(t *testing.T) {
		boom := errors.New("no home")
		withPlatform(t, "linux", func() (string, error) { return "", boom }, nil)
		t.Setenv("XDG_CONFIG_HOME", "")
		_, err := DefaultConfigDir()
		assert.ErrorIs(t, err, boom)
	})
}

func TestDefaultDataDir(t *testing.T) {
	t.Run("linux uses XDG_DATA_HOME when set", func(t *testing.T) {
		withPlatform(t, "linux", fixed("/home/u"), nil)
		t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")
		got, err := DefaultDataDir()
		require.NoError(t, err)
		assert.Equal(t, "/tmp/xdg-data/herostore", got)
	})

	t.Run("linux falls back to ~/.local/share", func(t *testing.T) {
		withPlatform(t, "linux", fixed("/home/u"), nil)
		t.Setenv("XDG_DATA_HOME", "")
		got, err := DefaultDataDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/home/u", ".local", "share", "herostore"), got)
	})

	t.Run("windows shares the config root", func(t *testing.T) {
		withPlatform(t, "windows", nil, fixed(`C:\Users\u\AppData\Roaming`))
		got, err := DefaultDataDir()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(`C:\Users\u\AppData\Roaming`, "herostore"), got)
	})
}

func TestResolveConfigDir(t *testing.T) {
	tests := []struct {
		name    string
		flag    string
		envVal  string
		wantSub string // substring the result must contain
	}{
		{
			name:    "flag wins over env",
			flag:    "/explicit/config",
			envVal:  "/env/config",
			wantSub: "/explicit/config",
		},
		{
			name:    "env wins when flag empty",
			envVal:  "/env/config",
			wantSub: "/env/config",
		},
		{
			name:    "platform default when both empty",
			wantSub: "herostore",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvConfigDir, tt.envVal)
			got, err := ResolveConfigDir(tt.flag)
			require.NoError(t, err)
			assert.Contains(t, got, tt.wantSub)
		})
	}
}

func TestResolveDataDir(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)

	home, err := homedir.Dir()
	require.NoError(t, err)

	tests := []struct {
		name          string
		flag          string
		configYAMLVal string
		envVal        string
		want          string
	}{
		{
			name:          "flag wins over all",
			flag:          "/flag/data",
			configYAMLVal: "/config/data",
			envVal:        "/env/data",
			want:          "/flag/data",
		},
		{
			name:          "config.yaml wins over env",
			configYAMLVal: "/config/data",
			envVal:        "/env/data",
			want:          "/config/data",
		},
		{
			name:   "env wins when flag and config empty",
			envVal: "/env/data",
			want:   "/env/data",
		},
		{
			name: "CWD default when all empty",
			want: filepath.Join(cwd, DefaultDataDirName),
		},
		{
			name: "relative flag becomes absolute",
			flag: "relative/path",
			want: filepath.Join(cwd, "relative/path"),
		},
		{
			name:          "tilde in config.yaml expands to home",
			configYAMLVal: "~/heroes-data",
			want:          filepath.Join(home, "heroes-data"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvDataDir, tt.envVal)
			got, err := ResolveDataDir(tt.flag, tt.configYAMLVal)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfigFile(t *testing.T) {
	assert.Equal(t, filepath.Join("/etc/hs", "config.yaml"), ConfigFile("/etc/hs"))
}
