// Package paths locates the configuration of the xmp command.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const (
	// appName is the directory created under the platform config root.
	appName = "xmptree"

	// ConfigFileName is the configuration file inside the config directory.
	ConfigFileName = "config.yaml"

	// EnvConfigDir overrides the configuration directory.
	EnvConfigDir = "XMP_CONFIG_DIR"
)

// platformDir holds the OS lookups, replaced in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// configRoot is the per-user directory applications keep configuration in.
// On Linux XDG_CONFIG_HOME wins, then ~/.config. Elsewhere os.UserConfigDir
// decides (~/Library/Application Support, %AppData%).
func configRoot() (string, error) {
	if runtime.GOOS != "linux" {
		return platformDir.userConfigDir()
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return xdg, nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config"), nil
}

// DefaultConfigDir returns <config root>/xmptree.
func DefaultConfigDir() (string, error) {
	root, err := configRoot()
	if err != nil {
		return "", fmt.Errorf("locating user config dir: %w", err)
	}
	return filepath.Join(root, appName), nil
}

// ResolveConfigDir picks the configuration directory: the flag value, then
// $XMP_CONFIG_DIR, then DefaultConfigDir. Explicit values are made absolute.
func ResolveConfigDir(flag string) (string, error) {
	for _, dir := range []string{flag, os.Getenv(EnvConfigDir)} {
		if dir != "" {
			return filepath.Abs(dir)
		}
	}
	return DefaultConfigDir()
}

// ConfigFile returns the path of the configuration file inside dir.
func ConfigFile(dir string) string {
	return filepath.Join(dir, ConfigFileName)
}
