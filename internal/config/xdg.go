package config

import (
	"os"
	"path/filepath"

	"github.com/klauern/hookrelay/internal/constants"
)

// XDGConfig locates configuration under the XDG Base Directory layout
type XDGConfig struct {
	BaseDir string
}

// NewXDGConfig creates a new XDG configuration locator
func NewXDGConfig() *XDGConfig {
	baseDir := os.Getenv("XDG_CONFIG_HOME")
	if baseDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			// Fallback to current directory if home directory cannot be determined
			baseDir = ".config"
		} else {
			baseDir = filepath.Join(homeDir, ".config")
		}
	}

	return &XDGConfig{
		BaseDir: filepath.Join(baseDir, constants.AppName),
	}
}

// GetConfigDir returns the XDG configuration directory for hookrelay
func (x *XDGConfig) GetConfigDir() string {
	return x.BaseDir
}

// GetGlobalConfigPaths returns candidate global config files in lookup order
func (x *XDGConfig) GetGlobalConfigPaths() []string {
	paths := make([]string, 0, len(constants.ConfigExtensions))
	for _, ext := range constants.ConfigExtensions {
		paths = append(paths, filepath.Join(x.BaseDir, constants.XDGConfigBase+ext))
	}
	return paths
}

// ProjectConfigPaths returns candidate project config files under
// <projectDir>/.claude/hooks in lookup order
func ProjectConfigPaths(projectDir string) []string {
	dir := filepath.Join(projectDir, constants.ClaudeDir, constants.HooksSubDir)
	paths := make([]string, 0, len(constants.ConfigExtensions))
	for _, ext := range constants.ConfigExtensions {
		paths = append(paths, filepath.Join(dir, constants.ConfigFileBase+ext))
	}
	return paths
}
