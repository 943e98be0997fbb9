package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauern/hookrelay/internal/core"
)

// ErrUnknownPlatform is returned when neither the payload nor the project
// layout identifies a producer.
var ErrUnknownPlatform = errors.New("unable to determine event producer")

// DefaultDetector identifies producers from the event, falling back to
// project markers for payloads that carry no identity.
type DefaultDetector struct {
	// ProjectDir is checked for .opencode or .claude; empty means the working directory
	ProjectDir string
}

// NewDetector creates a new platform detector
func NewDetector(projectDir string) Detector {
	return &DefaultDetector{ProjectDir: projectDir}
}

// DetectType returns the producer of e
func (d *DefaultDetector) DetectType(e *core.Event) (Type, error) {
	// 1. The payload itself
	switch e.Producer() {
	case core.ProducerClaudeCode:
		return ClaudeCode, nil
	case core.ProducerOpenCode:
		return OpenCode, nil
	}

	// 2. Project markers; .opencode wins when both exist
	dir := d.ProjectDir
	if dir == "" {
		dir = "."
	}
	if isDir(filepath.Join(dir, ".opencode")) {
		return OpenCode, nil
	}
	if isDir(filepath.Join(dir, ".claude")) {
		return ClaudeCode, nil
	}

	return "", ErrUnknownPlatform
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// TypeFromString converts a string to a platform Type
func TypeFromString(s string) (Type, error) {
	switch strings.ToLower(s) {
	case "opencode", "open-code":
		return OpenCode, nil
	case "claudecode", "claude", "claude-code":
		return ClaudeCode, nil
	default:
		return "", fmt.Errorf("unknown platform: %s (valid: claudecode, opencode)", s)
	}
}
