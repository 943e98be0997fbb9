package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauern/hookrelay/internal/constants"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logging format constants
const (
	LoggingFormatJSONL  = "jsonl"
	LoggingFormatPretty = "pretty"
)

// IsValidLoggingFormat returns true if the provided format is supported.
func IsValidLoggingFormat(f string) bool {
	return f == LoggingFormatJSONL || f == LoggingFormatPretty
}

// LogRotationConfig holds configuration for log rotation
type LogRotationConfig struct {
	MaxAge     int  `yaml:"maxAge" toml:"maxAge"`         // Maximum number of days to retain log files
	MaxSize    int  `yaml:"maxSize" toml:"maxSize"`       // Maximum size in megabytes before rotation
	MaxBackups int  `yaml:"maxBackups" toml:"maxBackups"` // Maximum number of backup files to retain
	Compress   bool `yaml:"compress" toml:"compress"`     // Whether to compress rotated files
}

// DefaultLogRotationConfig returns sensible defaults for log rotation
func DefaultLogRotationConfig() LogRotationConfig {
	return LogRotationConfig{
		MaxAge:     30,   // 30 days default retention
		MaxSize:    10,   // 10MB per file
		MaxBackups: 5,    // Keep 5 backup files
		Compress:   true, // Compress old files
	}
}

// LoggingConfig controls the structured dispatch log
type LoggingConfig struct {
	Enabled  bool              `yaml:"enabled" toml:"enabled"`
	Format   string            `yaml:"format" toml:"format"`
	Dir      string            `yaml:"dir" toml:"dir"`
	Rotation LogRotationConfig `yaml:"rotation" toml:"rotation"`
}

// DefaultLoggingConfig returns logging disabled with default rotation
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		Format:   LoggingFormatJSONL,
		Dir:      constants.GetDefaultLogDir(),
		Rotation: DefaultLogRotationConfig(),
	}
}

// withDefaults fills zero values from DefaultLoggingConfig
func (c LoggingConfig) withDefaults() LoggingConfig {
	def := DefaultLoggingConfig()
	if c.Format == "" {
		c.Format = def.Format
	}
	if c.Dir == "" {
		c.Dir = def.Dir
	}
	if c.Rotation == (LogRotationConfig{}) {
		c.Rotation = def.Rotation
	}
	return c
}

// GetLogPath returns the dispatch log path inside dir
func GetLogPath(dir string) string {
	return filepath.Join(dir, constants.DefaultLogFile)
}

// SetupLogRotation configures log rotation for a given log file path
func SetupLogRotation(logPath string, config LogRotationConfig) (*lumberjack.Logger, error) {
	// Ensure the directory exists
	if err := os.MkdirAll(filepath.Dir(logPath), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	return &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    config.MaxSize,
		MaxBackups: config.MaxBackups,
		MaxAge:     config.MaxAge,
		Compress:   config.Compress,
		LocalTime:  true, // Use local time for timestamps
	}, nil
}

// CleanupOldLogs removes log files older than the specified number of days.
// This provides additional cleanup beyond lumberjack's built-in MaxAge.
// It returns the paths it removed.
func CleanupOldLogs(logDir string, maxAgeDays int) ([]string, error) {
	if maxAgeDays <= 0 {
		return nil, nil // No cleanup if maxAge is 0 or negative
	}

	cutoff := time.Now().AddDate(0, 0, -maxAgeDays)

	var removed []string
	err := filepath.Walk(logDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			return nil
		}

		// Only consider .log files and compressed log files
		if filepath.Ext(path) == ".log" || filepath.Ext(path) == ".gz" {
			if info.ModTime().Before(cutoff) {
				if err := os.Remove(path); err != nil {
					fmt.Fprintf(os.Stderr, "Failed to remove old log file %s: %v\n", path, err)
				} else {
					removed = append(removed, path)
				}
			}
		}

		return nil
	})

	return removed, err
}
