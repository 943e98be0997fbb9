// Package config loads hookrelay rule files and logging settings.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/klauern/hookrelay/internal/constants"
	yaml "gopkg.in/yaml.v3"
)

// Handler types
const (
	HandlerCommand     = "command"
	HandlerNotify      = "notify"
	HandlerDecision    = "decision"
	HandlerMeilisearch = "meilisearch"
)

// ValidHandlerTypes lists the supported handler types
func ValidHandlerTypes() []string {
	return []string{HandlerCommand, HandlerNotify, HandlerDecision, HandlerMeilisearch}
}

// HandlerConfig is a single handler within a rule
type HandlerConfig struct {
	Name string `yaml:"name,omitempty" toml:"name"`
	Type string `yaml:"type" toml:"type"`

	// command
	Run     string            `yaml:"run,omitempty" toml:"run"`
	Timeout int               `yaml:"timeout,omitempty" toml:"timeout"` // seconds
	Env     map[string]string `yaml:"env,omitempty" toml:"env"`
	WorkDir string            `yaml:"workdir,omitempty" toml:"workdir"`

	// notify
	Title string `yaml:"title,omitempty" toml:"title"`
	Body  string `yaml:"body,omitempty" toml:"body"`

	// decision
	Decision string `yaml:"decision,omitempty" toml:"decision"`
	Reason   string `yaml:"reason,omitempty" toml:"reason"`

	// meilisearch
	Index string `yaml:"index,omitempty" toml:"index"`
}

// DisplayName returns the handler name, falling back to its type
func (h HandlerConfig) DisplayName() string {
	if h.Name != "" {
		return h.Name
	}
	return h.Type
}

// Rule selects handlers for events. A rule applies when Events is empty or
// contains the hook type, and every Match entry matches.
type Rule struct {
	Name string `yaml:"name,omitempty" toml:"name"`
	// Events lists hook type names such as Stop or PreToolUse
	Events []string `yaml:"events,omitempty" toml:"events"`
	// Match maps dotted event field paths to glob patterns
	Match    map[string]string `yaml:"match,omitempty" toml:"match"`
	Parallel bool              `yaml:"parallel,omitempty" toml:"parallel"`
	Handlers []HandlerConfig   `yaml:"handlers" toml:"handlers"`
}

// MeilisearchConfig holds connection settings for the meilisearch handler
type MeilisearchConfig struct {
	Endpoint string `yaml:"endpoint" toml:"endpoint"`
	APIKey   string `yaml:"apiKey,omitempty" toml:"apiKey"`
	Index    string `yaml:"index" toml:"index"`
}

// Config is the root of a hookrelay config file
type Config struct {
	Logging     *LoggingConfig     `yaml:"logging,omitempty" toml:"logging"`
	Meilisearch *MeilisearchConfig `yaml:"meilisearch,omitempty" toml:"meilisearch"`
	Rules       []Rule             `yaml:"rules" toml:"rules"`

	// Sources lists the files this config was loaded from, highest priority first
	Sources []string `yaml:"-" toml:"-"`
}

// EffectiveLogging returns the logging settings with defaults applied
func (c *Config) EffectiveLogging() LoggingConfig {
	if c == nil || c.Logging == nil {
		return DefaultLoggingConfig()
	}
	return c.Logging.withDefaults()
}

// Validate checks handler types and the fields each type requires.
// Hook type names in Events are checked by the handler runner.
func (c *Config) Validate() error {
	var errs []error
	for i, rule := range c.Rules {
		label := rule.Name
		if label == "" {
			label = fmt.Sprintf("rules[%d]", i)
		}
		if len(rule.Handlers) == 0 {
			errs = append(errs, fmt.Errorf("%s: no handlers", label))
		}
		for j, h := range rule.Handlers {
			if err := validateHandler(h); err != nil {
				errs = append(errs, fmt.Errorf("%s.handlers[%d]: %w", label, j, err))
			}
		}
	}
	if c.Logging != nil && c.Logging.Format != "" && !IsValidLoggingFormat(c.Logging.Format) {
		errs = append(errs, fmt.Errorf("logging.format %q is invalid (valid: jsonl, pretty)", c.Logging.Format))
	}
	return errors.Join(errs...)
}

func validateHandler(h HandlerConfig) error {
	switch h.Type {
	case HandlerCommand:
		if strings.TrimSpace(h.Run) == "" {
			return errors.New("command handler requires run")
		}
		if h.Timeout < 0 {
			return errors.New("timeout must not be negative")
		}
	case HandlerNotify:
		if h.Title == "" && h.Body == "" {
			return errors.New("notify handler requires title or body")
		}
	case HandlerDecision:
		switch strings.ToLower(strings.TrimSpace(h.Decision)) {
		case "allow", "deny", "ask":
		default:
			return fmt.Errorf("decision handler requires decision allow, deny or ask, got %q", h.Decision)
		}
	case HandlerMeilisearch:
	case "":
		return errors.New("handler type is required")
	default:
		return fmt.Errorf("unknown handler type %q (valid: %s)", h.Type, strings.Join(ValidHandlerTypes(), ", "))
	}
	return nil
}

// LoadFile parses a single YAML or TOML config file, chosen by extension.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 - config paths come from discovery or the user
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := parse(data, strings.ToLower(filepath.Ext(path)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	cfg.Sources = []string{path}
	return cfg, nil
}

func parse(data []byte, ext string) (*Config, error) {
	cfg := &Config{}
	switch ext {
	case ".toml":
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, fmt.Errorf("unknown field(s): %s", strings.Join(keys, ", "))
		}
	case ".yml", ".yaml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported config extension %q", ext)
	}
	return cfg, nil
}

// Locator decides which config files apply
type Locator struct {
	// Explicit is a path given on the command line; it disables discovery
	Explicit string
	// ProjectDir is searched for .claude/hooks/hookrelay.{yml,yaml,toml}
	ProjectDir string
	XDG        *XDGConfig
	// Getenv is overridable for tests
	Getenv func(string) string
}

// Paths returns the config files to load, highest priority first.
// Only files that exist are returned, except an explicit path which must exist.
func (l Locator) Paths() ([]string, error) {
	if l.Explicit != "" {
		if _, err := os.Stat(l.Explicit); err != nil {
			return nil, fmt.Errorf("config file %s: %w", l.Explicit, err)
		}
		return []string{l.Explicit}, nil
	}

	getenv := l.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	if env := getenv(constants.ConfigEnvVar); env != "" {
		if _, err := os.Stat(env); err != nil {
			return nil, fmt.Errorf("config file %s (from %s): %w", env, constants.ConfigEnvVar, err)
		}
		return []string{env}, nil
	}

	var paths []string
	if l.ProjectDir != "" {
		if p := firstExisting(ProjectConfigPaths(l.ProjectDir)); p != "" {
			paths = append(paths, p)
		}
	}
	xdg := l.XDG
	if xdg == nil {
		xdg = NewXDGConfig()
	}
	if p := firstExisting(xdg.GetGlobalConfigPaths()); p != "" {
		paths = append(paths, p)
	}
	return paths, nil
}

// Load reads and merges all config files the locator finds. Rules from higher
// priority files come first; the first file with a logging or meilisearch
// section supplies it. No files yields an empty config.
func (l Locator) Load() (*Config, error) {
	paths, err := l.Paths()
	if err != nil {
		return nil, err
	}

	merged := &Config{}
	for _, p := range paths {
		cfg, err := LoadFile(p)
		if err != nil {
			return nil, err
		}
		merged.Rules = append(merged.Rules, cfg.Rules...)
		if merged.Logging == nil {
			merged.Logging = cfg.Logging
		}
		if merged.Meilisearch == nil {
			merged.Meilisearch = cfg.Meilisearch
		}
		merged.Sources = append(merged.Sources, p)
	}

	if err := merged.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return merged, nil
}

func firstExisting(paths []string) string {
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}
