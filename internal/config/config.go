// Package config handles layered YAML configuration with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all phonebook configuration.
type Config struct {
	Book      Book      `yaml:"book"`
	Log       Log       `yaml:"log"`
	Assistant Assistant `yaml:"assistant"`
}

// Book holds address book storage settings.
type Book struct {
	Path     string `yaml:"path"`
	PageSize int    `yaml:"page_size"`
	Autosave bool   `yaml:"autosave"` // Save after every change in chat mode
}

// Log holds logging settings.
type Log struct {
	Level  string `yaml:"level"`  // "debug" | "info" | "warn" | "error"
	Format string `yaml:"format"` // "text" | "json"
}

// Assistant holds interactive assistant settings.
type Assistant struct {
	Prompt         string   `yaml:"prompt"`
	ExitPhrases    []string `yaml:"exit_phrases"`
	BirthdayWindow int      `yaml:"birthday_window"` // Days ahead for "birthdays"
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Book: Book{
			Path:     ".phonebook/contacts.jsonl",
			PageSize: 5,
			Autosave: true,
		},
		Log: Log{
			Level:  "warn",
			Format: "text",
		},
		Assistant: Assistant{
			Prompt:         "Enter your command: ",
			ExitPhrases:    []string{"good bye", "close", "exit"},
			BirthdayWindow: 7,
		},
	}
}

// Load reads a single YAML config file at path and returns a Config.
// For merging multiple config sources, use LoadLayered instead.
// If the file does not exist, defaults are returned without error.
// If the file contains invalid YAML or unknown fields, an error is returned.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return &cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		// Comment-only YAML files produce EOF with no decoded content.
		if errors.Is(err, io.EOF) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &cfg, nil
}

// LoadLayered loads config from multiple paths with increasing priority.
// Later paths override earlier ones. Missing files and empty paths are skipped.
func LoadLayered(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}
		layer, err := loadLayer(path)
		if err != nil {
			return nil, err
		}
		if layer == nil {
			continue
		}
		cfg.merge(layer)
	}

	return &cfg, nil
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	if c.Book.Path == "" {
		return errors.New("config: book.path cannot be empty")
	}
	if c.Book.PageSize < 1 {
		return fmt.Errorf("config: book.page_size must be positive, got %d", c.Book.PageSize)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("config: log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
		// valid
	default:
		return fmt.Errorf("config: log.format must be \"text\" or \"json\", got %q", c.Log.Format)
	}
	if len(c.Assistant.ExitPhrases) == 0 {
		return errors.New("config: assistant.exit_phrases cannot be empty")
	}
	if slices.Contains(c.Assistant.ExitPhrases, "") {
		return errors.New("config: assistant.exit_phrases cannot contain an empty phrase")
	}
	if c.Assistant.BirthdayWindow < 0 {
		return fmt.Errorf("config: assistant.birthday_window must be non-negative, got %d", c.Assistant.BirthdayWindow)
	}
	return nil
}

// ApplyEnv applies environment variable overrides to the config.
// Supported variables: PHONEBOOK_BOOK, PHONEBOOK_PAGE_SIZE, PHONEBOOK_LOG_LEVEL.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("PHONEBOOK_BOOK"); v != "" {
		c.Book.Path = v
	}
	if v := os.Getenv("PHONEBOOK_PAGE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid PHONEBOOK_PAGE_SIZE %q: %w", v, err)
		}
		c.Book.PageSize = n
	}
	if v := os.Getenv("PHONEBOOK_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

// rawConfig mirrors Config but uses pointers to distinguish set vs unset fields.
type rawConfig struct {
	Book      *rawBook      `yaml:"book"`
	Log       *rawLog       `yaml:"log"`
	Assistant *rawAssistant `yaml:"assistant"`
}

type rawBook struct {
	Path     *string `yaml:"path"`
	PageSize *int    `yaml:"page_size"`
	Autosave *bool   `yaml:"autosave"`
}

type rawLog struct {
	Level  *string `yaml:"level"`
	Format *string `yaml:"format"`
}

type rawAssistant struct {
	Prompt         *string   `yaml:"prompt"`
	ExitPhrases    *[]string `yaml:"exit_phrases"`
	BirthdayWindow *int      `yaml:"birthday_window"`
}

// loadLayer reads a single config file into a rawConfig for selective merging.
// Returns nil if the file does not exist. Rejects unknown fields.
func loadLayer(path string) (*rawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var raw rawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &raw, nil
}

// merge applies non-nil fields from a rawConfig layer onto this Config.
func (c *Config) merge(layer *rawConfig) {
	if layer.Book != nil {
		if layer.Book.Path != nil {
			c.Book.Path = *layer.Book.Path
		}
		if layer.Book.PageSize != nil {
			c.Book.PageSize = *layer.Book.PageSize
		}
		if layer.Book.Autosave != nil {
			c.Book.Autosave = *layer.Book.Autosave
		}
	}
	if layer.Log != nil {
		if layer.Log.Level != nil {
			c.Log.Level = *layer.Log.Level
		}
		if layer.Log.Format != nil {
			c.Log.Format = *layer.Log.Format
		}
	}
	if layer.Assistant != nil {
		if layer.Assistant.Prompt != nil {
			c.Assistant.Prompt = *layer.Assistant.Prompt
		}
		if layer.Assistant.ExitPhrases != nil {
			c.Assistant.ExitPhrases = *layer.Assistant.ExitPhrases
		}
		if layer.Assistant.BirthdayWindow != nil {
			c.Assistant.BirthdayWindow = *layer.Assistant.BirthdayWindow
		}
	}
}
