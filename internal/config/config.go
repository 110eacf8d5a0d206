// Package config provides configuration management for go-eventmap.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/go-while/go-eventmap/internal/events"
	"gopkg.in/yaml.v3"
)

var AppVersion = "-unset-" // will be set at build time

const (
	DefaultListenHost      = "127.0.0.1"
	DefaultListenPort      = 5000
	DefaultShutdownTimeout = 5 * time.Second
	DefaultEventsFile      = "data/events.json"
	DefaultEventsCharset   = "utf-8"
)

// MainConfig holds the main configuration for go-eventmap
type MainConfig struct {
	// BaseDir is the directory treated as the program's own location.
	// Relative paths below resolve against it.
	BaseDir string `yaml:"base_dir" json:"base_dir"`

	// Web interface settings
	Web WebConfig `yaml:"web" json:"web"`

	// Events document settings
	Events EventsConfig `yaml:"events" json:"events"`

	AppVersion string `yaml:"-" json:"app_version"` // Application version, set at build time
}

// WebConfig holds web interface configuration
type WebConfig struct {
	ListenHost      string        `yaml:"listen_host" json:"listen_host"`
	ListenPort      int           `yaml:"listen_port" json:"listen_port"`
	SSL             bool          `yaml:"ssl" json:"ssl"`
	CertFile        string        `yaml:"cert_file" json:"cert_file,omitempty"`
	KeyFile         string        `yaml:"key_file" json:"key_file,omitempty"`
	TemplateDir     string        `yaml:"template_dir" json:"template_dir,omitempty"` // empty: embedded templates
	StaticDir       string        `yaml:"static_dir" json:"static_dir,omitempty"`     // empty: embedded static files
	Debug           bool          `yaml:"debug" json:"debug"`                         // development mode: verbose errors, gin debug mode
	Metrics         bool          `yaml:"metrics" json:"metrics"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" json:"shutdown_timeout"`
}

// EventsConfig describes where the events document lives and how its text is encoded
type EventsConfig struct {
	File    string `yaml:"file" json:"file"`
	Charset string `yaml:"charset" json:"charset"`
}

// NewDefaultConfig returns a configuration with development server defaults
func NewDefaultConfig() *MainConfig {
	return &MainConfig{
		AppVersion: AppVersion,
		BaseDir:    ProgramDir(),
		Web: WebConfig{
			ListenHost:      DefaultListenHost,
			ListenPort:      DefaultListenPort,
			Debug:           true,
			Metrics:         true,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Events: EventsConfig{
			File:    DefaultEventsFile,
			Charset: DefaultEventsCharset,
		},
	}
}

// Load reads a YAML file on top of the defaults.
// Keys missing from the file keep their default value.
func Load(path string) (*MainConfig, error) {
	cfg := NewDefaultConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if cfg.BaseDir == "" {
		cfg.BaseDir = ProgramDir()
	}
	if cfg.Events.File == "" {
		cfg.Events.File = DefaultEventsFile
	}
	if cfg.Events.Charset == "" {
		cfg.Events.Charset = DefaultEventsCharset
	}
	if cfg.Web.ShutdownTimeout == 0 {
		cfg.Web.ShutdownTimeout = DefaultShutdownTimeout
	}
	log.Printf("[CONFIG]: loaded %s", path)
	return cfg, nil
}

// Validate checks the values that would otherwise fail late at listen time
func (c *MainConfig) Validate() error {
	if c.Web.ListenPort < 1 || c.Web.ListenPort > 65535 {
		return fmt.Errorf("invalid port number: %d (must be between 1 and 65535)", c.Web.ListenPort)
	}
	if c.Web.SSL && (c.Web.CertFile == "" || c.Web.KeyFile == "") {
		return errors.New("SSL enabled but cert_file or key_file not specified in config")
	}
	if c.Events.File == "" {
		return errors.New("events file not specified in config")
	}
	if err := events.ValidateCharset(c.Events.Charset); err != nil {
		return fmt.Errorf("events: %w", err)
	}
	return nil
}

// ListenAddr returns host:port for the web listener
func (c *MainConfig) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Web.ListenHost, c.Web.ListenPort)
}

// EventsPath returns the events document path, resolved against BaseDir when relative
func (c *MainConfig) EventsPath() string {
	return c.Resolve(c.Events.File)
}

// Resolve joins a relative path onto BaseDir. Absolute paths are returned cleaned.
func (c *MainConfig) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(c.BaseDir, path)
}

// ProgramDir returns the directory of the running executable.
// Under `go run` the executable lives in a temp build dir without a data/
// folder, so the working directory is used instead.
func ProgramDir() string {
	if exe, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		dir := filepath.Dir(exe)
		if st, err := os.Stat(filepath.Join(dir, "data")); err == nil && st.IsDir() {
			return dir
		}
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}
