package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	require.Equal(t, DefaultListenHost, cfg.Web.ListenHost)
	require.Equal(t, 5000, cfg.Web.ListenPort)
	require.True(t, cfg.Web.Debug)
	require.True(t, cfg.Web.Metrics)
	require.False(t, cfg.Web.SSL)
	require.Empty(t, cfg.Web.TemplateDir)
	require.Empty(t, cfg.Web.StaticDir)
	require.Equal(t, DefaultShutdownTimeout, cfg.Web.ShutdownTimeout)
	require.Equal(t, "data/events.json", cfg.Events.File)
	require.Equal(t, "utf-8", cfg.Events.Charset)
	require.NotEmpty(t, cfg.BaseDir)
	require.Equal(t, "127.0.0.1:5000", cfg.ListenAddr())
	require.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "eventmap.yml")
	yml := `
base_dir: /srv/eventmap
web:
  listen_host: 0.0.0.0
  listen_port: 8080
  debug: false
  shutdown_timeout: 10s
events:
  file: feeds/events.json
  charset: latin1
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/srv/eventmap", cfg.BaseDir)
	require.Equal(t, "0.0.0.0", cfg.Web.ListenHost)
	require.Equal(t, 8080, cfg.Web.ListenPort)
	require.False(t, cfg.Web.Debug)
	require.True(t, cfg.Web.Metrics, "keys missing from the file keep defaults")
	require.Equal(t, 10*time.Second, cfg.Web.ShutdownTimeout)
	require.Equal(t, "latin1", cfg.Events.Charset)
	require.Equal(t, filepath.Join("/srv/eventmap", "feeds/events.json"), cfg.EventsPath())
}

func TestLoadEmptyValuesFallBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eventmap.yml")
	require.NoError(t, os.WriteFile(path, []byte("base_dir: \"\"\nevents:\n  file: \"\"\n  charset: \"\"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NotEmpty(t, cfg.BaseDir)
	require.Equal(t, DefaultEventsFile, cfg.Events.File)
	require.Equal(t, DefaultEventsCharset, cfg.Events.Charset)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "broken.yml")
	require.NoError(t, os.WriteFile(path, []byte("web: [unclosed"), 0o644))
	_, err = Load(path)
	require.ErrorContains(t, err, "parse yaml")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*MainConfig)
		wantErr string
	}{
		{name: "port zero", mutate: func(c *MainConfig) { c.Web.ListenPort = 0 }, wantErr: "invalid port"},
		{name: "port too high", mutate: func(c *MainConfig) { c.Web.ListenPort = 70000 }, wantErr: "invalid port"},
		{name: "ssl without cert", mutate: func(c *MainConfig) { c.Web.SSL = true; c.Web.KeyFile = "key.pem" }, wantErr: "cert_file or key_file"},
		{name: "no events file", mutate: func(c *MainConfig) { c.Events.File = "" }, wantErr: "events file"},
		{name: "unknown charset", mutate: func(c *MainConfig) { c.Events.Charset = "klingon-8" }, wantErr: "unsupported charset: klingon-8"},
		{name: "latin1 charset", mutate: func(c *MainConfig) { c.Events.Charset = "iso-8859-1" }},
		{name: "ssl with cert and key", mutate: func(c *MainConfig) {
			c.Web.SSL = true
			c.Web.CertFile = "cert.pem"
			c.Web.KeyFile = "key.pem"
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestResolve(t *testing.T) {
	cfg := &MainConfig{BaseDir: "/opt/eventmap"}

	require.Equal(t, "/opt/eventmap/data/events.json", cfg.Resolve("data/events.json"))
	require.Equal(t, "/var/lib/events.json", cfg.Resolve("/var/lib/../lib/events.json"))
}

func TestProgramDirFallsBackToWorkingDir(t *testing.T) {
	// the test binary is built into a temp dir without a data/ folder
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.Equal(t, wd, ProgramDir())
}
