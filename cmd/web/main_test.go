package main

import (
	"flag"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-while/go-eventmap/internal/config"
)

func parseFlags(t *testing.T, args ...string) *flag.FlagSet {
	t.Helper()
	fs := flag.NewFlagSet("web", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	registerFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestApplyFlagsOnlyExplicit(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Web.Debug = false // as if set by a config file
	cfg.Web.ListenPort = 8080

	applyFlags(parseFlags(t), cfg)

	require.False(t, cfg.Web.Debug, "unset -debug must not override the config file")
	require.Equal(t, 8080, cfg.Web.ListenPort)
	require.Equal(t, config.DefaultEventsFile, cfg.Events.File)
}

func TestApplyFlags(t *testing.T) {
	cfg := config.NewDefaultConfig()

	applyFlags(parseFlags(t,
		"-webhost", "0.0.0.0",
		"-webport", "9000",
		"-debug=false",
		"-metrics=false",
		"-basedir", "/srv/eventmap",
		"-events", "feeds/today.json",
		"-templates", "web/templates",
		"-static", "web/static",
		"-webssl",
		"-websslcert", "cert.pem",
		"-websslkey", "key.pem",
	), cfg)

	require.Equal(t, "0.0.0.0:9000", cfg.ListenAddr())
	require.False(t, cfg.Web.Debug)
	require.False(t, cfg.Web.Metrics)
	require.Equal(t, "/srv/eventmap/feeds/today.json", cfg.EventsPath())
	require.Equal(t, "web/templates", cfg.Web.TemplateDir)
	require.Equal(t, "web/static", cfg.Web.StaticDir)
	require.True(t, cfg.Web.SSL)
	require.NoError(t, cfg.Validate())
}
