package main

import (
	"flag"
	"log"

	"github.com/go-while/go-eventmap/internal/config"
)

// registerFlags defines the command-line flags on fs
func registerFlags(fs *flag.FlagSet) {
	fs.StringVar(&configPath, "config", "", "optional YAML config file (flags given on the command line override it)")
	fs.StringVar(&webhost, "webhost", config.DefaultListenHost, "Web server host")
	fs.IntVar(&webport, "webport", config.DefaultListenPort, "Web server port")
	fs.BoolVar(&webssl, "webssl", false, "Enable SSL")
	fs.StringVar(&webcertFile, "websslcert", "", "SSL certificate file (/path/to/fullchain.pem)")
	fs.StringVar(&webkeyFile, "websslkey", "", "SSL key file (/path/to/privkey.pem)")
	fs.BoolVar(&debug, "debug", true, "development mode: gin debug output and verbose error details")
	fs.BoolVar(&metrics, "metrics", true, "serve prometheus metrics on /metrics")
	fs.StringVar(&baseDir, "basedir", "", "program base directory (default: directory of the executable, or the working directory)")
	fs.StringVar(&eventsFile, "events", config.DefaultEventsFile, "events document, relative paths resolve against -basedir")
	fs.StringVar(&templateDir, "templates", "", "read templates from this directory on every request instead of the embedded copy")
	fs.StringVar(&staticDir, "static", "", "serve /static from this directory instead of the embedded copy")
	fs.StringVar(&pprofAddr, "pprof", "", "start the cpu/mem profiler web interface on this address (e.g. :51111)")
}

// applyFlags overrides cfg with the flags that were given explicitly,
// so a config file value survives unless the flag is on the command line
func applyFlags(fs *flag.FlagSet, cfg *config.MainConfig) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "webhost":
			cfg.Web.ListenHost = webhost
		case "webport":
			cfg.Web.ListenPort = webport
			log.Printf("[WEB]: Overriding listen port with command-line flag: %d", webport)
		case "webssl":
			cfg.Web.SSL = webssl
		case "websslcert":
			cfg.Web.CertFile = webcertFile
		case "websslkey":
			cfg.Web.KeyFile = webkeyFile
		case "debug":
			cfg.Web.Debug = debug
		case "metrics":
			cfg.Web.Metrics = metrics
		case "basedir":
			cfg.BaseDir = baseDir
		case "events":
			cfg.Events.File = eventsFile
		case "templates":
			cfg.Web.TemplateDir = templateDir
		case "static":
			cfg.Web.StaticDir = staticDir
		}
	})
}
