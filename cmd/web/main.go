// Development web server for go-eventmap
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	prof "github.com/go-while/go-cpu-mem-profiler"
	"github.com/go-while/go-eventmap/internal/config"
	"github.com/go-while/go-eventmap/internal/events"
	"github.com/go-while/go-eventmap/internal/web"
)

var (
	// command-line flags
	configPath  string
	webhost     string
	webport     int
	webssl      bool
	webcertFile string
	webkeyFile  string
	debug       bool
	metrics     bool
	baseDir     string
	eventsFile  string
	templateDir string
	staticDir   string
	pprofAddr   string
)

var appVersion = "-unset-"

func main() {
	config.AppVersion = appVersion

	registerFlags(flag.CommandLine)
	flag.Parse()

	log.Printf("Starting go-eventmap: Web Server (version: %s)", appVersion)

	// Load configuration from file or use defaults
	mainConfig := config.NewDefaultConfig()
	if configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			log.Fatalf("[WEB]: Error loading config: %v", err)
		}
		mainConfig = cfg
	}
	applyFlags(flag.CommandLine, mainConfig)

	if err := mainConfig.Validate(); err != nil {
		log.Fatalf("[WEB]: %v", err)
	}
	log.Printf("[WEB]: Using WEB configuration: %#v", mainConfig.Web)

	if mainConfig.Web.Debug {
		gin.SetMode(gin.DebugMode)
		log.Printf("[WEB]: Development mode enabled, do not expose this server publicly")
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	if pprofAddr != "" {
		profiler := prof.NewProf()
		go profiler.PprofWeb(pprofAddr)
		log.Printf("[WEB]: Profiler web interface on %s", pprofAddr)
	}

	loader, err := events.NewLoader(mainConfig.EventsPath(), mainConfig.Events.Charset)
	if err != nil {
		log.Fatalf("[WEB]: %v", err)
	}
	if _, err := os.Stat(loader.Path()); err != nil {
		// not fatal: the file is read per request and may appear later
		log.Printf("[WEB]: Warning: events document %s: %v", loader.Path(), err)
	} else {
		log.Printf("[WEB]: Serving events from %s (charset %s)", loader.Path(), loader.Charset())
	}

	server := web.NewServer(mainConfig, loader)

	// Set up cross-platform signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	protocol := "http"
	if mainConfig.Web.SSL {
		protocol = "https"
	}
	log.Printf("[WEB]: Starting go-eventmap web server on %s://%s", protocol, mainConfig.ListenAddr())

	// Start web server in goroutine to make it non-blocking
	webServerErrChan := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			webServerErrChan <- err
		}
	}()

	log.Printf("[WEB]: Server started successfully. Press Ctrl+C to gracefully shutdown...")

	select {
	case <-sigChan:
		log.Printf("[WEB]: Received shutdown signal, initiating graceful shutdown...")
	case err := <-webServerErrChan:
		log.Fatalf("[WEB]: Failed to start web server: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), mainConfig.Web.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("[WEB]: Error during shutdown: %v", err)
	}
	log.Printf("[WEB]: Graceful shutdown completed")
} // end main
