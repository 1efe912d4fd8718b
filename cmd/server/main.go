// Package main is the entry point for the game engine page and audio server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/abstractedfox/gameengine/internal/config"
	"github.com/abstractedfox/gameengine/internal/handler"
	"github.com/abstractedfox/gameengine/internal/server"
	"github.com/abstractedfox/gameengine/internal/watcher"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.New()

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.Warnf("Unknown log level %q, using info", cfg.LogLevel)
	}

	log.WithFields(logrus.Fields{
		"config":     cfg.GetConfigFilePath(),
		"template":   cfg.Template,
		"static":     cfg.StaticDir,
		"audio_dir":  cfg.Audio.Dir,
		"extensions": cfg.Audio.Extensions,
	}).Info("Game engine server")

	if cfg.ShouldSave() {
		if err := cfg.Save(); err != nil {
			log.Fatalf("Failed to save config: %v", err)
		}
		log.Infof("Configuration saved to %s", cfg.GetConfigFilePath())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	wsHandler := handler.NewWSHandler(log)

	// Setup audio directory watcher if enabled
	if cfg.Watch {
		w, err := watcher.New(cfg, log)
		if err != nil {
			log.WithError(err).Warn("failed to create audio watcher")
		} else {
			w.OnChange(wsHandler.OnAudioChange)
			if err := w.Start(); err != nil {
				log.WithError(err).Warn("failed to start audio watcher")
			} else {
				log.Info("Audio watcher enabled")
			}
			defer func() { _ = w.Stop() }()
		}
	}

	gin.SetMode(gin.ReleaseMode)
	srv := server.New(cfg, log, wsHandler)

	// Open browser if requested
	if cfg.Open {
		go openBrowser(fmt.Sprintf("http://localhost:%d", cfg.Port))
	}

	if err := srv.Run(ctx); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
	log.Info("Server stopped")
}

func openBrowser(url string) {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "windows":
		cmd = "rundll32"
		args = []string{"url.dll,FileProtocolHandler", url}
	case "darwin":
		cmd = "open"
		args = []string{url}
	default: // linux, etc.
		cmd = "xdg-open"
		args = []string{url}
	}

	_ = exec.Command(cmd, args...).Start()
}
