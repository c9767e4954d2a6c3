package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"memecam/internal/camera"
	"memecam/internal/caption"
	"memecam/internal/config"
	"memecam/internal/gallery"
	"memecam/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "memecam: config:", err)
		os.Exit(1)
	}

	apiKey := cfg.Caption.ResolveAPIKey()
	if apiKey == "" {
		fmt.Fprintf(os.Stderr,
			"memecam: no caption API key configured (set caption.api_key or export %s)\n",
			cfg.Caption.APIKeyEnv)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, "memecam: logging:", err)
		os.Exit(1)
	}

	cam := camera.NewExecDevice(cfg.Camera.Command, cfg.Camera.BackDevice, cfg.Camera.FrontDevice, log)
	captions := caption.NewGeminiClient(apiKey, cfg.Caption.Model, cfg.Caption.Endpoint, log)
	store := gallery.NewLocal(cfg.Library.GalleryDir, log)

	p := tea.NewProgram(newModel(cfg, cam, captions, store, log), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
