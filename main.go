package main

import (
	"net/http"

	"shareboard/config"
	"shareboard/internal/document/service"
	"shareboard/internal/document/storage"
	"shareboard/internal/executor"
	"shareboard/pkg/logger"
	"shareboard/router"
	"shareboard/socket"

	flag "github.com/spf13/pflag"
)

func main() {
	cfg := config.Load()

	// Flags win over environment for the two knobs that change between
	// local runs.
	addr := flag.String("addr", cfg.Addr, "listen address")
	dataDir := flag.String("data", cfg.DataDir, "data directory")
	flag.Parse()
	cfg.Addr = *addr
	cfg.DataDir = *dataDir

	logger.Init(cfg.LogFile)
	defer logger.Log.Sync()

	paths := storage.NewPaths(cfg.DataDir)
	if err := paths.Ensure(); err != nil {
		logger.Sugar.Fatalf("Failed to create data directories: %v", err)
	}

	hub := socket.NewHub()
	go hub.Run()

	index := storage.NewIndex(paths)
	content := storage.NewContentStore(paths)
	docService := service.NewDocumentService(index, content, hub)

	var execClient *executor.Client
	if cfg.ExecutorURL != "" {
		execClient = executor.NewClient(cfg.ExecutorURL)
	}

	handler := router.Setup(docService, execClient, hub, cfg.AllowedOrigins)

	logger.Sugar.Infof("Shareboard API listening on %s (data dir %s)", cfg.Addr, cfg.DataDir)
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		logger.Sugar.Fatalf("Server stopped: %v", err)
	}
}
