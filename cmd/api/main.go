package main

import (
	"fmt"
	"log"
	"os"

	"bifacial-sweep/internal/api"
	"bifacial-sweep/internal/config"
	"bifacial-sweep/internal/solar"
	"bifacial-sweep/internal/store"

	"github.com/gin-gonic/gin"
)

func main() {
	// Get configuration from environment
	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}
	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	moduleDir := config.ModuleDir()
	if info, err := os.Stat(moduleDir); err == nil && info.IsDir() {
		log.Printf("Module directory found: %s", moduleDir)
	} else {
		log.Printf("Module directory not found at: %s (error: %v)", moduleDir, err)
	}

	// Run history is optional
	var st *store.Store
	if path := os.Getenv("SWEEP_DB"); path != "" {
		var err error
		st, err = store.Open(path)
		if err != nil {
			log.Fatalf("Failed to open sweep database %s: %v", path, err)
		}
		defer st.Close()
		log.Printf("Storing sweep runs in %s", path)
	}

	cache := solar.GetCache()
	if cache != nil {
		log.Printf("Solar sample cache enabled")
	}

	staticDir := os.Getenv("STATIC_DIR")
	if staticDir == "" {
		staticDir = "./web/dist"
	}

	router := api.NewRouter(api.Options{
		Store:     st,
		Cache:     cache,
		ModuleDir: moduleDir,
		StaticDir: staticDir,
	})

	// Start server
	addr := fmt.Sprintf(":%s", port)
	log.Printf("Starting API server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
