package api

import (
	"log"
	"net/http"
	"os"
	"strings"

	"bifacial-sweep/internal/api/handlers"
	"bifacial-sweep/internal/api/middleware"
	"bifacial-sweep/internal/solar"
	"bifacial-sweep/internal/store"

	"github.com/gin-gonic/gin"
)

// Options wires the router's dependencies. Store and Cache may be nil.
type Options struct {
	Store     *store.Store
	Cache     *solar.SampleCache
	ModuleDir string
	StaticDir string
}

// NewRouter builds the gin engine with middleware and all API routes.
func NewRouter(opts Options) *gin.Engine {
	router := gin.New()

	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())

	sweepHandler := handlers.NewSweepHandler(opts.Store, opts.Cache, opts.ModuleDir)
	moduleHandler := handlers.NewModuleHandler(opts.ModuleDir)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.POST("/sweep", sweepHandler.RunSweep)
		api.GET("/sweep/stream", sweepHandler.StreamSweep)
		api.GET("/sweep/:id", sweepHandler.GetSweep)
		api.GET("/sweep/:id/chart.png", sweepHandler.GetChart)
		api.GET("/sweeps", sweepHandler.ListSweeps)

		api.GET("/modules", moduleHandler.ListModules)
	}

	serveStatic(router, opts.StaticDir)
	return router
}

// serveStatic serves a built front-end from dir (if it exists), falling back
// to index.html for non-API routes.
func serveStatic(router *gin.Engine, dir string) {
	if dir == "" {
		return
	}
	if _, err := os.Stat(dir); err != nil {
		log.Printf("Static directory %s not found, skipping static file serving", dir)
		return
	}
	router.Static("/assets", dir+"/assets")
	router.StaticFile("/favicon.ico", dir+"/favicon.ico")
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		c.File(dir + "/index.html")
	})
	log.Printf("Serving static files from %s", dir)
}
