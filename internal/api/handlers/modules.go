package handlers

import (
	"log"
	"net/http"

	"bifacial-sweep/internal/api/models"
	"bifacial-sweep/internal/config"

	"github.com/gin-gonic/gin"
)

// ModuleHandler handles module preset requests
type ModuleHandler struct {
	moduleDir string
}

// NewModuleHandler creates a new module handler reading presets from dir
func NewModuleHandler(dir string) *ModuleHandler {
	log.Printf("ModuleHandler: Using module directory: %s", dir)
	return &ModuleHandler{moduleDir: dir}
}

// ModuleDir returns the preset directory (for debugging)
func (h *ModuleHandler) ModuleDir() string {
	return h.moduleDir
}

// ListModules handles GET /api/v1/modules
func (h *ModuleHandler) ListModules(c *gin.Context) {
	modules := []models.ModuleInfo{}

	presets, err := config.ListModules(h.moduleDir)
	if err != nil {
		log.Printf("ModuleHandler: Failed to read module directory %s: %v", h.moduleDir, err)
		c.JSON(http.StatusOK, gin.H{"modules": modules})
		return
	}

	for _, p := range presets {
		modules = append(modules, models.ModuleInfo{
			ID:   p.ID,
			Name: p.Module.Name,
			File: p.File,
			Specs: models.ModuleSpecs{
				AreaM2:      p.Module.AreaM2,
				Efficiency:  p.Module.Efficiency,
				Bifaciality: p.Module.Bifaciality,
			},
		})
	}
	log.Printf("ModuleHandler: Returning %d modules", len(modules))

	c.JSON(http.StatusOK, gin.H{"modules": modules})
}
