package config

import (
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ModulePreset is a module file found in a preset directory.
type ModulePreset struct {
	ID     string       `json:"id"`
	File   string       `json:"file"`
	Module ModuleConfig `json:"module"`
}

// ModuleDir returns MODULE_DIR, or examples/modules under the working
// directory.
func ModuleDir() string {
	dir := os.Getenv("MODULE_DIR")
	if dir == "" {
		dir = filepath.Join("examples", "modules")
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return dir
}

// ListModules loads every *.yaml preset in dir, sorted by ID. Unreadable
// files are logged and skipped; a missing directory yields no presets.
func ListModules(dir string) ([]ModulePreset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("[modules] Directory does not exist: %s", dir)
			return nil, nil
		}
		return nil, err
	}

	presets := make([]ModulePreset, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		m, err := LoadModuleFile(path)
		if err != nil {
			log.Printf("[modules] Skipping %s: %v", path, err)
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".yaml")
		if m.Name == "" {
			m.Name = id
		}
		presets = append(presets, ModulePreset{ID: id, File: path, Module: m})
	}
	sort.Slice(presets, func(i, j int) bool { return presets[i].ID < presets[j].ID })
	return presets, nil
}

// FindModule returns the preset with the given ID.
func FindModule(dir, id string) (ModulePreset, bool, error) {
	presets, err := ListModules(dir)
	if err != nil {
		return ModulePreset{}, false, err
	}
	for _, p := range presets {
		if p.ID == id {
			return p, true, nil
		}
	}
	return ModulePreset{}, false, nil
}
