package categories

import (
	"embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed config/*.yaml
var configFiles embed.FS

// Category is one allowed suggestion category with its display color.
type Category struct {
	Name  string `yaml:"name" json:"name"`
	Color string `yaml:"color" json:"color"`
}

type paletteFile struct {
	Categories []Category `yaml:"categories"`
}

// Registry holds the allowed suggestion categories, loaded from the
// embedded palette file.
type Registry struct {
	categories []Category
	byName     map[string]Category
	mu         sync.RWMutex
}

// NewRegistry creates a new category registry and loads the embedded
// YAML palette.
func NewRegistry() (*Registry, error) {
	data, err := configFiles.ReadFile("config/categories.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read category palette: %w", err)
	}

	var palette paletteFile
	if err := yaml.Unmarshal(data, &palette); err != nil {
		return nil, fmt.Errorf("failed to unmarshal category palette: %w", err)
	}

	if len(palette.Categories) == 0 {
		return nil, fmt.Errorf("category palette is empty")
	}

	r := &Registry{
		categories: palette.Categories,
		byName:     make(map[string]Category, len(palette.Categories)),
	}
	for _, c := range palette.Categories {
		r.byName[c.Name] = c
	}

	return r, nil
}

// List returns the allowed categories in palette order.
func (r *Registry) List() []Category {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Category, len(r.categories))
	copy(out, r.categories)
	return out
}

// IsValid reports whether name is an allowed category.
func (r *Registry) IsValid(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byName[name]
	return ok
}

// Color returns the display color for a category, or the empty string
// when unknown.
func (r *Registry) Color(name string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.byName[name].Color
}
