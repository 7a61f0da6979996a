package categories

import (
	"testing"
)

func TestRegistry(t *testing.T) {
	registry, err := NewRegistry()
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	list := registry.List()
	if len(list) == 0 {
		t.Fatal("List() returned no categories")
	}

	for _, c := range list {
		if !registry.IsValid(c.Name) {
			t.Errorf("IsValid(%q) = false for listed category", c.Name)
		}
		if registry.Color(c.Name) == "" {
			t.Errorf("Color(%q) is empty", c.Name)
		}
	}

	for _, name := range []string{"bug", "feature", "improvement", "design", "other"} {
		if !registry.IsValid(name) {
			t.Errorf("IsValid(%q) = false, want true", name)
		}
	}

	if registry.IsValid("nonsense") {
		t.Error("IsValid(nonsense) = true")
	}
	if registry.Color("nonsense") != "" {
		t.Error("Color(nonsense) returned a color")
	}
}
