package projects

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCategoriesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "categories.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write categories file: %v", err)
	}
	return path
}

func TestDefaultCategories(t *testing.T) {
	categories := DefaultCategories()
	if len(categories) != 12 {
		t.Fatalf("Expected 12 built-in categories, got %d", len(categories))
	}

	// Declaration order is part of the contract
	if categories[0].Name != "AI & LLMs" {
		t.Errorf("Expected 'AI & LLMs' first, got '%s'", categories[0].Name)
	}
	if categories[11].Name != "Databases & Storage" {
		t.Errorf("Expected 'Databases & Storage' last, got '%s'", categories[11].Name)
	}

	for _, category := range categories {
		if len(category.Keywords) == 0 {
			t.Errorf("Category '%s' has no keywords", category.Name)
		}
	}
}

func TestLoadCategories(t *testing.T) {
	path := writeCategoriesFile(t, `
- name: Games
  keywords: [game, gamedev, Engine]
- name: Audio
  keywords: [audio, sound]
`)

	categories, err := LoadCategories(path)
	if err != nil {
		t.Fatalf("LoadCategories failed: %v", err)
	}

	if len(categories) != 2 {
		t.Fatalf("Expected 2 categories, got %d", len(categories))
	}
	if categories[0].Name != "Games" || categories[1].Name != "Audio" {
		t.Errorf("File order not preserved: %s, %s", categories[0].Name, categories[1].Name)
	}

	// Keywords are lowercased on load
	if categories[0].Keywords[2] != "engine" {
		t.Errorf("Expected lowercased keyword 'engine', got '%s'", categories[0].Keywords[2])
	}
}

func TestLoadCategories_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty list", `[]`},
		{"missing name", "- keywords: [a]\n"},
		{"no keywords", "- name: Empty\n  keywords: []\n"},
		{"reserved name", "- name: Other\n  keywords: [x]\n"},
		{"duplicate name", "- name: Dup\n  keywords: [a]\n- name: Dup\n  keywords: [b]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCategoriesFile(t, tt.content)
			if _, err := LoadCategories(path); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestCategoryNames(t *testing.T) {
	names := CategoryNames(DefaultCategories())
	if len(names) != 13 {
		t.Fatalf("Expected 13 names (12 + fallback), got %d", len(names))
	}
	if names[len(names)-1] != OtherCategory {
		t.Errorf("Expected fallback label last, got '%s'", names[len(names)-1])
	}
}
