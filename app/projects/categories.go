package projects

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// OtherCategory is the fallback label for projects no category matches.
const OtherCategory = "Other"

// Category maps a label to the lowercase keywords used for substring
// matching. The table is an ordered list: when several categories match a
// project, the first declared one wins, so declaration order is part of the
// contract.
type Category struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// DefaultCategories returns the built-in category table.
func DefaultCategories() []Category {
	return []Category{
		{Name: "AI & LLMs", Keywords: []string{"ai", "artificial-intelligence", "machine-learning", "deep-learning", "neural", "gpt", "llm", "transformer", "stable-diffusion", "chatbot"}},
		{Name: "GenAI Tools", Keywords: []string{"generative-ai", "text-to-image", "text-to-speech", "speech-to-text", "image-generation", "ai-tools", "prompt-engineering"}},
		{Name: "Modern Web Dev", Keywords: []string{"javascript", "typescript", "react", "vue", "angular", "next.js", "svelte", "web", "frontend", "backend", "webassembly", "rust"}},
		{Name: "Cloud Native", Keywords: []string{"kubernetes", "docker", "microservices", "serverless", "aws", "azure", "cloud", "devops", "infrastructure"}},
		{Name: "Edge Computing", Keywords: []string{"edge", "iot", "embedded", "real-time", "distributed-systems", "mesh", "p2p", "peer-to-peer"}},
		{Name: "Data & Analytics", Keywords: []string{"data-science", "analytics", "big-data", "data-engineering", "data-visualization", "business-intelligence", "etl"}},
		{Name: "MLOps & AI Infra", Keywords: []string{"mlops", "machine-learning-ops", "ml-pipeline", "model-deployment", "model-serving", "feature-store", "experiment-tracking"}},
		{Name: "Web3 & Blockchain", Keywords: []string{"web3", "blockchain", "crypto", "ethereum", "solidity", "smart-contracts", "defi", "nft", "dao"}},
		{Name: "Mobile & Cross-Platform", Keywords: []string{"mobile", "ios", "android", "flutter", "react-native", "cross-platform", "pwa", "mobile-development"}},
		{Name: "Developer Tools", Keywords: []string{"developer-tools", "ide", "cli", "debugging", "testing", "productivity", "workflow", "automation"}},
		{Name: "Security & Privacy", Keywords: []string{"security", "privacy", "encryption", "cybersecurity", "authentication", "zero-trust", "devsecops"}},
		{Name: "Databases & Storage", Keywords: []string{"database", "storage", "sql", "nosql", "vector-database", "cache", "data-store", "persistence"}},
	}
}

// LoadCategories reads a category table from a YAML file. The file holds an
// ordered list so declaration order survives parsing.
func LoadCategories(path string) ([]Category, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read categories file: %w", err)
	}

	var categories []Category
	if err := yaml.Unmarshal(data, &categories); err != nil {
		return nil, fmt.Errorf("failed to parse categories YAML: %w", err)
	}

	if err := validateCategories(categories); err != nil {
		return nil, fmt.Errorf("invalid categories file %s: %w", path, err)
	}

	// Keyword matching is case-insensitive against lowercased search text
	for i := range categories {
		for j, keyword := range categories[i].Keywords {
			categories[i].Keywords[j] = strings.ToLower(keyword)
		}
	}

	return categories, nil
}

func validateCategories(categories []Category) error {
	if len(categories) == 0 {
		return fmt.Errorf("at least one category is required")
	}

	seen := make(map[string]bool, len(categories))
	for i, category := range categories {
		if category.Name == "" {
			return fmt.Errorf("category at index %d has no name", i)
		}
		if category.Name == OtherCategory {
			return fmt.Errorf("category name '%s' is reserved for the fallback label", OtherCategory)
		}
		if seen[category.Name] {
			return fmt.Errorf("duplicate category name '%s'", category.Name)
		}
		seen[category.Name] = true
		if len(category.Keywords) == 0 {
			return fmt.Errorf("category '%s' must have at least one keyword", category.Name)
		}
	}

	return nil
}

// CategoryNames returns the labels in declared order, with the fallback
// label appended.
func CategoryNames(categories []Category) []string {
	names := make([]string, 0, len(categories)+1)
	for _, category := range categories {
		names = append(names, category.Name)
	}
	names = append(names, OtherCategory)
	return names
}
