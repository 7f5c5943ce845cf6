package projects

import (
	"math"
	"testing"
	"time"
)

func TestTrendingScore_WorkedExample(t *testing.T) {
	now := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

	// Updated right now: (1000*1.5 + 500) * exp(0) = 2000
	score := TrendingScore(1000, 500, now, now)
	if math.Abs(score-2000) > 1e-9 {
		t.Errorf("Expected score 2000, got %f", score)
	}
}

func TestTrendingScore_DecreasesWithAge(t *testing.T) {
	now := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

	previous := math.Inf(1)
	for days := 0; days <= 120; days += 10 {
		updatedAt := now.AddDate(0, 0, -days)
		score := TrendingScore(1000, 500, updatedAt, now)
		if score >= previous {
			t.Errorf("Score should strictly decrease with age: %f at %d days >= %f", score, days, previous)
		}
		if score < 0 {
			t.Errorf("Score should never be negative, got %f at %d days", score, days)
		}
		previous = score
	}
}

func TestTrendingScore_IncreasesWithPopularity(t *testing.T) {
	now := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	updatedAt := now.AddDate(0, 0, -7)

	if TrendingScore(2000, 500, updatedAt, now) <= TrendingScore(1000, 500, updatedAt, now) {
		t.Error("Score should increase with stars for fixed recency")
	}
	if TrendingScore(1000, 800, updatedAt, now) <= TrendingScore(1000, 500, updatedAt, now) {
		t.Error("Score should increase with forks for fixed recency")
	}
}

func TestTrendingScore_ClockSkewClamped(t *testing.T) {
	now := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

	// A future update timestamp must not inflate the score beyond "just updated"
	future := now.Add(48 * time.Hour)
	skewed := TrendingScore(1000, 500, future, now)
	fresh := TrendingScore(1000, 500, now, now)

	if skewed != fresh {
		t.Errorf("Future timestamps should be clamped: got %f, want %f", skewed, fresh)
	}
}

func TestPopularityScore(t *testing.T) {
	p := Project{Stars: 1000, Forks: 300}
	if got := PopularityScore(p); got != 1600 {
		t.Errorf("Expected popularity 1600, got %d", got)
	}
}

func TestCategorize_FirstDeclaredCategoryWins(t *testing.T) {
	categories := []Category{
		{Name: "First", Keywords: []string{"shared"}},
		{Name: "Second", Keywords: []string{"shared", "unique"}},
	}

	p := Project{Name: "shared-unique-project"}

	// Both categories match; declaration order decides
	if got := Categorize(p, categories); got != "First" {
		t.Errorf("Expected 'First', got '%s'", got)
	}
}

func TestCategorize_Deterministic(t *testing.T) {
	categories := DefaultCategories()
	p := Project{
		Name:        "awesome-kubernetes",
		Description: "Operators and tooling",
		Topics:      []string{"kubernetes", "devops"},
	}

	first := Categorize(p, categories)
	for i := 0; i < 10; i++ {
		if got := Categorize(p, categories); got != first {
			t.Fatalf("Categorize is not deterministic: got '%s' then '%s'", first, got)
		}
	}
	if first != "Cloud Native" {
		t.Errorf("Expected 'Cloud Native', got '%s'", first)
	}
}

func TestCategorize_MatchesTopics(t *testing.T) {
	categories := DefaultCategories()
	p := Project{
		Name:   "some-project",
		Topics: []string{"blockchain", "defi"},
	}

	if got := Categorize(p, categories); got != "Web3 & Blockchain" {
		t.Errorf("Expected 'Web3 & Blockchain', got '%s'", got)
	}
}

func TestCategorize_FallbackLabel(t *testing.T) {
	categories := []Category{
		{Name: "Narrow", Keywords: []string{"zzz-no-match"}},
	}

	p := Project{Name: "plain-project", Description: "nothing special"}

	if got := Categorize(p, categories); got != OtherCategory {
		t.Errorf("Expected '%s', got '%s'", OtherCategory, got)
	}
}

func TestCategorize_LiteralSubstringMatching(t *testing.T) {
	categories := DefaultCategories()

	// "maintenance" contains "ai"; literal substring matching is the
	// compatibility behavior, kept deliberately
	p := Project{Name: "maintenance-scripts"}

	if got := Categorize(p, categories); got != "AI & LLMs" {
		t.Errorf("Expected literal substring match to 'AI & LLMs', got '%s'", got)
	}
}

func TestCategorize_CaseInsensitive(t *testing.T) {
	categories := DefaultCategories()
	p := Project{Name: "MyProject", Description: "A Kubernetes operator"}

	if got := Categorize(p, categories); got != "Cloud Native" {
		t.Errorf("Expected 'Cloud Native', got '%s'", got)
	}
}

func TestEnrich_SetsDerivedFields(t *testing.T) {
	now := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	categories := DefaultCategories()

	repos := makeRepos(now, 1, 2)
	enriched := Enrich(repos, categories, now)

	if len(enriched) != 2 {
		t.Fatalf("Expected 2 projects, got %d", len(enriched))
	}
	for _, p := range enriched {
		if p.Category == "" {
			t.Errorf("Project %d has no category", p.ID)
		}
		if p.TrendingScore < 0 || math.IsInf(p.TrendingScore, 0) || math.IsNaN(p.TrendingScore) {
			t.Errorf("Project %d has invalid trending score %f", p.ID, p.TrendingScore)
		}
	}
}
