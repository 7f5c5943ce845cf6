package projects

import (
	"math"
	"strings"
	"time"

	"github.com/ostrends/trends/app/github"
)

// TrendingScore computes a recency-weighted popularity score:
// (stars * 1.5 + forks) * exp(-daysSinceUpdate / 30).
// daysSinceUpdate is clamped at zero so clock skew between the client and
// the API cannot inflate scores.
func TrendingScore(stars, forks int, updatedAt, now time.Time) float64 {
	daysSinceUpdate := now.Sub(updatedAt).Hours() / 24
	if daysSinceUpdate < 0 {
		daysSinceUpdate = 0
	}
	return (float64(stars)*1.5 + float64(forks)) * math.Exp(-daysSinceUpdate/30)
}

// PopularityScore combines stars and forks: stars + 2 * forks.
func PopularityScore(p Project) int {
	return p.Stars + 2*p.Forks
}

// Categorize assigns a category label by matching keywords against the
// lowercased concatenation of name, description, and topics. Categories are
// checked in declared order and the first one with any keyword occurring as
// a substring wins. Projects no category matches get the fallback label.
func Categorize(p Project, categories []Category) string {
	searchText := strings.ToLower(p.Name + " " + p.Description + " " + strings.Join(p.Topics, " "))

	for _, category := range categories {
		for _, keyword := range category.Keywords {
			if strings.Contains(searchText, keyword) {
				return category.Name
			}
		}
	}

	return OtherCategory
}

// Enrich converts raw search results into scored, categorized projects.
func Enrich(repos []github.Repo, categories []Category, now time.Time) []Project {
	enriched := make([]Project, 0, len(repos))
	for _, repo := range repos {
		p := Project{
			ID:          repo.ID,
			Name:        repo.Name,
			FullName:    repo.FullName,
			Description: repo.Description,
			Language:    repo.Language,
			HTMLURL:     repo.HTMLURL,
			Stars:       repo.StargazersCount,
			Forks:       repo.ForksCount,
			Watchers:    repo.WatchersCount,
			Topics:      repo.Topics,
			UpdatedAt:   repo.UpdatedAt,
		}
		p.TrendingScore = TrendingScore(p.Stars, p.Forks, p.UpdatedAt, now)
		p.Category = Categorize(p, categories)
		enriched = append(enriched, p)
	}
	return enriched
}

// FilterByCategory returns the projects carrying the given label. An empty
// label means no filtering.
func FilterByCategory(list []Project, category string) []Project {
	if category == "" {
		return list
	}
	filtered := make([]Project, 0, len(list))
	for _, p := range list {
		if p.Category == category {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
