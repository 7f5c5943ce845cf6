package projects

import (
	"fmt"
	"time"
)

// Project is an enriched repository record: the raw search fields plus the
// derived trending score and category label.
type Project struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	FullName      string    `json:"full_name"`
	Description   string    `json:"description,omitempty"`
	Language      string    `json:"language,omitempty"`
	HTMLURL       string    `json:"html_url"`
	Stars         int       `json:"stargazers_count"`
	Forks         int       `json:"forks_count"`
	Watchers      int       `json:"watchers_count"`
	Topics        []string  `json:"topics,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
	TrendingScore float64   `json:"trending_score"`
	Category      string    `json:"category"`
}

type SortMode string

const (
	SortStars      SortMode = "stars"
	SortForks      SortMode = "forks"
	SortWatchers   SortMode = "watchers"
	SortTrending   SortMode = "trending"
	SortPopularity SortMode = "popularity"
)

func ParseSortMode(s string) (SortMode, error) {
	switch SortMode(s) {
	case SortStars, SortForks, SortWatchers, SortTrending, SortPopularity:
		return SortMode(s), nil
	case "":
		return SortStars, nil
	default:
		return "", fmt.Errorf("unknown sort mode '%s' (valid: stars, forks, watchers, trending, popularity)", s)
	}
}
