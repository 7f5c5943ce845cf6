package projects

import (
	"sort"
)

// Sort orders projects by the given mode, descending. The sort is stable:
// ties keep their prior order, which makes re-sorting idempotent.
func Sort(list []Project, mode SortMode) {
	sort.SliceStable(list, func(i, j int) bool {
		switch mode {
		case SortForks:
			return list[i].Forks > list[j].Forks
		case SortWatchers:
			return list[i].Watchers > list[j].Watchers
		case SortTrending:
			return list[i].TrendingScore > list[j].TrendingScore
		case SortPopularity:
			return PopularityScore(list[i]) > PopularityScore(list[j])
		default:
			return list[i].Stars > list[j].Stars
		}
	})
}
