package daily

import (
	"sort"
	"strings"
)

// RankBest keeps each player's highest-scoring result and orders players by
// score, highest first. Players are matched case-insensitively. On equal
// scores the player who submitted first stays ahead, and a player's later
// result only replaces an earlier one when it scores strictly more.
func RankBest(results []Result) []Result {
	best := make(map[string]int, len(results)) // player -> index in out
	out := make([]Result, 0, len(results))
	for _, r := range results {
		name := strings.ToLower(r.Username)
		i, seen := best[name]
		switch {
		case !seen:
			best[name] = len(out)
			out = append(out, r)
		case r.Score > out[i].Score:
			out[i] = r
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}
