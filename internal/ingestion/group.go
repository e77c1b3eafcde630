package ingestion

import (
	"sort"

	"github.com/paystats/reporter/internal/domain"
)

// Result is the normalized form of an upload.
type Result struct {
	// UserIDs lists every user id of the selected groups, used to fetch
	// matching transactions. It may contain duplicates.
	UserIDs []int64
	Groups  []domain.CountryGroup
}

// Group collects user ids per exact country label. Groups keep the order in
// which countries first appear and ids keep row order, duplicates included.
//
// When topN > 0 only the topN countries with the most distinct users are
// kept; ties go to the alphabetically smaller label.
func Group(rows []domain.CountryRow, topN int) Result {
	index := make(map[string]int)
	var groups []domain.CountryGroup
	for _, row := range rows {
		i, ok := index[row.Country]
		if !ok {
			i = len(groups)
			index[row.Country] = i
			groups = append(groups, domain.CountryGroup{Country: row.Country})
		}
		groups[i].UserIDs = append(groups[i].UserIDs, row.UserID)
	}

	if topN > 0 && topN < len(groups) {
		groups = selectTop(groups, topN)
	}

	var res Result
	res.Groups = groups
	for _, g := range groups {
		res.UserIDs = append(res.UserIDs, g.UserIDs...)
	}
	return res
}

func selectTop(groups []domain.CountryGroup, n int) []domain.CountryGroup {
	distinct := make(map[string]int, len(groups))
	for _, g := range groups {
		distinct[g.Country] = countDistinct(g.UserIDs)
	}

	ranked := make([]domain.CountryGroup, len(groups))
	copy(ranked, groups)
	sort.SliceStable(ranked, func(i, j int) bool {
		di, dj := distinct[ranked[i].Country], distinct[ranked[j].Country]
		if di != dj {
			return di > dj
		}
		return ranked[i].Country < ranked[j].Country
	})
	return ranked[:n]
}

func countDistinct(ids []int64) int {
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	return len(seen)
}
