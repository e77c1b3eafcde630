package ingestion

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paystats/reporter/internal/domain"
)

func rowsOf(pairs ...any) []domain.CountryRow {
	var rows []domain.CountryRow
	for i := 0; i < len(pairs); i += 2 {
		rows = append(rows, domain.CountryRow{
			Line:    i/2 + 2,
			UserID:  int64(pairs[i].(int)),
			Country: pairs[i+1].(string),
		})
	}
	return rows
}

func TestGroupWithoutLimitKeepsEveryRow(t *testing.T) {
	rows := rowsOf(1, "Russia", 2, "USA", 3, "Russia", 1, "Russia", 4, "Chile")
	res := Group(rows, 0)

	require.Len(t, res.Groups, 3)
	assert.Equal(t, domain.CountryGroup{Country: "Russia", UserIDs: []int64{1, 3, 1}}, res.Groups[0])
	assert.Equal(t, domain.CountryGroup{Country: "USA", UserIDs: []int64{2}}, res.Groups[1])
	assert.Equal(t, domain.CountryGroup{Country: "Chile", UserIDs: []int64{4}}, res.Groups[2])

	var in, out []int64
	for _, r := range rows {
		in = append(in, r.UserID)
	}
	out = append(out, res.UserIDs...)
	sort.Slice(in, func(i, j int) bool { return in[i] < in[j] })
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	assert.Equal(t, in, out)
}

func TestGroupTopNByDistinctUsers(t *testing.T) {
	rows := rowsOf(
		1, "A", 1, "A", 1, "A", // three rows, one distinct user
		2, "Bb", 3, "Bb",
		4, "Ccc", 5, "Ccc",
		6, "Dddd",
	)
	res := Group(rows, 2)

	require.Len(t, res.Groups, 2)
	assert.Equal(t, "Bb", res.Groups[0].Country)
	assert.Equal(t, "Ccc", res.Groups[1].Country)
	assert.Equal(t, []int64{2, 3, 4, 5}, res.UserIDs)
}

func TestGroupTopNLargerThanGroups(t *testing.T) {
	res := Group(rowsOf(1, "Russia", 2, "USA"), 10)
	assert.Len(t, res.Groups, 2)
	assert.Equal(t, []int64{1, 2}, res.UserIDs)
}

func TestGroupEmpty(t *testing.T) {
	res := Group(nil, 5)
	assert.Empty(t, res.Groups)
	assert.Empty(t, res.UserIDs)
}
