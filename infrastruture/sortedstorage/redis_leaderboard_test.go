package sortedstorage

import (
	"sort"
	"testing"

	"github.com/beka-birhanu/vinom-roads/domain"
	"github.com/stretchr/testify/assert"
)

func TestRankScore(t *testing.T) {
	records := []domain.RetiredPlayer{
		{Name: "bob", Score: 10, PlaySeconds: 30},
		{Name: "amy", Score: 10, PlaySeconds: 30},
		{Name: "cat", Score: 50, PlaySeconds: 900},
		{Name: "dan", Score: 10, PlaySeconds: 12.5},
		{Name: "eve", Score: 0, PlaySeconds: 1},
	}

	type entry struct {
		score  float64
		member string
	}
	entries := make([]entry, 0, len(records))
	for _, r := range records {
		entries = append(entries, entry{rankScore(r), memberFor(r)})
	}

	// Redis orders by score, then lexicographically by member.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].score != entries[j].score {
			return entries[i].score < entries[j].score
		}
		return entries[i].member < entries[j].member
	})

	var names []string
	for _, e := range entries {
		names = append(names, nameOf(e.member))
	}
	assert.Equal(t, []string{"cat", "dan", "amy", "bob", "eve"}, names)

	t.Run("long play time never outranks a higher score", func(t *testing.T) {
		slow := rankScore(domain.RetiredPlayer{Score: 2, PlaySeconds: 5e7})
		fast := rankScore(domain.RetiredPlayer{Score: 1})
		assert.Less(t, slow, fast)
	})

	t.Run("negative play time counts as zero", func(t *testing.T) {
		assert.Equal(t,
			rankScore(domain.RetiredPlayer{Score: 3}),
			rankScore(domain.RetiredPlayer{Score: 3, PlaySeconds: -4}))
	})

	t.Run("play time breaks ties up to the exact score limit", func(t *testing.T) {
		score := uint64(maxExactScore) - 1
		quick := rankScore(domain.RetiredPlayer{Score: score, PlaySeconds: 10})
		slow := rankScore(domain.RetiredPlayer{Score: score, PlaySeconds: 20})
		assert.Less(t, quick, slow)
		assert.Less(t, rankScore(domain.RetiredPlayer{Score: score + 1, PlaySeconds: playTimeSpan}), quick)
	})
}

func TestMemberFor(t *testing.T) {
	a := memberFor(domain.RetiredPlayer{Name: "rex"})
	b := memberFor(domain.RetiredPlayer{Name: "rex"})
	assert.NotEqual(t, a, b)
	assert.Equal(t, "rex", nameOf(a))
}
