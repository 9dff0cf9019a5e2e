package fflogs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeParsesPrefersMoreKills(t *testing.T) {
	dst := Parses{97: {EncounterName: "Dancing Green", Percentile: 90, Spec: "BlackMage", Kills: 3}}
	src := Parses{
		97: {EncounterName: "Dancing Green", Percentile: 80, Spec: "Summoner", Kills: 8},
		98: {EncounterName: "Sugar Riot", Percentile: 50, Spec: "BlackMage", Kills: 1},
	}

	MergeParses(dst, src)

	// More kills wins even with a lower percentile
	assert.Equal(t, 8, dst[97].Kills)
	assert.Equal(t, "Summoner", dst[97].Spec)
	// New encounters are simply added
	assert.Equal(t, 1, dst[98].Kills)
}

func TestMergeParsesBreaksKillTiesByPercentile(t *testing.T) {
	dst := Parses{97: {Percentile: 70, Spec: "Summoner", Kills: 5}}
	MergeParses(dst, Parses{97: {Percentile: 95, Spec: "BlackMage", Kills: 5}})
	assert.Equal(t, 95.0, dst[97].Percentile)

	MergeParses(dst, Parses{97: {Percentile: 60, Spec: "Dancer", Kills: 5}})
	assert.Equal(t, 95.0, dst[97].Percentile)
}

func TestAggregateUltimatesDeduplicates(t *testing.T) {
	// The Omega Protocol appears under two encounter ids (1068 and 1077)
	parses := Parses{
		1068: {Percentile: 77, Spec: "BlackMage", Kills: 2},
		1077: {Percentile: 91, Spec: "Pictomancer", Kills: 5},
	}

	summaries := AggregateUltimates(parses)

	var top *UltimateSummary
	for i := range summaries {
		if summaries[i].Name == "The Omega Protocol" {
			top = &summaries[i]
		}
	}
	require.NotNil(t, top)
	assert.True(t, top.Available)
	// Kills are summed across ids, the best percentile and its spec are kept
	assert.Equal(t, 7, top.Kills)
	assert.Equal(t, 91.0, top.Percentile)
	assert.Equal(t, "Pictomancer", top.Spec)
}

func TestAggregateUltimatesCoversEveryFight(t *testing.T) {
	summaries := AggregateUltimates(Parses{})

	// One entry per unique ultimate, sorted by name, all without data
	require.Len(t, summaries, 6)
	for i := 1; i < len(summaries); i++ {
		assert.Less(t, summaries[i-1].Name, summaries[i].Name)
	}
	for _, summary := range summaries {
		assert.False(t, summary.Available)
	}
}
