package fflogs

import (
	"slices"
)

// Static encounter tables. FFLogs assigns a new encounter id to legacy
// ultimates on every expansion, so the same fight can appear several times

var CurrentSavage = []Encounter{
	{97, "Dancing Green"},
	{98, "Sugar Riot"},
	{99, "Brute Abominator"},
	{100, "Howling Blade"},
}

var PreviousSavage = []Encounter{
	{93, "Black Cat"},
	{94, "Honey B. Lovely"},
	{95, "Brute Bomber"},
	{96, "Wicked Thunder"},
}

var Ultimates = []Encounter{
	{1079, "Futures Rewritten"},
	{1065, "Dragonsong's Reprise"},
	{1076, "Dragonsong's Reprise"},
	{1068, "The Omega Protocol"},
	{1077, "The Omega Protocol"},
	{1060, "The Unending Coil of Bahamut"},
	{1073, "The Unending Coil of Bahamut"},
	{1061, "The Weapon's Refrain"},
	{1074, "The Weapon's Refrain"},
	{1062, "The Epic of Alexander"},
	{1075, "The Epic of Alexander"},
}

// Zones to query for rankings. Zone 0 stands for the latest zone,
// which the API returns when no zone id is provided
var rankingZones = []ZoneId{0, 62, 65, 59, 45, 53, 43}

// MergeParses folds src into dst, keeping for every encounter the entry
// with the most kills, then the highest percentile
func MergeParses(dst Parses, src Parses) {
	for encounterid, parse := range src {
		existing, ok := dst[encounterid]
		if !ok {
			dst[encounterid] = parse
			continue
		}
		if parse.Kills > existing.Kills {
			dst[encounterid] = parse
		} else if parse.Kills == existing.Kills && parse.Percentile > existing.Percentile {
			dst[encounterid] = parse
		}
	}
}

type UltimateSummary struct {
	Name       string
	Percentile float64
	Spec       string
	Kills      int
	Available  bool
}

// AggregateUltimates collapses the per-expansion duplicates of each ultimate
// into a single entry: kills are summed across ids, and the spec of the best
// percentile is kept. The result covers every known ultimate, sorted by name
func AggregateUltimates(parses Parses) []UltimateSummary {

	aggregated := map[string]*UltimateSummary{}
	for _, encounter := range Ultimates {
		parse, ok := parses[encounter.Id]
		if !ok {
			continue
		}
		summary, ok := aggregated[encounter.Name]
		if !ok {
			aggregated[encounter.Name] = &UltimateSummary{
				Name:       encounter.Name,
				Percentile: parse.Percentile,
				Spec:       parse.Spec,
				Kills:      parse.Kills,
				Available:  true,
			}
			continue
		}
		summary.Kills += parse.Kills
		if parse.Percentile > summary.Percentile {
			summary.Percentile = parse.Percentile
			summary.Spec = parse.Spec
		}
	}

	// Unique names in alphabetical order
	names := make([]string, 0, len(Ultimates))
	for _, encounter := range Ultimates {
		if !slices.Contains(names, encounter.Name) {
			names = append(names, encounter.Name)
		}
	}
	slices.Sort(names)

	summaries := make([]UltimateSummary, 0, len(names))
	for _, name := range names {
		if summary, ok := aggregated[name]; ok {
			summaries = append(summaries, *summary)
		} else {
			summaries = append(summaries, UltimateSummary{Name: name})
		}
	}
	return summaries
}
