package fflogs

type CharacterId int
type EncounterId int
type ZoneId int

type Character struct {
	Id     CharacterId
	Name   string
	Server string
}

// Parse holds the best known ranking of a character for one encounter
type Parse struct {
	EncounterName string
	Percentile    float64
	Spec          string
	Kills         int
}

type Parses map[EncounterId]Parse

type Encounter struct {
	Id   EncounterId
	Name string
}
