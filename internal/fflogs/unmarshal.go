package fflogs

import (
	"encoding/json"
	"fmt"
	"time"
)

func UnmarshalToken(data []byte) (string, time.Duration, error) {

	var raw struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return "", 0, err
	}
	if raw.AccessToken == "" {
		return "", 0, fmt.Errorf("no access token among received data")
	}
	return raw.AccessToken, time.Duration(raw.ExpiresIn) * time.Second, nil
}

func UnmarshalCharacter(data []byte) (Character, error) {

	// unmarshal
	var raw struct {
		Data struct {
			CharacterData struct {
				Character *struct {
					Id     CharacterId
					Name   string
					Server struct{ Name string }
				}
			}
		}
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Character{}, err
	}

	character := raw.Data.CharacterData.Character
	if character == nil {
		return Character{}, fmt.Errorf("character not found")
	}
	return Character{Id: character.Id, Name: character.Name, Server: character.Server.Name}, nil
}

func UnmarshalZoneRankings(data []byte) (Parses, error) {

	// unmarshal
	var raw struct {
		Data struct {
			CharacterData struct {
				Character *struct {
					ZoneRankings struct {
						Error    string
						Rankings []struct {
							Encounter   Encounter
							RankPercent *float64
							Spec        string
							TotalKills  int
						}
					}
				}
			}
		}
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	character := raw.Data.CharacterData.Character
	if character == nil {
		return nil, fmt.Errorf("character not found")
	}
	if character.ZoneRankings.Error != "" {
		return nil, fmt.Errorf("zone not supported: %s", character.ZoneRankings.Error)
	}

	// Rankings without a percentile carry no information, skip them
	parses := Parses{}
	for _, ranking := range character.ZoneRankings.Rankings {
		if ranking.Encounter.Id == 0 || ranking.RankPercent == nil {
			continue
		}
		parses[ranking.Encounter.Id] = Parse{
			EncounterName: ranking.Encounter.Name,
			Percentile:    *ranking.RankPercent,
			Spec:          ranking.Spec,
			Kills:         ranking.TotalKills,
		}
	}
	return parses, nil
}
