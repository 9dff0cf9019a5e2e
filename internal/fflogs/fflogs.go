package fflogs

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/JeIIicoe/static-bot/internal/common"

	"github.com/rs/zerolog/log"
)

const OAUTH_URL = "https://www.fflogs.com/oauth/token"
const API_URL = "https://www.fflogs.com/api/v2/client"

const QUERY_CHARACTER_BY_ID = `
query ($id: Int!) {
  characterData {
    character(id: $id) {
      id
      name
      server { name }
    }
  }
}`

const QUERY_CHARACTER_BY_NAME = `
query ($name: String!, $server: String!, $region: String!) {
  characterData {
    character(name: $name, serverSlug: $server, serverRegion: $region) {
      id
      name
      server { name }
    }
  }
}`

const QUERY_ZONE_RANKINGS = `
query ($id: Int!, $zone: Int!) {
  characterData {
    character(id: $id) {
      zoneRankings(zoneID: $zone)
    }
  }
}`

const QUERY_ZONE_RANKINGS_LATEST = `
query ($id: Int!) {
  characterData {
    character(id: $id) {
      zoneRankings
    }
  }
}`

// Renew the token a bit before the server expires it
const tokenExpiryMargin = 5 * time.Minute

// Fflogs queries the FFLogs GraphQL API on behalf of the bot,
// fetching and caching the OAuth client credentials token as needed
type Fflogs struct {
	clientId     string
	clientSecret string
	token        string
	tokenWatch   common.Stopwatch
	proxy        common.Proxy
}

func NewFflogs(clientId string, clientSecret string, restrictions []common.Restriction) Fflogs {

	var fflogs Fflogs
	fflogs.clientId = clientId
	fflogs.clientSecret = clientSecret
	fflogs.proxy = common.NewProxy(nil, restrictions)
	return fflogs
}

// GetCharacter fetches the character with the provided FFLogs id
func (fflogs *Fflogs) GetCharacter(characterid CharacterId) (Character, error) {

	data, err := fflogs.query(QUERY_CHARACTER_BY_ID, map[string]interface{}{"id": int(characterid)})
	if err != nil {
		return Character{}, err
	}
	return UnmarshalCharacter(data)
}

// FindCharacter fetches the character with the provided name on the
// provided server and region
func (fflogs *Fflogs) FindCharacter(region string, server string, name string) (Character, error) {

	variables := map[string]interface{}{"name": name, "server": server, "region": region}
	data, err := fflogs.query(QUERY_CHARACTER_BY_NAME, variables)
	if err != nil {
		return Character{}, err
	}
	return UnmarshalCharacter(data)
}

// GetAllParses fetches the character's rankings for every zone of interest
// and merges them into a single map, keeping the best entry per encounter.
// Zones that fail, for instance because the character never entered them,
// are skipped
func (fflogs *Fflogs) GetAllParses(characterid CharacterId) (Parses, error) {

	parses := Parses{}
	failures := 0
	for _, zoneid := range rankingZones {
		zoneParses, err := fflogs.zoneRankings(characterid, zoneid)
		if err != nil {
			log.Debug().Msg(fmt.Sprintf("No rankings for character %d in zone %d: %s", characterid, zoneid, err))
			failures++
			continue
		}
		MergeParses(parses, zoneParses)
	}

	if failures == len(rankingZones) {
		return nil, fmt.Errorf("could not fetch any rankings for character %d", characterid)
	}
	return parses, nil
}

func (fflogs *Fflogs) zoneRankings(characterid CharacterId, zoneid ZoneId) (Parses, error) {

	var data []byte
	var err error
	if zoneid == 0 {
		data, err = fflogs.query(QUERY_ZONE_RANKINGS_LATEST, map[string]interface{}{"id": int(characterid)})
	} else {
		data, err = fflogs.query(QUERY_ZONE_RANKINGS, map[string]interface{}{"id": int(characterid), "zone": int(zoneid)})
	}
	if err != nil {
		return nil, err
	}
	return UnmarshalZoneRankings(data)
}

// Send a GraphQL query with its variables
func (fflogs *Fflogs) query(query string, variables map[string]interface{}) ([]byte, error) {

	token, err := fflogs.accessToken()
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(map[string]interface{}{"query": query, "variables": variables})
	if err != nil {
		return nil, err
	}

	header := map[string]string{
		"Authorization": "Bearer " + token,
		"Content-Type":  "application/json",
	}
	data := fflogs.proxy.Post(API_URL, header, body, true)
	if data == nil {
		return nil, fmt.Errorf("got no response from the FFLogs API")
	}
	return data, nil
}

// Return the cached access token, or fetch a fresh one if the cached
// token is missing or about to expire
func (fflogs *Fflogs) accessToken() (string, error) {

	if fflogs.token != "" {
		if stopped, _ := fflogs.tokenWatch.Stopped(); !stopped {
			return fflogs.token, nil
		}
		log.Debug().Msg("FFLogs access token has expired")
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", fflogs.clientId)
	form.Set("client_secret", fflogs.clientSecret)

	header := map[string]string{"Content-Type": "application/x-www-form-urlencoded"}
	data := fflogs.proxy.Post(OAUTH_URL, header, []byte(form.Encode()), true)
	if data == nil {
		return "", fmt.Errorf("could not fetch an FFLogs access token")
	}

	token, expiresIn, err := UnmarshalToken(data)
	if err != nil {
		return "", err
	}

	fflogs.token = token
	fflogs.tokenWatch = common.NewStopwatch(expiresIn - tokenExpiryMargin)
	fflogs.tokenWatch.Start()
	log.Info().Msg(fmt.Sprintf("Fetched a new FFLogs access token, valid for %s", expiresIn))
	return token, nil
}
