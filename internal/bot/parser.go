package bot

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/JeIIicoe/static-bot/internal/fflogs"
)

const idLinkPrefix = "https://www.fflogs.com/character/id/"
const characterLinkPrefix = "https://www.fflogs.com/character/"

const (
	PARSEID_OK                   = iota
	PARSEID_NOT_A_CHARACTER_LINK = iota
	PARSEID_MALFORMED_LINK       = iota
)

var errorMessages map[int]string = map[int]string{
	PARSEID_NOT_A_CHARACTER_LINK: "Link `%s` does not look like an FFLogs character link",
	PARSEID_MALFORMED_LINK:       "Link `%s` seems malformed. Expected format: /character/region/server/name",
}

// CharacterRef points at an FFLogs character, either by its numeric id
// or by region, server and character name
type CharacterRef struct {
	Id     fflogs.CharacterId
	Region string
	Server string
	Name   string
}

func (ref *CharacterRef) ById() bool {
	return ref.Id != 0
}

type ParseResult struct {
	parseid      int
	errorMessage string
	ref          CharacterRef
}

// ParseCharacterLink extracts a character reference from an FFLogs
// profile link.
// Both forms are accepted:
//
//	https://www.fflogs.com/character/id/12345678
//	https://www.fflogs.com/character/eu/cerberus/some%20name
func ParseCharacterLink(link string) ParseResult {

	malformed := func() ParseResult {
		parseid := PARSEID_MALFORMED_LINK
		return ParseResult{parseid: parseid, errorMessage: fmt.Sprintf(errorMessages[parseid], link)}
	}

	switch {
	case strings.HasPrefix(link, idLinkPrefix):
		characterid, err := strconv.Atoi(strings.TrimSuffix(link[len(idLinkPrefix):], "/"))
		if err != nil || characterid <= 0 {
			return malformed()
		}
		return ParseResult{parseid: PARSEID_OK, ref: CharacterRef{Id: fflogs.CharacterId(characterid)}}

	case strings.HasPrefix(link, characterLinkPrefix):
		// .../character/<region>/<server>/<name>
		parts := strings.Split(link, "/")
		if len(parts) < 7 || parts[4] == "" || parts[5] == "" || parts[6] == "" {
			return malformed()
		}
		name, err := url.PathUnescape(parts[6])
		if err != nil {
			return malformed()
		}
		ref := CharacterRef{Region: strings.ToUpper(parts[4]), Server: parts[5], Name: name}
		return ParseResult{parseid: PARSEID_OK, ref: ref}

	default:
		parseid := PARSEID_NOT_A_CHARACTER_LINK
		return ParseResult{parseid: parseid, errorMessage: fmt.Sprintf(errorMessages[parseid], link)}
	}
}
