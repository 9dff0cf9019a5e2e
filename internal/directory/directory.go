package directory

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

var ErrNotFound = errors.New("user is not registered")

// Record holds the registered character of one member.
// The json layout matches the users file the bot has always written
type Record struct {
	CharacterName string `json:"character_name"`
	Server        string `json:"server"`
	Job           string `json:"job"`
	ProfileUrl    string `json:"fflogs"`
	CharacterId   int    `json:"character_id"`
}

// Directory maps discord user ids to their registered characters,
// backed by a single JSON file
type Directory struct {
	filename string
	users    map[string]Record
}

func NewDirectory(filename string) (Directory, error) {
	directory := Directory{filename: filename}
	users, err := directory.load()
	if err != nil {
		return Directory{}, err
	}
	directory.users = users
	return directory, nil
}

// Get returns the record registered for the provided user
func (directory *Directory) Get(userid string) (Record, error) {
	record, ok := directory.users[userid]
	if !ok {
		return Record{}, ErrNotFound
	}
	return record, nil
}

// DisplayName returns the name to show for the provided user
func (directory *Directory) DisplayName(userid string) (string, error) {
	record, ok := directory.users[userid]
	if !ok {
		return "", ErrNotFound
	}
	return record.CharacterName, nil
}

// Snapshot re-reads the users file and returns the current set of
// registered user ids
func (directory *Directory) Snapshot() (map[string]struct{}, error) {
	users, err := directory.load()
	if err != nil {
		return nil, err
	}
	directory.users = users

	userids := make(map[string]struct{}, len(users))
	for userid := range users {
		userids[userid] = struct{}{}
	}
	return userids, nil
}

// Register stores the record for the provided user and persists the
// complete directory
func (directory *Directory) Register(userid string, record Record) error {

	previous, existed := directory.users[userid]
	directory.users[userid] = record
	if err := directory.save(); err != nil {
		// Keep memory in line with disk
		if existed {
			directory.users[userid] = previous
		} else {
			delete(directory.users, userid)
		}
		return fmt.Errorf("could not persist registration of user %s: %w", userid, err)
	}

	log.Info().Msg(fmt.Sprintf("Registered user %s as %s (%s)", userid, record.CharacterName, record.Server))
	return nil
}

func (directory *Directory) load() (map[string]Record, error) {

	data, err := os.ReadFile(directory.filename)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read users file %s: %w", directory.filename, err)
	}

	users := map[string]Record{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &users); err != nil {
			return nil, fmt.Errorf("users file %s is not correctly formatted: %w", directory.filename, err)
		}
	}
	return users, nil
}

func (directory *Directory) save() error {

	data, err := json.MarshalIndent(directory.users, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(directory.filename), "users-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), directory.filename); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}
