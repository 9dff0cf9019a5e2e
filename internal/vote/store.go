package vote

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// The single well-known poll id. The store accepts an explicit poll id
// so that multiple polls could be persisted side by side if ever needed
const DefaultPollID = "raid-day"

type Store interface {
	Load(pollid string) (VoteRecord, error)
	Save(pollid string, record VoteRecord) error
}

// FileStore persists vote records as JSON files inside a data directory,
// one file per poll id
type FileStore struct {
	dir string
}

func NewStore(dir string) *FileStore {
	return &FileStore{dir}
}

func (store *FileStore) filename(pollid string) string {
	return filepath.Join(store.dir, pollid+".json")
}

// Load returns the persisted record for the provided poll id, or an
// empty record if nothing has been saved yet
func (store *FileStore) Load(pollid string) (VoteRecord, error) {

	data, err := os.ReadFile(store.filename(pollid))
	if errors.Is(err, fs.ErrNotExist) {
		return VoteRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read vote record for poll %s: %w", pollid, err)
	}

	var record VoteRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("vote record for poll %s is not correctly formatted: %w", pollid, err)
	}
	return record, nil
}

// Save overwrites the record for the provided poll id.
// The record is written to a temporary file first and renamed into place,
// so a crash can never leave a partially written record behind
func (store *FileStore) Save(pollid string, record VoteRecord) error {

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("could not marshal vote record for poll %s: %w", pollid, err)
	}

	tmp, err := os.CreateTemp(store.dir, pollid+"-*.json")
	if err != nil {
		return fmt.Errorf("could not create temporary file for poll %s: %w", pollid, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("could not write vote record for poll %s: %w", pollid, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("could not close vote record for poll %s: %w", pollid, err)
	}
	if err := os.Rename(tmp.Name(), store.filename(pollid)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("could not replace vote record for poll %s: %w", pollid, err)
	}
	return nil
}
