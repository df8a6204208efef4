// Package project persists cutting requests and their computed reports as
// JSON files, so a result page can be reloaded without re-running the
// optimizer.
package project

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/piwi3910/beamcut/internal/model"
	"github.com/piwi3910/beamcut/internal/report"
)

// ErrNotFound is returned when no stored request matches the given ID.
var ErrNotFound = errors.New("cutting request not found")

// Record ties one cutting request to its computed report.
type Record struct {
	ID        string               `json:"id"`
	CreatedAt string               `json:"created_at"`
	RawLength float64              `json:"raw_length"`
	Parts     []model.RequiredPart `json:"parts"`
	Report    report.Report        `json:"report"`
}

// NewRecord creates a record with a fresh ID and timestamp.
func NewRecord(rawLength float64, parts []model.RequiredPart, rep report.Report) Record {
	return Record{
		ID:        uuid.New().String()[:8],
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		RawLength: rawLength,
		Parts:     parts,
		Report:    rep,
	}
}

// Store reads and writes records under a base directory, one JSON file per
// request.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir. The directory is created on the
// first save.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) requestsDir() string {
	return filepath.Join(s.dir, "requests")
}

func (s *Store) pathFor(id string) string {
	return filepath.Join(s.requestsDir(), id+".json")
}

// validID guards against path escapes in caller-supplied IDs.
func validID(id string) bool {
	if id == "" {
		return false
	}
	for _, r := range id {
		if !strings.ContainsRune("abcdefghijklmnopqrstuvwxyz0123456789-", r) {
			return false
		}
	}
	return true
}

// Save persists a record, creating any missing parent directories.
func (s *Store) Save(rec Record) error {
	if !validID(rec.ID) {
		return errors.New("invalid record id")
	}
	if err := os.MkdirAll(s.requestsDir(), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.pathFor(rec.ID), data, 0644)
}

// Load reads a stored record by ID. Returns ErrNotFound for unknown IDs.
func (s *Store) Load(id string) (Record, error) {
	if !validID(id) {
		return Record{}, ErrNotFound
	}
	data, err := os.ReadFile(s.pathFor(id))
	if err != nil {
		if os.IsNotExist(err) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// List returns all stored records, newest first. A missing store directory
// is treated as empty.
func (s *Store) List() ([]Record, error) {
	entries, err := os.ReadDir(s.requestsDir())
	if err != nil {
		if os.IsNotExist(err) {
			return []Record{}, nil
		}
		return nil, err
	}

	records := make([]Record, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		rec, err := s.Load(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			// Skip unreadable entries rather than failing the listing.
			continue
		}
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt > records[j].CreatedAt
	})
	return records, nil
}
