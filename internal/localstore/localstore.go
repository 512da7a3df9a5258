// Package localstore implements a JSON file backed expense store. It backs
// the local storage mode, where expenses are kept on disk per user instead
// of in Postgres.
package localstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"spendwise/internal/models"
)

// Store persists expenses as one JSON file per user under a base directory.
// All operations are safe for concurrent use.
type Store struct {
	dir string
	mu  sync.Mutex
}

// New creates a Store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating local store directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) userFile(userID string) string {
	return filepath.Join(s.dir, fmt.Sprintf("expenses_%s.json", userID))
}

// load reads the expense file for a user. A missing file is an empty store.
func (s *Store) load(userID string) ([]models.Expense, error) {
	data, err := os.ReadFile(s.userFile(userID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading expense file: %w", err)
	}

	var expenses []models.Expense
	if err := json.Unmarshal(data, &expenses); err != nil {
		return nil, fmt.Errorf("parsing expense file: %w", err)
	}
	return expenses, nil
}

// save writes the full expense list for a user atomically via a temp file.
func (s *Store) save(userID string, expenses []models.Expense) error {
	data, err := json.MarshalIndent(expenses, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding expenses: %w", err)
	}

	path := s.userFile(userID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing expense file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing expense file: %w", err)
	}
	return nil
}

// List returns all expenses for a user, newest first.
func (s *Store) List(userID string) ([]models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expenses, err := s.load(userID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(expenses, func(i, j int) bool {
		return expenses[i].CreatedAt.After(expenses[j].CreatedAt)
	})
	return expenses, nil
}

// Get returns a single expense by id.
func (s *Store) Get(userID, id string) (*models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expenses, err := s.load(userID)
	if err != nil {
		return nil, err
	}
	for i := range expenses {
		if expenses[i].ID == id {
			return &expenses[i], nil
		}
	}
	return nil, os.ErrNotExist
}

// Append adds an expense to the user's file.
func (s *Store) Append(userID string, expense models.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	expenses, err := s.load(userID)
	if err != nil {
		return err
	}
	expenses = append(expenses, expense)
	return s.save(userID, expenses)
}

// Update replaces the expense with the same id. Returns os.ErrNotExist if
// no expense matches.
func (s *Store) Update(userID string, expense models.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	expenses, err := s.load(userID)
	if err != nil {
		return err
	}
	for i := range expenses {
		if expenses[i].ID == expense.ID {
			expenses[i] = expense
			return s.save(userID, expenses)
		}
	}
	return os.ErrNotExist
}

// Delete removes the expense with the given id. Returns os.ErrNotExist if
// no expense matches.
func (s *Store) Delete(userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	expenses, err := s.load(userID)
	if err != nil {
		return err
	}
	for i := range expenses {
		if expenses[i].ID == id {
			expenses = append(expenses[:i], expenses[i+1:]...)
			return s.save(userID, expenses)
		}
	}
	return os.ErrNotExist
}

// ClearOld removes expenses created before the cutoff and returns how many
// were removed.
func (s *Store) ClearOld(userID string, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expenses, err := s.load(userID)
	if err != nil {
		return 0, err
	}

	kept := expenses[:0]
	removed := 0
	for _, e := range expenses {
		if e.CreatedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	if removed == 0 {
		return 0, nil
	}
	return removed, s.save(userID, kept)
}
