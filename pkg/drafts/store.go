// Package drafts persists editor drafts on the local file system, one JSON
// file per draft. This is the client-side counterpart of the backend store:
// unsaved work (including edges, which the backend does not persist) can
// survive a session and be pushed later.
package drafts

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/alecap92/fcrm-automations/pkg/models"
)

// ErrDraftNotFound indicates no draft exists under the given name.
var ErrDraftNotFound = errors.New("draft not found")

// Draft is a saved editor snapshot. Unlike the backend's Automation shape it
// keeps edges, so nothing is lost locally.
type Draft struct {
	Name         string        `json:"name"         validate:"required"`
	Description  string        `json:"description"`
	AutomationID string        `json:"automationId,omitempty"`
	Nodes        []models.Node `json:"nodes"`
	Edges        []models.Edge `json:"edges"`
	SavedAt      time.Time     `json:"savedAt"`
}

// Store reads and writes drafts under a root directory.
type Store struct {
	root string
}

// NewStore creates a draft store rooted at the given directory.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Save writes a draft, stamping SavedAt. An existing draft with the same
// name is overwritten.
func (s *Store) Save(draft *Draft) error {
	if draft.Name == "" {
		return errors.New("draft name is required")
	}

	if err := os.MkdirAll(path.Join(s.root, "drafts"), 0750); err != nil {
		return fmt.Errorf("failed to create drafts directory: %w", err)
	}

	draft.SavedAt = time.Now().UTC()

	data, err := json.MarshalIndent(draft, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal draft %s: %w", draft.Name, err)
	}

	return os.WriteFile(s.draftPath(draft.Name), data, 0600)
}

// Get loads a draft by name.
func (s *Store) Get(name string) (*Draft, error) {
	body, err := os.ReadFile(s.draftPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrDraftNotFound
		}

		return nil, fmt.Errorf("failed to read draft %s: %w", name, err)
	}

	var draft Draft
	if err := json.Unmarshal(body, &draft); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft %s: %w", name, err)
	}

	return &draft, nil
}

// List returns all drafts, most recently saved first.
func (s *Store) List() ([]*Draft, error) {
	root := os.DirFS(path.Join(s.root, "drafts"))

	files, err := fs.Glob(root, "*.json")
	if err != nil || len(files) == 0 {
		return []*Draft{}, nil
	}

	out := make([]*Draft, 0, len(files))

	for _, file := range files {
		draft, err := s.Get(strings.TrimSuffix(file, ".json"))
		if err != nil {
			return nil, err
		}

		out = append(out, draft)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].SavedAt.After(out[j].SavedAt)
	})

	return out, nil
}

// Delete removes a draft by name. Deleting a missing draft is a no-op.
func (s *Store) Delete(name string) error {
	err := os.Remove(s.draftPath(name))
	if err != nil && os.IsNotExist(err) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to delete draft %s: %w", name, err)
	}

	return nil
}

func (s *Store) draftPath(name string) string {
	return filepath.Clean(path.Join(s.root, "drafts", slug(name)+".json"))
}

// slug turns a draft name into a safe file name.
func slug(name string) string {
	var b strings.Builder

	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			if s := b.String(); s != "" && !strings.HasSuffix(s, "-") {
				b.WriteByte('-')
			}
		}
	}

	return strings.Trim(b.String(), "-")
}
