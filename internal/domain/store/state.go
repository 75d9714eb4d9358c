package store

import (
	"fmt"
	"slices"
	"strings"

	model "go_mock_panel/internal/domain/model/mock"
)

// State is the whole collection for one panel session. Transition methods
// never modify the receiver; they return the next State.
type State struct {
	Mocks      []model.Mock `json:"mocks"`
	Folders    []string     `json:"folders"`
	Selected   string       `json:"selectedFolder"` // "" means no folder selected
	Search     string       `json:"search"`
	BackendURL string       `json:"backendUrl"`
}

// Clone deep-copies mocks and folders.
func (s State) Clone() State {
	c := s
	c.Mocks = make([]model.Mock, len(s.Mocks))
	for i, m := range s.Mocks {
		c.Mocks[i] = m.Clone()
	}
	c.Folders = slices.Clone(s.Folders)
	if c.Folders == nil {
		c.Folders = []string{}
	}
	return c
}

func (s State) HasFolder(name string) bool {
	return slices.Contains(s.Folders, name)
}

func (s State) mockIndex(id string) int {
	return slices.IndexFunc(s.Mocks, func(m model.Mock) bool { return m.ID == id })
}

// FindMock returns the mock with the given id.
func (s State) FindMock(id string) (model.Mock, bool) {
	i := s.mockIndex(id)
	if i < 0 {
		return model.Mock{}, false
	}
	return s.Mocks[i].Clone(), true
}

// WithLoaded replaces the mock list with a fetched one and recomputes the
// folder list from it. A selection that no longer names a folder is dropped;
// without a selection the first folder is selected.
func (s State) WithLoaded(mocks []model.Mock) State {
	next := s.Clone()
	next.Mocks = make([]model.Mock, len(mocks))
	for i, m := range mocks {
		next.Mocks[i] = m.Clone()
	}
	next.Folders = DeriveFolders(mocks)
	if next.Selected != "" && !next.HasFolder(next.Selected) {
		next.Selected = ""
	}
	if next.Selected == "" && len(next.Folders) > 0 {
		next.Selected = next.Folders[0]
	}
	return next
}

// DeriveFolders returns the distinct non-empty folder names of mocks in
// first-seen order.
func DeriveFolders(mocks []model.Mock) []string {
	seen := make(map[string]struct{})
	folders := []string{}
	for _, m := range mocks {
		if m.Folder == "" {
			continue
		}
		if _, ok := seen[m.Folder]; ok {
			continue
		}
		seen[m.Folder] = struct{}{}
		folders = append(folders, m.Folder)
	}
	return folders
}

func (s State) WithSearch(text string) State {
	next := s.Clone()
	next.Search = text
	return next
}

// WithSelectedFolder selects name, or clears the selection when name is "".
func (s State) WithSelectedFolder(name string) (State, error) {
	if name != "" && !s.HasFolder(name) {
		return s, fmt.Errorf("select %q: %w", name, ErrFolderNotFound)
	}
	next := s.Clone()
	next.Selected = name
	return next, nil
}

func (s State) WithBackendURL(url string) State {
	next := s.Clone()
	next.BackendURL = url
	return next
}

// WithFolderCreated appends name to the folder list and selects it.
func (s State) WithFolderCreated(name string) (State, error) {
	if strings.TrimSpace(name) == "" {
		return s, ErrBlankFolderName
	}
	if s.HasFolder(name) {
		return s, fmt.Errorf("create %q: %w", name, ErrFolderExists)
	}
	next := s.Clone()
	next.Folders = append(next.Folders, name)
	next.Selected = name
	return next, nil
}

// WithFolderRenamed renames the folder entry in place and moves every owned
// mock along with it.
func (s State) WithFolderRenamed(oldName, newName string) (State, error) {
	switch {
	case strings.TrimSpace(newName) == "":
		return s, ErrBlankFolderName
	case newName == oldName:
		return s, ErrSameFolderName
	case !s.HasFolder(oldName):
		return s, fmt.Errorf("rename %q: %w", oldName, ErrFolderNotFound)
	case s.HasFolder(newName):
		return s, fmt.Errorf("rename to %q: %w", newName, ErrFolderExists)
	}

	next := s.Clone()
	next.Folders[slices.Index(next.Folders, oldName)] = newName
	for i := range next.Mocks {
		if next.Mocks[i].Folder == oldName {
			next.Mocks[i].Folder = newName
		}
	}
	if next.Selected == oldName {
		next.Selected = newName
	}
	return next, nil
}

// WithFolderDeleted removes the folder and all of its mocks. A deleted
// selection falls back to the first remaining folder, or none.
func (s State) WithFolderDeleted(name string) (State, int, error) {
	if !s.HasFolder(name) {
		return s, 0, fmt.Errorf("delete %q: %w", name, ErrFolderNotFound)
	}
	next := s.Clone()
	next.Folders = slices.DeleteFunc(next.Folders, func(f string) bool { return f == name })
	before := len(next.Mocks)
	next.Mocks = slices.DeleteFunc(next.Mocks, func(m model.Mock) bool { return m.Folder == name })
	removed := before - len(next.Mocks)

	if next.Selected == name {
		next.Selected = ""
		if len(next.Folders) > 0 {
			next.Selected = next.Folders[0]
		}
	}
	return next, removed, nil
}

// WithFolderMoved swaps the folders at positions from and to.
func (s State) WithFolderMoved(from, to int) (State, error) {
	n := len(s.Folders)
	if from < 0 || from >= n || to < 0 || to >= n {
		return s, fmt.Errorf("move %d -> %d of %d: %w", from, to, n, ErrIndexOutOfRange)
	}
	next := s.Clone()
	next.Folders[from], next.Folders[to] = next.Folders[to], next.Folders[from]
	return next, nil
}

// WithMockCreated appends a new mock with the given id. Its folder must
// already be in the folder list.
func (s State) WithMockCreated(id string, data model.MockData) (State, model.Mock, error) {
	if !s.HasFolder(data.Folder) {
		return s, model.Mock{}, fmt.Errorf("create mock in %q: %w", data.Folder, ErrFolderNotFound)
	}
	m := model.NewMock(id, data)
	next := s.Clone()
	next.Mocks = append(next.Mocks, m)
	return next, m.Clone(), nil
}

// WithMockUpdated replaces the fields of mock id, keeping id and, unless
// data.Active is set, the active flag.
func (s State) WithMockUpdated(id string, data model.MockData) (State, model.Mock, error) {
	i := s.mockIndex(id)
	if i < 0 {
		return s, model.Mock{}, fmt.Errorf("update %q: %w", id, ErrMockNotFound)
	}
	if !s.HasFolder(data.Folder) {
		return s, model.Mock{}, fmt.Errorf("move %q to %q: %w", id, data.Folder, ErrFolderNotFound)
	}
	next := s.Clone()
	next.Mocks[i].Apply(data)
	return next, next.Mocks[i].Clone(), nil
}

func (s State) WithMockDeleted(id string) (State, error) {
	i := s.mockIndex(id)
	if i < 0 {
		return s, fmt.Errorf("delete %q: %w", id, ErrMockNotFound)
	}
	next := s.Clone()
	next.Mocks = slices.Delete(next.Mocks, i, i+1)
	return next, nil
}

func (s State) WithMockToggled(id string) (State, model.Mock, error) {
	i := s.mockIndex(id)
	if i < 0 {
		return s, model.Mock{}, fmt.Errorf("toggle %q: %w", id, ErrMockNotFound)
	}
	next := s.Clone()
	next.Mocks[i].Active = !next.Mocks[i].Active
	return next, next.Mocks[i].Clone(), nil
}

// WithMockCopied appends a duplicate of mock id under newID.
func (s State) WithMockCopied(id, newID string) (State, model.Mock, error) {
	i := s.mockIndex(id)
	if i < 0 {
		return s, model.Mock{}, fmt.Errorf("copy %q: %w", id, ErrMockNotFound)
	}
	dup := s.Mocks[i].Clone()
	dup.ID = newID
	next := s.Clone()
	next.Mocks = append(next.Mocks, dup)
	return next, dup.Clone(), nil
}
