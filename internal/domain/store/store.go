package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	model "go_mock_panel/internal/domain/model/mock"
	"go_mock_panel/utils"

	"github.com/google/uuid"
)

// Fetcher loads the mock set from the backend.
type Fetcher interface {
	FetchMocks(ctx context.Context, backendURL string) ([]model.Mock, error)
}

// Store is the single source of truth of one panel session. Every mutation
// is one State transition applied under the lock, so cascades are atomic.
type Store struct {
	mu       sync.RWMutex
	state    State
	loadGen  uint64
	newID    func() string
	notifier Notifier
	now      func() time.Time
}

type Option func(*Store)

// WithIDGenerator overrides how fresh mock ids are made.
func WithIDGenerator(f func() string) Option {
	return func(s *Store) { s.newID = f }
}

func WithNotifier(n Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

// WithInitialState seeds the store, e.g. with restored preferences.
func WithInitialState(st State) Option {
	return func(s *Store) { s.state = st.Clone() }
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		state:    State{}.Clone(),
		newID:    uuid.NewString,
		notifier: discardNotifier{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) notify(level NoticeLevel, format string, args ...any) {
	s.notifier.Notify(Notice{Level: level, Message: fmt.Sprintf(format, args...), At: s.now()})
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

func (s *Store) FilteredView() []model.Mock {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.FilteredView()
}

func (s *Store) SelectedFolder() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Selected
}

func (s *Store) BackendURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.BackendURL
}

func (s *Store) FindMock(id string) (model.Mock, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.FindMock(id)
}

// Load fetches mocks from the current backend URL and replaces the
// collection. Only the most recently started load may apply its result;
// older ones return ErrStaleLoad. On failure the state is left as is.
func (s *Store) Load(ctx context.Context, f Fetcher) error {
	s.mu.Lock()
	s.loadGen++
	gen := s.loadGen
	backendURL := s.state.BackendURL
	s.mu.Unlock()

	log := utils.GetLogger().WithField("backend_url", backendURL)
	mocks, err := f.FetchMocks(ctx, backendURL)
	if err != nil {
		log.Warnf("failed to load mocks: %v", err)
		return fmt.Errorf("load mocks: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.loadGen {
		log.Debugf("discarding stale load %d, latest is %d", gen, s.loadGen)
		return ErrStaleLoad
	}
	s.state = s.state.WithLoaded(mocks)
	log.Infof("loaded %d mocks in %d folders", len(s.state.Mocks), len(s.state.Folders))
	return nil
}

func (s *Store) SetSearch(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.WithSearch(text)
}

// SetSelectedFolder selects a folder; "" clears the selection.
func (s *Store) SetSelectedFolder(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := s.state.WithSelectedFolder(name)
	if err != nil {
		return err
	}
	s.state = next
	return nil
}

func (s *Store) SetBackendURL(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.WithBackendURL(url)
}

func (s *Store) CreateFolder(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := s.state.WithFolderCreated(name)
	if err != nil {
		s.notify(NoticeError, "Cannot create folder: %v", err)
		return err
	}
	s.state = next
	s.notify(NoticeSuccess, "Folder %q created", name)
	return nil
}

func (s *Store) RenameFolder(oldName, newName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := s.state.WithFolderRenamed(oldName, newName)
	if err != nil {
		s.notify(NoticeError, "Cannot rename folder: %v", err)
		return err
	}
	s.state = next
	s.notify(NoticeSuccess, "Folder %q renamed to %q", oldName, newName)
	return nil
}

// DeleteFolder removes a folder and every mock in it once c confirms.
func (s *Store) DeleteFolder(name string, c Confirmer) error {
	s.mu.RLock()
	exists := s.state.HasFolder(name)
	s.mu.RUnlock()
	if !exists {
		return fmt.Errorf("delete %q: %w", name, ErrFolderNotFound)
	}

	prompt := fmt.Sprintf("Delete folder %q and all of its mocks?", name)
	if c == nil || !c.Confirm(prompt) {
		return ErrNotConfirmed
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next, removed, err := s.state.WithFolderDeleted(name)
	if err != nil {
		s.notify(NoticeError, "Cannot delete folder: %v", err)
		return err
	}
	s.state = next
	s.notify(NoticeSuccess, "Folder %q deleted with %d mocks", name, removed)
	return nil
}

func (s *Store) MoveFolder(from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := s.state.WithFolderMoved(from, to)
	if err != nil {
		return err
	}
	s.state = next
	return nil
}

func (s *Store) CreateMock(data model.MockData) (model.Mock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, m, err := s.state.WithMockCreated(s.newID(), data)
	if err != nil {
		return model.Mock{}, err
	}
	s.state = next
	s.notify(NoticeSuccess, "Mock %s %s created", m.Method, m.Path)
	return m, nil
}

func (s *Store) UpdateMock(id string, data model.MockData) (model.Mock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, m, err := s.state.WithMockUpdated(id, data)
	if err != nil {
		return model.Mock{}, err
	}
	s.state = next
	s.notify(NoticeSuccess, "Mock %s %s updated", m.Method, m.Path)
	return m, nil
}

// DeleteMock removes a mock once c confirms.
func (s *Store) DeleteMock(id string, c Confirmer) error {
	if _, ok := s.FindMock(id); !ok {
		return fmt.Errorf("delete %q: %w", id, ErrMockNotFound)
	}
	if c == nil || !c.Confirm(fmt.Sprintf("Delete mock %s?", id)) {
		return ErrNotConfirmed
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := s.state.WithMockDeleted(id)
	if err != nil {
		return err
	}
	s.state = next
	s.notify(NoticeSuccess, "Mock deleted")
	return nil
}

func (s *Store) ToggleMockActive(id string) (model.Mock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, m, err := s.state.WithMockToggled(id)
	if err != nil {
		return model.Mock{}, err
	}
	s.state = next
	return m, nil
}

func (s *Store) CopyMock(id string) (model.Mock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, m, err := s.state.WithMockCopied(id, s.newID())
	if err != nil {
		return model.Mock{}, err
	}
	s.state = next
	s.notify(NoticeSuccess, "Mock %s %s copied", m.Method, m.Path)
	return m, nil
}
