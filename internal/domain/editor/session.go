package editor

import (
	"errors"
	"fmt"
	"sync"

	model "go_mock_panel/internal/domain/model/mock"
	"go_mock_panel/internal/domain/store"
	"go_mock_panel/utils"
)

// Mode is the state of an editor session.
type Mode string

const (
	ModeClosed     Mode = "closed"
	ModeOpenCreate Mode = "open-create"
	ModeOpenEdit   Mode = "open-edit"
)

var ErrClosed = errors.New("editor is not open")

// Committer receives the result of a successful submit.
type Committer interface {
	CreateMock(data model.MockData) (model.Mock, error)
	UpdateMock(id string, data model.MockData) (model.Mock, error)
}

// View is what the UI renders for the modal.
type View struct {
	Mode   Mode   `json:"mode"`
	MockID string `json:"mockId,omitempty"`
	Form   *Form  `json:"form,omitempty"`
}

// Session is a modal form bound to at most one mock at a time. Opening a
// new form replaces whatever was staged.
type Session struct {
	mu     sync.Mutex
	mode   Mode
	mockID string
	form   Form
}

func NewSession() *Session {
	return &Session{mode: ModeClosed}
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := View{Mode: s.mode, MockID: s.mockID}
	if s.mode != ModeClosed {
		f := s.form.clone()
		v.Form = &f
	}
	return v
}

// OpenCreate starts a new-mock form seeded with defaults in folder.
func (s *Session) OpenCreate(folder string) View {
	s.mu.Lock()
	s.mode = ModeOpenCreate
	s.mockID = ""
	s.form = NewCreateForm(folder)
	s.mu.Unlock()
	return s.View()
}

// OpenEdit starts a form seeded from m.
func (s *Session) OpenEdit(m model.Mock) View {
	s.mu.Lock()
	s.mode = ModeOpenEdit
	s.mockID = m.ID
	s.form = NewEditForm(m)
	s.mu.Unlock()
	return s.View()
}

// Stage replaces the staged fields of the open form. A known method is
// stored upper case.
func (s *Session) Stage(f Form) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode == ModeClosed {
		return ErrClosed
	}
	s.form = f.clone()
	if m, ok := model.ParseMethod(s.form.Method); ok {
		s.form.Method = string(m)
	}
	return nil
}

// Submit validates the staged form and commits it with exactly one of
// CreateMock or UpdateMock. On any error the session stays open.
func (s *Session) Submit(c Committer) (model.Mock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode == ModeClosed {
		return model.Mock{}, ErrClosed
	}
	if err := s.form.Validate(); err != nil {
		return model.Mock{}, err
	}

	data := s.form.MockData()
	var (
		m   model.Mock
		err error
	)
	switch s.mode {
	case ModeOpenCreate:
		m, err = c.CreateMock(data)
	case ModeOpenEdit:
		m, err = c.UpdateMock(s.mockID, data)
	}
	if errors.Is(err, store.ErrFolderNotFound) {
		return model.Mock{}, FieldErrors{"folder": fmt.Sprintf("folder %q does not exist", data.Folder)}
	}
	if err != nil {
		return model.Mock{}, fmt.Errorf("commit %s: %w", s.mode, err)
	}

	utils.GetLogger().Debugf("editor committed mock %s (%s)", m.ID, s.mode)
	s.reset()
	return m, nil
}

// Cancel discards the staged form.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

func (s *Session) reset() {
	s.mode = ModeClosed
	s.mockID = ""
	s.form = Form{}
}
