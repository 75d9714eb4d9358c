package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go_mock_panel/internal/domain/editor"
	"go_mock_panel/internal/domain/iface"
	model "go_mock_panel/internal/domain/model/mock"
	"go_mock_panel/internal/domain/model/prefs"
	"go_mock_panel/internal/domain/store"
	"go_mock_panel/internal/infra/backend"
	configs "go_mock_panel/internal/infra/config"
	"go_mock_panel/internal/infra/repo"
	"go_mock_panel/utils"
)

// panelSession 一个浏览器会话的全部状态
type panelSession struct {
	id      string
	store   *store.Store
	editor  *editor.Session
	notices *noticeBuffer

	initOnce sync.Once
	lastUsed time.Time // guarded by PanelService.mu

	mu    sync.Mutex
	saved prefs.PanelPrefs
}

type PanelService struct {
	mu       sync.Mutex
	sessions map[string]*panelSession

	config    *configs.PanelConfig
	fetcher   store.Fetcher
	prefsRepo repo.PrefsRepositoryIface
	newID     func() string
	now       func() time.Time
}

var _ iface.PanelService = (*PanelService)(nil)

func NewPanelService(c *configs.PanelConfig, fetcher backend.MockClientIface, prefsRepo repo.PrefsRepositoryIface) *PanelService {
	return &PanelService{
		sessions:  make(map[string]*panelSession),
		config:    c,
		fetcher:   fetcher,
		prefsRepo: prefsRepo,
		now:       time.Now,
	}
}

// session returns the session with the given id, creating it on first
// use. A new session restores its preferences and loads from its backend.
func (s *PanelService) session(ctx context.Context, id string) *panelSession {
	if id == "" {
		id = s.config.Panel.DefaultSession
	}

	s.mu.Lock()
	now := s.now()
	ps, ok := s.sessions[id]
	if !ok {
		s.evictLocked(now)
		ps = &panelSession{
			id:      id,
			editor:  editor.NewSession(),
			notices: newNoticeBuffer(s.config.Panel.NoticeLimit),
		}
		s.sessions[id] = ps
	}
	ps.lastUsed = now
	s.mu.Unlock()

	ps.initOnce.Do(func() { s.initSession(ctx, ps) })
	return ps
}

// evictLocked drops idle sessions and, when still full, the least
// recently used one. Saved preferences are kept.
func (s *PanelService) evictLocked(now time.Time) {
	log := utils.GetLogger()
	if ttl := s.config.Panel.SessionIdleTTL; ttl > 0 {
		for id, ps := range s.sessions {
			if now.Sub(ps.lastUsed) > ttl {
				delete(s.sessions, id)
				log.WithField("session", id).Debug("idle panel session dropped")
			}
		}
	}
	for len(s.sessions) > 0 && len(s.sessions) >= s.config.Panel.MaxSessions {
		var oldest *panelSession
		for _, ps := range s.sessions {
			if oldest == nil || ps.lastUsed.Before(oldest.lastUsed) {
				oldest = ps
			}
		}
		delete(s.sessions, oldest.id)
		log.WithField("session", oldest.id).Info("panel session limit reached, dropped least recently used")
	}
}

// ForgetSession drops the session and its saved preferences. The next
// request with the same id starts from the configured defaults.
func (s *PanelService) ForgetSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		sessionID = s.config.Panel.DefaultSession
	}
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	if err := s.prefsRepo.DeletePrefs(ctx, sessionID); err != nil {
		return fmt.Errorf("forget session %s: %w", sessionID, err)
	}
	utils.GetLogger().WithField("session", sessionID).Info("panel session forgotten")
	return nil
}

func (s *PanelService) initSession(ctx context.Context, ps *panelSession) {
	log := utils.GetLogger().WithField("session", ps.id)

	initial := store.State{BackendURL: s.config.Backend.URL}
	ps.saved = prefs.PanelPrefs{SessionID: ps.id}
	saved, err := s.prefsRepo.FindBySession(ctx, ps.id)
	if err != nil {
		log.Warnf("restore prefs: %v", err)
	} else if saved != nil {
		if saved.BackendURL != "" {
			initial.BackendURL = saved.BackendURL
		}
		// 文件夹列表要等加载后才有, 选择先原样写入, 加载时再校验
		initial.Selected = saved.SelectedFolder
		ps.saved = *saved
		log.Debugf("restored prefs version %d", saved.Version)
	}

	opts := []store.Option{
		store.WithInitialState(initial),
		store.WithNotifier(ps.notices),
	}
	if s.newID != nil {
		opts = append(opts, store.WithIDGenerator(s.newID))
	}
	ps.store = store.NewStore(opts...)

	if err := ps.store.Load(ctx, s.fetcher); err == nil {
		s.persist(ps)
	}
	log.Info("panel session started")
}

// persist saves the session's selection and backend when they changed
// since the last save.
func (s *PanelService) persist(ps *panelSession) {
	st := ps.store.Snapshot()

	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.saved.SelectedFolder == st.Selected && ps.saved.BackendURL == st.BackendURL {
		return
	}
	ps.saved.SelectedFolder = st.Selected
	ps.saved.BackendURL = st.BackendURL
	ps.saved.Touch(time.Now())
	s.prefsRepo.SavePrefsAsync(&ps.saved)
}

func (s *PanelService) State(ctx context.Context, sessionID string) store.State {
	return s.session(ctx, sessionID).store.Snapshot()
}

func (s *PanelService) Load(ctx context.Context, sessionID string) error {
	ps := s.session(ctx, sessionID)
	if err := ps.store.Load(ctx, s.fetcher); err != nil {
		return err
	}
	s.persist(ps)
	return nil
}

func (s *PanelService) SetBackendURL(ctx context.Context, sessionID, url string) error {
	ps := s.session(ctx, sessionID)
	ps.store.SetBackendURL(url)
	s.persist(ps)
	if err := ps.store.Load(ctx, s.fetcher); err != nil {
		return err
	}
	s.persist(ps)
	return nil
}

func (s *PanelService) SetSearch(ctx context.Context, sessionID, text string) {
	s.session(ctx, sessionID).store.SetSearch(text)
}

func (s *PanelService) SetSelectedFolder(ctx context.Context, sessionID, name string) error {
	ps := s.session(ctx, sessionID)
	if err := ps.store.SetSelectedFolder(name); err != nil {
		return err
	}
	s.persist(ps)
	return nil
}

func (s *PanelService) FilteredMocks(ctx context.Context, sessionID string) []model.Mock {
	return s.session(ctx, sessionID).store.FilteredView()
}

func (s *PanelService) DrainNotices(ctx context.Context, sessionID string) []store.Notice {
	return s.session(ctx, sessionID).notices.Drain()
}

func (s *PanelService) CreateFolder(ctx context.Context, sessionID, name string) error {
	ps := s.session(ctx, sessionID)
	if err := ps.store.CreateFolder(name); err != nil {
		return err
	}
	s.persist(ps)
	return nil
}

func (s *PanelService) RenameFolder(ctx context.Context, sessionID, oldName, newName string) error {
	ps := s.session(ctx, sessionID)
	if err := ps.store.RenameFolder(oldName, newName); err != nil {
		return err
	}
	s.persist(ps)
	return nil
}

func (s *PanelService) DeleteFolder(ctx context.Context, sessionID, name string, c store.Confirmer) error {
	ps := s.session(ctx, sessionID)
	if err := ps.store.DeleteFolder(name, c); err != nil {
		return err
	}
	s.persist(ps)
	return nil
}

func (s *PanelService) MoveFolder(ctx context.Context, sessionID string, from, to int) error {
	return s.session(ctx, sessionID).store.MoveFolder(from, to)
}

func (s *PanelService) ToggleMockActive(ctx context.Context, sessionID, id string) (model.Mock, error) {
	return s.session(ctx, sessionID).store.ToggleMockActive(id)
}

func (s *PanelService) CopyMock(ctx context.Context, sessionID, id string) (model.Mock, error) {
	return s.session(ctx, sessionID).store.CopyMock(id)
}

func (s *PanelService) DeleteMock(ctx context.Context, sessionID, id string, c store.Confirmer) error {
	return s.session(ctx, sessionID).store.DeleteMock(id, c)
}

func (s *PanelService) EditorView(ctx context.Context, sessionID string) editor.View {
	return s.session(ctx, sessionID).editor.View()
}

// OpenCreate seeds a new mock in the selected folder.
func (s *PanelService) OpenCreate(ctx context.Context, sessionID string) editor.View {
	ps := s.session(ctx, sessionID)
	return ps.editor.OpenCreate(ps.store.SelectedFolder())
}

func (s *PanelService) OpenEdit(ctx context.Context, sessionID, id string) (editor.View, error) {
	ps := s.session(ctx, sessionID)
	m, ok := ps.store.FindMock(id)
	if !ok {
		return editor.View{}, fmt.Errorf("open editor for %s: %w", id, store.ErrMockNotFound)
	}
	return ps.editor.OpenEdit(m), nil
}

func (s *PanelService) StageEditor(ctx context.Context, sessionID string, f editor.Form) (editor.View, error) {
	ps := s.session(ctx, sessionID)
	if err := ps.editor.Stage(f); err != nil {
		return editor.View{}, err
	}
	return ps.editor.View(), nil
}

// SubmitEditor commits the staged form into the session's store.
func (s *PanelService) SubmitEditor(ctx context.Context, sessionID string) (model.Mock, error) {
	ps := s.session(ctx, sessionID)
	m, err := ps.editor.Submit(ps.store)
	if err != nil {
		var fe editor.FieldErrors
		if !errors.As(err, &fe) {
			utils.GetLogger().WithField("session", ps.id).Warnf("editor submit: %v", err)
		}
		return model.Mock{}, err
	}
	return m, nil
}

func (s *PanelService) CancelEditor(ctx context.Context, sessionID string) editor.View {
	ps := s.session(ctx, sessionID)
	ps.editor.Cancel()
	return ps.editor.View()
}
