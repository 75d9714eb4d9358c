package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	model "go_mock_panel/internal/domain/model/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fetcherFunc func(ctx context.Context, backendURL string) ([]model.Mock, error)

func (f fetcherFunc) FetchMocks(ctx context.Context, backendURL string) ([]model.Mock, error) {
	return f(ctx, backendURL)
}

type noticeLog struct {
	mu      sync.Mutex
	notices []Notice
}

func (l *noticeLog) Notify(n Notice) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.notices = append(l.notices, n)
}

func (l *noticeLog) levels() []NoticeLevel {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]NoticeLevel, 0, len(l.notices))
	for _, n := range l.notices {
		out = append(out, n.Level)
	}
	return out
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newTestStore(t *testing.T, mocks ...model.Mock) (*Store, *noticeLog) {
	t.Helper()
	notices := &noticeLog{}
	s := NewStore(WithIDGenerator(sequentialIDs()), WithNotifier(notices))
	if len(mocks) > 0 {
		err := s.Load(context.Background(), fetcherFunc(func(context.Context, string) ([]model.Mock, error) {
			return mocks, nil
		}))
		require.NoError(t, err)
	}
	return s, notices
}

func TestCreateDuplicateFolderIsRejected(t *testing.T) {
	s, notices := newTestStore(t)

	require.NoError(t, s.CreateFolder("Users"))
	err := s.CreateFolder("Users")
	assert.ErrorIs(t, err, ErrFolderExists)

	assert.Equal(t, []string{"Users"}, s.Snapshot().Folders)
	assert.Equal(t, "Users", s.SelectedFolder())
	assert.Equal(t, []NoticeLevel{NoticeSuccess, NoticeError}, notices.levels())
}

func TestToggleTwiceRestoresActive(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.CreateFolder("Users"))

	m, err := s.CreateMock(model.MockData{Method: model.MethodGet, Path: "/api/ping", Status: 200, Folder: "Users"})
	require.NoError(t, err)
	require.True(t, m.Active)

	first, err := s.ToggleMockActive(m.ID)
	require.NoError(t, err)
	assert.False(t, first.Active)

	second, err := s.ToggleMockActive(m.ID)
	require.NoError(t, err)
	assert.True(t, second.Active)

	_, err = s.ToggleMockActive("missing")
	assert.ErrorIs(t, err, ErrMockNotFound)
}

func TestDeleteSelectedFolderFallsBack(t *testing.T) {
	s, _ := newTestStore(t,
		mockIn("u1", "Users", model.MethodGet, "/a"),
		mockIn("u2", "Users", model.MethodGet, "/b"),
		mockIn("o1", "Orders", model.MethodGet, "/c"),
		mockIn("u3", "Users", model.MethodGet, "/d"),
	)
	require.Equal(t, "Users", s.SelectedFolder())
	before := len(s.Snapshot().Mocks)

	require.NoError(t, s.DeleteFolder("Users", Confirmed(true)))

	st := s.Snapshot()
	assert.Equal(t, "Orders", st.Selected)
	assert.Equal(t, before-3, len(st.Mocks))
	assert.Equal(t, []string{"Orders"}, st.Folders)
}

func TestDestructiveActionsNeedConfirmation(t *testing.T) {
	s, _ := newTestStore(t, mockIn("u1", "Users", model.MethodGet, "/a"))
	before := s.Snapshot()

	var prompts []string
	decline := ConfirmFunc(func(p string) bool {
		prompts = append(prompts, p)
		return false
	})

	assert.ErrorIs(t, s.DeleteFolder("Users", decline), ErrNotConfirmed)
	assert.ErrorIs(t, s.DeleteMock("u1", decline), ErrNotConfirmed)
	assert.ErrorIs(t, s.DeleteMock("u1", nil), ErrNotConfirmed)
	assert.Len(t, prompts, 2)
	assert.Equal(t, before, s.Snapshot())

	require.NoError(t, s.DeleteMock("u1", Confirmed(true)))
	assert.Empty(t, s.Snapshot().Mocks)
}

func TestCopyAndUpdateMock(t *testing.T) {
	s, _ := newTestStore(t, mockIn("u1", "Users", model.MethodGet, "/a"))

	dup, err := s.CopyMock("u1")
	require.NoError(t, err)
	assert.Equal(t, "id-1", dup.ID)
	assert.Len(t, s.Snapshot().Mocks, 2)

	off := false
	updated, err := s.UpdateMock(dup.ID, model.MockData{Method: model.MethodPost, Path: "/b", Folder: "Users", Active: &off})
	require.NoError(t, err)
	assert.Equal(t, "id-1", updated.ID)
	assert.False(t, updated.Active)

	orig, ok := s.FindMock("u1")
	require.True(t, ok)
	assert.Equal(t, "/a", orig.Path)
}

func TestRenameAndMoveThroughStore(t *testing.T) {
	s, notices := newTestStore(t,
		mockIn("u1", "Users", model.MethodGet, "/a"),
		mockIn("o1", "Orders", model.MethodGet, "/b"),
	)

	assert.ErrorIs(t, s.RenameFolder("Users", "Orders"), ErrFolderExists)
	require.NoError(t, s.RenameFolder("Users", "People"))
	require.NoError(t, s.MoveFolder(0, 1))
	assert.ErrorIs(t, s.MoveFolder(0, 5), ErrIndexOutOfRange)

	st := s.Snapshot()
	assert.Equal(t, []string{"Orders", "People"}, st.Folders)
	assert.Equal(t, "People", st.Selected)
	m, _ := s.FindMock("u1")
	assert.Equal(t, "People", m.Folder)
	assert.Equal(t, []NoticeLevel{NoticeError, NoticeSuccess}, notices.levels())
}

func TestSearchAndSelectionDriveFilteredView(t *testing.T) {
	s, _ := newTestStore(t,
		mockIn("u1", "Users", model.MethodGet, "/api/users"),
		mockIn("o1", "Orders", model.MethodPost, "/api/orders"),
	)

	assert.Equal(t, []string{"u1"}, ids(s.FilteredView()))

	require.NoError(t, s.SetSelectedFolder(""))
	s.SetSearch("ORDERS")
	assert.Equal(t, []string{"o1"}, ids(s.FilteredView()))

	assert.ErrorIs(t, s.SetSelectedFolder("Nope"), ErrFolderNotFound)
}

func TestLoadFailureKeepsState(t *testing.T) {
	s, notices := newTestStore(t, mockIn("u1", "Users", model.MethodGet, "/a"))
	before := s.Snapshot()
	boom := errors.New("connection refused")

	err := s.Load(context.Background(), fetcherFunc(func(context.Context, string) ([]model.Mock, error) {
		return nil, boom
	}))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, before, s.Snapshot())
	assert.Empty(t, notices.levels())
}

func TestLoadUsesBackendURL(t *testing.T) {
	s, _ := newTestStore(t)
	s.SetBackendURL("http://backend:9000")

	var got string
	err := s.Load(context.Background(), fetcherFunc(func(_ context.Context, u string) ([]model.Mock, error) {
		got = u
		return nil, nil
	}))
	require.NoError(t, err)
	assert.Equal(t, "http://backend:9000", got)
}

func TestStaleLoadIsDiscarded(t *testing.T) {
	s, _ := newTestStore(t)
	started := make(chan struct{})
	release := make(chan struct{})

	f := fetcherFunc(func(_ context.Context, u string) ([]model.Mock, error) {
		if u == "http://slow" {
			close(started)
			<-release
			return []model.Mock{mockIn("s1", "Slow", model.MethodGet, "/slow")}, nil
		}
		return []model.Mock{mockIn("f1", "Fast", model.MethodGet, "/fast")}, nil
	})

	s.SetBackendURL("http://slow")
	slowErr := make(chan error, 1)
	go func() { slowErr <- s.Load(context.Background(), f) }()
	<-started

	s.SetBackendURL("http://fast")
	require.NoError(t, s.Load(context.Background(), f))
	close(release)

	assert.ErrorIs(t, <-slowErr, ErrStaleLoad)
	st := s.Snapshot()
	assert.Equal(t, []string{"Fast"}, st.Folders)
	assert.Equal(t, "Fast", st.Selected)
}

func TestDeleteUnknownIsNotFoundBeforeConfirm(t *testing.T) {
	s, _ := newTestStore(t, mockIn("u1", "Users", model.MethodGet, "/a"))
	asked := false
	c := ConfirmFunc(func(string) bool {
		asked = true
		return true
	})

	assert.ErrorIs(t, s.DeleteFolder("Nope", nil), ErrFolderNotFound)
	assert.ErrorIs(t, s.DeleteFolder("Nope", c), ErrFolderNotFound)
	assert.ErrorIs(t, s.DeleteMock("missing", nil), ErrMockNotFound)
	assert.ErrorIs(t, s.DeleteMock("missing", c), ErrMockNotFound)
	assert.False(t, asked)

	assert.ErrorIs(t, s.DeleteFolder("Users", nil), ErrNotConfirmed)
}

func TestCreateMockInUnknownFolder(t *testing.T) {
	s, notices := newTestStore(t, mockIn("u1", "Users", model.MethodGet, "/a"))
	before := s.Snapshot()

	_, err := s.CreateMock(model.MockData{Method: model.MethodGet, Path: "/g", Folder: "Ghost"})
	assert.ErrorIs(t, err, ErrFolderNotFound)
	assert.Equal(t, before, s.Snapshot())
	assert.Empty(t, notices.levels())
}
