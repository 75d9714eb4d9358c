package store

import (
	"testing"

	model "go_mock_panel/internal/domain/model/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mockIn(id, folder string, method model.Method, path string) model.Mock {
	return model.NewMock(id, model.MockData{Method: method, Path: path, Folder: folder})
}

func seededState() State {
	st := State{}.WithLoaded([]model.Mock{
		mockIn("u1", "Users", model.MethodGet, "/api/users"),
		mockIn("o1", "Orders", model.MethodPost, "/api/orders"),
		mockIn("u2", "Users", model.MethodDelete, "/api/users/1"),
		mockIn("b1", "Billing", model.MethodGet, "/api/invoices"),
		mockIn("u3", "Users", model.MethodPut, "/api/users/2"),
	})
	return st
}

func countFolder(st State, folder string) int {
	n := 0
	for _, m := range st.Mocks {
		if m.Folder == folder {
			n++
		}
	}
	return n
}

func TestWithLoadedDerivesFolders(t *testing.T) {
	st := seededState()
	assert.Equal(t, []string{"Users", "Orders", "Billing"}, st.Folders)
	assert.Equal(t, "Users", st.Selected)
	assert.Len(t, st.Mocks, 5)
}

func TestWithLoadedSkipsEmptyFolderAndKeepsSelection(t *testing.T) {
	st, err := seededState().WithSelectedFolder("Orders")
	require.NoError(t, err)

	next := st.WithLoaded([]model.Mock{
		mockIn("x", "", model.MethodGet, "/loose"),
		mockIn("o9", "Orders", model.MethodGet, "/api/orders"),
	})
	assert.Equal(t, []string{"Orders"}, next.Folders)
	assert.Equal(t, "Orders", next.Selected)
}

func TestWithLoadedDropsVanishedSelection(t *testing.T) {
	st, err := seededState().WithFolderCreated("Local")
	require.NoError(t, err)
	require.Equal(t, "Local", st.Selected)

	next := st.WithLoaded([]model.Mock{mockIn("o9", "Orders", model.MethodGet, "/o")})
	assert.Equal(t, "Orders", next.Selected)

	empty := st.WithLoaded(nil)
	assert.Empty(t, empty.Folders)
	assert.Equal(t, "", empty.Selected)
}

func TestTransitionsDoNotMutateReceiver(t *testing.T) {
	st := seededState()
	before := st.Clone()

	_, _ = st.WithFolderRenamed("Users", "People")
	_, _, _ = st.WithFolderDeleted("Orders")
	_, _ = st.WithFolderMoved(0, 2)
	_, _, _ = st.WithMockToggled("u1")
	_, _, _ = st.WithMockCopied("u1", "copy")

	assert.Equal(t, before, st)
}

func TestFolderCreate(t *testing.T) {
	st := seededState()

	next, err := st.WithFolderCreated("Payments")
	require.NoError(t, err)
	assert.Equal(t, []string{"Users", "Orders", "Billing", "Payments"}, next.Folders)
	assert.Equal(t, "Payments", next.Selected)

	_, err = st.WithFolderCreated("   ")
	assert.ErrorIs(t, err, ErrBlankFolderName)

	_, err = st.WithFolderCreated("Orders")
	assert.ErrorIs(t, err, ErrFolderExists)
}

func TestFolderRenameCascades(t *testing.T) {
	st := seededState()
	usersBefore := countFolder(st, "Users")

	next, err := st.WithFolderRenamed("Users", "People")
	require.NoError(t, err)

	assert.Equal(t, []string{"People", "Orders", "Billing"}, next.Folders)
	assert.Equal(t, 0, countFolder(next, "Users"))
	assert.Equal(t, usersBefore, countFolder(next, "People"))
	assert.Equal(t, "People", next.Selected)
	assert.Len(t, next.Mocks, len(st.Mocks))
}

func TestFolderRenameRejections(t *testing.T) {
	st := seededState()

	tests := []struct {
		name    string
		oldName string
		newName string
		wantErr error
	}{
		{name: "blank", oldName: "Users", newName: " ", wantErr: ErrBlankFolderName},
		{name: "unchanged", oldName: "Users", newName: "Users", wantErr: ErrSameFolderName},
		{name: "collision", oldName: "Users", newName: "Orders", wantErr: ErrFolderExists},
		{name: "unknown", oldName: "Nope", newName: "Other", wantErr: ErrFolderNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := st.WithFolderRenamed(tt.oldName, tt.newName)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, st, next)
		})
	}
}

func TestFolderRenameKeepsOtherSelection(t *testing.T) {
	st, err := seededState().WithSelectedFolder("Billing")
	require.NoError(t, err)

	next, err := st.WithFolderRenamed("Users", "People")
	require.NoError(t, err)
	assert.Equal(t, "Billing", next.Selected)
}

func TestFolderDeleteCascades(t *testing.T) {
	st := seededState()

	next, removed, err := st.WithFolderDeleted("Users")
	require.NoError(t, err)
	assert.Equal(t, 3, removed)
	assert.Equal(t, 0, countFolder(next, "Users"))
	assert.NotContains(t, next.Folders, "Users")
	assert.Equal(t, "Orders", next.Selected)
	assert.Len(t, next.Mocks, 2)

	_, _, err = st.WithFolderDeleted("Nope")
	assert.ErrorIs(t, err, ErrFolderNotFound)
}

func TestDeleteLastSelectedFolderClearsSelection(t *testing.T) {
	st := State{}.WithLoaded([]model.Mock{mockIn("a", "Only", model.MethodGet, "/a")})

	next, removed, err := st.WithFolderDeleted("Only")
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Empty(t, next.Folders)
	assert.Equal(t, "", next.Selected)
}

func TestFolderMoveSwaps(t *testing.T) {
	st := seededState()

	next, err := st.WithFolderMoved(0, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Billing", "Orders", "Users"}, next.Folders)

	same, err := st.WithFolderMoved(1, 1)
	require.NoError(t, err)
	assert.Equal(t, st.Folders, same.Folders)

	_, err = st.WithFolderMoved(0, 3)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = st.WithFolderMoved(-1, 0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestMockCopyEqualsOriginalButID(t *testing.T) {
	st := seededState()
	orig, ok := st.FindMock("o1")
	require.True(t, ok)

	next, dup, err := st.WithMockCopied("o1", "o1-copy")
	require.NoError(t, err)
	assert.Len(t, next.Mocks, len(st.Mocks)+1)
	assert.Equal(t, "o1-copy", dup.ID)

	dup.ID = orig.ID
	assert.Equal(t, orig, dup)
	assert.Equal(t, "o1-copy", next.Mocks[len(next.Mocks)-1].ID)

	_, _, err = st.WithMockCopied("missing", "x")
	assert.ErrorIs(t, err, ErrMockNotFound)
}

func TestMockUpdatePreservesIDAndActive(t *testing.T) {
	st, _, err := seededState().WithMockToggled("u1")
	require.NoError(t, err)

	next, m, err := st.WithMockUpdated("u1", model.MockData{
		Method: model.MethodPatch, Path: "/api/users/me", Status: 202, Folder: "Users",
	})
	require.NoError(t, err)
	assert.Equal(t, "u1", m.ID)
	assert.False(t, m.Active)
	assert.Equal(t, model.MethodPatch, m.Method)
	assert.Equal(t, 202, m.Status)

	got, _ := next.FindMock("u1")
	assert.Equal(t, m, got)

	_, _, err = st.WithMockUpdated("missing", model.MockData{})
	assert.ErrorIs(t, err, ErrMockNotFound)
}

func TestMockDelete(t *testing.T) {
	st := seededState()
	next, err := st.WithMockDeleted("o1")
	require.NoError(t, err)
	assert.Len(t, next.Mocks, 4)
	_, ok := next.FindMock("o1")
	assert.False(t, ok)

	_, err = st.WithMockDeleted("o1-missing")
	assert.ErrorIs(t, err, ErrMockNotFound)
}

func TestSelectUnknownFolder(t *testing.T) {
	_, err := seededState().WithSelectedFolder("Nope")
	assert.ErrorIs(t, err, ErrFolderNotFound)

	cleared, err := seededState().WithSelectedFolder("")
	require.NoError(t, err)
	assert.Equal(t, "", cleared.Selected)
}

func TestMockMustLiveInKnownFolder(t *testing.T) {
	st := seededState()

	_, _, err := st.WithMockCreated("g1", model.MockData{Method: model.MethodGet, Path: "/ghost", Folder: "Ghost"})
	assert.ErrorIs(t, err, ErrFolderNotFound)

	_, _, err = st.WithMockUpdated("u1", model.MockData{Method: model.MethodGet, Path: "/api/users", Folder: "Ghost"})
	assert.ErrorIs(t, err, ErrFolderNotFound)
	got, _ := st.FindMock("u1")
	assert.Equal(t, "Users", got.Folder)

	next, m, err := st.WithMockUpdated("u1", model.MockData{Method: model.MethodGet, Path: "/api/users", Folder: "Orders"})
	require.NoError(t, err)
	assert.Equal(t, "Orders", m.Folder)
	for _, mock := range next.Mocks {
		assert.True(t, next.HasFolder(mock.Folder), mock.ID)
	}
}
