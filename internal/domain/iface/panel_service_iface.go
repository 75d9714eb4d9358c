package iface

import (
	"context"

	"go_mock_panel/internal/domain/editor"
	model "go_mock_panel/internal/domain/model/mock"
	"go_mock_panel/internal/domain/store"
)

// PanelService 面板服务接口, every call is scoped to one panel session
type PanelService interface {
	State(ctx context.Context, sessionID string) store.State
	// ForgetSession drops the session and its remembered preferences.
	ForgetSession(ctx context.Context, sessionID string) error
	// Load refetches mocks from the session's backend.
	Load(ctx context.Context, sessionID string) error
	// SetBackendURL switches the backend and reloads from it.
	SetBackendURL(ctx context.Context, sessionID, url string) error
	SetSearch(ctx context.Context, sessionID, text string)
	SetSelectedFolder(ctx context.Context, sessionID, name string) error
	FilteredMocks(ctx context.Context, sessionID string) []model.Mock
	// DrainNotices returns and forgets the notices published so far.
	DrainNotices(ctx context.Context, sessionID string) []store.Notice

	CreateFolder(ctx context.Context, sessionID, name string) error
	RenameFolder(ctx context.Context, sessionID, oldName, newName string) error
	DeleteFolder(ctx context.Context, sessionID, name string, c store.Confirmer) error
	MoveFolder(ctx context.Context, sessionID string, from, to int) error

	ToggleMockActive(ctx context.Context, sessionID, id string) (model.Mock, error)
	CopyMock(ctx context.Context, sessionID, id string) (model.Mock, error)
	DeleteMock(ctx context.Context, sessionID, id string, c store.Confirmer) error

	EditorView(ctx context.Context, sessionID string) editor.View
	OpenCreate(ctx context.Context, sessionID string) editor.View
	OpenEdit(ctx context.Context, sessionID, id string) (editor.View, error)
	StageEditor(ctx context.Context, sessionID string, f editor.Form) (editor.View, error)
	SubmitEditor(ctx context.Context, sessionID string) (model.Mock, error)
	CancelEditor(ctx context.Context, sessionID string) editor.View
}
