package mock_panel_app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"

	"go_mock_panel/internal/domain/editor"
	"go_mock_panel/internal/domain/iface"
	"go_mock_panel/internal/domain/store"
	"go_mock_panel/utils"

	rf "github.com/go-chassis/go-chassis/v2/server/restful"
)

const jsonContentType = "application/json"

// errFetch marks failures of the backend behind a load.
var errFetch = errors.New("backend fetch failed")

type PanelController struct {
	PanelService iface.PanelService
	Metrics      Recorder
}

func NewPanelController(panelService iface.PanelService, recorder Recorder) *PanelController {
	return &PanelController{
		PanelService: panelService,
		Metrics:      recorder,
	}
}

// handlerFunc does the work of one route and returns the response body.
type handlerFunc func(ctx context.Context, sessionID string) (any, error)

// serve wraps a route with session lookup, panic recovery, error mapping
// and request metrics.
func (c *PanelController) serve(b *rf.Context, route string, fn handlerFunc) {
	req := b.ReadRequest()
	logger := utils.GetLogger().WithField("route", route)
	status := http.StatusOK

	defer func() {
		if err := recover(); err != nil {
			logger.WithFields(map[string]interface{}{
				"panic": err,
				"stack": string(debug.Stack()),
			}).Error("handle request panic")
			status = http.StatusInternalServerError
			b.WriteHeaderAndJSON(status, errorResponse{Error: "Internal server error"}, jsonContentType)
		}
		c.Metrics.Request(req.Method, route, status)
	}()

	sessionID := b.ReadHeader(SessionHeader)
	if err := validateSessionID(sessionID); err != nil {
		status = http.StatusBadRequest
		b.WriteHeaderAndJSON(status, errorResponse{Error: err.Error()}, jsonContentType)
		return
	}
	logger = logger.WithField("session", sessionID)

	ctx := b.Ctx
	if ctx == nil {
		ctx = req.Context()
	}
	body, err := fn(ctx, sessionID)
	if err != nil {
		var resp errorResponse
		status, resp = errorStatus(err)
		if status >= http.StatusInternalServerError {
			logger.Errorf("%s %s: %v", req.Method, req.URL.Path, err)
		} else {
			logger.Infof("%s %s rejected: %v", req.Method, req.URL.Path, err)
		}
		b.WriteHeaderAndJSON(status, resp, jsonContentType)
		return
	}
	b.WriteHeaderAndJSON(status, body, jsonContentType)
}

// errorStatus maps domain errors onto HTTP statuses.
func errorStatus(err error) (int, errorResponse) {
	resp := errorResponse{Error: err.Error()}

	var fe editor.FieldErrors
	var bad badRequestError
	switch {
	case errors.As(err, &fe):
		resp.Fields = fe
		return http.StatusUnprocessableEntity, resp
	case errors.As(err, &bad):
		return http.StatusBadRequest, resp
	case errors.Is(err, store.ErrStaleLoad):
		return http.StatusConflict, resp
	case errors.Is(err, errFetch):
		return http.StatusBadGateway, resp
	case errors.Is(err, store.ErrNotConfirmed):
		return http.StatusPreconditionRequired, resp
	case errors.Is(err, store.ErrFolderNotFound), errors.Is(err, store.ErrMockNotFound):
		return http.StatusNotFound, resp
	case errors.Is(err, store.ErrFolderExists), errors.Is(err, editor.ErrClosed):
		return http.StatusConflict, resp
	case errors.Is(err, store.ErrBlankFolderName), errors.Is(err, store.ErrSameFolderName),
		errors.Is(err, store.ErrIndexOutOfRange):
		return http.StatusBadRequest, resp
	default:
		return http.StatusInternalServerError, resp
	}
}

type badRequestError struct{ err error }

func (e badRequestError) Error() string { return e.err.Error() }
func (e badRequestError) Unwrap() error { return e.err }

// readBody decodes and validates the JSON body into req.
func readBody(b *rf.Context, req any) error {
	if err := b.ReadEntity(req); err != nil {
		return badRequestError{err: err}
	}
	if err := Validate(req); err != nil {
		return badRequestError{err: err}
	}
	return nil
}

// loadError tags non-stale load failures as backend failures.
func loadError(err error) error {
	if err == nil || errors.Is(err, store.ErrStaleLoad) {
		return err
	}
	return fmt.Errorf("%w: %w", errFetch, err)
}

func confirmed(b *rf.Context) store.Confirmed {
	ok, _ := strconv.ParseBool(b.ReadQueryParameter("confirm"))
	return store.Confirmed(ok)
}

type mocksResponse struct {
	Mocks any `json:"mocks"`
}

type noticesResponse struct {
	Notices []store.Notice `json:"notices"`
}

type messageResponse struct {
	Message string `json:"message"`
}

var success = messageResponse{Message: "success"}

func (c *PanelController) GetState(b *rf.Context) {
	c.serve(b, "get_state", func(ctx context.Context, sid string) (any, error) {
		return c.PanelService.State(ctx, sid), nil
	})
}

// ForgetSession drops the caller's session and its remembered preferences.
func (c *PanelController) ForgetSession(b *rf.Context) {
	c.serve(b, "forget_session", func(ctx context.Context, sid string) (any, error) {
		if err := c.PanelService.ForgetSession(ctx, sid); err != nil {
			return nil, err
		}
		return success, nil
	})
}

func (c *PanelController) Load(b *rf.Context) {
	c.serve(b, "load", func(ctx context.Context, sid string) (any, error) {
		if err := c.PanelService.Load(ctx, sid); err != nil {
			return nil, loadError(err)
		}
		return c.PanelService.State(ctx, sid), nil
	})
}

func (c *PanelController) SetBackend(b *rf.Context) {
	c.serve(b, "set_backend", func(ctx context.Context, sid string) (any, error) {
		var req SetBackendRequest
		if err := readBody(b, &req); err != nil {
			return nil, err
		}
		if err := c.PanelService.SetBackendURL(ctx, sid, req.URL); err != nil {
			return nil, loadError(err)
		}
		return c.PanelService.State(ctx, sid), nil
	})
}

func (c *PanelController) SetSearch(b *rf.Context) {
	c.serve(b, "set_search", func(ctx context.Context, sid string) (any, error) {
		var req SetSearchRequest
		if err := readBody(b, &req); err != nil {
			return nil, err
		}
		c.PanelService.SetSearch(ctx, sid, req.Search)
		return mocksResponse{Mocks: c.PanelService.FilteredMocks(ctx, sid)}, nil
	})
}

func (c *PanelController) SetSelection(b *rf.Context) {
	c.serve(b, "set_selection", func(ctx context.Context, sid string) (any, error) {
		var req SetSelectionRequest
		if err := readBody(b, &req); err != nil {
			return nil, err
		}
		if err := c.PanelService.SetSelectedFolder(ctx, sid, req.Folder); err != nil {
			return nil, err
		}
		return mocksResponse{Mocks: c.PanelService.FilteredMocks(ctx, sid)}, nil
	})
}

func (c *PanelController) ListMocks(b *rf.Context) {
	c.serve(b, "list_mocks", func(ctx context.Context, sid string) (any, error) {
		return mocksResponse{Mocks: c.PanelService.FilteredMocks(ctx, sid)}, nil
	})
}

func (c *PanelController) DrainNotices(b *rf.Context) {
	c.serve(b, "drain_notices", func(ctx context.Context, sid string) (any, error) {
		return noticesResponse{Notices: c.PanelService.DrainNotices(ctx, sid)}, nil
	})
}

func (c *PanelController) CreateFolder(b *rf.Context) {
	c.serve(b, "create_folder", func(ctx context.Context, sid string) (any, error) {
		var req FolderNameRequest
		if err := readBody(b, &req); err != nil {
			return nil, err
		}
		if err := c.PanelService.CreateFolder(ctx, sid, req.Name); err != nil {
			return nil, err
		}
		return c.PanelService.State(ctx, sid), nil
	})
}

func (c *PanelController) RenameFolder(b *rf.Context) {
	c.serve(b, "rename_folder", func(ctx context.Context, sid string) (any, error) {
		var req FolderNameRequest
		if err := readBody(b, &req); err != nil {
			return nil, err
		}
		if err := c.PanelService.RenameFolder(ctx, sid, b.ReadPathParameter("name"), req.Name); err != nil {
			return nil, err
		}
		return c.PanelService.State(ctx, sid), nil
	})
}

func (c *PanelController) DeleteFolder(b *rf.Context) {
	c.serve(b, "delete_folder", func(ctx context.Context, sid string) (any, error) {
		if err := c.PanelService.DeleteFolder(ctx, sid, b.ReadPathParameter("name"), confirmed(b)); err != nil {
			return nil, err
		}
		return c.PanelService.State(ctx, sid), nil
	})
}

func (c *PanelController) MoveFolder(b *rf.Context) {
	c.serve(b, "move_folder", func(ctx context.Context, sid string) (any, error) {
		var req MoveFolderRequest
		if err := readBody(b, &req); err != nil {
			return nil, err
		}
		if err := c.PanelService.MoveFolder(ctx, sid, *req.From, *req.To); err != nil {
			return nil, err
		}
		return c.PanelService.State(ctx, sid), nil
	})
}

func (c *PanelController) ToggleMock(b *rf.Context) {
	c.serve(b, "toggle_mock", func(ctx context.Context, sid string) (any, error) {
		return c.PanelService.ToggleMockActive(ctx, sid, b.ReadPathParameter("id"))
	})
}

func (c *PanelController) CopyMock(b *rf.Context) {
	c.serve(b, "copy_mock", func(ctx context.Context, sid string) (any, error) {
		return c.PanelService.CopyMock(ctx, sid, b.ReadPathParameter("id"))
	})
}

func (c *PanelController) DeleteMock(b *rf.Context) {
	c.serve(b, "delete_mock", func(ctx context.Context, sid string) (any, error) {
		if err := c.PanelService.DeleteMock(ctx, sid, b.ReadPathParameter("id"), confirmed(b)); err != nil {
			return nil, err
		}
		return success, nil
	})
}

func (c *PanelController) GetEditor(b *rf.Context) {
	c.serve(b, "get_editor", func(ctx context.Context, sid string) (any, error) {
		return c.PanelService.EditorView(ctx, sid), nil
	})
}

func (c *PanelController) OpenCreate(b *rf.Context) {
	c.serve(b, "open_create", func(ctx context.Context, sid string) (any, error) {
		return c.PanelService.OpenCreate(ctx, sid), nil
	})
}

func (c *PanelController) OpenEdit(b *rf.Context) {
	c.serve(b, "open_edit", func(ctx context.Context, sid string) (any, error) {
		return c.PanelService.OpenEdit(ctx, sid, b.ReadPathParameter("id"))
	})
}

// StageEditor replaces the staged form; validation happens on submit.
func (c *PanelController) StageEditor(b *rf.Context) {
	c.serve(b, "stage_editor", func(ctx context.Context, sid string) (any, error) {
		var form editor.Form
		if err := b.ReadEntity(&form); err != nil {
			return nil, badRequestError{err: err}
		}
		return c.PanelService.StageEditor(ctx, sid, form)
	})
}

func (c *PanelController) SubmitEditor(b *rf.Context) {
	c.serve(b, "submit_editor", func(ctx context.Context, sid string) (any, error) {
		return c.PanelService.SubmitEditor(ctx, sid)
	})
}

func (c *PanelController) CancelEditor(b *rf.Context) {
	c.serve(b, "cancel_editor", func(ctx context.Context, sid string) (any, error) {
		return c.PanelService.CancelEditor(ctx, sid), nil
	})
}

func (c *PanelController) URLPatterns() []rf.Route {
	ok := []*rf.Returns{{Code: http.StatusOK}}
	return []rf.Route{
		{Method: http.MethodGet, Path: "/panel/state", ResourceFunc: c.GetState, Returns: ok},
		{Method: http.MethodDelete, Path: "/panel/session", ResourceFunc: c.ForgetSession, Returns: ok},
		{Method: http.MethodPost, Path: "/panel/load", ResourceFunc: c.Load, Returns: ok},
		{Method: http.MethodPut, Path: "/panel/backend", ResourceFunc: c.SetBackend, Returns: ok},
		{Method: http.MethodPut, Path: "/panel/search", ResourceFunc: c.SetSearch, Returns: ok},
		{Method: http.MethodPut, Path: "/panel/selection", ResourceFunc: c.SetSelection, Returns: ok},
		{Method: http.MethodGet, Path: "/panel/mocks", ResourceFunc: c.ListMocks, Returns: ok},
		{Method: http.MethodGet, Path: "/panel/notices", ResourceFunc: c.DrainNotices, Returns: ok},

		{Method: http.MethodPost, Path: "/panel/folders", ResourceFunc: c.CreateFolder, Returns: ok},
		{Method: http.MethodPost, Path: "/panel/folders/move", ResourceFunc: c.MoveFolder, Returns: ok},
		{Method: http.MethodPut, Path: "/panel/folders/{name}", ResourceFunc: c.RenameFolder, Returns: ok},
		{Method: http.MethodDelete, Path: "/panel/folders/{name}", ResourceFunc: c.DeleteFolder, Returns: ok},

		{Method: http.MethodPost, Path: "/panel/mocks/{id}/toggle", ResourceFunc: c.ToggleMock, Returns: ok},
		{Method: http.MethodPost, Path: "/panel/mocks/{id}/copy", ResourceFunc: c.CopyMock, Returns: ok},
		{Method: http.MethodDelete, Path: "/panel/mocks/{id}", ResourceFunc: c.DeleteMock, Returns: ok},

		{Method: http.MethodGet, Path: "/panel/editor", ResourceFunc: c.GetEditor, Returns: ok},
		{Method: http.MethodPut, Path: "/panel/editor", ResourceFunc: c.StageEditor, Returns: ok},
		{Method: http.MethodPost, Path: "/panel/editor/create", ResourceFunc: c.OpenCreate, Returns: ok},
		{Method: http.MethodPost, Path: "/panel/editor/edit/{id}", ResourceFunc: c.OpenEdit, Returns: ok},
		{Method: http.MethodPost, Path: "/panel/editor/submit", ResourceFunc: c.SubmitEditor, Returns: ok},
		{Method: http.MethodPost, Path: "/panel/editor/cancel", ResourceFunc: c.CancelEditor, Returns: ok},
	}
}
