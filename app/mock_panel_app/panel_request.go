package mock_panel_app

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

const SessionHeader = "X-Panel-Session"

var validate = validator.New(validator.WithRequiredStructEnabled())

type SetBackendRequest struct {
	URL string `json:"url" validate:"required,url"`
}

type SetSearchRequest struct {
	Search string `json:"search" validate:"max=512"`
}

// SetSelectionRequest an empty folder clears the selection
type SetSelectionRequest struct {
	Folder string `json:"folder" validate:"max=255"`
}

// FolderNameRequest blank names are left to the store so that the user
// gets a notice for them.
type FolderNameRequest struct {
	Name string `json:"name" validate:"max=255"`
}

type MoveFolderRequest struct {
	From *int `json:"from" validate:"required,min=0"`
	To   *int `json:"to" validate:"required,min=0"`
}

// Validate performs validation on any request DTO
func Validate(req any) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}
	return nil
}

func validateSessionID(id string) error {
	if err := validate.Var(id, "omitempty,max=64,printascii"); err != nil {
		return fmt.Errorf("invalid %s header: %w", SessionHeader, err)
	}
	return nil
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}
