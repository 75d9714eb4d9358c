package editor

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	model "go_mock_panel/internal/domain/model/mock"

	"github.com/go-playground/validator/v10"
)

// Form holds the staged fields of the mock being edited.
type Form struct {
	Method          string            `json:"method" validate:"required,oneof=GET POST PUT PATCH DELETE HEAD OPTIONS"`
	Path            string            `json:"path" validate:"required"`
	Status          int               `json:"status" validate:"required,min=100,max=599"`
	BodyMode        string            `json:"bodyMode" validate:"omitempty,oneof=none raw form-data urlencoded"`
	Headers         []model.HeaderRow `json:"headers"`
	ResponseHeaders []model.HeaderRow `json:"responseHeaders"`
	Body            string            `json:"body"`
	ResponseBody    string            `json:"responseBody"`
	Folder          string            `json:"folder" validate:"required"`
}

// NewCreateForm returns the defaults of a fresh mock in folder.
func NewCreateForm(folder string) Form {
	return Form{
		Method:          string(model.DefaultMethod),
		Status:          model.DefaultStatus,
		BodyMode:        string(model.DefaultBodyMode),
		Headers:         []model.HeaderRow{{}},
		ResponseHeaders: []model.HeaderRow{{}},
		Folder:          folder,
	}
}

// NewEditForm seeds a form from an existing mock.
func NewEditForm(m model.Mock) Form {
	return Form{
		Method:          string(m.Method),
		Path:            m.Path,
		Status:          m.Status,
		BodyMode:        string(m.BodyMode),
		Headers:         model.ExpandHeaders(m.Headers),
		ResponseHeaders: model.ExpandHeaders(m.ResponseHeaders),
		Body:            m.Body,
		ResponseBody:    m.ResponseBody,
		Folder:          m.Folder,
	}
}

// MockData compacts the header rows and converts the form for the store.
// Active is left unset so edits keep the mock's flag.
func (f Form) MockData() model.MockData {
	bodyMode := model.BodyMode(f.BodyMode)
	if bodyMode == "" {
		bodyMode = model.DefaultBodyMode
	}
	return model.MockData{
		Method:          model.Method(f.Method),
		Path:            f.Path,
		Status:          f.Status,
		BodyMode:        bodyMode,
		Headers:         model.CompactHeaderRows(f.Headers),
		ResponseHeaders: model.CompactHeaderRows(f.ResponseHeaders),
		Body:            f.Body,
		ResponseBody:    f.ResponseBody,
		Folder:          f.Folder,
	}
}

func (f Form) clone() Form {
	c := f
	c.Headers = append([]model.HeaderRow(nil), f.Headers...)
	c.ResponseHeaders = append([]model.HeaderRow(nil), f.ResponseHeaders...)
	return c
}

// FieldErrors maps a json field name to a human readable problem.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %s", k, fe[k]))
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the required fields and enumerations. The returned error,
// if any, is a FieldErrors.
func (f Form) Validate() error {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("validate form: %w", err)
	}
	fe := FieldErrors{}
	for _, e := range verrs {
		fe[e.Field()] = describe(e)
	}
	return fe
}

func describe(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(e.Param(), " ", ", ")
	case "min", "max":
		return "must be between 100 and 599"
	default:
		return "is invalid"
	}
}
