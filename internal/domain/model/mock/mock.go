package model

import (
	"encoding/json"
	"maps"
)

// Mock pairs a request matcher with a canned response.
type Mock struct {
	ID              string            `json:"id"`
	Method          Method            `json:"method"`
	Path            string            `json:"path"`
	Status          int               `json:"status"`
	BodyMode        BodyMode          `json:"bodyMode"`
	Headers         map[string]string `json:"headers"`
	ResponseHeaders map[string]string `json:"responseHeaders"`
	Body            string            `json:"body"`
	ResponseBody    string            `json:"responseBody"`
	Folder          string            `json:"folder"`
	Active          bool              `json:"active"`
}

// MockData carries every field of a Mock except its id. Active is only
// applied when set.
type MockData struct {
	Method          Method            `json:"method"`
	Path            string            `json:"path"`
	Status          int               `json:"status"`
	BodyMode        BodyMode          `json:"bodyMode"`
	Headers         map[string]string `json:"headers"`
	ResponseHeaders map[string]string `json:"responseHeaders"`
	Body            string            `json:"body"`
	ResponseBody    string            `json:"responseBody"`
	Folder          string            `json:"folder"`
	Active          *bool             `json:"active,omitempty"`
}

// NewMock builds an active mock with the given id from data, filling the
// documented defaults for zero values.
func NewMock(id string, data MockData) Mock {
	m := Mock{ID: id, Active: true}
	m.Apply(data)
	return m
}

// Apply overwrites every field of m with data except ID. Active changes only
// when data.Active is set.
func (m *Mock) Apply(data MockData) {
	m.Method = data.Method
	if m.Method == "" {
		m.Method = DefaultMethod
	}
	m.Path = data.Path
	m.Status = data.Status
	if m.Status == 0 {
		m.Status = DefaultStatus
	}
	m.BodyMode = data.BodyMode
	if m.BodyMode == "" {
		m.BodyMode = DefaultBodyMode
	}
	m.Headers = cloneHeaders(data.Headers)
	m.ResponseHeaders = cloneHeaders(data.ResponseHeaders)
	m.Body = data.Body
	m.ResponseBody = data.ResponseBody
	m.Folder = data.Folder
	if data.Active != nil {
		m.Active = *data.Active
	}
}

// Data returns the mock's fields as MockData with Active set.
func (m Mock) Data() MockData {
	active := m.Active
	return MockData{
		Method:          m.Method,
		Path:            m.Path,
		Status:          m.Status,
		BodyMode:        m.BodyMode,
		Headers:         cloneHeaders(m.Headers),
		ResponseHeaders: cloneHeaders(m.ResponseHeaders),
		Body:            m.Body,
		ResponseBody:    m.ResponseBody,
		Folder:          m.Folder,
		Active:          &active,
	}
}

// Clone deep-copies the header maps.
func (m Mock) Clone() Mock {
	c := m
	c.Headers = cloneHeaders(m.Headers)
	c.ResponseHeaders = cloneHeaders(m.ResponseHeaders)
	return c
}

// UnmarshalJSON treats a missing "active" as true and fills defaults for
// method, status and bodyMode, matching what the backend omits.
func (m *Mock) UnmarshalJSON(data []byte) error {
	type alias Mock
	aux := struct {
		*alias
		Active *bool `json:"active"`
	}{alias: (*alias)(m)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	m.Active = aux.Active == nil || *aux.Active
	if m.Method == "" {
		m.Method = DefaultMethod
	}
	if m.Status == 0 {
		m.Status = DefaultStatus
	}
	if m.BodyMode == "" {
		m.BodyMode = DefaultBodyMode
	}
	return nil
}

func cloneHeaders(h map[string]string) map[string]string {
	if h == nil {
		return map[string]string{}
	}
	return maps.Clone(h)
}
