package model

import "strings"

// Method is the HTTP verb a mock answers to.
type Method string

const (
	MethodGet     Method = "GET"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodPatch   Method = "PATCH"
	MethodDelete  Method = "DELETE"
	MethodHead    Method = "HEAD"
	MethodOptions Method = "OPTIONS"
)

// Methods lists the supported verbs in the order the editor offers them.
var Methods = []Method{MethodGet, MethodPost, MethodPut, MethodPatch, MethodDelete, MethodHead, MethodOptions}

func (m Method) IsValid() bool {
	for _, v := range Methods {
		if m == v {
			return true
		}
	}
	return false
}

func (m Method) String() string {
	return string(m)
}

// ParseMethod upper-cases s and checks it against Methods.
func ParseMethod(s string) (Method, bool) {
	m := Method(strings.ToUpper(strings.TrimSpace(s)))
	return m, m.IsValid()
}

// BodyMode describes how the request body is interpreted for matching.
type BodyMode string

const (
	BodyModeNone       BodyMode = "none"
	BodyModeRaw        BodyMode = "raw"
	BodyModeFormData   BodyMode = "form-data"
	BodyModeURLEncoded BodyMode = "urlencoded"
)

func (b BodyMode) IsValid() bool {
	switch b {
	case BodyModeNone, BodyModeRaw, BodyModeFormData, BodyModeURLEncoded:
		return true
	default:
		return false
	}
}

func (b BodyMode) String() string {
	return string(b)
}

const (
	DefaultMethod   = MethodGet
	DefaultStatus   = 200
	DefaultBodyMode = BodyModeNone
)
