package store

import "errors"

var (
	ErrBlankFolderName = errors.New("folder name cannot be blank")
	ErrFolderExists    = errors.New("folder already exists")
	ErrFolderNotFound  = errors.New("folder not found")
	ErrSameFolderName  = errors.New("new folder name equals the old one")
	ErrMockNotFound    = errors.New("mock not found")
	ErrIndexOutOfRange = errors.New("folder index out of range")
	ErrNotConfirmed    = errors.New("action not confirmed")
	ErrStaleLoad       = errors.New("load superseded by a newer request")
)
