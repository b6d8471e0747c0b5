package canvas

import "errors"

var (
	ErrObjectNotFound  = errors.New("canvas: object not found")
	ErrNoSelection     = errors.New("canvas: nothing selected")
	ErrInvalidSnapshot = errors.New("canvas: invalid document data")
	ErrUnknownKind     = errors.New("canvas: unknown object type")
	ErrNotText         = errors.New("canvas: object is not text")
	ErrNoFilePath      = errors.New("canvas: no file path set")
	ErrNotFinite       = errors.New("canvas: value out of range")
)
