package main

import "errors"

// Sentinel errors for CLI-level failures (distinct from the library's own
// the error kinds, which Format/FormatDSL already return wrapped).
var (
	ErrNoInput = errors.New("no input: pass a file path or pipe a statement on stdin")
	ErrUnsupportedInput = errors.New("unsupported input extension: use .yaml, .yml, or .json")
)
