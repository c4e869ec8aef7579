package main

import "errors"

// Sentinel errors
var (
	ErrNoSource        = errors.New("no metadata source: pass --profile or --schema, or set default_profile")
	ErrCursorAmbiguous = errors.New("both --cursor and a | marker given")
	ErrCursorRange     = errors.New("cursor is outside the buffer")
)
