package graph

import "errors"

// Graph construction errors.
var (
	// ErrInvalidDocument is returned when input cannot be read as a JSON-LD document.
	ErrInvalidDocument = errors.New("invalid JSON-LD document")

	// ErrBuilderFinished is returned when a Builder is used after Finish.
	ErrBuilderFinished = errors.New("graph builder already finished")
)
