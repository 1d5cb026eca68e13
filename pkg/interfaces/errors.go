package interfaces

import (
	"errors"
	"fmt"

	"github.com/stagehand/stagehand/pkg/types"
)

// Sentinel errors for collaborator operations. These enable reliable
// error checking with errors.Is()
var (
	// ErrWorkspaceNotFound indicates a document path lies outside any
	// known project root
	ErrWorkspaceNotFound = errors.New("no workspace found for path")
)

// EngineInitError indicates engine construction failed for a context
// that resolved successfully. The coordinator recovers by entering
// disabled mode while keeping the watcher armed.
type EngineInitError struct {
	EngineName string
	Context    types.Context
	Err        error
}

func (e *EngineInitError) Error() string {
	return fmt.Sprintf("engine %q cannot be started for %s: %v", e.EngineName, e.Context, e.Err)
}

func (e *EngineInitError) Unwrap() error {
	return e.Err
}
