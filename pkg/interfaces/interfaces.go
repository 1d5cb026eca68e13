// Package interfaces provides abstractions for dependency injection and testability
package interfaces

import (
	"github.com/stagehand/stagehand/pkg/types"
)

// SubscriptionHandle is an opaque token identifying one host event
// subscription. Handles are independent of each other: releasing one
// never affects another, and a handler may remove its own registration
// while it is running.
type SubscriptionHandle string

// EventHandler is invoked by the host when a subscribed event fires
type EventHandler func(kind types.EventKind)

// HostClient abstracts the host application's document and event APIs
type HostClient interface {
	// CurrentDocumentPath returns the path of the currently open
	// document, or "" for a new unsaved document.
	CurrentDocumentPath() string

	// Subscribe registers a handler for one event kind. The returned
	// handle is used to unsubscribe. Subscription may fail per kind.
	Subscribe(kind types.EventKind, handler EventHandler) (SubscriptionHandle, error)

	// Unsubscribe releases a subscription. Unknown or already released
	// handles are a no-op.
	Unsubscribe(handle SubscriptionHandle)
}

// Workspace is the resolved project root derived from a document path
type Workspace interface {
	Project() string
	Root() string
}

// WorkspaceProvider derives workspaces and contexts from document paths
type WorkspaceProvider interface {
	// WorkspaceFromPath resolves the workspace containing path.
	// Returns ErrWorkspaceNotFound (possibly wrapped) when the path
	// lies outside any known project.
	WorkspaceFromPath(path string) (Workspace, error)

	// ContextFromPath derives a context for path within its workspace.
	// hint is the previously known context; it must only break ties for
	// ambiguous paths, never change the outcome for unambiguous ones.
	ContextFromPath(path string, hint types.Context) (types.Context, error)
}

// Engine is the single running integration instance bound to a context
type Engine interface {
	Name() string
	Context() types.Context

	// Destroy tears the engine down. It must complete before a
	// replacement engine is constructed.
	Destroy() error
}

// EngineFactory constructs engines for resolved contexts
type EngineFactory interface {
	// StartEngine constructs and starts an engine. Construction failure
	// is reported as an *EngineInitError.
	StartEngine(name string, workspace Workspace, ctx types.Context) (Engine, error)
}

// DisabledUI renders the disabled-mode indicator. Implementations live
// in the host binding layer; the core only invokes them.
type DisabledUI interface {
	ShowDisabledIndicator()
	ClearDisabledIndicator()
}

// ProgressSink receives progress reporting from the job queue
type ProgressSink interface {
	BeginProgress(label string)
	Step(delta int)
	EndProgress()
}

// UserNotifier surfaces user-visible informational messages. Failures
// are reported through it instead of crashing the host integration.
type UserNotifier interface {
	Info(title, message string)
}

// Dependencies contains all injectable collaborators for the coordinator
type Dependencies struct {
	Host       HostClient
	Workspaces WorkspaceProvider
	Engines    EngineFactory
	DisabledUI DisabledUI
	Progress   ProgressSink
	Notifier   UserNotifier
}
