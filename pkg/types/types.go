// Package types provides core types and configurations for Stagehand
package types

import "fmt"

// EventKind identifies a host lifecycle event the shim can subscribe to
type EventKind string

const (
	EventDocumentOpened  EventKind = "document-opened"
	EventDocumentSaved   EventKind = "document-saved"
	EventDocumentCreated EventKind = "document-created"
	EventHostExiting     EventKind = "host-exiting"
)

// DefaultSceneEvents are the events that can require an engine rebuild.
// EventHostExiting is always subscribed in addition, for cleanup.
var DefaultSceneEvents = []EventKind{
	EventDocumentOpened,
	EventDocumentSaved,
	EventDocumentCreated,
}

// Context identifies the unit of work an engine operates against.
// It is an immutable value; two contexts are equal iff all identifying
// fields match.
type Context struct {
	Project string `json:"project" yaml:"project"`
	Entity  string `json:"entity,omitempty" yaml:"entity,omitempty"`
	Task    string `json:"task,omitempty" yaml:"task,omitempty"`
}

// Equal reports whether two contexts identify the same unit of work
func (c Context) Equal(other Context) bool {
	return c == other
}

// IsZero reports whether the context carries no identity at all
func (c Context) IsZero() bool {
	return c == Context{}
}

// String renders the context for logs and messages
func (c Context) String() string {
	if c.IsZero() {
		return "<no context>"
	}
	s := c.Project
	if c.Entity != "" {
		s += "/" + c.Entity
	}
	if c.Task != "" {
		s += "/" + c.Task
	}
	return s
}

// OutcomeKind classifies the result of resolving a document path
type OutcomeKind string

const (
	// OutcomeUnchanged means the document path was empty (file -> new);
	// the caller keeps the existing engine and context untouched.
	OutcomeUnchanged OutcomeKind = "unchanged"

	// OutcomeUnresolvable means no workspace or context could be derived
	// from the document path; the caller enters disabled mode.
	OutcomeUnresolvable OutcomeKind = "unresolvable"

	// OutcomeSame means the resolved context equals the previous one;
	// the caller keeps the existing engine.
	OutcomeSame OutcomeKind = "same"

	// OutcomeChanged means the resolved context differs from the previous
	// one; the caller must rebuild the engine.
	OutcomeChanged OutcomeKind = "changed"
)

// EngineStatus represents the coordinator's lifecycle state
type EngineStatus string

const (
	EngineStatusNone     EngineStatus = "none"
	EngineStatusRunning  EngineStatus = "running"
	EngineStatusDisabled EngineStatus = "disabled"
)

// LogLevel represents logging verbosity levels
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// StagehandConfig is the top-level shim configuration
type StagehandConfig struct {
	Version       string              `json:"version" yaml:"version"`
	EngineName    string              `json:"engineName" yaml:"engineName"`
	LogLevel      LogLevel            `json:"logLevel,omitempty" yaml:"logLevel,omitempty"`
	LogFile       string              `json:"logFile,omitempty" yaml:"logFile,omitempty"`
	Workspaces    []WorkspaceRoot     `json:"workspaces" yaml:"workspaces"`
	Notifications *NotificationConfig `json:"notifications,omitempty" yaml:"notifications,omitempty"`
	Host          *HostConfig         `json:"host,omitempty" yaml:"host,omitempty"`
}

// WorkspaceRoot maps a project name to its root directory on disk
type WorkspaceRoot struct {
	Project string `json:"project" yaml:"project"`
	Root    string `json:"root" yaml:"root"`
}

// NotificationConfig controls user-visible notifications
type NotificationConfig struct {
	Enabled *bool `json:"enabled,omitempty" yaml:"enabled,omitempty"`
}

// HostConfig configures the development host simulator
type HostConfig struct {
	// DocumentPath is the document the simulated host opens at startup
	DocumentPath string `json:"documentPath,omitempty" yaml:"documentPath,omitempty"`

	// SettlingDelayMS debounces filesystem events before they are
	// delivered as document-saved
	SettlingDelayMS int `json:"settlingDelayMs,omitempty" yaml:"settlingDelayMs,omitempty"`
}

// Validate performs basic sanity checks on an event kind
func (e EventKind) Validate() error {
	switch e {
	case EventDocumentOpened, EventDocumentSaved, EventDocumentCreated, EventHostExiting:
		return nil
	}
	return fmt.Errorf("unknown event kind: %s", string(e))
}
