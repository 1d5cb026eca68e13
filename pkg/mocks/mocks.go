// Package mocks provides mock implementations of interfaces for testing.
package mocks

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/stagehand/stagehand/pkg/interfaces"
	"github.com/stagehand/stagehand/pkg/types"
)

// MockHostClient is a mock implementation of HostClient for testing. It
// lets tests fire lifecycle events and inject per-kind subscription
// failures.
type MockHostClient struct {
	mu            sync.RWMutex
	currentPath   string
	subscriptions map[interfaces.SubscriptionHandle]mockSubscription
	subscribeErrs map[types.EventKind]error
}

type mockSubscription struct {
	kind    types.EventKind
	handler interfaces.EventHandler
}

// NewMockHostClient creates a new mock host client
func NewMockHostClient() *MockHostClient {
	return &MockHostClient{
		subscriptions: make(map[interfaces.SubscriptionHandle]mockSubscription),
		subscribeErrs: make(map[types.EventKind]error),
	}
}

// CurrentDocumentPath returns the configured document path
func (m *MockHostClient) CurrentDocumentPath() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.currentPath
}

// Subscribe registers a handler for an event kind
func (m *MockHostClient) Subscribe(kind types.EventKind, handler interfaces.EventHandler) (interfaces.SubscriptionHandle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.subscribeErrs[kind]; err != nil {
		return "", err
	}

	handle := interfaces.SubscriptionHandle(uuid.New().String())
	m.subscriptions[handle] = mockSubscription{kind: kind, handler: handler}
	return handle, nil
}

// Unsubscribe releases a subscription; unknown handles are a no-op
func (m *MockHostClient) Unsubscribe(handle interfaces.SubscriptionHandle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subscriptions, handle)
}

// SetCurrentDocumentPath sets the path returned by CurrentDocumentPath
func (m *MockHostClient) SetCurrentDocumentPath(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentPath = path
}

// SetSubscribeError makes Subscribe fail for one event kind
func (m *MockHostClient) SetSubscribeError(kind types.EventKind, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribeErrs[kind] = err
}

// SubscriptionCount returns the number of active subscriptions
func (m *MockHostClient) SubscriptionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subscriptions)
}

// SubscriptionCountFor returns the number of active subscriptions for a kind
func (m *MockHostClient) SubscriptionCountFor(kind types.EventKind) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, sub := range m.subscriptions {
		if sub.kind == kind {
			count++
		}
	}
	return count
}

// Trigger fires an event to all handlers subscribed to the kind. The
// handler set is snapshotted first, so a handler may unsubscribe itself
// (or everything) while running.
func (m *MockHostClient) Trigger(kind types.EventKind) {
	m.mu.RLock()
	handlers := make([]interfaces.EventHandler, 0, len(m.subscriptions))
	for _, sub := range m.subscriptions {
		if sub.kind == kind {
			handlers = append(handlers, sub.handler)
		}
	}
	m.mu.RUnlock()

	for _, h := range handlers {
		h(kind)
	}
}

// MockWorkspace is a trivial Workspace value for tests
type MockWorkspace struct {
	ProjectName string
	RootPath    string
}

// Project returns the workspace project name
func (w *MockWorkspace) Project() string { return w.ProjectName }

// Root returns the workspace root path
func (w *MockWorkspace) Root() string { return w.RootPath }

// MockWorkspaceProvider is a mock implementation of WorkspaceProvider
type MockWorkspaceProvider struct {
	mu           sync.RWMutex
	workspaceErr error
	contextErr   error
	contexts     map[string]types.Context
	lastHint     types.Context
	hintSeen     bool
}

// NewMockWorkspaceProvider creates a new mock workspace provider
func NewMockWorkspaceProvider() *MockWorkspaceProvider {
	return &MockWorkspaceProvider{
		contexts: make(map[string]types.Context),
	}
}

// WorkspaceFromPath resolves a workspace for a registered path
func (m *MockWorkspaceProvider) WorkspaceFromPath(path string) (interfaces.Workspace, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.workspaceErr != nil {
		return nil, m.workspaceErr
	}

	ctx, ok := m.contexts[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", interfaces.ErrWorkspaceNotFound, path)
	}
	return &MockWorkspace{ProjectName: ctx.Project, RootPath: "/" + ctx.Project}, nil
}

// ContextFromPath derives the registered context for a path
func (m *MockWorkspaceProvider) ContextFromPath(path string, hint types.Context) (types.Context, error) {
	m.mu.Lock()
	m.lastHint = hint
	m.hintSeen = true
	m.mu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.contextErr != nil {
		return types.Context{}, m.contextErr
	}
	return m.contexts[path], nil
}

// RegisterContext maps a document path to a resolvable context
func (m *MockWorkspaceProvider) RegisterContext(path string, ctx types.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contexts[path] = ctx
}

// SetWorkspaceError makes WorkspaceFromPath fail
func (m *MockWorkspaceProvider) SetWorkspaceError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.workspaceErr = err
}

// SetContextError makes ContextFromPath fail
func (m *MockWorkspaceProvider) SetContextError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contextErr = err
}

// LastHint returns the hint passed to the most recent ContextFromPath call
func (m *MockWorkspaceProvider) LastHint() (types.Context, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastHint, m.hintSeen
}

// MockEngineFactory is a mock implementation of EngineFactory. It keeps
// an ordered call log shared with the engines it creates, so tests can
// assert destroy-before-construct ordering.
type MockEngineFactory struct {
	mu       sync.Mutex
	startErr error
	calls    []string
	engines  []*MockEngine
}

// NewMockEngineFactory creates a new mock engine factory
func NewMockEngineFactory() *MockEngineFactory {
	return &MockEngineFactory{}
}

// StartEngine constructs a mock engine bound to the given context
func (f *MockEngineFactory) StartEngine(name string, workspace interfaces.Workspace, ctx types.Context) (interfaces.Engine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.startErr != nil {
		f.calls = append(f.calls, fmt.Sprintf("start-failed %s", ctx))
		return nil, &interfaces.EngineInitError{EngineName: name, Context: ctx, Err: f.startErr}
	}

	f.calls = append(f.calls, fmt.Sprintf("start %s", ctx))
	engine := &MockEngine{name: name, ctx: ctx, factory: f}
	f.engines = append(f.engines, engine)
	return engine, nil
}

// SetStartError makes StartEngine fail
func (f *MockEngineFactory) SetStartError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.startErr = err
}

// Calls returns the ordered start/destroy call log
func (f *MockEngineFactory) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

// Engines returns every engine constructed so far
func (f *MockEngineFactory) Engines() []*MockEngine {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*MockEngine, len(f.engines))
	copy(out, f.engines)
	return out
}

func (f *MockEngineFactory) record(entry string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, entry)
}

// MockEngine is a mock implementation of Engine
type MockEngine struct {
	mu         sync.Mutex
	name       string
	ctx        types.Context
	destroyErr error
	destroyed  int
	factory    *MockEngineFactory
}

// Name returns the engine instance name
func (e *MockEngine) Name() string { return e.name }

// Context returns the context the engine is bound to
func (e *MockEngine) Context() types.Context { return e.ctx }

// Destroy tears the mock engine down
func (e *MockEngine) Destroy() error {
	e.mu.Lock()
	e.destroyed++
	err := e.destroyErr
	e.mu.Unlock()

	if e.factory != nil {
		e.factory.record(fmt.Sprintf("destroy %s", e.ctx))
	}
	return err
}

// SetDestroyError makes Destroy fail
func (e *MockEngine) SetDestroyError(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.destroyErr = err
}

// DestroyCount returns how many times Destroy was called
func (e *MockEngine) DestroyCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.destroyed
}

// MockDisabledUI is a mock implementation of DisabledUI
type MockDisabledUI struct {
	mu         sync.Mutex
	shown      bool
	showCalls  int
	clearCalls int
}

// NewMockDisabledUI creates a new mock disabled-mode UI
func NewMockDisabledUI() *MockDisabledUI {
	return &MockDisabledUI{}
}

// ShowDisabledIndicator records that the indicator was rendered
func (m *MockDisabledUI) ShowDisabledIndicator() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shown = true
	m.showCalls++
}

// ClearDisabledIndicator records that the indicator was removed
func (m *MockDisabledUI) ClearDisabledIndicator() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shown = false
	m.clearCalls++
}

// Shown reports whether the indicator is currently rendered
func (m *MockDisabledUI) Shown() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shown
}

// ShowCalls returns the number of ShowDisabledIndicator calls
func (m *MockDisabledUI) ShowCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.showCalls
}

// MockProgressSink is a mock implementation of ProgressSink that records
// every signal in order
type MockProgressSink struct {
	mu     sync.Mutex
	events []string
}

// NewMockProgressSink creates a new mock progress sink
func NewMockProgressSink() *MockProgressSink {
	return &MockProgressSink{}
}

// BeginProgress records the start of a job's progress reporting
func (m *MockProgressSink) BeginProgress(label string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, "begin "+label)
}

// Step records a relayed progress delta
func (m *MockProgressSink) Step(delta int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, fmt.Sprintf("step %d", delta))
}

// EndProgress records the end of a job's progress reporting
func (m *MockProgressSink) EndProgress() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, "end")
}

// Events returns the ordered signal log
func (m *MockProgressSink) Events() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.events))
	copy(out, m.events)
	return out
}
