// Package coordinator keeps the engine instance synchronized with the
// document currently open in the host application
package coordinator

import (
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/stagehand/stagehand/pkg/interfaces"
	"github.com/stagehand/stagehand/pkg/logger"
	"github.com/stagehand/stagehand/pkg/resolver"
	"github.com/stagehand/stagehand/pkg/types"
	"github.com/stagehand/stagehand/pkg/watcher"
)

// Coordinator owns the single live engine slot and drives its lifecycle
// from host events. On each event the current document path is resolved
// to keep / rebuild / disable; any failure falls back to a disabled
// state with the watcher re-armed, so no single event can kill the
// integration.
//
// Event delivery is single-threaded on the host's loop; the internal
// lock exists for the read accessors, not for the state machine.
type Coordinator struct {
	engineName string
	deps       interfaces.Dependencies
	resolver   *resolver.ContextResolver
	watcher    *watcher.EventWatcher
	logger     logger.Logger

	mu        sync.RWMutex
	isRunning bool
	status    types.EngineStatus
	engine    interfaces.Engine
	context   types.Context
}

// New creates a coordinator. Host, workspace provider, engine factory
// and disabled UI are required; the notifier is optional.
func New(engineName string, deps interfaces.Dependencies, log logger.Logger) *Coordinator {
	if deps.Host == nil {
		panic("Host dependency is required")
	}
	if deps.Workspaces == nil {
		panic("Workspaces dependency is required")
	}
	if deps.Engines == nil {
		panic("Engines dependency is required")
	}
	if deps.DisabledUI == nil {
		panic("DisabledUI dependency is required")
	}

	return &Coordinator{
		engineName: engineName,
		deps:       deps,
		resolver:   resolver.New(deps.Workspaces, log),
		watcher:    watcher.New(deps.Host, log),
		logger:     log.WithScope("coordinator"),
		status:     types.EngineStatusNone,
	}
}

// Start performs the initial resolution against the current document and
// arms the watcher for future host events.
func (c *Coordinator) Start() error {
	c.mu.Lock()
	if c.isRunning {
		c.mu.Unlock()
		return ErrAlreadyStarted
	}
	c.isRunning = true
	c.mu.Unlock()

	c.logger.Info("starting engine lifecycle coordination",
		logger.WithField("engine", c.engineName))

	c.onSceneEvent()
	return nil
}

// Stop tears everything down: the watcher registrations and, if one is
// running, the engine. Used for host-exiting teardown; safe to call more
// than once.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	if !c.isRunning {
		c.mu.Unlock()
		return
	}
	c.isRunning = false
	engine := c.engine
	c.engine = nil
	c.status = types.EngineStatusNone
	c.context = types.Context{}
	c.mu.Unlock()

	c.watcher.Stop()

	if engine != nil {
		if err := engine.Destroy(); err != nil {
			c.logger.Warn("engine teardown failed during stop",
				logger.WithField("error", err))
		}
	}

	c.logger.Info("stopped")
}

// CurrentEngine returns the active engine, or nil when none is running.
// Collaborators that need the engine go through this accessor instead of
// reaching into ambient state.
func (c *Coordinator) CurrentEngine() interfaces.Engine {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.engine
}

// Status returns the coordinator's lifecycle state
func (c *Coordinator) Status() types.EngineStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

// Context returns the context of the current engine, or the zero context
func (c *Coordinator) Context() types.Context {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.context
}

// WatcherActive reports whether any host subscriptions are held
func (c *Coordinator) WatcherActive() bool {
	return c.watcher.Active() > 0
}

// onSceneEvent runs on every subscribed host event (and once at Start).
// After it returns the watcher is always left armed: persistently while
// an engine runs, one-shot otherwise so the next event retries
// resolution.
func (c *Coordinator) onSceneEvent() {
	running := c.safeRefresh()

	c.mu.RLock()
	stopped := !c.isRunning
	c.mu.RUnlock()
	if stopped {
		return
	}

	if running {
		c.watcher.Start(types.DefaultSceneEvents, false, c.onSceneEvent)
	} else {
		c.watcher.Start(types.DefaultSceneEvents, true, c.onSceneEvent)
	}
}

// safeRefresh refreshes the engine, converting anything thrown below it
// into a recovered construction failure. Nothing escapes the event
// handler boundary.
func (c *Coordinator) safeRefresh() (running bool) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("problem refreshing the engine; integration disabled until the next event",
				logger.WithField("panic", r),
				logger.WithField("stack_trace", string(debug.Stack())))

			if c.deps.Notifier != nil {
				c.deps.Notifier.Info("🎬 Stagehand",
					fmt.Sprintf("There was a problem starting the engine: %v", r))
			}

			c.deps.DisabledUI.ShowDisabledIndicator()
			c.mu.Lock()
			c.status = types.EngineStatusDisabled
			c.mu.Unlock()
			running = false
		}
	}()

	return c.refreshEngine()
}

// refreshEngine performs one resolution pass. Returns whether an engine
// is running afterwards.
func (c *Coordinator) refreshEngine() bool {
	// Reset the disabled indicator first; it is re-rendered below if
	// still warranted
	c.deps.DisabledUI.ClearDisabledIndicator()

	c.mu.RLock()
	prev := c.context
	current := c.engine
	status := c.status
	c.mu.RUnlock()

	path := c.deps.Host.CurrentDocumentPath()
	outcome := c.resolver.Resolve(path, prev)

	switch outcome.Kind {
	case types.OutcomeUnchanged:
		// New empty document: keep engine and context untouched
		if status == types.EngineStatusDisabled {
			c.deps.DisabledUI.ShowDisabledIndicator()
		}
		return current != nil

	case types.OutcomeUnresolvable:
		c.logger.Info("document is not part of any known workspace",
			logger.WithField("path", path),
			logger.WithField("reason", outcome.Reason))
		if c.deps.Notifier != nil {
			c.deps.Notifier.Info("🎬 Stagehand",
				fmt.Sprintf("Engine cannot be started: %s", outcome.Reason))
		}
		c.deps.DisabledUI.ShowDisabledIndicator()

		// An already-running engine is deliberately left alive here:
		// disabling the menu does not tear down in-flight work.
		c.mu.Lock()
		c.status = types.EngineStatusDisabled
		c.mu.Unlock()
		return current != nil

	case types.OutcomeSame:
		if current != nil {
			// Context unchanged, no need to rebuild the same engine. This
			// also recovers from an unresolvable detour while the engine
			// stayed alive.
			c.mu.Lock()
			c.status = types.EngineStatusRunning
			c.mu.Unlock()
			return true
		}
		// Context matches but no engine survives (earlier construction
		// failure); fall through to a rebuild attempt.
	}

	return c.rebuildEngine(current, prev, outcome)
}

// rebuildEngine tears down the current engine, if any, and constructs a
// replacement for the resolved context. Teardown always completes before
// construction begins.
func (c *Coordinator) rebuildEngine(current interfaces.Engine, prev types.Context, outcome resolver.Outcome) bool {
	if current != nil {
		c.logger.Debug("ready to switch context because of scene event")
		c.logger.Debug("previous context", logger.WithField("context", prev.String()))
		c.logger.Debug("new context", logger.WithField("context", outcome.Context.String()))

		c.mu.Lock()
		c.engine = nil
		c.status = types.EngineStatusNone
		c.mu.Unlock()

		// A failed teardown is logged and swallowed; the replacement is
		// still constructed so the user is not left engine-less over a
		// cleanup problem.
		if err := current.Destroy(); err != nil {
			c.logger.Warn("engine teardown failed; continuing with rebuild",
				logger.WithField("error", err))
		}
	}

	engine, err := c.deps.Engines.StartEngine(c.engineName, outcome.Workspace, outcome.Context)
	if err != nil {
		c.logger.Error("engine construction failed",
			logger.WithField("context", outcome.Context.String()),
			logger.WithField("error", err))
		if c.deps.Notifier != nil {
			c.deps.Notifier.Info("🎬 Stagehand",
				fmt.Sprintf("Engine cannot be started: %v", err))
		}
		c.deps.DisabledUI.ShowDisabledIndicator()

		c.mu.Lock()
		c.status = types.EngineStatusDisabled
		c.mu.Unlock()
		return false
	}

	c.logger.Debug("launched new engine for context",
		logger.WithField("context", outcome.Context.String()))

	c.mu.Lock()
	c.engine = engine
	c.context = outcome.Context
	c.status = types.EngineStatusRunning
	c.mu.Unlock()
	return true
}
