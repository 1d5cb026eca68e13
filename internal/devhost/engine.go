package devhost

import (
	"fmt"
	"sync"

	"github.com/stagehand/stagehand/pkg/interfaces"
	"github.com/stagehand/stagehand/pkg/jobqueue"
	"github.com/stagehand/stagehand/pkg/logger"
	"github.com/stagehand/stagehand/pkg/types"
)

// Engine is the simulator's engine instance. It carries the legacy job
// queue so pipeline apps written against it keep working.
type Engine struct {
	name      string
	ctx       types.Context
	workspace interfaces.Workspace
	queue     *jobqueue.Queue
	logger    logger.Logger

	mu        sync.Mutex
	destroyed bool
}

// Name returns the engine's configured name
func (e *Engine) Name() string {
	return e.name
}

// Context returns the context this engine was started for
func (e *Engine) Context() types.Context {
	return e.ctx
}

// Workspace returns the workspace this engine was started in
func (e *Engine) Workspace() interfaces.Workspace {
	return e.workspace
}

// Queue exposes the legacy job queue bound to this engine instance
func (e *Engine) Queue() *jobqueue.Queue {
	return e.queue
}

// Destroy tears the engine down. Calling it twice is an error.
func (e *Engine) Destroy() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.destroyed {
		return fmt.Errorf("engine for %s already destroyed", e.ctx.String())
	}
	e.destroyed = true

	e.logger.Info("engine destroyed", logger.WithField("context", e.ctx.String()))
	return nil
}

// EngineFactory constructs simulator engines
type EngineFactory struct {
	logger   logger.Logger
	progress interfaces.ProgressSink
}

// NewEngineFactory creates a factory whose engines report job progress
// to the given sink
func NewEngineFactory(log logger.Logger, progress interfaces.ProgressSink) *EngineFactory {
	return &EngineFactory{
		logger:   log.WithScope("engines"),
		progress: progress,
	}
}

// StartEngine constructs an engine bound to the resolved context
func (f *EngineFactory) StartEngine(name string, workspace interfaces.Workspace, ctx types.Context) (interfaces.Engine, error) {
	if name == "" {
		return nil, &interfaces.EngineInitError{
			EngineName: name,
			Context:    ctx,
			Err:        fmt.Errorf("engine name is empty"),
		}
	}
	if workspace == nil {
		return nil, &interfaces.EngineInitError{
			EngineName: name,
			Context:    ctx,
			Err:        fmt.Errorf("no workspace for context %s", ctx.String()),
		}
	}

	f.logger.Info("starting engine",
		logger.WithField("engine", name),
		logger.WithField("context", ctx.String()))

	return &Engine{
		name:      name,
		ctx:       ctx,
		workspace: workspace,
		queue:     jobqueue.New(f.logger, f.progress),
		logger:    f.logger,
	}, nil
}
