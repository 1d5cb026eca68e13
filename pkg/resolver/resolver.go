// Package resolver computes the engine context for a host document path
package resolver

import (
	"github.com/stagehand/stagehand/pkg/interfaces"
	"github.com/stagehand/stagehand/pkg/logger"
	"github.com/stagehand/stagehand/pkg/types"
)

// Outcome is the result of resolving a document path against the
// previously known context.
type Outcome struct {
	Kind      types.OutcomeKind
	Context   types.Context
	Workspace interfaces.Workspace

	// Reason explains an unresolvable outcome for logs and messages
	Reason string
}

// ContextResolver derives contexts from document paths via a workspace
// provider and decides whether an engine rebuild is required.
type ContextResolver struct {
	workspaces interfaces.WorkspaceProvider
	logger     logger.Logger
}

// New creates a resolver over the given workspace provider
func New(workspaces interfaces.WorkspaceProvider, log logger.Logger) *ContextResolver {
	return &ContextResolver{
		workspaces: workspaces,
		logger:     log.WithScope("resolver"),
	}
}

// Resolve computes the outcome for documentPath given the previously
// known context.
//
// An empty path means the host opened a new empty document: the caller
// keeps the existing engine and context untouched. A path outside any
// known workspace is unresolvable and sends the caller into disabled
// mode. Otherwise the resolved context is compared to prev by value
// equality to choose Same versus Changed. prev is passed to the provider
// as a disambiguation hint only; it breaks ties for ambiguous paths and
// never changes the outcome for unambiguous ones.
func (r *ContextResolver) Resolve(documentPath string, prev types.Context) Outcome {
	if documentPath == "" {
		return Outcome{Kind: types.OutcomeUnchanged, Context: prev}
	}

	workspace, err := r.workspaces.WorkspaceFromPath(documentPath)
	if err != nil {
		r.logger.Debug("no workspace for document",
			logger.WithField("path", documentPath),
			logger.WithField("error", err))
		return Outcome{Kind: types.OutcomeUnresolvable, Reason: err.Error()}
	}

	ctx, err := r.workspaces.ContextFromPath(documentPath, prev)
	if err != nil {
		r.logger.Debug("no context for document",
			logger.WithField("path", documentPath),
			logger.WithField("error", err))
		return Outcome{Kind: types.OutcomeUnresolvable, Reason: err.Error()}
	}

	if ctx.Equal(prev) {
		return Outcome{Kind: types.OutcomeSame, Context: ctx, Workspace: workspace}
	}
	return Outcome{Kind: types.OutcomeChanged, Context: ctx, Workspace: workspace}
}
