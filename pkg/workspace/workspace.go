// Package workspace resolves project workspaces and contexts from
// document paths
package workspace

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/stagehand/stagehand/pkg/interfaces"
	"github.com/stagehand/stagehand/pkg/logger"
	"github.com/stagehand/stagehand/pkg/types"
)

// Provider implements interfaces.WorkspaceProvider over a fixed set of
// project roots. Documents live under a root following the layout
//
//	<root>/<entity...>/<task>/<file>
//
// where the entity portion may be nested (for example sequence/shot).
type Provider struct {
	roots  []types.WorkspaceRoot
	logger logger.Logger
}

// workspaceHandle is the resolved project root for a document path
type workspaceHandle struct {
	project string
	root    string
}

// Project returns the workspace project name
func (w *workspaceHandle) Project() string { return w.project }

// Root returns the workspace root directory
func (w *workspaceHandle) Root() string { return w.root }

// NewProvider creates a provider over the configured project roots
func NewProvider(roots []types.WorkspaceRoot, log logger.Logger) *Provider {
	return &Provider{
		roots:  roots,
		logger: log.WithScope("workspace"),
	}
}

// WorkspaceFromPath resolves the workspace containing path. When several
// roots contain the path the most specific (longest) root wins.
func (p *Provider) WorkspaceFromPath(path string) (interfaces.Workspace, error) {
	cleaned := filepath.Clean(path)

	var best *workspaceHandle
	for _, r := range p.roots {
		root := filepath.Clean(r.Root)
		if !isUnder(root, cleaned) {
			continue
		}
		if best == nil || len(root) > len(best.root) {
			best = &workspaceHandle{project: r.Project, root: root}
		}
	}

	if best == nil {
		return nil, fmt.Errorf("%w: %s", interfaces.ErrWorkspaceNotFound, path)
	}
	return best, nil
}

// ContextFromPath derives a context for path within its workspace.
//
// By default the deepest directory is the task and everything above it
// is the entity. For nested entity scopes this split is ambiguous; when
// hint describes one of the alternative splits for the same project, the
// hint's split is preferred. Hinting never changes the outcome for a
// path with a single directory level, which is unambiguous.
func (p *Provider) ContextFromPath(path string, hint types.Context) (types.Context, error) {
	ws, err := p.WorkspaceFromPath(path)
	if err != nil {
		return types.Context{}, err
	}

	rel, err := filepath.Rel(ws.Root(), filepath.Clean(path))
	if err != nil {
		return types.Context{}, fmt.Errorf("document path not relative to workspace root: %w", err)
	}

	segments := strings.Split(filepath.ToSlash(rel), "/")
	if len(segments) == 0 || segments[0] == "." {
		return types.Context{Project: ws.Project()}, nil
	}

	// Drop the document file itself; only directories carry identity
	dirs := segments[:len(segments)-1]

	switch len(dirs) {
	case 0:
		return types.Context{Project: ws.Project()}, nil
	case 1:
		return types.Context{Project: ws.Project(), Entity: dirs[0]}, nil
	}

	candidates := splitCandidates(ws.Project(), dirs)

	if hint.Project == ws.Project() {
		for _, c := range candidates {
			if c.Equal(hint) {
				p.logger.Debug("hint disambiguated nested entity scope",
					logger.WithField("path", path),
					logger.WithField("context", c.String()))
				return c, nil
			}
		}
	}

	// Deepest split: last directory is the task
	return candidates[len(candidates)-1], nil
}

// splitCandidates enumerates the plausible entity/task splits for a
// nested directory chain, shallowest entity first
func splitCandidates(project string, dirs []string) []types.Context {
	candidates := make([]types.Context, 0, len(dirs))
	for k := 1; k < len(dirs); k++ {
		candidates = append(candidates, types.Context{
			Project: project,
			Entity:  strings.Join(dirs[:k], "/"),
			Task:    dirs[k],
		})
	}
	return candidates
}

// isUnder reports whether path is root itself or below it
func isUnder(root, path string) bool {
	if path == root {
		return true
	}
	return strings.HasPrefix(path, root+string(filepath.Separator))
}
