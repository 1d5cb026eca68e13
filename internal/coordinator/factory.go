package coordinator

import (
	"github.com/stagehand/stagehand/internal/devhost"
	"github.com/stagehand/stagehand/pkg/interfaces"
	"github.com/stagehand/stagehand/pkg/logger"
	"github.com/stagehand/stagehand/pkg/notifier"
	"github.com/stagehand/stagehand/pkg/types"
	"github.com/stagehand/stagehand/pkg/workspace"
)

// DependencyFactory creates the default dependency set for running
// against the devhost simulator. Real host bindings supply their own
// Dependencies instead.
type DependencyFactory struct{}

// CreateCoordinator wires a coordinator from configuration: workspace
// provider, desktop notifier, the devhost simulator and its console UI.
// The returned host must be closed by the caller.
func (f *DependencyFactory) CreateCoordinator(cfg *types.StagehandConfig, log logger.Logger) (*Coordinator, *devhost.Host, error) {
	hostCfg := types.HostConfig{}
	if cfg.Host != nil {
		hostCfg = *cfg.Host
	}
	host, err := devhost.New(hostCfg, log)
	if err != nil {
		return nil, nil, err
	}

	ui := devhost.NewConsoleUI()

	notifEnabled := true
	if cfg.Notifications != nil && cfg.Notifications.Enabled != nil {
		notifEnabled = *cfg.Notifications.Enabled
	}

	deps := DefaultDependencies(cfg, host, ui, notifEnabled, log)
	return New(cfg.EngineName, deps, log), host, nil
}

// DefaultDependencies assembles the dependency set around a host and UI
func DefaultDependencies(cfg *types.StagehandConfig, host *devhost.Host, ui *devhost.ConsoleUI, notifEnabled bool, log logger.Logger) interfaces.Dependencies {
	return interfaces.Dependencies{
		Host:       host,
		Workspaces: workspace.NewProvider(cfg.Workspaces, log),
		Engines:    devhost.NewEngineFactory(log, ui),
		DisabledUI: ui,
		Progress:   ui,
		Notifier:   notifier.New(notifier.Config{Enabled: notifEnabled}, log),
	}
}
