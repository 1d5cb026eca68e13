// Package config handles configuration loading and management
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/stagehand/stagehand/pkg/types"
	"gopkg.in/yaml.v3"
)

// Manager handles configuration operations
type Manager struct{}

// NewManager creates a new configuration manager
func NewManager() *Manager {
	return &Manager{}
}

// LoadConfig loads configuration from a file
func (m *Manager) LoadConfig(path string) (*types.StagehandConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg types.StagehandConfig

	// Try JSON first
	if err := json.Unmarshal(data, &cfg); err == nil {
		return m.validateConfig(&cfg)
	}

	// Try YAML
	if err := yaml.Unmarshal(data, &cfg); err == nil {
		return m.validateConfig(&cfg)
	}

	return nil, fmt.Errorf("failed to parse config as JSON or YAML")
}

// ValidateConfig validates a configuration
func (m *Manager) ValidateConfig(config *types.StagehandConfig) error {
	if config.Version != "1.0" {
		return fmt.Errorf("unsupported config version: %s", config.Version)
	}

	if config.EngineName == "" {
		return fmt.Errorf("missing engine name")
	}

	if len(config.Workspaces) == 0 {
		return fmt.Errorf("no workspace roots defined")
	}

	seen := make(map[string]bool)
	for i, ws := range config.Workspaces {
		if ws.Project == "" {
			return fmt.Errorf("workspace %d: missing project name", i)
		}
		if ws.Root == "" {
			return fmt.Errorf("workspace '%s': missing root", ws.Project)
		}
		if seen[ws.Project] {
			return fmt.Errorf("duplicate workspace project: %s", ws.Project)
		}
		seen[ws.Project] = true
	}

	if config.LogLevel != "" {
		switch config.LogLevel {
		case types.LogLevelDebug, types.LogLevelInfo, types.LogLevelWarn, types.LogLevelError:
		default:
			return fmt.Errorf("invalid log level: %s", config.LogLevel)
		}
	}

	return nil
}

// GetDefaultConfig returns a default configuration
func (m *Manager) GetDefaultConfig() *types.StagehandConfig {
	enabled := true

	return &types.StagehandConfig{
		Version:    "1.0",
		EngineName: "stagehand",
		LogLevel:   types.LogLevelInfo,
		Workspaces: []types.WorkspaceRoot{},
		Notifications: &types.NotificationConfig{
			Enabled: &enabled,
		},
		Host: &types.HostConfig{
			SettlingDelayMS: 500,
		},
	}
}

func (m *Manager) validateConfig(cfg *types.StagehandConfig) (*types.StagehandConfig, error) {
	if err := m.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
