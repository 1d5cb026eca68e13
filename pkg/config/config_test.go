package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagehand/stagehand/pkg/config"
	"github.com/stagehand/stagehand/pkg/types"
)

func writeTempConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_JSON(t *testing.T) {
	path := writeTempConfig(t, "stagehand.config.json", `{
		"version": "1.0",
		"engineName": "shot-engine",
		"workspaces": [{"project": "shotA", "root": "/proj/shotA"}]
	}`)

	m := config.NewManager()
	cfg, err := m.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "shot-engine", cfg.EngineName)
	assert.Len(t, cfg.Workspaces, 1)
}

func TestLoadConfig_YAML(t *testing.T) {
	path := writeTempConfig(t, "stagehand.config.yaml", `
version: "1.0"
engineName: shot-engine
logLevel: debug
workspaces:
  - project: shotA
    root: /proj/shotA
  - project: other
    root: /proj/other
`)

	m := config.NewManager()
	cfg, err := m.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, types.LogLevelDebug, cfg.LogLevel)
	assert.Len(t, cfg.Workspaces, 2)
}

func TestLoadConfig_Garbage(t *testing.T) {
	path := writeTempConfig(t, "broken.json", `{{{not parseable`)

	m := config.NewManager()
	_, err := m.LoadConfig(path)
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *types.StagehandConfig)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(cfg *types.StagehandConfig) {},
		},
		{
			name:    "wrong version",
			mutate:  func(cfg *types.StagehandConfig) { cfg.Version = "2.0" },
			wantErr: "unsupported config version",
		},
		{
			name:    "missing engine name",
			mutate:  func(cfg *types.StagehandConfig) { cfg.EngineName = "" },
			wantErr: "missing engine name",
		},
		{
			name:    "no workspaces",
			mutate:  func(cfg *types.StagehandConfig) { cfg.Workspaces = nil },
			wantErr: "no workspace roots",
		},
		{
			name: "duplicate project",
			mutate: func(cfg *types.StagehandConfig) {
				cfg.Workspaces = append(cfg.Workspaces, cfg.Workspaces[0])
			},
			wantErr: "duplicate workspace project",
		},
		{
			name:    "invalid log level",
			mutate:  func(cfg *types.StagehandConfig) { cfg.LogLevel = "loud" },
			wantErr: "invalid log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &types.StagehandConfig{
				Version:    "1.0",
				EngineName: "shot-engine",
				Workspaces: []types.WorkspaceRoot{{Project: "shotA", Root: "/proj/shotA"}},
			}
			tt.mutate(cfg)

			err := config.NewManager().ValidateConfig(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestGetDefaultConfig(t *testing.T) {
	cfg := config.NewManager().GetDefaultConfig()

	assert.Equal(t, "1.0", cfg.Version)
	assert.NotEmpty(t, cfg.EngineName)
	require.NotNil(t, cfg.Notifications)
	require.NotNil(t, cfg.Notifications.Enabled)
	assert.True(t, *cfg.Notifications.Enabled)
}
