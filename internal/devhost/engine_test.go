package devhost

import (
	"errors"
	"testing"

	"github.com/stagehand/stagehand/pkg/interfaces"
	"github.com/stagehand/stagehand/pkg/logger"
	"github.com/stagehand/stagehand/pkg/mocks"
	"github.com/stagehand/stagehand/pkg/types"
)

func newTestFactory() *EngineFactory {
	log := logger.CreateLoggerWithOutput("", "debug", nil)
	return NewEngineFactory(log, mocks.NewMockProgressSink())
}

func TestStartEngine_BindsContextAndQueue(t *testing.T) {
	f := newTestFactory()
	ctx := types.Context{Project: "atlas", Entity: "shots/sq010", Task: "anim"}
	ws := &mocks.MockWorkspace{ProjectName: "atlas", RootPath: "/proj/atlas"}

	engine, err := f.StartEngine("maya", ws, ctx)
	if err != nil {
		t.Fatalf("StartEngine() error = %v", err)
	}

	if got := engine.Name(); got != "maya" {
		t.Errorf("Name() = %q, want %q", got, "maya")
	}
	if got := engine.Context(); !got.Equal(ctx) {
		t.Errorf("Context() = %v, want %v", got, ctx)
	}
	if engine.(*Engine).Queue() == nil {
		t.Error("engine should carry a job queue")
	}
}

func TestStartEngine_MissingWorkspaceFails(t *testing.T) {
	f := newTestFactory()

	_, err := f.StartEngine("maya", nil, types.Context{Project: "atlas"})
	var initErr *interfaces.EngineInitError
	if !errors.As(err, &initErr) {
		t.Fatalf("StartEngine() error = %v, want EngineInitError", err)
	}
}

func TestDestroy_SecondCallFails(t *testing.T) {
	f := newTestFactory()
	ws := &mocks.MockWorkspace{ProjectName: "atlas", RootPath: "/proj/atlas"}

	engine, err := f.StartEngine("maya", ws, types.Context{Project: "atlas"})
	if err != nil {
		t.Fatalf("StartEngine() error = %v", err)
	}

	if err := engine.Destroy(); err != nil {
		t.Errorf("first Destroy() error = %v", err)
	}
	if err := engine.Destroy(); err == nil {
		t.Error("second Destroy() should fail")
	}
}
