package logger_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stagehand/stagehand/pkg/logger"
)

func TestCreateLogger(t *testing.T) {
	log := logger.CreateLogger("", "info")
	if log == nil {
		t.Fatal("expected logger to be created")
	}
}

func TestCreateLogger_InvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.CreateLoggerWithOutput("", "not-a-level", &buf)

	log.Debug("hidden at info")
	log.Info("visible at info")

	output := buf.String()
	if strings.Contains(output, "hidden at info") {
		t.Error("debug output should be suppressed at default level")
	}
	if !strings.Contains(output, "visible at info") {
		t.Error("expected info message in log output")
	}
}

func TestLogger_WithScope(t *testing.T) {
	var buf bytes.Buffer
	log := logger.CreateLoggerWithOutput("", "info", &buf)

	scoped := log.WithScope("coordinator")
	scoped.Info("refreshing engine")

	output := buf.String()
	if !strings.Contains(output, "coordinator") {
		t.Error("expected scope name in log output")
	}
}

func TestLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	log := logger.CreateLoggerWithOutput("", "info", &buf)

	log.Info("test message",
		logger.WithField("document", "/proj/shotA/scene.ext"),
		logger.WithField("attempt", 2),
	)

	output := buf.String()
	if !strings.Contains(output, "test message") {
		t.Error("expected message in log output")
	}
	if !strings.Contains(output, "document") {
		t.Error("expected field key in log output")
	}
}

func TestLogger_MultipleScopes(t *testing.T) {
	var buf bytes.Buffer
	baseLog := logger.CreateLoggerWithOutput("", "info", &buf)

	watcher := baseLog.WithScope("watcher")
	queue := baseLog.WithScope("jobqueue")

	watcher.Info("watcher message")
	queue.Info("queue message")

	output := buf.String()
	if !strings.Contains(output, "watcher") {
		t.Error("expected watcher scope in output")
	}
	if !strings.Contains(output, "jobqueue") {
		t.Error("expected jobqueue scope in output")
	}
}

func TestLogger_ErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	log := logger.CreateLoggerWithOutput("", "error", &buf)

	log.Debug("should not appear")
	log.Info("should not appear")
	log.Warn("should not appear")
	log.Error("should appear")

	output := buf.String()
	if strings.Contains(output, "should not appear") {
		t.Error("lower level logs should not appear with error level")
	}
	if !strings.Contains(output, "should appear") {
		t.Error("error level log should appear")
	}
}
