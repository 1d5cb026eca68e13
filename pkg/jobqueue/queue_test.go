package jobqueue_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagehand/stagehand/pkg/jobqueue"
	"github.com/stagehand/stagehand/pkg/logger"
	"github.com/stagehand/stagehand/pkg/mocks"
)

func newTestQueue() (*jobqueue.Queue, *mocks.MockProgressSink) {
	sink := mocks.NewMockProgressSink()
	log := logger.CreateLoggerWithOutput("", "debug", nil)
	return jobqueue.New(log, sink), sink
}

func TestDrain_ExecutesFIFO(t *testing.T) {
	q, _ := newTestQueue()

	var order []string
	record := func(name string) jobqueue.Action {
		return func(args map[string]interface{}) error {
			order = append(order, name)
			return nil
		}
	}

	q.Enqueue("first", record("first"), nil)
	q.Enqueue("second", record("second"), nil)
	q.Enqueue("third", record("third"), nil)
	q.Drain()

	assert.Equal(t, []string{"first", "second", "third"}, order)
	assert.Equal(t, 0, q.Size())
}

func TestDrain_InjectsProgressCallback(t *testing.T) {
	q, sink := newTestQueue()

	q.Enqueue("export", func(args map[string]interface{}) error {
		report, ok := args[jobqueue.ProgressCallbackArg].(jobqueue.ProgressFunc)
		require.True(t, ok, "progress callback must be injected under the reserved key")
		report(25)
		report(60)
		report(100)
		return nil
	}, map[string]interface{}{"format": "abc"})
	q.Drain()

	// deltas between successive absolute percentages are relayed
	assert.Equal(t, []string{"begin export", "step 25", "step 35", "step 40", "end"}, sink.Events())
}

func TestDrain_ProgressResetsPerJob(t *testing.T) {
	q, sink := newTestQueue()

	report := func(args map[string]interface{}) error {
		args[jobqueue.ProgressCallbackArg].(jobqueue.ProgressFunc)(50)
		return nil
	}

	q.Enqueue("a", report, nil)
	q.Enqueue("b", report, nil)
	q.Drain()

	assert.Equal(t, []string{"begin a", "step 50", "end", "begin b", "step 50", "end"}, sink.Events())
}

func TestDrain_JobFailureDoesNotAbortQueue(t *testing.T) {
	q, sink := newTestQueue()

	var ran []string
	q.Enqueue("one", func(args map[string]interface{}) error {
		ran = append(ran, "one")
		return nil
	}, nil)
	q.Enqueue("two", func(args map[string]interface{}) error {
		return errors.New("disk full")
	}, nil)
	q.Enqueue("three", func(args map[string]interface{}) error {
		ran = append(ran, "three")
		return nil
	}, nil)
	q.Drain()

	assert.Equal(t, []string{"one", "three"}, ran)

	// every job gets exactly one end-of-progress signal, failed or not
	ends := 0
	for _, ev := range sink.Events() {
		if ev == "end" {
			ends++
		}
	}
	assert.Equal(t, 3, ends)
}

func TestDrain_PanickingJobIsIsolated(t *testing.T) {
	q, sink := newTestQueue()

	var ran []string
	q.Enqueue("boom", func(args map[string]interface{}) error {
		panic("bad plugin")
	}, nil)
	q.Enqueue("after", func(args map[string]interface{}) error {
		ran = append(ran, "after")
		return nil
	}, nil)
	q.Drain()

	assert.Equal(t, []string{"after"}, ran)

	events := sink.Events()
	require.GreaterOrEqual(t, len(events), 2)
	assert.Equal(t, "begin boom", events[0])
	assert.Equal(t, "end", events[1], "EndProgress must fire even when the action panics")
}

func TestEnqueueAndDrain_WarnDeprecated(t *testing.T) {
	var buf bytes.Buffer
	sink := mocks.NewMockProgressSink()
	log := logger.CreateLoggerWithOutput("", "warn", &buf)
	q := jobqueue.New(log, sink)

	q.Enqueue("noop", func(args map[string]interface{}) error { return nil }, nil)
	q.Drain()

	warnings := strings.Count(buf.String(), "deprecated")
	assert.Equal(t, 2, warnings, "both Enqueue and Drain must warn")
}

func TestEnqueue_DoesNotStartExecution(t *testing.T) {
	q, sink := newTestQueue()

	ran := false
	q.Enqueue("idle", func(args map[string]interface{}) error {
		ran = true
		return nil
	}, nil)

	assert.False(t, ran)
	assert.Equal(t, 1, q.Size())
	assert.Empty(t, sink.Events())
}
