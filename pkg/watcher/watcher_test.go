package watcher

import (
	"errors"
	"sync"
	"testing"

	"github.com/stagehand/stagehand/pkg/logger"
	"github.com/stagehand/stagehand/pkg/mocks"
	"github.com/stagehand/stagehand/pkg/types"
)

func newTestWatcher() (*EventWatcher, *mocks.MockHostClient) {
	host := mocks.NewMockHostClient()
	log := logger.CreateLoggerWithOutput("", "debug", nil)
	return New(host, log), host
}

func TestStart_SubscribesRequestedEventsPlusExit(t *testing.T) {
	w, host := newTestWatcher()

	w.Start(types.DefaultSceneEvents, false, func() {})

	// three scene events plus the cleanup registration
	if got := host.SubscriptionCount(); got != 4 {
		t.Errorf("expected 4 subscriptions, got %d", got)
	}
	if got := host.SubscriptionCountFor(types.EventHostExiting); got != 1 {
		t.Errorf("expected host-exiting cleanup subscription, got %d", got)
	}
}

func TestStart_ReplacesPriorRegistrations(t *testing.T) {
	w, host := newTestWatcher()

	w.Start(types.DefaultSceneEvents, false, func() {})
	w.Start(types.DefaultSceneEvents, false, func() {})

	// no duplicate subscriptions ever coexist
	if got := host.SubscriptionCount(); got != 4 {
		t.Errorf("expected 4 subscriptions after restart, got %d", got)
	}
}

func TestStart_SubscriptionFailureIsSkipped(t *testing.T) {
	w, host := newTestWatcher()
	host.SetSubscribeError(types.EventDocumentSaved, errors.New("host refused"))

	fired := 0
	w.Start(types.DefaultSceneEvents, false, func() { fired++ })

	// saved failed, opened/created plus cleanup remain
	if got := host.SubscriptionCount(); got != 3 {
		t.Errorf("expected 3 subscriptions, got %d", got)
	}

	host.Trigger(types.EventDocumentOpened)
	if fired != 1 {
		t.Errorf("expected surviving subscriptions to fire, got %d calls", fired)
	}
}

func TestStop_Idempotent(t *testing.T) {
	w, host := newTestWatcher()
	w.Start(types.DefaultSceneEvents, false, func() {})

	w.Stop()
	w.Stop()

	if got := host.SubscriptionCount(); got != 0 {
		t.Errorf("expected zero subscriptions after stop, got %d", got)
	}
	if got := w.Active(); got != 0 {
		t.Errorf("expected zero held handles after stop, got %d", got)
	}
}

func TestStop_ConcurrentCallsAreSafe(t *testing.T) {
	w, host := newTestWatcher()
	w.Start(types.DefaultSceneEvents, false, func() {})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.Stop()
		}()
	}
	wg.Wait()

	if got := host.SubscriptionCount(); got != 0 {
		t.Errorf("expected zero subscriptions, got %d", got)
	}
}

func TestRunOnce_StopsBeforeCallback(t *testing.T) {
	w, host := newTestWatcher()

	activeDuringCallback := -1
	w.Start(types.DefaultSceneEvents, true, func() {
		activeDuringCallback = w.Active()
	})

	host.Trigger(types.EventDocumentSaved)

	if activeDuringCallback != 0 {
		t.Errorf("expected cleanup before callback, saw %d active handles", activeDuringCallback)
	}
	if got := host.SubscriptionCount(); got != 0 {
		t.Errorf("expected no subscriptions after one-shot fire, got %d", got)
	}
}

func TestRunOnce_CallbackCanRearm(t *testing.T) {
	w, host := newTestWatcher()

	fired := 0
	var rearm func()
	rearm = func() {
		fired++
		if fired < 2 {
			w.Start(types.DefaultSceneEvents, true, rearm)
		}
	}
	w.Start(types.DefaultSceneEvents, true, rearm)

	host.Trigger(types.EventDocumentOpened)
	host.Trigger(types.EventDocumentOpened)

	if fired != 2 {
		t.Errorf("expected re-armed watcher to fire again, got %d calls", fired)
	}
}

func TestHostExiting_StopsAutomatically(t *testing.T) {
	w, host := newTestWatcher()

	fired := false
	w.Start(types.DefaultSceneEvents, false, func() { fired = true })

	host.Trigger(types.EventHostExiting)

	if got := host.SubscriptionCount(); got != 0 {
		t.Errorf("expected cleanup on host exit, got %d subscriptions", got)
	}
	if fired {
		t.Error("host-exiting must not invoke the scene callback")
	}
	if got := w.Active(); got != 0 {
		t.Errorf("expected zero held handles, got %d", got)
	}
}

func TestPersistentWatcher_FiresRepeatedly(t *testing.T) {
	w, host := newTestWatcher()

	fired := 0
	w.Start(types.DefaultSceneEvents, false, func() { fired++ })

	host.Trigger(types.EventDocumentSaved)
	host.Trigger(types.EventDocumentCreated)
	host.Trigger(types.EventDocumentOpened)

	if fired != 3 {
		t.Errorf("expected 3 callback invocations, got %d", fired)
	}
	if got := host.SubscriptionCount(); got != 4 {
		t.Errorf("persistent watcher should remain armed, got %d subscriptions", got)
	}
}
