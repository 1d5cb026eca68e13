// Package watcher funnels host lifecycle events into a single callback
package watcher

import (
	"fmt"
	"sync"

	"github.com/stagehand/stagehand/pkg/interfaces"
	"github.com/stagehand/stagehand/pkg/logger"
	"github.com/stagehand/stagehand/pkg/types"
)

// SubscriptionError indicates one event kind failed to subscribe. It is
// recovered locally: the kind is skipped and the remaining kinds proceed.
type SubscriptionError struct {
	Kind types.EventKind
	Err  error
}

func (e *SubscriptionError) Error() string {
	return fmt.Sprintf("failed to subscribe to %s: %v", e.Kind, e.Err)
}

func (e *SubscriptionError) Unwrap() error {
	return e.Err
}

// EventWatcher encapsulates event handling for multiple host lifecycle
// events and routes them into a single callback.
//
// Subscription handles are independent tokens, so a registration can be
// removed from inside its own callback. Specifying runOnce in Start
// causes all registrations to be cleaned up before the first triggered
// callback runs, so a callback that re-arms the watcher does not race
// with in-flight cleanup.
type EventWatcher struct {
	host   interfaces.HostClient
	logger logger.Logger

	mu       sync.Mutex
	handles  []interfaces.SubscriptionHandle
	runOnce  bool
	callback func()
}

// New creates a watcher over the given host. It does not subscribe to
// anything until Start is called.
func New(host interfaces.HostClient, log logger.Logger) *EventWatcher {
	return &EventWatcher{
		host:   host,
		logger: log.WithScope("watcher"),
	}
}

// Start subscribes to the requested event kinds, replacing any prior
// registrations. A subscription failure for one kind is non-fatal: it is
// logged and the remaining kinds proceed. The host-exiting event is
// always additionally subscribed for cleanup, regardless of the
// requested set.
func (w *EventWatcher) Start(events []types.EventKind, runOnce bool, callback func()) {
	// If currently watching then stop
	w.Stop()

	w.mu.Lock()
	defer w.mu.Unlock()

	w.runOnce = runOnce
	w.callback = callback

	for _, ev := range events {
		handle, err := w.host.Subscribe(ev, w.handleEvent)
		if err != nil {
			subErr := &SubscriptionError{Kind: ev, Err: err}
			w.logger.Warn(subErr.Error())
			continue
		}
		w.handles = append(w.handles, handle)
	}

	// Cleanup registration so an exiting host never leaves us armed
	handle, err := w.host.Subscribe(types.EventHostExiting, w.handleHostExit)
	if err != nil {
		w.logger.Warn((&SubscriptionError{Kind: types.EventHostExiting, Err: err}).Error())
		return
	}
	w.handles = append(w.handles, handle)
}

// Stop unsubscribes all held registrations. It is idempotent and safe to
// call concurrently with itself, including from inside a callback.
func (w *EventWatcher) Stop() {
	w.mu.Lock()
	handles := w.handles
	w.handles = nil
	w.mu.Unlock()

	for _, h := range handles {
		w.host.Unsubscribe(h)
	}
}

// Active reports how many registrations are currently held
func (w *EventWatcher) Active() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.handles)
}

// handleEvent runs on the host's event-delivery context for each
// subscribed scene event
func (w *EventWatcher) handleEvent(kind types.EventKind) {
	w.mu.Lock()
	runOnce := w.runOnce
	callback := w.callback
	w.mu.Unlock()

	// Stop before the callback so a callback that re-arms the watcher
	// does not race with cleanup of the registrations that fired it.
	if runOnce {
		w.Stop()
	}

	w.logger.Debug("host event received", logger.WithField("event", string(kind)))

	if callback != nil {
		callback()
	}
}

// handleHostExit cleans up all registrations when the host exits
func (w *EventWatcher) handleHostExit(kind types.EventKind) {
	w.logger.Debug("host exiting, releasing subscriptions")
	w.Stop()
}
