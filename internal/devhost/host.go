// Package devhost provides a filesystem-backed stand-in for a real host
// application, used by the stagehand run command to exercise the full
// lifecycle locally.
package devhost

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/stagehand/stagehand/pkg/interfaces"
	"github.com/stagehand/stagehand/pkg/logger"
	"github.com/stagehand/stagehand/pkg/types"
)

const defaultSettlingDelay = 250 * time.Millisecond

type subscription struct {
	kind    types.EventKind
	handler interfaces.EventHandler
}

// Host simulates a host application over the local filesystem. Opening a
// document watches its file; a write to the file is reported as a
// document-saved event once it settles. All events are dispatched
// serially on a single goroutine, matching the single-threaded delivery
// contract real hosts give their plugins.
type Host struct {
	logger   logger.Logger
	settling time.Duration
	fsw      *fsnotify.Watcher

	mu          sync.Mutex
	closed      bool
	currentPath string
	subs        map[interfaces.SubscriptionHandle]subscription

	events    chan types.EventKind
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a host simulator. Close must be called to release the
// filesystem watcher.
func New(cfg types.HostConfig, log logger.Logger) (*Host, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	settling := defaultSettlingDelay
	if cfg.SettlingDelayMS > 0 {
		settling = time.Duration(cfg.SettlingDelayMS) * time.Millisecond
	}

	h := &Host{
		logger:   log.WithScope("devhost"),
		settling: settling,
		fsw:      fsw,
		subs:     make(map[interfaces.SubscriptionHandle]subscription),
		events:   make(chan types.EventKind, 16),
		done:     make(chan struct{}),
	}

	go h.watchLoop()
	go h.dispatchLoop()

	if cfg.DocumentPath != "" {
		if err := h.OpenDocument(cfg.DocumentPath); err != nil {
			h.Close()
			return nil, err
		}
	}
	return h, nil
}

// CurrentDocumentPath returns the path of the simulated open document
func (h *Host) CurrentDocumentPath() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.currentPath
}

// Subscribe registers a handler for one event kind
func (h *Host) Subscribe(kind types.EventKind, handler interfaces.EventHandler) (interfaces.SubscriptionHandle, error) {
	if err := kind.Validate(); err != nil {
		return "", err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return "", ErrHostClosed
	}

	handle := interfaces.SubscriptionHandle(uuid.New().String())
	h.subs[handle] = subscription{kind: kind, handler: handler}
	return handle, nil
}

// Unsubscribe releases a subscription; unknown handles are a no-op
func (h *Host) Unsubscribe(handle interfaces.SubscriptionHandle) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs, handle)
}

// OpenDocument simulates the user opening a document. The file's writes
// are watched from now on and reported as saves.
func (h *Host) OpenDocument(path string) error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return ErrHostClosed
	}
	previous := h.currentPath
	h.currentPath = path
	h.mu.Unlock()

	if previous != "" {
		// Removing a path that vanished from the watcher is harmless
		_ = h.fsw.Remove(previous)
	}
	if err := h.fsw.Add(path); err != nil {
		h.logger.Warn("cannot watch document for saves",
			logger.WithField("path", path),
			logger.WithField("error", err))
	}

	h.logger.Info("document opened", logger.WithField("path", path))
	h.emit(types.EventDocumentOpened)
	return nil
}

// NewDocument simulates the user creating a new empty, unsaved document
func (h *Host) NewDocument() {
	h.mu.Lock()
	previous := h.currentPath
	h.currentPath = ""
	h.mu.Unlock()

	if previous != "" {
		_ = h.fsw.Remove(previous)
	}

	h.logger.Info("new empty document")
	h.emit(types.EventDocumentCreated)
}

// Exit simulates host shutdown: the host-exiting event is delivered and
// the simulator closes.
func (h *Host) Exit() {
	h.emit(types.EventHostExiting)
	h.Close()
}

// Close releases the filesystem watcher and stops event delivery
func (h *Host) Close() {
	h.closeOnce.Do(func() {
		h.mu.Lock()
		h.closed = true
		h.mu.Unlock()
		close(h.done)
		h.fsw.Close()
	})
}

// Done is closed when the host has shut down
func (h *Host) Done() <-chan struct{} {
	return h.done
}

// watchLoop turns raw filesystem writes into settled save events.
// Editors produce bursts of writes per save; only the trailing edge is
// reported.
func (h *Host) watchLoop() {
	var settle *time.Timer
	for {
		select {
		case <-h.done:
			return
		case ev, ok := <-h.fsw.Events:
			if !ok {
				return
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) {
				continue
			}
			if ev.Name != h.CurrentDocumentPath() {
				continue
			}
			if settle != nil {
				settle.Stop()
			}
			settle = time.AfterFunc(h.settling, func() {
				h.logger.Debug("document saved", logger.WithField("path", ev.Name))
				h.emit(types.EventDocumentSaved)
			})
		case err, ok := <-h.fsw.Errors:
			if !ok {
				return
			}
			h.logger.Warn("filesystem watcher error", logger.WithField("error", err))
		}
	}
}

// dispatchLoop delivers events to handlers one at a time
func (h *Host) dispatchLoop() {
	for {
		select {
		case <-h.done:
			// Drain so a final host-exiting emit is still delivered
			select {
			case kind := <-h.events:
				h.deliver(kind)
				continue
			default:
				return
			}
		case kind := <-h.events:
			h.deliver(kind)
		}
	}
}

func (h *Host) emit(kind types.EventKind) {
	select {
	case h.events <- kind:
	default:
		h.logger.Warn("event dropped, dispatch backlog full",
			logger.WithField("event", string(kind)))
	}
}

func (h *Host) deliver(kind types.EventKind) {
	h.mu.Lock()
	handlers := make([]interfaces.EventHandler, 0, len(h.subs))
	for _, sub := range h.subs {
		if sub.kind == kind {
			handlers = append(handlers, sub.handler)
		}
	}
	h.mu.Unlock()

	for _, handler := range handlers {
		handler(kind)
	}
}
