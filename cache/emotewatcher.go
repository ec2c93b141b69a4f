// Copyright 2026 Rayrnond
// Licensed under the Apache-2.0 licence, see LICENCE file for details.

package cache

import (
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/juju/pubsub/v2"
	"gopkg.in/tomb.v2"
)

// EmoteWatcher passes back the emote record each time a change for it
// is processed by the cache.
type EmoteWatcher struct {
	tomb    tomb.Tomb
	changes chan *Emote
	// We can't send down a closed channel, so protect the sending
	// with a mutex and bool. Since you can't really even ask a channel
	// if it is closed.
	closed bool
	mu     sync.Mutex
}

func newEmoteWatcher(id snowflake.ID, hub *pubsub.SimpleHub) *EmoteWatcher {
	// A single entry buffer; a pending undelivered change is simply
	// superseded by the next one for the same emote.
	w := &EmoteWatcher{
		changes: make(chan *Emote, 1),
	}
	unsub := hub.Subscribe(emoteChangeTopic(id), w.onUpdate)
	w.tomb.Go(func() error {
		<-w.tomb.Dying()
		unsub()
		return nil
	})
	return w
}

// Changes is part of the core watcher definition.
func (w *EmoteWatcher) Changes() <-chan *Emote {
	return w.changes
}

// Kill is part of the worker.Worker interface.
func (w *EmoteWatcher) Kill() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}

	// The watcher must be dying or dead before we close the channel.
	// Otherwise readers could fail, but the watcher's tomb would
	// indicate "still alive".
	w.tomb.Kill(nil)
	w.closed = true
	close(w.changes)
}

// Wait is part of the worker.Worker interface.
func (w *EmoteWatcher) Wait() error {
	return w.tomb.Wait()
}

// Stop kills the watcher and waits for it to finish.
func (w *EmoteWatcher) Stop() error {
	w.Kill()
	return w.Wait()
}

func (w *EmoteWatcher) onUpdate(topic string, data interface{}) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}

	emote, ok := data.(*Emote)
	if !ok {
		logger.Criticalf("programming error: topic data expected *Emote, got %T", data)
		return
	}

	select {
	case w.changes <- emote:
	default:
		// A change is already pending; the reader will observe the
		// emote's latest state when it collects it.
	}
}
