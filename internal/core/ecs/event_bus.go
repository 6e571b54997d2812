package ecs

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Listener receives delivered events.
type Listener func(Event)

// Unsubscribe detaches a previously-registered listener. Safe to call more
// than once.
type Unsubscribe func()

// EventFilter selects a subset of history. A nil filter matches everything.
type EventFilter func(Event) bool

const maxListenerWarnings = 5

type listenerEntry struct {
	id   uint64
	fn   Listener
	once bool
}

// EventBusStats is a point-in-time snapshot of bus activity.
type EventBusStats struct {
	TotalEmitted   int64
	TotalListeners int
	HistorySize    int
}

// EventBus is a synchronous, reentrant, single-threaded pub/sub hub (§4.5).
// Delivery order is type-specific listeners (registration order), then
// onAll listeners. Listener panics are caught, logged with backoff, and
// never interrupt delivery to the remaining listeners or the caller.
type EventBus struct {
	mu             sync.Mutex
	listeners      map[EventType][]*listenerEntry
	onAll          []*listenerEntry
	nextID         uint64
	historyEnabled bool
	historyMax     int
	history        []Event
	stats          EventBusStats
	warnCounts     map[string]int
	logger         logrus.FieldLogger
}

// NewEventBus creates an EventBus. logger defaults to logrus's standard
// logger when nil.
func NewEventBus(logger logrus.FieldLogger) *EventBus {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &EventBus{
		listeners:  make(map[EventType][]*listenerEntry),
		historyMax: 1000,
		warnCounts: make(map[string]int),
		logger:     logger,
	}
}

// On registers fn for every emission of type t.
func (b *EventBus) On(t EventType, fn Listener) Unsubscribe {
	return b.subscribe(t, fn, false)
}

// Once registers fn for the next emission of type t only.
func (b *EventBus) Once(t EventType, fn Listener) Unsubscribe {
	return b.subscribe(t, fn, true)
}

func (b *EventBus) subscribe(t EventType, fn Listener, once bool) Unsubscribe {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	entry := &listenerEntry{id: id, fn: fn, once: once}
	b.listeners[t] = append(b.listeners[t], entry)
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.listeners[t] = removeEntry(b.listeners[t], id)
	}
}

// OnAll registers fn for every emission regardless of type, delivered after
// all type-specific listeners.
func (b *EventBus) OnAll(fn Listener) Unsubscribe {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	entry := &listenerEntry{id: id, fn: fn}
	b.onAll = append(b.onAll, entry)
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.onAll = removeEntry(b.onAll, id)
	}
}

// Off removes every listener registered for t (onAll listeners are
// unaffected).
func (b *EventBus) Off(t EventType) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.listeners, t)
}

// Clear removes every listener, of every type, including onAll.
func (b *EventBus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = make(map[EventType][]*listenerEntry)
	b.onAll = nil
}

// Emit delivers data, synchronously and re-entrantly, to every listener
// subscribed to eventType, then to every onAll listener. It never fails
// observably: listener panics are caught and logged.
func (b *EventBus) Emit(eventType EventType, data interface{}, source string, entityID EntityID) {
	ev := NewEvent(eventType, data, source, entityID)
	b.recordHistory(ev)

	b.mu.Lock()
	b.stats.TotalEmitted++
	typeListeners := append([]*listenerEntry(nil), b.listeners[eventType]...)
	allListeners := append([]*listenerEntry(nil), b.onAll...)
	b.mu.Unlock()

	var expired []uint64
	for _, l := range typeListeners {
		b.invoke(l, ev, string(eventType))
		if l.once {
			expired = append(expired, l.id)
		}
	}
	for _, l := range allListeners {
		b.invoke(l, ev, "onAll")
		if l.once {
			expired = append(expired, l.id)
		}
	}

	if len(expired) > 0 {
		b.mu.Lock()
		b.listeners[eventType] = removeEntries(b.listeners[eventType], expired)
		b.onAll = removeEntries(b.onAll, expired)
		b.mu.Unlock()
	}
}

func (b *EventBus) invoke(l *listenerEntry, ev Event, source string) {
	defer func() {
		if r := recover(); r != nil {
			b.logListenerFailure(source, r)
		}
	}()
	l.fn(ev)
}

// logListenerFailure logs the first maxListenerWarnings panics per source at
// Warn, then a single suppression notice, then stays silent (§4.5, §7).
func (b *EventBus) logListenerFailure(source string, recovered interface{}) {
	b.mu.Lock()
	b.warnCounts[source]++
	count := b.warnCounts[source]
	b.mu.Unlock()

	switch {
	case count <= maxListenerWarnings:
		b.logger.WithField("source", source).Warnf("event listener panic: %v", recovered)
	case count == maxListenerWarnings+1:
		b.logger.WithField("source", source).Warn("suppressing further listener panic logs for this source")
	}
}

func (b *EventBus) recordHistory(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.historyEnabled {
		return
	}
	b.history = append(b.history, ev)
	if len(b.history) > b.historyMax {
		b.history = b.history[len(b.history)-b.historyMax:]
	}
	b.stats.HistorySize = len(b.history)
}

// SetHistoryEnabled toggles history recording and (re)sizes the ring.
// Shrinking below the current length drops the oldest entries immediately.
func (b *EventBus) SetHistoryEnabled(enabled bool, maxSize int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.historyEnabled = enabled
	if maxSize > 0 {
		b.historyMax = maxSize
	}
	if len(b.history) > b.historyMax {
		b.history = b.history[len(b.history)-b.historyMax:]
	}
	b.stats.HistorySize = len(b.history)
}

// GetHistory returns every recorded event matching filter, in emission
// order. A nil filter returns the full history.
func (b *EventBus) GetHistory(filter EventFilter) []Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	if filter == nil {
		return append([]Event(nil), b.history...)
	}
	result := make([]Event, 0, len(b.history))
	for _, ev := range b.history {
		if filter(ev) {
			result = append(result, ev)
		}
	}
	return result
}

// ClearHistory empties the history ring without touching listeners.
func (b *EventBus) ClearHistory() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.history = nil
	b.stats.HistorySize = 0
}

// GetEventsByType returns every recorded event of type t.
func (b *EventBus) GetEventsByType(t EventType) []Event {
	return b.GetHistory(func(ev Event) bool { return ev.Type == t })
}

// GetEventsByEntity returns every recorded event concerning entity id.
func (b *EventBus) GetEventsByEntity(id EntityID) []Event {
	return b.GetHistory(func(ev Event) bool { return ev.EntityID == id })
}

// Replay re-emits events in order, pacing each re-emission by the original
// inter-event gap scaled by 1/speed. Non-positive gaps dispatch immediately.
// Blocks the calling goroutine until every event has been re-emitted, then
// calls onComplete.
func (b *EventBus) Replay(events []Event, speed float64, onComplete func()) {
	if speed <= 0 {
		speed = 1
	}
	var prev time.Time
	for i, ev := range events {
		if i > 0 {
			gap := ev.Timestamp.Sub(prev)
			if scaled := time.Duration(float64(gap) / speed); scaled > 0 {
				time.Sleep(scaled)
			}
		}
		b.Emit(ev.Type, ev.Data, ev.Source, ev.EntityID)
		prev = ev.Timestamp
	}
	if onComplete != nil {
		onComplete()
	}
}

// GetStats returns a snapshot of bus activity.
func (b *EventBus) GetStats() EventBusStats {
	b.mu.Lock()
	defer b.mu.Unlock()
	stats := b.stats
	total := len(b.onAll)
	for _, l := range b.listeners {
		total += len(l)
	}
	stats.TotalListeners = total
	return stats
}

func removeEntry(entries []*listenerEntry, id uint64) []*listenerEntry {
	for i, e := range entries {
		if e.id == id {
			return append(entries[:i:i], entries[i+1:]...)
		}
	}
	return entries
}

func removeEntries(entries []*listenerEntry, ids []uint64) []*listenerEntry {
	if len(ids) == 0 {
		return entries
	}
	drop := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	result := entries[:0:0]
	for _, e := range entries {
		if _, ok := drop[e.id]; !ok {
			result = append(result, e)
		}
	}
	return result
}
