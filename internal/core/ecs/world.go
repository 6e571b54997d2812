package ecs

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Supplemented error codes for tags and groups (§12). Not part of the
// core structural taxonomy in errors.go, but raised the same way.
const (
	ErrEmptyTag      = "EMPTY_TAG"
	ErrGroupExists   = "GROUP_EXISTS"
	ErrGroupNotFound = "GROUP_NOT_FOUND"
)

// QueryKey identifies a system's required-component signature as the
// sorted, comma-joined list of its required component types (§4.4).
type QueryKey string

func newQueryKey(types []ComponentType) QueryKey {
	if len(types) == 0 {
		return QueryKey("")
	}
	sorted := append([]ComponentType(nil), types...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	parts := make([]string, len(sorted))
	for i, t := range sorted {
		parts[i] = string(t)
	}
	return QueryKey(strings.Join(parts, ","))
}

type attachedSystem struct {
	system System
	key    QueryKey
}

// World owns every entity, every attached system, and the per-tick query
// cache that matches entities against systems' required components. It
// also owns the supplemented tag and group indices (§4.4, §12).
type World struct {
	mu sync.Mutex

	entities map[EntityID]*Entity
	active   *EntitySet
	nextID   EntityID
	freeList []EntityID

	registry *ComponentRegistry

	order   []SystemName
	systems map[SystemName]*attachedSystem
	metrics map[SystemName]*SystemMetrics

	queries    map[QueryKey]*EntitySet
	queryTypes map[QueryKey][]ComponentType

	tags        map[EntityID]string
	tagEntities map[string][]EntityID

	groups       map[string][]EntityID
	entityGroups map[EntityID][]string

	frameCount uint64
	totalTime  float64

	profiler *Profiler
}

// NewWorld creates an empty world backed by registry for component
// creation and release.
func NewWorld(registry *ComponentRegistry) *World {
	return &World{
		entities:     make(map[EntityID]*Entity, DefaultMaxEntities),
		active:       NewEntitySet(),
		nextID:       1,
		registry:     registry,
		systems:      make(map[SystemName]*attachedSystem),
		metrics:      make(map[SystemName]*SystemMetrics),
		queries:      make(map[QueryKey]*EntitySet),
		queryTypes:   make(map[QueryKey][]ComponentType),
		tags:         make(map[EntityID]string),
		tagEntities:  make(map[string][]EntityID),
		groups:       make(map[string][]EntityID),
		entityGroups: make(map[EntityID][]string),
	}
}

// ==============================================
// Entity lifecycle
// ==============================================

// CreateEntity allocates a new entity, reusing the most recently freed id
// if one is available, otherwise drawing the next id from a monotonically
// increasing counter that starts at 1 (§4.4).
func (w *World) CreateEntity() *Entity {
	w.mu.Lock()
	defer w.mu.Unlock()

	var id EntityID
	if n := len(w.freeList); n > 0 {
		id = w.freeList[n-1]
		w.freeList = w.freeList[:n-1]
	} else {
		id = w.nextID
		w.nextID++
	}

	e := NewEntity(id)
	w.entities[id] = e
	w.active.Add(id)
	return e
}

// DestroyEntity removes id from every query, from the entities map, and
// from the tag/group indices, then releases its components to the
// registry and pushes its id onto the free-list for reuse (§4.4).
func (w *World) DestroyEntity(id EntityID) error {
	w.mu.Lock()
	e, ok := w.entities[id]
	if !ok {
		w.mu.Unlock()
		return EntityNotFoundErr(id)
	}

	delete(w.entities, id)
	w.active.Remove(id)
	for _, qs := range w.queries {
		qs.Remove(id)
	}
	w.removeEntityFromTagLocked(id)
	for _, g := range w.entityGroups[id] {
		w.groups[g] = removeID(w.groups[g], id)
	}
	delete(w.entityGroups, id)

	removed := e.Clear()
	w.freeList = append(w.freeList, id)
	w.mu.Unlock()

	for _, c := range removed {
		w.registry.Release(c)
	}
	return nil
}

// GetEntity returns the entity with id, if it exists.
func (w *World) GetEntity(id EntityID) (*Entity, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	e, ok := w.entities[id]
	return e, ok
}

// IsValid reports whether id names a live entity.
func (w *World) IsValid(id EntityID) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.entities[id]
	return ok
}

// GetActiveEntities returns every entity id currently tracked, sorted
// ascending.
func (w *World) GetActiveEntities() []EntityID {
	return w.active.ToSlice()
}

// EntityCount returns the number of live entities.
func (w *World) EntityCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.entities)
}

// GetEntitiesWithComponents scans every active entity for one satisfying
// every type in types. It is an ad hoc query, independent of the per-tick
// cache built for attached systems.
func (w *World) GetEntitiesWithComponents(types ...ComponentType) []EntityID {
	ids := w.active.ToSlice()
	w.mu.Lock()
	defer w.mu.Unlock()
	result := make([]EntityID, 0, len(ids))
	for _, id := range ids {
		if e, ok := w.entities[id]; ok && e.HasComponents(types...) {
			result = append(result, id)
		}
	}
	return result
}

// ==============================================
// Component access
// ==============================================

// AddComponent attaches c to the entity named by id.
func (w *World) AddComponent(id EntityID, c Component) error {
	w.mu.Lock()
	e, ok := w.entities[id]
	w.mu.Unlock()
	if !ok {
		return EntityNotFoundErr(id)
	}
	return e.AddComponent(c)
}

// RemoveComponent detaches the component of type t from entity id and
// releases it to the registry's pool.
func (w *World) RemoveComponent(id EntityID, t ComponentType) error {
	w.mu.Lock()
	e, ok := w.entities[id]
	w.mu.Unlock()
	if !ok {
		return EntityNotFoundErr(id)
	}
	if c := e.RemoveComponent(t); c != nil {
		w.registry.Release(c)
	}
	return nil
}

// GetComponent returns the component of type t attached to entity id.
func (w *World) GetComponent(id EntityID, t ComponentType) (Component, bool) {
	w.mu.Lock()
	e, ok := w.entities[id]
	w.mu.Unlock()
	if !ok {
		return nil, false
	}
	return e.GetComponent(t)
}

// HasComponent reports whether entity id has a component of type t.
func (w *World) HasComponent(id EntityID, t ComponentType) bool {
	w.mu.Lock()
	e, ok := w.entities[id]
	w.mu.Unlock()
	return ok && e.HasComponent(t)
}

// ==============================================
// System lifecycle & tick
// ==============================================

// AddSystem attaches s under its own name, in insertion order, and
// derives its QueryKey from its required components. If s implements
// Initializer, Initialize is called once, outside the world lock.
func (w *World) AddSystem(s System) error {
	w.mu.Lock()
	name := s.Name()
	if _, exists := w.systems[name]; exists {
		w.mu.Unlock()
		return SystemAlreadyAttachedErr(name)
	}
	key := newQueryKey(s.RequiredComponents())
	w.systems[name] = &attachedSystem{system: s, key: key}
	w.metrics[name] = &SystemMetrics{Name: name}
	w.order = append(w.order, name)
	if _, ok := w.queries[key]; !ok {
		w.queries[key] = NewEntitySet()
		w.queryTypes[key] = append([]ComponentType(nil), s.RequiredComponents()...)
	}
	w.mu.Unlock()

	if init, ok := s.(Initializer); ok {
		return init.Initialize(w)
	}
	return nil
}

// RemoveSystem detaches the system named name. If it implements Destroyer,
// Destroy is called once, outside the world lock.
func (w *World) RemoveSystem(name SystemName) error {
	w.mu.Lock()
	as, ok := w.systems[name]
	if !ok {
		w.mu.Unlock()
		return UnknownSystemErr(name)
	}
	delete(w.systems, name)
	delete(w.metrics, name)
	for i, n := range w.order {
		if n == name {
			w.order = append(w.order[:i:i], w.order[i+1:]...)
			break
		}
	}
	w.mu.Unlock()

	if d, ok := as.system.(Destroyer); ok {
		return d.Destroy()
	}
	return nil
}

// GetSystem returns the system attached under name.
func (w *World) GetSystem(name SystemName) (System, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	as, ok := w.systems[name]
	if !ok {
		return nil, false
	}
	return as.system, true
}

// GetSystemMetrics returns a snapshot of the named system's accumulated
// per-tick timing.
func (w *World) GetSystemMetrics(name SystemName) (SystemMetrics, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	m, ok := w.metrics[name]
	if !ok {
		return SystemMetrics{}, false
	}
	return *m, true
}

// Update advances the world by one tick: it rebuilds the query cache in a
// single pass over active entities, then dispatches every enabled system
// in insertion order against its matched entities, recording per-system
// timing and entity-count metrics (§4.4).
func (w *World) Update(deltaMs float64) {
	w.mu.Lock()
	w.frameCount++
	w.totalTime += deltaMs
	ctx := Context{DeltaTime: deltaMs, TotalTime: w.totalTime, FrameCount: w.frameCount}

	w.rebuildQueriesLocked()

	order := append([]SystemName(nil), w.order...)
	snapshot := make(map[SystemName]*attachedSystem, len(w.systems))
	for n, as := range w.systems {
		snapshot[n] = as
	}
	queries := w.queries
	profiler := w.profiler
	w.mu.Unlock()

	if profiler != nil {
		profiler.BeginFrame(ctx.FrameCount)
	}

	for _, name := range order {
		as, ok := snapshot[name]
		if !ok || !as.system.Enabled() {
			continue
		}
		matched := queries[as.key].ToSlice()

		markName := "system." + string(name)
		if profiler != nil {
			profiler.BeginMark(markName, MarkMeta{"entity_count": len(matched)})
		}
		start := time.Now()
		err := as.system.Update(ctx, w, matched)
		elapsed := time.Since(start)
		if profiler != nil {
			profiler.EndMark(markName)
		}

		w.mu.Lock()
		if m := w.metrics[name]; m != nil {
			m.ExecutionCount++
			m.TotalTime += elapsed
			m.LastEntityCount = len(matched)
			m.LastElapsed = elapsed
			if err != nil {
				m.ErrorCount++
				switch {
				case m.ErrorCount <= maxListenerWarnings:
					logrus.WithField("system", string(name)).Warnf("system update failed: %v", err)
				case m.ErrorCount == maxListenerWarnings+1:
					logrus.WithField("system", string(name)).Warn("suppressing further system update error logs for this system")
				}
			}
		}
		w.mu.Unlock()
	}

	if profiler != nil {
		profiler.EndFrame()
	}
}

// rebuildQueriesLocked clears and repopulates every system's query set in
// one pass over active entities. Must be called with w.mu held.
func (w *World) rebuildQueriesLocked() {
	for _, qs := range w.queries {
		qs.Clear()
	}
	for id, e := range w.entities {
		if !e.Active() {
			continue
		}
		for key, qs := range w.queries {
			types := w.queryTypes[key]
			if len(types) == 0 || e.HasComponents(types...) {
				qs.Add(id)
			}
		}
	}
}

// SetProfiler attaches p so Update records a "system.<name>" mark around
// every attached system's Update call (§4.4, §4.7). Pass nil to disable.
func (w *World) SetProfiler(p *Profiler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.profiler = p
}

// FrameCount returns the number of ticks processed so far.
func (w *World) FrameCount() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.frameCount
}

// Stats returns a snapshot of world-level population and system counts.
// FrameTime, UpdateTime and QueryTime are left to the profiler.
func (w *World) Stats() PerformanceMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	componentCount := 0
	for _, e := range w.entities {
		componentCount += len(e.Components())
	}
	return PerformanceMetrics{
		EntityCount:    len(w.entities),
		ComponentCount: componentCount,
		SystemCount:    len(w.systems),
		Timestamp:      time.Now(),
	}
}

// Clear destroys every entity, releasing its components to the registry,
// and resets the id generator, free-list, query cache and tag/group
// indices. Attached systems are left in place.
func (w *World) Clear() {
	w.mu.Lock()
	for _, e := range w.entities {
		for _, c := range e.Components() {
			w.registry.Release(c)
		}
	}
	w.entities = make(map[EntityID]*Entity)
	w.active.Clear()
	w.freeList = nil
	w.nextID = 1
	for _, qs := range w.queries {
		qs.Clear()
	}
	w.tags = make(map[EntityID]string)
	w.tagEntities = make(map[string][]EntityID)
	w.groups = make(map[string][]EntityID)
	w.entityGroups = make(map[EntityID][]string)
	w.frameCount = 0
	w.totalTime = 0
	w.registry.Clear()
	w.mu.Unlock()
}

// ==============================================
// Tags (§12)
// ==============================================

// SetTag assigns tag to entity id, replacing any tag it previously held.
func (w *World) SetTag(id EntityID, tag string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.entities[id]; !ok {
		return EntityNotFoundErr(id)
	}
	if tag == "" {
		return NewEntityError(ErrEmptyTag, "tag must not be empty", id)
	}
	w.removeEntityFromTagLocked(id)
	w.tags[id] = tag
	w.tagEntities[tag] = append(w.tagEntities[tag], id)
	return nil
}

// GetTag returns the tag assigned to entity id, if any.
func (w *World) GetTag(id EntityID) (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	tag, ok := w.tags[id]
	return tag, ok
}

// RemoveTag clears any tag assigned to entity id.
func (w *World) RemoveTag(id EntityID) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.removeEntityFromTagLocked(id)
	delete(w.tags, id)
	return nil
}

// FindByTag returns every entity currently assigned tag.
func (w *World) FindByTag(tag string) []EntityID {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]EntityID(nil), w.tagEntities[tag]...)
}

// GetAllTags returns every tag currently in use.
func (w *World) GetAllTags() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	tags := make([]string, 0, len(w.tagEntities))
	for t := range w.tagEntities {
		tags = append(tags, t)
	}
	return tags
}

func (w *World) removeEntityFromTagLocked(id EntityID) {
	tag, ok := w.tags[id]
	if !ok {
		return
	}
	w.tagEntities[tag] = removeID(w.tagEntities[tag], id)
	if len(w.tagEntities[tag]) == 0 {
		delete(w.tagEntities, tag)
	}
}

// ==============================================
// Groups (§12)
// ==============================================

// CreateGroup declares an empty, named group. Fails if the name is
// already in use.
func (w *World) CreateGroup(name string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, exists := w.groups[name]; exists {
		return NewECSError(ErrGroupExists, fmt.Sprintf("group %q already exists", name))
	}
	w.groups[name] = []EntityID{}
	return nil
}

// AddToGroup adds entity id to group, which must already exist.
func (w *World) AddToGroup(id EntityID, group string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.entities[id]; !ok {
		return EntityNotFoundErr(id)
	}
	if _, exists := w.groups[group]; !exists {
		return NewECSError(ErrGroupNotFound, fmt.Sprintf("group %q not found", group))
	}
	w.groups[group] = append(w.groups[group], id)
	w.entityGroups[id] = append(w.entityGroups[id], group)
	return nil
}

// RemoveFromGroup removes entity id from group, which must already exist.
func (w *World) RemoveFromGroup(id EntityID, group string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, exists := w.groups[group]; !exists {
		return NewECSError(ErrGroupNotFound, fmt.Sprintf("group %q not found", group))
	}
	w.groups[group] = removeID(w.groups[group], id)
	w.entityGroups[id] = removeString(w.entityGroups[id], group)
	return nil
}

// GetGroup returns every entity currently in group.
func (w *World) GetGroup(group string) []EntityID {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]EntityID(nil), w.groups[group]...)
}

// GetEntityGroups returns every group entity id currently belongs to.
func (w *World) GetEntityGroups(id EntityID) []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.entityGroups[id]...)
}

// DestroyGroup removes group entirely, cleaning up its members' reverse
// index so GetEntityGroups never reports a group that no longer exists.
func (w *World) DestroyGroup(group string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, exists := w.groups[group]; !exists {
		return NewECSError(ErrGroupNotFound, fmt.Sprintf("group %q not found", group))
	}
	for _, id := range w.groups[group] {
		w.entityGroups[id] = removeString(w.entityGroups[id], group)
	}
	delete(w.groups, group)
	return nil
}

func removeID(ids []EntityID, id EntityID) []EntityID {
	for i, v := range ids {
		if v == id {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return ids
}

func removeString(ss []string, s string) []string {
	for i, v := range ss {
		if v == s {
			return append(ss[:i:i], ss[i+1:]...)
		}
	}
	return ss
}
