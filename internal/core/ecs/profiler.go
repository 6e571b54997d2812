package ecs

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// MarkMeta carries arbitrary caller-supplied context alongside a mark.
type MarkMeta map[string]interface{}

type markSample struct {
	Name     string
	Start    time.Time
	Duration time.Duration
	Meta     MarkMeta
}

// FrameReport is one frame's worth of completed marks.
type FrameReport struct {
	Frame    uint64
	Start    time.Time
	Duration time.Duration
	Marks    []markSample
}

// ProfilerConfig configures the profiler's retention and on/off switch.
type ProfilerConfig struct {
	Enabled   bool
	MaxFrames int
}

// DefaultProfilerConfig returns sane defaults: enabled, 120 frames retained.
func DefaultProfilerConfig() ProfilerConfig {
	return ProfilerConfig{Enabled: true, MaxFrames: 120}
}

type openMark struct {
	start time.Time
	meta  MarkMeta
}

// Profiler records nested, named performance marks scoped to frames (§4.7).
// Marks of the same name stack: a beginMark("x") nested inside an open "x"
// is legal, and endMark pops the innermost.
type Profiler struct {
	mu     sync.Mutex
	config ProfilerConfig
	logger logrus.FieldLogger

	frameNo    uint64
	frameStart time.Time
	stacks     map[string][]*openMark
	completed  []markSample

	frames []FrameReport
}

// NewProfiler creates a Profiler. logger defaults to logrus's standard
// logger when nil.
func NewProfiler(config ProfilerConfig, logger logrus.FieldLogger) *Profiler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Profiler{config: config, logger: logger, stacks: make(map[string][]*openMark)}
}

// BeginFrame starts a new frame, discarding marks from the previous one
// that were already folded into a FrameReport. A disabled profiler no-ops.
func (p *Profiler) BeginFrame(frame uint64) {
	if !p.config.Enabled {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.frameNo = frame
	p.frameStart = time.Now()
	p.completed = nil
	p.stacks = make(map[string][]*openMark)
}

// EndFrame auto-closes any mark left open, with a warning, then appends a
// FrameReport and evicts the oldest frame once MaxFrames is exceeded.
func (p *Profiler) EndFrame() {
	if !p.config.Enabled {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	for name, stack := range p.stacks {
		for _, m := range stack {
			p.logger.WithField("frame", p.frameNo).Warnf("profiler: mark %q left open at end of frame, auto-closing", name)
			p.completed = append(p.completed, markSample{Name: name, Start: m.start, Duration: time.Since(m.start), Meta: m.meta})
		}
	}
	p.stacks = make(map[string][]*openMark)

	report := FrameReport{
		Frame:    p.frameNo,
		Start:    p.frameStart,
		Duration: time.Since(p.frameStart),
		Marks:    p.completed,
	}
	p.frames = append(p.frames, report)
	if len(p.frames) > p.config.MaxFrames {
		p.frames = p.frames[len(p.frames)-p.config.MaxFrames:]
	}
}

// BeginMark opens a mark under name, pushing it onto that name's stack.
func (p *Profiler) BeginMark(name string, meta MarkMeta) {
	if !p.config.Enabled {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stacks[name] = append(p.stacks[name], &openMark{start: time.Now(), meta: meta})
}

// EndMark closes the innermost open mark under name. A name with no open
// mark is a no-op.
func (p *Profiler) EndMark(name string) {
	if !p.config.Enabled {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	stack := p.stacks[name]
	if len(stack) == 0 {
		return
	}
	m := stack[len(stack)-1]
	p.stacks[name] = stack[:len(stack)-1]
	p.completed = append(p.completed, markSample{Name: name, Start: m.start, Duration: time.Since(m.start), Meta: m.meta})
}

// Measure wraps fn in a mark named name.
func (p *Profiler) Measure(name string, fn func()) {
	if !p.config.Enabled {
		fn()
		return
	}
	p.BeginMark(name, nil)
	defer p.EndMark(name)
	fn()
}

// Scope prefixes every mark name with a fixed string, letting a system
// profile its own sub-phases without colliding with another system's
// mark names.
type Scope struct {
	profiler *Profiler
	prefix   string
}

// CreateScope returns a Scope that prefixes mark names with prefix + ".".
func (p *Profiler) CreateScope(prefix string) *Scope {
	return &Scope{profiler: p, prefix: prefix}
}

// BeginMark opens prefix.name.
func (s *Scope) BeginMark(name string, meta MarkMeta) { s.profiler.BeginMark(s.prefix+"."+name, meta) }

// EndMark closes prefix.name.
func (s *Scope) EndMark(name string) { s.profiler.EndMark(s.prefix + "." + name) }

// Measure wraps fn in a mark named prefix.name.
func (s *Scope) Measure(name string, fn func()) { s.profiler.Measure(s.prefix+"."+name, fn) }

// GenerateReport returns every retained frame report, oldest first.
func (p *Profiler) GenerateReport() []FrameReport {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]FrameReport(nil), p.frames...)
}

// Clear discards every retained frame and any in-flight marks.
func (p *Profiler) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.frames = nil
	p.completed = nil
	p.stacks = make(map[string][]*openMark)
}
