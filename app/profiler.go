package app

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Profiler keeps the last duration of named CPU scopes and a few counters
// for the debug log.
type Profiler struct {
	scopes map[string]time.Duration
	starts map[string]time.Time
	counts map[string]int
	order  []string
}

func NewProfiler() *Profiler {
	return &Profiler{
		scopes: make(map[string]time.Duration),
		starts: make(map[string]time.Time),
		counts: make(map[string]int),
	}
}

func (p *Profiler) Begin(name string) {
	if _, seen := p.scopes[name]; !seen {
		p.order = append(p.order, name)
		p.scopes[name] = 0
	}
	p.starts[name] = time.Now()
}

func (p *Profiler) End(name string) {
	if start, ok := p.starts[name]; ok {
		p.scopes[name] = time.Since(start)
		delete(p.starts, name)
	}
}

func (p *Profiler) Duration(name string) time.Duration { return p.scopes[name] }

func (p *Profiler) SetCount(name string, n int) { p.counts[name] = n }

// String renders scopes in first-seen order, then counters by name.
func (p *Profiler) String() string {
	var sb strings.Builder
	for _, name := range p.order {
		ms := float64(p.scopes[name].Microseconds()) / 1000.0
		fmt.Fprintf(&sb, "%s=%.2fms ", name, ms)
	}
	keys := make([]string, 0, len(p.counts))
	for k := range p.counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s=%d ", k, p.counts[k])
	}
	return strings.TrimSpace(sb.String())
}
