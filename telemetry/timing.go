package telemetry

import (
	"io"
	"sync"
	"time"

	"github.com/robinvdvleuten/hledger/output"
)

// TimingCollector records a tree of timed operations. Timers started with Start
// nest under the most recent timer that has not ended yet, which matches the
// depth-first way journals and their includes are parsed.
type TimingCollector struct {
	mu      sync.Mutex
	roots   []*timerNode
	current *timerNode
}

type timerNode struct {
	name     string
	start    time.Time
	end      time.Time
	parent   *timerNode
	children []*timerNode
}

func (n *timerNode) duration() time.Duration {
	if n.end.IsZero() {
		return time.Since(n.start)
	}
	return n.end.Sub(n.start)
}

// NewTimingCollector creates an empty collector.
func NewTimingCollector() *TimingCollector {
	return &TimingCollector{}
}

// Start begins timing an operation under the innermost running timer.
func (c *TimingCollector) Start(name string) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	node := &timerNode{name: name, start: time.Now(), parent: c.current}
	if c.current == nil {
		c.roots = append(c.roots, node)
	} else {
		c.current.children = append(c.current.children, node)
	}
	c.current = node

	return &timingTimer{collector: c, node: node}
}

// Names returns the names of all recorded operations in depth-first order.
func (c *TimingCollector) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	var names []string
	var walk func(nodes []*timerNode)
	walk = func(nodes []*timerNode) {
		for _, n := range nodes {
			names = append(names, n.name)
			walk(n.children)
		}
	}
	walk(c.roots)
	return names
}

// Report writes every recorded tree to w.
func (c *TimingCollector) Report(w io.Writer, styles *output.Styles) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, root := range c.roots {
		formatTimingTree(w, root, styles)
	}
}

type timingTimer struct {
	collector *TimingCollector
	node      *timerNode
}

// End stops the timer. If it is the innermost running timer, its parent becomes
// the innermost again.
func (t *timingTimer) End() {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	if !t.node.end.IsZero() {
		return
	}
	t.node.end = time.Now()
	if t.collector.current == t.node {
		t.collector.current = t.node.parent
	}
}

// Child starts a timer nested directly under this one.
func (t *timingTimer) Child(name string) Timer {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	node := &timerNode{name: name, start: time.Now(), parent: t.node}
	t.node.children = append(t.node.children, node)
	t.collector.current = node

	return &timingTimer{collector: t.collector, node: node}
}
