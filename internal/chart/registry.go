package chart

import (
	"fmt"
	"sync"
)

// Registry owns the charts of one page, keyed by canvas id. Replacing a
// chart under the same id drops the previous one.
type Registry struct {
	mu     sync.RWMutex
	charts map[string]Chart
	order  []string
}

func NewRegistry() *Registry {
	return &Registry{charts: make(map[string]Chart)}
}

func (r *Registry) Register(c Chart) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.charts[c.ID()]; !ok {
		r.order = append(r.order, c.ID())
	}
	r.charts[c.ID()] = c
}

func (r *Registry) Get(id string) (Chart, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.charts[id]
	return c, ok
}

// IDs lists charts in registration order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Draw renders the chart registered under id onto s.
func (r *Registry) Draw(id string, s Surface) error {
	c, ok := r.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownChart, id)
	}
	c.Draw(s)
	return nil
}
