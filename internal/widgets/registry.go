package widgets

import (
	"sync"

	"github.com/ozgurozkan01/pyLog/internal/model"
)

// Registry holds at most one live chart per chart id.
type Registry struct {
	mu     sync.Mutex
	charts map[string]Chart
}

func NewRegistry() *Registry {
	return &Registry{charts: make(map[string]Chart)}
}

// Replace binds chart to id, disposing whatever chart was bound before.
func (r *Registry) Replace(id string, chart Chart) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if old, ok := r.charts[id]; ok && old != chart {
		old.Dispose()
	}
	r.charts[id] = chart
}

func (r *Registry) Get(id string) (Chart, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.charts[id]
	return c, ok
}

// Render renders the chart bound to id, or "" when there is none.
func (r *Registry) Render(id string, width int) string {
	c, ok := r.Get(id)
	if !ok {
		return ""
	}
	return c.Render(width)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.charts)
}

func (r *Registry) DisposeAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.charts {
		c.Dispose()
		delete(r.charts, id)
	}
}

// Aggregator keeps the charts for the latest dashboard data in its
// registry.
type Aggregator struct {
	charts *Registry
}

func NewAggregator() *Aggregator {
	return &Aggregator{charts: NewRegistry()}
}

func (a *Aggregator) Charts() *Registry { return a.charts }

// Update rebuilds the charts from an already computed summary, such as the
// one returned by the API server.
func (a *Aggregator) Update(data model.DashboardData) {
	a.charts.Replace(ChartIdentifiers, NewBarChart(IdentifierSlices(data.LogIdentifiers)))
	a.charts.Replace(ChartPriorities, NewRingChart(PrioritySlices(data.LogsByPriority)))
}
