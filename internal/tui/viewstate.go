package tui

import (
	"context"

	"github.com/ozgurozkan01/pyLog/internal/model"
)

// Request describes one fetch issued by the view state. Only the response
// to the latest request is accepted.
type Request struct {
	Seq     uint64
	Section Section
	Query   model.LogsQuery
	ctx     context.Context
}

// Context is cancelled as soon as a newer request is issued.
func (r Request) Context() context.Context {
	if r.ctx == nil {
		return context.Background()
	}
	return r.ctx
}

// ViewState owns pagination and filters for the events table.
type ViewState struct {
	Filter  model.FilterCriteria
	Pages   model.PageState
	Loading bool

	parent context.Context
	seq    uint64
	cancel context.CancelFunc
}

func NewViewState(parent context.Context) ViewState {
	if parent == nil {
		parent = context.Background()
	}
	return ViewState{Pages: model.NewPageState(), parent: parent}
}

// Query is the query for the current page and filters.
func (v ViewState) Query() model.LogsQuery {
	return v.queryFor(v.Pages.Page)
}

func (v ViewState) queryFor(page int) model.LogsQuery {
	return model.LogsQuery{Page: page, PerPage: model.PerPage, Filter: v.Filter.Effective()}
}

// ApplyFilters stores f and requests page 1.
func (v *ViewState) ApplyFilters(f model.FilterCriteria) Request {
	v.Filter = f
	v.Pages.Page = 1
	return v.issue(SectionEvents, v.Query())
}

// GoToPage requests the page delta pages away. It reports false and
// issues nothing when that page is outside [1, TotalPages].
func (v *ViewState) GoToPage(delta int) (Request, bool) {
	target, ok := v.Pages.Target(delta)
	if !ok {
		return Request{}, false
	}
	return v.issue(SectionEvents, v.queryFor(target)), true
}

// RefreshForSection re-issues the current events query, or asks for a
// dashboard aggregation.
func (v *ViewState) RefreshForSection(s Section) Request {
	if s == SectionEvents {
		return v.issue(SectionEvents, v.Query())
	}
	return v.issue(SectionDashboard, model.LogsQuery{})
}

// Accept reports whether seq belongs to the latest request, and if so
// marks it finished.
func (v *ViewState) Accept(seq uint64) bool {
	if seq != v.seq {
		return false
	}
	v.Loading = false
	v.Close()
	return true
}

// PageLoaded syncs pagination with what the source reported.
func (v *ViewState) PageLoaded(p model.LogsPage) {
	v.Pages.Page = p.Page
	v.Pages.TotalPages = p.TotalPages
	if v.Pages.Page < 1 {
		v.Pages.Page = 1
	}
	if v.Pages.TotalPages < v.Pages.Page {
		v.Pages.TotalPages = v.Pages.Page
	}
}

// Close cancels the in-flight request, if any.
func (v *ViewState) Close() {
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
}

func (v *ViewState) issue(s Section, q model.LogsQuery) Request {
	v.Close()
	parent := v.parent
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	v.cancel = cancel
	v.seq++
	v.Loading = true
	return Request{Seq: v.seq, Section: s, Query: q, ctx: ctx}
}
