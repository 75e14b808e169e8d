package model

// PerPage is the page size shared by the dashboard client and the API server.
const PerPage = 20

type LogsQuery struct {
	Page    int
	PerPage int
	Filter  FilterCriteria
}

type LogsPage struct {
	Records    []LogRecord
	Page       int
	PerPage    int
	TotalPages int
	TotalLogs  int
}

// TotalPagesFor returns the number of pages needed for total records,
// never less than one.
func TotalPagesFor(total, perPage int) int {
	if perPage <= 0 {
		perPage = PerPage
	}
	pages := (total + perPage - 1) / perPage
	if pages < 1 {
		pages = 1
	}
	return pages
}

// PageState tracks the pagination position of the events table.
type PageState struct {
	Page       int
	TotalPages int
}

func NewPageState() PageState {
	return PageState{Page: 1, TotalPages: 1}
}

func (p PageState) CanPrev() bool { return p.Page > 1 }

func (p PageState) CanNext() bool { return p.Page < p.TotalPages }

// Target returns the page reached by moving delta pages and whether it is
// inside [1, TotalPages].
func (p PageState) Target(delta int) (int, bool) {
	target := p.Page + delta
	if target < 1 || target > p.TotalPages {
		return p.Page, false
	}
	return target, true
}
