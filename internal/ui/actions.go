package ui

import "github.com/ozgurozkan01/pyLog/internal/model"

// Action is a user action handled by the app dispatcher. The set is closed:
// only the types in this file implement it.
type Action interface {
	isAction()
}

// ApplyFiltersMsg replaces the active filters and reloads page 1.
type ApplyFiltersMsg struct {
	Filter model.FilterCriteria
}

// PaginateMsg moves Delta pages from the current one.
type PaginateMsg struct {
	Delta int
}

// NavigateMsg activates the section named by Target ("dashboard" or
// "events"). A non-empty Priority replaces the event filters with that
// priority name or number; ClearFilters drops them.
type NavigateMsg struct {
	Target       string
	Priority     string
	ClearFilters bool
}

type OpenDetailMsg struct {
	Record model.LogRecord
}

type CloseDetailMsg struct{}

func (ApplyFiltersMsg) isAction() {}
func (PaginateMsg) isAction()     {}
func (NavigateMsg) isAction()     {}
func (OpenDetailMsg) isAction()   {}
func (CloseDetailMsg) isAction()  {}
