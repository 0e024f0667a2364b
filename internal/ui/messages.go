package ui

import (
	"siteseek/internal/domain"
	"siteseek/internal/eventbus"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// debounceMsg fires when one query revision's debounce window elapses
type debounceMsg struct {
	seq  int
	term string
}

// resultsMsg carries the outcome of one executed query
type resultsMsg struct {
	seq     int
	term    string
	results []domain.ResultEntry
}

// indexBuiltMsg reports the outcome of the lazy index build
type indexBuiltMsg struct {
	err error
}

// unlockPointerMsg re-enables hover focus after keyboard navigation
type unlockPointerMsg struct {
	seq int
}

// previewUpdatedMsg forces a repaint after an async preview render
type previewUpdatedMsg struct{}

// pagerDoneMsg is sent when the page pager returns
type pagerDoneMsg struct {
	slug string
	err  error
}
