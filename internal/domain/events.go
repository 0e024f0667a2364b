package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventManifestLoaded    EventType = "ManifestLoaded"
	EventManifestFailed    EventType = "ManifestFailed"
	EventIndexReady        EventType = "IndexReady"
	EventIndexFailed       EventType = "IndexFailed"
	EventQueryChanged      EventType = "QueryChanged"
	EventResultsUpdated    EventType = "ResultsUpdated"
	EventPreviewRequested  EventType = "PreviewRequested"
	EventPreviewLoaded     EventType = "PreviewLoaded"
	EventPreviewFailed     EventType = "PreviewFailed"
	EventPageOpenRequested EventType = "PageOpenRequested"
	EventError             EventType = "Error"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// ManifestLoadedEvent is emitted when the content manifest has been fetched
type ManifestLoadedEvent struct {
	Entries map[string]ManifestEntry
}

func (e ManifestLoadedEvent) Type() EventType { return EventManifestLoaded }

// ManifestFailedEvent is emitted when the manifest fetch fails
type ManifestFailedEvent struct {
	Err error
}

func (e ManifestFailedEvent) Type() EventType { return EventManifestFailed }

// IndexReadyEvent is emitted when the search index finishes building
type IndexReadyEvent struct {
	DocumentCount int
}

func (e IndexReadyEvent) Type() EventType { return EventIndexReady }

// IndexFailedEvent is emitted when the index build fails
type IndexFailedEvent struct {
	Err error
}

func (e IndexFailedEvent) Type() EventType { return EventIndexFailed }

// QueryChangedEvent is emitted when the debounced query text changes
type QueryChangedEvent struct {
	Term string
}

func (e QueryChangedEvent) Type() EventType { return EventQueryChanged }

// ResultsUpdatedEvent is emitted after a query has been matched against the index
type ResultsUpdatedEvent struct {
	Term    string
	Results []ResultEntry
}

func (e ResultsUpdatedEvent) Type() EventType { return EventResultsUpdated }

// PreviewRequestedEvent is emitted when a result card gains focus
type PreviewRequestedEvent struct {
	Slug string
	Term string
}

func (e PreviewRequestedEvent) Type() EventType { return EventPreviewRequested }

// PreviewLoadedEvent is emitted when a page fragment has been fetched and rendered
type PreviewLoadedEvent struct {
	Slug string
}

func (e PreviewLoadedEvent) Type() EventType { return EventPreviewLoaded }

// PreviewFailedEvent is emitted when a page fragment fetch fails
type PreviewFailedEvent struct {
	Slug string
	Err  error
}

func (e PreviewFailedEvent) Type() EventType { return EventPreviewFailed }

// PageOpenRequestedEvent is emitted when a result is activated
type PageOpenRequestedEvent struct {
	Slug string
	Term string
	URL  string // destination URL including the text-fragment directive
}

func (e PageOpenRequestedEvent) Type() EventType { return EventPageOpenRequested }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }
