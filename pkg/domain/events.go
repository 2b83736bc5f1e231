package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventDocumentStart EventType = "document_start"
	EventDocumentDone  EventType = "document_done"
	EventInclude       EventType = "include"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// DocumentEvent is emitted around a top-level transformation.
type DocumentEvent struct {
	EventBase
	Document string        `json:"document"`
	Clauses  int           `json:"clauses,omitempty"`
	Symbols  int           `json:"symbols,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
	Err      error         `json:"-"`
}

// IncludeEvent is emitted after an include was resolved (or failed to).
type IncludeEvent struct {
	EventBase
	Path  string `json:"path"`
	Depth int    `json:"depth"`
	Err   error  `json:"-"`
}

// LifecycleHooks defines callbacks for transformer observability.
type LifecycleHooks struct {
	OnDocumentStart func(context.Context, *DocumentEvent)
	OnDocumentDone  func(context.Context, *DocumentEvent)
	OnInclude       func(context.Context, *IncludeEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnDocumentStart: chainDocument(h.OnDocumentStart, other.OnDocumentStart),
		OnDocumentDone:  chainDocument(h.OnDocumentDone, other.OnDocumentDone),
		OnInclude:       chainInclude(h.OnInclude, other.OnInclude),
	}
}

func chainDocument(a, b func(context.Context, *DocumentEvent)) func(context.Context, *DocumentEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *DocumentEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

func chainInclude(a, b func(context.Context, *IncludeEvent)) func(context.Context, *IncludeEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *IncludeEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}
