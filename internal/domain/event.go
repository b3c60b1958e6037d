package domain

import (
	"strings"
	"time"

	"github.com/Aglena/books-history-api/internal/errors"
)

// EventTarget identifies which part of a book an event describes.
type EventTarget string

// Event targets, in canonical order. The ordinal position is significant:
// sorting events by target uses it, not the lexicographic name.
const (
	TargetBook            EventTarget = "Book"
	TargetBookAuthor      EventTarget = "BookAuthor"
	TargetBookTitle       EventTarget = "BookTitle"
	TargetBookDescription EventTarget = "BookDescription"
	TargetBookPublishDate EventTarget = "BookPublishDate"
)

var eventTargets = []EventTarget{
	TargetBook,
	TargetBookAuthor,
	TargetBookTitle,
	TargetBookDescription,
	TargetBookPublishDate,
}

// ParseEventTarget parses an event target name case-insensitively.
// Unknown names yield a validation error.
func ParseEventTarget(s string) (EventTarget, error) {
	trimmed := strings.TrimSpace(s)
	for _, t := range eventTargets {
		if strings.EqualFold(trimmed, string(t)) {
			return t, nil
		}
	}
	return "", errors.Validationf("Invalid Target value %q", s)
}

// Ordinal returns the target's position in the canonical order, used
// for sorting. Unknown targets sort last.
func (t EventTarget) Ordinal() int {
	for i, candidate := range eventTargets {
		if t == candidate {
			return i
		}
	}
	return len(eventTargets)
}

// EventType identifies the kind of change an event records.
type EventType string

// Event types, in canonical order.
const (
	EventCreated EventType = "Created"
	EventUpdated EventType = "Updated"
	EventDeleted EventType = "Deleted"
)

var eventTypes = []EventType{EventCreated, EventUpdated, EventDeleted}

// ParseEventType parses an event type name case-insensitively.
// Unknown names yield a validation error.
func ParseEventType(s string) (EventType, error) {
	trimmed := strings.TrimSpace(s)
	for _, t := range eventTypes {
		if strings.EqualFold(trimmed, string(t)) {
			return t, nil
		}
	}
	return "", errors.Validationf("Invalid Type value %q", s)
}

// Ordinal returns the type's position in the canonical order.
func (t EventType) Ordinal() int {
	for i, candidate := range eventTypes {
		if t == candidate {
			return i
		}
	}
	return len(eventTypes)
}

// BookEvent is an immutable audit record of a single semantic change to a
// book or its relations. Events are append-only; they are never updated and
// only removed by cascade when their owning book is deleted.
type BookEvent struct {
	ID          int64       `json:"id"`
	BookID      int64       `json:"book_id"`
	OccuredAt   time.Time   `json:"occured_at"`
	Target      EventTarget `json:"target"`
	Type        EventType   `json:"type"`
	Description string      `json:"description"`
}
