package domain

import (
	"fmt"
	"strings"
	"time"
)

// UpdateFields is a partial update to a book. A nil field means "not
// provided" and is not considered for change; this is distinct from a
// pointer to an empty value.
type UpdateFields struct {
	Title       *string
	Description *string
	PublishDate *Date
	Authors     []string // nil means authors were not provided
}

// Empty reports whether the update carries no fields at all.
// Blank title and description strings count as absent.
func (f UpdateFields) Empty() bool {
	hasTitle := f.Title != nil && strings.TrimSpace(*f.Title) != ""
	hasDescription := f.Description != nil && strings.TrimSpace(*f.Description) != ""
	return !hasTitle && !hasDescription && f.PublishDate == nil && f.Authors == nil
}

// ChangeSet is the result of applying a partial update to a book: the audit
// events to append plus the author membership deltas the persistence layer
// must resolve inside the same transaction.
type ChangeSet struct {
	// Events to append, in emission order: title, description, publish
	// date, author removals, author additions. All share one timestamp.
	Events []*BookEvent

	// RemovedAuthors were detached from the book. Each is an orphan-
	// deletion candidate: delete the author record if no other book still
	// references it, checked transactionally at commit time.
	RemovedAuthors []Author

	// AddedAuthorNames must be resolved find-or-create by exact name and
	// attached to the book at commit time.
	AddedAuthorNames []string
}

// HasChanges reports whether the update changed anything.
func (c *ChangeSet) HasChanges() bool {
	return len(c.Events) > 0
}

// ApplyUpdate compares the book's current state against a proposed partial
// update, mutates the book's editable fields in place, and returns one audit
// event per semantic change. Each field is considered independently; a field
// proposed with its current (trimmed) value produces no event.
//
// Persistence is the caller's concern: the mutated book, the change set's
// events, and its author deltas must commit atomically.
func (b *Book) ApplyUpdate(fields UpdateFields, now time.Time) ChangeSet {
	var cs ChangeSet

	b.applyTitle(&cs, fields.Title, now)
	b.applyDescription(&cs, fields.Description, now)
	b.applyPublishDate(&cs, fields.PublishDate, now)
	b.applyAuthors(&cs, fields.Authors, now)

	return cs
}

func (b *Book) applyTitle(cs *ChangeSet, title *string, now time.Time) {
	if title == nil {
		return
	}
	newTitle := strings.TrimSpace(*title)
	if newTitle == "" || newTitle == b.Title {
		return
	}

	cs.Events = append(cs.Events, &BookEvent{
		BookID:      b.ID,
		OccuredAt:   now,
		Target:      TargetBookTitle,
		Type:        EventUpdated,
		Description: fmt.Sprintf("Title was changed to %q", newTitle),
	})
	b.Title = newTitle
}

// applyDescription intentionally treats an empty proposed description the
// same way as an absent one: there is no way to clear a description to empty
// through a partial update. Existing callers rely on this.
func (b *Book) applyDescription(cs *ChangeSet, description *string, now time.Time) {
	if description == nil {
		return
	}
	newDescription := strings.TrimSpace(*description)
	if newDescription == "" || newDescription == b.Description {
		return
	}

	cs.Events = append(cs.Events, &BookEvent{
		BookID:      b.ID,
		OccuredAt:   now,
		Target:      TargetBookDescription,
		Type:        EventUpdated,
		Description: fmt.Sprintf("Description was changed to %q", newDescription),
	})
	b.Description = newDescription
}

func (b *Book) applyPublishDate(cs *ChangeSet, publishDate *Date, now time.Time) {
	if publishDate == nil || b.PublishDate.Equal(*publishDate) {
		return
	}

	cs.Events = append(cs.Events, &BookEvent{
		BookID:      b.ID,
		OccuredAt:   now,
		Target:      TargetBookPublishDate,
		Type:        EventUpdated,
		Description: fmt.Sprintf("Publish date was changed to %q", publishDate.String()),
	})
	b.PublishDate = *publishDate
}

// applyAuthors computes the symmetric difference between the proposed name
// set and the current author set. Removals are processed before additions so
// the orphan check sees a consistent state when a name is removed and
// re-added in a different spelling within one update.
func (b *Book) applyAuthors(cs *ChangeSet, authors []string, now time.Time) {
	if authors == nil {
		return
	}

	newNames := NormalizeAuthorNames(authors)
	proposed := make(map[string]struct{}, len(newNames))
	for _, name := range newNames {
		proposed[name] = struct{}{}
	}

	currentNames := make(map[string]struct{}, len(b.Authors))
	kept := b.Authors[:0]
	for _, author := range b.Authors {
		currentNames[author.Name] = struct{}{}
		if _, ok := proposed[author.Name]; ok {
			kept = append(kept, author)
			continue
		}

		cs.RemovedAuthors = append(cs.RemovedAuthors, author)
		cs.Events = append(cs.Events, &BookEvent{
			BookID:      b.ID,
			OccuredAt:   now,
			Target:      TargetBookAuthor,
			Type:        EventDeleted,
			Description: fmt.Sprintf("Author %q was removed", author.Name),
		})
	}
	b.Authors = kept

	for _, name := range newNames {
		if _, ok := currentNames[name]; ok {
			continue
		}

		cs.AddedAuthorNames = append(cs.AddedAuthorNames, name)
		cs.Events = append(cs.Events, &BookEvent{
			BookID:      b.ID,
			OccuredAt:   now,
			Target:      TargetBookAuthor,
			Type:        EventCreated,
			Description: fmt.Sprintf("Author %q was added", name),
		})
	}
}

// NewCreatedEvent builds the single audit event recorded when a book is created.
func NewCreatedEvent(b *Book, now time.Time) *BookEvent {
	return &BookEvent{
		BookID:      b.ID,
		OccuredAt:   now,
		Target:      TargetBook,
		Type:        EventCreated,
		Description: fmt.Sprintf("Book %q created", b.Title),
	}
}
