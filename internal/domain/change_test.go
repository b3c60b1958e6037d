package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func dateptr(d Date) *Date { return &d }

func makeBook() *Book {
	return &Book{
		ID:          1,
		Title:       "Dune",
		Description: "Desert planet epic",
		PublishDate: NewDate(1965, time.August, 1),
		Authors: []Author{
			{ID: 10, Name: "Frank Herbert"},
		},
	}
}

func TestApplyUpdate_TitleChanged(t *testing.T) {
	book := makeBook()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	cs := book.ApplyUpdate(UpdateFields{Title: strptr("  Dune Messiah  ")}, now)

	require.Len(t, cs.Events, 1)
	event := cs.Events[0]
	assert.Equal(t, TargetBookTitle, event.Target)
	assert.Equal(t, EventUpdated, event.Type)
	assert.Equal(t, `Title was changed to "Dune Messiah"`, event.Description)
	assert.Equal(t, now, event.OccuredAt)
	assert.Equal(t, "Dune Messiah", book.Title)
}

func TestApplyUpdate_SameValueIsIdempotent(t *testing.T) {
	tests := []struct {
		name   string
		fields UpdateFields
	}{
		{"same title", UpdateFields{Title: strptr("Dune")}},
		{"same title with whitespace", UpdateFields{Title: strptr("  Dune  ")}},
		{"same description", UpdateFields{Description: strptr("Desert planet epic")}},
		{"same description with whitespace", UpdateFields{Description: strptr(" Desert planet epic ")}},
		{"same publish date", UpdateFields{PublishDate: dateptr(NewDate(1965, time.August, 1))}},
		{"same authors", UpdateFields{Authors: []string{"Frank Herbert"}}},
		{"same authors with whitespace", UpdateFields{Authors: []string{"  Frank Herbert  "}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			book := makeBook()
			cs := book.ApplyUpdate(tt.fields, time.Now().UTC())

			assert.False(t, cs.HasChanges())
			assert.Empty(t, cs.Events)
			assert.Equal(t, "Dune", book.Title)
			assert.Equal(t, "Desert planet epic", book.Description)
		})
	}
}

func TestApplyUpdate_EmptyValuesAreSkipped(t *testing.T) {
	// An empty (or blank) proposed title or description means "no change
	// requested", never "clear the field".
	book := makeBook()

	cs := book.ApplyUpdate(UpdateFields{
		Title:       strptr("   "),
		Description: strptr(""),
	}, time.Now().UTC())

	assert.Empty(t, cs.Events)
	assert.Equal(t, "Dune", book.Title)
	assert.Equal(t, "Desert planet epic", book.Description)
}

func TestApplyUpdate_DescriptionChanged(t *testing.T) {
	book := makeBook()
	now := time.Now().UTC()

	cs := book.ApplyUpdate(UpdateFields{Description: strptr("A new description")}, now)

	require.Len(t, cs.Events, 1)
	assert.Equal(t, TargetBookDescription, cs.Events[0].Target)
	assert.Equal(t, EventUpdated, cs.Events[0].Type)
	assert.Equal(t, `Description was changed to "A new description"`, cs.Events[0].Description)
	assert.Equal(t, "A new description", book.Description)
}

func TestApplyUpdate_PublishDateChanged(t *testing.T) {
	book := makeBook()
	now := time.Now().UTC()
	newDate := NewDate(1966, time.January, 15)

	cs := book.ApplyUpdate(UpdateFields{PublishDate: &newDate}, now)

	require.Len(t, cs.Events, 1)
	assert.Equal(t, TargetBookPublishDate, cs.Events[0].Target)
	assert.Equal(t, `Publish date was changed to "1966-01-15"`, cs.Events[0].Description)
	assert.True(t, book.PublishDate.Equal(newDate))
}

func TestApplyUpdate_AuthorAddedAndRemoved(t *testing.T) {
	book := makeBook()
	now := time.Now().UTC()

	cs := book.ApplyUpdate(UpdateFields{Authors: []string{"Brian Herbert"}}, now)

	require.Len(t, cs.Events, 2)

	// Removals are emitted before additions.
	assert.Equal(t, TargetBookAuthor, cs.Events[0].Target)
	assert.Equal(t, EventDeleted, cs.Events[0].Type)
	assert.Equal(t, `Author "Frank Herbert" was removed`, cs.Events[0].Description)

	assert.Equal(t, TargetBookAuthor, cs.Events[1].Target)
	assert.Equal(t, EventCreated, cs.Events[1].Type)
	assert.Equal(t, `Author "Brian Herbert" was added`, cs.Events[1].Description)

	require.Len(t, cs.RemovedAuthors, 1)
	assert.Equal(t, int64(10), cs.RemovedAuthors[0].ID)
	assert.Equal(t, []string{"Brian Herbert"}, cs.AddedAuthorNames)
	assert.Empty(t, book.Authors)
}

func TestApplyUpdate_AuthorsNilMeansUntouched(t *testing.T) {
	book := makeBook()

	cs := book.ApplyUpdate(UpdateFields{Title: strptr("New Title")}, time.Now().UTC())

	require.Len(t, cs.Events, 1)
	assert.Empty(t, cs.RemovedAuthors)
	assert.Empty(t, cs.AddedAuthorNames)
	require.Len(t, book.Authors, 1)
	assert.Equal(t, "Frank Herbert", book.Authors[0].Name)
}

func TestApplyUpdate_AuthorsEmptyRemovesAll(t *testing.T) {
	book := makeBook()
	book.Authors = append(book.Authors, Author{ID: 11, Name: "Kevin J. Anderson"})

	cs := book.ApplyUpdate(UpdateFields{Authors: []string{}}, time.Now().UTC())

	require.Len(t, cs.Events, 2)
	assert.Len(t, cs.RemovedAuthors, 2)
	assert.Empty(t, cs.AddedAuthorNames)
	assert.Empty(t, book.Authors)
}

func TestApplyUpdate_DisjointAuthorSetsEventCount(t *testing.T) {
	book := makeBook()
	book.Authors = []Author{
		{ID: 10, Name: "Frank Herbert"},
		{ID: 11, Name: "Kevin J. Anderson"},
	}

	cs := book.ApplyUpdate(UpdateFields{
		Authors: []string{"Ursula K. Le Guin", "Ted Chiang", "Octavia Butler"},
	}, time.Now().UTC())

	// |removed| + |added| events exactly.
	assert.Len(t, cs.Events, 5)
	assert.Len(t, cs.RemovedAuthors, 2)
	assert.Len(t, cs.AddedAuthorNames, 3)
}

func TestApplyUpdate_DuplicateProposedAuthorsCollapse(t *testing.T) {
	book := makeBook()

	cs := book.ApplyUpdate(UpdateFields{
		Authors: []string{"Frank Herbert", " Frank Herbert ", "Brian Herbert", "Brian Herbert"},
	}, time.Now().UTC())

	require.Len(t, cs.Events, 1)
	assert.Equal(t, []string{"Brian Herbert"}, cs.AddedAuthorNames)
}

func TestApplyUpdate_CasingDifferenceIsDistinctAuthor(t *testing.T) {
	book := makeBook()

	cs := book.ApplyUpdate(UpdateFields{Authors: []string{"frank herbert"}}, time.Now().UTC())

	// Removal of the old spelling precedes addition of the new one.
	require.Len(t, cs.Events, 2)
	assert.Equal(t, EventDeleted, cs.Events[0].Type)
	assert.Equal(t, EventCreated, cs.Events[1].Type)
}

func TestApplyUpdate_EventOrderAcrossFields(t *testing.T) {
	book := makeBook()
	now := time.Now().UTC()
	newDate := NewDate(1970, time.June, 1)

	cs := book.ApplyUpdate(UpdateFields{
		Title:       strptr("Children of Dune"),
		Description: strptr("Third in the saga"),
		PublishDate: &newDate,
		Authors:     []string{"Brian Herbert"},
	}, now)

	require.Len(t, cs.Events, 5)
	assert.Equal(t, TargetBookTitle, cs.Events[0].Target)
	assert.Equal(t, TargetBookDescription, cs.Events[1].Target)
	assert.Equal(t, TargetBookPublishDate, cs.Events[2].Target)
	assert.Equal(t, EventDeleted, cs.Events[3].Type)
	assert.Equal(t, EventCreated, cs.Events[4].Type)

	// All events share one timestamp.
	for _, event := range cs.Events {
		assert.Equal(t, now, event.OccuredAt)
	}
}

func TestNewCreatedEvent(t *testing.T) {
	book := makeBook()
	now := time.Now().UTC()

	event := NewCreatedEvent(book, now)

	assert.Equal(t, TargetBook, event.Target)
	assert.Equal(t, EventCreated, event.Type)
	assert.Equal(t, `Book "Dune" created`, event.Description)
	assert.Equal(t, now, event.OccuredAt)
}

func TestUpdateFields_Empty(t *testing.T) {
	tests := []struct {
		name   string
		fields UpdateFields
		want   bool
	}{
		{"nothing set", UpdateFields{}, true},
		{"blank title only", UpdateFields{Title: strptr("   ")}, true},
		{"blank description only", UpdateFields{Description: strptr("")}, true},
		{"title set", UpdateFields{Title: strptr("T")}, false},
		{"date set", UpdateFields{PublishDate: dateptr(NewDate(2020, 1, 1))}, false},
		{"empty author list still counts", UpdateFields{Authors: []string{}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.fields.Empty())
		})
	}
}
