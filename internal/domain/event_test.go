package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aglena/books-history-api/internal/errors"
)

func TestParseEventTarget(t *testing.T) {
	tests := []struct {
		input string
		want  EventTarget
	}{
		{"Book", TargetBook},
		{"book", TargetBook},
		{"BOOKAUTHOR", TargetBookAuthor},
		{"bookTitle", TargetBookTitle},
		{" BookDescription ", TargetBookDescription},
		{"bookpublishdate", TargetBookPublishDate},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseEventTarget(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseEventTarget_Invalid(t *testing.T) {
	_, err := ParseEventTarget("BookAuthorship")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestParseEventType(t *testing.T) {
	tests := []struct {
		input string
		want  EventType
	}{
		{"Created", EventCreated},
		{"UPDATED", EventUpdated},
		{"deleted", EventDeleted},
	}

	for _, tt := range tests {
		got, err := ParseEventType(tt.input)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseEventType_Invalid(t *testing.T) {
	_, err := ParseEventType("Removed")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestEventTargetOrdinal(t *testing.T) {
	// Sorting by target uses declaration order, not lexicographic order.
	assert.Equal(t, 0, TargetBook.Ordinal())
	assert.Equal(t, 1, TargetBookAuthor.Ordinal())
	assert.Equal(t, 2, TargetBookTitle.Ordinal())
	assert.Equal(t, 3, TargetBookDescription.Ordinal())
	assert.Equal(t, 4, TargetBookPublishDate.Ordinal())
}

func TestEventTypeOrdinal(t *testing.T) {
	assert.Equal(t, 0, EventCreated.Ordinal())
	assert.Equal(t, 1, EventUpdated.Ordinal())
	assert.Equal(t, 2, EventDeleted.Ordinal())
}
