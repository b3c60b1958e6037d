package service

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aglena/books-history-api/internal/domain"
	domainerrors "github.com/Aglena/books-history-api/internal/errors"
	"github.com/Aglena/books-history-api/internal/querying"
	"github.com/Aglena/books-history-api/internal/store"
)

// setupBookTest creates a book service backed by a temporary database.
func setupBookTest(t *testing.T) (*BookService, *store.Store) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	logger := slog.New(slog.DiscardHandler)

	s, err := store.Open(dbPath, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return NewBookService(s, logger), s
}

func testDate(t *testing.T, value string) domain.Date {
	t.Helper()
	d, err := domain.ParseDate(value)
	require.NoError(t, err)
	return d
}

func TestCreateBook(t *testing.T) {
	svc, _ := setupBookTest(t)
	ctx := context.Background()

	id, err := svc.CreateBook(ctx, CreateBookRequest{
		Title:       "  Dune  ",
		Description: "Desert planet",
		PublishDate: testDate(t, "1965-08-01"),
		Authors:     []string{"Frank Herbert"},
	})
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))

	b, err := svc.GetBook(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Dune", b.Title, "title is stored trimmed")
	assert.Equal(t, "Desert planet", b.Description)
	assert.Equal(t, []string{"Frank Herbert"}, b.AuthorNames())
}

func TestCreateBookValidation(t *testing.T) {
	svc, s := setupBookTest(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  CreateBookRequest
	}{
		{
			name: "missing title",
			req: CreateBookRequest{
				PublishDate: testDate(t, "2020-01-01"),
				Authors:     []string{"Someone"},
			},
		},
		{
			name: "blank title",
			req: CreateBookRequest{
				Title:       "   ",
				PublishDate: testDate(t, "2020-01-01"),
				Authors:     []string{"Someone"},
			},
		},
		{
			name: "blank author name",
			req: CreateBookRequest{
				Title:       "Dune",
				PublishDate: testDate(t, "2020-01-01"),
				Authors:     []string{"Frank Herbert", ""},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateBook(ctx, tt.req)
			require.Error(t, err)
			assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
		})
	}

	// Nothing may be written when validation fails.
	books, err := s.ListBooks(ctx)
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestGetBookNotFound(t *testing.T) {
	svc, _ := setupBookTest(t)

	_, err := svc.GetBook(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestUpdateBookTitle(t *testing.T) {
	svc, s := setupBookTest(t)
	ctx := context.Background()

	id, err := svc.CreateBook(ctx, CreateBookRequest{
		Title:       "Dune",
		PublishDate: testDate(t, "1965-08-01"),
		Authors:     []string{"Frank Herbert"},
	})
	require.NoError(t, err)

	title := "Dune Messiah"
	require.NoError(t, svc.UpdateBook(ctx, id, UpdateBookRequest{Title: &title}))

	b, err := svc.GetBook(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", b.Title)

	events, err := s.ListBookEvents(ctx, id)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, domain.TargetBookTitle, events[1].Target)
	assert.Equal(t, domain.EventUpdated, events[1].Type)
	assert.Equal(t, `Title was changed to "Dune Messiah"`, events[1].Description)
}

func TestUpdateBookNoFields(t *testing.T) {
	svc, _ := setupBookTest(t)
	ctx := context.Background()

	id, err := svc.CreateBook(ctx, CreateBookRequest{
		Title:       "Dune",
		PublishDate: testDate(t, "1965-08-01"),
	})
	require.NoError(t, err)

	err = svc.UpdateBook(ctx, id, UpdateBookRequest{})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

func TestUpdateBookNoChanges(t *testing.T) {
	svc, s := setupBookTest(t)
	ctx := context.Background()

	id, err := svc.CreateBook(ctx, CreateBookRequest{
		Title:       "Dune",
		PublishDate: testDate(t, "1965-08-01"),
		Authors:     []string{"Frank Herbert"},
	})
	require.NoError(t, err)

	// Same title as current: detected as no change, no event appended.
	title := "Dune"
	require.NoError(t, svc.UpdateBook(ctx, id, UpdateBookRequest{Title: &title}))

	events, err := s.ListBookEvents(ctx, id)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestUpdateBookNotFound(t *testing.T) {
	svc, _ := setupBookTest(t)

	title := "Ghost"
	err := svc.UpdateBook(context.Background(), 42, UpdateBookRequest{Title: &title})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestUpdateBookAuthors(t *testing.T) {
	svc, s := setupBookTest(t)
	ctx := context.Background()

	id, err := svc.CreateBook(ctx, CreateBookRequest{
		Title:       "Dune",
		PublishDate: testDate(t, "1965-08-01"),
		Authors:     []string{"Frank Herbert", "Kevin J. Anderson"},
	})
	require.NoError(t, err)

	require.NoError(t, svc.UpdateBook(ctx, id, UpdateBookRequest{
		Authors: []string{"Kevin J. Anderson", "Brian Herbert"},
	}))

	b, err := svc.GetBook(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"Kevin J. Anderson", "Brian Herbert"}, b.AuthorNames())

	events, err := s.ListBookEvents(ctx, id)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, `Author "Frank Herbert" was removed`, events[1].Description)
	assert.Equal(t, `Author "Brian Herbert" was added`, events[2].Description)
}

func TestUpdateBookBlankAuthor(t *testing.T) {
	svc, _ := setupBookTest(t)
	ctx := context.Background()

	id, err := svc.CreateBook(ctx, CreateBookRequest{
		Title:       "Dune",
		PublishDate: testDate(t, "1965-08-01"),
		Authors:     []string{"Frank Herbert"},
	})
	require.NoError(t, err)

	err = svc.UpdateBook(ctx, id, UpdateBookRequest{Authors: []string{"  "}})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

func TestUpdateBookNilAuthorsLeavesThemUntouched(t *testing.T) {
	svc, _ := setupBookTest(t)
	ctx := context.Background()

	id, err := svc.CreateBook(ctx, CreateBookRequest{
		Title:       "Dune",
		PublishDate: testDate(t, "1965-08-01"),
		Authors:     []string{"Frank Herbert"},
	})
	require.NoError(t, err)

	desc := "Reissued edition"
	require.NoError(t, svc.UpdateBook(ctx, id, UpdateBookRequest{Description: &desc}))

	b, err := svc.GetBook(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"Frank Herbert"}, b.AuthorNames())
}

func TestListBooks(t *testing.T) {
	svc, _ := setupBookTest(t)
	ctx := context.Background()

	seed := []CreateBookRequest{
		{Title: "Hyperion", PublishDate: testDate(t, "1989-05-26"), Authors: []string{"Dan Simmons"}},
		{Title: "Dune", PublishDate: testDate(t, "1965-08-01"), Authors: []string{"Frank Herbert"}},
		{Title: "Neuromancer", PublishDate: testDate(t, "1984-07-01"), Authors: []string{"William Gibson"}},
	}
	for _, req := range seed {
		_, err := svc.CreateBook(ctx, req)
		require.NoError(t, err)
	}

	// Default order is publish date ascending.
	books, err := svc.ListBooks(ctx, querying.NewBookQuery())
	require.NoError(t, err)
	require.Len(t, books, 3)
	assert.Equal(t, "Dune", books[0].Title)
	assert.Equal(t, "Neuromancer", books[1].Title)
	assert.Equal(t, "Hyperion", books[2].Title)

	// Author filter.
	q := querying.NewBookQuery()
	q.Author = "gibson"
	books, err = svc.ListBooks(ctx, q)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Neuromancer", books[0].Title)
}

func TestListBooksInvalidQuery(t *testing.T) {
	svc, _ := setupBookTest(t)

	q := querying.NewBookQuery()
	q.Page = 0
	_, err := svc.ListBooks(context.Background(), q)
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
}

func TestUpdateBookSharedTimestamp(t *testing.T) {
	svc, s := setupBookTest(t)
	ctx := context.Background()

	id, err := svc.CreateBook(ctx, CreateBookRequest{
		Title:       "Dune",
		Description: "Old",
		PublishDate: testDate(t, "1965-08-01"),
		Authors:     []string{"Frank Herbert"},
	})
	require.NoError(t, err)

	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	title := "Dune Messiah"
	desc := "New"
	require.NoError(t, svc.UpdateBook(ctx, id, UpdateBookRequest{
		Title:       &title,
		Description: &desc,
		Authors:     []string{"Brian Herbert"},
	}))

	events, err := s.ListBookEvents(ctx, id)
	require.NoError(t, err)
	require.Len(t, events, 5)

	// All events of one update share the same timestamp, in emission order:
	// title, description, author removal, author addition.
	for _, e := range events[1:] {
		assert.True(t, e.OccuredAt.Equal(fixed))
	}
	assert.Equal(t, domain.TargetBookTitle, events[1].Target)
	assert.Equal(t, domain.TargetBookDescription, events[2].Target)
	assert.Equal(t, domain.TargetBookAuthor, events[3].Target)
	assert.Equal(t, domain.EventDeleted, events[3].Type)
	assert.Equal(t, domain.TargetBookAuthor, events[4].Target)
	assert.Equal(t, domain.EventCreated, events[4].Type)
}

func TestListBooksStoreFailure(t *testing.T) {
	svc, s := setupBookTest(t)
	ctx := context.Background()

	require.NoError(t, s.Close())

	_, err := svc.ListBooks(ctx, querying.NewBookQuery())
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrInternal),
		"storage failures surface as internal errors")
}
