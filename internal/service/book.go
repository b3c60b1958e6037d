// Package service provides the business logic layer for managing books and
// their change history.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/Aglena/books-history-api/internal/domain"
	domainerrors "github.com/Aglena/books-history-api/internal/errors"
	"github.com/Aglena/books-history-api/internal/querying"
	"github.com/Aglena/books-history-api/internal/store"
	"github.com/Aglena/books-history-api/internal/validation"
)

// BookService orchestrates book operations.
type BookService struct {
	store     *store.Store
	logger    *slog.Logger
	validator *validation.Validator
	now       func() time.Time
}

// NewBookService creates a new book service.
func NewBookService(store *store.Store, logger *slog.Logger) *BookService {
	return &BookService{
		store:     store,
		logger:    logger,
		validator: validation.New(),
		now:       time.Now,
	}
}

// CreateBookRequest contains fields for creating a book.
type CreateBookRequest struct {
	Title       string      `json:"title" validate:"required,notblank"`
	Description string      `json:"description"`
	PublishDate domain.Date `json:"publish_date" validate:"required"`
	Authors     []string    `json:"authors" validate:"dive,notblank"`
}

// CreateBook creates a book with its authors and records the creation event.
// Author names are resolved find-or-create by exact name. Returns the new
// book's ID.
func (s *BookService) CreateBook(ctx context.Context, req CreateBookRequest) (int64, error) {
	if err := s.validator.Validate(req); err != nil {
		return 0, err
	}

	b := &domain.Book{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		PublishDate: req.PublishDate,
	}
	for _, name := range domain.NormalizeAuthorNames(req.Authors) {
		b.Authors = append(b.Authors, domain.Author{Name: name})
	}

	event := domain.NewCreatedEvent(b, s.now())

	id, err := s.store.CreateBook(ctx, b, event)
	if err != nil {
		return 0, domainerrors.Wrap(err, "create book failed")
	}

	s.logger.Info("book created", "id", id, "title", b.Title, "authors", len(b.Authors))
	return id, nil
}

// ListBooks returns the books matching the query, sorted and paginated.
func (s *BookService) ListBooks(ctx context.Context, q querying.BookQuery) ([]*domain.Book, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return nil, domainerrors.Wrap(err, "list books failed")
	}

	return querying.ApplyBooks(books, q), nil
}

// GetBook retrieves a single book by ID.
func (s *BookService) GetBook(ctx context.Context, id int64) (*domain.Book, error) {
	b, err := s.store.GetBook(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.NotFoundf("book with id %d not found", id)
	}
	if err != nil {
		return nil, domainerrors.Wrap(err, "get book failed")
	}
	return b, nil
}

// UpdateBookRequest contains the partial-update payload for a book.
// Nil fields are left untouched; a nil Authors slice means the author list
// was not provided, while an empty one removes all authors.
type UpdateBookRequest struct {
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	PublishDate *domain.Date `json:"publish_date"`
	Authors     []string     `json:"authors" validate:"dive,notblank"`
}

// UpdateBook applies a partial update to a book, recording one change event
// per field that actually changed. Authors removed from the book are deleted
// entirely once no other book references them.
func (s *BookService) UpdateBook(ctx context.Context, id int64, req UpdateBookRequest) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}

	fields := domain.UpdateFields{
		Title:       req.Title,
		Description: req.Description,
		PublishDate: req.PublishDate,
		Authors:     req.Authors,
	}
	if fields.Empty() {
		return domainerrors.Validation("update must specify at least one field")
	}

	b, err := s.store.GetBook(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domainerrors.NotFoundf("book with id %d not found", id)
	}
	if err != nil {
		return domainerrors.Wrap(err, "get book failed")
	}

	changes := b.ApplyUpdate(fields, s.now())
	if !changes.HasChanges() {
		return nil
	}

	if err := s.store.UpdateBook(ctx, b, changes); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFoundf("book with id %d not found", id)
		}
		return domainerrors.Wrap(err, "update book failed")
	}

	s.logger.Info("book updated", "id", id, "events", len(changes.Events))
	return nil
}
