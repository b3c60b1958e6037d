package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/Aglena/books-history-api/internal/domain"
	domainerrors "github.com/Aglena/books-history-api/internal/errors"
	"github.com/Aglena/books-history-api/internal/querying"
	"github.com/Aglena/books-history-api/internal/service"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createBook",
		Method:        http.MethodPost,
		Path:          "/api/v1/books",
		Summary:       "Create book",
		Description:   "Creates a new book with its authors and records the creation event",
		Tags:          []string{"Books"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "listBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books",
		Summary:     "List books",
		Description: "Returns books matching the given filters, sorted and paginated",
		Tags:        []string{"Books"},
	}, s.handleListBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBook",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}",
		Summary:     "Get book",
		Description: "Returns a book by ID",
		Tags:        []string{"Books"},
	}, s.handleGetBook)

	huma.Register(s.api, huma.Operation{
		OperationID:   "updateBook",
		Method:        http.MethodPatch,
		Path:          "/api/v1/books/{id}",
		Summary:       "Update book",
		Description:   "Applies a partial update and records one event per changed field",
		Tags:          []string{"Books"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleUpdateBook)
}

// === DTOs ===

type CreateBookRequest struct {
	Title       string   `json:"title" doc:"Book title"`
	Description string   `json:"description,omitempty" doc:"Book description"`
	PublishDate string   `json:"publish_date" format:"date" doc:"Publish date (YYYY-MM-DD)"`
	Authors     []string `json:"authors,omitempty" doc:"Author names"`
}

type CreateBookInput struct {
	Body CreateBookRequest
}

type CreateBookResponse struct {
	ID int64 `json:"id" doc:"New book ID"`
}

type CreateBookOutput struct {
	Location string `header:"Location"`
	Body     CreateBookResponse
}

type ListBooksInput struct {
	TitleOrDescription string `query:"title_or_description" doc:"Substring match on title or description (case-insensitive)"`
	Author             string `query:"author" doc:"Substring match on any author's name (case-insensitive)"`
	PublishedFrom      string `query:"published_from" doc:"Inclusive publish date lower bound (YYYY-MM-DD)"`
	PublishedTo        string `query:"published_to" doc:"Inclusive publish date upper bound (YYYY-MM-DD)"`
	OrderBy            string `query:"order_by" doc:"Sort field: Title or PublishDate (default PublishDate)"`
	OrderDir           string `query:"order_dir" doc:"Sort direction: Asc or Desc (default Asc)"`
	Page               int    `query:"page" default:"1" doc:"1-based page number"`
	PageSize           int    `query:"page_size" default:"20" doc:"Items per page (max 100)"`
}

type BookResponse struct {
	Title       string   `json:"title" doc:"Book title"`
	Description string   `json:"description" doc:"Book description"`
	PublishDate string   `json:"publish_date" doc:"Publish date (YYYY-MM-DD)"`
	Authors     []string `json:"authors" doc:"Author names"`
}

type BooksResponse struct {
	Books []BookResponse `json:"books" doc:"Matching books"`
}

type ListBooksOutput struct {
	Body BooksResponse
}

type GetBookInput struct {
	ID int64 `path:"id" doc:"Book ID"`
}

type BookOutput struct {
	Body BookResponse
}

type UpdateBookRequest struct {
	Title       *string  `json:"title,omitempty" doc:"New title"`
	Description *string  `json:"description,omitempty" doc:"New description (empty string is ignored)"`
	PublishDate *string  `json:"publish_date,omitempty" format:"date" doc:"New publish date (YYYY-MM-DD)"`
	Authors     []string `json:"authors,omitempty" doc:"Full replacement author list; omit to leave authors untouched"`
}

type UpdateBookInput struct {
	ID   int64 `path:"id" doc:"Book ID"`
	Body UpdateBookRequest
}

type UpdateBookOutput struct{}

// === Handlers ===

func (s *Server) handleCreateBook(ctx context.Context, input *CreateBookInput) (*CreateBookOutput, error) {
	publishDate, err := parseDateParam(input.Body.PublishDate, "publish_date")
	if err != nil {
		return nil, err
	}

	id, err := s.books.CreateBook(ctx, service.CreateBookRequest{
		Title:       input.Body.Title,
		Description: input.Body.Description,
		PublishDate: *publishDate,
		Authors:     input.Body.Authors,
	})
	if err != nil {
		return nil, err
	}

	return &CreateBookOutput{
		Location: fmt.Sprintf("/api/v1/books/%d", id),
		Body:     CreateBookResponse{ID: id},
	}, nil
}

func (s *Server) handleListBooks(ctx context.Context, input *ListBooksInput) (*ListBooksOutput, error) {
	q, err := buildBookQuery(input)
	if err != nil {
		return nil, err
	}

	books, err := s.books.ListBooks(ctx, q)
	if err != nil {
		return nil, err
	}

	resp := make([]BookResponse, len(books))
	for i, b := range books {
		resp[i] = mapBookResponse(b)
	}

	return &ListBooksOutput{Body: BooksResponse{Books: resp}}, nil
}

func (s *Server) handleGetBook(ctx context.Context, input *GetBookInput) (*BookOutput, error) {
	b, err := s.books.GetBook(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: mapBookResponse(b)}, nil
}

func (s *Server) handleUpdateBook(ctx context.Context, input *UpdateBookInput) (*UpdateBookOutput, error) {
	req := service.UpdateBookRequest{
		Title:       input.Body.Title,
		Description: input.Body.Description,
		Authors:     input.Body.Authors,
	}
	if input.Body.PublishDate != nil {
		d, err := parseDateParam(*input.Body.PublishDate, "publish_date")
		if err != nil {
			return nil, err
		}
		req.PublishDate = d
	}

	if err := s.books.UpdateBook(ctx, input.ID, req); err != nil {
		return nil, err
	}

	return &UpdateBookOutput{}, nil
}

// === Mappers ===

func mapBookResponse(b *domain.Book) BookResponse {
	authors := b.AuthorNames()
	if authors == nil {
		authors = []string{}
	}
	return BookResponse{
		Title:       b.Title,
		Description: b.Description,
		PublishDate: b.PublishDate.String(),
		Authors:     authors,
	}
}

// buildBookQuery converts raw query parameters into a validated book query.
func buildBookQuery(input *ListBooksInput) (querying.BookQuery, error) {
	q := querying.NewBookQuery()
	q.TitleOrDescription = input.TitleOrDescription
	q.Author = input.Author

	if input.PublishedFrom != "" {
		d, err := parseDateParam(input.PublishedFrom, "published_from")
		if err != nil {
			return q, err
		}
		q.PublishedFrom = d
	}
	if input.PublishedTo != "" {
		d, err := parseDateParam(input.PublishedTo, "published_to")
		if err != nil {
			return q, err
		}
		q.PublishedTo = d
	}

	if input.OrderBy != "" {
		field, err := querying.ParseBookSortField(input.OrderBy)
		if err != nil {
			return q, err
		}
		q.OrderBy = field
	}
	order, err := querying.ParseSortOrder(input.OrderDir)
	if err != nil {
		return q, err
	}
	q.OrderDir = order

	// Absent params already carry their declared defaults; explicit zero or
	// out-of-range values are rejected by query validation.
	q.Page = input.Page
	q.PageSize = input.PageSize
	return q, nil
}

// parseDateParam parses a YYYY-MM-DD value, reporting the offending field on
// failure.
func parseDateParam(value, field string) (*domain.Date, error) {
	d, err := domain.ParseDate(value)
	if err != nil {
		return nil, domainerrors.Validationf("%s: %v", field, err)
	}
	return &d, nil
}
