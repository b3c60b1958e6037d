package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Aglena/books-history-api/internal/domain"
)

// scanBook scans a sql.Row (or sql.Rows via its Scan method) into a domain.Book.
func scanBook(scanner interface{ Scan(dest ...any) error }) (*domain.Book, error) {
	var (
		b           domain.Book
		publishDate string
	)

	if err := scanner.Scan(&b.ID, &b.Title, &b.Description, &publishDate); err != nil {
		return nil, err
	}

	d, err := domain.ParseDate(publishDate)
	if err != nil {
		return nil, fmt.Errorf("parse publish date: %w", err)
	}
	b.PublishDate = d

	return &b, nil
}

// CreateBook inserts a book together with its authors and the creation event
// in a single transaction. Authors are resolved by name: an existing author
// with the same name is linked, otherwise a new row is created. The new book
// ID is returned and also written back to the book.
func (s *Store) CreateBook(ctx context.Context, b *domain.Book, event *domain.BookEvent) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO books (title, description, publish_date) VALUES (?, ?, ?)`,
		b.Title, b.Description, b.PublishDate.String(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert book: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	b.ID = id

	for i := range b.Authors {
		author, err := findOrCreateAuthorTx(ctx, tx, b.Authors[i].Name)
		if err != nil {
			return 0, err
		}
		b.Authors[i] = author
		if err := attachAuthorTx(ctx, tx, id, author.ID); err != nil {
			return 0, err
		}
	}

	event.BookID = id
	if err := insertEventTx(ctx, tx, event); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// GetBook returns a book with its authors.
// Returns ErrNotFound if the book does not exist.
func (s *Store) GetBook(ctx context.Context, id int64) (*domain.Book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, description, publish_date FROM books WHERE id = ?`, id)

	b, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}

	authors, err := s.bookAuthors(ctx, id)
	if err != nil {
		return nil, err
	}
	b.Authors = authors
	return b, nil
}

// BookExists reports whether a book with the given ID exists.
func (s *Store) BookExists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM books WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("book exists: %w", err)
	}
	return true, nil
}

// ListBooks returns all books with their authors.
func (s *Store) ListBooks(ctx context.Context) ([]*domain.Book, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, description, publish_date FROM books ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	var books []*domain.Book
	byID := make(map[int64]*domain.Book)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, b)
		byID[b.ID] = b
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	// Load all author links in one pass. Join-table rowid order preserves
	// the order authors were attached in.
	authorRows, err := s.db.QueryContext(ctx,
		`SELECT ba.book_id, a.id, a.name
		 FROM book_authors ba
		 JOIN authors a ON a.id = ba.author_id
		 ORDER BY ba.rowid`)
	if err != nil {
		return nil, fmt.Errorf("list book authors: %w", err)
	}
	defer authorRows.Close()

	for authorRows.Next() {
		var (
			bookID int64
			a      domain.Author
		)
		if err := authorRows.Scan(&bookID, &a.ID, &a.Name); err != nil {
			return nil, fmt.Errorf("scan author: %w", err)
		}
		if b, ok := byID[bookID]; ok {
			b.Authors = append(b.Authors, a)
		}
	}
	if err := authorRows.Err(); err != nil {
		return nil, fmt.Errorf("list book authors: %w", err)
	}

	return books, nil
}

// UpdateBook persists the book's current fields, applies the author changes
// and appends the change events, all in a single transaction. Removed authors
// are deleted entirely once no other book references them.
func (s *Store) UpdateBook(ctx context.Context, b *domain.Book, changes domain.ChangeSet) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE books SET title = ?, description = ?, publish_date = ? WHERE id = ?`,
		b.Title, b.Description, b.PublishDate.String(), b.ID,
	)
	if err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	for _, author := range changes.RemovedAuthors {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM book_authors WHERE book_id = ? AND author_id = ?`,
			b.ID, author.ID); err != nil {
			return fmt.Errorf("detach author: %w", err)
		}
		// With this book detached, a zero reference count means the author
		// belongs to no other book and can be removed.
		var refs int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM book_authors WHERE author_id = ?`,
			author.ID).Scan(&refs); err != nil {
			return fmt.Errorf("count author refs: %w", err)
		}
		if refs == 0 {
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM authors WHERE id = ?`, author.ID); err != nil {
				return fmt.Errorf("delete orphan author: %w", err)
			}
		}
	}

	for _, name := range changes.AddedAuthorNames {
		author, err := findOrCreateAuthorTx(ctx, tx, name)
		if err != nil {
			return err
		}
		if err := attachAuthorTx(ctx, tx, b.ID, author.ID); err != nil {
			return err
		}
	}

	for _, event := range changes.Events {
		if err := insertEventTx(ctx, tx, event); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// bookAuthors loads the authors linked to a book in attachment order.
func (s *Store) bookAuthors(ctx context.Context, bookID int64) ([]domain.Author, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT a.id, a.name
		 FROM book_authors ba
		 JOIN authors a ON a.id = ba.author_id
		 WHERE ba.book_id = ?
		 ORDER BY ba.rowid`, bookID)
	if err != nil {
		return nil, fmt.Errorf("book authors: %w", err)
	}
	defer rows.Close()

	var authors []domain.Author
	for rows.Next() {
		var a domain.Author
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return nil, fmt.Errorf("scan author: %w", err)
		}
		authors = append(authors, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("book authors: %w", err)
	}
	return authors, nil
}

// findOrCreateAuthorTx resolves an author by exact name, creating the row if
// it does not exist yet.
func findOrCreateAuthorTx(ctx context.Context, tx *sql.Tx, name string) (domain.Author, error) {
	var a domain.Author
	err := tx.QueryRowContext(ctx,
		`SELECT id, name FROM authors WHERE name = ?`, name).Scan(&a.ID, &a.Name)
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return domain.Author{}, fmt.Errorf("find author: %w", err)
	}

	res, err := tx.ExecContext(ctx, `INSERT INTO authors (name) VALUES (?)`, name)
	if err != nil {
		return domain.Author{}, fmt.Errorf("insert author: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Author{}, fmt.Errorf("last insert id: %w", err)
	}
	return domain.Author{ID: id, Name: name}, nil
}

// attachAuthorTx links an author to a book. Already linked pairs are ignored.
func attachAuthorTx(ctx context.Context, tx *sql.Tx, bookID, authorID int64) error {
	if _, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO book_authors (book_id, author_id) VALUES (?, ?)`,
		bookID, authorID); err != nil {
		return fmt.Errorf("attach author: %w", err)
	}
	return nil
}
