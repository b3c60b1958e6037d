package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Aglena/books-history-api/internal/domain"
)

// insertEventTx appends a change event inside an open transaction and writes
// the generated ID back to the event.
func insertEventTx(ctx context.Context, tx *sql.Tx, event *domain.BookEvent) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO book_events (book_id, occured_at, target, type, description)
		 VALUES (?, ?, ?, ?, ?)`,
		event.BookID, formatTime(event.OccuredAt), string(event.Target),
		string(event.Type), event.Description,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	event.ID = id
	return nil
}

// AppendEvent records a single change event in its own transaction. Book
// updates write their events through UpdateBook instead; this is for callers
// that append history without touching the book row, such as the seed tool.
func (s *Store) AppendEvent(ctx context.Context, event *domain.BookEvent) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := insertEventTx(ctx, tx, event); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ListEvents returns all change events across all books.
func (s *Store) ListEvents(ctx context.Context) ([]*domain.BookEvent, error) {
	return s.queryEvents(ctx,
		`SELECT id, book_id, occured_at, target, type, description
		 FROM book_events ORDER BY id`)
}

// ListBookEvents returns all change events recorded for a single book.
func (s *Store) ListBookEvents(ctx context.Context, bookID int64) ([]*domain.BookEvent, error) {
	return s.queryEvents(ctx,
		`SELECT id, book_id, occured_at, target, type, description
		 FROM book_events WHERE book_id = ? ORDER BY id`, bookID)
}

func (s *Store) queryEvents(ctx context.Context, query string, args ...any) ([]*domain.BookEvent, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []*domain.BookEvent
	for rows.Next() {
		var (
			e         domain.BookEvent
			occuredAt string
			target    string
			eventType string
		)
		if err := rows.Scan(&e.ID, &e.BookID, &occuredAt, &target, &eventType, &e.Description); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.OccuredAt, err = parseTime(occuredAt)
		if err != nil {
			return nil, fmt.Errorf("parse event time: %w", err)
		}
		e.Target = domain.EventTarget(target)
		e.Type = domain.EventType(eventType)
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}
