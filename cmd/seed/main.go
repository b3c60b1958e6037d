// Package main provides a tool to seed the database with demo catalog data.
//
// This creates a small set of books with shared authors plus a history of
// change events, so the list, filter, and history endpoints have something
// to show on a fresh install. Seeding is idempotent: if the database already
// contains books, nothing is written.
//
// Usage:
//
//	DB_PATH=bookhistory.db go run ./cmd/seed
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/Aglena/books-history-api/internal/domain"
	"github.com/Aglena/books-history-api/internal/store"
)

// seedBook describes one demo book plus its follow-up history entry.
type seedBook struct {
	title       string
	description string
	publishDate domain.Date
	authors     []string

	// Offsets from now, in minutes, for the creation event and the
	// follow-up event. Staggered so the global history has a stable,
	// interleaved order.
	createdOffset  int
	followupOffset int
	followup       func(b *domain.Book, at time.Time) *domain.BookEvent
}

func main() {
	flag.Parse()

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "bookhistory.db"
	}

	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := store.Open(dbPath, slog.New(slog.NewTextHandler(os.Stderr, nil)))
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	existing, err := s.ListBooks(ctx)
	if err != nil {
		log.Fatalf("Failed to list books: %v", err)
	}
	if len(existing) > 0 {
		fmt.Printf("Database already contains %d books, skipping seed\n", len(existing))
		return
	}

	now := time.Now().UTC()
	created := 0

	for _, sb := range demoBooks() {
		book := &domain.Book{
			Title:       sb.title,
			Description: sb.description,
			PublishDate: sb.publishDate,
		}
		for _, name := range sb.authors {
			book.Authors = append(book.Authors, domain.Author{Name: name})
		}

		createdAt := now.Add(time.Duration(sb.createdOffset) * time.Minute)
		if _, err := s.CreateBook(ctx, book, domain.NewCreatedEvent(book, createdAt)); err != nil {
			log.Fatalf("Failed to create book %q: %v", sb.title, err)
		}

		followupAt := now.Add(time.Duration(sb.followupOffset) * time.Minute)
		if err := s.AppendEvent(ctx, sb.followup(book, followupAt)); err != nil {
			log.Fatalf("Failed to record event for %q: %v", sb.title, err)
		}

		fmt.Printf("  Created book: %s\n", sb.title)
		created++
	}

	fmt.Printf("\nSeeding complete! Created %d books\n", created)
}

// demoBooks returns the demo catalog. Five authors are shared across ten
// books so the orphan cleanup and author filter paths have shared references
// to work against.
func demoBooks() []seedBook {
	return []seedBook{
		{
			title:          "Refactoring for Humans (2nd Ed.)",
			description:    "Practical refactoring patterns and habits.",
			publishDate:    domain.NewDate(2025, time.March, 18),
			authors:        []string{"Alice Johnson"},
			createdOffset:  -120,
			followupOffset: -90,
			followup:       titleChanged,
		},
		{
			title:          "Orbit of Paper Planets",
			description:    "Light sci-fi about origami-coded messages.",
			publishDate:    domain.NewDate(2026, time.January, 9),
			authors:        []string{"Bob Smith"},
			createdOffset:  -110,
			followupOffset: -80,
			followup:       descriptionUpdated,
		},
		{
			title:          "Gardens of Late Winter",
			description:    "Essays on winter landscapes and patience.",
			publishDate:    domain.NewDate(2023, time.December, 5),
			authors:        []string{"Clara Nguyen"},
			createdOffset:  -100,
			followupOffset: -70,
			followup:       publishDateChanged,
		},
		{
			title:          "Five-Minute Dinners, One Pan",
			description:    "Fast weeknight recipes with minimal cleanup.",
			publishDate:    domain.NewDate(2022, time.June, 21),
			authors:        []string{"Emma Rossi"},
			createdOffset:  -95,
			followupOffset: -60,
			followup:       authorAdded("Alice Johnson"),
		},
		{
			title:          "The Mistelbach Ledger",
			description:    "A novel about an archivist and a hidden ledger.",
			publishDate:    domain.NewDate(2024, time.September, 12),
			authors:        []string{"Dan Novak"},
			createdOffset:  -90,
			followupOffset: -55,
			followup:       authorRemoved("Dan Novak"),
		},
		{
			title:          "Clean APIs, Calm Minds",
			description:    "API design for maintainable systems.",
			publishDate:    domain.NewDate(2024, time.February, 2),
			authors:        []string{"Alice Johnson", "Bob Smith"},
			createdOffset:  -85,
			followupOffset: -50,
			followup:       titleChanged,
		},
		{
			title:          "SQLite in Practice",
			description:    "Hands-on guide to SQLite for small services.",
			publishDate:    domain.NewDate(2021, time.October, 11),
			authors:        []string{"Clara Nguyen"},
			createdOffset:  -80,
			followupOffset: -45,
			followup:       descriptionUpdated,
		},
		{
			title:          "The Pragmatic Interview",
			description:    "How to present engineering trade-offs clearly.",
			publishDate:    domain.NewDate(2025, time.August, 20),
			authors:        []string{"Dan Novak", "Emma Rossi"},
			createdOffset:  -75,
			followupOffset: -40,
			followup:       publishDateChanged,
		},
		{
			title:          "Tales from the Build Server",
			description:    "Short stories about CI, failures, and fixes.",
			publishDate:    domain.NewDate(2020, time.April, 7),
			authors:        []string{"Bob Smith"},
			createdOffset:  -70,
			followupOffset: -35,
			followup:       titleChanged,
		},
		{
			title:          "Domain Language Matters",
			description:    "Why naming shapes architecture and code.",
			publishDate:    domain.NewDate(2023, time.May, 30),
			authors:        []string{"Alice Johnson", "Clara Nguyen"},
			createdOffset:  -65,
			followupOffset: -30,
			followup:       authorAdded("Emma Rossi"),
		},
	}
}

func titleChanged(b *domain.Book, at time.Time) *domain.BookEvent {
	return &domain.BookEvent{
		BookID:      b.ID,
		OccuredAt:   at,
		Target:      domain.TargetBookTitle,
		Type:        domain.EventUpdated,
		Description: fmt.Sprintf("Title was changed to %q", b.Title),
	}
}

func descriptionUpdated(b *domain.Book, at time.Time) *domain.BookEvent {
	return &domain.BookEvent{
		BookID:      b.ID,
		OccuredAt:   at,
		Target:      domain.TargetBookDescription,
		Type:        domain.EventUpdated,
		Description: "Description was updated",
	}
}

func publishDateChanged(b *domain.Book, at time.Time) *domain.BookEvent {
	return &domain.BookEvent{
		BookID:      b.ID,
		OccuredAt:   at,
		Target:      domain.TargetBookPublishDate,
		Type:        domain.EventUpdated,
		Description: fmt.Sprintf("Publish date was changed to %q", b.PublishDate),
	}
}

func authorAdded(name string) func(*domain.Book, time.Time) *domain.BookEvent {
	return func(b *domain.Book, at time.Time) *domain.BookEvent {
		return &domain.BookEvent{
			BookID:      b.ID,
			OccuredAt:   at,
			Target:      domain.TargetBookAuthor,
			Type:        domain.EventCreated,
			Description: fmt.Sprintf("Author %q was added", name),
		}
	}
}

func authorRemoved(name string) func(*domain.Book, time.Time) *domain.BookEvent {
	return func(b *domain.Book, at time.Time) *domain.BookEvent {
		return &domain.BookEvent{
			BookID:      b.ID,
			OccuredAt:   at,
			Target:      domain.TargetBookAuthor,
			Type:        domain.EventDeleted,
			Description: fmt.Sprintf("Author %q was removed", name),
		}
	}
}
