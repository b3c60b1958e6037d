// Package domain contains the core business entities and change-detection logic
// for the book history service.
package domain

import "strings"

// Book represents a book in the catalog.
//
// A book owns an append-only sequence of BookEvents (stored separately) and
// shares Authors with other books through a many-to-many relationship.
type Book struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	PublishDate Date     `json:"publish_date"`
	Authors     []Author `json:"authors"`
}

// Author is a shared, reference-counted entity. Names are globally unique;
// an author is deleted when the last book referencing it drops the reference.
type Author struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// AuthorNames returns the names of the book's authors in attachment order.
func (b *Book) AuthorNames() []string {
	names := make([]string, len(b.Authors))
	for i, a := range b.Authors {
		names[i] = a.Name
	}
	return names
}

// NormalizeAuthorNames trims each name and removes duplicates while
// preserving first-occurrence order.
func NormalizeAuthorNames(names []string) []string {
	if names == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(names))
	result := make([]string, 0, len(names))
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}
	return result
}
