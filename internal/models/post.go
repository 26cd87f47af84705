package models

import "time"

// Post is an article document served by the content provider.
// Content carries rendered HTML, Excerpt the first paragraph of plain text.
type Post struct {
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Content   string    `json:"content,omitempty"`
	Excerpt   string    `json:"excerpt,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}
