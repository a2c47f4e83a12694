package domain

import (
	"strconv"
	"strings"
)

// Book is the public projection of an indexed book. Missing upstream fields
// default to empty string or zero so downstream consumers never see nulls.
type Book struct {
	Title         string   `json:"title"`
	Author        string   `json:"author"`
	Description   string   `json:"description"`
	Categories    []string `json:"categories"`
	Rating        float64  `json:"rating"`
	RatingsCount  int      `json:"ratings_count"`
	Thumbnail     string   `json:"thumbnail"`
	PublishedYear int      `json:"published_year"`
}

// Candidate is a raw match returned by a retrieval sub-query, prior to
// ranking and deduplication.
type Candidate struct {
	ID    string
	Score float64
	Book  Book
}

// Hash field names under which book metadata is stored in the index.
const (
	FieldTitle         = "title"
	FieldAuthor        = "author"
	FieldDescription   = "description"
	FieldCategories    = "categories"
	FieldRating        = "rating"
	FieldRatingsCount  = "ratings_count"
	FieldThumbnail     = "thumbnail"
	FieldPublishedYear = "published_year"
)

// BookFromFields builds a Book from a flat field map. The upstream store is
// schema-loose: absent or malformed fields fall back to zero values.
func BookFromFields(fields map[string]string) Book {
	b := Book{
		Title:       fields[FieldTitle],
		Author:      fields[FieldAuthor],
		Description: fields[FieldDescription],
		Thumbnail:   fields[FieldThumbnail],
		Categories:  splitCategories(fields[FieldCategories]),
	}
	if v, err := strconv.ParseFloat(fields[FieldRating], 64); err == nil {
		b.Rating = v
	}
	if v, err := strconv.Atoi(fields[FieldRatingsCount]); err == nil {
		b.RatingsCount = v
	}
	if v, err := strconv.Atoi(fields[FieldPublishedYear]); err == nil {
		b.PublishedYear = v
	}
	return b
}

// splitCategories parses the comma-separated categories tag field.
// Always returns a non-nil slice so the JSON projection never emits null.
func splitCategories(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// DedupKey is the composite identity used to drop duplicate titles that were
// reached through both the metadata and the semantic path.
func (b Book) DedupKey() string {
	return strings.ToLower(strings.TrimSpace(b.Title)) + "\x00" + strings.ToLower(strings.TrimSpace(b.Author))
}
