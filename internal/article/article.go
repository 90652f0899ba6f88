// Package article defines the board's Article entity and the rules every
// other package shares for identity, ordering and decoding.
package article

import (
	"sort"
	"time"
)

type Article struct {
	ID        int64
	Title     string
	Author    string
	Content   string
	Category  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Draft is the payload for creating an article. The server assigns the
// id and timestamps.
type Draft struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

// Patch holds the fields of a partial update. Nil fields are left out of
// the request body.
type Patch struct {
	Title    *string `json:"title,omitempty"`
	Author   *string `json:"author,omitempty"`
	Content  *string `json:"content,omitempty"`
	Category *string `json:"category,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Author == nil && p.Content == nil && p.Category == nil
}

// Diff returns a Patch holding only the fields of edited that differ
// from orig.
func Diff(orig Article, edited Draft) Patch {
	var p Patch
	if edited.Title != orig.Title {
		p.Title = &edited.Title
	}
	if edited.Author != orig.Author {
		p.Author = &edited.Author
	}
	if edited.Content != orig.Content {
		p.Content = &edited.Content
	}
	if edited.Category != orig.Category {
		p.Category = &edited.Category
	}
	return p
}

// DraftOf returns the editable fields of a.
func DraftOf(a Article) Draft {
	return Draft{Title: a.Title, Author: a.Author, Content: a.Content, Category: a.Category}
}

// Equal compares every field, timestamps by instant.
func Equal(a, b Article) bool {
	return a.ID == b.ID &&
		a.Title == b.Title &&
		a.Author == b.Author &&
		a.Content == b.Content &&
		a.Category == b.Category &&
		a.CreatedAt.Equal(b.CreatedAt) &&
		a.UpdatedAt.Equal(b.UpdatedAt)
}

// SortNewestFirst orders list by CreatedAt descending in place. Entries
// with the same CreatedAt keep their relative order.
func SortNewestFirst(list []Article) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
}
