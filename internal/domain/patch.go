package domain

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	domainerrors "github.com/listenupapp/readinglog-server/internal/errors"
)

// Nullable is a tri-state request field: absent (Set == false), explicit
// null (Set == true, Value == nil), or a value.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

// UnmarshalJSON records that the key was present and decodes its value.
func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// Some returns a Nullable holding v.
func Some[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: &v}
}

// Null returns a Nullable that explicitly clears the field.
func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

// BookPatch is the allow-list of attributes an update may change.
// Any other key in an update request has no field to land in and is dropped.
type BookPatch struct {
	Title  Nullable[string] `json:"title"`
	Author Nullable[string] `json:"author"`
	Genre  Nullable[string] `json:"genre"`
	Year   Nullable[int]    `json:"year"`
	Pages  Nullable[int]    `json:"pages"`
	Rating Nullable[int]    `json:"rating"`
	Status Nullable[string] `json:"status"`
	Notes  Nullable[string] `json:"notes"`
}

// DecodeBookPatch parses an update request body.
func DecodeBookPatch(data []byte) (BookPatch, error) {
	var p BookPatch
	if len(bytes.TrimSpace(data)) == 0 {
		return p, nil
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return BookPatch{}, domainerrors.Validationf("invalid request body: %v", err)
	}
	return p, nil
}

// Validate checks the patch before any field is applied.
func (p BookPatch) Validate() error {
	if p.Status.Set {
		if p.Status.Value == nil || !BookStatus(*p.Status.Value).IsValid() {
			return domainerrors.ValidationWithDetails("invalid status", map[string]any{
				"status":  "must be one of: to-read reading read abandoned",
				"allowed": AllStatuses,
			})
		}
	}
	if p.Title.Set && (p.Title.Value == nil || strings.TrimSpace(*p.Title.Value) == "") {
		return domainerrors.ValidationWithDetails("title cannot be empty", map[string]string{"title": "is required"})
	}
	if p.Author.Set && (p.Author.Value == nil || strings.TrimSpace(*p.Author.Value) == "") {
		return domainerrors.ValidationWithDetails("author cannot be empty", map[string]string{"author": "is required"})
	}
	return nil
}

// Apply copies the set fields onto b and stamps UpdatedAt.
// Call Validate first.
func (p BookPatch) Apply(b *Book, now time.Time) {
	if p.Title.Set {
		b.Title = strings.TrimSpace(*p.Title.Value)
	}
	if p.Author.Set {
		b.Author = strings.TrimSpace(*p.Author.Value)
	}
	if p.Genre.Set {
		b.Genre = NormalizeGenre(p.Genre.Value)
	}
	if p.Year.Set {
		b.Year = clonePtr(p.Year.Value)
	}
	if p.Pages.Set {
		b.Pages = clonePtr(p.Pages.Value)
	}
	if p.Rating.Set {
		b.Rating = clonePtr(p.Rating.Value)
	}
	if p.Status.Set {
		b.Status = BookStatus(*p.Status.Value)
	}
	if p.Notes.Set {
		if p.Notes.Value == nil {
			b.Notes = ""
		} else {
			b.Notes = *p.Notes.Value
		}
	}
	b.UpdatedAt = now
}

// Fields lists the names of the attributes present in the patch.
func (p BookPatch) Fields() []string {
	fields := make([]string, 0, 8)
	for _, f := range []struct {
		name string
		set  bool
	}{
		{"title", p.Title.Set},
		{"author", p.Author.Set},
		{"genre", p.Genre.Set},
		{"year", p.Year.Set},
		{"pages", p.Pages.Set},
		{"rating", p.Rating.Set},
		{"status", p.Status.Set},
		{"notes", p.Notes.Set},
	} {
		if f.set {
			fields = append(fields, f.name)
		}
	}
	return fields
}
