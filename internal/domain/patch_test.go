package domain

import (
	"testing"
	"time"

	domainerrors "github.com/listenupapp/readinglog-server/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func sampleBook() Book {
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return Book{
		ID:        "book-1",
		Title:     "Dune",
		Author:    "Herbert",
		Genre:     ptr("Science Fiction"),
		Year:      ptr(1965),
		Status:    StatusToRead,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestDecodeBookPatch_TriState(t *testing.T) {
	p, err := DecodeBookPatch([]byte(`{"genre": null, "rating": 4}`))
	require.NoError(t, err)

	assert.False(t, p.Title.Set, "absent key stays unset")
	assert.True(t, p.Genre.Set)
	assert.Nil(t, p.Genre.Value, "explicit null clears")
	require.True(t, p.Rating.Set)
	assert.Equal(t, 4, *p.Rating.Value)
	assert.Equal(t, []string{"genre", "rating"}, p.Fields())
}

func TestDecodeBookPatch_DropsUnknownFields(t *testing.T) {
	p, err := DecodeBookPatch([]byte(`{"status":"read","id":"book-evil","createdAt":"2001-01-01T00:00:00Z","isbn":"123"}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"status"}, p.Fields())
}

func TestDecodeBookPatch_EmptyBody(t *testing.T) {
	p, err := DecodeBookPatch(nil)
	require.NoError(t, err)
	assert.Empty(t, p.Fields())
}

func TestDecodeBookPatch_Malformed(t *testing.T) {
	_, err := DecodeBookPatch([]byte(`{"year":"nineteen"}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestBookPatch_Validate(t *testing.T) {
	tests := []struct {
		name    string
		patch   BookPatch
		wantErr bool
	}{
		{"empty patch", BookPatch{}, false},
		{"valid status", BookPatch{Status: Some("reading")}, false},
		{"bogus status", BookPatch{Status: Some("bogus")}, true},
		{"null status", BookPatch{Status: Null[string]()}, true},
		{"blank title", BookPatch{Title: Some("   ")}, true},
		{"null author", BookPatch{Author: Null[string]()}, true},
		{"clear optional fields", BookPatch{Genre: Null[string](), Rating: Null[int]()}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.patch.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, domainerrors.ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBookPatch_Apply(t *testing.T) {
	b := sampleBook()
	now := b.CreatedAt.Add(time.Hour)

	p := BookPatch{
		Status: Some(string(StatusReading)),
		Genre:  Null[string](),
		Pages:  Some(412),
		Notes:  Some("re-read"),
	}
	require.NoError(t, p.Validate())
	p.Apply(&b, now)

	assert.Equal(t, StatusReading, b.Status)
	assert.Nil(t, b.Genre)
	require.NotNil(t, b.Pages)
	assert.Equal(t, 412, *b.Pages)
	assert.Equal(t, "re-read", b.Notes)
	assert.Equal(t, "Dune", b.Title)
	assert.Equal(t, "Herbert", b.Author)
	assert.Equal(t, 1965, *b.Year)
	assert.Equal(t, now, b.UpdatedAt)
	assert.Equal(t, now.Add(-time.Hour), b.CreatedAt)
}

func TestBookPatch_ApplyDoesNotAlias(t *testing.T) {
	b := sampleBook()
	p := BookPatch{Rating: Some(3)}
	p.Apply(&b, time.Now())

	*p.Rating.Value = 5
	assert.Equal(t, 3, *b.Rating)
}

func TestBookPatch_ApplyBlankGenreClears(t *testing.T) {
	b := sampleBook()
	require.NotNil(t, b.Genre)

	BookPatch{Genre: Some("")}.Apply(&b, time.Now())
	assert.Nil(t, b.Genre)
	assert.False(t, b.HasGenre())
}
