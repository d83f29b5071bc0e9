package library

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/readinglog-server/internal/domain"
)

func TestComputeStats_Empty(t *testing.T) {
	s := ComputeStats(nil, baseTime)

	assert.Zero(t, s.Overview.TotalBooks)
	assert.Zero(t, s.ReadingMetrics.AveragePages)
	assert.Zero(t, s.ReadingMetrics.AverageRating)
	assert.Equal(t, domain.NotAvailable, s.Preferences.FavoriteGenre)
	assert.Equal(t, domain.NotAvailable, s.Preferences.FavoriteAuthor)
	assert.NotNil(t, s.Preferences.TopRatedBooks)
	assert.Empty(t, s.Preferences.TopRatedBooks)
	assert.Nil(t, s.Timeline.FirstBookAdded)
	assert.Nil(t, s.Timeline.LastBookAdded)
	assert.Equal(t, domain.NotAvailable, s.Timeline.MostProductiveDay)
}

func TestComputeStats_Fixture(t *testing.T) {
	books := fixture()
	s := ComputeStats(books, baseTime)

	assert.Equal(t, domain.StatsOverview{
		TotalBooks: 7, BooksRead: 2, BooksReading: 2, BooksToRead: 2, BooksAbandoned: 1,
	}, s.Overview)

	// pages: 412 + 474 + 249 + 444 + 937 = 2516 over 5 books
	assert.Equal(t, 2516, s.ReadingMetrics.TotalPagesRead)
	assert.Equal(t, 503, s.ReadingMetrics.AveragePages)
	// ratings: 5 + 4 + 5 + 2 + 3 + 5 = 24 over 6 books
	assert.InDelta(t, 4.0, s.ReadingMetrics.AverageRating, 1e-9)
	assert.Equal(t, 7, s.ReadingMetrics.BooksThisYear)
	assert.Equal(t, 7, s.ReadingMetrics.BooksThisMonth)

	// "Science Fiction" and "Classic" both appear twice; the first seen wins.
	assert.Equal(t, "Science Fiction", s.Preferences.FavoriteGenre)
	assert.Equal(t, "Frank Herbert", s.Preferences.FavoriteAuthor)
	assert.Equal(t, []domain.TopRatedBook{
		{Title: "Dune", Rating: 5},
		{Title: "Persuasion", Rating: 5},
		{Title: "Anathem", Rating: 5},
	}, s.Preferences.TopRatedBooks)

	require.NotNil(t, s.Timeline.FirstBookAdded)
	assert.Equal(t, books[0].CreatedAt, *s.Timeline.FirstBookAdded)
	assert.Equal(t, books[6].CreatedAt, *s.Timeline.LastBookAdded)
	assert.Equal(t, "Monday", s.Timeline.MostProductiveDay)
}

func TestComputeStats_AverageRatingRoundsToOneDecimal(t *testing.T) {
	books := []domain.Book{
		{Author: "A", Rating: intPtr(5)},
		{Author: "A", Rating: intPtr(4)},
		{Author: "A", Rating: intPtr(4)},
	}
	s := ComputeStats(books, baseTime)
	assert.InDelta(t, 4.3, s.ReadingMetrics.AverageRating, 1e-9)
}

func TestComputeStats_RecencyBuckets(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	books := []domain.Book{
		{Author: "A", CreatedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
		{Author: "A", CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{Author: "A", CreatedAt: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)},
	}

	s := ComputeStats(books, now)
	assert.Equal(t, 2, s.ReadingMetrics.BooksThisYear)
	assert.Equal(t, 1, s.ReadingMetrics.BooksThisMonth)
}

func TestComputeStats_TimelineUsesPositionNotChronology(t *testing.T) {
	newer := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	older := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	books := []domain.Book{
		{Author: "A", CreatedAt: newer},
		{Author: "B", CreatedAt: older},
	}

	s := ComputeStats(books, baseTime)
	assert.Equal(t, newer, *s.Timeline.FirstBookAdded)
	assert.Equal(t, older, *s.Timeline.LastBookAdded)
}

func TestComputeStats_TopRatedCapsAtThree(t *testing.T) {
	var books []domain.Book
	for _, title := range []string{"a", "b", "c", "d"} {
		books = append(books, domain.Book{Title: title, Author: "X", Rating: intPtr(5)})
	}

	s := ComputeStats(books, baseTime)
	require.Len(t, s.Preferences.TopRatedBooks, 3)
	assert.Equal(t, "c", s.Preferences.TopRatedBooks[2].Title)
}

func TestComputeStats_MostProductiveDay(t *testing.T) {
	// 2025-06-03 is a Tuesday, 2025-06-05 a Thursday.
	tue := time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC)
	thu := time.Date(2025, 6, 5, 10, 0, 0, 0, time.UTC)
	books := []domain.Book{
		{Author: "A", CreatedAt: tue},
		{Author: "A", CreatedAt: thu},
		{Author: "A", CreatedAt: thu.Add(time.Hour)},
	}

	assert.Equal(t, "Thursday", ComputeStats(books, baseTime).Timeline.MostProductiveDay)
}

func TestComputeStats_BlankGenreIsNoGenre(t *testing.T) {
	books := []domain.Book{
		{ID: "book-1", Title: "A", Author: "X", Genre: strPtr(""), Status: domain.StatusRead, CreatedAt: baseTime},
		{ID: "book-2", Title: "B", Author: "X", Genre: strPtr("   "), Status: domain.StatusRead, CreatedAt: baseTime},
	}

	s := ComputeStats(books, baseTime)
	assert.Equal(t, domain.NotAvailable, s.Preferences.FavoriteGenre)

	books = append(books, domain.Book{ID: "book-3", Title: "C", Author: "Y", Genre: strPtr("Poetry"), Status: domain.StatusToRead, CreatedAt: baseTime})
	s = ComputeStats(books, baseTime)
	assert.Equal(t, "Poetry", s.Preferences.FavoriteGenre)
}
