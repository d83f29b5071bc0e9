package library

import (
	"math"
	"time"

	"github.com/listenupapp/readinglog-server/internal/domain"
)

const topRatedLimit = 3

// ComputeStats aggregates the whole collection. now fixes the calendar used
// for the this-year and this-month buckets.
func ComputeStats(books []domain.Book, now time.Time) domain.Stats {
	return domain.Stats{
		Overview:       overview(books),
		ReadingMetrics: readingMetrics(books, now),
		Preferences:    preferences(books),
		Timeline:       timeline(books, now.Location()),
	}
}

func overview(books []domain.Book) domain.StatsOverview {
	o := domain.StatsOverview{TotalBooks: len(books)}
	for i := range books {
		switch books[i].Status {
		case domain.StatusRead:
			o.BooksRead++
		case domain.StatusReading:
			o.BooksReading++
		case domain.StatusToRead:
			o.BooksToRead++
		case domain.StatusAbandoned:
			o.BooksAbandoned++
		}
	}
	return o
}

func readingMetrics(books []domain.Book, now time.Time) domain.StatsReadingMetrics {
	var m domain.StatsReadingMetrics
	var paged, rated, ratingSum int

	year, month, _ := now.Date()
	for i := range books {
		b := &books[i]
		if b.Pages != nil {
			m.TotalPagesRead += *b.Pages
			paged++
		}
		if b.Rating != nil {
			ratingSum += *b.Rating
			rated++
		}

		y, mo, _ := b.CreatedAt.In(now.Location()).Date()
		if y == year {
			m.BooksThisYear++
			if mo == month {
				m.BooksThisMonth++
			}
		}
	}

	if paged > 0 {
		m.AveragePages = int(math.Round(float64(m.TotalPagesRead) / float64(paged)))
	}
	if rated > 0 {
		m.AverageRating = math.Round(float64(ratingSum)/float64(rated)*10) / 10
	}
	return m
}

func preferences(books []domain.Book) domain.StatsPreferences {
	genres := newTally()
	authors := newTally()
	top := make([]domain.TopRatedBook, 0, topRatedLimit)

	for i := range books {
		b := &books[i]
		if b.HasGenre() {
			genres.add(*b.Genre)
		}
		authors.add(b.Author)
		if b.Rating != nil && *b.Rating == 5 && len(top) < topRatedLimit {
			top = append(top, domain.TopRatedBook{Title: b.Title, Rating: *b.Rating})
		}
	}

	return domain.StatsPreferences{
		FavoriteGenre:  genres.leader(),
		FavoriteAuthor: authors.leader(),
		TopRatedBooks:  top,
	}
}

func timeline(books []domain.Book, loc *time.Location) domain.StatsTimeline {
	t := domain.StatsTimeline{MostProductiveDay: domain.NotAvailable}
	if len(books) == 0 {
		return t
	}

	first := books[0].CreatedAt
	last := books[len(books)-1].CreatedAt
	t.FirstBookAdded = &first
	t.LastBookAdded = &last

	days := newTally()
	for i := range books {
		days.add(books[i].CreatedAt.In(loc).Weekday().String())
	}
	t.MostProductiveDay = days.leader()
	return t
}

// tally counts keys and remembers first-seen order so ties resolve to the
// earliest key.
type tally struct {
	counts map[string]int
	order  []string
}

func newTally() *tally {
	return &tally{counts: make(map[string]int)}
}

func (t *tally) add(key string) {
	if _, seen := t.counts[key]; !seen {
		t.order = append(t.order, key)
	}
	t.counts[key]++
}

// leader returns the most frequent key, or N/A when nothing was counted.
func (t *tally) leader() string {
	best, bestCount := domain.NotAvailable, 0
	for _, key := range t.order {
		if c := t.counts[key]; c > bestCount {
			best, bestCount = key, c
		}
	}
	return best
}
